package dataset

import (
	"bytes"
	"context"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/csvtable"
	"github.com/domonda/go-datagrid/exceltable"
	"github.com/domonda/go-datagrid/sqltable"
)

// FromCSV parses CSV data with detection of its encoding and format.
// The first non empty row is used as header.
// A nil config means csvtable.NewDefaultFormatDetectionConfig().
func FromCSV(data []byte, config *csvtable.FormatDetectionConfig) (*Dataset, *csvtable.Format, error) {
	rows, format, err := csvtable.ParseDetectFormat(data, config)
	if err != nil {
		return nil, nil, err
	}
	datagrid.RemoveEmptyStringColumns(rows)
	return FromStrings(rows), format, nil
}

// FromExcel reads the sheet with sheetName from Excel data
// or the first sheet if sheetName is empty.
// The dataset is named after the sheet.
func FromExcel(data []byte, sheetName string) (*Dataset, error) {
	var sheet *exceltable.Sheet
	if sheetName == "" {
		s, err := exceltable.ReadFirstSheet(bytes.NewReader(data), false)
		if err != nil {
			return nil, err
		}
		sheet = s
	} else {
		sheets, err := exceltable.Read(bytes.NewReader(data), false)
		if err != nil {
			return nil, err
		}
		for _, s := range sheets {
			if s.Name == sheetName {
				sheet = s
				break
			}
		}
		if sheet == nil {
			return nil, exceltable.ErrSheetNotExist{SheetName: sheetName}
		}
	}
	ds := FromStrings(sheet.Rows, sheet.Header...)
	ds.Name = sheet.Name
	return ds, nil
}

// FromSQLRows scans all rows of a query result and closes them.
// Columns follow the column order of the result set.
func FromSQLRows(ctx context.Context, rows sqltable.Rows) (*Dataset, error) {
	fields, records, err := sqltable.ScanRecords(ctx, rows)
	if err != nil {
		return nil, err
	}
	columns := make([]*datagrid.Column, len(fields))
	for i, field := range fields {
		columns[i] = &datagrid.Column{
			Field:    field,
			Title:    datagrid.SpacePascalCase(field),
			Sortable: true,
		}
	}
	return &Dataset{Columns: columns, Records: records}, nil
}
