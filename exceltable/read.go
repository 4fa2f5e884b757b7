// Package exceltable reads Excel workbooks (.xlsx, .xlsm, .xltm, .xltx)
// into string sheets that can be converted to datagrid records.
//
// Empty rows and empty columns at the edges of a sheet are removed,
// the first remaining row is used as header.
//
//	sheets, err := exceltable.ReadLocalFile("data.xlsx", false)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, sheet := range sheets {
//	    fmt.Printf("Sheet: %s, Rows: %d\n", sheet.Name, len(sheet.Rows))
//	}
package exceltable

import (
	"errors"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/domonda/go-datagrid"
)

// Sheet is the string table of a non empty worksheet.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Records returns the rows of the sheet as records
// with fields named after the header.
func (s *Sheet) Records() []datagrid.Record {
	return datagrid.StringRecords(s.Rows, s.Header...)
}

// Columns returns a column per header cell
// with the header text as title.
func (s *Sheet) Columns() []*datagrid.Column {
	fields := datagrid.StringFields(s.Header)
	columns := make([]*datagrid.Column, len(fields))
	for i, field := range fields {
		columns[i] = &datagrid.Column{Field: field, Title: field}
	}
	return columns
}

// ReadFirstSheet reads the first sheet from Excel data.
// If rawCellStrings is true, cell values are returned without
// the number format of the cell applied.
//
// ErrEmptySheet is returned if the sheet has no data.
func ReadFirstSheet(reader io.Reader, rawCellStrings bool) (sheet *Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return readFirstSheet(f, rawCellStrings)
}

// Read reads all non empty sheets from Excel data.
func Read(reader io.Reader, rawCellStrings bool) (sheets []*Sheet, err error) {
	f, e := excelize.OpenReader(reader)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return readSheets(f, rawCellStrings)
}

// ReadLocalFile reads all non empty sheets from a local Excel file.
func ReadLocalFile(filename string, rawCellStrings bool) (sheets []*Sheet, err error) {
	f, e := excelize.OpenFile(filename)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return readSheets(f, rawCellStrings)
}

// ReadLocalFileFirstSheet reads the first sheet from a local Excel file.
func ReadLocalFileFirstSheet(filename string, rawCellStrings bool) (sheet *Sheet, err error) {
	f, e := excelize.OpenFile(filename)
	if e != nil {
		return nil, e
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	return readFirstSheet(f, rawCellStrings)
}

func readFirstSheet(f *excelize.File, rawCellStrings bool) (*Sheet, error) {
	name := f.GetSheetName(0)
	if name == "" {
		return nil, ErrSheetNotExist{SheetName: "<FirstSheet>"} // Should never happen
	}
	return readSheet(f, name, rawCellStrings)
}

func readSheets(f *excelize.File, rawCellStrings bool) (sheets []*Sheet, err error) {
	for _, name := range f.GetSheetList() {
		sheet, err := readSheet(f, name, rawCellStrings)
		if err != nil {
			if errors.Is(err, ErrEmptySheet) {
				continue
			}
			return nil, err
		}
		sheets = append(sheets, sheet)
	}
	return sheets, nil
}

func readSheet(f *excelize.File, name string, rawCellStrings bool) (*Sheet, error) {
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: rawCellStrings})
	if err != nil {
		return nil, err
	}
	rows = datagrid.RemoveEmptyStringRows(rows)
	numCols := datagrid.RemoveEmptyStringColumns(rows)
	if len(rows) == 0 || numCols == 0 {
		return nil, ErrEmptySheet
	}
	header := rows[0]
	if len(header) < numCols {
		header = append(header, make([]string, numCols-len(header))...)
	}
	return &Sheet{
		Name:   name,
		Header: header,
		Rows:   rows[1:],
	}, nil
}
