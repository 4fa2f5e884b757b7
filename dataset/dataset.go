// Package dataset normalizes caller data of various shapes and
// file formats into datagrid records with derived columns.
package dataset

import (
	"fmt"
	"log/slog"

	"github.com/domonda/go-datagrid"
)

// Dataset is a named slice of records together with
// columns in the field order of the source.
type Dataset struct {
	Name    string
	Columns []*datagrid.Column
	Records []datagrid.Record
}

// Fields returns the field names of the columns.
func (ds *Dataset) Fields() []string {
	fields := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		fields[i] = col.Field
	}
	return fields
}

// FromAny normalizes the legacy data shapes understood by
// datagrid.NormalizeRecords and slices of structs
// using DefaultFieldNaming. Unsupported shapes result in an
// empty dataset and a logged warning, never in an error.
// A nil logger means slog.Default().
func FromAny(data any, logger *slog.Logger) *Dataset {
	if logger == nil {
		logger = slog.Default()
	}
	records, ok := datagrid.NormalizeRecords(data)
	if !ok {
		if ds, err := FromStructs(data, &DefaultFieldNaming); err == nil {
			return ds
		}
		logger.Warn("unsupported dataset shape, using empty dataset", "type", fmt.Sprintf("%T", data))
	}
	return &Dataset{
		Columns: datagrid.ColumnsFromRecords(records),
		Records: records,
	}
}

// FromStrings converts a string table into a dataset.
// Empty rows are removed. If no header is passed,
// the first remaining row is used as header.
// Every record field holds a string.
func FromStrings(rows [][]string, header ...string) *Dataset {
	rows = datagrid.RemoveEmptyStringRows(rows)
	if len(header) == 0 && len(rows) > 0 {
		header = rows[0]
		rows = rows[1:]
	}
	fields := datagrid.StringFields(header)
	columns := make([]*datagrid.Column, len(fields))
	for i, field := range fields {
		columns[i] = &datagrid.Column{Field: field, Title: field, Sortable: true}
	}
	return &Dataset{
		Columns: columns,
		Records: datagrid.StringRecords(rows, fields...),
	}
}
