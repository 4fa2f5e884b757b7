package datagrid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Cell is a single value of a record
// rendered for a column.
type Cell struct {
	Record Record
	Column *Column
	// Row is the index of the record within the rendered page
	Row   int
	Value any
}

// NewCell returns the Cell of column for record.
func NewCell(record Record, column *Column, row int) *Cell {
	return &Cell{
		Record: record,
		Column: column,
		Row:    row,
		Value:  record[column.Field],
	}
}

// CellFormatter is an interface for formatting cell values as strings.
type CellFormatter interface {
	// FormatCell formats a cell as string
	// or returns a wrapped errors.ErrUnsupported error if
	// it doesn't support formatting the value of the cell.
	// The raw result indicates if the returned string
	// is in the raw format of the output (for example HTML)
	// or if it has to be escaped.
	FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error)
}

// CellFormatterFunc implements CellFormatter for a function.
type CellFormatterFunc func(ctx context.Context, cell *Cell) (str string, raw bool, err error)

func (f CellFormatterFunc) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return f(ctx, cell)
}

// RecordFormatterFunc is a custom column formatter
// that derives the displayed value from the whole record.
// The result is formatted with ValueString and escaped.
type RecordFormatterFunc func(record Record) any

func (f RecordFormatterFunc) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return ValueString(f(cell.Record)), false, nil
}

// PrintfCellFormatter implements CellFormatter by calling
// fmt.Sprintf with this type's string value as format.
type PrintfCellFormatter string

func (format PrintfCellFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	if cell.Value == nil {
		return "", false, errors.ErrUnsupported
	}
	return fmt.Sprintf(string(format), cell.Value), false, nil
}

// RawCellString implements CellFormatter by returning
// the underlying string as raw value.
type RawCellString string

func (rawStr RawCellString) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	return string(rawStr), true, nil
}

// FormatCell formats a cell using the following cascade:
//  1. The Formatter of the cell's column
//  2. The passed typeFormatters, which may be nil
//  3. ValueString of the cell value, not raw
//
// Formatters returning errors.ErrUnsupported pass on to the next step.
// Other errors and panics of a formatter are logged and the
// cell falls back to ValueString so that one bad value
// can't break the rendering of a whole table.
func FormatCell(ctx context.Context, cell *Cell, typeFormatters CellFormatter, logger *slog.Logger) (str string, raw bool) {
	if logger == nil {
		logger = slog.Default()
	}
	defer func() {
		if p := recover(); p != nil {
			logger.Warn("cell formatter panicked", "field", cell.Column.Field, "row", cell.Row, "panic", p)
			str, raw = ValueString(cell.Value), false
		}
	}()

	for _, f := range []CellFormatter{cell.Column.Formatter, typeFormatters} {
		if isNilFormatter(f) {
			continue
		}
		str, raw, err := f.FormatCell(ctx, cell)
		if err == nil {
			return str, raw
		}
		if !errors.Is(err, errors.ErrUnsupported) {
			logger.Warn("cell formatter failed", "field", cell.Column.Field, "row", cell.Row, "err", err)
			break
		}
	}
	return ValueString(cell.Value), false
}

func isNilFormatter(f CellFormatter) bool {
	switch x := f.(type) {
	case nil:
		return true
	case TypeFormatters:
		return x == nil
	case CellFormatterFunc:
		return x == nil
	case RecordFormatterFunc:
		return x == nil
	}
	return false
}
