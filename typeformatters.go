package datagrid

import (
	"context"
	"errors"
	"maps"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/dustin/go-humanize"
)

// Ensure that TypeFormatters implements CellFormatter
var _ CellFormatter = TypeFormatters(nil)

// TypeFormatters routes formatting to a CellFormatter
// by the ColumnType of the cell's column.
// Types without formatter return errors.ErrUnsupported.
type TypeFormatters map[ColumnType]CellFormatter

// DefaultTypeFormatters are the plain text
// formatters used for typed columns.
var DefaultTypeFormatters = TypeFormatters{
	TypeCurrency: CurrencyFormatter("R$"),
	TypeNumber:   NumberFormatter{Integer: "#.###,", Decimal: "#.###,##"},
	TypeDate:     DateFormatter("02/01/2006"),
	TypeDateTime: DateFormatter("02/01/2006 15:04"),
	TypeBoolean:  BooleanFormatter{True: "Sim", False: "Não"},
}

func (f TypeFormatters) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	if cell.Column == nil {
		return "", false, errors.ErrUnsupported
	}
	formatter, ok := f[cell.Column.Type]
	if !ok || formatter == nil {
		return "", false, errors.ErrUnsupported
	}
	return formatter.FormatCell(ctx, cell)
}

// With returns a copy of the formatters
// with formatter registered for the column type t.
// A nil formatter removes the type.
func (f TypeFormatters) With(t ColumnType, formatter CellFormatter) TypeFormatters {
	mod := maps.Clone(f)
	if mod == nil {
		mod = make(TypeFormatters)
	}
	if formatter == nil {
		delete(mod, t)
	} else {
		mod[t] = formatter
	}
	return mod
}

// CurrencyFormatter formats numeric values and currency strings
// in Brazilian notation prefixed with the string value
// of the formatter as currency symbol, like "R$ 1.234,50".
type CurrencyFormatter string

func (symbol CurrencyFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	num, ok := numericValue(cell.Value)
	if !ok {
		return "", false, errors.ErrUnsupported
	}
	return strings.TrimSpace(string(symbol) + " " + humanize.FormatFloat("#.###,##", num)), false, nil
}

// NumberFormatter formats numeric values and numeric strings
// using humanize.FormatFloat formats for integral
// and fractional numbers.
type NumberFormatter struct {
	Integer string
	Decimal string
}

func (f NumberFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	num, ok := numericValue(cell.Value)
	if !ok {
		return "", false, errors.ErrUnsupported
	}
	if num == float64(int64(num)) {
		return humanize.FormatFloat(f.Integer, num), false, nil
	}
	return humanize.FormatFloat(f.Decimal, num), false, nil
}

// DateFormatter formats time.Time values and date strings
// understood by dateparse with its string value as time layout.
type DateFormatter string

func (layout DateFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	t, ok := timeValue(cell.Value)
	if !ok {
		return "", false, errors.ErrUnsupported
	}
	return t.Format(string(layout)), false, nil
}

// BooleanFormatter formats bool values
// and the strings "true" and "false".
type BooleanFormatter struct {
	True  string
	False string
}

func (f BooleanFormatter) FormatCell(ctx context.Context, cell *Cell) (str string, raw bool, err error) {
	switch v := cell.Value.(type) {
	case bool:
		if v {
			return f.True, false, nil
		}
		return f.False, false, nil
	case string:
		switch strings.ToLower(v) {
		case "true":
			return f.True, false, nil
		case "false":
			return f.False, false, nil
		}
	}
	return "", false, errors.ErrUnsupported
}

// NumericValue returns the value of native Go numbers
// and of strings understood by ParseDecimal.
func NumericValue(val any) (float64, bool) {
	return numericValue(val)
}

func numericValue(val any) (float64, bool) {
	switch v := val.(type) {
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case string:
		return ParseDecimal(v)
	}
	return 0, false
}

func timeValue(val any) (time.Time, bool) {
	switch v := val.(type) {
	case time.Time:
		return v, !v.IsZero()
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, !v.IsZero()
	case string:
		if strings.TrimSpace(v) == "" {
			return time.Time{}, false
		}
		t, err := dateparse.ParseAny(v)
		return t, err == nil
	}
	return time.Time{}, false
}
