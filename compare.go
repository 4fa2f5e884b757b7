package datagrid

import (
	"cmp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// CompareFunc compares two records and returns
// a negative number if a sorts before b,
// a positive number if a sorts after b,
// and zero if both are equal.
type CompareFunc func(a, b Record) int

// SortDirection is the direction of a SortSpec.
// The zero value SortNone clears sorting.
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Next returns the next direction of the
// 3-state cycle ascending → descending → unsorted.
func (d SortDirection) Next() SortDirection {
	switch d {
	case SortAsc:
		return SortDesc
	case SortDesc:
		return SortNone
	default:
		return SortAsc
	}
}

// SortSpec describes the active sorting of a Store.
type SortSpec struct {
	Field     string
	Direction SortDirection
	// Compare fully overrides the default
	// comparison heuristic if not nil.
	Compare CompareFunc
}

// ParseDecimal speculatively parses a currency or decimal
// string in Brazilian notation like "R$ 1.234,56".
//
// Values containing a minus sign are never numeric,
// so codes like "2024-001" keep sorting as text.
// Negative numbers given as strings sort as text as a consequence.
// The currency symbol "R$", spaces and '.' thousands separators
// are removed and ',' is used as decimal point.
func ParseDecimal(s string) (float64, bool) {
	if strings.Contains(s, "-") {
		return 0, false
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.Map(
		func(r rune) rune {
			switch r {
			case ' ', '\u00a0', '\t', '.':
				return -1
			case ',':
				return '.'
			}
			return r
		},
		s,
	)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CompareValues is the default sort comparison of two field values.
//
// Values containing a minus sign in their string form are compared
// as text, for native Go numbers as well as for strings.
// Other native Go numbers are compared numerically.
// Strings are parsed with ParseDecimal and compared numerically
// if both sides parse, otherwise the case folded strings are compared.
// Nil values compare like empty strings.
func CompareValues(a, b any) int {
	return compareValues(a, b, cases.Fold())
}

func compareValues(a, b any, fold cases.Caser) int {
	numA, okA := sortNumber(a)
	numB, okB := sortNumber(b)
	if okA && okB {
		return cmp.Compare(numA, numB)
	}
	return strings.Compare(fold.String(ValueString(a)), fold.String(ValueString(b)))
}

func sortNumber(val any) (float64, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case string:
		return ParseDecimal(v)
	case bool:
		return 0, false
	}
	str := ValueString(val)
	if strings.Contains(str, "-") {
		return 0, false
	}
	if num, ok := numericValue(val); ok {
		return num, true
	}
	return ParseDecimal(str)
}

// FieldCompare returns a CompareFunc
// comparing the field of records with CompareValues.
// The returned function is not safe for concurrent use.
func FieldCompare(field string) CompareFunc {
	fold := cases.Fold()
	return func(a, b Record) int {
		return compareValues(a[field], b[field], fold)
	}
}

// DateCompare returns a CompareFunc for date fields.
// Values that can be parsed as dates sort chronologically
// before values that can't, which are compared with CompareValues.
func DateCompare(field string) CompareFunc {
	fallback := FieldCompare(field)
	return func(a, b Record) int {
		ta, okA := timeValue(a[field])
		tb, okB := timeValue(b[field])
		switch {
		case okA && okB:
			return ta.Compare(tb)
		case okA:
			return -1
		case okB:
			return 1
		}
		return fallback(a, b)
	}
}

// ColumnCompare returns the CompareFunc to use for sorting by column:
// the column's Compare if set, DateCompare for date columns,
// or nil for the default heuristic.
func ColumnCompare(column *Column) CompareFunc {
	switch {
	case column.Compare != nil:
		return column.Compare
	case column.Type == TypeDate || column.Type == TypeDateTime:
		return DateCompare(column.Field)
	}
	return nil
}
