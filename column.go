package datagrid

import (
	"slices"
	"strconv"
	"strings"
)

// ColumnType is the data type tag of a column.
// It drives the default formatter, alignment and width preset.
type ColumnType string

const (
	TypeText     ColumnType = "text"
	TypeNumber   ColumnType = "number"
	TypeCurrency ColumnType = "currency"
	TypeDate     ColumnType = "date"
	TypeDateTime ColumnType = "datetime"
	TypeBadge    ColumnType = "badge"
	TypeBoolean  ColumnType = "boolean"
	TypeEmail    ColumnType = "email"

	// Locked types are sized by their fixed content
	TypeCheckbox ColumnType = "checkbox"
	TypeActions  ColumnType = "actions"
	TypeIcon     ColumnType = "icon"
)

// IsLocked returns true for column types
// whose width is never computed heuristically.
func (t ColumnType) IsLocked() bool {
	switch t {
	case TypeCheckbox, TypeActions, TypeIcon:
		return true
	}
	return false
}

// IsText returns true for TypeText and the empty type.
func (t ColumnType) IsText() bool {
	return t == TypeText || t == ""
}

// Align is the horizontal alignment of a column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// DefaultAlign returns the alignment used
// for a column of type t without explicit Align.
func DefaultAlign(t ColumnType) Align {
	switch t {
	case TypeNumber, TypeCurrency:
		return AlignRight
	case TypeDate, TypeDateTime, TypeBadge, TypeBoolean, TypeCheckbox, TypeIcon:
		return AlignCenter
	default:
		return AlignLeft
	}
}

// ActionsField is the sentinel field name of the actions pseudo-column.
const ActionsField = "actions"

// LockedFields are reserved field names of columns
// that are never sized heuristically.
var LockedFields = []string{ActionsField, "checkbox", "select", "settings"}

// Column describes the presentation of one record field.
//
// Columns are created once by the caller and treated as immutable
// for the lifetime of a component, except for the Hidden flag
// which is mutated by the column visibility feature.
type Column struct {
	Field    string     `yaml:"field"`
	Title    string     `yaml:"title"`
	Align    Align      `yaml:"align,omitempty"`
	Width    string     `yaml:"width,omitempty"`
	Type     ColumnType `yaml:"type,omitempty"`
	Sortable bool       `yaml:"sortable,omitempty"`
	Hidden   bool       `yaml:"hidden,omitempty"`
	Style    string     `yaml:"style,omitempty"`

	// Formatter overrides the type formatter of the column.
	Formatter CellFormatter `yaml:"-" hash:"ignore"`
	// Compare overrides the default sort comparison of the column.
	Compare CompareFunc `yaml:"-" hash:"ignore"`
}

// TitleOrField returns the Title or the Field if Title is empty.
func (c *Column) TitleOrField() string {
	if c.Title != "" {
		return c.Title
	}
	return c.Field
}

// Alignment returns Align or the DefaultAlign of the column type.
func (c *Column) Alignment() Align {
	if c.Align != "" {
		return c.Align
	}
	return DefaultAlign(c.Type)
}

// IsLocked returns true if the column is a checkbox,
// actions or icon column that is never sized heuristically.
func (c *Column) IsLocked() bool {
	return c.Type.IsLocked() || slices.Contains(LockedFields, strings.ToLower(c.Field))
}

// FixedWidth parses the configured Width as pixels.
// Supported are plain integers and integers with a "px" suffix,
// any other value results in false.
func (c *Column) FixedWidth() (px int, ok bool) {
	w := strings.TrimSpace(strings.ToLower(c.Width))
	w = strings.TrimSuffix(w, "px")
	if w == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(w), 64)
	if err != nil || f <= 0 {
		return 0, false
	}
	return int(f), true
}

// VisibilityFunc reports whether a field is currently visible.
// The predicate may change its answers over the lifetime of a component.
type VisibilityFunc func(field string) bool

// VisibleColumns returns the columns that are not hidden
// and visible according to isVisible, which may be nil.
// Columns listed in critical are always visible.
func VisibleColumns(columns []*Column, isVisible VisibilityFunc, critical ...string) []*Column {
	visible := make([]*Column, 0, len(columns))
	for _, col := range columns {
		if slices.Contains(critical, col.Field) {
			visible = append(visible, col)
			continue
		}
		if col.Hidden || (isVisible != nil && !isVisible(col.Field)) {
			continue
		}
		visible = append(visible, col)
	}
	return visible
}

// ColumnsFromTitles derives columns from the legacy
// shape of a field name to title mapping.
// The columns are ordered by the passed field order,
// fields missing in titles are skipped.
func ColumnsFromTitles(titles map[string]string, order []string) []*Column {
	columns := make([]*Column, 0, len(order))
	for _, field := range order {
		title, ok := titles[field]
		if !ok {
			continue
		}
		columns = append(columns, &Column{Field: field, Title: title, Sortable: true})
	}
	return columns
}

// ColumnsFromRecords derives sortable text columns from the
// fields of the first record, titled with SpacePascalCase.
// Fields are sorted by name because records have no field order.
func ColumnsFromRecords(records []Record) []*Column {
	if len(records) == 0 {
		return nil
	}
	fields := make([]string, 0, len(records[0]))
	for field := range records[0] {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	columns := make([]*Column, len(fields))
	for i, field := range fields {
		columns[i] = &Column{Field: field, Title: SpacePascalCase(field), Sortable: true}
	}
	return columns
}
