// Package htmltable renders pages of datagrid records as HTML tables
// and implements the table presentation component.
//
// The package is built around two types:
//   - Writer renders a View as HTML using html/template
//   - Table connects a datagrid.Store to a datagrid.Surface
//     and re-renders on every Store change
//
// Example usage:
//
//	table, err := htmltable.New(htmltable.Config{
//	    Columns:    columns,
//	    KeyField:   "ID",
//	    Selection:  true,
//	    Pagination: datagrid.Pagination{Enabled: true, PageSize: 25},
//	    Surface:    surface,
//	})
//	table.SetData(records)
package htmltable

import (
	"context"
	"html/template"
	"io"
	"log/slog"

	"github.com/domonda/go-datagrid"
)

// Default messages of the empty states
const (
	DefaultEmptyMessage     = "Nenhum registro encontrado"
	DefaultNoColumnsMessage = "Nenhuma coluna visível"
)

// View is everything a Writer needs to render one page.
type View struct {
	ContainerID string
	Caption     string
	KeyField    string
	// Columns are the visible columns in display order
	Columns  []*datagrid.Column
	Widths   datagrid.WidthMap
	Snapshot datagrid.Snapshot
	Sort     *datagrid.SortSpec
	// Selection is nil if selection is disabled
	Selection *datagrid.SelectionSet
	SelectAll datagrid.CheckState
	Actions   []datagrid.Action
	Toolbar   []datagrid.ToolbarItem
}

// Writer writes pages of records as HTML tables.
//
// Writer is immutable after creation - all With* methods return
// a new Writer instance with the modified configuration.
//
// HTML Escaping:
// By default, all cell values are HTML-escaped for safety.
// Formatters can return raw HTML by setting the raw return value to true.
type Writer struct {
	tableClass       string
	typeFormatters   datagrid.CellFormatter
	nilValue         template.HTML
	emptyMessage     string
	noColumnsMessage string
	templates        *template.Template
	logger           *slog.Logger
}

// NewWriter creates a new HTML table writer with
// DefaultTypeFormatters and the default Templates.
func NewWriter() *Writer {
	return &Writer{
		typeFormatters:   DefaultTypeFormatters,
		emptyMessage:     DefaultEmptyMessage,
		noColumnsMessage: DefaultNoColumnsMessage,
		templates:        Templates,
		logger:           slog.Default(),
	}
}

// Write writes the view as HTML to dest.
//
// Every cell is formatted with datagrid.FormatCell,
// so a failing or panicking formatter only affects its own cell.
// All non-raw formatted values are HTML-escaped.
func (w *Writer) Write(ctx context.Context, dest io.Writer, view *View) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return w.templates.ExecuteTemplate(dest, "table", w.templateContext(ctx, view))
}

func (w *Writer) templateContext(ctx context.Context, view *View) *TemplateContext {
	var (
		selectable  = view.Selection != nil
		actionWidth = view.Widths[datagrid.ActionsField]
		hasActions  = len(view.Actions) > 0
		inline, grp = datagrid.SplitActions(view.Actions)
		templData   = &TemplateContext{
			ContainerID:      view.ContainerID,
			TableClass:       w.tableClass,
			Caption:          view.Caption,
			Toolbar:          view.Toolbar,
			Selectable:       selectable,
			SelectAll:        view.SelectAll,
			Header:           make([]HeaderCellContext, len(view.Columns)),
			HasActions:       hasActions,
			ActionsWidth:     actionWidth.CSS(),
			EmptyMessage:     w.emptyMessage,
			NoColumnsMessage: w.noColumnsMessage,
			Rows:             make([]RowTemplateContext, len(view.Snapshot.PageData)),
		}
	)
	templData.ColSpan = len(view.Columns)
	if selectable {
		templData.ColSpan++
	}
	if hasActions {
		templData.ColSpan++
	}

	for i, col := range view.Columns {
		header := HeaderCellContext{
			Field:    col.Field,
			Title:    col.TitleOrField(),
			Align:    col.Alignment(),
			Width:    view.Widths[col.Field].CSS(),
			Style:    template.CSS(col.Style), //#nosec G203
			Sortable: col.Sortable,
		}
		if view.Sort != nil && view.Sort.Field == col.Field {
			header.Sort = view.Sort.Direction
		}
		templData.Header[i] = header
	}

	for row, record := range view.Snapshot.PageData {
		key := record.Key(view.KeyField)
		rowData := RowTemplateContext{
			Key:        key,
			RowIndex:   row,
			Selectable: selectable,
			Selected:   selectable && view.Selection.Has(key),
			Cells:      make([]CellContext, len(view.Columns)),
			HasActions: hasActions,
			Actions:    inline,
			Grouped:    grp,
		}
		for col, column := range view.Columns {
			rowData.Cells[col] = CellContext{
				Field: column.Field,
				Align: column.Alignment(),
				Style: template.CSS(column.Style), //#nosec G203
				HTML:  w.formatCell(ctx, datagrid.NewCell(record, column, row)),
			}
		}
		templData.Rows[row] = rowData
	}

	templData.Pagination = PaginationContextOf(view.Snapshot)
	return templData
}

// PaginationContextOf returns the context of the "pagination" template
// for snapshot or nil if pagination is disabled.
func PaginationContextOf(snapshot datagrid.Snapshot) *PaginationContext {
	p := snapshot.Pagination
	if !p.Enabled {
		return nil
	}
	return &PaginationContext{
		CurrentPage: p.CurrentPage,
		TotalPages:  snapshot.TotalPages,
		Total:       snapshot.Total,
		Stats:       snapshot.Stats,
		HasPrev:     p.CurrentPage > 1,
		HasNext:     p.CurrentPage < snapshot.TotalPages,
	}
}

func (w *Writer) formatCell(ctx context.Context, cell *datagrid.Cell) template.HTML {
	if cell.Value == nil && cell.Column.Formatter == nil {
		return w.nilValue
	}
	str, raw := datagrid.FormatCell(ctx, cell, w.typeFormatters, w.logger)
	if !raw {
		str = template.HTMLEscapeString(str)
	}
	return template.HTML(str) //#nosec G203
}

func (w *Writer) clone() *Writer {
	c := new(Writer)
	*c = *w
	return c
}

// WithTableClass returns a new writer with the specified CSS class for the table element.
func (w *Writer) WithTableClass(tableClass string) *Writer {
	mod := w.clone()
	mod.tableClass = tableClass
	return mod
}

// WithTypeFormatters returns a new writer with the specified type formatters.
// Pass nil to format all cells without column formatter with datagrid.ValueString.
func (w *Writer) WithTypeFormatters(formatters datagrid.CellFormatter) *Writer {
	mod := w.clone()
	mod.typeFormatters = formatters
	return mod
}

// WithTypeFormatter returns a new writer with a formatter
// registered for the column type t.
// It has no effect if the type formatters are not a datagrid.TypeFormatters map.
func (w *Writer) WithTypeFormatter(t datagrid.ColumnType, formatter datagrid.CellFormatter) *Writer {
	formatters, ok := w.typeFormatters.(datagrid.TypeFormatters)
	if !ok && w.typeFormatters != nil {
		return w
	}
	return w.WithTypeFormatters(formatters.With(t, formatter))
}

// WithNilValue returns a new writer with the specified HTML to use for nil values.
// By default, nil values are rendered as empty strings.
func (w *Writer) WithNilValue(nilValue template.HTML) *Writer {
	mod := w.clone()
	mod.nilValue = nilValue
	return mod
}

// WithMessages returns a new writer with the messages
// of the empty record and the no visible columns states.
func (w *Writer) WithMessages(empty, noColumns string) *Writer {
	mod := w.clone()
	mod.emptyMessage = empty
	mod.noColumnsMessage = noColumns
	return mod
}

// WithTemplates returns a new writer with a custom template set.
// The set must define the same templates as Templates.
func (w *Writer) WithTemplates(templates *template.Template) *Writer {
	mod := w.clone()
	mod.templates = templates
	return mod
}

// WithLogger returns a new writer logging formatter failures to logger.
func (w *Writer) WithLogger(logger *slog.Logger) *Writer {
	mod := w.clone()
	mod.logger = logger
	return mod
}

// TableClass returns the CSS class configured for the table element.
func (w *Writer) TableClass() string {
	return w.tableClass
}

// NilValue returns the HTML configured to be rendered for nil values.
func (w *Writer) NilValue() template.HTML {
	return w.nilValue
}
