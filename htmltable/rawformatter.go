package htmltable

import (
	"context"
	"html/template"
	"strings"

	"github.com/domonda/go-datagrid"
)

var (
	_ RawFormatter           = RawFormatterFunc(nil)
	_ RawFormatter           = Raw("")
	_ datagrid.CellFormatter = RawCellFormatter{}
)

// RawFormatter formats a cell as trusted HTML.
type RawFormatter interface {
	RawHTML(ctx context.Context, cell *datagrid.Cell) (template.HTML, error)
}

type RawFormatterFunc func(ctx context.Context, cell *datagrid.Cell) (template.HTML, error)

func (f RawFormatterFunc) RawHTML(ctx context.Context, cell *datagrid.Cell) (template.HTML, error) {
	return f(ctx, cell)
}

// Raw is a constant HTML snippet, for example an icon.
type Raw string

func (r Raw) RawHTML(ctx context.Context, cell *datagrid.Cell) (template.HTML, error) {
	return template.HTML(r), nil //#nosec G203
}

// RawCellFormatter uses a RawFormatter as column formatter.
type RawCellFormatter struct {
	RawFormatter
}

func (f RawCellFormatter) FormatCell(ctx context.Context, cell *datagrid.Cell) (str string, raw bool, err error) {
	html, err := f.RawHTML(ctx, cell)
	if err != nil {
		return "", false, err
	}
	return string(html), true, nil
}

// TemplateFormatter executes a template with the cell as data.
// The template has access to the FuncMap functions.
func TemplateFormatter(text string) (RawCellFormatter, error) {
	t, err := template.New("cell").Funcs(FuncMap()).Parse(text)
	if err != nil {
		return RawCellFormatter{}, err
	}
	return RawCellFormatter{RawFormatterFunc(func(ctx context.Context, cell *datagrid.Cell) (template.HTML, error) {
		var buf strings.Builder
		if err := t.Execute(&buf, cell); err != nil {
			return "", err
		}
		return template.HTML(buf.String()), nil //#nosec G203
	})}, nil
}
