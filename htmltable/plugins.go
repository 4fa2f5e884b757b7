package htmltable

import (
	"html/template"
	"strings"

	"github.com/domonda/go-datagrid"
)

var (
	_ datagrid.ToolbarHook = SearchPlugin{}
	_ datagrid.ToolbarHook = PageSizePlugin{}
)

var (
	searchTemplate = template.Must(template.New("search").Funcs(FuncMap()).Parse(
		`<input type="search" class="datagrid-search" data-container="{{.ContainerID}}" placeholder="{{.Placeholder}}" value="{{.Term}}">`,
	))

	pageSizeTemplate = template.Must(template.New("pageSize").Funcs(FuncMap()).Parse(
		`<select class="datagrid-page-size" data-container="{{.ContainerID}}">` +
			`{{range .Sizes}}<option value="{{.}}"{{if eq . $.Current}} selected{{end}}>{{.}}</option>{{end}}` +
			`</select>`,
	))
)

// SearchPlugin mounts a search input showing the current search term.
type SearchPlugin struct {
	// Placeholder defaults to "Buscar..."
	Placeholder string
}

func (SearchPlugin) Name() string { return "search" }

func (p SearchPlugin) MountToolbar(ctx *datagrid.PluginContext, toolbar *datagrid.Toolbar) error {
	placeholder := p.Placeholder
	if placeholder == "" {
		placeholder = "Buscar..."
	}
	return executeToolbar(toolbar, searchTemplate, map[string]any{
		"ContainerID": ctx.ContainerID,
		"Placeholder": placeholder,
		"Term":        ctx.Store.SearchTerm(),
	})
}

// PageSizePlugin mounts a page size select
// if pagination is enabled.
type PageSizePlugin struct {
	Sizes []int
}

func (PageSizePlugin) Name() string { return "pageSize" }

func (p PageSizePlugin) MountToolbar(ctx *datagrid.PluginContext, toolbar *datagrid.Toolbar) error {
	pagination := ctx.Store.Pagination()
	if !pagination.Enabled {
		return nil
	}
	sizes := p.Sizes
	if len(sizes) == 0 {
		sizes = []int{10, 25, 50, 100}
	}
	return executeToolbar(toolbar, pageSizeTemplate, map[string]any{
		"ContainerID": ctx.ContainerID,
		"Sizes":       sizes,
		"Current":     pagination.PageSize,
	})
}

func executeToolbar(toolbar *datagrid.Toolbar, t *template.Template, data any) error {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return err
	}
	toolbar.Add(template.HTML(b.String())) //#nosec G203
	return nil
}
