package htmltable

import (
	"html/template"

	"github.com/Masterminds/sprig/v3"

	"github.com/domonda/go-datagrid"
)

// Templates is the default template set of a Writer.
// It must define the templates "table", "header", "row",
// "pagination", "noRecords" and "noColumns".
var Templates = template.Must(template.New("table").Funcs(FuncMap()).Parse(tableTemplate))

// FuncMap returns the sprig HTML functions
// extended by the datagrid template functions.
func FuncMap() template.FuncMap {
	fm := sprig.HtmlFuncMap()
	fm["ariaSort"] = func(d datagrid.SortDirection) string {
		switch d {
		case datagrid.SortAsc:
			return "ascending"
		case datagrid.SortDesc:
			return "descending"
		}
		return "none"
	}
	fm["isChecked"] = func(s datagrid.CheckState) bool { return s == datagrid.Checked }
	fm["isIndeterminate"] = func(s datagrid.CheckState) bool { return s == datagrid.Indeterminate }
	return fm
}

const tableTemplate = `<div class="datagrid"{{with .ContainerID}} data-container="{{.}}"{{end}}>
{{- if .Toolbar}}
<div class="datagrid-toolbar">{{range .Toolbar}}{{.HTML}}{{end}}</div>
{{- end}}
{{- if not .Header}}
{{template "noColumns" .}}
{{- else}}
<table{{with .TableClass}} class="{{.}}"{{end}}>
{{- with .Caption}}
<caption>{{.}}</caption>
{{- end}}
{{template "header" .}}
<tbody>
{{- range .Rows}}
{{template "row" .}}
{{- else}}
{{template "noRecords" $}}
{{- end}}
</tbody>
</table>
{{- with .Pagination}}
{{template "pagination" .}}
{{- end}}
{{- end}}
</div>

{{- define "header"}}<thead><tr>
{{- if .Selectable}}<th class="datagrid-select"><input type="checkbox" data-checkbox="select-all"{{if isChecked .SelectAll}} checked{{end}}{{if isIndeterminate .SelectAll}} data-indeterminate="true"{{end}}></th>{{end}}
{{- range .Header}}<th data-field="{{.Field}}" class="align-{{.Align}}"
{{- if .Width}} style="width:{{.Width}}{{if .Style}};{{.Style}}{{end}}"{{else if .Style}} style="{{.Style}}"{{end}}
{{- if .Sortable}} aria-sort="{{ariaSort .Sort}}"><button type="button" data-sort="{{.Field}}">{{.Title}}</button>
{{- else}}>{{.Title}}{{end}}</th>
{{- end}}
{{- if .HasActions}}<th class="datagrid-actions"{{with .ActionsWidth}} style="width:{{.}}"{{end}}></th>{{end -}}
</tr></thead>
{{- end}}

{{- define "row"}}<tr data-key="{{.Key}}"{{if .Selected}} class="selected"{{end}}>
{{- if .Selectable}}<td class="datagrid-select"><input type="checkbox" data-key="{{.Key}}"{{if .Selected}} checked{{end}}></td>{{end}}
{{- range .Cells}}<td class="align-{{.Align}}"{{with .Style}} style="{{.}}"{{end}}>{{.HTML}}</td>{{end}}
{{- if .HasActions}}<td class="datagrid-actions">
{{- range .Actions}}<button type="button" class="{{default "datagrid-action" .Class}}" data-action="{{.Name}}" data-key="{{$.Key}}" title="{{.Label}}">{{if .Icon}}<i class="{{.Icon}}"></i>{{else}}{{.Label}}{{end}}</button>{{end}}
{{- if .Grouped}}<details class="datagrid-action-menu"><summary>&hellip;</summary>
{{- range .Grouped}}<button type="button" data-action="{{.Name}}" data-key="{{$.Key}}">{{.Label}}</button>{{end -}}
</details>{{end -}}
</td>{{end -}}
</tr>
{{- end}}

{{- define "pagination"}}<nav class="datagrid-pagination">
<span class="datagrid-stats">{{.Stats.Start}}-{{.Stats.End}} / {{.Total}}</span>
<button type="button" data-page="{{sub .CurrentPage 1}}"{{if not .HasPrev}} disabled{{end}}>&lsaquo;</button>
{{- range $i := until .TotalPages}}
{{- $page := add1 $i}}<button type="button" data-page="{{$page}}"{{if eq $page $.CurrentPage}} aria-current="page"{{end}}>{{$page}}</button>
{{- end}}
<button type="button" data-page="{{add1 .CurrentPage}}"{{if not .HasNext}} disabled{{end}}>&rsaquo;</button>
</nav>
{{- end}}

{{- define "noRecords"}}<tr class="datagrid-empty"><td colspan="{{.ColSpan}}">{{.EmptyMessage}}</td></tr>
{{- end}}

{{- define "noColumns"}}<div class="datagrid-empty datagrid-no-columns">{{.NoColumnsMessage}}</div>
{{- end}}`

// TemplateContext is passed to the "table" template.
type TemplateContext struct {
	ContainerID      string
	TableClass       string
	Caption          string
	Toolbar          []datagrid.ToolbarItem
	Selectable       bool
	SelectAll        datagrid.CheckState
	Header           []HeaderCellContext
	Rows             []RowTemplateContext
	HasActions       bool
	ActionsWidth     string
	Pagination       *PaginationContext
	ColSpan          int
	EmptyMessage     string
	NoColumnsMessage string
}

// HeaderCellContext is one header cell of the "header" template.
type HeaderCellContext struct {
	Field    string
	Title    string
	Align    datagrid.Align
	Width    string
	Style    template.CSS
	Sortable bool
	Sort     datagrid.SortDirection
}

// RowTemplateContext is passed to the "row" template.
type RowTemplateContext struct {
	Key        string
	RowIndex   int
	Selectable bool
	Selected   bool
	Cells      []CellContext
	HasActions bool
	Actions    []datagrid.Action
	Grouped    []datagrid.Action
}

// CellContext is one formatted body cell.
type CellContext struct {
	Field string
	Align datagrid.Align
	Style template.CSS
	HTML  template.HTML
}

// PaginationContext is passed to the "pagination" template.
type PaginationContext struct {
	CurrentPage int
	TotalPages  int
	Total       int
	Stats       datagrid.PageStats
	HasPrev     bool
	HasNext     bool
}
