package accordion

import (
	"html/template"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/htmltable"
)

// Templates extend a clone of htmltable.Templates,
// reusing its "pagination" template, with the templates
// "accordion", "group" and "noGroups".
var Templates = template.Must(template.Must(htmltable.Templates.Clone()).New("accordion").Parse(accordionTemplate))

const accordionTemplate = `<div class="datagrid-accordion" data-container="{{.ContainerID}}">
{{- if .Toolbar}}
<div class="datagrid-toolbar">{{range .Toolbar}}{{.HTML}}{{end}}</div>
{{- end}}
{{- with .Caption}}
<h3 class="datagrid-caption">{{.}}</h3>
{{- end}}
{{- if .Leaf}}
{{.Leaf}}
{{- else}}
{{- range .Groups}}
{{template "group" .}}
{{- else}}
{{template "noGroups" $}}
{{- end}}
{{- end}}
{{- with .Pagination}}
{{template "pagination" .}}
{{- end}}
</div>

{{- define "group"}}<section class="datagrid-group depth-{{.Depth}}{{if .Expanded}} expanded{{end}}" data-group="{{.ID}}">
<header>
{{- if .Selectable}}<input type="checkbox" data-checkbox="{{.ID}}"{{if isChecked .State}} checked{{end}}{{if isIndeterminate .State}} data-indeterminate="true"{{end}}>{{end -}}
<button type="button" data-toggle="{{.ID}}" aria-expanded="{{.Expanded}}">{{with .Label}}{{.}}: {{end}}{{.Key}}</button>
{{- if .ShowCount}}<span class="datagrid-count">{{.Count}}</span>{{end}}
{{- range .Badges}}<span class="{{default "badge" .Class}}">{{with .Label}}{{.}} {{end}}{{.Value}}</span>{{end}}
{{- range .Actions}}<button type="button" class="{{default "datagrid-action" .Class}}" data-action="{{.Name}}" data-group="{{$.ID}}" title="{{.Label}}">{{if .Icon}}<i class="{{.Icon}}"></i>{{else}}{{.Label}}{{end}}</button>{{end -}}
</header>
{{- if .Expanded}}
{{- range .Children}}
{{template "group" .}}
{{- end}}
{{- with .Leaf}}
{{.}}
{{- end}}
{{- end}}
</section>
{{- end}}

{{- define "noGroups"}}<div class="datagrid-empty">{{.EmptyMessage}}</div>
{{- end}}`

// TemplateContext is passed to the "accordion" template.
type TemplateContext struct {
	ContainerID  string
	Caption      string
	Toolbar      []datagrid.ToolbarItem
	Groups       []*GroupContext
	Pagination   *htmltable.PaginationContext
	EmptyMessage string
	// Leaf is the leaf container of an accordion without levels
	Leaf template.HTML
}

// GroupContext is passed to the recursive "group" template.
type GroupContext struct {
	ID         string
	Depth      int
	Key        string
	Label      string
	Count      string
	ShowCount  bool
	Selectable bool
	State      datagrid.CheckState
	Expanded   bool
	Badges     []BadgeContext
	Actions    []datagrid.Action
	Children   []*GroupContext
	// Leaf is the container of the leaf renderer
	Leaf template.HTML
}

// BadgeContext is a rendered TitleBadge.
type BadgeContext struct {
	Label string
	Value string
	Class string
}
