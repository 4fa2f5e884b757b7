package htmltable

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/domonda/go-datagrid"
)

func ExampleWriter() {
	view := &View{
		ContainerID: "people",
		Caption:     "People",
		KeyField:    "ID",
		Columns: []*datagrid.Column{
			{Field: "NAME", Title: "Name", Sortable: true},
			{Field: "AMT", Title: "Valor", Type: datagrid.TypeCurrency},
		},
		Snapshot: datagrid.Snapshot{PageData: []datagrid.Record{
			{"ID": 1, "NAME": "Ana", "AMT": 1000.0},
			{"ID": 2, "NAME": "Bo <3", "AMT": nil},
		}},
	}

	NewWriter().Write(context.Background(), os.Stdout, view)

	// Output:
	// <div class="datagrid" data-container="people">
	// <table>
	// <caption>People</caption>
	// <thead><tr><th data-field="NAME" class="align-left" aria-sort="none"><button type="button" data-sort="NAME">Name</button></th><th data-field="AMT" class="align-right">Valor</th></tr></thead>
	// <tbody>
	// <tr data-key="1"><td class="align-left">Ana</td><td class="align-right">R$ 1.000,00</td></tr>
	// <tr data-key="2"><td class="align-left">Bo &lt;3</td><td class="align-right"></td></tr>
	// </tbody>
	// </table>
	// </div>
}

func writeString(t *testing.T, w *Writer, view *View) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, w.Write(context.Background(), &b, view))
	return b.String()
}

func TestWriter_Write(t *testing.T) {
	columns := []*datagrid.Column{
		{Field: "NAME", Title: "Name", Sortable: true},
		{Field: "STATUS", Title: "Status", Type: datagrid.TypeBadge},
	}
	records := []datagrid.Record{
		{"ID": 1, "NAME": "Ana", "STATUS": "Em aberto"},
		{"ID": 2, "NAME": "Bo", "STATUS": nil},
	}

	t.Run("selection and actions", func(t *testing.T) {
		view := &View{
			KeyField:  "ID",
			Columns:   columns,
			Widths:    datagrid.WidthMap{"NAME": 180, datagrid.ActionsField: 300},
			Snapshot:  datagrid.Snapshot{PageData: records},
			Sort:      &datagrid.SortSpec{Field: "NAME", Direction: datagrid.SortDesc},
			Selection: datagrid.NewSelectionSet("2"),
			SelectAll: datagrid.Indeterminate,
			Actions: []datagrid.Action{
				{Name: "edit", Label: "Editar", Icon: "icon-edit"},
				{Name: "delete", Label: "Excluir", Grouped: true},
			},
		}
		html := writeString(t, NewWriter().WithTableClass("table striped"), view)
		assert.Contains(t, html, `<table class="table striped">`)
		assert.Contains(t, html, `data-checkbox="select-all" data-indeterminate="true"`)
		assert.Contains(t, html, `style="width:180px"`)
		assert.Contains(t, html, `aria-sort="descending"`)
		assert.Contains(t, html, `<span class='badge badge-em-aberto'>Em aberto</span>`)
		assert.Contains(t, html, `<tr data-key="2" class="selected"><td class="datagrid-select"><input type="checkbox" data-key="2" checked></td>`)
		assert.Contains(t, html, `<tr data-key="1"><td class="datagrid-select"><input type="checkbox" data-key="1"></td>`)
		assert.Contains(t, html, `data-action="edit" data-key="1" title="Editar"><i class="icon-edit"></i></button>`)
		assert.Contains(t, html, `<button type="button" data-action="delete" data-key="2">Excluir</button>`)
		assert.NotContains(t, html, "datagrid-pagination")
	})

	t.Run("column style", func(t *testing.T) {
		view := &View{
			KeyField: "ID",
			Columns: []*datagrid.Column{
				{Field: "NAME", Title: "Name", Style: "font-weight:bold"},
				{Field: "STATUS", Title: "Status", Style: "color:red"},
			},
			Widths:   datagrid.WidthMap{"NAME": 120},
			Snapshot: datagrid.Snapshot{PageData: records[:1]},
		}
		html := writeString(t, NewWriter(), view)
		assert.Contains(t, html, `<th data-field="NAME" class="align-left" style="width:120px;font-weight:bold">Name</th>`)
		assert.Contains(t, html, `<th data-field="STATUS" class="align-left" style="color:red">Status</th>`)
		assert.Contains(t, html, `<td class="align-left" style="font-weight:bold">Ana</td>`)
		assert.Contains(t, html, `<td class="align-left" style="color:red">Em aberto</td>`)
	})

	t.Run("pagination", func(t *testing.T) {
		view := &View{
			KeyField: "ID",
			Columns:  columns,
			Snapshot: datagrid.Snapshot{
				PageData:   records,
				Total:      12,
				TotalPages: 3,
				Pagination: datagrid.Pagination{Enabled: true, PageSize: 5, CurrentPage: 3},
				Stats:      datagrid.PageStats{Start: 11, End: 12},
			},
		}
		html := writeString(t, NewWriter(), view)
		assert.Contains(t, html, `<span class="datagrid-stats">11-12 / 12</span>`)
		assert.Contains(t, html, `<button type="button" data-page="3" aria-current="page">3</button>`)
		assert.Contains(t, html, `<button type="button" data-page="1">1</button>`)
		assert.Contains(t, html, `data-page="4" disabled>`)
		assert.NotContains(t, html, `data-page="2" disabled`)
	})

	t.Run("no records", func(t *testing.T) {
		view := &View{KeyField: "ID", Columns: columns, Selection: datagrid.NewSelectionSet()}
		html := writeString(t, NewWriter().WithMessages("Vazio", "Sem colunas"), view)
		assert.Contains(t, html, `<tr class="datagrid-empty"><td colspan="3">Vazio</td></tr>`)
		assert.Contains(t, html, "<table")
	})

	t.Run("no columns", func(t *testing.T) {
		view := &View{KeyField: "ID", Snapshot: datagrid.Snapshot{PageData: records}}
		html := writeString(t, NewWriter(), view)
		assert.Contains(t, html, DefaultNoColumnsMessage)
		assert.NotContains(t, html, "<table")
	})

	t.Run("nil value and toolbar", func(t *testing.T) {
		view := &View{
			KeyField: "ID",
			Columns:  columns,
			Snapshot: datagrid.Snapshot{PageData: records[1:]},
			Toolbar:  []datagrid.ToolbarItem{{Plugin: "x", HTML: "<b>tools</b>"}},
		}
		html := writeString(t, NewWriter().WithNilValue("&mdash;"), view)
		assert.Contains(t, html, `<div class="datagrid-toolbar"><b>tools</b></div>`)
		assert.Contains(t, html, `<td class="align-center">&mdash;</td>`)
	})
}

func TestWriter_Immutable(t *testing.T) {
	w := NewWriter()
	mod := w.WithTableClass("x").WithNilValue("-").WithTypeFormatter(datagrid.TypeText, datagrid.PrintfCellFormatter("[%v]"))
	assert.Empty(t, w.TableClass())
	assert.Empty(t, w.NilValue())
	assert.Equal(t, "x", mod.TableClass())

	view := &View{
		KeyField: "ID",
		Columns:  []*datagrid.Column{{Field: "NAME", Type: datagrid.TypeText}},
		Snapshot: datagrid.Snapshot{PageData: []datagrid.Record{{"ID": 1, "NAME": "Ana"}}},
	}
	assert.Contains(t, writeString(t, mod, view), "[Ana]")
	assert.NotContains(t, writeString(t, w, view), "[Ana]")
}

func TestWriter_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var b strings.Builder
	err := NewWriter().Write(ctx, &b, &View{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, b.String())
}
