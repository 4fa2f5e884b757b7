package accordion

import (
	"context"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/htmltable"
)

// Leaf is a bottom-level group of an accordion
// whose records are rendered by a LeafRenderer.
type Leaf struct {
	// ContainerID of the leaf, mounted inside the accordion container
	ContainerID string
	// GroupID of the group holding the leaf,
	// empty for an accordion without levels
	GroupID string
	// Path of group keys from the top level down to the leaf
	Path    []string
	Records []datagrid.Record
	Options LevelOptions
}

// LeafRenderer renders the records of a Leaf into its container.
// Renderers that create components should register them in the
// Registry of the accordion, so that selection changes of the
// accordion are propagated to them.
type LeafRenderer interface {
	RenderLeaf(ctx context.Context, a *Accordion, leaf *Leaf) error
}

// LeafRendererFunc implements LeafRenderer with a function.
type LeafRendererFunc func(ctx context.Context, a *Accordion, leaf *Leaf) error

func (f LeafRendererFunc) RenderLeaf(ctx context.Context, a *Accordion, leaf *Leaf) error {
	return f(ctx, a, leaf)
}

// TableLeafRenderer renders every leaf as htmltable.Table
// with its own Store sharing the selection set of the accordion.
// Leaf tables are not paginated.
type TableLeafRenderer struct {
	// Writer defaults to htmltable.NewWriter()
	Writer *htmltable.Writer
}

func (r TableLeafRenderer) RenderLeaf(ctx context.Context, a *Accordion, leaf *Leaf) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	config := a.Config()
	table, err := htmltable.New(htmltable.Config{
		ContainerID:       leaf.ContainerID,
		Columns:           config.Columns,
		Actions:           leaf.Options.Actions,
		KeyField:          config.KeyField,
		Selection:         leaf.Options.Selection,
		SelectionSet:      a.Store().Selection(),
		Paginator:         datagrid.DelegatePaginator{},
		CriticalColumns:   config.CriticalColumns,
		ViewportWidth:     config.ViewportWidth,
		ActionsWidth:      config.ActionsWidth,
		IsFieldVisible:    config.IsFieldVisible,
		OnSelectionChange: func([]datagrid.Record) { a.selectionChanged() },
		Writer:            r.Writer,
		Widths:            a.widths,
		WidthCacheKey:     leaf.ContainerID,
		Registry:          a.Registry(),
		Surface:           config.Surface,
		Logger:            a.logger,
	})
	if err != nil {
		return err
	}
	table.SetData(leaf.Records)
	return nil
}
