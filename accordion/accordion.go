// Package accordion renders hierarchically grouped records
// as nested collapsible panels.
//
// Only the top-level groups are paginated. The records of every
// expanded bottom-level group are delegated to a LeafRenderer,
// by default a TableLeafRenderer mounting an htmltable.Table
// that shares the selection set of the accordion.
package accordion

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/htmltable"
)

// DefaultEmptyMessage is rendered when there are no groups.
const DefaultEmptyMessage = htmltable.DefaultEmptyMessage

// Config configures a new Accordion.
type Config struct {
	// ContainerID defaults to a random "datagrid-<uuid>" id
	ContainerID string
	Caption     string
	// Levels are the grouping fields from the top level down
	Levels   []string
	Columns  []*datagrid.Column
	KeyField string
	// Pagination pages over the top-level groups
	Pagination      datagrid.Pagination
	SearchFields    []string
	CriticalColumns []string
	ViewportWidth   int
	ActionsWidth    int
	IsFieldVisible  datagrid.VisibilityFunc

	// Selection, ShowCount, Actions and TitleBadges
	// apply to all depths not overridden by LevelOverrides.
	Selection      *bool
	ShowCount      *bool
	Actions        []datagrid.Action
	TitleBadges    []datagrid.TitleBadge
	LevelOverrides map[int]datagrid.LevelConfig

	// SelectionSet is an external set shared with other components
	SelectionSet      *datagrid.SelectionSet
	OnSelectionChange func(selected []datagrid.Record)
	Plugins           []datagrid.Plugin

	// LeafRenderer defaults to TableLeafRenderer{}
	LeafRenderer LeafRenderer
	// Templates default to Templates
	Templates    *template.Template
	EmptyMessage string
	// Widths is shared with the leaf tables
	Widths *datagrid.WidthResolver
	// Registry defaults to a new Registry
	Registry *datagrid.Registry
	Surface  datagrid.Surface
	Logger   *slog.Logger
}

// ConfigFrom returns an Accordion Config for the declarative config c.
func ConfigFrom(c *datagrid.Config) Config {
	config := Config{
		ContainerID:     c.ContainerID,
		Levels:          c.Levels,
		Columns:         c.Columns,
		KeyField:        c.KeyField,
		Pagination:      c.PaginationConfig(),
		SearchFields:    c.SearchFields,
		CriticalColumns: c.CriticalColumns,
		ViewportWidth:   c.ViewportWidth,
		ActionsWidth:    c.ActionsWidth,
		ShowCount:       c.ShowCount,
		Actions:         c.Actions,
		TitleBadges:     c.TitleBadges,
		LevelOverrides:  c.LevelOverrides,
	}
	if c.Selection {
		config.Selection = &c.Selection
	}
	if len(c.ExternalSelectedIDs) > 0 {
		config.SelectionSet = datagrid.NewSelectionSet(c.ExternalSelectedIDs...)
	}
	return config
}

// Accordion is the accordion presentation component.
//
// Groups are collapsed initially. The expansion state is kept
// by group id across re-renders and lost on Destroy.
// Toggling the checkbox of a group selects or deselects
// all records below it and only patches the selection visuals
// of the accordion and its mounted leaves.
//
// An Accordion is not safe for concurrent use.
type Accordion struct {
	config    Config
	store     *datagrid.Store
	hooks     *datagrid.HookRunner
	widths    *datagrid.WidthResolver
	registry  *datagrid.Registry
	expansion *datagrid.ExpansionState
	logger    *slog.Logger

	// groups of the last render by id
	groups   map[string]*renderedGroup
	groupIDs []string
	leafIDs  []string

	destroyed bool
}

type renderedGroup struct {
	node       *datagrid.GroupNode
	selectable bool
}

// New creates an Accordion and renders its empty state.
func New(config Config) (*Accordion, error) {
	if config.Surface == nil {
		return nil, datagrid.ErrNoSurface
	}
	if config.ContainerID == "" {
		config.ContainerID = "datagrid-" + uuid.NewString()
	}
	if config.LeafRenderer == nil {
		config.LeafRenderer = TableLeafRenderer{}
	}
	if config.Templates == nil {
		config.Templates = Templates
	}
	if config.EmptyMessage == "" {
		config.EmptyMessage = DefaultEmptyMessage
	}
	if config.Widths == nil {
		config.Widths = datagrid.NewWidthResolver()
	}
	if config.Registry == nil {
		config.Registry = datagrid.NewRegistry()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	logger := config.Logger.With("container", config.ContainerID)

	var paginator datagrid.Paginator = datagrid.RecordPaginator{}
	if len(config.Levels) > 0 {
		paginator = datagrid.GroupPaginator{Field: config.Levels[0]}
	}
	a := &Accordion{
		config:    config,
		hooks:     datagrid.NewHookRunner(logger, config.Plugins...),
		widths:    config.Widths,
		registry:  config.Registry,
		expansion: datagrid.NewExpansionState(),
		logger:    logger,
		groups:    make(map[string]*renderedGroup),
	}
	a.store = datagrid.NewStore(datagrid.StoreConfig{
		KeyField:          config.KeyField,
		SearchFields:      config.SearchFields,
		IsFieldVisible:    config.IsFieldVisible,
		Pagination:        config.Pagination,
		Paginator:         paginator,
		Selection:         config.SelectionSet,
		OnChange:          a.onChange,
		OnSelectionChange: config.OnSelectionChange,
		Logger:            logger,
	})
	a.registry.Register(a)
	a.hooks.Init(a.pluginContext())
	if err := a.Render(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *Accordion) ContainerID() string { return a.config.ContainerID }

// Config returns the configuration with defaults applied.
func (a *Accordion) Config() Config { return a.config }

// Store returns the Store holding the records of all groups.
func (a *Accordion) Store() *datagrid.Store { return a.store }

// Registry returns the Registry of the accordion and its leaves.
func (a *Accordion) Registry() *datagrid.Registry { return a.registry }

// SetData replaces the dataset, see datagrid.Store.SetData.
func (a *Accordion) SetData(data any) {
	a.store.SetData(data)
}

// LeafIDs returns the container ids of the leaves mounted by the last render.
func (a *Accordion) LeafIDs() []string {
	return slices.Clone(a.leafIDs)
}

// GroupIDs returns the ids of the groups rendered by the last render
// in render order.
func (a *Accordion) GroupIDs() []string {
	return slices.Clone(a.groupIDs)
}

// IsExpanded returns if the group id is expanded.
func (a *Accordion) IsExpanded(id string) bool {
	return a.expansion.IsExpanded(id)
}

func (a *Accordion) onChange(change datagrid.Change) {
	if !change.Kind.IsStructural() {
		a.RefreshSelection()
		return
	}
	if err := a.Render(); err != nil {
		a.logger.Error("accordion render failed", "change", change.Kind, "err", err)
	}
}

// selectionChanged is called by leaves after they changed the shared selection set.
func (a *Accordion) selectionChanged() {
	if a.destroyed {
		return
	}
	a.RefreshSelection()
	if a.config.OnSelectionChange != nil {
		a.config.OnSelectionChange(a.store.SelectedRecords())
	}
}

// Render re-renders the accordion and its expanded leaves.
func (a *Accordion) Render() error {
	return a.RenderContext(context.Background())
}

// RenderContext rebuilds the grouping tree of the current page,
// re-renders the accordion container keeping its scroll offset
// and mounts fresh leaves for all expanded bottom-level groups.
func (a *Accordion) RenderContext(ctx context.Context) error {
	if a.destroyed {
		return datagrid.ErrDestroyed
	}
	scroll := a.config.Surface.Scroll(a.config.ContainerID)

	pctx := a.pluginContext()
	a.hooks.BeforeRender(pctx)
	toolbar := a.hooks.MountToolbar(pctx)

	a.destroyLeaves()

	snapshot := a.store.Snapshot()
	tree := datagrid.Group(snapshot.PageData, a.config.Levels)
	w := &treeWalker{
		accordion:  a,
		selection:  a.store.Selection(),
		leafLevel:  a.config.LevelOptions(len(a.config.Levels)),
		levelCache: make(map[int]LevelOptions),
		offset:     max(snapshot.Stats.Start-1, 0),
		groups:     make(map[string]*renderedGroup),
	}
	templData := &TemplateContext{
		ContainerID:  a.config.ContainerID,
		Caption:      a.config.Caption,
		Toolbar:      toolbar.Items(),
		Pagination:   htmltable.PaginationContextOf(snapshot),
		EmptyMessage: a.config.EmptyMessage,
	}
	if tree.IsLeaf() {
		if len(tree.Items) > 0 {
			templData.Leaf = w.leaf(a.config.ContainerID+"-leaf", "", nil, tree)
		}
	} else {
		templData.Groups = w.walk(tree, a.config.ContainerID, 0, nil)
	}

	var buf bytes.Buffer
	if err := a.config.Templates.ExecuteTemplate(&buf, "accordion", templData); err != nil {
		return fmt.Errorf("can't execute accordion template: %w", err)
	}
	a.config.Surface.ReplaceHTML(a.config.ContainerID, template.HTML(buf.String())) //#nosec G203
	a.groups = w.groups
	a.groupIDs = w.groupIDs

	// Leaf containers exist only after the accordion markup was replaced
	for _, leaf := range w.leaves {
		if err := a.config.LeafRenderer.RenderLeaf(ctx, a, leaf); err != nil {
			a.logger.Error("leaf render failed", "leaf", leaf.ContainerID, "err", err)
			continue
		}
		a.leafIDs = append(a.leafIDs, leaf.ContainerID)
	}
	a.config.Surface.SetScroll(a.config.ContainerID, scroll)

	a.hooks.AfterRender(pctx)
	return nil
}

// RefreshSelection patches the group checkboxes of the last render
// and refreshes the selection visuals of all mounted leaves.
func (a *Accordion) RefreshSelection() {
	if a.destroyed {
		return
	}
	selection := a.store.Selection()
	for _, id := range a.groupIDs {
		group := a.groups[id]
		if !group.selectable {
			continue
		}
		state := selection.StateOf(datagrid.CollectItems(group.node), a.config.KeyField)
		a.config.Surface.PatchCheckState(a.config.ContainerID, id, state)
	}
	for _, id := range a.leafIDs {
		if leaf, ok := a.registry.Lookup(id); ok {
			leaf.RefreshSelection()
		}
	}
}

// ToggleGroup expands or collapses the group id and re-renders.
func (a *Accordion) ToggleGroup(id string) error {
	if a.destroyed {
		return datagrid.ErrDestroyed
	}
	if _, ok := a.groups[id]; !ok {
		return fmt.Errorf("%w: %s", datagrid.ErrUnknownGroup, id)
	}
	a.expansion.Toggle(id)
	return a.Render()
}

// ToggleGroupSelection selects all records below the group id
// unless all of them are selected already, then it deselects them.
// Only the selection visuals are updated.
// Groups without a selection checkbox are ignored.
func (a *Accordion) ToggleGroupSelection(id string) error {
	if a.destroyed {
		return datagrid.ErrDestroyed
	}
	group, ok := a.groups[id]
	if !ok {
		return fmt.Errorf("%w: %s", datagrid.ErrUnknownGroup, id)
	}
	if !group.selectable {
		return nil
	}
	items := datagrid.CollectItems(group.node)
	allSelected := a.store.Selection().StateOf(items, a.config.KeyField) == datagrid.Checked
	a.store.SetSelected(items, !allSelected)
	return nil
}

// HandleSort cycles the sort state of a sortable column,
// see htmltable.Table.HandleSort.
func (a *Accordion) HandleSort(field string) bool {
	i := slices.IndexFunc(a.config.Columns, func(c *datagrid.Column) bool { return c.Field == field })
	if i < 0 || !a.config.Columns[i].Sortable {
		return false
	}
	direction := datagrid.SortAsc
	if current := a.store.Sort(); current != nil && current.Field == field {
		direction = current.Direction.Next()
	}
	a.store.SetSort(field, direction, datagrid.ColumnCompare(a.config.Columns[i]))
	return true
}

func (a *Accordion) HandleSearch(term string) {
	a.store.SetSearchTerm(term)
}

// HandlePage goes to a page of top-level groups.
func (a *Accordion) HandlePage(page int) {
	a.store.GoToPage(page)
}

// HandlePageSize sets the number of top-level groups per page
// and goes back to the first page.
func (a *Accordion) HandlePageSize(size int) {
	a.store.SetPageSize(size)
}

// Destroy destroys all mounted leaves and the Store,
// unregisters the accordion and clears its container.
// Destroy is idempotent.
func (a *Accordion) Destroy() {
	if a.destroyed {
		return
	}
	a.destroyLeaves()
	a.destroyed = true
	a.store.Destroy()
	if c, ok := a.registry.Lookup(a.config.ContainerID); ok && c == datagrid.Component(a) {
		a.registry.Unregister(a.config.ContainerID)
	}
	a.expansion.Clear()
	clear(a.groups)
	a.groupIDs = nil
	a.config.Surface.ReplaceHTML(a.config.ContainerID, "")
}

func (a *Accordion) destroyLeaves() {
	for _, id := range a.leafIDs {
		if leaf, ok := a.registry.Lookup(id); ok {
			a.registry.Unregister(id)
			leaf.Destroy()
		}
	}
	a.leafIDs = a.leafIDs[:0]
}

func (a *Accordion) levelLabel(depth int) string {
	field := a.config.Levels[depth]
	for _, col := range a.config.Columns {
		if col.Field == field {
			return col.TitleOrField()
		}
	}
	return field
}

func (a *Accordion) pluginContext() *datagrid.PluginContext {
	return &datagrid.PluginContext{
		ContainerID: a.config.ContainerID,
		Store:       a.store,
		Columns:     a.config.Columns,
		Logger:      a.logger,
	}
}
