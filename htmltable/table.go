package htmltable

import (
	"bytes"
	"context"
	"html/template"
	"log/slog"

	"github.com/google/uuid"

	"github.com/domonda/go-datagrid"
)

// Config configures a new Table.
type Config struct {
	// ContainerID defaults to a random "datagrid-<uuid>" id
	ContainerID string
	Caption     string
	Columns     []*datagrid.Column
	Actions     []datagrid.Action
	KeyField    string
	// Selection enables row checkboxes
	Selection bool
	// SelectionSet is an external set shared with other components
	SelectionSet    *datagrid.SelectionSet
	Pagination      datagrid.Pagination
	Paginator       datagrid.Paginator
	SearchFields    []string
	CriticalColumns []string
	ViewportWidth   int
	ActionsWidth    int
	// IsFieldVisible is consulted on every render and search
	IsFieldVisible    datagrid.VisibilityFunc
	OnSelectionChange func(selected []datagrid.Record)
	Plugins           []datagrid.Plugin

	// Writer defaults to NewWriter()
	Writer *Writer
	// Widths defaults to a new datagrid.WidthResolver
	Widths        *datagrid.WidthResolver
	WidthCacheKey string
	// Registry is optional, the Table registers itself if set
	Registry *datagrid.Registry
	Surface  datagrid.Surface
	Logger   *slog.Logger
}

// ConfigFrom returns a Table Config for the declarative config c.
func ConfigFrom(c *datagrid.Config) Config {
	config := Config{
		ContainerID:     c.ContainerID,
		Columns:         c.Columns,
		Actions:         c.Actions,
		KeyField:        c.KeyField,
		Selection:       c.Selection,
		Pagination:      c.PaginationConfig(),
		SearchFields:    c.SearchFields,
		CriticalColumns: c.CriticalColumns,
		ViewportWidth:   c.ViewportWidth,
		ActionsWidth:    c.ActionsWidth,
		WidthCacheKey:   c.WidthCacheKey(),
	}
	if len(c.ExternalSelectedIDs) > 0 {
		config.SelectionSet = datagrid.NewSelectionSet(c.ExternalSelectedIDs...)
	}
	return config
}

// Table is the table presentation component.
// It renders one flat page of a Store's records into its container
// of a Surface and translates user interaction into Store operations.
//
// Store changes are applied with two update speeds:
// structural changes (data, search, sort, page) re-render the
// whole container while preserving its scroll offset,
// selection changes only patch checkboxes and row classes.
//
// A Table is not safe for concurrent use.
type Table struct {
	config    Config
	store     *datagrid.Store
	hooks     *datagrid.HookRunner
	writer    *Writer
	widths    *datagrid.WidthResolver
	surface   datagrid.Surface
	logger    *slog.Logger
	destroyed bool
}

// New creates a Table and renders its empty state.
func New(config Config) (*Table, error) {
	if config.Surface == nil {
		return nil, datagrid.ErrNoSurface
	}
	if config.ContainerID == "" {
		config.ContainerID = "datagrid-" + uuid.NewString()
	}
	if config.Writer == nil {
		config.Writer = NewWriter()
	}
	if config.Widths == nil {
		config.Widths = datagrid.NewWidthResolver()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	logger := config.Logger.With("container", config.ContainerID)
	if len(config.Columns) == 0 {
		logger.Warn("table has no column definitions")
	}

	t := &Table{
		config:  config,
		hooks:   datagrid.NewHookRunner(logger, config.Plugins...),
		writer:  config.Writer.WithLogger(logger),
		widths:  config.Widths,
		surface: config.Surface,
		logger:  logger,
	}
	t.store = datagrid.NewStore(datagrid.StoreConfig{
		KeyField:          config.KeyField,
		SearchFields:      config.SearchFields,
		IsFieldVisible:    config.IsFieldVisible,
		Pagination:        config.Pagination,
		Paginator:         config.Paginator,
		Selection:         config.SelectionSet,
		OnChange:          t.onChange,
		OnSelectionChange: config.OnSelectionChange,
		Logger:            logger,
	})
	if config.Registry != nil {
		config.Registry.Register(t)
	}
	t.hooks.Init(t.pluginContext())
	if err := t.Render(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Table) ContainerID() string { return t.config.ContainerID }

// Store returns the Store of the table.
func (t *Table) Store() *datagrid.Store { return t.store }

// Columns returns all configured columns including hidden ones.
func (t *Table) Columns() []*datagrid.Column { return t.config.Columns }

// VisibleColumns returns the columns rendered at the moment.
func (t *Table) VisibleColumns() []*datagrid.Column {
	return datagrid.VisibleColumns(t.config.Columns, t.config.IsFieldVisible, t.config.CriticalColumns...)
}

// SetData replaces the dataset, see datagrid.Store.SetData.
func (t *Table) SetData(data any) {
	t.store.SetData(data)
}

func (t *Table) onChange(change datagrid.Change) {
	if !change.Kind.IsStructural() {
		t.RefreshSelection()
		return
	}
	if err := t.Render(); err != nil {
		t.logger.Error("table render failed", "change", change.Kind, "err", err)
	}
}

// Render re-renders the whole table into its container.
func (t *Table) Render() error {
	return t.RenderContext(context.Background())
}

// RenderContext re-renders the whole table into its container
// keeping the scroll offset of the container.
func (t *Table) RenderContext(ctx context.Context) error {
	if t.destroyed {
		return datagrid.ErrDestroyed
	}
	scroll := t.surface.Scroll(t.config.ContainerID)

	pctx := t.pluginContext()
	t.hooks.BeforeRender(pctx)
	toolbar := t.hooks.MountToolbar(pctx)

	var (
		visible = t.VisibleColumns()
		widths  = t.widths.Resolve(t.config.WidthCacheKey, visible, t.store.Data(), datagrid.WidthOptions{
			ViewportWidth:   t.config.ViewportWidth,
			CriticalColumns: t.config.CriticalColumns,
			Actions:         datagrid.ActionsLayoutOf(t.config.Actions, t.config.ActionsWidth),
		})
		view = &View{
			ContainerID: t.config.ContainerID,
			Caption:     t.config.Caption,
			KeyField:    t.config.KeyField,
			Columns:     visible,
			Widths:      widths,
			Snapshot:    t.store.Snapshot(),
			Sort:        t.store.Sort(),
			Actions:     t.config.Actions,
			Toolbar:     toolbar.Items(),
		}
	)
	if len(visible) == 0 && len(t.config.Columns) > 0 {
		t.logger.Debug("all columns hidden")
	}
	if t.config.Selection {
		view.Selection = t.store.Selection()
		view.SelectAll = t.selectAllState()
	}

	var buf bytes.Buffer
	if err := t.writer.Write(ctx, &buf, view); err != nil {
		return err
	}
	t.surface.ReplaceHTML(t.config.ContainerID, template.HTML(buf.String())) //#nosec G203
	t.surface.SetScroll(t.config.ContainerID, scroll)

	t.hooks.AfterRender(pctx)
	return nil
}

// RefreshSelection patches the row checkboxes of the current page
// and the select-all checkbox without re-rendering.
func (t *Table) RefreshSelection() {
	if t.destroyed || !t.config.Selection {
		return
	}
	for _, rec := range t.store.Snapshot().PageData {
		key := rec.Key(t.config.KeyField)
		t.surface.PatchRowSelection(t.config.ContainerID, key, t.store.IsSelected(key))
	}
	t.surface.PatchCheckState(t.config.ContainerID, datagrid.SelectAllCheckbox, t.selectAllState())
}

func (t *Table) selectAllState() datagrid.CheckState {
	return t.store.Selection().StateOf(t.store.Filtered(), t.config.KeyField)
}

// HandleSort cycles the sort state of a sortable column:
// a click on a new column sorts ascending, repeated clicks on
// the same column cycle ascending, descending, unsorted.
// The result is false if field is not a sortable column.
func (t *Table) HandleSort(field string) bool {
	col := t.column(field)
	if col == nil || !col.Sortable {
		return false
	}
	direction := datagrid.SortAsc
	if current := t.store.Sort(); current != nil && current.Field == field {
		direction = current.Direction.Next()
	}
	t.store.SetSort(field, direction, datagrid.ColumnCompare(col))
	return true
}

func (t *Table) HandleSearch(term string) {
	t.store.SetSearchTerm(term)
}

func (t *Table) HandlePage(page int) {
	t.store.GoToPage(page)
}

func (t *Table) HandlePageSize(size int) {
	t.store.SetPageSize(size)
}

// HandleToggleRow toggles the selection of the row with key.
func (t *Table) HandleToggleRow(key string) {
	if t.config.Selection {
		t.store.ToggleSelection(key)
	}
}

// HandleToggleAll selects or deselects all filtered records.
func (t *Table) HandleToggleAll(selectAll bool) {
	if t.config.Selection {
		t.store.ToggleSelectAll(selectAll)
	}
}

// Destroy destroys the Store, unregisters the table
// and clears its container. Destroy is idempotent.
func (t *Table) Destroy() {
	if t.destroyed {
		return
	}
	t.destroyed = true
	t.store.Destroy()
	if t.config.Registry != nil {
		if c, ok := t.config.Registry.Lookup(t.config.ContainerID); ok && c == datagrid.Component(t) {
			t.config.Registry.Unregister(t.config.ContainerID)
		}
	}
	t.surface.ReplaceHTML(t.config.ContainerID, "")
}

func (t *Table) column(field string) *datagrid.Column {
	for _, col := range t.config.Columns {
		if col.Field == field {
			return col
		}
	}
	return nil
}

func (t *Table) pluginContext() *datagrid.PluginContext {
	return &datagrid.PluginContext{
		ContainerID: t.config.ContainerID,
		Store:       t.store,
		Columns:     t.config.Columns,
		Logger:      t.logger,
	}
}
