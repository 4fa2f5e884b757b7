package colprefs

import (
	"context"
	"html/template"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/htmltable"
)

var (
	_ datagrid.InitHook    = new(Manager)
	_ datagrid.ToolbarHook = new(Manager)
)

var checklistTemplate = template.Must(template.New("columns").Funcs(htmltable.FuncMap()).Parse(
	`<details class="datagrid-columns" data-container="{{.ContainerID}}">` +
		`<summary>{{.Label}}</summary>` +
		`{{range .Items}}<label class="datagrid-column-toggle">` +
		`<input type="checkbox" data-column="{{.Field}}"{{if .Visible}} checked{{end}}{{if .Critical}} disabled{{end}}> {{.Title}}` +
		`</label>{{end}}` +
		`</details>`,
))

// Manager holds the hidden fields of one component,
// persists them in a Store under a persistence key
// and mounts a column visibility checklist into the toolbar.
//
// Pass Manager.IsVisible as IsFieldVisible of the component
// and the Manager itself as plugin.
type Manager struct {
	// Label of the checklist, defaults to "Colunas"
	Label string
	// OnChange is called after the visibility of a field changed,
	// typically to re-render the component.
	OnChange func()

	store    Store
	logger   *slog.Logger
	critical []string

	mu     sync.RWMutex
	key    string
	loaded bool
	hidden map[string]struct{}
}

// NewManager returns a Manager persisting under key in store.
// An empty key is replaced by the container id of the component
// in the Init hook. A nil store means a new MemoryStore,
// a nil logger means slog.Default().
// Critical fields are always visible and can't be toggled.
func NewManager(key string, store Store, logger *slog.Logger, critical ...string) *Manager {
	if store == nil {
		store = new(MemoryStore)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    store,
		logger:   logger,
		critical: critical,
		key:      key,
		hidden:   make(map[string]struct{}),
	}
}

func (*Manager) Name() string { return "columns" }

// Key returns the persistence key.
func (m *Manager) Key() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.key
}

// Init loads the stored preferences if not already loaded.
func (m *Manager) Init(ctx *datagrid.PluginContext) error {
	m.mu.Lock()
	if m.key == "" {
		m.key = ctx.ContainerID
	}
	loaded := m.loaded
	m.mu.Unlock()
	if loaded {
		return nil
	}
	return m.Load(context.Background())
}

// Load replaces the hidden fields with the stored ones.
// Missing preferences keep the current fields.
func (m *Manager) Load(ctx context.Context) error {
	key := m.Key()
	hidden, err := m.store.Load(ctx, key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loaded = true
	if hidden == nil {
		return nil
	}
	m.hidden = make(map[string]struct{}, len(hidden))
	for _, field := range hidden {
		m.hidden[field] = struct{}{}
	}
	m.logger.Debug("loaded column preferences", "key", key, "hidden", hidden)
	return nil
}

// IsVisible implements datagrid.VisibilityFunc.
func (m *Manager) IsVisible(field string) bool {
	if slices.Contains(m.critical, field) {
		return true
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, hidden := m.hidden[field]
	return !hidden
}

// Hidden returns the sorted hidden fields.
func (m *Manager) Hidden() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.hidden))
}

// SetHidden hides or shows field, saves the preferences
// and calls OnChange if the visibility changed.
// Critical fields stay visible.
func (m *Manager) SetHidden(ctx context.Context, field string, hide bool) error {
	if field == "" || slices.Contains(m.critical, field) {
		return nil
	}
	m.mu.Lock()
	_, isHidden := m.hidden[field]
	if isHidden == hide {
		m.mu.Unlock()
		return nil
	}
	if hide {
		m.hidden[field] = struct{}{}
	} else {
		delete(m.hidden, field)
	}
	key := m.key
	hidden := slices.Sorted(maps.Keys(m.hidden))
	m.mu.Unlock()

	if err := m.store.Save(ctx, key, hidden); err != nil {
		return err
	}
	if m.OnChange != nil {
		m.OnChange()
	}
	return nil
}

// Toggle toggles the visibility of field.
func (m *Manager) Toggle(ctx context.Context, field string) error {
	return m.SetHidden(ctx, field, m.IsVisible(field))
}

// Reset shows all fields.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	changed := len(m.hidden) > 0
	m.hidden = make(map[string]struct{})
	key := m.key
	m.mu.Unlock()

	if err := m.store.Save(ctx, key, nil); err != nil {
		return err
	}
	if changed && m.OnChange != nil {
		m.OnChange()
	}
	return nil
}

type checklistItem struct {
	Field    string
	Title    string
	Visible  bool
	Critical bool
}

// MountToolbar adds a checklist of the toggleable columns.
// Statically hidden columns and locked column types are not listed.
func (m *Manager) MountToolbar(ctx *datagrid.PluginContext, toolbar *datagrid.Toolbar) error {
	var items []checklistItem
	for _, col := range ctx.Columns {
		if col.Hidden || col.IsLocked() {
			continue
		}
		items = append(items, checklistItem{
			Field:    col.Field,
			Title:    col.TitleOrField(),
			Visible:  m.IsVisible(col.Field),
			Critical: slices.Contains(m.critical, col.Field),
		})
	}
	if len(items) == 0 {
		return nil
	}
	label := m.Label
	if label == "" {
		label = "Colunas"
	}
	var b strings.Builder
	err := checklistTemplate.Execute(&b, map[string]any{
		"ContainerID": ctx.ContainerID,
		"Label":       label,
		"Items":       items,
	})
	if err != nil {
		return err
	}
	toolbar.Add(template.HTML(b.String())) //#nosec G203
	return nil
}
