package datagrid

import (
	"fmt"
	"html/template"
	"log/slog"
)

// Plugin is a toolbar feature of a presentation component.
// A Plugin implements any subset of InitHook, ToolbarHook,
// BeforeRenderHook and AfterRenderHook.
type Plugin interface {
	Name() string
}

// PluginContext is passed to all plugin hooks.
type PluginContext struct {
	ContainerID string
	Store       *Store
	Columns     []*Column
	Logger      *slog.Logger
}

type InitHook interface {
	Plugin
	Init(ctx *PluginContext) error
}

type ToolbarHook interface {
	Plugin
	MountToolbar(ctx *PluginContext, toolbar *Toolbar) error
}

type BeforeRenderHook interface {
	Plugin
	BeforeRender(ctx *PluginContext) error
}

type AfterRenderHook interface {
	Plugin
	AfterRender(ctx *PluginContext) error
}

// ToolbarItem is the markup contributed by a plugin.
type ToolbarItem struct {
	Plugin string
	HTML   template.HTML
}

// Toolbar collects the markup of ToolbarHook plugins.
type Toolbar struct {
	plugin string
	items  []ToolbarItem
}

// Add appends markup to the toolbar.
func (t *Toolbar) Add(html template.HTML) {
	t.items = append(t.items, ToolbarItem{Plugin: t.plugin, HTML: html})
}

func (t *Toolbar) Items() []ToolbarItem {
	return t.items
}

func (t *Toolbar) IsEmpty() bool {
	return len(t.items) == 0
}

// HookRunner invokes the lifecycle hooks of plugins in order.
// Errors and panics are isolated per hook invocation:
// they are logged and the plugin's contribution is
// missing for this cycle, the other plugins still run.
type HookRunner struct {
	plugins []Plugin
	logger  *slog.Logger
}

// NewHookRunner returns a HookRunner for plugins,
// nil plugins are ignored.
func NewHookRunner(logger *slog.Logger, plugins ...Plugin) *HookRunner {
	if logger == nil {
		logger = slog.Default()
	}
	r := &HookRunner{logger: logger}
	for _, p := range plugins {
		if p != nil {
			r.plugins = append(r.plugins, p)
		}
	}
	return r
}

func (r *HookRunner) Plugins() []Plugin {
	return r.plugins
}

func (r *HookRunner) Init(ctx *PluginContext) {
	for _, p := range r.plugins {
		if h, ok := p.(InitHook); ok {
			r.run("init", p, func() error { return h.Init(ctx) })
		}
	}
}

// MountToolbar returns the toolbar with the markup of
// all plugins whose ToolbarHook succeeded.
func (r *HookRunner) MountToolbar(ctx *PluginContext) *Toolbar {
	toolbar := new(Toolbar)
	for _, p := range r.plugins {
		h, ok := p.(ToolbarHook)
		if !ok {
			continue
		}
		part := &Toolbar{plugin: p.Name()}
		if r.run("toolbar", p, func() error { return h.MountToolbar(ctx, part) }) {
			toolbar.items = append(toolbar.items, part.items...)
		}
	}
	return toolbar
}

func (r *HookRunner) BeforeRender(ctx *PluginContext) {
	for _, p := range r.plugins {
		if h, ok := p.(BeforeRenderHook); ok {
			r.run("beforeRender", p, func() error { return h.BeforeRender(ctx) })
		}
	}
}

func (r *HookRunner) AfterRender(ctx *PluginContext) {
	for _, p := range r.plugins {
		if h, ok := p.(AfterRenderHook); ok {
			r.run("afterRender", p, func() error { return h.AfterRender(ctx) })
		}
	}
}

func (r *HookRunner) run(hook string, p Plugin, fn func() error) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("plugin hook panicked", "plugin", p.Name(), "hook", hook, "panic", fmt.Sprint(rec))
			ok = false
		}
	}()
	if err := fn(); err != nil {
		r.logger.Error("plugin hook failed", "plugin", p.Name(), "hook", hook, "err", err)
		return false
	}
	return true
}
