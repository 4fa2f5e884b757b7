package datagrid

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPlugin struct {
	name     string
	calls    *[]string
	fail     error
	panicMsg string
}

func (p *testPlugin) Name() string { return p.name }

func (p *testPlugin) hook(hook string) error {
	*p.calls = append(*p.calls, p.name+"."+hook)
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	return p.fail
}

func (p *testPlugin) Init(*PluginContext) error         { return p.hook("init") }
func (p *testPlugin) BeforeRender(*PluginContext) error { return p.hook("beforeRender") }
func (p *testPlugin) AfterRender(*PluginContext) error  { return p.hook("afterRender") }

func (p *testPlugin) MountToolbar(ctx *PluginContext, toolbar *Toolbar) error {
	toolbar.Add(template.HTML("<b>" + p.name + "</b>"))
	return p.hook("toolbar")
}

type namedOnly string

func (n namedOnly) Name() string { return string(n) }

func TestHookRunner_Isolation(t *testing.T) {
	var (
		calls []string
		log   bytes.Buffer
	)
	logger := slog.New(slog.NewTextHandler(&log, nil))
	runner := NewHookRunner(
		logger,
		&testPlugin{name: "ok", calls: &calls},
		&testPlugin{name: "failing", calls: &calls, fail: errors.New("boom")},
		nil,
		namedOnly("passive"),
		&testPlugin{name: "panicking", calls: &calls, panicMsg: "kaputt"},
		&testPlugin{name: "last", calls: &calls},
	)
	require.Len(t, runner.Plugins(), 5)
	ctx := &PluginContext{ContainerID: "grid", Logger: logger}

	runner.Init(ctx)
	assert.Equal(t, []string{"ok.init", "failing.init", "panicking.init", "last.init"}, calls)

	toolbar := runner.MountToolbar(ctx)
	require.Len(t, toolbar.Items(), 2)
	assert.Equal(t, "ok", toolbar.Items()[0].Plugin)
	assert.Equal(t, template.HTML("<b>last</b>"), toolbar.Items()[1].HTML)

	calls = nil
	runner.BeforeRender(ctx)
	runner.AfterRender(ctx)
	assert.Len(t, calls, 8)

	assert.Contains(t, log.String(), "plugin=failing")
	assert.Contains(t, log.String(), "kaputt")
}

func TestToolbar(t *testing.T) {
	runner := NewHookRunner(nil, namedOnly("passive"))
	toolbar := runner.MountToolbar(&PluginContext{})
	assert.True(t, toolbar.IsEmpty())
}
