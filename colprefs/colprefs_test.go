package colprefs

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	fs "github.com/ungerik/go-fs"

	"github.com/domonda/go-datagrid"
	"github.com/domonda/go-datagrid/htmltable"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func testStores(t *testing.T) map[string]Store {
	t.Helper()

	fileStore, err := NewFileStore(fs.File(t.TempDir()).Join("prefs"))
	require.NoError(t, err)

	boltStore, err := OpenBoltStore(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { boltStore.Close() })

	return map[string]Store{
		"memory": new(MemoryStore),
		"file":   fileStore,
		"bolt":   boltStore,
	}
}

func TestStores(t *testing.T) {
	ctx := context.Background()
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			hidden, err := store.Load(ctx, "vendas:v1")
			require.NoError(t, err)
			assert.Nil(t, hidden, "nothing stored")

			err = store.Save(ctx, "vendas:v1", []string{"NOTE", "AMT", "", "NOTE"})
			require.NoError(t, err)
			hidden, err = store.Load(ctx, "vendas:v1")
			require.NoError(t, err)
			assert.Equal(t, []string{"AMT", "NOTE"}, hidden)

			other, err := store.Load(ctx, "vendas:v2")
			require.NoError(t, err)
			assert.Nil(t, other, "keys are independent")

			err = store.Save(ctx, "vendas:v1", nil)
			require.NoError(t, err)
			hidden, err = store.Load(ctx, "vendas:v1")
			require.NoError(t, err)
			assert.Empty(t, hidden)

			canceled, cancel := context.WithCancel(ctx)
			cancel()
			assert.ErrorIs(t, store.Save(canceled, "vendas:v1", nil), context.Canceled)
		})
	}
}

func TestFileStore_File(t *testing.T) {
	store := FileStore{Dir: fs.File("/tmp/prefs")}
	assert.Equal(t, "a%2Fb.json", store.File("a/b").Name())
}

func TestManager(t *testing.T) {
	ctx := context.Background()
	store := new(MemoryStore)
	require.NoError(t, store.Save(ctx, "vendas", []string{"NOTE"}))

	m := NewManager("vendas", store, discardLogger, "ID")
	require.NoError(t, m.Load(ctx))
	assert.False(t, m.IsVisible("NOTE"))
	assert.True(t, m.IsVisible("NAME"))

	changes := 0
	m.OnChange = func() { changes++ }

	require.NoError(t, m.Toggle(ctx, "NAME"))
	assert.False(t, m.IsVisible("NAME"))
	assert.Equal(t, []string{"NAME", "NOTE"}, m.Hidden())
	assert.Equal(t, 1, changes)

	require.NoError(t, m.SetHidden(ctx, "NAME", true))
	assert.Equal(t, 1, changes, "unchanged visibility")

	require.NoError(t, m.Toggle(ctx, "ID"))
	assert.True(t, m.IsVisible("ID"), "critical field")
	assert.Equal(t, 1, changes)

	stored, err := store.Load(ctx, "vendas")
	require.NoError(t, err)
	assert.Equal(t, []string{"NAME", "NOTE"}, stored)

	require.NoError(t, m.Reset(ctx))
	assert.Empty(t, m.Hidden())
	assert.Equal(t, 2, changes)
}

func TestManagerWithTable(t *testing.T) {
	ctx := context.Background()
	store := new(MemoryStore)
	require.NoError(t, store.Save(ctx, "grid", []string{"NOTE"}))

	surface := datagrid.NewBufferSurface()
	m := NewManager("", store, discardLogger)
	table, err := htmltable.New(htmltable.Config{
		ContainerID: "grid",
		Columns: []*datagrid.Column{
			{Field: "ID", Title: "ID"},
			{Field: "NAME", Title: "Nome"},
			{Field: "NOTE", Title: "Obs"},
			{Field: "SECRET", Hidden: true},
		},
		KeyField:       "ID",
		IsFieldVisible: m.IsVisible,
		Plugins:        []datagrid.Plugin{m},
		Surface:        surface,
		Logger:         discardLogger,
	})
	require.NoError(t, err)
	m.OnChange = func() { require.NoError(t, table.Render()) }
	table.SetData([]datagrid.Record{{"ID": 1, "NAME": "Ana", "NOTE": "x"}})

	assert.Equal(t, "grid", m.Key(), "container id as key")
	html := string(surface.HTML("grid"))
	assert.NotContains(t, html, `<th data-field="NOTE"`)
	assert.Contains(t, html, `<th data-field="NAME"`)
	assert.Contains(t, html, `<input type="checkbox" data-column="NOTE"> Obs`)
	assert.Contains(t, html, `<input type="checkbox" data-column="NAME" checked> Nome`)
	assert.NotContains(t, html, `data-column="SECRET"`)

	require.NoError(t, m.Toggle(ctx, "NOTE"))
	html = string(surface.HTML("grid"))
	assert.Contains(t, html, `<th data-field="NOTE"`)
	assert.Contains(t, html, `<input type="checkbox" data-column="NOTE" checked> Obs`)
}
