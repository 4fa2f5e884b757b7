package datagrid

import (
	"io"
	"log/slog"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func amountRecords() []Record {
	return []Record{
		{"ID": 1, "NAME": "Ana", "AMT": "R$ 1.000,00"},
		{"ID": 2, "NAME": "Bo", "AMT": "R$ 200,00"},
	}
}

func numberedRecords(n int) []Record {
	records := make([]Record, n)
	for i := range records {
		records[i] = Record{"ID": i + 1, "NAME": "Name " + strconv.Itoa(i+1)}
	}
	return records
}

func names(records []Record) []string {
	result := make([]string, len(records))
	for i, rec := range records {
		result[i] = rec.String("NAME")
	}
	return result
}

func keys(records []Record, keyField string) []string {
	result := make([]string, len(records))
	for i, rec := range records {
		result[i] = rec.Key(keyField)
	}
	return result
}

func TestStore_SortCurrencyStrings(t *testing.T) {
	s := NewStore(StoreConfig{KeyField: "ID", Logger: discardLogger})
	s.SetData(amountRecords())

	s.SetSort("AMT", SortAsc, nil)
	assert.Equal(t, []string{"Bo", "Ana"}, names(s.Filtered()))

	s.SetSort("AMT", SortDesc, nil)
	assert.Equal(t, []string{"Ana", "Bo"}, names(s.Filtered()))

	s.SetSort("AMT", SortNone, nil)
	assert.Nil(t, s.Sort())
	assert.Equal(t, []string{"Ana", "Bo"}, names(s.Filtered()))
}

func TestStore_SortRoundTrip(t *testing.T) {
	s := NewStore(StoreConfig{KeyField: "ID", Logger: discardLogger})
	s.SetData([]Record{
		{"ID": 1, "NAME": "carla"},
		{"ID": 2, "NAME": "Ana"},
		{"ID": 3, "NAME": "bruno"},
		{"ID": 4, "NAME": "Dora"},
	})
	original := names(s.Filtered())

	direction := SortNone.Next()
	s.SetSort("NAME", direction, nil)
	asc := names(s.Filtered())
	assert.Equal(t, []string{"Ana", "bruno", "carla", "Dora"}, asc)

	direction = direction.Next()
	s.SetSort("NAME", direction, nil)
	desc := names(s.Filtered())
	for i := range asc {
		assert.Equal(t, asc[i], desc[len(desc)-1-i])
	}

	direction = direction.Next()
	require.Equal(t, SortNone, direction)
	s.SetSort("NAME", direction, nil)
	assert.Equal(t, original, names(s.Filtered()))
}

func TestStore_CustomCompare(t *testing.T) {
	s := NewStore(StoreConfig{KeyField: "ID", Logger: discardLogger})
	s.SetData(amountRecords())
	byNameLength := func(a, b Record) int {
		return len(b.String("NAME")) - len(a.String("NAME"))
	}
	s.SetSort("AMT", SortAsc, byNameLength)
	assert.Equal(t, []string{"Ana", "Bo"}, names(s.Filtered()))
}

func TestStore_Search(t *testing.T) {
	s := NewStore(StoreConfig{KeyField: "ID", SearchFields: []string{"NAME"}, Logger: discardLogger})
	s.SetData(amountRecords())

	s.SetSearchTerm("an")
	assert.Equal(t, []string{"Ana"}, names(s.Filtered()))

	s.SetSearchTerm("AN")
	assert.Equal(t, []string{"Ana"}, names(s.Filtered()), "case insensitive")

	s.SetSearchTerm("1.000")
	assert.Empty(t, s.Filtered(), "AMT is not a search field")

	s.SetSearchTerm("")
	assert.Len(t, s.Filtered(), 2)
}

func TestStore_SearchIdempotent(t *testing.T) {
	var changes []ChangeKind
	s := NewStore(StoreConfig{
		KeyField: "ID",
		Logger:   discardLogger,
		OnChange: func(c Change) { changes = append(changes, c.Kind) },
	})
	s.SetData(amountRecords())
	s.SetSearchTerm("bo")
	first := s.Filtered()
	s.SetSearchTerm("bo")
	assert.Equal(t, first, s.Filtered())
	assert.Equal(t, []ChangeKind{ChangeData, ChangeSearch}, changes)
}

func TestStore_SearchRespectsVisibility(t *testing.T) {
	hidden := map[string]bool{"AMT": true}
	s := NewStore(StoreConfig{
		KeyField:       "ID",
		IsFieldVisible: func(field string) bool { return !hidden[field] },
		Logger:         discardLogger,
	})
	s.SetData(amountRecords())

	s.SetSearchTerm("200")
	assert.Empty(t, s.Filtered())

	delete(hidden, "AMT")
	s.SetSearchTerm("")
	s.SetSearchTerm("200")
	assert.Equal(t, []string{"Bo"}, names(s.Filtered()))
}

func TestStore_SelectAllFiltered(t *testing.T) {
	s := NewStore(StoreConfig{KeyField: "ID", Logger: discardLogger})
	s.SetData([]Record{
		{"ID": 1, "NAME": "Ana"},
		{"ID": 2, "NAME": "Bo"},
		{"ID": 3, "NAME": "Mariana"},
		{"ID": 4, "NAME": "Carl"},
		{"ID": 5, "NAME": "Dora"},
	})
	s.SetSearchTerm("ana")
	require.Len(t, s.Filtered(), 2)

	s.ToggleSelectAll(true)
	assert.Equal(t, []string{"1", "3"}, s.Selection().Keys())
	assert.True(t, s.IsAllSelected())

	s.SetSearchTerm("")
	assert.Equal(t, []string{"1", "3"}, s.Selection().Keys())
	assert.False(t, s.IsAllSelected())

	s.ToggleSelectAll(true)
	assert.True(t, s.IsAllSelected())
	s.SetSearchTerm("bo")
	s.ToggleSelectAll(false)
	assert.Equal(t, []string{"1", "3", "4", "5"}, s.Selection().Keys())
}

func TestStore_IsAllSelected(t *testing.T) {
	s := NewStore(StoreConfig{KeyField: "ID", Logger: discardLogger})
	assert.False(t, s.IsAllSelected(), "empty view")

	s.SetData(numberedRecords(3))
	for _, key := range []string{"1", "2"} {
		s.ToggleSelection(key)
	}
	assert.False(t, s.IsAllSelected())
	s.ToggleSelection("3")
	assert.True(t, s.IsAllSelected())
	s.ToggleSelection("2")
	assert.False(t, s.IsAllSelected())
	assert.Equal(t, []string{"1", "3"}, keys(s.SelectedRecords(), "ID"))
}

func TestStore_SelectionCallbacks(t *testing.T) {
	var (
		calls    []string
		selected []Record
	)
	s := NewStore(StoreConfig{
		KeyField: "ID",
		Logger:   discardLogger,
		OnSelectionChange: func(records []Record) {
			calls = append(calls, "selection")
			selected = records
		},
	})
	s.SetData(numberedRecords(3))
	s.SetOnChange(func(c Change) {
		calls = append(calls, c.Kind.String())
		assert.False(t, c.Kind.IsStructural())
	})

	s.ToggleSelection("2")
	assert.Equal(t, []string{"selection", "selection"}, calls)
	assert.Equal(t, []string{"2"}, keys(selected, "ID"))
}

func TestStore_SharedSelection(t *testing.T) {
	shared := NewSelectionSet("2")
	parent := NewStore(StoreConfig{KeyField: "ID", Selection: shared, Logger: discardLogger})
	leaf := NewStore(StoreConfig{KeyField: "ID", Selection: shared, Logger: discardLogger})
	parent.SetData(numberedRecords(4))
	leaf.SetData(numberedRecords(4)[2:])

	leaf.ToggleSelection("3")
	assert.True(t, parent.IsSelected("3"))
	assert.Same(t, parent.Selection(), leaf.Selection())

	leaf.Destroy()
	assert.Equal(t, []string{"2", "3"}, shared.Keys(), "destroying a leaf keeps a shared selection")
	assert.Equal(t, []string{"2", "3"}, keys(parent.SelectedRecords(), "ID"))
}

func TestStore_Pagination(t *testing.T) {
	s := NewStore(StoreConfig{
		KeyField:   "ID",
		Pagination: Pagination{Enabled: true, PageSize: 10},
		Logger:     discardLogger,
	})
	s.SetData(numberedRecords(25))

	snap := s.Snapshot()
	assert.Equal(t, 3, snap.TotalPages)
	assert.Equal(t, 25, snap.Total)
	assert.Equal(t, PageStats{Start: 1, End: 10}, snap.Stats)

	s.GoToPage(99)
	snap = s.Snapshot()
	assert.Equal(t, 3, snap.Pagination.CurrentPage)
	assert.Equal(t, PageStats{Start: 21, End: 25}, snap.Stats)
	assert.Len(t, snap.PageData, 5)

	s.GoToPage(-1)
	assert.Equal(t, 1, s.Pagination().CurrentPage)

	s.GoToPage(2)
	s.SetPageSize(20)
	snap = s.Snapshot()
	assert.Equal(t, 1, snap.Pagination.CurrentPage)
	assert.Equal(t, 2, snap.TotalPages)

	s.SetPageSize(0)
	assert.Equal(t, 20, s.Pagination().PageSize)

	s.GoToPage(2)
	s.SetSearchTerm("Name 1")
	snap = s.Snapshot()
	assert.Equal(t, 1, snap.Pagination.CurrentPage, "search resets the page")
	assert.Equal(t, 11, snap.Total)
}

func TestStore_GoToPageUnchanged(t *testing.T) {
	changes := 0
	s := NewStore(StoreConfig{
		KeyField:   "ID",
		Pagination: Pagination{Enabled: true, PageSize: 2},
		OnChange:   func(Change) { changes++ },
		Logger:     discardLogger,
	})
	s.SetData(numberedRecords(4))
	s.GoToPage(1)
	assert.Equal(t, 1, changes)
	s.GoToPage(2)
	assert.Equal(t, 2, changes)
}

func TestStore_EmptyDataset(t *testing.T) {
	s := NewStore(StoreConfig{
		KeyField:   "ID",
		Pagination: Pagination{Enabled: true, PageSize: 10},
		Logger:     discardLogger,
	})
	s.SetData([]Record{})

	snap := s.Snapshot()
	assert.Equal(t, 1, snap.TotalPages)
	assert.Equal(t, 1, snap.Pagination.CurrentPage)
	assert.Equal(t, []Record{}, snap.PageData)
	assert.Equal(t, PageStats{}, snap.Stats)

	s.GoToPage(5)
	assert.Equal(t, 1, s.Pagination().CurrentPage)
}

func TestStore_SetDataShapes(t *testing.T) {
	tests := []struct {
		name string
		data any
		want int
	}{
		{name: "records", data: numberedRecords(2), want: 2},
		{name: "maps", data: []map[string]any{{"ID": 1}}, want: 1},
		{name: "any slice", data: []any{map[string]any{"ID": 1}, map[string]any{"ID": 2}}, want: 2},
		{name: "legacy rows", data: map[string]any{"rows": []any{map[string]any{"ID": 1}}}, want: 1},
		{name: "nil", data: nil, want: 0},
		{name: "string", data: "not a dataset", want: 0},
		{name: "number", data: 42, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(StoreConfig{KeyField: "ID", Logger: discardLogger})
			s.SetData(tt.data)
			assert.Len(t, s.Data(), tt.want)
			assert.NotNil(t, s.Data())
		})
	}
}

func TestStore_ReentrantOnChange(t *testing.T) {
	var s *Store
	s = NewStore(StoreConfig{
		KeyField:   "ID",
		Pagination: Pagination{Enabled: true, PageSize: 2},
		Logger:     discardLogger,
		OnChange: func(c Change) {
			if c.Kind == ChangeData {
				s.GoToPage(2)
			}
		},
	})
	s.SetData(numberedRecords(4))
	assert.Equal(t, 2, s.Pagination().CurrentPage)
	assert.Equal(t, []string{"3", "4"}, keys(s.Snapshot().PageData, "ID"))
}

func TestStore_Destroy(t *testing.T) {
	changes := 0
	s := NewStore(StoreConfig{KeyField: "ID", Logger: discardLogger, OnChange: func(Change) { changes++ }})
	s.SetData(numberedRecords(2))
	s.ToggleSelection("1")
	require.Equal(t, 2, changes)

	s.Destroy()
	s.Destroy()
	assert.True(t, s.IsDestroyed())
	assert.Empty(t, s.Data())
	assert.False(t, s.IsSelected("1"))

	s.SetData(numberedRecords(2))
	s.ToggleSelection("2")
	assert.Equal(t, 2, changes)
}
