package datagrid

import (
	"log/slog"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// ChangeKind tells presentation components
// which kind of mutation caused a Change.
type ChangeKind int

const (
	ChangeData ChangeKind = iota
	ChangeSearch
	ChangeSort
	ChangePage
	ChangeSelection
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeData:
		return "data"
	case ChangeSearch:
		return "search"
	case ChangeSort:
		return "sort"
	case ChangePage:
		return "page"
	case ChangeSelection:
		return "selection"
	}
	return "unknown"
}

// IsStructural returns false for selection-only changes
// that don't need a full re-render.
func (k ChangeKind) IsStructural() bool {
	return k != ChangeSelection
}

// Change is emitted by a Store after every mutation.
type Change struct {
	Kind     ChangeKind
	Snapshot Snapshot
}

// Snapshot is the derived, paginated view of a Store.
// It is the only contract presentation components read.
type Snapshot struct {
	PageData   []Record
	Total      int
	TotalPages int
	Pagination Pagination
	Stats      PageStats
}

// StoreConfig configures a new Store.
type StoreConfig struct {
	// KeyField is the record field uniquely identifying a record.
	KeyField string
	// SearchFields limits searching to these fields.
	// All fields of a record are searched if empty.
	SearchFields []string
	// IsFieldVisible excludes hidden fields from searching.
	IsFieldVisible VisibilityFunc
	Pagination     Pagination
	// Paginator defaults to RecordPaginator.
	Paginator Paginator
	// Selection is an external SelectionSet to share with other Stores.
	// A new set is created if nil.
	Selection *SelectionSet
	// OnChange is called as final step of every mutation.
	OnChange func(Change)
	// OnSelectionChange is called with the selected records
	// found in the raw dataset after every selection mutation.
	OnSelectionChange func(selected []Record)
	Logger            *slog.Logger
}

// Store is the reactive single source of truth
// for the dataset of one table or accordion level.
//
// The filtered view is a pure function of the raw data, the search term
// and the sort spec and is recomputed on every mutating call.
// Every mutating method calls OnChange as its final step,
// so callbacks may safely call back into the Store.
//
// A Store is not safe for concurrent use.
type Store struct {
	keyField          string
	searchFields      []string
	isFieldVisible    VisibilityFunc
	paginator         Paginator
	selection         *SelectionSet
	externalSelection bool
	onChange          func(Change)
	onSelectionChange func([]Record)
	logger            *slog.Logger
	fold              cases.Caser

	raw        []Record
	filtered   []Record
	searchTerm string
	foldedTerm string
	sort       *SortSpec
	pagination Pagination
	page       Page
	destroyed  bool
}

// NewStore returns an empty Store.
func NewStore(config StoreConfig) *Store {
	s := &Store{
		keyField:          config.KeyField,
		searchFields:      config.SearchFields,
		isFieldVisible:    config.IsFieldVisible,
		paginator:         config.Paginator,
		selection:         config.Selection,
		externalSelection: config.Selection != nil,
		onChange:          config.OnChange,
		onSelectionChange: config.OnSelectionChange,
		logger:            config.Logger,
		fold:              cases.Fold(),
		raw:               []Record{},
		pagination:        config.Pagination,
	}
	if s.paginator == nil {
		s.paginator = RecordPaginator{}
	}
	if s.selection == nil {
		s.selection = NewSelectionSet()
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.pagination.Enabled && s.pagination.PageSize <= 0 {
		s.pagination.PageSize = DefaultPageSize
	}
	s.pagination.CurrentPage = max(s.pagination.CurrentPage, 1)
	s.applyFilters()
	return s
}

// SetOnChange replaces the change callback.
func (s *Store) SetOnChange(onChange func(Change)) {
	s.onChange = onChange
}

// SetOnSelectionChange replaces the selection change callback.
func (s *Store) SetOnSelectionChange(onSelectionChange func([]Record)) {
	s.onSelectionChange = onSelectionChange
}

func (s *Store) KeyField() string { return s.keyField }

// Data returns the raw dataset.
func (s *Store) Data() []Record { return s.raw }

// Filtered returns the filtered and sorted view of the dataset.
func (s *Store) Filtered() []Record { return s.filtered }

func (s *Store) SearchTerm() string { return s.searchTerm }

// Sort returns the active sort spec or nil.
func (s *Store) Sort() *SortSpec { return s.sort }

func (s *Store) Pagination() Pagination { return s.pagination }

// Selection returns the possibly shared selection set.
func (s *Store) Selection() *SelectionSet { return s.selection }

func (s *Store) IsDestroyed() bool { return s.destroyed }

// SetData replaces the raw dataset wholesale.
// Supported shapes are documented at NormalizeRecords,
// any other value results in an empty dataset and a logged warning.
func (s *Store) SetData(data any) {
	if s.destroyed {
		return
	}
	s.raw = normalizeOrWarn(data, s.logger)
	s.applyFilters()
	s.notify(ChangeData)
}

// SetSearchTerm filters the dataset by a case-insensitive
// substring match and resets the current page to 1.
// It is a no-op if the term is unchanged.
func (s *Store) SetSearchTerm(term string) {
	if s.destroyed || term == s.searchTerm {
		return
	}
	s.searchTerm = term
	s.foldedTerm = s.fold.String(term)
	s.pagination.CurrentPage = 1
	s.applyFilters()
	s.notify(ChangeSearch)
}

// SetSort sorts the filtered view by field in direction.
// SortNone clears sorting and restores the filter-only order.
// A non nil compare fully overrides the default heuristic
// implemented by CompareValues.
func (s *Store) SetSort(field string, direction SortDirection, compare CompareFunc) {
	if s.destroyed {
		return
	}
	if direction == SortNone || field == "" {
		s.sort = nil
	} else {
		s.sort = &SortSpec{Field: field, Direction: direction, Compare: compare}
	}
	s.applyFilters()
	s.notify(ChangeSort)
}

// GoToPage moves the pagination cursor to page n
// clamped into [1, TotalPages].
func (s *Store) GoToPage(n int) {
	if s.destroyed {
		return
	}
	n = clamp(n, 1, s.page.TotalPages)
	if n == s.pagination.CurrentPage {
		return
	}
	s.pagination.CurrentPage = n
	s.repaginate()
	s.notify(ChangePage)
}

// SetPageSize changes the page size and resets
// the current page to 1. Sizes below 1 are ignored.
func (s *Store) SetPageSize(n int) {
	if s.destroyed || n < 1 {
		return
	}
	s.pagination.PageSize = n
	s.pagination.CurrentPage = 1
	s.repaginate()
	s.notify(ChangePage)
}

// ToggleSelection toggles the selection of the record with key.
func (s *Store) ToggleSelection(key string) {
	if s.destroyed {
		return
	}
	s.selection.Toggle(key)
	s.notifySelection()
}

// ToggleSelectAll selects or deselects all records
// of the current filtered view. Selected records
// outside of the filtered view are not changed.
func (s *Store) ToggleSelectAll(selectAll bool) {
	if s.destroyed {
		return
	}
	s.SetSelected(s.filtered, selectAll)
}

// SetSelected selects or deselects the passed records.
func (s *Store) SetSelected(records []Record, selected bool) {
	if s.destroyed {
		return
	}
	for _, rec := range records {
		if selected {
			s.selection.Add(rec.Key(s.keyField))
		} else {
			s.selection.Remove(rec.Key(s.keyField))
		}
	}
	s.notifySelection()
}

// SetSelectedKeys replaces the selection with keys.
func (s *Store) SetSelectedKeys(keys ...string) {
	if s.destroyed {
		return
	}
	s.selection.Clear()
	for _, key := range keys {
		s.selection.Add(key)
	}
	s.notifySelection()
}

// ClearSelection deselects all records.
func (s *Store) ClearSelection() {
	s.SetSelectedKeys()
}

// IsSelected returns if the record with key is selected.
func (s *Store) IsSelected(key string) bool {
	return s.selection.Has(key)
}

// IsAllSelected returns true if the filtered view is not empty
// and the keys of all its records are selected.
func (s *Store) IsAllSelected() bool {
	if len(s.filtered) == 0 {
		return false
	}
	for _, rec := range s.filtered {
		if !s.selection.Has(rec.Key(s.keyField)) {
			return false
		}
	}
	return true
}

// SelectedRecords returns the records of the raw dataset
// with selected keys in dataset order.
// Selected keys without record are ignored.
func (s *Store) SelectedRecords() []Record {
	var selected []Record
	for _, rec := range s.raw {
		if s.selection.Has(rec.Key(s.keyField)) {
			selected = append(selected, rec)
		}
	}
	return selected
}

// Snapshot returns the current page of the filtered view.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		PageData:   s.page.Items,
		Total:      s.page.Total,
		TotalPages: s.page.TotalPages,
		Pagination: s.pagination,
		Stats:      s.page.Stats,
	}
}

// Destroy clears all state and callbacks.
// An external SelectionSet is released but not cleared
// because other Stores may still use it.
// Destroy is idempotent.
func (s *Store) Destroy() {
	if s.destroyed {
		return
	}
	s.destroyed = true
	s.raw = nil
	s.filtered = nil
	s.page = Page{TotalPages: 1}
	s.sort = nil
	if !s.externalSelection {
		s.selection.Clear()
	}
	s.selection = nil
	s.onChange = nil
	s.onSelectionChange = nil
	s.isFieldVisible = nil
}

func (s *Store) applyFilters() {
	filtered := make([]Record, 0, len(s.raw))
	for _, rec := range s.raw {
		if s.foldedTerm == "" || s.matches(rec) {
			filtered = append(filtered, rec)
		}
	}
	if s.sort != nil {
		compare := s.sort.Compare
		if compare == nil {
			compare = FieldCompare(s.sort.Field)
		}
		if s.sort.Direction == SortDesc {
			asc := compare
			compare = func(a, b Record) int { return asc(b, a) }
		}
		slices.SortStableFunc(filtered, compare)
	}
	s.filtered = filtered
	s.repaginate()
}

func (s *Store) repaginate() {
	s.page = s.paginator.Paginate(s.filtered, s.pagination)
	if s.page.TotalPages < 1 {
		s.page.TotalPages = 1
	}
	if clamped := clamp(s.pagination.CurrentPage, 1, s.page.TotalPages); clamped != s.pagination.CurrentPage {
		s.pagination.CurrentPage = clamped
		s.page = s.paginator.Paginate(s.filtered, s.pagination)
	}
}

func (s *Store) matches(rec Record) bool {
	if len(s.searchFields) > 0 {
		for _, field := range s.searchFields {
			if s.fieldMatches(rec, field) {
				return true
			}
		}
		return false
	}
	for field := range rec {
		if s.fieldMatches(rec, field) {
			return true
		}
	}
	return false
}

func (s *Store) fieldMatches(rec Record, field string) bool {
	if s.isFieldVisible != nil && !s.isFieldVisible(field) {
		return false
	}
	val, ok := rec[field]
	if !ok || val == nil {
		return false
	}
	return strings.Contains(s.fold.String(ValueString(val)), s.foldedTerm)
}

func (s *Store) notifySelection() {
	if s.onSelectionChange != nil {
		s.onSelectionChange(s.SelectedRecords())
	}
	s.notify(ChangeSelection)
}

func (s *Store) notify(kind ChangeKind) {
	if s.onChange != nil {
		s.onChange(Change{Kind: kind, Snapshot: s.Snapshot()})
	}
}
