package datagrid

// DefaultPageSize is used when pagination
// is enabled without a positive page size.
const DefaultPageSize = 10

// Pagination is the pagination cursor of a Store.
type Pagination struct {
	Enabled     bool `yaml:"enabled"`
	PageSize    int  `yaml:"pageSize"`
	CurrentPage int  `yaml:"currentPage,omitempty"`
}

func (p Pagination) pageSize() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

// PageStats is the 1-based display range of a page.
// Both are zero for an empty page.
type PageStats struct {
	Start int
	End   int
}

// Page is the result of a Paginator.
type Page struct {
	// Items are the records of the current page
	Items []Record
	// Total counts the paginated units,
	// records or top-level groups
	Total      int
	TotalPages int
	Stats      PageStats
}

// Paginator is the pagination strategy of a Store.
// It is injected at construction instead of
// replacing methods of individual Store instances.
type Paginator interface {
	// Paginate returns the page p.CurrentPage of filtered.
	// TotalPages must be at least 1.
	Paginate(filtered []Record, p Pagination) Page
}

// PaginatorFunc implements Paginator for a function.
type PaginatorFunc func(filtered []Record, p Pagination) Page

func (f PaginatorFunc) Paginate(filtered []Record, p Pagination) Page {
	return f(filtered, p)
}

// RecordPaginator paginates over records,
// the Store paginates itself.
type RecordPaginator struct{}

func (RecordPaginator) Paginate(filtered []Record, p Pagination) Page {
	total := len(filtered)
	if !p.Enabled {
		return Page{Items: filtered, Total: total, TotalPages: 1, Stats: statsFor(0, total, total)}
	}
	size := p.pageSize()
	totalPages := totalPagesFor(total, size)
	current := clamp(p.CurrentPage, 1, totalPages)
	start := min((current-1)*size, total)
	end := min(start+size, total)
	return Page{
		Items:      filtered[start:end],
		Total:      total,
		TotalPages: totalPages,
		Stats:      statsFor(start, end, total),
	}
}

// DelegatePaginator does not paginate and
// returns all filtered records as single page,
// leaving pagination to a parent component.
type DelegatePaginator struct{}

func (DelegatePaginator) Paginate(filtered []Record, p Pagination) Page {
	total := len(filtered)
	return Page{Items: filtered, Total: total, TotalPages: 1, Stats: statsFor(0, total, total)}
}

// GroupPaginator paginates over the distinct values of
// the top-level grouping Field in first-seen order.
// The items of a page are all records of the top-level
// groups of the page, Total counts top-level groups.
type GroupPaginator struct {
	Field string
}

func (g GroupPaginator) Paginate(filtered []Record, p Pagination) Page {
	keys := topLevelKeys(filtered, g.Field)
	total := len(keys)
	if !p.Enabled {
		return Page{Items: filtered, Total: total, TotalPages: 1, Stats: statsFor(0, total, total)}
	}
	size := p.pageSize()
	totalPages := totalPagesFor(total, size)
	current := clamp(p.CurrentPage, 1, totalPages)
	start := min((current-1)*size, total)
	end := min(start+size, total)
	pageKeys := make(map[string]struct{}, end-start)
	for _, key := range keys[start:end] {
		pageKeys[key] = struct{}{}
	}
	items := make([]Record, 0, len(filtered))
	for _, rec := range filtered {
		if _, ok := pageKeys[GroupKey(rec[g.Field])]; ok {
			items = append(items, rec)
		}
	}
	return Page{
		Items:      items,
		Total:      total,
		TotalPages: totalPages,
		Stats:      statsFor(start, end, total),
	}
}

func topLevelKeys(records []Record, field string) []string {
	var (
		keys []string
		seen = make(map[string]struct{})
	)
	for _, rec := range records {
		key := GroupKey(rec[field])
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			keys = append(keys, key)
		}
	}
	return keys
}

// totalPagesFor returns ceil(total/size) with a floor of 1.
func totalPagesFor(total, size int) int {
	return max(1, (total+size-1)/size)
}

func statsFor(start, end, total int) PageStats {
	if total == 0 || end <= start {
		return PageStats{}
	}
	return PageStats{Start: start + 1, End: end}
}
