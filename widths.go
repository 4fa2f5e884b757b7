package datagrid

import (
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/gohugoio/hashstructure"
	"github.com/mattn/go-runewidth"
)

// Header safety floor constants
const (
	HeaderCharWidth     = 8.5
	HeaderBasePadding   = 40
	HeaderSortIconSpace = 25
	HeaderSafetyMargin  = 15
)

// Content sampling constants
const (
	ContentCharWidth    = 7.5
	ContentPadding      = 32
	ContentSafetyBuffer = 10
	// WidthSampleSize is the maximum number of records
	// sampled for the content width of a column.
	WidthSampleSize = 100
)

// Layout constants
const (
	// FlexibleStandIn is the width a flexible column
	// contributes when summing up the table width.
	FlexibleStandIn      = 40
	CriticalMinWidth     = 180
	DefaultViewportWidth = 1366
	ViewportMargin       = 50

	ActionsPadding    = 24
	ActionButtonWidth = 36
	ActionsMinWidth   = 300
	ActionsMaxWidth   = 600
)

// Width is a column width in pixels.
// The zero value Flexible means the column has no fixed width.
type Width int

const Flexible Width = 0

func (w Width) IsFlexible() bool { return w <= 0 }

// CSS returns the width as CSS length
// or an empty string for a flexible width.
func (w Width) CSS() string {
	if w.IsFlexible() {
		return ""
	}
	return strconv.Itoa(int(w)) + "px"
}

// WidthMap maps column fields and ActionsField to widths.
type WidthMap map[string]Width

// Get returns the width of field and if the field has one.
func (m WidthMap) Get(field string) (Width, bool) {
	w, ok := m[field]
	return w, ok
}

// WidthRange is a preset range of pixel widths.
type WidthRange struct {
	Min int
	Max int
}

// FieldWidthPresets map upper case business field names to width ranges.
// They take precedence over TypeWidthPresets.
var FieldWidthPresets = map[string]WidthRange{
	"ID":          {Min: 60, Max: 100},
	"CODIGO":      {Min: 80, Max: 140},
	"CODE":        {Min: 80, Max: 140},
	"NOME":        {Min: 180, Max: 320},
	"NAME":        {Min: 180, Max: 320},
	"DESCRICAO":   {Min: 220, Max: 420},
	"DESCRIPTION": {Min: 220, Max: 420},
	"OBSERVACAO":  {Min: 200, Max: 400},
	"EMAIL":       {Min: 200, Max: 300},
	"CPF":         {Min: 130, Max: 150},
	"CNPJ":        {Min: 160, Max: 190},
	"TELEFONE":    {Min: 130, Max: 170},
	"PHONE":       {Min: 130, Max: 170},
	"STATUS":      {Min: 100, Max: 160},
	"SITUACAO":    {Min: 100, Max: 160},
	"VALOR":       {Min: 110, Max: 170},
	"AMOUNT":      {Min: 110, Max: 170},
	"AMT":         {Min: 110, Max: 170},
	"PRECO":       {Min: 100, Max: 150},
	"DATA":        {Min: 100, Max: 140},
	"DATE":        {Min: 100, Max: 140},
	"CIDADE":      {Min: 140, Max: 220},
	"CITY":        {Min: 140, Max: 220},
	"UF":          {Min: 60, Max: 80},
	"ESTADO":      {Min: 100, Max: 160},
	"STATE":       {Min: 100, Max: 160},
	"CEP":         {Min: 100, Max: 120},
}

// TypeWidthPresets map column types to width ranges,
// used when no field preset matches.
var TypeWidthPresets = map[ColumnType]WidthRange{
	TypeText:     {Min: 120, Max: 360},
	TypeNumber:   {Min: 80, Max: 140},
	TypeCurrency: {Min: 110, Max: 170},
	TypeDate:     {Min: 100, Max: 140},
	TypeDateTime: {Min: 150, Max: 190},
	TypeBadge:    {Min: 90, Max: 170},
	TypeBoolean:  {Min: 70, Max: 100},
	TypeEmail:    {Min: 180, Max: 300},
}

// ActionsLayout describes the actions pseudo-column.
type ActionsLayout struct {
	// Inline is the number of inline action buttons
	Inline int
	// Grouped is the number of actions in a dropdown
	Grouped int
	// ForcedWidth overrides the computed width if positive
	ForcedWidth int
}

// ActionsWidth returns the width of the actions pseudo-column
// or zero if there are no actions.
func ActionsWidth(layout ActionsLayout) Width {
	if layout.ForcedWidth > 0 {
		return Width(layout.ForcedWidth)
	}
	if layout.Inline <= 0 && layout.Grouped <= 0 {
		return 0
	}
	w := ActionsPadding + max(layout.Inline, 0)*ActionButtonWidth
	if layout.Grouped > 0 {
		w += ActionButtonWidth
	}
	return Width(clamp(w, ActionsMinWidth, ActionsMaxWidth))
}

// HeaderFloor returns the minimum width that
// displays title as column header without truncation.
func HeaderFloor(title string) int {
	chars := runewidth.StringWidth(title)
	return int(math.Ceil(float64(chars)*HeaderCharWidth + HeaderBasePadding + HeaderSortIconSpace + HeaderSafetyMargin))
}

// ContentWidth returns the pixel width for the longest
// value of field within the first WidthSampleSize records.
func ContentWidth(field string, data []Record) int {
	chars := 0
	for _, rec := range data[:min(len(data), WidthSampleSize)] {
		chars = max(chars, runewidth.StringWidth(ValueString(rec[field])))
	}
	return int(math.Round(float64(chars)*ContentCharWidth + ContentPadding + ContentSafetyBuffer))
}

// WidthOptions configures WidthResolver.Resolve.
type WidthOptions struct {
	// ViewportWidth defaults to DefaultViewportWidth
	ViewportWidth int
	// CriticalColumns never shrink below CriticalMinWidth
	// and are never hidden.
	CriticalColumns []string
	Actions         ActionsLayout
	IsFieldVisible  VisibilityFunc `hash:"ignore"`
}

// WidthResolver computes column widths with heuristics
// over a sample of the data and memoizes results per cache key.
//
// A cached result is only used while the dataset slice is
// the same slice (reference equality, not deep equality)
// and the visible column configuration is unchanged.
//
// A WidthResolver is not safe for concurrent use.
type WidthResolver struct {
	FieldPresets map[string]WidthRange
	TypePresets  map[ColumnType]WidthRange

	cache map[string]widthCacheEntry
}

type widthCacheEntry struct {
	data   []Record
	hash   uint64
	widths WidthMap
}

// NewWidthResolver returns a WidthResolver
// using FieldWidthPresets and TypeWidthPresets.
func NewWidthResolver() *WidthResolver {
	return &WidthResolver{
		FieldPresets: FieldWidthPresets,
		TypePresets:  TypeWidthPresets,
		cache:        make(map[string]widthCacheEntry),
	}
}

// Resolve returns the widths of the visible columns
// and of the ActionsField pseudo-column.
// Results are cached under cacheKey unless it is empty.
func (r *WidthResolver) Resolve(cacheKey string, columns []*Column, data []Record, opts WidthOptions) WidthMap {
	if opts.ViewportWidth <= 0 {
		opts.ViewportWidth = DefaultViewportWidth
	}
	visible := VisibleColumns(columns, opts.IsFieldVisible, opts.CriticalColumns...)

	hash, hashErr := hashstructure.Hash(struct {
		Columns []*Column
		Options WidthOptions
	}{visible, opts}, nil)
	useCache := cacheKey != "" && hashErr == nil
	if useCache {
		if entry, ok := r.cache[cacheKey]; ok && entry.hash == hash && sameRecords(entry.data, data) {
			return maps.Clone(entry.widths)
		}
	}

	widths := make(WidthMap, len(visible)+1)
	for _, col := range visible {
		w := r.ColumnWidth(col, data)
		if !w.IsFlexible() && slices.Contains(opts.CriticalColumns, col.Field) {
			w = max(w, CriticalMinWidth)
		}
		widths[col.Field] = w
	}
	widths[ActionsField] = ActionsWidth(opts.Actions)
	electHeroColumn(visible, widths, opts.ViewportWidth)

	if useCache {
		r.cache[cacheKey] = widthCacheEntry{data: data, hash: hash, widths: maps.Clone(widths)}
	}
	return widths
}

// Invalidate drops the cached result for cacheKey.
func (r *WidthResolver) Invalidate(cacheKey string) {
	delete(r.cache, cacheKey)
}

// ColumnWidth returns the width of a single column:
//  1. Locked columns are Flexible
//  2. An explicit width is raised to the HeaderFloor
//  3. Otherwise the ContentWidth of the data sample is clamped
//     into the field preset or type preset range
//     and raised to the HeaderFloor
func (r *WidthResolver) ColumnWidth(col *Column, data []Record) Width {
	if col.IsLocked() {
		return Flexible
	}
	floor := HeaderFloor(col.TitleOrField())
	if px, ok := col.FixedWidth(); ok {
		return Width(max(px, floor))
	}
	preset := r.Preset(col)
	content := clamp(ContentWidth(col.Field, data), preset.Min, preset.Max)
	return Width(max(content, floor))
}

// Preset returns the width range for a column.
// Field presets match the upper case field name
// or its first underscore separated token.
func (r *WidthResolver) Preset(col *Column) WidthRange {
	field := strings.ToUpper(col.Field)
	if preset, ok := r.FieldPresets[field]; ok {
		return preset
	}
	if token, _, found := strings.Cut(field, "_"); found {
		if preset, ok := r.FieldPresets[token]; ok {
			return preset
		}
	}
	if preset, ok := r.TypePresets[col.Type]; ok {
		return preset
	}
	return r.TypePresets[TypeText]
}

// electHeroColumn switches the widest text column without explicit
// width to Flexible if the table is narrower than the viewport,
// so that it absorbs the leftover space.
func electHeroColumn(visible []*Column, widths WidthMap, viewportWidth int) {
	total := int(widths[ActionsField])
	for _, col := range visible {
		if w := widths[col.Field]; w.IsFlexible() {
			total += FlexibleStandIn
		} else {
			total += int(w)
		}
	}
	if total >= viewportWidth-ViewportMargin {
		return
	}
	var hero *Column
	for _, col := range visible {
		if !col.Type.IsText() || col.IsLocked() || widths[col.Field].IsFlexible() {
			continue
		}
		if _, fixed := col.FixedWidth(); fixed {
			continue
		}
		if hero == nil || widths[col.Field] > widths[hero.Field] {
			hero = col
		}
	}
	if hero != nil {
		widths[hero.Field] = Flexible
	}
}

// sameRecords reports if a and b are the same slice.
func sameRecords(a, b []Record) bool {
	if len(a) != len(b) {
		return false
	}
	return len(a) == 0 || &a[0] == &b[0]
}
