package accordion

import (
	"github.com/dustin/go-humanize"

	"github.com/domonda/go-datagrid"
)

// LevelOptions are the resolved options of one depth of an accordion.
// Depths below len(Levels) are group headers,
// depth len(Levels) is the leaf level passed to the LeafRenderer.
type LevelOptions struct {
	Selection   bool
	ShowCount   bool
	Actions     []datagrid.Action
	TitleBadges []datagrid.TitleBadge
}

// DefaultLevelOptions are used for options
// set neither per level nor globally.
var DefaultLevelOptions = LevelOptions{ShowCount: true}

// LevelOptions resolves the options for depth in the order
// per-level override, global config, DefaultLevelOptions.
func (c *Config) LevelOptions(depth int) LevelOptions {
	override := c.LevelOverrides[depth]
	return LevelOptions{
		Selection:   resolve(override.Selection, c.Selection, DefaultLevelOptions.Selection),
		ShowCount:   resolve(override.ShowCount, c.ShowCount, DefaultLevelOptions.ShowCount),
		Actions:     resolve(setSlice(override.Actions), setSlice(c.Actions), DefaultLevelOptions.Actions),
		TitleBadges: resolve(setSlice(override.TitleBadges), setSlice(c.TitleBadges), DefaultLevelOptions.TitleBadges),
	}
}

func resolve[T any](level, global *T, fallback T) T {
	if level != nil {
		return *level
	}
	if global != nil {
		return *global
	}
	return fallback
}

// setSlice returns nil for a nil slice so that
// an explicitly empty list still overrides.
func setSlice[T any](s []T) *[]T {
	if s == nil {
		return nil
	}
	return &s
}

const (
	countFormat   = "#.###,"
	decimalFormat = "#.###,##"
)

// FormatCount formats n with dots as thousands separator.
func FormatCount(n int) string {
	return humanize.FormatInteger(countFormat, n)
}

// BadgeValue returns the formatted aggregate of badge over records.
//
// AggregateCount counts the records with a non empty value for
// badge.Field or all records if Field is empty.
// AggregateSum adds the numeric values of Field,
// AggregateDistinct counts its distinct non empty values.
func BadgeValue(badge datagrid.TitleBadge, records []datagrid.Record) string {
	switch badge.Aggregate {
	case datagrid.AggregateSum:
		var sum float64
		for _, rec := range records {
			if f, ok := datagrid.NumericValue(rec[badge.Field]); ok {
				sum += f
			}
		}
		return humanize.FormatFloat(decimalFormat, sum)

	case datagrid.AggregateDistinct:
		distinct := make(map[string]struct{})
		for _, rec := range records {
			if v := datagrid.ValueString(rec[badge.Field]); v != "" {
				distinct[v] = struct{}{}
			}
		}
		return FormatCount(len(distinct))

	default:
		if badge.Field == "" {
			return FormatCount(len(records))
		}
		count := 0
		for _, rec := range records {
			if datagrid.ValueString(rec[badge.Field]) != "" {
				count++
			}
		}
		return FormatCount(count)
	}
}
