package datagrid

// Action is a row or group action rendered in the actions column.
// Actions are dispatched by Name to the handler of the host.
type Action struct {
	Name  string `yaml:"name"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon,omitempty"`
	Class string `yaml:"class,omitempty"`
	// Grouped actions are rendered in a dropdown menu
	Grouped bool `yaml:"grouped,omitempty"`
}

// ActionsLayoutOf returns the ActionsLayout of actions
// with forcedWidth as ActionsLayout.ForcedWidth.
func ActionsLayoutOf(actions []Action, forcedWidth int) ActionsLayout {
	layout := ActionsLayout{ForcedWidth: forcedWidth}
	for _, a := range actions {
		if a.Grouped {
			layout.Grouped++
		} else {
			layout.Inline++
		}
	}
	return layout
}

// SplitActions returns the inline and the grouped actions.
func SplitActions(actions []Action) (inline, grouped []Action) {
	for _, a := range actions {
		if a.Grouped {
			grouped = append(grouped, a)
		} else {
			inline = append(inline, a)
		}
	}
	return inline, grouped
}

// BadgeAggregate is the aggregation of a TitleBadge.
type BadgeAggregate string

const (
	AggregateCount    BadgeAggregate = "count"
	AggregateSum      BadgeAggregate = "sum"
	AggregateDistinct BadgeAggregate = "distinct"
)

// TitleBadge is a badge rendered next to the title of an accordion group
// showing an aggregate of Field over the records of the group.
type TitleBadge struct {
	Label     string         `yaml:"label"`
	Field     string         `yaml:"field,omitempty"`
	Aggregate BadgeAggregate `yaml:"aggregate"`
	Class     string         `yaml:"class,omitempty"`
}

// LevelConfig overrides the accordion configuration for one grouping depth.
// Nil fields fall back to the global configuration.
type LevelConfig struct {
	Selection   *bool        `yaml:"selection,omitempty"`
	ShowCount   *bool        `yaml:"showCount,omitempty"`
	Actions     []Action     `yaml:"actions,omitempty"`
	TitleBadges []TitleBadge `yaml:"titleBadges,omitempty"`
}
