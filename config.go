package datagrid

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gohugoio/hashstructure"
	fs "github.com/ungerik/go-fs"
	"gopkg.in/yaml.v3"
)

// Config is the declarative configuration
// of a table or accordion component.
type Config struct {
	ContainerID    string `yaml:"containerId,omitempty"`
	PersistenceKey string `yaml:"persistenceKey,omitempty"`
	// Version is an explicit config version used
	// for config change detection by Key.
	Version string `yaml:"version,omitempty"`

	KeyField     string   `yaml:"keyField"`
	SearchFields []string `yaml:"searchFields,omitempty"`
	Selection    bool     `yaml:"selection,omitempty"`
	// Pagination is enabled unless explicitly disabled
	Pagination      *bool    `yaml:"pagination,omitempty"`
	PageSize        int      `yaml:"pageSize,omitempty"`
	CriticalColumns []string `yaml:"criticalColumns,omitempty"`
	ViewportWidth   int      `yaml:"viewportWidth,omitempty"`
	// ActionsWidth forces the width of the actions column if positive
	ActionsWidth int `yaml:"actionsWidth,omitempty"`

	Columns []*Column `yaml:"columns"`
	Actions []Action  `yaml:"actions,omitempty"`

	// Levels are the grouping fields of an accordion
	Levels         []string            `yaml:"levels,omitempty"`
	LevelOverrides map[int]LevelConfig `yaml:"levelOverrides,omitempty"`
	ShowCount      *bool               `yaml:"showCount,omitempty"`
	TitleBadges    []TitleBadge        `yaml:"titleBadges,omitempty"`

	// ExternalSelectedIDs are the initially selected record keys
	ExternalSelectedIDs []string `yaml:"externalSelectedIds,omitempty"`
}

// ParseConfig parses a YAML config.
func ParseConfig(data []byte) (*Config, error) {
	config := new(Config)
	err := yaml.Unmarshal(data, config)
	if err != nil {
		return nil, fmt.Errorf("can't parse config: %w", err)
	}
	return config, nil
}

// LoadConfig reads a YAML config file.
func LoadConfig(file fs.File) (*Config, error) {
	data, err := file.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("can't read config: %w", err)
	}
	return ParseConfig(data)
}

// Validate checks the config for errors
// that can't be degraded gracefully.
func (c *Config) Validate() error {
	if len(c.Columns) == 0 {
		return ErrNoColumns
	}
	var errs []error
	for i, col := range c.Columns {
		if col == nil || col.Field == "" {
			errs = append(errs, fmt.Errorf("column %d has no field", i))
		}
	}
	if c.Selection && c.KeyField == "" {
		errs = append(errs, errors.New("selection requires a keyField"))
	}
	if c.PageSize < 0 {
		errs = append(errs, fmt.Errorf("invalid pageSize %d", c.PageSize))
	}
	return errors.Join(errs...)
}

// Key returns the key used to detect config changes:
// the explicit Version if set, otherwise a hash
// of the data-only parts of the config.
// Formatters and comparison functions don't contribute to the hash,
// set a Version when they change.
func (c *Config) Key() string {
	if c.Version != "" {
		return "v:" + c.Version
	}
	hash, err := hashstructure.Hash(c, nil)
	if err != nil {
		return ""
	}
	return "h:" + strconv.FormatUint(hash, 16)
}

// PaginationConfig returns the initial Pagination of the config.
func (c *Config) PaginationConfig() Pagination {
	p := Pagination{
		Enabled:     c.Pagination == nil || *c.Pagination,
		PageSize:    c.PageSize,
		CurrentPage: 1,
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	return p
}

// WidthCacheKey returns the WidthResolver cache key
// derived from the persistence key or the container id.
func (c *Config) WidthCacheKey() string {
	switch {
	case c.PersistenceKey != "":
		return c.PersistenceKey + ":widths"
	case c.ContainerID != "":
		return c.ContainerID + ":widths"
	}
	return ""
}

// LevelOverride returns the override for depth.
func (c *Config) LevelOverride(depth int) LevelConfig {
	return c.LevelOverrides[depth]
}
