// Package colprefs persists column visibility preferences
// and provides the column visibility toolbar plugin.
package colprefs

import (
	"context"
	"slices"
	"sync"
)

// Store persists the hidden fields per persistence key.
type Store interface {
	// Load returns the hidden fields stored for key
	// or nil without error if nothing was stored.
	Load(ctx context.Context, key string) (hidden []string, err error)

	// Save stores the hidden fields for key.
	Save(ctx context.Context, key string, hidden []string) error
}

var _ Store = new(MemoryStore)

// MemoryStore is a Store that keeps preferences in memory.
// The zero value is ready to use.
type MemoryStore struct {
	mu     sync.Mutex
	hidden map[string][]string
}

func (s *MemoryStore) Load(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.hidden[key]), nil
}

func (s *MemoryStore) Save(ctx context.Context, key string, hidden []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hidden == nil {
		s.hidden = make(map[string][]string)
	}
	s.hidden[key] = normalize(hidden)
	return nil
}

// normalize returns the sorted unique non empty fields.
func normalize(fields []string) []string {
	result := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			result = append(result, f)
		}
	}
	slices.Sort(result)
	return slices.Compact(result)
}
