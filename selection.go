package datagrid

import "slices"

// SelectionSet is a set of selected record keys.
//
// A SelectionSet may be shared by reference between
// the Store of an accordion and the Stores of its leaf tables,
// so that selecting in a leaf is visible to the group checkboxes
// of the parent without duplicating the set.
// Every Store mutating a shared set is responsible
// for triggering its own visual refresh.
type SelectionSet struct {
	keys map[string]struct{}
}

// NewSelectionSet returns a SelectionSet containing keys.
func NewSelectionSet(keys ...string) *SelectionSet {
	s := &SelectionSet{keys: make(map[string]struct{}, len(keys))}
	for _, key := range keys {
		s.keys[key] = struct{}{}
	}
	return s
}

func (s *SelectionSet) Has(key string) bool {
	if s == nil {
		return false
	}
	_, ok := s.keys[key]
	return ok
}

func (s *SelectionSet) Add(key string) {
	if s.keys == nil {
		s.keys = make(map[string]struct{})
	}
	s.keys[key] = struct{}{}
}

func (s *SelectionSet) Remove(key string) {
	delete(s.keys, key)
}

// Toggle adds a missing key or removes an existing one
// and returns if the key is selected afterwards.
func (s *SelectionSet) Toggle(key string) bool {
	if s.Has(key) {
		s.Remove(key)
		return false
	}
	s.Add(key)
	return true
}

func (s *SelectionSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

func (s *SelectionSet) Clear() {
	clear(s.keys)
}

// Keys returns the sorted keys of the set.
func (s *SelectionSet) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.keys))
	for key := range s.keys {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// CheckState is the tri-state of a checkbox
// representing a group of records.
type CheckState int

const (
	Unchecked CheckState = iota
	Indeterminate
	Checked
)

func (c CheckState) String() string {
	switch c {
	case Checked:
		return "checked"
	case Indeterminate:
		return "indeterminate"
	default:
		return "unchecked"
	}
}

// StateOf returns Checked if all records are selected,
// Indeterminate if some are, and Unchecked if none
// are selected or records is empty.
func (s *SelectionSet) StateOf(records []Record, keyField string) CheckState {
	selected := 0
	for _, rec := range records {
		if s.Has(rec.Key(keyField)) {
			selected++
		}
	}
	switch {
	case selected == 0:
		return Unchecked
	case selected == len(records):
		return Checked
	default:
		return Indeterminate
	}
}
