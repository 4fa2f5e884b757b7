package datagrid

import (
	"maps"
	"slices"
)

// Component is a live presentation component
// registered by its container id.
type Component interface {
	ContainerID() string
	// RefreshSelection updates only the selection visuals.
	RefreshSelection()
	Destroy()
}

// Registry maps container ids to live components.
// Every top-level render owns one Registry that is passed
// by reference to the components it creates, so that accordion
// groups can look up the table instances of their leaves.
//
// A Registry is not safe for concurrent use.
type Registry struct {
	entries map[string]registryEntry
}

type registryEntry struct {
	component Component
	configKey string
}

func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]registryEntry)}
}

// Register adds or replaces the component under its container id.
func (r *Registry) Register(c Component) {
	r.register(c, "")
}

func (r *Registry) register(c Component, configKey string) {
	if r.entries == nil {
		r.entries = make(map[string]registryEntry)
	}
	r.entries[c.ContainerID()] = registryEntry{component: c, configKey: configKey}
}

// Lookup returns the component registered under id.
func (r *Registry) Lookup(id string) (Component, bool) {
	entry, ok := r.entries[id]
	return entry.component, ok
}

// Unregister removes id without destroying the component.
func (r *Registry) Unregister(id string) {
	delete(r.entries, id)
}

// Ensure returns the component registered under id
// if it was created for the same configKey.
// Otherwise a registered component is destroyed and
// replaced by the result of create.
func (r *Registry) Ensure(id, configKey string, create func() (Component, error)) (Component, error) {
	if entry, ok := r.entries[id]; ok {
		if entry.configKey == configKey {
			return entry.component, nil
		}
		delete(r.entries, id)
		entry.component.Destroy()
	}
	c, err := create()
	if err != nil {
		return nil, err
	}
	r.register(c, configKey)
	return c, nil
}

// IDs returns the sorted container ids of all registered components.
func (r *Registry) IDs() []string {
	return slices.Sorted(maps.Keys(r.entries))
}

func (r *Registry) Len() int {
	return len(r.entries)
}

// Destroy destroys and unregisters all components.
func (r *Registry) Destroy() {
	for _, id := range r.IDs() {
		entry := r.entries[id]
		delete(r.entries, id)
		entry.component.Destroy()
	}
}
