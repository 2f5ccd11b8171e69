package ecs

import "fmt"

// Removable is implemented by all columns so the Registry can bulk-clear an
// entity's slots on destroy.
type Removable interface {
	Remove(id EntityID)
}

// Registry tracks all columns, hands out component ids and supports bulk
// cleanup on entity destroy.
type Registry struct {
	stores []Removable
	names  []string
}

func NewRegistry() *Registry {
	return &Registry{
		stores: make([]Removable, 0, 16),
		names:  make([]string, 0, 16),
	}
}

// Register adds a column and returns its component id.
func (r *Registry) Register(c Component) ComponentID {
	if len(r.stores) >= MaxComponents {
		panic(fmt.Sprintf("ecs: more than %d components registered", MaxComponents))
	}
	id := ComponentID(len(r.stores))
	store, ok := c.(Removable)
	if !ok {
		panic(fmt.Sprintf("ecs: component %s is not removable", c.Name()))
	}
	r.stores = append(r.stores, store)
	r.names = append(r.names, c.Name())
	return id
}

// RemoveAll clears the given entity from every registered column.
func (r *Registry) RemoveAll(id EntityID) {
	for _, s := range r.stores {
		s.Remove(id)
	}
}

// Name returns the registered name of a component id.
func (r *Registry) Name(id ComponentID) string {
	if int(id) >= len(r.names) {
		return fmt.Sprintf("component(%d)", id)
	}
	return r.names[id]
}

// Len returns the number of registered columns.
func (r *Registry) Len() int { return len(r.stores) }
