package ecs

import "fmt"

// ComponentID is the bit position of a column in an entity's Mask.
type ComponentID uint8

// MaxComponents bounds the number of columns one World can hold.
const MaxComponents = 64

// Mask is the set of columns an entity is attached to.
type Mask uint64

func (m Mask) Has(id ComponentID) bool { return m&(1<<id) != 0 }
func (m Mask) Contains(o Mask) bool    { return m&o == o }

// Component is implemented by every column so queries can be built from
// heterogeneous column types.
type Component interface {
	ComponentID() ComponentID
	Name() string
}

// Column is struct-of-arrays storage for one component variant. Values live
// in a dense slice indexed by EntityID.Index(); membership lives in the
// owning World's masks, so attach and detach are a bit flip plus a slot write.
// No reflect, no interface{}: pure generics.
type Column[T any] struct {
	world *World
	id    ComponentID
	name  string
	data  []T
}

// NewColumn registers a new column on w.
func NewColumn[T any](w *World, name string) *Column[T] {
	c := &Column[T]{world: w, name: name}
	c.id = w.registry.Register(c)
	return c
}

func (c *Column[T]) ComponentID() ComponentID { return c.id }
func (c *Column[T]) Name() string             { return c.name }

func (c *Column[T]) slot(idx uint32) *T {
	if n := int(idx) + 1; n > len(c.data) {
		if n <= cap(c.data) {
			c.data = c.data[:n]
		} else {
			c.data = append(c.data, make([]T, n-len(c.data))...)
		}
	}
	return &c.data[idx]
}

// Attach stores v for e and marks the column attached. Re-attaching an
// attached column overwrites the value without re-triggering queries.
// Returns false for dead entities.
func (c *Column[T]) Attach(e EntityID, v T) bool {
	if !c.world.Alive(e) {
		return false
	}
	*c.slot(e.Index()) = v
	c.world.setBit(e, c.id)
	return true
}

// Detach clears e from the column. Returns false if it was not attached.
func (c *Column[T]) Detach(e EntityID) bool {
	if !c.Has(e) {
		return false
	}
	c.Remove(e)
	c.world.clearBit(e, c.id)
	return true
}

// Has reports whether e is alive and attached.
func (c *Column[T]) Has(e EntityID) bool {
	return c.world.Alive(e) && c.world.masks[e.Index()].Has(c.id)
}

// Get returns the value for e. Reading a column the entity is not attached
// to is a contract violation and panics.
func (c *Column[T]) Get(e EntityID) *T {
	if !c.Has(e) {
		panic(fmt.Sprintf("ecs: invalid component read: %s not attached to entity %s", c.name, e))
	}
	return &c.data[e.Index()]
}

// Lookup is the checked form of Get.
func (c *Column[T]) Lookup(e EntityID) (*T, bool) {
	if !c.Has(e) {
		return nil, false
	}
	return &c.data[e.Index()], true
}

// Remove zeroes e's slot. Called by the registry on destroy.
func (c *Column[T]) Remove(e EntityID) {
	idx := e.Index()
	if int(idx) < len(c.data) {
		var zero T
		c.data[idx] = zero
	}
}
