package event

import "github.com/isorts/sim/internal/core/ecs"

// EntitySpawned is emitted when the engine creates an entity from a command.
type EntitySpawned struct {
	Entity ecs.EntityID
	I, J   int
}

// EntityRemoved is emitted when an entity is queued for destruction.
type EntityRemoved struct {
	Entity ecs.EntityID
}

// PathResolved is emitted when a solver result is accepted for an entity.
type PathResolved struct {
	Entity    ecs.EntityID
	Token     uint64
	Waypoints int
}

// PathUnreachable is emitted when the solver reports no route.
type PathUnreachable struct {
	Entity ecs.EntityID
	Token  uint64
}

// EntityArrived is emitted when an entity consumes its last waypoint.
type EntityArrived struct {
	Entity ecs.EntityID
	I, J   float64
}
