package system

import (
	"fmt"

	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/ecs"
	"github.com/isorts/sim/internal/world"
)

// RequestMove points e at tile (i, j). An existing target is detached first
// so the pathfinding system observes a fresh request and invalidates the old
// one, whatever state the entity was in.
func RequestMove(w *world.State, e ecs.EntityID, i, j int) error {
	if !w.Alive(e) {
		return fmt.Errorf("move %s: %w", e, world.ErrDeadEntity)
	}
	w.PathTargets.Detach(e)
	return w.Attach(e, component.PathTarget{I: i, J: j})
}

// Stop cancels any request or path e is following and leaves it idle where
// it stands.
func Stop(w *world.State, e ecs.EntityID) error {
	if !w.Alive(e) {
		return fmt.Errorf("stop %s: %w", e, world.ErrDeadEntity)
	}
	w.PathProgress.Detach(e)
	w.PathTargets.Detach(e)
	if mv, ok := w.Movables.Lookup(e); ok {
		mv.Direction = component.DirNone
	}
	return nil
}
