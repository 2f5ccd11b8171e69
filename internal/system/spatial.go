package system

import (
	"github.com/isorts/sim/internal/core/ecs"
	coresys "github.com/isorts/sim/internal/core/system"
	"github.com/isorts/sim/internal/world"
)

// SpatialSystem keeps the area of interest grid in step with positions.
// Phase 2 (Simulation), registered after movement so range queries see the
// positions of the current tick.
type SpatialSystem struct {
	positioned *ecs.Query
}

func NewSpatialSystem(w *world.State) *SpatialSystem {
	return &SpatialSystem{positioned: w.NewQuery(w.Positions)}
}

func (s *SpatialSystem) Phase() coresys.Phase { return coresys.PhaseSimulation }

func (s *SpatialSystem) Update(w *world.State) {
	for _, e := range s.positioned.Exited() {
		w.Spatial.Remove(e)
	}
	s.positioned.Entered()
	for _, e := range s.positioned.Entities() {
		pos := w.Positions.Get(e)
		w.Spatial.Place(e, pos.I, pos.J)
	}
}
