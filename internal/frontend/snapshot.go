package frontend

import (
	"github.com/isorts/sim/internal/core/ecs"
	coresys "github.com/isorts/sim/internal/core/system"
	"github.com/isorts/sim/internal/world"
)

// SnapshotSystem streams the world to connected clients. Newly joined
// clients get the map first; every `every` ticks all clients get the
// rendered entities. Phase 3 (Presentation).
type SnapshotSystem struct {
	hub      *Hub
	every    uint64
	rendered *ecs.Query
}

func NewSnapshotSystem(w *world.State, hub *Hub, every int) *SnapshotSystem {
	if every < 1 {
		every = 1
	}
	return &SnapshotSystem{
		hub:      hub,
		every:    uint64(every),
		rendered: w.NewQuery(w.Renderables, w.Positions),
	}
}

func (s *SnapshotSystem) Phase() coresys.Phase { return coresys.PhasePresentation }

func (s *SnapshotSystem) Update(w *world.State) {
	s.rendered.Entered()
	s.rendered.Exited()

	joined := s.hub.takeJoined()
	if len(joined) > 0 {
		m := MapMessage(w)
		snap := Snapshot(w, s.rendered.Entities())
		for _, c := range joined {
			s.hub.Send(c, m)
			s.hub.Send(c, snap)
		}
	}
	if w.Time.Tick%s.every != 0 || s.hub.Count() == 0 {
		return
	}
	s.hub.Broadcast(Snapshot(w, s.rendered.Entities()))
}

// MapMessage captures the terrain and walkability grid.
func MapMessage(w *world.State) Message {
	m := w.Map
	tiles := make([]uint16, 0, m.Math().TileCount())
	m.ForEachTile(func(tile uint16, _, _, _ int) {
		tiles = append(tiles, tile)
	})
	grid := make([]byte, len(m.Grid()))
	copy(grid, m.Grid())
	return Message{
		Type: MsgMap,
		Tick: w.Time.Tick,
		Map:  &MapView{Size: m.Size(), Tiles: tiles, Grid: grid},
	}
}

// Snapshot captures the given entities.
func Snapshot(w *world.State, entities []ecs.EntityID) Message {
	views := make([]EntityView, 0, len(entities))
	for _, e := range entities {
		pos := w.Positions.Get(e)
		v := EntityView{ID: e, I: pos.I, J: pos.J}
		if mv, ok := w.Movables.Lookup(e); ok {
			v.Direction = mv.Direction.String()
			v.Moving = w.PathProgress.Has(e)
		}
		if rb, ok := w.RenderableBodies.Lookup(e); ok {
			body := rb.BodyIndex
			v.Body = &body
			v.Frame = rb.CurrentFrame
		}
		if rb, ok := w.RenderableBuildings.Lookup(e); ok {
			b := rb.BuildingIndex
			v.Building = &b
		}
		if o, ok := w.Owners.Lookup(e); ok {
			v.Player = o.Player
		}
		if h, ok := w.Healths.Lookup(e); ok {
			v.Health = h.Health
		}
		views = append(views, v)
	}
	return Message{Type: MsgSnapshot, Tick: w.Time.Tick, Entities: views}
}
