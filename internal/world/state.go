package world

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/ecs"
	"github.com/isorts/sim/internal/gamemap"
)

// ErrDeadEntity is returned when a component is attached to an entity that
// was destroyed or never existed.
var ErrDeadEntity = errors.New("entity is not alive")

// Time is the shared clock record. Written only by the clock system.
type Time struct {
	Delta        time.Duration
	DeltaSeconds float64
	Elapsed      time.Duration
	Then         time.Time
	Tick         uint64
}

// State is the simulation world handed to every system: the ECS storage with
// one typed column per component variant, the clock record, the global speed
// multiplier, the map and the player ledger.
// Accessed only from the tick goroutine; no locks needed.
type State struct {
	*ecs.World

	Positions           *ecs.Column[component.Position]
	Movables            *ecs.Column[component.Movable]
	PathTargets         *ecs.Column[component.PathTarget]
	PathProgress        *ecs.Column[component.PathProgress]
	Healths             *ecs.Column[component.Health]
	Owners              *ecs.Column[component.Owner]
	Renderables         *ecs.Column[component.Renderable]
	RenderableBodies    *ecs.Column[component.RenderableBody]
	RenderableBuildings *ecs.Column[component.RenderableBuilding]
	Groupables          *ecs.Column[component.SelectableGroupable]
	Singles             *ecs.Column[component.SelectableSingle]

	Time      Time
	GameSpeed float64 // 0 = paused, >1 = fast-forward

	Map       *gamemap.Map
	Players   *Ledger
	Alliances *AllianceManager
	Spatial   *AOIGrid

	byKind [component.KindCount]kindColumn
}

// kindColumn is the untyped view of a column used for kind-based access.
type kindColumn interface {
	ecs.Component
	Has(e ecs.EntityID) bool
	Detach(e ecs.EntityID) bool
}

func NewState(m *gamemap.Map) *State {
	w := ecs.NewWorld()
	s := &State{
		World:               w,
		Positions:           ecs.NewColumn[component.Position](w, component.KindPosition.String()),
		Movables:            ecs.NewColumn[component.Movable](w, component.KindMovable.String()),
		PathTargets:         ecs.NewColumn[component.PathTarget](w, component.KindPathTarget.String()),
		PathProgress:        ecs.NewColumn[component.PathProgress](w, component.KindPathProgress.String()),
		Healths:             ecs.NewColumn[component.Health](w, component.KindHealth.String()),
		Owners:              ecs.NewColumn[component.Owner](w, component.KindOwner.String()),
		Renderables:         ecs.NewColumn[component.Renderable](w, component.KindRenderable.String()),
		RenderableBodies:    ecs.NewColumn[component.RenderableBody](w, component.KindRenderableBody.String()),
		RenderableBuildings: ecs.NewColumn[component.RenderableBuilding](w, component.KindRenderableBuilding.String()),
		Groupables:          ecs.NewColumn[component.SelectableGroupable](w, component.KindSelectableGroupable.String()),
		Singles:             ecs.NewColumn[component.SelectableSingle](w, component.KindSelectableSingle.String()),
		GameSpeed:           1,
		Map:                 m,
		Players:             NewLedger(),
		Alliances:           NewAllianceManager(),
		Spatial:             NewAOIGrid(DefaultCellSize),
	}
	s.byKind = [component.KindCount]kindColumn{
		component.KindPosition:            s.Positions,
		component.KindMovable:             s.Movables,
		component.KindPathTarget:          s.PathTargets,
		component.KindPathProgress:        s.PathProgress,
		component.KindHealth:              s.Healths,
		component.KindOwner:               s.Owners,
		component.KindRenderable:          s.Renderables,
		component.KindRenderableBody:      s.RenderableBodies,
		component.KindRenderableBuilding:  s.RenderableBuildings,
		component.KindSelectableGroupable: s.Groupables,
		component.KindSelectableSingle:    s.Singles,
	}
	return s
}

// Column returns the column holding kind k, for building queries.
func (s *State) Column(k component.Kind) ecs.Component {
	return s.byKind[k]
}

// Attach stores v in the column of its variant.
func (s *State) Attach(e ecs.EntityID, v component.Value) error {
	var ok bool
	switch c := v.(type) {
	case component.Position:
		ok = s.Positions.Attach(e, c)
	case component.Movable:
		ok = s.Movables.Attach(e, c)
	case component.PathTarget:
		ok = s.PathTargets.Attach(e, c)
	case component.PathProgress:
		ok = s.PathProgress.Attach(e, c)
	case component.Health:
		ok = s.Healths.Attach(e, c)
	case component.Owner:
		ok = s.Owners.Attach(e, c)
	case component.Renderable:
		ok = s.Renderables.Attach(e, c)
	case component.RenderableBody:
		ok = s.RenderableBodies.Attach(e, c)
	case component.RenderableBuilding:
		ok = s.RenderableBuildings.Attach(e, c)
	case component.SelectableGroupable:
		ok = s.Groupables.Attach(e, c)
	case component.SelectableSingle:
		ok = s.Singles.Attach(e, c)
	default:
		return fmt.Errorf("attach %T: unknown component", v)
	}
	if !ok {
		return fmt.Errorf("attach %s to %s: %w", v.Kind(), e, ErrDeadEntity)
	}
	return nil
}

// Detach removes the variant k from e. Returns false if it was not attached.
func (s *State) Detach(e ecs.EntityID, k component.Kind) bool {
	return s.byKind[k].Detach(e)
}

// Has reports whether e holds variant k.
func (s *State) Has(e ecs.EntityID, k component.Kind) bool {
	return s.byKind[k].Has(e)
}

// Nearby returns the positioned entities within radius tiles of (i, j),
// sorted by id. The index lags movement by up to one tick.
func (s *State) Nearby(i, j, radius float64) []ecs.EntityID {
	var out []ecs.EntityID
	for _, e := range s.Spatial.Candidates(i, j, radius) {
		pos, ok := s.Positions.Lookup(e)
		if !ok {
			continue
		}
		if math.Hypot(pos.I-i, pos.J-j) <= radius {
			out = append(out, e)
		}
	}
	return out
}

// Components returns a copy of every variant attached to e, in Kind order.
func (s *State) Components(e ecs.EntityID) []component.Value {
	if !s.Alive(e) {
		return nil
	}
	var out []component.Value
	if v, ok := s.Positions.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.Movables.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.PathTargets.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.PathProgress.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.Healths.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.Owners.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.Renderables.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.RenderableBodies.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.RenderableBuildings.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.Groupables.Lookup(e); ok {
		out = append(out, *v)
	}
	if v, ok := s.Singles.Lookup(e); ok {
		out = append(out, *v)
	}
	return out
}
