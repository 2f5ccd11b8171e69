package system

import (
	"math"

	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/ecs"
	"github.com/isorts/sim/internal/core/event"
	coresys "github.com/isorts/sim/internal/core/system"
	"github.com/isorts/sim/internal/pathfind"
	"github.com/isorts/sim/internal/world"
	"go.uber.org/zap"
)

// DefaultWaypointEpsilon is the per-axis distance under which a unit snaps
// onto its current waypoint.
const DefaultWaypointEpsilon = 0.05

// PathFinder is the grid solver the pathfinding system drives. Callbacks
// must only fire from inside Calculate.
type PathFinder interface {
	FindPath(from, to pathfind.Point, cb pathfind.Callback) pathfind.Handle
	Cancel(h pathfind.Handle) bool
	Calculate() int
}

type inflight struct {
	handle pathfind.Handle
	token  uint64
}

// PathfindingSystem turns PathTarget requests into solved waypoint lists and
// walks entities along them. Phase 2 (Simulation).
//
// An entity's state follows from its components: PathTarget alone means a
// request is in flight, PathProgress means it is following cached waypoints,
// neither means idle. Every request carries a token stored in PathTarget;
// a solver result is applied only if the entity is alive, still holds
// PathTarget, and the token matches.
type PathfindingSystem struct {
	finder  PathFinder
	cache   *pathfind.Cache
	bus     *event.Bus
	log     *zap.Logger
	epsilon float64

	targets *ecs.Query // PathTarget + Position
	movers  *ecs.Query // Movable + PathProgress + Position

	pending   map[ecs.EntityID]inflight
	nextToken uint64
}

func NewPathfindingSystem(w *world.State, finder PathFinder, bus *event.Bus, log *zap.Logger, epsilon float64) *PathfindingSystem {
	if epsilon <= 0 {
		epsilon = DefaultWaypointEpsilon
	}
	return &PathfindingSystem{
		finder:  finder,
		cache:   pathfind.NewCache(),
		bus:     bus,
		log:     log,
		epsilon: epsilon,
		targets: w.NewQuery(w.PathTargets, w.Positions),
		movers:  w.NewQuery(w.Movables, w.PathProgress, w.Positions),
		pending: make(map[ecs.EntityID]inflight),
	}
}

func (s *PathfindingSystem) Phase() coresys.Phase { return coresys.PhaseSimulation }

// Cache exposes the waypoint cache to presentation code.
func (s *PathfindingSystem) Cache() *pathfind.Cache { return s.cache }

// InFlight returns the number of requests awaiting a solver result.
func (s *PathfindingSystem) InFlight() int { return len(s.pending) }

func (s *PathfindingSystem) Update(w *world.State) {
	for _, e := range s.targets.Exited() {
		s.abandon(w, e)
	}
	for _, e := range s.targets.Entered() {
		s.request(w, e)
	}

	// Movement is level-triggered; its edges are not needed.
	s.movers.Entered()
	s.movers.Exited()
	for _, e := range s.movers.Entities() {
		s.move(w, e)
	}

	s.finder.Calculate()
}

// abandon forgets any request and path for an entity whose PathTarget went
// away before arrival (stop command, destroy, or target detached).
func (s *PathfindingSystem) abandon(w *world.State, e ecs.EntityID) {
	if p, ok := s.pending[e]; ok {
		s.finder.Cancel(p.handle)
		delete(s.pending, e)
		s.log.Debug("path request cancelled", zap.Stringer("entity", e), zap.Uint64("token", p.token))
	}
	s.cache.Delete(e)
	if w.PathTargets.Has(e) {
		return
	}
	w.PathProgress.Detach(e)
}

func (s *PathfindingSystem) request(w *world.State, e ecs.EntityID) {
	if p, ok := s.pending[e]; ok {
		s.finder.Cancel(p.handle)
		delete(s.pending, e)
	}
	w.PathProgress.Detach(e)
	s.cache.Delete(e)

	s.nextToken++
	token := s.nextToken
	target := w.PathTargets.Get(e)
	target.Token = token

	pos := w.Positions.Get(e)
	from := pathfind.Point{X: int(math.Floor(pos.I)), Y: int(math.Floor(pos.J))}
	to := pathfind.Point{X: target.I, Y: target.J}

	h := s.finder.FindPath(from, to, func(path []pathfind.Point) {
		s.resolve(w, e, token, path)
	})
	s.pending[e] = inflight{handle: h, token: token}
	s.log.Debug("path requested",
		zap.Stringer("entity", e),
		zap.Uint64("token", token),
		zap.Int("from_i", from.X), zap.Int("from_j", from.Y),
		zap.Int("to_i", to.X), zap.Int("to_j", to.Y),
	)
}

func (s *PathfindingSystem) resolve(w *world.State, e ecs.EntityID, token uint64, path []pathfind.Point) {
	if p, ok := s.pending[e]; ok && p.token == token {
		delete(s.pending, e)
	}
	target, ok := w.PathTargets.Lookup(e)
	if !ok || target.Token != token {
		s.log.Debug("stale path result discarded", zap.Stringer("entity", e), zap.Uint64("token", token))
		return
	}

	if len(path) == 0 {
		w.PathTargets.Detach(e)
		if path == nil {
			event.Emit(s.bus, event.PathUnreachable{Entity: e, Token: token})
			s.log.Debug("destination unreachable", zap.Stringer("entity", e), zap.Uint64("token", token))
			return
		}
		if pos, ok := w.Positions.Lookup(e); ok {
			event.Emit(s.bus, event.EntityArrived{Entity: e, I: pos.I, J: pos.J})
		}
		return
	}

	s.cache.Set(e, path)
	w.PathProgress.Attach(e, component.PathProgress{Index: 0})
	event.Emit(s.bus, event.PathResolved{Entity: e, Token: token, Waypoints: len(path)})
}

func (s *PathfindingSystem) move(w *world.State, e ecs.EntityID) {
	path, ok := s.cache.Get(e)
	progress := w.PathProgress.Get(e)
	if !ok || progress.Index >= len(path) {
		s.arrive(w, e)
		return
	}

	pos := w.Positions.Get(e)
	mv := w.Movables.Get(e)
	wp := path[progress.Index]
	wi, wj := float64(wp.X), float64(wp.Y)

	di, dj := wi-pos.I, wj-pos.J
	var si, sj float64
	if dist := math.Hypot(di, dj); dist > 0 {
		scale := mv.Speed * w.Time.DeltaSeconds * w.GameSpeed
		si = clampStep(di/dist*scale, di)
		sj = clampStep(dj/dist*scale, dj)
	}
	pos.I += si
	pos.J += sj
	mv.Direction = component.DirectionOf(si, sj)

	if math.Abs(wi-pos.I) < s.epsilon && math.Abs(wj-pos.J) < s.epsilon {
		pos.I, pos.J = wi, wj
		progress.Index++
		if progress.Index >= len(path) {
			s.arrive(w, e)
		}
	}
}

func (s *PathfindingSystem) arrive(w *world.State, e ecs.EntityID) {
	w.PathProgress.Detach(e)
	w.PathTargets.Detach(e)
	s.cache.Delete(e)
	if mv, ok := w.Movables.Lookup(e); ok {
		mv.Direction = component.DirNone
	}
	pos := w.Positions.Get(e)
	event.Emit(s.bus, event.EntityArrived{Entity: e, I: pos.I, J: pos.J})
}

// clampStep limits step so it never passes the remaining distance on its axis.
func clampStep(step, remaining float64) float64 {
	if math.Abs(step) > math.Abs(remaining) {
		return remaining
	}
	return step
}
