// Package engine owns one simulation session: the world state, the map, the
// event bus and the ordered system list driven by Tick.
package engine

import (
	"fmt"

	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/ecs"
	"github.com/isorts/sim/internal/core/event"
	coresys "github.com/isorts/sim/internal/core/system"
	"github.com/isorts/sim/internal/data"
	"github.com/isorts/sim/internal/gamemap"
	"github.com/isorts/sim/internal/pathfind"
	"github.com/isorts/sim/internal/system"
	"github.com/isorts/sim/internal/world"
	"go.uber.org/zap"
)

// Options configures a new Engine. Zero values pick the defaults.
type Options struct {
	Catalogs        *data.Catalogs      // nil disables spawn/build commands and body animation
	Time            system.TimeProvider // nil = wall clock
	Finder          system.PathFinder   // nil = A* over the map's walkability grid
	PathIterations  int                 // solver expansions per tick, 0 = unlimited
	WaypointEpsilon float64             // 0 = system.DefaultWaypointEpsilon
	GameSpeed       float64             // 0 = 1
	CommandBuffer   int                 // Enqueue capacity, 0 = 256
	Log             *zap.Logger         // nil = no-op
}

// Engine runs the fixed system order each tick: input, clock, pathfinding
// and movement, the spatial index, presentation systems in the order they
// were added, cleanup.
// Every method except Enqueue must be called from the tick goroutine.
type Engine struct {
	state    *world.State
	bus      *event.Bus
	runner   *coresys.Runner[*world.State]
	paths    *system.PathfindingSystem
	catalogs *data.Catalogs
	commands chan Command
	log      *zap.Logger
}

func New(m *gamemap.Map, opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	finder := opts.Finder
	if finder == nil {
		finder = pathfind.NewSolver(m.Grid(), m.Size(), m.Size(),
			pathfind.WithIterationsPerCalculation(opts.PathIterations),
			pathfind.WithAcceptableCost(gamemap.GridWalkable),
		)
	}
	buffer := opts.CommandBuffer
	if buffer <= 0 {
		buffer = 256
	}

	state := world.NewState(m)
	if opts.GameSpeed > 0 {
		state.GameSpeed = opts.GameSpeed
	}
	state.Players.Ensure(0)

	e := &Engine{
		state:    state,
		bus:      event.NewBus(),
		runner:   coresys.NewRunner[*world.State](),
		catalogs: opts.Catalogs,
		commands: make(chan Command, buffer),
		log:      log,
	}
	e.paths = system.NewPathfindingSystem(state, finder, e.bus, log.Named("pathfinding"), opts.WaypointEpsilon)

	e.runner.Register(system.NewInputSystem(e.bus, e))
	e.runner.Register(system.NewClockSystem(opts.Time))
	e.runner.Register(e.paths)
	e.runner.Register(system.NewSpatialSystem(state))
	if opts.Catalogs != nil {
		e.runner.Register(system.NewAnimationSystem(state, opts.Catalogs))
	}
	e.runner.Register(system.NewCleanupSystem(log))
	return e
}

// World returns the simulation state. Read it only from the tick goroutine.
func (e *Engine) World() *world.State { return e.state }

// Map returns the session's map.
func (e *Engine) Map() *gamemap.Map { return e.state.Map }

// Bus returns the event bus. Subscribe during setup.
func (e *Engine) Bus() *event.Bus { return e.bus }

// Catalogs returns the archetype catalogs, or nil.
func (e *Engine) Catalogs() *data.Catalogs { return e.catalogs }

// Paths exposes the pathfinding system for presentation code that draws routes.
func (e *Engine) Paths() *system.PathfindingSystem { return e.paths }

// Tick runs every registered system once, in order.
func (e *Engine) Tick() {
	e.runner.Tick(e.state)
}

// AddSystem appends systems after those already registered in the same
// phase. Presentation systems run in the order they were added. Systems
// declaring a phase before PhasePresentation would run ahead of movement
// and are rejected; nothing is registered in that case.
func (e *Engine) AddSystem(systems ...coresys.System[*world.State]) error {
	for _, s := range systems {
		if s.Phase() < coresys.PhasePresentation {
			return fmt.Errorf("add %T in phase %s: %w", s, s.Phase(), ErrSystemPhase)
		}
	}
	for _, s := range systems {
		e.runner.Register(s)
	}
	return nil
}

// NewEntity allocates an entity and attaches the given components.
func (e *Engine) NewEntity(components ...component.Value) ecs.EntityID {
	id := e.state.CreateEntity()
	for _, c := range components {
		// Attach only fails for dead entities; id was just created.
		_ = e.state.Attach(id, c)
	}
	return id
}
