package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/ecs"
	"github.com/isorts/sim/internal/core/event"
	"github.com/isorts/sim/internal/system"
	"github.com/isorts/sim/internal/world"
	"go.uber.org/zap"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrDeadEntity     = world.ErrDeadEntity
	ErrTileBlocked    = errors.New("tile is not walkable")
	ErrNoCatalogs     = errors.New("no archetype catalogs loaded")
	ErrCannotAfford   = errors.New("player cannot afford building")
	ErrQueueFull      = errors.New("command queue full")
	ErrInvalidSpeed   = errors.New("game speed must be a finite non-negative number")
	ErrSystemPhase    = errors.New("caller systems must run in presentation or cleanup")
)

// CommandKind names an engine command.
type CommandKind string

const (
	CmdSpawn    CommandKind = "spawn"     // body archetype at (I, J) for Player
	CmdPlace    CommandKind = "place"     // teleport Entity to (I, J)
	CmdMoveTo   CommandKind = "move_to"   // path Entity to (I, J)
	CmdStop     CommandKind = "stop"      // cancel Entity's movement
	CmdBuild    CommandKind = "build"     // building archetype anchored at (I, J) for Player
	CmdRemove   CommandKind = "remove"    // destroy Entity at tick end
	CmdSetSpeed CommandKind = "set_speed" // global speed multiplier
)

// Command is one request from a driver, script or client.
// Entity keeps the full generational id; see frontend.Message for the
// precision limit JSON number clients impose.
type Command struct {
	Kind     CommandKind  `json:"type"`
	Entity   ecs.EntityID `json:"entity,omitempty"`
	Body     uint32       `json:"body,omitempty"`
	Building uint32       `json:"building,omitempty"`
	Player   uint8        `json:"player,omitempty"`
	I        int          `json:"i"`
	J        int          `json:"j"`
	Speed    float64      `json:"speed,omitempty"`
}

// Enqueue queues a command for the next tick's input phase. Safe to call
// from any goroutine.
func (e *Engine) Enqueue(cmd Command) error {
	select {
	case e.commands <- cmd:
		return nil
	default:
		return fmt.Errorf("enqueue %s: %w", cmd.Kind, ErrQueueFull)
	}
}

// DrainCommands executes every queued command. Called by the input system.
func (e *Engine) DrainCommands() int {
	n := 0
	for {
		select {
		case cmd := <-e.commands:
			n++
			if _, err := e.ExecuteCommand(cmd); err != nil {
				e.log.Warn("command rejected", zap.String("type", string(cmd.Kind)), zap.Error(err))
			}
		default:
			return n
		}
	}
}

// ExecuteCommand applies cmd immediately. It returns the entity created or
// affected, or ecs.NoEntity for commands that address none.
func (e *Engine) ExecuteCommand(cmd Command) (ecs.EntityID, error) {
	switch cmd.Kind {
	case CmdSpawn:
		return e.spawn(cmd)
	case CmdPlace:
		return e.place(cmd)
	case CmdMoveTo:
		if err := e.checkTile(cmd.I, cmd.J, false); err != nil {
			return cmd.Entity, fmt.Errorf("move_to: %w", err)
		}
		if !e.state.Positions.Has(cmd.Entity) || !e.state.Movables.Has(cmd.Entity) {
			return cmd.Entity, fmt.Errorf("move_to %s: not a movable unit: %w", cmd.Entity, ErrDeadEntity)
		}
		return cmd.Entity, system.RequestMove(e.state, cmd.Entity, cmd.I, cmd.J)
	case CmdStop:
		return cmd.Entity, system.Stop(e.state, cmd.Entity)
	case CmdBuild:
		return e.build(cmd)
	case CmdRemove:
		return e.remove(cmd)
	case CmdSetSpeed:
		if cmd.Speed < 0 || math.IsNaN(cmd.Speed) || math.IsInf(cmd.Speed, 0) {
			return ecs.NoEntity, fmt.Errorf("set_speed %v: %w", cmd.Speed, ErrInvalidSpeed)
		}
		e.state.GameSpeed = cmd.Speed
		e.log.Info("game speed changed", zap.Float64("speed", cmd.Speed))
		return ecs.NoEntity, nil
	}
	return ecs.NoEntity, fmt.Errorf("%q: %w", cmd.Kind, ErrUnknownCommand)
}

// checkTile rejects positions outside the diamond and, when walkable is
// set, tiles the solver cannot stand on.
func (e *Engine) checkTile(i, j int, walkable bool) error {
	if _, err := e.state.Map.Math().IndexByPosition(i, j); err != nil {
		return err
	}
	if walkable && !e.state.Map.Walkable(i, j) {
		return fmt.Errorf("(%d,%d): %w", i, j, ErrTileBlocked)
	}
	return nil
}

func (e *Engine) spawn(cmd Command) (ecs.EntityID, error) {
	if e.catalogs == nil {
		return ecs.NoEntity, fmt.Errorf("spawn: %w", ErrNoCatalogs)
	}
	body, err := e.catalogs.Bodies.Lookup(cmd.Body)
	if err != nil {
		return ecs.NoEntity, fmt.Errorf("spawn: %w", err)
	}
	if err := e.checkTile(cmd.I, cmd.J, true); err != nil {
		return ecs.NoEntity, fmt.Errorf("spawn: %w", err)
	}
	e.state.Players.Ensure(cmd.Player)
	id := e.NewEntity(
		component.Position{I: float64(cmd.I), J: float64(cmd.J)},
		component.Movable{Speed: body.MovementSpeed},
		component.Health{Health: body.Health},
		component.Owner{Player: cmd.Player},
		component.Renderable{},
		component.RenderableBody{BodyIndex: body.ID},
		component.SelectableGroupable{},
	)
	event.Emit(e.bus, event.EntitySpawned{Entity: id, I: cmd.I, J: cmd.J})
	e.log.Debug("unit spawned", zap.Stringer("entity", id), zap.String("body", body.Name),
		zap.Int("i", cmd.I), zap.Int("j", cmd.J))
	return id, nil
}

func (e *Engine) place(cmd Command) (ecs.EntityID, error) {
	pos, ok := e.state.Positions.Lookup(cmd.Entity)
	if !ok {
		return cmd.Entity, fmt.Errorf("place %s: %w", cmd.Entity, ErrDeadEntity)
	}
	if e.state.RenderableBuildings.Has(cmd.Entity) {
		return cmd.Entity, fmt.Errorf("place %s: buildings cannot be moved", cmd.Entity)
	}
	if err := e.checkTile(cmd.I, cmd.J, true); err != nil {
		return cmd.Entity, fmt.Errorf("place: %w", err)
	}
	if err := system.Stop(e.state, cmd.Entity); err != nil {
		return cmd.Entity, err
	}
	pos.I, pos.J = float64(cmd.I), float64(cmd.J)
	return cmd.Entity, nil
}

func (e *Engine) build(cmd Command) (ecs.EntityID, error) {
	if e.catalogs == nil {
		return ecs.NoEntity, fmt.Errorf("build: %w", ErrNoCatalogs)
	}
	b, err := e.catalogs.Buildings.Lookup(cmd.Building)
	if err != nil {
		return ecs.NoEntity, fmt.Errorf("build: %w", err)
	}
	cells := b.Footprint()
	for _, c := range cells {
		if err := e.checkTile(cmd.I+c.I, cmd.J+c.J, true); err != nil {
			return ecs.NoEntity, fmt.Errorf("build %s: %w", b.Type, err)
		}
	}
	if !e.state.Players.Spend(cmd.Player, b.Costs.Goods) {
		return ecs.NoEntity, fmt.Errorf("build %s for player %d: %w", b.Type, cmd.Player, ErrCannotAfford)
	}
	for _, c := range cells {
		if err := e.state.Map.Block(cmd.I+c.I, cmd.J+c.J, true); err != nil {
			return ecs.NoEntity, fmt.Errorf("build %s: %w", b.Type, err)
		}
	}
	id := e.NewEntity(
		component.Position{I: float64(cmd.I), J: float64(cmd.J)},
		component.Health{Health: b.Health},
		component.Owner{Player: cmd.Player},
		component.Renderable{},
		component.RenderableBuilding{BuildingIndex: b.ID},
		component.SelectableSingle{},
	)
	event.Emit(e.bus, event.EntitySpawned{Entity: id, I: cmd.I, J: cmd.J})
	e.log.Debug("building placed", zap.Stringer("entity", id), zap.String("type", b.Type),
		zap.Int("i", cmd.I), zap.Int("j", cmd.J), zap.Int("cells", len(cells)))
	return id, nil
}

func (e *Engine) remove(cmd Command) (ecs.EntityID, error) {
	id := cmd.Entity
	if !e.state.Alive(id) || e.state.PendingDestruction(id) {
		return id, fmt.Errorf("remove %s: %w", id, ErrDeadEntity)
	}
	rb, isBuilding := e.state.RenderableBuildings.Lookup(id)
	pos, placed := e.state.Positions.Lookup(id)
	if isBuilding && placed && e.catalogs != nil {
		if b := e.catalogs.Buildings.Get(rb.BuildingIndex); b != nil {
			ai, aj := int(pos.I), int(pos.J)
			for _, c := range b.Footprint() {
				if err := e.state.Map.Block(ai+c.I, aj+c.J, false); err != nil {
					e.log.Warn("footprint release failed", zap.Stringer("entity", id), zap.Error(err))
				}
			}
		}
	}
	e.state.MarkForDestruction(id)
	event.Emit(e.bus, event.EntityRemoved{Entity: id})
	return id, nil
}
