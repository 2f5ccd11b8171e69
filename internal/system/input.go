package system

import (
	"github.com/isorts/sim/internal/core/event"
	coresys "github.com/isorts/sim/internal/core/system"
	"github.com/isorts/sim/internal/world"
)

// CommandSource is drained once per tick on the tick goroutine.
type CommandSource interface {
	DrainCommands() int
}

// InputSystem delivers last tick's events and then applies queued commands.
// Phase 0 (Input).
type InputSystem struct {
	bus      *event.Bus
	commands CommandSource
}

func NewInputSystem(bus *event.Bus, commands CommandSource) *InputSystem {
	return &InputSystem{bus: bus, commands: commands}
}

func (s *InputSystem) Phase() coresys.Phase { return coresys.PhaseInput }

func (s *InputSystem) Update(_ *world.State) {
	s.bus.SwapBuffers()
	s.bus.DispatchAll()
	if s.commands != nil {
		s.commands.DrainCommands()
	}
}
