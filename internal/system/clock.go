package system

import (
	coresys "github.com/isorts/sim/internal/core/system"
	"github.com/isorts/sim/internal/world"
)

// ClockSystem advances the shared time record once per tick. Phase 1 (Clock).
// The first tick establishes the reference instant and reports a zero delta.
type ClockSystem struct {
	provider TimeProvider
}

func NewClockSystem(provider TimeProvider) *ClockSystem {
	if provider == nil {
		provider = RealTimeProvider{}
	}
	return &ClockSystem{provider: provider}
}

func (s *ClockSystem) Phase() coresys.Phase { return coresys.PhaseClock }

func (s *ClockSystem) Update(w *world.State) {
	now := s.provider.Now()
	t := &w.Time
	if t.Then.IsZero() {
		t.Then = now
	}
	t.Delta = now.Sub(t.Then)
	if t.Delta < 0 {
		// Wall clock stepped backwards.
		t.Delta = 0
	}
	t.DeltaSeconds = t.Delta.Seconds()
	t.Elapsed += t.Delta
	t.Then = now
	t.Tick++
}
