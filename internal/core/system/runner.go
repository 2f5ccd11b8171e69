package system

import "sort"

// Runner executes systems in phase order each tick. Ordering is a
// correctness requirement: the sort is stable, so systems sharing a phase
// keep the order they were registered in, and nothing is ever skipped.
type Runner[W any] struct {
	systems []System[W]
	sorted  bool
}

func NewRunner[W any]() *Runner[W] {
	return &Runner[W]{
		systems: make([]System[W], 0, 16),
	}
}

func (r *Runner[W]) Register(s System[W]) {
	r.systems = append(r.systems, s)
	r.sorted = false
}

func (r *Runner[W]) Tick(w W) {
	r.ensureSorted()
	for _, s := range r.systems {
		s.Update(w)
	}
}

// TickPhase runs only the systems of one phase. Used to drain input between
// frames without advancing the simulation.
func (r *Runner[W]) TickPhase(phase Phase, w W) {
	r.ensureSorted()
	for _, s := range r.systems {
		if s.Phase() == phase {
			s.Update(w)
		}
	}
}

// Systems returns the systems in execution order.
func (r *Runner[W]) Systems() []System[W] {
	r.ensureSorted()
	out := make([]System[W], len(r.systems))
	copy(out, r.systems)
	return out
}

func (r *Runner[W]) ensureSorted() {
	if !r.sorted {
		sort.SliceStable(r.systems, func(i, j int) bool {
			return r.systems[i].Phase() < r.systems[j].Phase()
		})
		r.sorted = true
	}
}
