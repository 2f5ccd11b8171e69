package system

// Phase defines execution ordering within a single tick. Systems in the same
// phase run in registration order.
type Phase int

const (
	PhaseInput        Phase = iota // 0: drain command queues, dispatch last tick's events
	PhaseClock                     // 1: advance simulation time
	PhaseSimulation                // 2: pathfinding and movement
	PhasePresentation              // 3: externally supplied view systems
	PhaseCleanup                   // 4: destroy queued entities
)

func (p Phase) String() string {
	switch p {
	case PhaseInput:
		return "input"
	case PhaseClock:
		return "clock"
	case PhaseSimulation:
		return "simulation"
	case PhasePresentation:
		return "presentation"
	case PhaseCleanup:
		return "cleanup"
	}
	return "unknown"
}

// System is the interface every ECS system implements. W is the shared
// simulation state the runner hands to each system.
type System[W any] interface {
	Phase() Phase
	Update(w W)
}

// Func adapts a plain function into a System.
type Func[W any] struct {
	P  Phase
	Fn func(w W)
}

func (f Func[W]) Phase() Phase { return f.P }
func (f Func[W]) Update(w W)   { f.Fn(w) }
