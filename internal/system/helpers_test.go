package system

import (
	"math/rand"
	"testing"
	"time"

	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/ecs"
	"github.com/isorts/sim/internal/core/event"
	"github.com/isorts/sim/internal/gamemap"
	"github.com/isorts/sim/internal/pathfind"
	"github.com/isorts/sim/internal/world"
	"go.uber.org/zap"
)

// openMap returns a map whose every diamond tile is walkable.
func openMap(size int) *gamemap.Map {
	m := gamemap.New(size, rand.New(rand.NewSource(1)))
	m.ForEachTile(func(_ uint16, i, j, _ int) { _ = m.Place(i, j, 5) })
	return m
}

// fakeFinder records requests; tests fire callbacks by hand.
type fakeFinder struct {
	next      pathfind.Handle
	reqs      []fakeReq
	cancelled []pathfind.Handle
}

type fakeReq struct {
	handle   pathfind.Handle
	from, to pathfind.Point
	cb       pathfind.Callback
}

func (f *fakeFinder) FindPath(from, to pathfind.Point, cb pathfind.Callback) pathfind.Handle {
	f.next++
	f.reqs = append(f.reqs, fakeReq{handle: f.next, from: from, to: to, cb: cb})
	return f.next
}

func (f *fakeFinder) Cancel(h pathfind.Handle) bool {
	f.cancelled = append(f.cancelled, h)
	return true
}

func (f *fakeFinder) Calculate() int { return 0 }

type harness struct {
	t     *testing.T
	w     *world.State
	bus   *event.Bus
	clock *MockTimeProvider
	cs    *ClockSystem
	pf    *PathfindingSystem
}

func newHarness(t *testing.T, m *gamemap.Map, finder PathFinder) *harness {
	t.Helper()
	w := world.NewState(m)
	bus := event.NewBus()
	clock := NewMockTimeProvider(time.Unix(1000, 0))
	if finder == nil {
		finder = pathfind.NewSolver(m.Grid(), m.Size(), m.Size())
	}
	return &harness{
		t:     t,
		w:     w,
		bus:   bus,
		clock: clock,
		cs:    NewClockSystem(clock),
		pf:    NewPathfindingSystem(w, finder, bus, zap.NewNop(), 0),
	}
}

// tick advances the clock by d and runs clock then pathfinding.
func (h *harness) tick(d time.Duration) {
	h.clock.Advance(d)
	h.cs.Update(h.w)
	h.pf.Update(h.w)
}

func (h *harness) spawn(i, j, speed float64) ecs.EntityID {
	h.t.Helper()
	e := h.w.CreateEntity()
	for _, v := range []component.Value{
		component.Position{I: i, J: j},
		component.Movable{Speed: speed},
	} {
		if err := h.w.Attach(e, v); err != nil {
			h.t.Fatal(err)
		}
	}
	return e
}

func (h *harness) idle(e ecs.EntityID) bool {
	return !h.w.PathTargets.Has(e) && !h.w.PathProgress.Has(e)
}
