package system

import (
	"math"
	"testing"
	"time"

	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/core/event"
	"github.com/isorts/sim/internal/mapmath"
	"github.com/isorts/sim/internal/pathfind"
)

func TestSpeedClampAndSnap(t *testing.T) {
	f := &fakeFinder{}
	h := newHarness(t, openMap(8), f)
	e := h.spawn(0, 4, 2.5)
	if err := RequestMove(h.w, e, 2, 4); err != nil {
		t.Fatal(err)
	}
	h.tick(0)
	if len(f.reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(f.reqs))
	}
	if r := f.reqs[0]; r.from != (pathfind.Point{X: 0, Y: 4}) || r.to != (pathfind.Point{X: 2, Y: 4}) {
		t.Fatalf("request %+v", r)
	}
	f.reqs[0].cb([]pathfind.Point{{X: 0, Y: 4}, {X: 1, Y: 4}, {X: 2, Y: 4}})

	// The start waypoint is consumed in place.
	h.tick(time.Second)
	if got := h.w.PathProgress.Get(e).Index; got != 1 {
		t.Fatalf("cursor = %d, want 1", got)
	}

	// 2.5 tiles/s for 1s toward a waypoint 1 tile away lands exactly on it.
	h.tick(time.Second)
	pos := h.w.Positions.Get(e)
	if pos.I != 1.0 || pos.J != 4.0 {
		t.Fatalf("position = %+v, want exactly (1,4)", *pos)
	}
	if got := h.w.PathProgress.Get(e).Index; got != 2 {
		t.Fatalf("cursor = %d, want 2", got)
	}
	if d := h.w.Movables.Get(e).Direction; d != component.DirE {
		t.Errorf("direction = %s, want e", d)
	}
}

func TestNoOvershootAtExtremeSpeed(t *testing.T) {
	h := newHarness(t, openMap(16), nil)
	e := h.spawn(3, 7, 1e9)
	RequestMove(h.w, e, 12, 9)
	h.tick(0)

	path, ok := h.pf.Cache().Get(e)
	if !ok {
		t.Fatal("no path cached after request tick")
	}
	onPath := func(i, j float64) bool {
		for _, p := range path {
			if float64(p.X) == i && float64(p.Y) == j {
				return true
			}
		}
		return false
	}
	for n := 0; n < len(path)+2; n++ {
		h.tick(time.Second)
		pos := h.w.Positions.Get(e)
		if !onPath(pos.I, pos.J) {
			t.Fatalf("tick %d: position %+v left the path", n, *pos)
		}
	}
	if pos := h.w.Positions.Get(e); pos.I != 12 || pos.J != 9 {
		t.Fatalf("final position %+v, want (12,9)", *pos)
	}
	if !h.idle(e) {
		t.Fatal("entity should be idle after arrival")
	}
}

func TestClampStep(t *testing.T) {
	tests := []struct{ step, remaining, want float64 }{
		{2.5, 1, 1},
		{-2.5, -1, -1},
		{0.3, 1, 0.3},
		{0, 0, 0},
		{math.MaxFloat64, 0.25, 0.25},
	}
	for _, tt := range tests {
		if got := clampStep(tt.step, tt.remaining); got != tt.want {
			t.Errorf("clampStep(%v, %v) = %v, want %v", tt.step, tt.remaining, got, tt.want)
		}
	}
}

func TestArrivalIsIdempotent(t *testing.T) {
	f := &fakeFinder{}
	h := newHarness(t, openMap(8), f)
	e := h.spawn(2, 4, 3)
	RequestMove(h.w, e, 3, 4)
	h.tick(0)
	f.reqs[0].cb([]pathfind.Point{{X: 2, Y: 4}, {X: 3, Y: 4}})

	for n := 0; n < 5; n++ {
		h.tick(time.Second)
	}
	if !h.idle(e) {
		t.Fatal("entity should be idle")
	}
	arrivedAt := *h.w.Positions.Get(e)
	for n := 0; n < 10; n++ {
		h.tick(time.Second)
	}
	if len(f.reqs) != 1 {
		t.Fatalf("arrival re-triggered a request: %d requests", len(f.reqs))
	}
	if *h.w.Positions.Get(e) != arrivedAt || arrivedAt != (component.Position{I: 3, J: 4}) {
		t.Fatalf("position drifted: %+v", *h.w.Positions.Get(e))
	}
	if d := h.w.Movables.Get(e).Direction; d != component.DirNone {
		t.Errorf("direction = %s after arrival", d)
	}
	if h.pf.Cache().Len() != 0 || h.pf.InFlight() != 0 {
		t.Error("arrival should drop cached and in-flight state")
	}
}

func TestStaleCallbackIsDiscarded(t *testing.T) {
	f := &fakeFinder{}
	h := newHarness(t, openMap(8), f)
	e := h.spawn(1, 4, 1)

	RequestMove(h.w, e, 6, 4)
	h.tick(0)
	RequestMove(h.w, e, 1, 6)
	h.tick(0)

	if len(f.reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(f.reqs))
	}
	if len(f.cancelled) != 1 || f.cancelled[0] != f.reqs[0].handle {
		t.Fatalf("old request not cancelled: %v", f.cancelled)
	}

	f.reqs[0].cb([]pathfind.Point{{X: 1, Y: 4}, {X: 6, Y: 4}})
	if h.w.PathProgress.Has(e) {
		t.Fatal("stale result must not start movement")
	}
	if tgt := h.w.PathTargets.Get(e); tgt.I != 1 || tgt.J != 6 {
		t.Fatalf("target overwritten: %+v", *tgt)
	}

	f.reqs[1].cb([]pathfind.Point{{X: 1, Y: 4}, {X: 1, Y: 5}, {X: 1, Y: 6}})
	path, ok := h.pf.Cache().Get(e)
	if !ok || path[len(path)-1] != (pathfind.Point{X: 1, Y: 6}) {
		t.Fatalf("cached path = %v", path)
	}
	if !h.w.PathProgress.Has(e) {
		t.Fatal("current result should start movement")
	}
}

func TestRetargetWhileFollowing(t *testing.T) {
	f := &fakeFinder{}
	h := newHarness(t, openMap(8), f)
	e := h.spawn(1, 4, 1)
	RequestMove(h.w, e, 4, 4)
	h.tick(0)
	f.reqs[0].cb([]pathfind.Point{{X: 1, Y: 4}, {X: 2, Y: 4}, {X: 3, Y: 4}, {X: 4, Y: 4}})
	h.tick(500 * time.Millisecond)
	h.tick(500 * time.Millisecond)
	if !h.w.PathProgress.Has(e) {
		t.Fatal("entity should be following")
	}

	RequestMove(h.w, e, 1, 6)
	h.tick(0)
	if h.w.PathProgress.Has(e) {
		t.Fatal("re-target must drop the old progress")
	}
	if _, ok := h.pf.Cache().Get(e); ok {
		t.Fatal("re-target must drop the old cached path")
	}
	if len(f.reqs) != 2 {
		t.Fatalf("requests = %d, want 2", len(f.reqs))
	}
	if got := f.reqs[1].from; got != (pathfind.Point{X: 1, Y: 4}) {
		t.Errorf("new request starts at %+v, want floored current tile", got)
	}
}

func TestDestroyedEntityIgnoresCallback(t *testing.T) {
	f := &fakeFinder{}
	h := newHarness(t, openMap(8), f)
	e := h.spawn(1, 4, 1)
	RequestMove(h.w, e, 3, 4)
	h.tick(0)

	h.w.MarkForDestruction(e)
	h.w.FlushDestroyQueue()
	reused := h.spawn(2, 2, 1)
	if reused.Index() != e.Index() {
		t.Fatal("expected slot reuse")
	}
	RequestMove(h.w, reused, 2, 5)
	h.tick(0)
	if len(f.cancelled) == 0 || f.cancelled[0] != f.reqs[0].handle {
		t.Fatal("destroy should cancel the in-flight request")
	}

	f.reqs[0].cb([]pathfind.Point{{X: 1, Y: 4}, {X: 3, Y: 4}})
	if h.w.PathProgress.Has(reused) {
		t.Fatal("old callback leaked into the reused slot")
	}
}

func TestCenterSelfTargetStaysIdle(t *testing.T) {
	m := openMap(4)
	if got := mapmath.TileCount(4); got != 12 {
		t.Fatalf("TileCount(4) = %d, want 12", got)
	}
	h := newHarness(t, m, nil)
	e := h.spawn(2, 2, 1)
	RequestMove(h.w, e, 2, 2)
	h.tick(0)
	h.tick(time.Second)
	if !h.idle(e) {
		t.Fatal("self-target should return to idle")
	}
	if pos := h.w.Positions.Get(e); *pos != (component.Position{I: 2, J: 2}) {
		t.Fatalf("position moved to %+v", *pos)
	}
}

func TestUnreachableTargetEmitsEvent(t *testing.T) {
	m := openMap(8)
	if err := m.Block(5, 4, true); err != nil {
		t.Fatal(err)
	}
	h := newHarness(t, m, nil)
	var got []event.PathUnreachable
	event.Subscribe(h.bus, func(ev event.PathUnreachable) { got = append(got, ev) })

	e := h.spawn(2, 4, 1)
	RequestMove(h.w, e, 5, 4)
	h.tick(0)
	h.bus.SwapBuffers()
	h.bus.DispatchAll()

	if len(got) != 1 || got[0].Entity != e {
		t.Fatalf("PathUnreachable events = %+v", got)
	}
	if !h.idle(e) {
		t.Fatal("unreachable target should leave the entity idle")
	}
}

func TestStopCancelsMovement(t *testing.T) {
	h := newHarness(t, openMap(8), nil)
	e := h.spawn(1, 4, 1)
	RequestMove(h.w, e, 6, 4)
	h.tick(0)
	h.tick(300 * time.Millisecond)
	if err := Stop(h.w, e); err != nil {
		t.Fatal(err)
	}
	h.tick(300 * time.Millisecond)
	if !h.idle(e) || h.pf.Cache().Len() != 0 {
		t.Fatal("stop should leave the entity idle with no cached path")
	}
	pos := *h.w.Positions.Get(e)
	h.tick(time.Second)
	if *h.w.Positions.Get(e) != pos {
		t.Fatal("stopped entity kept moving")
	}
}

func TestPausedGameDoesNotMove(t *testing.T) {
	h := newHarness(t, openMap(8), nil)
	h.w.GameSpeed = 0
	e := h.spawn(2, 4, 1)
	RequestMove(h.w, e, 2, 6)
	h.tick(0)
	for n := 0; n < 3; n++ {
		h.tick(time.Second)
	}
	if pos := h.w.Positions.Get(e); pos.J != 4 {
		t.Fatalf("paused entity moved to %+v", *pos)
	}
	if !h.w.PathProgress.Has(e) {
		t.Fatal("paused entity should still be following")
	}
}
