package ecs

import (
	"testing"
)

type pos struct{ I, J float64 }
type tag struct{}

func newTestWorld() (*World, *Column[pos], *Column[tag]) {
	w := NewWorld()
	return w, NewColumn[pos](w, "pos"), NewColumn[tag](w, "tag")
}

func TestEntityPoolGenerations(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	if !p.Alive(a) {
		t.Fatal("fresh entity should be alive")
	}
	if !p.Destroy(a) {
		t.Fatal("destroy of live entity should succeed")
	}
	if p.Alive(a) {
		t.Fatal("destroyed entity should not be alive")
	}
	if p.Destroy(a) {
		t.Fatal("double destroy should be ignored")
	}
	b := p.Create()
	if b.Index() != a.Index() {
		t.Fatalf("expected index reuse, got %d vs %d", b.Index(), a.Index())
	}
	if b.Generation() == a.Generation() || b == a {
		t.Fatal("reused index must carry a new generation")
	}
	if p.Live() != 1 {
		t.Errorf("Live() = %d, want 1", p.Live())
	}
}

func TestColumnAttachDetach(t *testing.T) {
	w, positions, tags := newTestWorld()
	e := w.CreateEntity()

	if positions.Has(e) {
		t.Fatal("new entity should have no components")
	}
	if !positions.Attach(e, pos{I: 1, J: 2}) {
		t.Fatal("attach to live entity should succeed")
	}
	if got := positions.Get(e); got.I != 1 || got.J != 2 {
		t.Fatalf("Get = %+v", *got)
	}
	positions.Get(e).I = 5
	if v, ok := positions.Lookup(e); !ok || v.I != 5 {
		t.Fatalf("Lookup after write = %+v, %v", v, ok)
	}
	if tags.Has(e) {
		t.Fatal("unrelated column should stay detached")
	}
	if !positions.Detach(e) {
		t.Fatal("detach of attached column should succeed")
	}
	if positions.Detach(e) {
		t.Fatal("second detach should report false")
	}
	if _, ok := positions.Lookup(e); ok {
		t.Fatal("Lookup after detach should fail")
	}
}

func TestInvalidComponentReadPanics(t *testing.T) {
	w, positions, _ := newTestWorld()
	e := w.CreateEntity()
	defer func() {
		if recover() == nil {
			t.Error("expected panic reading an unattached column")
		}
	}()
	positions.Get(e)
}

func TestAttachToDeadEntity(t *testing.T) {
	w, positions, _ := newTestWorld()
	e := w.CreateEntity()
	w.Destroy(e)
	if positions.Attach(e, pos{}) {
		t.Fatal("attach to destroyed entity should fail")
	}
}

func TestQueryLevelAndEdges(t *testing.T) {
	w, positions, tags := newTestWorld()
	q := w.NewQuery(positions, tags)

	e1 := w.CreateEntity()
	e2 := w.CreateEntity()
	positions.Attach(e1, pos{})
	positions.Attach(e2, pos{})
	tags.Attach(e1, tag{})

	if q.Len() != 1 || !q.Contains(e1) {
		t.Fatalf("expected only e1 to match, got %v", q.Entities())
	}
	entered := q.Entered()
	if len(entered) != 1 || entered[0] != e1 {
		t.Fatalf("Entered = %v, want [%v]", entered, e1)
	}
	if len(q.Entered()) != 0 {
		t.Fatal("Entered must reset after being polled")
	}

	// Re-attaching an attached column is not a transition.
	tags.Attach(e1, tag{})
	if len(q.Entered()) != 0 {
		t.Fatal("re-attach must not re-trigger Entered")
	}

	tags.Detach(e1)
	exited := q.Exited()
	if len(exited) != 1 || exited[0] != e1 {
		t.Fatalf("Exited = %v, want [%v]", exited, e1)
	}
	if q.Len() != 0 {
		t.Fatalf("match set should be empty, got %v", q.Entities())
	}
}

func TestQueryDetachReattachReportsEnter(t *testing.T) {
	w, positions, _ := newTestWorld()
	q := w.NewQuery(positions)
	e := w.CreateEntity()
	positions.Attach(e, pos{})
	q.Entered()

	positions.Detach(e)
	positions.Attach(e, pos{I: 3})

	if got := q.Entered(); len(got) != 1 || got[0] != e {
		t.Fatalf("Entered = %v, want [%v]", got, e)
	}
	if got := q.Exited(); len(got) != 0 {
		t.Fatalf("Exited = %v, want none after re-enter", got)
	}
}

func TestQueriesHaveIndependentEdges(t *testing.T) {
	w, positions, _ := newTestWorld()
	a := w.NewQuery(positions)
	b := w.NewQuery(positions)
	e := w.CreateEntity()
	positions.Attach(e, pos{})

	if len(a.Entered()) != 1 {
		t.Fatal("query a should see the enter")
	}
	if len(b.Entered()) != 1 {
		t.Fatal("query b should see the enter independently")
	}
}

func TestQueryPicksUpExistingEntities(t *testing.T) {
	w, positions, _ := newTestWorld()
	e := w.CreateEntity()
	positions.Attach(e, pos{})

	q := w.NewQuery(positions)
	if !q.Contains(e) {
		t.Fatal("query created late should contain existing matches")
	}
	if got := q.Entered(); len(got) != 1 {
		t.Fatalf("Entered = %v, want existing match", got)
	}
}

func TestDestroyFiresExitAndClearsSlots(t *testing.T) {
	w, positions, _ := newTestWorld()
	q := w.NewQuery(positions)
	e := w.CreateEntity()
	positions.Attach(e, pos{I: 9})
	q.Entered()

	w.MarkForDestruction(e)
	if !positions.Has(e) {
		t.Fatal("marking must not destroy before the flush")
	}
	if n := w.FlushDestroyQueue(); n != 1 {
		t.Fatalf("FlushDestroyQueue = %d, want 1", n)
	}
	if got := q.Exited(); len(got) != 1 || got[0] != e {
		t.Fatalf("Exited = %v, want [%v]", got, e)
	}

	reused := w.CreateEntity()
	if reused.Index() != e.Index() {
		t.Fatalf("expected index reuse")
	}
	if positions.Has(reused) {
		t.Fatal("reused entity must not inherit components")
	}
	if positions.Has(e) {
		t.Fatal("stale id must not see the reused slot")
	}
	positions.Attach(reused, pos{})
	if q.Contains(e) || !q.Contains(reused) {
		t.Fatal("query must distinguish generations")
	}
}

func TestEntitiesSnapshotIsSafeToMutate(t *testing.T) {
	w, positions, _ := newTestWorld()
	q := w.NewQuery(positions)
	for i := 0; i < 5; i++ {
		positions.Attach(w.CreateEntity(), pos{})
	}
	seen := 0
	for _, e := range q.Entities() {
		positions.Detach(e)
		seen++
	}
	if seen != 5 || q.Len() != 0 {
		t.Fatalf("visited %d, remaining %d", seen, q.Len())
	}
}

func TestQueryTransientMatchIsSilent(t *testing.T) {
	w, positions, _ := newTestWorld()
	q := w.NewQuery(positions)
	e := w.CreateEntity()
	positions.Attach(e, pos{})
	positions.Detach(e)
	if got := q.Entered(); len(got) != 0 {
		t.Fatalf("Entered = %v, want none", got)
	}
	if got := q.Exited(); len(got) != 0 {
		t.Fatalf("Exited = %v, want none", got)
	}
}

func TestQueryReenterThenLeaveReportsExit(t *testing.T) {
	w, positions, _ := newTestWorld()
	q := w.NewQuery(positions)
	e := w.CreateEntity()
	positions.Attach(e, pos{})
	q.Entered()

	positions.Detach(e)
	positions.Attach(e, pos{})
	positions.Detach(e)
	if got := q.Entered(); len(got) != 0 {
		t.Fatalf("Entered = %v, want none", got)
	}
	if got := q.Exited(); len(got) != 1 || got[0] != e {
		t.Fatalf("Exited = %v, want [%v]", got, e)
	}
}

func TestMarkForDestructionOnce(t *testing.T) {
	w, _, _ := newTestWorld()
	e := w.CreateEntity()
	if !w.MarkForDestruction(e) {
		t.Fatal("first mark should queue the entity")
	}
	if w.MarkForDestruction(e) || !w.PendingDestruction(e) {
		t.Fatal("second mark should be rejected while queued")
	}
	if n := w.FlushDestroyQueue(); n != 1 {
		t.Fatalf("FlushDestroyQueue = %d, want 1", n)
	}
	if w.PendingDestruction(e) || w.MarkForDestruction(e) {
		t.Fatal("dead entity must not be queued again")
	}
}

func TestColumnGrowthIsAmortized(t *testing.T) {
	w, positions, _ := newTestWorld()
	const n = 4096
	ids := make([]EntityID, n)
	for i := range ids {
		ids[i] = w.CreateEntity()
	}
	next := 0
	allocs := testing.AllocsPerRun(n-1, func() {
		positions.Attach(ids[next], pos{I: 1})
		next++
	})
	// Doubling growth reallocates about log2(n) times across n attaches.
	if allocs > 0.05 {
		t.Fatalf("%.3f allocations per attach to a fresh entity, want amortized O(1)", allocs)
	}
	for _, e := range ids {
		if got := positions.Get(e); got.I != 1 {
			t.Fatalf("%v lost its value after growth: %+v", e, *got)
		}
	}
}
