package world

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/isorts/sim/internal/component"
	"github.com/isorts/sim/internal/data"
	"github.com/isorts/sim/internal/gamemap"
)

func newState() *State {
	return NewState(gamemap.New(8, rand.New(rand.NewSource(1))))
}

func TestAttachRoutesByKind(t *testing.T) {
	s := newState()
	e := s.CreateEntity()
	for _, v := range []component.Value{
		component.Position{I: 2, J: 3},
		component.Movable{Speed: 2.5},
		component.Owner{Player: 1},
		component.Renderable{},
	} {
		if err := s.Attach(e, v); err != nil {
			t.Fatalf("Attach(%s): %v", v.Kind(), err)
		}
	}
	if got := s.Positions.Get(e); got.I != 2 || got.J != 3 {
		t.Errorf("Position = %+v", *got)
	}
	if !s.Has(e, component.KindMovable) || s.Has(e, component.KindPathTarget) {
		t.Error("Has does not reflect attached kinds")
	}
	comps := s.Components(e)
	if len(comps) != 4 || comps[0].Kind() != component.KindPosition || comps[3].Kind() != component.KindRenderable {
		t.Errorf("Components = %v", comps)
	}
	if !s.Detach(e, component.KindOwner) || s.Owners.Has(e) {
		t.Error("Detach by kind failed")
	}
}

func TestAttachToDeadEntity(t *testing.T) {
	s := newState()
	e := s.CreateEntity()
	s.Destroy(e)
	if err := s.Attach(e, component.Health{Health: 1}); !errors.Is(err, ErrDeadEntity) {
		t.Fatalf("err = %v, want ErrDeadEntity", err)
	}
	if s.Components(e) != nil {
		t.Error("dead entity should report no components")
	}
}

func TestEveryKindHasAColumn(t *testing.T) {
	s := newState()
	for k := 0; k < component.KindCount; k++ {
		c := s.Column(component.Kind(k))
		if c == nil {
			t.Fatalf("no column for %s", component.Kind(k))
		}
		if c.Name() != component.Kind(k).String() {
			t.Errorf("column %d named %q", k, c.Name())
		}
	}
}

func TestLedgerSpend(t *testing.T) {
	l := NewLedger()
	l.Grant(0, data.Goods{Wood: 10, Gold: 5})
	if l.Spend(0, data.Goods{Wood: 11}) {
		t.Fatal("overspend should fail")
	}
	if !l.Spend(0, data.Goods{Wood: 4, Gold: 5}) {
		t.Fatal("affordable spend should succeed")
	}
	if g := l.Get(0).Goods; g.Wood != 6 || g.Gold != 0 {
		t.Errorf("goods = %+v", g)
	}
}

func TestAlliances(t *testing.T) {
	m := NewAllianceManager()
	m.Form(2, 1)
	if !m.Allied(1, 2) || m.Allied(1, 3) || !m.Allied(3, 3) {
		t.Fatal("alliance membership wrong")
	}
	m.Form(2, 3)
	if m.Allied(1, 2) {
		t.Error("player 2 should have left its first alliance")
	}
	if got := m.Groups(); len(got) != 1 || got[0][0] != 2 || got[0][1] != 3 {
		t.Errorf("Groups = %v", got)
	}
	m.Leave(3)
	if len(m.Groups()) != 0 {
		t.Error("single-member alliance should dissolve")
	}
}

func TestAOIGridBuckets(t *testing.T) {
	g := NewAOIGrid(4)
	g.Place(3, 1, 1)
	g.Place(1, 5, 1)
	g.Place(2, 20, 20)
	if got := g.Candidates(2, 2, 1); len(got) != 1 || got[0] != 3 {
		t.Fatalf("Candidates near origin = %v, want [3]", got)
	}
	if got := g.Candidates(3, 2, 2); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Fatalf("Candidates across cells = %v, want [1 3] sorted", got)
	}
	g.Place(3, 19, 19)
	if got := g.Candidates(20, 20, 1); len(got) != 2 {
		t.Fatalf("moved entity should share the far cell, got %v", got)
	}
	if !g.Remove(2) || g.Remove(2) {
		t.Fatal("Remove should succeed once")
	}
	if g.Len() != 2 {
		t.Errorf("Len = %d, want 2", g.Len())
	}
}

func TestNearbyFiltersByDistance(t *testing.T) {
	s := newState()
	near := s.CreateEntity()
	far := s.CreateEntity()
	_ = s.Attach(near, component.Position{I: 2, J: 2})
	_ = s.Attach(far, component.Position{I: 5, J: 5})
	s.Spatial.Place(near, 2, 2)
	s.Spatial.Place(far, 5, 5)

	if got := s.Nearby(1, 1, 2); len(got) != 1 || got[0] != near {
		t.Fatalf("Nearby = %v, want [%v]", got, near)
	}
	s.Destroy(near)
	if got := s.Nearby(1, 1, 2); len(got) != 0 {
		t.Fatalf("destroyed entity still reported: %v", got)
	}
}
