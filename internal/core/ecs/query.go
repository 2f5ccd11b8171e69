package ecs

// Query is a live filtered view over entities attached to every column in
// its mask. The match set is maintained incrementally by the World on every
// attach, detach and destroy; nothing rescans all entities.
//
// Entered and Exited are edge-triggered: they return the entities whose match
// status changed since the previous call and then reset. A match that starts
// and ends between two polls is not reported; one that ends and starts again
// is reported as an enter. Each Query keeps its
// own edge buffers, so two systems polling Entered on separate queries over
// the same columns both observe every transition.
type Query struct {
	mask Mask

	dense  []EntityID
	sparse map[uint32]int // index -> position in dense

	entered edgeSet
	exited  edgeSet
	// reentered holds pending enters that replaced an unpolled exit.
	reentered map[EntityID]struct{}
}

// edgeSet is an insertion-ordered set of entities.
type edgeSet struct {
	order []EntityID
	pos   map[EntityID]int
}

func (s *edgeSet) add(e EntityID) {
	if s.pos == nil {
		s.pos = make(map[EntityID]int)
	}
	if _, ok := s.pos[e]; ok {
		return
	}
	s.pos[e] = len(s.order)
	s.order = append(s.order, e)
}

func (s *edgeSet) remove(e EntityID) bool {
	p, ok := s.pos[e]
	if !ok {
		return false
	}
	delete(s.pos, e)
	copy(s.order[p:], s.order[p+1:])
	s.order = s.order[:len(s.order)-1]
	for i := p; i < len(s.order); i++ {
		s.pos[s.order[i]] = i
	}
	return true
}

func (s *edgeSet) drain() []EntityID {
	out := s.order
	s.order = nil
	s.pos = nil
	if out == nil {
		return []EntityID{}
	}
	return out
}

// NewQuery registers a query over the given columns. Entities already
// matching are reported by the first Entered call.
func (w *World) NewQuery(cols ...Component) *Query {
	q := &Query{
		sparse:    make(map[uint32]int, 64),
		reentered: make(map[EntityID]struct{}),
	}
	for _, c := range cols {
		q.mask |= 1 << c.ComponentID()
	}
	for idx := 0; idx < w.pool.Capacity(); idx++ {
		if w.masks[idx].Contains(q.mask) && q.mask != 0 {
			e := NewEntityID(uint32(idx), w.pool.generations[idx])
			if w.pool.Alive(e) {
				q.insert(e)
			}
		}
	}
	w.queries = append(w.queries, q)
	return q
}

func (q *Query) Mask() Mask { return q.mask }

func (q *Query) matches(m Mask) bool {
	return q.mask != 0 && m.Contains(q.mask)
}

func (q *Query) insert(e EntityID) {
	q.sparse[e.Index()] = len(q.dense)
	q.dense = append(q.dense, e)
	if q.exited.remove(e) {
		q.reentered[e] = struct{}{}
	}
	q.entered.add(e)
}

func (q *Query) erase(e EntityID) {
	p, ok := q.sparse[e.Index()]
	if !ok {
		return
	}
	last := len(q.dense) - 1
	moved := q.dense[last]
	q.dense[p] = moved
	q.sparse[moved.Index()] = p
	q.dense = q.dense[:last]
	delete(q.sparse, e.Index())
	if q.entered.remove(e) {
		if _, ok := q.reentered[e]; !ok {
			// Entered and left between polls: nothing to report.
			return
		}
		delete(q.reentered, e)
	}
	q.exited.add(e)
}

// Entities returns a snapshot of the current match set. Callers may attach
// and detach components while iterating it.
func (q *Query) Entities() []EntityID {
	out := make([]EntityID, len(q.dense))
	copy(out, q.dense)
	return out
}

// Len returns the current match count.
func (q *Query) Len() int { return len(q.dense) }

// Contains reports whether e currently matches.
func (q *Query) Contains(e EntityID) bool {
	p, ok := q.sparse[e.Index()]
	return ok && q.dense[p] == e
}

// Entered returns entities that started matching since the last call.
func (q *Query) Entered() []EntityID {
	clear(q.reentered)
	return q.entered.drain()
}

// Exited returns entities that stopped matching since the last call.
func (q *Query) Exited() []EntityID { return q.exited.drain() }
