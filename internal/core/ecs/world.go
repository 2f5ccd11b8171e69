package ecs

// World is the top-level ECS container. It owns the entity pool, the column
// registry, each entity's component mask, the registered queries, and a
// deferred destruction queue flushed by CleanupSystem each tick.
type World struct {
	pool         *EntityPool
	registry     *Registry
	masks        []Mask
	queries      []*Query
	destroyQueue []EntityID
	doomed       map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		registry:     NewRegistry(),
		masks:        make([]Mask, 0, 1024),
		destroyQueue: make([]EntityID, 0, 64),
		doomed:       make(map[EntityID]struct{}),
	}
}

func (w *World) Pool() *EntityPool   { return w.pool }
func (w *World) Registry() *Registry { return w.registry }

func (w *World) CreateEntity() EntityID {
	id := w.pool.Create()
	for int(id.Index()) >= len(w.masks) {
		w.masks = append(w.masks, 0)
	}
	return id
}

func (w *World) Alive(id EntityID) bool {
	return w.pool.Alive(id)
}

// Mask returns the component set of a live entity, zero otherwise.
func (w *World) Mask(id EntityID) Mask {
	if !w.Alive(id) {
		return 0
	}
	return w.masks[id.Index()]
}

func (w *World) setBit(e EntityID, c ComponentID) {
	idx := e.Index()
	old := w.masks[idx]
	next := old | 1<<c
	if next == old {
		return
	}
	w.masks[idx] = next
	w.notify(e, old, next)
}

func (w *World) clearBit(e EntityID, c ComponentID) {
	idx := e.Index()
	old := w.masks[idx]
	next := old &^ (1 << c)
	if next == old {
		return
	}
	w.masks[idx] = next
	w.notify(e, old, next)
}

func (w *World) notify(e EntityID, old, next Mask) {
	for _, q := range w.queries {
		was, is := q.matches(old), q.matches(next)
		switch {
		case !was && is:
			q.insert(e)
		case was && !is:
			q.erase(e)
		}
	}
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Returns
// false if it is dead or already queued.
func (w *World) MarkForDestruction(id EntityID) bool {
	if !w.Alive(id) || w.PendingDestruction(id) {
		return false
	}
	w.doomed[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
	return true
}

// PendingDestruction reports whether id is queued for the next flush.
func (w *World) PendingDestruction(id EntityID) bool {
	_, ok := w.doomed[id]
	return ok
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Called by CleanupSystem at the end of each tick.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		if w.Destroy(id) {
			n++
		}
	}
	w.destroyQueue = w.destroyQueue[:0]
	clear(w.doomed)
	return n
}

// Destroy detaches every column from id and recycles its index immediately.
// Queries observe the detach as an exit.
func (w *World) Destroy(id EntityID) bool {
	if !w.Alive(id) {
		return false
	}
	idx := id.Index()
	if old := w.masks[idx]; old != 0 {
		w.masks[idx] = 0
		w.notify(id, old, 0)
	}
	w.registry.RemoveAll(id)
	return w.pool.Destroy(id)
}
