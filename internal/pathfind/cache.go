package pathfind

import "github.com/isorts/sim/internal/core/ecs"

// Cache holds the solved waypoint list per entity for one simulation
// session. Written only from solver callbacks and the arrival transition.
type Cache struct {
	paths map[ecs.EntityID][]Point
}

func NewCache() *Cache {
	return &Cache{paths: make(map[ecs.EntityID][]Point, 64)}
}

func (c *Cache) Set(e ecs.EntityID, path []Point) { c.paths[e] = path }

func (c *Cache) Get(e ecs.EntityID) ([]Point, bool) {
	p, ok := c.paths[e]
	return p, ok
}

func (c *Cache) Delete(e ecs.EntityID) { delete(c.paths, e) }

func (c *Cache) Len() int { return len(c.paths) }
