package world

import (
	"math"
	"slices"

	"github.com/isorts/sim/internal/core/ecs"
)

// DefaultCellSize is the cell edge in tiles.
const DefaultCellSize = 8

type cellKey struct {
	cx, cy int
}

// AOIGrid implements a cell-based area of interest index over positioned
// entities. A range query visits only the cells its square touches.
// Accessed only from the tick goroutine; no locks.
type AOIGrid struct {
	cellSize int
	cells    map[cellKey]map[ecs.EntityID]struct{}
	where    map[ecs.EntityID]cellKey
}

func NewAOIGrid(cellSize int) *AOIGrid {
	if cellSize < 1 {
		cellSize = DefaultCellSize
	}
	return &AOIGrid{
		cellSize: cellSize,
		cells:    make(map[cellKey]map[ecs.EntityID]struct{}),
		where:    make(map[ecs.EntityID]cellKey),
	}
}

func (g *AOIGrid) toCell(v float64) int {
	return int(math.Floor(v / float64(g.cellSize)))
}

func (g *AOIGrid) key(i, j float64) cellKey {
	return cellKey{cx: g.toCell(i), cy: g.toCell(j)}
}

// Place adds an entity or moves it to the cell holding (i, j).
func (g *AOIGrid) Place(e ecs.EntityID, i, j float64) {
	k := g.key(i, j)
	if old, ok := g.where[e]; ok {
		if old == k {
			return
		}
		g.drop(e, old)
	}
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[ecs.EntityID]struct{})
		g.cells[k] = cell
	}
	cell[e] = struct{}{}
	g.where[e] = k
}

// Remove takes an entity out of the grid.
func (g *AOIGrid) Remove(e ecs.EntityID) bool {
	k, ok := g.where[e]
	if !ok {
		return false
	}
	g.drop(e, k)
	delete(g.where, e)
	return true
}

func (g *AOIGrid) drop(e ecs.EntityID, k cellKey) {
	cell := g.cells[k]
	delete(cell, e)
	if len(cell) == 0 {
		delete(g.cells, k)
	}
}

// Len returns the number of indexed entities.
func (g *AOIGrid) Len() int { return len(g.where) }

// Candidates returns the entities in every cell touched by the square of
// half-width radius around (i, j), sorted by id. Caller does fine-grained
// distance filtering.
func (g *AOIGrid) Candidates(i, j, radius float64) []ecs.EntityID {
	lo, hi := g.key(i-radius, j-radius), g.key(i+radius, j+radius)
	var result []ecs.EntityID
	for cx := lo.cx; cx <= hi.cx; cx++ {
		for cy := lo.cy; cy <= hi.cy; cy++ {
			for e := range g.cells[cellKey{cx: cx, cy: cy}] {
				result = append(result, e)
			}
		}
	}
	slices.Sort(result)
	return result
}
