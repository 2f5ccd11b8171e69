package gamemap

import (
	"fmt"
	"math/rand"

	"github.com/isorts/sim/internal/mapmath"
)

// Tile sentinels and terrain generation constants.
const (
	TileNull    uint16 = 0xffff // outside the diamond
	TileBlocked uint16 = 20     // impassable terrain (water)

	terrainCodes  = 12 // generated codes are [0, terrainCodes)
	blockingBelow = 3  // generated codes below this become TileBlocked
)

// Walkability grid costs.
const (
	GridWalkable uint8 = 0
	GridBlocked  uint8 = 0xff
)

// Map owns the diamond tile and decal storage plus the rectangular
// walkability grid handed to the path solver.
//
// Tiles and decals are dense, indexed by mapmath linear index. The grid is
// size×size, row-major by j. Mutated only from the tick goroutine.
type Map struct {
	size   int
	math   *mapmath.Math
	tiles  []uint16
	decals []uint16
	grid   []uint8
}

// New generates a map with pseudo-random terrain drawn from rng.
func New(size int, rng *rand.Rand) *Map {
	mm := mapmath.New(size)
	size = mm.Size()
	m := &Map{
		size:   size,
		math:   mm,
		tiles:  make([]uint16, mm.TileCount()),
		decals: make([]uint16, mm.TileCount()),
		grid:   make([]uint8, size*size),
	}

	// Everything starts blocked; only generated walkable tiles open up.
	for k := range m.grid {
		m.grid[k] = GridBlocked
	}

	for idx := range m.tiles {
		i, j, err := mm.PositionByIndex(idx)
		if err != nil {
			panic(fmt.Sprintf("gamemap: generating tile %d: %v", idx, err))
		}
		code := uint16(rng.Intn(terrainCodes))
		if code < blockingBelow {
			code = TileBlocked
		}
		m.tiles[idx] = code
		if code != TileBlocked {
			m.grid[j*size+i] = GridWalkable
		}
	}
	return m
}

func (m *Map) Size() int           { return m.size }
func (m *Map) Math() *mapmath.Math { return m.math }

// Grid returns the walkability grid. Callers must treat it as read-only.
func (m *Map) Grid() []uint8 { return m.grid }

// ForEachTile visits every non-null tile in linear index order.
func (m *Map) ForEachTile(fn func(tile uint16, i, j, index int)) {
	for idx, tile := range m.tiles {
		if tile == TileNull {
			continue
		}
		i, j, _ := m.math.PositionByIndex(idx)
		fn(tile, i, j, idx)
	}
}

// At returns the tile at (i, j), or false outside the diamond.
func (m *Map) At(i, j int) (uint16, bool) {
	idx, err := m.math.IndexByPosition(i, j)
	if err != nil {
		return TileNull, false
	}
	return m.tiles[idx], true
}

// DecalAt returns the decal at (i, j), or false outside the diamond.
func (m *Map) DecalAt(i, j int) (uint16, bool) {
	idx, err := m.math.IndexByPosition(i, j)
	if err != nil {
		return 0, false
	}
	return m.decals[idx], true
}

// Walkable reports whether the solver may route through (i, j).
func (m *Map) Walkable(i, j int) bool {
	if i < 0 || j < 0 || i >= m.size || j >= m.size {
		return false
	}
	return m.grid[j*m.size+i] == GridWalkable
}

// Place overwrites the terrain at (i, j) and refreshes its walkability.
func (m *Map) Place(i, j int, tile uint16) error {
	idx, err := m.math.IndexByPosition(i, j)
	if err != nil {
		return fmt.Errorf("place tile: %w", err)
	}
	if tile == TileNull {
		return fmt.Errorf("place tile at (%d,%d): null tile inside the diamond", i, j)
	}
	m.tiles[idx] = tile
	if tile == TileBlocked {
		m.grid[j*m.size+i] = GridBlocked
	} else {
		m.grid[j*m.size+i] = GridWalkable
	}
	return nil
}

// SetDecal stores a decal code at (i, j).
func (m *Map) SetDecal(i, j int, decal uint16) error {
	idx, err := m.math.IndexByPosition(i, j)
	if err != nil {
		return fmt.Errorf("set decal: %w", err)
	}
	m.decals[idx] = decal
	return nil
}

// Block marks (i, j) blocked or restores the terrain's own walkability.
// Used for building footprints.
func (m *Map) Block(i, j int, blocked bool) error {
	idx, err := m.math.IndexByPosition(i, j)
	if err != nil {
		return fmt.Errorf("block tile: %w", err)
	}
	switch {
	case blocked:
		m.grid[j*m.size+i] = GridBlocked
	case m.tiles[idx] != TileBlocked:
		m.grid[j*m.size+i] = GridWalkable
	}
	return nil
}
