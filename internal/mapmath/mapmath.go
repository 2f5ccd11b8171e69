package mapmath

import (
	"errors"
	"fmt"
	"sort"
)

// ErrOutOfBounds is wrapped by every AddressingError.
var ErrOutOfBounds = errors.New("out of map bounds")

// AddressingError reports an index or position outside the diamond.
// It always indicates a coordinate-transform bug upstream and is never clamped.
type AddressingError struct {
	Size  int
	Index int // -1 when the failing input was a position
	I, J  int
}

func (e *AddressingError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("index %d out of bounds for map size %d", e.Index, e.Size)
	}
	return fmt.Sprintf("position (%d,%d) out of bounds for map size %d", e.I, e.J, e.Size)
}

func (e *AddressingError) Unwrap() error { return ErrOutOfBounds }

// Math converts between linear tile indices and isometric (i, j) pairs for a
// diamond-shaped map. j is the row, i the column within the row.
//
// The diamond profile grows by two columns per row up to the middle row and
// shrinks symmetrically after it; the size%2 term keeps odd and even sizes
// symmetric. Immutable after construction and safe for concurrent use.
type Math struct {
	size      int
	remainder int
	count     int
	rowStart  []int // rowStart[r] = number of tiles in rows < r; len = size+1
}

// New precomputes the row prefix table for a map of the given size.
func New(size int) *Math {
	if size < 1 {
		size = 1
	}
	m := &Math{
		size:      size,
		remainder: size % 2,
		count:     TileCount(size),
		rowStart:  make([]int, size+1),
	}
	for row := 0; row < size; row++ {
		m.rowStart[row+1] = m.rowStart[row] + m.ColumnsInRow(row)
	}
	return m
}

// TileCount returns the number of valid cells in a diamond of the given size.
func TileCount(size int) int {
	remainder := size % 2
	floored := size - remainder
	return floored*floored/2 + floored + remainder
}

func (m *Math) Size() int      { return m.size }
func (m *Math) TileCount() int { return m.count }

// ColumnsInRow returns the number of valid columns in row.
func (m *Math) ColumnsInRow(row int) int {
	if 2*row < m.size {
		return row*2 + 2 - m.remainder
	}
	return (m.size-row)*2 - m.remainder
}

// FirstColumnInRow returns the inclusive lower column bound of row.
func (m *Math) FirstColumnInRow(row int) int {
	return (m.size - m.ColumnsInRow(row)) / 2
}

// LastColumnInRow returns the inclusive upper column bound of row.
func (m *Math) LastColumnInRow(row int) int {
	return (m.size+m.ColumnsInRow(row))/2 - 1
}

// IndexForFirstTileInRow returns the linear index of the first tile in row.
func (m *Math) IndexForFirstTileInRow(row int) (int, error) {
	if row < 0 || row >= m.size {
		return 0, &AddressingError{Size: m.size, Index: -1, I: 0, J: row}
	}
	return m.rowStart[row], nil
}

// PositionByIndex returns the (i, j) pair stored at index.
func (m *Math) PositionByIndex(index int) (i, j int, err error) {
	if index < 0 || index >= m.count {
		return 0, 0, &AddressingError{Size: m.size, Index: index}
	}
	// first row whose end lies past index
	row := sort.Search(m.size, func(r int) bool { return m.rowStart[r+1] > index })
	return m.FirstColumnInRow(row) + index - m.rowStart[row], row, nil
}

// IndexByPosition returns the linear index of (i, j).
func (m *Math) IndexByPosition(i, j int) (int, error) {
	if m.IsPositionNull(i, j) {
		return 0, &AddressingError{Size: m.size, Index: -1, I: i, J: j}
	}
	return m.rowStart[j] + i - m.FirstColumnInRow(j), nil
}

// IsPositionNull reports whether (i, j) lies outside the diamond.
func (m *Math) IsPositionNull(i, j int) bool {
	if j < 0 || j >= m.size {
		return true
	}
	return i < m.FirstColumnInRow(j) || i > m.LastColumnInRow(j)
}

// MustIndex is IndexByPosition for callers that already validated the position.
func (m *Math) MustIndex(i, j int) int {
	idx, err := m.IndexByPosition(i, j)
	if err != nil {
		panic(err)
	}
	return idx
}
