package pathfind

import (
	"container/heap"
)

// Point is one grid cell. X is the isometric i axis, Y the j axis.
type Point struct {
	X, Y int
}

// Callback receives a solved path including the start cell, an empty
// non-nil slice when start equals the destination, or nil when no route
// exists.
type Callback func(path []Point)

// Handle identifies one pending request.
type Handle uint64

// Option configures a Solver.
type Option func(*Solver)

// WithIterationsPerCalculation caps node expansions per Calculate call.
// Zero means unlimited.
func WithIterationsPerCalculation(n int) Option {
	return func(s *Solver) { s.iterations = n }
}

// WithAcceptableCost sets the grid cost treated as walkable.
func WithAcceptableCost(c uint8) Option {
	return func(s *Solver) { s.acceptable = c }
}

// WithCornerCutting allows diagonal steps past blocked orthogonal neighbours.
func WithCornerCutting(enabled bool) Option {
	return func(s *Solver) { s.cornerCutting = enabled }
}

// Edge costs: cardinal = 10, diagonal = 14 (≈10√2).
const (
	costCardinal = 10
	costDiagonal = 14
)

var neighbours = [8]struct {
	dx, dy, cost int
}{
	{0, -1, costCardinal}, {1, 0, costCardinal}, {0, 1, costCardinal}, {-1, 0, costCardinal},
	{1, -1, costDiagonal}, {1, 1, costDiagonal}, {-1, 1, costDiagonal}, {-1, -1, costDiagonal},
}

// Solver runs 8-connected A* searches over a rectangular cost grid.
//
// Requests are queued by FindPath and advanced by Calculate, which spends at
// most the configured number of node expansions and invokes callbacks for
// the searches it completes. Everything runs on the caller's goroutine, so a
// callback never races the tick that drives Calculate. The grid is read
// during Calculate only.
type Solver struct {
	grid          []uint8
	width, height int
	acceptable    uint8
	cornerCutting bool
	iterations    int

	nextHandle Handle
	queue      []*search
}

// NewSolver builds a solver over grid, laid out row-major with width columns.
func NewSolver(grid []uint8, width, height int, opts ...Option) *Solver {
	s := &Solver{grid: grid, width: width, height: height}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Solver) inBounds(p Point) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < s.width && p.Y < s.height
}

func (s *Solver) walkable(x, y int) bool {
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return false
	}
	return s.grid[y*s.width+x] == s.acceptable
}

// FindPath queues a search from start to end. The callback fires from a
// later Calculate call unless the request is cancelled first.
func (s *Solver) FindPath(start, end Point, cb Callback) Handle {
	s.nextHandle++
	sr := &search{handle: s.nextHandle, start: start, end: end, cb: cb}
	switch {
	case !s.inBounds(start) || !s.inBounds(end) || !s.walkable(end.X, end.Y):
		sr.done = true
	case start == end:
		sr.done = true
		sr.result = []Point{}
	default:
		sr.init(s)
	}
	s.queue = append(s.queue, sr)
	return sr.handle
}

// Cancel drops a pending request. Its callback will never fire.
func (s *Solver) Cancel(h Handle) bool {
	for i, sr := range s.queue {
		if sr.handle == h {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			return true
		}
	}
	return false
}

// Pending returns the number of queued searches.
func (s *Solver) Pending() int { return len(s.queue) }

// Calculate advances queued searches in FIFO order and fires the callbacks
// of those that finish. Returns the number of node expansions spent.
func (s *Solver) Calculate() int {
	spent := 0
	for len(s.queue) > 0 {
		sr := s.queue[0]
		for !sr.done {
			if s.iterations > 0 && spent >= s.iterations {
				return spent
			}
			sr.step(s)
			spent++
		}
		s.queue = s.queue[1:]
		if sr.cb != nil {
			sr.cb(sr.result)
		}
	}
	return spent
}

// search is the state of one A* run.
type search struct {
	handle     Handle
	start, end Point
	cb         Callback
	done       bool
	result     []Point

	open   openSet
	g      []int
	parent []int32
	closed []bool
	seq    int
}

func (sr *search) init(s *Solver) {
	n := s.width * s.height
	sr.g = make([]int, n)
	sr.parent = make([]int32, n)
	sr.closed = make([]bool, n)
	for i := range sr.g {
		sr.g[i] = -1
		sr.parent[i] = -1
	}
	idx := sr.start.Y*s.width + sr.start.X
	sr.g[idx] = 0
	sr.push(idx, 0, octile(sr.start, sr.end))
}

func (sr *search) push(idx, g, h int) {
	sr.seq++
	heap.Push(&sr.open, node{idx: idx, f: g + h, h: h, seq: sr.seq})
}

// step expands one node.
func (sr *search) step(s *Solver) {
	if sr.open.Len() == 0 {
		sr.done = true
		return
	}
	cur := heap.Pop(&sr.open).(node)
	if sr.closed[cur.idx] {
		return
	}
	sr.closed[cur.idx] = true

	cx, cy := cur.idx%s.width, cur.idx/s.width
	if cx == sr.end.X && cy == sr.end.Y {
		sr.result = sr.reconstruct(s, cur.idx)
		sr.done = true
		return
	}

	for _, nb := range neighbours {
		nx, ny := cx+nb.dx, cy+nb.dy
		if !s.walkable(nx, ny) {
			continue
		}
		if nb.dx != 0 && nb.dy != 0 && !s.cornerCutting {
			if !s.walkable(cx+nb.dx, cy) || !s.walkable(cx, cy+nb.dy) {
				continue
			}
		}
		nidx := ny*s.width + nx
		if sr.closed[nidx] {
			continue
		}
		g := sr.g[cur.idx] + nb.cost
		if sr.g[nidx] >= 0 && g >= sr.g[nidx] {
			continue
		}
		sr.g[nidx] = g
		sr.parent[nidx] = int32(cur.idx)
		sr.push(nidx, g, octile(Point{nx, ny}, sr.end))
	}
}

func (sr *search) reconstruct(s *Solver, idx int) []Point {
	var rev []Point
	for i := idx; i >= 0; i = int(sr.parent[i]) {
		rev = append(rev, Point{X: i % s.width, Y: i / s.width})
	}
	path := make([]Point, len(rev))
	for i, p := range rev {
		path[len(rev)-1-i] = p
	}
	return path
}

func octile(a, b Point) int {
	dx, dy := abs(a.X-b.X), abs(a.Y-b.Y)
	if dx < dy {
		dx, dy = dy, dx
	}
	return costCardinal*(dx-dy) + costDiagonal*dy
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// --- Min-heap for A* ---

type node struct {
	idx  int
	f, h int
	seq  int
}

// openSet orders by f, then h, then insertion so ties break deterministically.
type openSet []node

func (o openSet) Len() int { return len(o) }
func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	if o[i].h != o[j].h {
		return o[i].h < o[j].h
	}
	return o[i].seq < o[j].seq
}
func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }
func (o *openSet) Push(x any)   { *o = append(*o, x.(node)) }
func (o *openSet) Pop() any {
	old := *o
	n := old[len(old)-1]
	*o = old[:len(old)-1]
	return n
}
