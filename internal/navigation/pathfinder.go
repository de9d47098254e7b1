package navigation

import (
	"math"

	"github.com/samdwyer/innkeeper/internal/world"
)

// DefaultIterationsPerStep bounds node expansions per Step when none is configured.
const DefaultIterationsPerStep = 1000

// Result is the outcome of a path query.
type Result struct {
	Path  []world.Coord // Waypoint cells from start to goal inclusive; nil when not found
	Found bool
}

// Callback receives a query result. It runs inside Step, never inside FindPath.
type Callback func(Result)

// Handle tracks one path query.
type Handle struct {
	ID       uint64
	done     bool
	result   Result
	callback Callback
}

// Done returns true once the result has been delivered.
func (h *Handle) Done() bool {
	return h.done
}

// Found returns true if the query was delivered with a path.
func (h *Handle) Found() bool {
	return h.done && h.result.Found
}

// Path returns the delivered path, or nil if not done or not found.
func (h *Handle) Path() []world.Coord {
	if !h.done {
		return nil
	}
	return h.result.Path
}

func (h *Handle) deliver() {
	h.done = true
	if h.callback != nil {
		h.callback(h.result)
	}
}

// Service is a grid pathfinding engine driven once per frame.
type Service interface {
	// SetGrid replaces the walkability grid used by queries issued afterwards.
	SetGrid(m *Mask)
	// FindPath queues a query. The result is delivered on a later Step.
	FindPath(start, goal world.Coord, cb Callback) *Handle
	// Step advances in-flight searches and delivers finished results.
	Step()
}

// Pathfinder is an A* Service that spreads work across frames.
//
// Searches run in FIFO order against the grid that was current when they were
// issued. Each Step first delivers results finished by the previous Step, then
// spends at most IterationsPerStep node expansions on pending searches.
type Pathfinder struct {
	IterationsPerStep int

	grid     *Mask
	pending  []*search
	finished []*Handle
	nextID   uint64
}

// NewPathfinder creates a pathfinder with the given per-Step expansion budget.
func NewPathfinder(iterationsPerStep int) *Pathfinder {
	if iterationsPerStep <= 0 {
		iterationsPerStep = DefaultIterationsPerStep
	}
	return &Pathfinder{IterationsPerStep: iterationsPerStep}
}

// SetGrid stores a private copy of the mask.
func (p *Pathfinder) SetGrid(m *Mask) {
	if m == nil {
		p.grid = nil
		return
	}
	p.grid = m.Clone()
}

// FindPath queues a query from start to goal.
func (p *Pathfinder) FindPath(start, goal world.Coord, cb Callback) *Handle {
	p.nextID++
	h := &Handle{ID: p.nextID, callback: cb}
	p.pending = append(p.pending, &search{
		handle: h,
		grid:   p.grid,
		start:  start,
		goal:   goal,
	})
	return h
}

// Step delivers results from the previous Step and advances pending searches.
func (p *Pathfinder) Step() {
	ready := p.finished
	p.finished = nil
	for _, h := range ready {
		h.deliver()
	}

	budget := p.IterationsPerStep
	for len(p.pending) > 0 && budget > 0 {
		s := p.pending[0]
		done, used := s.advance(budget)
		budget -= used
		if !done {
			break
		}
		p.pending[0] = nil
		p.pending = p.pending[1:]
		p.finished = append(p.finished, s.handle)
	}
}

// Pending returns the number of queries not yet delivered.
func (p *Pathfinder) Pending() int {
	return len(p.pending) + len(p.finished)
}

// --- A* search state ---

type heapEntry struct {
	idx int // Flat grid index (y*width + x)
	f   int // g + heuristic
	g   int // Cost from start
}

type minHeap []heapEntry

// less orders by f, preferring deeper entries on ties so searches run straight at the goal.
func (h minHeap) less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	return h[i].g > h[j].g
}

func (h *minHeap) push(e heapEntry) {
	*h = append(*h, e)
	i := len(*h) - 1
	for i > 0 {
		parent := (i - 1) / 2
		if !h.less(i, parent) {
			break
		}
		(*h)[parent], (*h)[i] = (*h)[i], (*h)[parent]
		i = parent
	}
}

func (h *minHeap) pop() heapEntry {
	old := *h
	n := len(old)
	e := old[0]
	old[0] = old[n-1]
	*h = old[:n-1]

	i := 0
	for {
		left := 2*i + 1
		if left >= len(*h) {
			break
		}
		smallest := left
		if right := left + 1; right < len(*h) && h.less(right, left) {
			smallest = right
		}
		if !h.less(smallest, i) {
			break
		}
		(*h)[i], (*h)[smallest] = (*h)[smallest], (*h)[i]
		i = smallest
	}
	return e
}

type search struct {
	handle      *Handle
	grid        *Mask
	start, goal world.Coord

	started bool
	open    minHeap
	g       []int
	parent  []int32
	closed  []bool
}

func (s *search) finish(path []world.Coord) {
	s.handle.result = Result{Path: path, Found: path != nil}
	s.open = nil
	s.g, s.parent, s.closed = nil, nil, nil
}

func (s *search) heuristic(x, y int) int {
	return abs(x-s.goal.X) + abs(y-s.goal.Y)
}

// advance runs up to budget expansions. Returns whether the search finished
// and how many expansions were used.
func (s *search) advance(budget int) (bool, int) {
	if !s.started {
		s.started = true
		if s.grid == nil || !s.grid.InBounds(s.start.X, s.start.Y) || !s.grid.Walkable(s.goal.X, s.goal.Y) {
			s.finish(nil)
			return true, 0
		}
		if s.start == s.goal {
			s.finish([]world.Coord{s.start})
			return true, 0
		}

		size := s.grid.Width * s.grid.Height
		s.g = make([]int, size)
		s.parent = make([]int32, size)
		s.closed = make([]bool, size)
		for i := range s.g {
			s.g[i] = math.MaxInt32
			s.parent[i] = -1
		}
		si := s.start.Y*s.grid.Width + s.start.X
		s.g[si] = 0
		s.open.push(heapEntry{idx: si, f: s.heuristic(s.start.X, s.start.Y)})
	}

	w := s.grid.Width
	goalIdx := s.goal.Y*w + s.goal.X
	used := 0

	for len(s.open) > 0 && used < budget {
		e := s.open.pop()
		used++
		if s.closed[e.idx] {
			continue // Stale entry
		}
		s.closed[e.idx] = true

		if e.idx == goalIdx {
			s.finish(s.reconstruct(goalIdx))
			return true, used
		}

		cur := world.Coord{X: e.idx % w, Y: e.idx / w}
		for _, n := range cur.Neighbors4() {
			if !s.grid.Walkable(n.X, n.Y) {
				continue
			}
			ni := n.Y*w + n.X
			if s.closed[ni] {
				continue
			}
			ng := s.g[e.idx] + 1
			if ng < s.g[ni] {
				s.g[ni] = ng
				s.parent[ni] = int32(e.idx)
				s.open.push(heapEntry{idx: ni, f: ng + s.heuristic(n.X, n.Y), g: ng})
			}
		}
	}

	if len(s.open) == 0 {
		s.finish(nil)
		return true, used
	}
	return false, used
}

func (s *search) reconstruct(goalIdx int) []world.Coord {
	w := s.grid.Width
	n := s.g[goalIdx] + 1
	path := make([]world.Coord, n)
	idx := goalIdx
	for i := n - 1; i >= 0; i-- {
		path[i] = world.Coord{X: idx % w, Y: idx / w}
		idx = int(s.parent[idx])
	}
	return path
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
