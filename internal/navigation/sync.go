package navigation

import "github.com/samdwyer/innkeeper/internal/world"

// Sync keeps a pathfinding service's grid in step with one floor of the world.
type Sync struct {
	service Service
	mask    *Mask
	level   int
	pushes  int
}

// NewSync wraps a pathfinding service. Call Resync before issuing queries.
func NewSync(service Service) *Sync {
	return &Sync{service: service, level: -1}
}

// Resync derives the walkability mask for the floor and pushes it to the service.
// Call after every mutation of the active floor and whenever the active floor changes.
func (s *Sync) Resync(f *world.Floor) {
	s.mask = MaskFromFloor(f)
	s.level = f.Level
	s.pushes++
	s.service.SetGrid(s.mask)
}

// Query issues an asynchronous path query against the last pushed grid.
func (s *Sync) Query(start, goal world.Coord, cb Callback) *Handle {
	return s.service.FindPath(start, goal, cb)
}

// Mask returns the last pushed mask, or nil before the first Resync.
func (s *Sync) Mask() *Mask {
	return s.mask
}

// Level returns the floor the current mask was derived from, or -1.
func (s *Sync) Level() int {
	return s.level
}

// Pushes returns how many times a grid has been pushed to the service.
func (s *Sync) Pushes() int {
	return s.pushes
}
