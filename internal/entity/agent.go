// Package entity provides the mobile agents that walk the facility.
package entity

import (
	"math"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/samdwyer/innkeeper/internal/navigation"
	"github.com/samdwyer/innkeeper/internal/world"
)

const (
	// DefaultSpeed is the walking speed in tiles per second.
	DefaultSpeed = 3.0
	// DefaultArriveThreshold is how close, in tiles, counts as reaching a waypoint.
	DefaultArriveThreshold = 0.1
)

// Kind identifies what an agent is.
type Kind int

const (
	KindGuest Kind = iota
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindGuest:
		return "guest"
	default:
		return "unknown"
	}
}

// MoveState is the agent's path-following state.
type MoveState int

const (
	// StateIdle - no path, the agent stands still
	StateIdle MoveState = iota
	// StateFollowing - walking toward the head of a non-empty path
	StateFollowing
)

// String returns a human-readable state name.
func (s MoveState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFollowing:
		return "following"
	default:
		return "unknown"
	}
}

// Vec2 is a position or velocity in continuous tile space.
type Vec2 struct {
	X, Y float64
}

// CellCenter returns the center of a cell in tile space.
func CellCenter(c world.Coord) Vec2 {
	return Vec2{X: float64(c.X) + 0.5, Y: float64(c.Y) + 0.5}
}

// Cell returns the cell containing the point.
func (v Vec2) Cell() world.Coord {
	return world.Coord{X: int(math.Floor(v.X)), Y: int(math.Floor(v.Y))}
}

// Dist returns the straight-line distance to another point.
func (v Vec2) Dist(o Vec2) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// StayDuration is how long a guest books for.
const StayDuration = time.Hour

// Guest holds the guest-specific part of an agent.
type Guest struct {
	Name        string
	Profile     string        // Guest profile ID from the catalog
	ArrivedAt   time.Duration // Simulation clock at spawn
	DepartsAt   time.Duration // Simulation clock when the stay ends; nothing checks out yet
	Preferences []string
}

// PathQuerier issues asynchronous path queries.
type PathQuerier interface {
	Query(start, goal world.Coord, cb navigation.Callback) *navigation.Handle
}

// Agent is a mobile entity that follows grid paths.
type Agent struct {
	ID              uuid.UUID
	Kind            Kind
	Floor           int
	Symbol          rune
	Pos             Vec2
	Velocity        Vec2
	Speed           float64 // Tiles per second
	ArriveThreshold float64 // Tiles

	Guest *Guest // Set for KindGuest

	state   MoveState
	path    []world.Coord
	issued  uint64 // Sequence number of the last query issued
	applied uint64 // Sequence number of the last result applied
}

// NewGuest creates an idle guest standing on the center of a cell.
func NewGuest(name string, floor int, cell world.Coord, speed, threshold float64, now time.Duration) *Agent {
	return &Agent{
		ID:              uuid.New(),
		Kind:            KindGuest,
		Floor:           floor,
		Symbol:          'G',
		Pos:             CellCenter(cell),
		Speed:           speed,
		ArriveThreshold: threshold,
		Guest: &Guest{
			Name:        name,
			ArrivedAt:   now,
			DepartsAt:   now + StayDuration,
			Preferences: []string{"cleanliness"},
		},
	}
}

// State returns the movement state.
func (a *Agent) State() MoveState {
	return a.state
}

// Path returns a copy of the remaining waypoints.
func (a *Agent) Path() []world.Coord {
	return slices.Clone(a.path)
}

// Cell returns the cell the agent is standing in.
func (a *Agent) Cell() world.Coord {
	return a.Pos.Cell()
}

// SetPath replaces the remaining waypoints. An empty path makes the agent idle.
func (a *Agent) SetPath(path []world.Coord) {
	a.path = slices.Clone(path)
	if len(a.path) == 0 {
		a.state = StateIdle
		a.Velocity = Vec2{}
		return
	}
	a.state = StateFollowing
}

// RequestPath asks for a path from the agent's cell to goal. The agent keeps
// doing what it was doing until the result arrives. A failed query leaves the
// agent's current path alone, and a result older than one already applied is
// dropped.
func (a *Agent) RequestPath(q PathQuerier, goal world.Coord) *navigation.Handle {
	a.issued++
	seq := a.issued
	return q.Query(a.Cell(), goal, func(r navigation.Result) {
		a.applyPath(seq, r)
	})
}

func (a *Agent) applyPath(seq uint64, r navigation.Result) {
	if seq < a.applied || !r.Found || len(r.Path) == 0 {
		return
	}
	a.applied = seq
	a.SetPath(r.Path)
}

// Update advances the agent by one frame. Returns true on the frame the agent
// reaches the final waypoint.
func (a *Agent) Update(dt time.Duration) bool {
	if a.state != StateFollowing {
		a.Velocity = Vec2{}
		return false
	}

	target := CellCenter(a.path[0])
	dist := a.Pos.Dist(target)

	if dist < a.ArriveThreshold {
		a.path = a.path[1:]
		if len(a.path) > 0 {
			return false
		}
		a.Pos = target
		a.Velocity = Vec2{}
		a.path = nil
		a.state = StateIdle
		return true
	}

	dirX := (target.X - a.Pos.X) / dist
	dirY := (target.Y - a.Pos.Y) / dist
	a.Velocity = Vec2{X: dirX * a.Speed, Y: dirY * a.Speed}

	// Never step past the waypoint
	step := math.Min(a.Speed*dt.Seconds(), dist)
	a.Pos.X += dirX * step
	a.Pos.Y += dirY * step
	return false
}
