package sim

import (
	"time"

	"github.com/google/uuid"

	"github.com/samdwyer/innkeeper/internal/entity"
	"github.com/samdwyer/innkeeper/internal/world"
)

// AgentView is the drawable state of one agent.
type AgentView struct {
	ID      uuid.UUID
	Name    string
	Profile string
	Symbol  rune
	Pos     entity.Vec2
	State   entity.MoveState
}

// Snapshot is everything a renderer needs to draw one frame of the active floor.
type Snapshot struct {
	HotelName string
	Floor     *world.Floor // Read-only
	Floors    int
	Rooms     []world.Room
	Furniture []world.FurnitureItem
	Agents    []AgentView
	Balance   int
	Mode      string
	Clock     time.Duration
	Drag      *world.Rect // Zoning preview while the pointer is held
	DragCost  int         // Price of zoning Drag
	Message   string      // Outcome of the last action
}

// Snapshot captures the active floor for drawing.
func (s *Simulation) Snapshot() Snapshot {
	f := s.grid.Floor(s.activeFloor)
	snap := Snapshot{
		HotelName: s.tuning.HotelName,
		Floor:     f,
		Floors:    s.grid.FloorCount(),
		Rooms:     s.rooms[s.activeFloor],
		Furniture: f.Furniture(),
		Balance:   s.ledger.Balance(),
		Mode:      s.mode.String(),
		Clock:     s.clock,
		Message:   s.message,
	}
	if r, ok := s.DragPreview(); ok {
		snap.Drag = &r
		snap.DragCost = s.ledger.Prices().ZoneCost(r)
	}

	for _, a := range s.agents {
		if a.Floor != s.activeFloor {
			continue
		}
		v := AgentView{
			ID:     a.ID,
			Name:   guestName(a),
			Symbol: a.Symbol,
			Pos:    a.Pos,
			State:  a.State(),
		}
		if a.Guest != nil {
			v.Profile = a.Guest.Profile
		}
		snap.Agents = append(snap.Agents, v)
	}
	return snap
}
