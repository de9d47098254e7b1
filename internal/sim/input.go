package sim

import (
	"context"
	"math"

	"github.com/samdwyer/innkeeper/internal/world"
)

// WorldToTile converts a world-space pixel position to the cell under it.
func WorldToTile(wx, wy float64, tileSize int) world.Coord {
	if tileSize <= 0 {
		tileSize = 1
	}
	ts := float64(tileSize)
	return world.Coord{X: int(math.Floor(wx / ts)), Y: int(math.Floor(wy / ts))}
}

// PointerDown handles a press on a cell of the active floor. Zoning starts a
// drag; furniture modes place immediately.
func (s *Simulation) PointerDown(ctx context.Context, x, y int) {
	switch s.mode {
	case ModeZoneRoom:
		c := world.Coord{X: x, Y: y}
		s.drag = &drag{start: c, end: c}
	case ModePlaceDoor:
		s.PlaceFurniture(ctx, x, y, world.FurnitureDoor)
	case ModePlaceBed:
		s.PlaceFurniture(ctx, x, y, world.FurnitureBed)
	}
}

// PointerMove updates the drag preview while the pointer is held.
func (s *Simulation) PointerMove(x, y int) {
	if s.drag != nil {
		s.drag.end = world.Coord{X: x, Y: y}
	}
}

// PointerUp finishes a zoning drag on the release cell.
func (s *Simulation) PointerUp(ctx context.Context, x, y int) {
	if s.drag == nil {
		return
	}
	start := s.drag.start
	s.drag = nil
	if s.mode == ModeZoneRoom {
		s.ZoneRoom(ctx, start, world.Coord{X: x, Y: y})
	}
}

// DragPreview returns the rectangle being dragged, if any.
func (s *Simulation) DragPreview() (world.Rect, bool) {
	if s.drag == nil {
		return world.Rect{}, false
	}
	return world.RectFromCorners(s.drag.start, s.drag.end), true
}
