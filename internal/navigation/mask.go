// Package navigation provides walkability masks and asynchronous grid pathfinding.
package navigation

import "github.com/samdwyer/innkeeper/internal/world"

// Mask is a walkability grid with the same shape as a floor.
type Mask struct {
	Width, Height int
	walkable      []bool // Row-major
}

// NewMask creates a mask with every cell walkable.
func NewMask(width, height int) *Mask {
	m := &Mask{
		Width:    width,
		Height:   height,
		walkable: make([]bool, width*height),
	}
	for i := range m.walkable {
		m.walkable[i] = true
	}
	return m
}

// MaskFromFloor derives a mask from a floor: a cell is walkable iff it is unbuilt.
func MaskFromFloor(f *world.Floor) *Mask {
	m := &Mask{
		Width:    f.Width,
		Height:   f.Height,
		walkable: make([]bool, f.Width*f.Height),
	}
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			m.walkable[y*f.Width+x] = f.IsPassable(x, y)
		}
	}
	return m
}

// InBounds returns true if the cell lies within the mask.
func (m *Mask) InBounds(x, y int) bool {
	return x >= 0 && x < m.Width && y >= 0 && y < m.Height
}

// Walkable returns true if the cell is in bounds and walkable.
func (m *Mask) Walkable(x, y int) bool {
	return m.InBounds(x, y) && m.walkable[y*m.Width+x]
}

// SetWalkable updates a single cell. Out-of-bounds cells are ignored.
func (m *Mask) SetWalkable(x, y int, walkable bool) {
	if m.InBounds(x, y) {
		m.walkable[y*m.Width+x] = walkable
	}
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	c := &Mask{Width: m.Width, Height: m.Height, walkable: make([]bool, len(m.walkable))}
	copy(c.walkable, m.walkable)
	return c
}
