package ui

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/innkeeper/internal/gamedata"
	"github.com/samdwyer/innkeeper/internal/sim"
	"github.com/samdwyer/innkeeper/internal/world"
)

// Map placement on screen. Row 0 holds the HUD.
const (
	MapLeft = 0
	MapTop  = 1
)

const helpText = "z zone  d door  b bed  0/Esc none  [ ] floor  q quit"

// Renderer handles drawing the simulation to the screen.
type Renderer struct {
	screen    *Screen
	furniture *gamedata.FurnitureRegistry
	guests    *gamedata.GuestRegistry
	tileSize  int
}

// NewRenderer creates a new renderer for the given screen. Each terminal cell
// shows one tile of tileSize world pixels.
func NewRenderer(screen *Screen, furniture *gamedata.FurnitureRegistry, guests *gamedata.GuestRegistry, tileSize int) *Renderer {
	if tileSize <= 0 {
		tileSize = 1
	}
	return &Renderer{
		screen:    screen,
		furniture: furniture,
		guests:    guests,
		tileSize:  tileSize,
	}
}

// ScreenToWorld converts a terminal cell to the world-space pixel at the
// center of the tile drawn there. Returns false outside the map area.
func (r *Renderer) ScreenToWorld(sx, sy int, f *world.Floor) (wx, wy float64, ok bool) {
	x, y := sx-MapLeft, sy-MapTop
	if f == nil || !f.InBounds(x, y) {
		return 0, 0, false
	}
	ts := float64(r.tileSize)
	return (float64(x) + 0.5) * ts, (float64(y) + 0.5) * ts, true
}

// Render draws the HUD, the active floor, furniture and agents.
func (r *Renderer) Render(snap sim.Snapshot) {
	r.screen.Clear()

	hud := fmt.Sprintf("%s | Floor %d/%d | $%d | Mode: %s",
		snap.HotelName, snap.Floor.Level+1, snap.Floors, snap.Balance, snap.Mode)
	r.RenderMessage(hud, 0)

	status := roomStatusByCell(snap.Rooms)
	furniture := furnitureByCell(snap.Furniture)

	// Draw tiles
	f := snap.Floor
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			c := world.Coord{X: x, Y: y}
			ch, style := r.tileCell(f.Tile(x, y) != nil, furniture[c], status[c])
			if snap.Drag != nil && snap.Drag.Contains(x, y) {
				style = style.Reverse(true)
			}
			r.screen.SetContent(MapLeft+x, MapTop+y, ch, style)
		}
	}

	// Draw agents on top
	for _, a := range snap.Agents {
		c := a.Pos.Cell()
		if !f.InBounds(c.X, c.Y) {
			continue
		}
		style := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
		if def := r.guests.GetByID(a.Profile); def != nil {
			style = style.Foreground(def.TCellColor())
		}
		r.screen.SetContent(MapLeft+c.X, MapTop+c.Y, a.Symbol, style)
	}

	below := MapTop + f.Height
	footer := fmt.Sprintf("Guests: %d  Time: %s", len(snap.Agents), snap.Clock.Truncate(time.Second))
	if snap.Drag != nil {
		footer += fmt.Sprintf("  Cost: $%d", snap.DragCost)
	}
	r.RenderMessage(footer, below)
	r.RenderMessage(snap.Message, below+1)
	r.RenderMessage(helpText, below+2)

	r.screen.Show()
}

// tileCell returns the glyph and style for one cell. Furniture is drawn over
// the tile.
func (r *Renderer) tileCell(built bool, kind world.FurnitureKind, status world.RoomStatus) (rune, tcell.Style) {
	if !built {
		return '.', tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	}
	base := tcell.StyleDefault.Foreground(statusColor(status))
	if def := r.furniture.GetByKind(kind); def != nil {
		return def.GlyphRune(), base.Foreground(def.TCellColor())
	}
	return '#', base
}

// furnitureByCell keeps the most recently placed item on each cell.
func furnitureByCell(items []world.FurnitureItem) map[world.Coord]world.FurnitureKind {
	kinds := make(map[world.Coord]world.FurnitureKind, len(items))
	for _, it := range items {
		kinds[world.Coord{X: it.X, Y: it.Y}] = it.Kind
	}
	return kinds
}

// statusColor returns the tile color for a room status.
func statusColor(s world.RoomStatus) tcell.Color {
	switch s {
	case world.StatusAvailable:
		return tcell.ColorGreen
	case world.StatusOccupied:
		return tcell.ColorBlue
	case world.StatusDirty:
		return tcell.ColorOlive
	default:
		return tcell.ColorGray
	}
}

func roomStatusByCell(rooms []world.Room) map[world.Coord]world.RoomStatus {
	status := make(map[world.Coord]world.RoomStatus)
	for _, room := range rooms {
		for _, c := range room.Tiles {
			status[c] = room.Status
		}
	}
	return status
}

// RenderMessage displays a message on the given screen row.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}
