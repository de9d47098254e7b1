package game

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/innkeeper/internal/config"
	"github.com/samdwyer/innkeeper/internal/gamedata"
	"github.com/samdwyer/innkeeper/internal/sim"
	"github.com/samdwyer/innkeeper/internal/ui"
	"github.com/samdwyer/innkeeper/internal/world"
)

// newTestGame builds a game without a terminal.
func newTestGame(t *testing.T) *Game {
	t.Helper()
	tuning, err := config.Default()
	if err != nil {
		t.Fatalf("config.Default() error: %v", err)
	}
	furniture := gamedata.MustLoadFurnitureRegistry()
	guests := gamedata.MustLoadGuestRegistry()
	return &Game{
		renderer:  ui.NewRenderer(nil, furniture, guests, tuning.Map.TileSize),
		sim:       sim.New(tuning, sim.Options{Furniture: furniture, Guests: guests}),
		tuning:    tuning,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		furniture: furniture,
		guests:    guests,
		running:   true,
	}
}

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func mouse(x, y int, buttons tcell.ButtonMask) *tcell.EventMouse {
	return tcell.NewEventMouse(x, y, buttons, tcell.ModNone)
}

func TestBuildModeKeys(t *testing.T) {
	tests := []struct {
		ev       *tcell.EventKey
		expected sim.BuildMode
	}{
		{key('z'), sim.ModeZoneRoom},
		{key('d'), sim.ModePlaceDoor},
		{key('b'), sim.ModePlaceBed},
		{key('0'), sim.ModeNone},
		{key('Z'), sim.ModeZoneRoom},
		{tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), sim.ModeNone},
	}

	g := newTestGame(t)
	for _, tt := range tests {
		g.handleKeyEvent(tt.ev)
		if got := g.sim.BuildMode(); got != tt.expected {
			t.Errorf("after %q mode = %v, want %v", tt.ev.Name(), got, tt.expected)
		}
	}
	if !g.running {
		t.Error("mode keys should not stop the game")
	}
}

func TestFloorKeys(t *testing.T) {
	g := newTestGame(t)

	g.handleKeyEvent(key('['))
	if got := g.sim.ActiveFloor(); got != 0 {
		t.Errorf("'[' on the ground floor moved to %d", got)
	}

	g.handleKeyEvent(key(']'))
	g.handleKeyEvent(key(']'))
	g.handleKeyEvent(key(']'))
	if got := g.sim.ActiveFloor(); got != world.DefaultFloors-1 {
		t.Errorf("ActiveFloor() = %d, want top floor %d", got, world.DefaultFloors-1)
	}

	g.handleKeyEvent(key('['))
	if got := g.sim.ActiveFloor(); got != world.DefaultFloors-2 {
		t.Errorf("ActiveFloor() = %d, want %d", got, world.DefaultFloors-2)
	}
}

func TestQuitKeys(t *testing.T) {
	for _, ev := range []*tcell.EventKey{
		key('q'),
		tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl),
	} {
		g := newTestGame(t)
		g.handleKeyEvent(ev)
		if g.running {
			t.Errorf("%q did not stop the game", ev.Name())
		}
	}
}

func TestMouseDragZonesRoom(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.handleKeyEvent(key('z'))

	g.handleMouseEvent(ctx, mouse(ui.MapLeft+1, ui.MapTop+1, tcell.Button1))
	g.handleMouseEvent(ctx, mouse(ui.MapLeft+3, ui.MapTop+2, tcell.Button1))
	if _, ok := g.sim.DragPreview(); !ok {
		t.Fatal("expected a drag preview while the button is held")
	}
	g.handleMouseEvent(ctx, mouse(ui.MapLeft+3, ui.MapTop+2, tcell.ButtonNone))

	if got := g.sim.Balance(); got != 49400 {
		t.Errorf("Balance() = %d, want 49400", got)
	}
	if got := g.sim.Grid().Floor(0).BuiltCount(); got != 6 {
		t.Errorf("BuiltCount() = %d, want 6", got)
	}
}

func TestMouseReleaseOffMapClampsToEdge(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.handleKeyEvent(key('z'))
	f := g.sim.Grid().Floor(0)

	g.handleMouseEvent(ctx, mouse(ui.MapLeft+f.Width-2, ui.MapTop+f.Height-1, tcell.Button1))
	g.handleMouseEvent(ctx, mouse(ui.MapLeft+f.Width+10, ui.MapTop+f.Height+10, tcell.ButtonNone))

	// 2x1 rectangle at the bottom-right corner
	if got := g.sim.Balance(); got != 49800 {
		t.Errorf("Balance() = %d, want 49800", got)
	}
}

func TestMousePressOffMapIgnored(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.handleKeyEvent(key('z'))

	g.handleMouseEvent(ctx, mouse(0, 0, tcell.Button1)) // HUD row
	g.handleMouseEvent(ctx, mouse(0, 0, tcell.ButtonNone))

	if g.mouseDown {
		t.Error("press on the HUD should not start a drag")
	}
	if got := g.sim.Balance(); got != 50000 {
		t.Errorf("Balance() = %d, want 50000", got)
	}
}

func TestMousePlacesFurnitureOnPress(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	g.sim.ZoneRoom(ctx, world.Coord{X: 0, Y: 0}, world.Coord{X: 1, Y: 1})

	g.handleKeyEvent(key('d'))
	g.handleMouseEvent(ctx, mouse(ui.MapLeft+0, ui.MapTop+0, tcell.Button1))

	if !g.sim.Grid().Tile(0, 0, 0).Has(world.FurnitureDoor) {
		t.Error("expected a door on press")
	}
}
