// Package game provides the terminal game loop that drives the simulation.
package game

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/innkeeper/internal/config"
	"github.com/samdwyer/innkeeper/internal/gamedata"
	"github.com/samdwyer/innkeeper/internal/sim"
	"github.com/samdwyer/innkeeper/internal/telemetry"
	"github.com/samdwyer/innkeeper/internal/ui"
)

// Game holds the terminal and the simulation it drives.
type Game struct {
	screen    *ui.Screen
	renderer  *ui.Renderer
	sim       *sim.Simulation
	tuning    config.Tuning
	log       *slog.Logger
	furniture *gamedata.FurnitureRegistry
	guests    *gamedata.GuestRegistry
	running   bool
	mouseDown bool
}

// New creates a new game instance.
func New(t config.Tuning, logger *slog.Logger) (*Game, error) {
	furniture, err := gamedata.LoadFurnitureRegistry()
	if err != nil {
		return nil, err
	}
	guests, err := gamedata.LoadGuestRegistry()
	if err != nil {
		return nil, err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	return &Game{
		screen:    screen,
		renderer:  ui.NewRenderer(screen, furniture, guests, t.Map.TileSize),
		tuning:    t,
		log:       logger,
		furniture: furniture,
		guests:    guests,
		running:   true,
	}, nil
}

// Run executes the main game loop. Ticks and input are handled on this
// goroutine only; a separate goroutine polls the terminal for events.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")

	// Initialize simulation (traced)
	ctx, initSpan := tracer.Start(ctx, "game.init")

	g.sim = sim.New(g.tuning, sim.Options{
		Furniture: g.furniture,
		Guests:    g.guests,
		Logger:    g.log,
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
	})

	initSpan.SetAttributes(
		attribute.String("hotel.name", g.tuning.HotelName),
		attribute.Int("map.floors", g.tuning.Map.Floors),
		attribute.Int("map.width", g.tuning.Map.Width),
		attribute.Int("map.height", g.tuning.Map.Height),
		attribute.Int("economy.balance", g.sim.Balance()),
	)
	initSpan.End()
	g.log.Info("simulation started", "hotel", g.tuning.HotelName, "balance", g.sim.Balance())

	dt := g.tuning.TickDuration()
	ticker := time.NewTicker(dt)
	defer ticker.Stop()
	events := g.screen.Events()

	g.renderer.Render(g.sim.Snapshot())

	// Main game loop
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case <-ticker.C:
			g.sim.Tick(ctx, dt)
			g.renderer.Render(g.sim.Snapshot())
		case ev, ok := <-events:
			if !ok {
				g.running = false
				continue
			}
			g.handleEvent(ctx, ev)
		}
	}

	// Cleanup
	g.screen.Close()
	g.log.Info("simulation stopped", "clock", g.sim.Clock(), "guests", len(g.sim.Agents()), "balance", g.sim.Balance())
	return nil
}

// handleEvent processes a single input event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ev)
	case *tcell.EventMouse:
		g.handleMouseEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		g.running = false

	case tcell.KeyEscape:
		g.sim.SetBuildMode(sim.ModeNone)

	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'z', 'Z':
			g.sim.SetBuildMode(sim.ModeZoneRoom)
		case 'd', 'D':
			g.sim.SetBuildMode(sim.ModePlaceDoor)
		case 'b', 'B':
			g.sim.SetBuildMode(sim.ModePlaceBed)
		case '0':
			g.sim.SetBuildMode(sim.ModeNone)
		case '[':
			g.sim.SetActiveFloor(g.sim.ActiveFloor() - 1)
		case ']':
			g.sim.SetActiveFloor(g.sim.ActiveFloor() + 1)
		}
	}
}

// handleMouseEvent turns button transitions into pointer down/move/up on the
// active floor. A release off the map lands on the nearest edge cell.
func (g *Game) handleMouseEvent(ctx context.Context, ev *tcell.EventMouse) {
	sx, sy := ev.Position()
	pressed := ev.Buttons()&tcell.Button1 != 0

	f := g.sim.Grid().Floor(g.sim.ActiveFloor())
	onMap := f.InBounds(sx-ui.MapLeft, sy-ui.MapTop)
	sx = ui.MapLeft + clamp(sx-ui.MapLeft, 0, f.Width-1)
	sy = ui.MapTop + clamp(sy-ui.MapTop, 0, f.Height-1)

	wx, wy, _ := g.renderer.ScreenToWorld(sx, sy, f)
	c := sim.WorldToTile(wx, wy, g.tuning.Map.TileSize)

	switch {
	case pressed && !g.mouseDown:
		if !onMap {
			return
		}
		g.mouseDown = true
		g.sim.PointerDown(ctx, c.X, c.Y)
	case pressed && g.mouseDown:
		g.sim.PointerMove(c.X, c.Y)
	case !pressed && g.mouseDown:
		g.mouseDown = false
		g.sim.PointerUp(ctx, c.X, c.Y)
	}
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}

// Close cleans up game resources.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
	}
}
