package sim

import (
	"context"
	"io"
	"log/slog"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/innkeeper/internal/config"
	"github.com/samdwyer/innkeeper/internal/economy"
	"github.com/samdwyer/innkeeper/internal/entity"
	"github.com/samdwyer/innkeeper/internal/gamedata"
	"github.com/samdwyer/innkeeper/internal/navigation"
	"github.com/samdwyer/innkeeper/internal/telemetry"
	"github.com/samdwyer/innkeeper/internal/world"
)

// Options wires a Simulation's collaborators. Nil fields get defaults.
type Options struct {
	Furniture *gamedata.FurnitureRegistry // Furniture catalog; nil loads the embedded one
	Guests    *gamedata.GuestRegistry     // Guest profiles; nil loads the embedded ones
	Logger    *slog.Logger                // nil discards
	Rand      *rand.Rand                  // nil uses a fixed seed
}

// Simulation owns every piece of facility state. It is not safe for
// concurrent use; the game loop serializes ticks and input.
type Simulation struct {
	tuning  config.Tuning
	grid    *world.Grid
	ledger  *economy.Ledger
	catalog *gamedata.FurnitureRegistry
	guests  *gamedata.GuestRegistry
	log     *slog.Logger

	mode        BuildMode
	activeFloor int

	// Latest detection per floor, replaced wholesale
	rooms        [][]world.Room
	fingerprints []uint64
	visited      []bool

	pathfinder *navigation.Pathfinder
	sync       *navigation.Sync
	agents     []*entity.Agent
	spawner    *Spawner
	clock      time.Duration

	drag    *drag
	message string
}

type drag struct {
	start, end world.Coord
}

// New creates a simulation with empty floors and the configured opening balance.
func New(t config.Tuning, opts Options) *Simulation {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	catalog := opts.Furniture
	if catalog == nil {
		catalog = gamedata.MustLoadFurnitureRegistry()
	}
	guests := opts.Guests
	if guests == nil {
		guests = gamedata.MustLoadGuestRegistry()
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}

	prices := economy.Prices{
		ZoneUnitCost: t.Economy.ZoneUnitCost,
		Furniture:    catalog.Costs(),
	}

	s := &Simulation{
		tuning:       t,
		grid:         world.NewGrid(t.Map.Floors, t.Map.Width, t.Map.Height),
		ledger:       economy.NewLedger(t.Economy.StartingBalance, prices),
		catalog:      catalog,
		guests:       guests,
		log:          logger,
		rooms:        make([][]world.Room, t.Map.Floors),
		fingerprints: make([]uint64, t.Map.Floors),
		visited:      make([]bool, t.Map.Width*t.Map.Height),
		pathfinder:   navigation.NewPathfinder(t.Pathfinding.IterationsPerStep),
	}
	s.sync = navigation.NewSync(s.pathfinder)

	for _, f := range s.grid.Floors() {
		s.rooms[f.Level] = world.DetectRooms(f, s.visited)
		s.fingerprints[f.Level] = world.Fingerprint(s.rooms[f.Level])
	}

	s.spawner = NewSpawner(t.Spawner.Interval(), t.Spawner.SpawnCoord(), t.Spawner.DestinationCoord(), guests, rng, logger)
	s.spawner.Speed = t.Agents.Speed
	s.spawner.ArriveThreshold = t.Agents.ArriveThreshold

	if f := s.grid.Floor(0); f != nil {
		s.sync.Resync(f)
	}
	return s
}

// Tick advances the simulation by one frame: agents move, the spawner runs,
// then the pathfinding service takes its step.
func (s *Simulation) Tick(ctx context.Context, dt time.Duration) {
	s.clock += dt

	for _, a := range s.agents {
		if a.Update(dt) {
			s.log.Debug("guest arrived", "name", guestName(a), "cell", a.Cell())
		}
	}

	site := Site{
		Floor:   s.grid.Floor(s.activeFloor),
		Rooms:   s.rooms[s.activeFloor],
		Querier: s,
		Now:     s.clock,
	}
	for _, a := range s.spawner.Update(ctx, dt, site) {
		s.agents = append(s.agents, a)
		s.message = s.arrivalMessage(a)
	}

	s.pathfinder.Step()
}

// Query issues a path query against the active floor and logs failures.
func (s *Simulation) Query(start, goal world.Coord, cb navigation.Callback) *navigation.Handle {
	return s.sync.Query(start, goal, func(r navigation.Result) {
		if !r.Found {
			s.log.Debug("path not found", "start", start, "goal", goal, "floor", s.sync.Level())
		}
		if cb != nil {
			cb(r)
		}
	})
}

// SetBuildMode changes what pointer presses do. Any drag in progress is dropped.
func (s *Simulation) SetBuildMode(mode BuildMode) {
	if mode == s.mode {
		return
	}
	s.mode = mode
	s.drag = nil
	s.log.Debug("build mode changed", "mode", mode.String())
}

// BuildMode returns the current build mode.
func (s *Simulation) BuildMode() BuildMode {
	return s.mode
}

// SetActiveFloor changes the floor being viewed and pushes its walkability to
// the pathfinding service. Returns false for a floor that does not exist.
func (s *Simulation) SetActiveFloor(level int) bool {
	f := s.grid.Floor(level)
	if f == nil {
		return false
	}
	if level == s.activeFloor {
		return true
	}
	s.activeFloor = level
	s.drag = nil
	s.sync.Resync(f)
	s.log.Debug("active floor changed", "floor", level)
	return true
}

// ActiveFloor returns the floor being viewed.
func (s *Simulation) ActiveFloor() int {
	return s.activeFloor
}

// ZoneRoom zones the rectangle between two corner cells on the active floor.
func (s *Simulation) ZoneRoom(ctx context.Context, a, b world.Coord) economy.Result {
	rect := world.RectFromCorners(a, b)
	r := s.ledger.ZoneRoom(ctx, s.grid, s.activeFloor, rect)
	if !r.Applied {
		s.log.Info("zoning rejected", "floor", s.activeFloor, "rect", rect, "cost", r.Cost, "reason", r.Reason.String())
		s.message = "Zoning rejected: " + r.Reason.String()
		return r
	}
	s.log.Info("room zoned", "floor", s.activeFloor, "rect", rect, "cost", r.Cost, "tiles", r.Tiles, "balance", s.ledger.Balance())
	s.message = "Zoned room"
	s.refreshFloor(ctx, s.activeFloor)
	return r
}

// PlaceFurniture places furniture on a tile of the active floor.
func (s *Simulation) PlaceFurniture(ctx context.Context, x, y int, kind world.FurnitureKind) economy.Result {
	r := s.ledger.PlaceFurniture(ctx, s.grid, s.activeFloor, x, y, kind)
	if !r.Applied {
		s.log.Info("furniture rejected", "floor", s.activeFloor, "x", x, "y", y, "kind", kind, "reason", r.Reason.String())
		s.message = "Cannot place " + string(kind) + ": " + r.Reason.String()
		return r
	}
	s.log.Info("furniture placed", "floor", s.activeFloor, "x", x, "y", y, "kind", kind, "cost", r.Cost, "balance", s.ledger.Balance())
	s.message = "Placed " + s.furnitureName(kind)
	s.refreshFloor(ctx, s.activeFloor)
	return r
}

func (s *Simulation) furnitureName(kind world.FurnitureKind) string {
	if def := s.catalog.GetByKind(kind); def != nil {
		return def.Name
	}
	return string(kind)
}

// refreshFloor recomputes the floor's rooms and, for the active floor,
// resynchronizes the pathfinding grid.
func (s *Simulation) refreshFloor(ctx context.Context, level int) {
	f := s.grid.Floor(level)
	if f == nil {
		return
	}

	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "rooms.detect", trace.WithAttributes(attribute.Int("floor", level)))
	defer span.End()

	rooms := world.DetectRooms(f, s.visited)
	available := 0
	for _, r := range rooms {
		if r.Status == world.StatusAvailable {
			available++
		}
	}
	fp := world.Fingerprint(rooms)
	span.SetAttributes(
		attribute.Int("rooms.count", len(rooms)),
		attribute.Int("rooms.available", available),
		attribute.Bool("rooms.changed", fp != s.fingerprints[level]),
	)
	if fp != s.fingerprints[level] {
		s.log.Info("room layout changed", "floor", level, "rooms", len(rooms), "available", available)
	}
	s.rooms[level] = rooms
	s.fingerprints[level] = fp

	if level == s.activeFloor {
		s.sync.Resync(f)
	}
}

// Rooms returns the latest room list for a floor. The slice is replaced, never
// mutated, by later detections.
func (s *Simulation) Rooms(level int) []world.Room {
	if level < 0 || level >= len(s.rooms) {
		return nil
	}
	return s.rooms[level]
}

// Agents returns every spawned agent.
func (s *Simulation) Agents() []*entity.Agent {
	return s.agents
}

// Balance returns the ledger balance.
func (s *Simulation) Balance() int {
	return s.ledger.Balance()
}

// Grid returns the facility grid.
func (s *Simulation) Grid() *world.Grid {
	return s.grid
}

// Clock returns the elapsed simulation time.
func (s *Simulation) Clock() time.Duration {
	return s.clock
}

// SyncPushes returns how many walkability grids have been pushed to pathfinding.
func (s *Simulation) SyncPushes() int {
	return s.sync.Pushes()
}

// arrivalMessage names the guest and, when known, their profile.
func (s *Simulation) arrivalMessage(a *entity.Agent) string {
	if a.Guest != nil {
		if def := s.guests.GetByID(a.Guest.Profile); def != nil {
			return a.Guest.Name + " (" + def.Name + ") arrived"
		}
	}
	return guestName(a) + " arrived"
}

func guestName(a *entity.Agent) string {
	if a.Guest != nil {
		return a.Guest.Name
	}
	return a.ID.String()
}
