package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/samdwyer/innkeeper/internal/entity"
	"github.com/samdwyer/innkeeper/internal/gamedata"
	"github.com/samdwyer/innkeeper/internal/telemetry"
	"github.com/samdwyer/innkeeper/internal/world"
)

// Site is the view of the active floor a spawner needs.
type Site struct {
	Floor   *world.Floor
	Rooms   []world.Room
	Querier entity.PathQuerier
	Now     time.Duration // Simulation clock
}

// Spawner creates guests on a fixed interval while an available room exists.
type Spawner struct {
	Interval        time.Duration
	SpawnCell       world.Coord
	Destination     world.Coord // Used when no door cell can be reached
	Speed           float64
	ArriveThreshold float64

	guests  *gamedata.GuestRegistry
	rng     *rand.Rand
	log     *slog.Logger
	elapsed time.Duration
	count   int

	spawned metric.Int64Counter
}

// NewSpawner creates a spawner. A nil registry spawns plain guests.
func NewSpawner(interval time.Duration, spawnCell, destination world.Coord, guests *gamedata.GuestRegistry, rng *rand.Rand, logger *slog.Logger) *Spawner {
	sp := &Spawner{
		Interval:        interval,
		SpawnCell:       spawnCell,
		Destination:     destination,
		Speed:           entity.DefaultSpeed,
		ArriveThreshold: entity.DefaultArriveThreshold,
		guests:          guests,
		rng:             rng,
		log:             logger,
	}
	counter, err := telemetry.Meter("spawner").Int64Counter("innkeeper.spawner.agents_spawned",
		metric.WithDescription("Guests created by the spawner"))
	if err == nil {
		sp.spawned = counter
	}
	return sp
}

// Count returns how many guests have been created.
func (sp *Spawner) Count() int {
	return sp.count
}

// Update advances the spawner clock and makes one spawn attempt per elapsed
// interval. Returns the guests created, each already walking toward its
// destination once its path query resolves.
func (sp *Spawner) Update(ctx context.Context, dt time.Duration, site Site) []*entity.Agent {
	if sp.Interval <= 0 {
		return nil
	}
	sp.elapsed += dt

	var created []*entity.Agent
	for sp.elapsed >= sp.Interval {
		sp.elapsed -= sp.Interval
		if a := sp.spawn(ctx, site); a != nil {
			created = append(created, a)
		}
	}
	return created
}

func (sp *Spawner) spawn(ctx context.Context, site Site) *entity.Agent {
	room, ok := FirstAvailableRoom(site.Rooms)
	if !ok || site.Floor == nil {
		return nil
	}

	tracer := telemetry.Tracer("spawner")
	ctx, span := tracer.Start(ctx, "spawner.spawn")
	defer span.End()

	sp.count++
	name := fmt.Sprintf("Guest %d", sp.count)
	a := entity.NewGuest(name, site.Floor.Level, sp.SpawnCell, sp.Speed, sp.ArriveThreshold, site.Now)
	if sp.guests != nil && sp.rng != nil {
		if def := sp.guests.SpawnRandom(sp.rng); def != nil {
			a.Symbol = def.GlyphRune()
			a.Guest.Profile = def.ID
			a.Guest.Preferences = slices.Clone(def.Preferences)
		}
	}

	dest := DoorDestination(site.Floor, room, sp.Destination)
	a.RequestPath(site.Querier, dest)

	span.SetAttributes(
		attribute.String("guest.name", name),
		attribute.String("guest.profile", a.Guest.Profile),
		attribute.Int("guest.floor", site.Floor.Level),
		attribute.Int("destination.x", dest.X),
		attribute.Int("destination.y", dest.Y),
	)
	if sp.spawned != nil {
		sp.spawned.Add(ctx, 1, metric.WithAttributes(attribute.String("profile", a.Guest.Profile)))
	}
	if sp.log != nil {
		sp.log.Info("guest spawned",
			"name", name,
			"profile", a.Guest.Profile,
			"floor", site.Floor.Level,
			"destination", dest)
	}
	return a
}

// FirstAvailableRoom returns the available room whose anchor tile comes first
// in row-major order.
func FirstAvailableRoom(rooms []world.Room) (world.Room, bool) {
	var best world.Room
	found := false
	for _, r := range rooms {
		if r.Status != world.StatusAvailable {
			continue
		}
		if !found || anchorLess(r.Anchor(), best.Anchor()) {
			best = r
			found = true
		}
	}
	return best, found
}

func anchorLess(a, b world.Coord) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// DoorDestination returns the first unbuilt cell orthogonally next to a door
// of the room, scanning door tiles in row-major order. Returns fallback when
// no such cell exists.
func DoorDestination(f *world.Floor, room world.Room, fallback world.Coord) world.Coord {
	tiles := slices.Clone(room.Tiles)
	slices.SortFunc(tiles, func(a, b world.Coord) int {
		if a.Y != b.Y {
			return a.Y - b.Y
		}
		return a.X - b.X
	})

	for _, c := range tiles {
		if !f.Tile(c.X, c.Y).Has(world.FurnitureDoor) {
			continue
		}
		for _, n := range c.Neighbors4() {
			if f.InBounds(n.X, n.Y) && f.Tile(n.X, n.Y) == nil {
				return n
			}
		}
	}
	return fallback
}
