// Package economy validates and applies paid build actions against the grid.
package economy

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/samdwyer/innkeeper/internal/telemetry"
	"github.com/samdwyer/innkeeper/internal/world"
)

const (
	DefaultStartingBalance = 50000
	DefaultZoneUnitCost    = 100
	DefaultDoorCost        = 150
	DefaultBedCost         = 400
)

// Reason explains why a transaction was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonInsufficientFunds
	ReasonNoTile
	ReasonOutOfBounds
	ReasonUnknownKind
)

// String returns a human-readable reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonInsufficientFunds:
		return "insufficient_funds"
	case ReasonNoTile:
		return "no_tile"
	case ReasonOutOfBounds:
		return "out_of_bounds"
	case ReasonUnknownKind:
		return "unknown_kind"
	default:
		return "unknown"
	}
}

// Result is the outcome of a transaction. A rejected transaction changed nothing.
type Result struct {
	Applied bool
	Reason  Reason // ReasonNone when applied
	Cost    int    // Amount charged, or the amount that would have been charged
	Tiles   int    // Cells built by a zoning transaction
}

func rejected(reason Reason, cost int) Result {
	return Result{Reason: reason, Cost: cost}
}

// Prices holds the cost table for build actions.
type Prices struct {
	ZoneUnitCost int
	Furniture    map[world.FurnitureKind]int
}

// DefaultPrices returns the stock cost table.
func DefaultPrices() Prices {
	return Prices{
		ZoneUnitCost: DefaultZoneUnitCost,
		Furniture: map[world.FurnitureKind]int{
			world.FurnitureDoor: DefaultDoorCost,
			world.FurnitureBed:  DefaultBedCost,
		},
	}
}

// ZoneCost returns the price of zoning a rectangle. Every cell of the
// rectangle is charged, including cells that end up skipped.
func (p Prices) ZoneCost(r world.Rect) int {
	return r.Area() * p.ZoneUnitCost
}

// Ledger owns the balance and applies transactions to a grid.
type Ledger struct {
	balance int
	prices  Prices

	transactions metric.Int64Counter
}

// NewLedger creates a ledger with the given opening balance.
func NewLedger(balance int, prices Prices) *Ledger {
	l := &Ledger{
		balance: balance,
		prices:  prices,
	}
	counter, err := telemetry.Meter("economy").Int64Counter("innkeeper.economy.transactions",
		metric.WithDescription("Build transactions by kind and outcome"))
	if err == nil {
		l.transactions = counter
	}
	return l
}

// Balance returns the current balance.
func (l *Ledger) Balance() int {
	return l.balance
}

// Prices returns the ledger's cost table.
func (l *Ledger) Prices() Prices {
	return l.prices
}

// CanAfford returns true if the balance covers the cost.
func (l *Ledger) CanAfford(cost int) bool {
	return l.balance >= cost
}

// ZoneRoom converts every empty in-bounds cell of the rectangle into a standard
// room tile. Built and out-of-bounds cells are skipped. The whole rectangle is
// charged up front; nothing changes if the balance cannot cover it. Corners
// may be given in any order.
func (l *Ledger) ZoneRoom(ctx context.Context, g *world.Grid, level int, rect world.Rect) Result {
	tracer := telemetry.Tracer("economy")
	ctx, span := tracer.Start(ctx, "economy.zone_room")
	defer span.End()

	rect = world.RectFromCorners(rect.Min, rect.Max)
	cost := l.prices.ZoneCost(rect)
	span.SetAttributes(
		attribute.Int("floor", level),
		attribute.Int("rect.width", rect.Width()),
		attribute.Int("rect.height", rect.Height()),
		attribute.Int("cost", cost),
	)

	result := l.zoneRoom(g, level, rect, cost)
	l.record(ctx, "zone_room", result)
	span.SetAttributes(
		attribute.Bool("applied", result.Applied),
		attribute.String("reason", result.Reason.String()),
		attribute.Int("tiles", result.Tiles),
	)
	return result
}

func (l *Ledger) zoneRoom(g *world.Grid, level int, rect world.Rect, cost int) Result {
	f := g.Floor(level)
	if f == nil || !overlaps(f, rect) {
		return rejected(ReasonOutOfBounds, cost)
	}
	if !l.CanAfford(cost) {
		return rejected(ReasonInsufficientFunds, cost)
	}

	l.balance -= cost
	built := 0
	for y := rect.Min.Y; y <= rect.Max.Y; y++ {
		for x := rect.Min.X; x <= rect.Max.X; x++ {
			if g.SetTile(level, x, y, world.NewTile(world.KindStandardRoom)) {
				built++
			}
		}
	}
	return Result{Applied: true, Cost: cost, Tiles: built}
}

// overlaps returns true if at least one cell of the rectangle is on the floor.
func overlaps(f *world.Floor, r world.Rect) bool {
	return r.Max.X >= 0 && r.Max.Y >= 0 && r.Min.X < f.Width && r.Min.Y < f.Height
}

// PlaceFurniture appends a furniture item to the tile at (x, y).
func (l *Ledger) PlaceFurniture(ctx context.Context, g *world.Grid, level, x, y int, kind world.FurnitureKind) Result {
	tracer := telemetry.Tracer("economy")
	ctx, span := tracer.Start(ctx, "economy.place_furniture")
	defer span.End()

	span.SetAttributes(
		attribute.Int("floor", level),
		attribute.Int("x", x),
		attribute.Int("y", y),
		attribute.String("kind", string(kind)),
	)

	result := l.placeFurniture(g, level, x, y, kind)
	l.record(ctx, "place_furniture", result)
	span.SetAttributes(
		attribute.Bool("applied", result.Applied),
		attribute.String("reason", result.Reason.String()),
		attribute.Int("cost", result.Cost),
	)
	return result
}

func (l *Ledger) placeFurniture(g *world.Grid, level, x, y int, kind world.FurnitureKind) Result {
	cost, ok := l.prices.Furniture[kind]
	if !ok {
		return rejected(ReasonUnknownKind, 0)
	}
	if g.Tile(level, x, y) == nil {
		return rejected(ReasonNoTile, cost)
	}
	if !l.CanAfford(cost) {
		return rejected(ReasonInsufficientFunds, cost)
	}

	l.balance -= cost
	g.AppendFurniture(level, x, y, kind)
	return Result{Applied: true, Cost: cost}
}

func (l *Ledger) record(ctx context.Context, kind string, r Result) {
	if l.transactions == nil {
		return
	}
	l.transactions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("kind", kind),
		attribute.Bool("applied", r.Applied),
		attribute.String("reason", r.Reason.String()),
	))
}
