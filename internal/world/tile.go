// Package world provides the multi-floor tile grid and room detection.
package world

// TileKind identifies what a built tile is zoned as.
type TileKind string

const (
	// KindStandardRoom is the only zoning currently available.
	KindStandardRoom TileKind = "standard_room"
)

// FurnitureKind identifies a placeable furniture item.
type FurnitureKind string

const (
	FurnitureDoor FurnitureKind = "door"
	FurnitureBed  FurnitureKind = "bed"
)

// FurnitureItem is a piece of furniture placed on a tile.
// X and Y always equal the coordinates of the tile that owns it.
type FurnitureItem struct {
	Kind FurnitureKind
	X, Y int
}

// Tile is a built cell. An unbuilt cell has no Tile at all.
type Tile struct {
	Kind      TileKind
	Furniture []FurnitureItem // Append-only, in placement order
}

// NewTile creates an empty tile of the given kind.
func NewTile(kind TileKind) *Tile {
	return &Tile{Kind: kind}
}

// Has returns true if the tile holds at least one item of the given kind.
func (t *Tile) Has(kind FurnitureKind) bool {
	if t == nil {
		return false
	}
	for _, item := range t.Furniture {
		if item.Kind == kind {
			return true
		}
	}
	return false
}

// IsPassable returns true if agents may walk through the cell.
// Built tiles are obstacles; agents move through open floor space.
func (t *Tile) IsPassable() bool {
	return t == nil
}

// Coord is an integer cell position on a floor.
type Coord struct {
	X, Y int
}

// Neighbors4 returns the orthogonal neighbors of c in N, E, S, W order.
func (c Coord) Neighbors4() [4]Coord {
	return [4]Coord{
		{c.X, c.Y - 1},
		{c.X + 1, c.Y},
		{c.X, c.Y + 1},
		{c.X - 1, c.Y},
	}
}

// Rect is an inclusive rectangle of cells.
type Rect struct {
	Min, Max Coord
}

// RectFromCorners builds a rectangle from two opposite corners given in any order.
func RectFromCorners(a, b Coord) Rect {
	r := Rect{Min: a, Max: b}
	if r.Min.X > r.Max.X {
		r.Min.X, r.Max.X = r.Max.X, r.Min.X
	}
	if r.Min.Y > r.Max.Y {
		r.Min.Y, r.Max.Y = r.Max.Y, r.Min.Y
	}
	return r
}

// Width returns the number of columns covered.
func (r Rect) Width() int {
	return r.Max.X - r.Min.X + 1
}

// Height returns the number of rows covered.
func (r Rect) Height() int {
	return r.Max.Y - r.Min.Y + 1
}

// Area returns the number of cells covered.
func (r Rect) Area() int {
	return r.Width() * r.Height()
}

// Contains returns true if the cell lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.Min.X && x <= r.Max.X && y >= r.Min.Y && y <= r.Max.Y
}
