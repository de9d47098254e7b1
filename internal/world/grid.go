package world

const (
	// Default map dimensions
	DefaultFloors = 3
	DefaultWidth  = 25
	DefaultHeight = 18
)

// Floor is one level of the facility: a fixed-size array of optional tiles.
type Floor struct {
	Level  int
	Width  int
	Height int
	tiles  []*Tile // Row-major, nil means unbuilt
}

// NewFloor creates an empty floor.
func NewFloor(level, width, height int) *Floor {
	return &Floor{
		Level:  level,
		Width:  width,
		Height: height,
		tiles:  make([]*Tile, width*height),
	}
}

// InBounds returns true if the cell lies on the floor.
func (f *Floor) InBounds(x, y int) bool {
	return x >= 0 && x < f.Width && y >= 0 && y < f.Height
}

// Tile returns the tile at the given position, or nil if unbuilt or out of bounds.
func (f *Floor) Tile(x, y int) *Tile {
	if !f.InBounds(x, y) {
		return nil
	}
	return f.tiles[y*f.Width+x]
}

// IsPassable returns true if the given position is on the floor and unbuilt.
func (f *Floor) IsPassable(x, y int) bool {
	return f.InBounds(x, y) && f.tiles[y*f.Width+x].IsPassable()
}

// setTile stores a tile in an empty, in-bounds cell.
func (f *Floor) setTile(x, y int, t *Tile) bool {
	if t == nil || !f.InBounds(x, y) || f.tiles[y*f.Width+x] != nil {
		return false
	}
	f.tiles[y*f.Width+x] = t
	return true
}

// BuiltCount returns the number of built tiles on the floor.
func (f *Floor) BuiltCount() int {
	n := 0
	for _, t := range f.tiles {
		if t != nil {
			n++
		}
	}
	return n
}

// Furniture returns every furniture item on the floor in row-major tile order.
func (f *Floor) Furniture() []FurnitureItem {
	var items []FurnitureItem
	for _, t := range f.tiles {
		if t != nil {
			items = append(items, t.Furniture...)
		}
	}
	return items
}

// Grid holds every floor of the facility. Floors never share tiles.
type Grid struct {
	Width  int
	Height int
	floors []*Floor
}

// NewGrid creates a grid of empty floors.
func NewGrid(floors, width, height int) *Grid {
	g := &Grid{
		Width:  width,
		Height: height,
		floors: make([]*Floor, floors),
	}
	for i := range g.floors {
		g.floors[i] = NewFloor(i, width, height)
	}
	return g
}

// FloorCount returns the number of floors.
func (g *Grid) FloorCount() int {
	return len(g.floors)
}

// Floors returns every floor in level order.
func (g *Grid) Floors() []*Floor {
	return g.floors
}

// Floor returns the floor at the given level, or nil if there is none.
func (g *Grid) Floor(level int) *Floor {
	if level < 0 || level >= len(g.floors) {
		return nil
	}
	return g.floors[level]
}

// InBounds returns true if the cell exists on the given floor.
func (g *Grid) InBounds(level, x, y int) bool {
	f := g.Floor(level)
	return f != nil && f.InBounds(x, y)
}

// Tile returns the tile at the given position, or nil if unbuilt or out of bounds.
func (g *Grid) Tile(level, x, y int) *Tile {
	f := g.Floor(level)
	if f == nil {
		return nil
	}
	return f.Tile(x, y)
}

// SetTile stores a tile at the given position.
// Returns false if the cell is out of bounds or already built.
func (g *Grid) SetTile(level, x, y int, t *Tile) bool {
	f := g.Floor(level)
	if f == nil {
		return false
	}
	return f.setTile(x, y, t)
}

// AppendFurniture adds a furniture item to an existing tile.
// The item's coordinates are taken from the cell. Returns false if there is no tile.
func (g *Grid) AppendFurniture(level, x, y int, kind FurnitureKind) bool {
	t := g.Tile(level, x, y)
	if t == nil {
		return false
	}
	t.Furniture = append(t.Furniture, FurnitureItem{Kind: kind, X: x, Y: y})
	return true
}
