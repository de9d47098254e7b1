package world

import "testing"

func TestGridTileOutOfBounds(t *testing.T) {
	g := NewGrid(2, 5, 4)

	tests := []struct {
		name        string
		floor, x, y int
	}{
		{"negative x", 0, -1, 0},
		{"negative y", 0, 0, -1},
		{"x past width", 0, 5, 0},
		{"y past height", 1, 0, 4},
		{"unknown floor", 2, 0, 0},
		{"negative floor", -1, 0, 0},
	}

	for _, tt := range tests {
		if got := g.Tile(tt.floor, tt.x, tt.y); got != nil {
			t.Errorf("%s: Tile(%d,%d,%d) = %v, want nil", tt.name, tt.floor, tt.x, tt.y, got)
		}
		if g.SetTile(tt.floor, tt.x, tt.y, NewTile(KindStandardRoom)) {
			t.Errorf("%s: SetTile(%d,%d,%d) succeeded, want rejection", tt.name, tt.floor, tt.x, tt.y)
		}
	}
}

func TestGridSetTileDoesNotOverwrite(t *testing.T) {
	g := NewGrid(1, 5, 5)

	first := NewTile(KindStandardRoom)
	if !g.SetTile(0, 2, 3, first) {
		t.Fatal("SetTile on empty cell should succeed")
	}
	if g.SetTile(0, 2, 3, NewTile(KindStandardRoom)) {
		t.Error("SetTile on built cell should fail")
	}
	if g.Tile(0, 2, 3) != first {
		t.Error("existing tile was replaced")
	}
	if g.SetTile(0, 1, 1, nil) {
		t.Error("SetTile with nil tile should fail")
	}
}

func TestGridFloorsAreIndependent(t *testing.T) {
	g := NewGrid(3, 4, 4)
	g.SetTile(1, 0, 0, NewTile(KindStandardRoom))

	if g.Tile(0, 0, 0) != nil || g.Tile(2, 0, 0) != nil {
		t.Error("tile leaked to another floor")
	}
	if got := g.Floor(1).BuiltCount(); got != 1 {
		t.Errorf("Floor(1).BuiltCount() = %d, want 1", got)
	}
}

func TestAppendFurniture(t *testing.T) {
	g := NewGrid(1, 5, 5)

	if g.AppendFurniture(0, 1, 1, FurnitureBed) {
		t.Error("AppendFurniture on unbuilt cell should fail")
	}

	g.SetTile(0, 1, 1, NewTile(KindStandardRoom))
	if !g.AppendFurniture(0, 1, 1, FurnitureDoor) {
		t.Fatal("AppendFurniture on built cell should succeed")
	}
	g.AppendFurniture(0, 1, 1, FurnitureBed)

	tile := g.Tile(0, 1, 1)
	if len(tile.Furniture) != 2 {
		t.Fatalf("furniture count = %d, want 2", len(tile.Furniture))
	}
	if tile.Furniture[0].Kind != FurnitureDoor || tile.Furniture[1].Kind != FurnitureBed {
		t.Errorf("furniture order = %v, want door then bed", tile.Furniture)
	}
	for _, item := range tile.Furniture {
		if item.X != 1 || item.Y != 1 {
			t.Errorf("item at (%d,%d), want tile coordinates (1,1)", item.X, item.Y)
		}
	}
	if got := g.Floor(0).Furniture(); len(got) != 2 {
		t.Errorf("Floor.Furniture() length = %d, want 2", len(got))
	}
}

func TestRectFromCorners(t *testing.T) {
	r := RectFromCorners(Coord{4, 1}, Coord{2, 3})

	if r.Min != (Coord{2, 1}) || r.Max != (Coord{4, 3}) {
		t.Errorf("RectFromCorners = %+v, want min (2,1) max (4,3)", r)
	}
	if r.Width() != 3 || r.Height() != 3 || r.Area() != 9 {
		t.Errorf("dimensions = %dx%d area %d, want 3x3 area 9", r.Width(), r.Height(), r.Area())
	}
	if !r.Contains(3, 2) || r.Contains(5, 2) {
		t.Error("Contains returned wrong result")
	}
}

func TestTilePassable(t *testing.T) {
	var unbuilt *Tile
	if !unbuilt.IsPassable() {
		t.Error("unbuilt cell should be passable")
	}
	if NewTile(KindStandardRoom).IsPassable() {
		t.Error("built tile should not be passable")
	}

	f := NewFloor(0, 3, 3)
	if f.IsPassable(-1, 0) {
		t.Error("out-of-bounds cell should not be passable")
	}
}

func TestGridFloorsInLevelOrder(t *testing.T) {
	g := NewGrid(3, 2, 2)

	floors := g.Floors()
	if len(floors) != 3 {
		t.Fatalf("len(Floors()) = %d, want 3", len(floors))
	}
	for i, f := range floors {
		if f.Level != i {
			t.Errorf("Floors()[%d].Level = %d, want %d", i, f.Level, i)
		}
		if f != g.Floor(i) {
			t.Errorf("Floors()[%d] is not Floor(%d)", i, i)
		}
	}
}
