package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"
)

// buildFloor zones every cell marked '#', 'D' (door) or 'B' (bed) in the layout.
func buildFloor(t *testing.T, layout []string) *Floor {
	t.Helper()
	g := NewGrid(1, len(layout[0]), len(layout))
	for y, row := range layout {
		for x, ch := range row {
			if ch == '.' {
				continue
			}
			require.True(t, g.SetTile(0, x, y, NewTile(KindStandardRoom)))
			switch ch {
			case 'D':
				g.AppendFurniture(0, x, y, FurnitureDoor)
			case 'B':
				g.AppendFurniture(0, x, y, FurnitureBed)
			}
		}
	}
	return g.Floor(0)
}

// requirePartition checks that rooms cover every room tile exactly once.
func requirePartition(t *testing.T, f *Floor, rooms []Room) {
	t.Helper()
	seen := mapset.New[Coord]()
	for _, r := range rooms {
		require.NotEmpty(t, r.Tiles)
		for _, c := range r.Tiles {
			require.False(t, seen.Has(c), "tile %v appears in more than one room", c)
			seen.Put(c)
			require.NotNil(t, f.Tile(c.X, c.Y), "room contains unbuilt cell %v", c)
		}
	}
	require.Equal(t, f.BuiltCount(), seen.Size())
}

func TestDetectRoomsEmptyFloor(t *testing.T) {
	f := NewFloor(0, 10, 10)
	assert.Empty(t, DetectRooms(f, nil))
}

func TestDetectRoomsComponents(t *testing.T) {
	f := buildFloor(t, []string{
		"##...#",
		"##...#",
		"......",
		".#.#..",
		".#.##.",
	})

	rooms := DetectRooms(f, nil)
	requirePartition(t, f, rooms)

	sizes := map[int]int{}
	for _, r := range rooms {
		sizes[len(r.Tiles)]++
	}
	// 2x2 block, right column, left L of two, right L of three.
	assert.Equal(t, map[int]int{4: 1, 2: 2, 3: 1}, sizes)
}

func TestDetectRoomsDiagonalIsNotConnected(t *testing.T) {
	f := buildFloor(t, []string{
		"#.",
		".#",
	})
	rooms := DetectRooms(f, nil)
	assert.Len(t, rooms, 2)
}

func TestDetectRoomsStatus(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
		want   RoomStatus
		door   bool
		bed    bool
	}{
		{"bare", []string{"###"}, StatusIncomplete, false, false},
		{"door only", []string{"D##"}, StatusIncomplete, true, false},
		{"bed only", []string{"##B"}, StatusIncomplete, false, true},
		{"door and bed apart", []string{"D#B"}, StatusAvailable, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rooms := DetectRooms(buildFloor(t, tt.layout), nil)
			require.Len(t, rooms, 1)
			assert.Equal(t, tt.want, rooms[0].Status)
			assert.Equal(t, tt.door, rooms[0].HasDoor)
			assert.Equal(t, tt.bed, rooms[0].HasBed)
		})
	}
}

func TestDetectRoomsFurnitureDoesNotLeakAcrossRooms(t *testing.T) {
	f := buildFloor(t, []string{
		"D.B",
	})
	for _, r := range DetectRooms(f, nil) {
		assert.Equal(t, StatusIncomplete, r.Status)
	}
}

func TestDetectRoomsLargeSingleRoom(t *testing.T) {
	g := NewGrid(1, 200, 200)
	for y := 0; y < 200; y++ {
		for x := 0; x < 200; x++ {
			g.SetTile(0, x, y, NewTile(KindStandardRoom))
		}
	}
	rooms := DetectRooms(g.Floor(0), nil)
	require.Len(t, rooms, 1)
	assert.Len(t, rooms[0].Tiles, 200*200)
}

func TestDetectRoomsRandomPartition(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	visited := make([]bool, 30*20)

	for i := 0; i < 25; i++ {
		g := NewGrid(1, 30, 20)
		for y := 0; y < 20; y++ {
			for x := 0; x < 30; x++ {
				if rng.Intn(2) == 0 {
					g.SetTile(0, x, y, NewTile(KindStandardRoom))
					if rng.Intn(10) == 0 {
						g.AppendFurniture(0, x, y, FurnitureDoor)
					}
					if rng.Intn(10) == 0 {
						g.AppendFurniture(0, x, y, FurnitureBed)
					}
				}
			}
		}
		f := g.Floor(0)
		rooms := DetectRooms(f, visited)
		requirePartition(t, f, rooms)

		for _, r := range rooms {
			var door, bed bool
			for _, c := range r.Tiles {
				door = door || f.Tile(c.X, c.Y).Has(FurnitureDoor)
				bed = bed || f.Tile(c.X, c.Y).Has(FurnitureBed)
			}
			assert.Equal(t, door && bed, r.Status == StatusAvailable)
		}
	}
}

func TestDetectRoomsIdempotent(t *testing.T) {
	f := buildFloor(t, []string{
		"D#..B#",
		"##..##",
		"......",
		"###B##",
	})

	first := DetectRooms(f, nil)
	second := DetectRooms(f, nil)
	assert.Equal(t, Fingerprint(first), Fingerprint(second))
}

func TestFingerprintIgnoresOrder(t *testing.T) {
	a := Room{Tiles: []Coord{{0, 0}, {1, 0}}, Status: StatusIncomplete}
	b := Room{Tiles: []Coord{{5, 5}}, Status: StatusAvailable}
	aShuffled := Room{Tiles: []Coord{{1, 0}, {0, 0}}, Status: StatusIncomplete}

	assert.Equal(t, Fingerprint([]Room{a, b}), Fingerprint([]Room{b, aShuffled}))

	bChanged := b
	bChanged.Status = StatusIncomplete
	assert.NotEqual(t, Fingerprint([]Room{a, b}), Fingerprint([]Room{a, bChanged}))
}

func TestRoomStatusString(t *testing.T) {
	tests := []struct {
		status   RoomStatus
		expected string
	}{
		{StatusIncomplete, "incomplete"},
		{StatusAvailable, "available"},
		{StatusOccupied, "occupied"},
		{StatusDirty, "dirty"},
		{RoomStatus(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.expected {
			t.Errorf("RoomStatus(%d).String() = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestRoomAnchor(t *testing.T) {
	r := Room{Tiles: []Coord{{3, 2}, {1, 2}, {4, 1}}}
	if got := r.Anchor(); got != (Coord{4, 1}) {
		t.Errorf("Anchor() = %v, want (4,1)", got)
	}
	if got := (Room{}).Anchor(); got != (Coord{-1, -1}) {
		t.Errorf("empty Anchor() = %v, want (-1,-1)", got)
	}
}
