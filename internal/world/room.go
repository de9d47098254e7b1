package world

import (
	"encoding/binary"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// RoomStatus describes how usable a room is.
type RoomStatus int

const (
	// StatusIncomplete - missing a door, a bed, or both
	StatusIncomplete RoomStatus = iota
	// StatusAvailable - has at least one door and one bed
	StatusAvailable
	// StatusOccupied and StatusDirty are never produced by detection.
	// They are reserved for a guest check-in/housekeeping lifecycle.
	StatusOccupied
	StatusDirty
)

// String returns a human-readable status name.
func (s RoomStatus) String() string {
	switch s {
	case StatusIncomplete:
		return "incomplete"
	case StatusAvailable:
		return "available"
	case StatusOccupied:
		return "occupied"
	case StatusDirty:
		return "dirty"
	default:
		return "unknown"
	}
}

// Room is one maximal 4-connected group of standard room tiles on a floor.
// Rooms are derived data and carry no identity across detections.
type Room struct {
	Tiles   []Coord
	HasDoor bool
	HasBed  bool
	Status  RoomStatus
}

// Contains returns true if the given cell belongs to the room.
func (r Room) Contains(x, y int) bool {
	for _, c := range r.Tiles {
		if c.X == x && c.Y == y {
			return true
		}
	}
	return false
}

// Anchor returns the room's smallest tile in row-major order.
func (r Room) Anchor() Coord {
	if len(r.Tiles) == 0 {
		return Coord{-1, -1}
	}
	best := r.Tiles[0]
	for _, c := range r.Tiles[1:] {
		if c.Y < best.Y || (c.Y == best.Y && c.X < best.X) {
			best = c
		}
	}
	return best
}

func statusFor(hasDoor, hasBed bool) RoomStatus {
	if hasDoor && hasBed {
		return StatusAvailable
	}
	return StatusIncomplete
}

// DetectRooms partitions the floor's standard room tiles into connected rooms.
//
// The fill is iterative (explicit stack) so large floors cannot exhaust the
// goroutine stack. visited must be nil or hold Width*Height entries; it is
// cleared before use so callers may reuse one buffer across detections.
// Room order follows the scan and is not part of the contract.
func DetectRooms(f *Floor, visited []bool) []Room {
	size := f.Width * f.Height
	if len(visited) != size {
		visited = make([]bool, size)
	} else {
		clear(visited)
	}

	var rooms []Room
	var stack []Coord

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			if visited[y*f.Width+x] || !isRoomTile(f.Tile(x, y)) {
				continue
			}

			room := Room{}
			visited[y*f.Width+x] = true
			stack = append(stack[:0], Coord{x, y})

			for len(stack) > 0 {
				c := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				room.Tiles = append(room.Tiles, c)

				t := f.Tile(c.X, c.Y)
				for _, item := range t.Furniture {
					switch item.Kind {
					case FurnitureDoor:
						room.HasDoor = true
					case FurnitureBed:
						room.HasBed = true
					}
				}

				for _, n := range c.Neighbors4() {
					if !f.InBounds(n.X, n.Y) || visited[n.Y*f.Width+n.X] {
						continue
					}
					if !isRoomTile(f.Tile(n.X, n.Y)) {
						continue
					}
					visited[n.Y*f.Width+n.X] = true
					stack = append(stack, n)
				}
			}

			room.Status = statusFor(room.HasDoor, room.HasBed)
			rooms = append(rooms, room)
		}
	}

	return rooms
}

func isRoomTile(t *Tile) bool {
	return t != nil && t.Kind == KindStandardRoom
}

// Fingerprint returns a digest of the room list that depends only on room
// membership and status, not on room or tile order.
func Fingerprint(rooms []Room) uint64 {
	sums := make([]uint64, 0, len(rooms))
	buf := make([]byte, 8)
	for _, r := range rooms {
		tiles := slices.Clone(r.Tiles)
		slices.SortFunc(tiles, func(a, b Coord) int {
			if a.Y != b.Y {
				return a.Y - b.Y
			}
			return a.X - b.X
		})

		d := xxhash.New()
		binary.LittleEndian.PutUint64(buf, uint64(r.Status))
		d.Write(buf)
		for _, c := range tiles {
			binary.LittleEndian.PutUint32(buf[0:4], uint32(c.X))
			binary.LittleEndian.PutUint32(buf[4:8], uint32(c.Y))
			d.Write(buf)
		}
		sums = append(sums, d.Sum64())
	}
	slices.Sort(sums)

	d := xxhash.New()
	for _, s := range sums {
		binary.LittleEndian.PutUint64(buf, s)
		d.Write(buf)
	}
	return d.Sum64()
}
