// Package sim provides the facility simulation state and its frame tick.
package sim

// BuildMode selects what a pointer press does.
type BuildMode int

const (
	// ModeNone - pointer input does nothing
	ModeNone BuildMode = iota
	// ModeZoneRoom - drag a rectangle to zone standard room tiles
	ModeZoneRoom
	// ModePlaceDoor - press a tile to place a door
	ModePlaceDoor
	// ModePlaceBed - press a tile to place a bed
	ModePlaceBed
)

// String returns a human-readable mode name.
func (m BuildMode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeZoneRoom:
		return "zone_room"
	case ModePlaceDoor:
		return "place_door"
	case ModePlaceBed:
		return "place_bed"
	default:
		return "unknown"
	}
}
