package gamedata

import "github.com/gdamore/tcell/v2"

// GuestDef defines a guest profile loaded from JSON.
type GuestDef struct {
	ID          string   `json:"id"`          // Unique identifier (e.g., "tourist")
	Name        string   `json:"name"`        // Profile display name (e.g., "Tourist")
	Glyph       string   `json:"glyph"`       // Single character for rendering (e.g., "G")
	Color       string   `json:"color"`       // Hex color code
	Preferences []string `json:"preferences"` // What the guest cares about
	SpawnWeight int      `json:"spawnWeight"` // Relative arrival frequency (higher = more common)
}

// GlyphRune returns the glyph as a rune for rendering.
func (g *GuestDef) GlyphRune() rune {
	return glyphRune(g.Glyph)
}

// TCellColor returns the color as a tcell.Color.
func (g *GuestDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(g.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// GuestsFile represents the structure of guests.json.
type GuestsFile struct {
	Guests []GuestDef `json:"guests"`
}

// LoadGuests loads guest profiles from the embedded guests.json file.
func LoadGuests() ([]GuestDef, error) {
	file, err := Load[GuestsFile]("guests.json")
	if err != nil {
		return nil, err
	}
	return file.Guests, nil
}
