package gamedata

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/innkeeper/internal/world"
)

// FurnitureDef defines a placeable furniture kind loaded from JSON.
type FurnitureDef struct {
	Kind  world.FurnitureKind `json:"kind"`  // Matches world.FurnitureKind (e.g., "bed")
	Name  string              `json:"name"`  // Display name (e.g., "Bed")
	Glyph string              `json:"glyph"` // Single character for rendering (e.g., "=")
	Color string              `json:"color"` // Hex color code (e.g., "#6FA8DC")
	Cost  int                 `json:"cost"`  // Price charged per placement
}

// GlyphRune returns the glyph as a rune for rendering.
func (f *FurnitureDef) GlyphRune() rune {
	return glyphRune(f.Glyph)
}

// TCellColor returns the color as a tcell.Color.
func (f *FurnitureDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(f.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// FurnitureFile represents the structure of furniture.json.
type FurnitureFile struct {
	Furniture []FurnitureDef `json:"furniture"`
}

// LoadFurniture loads furniture definitions from the embedded furniture.json file.
func LoadFurniture() ([]FurnitureDef, error) {
	file, err := Load[FurnitureFile]("furniture.json")
	if err != nil {
		return nil, err
	}
	return file.Furniture, nil
}

func glyphRune(s string) rune {
	for _, r := range s {
		return r
	}
	return '?'
}
