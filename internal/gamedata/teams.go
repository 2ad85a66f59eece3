package gamedata

import (
	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

// TeamDef defines how one side of the battle is presented.
type TeamDef struct {
	ID    string `yaml:"id"`    // "left" or "right"
	Name  string `yaml:"name"`  // Display name (e.g., "Red Team")
	Color string `yaml:"color"` // Hex color code (e.g., "#FF6B6B")
}

// RGB returns the team color, or white if the hex code is invalid.
func (t *TeamDef) RGB() colorful.Color {
	c, err := ParseHexColor(t.Color)
	if err != nil {
		return colorful.Color{R: 1, G: 1, B: 1}
	}
	return c
}

// TCellColor returns the team color for terminal cells.
func (t *TeamDef) TCellColor() tcell.Color {
	return toTCell(t.RGB())
}

// Team returns the team definition with the given ID, or nil if not found.
func (r *Rules) Team(id string) *TeamDef {
	for i := range r.Teams {
		if r.Teams[i].ID == id {
			return &r.Teams[i]
		}
	}
	return nil
}
