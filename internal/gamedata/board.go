package gamedata

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// BoardDef holds the layout rules used to build every level.
type BoardDef struct {
	Columns      int   `json:"columns"`      // Playable width
	Rows         int   `json:"rows"`         // Playable height
	InnerWalls   Range `json:"innerWalls"`   // Destructible walls per level
	Pickups      Range `json:"pickups"`      // Food and soda per level
	WallHP       int   `json:"wallHP"`       // Chops needed to clear a wall
	WallDamage   int   `json:"wallDamage"`   // Damage dealt per chop
	FoodPerStep  int   `json:"foodPerStep"`  // Food spent on every move attempt
	StartingFood int   `json:"startingFood"` // Food at the start of a run
}

// Validate checks that the layout can actually be built.
func (b *BoardDef) Validate() error {
	if b.Columns < 3 || b.Rows < 3 {
		return fmt.Errorf("board must be at least 3x3, got %dx%d", b.Columns, b.Rows)
	}
	if b.InnerWalls.Min < 0 || b.InnerWalls.Max < b.InnerWalls.Min {
		return fmt.Errorf("invalid innerWalls range %d..%d", b.InnerWalls.Min, b.InnerWalls.Max)
	}
	if b.Pickups.Min < 0 || b.Pickups.Max < b.Pickups.Min {
		return fmt.Errorf("invalid pickups range %d..%d", b.Pickups.Min, b.Pickups.Max)
	}
	if b.WallHP <= 0 {
		return fmt.Errorf("wallHP must be positive, got %d", b.WallHP)
	}
	return nil
}

// InteriorCells returns how many cells are available for walls, pickups
// and enemies: the playable area minus its border row and column.
func (b *BoardDef) InteriorCells() int {
	return (b.Columns - 2) * (b.Rows - 2)
}

// PickupDef defines something the player can eat.
type PickupDef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Glyph       string `json:"glyph"`
	Color       string `json:"color"`
	Points      int    `json:"points"` // Food restored when eaten
	SpawnWeight int    `json:"spawnWeight"`
}

// GlyphRune returns the glyph as a rune for rendering.
func (p *PickupDef) GlyphRune() rune {
	return glyphRune(p.Glyph)
}

// TCellColor returns the color as a tcell.Color.
func (p *PickupDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(p.Color)
	if err != nil {
		return tcell.ColorWhite
	}
	return color
}

// Weight implements Weighted.
func (p *PickupDef) Weight() int { return p.SpawnWeight }

// BoardFile represents the structure of board.json.
type BoardFile struct {
	Board   BoardDef    `json:"board"`
	Pickups []PickupDef `json:"pickups"`
}

// LoadBoard loads and validates the embedded board.json file.
func LoadBoard() (*BoardFile, error) {
	file, err := Load[BoardFile]("board.json")
	if err != nil {
		return nil, err
	}
	if err := file.Board.Validate(); err != nil {
		return nil, fmt.Errorf("board.json: %w", err)
	}
	return &file, nil
}
