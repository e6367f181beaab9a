package gamedata

import (
	"time"

	"github.com/gdamore/tcell/v2"
)

// EnemyDef defines an enemy type loaded from JSON.
type EnemyDef struct {
	ID           string `json:"id"`           // Unique identifier (e.g., "zombie")
	Name         string `json:"name"`         // Display name (e.g., "Zombie")
	Glyph        string `json:"glyph"`        // Single character for rendering (e.g., "z")
	Color        string `json:"color"`        // Hex color code (e.g., "#00FF00")
	PlayerDamage int    `json:"playerDamage"` // Food the player loses when hit
	MoveTimeMs   int    `json:"moveTimeMs"`   // Pause after this enemy moves
	SpawnWeight  int    `json:"spawnWeight"`  // Relative spawn frequency (higher = more common)
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	return glyphRune(e.Glyph)
}

// TCellColor returns the color as a tcell.Color.
func (e *EnemyDef) TCellColor() tcell.Color {
	color, err := ParseHexColor(e.Color)
	if err != nil {
		return tcell.ColorWhite // fallback
	}
	return color
}

// MoveTime returns the pause after this enemy moves.
func (e *EnemyDef) MoveTime() time.Duration {
	return time.Duration(e.MoveTimeMs) * time.Millisecond
}

// Weight implements Weighted.
func (e *EnemyDef) Weight() int { return e.SpawnWeight }

// EnemiesFile represents the structure of enemies.json.
type EnemiesFile struct {
	Enemies []EnemyDef `json:"enemies"`
}

// LoadEnemies loads enemy definitions from the embedded enemies.json file.
func LoadEnemies() ([]EnemyDef, error) {
	file, err := Load[EnemiesFile]("enemies.json")
	if err != nil {
		return nil, err
	}
	return file.Enemies, nil
}

func glyphRune(glyph string) rune {
	for _, r := range glyph {
		return r
	}
	return '?'
}
