package ui

import "github.com/samdwyer/scavenger/internal/turn"

// HUD holds the level card shown between days and at game over.
type HUD struct {
	LevelText      string
	OverlayVisible bool
}

// SetLevelText implements turn.Display.
func (h *HUD) SetLevelText(text string) {
	h.LevelText = text
}

// SetOverlayVisible implements turn.Display.
func (h *HUD) SetOverlayVisible(visible bool) {
	h.OverlayVisible = visible
}

// Ensure HUD can be driven by the turn manager
var _ turn.Display = (*HUD)(nil)
