// Package game provides the main game loop and wires the turn manager to
// the board, the player and the screen.
package game

// Mode is what the game loop is doing around the turn manager.
type Mode int

const (
	// ModePlaying - levels are running normally.
	ModePlaying Mode = iota
	// ModeLevelComplete - the player reached the exit; the next day starts after a delay.
	ModeLevelComplete
	// ModeOver - the player starved. Only quitting is left.
	ModeOver
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModePlaying:
		return "playing"
	case ModeLevelComplete:
		return "level_complete"
	case ModeOver:
		return "over"
	default:
		return "unknown"
	}
}
