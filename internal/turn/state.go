// Package turn drives the turn loop of a level: setup, the player's move,
// and the enemies answering one after another.
package turn

import (
	"errors"
	"fmt"
)

// State is the single turn state of the controller.
type State int

const (
	// StateSetup - the board is being built and the level card is shown
	StateSetup State = iota
	// StatePlayerTurn - waiting for the player to act
	StatePlayerTurn
	// StateEnemyTurn - enemies are moving in registration order
	StateEnemyTurn
	// StateGameOver - terminal, nothing moves again
	StateGameOver
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateSetup:
		return "setup"
	case StatePlayerTurn:
		return "player_turn"
	case StateEnemyTurn:
		return "enemy_turn"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

var (
	// ErrInvalidTransition is returned when a state change is not in the table.
	ErrInvalidTransition = errors.New("invalid turn transition")
	// ErrNotPlayersTurn is returned when the player acts out of turn.
	ErrNotPlayersTurn = errors.New("not the player's turn")
	// ErrGameOver is returned for any request after the game has ended.
	ErrGameOver = errors.New("game is over")
)

// transitions lists every allowed state change. GameOver has no way out.
var transitions = map[State][]State{
	StateSetup:      {StateSetup, StatePlayerTurn, StateGameOver},
	StatePlayerTurn: {StateSetup, StateEnemyTurn, StateGameOver},
	StateEnemyTurn:  {StateSetup, StatePlayerTurn, StateGameOver},
	StateGameOver:   nil,
}

// CanTransition reports whether the controller may move from one state to another.
func CanTransition(from, to State) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func checkTransition(from, to State) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
