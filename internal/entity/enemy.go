package entity

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/scavenger/internal/gamedata"
	"github.com/samdwyer/scavenger/internal/telemetry"
	"github.com/samdwyer/scavenger/internal/turn"
	"github.com/samdwyer/scavenger/internal/world"
)

// Enemy is a creature that shambles toward the player every other turn.
type Enemy struct {
	Def    *gamedata.EnemyDef // Reference to the enemy definition
	Name   string             // Enemy name (e.g., "Zombie")
	Symbol rune               // Display symbol
	Pos    world.Point        // Position on the board

	skipMove bool // Enemies rest every other turn
	board    *world.Board
	target   *Player
}

// NewEnemy creates an enemy from a data-driven definition and places it on the board.
func NewEnemy(def *gamedata.EnemyDef, board *world.Board, pos world.Point, target *Player) (*Enemy, error) {
	e := &Enemy{
		Def:    def,
		Name:   def.Name,
		Symbol: def.GlyphRune(),
		Pos:    pos,
		board:  board,
		target: target,
	}
	if err := board.Place(pos, e); err != nil {
		return nil, err
	}
	return e, nil
}

// GetName returns the enemy's name.
func (e *Enemy) GetName() string { return e.Name }

// Color returns the tcell color for this enemy.
func (e *Enemy) Color() tcell.Color {
	return e.Def.TCellColor()
}

// MoveTime returns how long the turn pauses after this enemy moves.
func (e *Enemy) MoveTime() time.Duration {
	return e.Def.MoveTime()
}

// Direction returns the single step this enemy wants to take: along the
// column when already lined up with the player, otherwise along the row.
func (e *Enemy) Direction() (dx, dy int) {
	if e.target == nil {
		return 0, 0
	}
	tp := e.target.Pos
	if tp.X == e.Pos.X {
		if tp.Y > e.Pos.Y {
			return 0, 1
		}
		return 0, -1
	}
	if tp.X > e.Pos.X {
		return 1, 0
	}
	return -1, 0
}

// MoveEnemy takes this enemy's turn. Every other call is skipped.
func (e *Enemy) MoveEnemy(ctx context.Context) {
	if e.skipMove {
		e.skipMove = false
		return
	}
	e.skipMove = true

	tracer := telemetry.Tracer("entity")
	ctx, span := tracer.Start(ctx, "enemy.move")
	defer span.End()

	dx, dy := e.Direction()
	next := e.Pos.Add(dx, dy)
	span.SetAttributes(
		attribute.String("enemy", e.Def.ID),
		attribute.Int("x", next.X),
		attribute.Int("y", next.Y),
	)

	if e.target != nil && e.board.OccupantAt(next) == world.Occupant(e.target) {
		lost := e.target.LoseFood(ctx, e.Def.PlayerDamage)
		span.SetAttributes(attribute.Int("damage", lost))
		return
	}

	if e.board.Blocked(next) {
		span.SetAttributes(attribute.Bool("blocked", true))
		return
	}
	if err := e.board.Relocate(e.Pos, next); err != nil {
		span.RecordError(err)
		return
	}
	e.Pos = next
}

// Ensure Enemy can be registered with the turn manager
var _ turn.Mover = (*Enemy)(nil)
