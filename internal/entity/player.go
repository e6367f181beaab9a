// Package entity provides the player and the enemies that hunt it.
package entity

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/scavenger/internal/combat"
	"github.com/samdwyer/scavenger/internal/gamedata"
	"github.com/samdwyer/scavenger/internal/telemetry"
	"github.com/samdwyer/scavenger/internal/world"
)

// ErrNotOnBoard is returned when the player moves before being placed.
var ErrNotOnBoard = errors.New("player is not on a board")

// Rules holds the player's per-move costs.
type Rules struct {
	WallDamage  int // Damage dealt to a wall per chop
	FoodPerStep int // Food spent on every move attempt
}

// MoveResult describes what a move attempt did.
type MoveResult struct {
	Moved       bool
	ChoppedWall bool
	WallCleared bool
	Blocked     bool
	Ate         *gamedata.PickupDef
	ReachedExit bool
	Message     string
}

// Player is the scavenger. Food is both its hit points and its clock.
type Player struct {
	Name   string
	Symbol rune
	Pos    world.Point
	Food   int

	rules    Rules
	board    *world.Board
	resolver *combat.Resolver
	starved  bool

	// OnStarved is called once, the first time food runs out.
	OnStarved func(ctx context.Context)
	// OnHit is called with a short message whenever a hit costs food.
	OnHit func(ctx context.Context, message string)
}

// NewPlayer creates a player carrying the given food.
func NewPlayer(food int, rules Rules, resolver *combat.Resolver) *Player {
	if resolver == nil {
		resolver = combat.NewResolver()
	}
	return &Player{
		Name:     "Scavenger",
		Symbol:   '@',
		Food:     food,
		rules:    rules,
		resolver: resolver,
	}
}

// Enter places the player on a freshly built board. Food carries over.
func (p *Player) Enter(board *world.Board, pos world.Point) error {
	if err := board.Place(pos, p); err != nil {
		return err
	}
	p.board = board
	p.Pos = pos
	return nil
}

// AttemptMove tries to step by (dx, dy). Every attempt costs food: walls in
// the way get chopped, other blockers just waste the step.
func (p *Player) AttemptMove(ctx context.Context, dx, dy int) (MoveResult, error) {
	if p.board == nil {
		return MoveResult{}, ErrNotOnBoard
	}

	tracer := telemetry.Tracer("entity")
	ctx, span := tracer.Start(ctx, "player.move")
	defer span.End()

	p.spendFood(p.rules.FoodPerStep)

	var result MoveResult
	target := p.Pos.Add(dx, dy)

	switch {
	case p.board.WallAt(target) != nil:
		strike := p.resolver.Strike(p.Name, p.board.WallAt(target), p.rules.WallDamage)
		result.ChoppedWall = strike.Success
		result.WallCleared = strike.Destroyed
		result.Message = strike.Message
		if strike.Destroyed {
			p.board.ClearWall(target)
		}
	case p.board.Blocked(target):
		result.Blocked = true
	default:
		if err := p.board.Relocate(p.Pos, target); err != nil {
			return result, err
		}
		p.Pos = target
		result.Moved = true

		if item := p.board.TakeItem(target); item != nil {
			p.Food += item.Points
			result.Ate = item
			result.Message = fmt.Sprintf("+%d %s", item.Points, item.Name)
		}
		result.ReachedExit = target == p.board.Exit()
	}

	span.SetAttributes(
		attribute.Int("dx", dx),
		attribute.Int("dy", dy),
		attribute.Bool("moved", result.Moved),
		attribute.Bool("chopped_wall", result.ChoppedWall),
		attribute.Bool("reached_exit", result.ReachedExit),
		attribute.Int("food", p.Food),
	)

	p.CheckIfGameOver(ctx)
	return result, nil
}

// LoseFood takes food from the player, e.g. when an enemy hits it.
func (p *Player) LoseFood(ctx context.Context, amount int) int {
	lost := p.TakeDamage(amount)
	if lost > 0 && p.OnHit != nil {
		p.OnHit(ctx, fmt.Sprintf("-%d Food", lost))
	}
	p.CheckIfGameOver(ctx)
	return lost
}

// CheckIfGameOver fires OnStarved the first time food runs out.
func (p *Player) CheckIfGameOver(ctx context.Context) {
	if p.Food > 0 || p.starved {
		return
	}
	p.starved = true
	if p.OnStarved != nil {
		p.OnStarved(ctx)
	}
}

// Starved returns true once the player has run out of food.
func (p *Player) Starved() bool {
	return p.starved
}

func (p *Player) spendFood(amount int) {
	p.TakeDamage(amount)
}

// =============================================================================
// combat.Damageable implementation
// =============================================================================

// GetName returns the player's name.
func (p *Player) GetName() string { return p.Name }

// IsAlive returns true while the player has food.
func (p *Player) IsAlive() bool { return p.Food > 0 }

// TakeDamage reduces food and returns the actual amount lost.
func (p *Player) TakeDamage(amount int) int {
	if amount <= 0 {
		return 0
	}
	actual := amount
	if actual > p.Food {
		actual = p.Food
	}
	p.Food -= actual
	return actual
}

// Ensure Player implements combat.Damageable
var _ combat.Damageable = (*Player)(nil)
