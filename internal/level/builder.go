// Package level builds the board for each day and spawns its enemies.
package level

import (
	"context"
	"fmt"
	"math/bits"
	"math/rand"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/scavenger/internal/entity"
	"github.com/samdwyer/scavenger/internal/gamedata"
	"github.com/samdwyer/scavenger/internal/telemetry"
	"github.com/samdwyer/scavenger/internal/turn"
	"github.com/samdwyer/scavenger/internal/world"
)

// Registrar receives every spawned enemy.
type Registrar interface {
	AddEnemy(e turn.Mover)
}

// Builder lays out a level: walls, pickups, enemies, the exit and the player.
type Builder struct {
	def       gamedata.BoardDef
	enemies   *gamedata.EnemyRegistry
	pickups   *gamedata.PickupRegistry
	board     *world.Board
	player    *entity.Player
	registrar Registrar
	rng       *rand.Rand

	spawned []*entity.Enemy
}

// NewBuilder creates a builder that fills board and registers enemies with registrar.
func NewBuilder(def gamedata.BoardDef, enemies *gamedata.EnemyRegistry, pickups *gamedata.PickupRegistry,
	board *world.Board, player *entity.Player, rng *rand.Rand) *Builder {
	return &Builder{
		def:     def,
		enemies: enemies,
		pickups: pickups,
		board:   board,
		player:  player,
		rng:     rng,
	}
}

// SetRegistrar sets who spawned enemies report to. The turn manager needs
// the builder at construction, so this is wired afterwards.
func (b *Builder) SetRegistrar(r Registrar) {
	b.registrar = r
}

// EnemyCount returns how many enemies a level spawns: floor(log2(level)).
func EnemyCount(level int) int {
	if level < 1 {
		return 0
	}
	return bits.Len(uint(level)) - 1
}

// Start returns where the player enters each level.
func (b *Builder) Start() world.Point {
	return world.Point{X: 0, Y: b.def.Rows - 1}
}

// SetupScene implements turn.BoardBuilder.
func (b *Builder) SetupScene(ctx context.Context, level int) error {
	tracer := telemetry.Tracer("level")
	_, span := tracer.Start(ctx, "level.setup")
	defer span.End()

	b.board.Reset()
	b.spawned = nil

	if err := b.player.Enter(b.board, b.Start()); err != nil {
		return fmt.Errorf("placing player: %w", err)
	}

	cells := b.interiorCells()

	walls := b.randomIn(b.def.InnerWalls)
	for i := 0; i < walls && len(cells) > 0; i++ {
		var p world.Point
		p, cells = b.take(cells)
		if err := b.board.PlaceWall(p, b.def.WallHP); err != nil {
			return fmt.Errorf("placing wall: %w", err)
		}
	}

	pickups := b.randomIn(b.def.Pickups)
	for i := 0; i < pickups && len(cells) > 0; i++ {
		item := b.pickups.SpawnRandom(b.rng)
		if item == nil {
			break
		}
		var p world.Point
		p, cells = b.take(cells)
		if err := b.board.PlaceItem(p, item); err != nil {
			return fmt.Errorf("placing %s: %w", item.ID, err)
		}
	}

	count := EnemyCount(level)
	for i := 0; i < count && len(cells) > 0; i++ {
		def := b.enemies.SpawnRandom(b.rng)
		if def == nil {
			break
		}
		var p world.Point
		p, cells = b.take(cells)
		e, err := entity.NewEnemy(def, b.board, p, b.player)
		if err != nil {
			return fmt.Errorf("spawning %s: %w", def.ID, err)
		}
		b.spawned = append(b.spawned, e)
		if b.registrar != nil {
			b.registrar.AddEnemy(e)
		}
	}

	span.SetAttributes(
		attribute.Int("level", level),
		attribute.Int("walls", b.board.WallCount()),
		attribute.Int("pickups", b.board.ItemCount()),
		attribute.Int("enemies", len(b.spawned)),
	)
	return nil
}

// Enemies returns the enemies spawned for the current level.
func (b *Builder) Enemies() []*entity.Enemy {
	return b.spawned
}

// interiorCells lists the cells that may hold walls, pickups or enemies.
// The border row and column stay clear so the player always has a path
// from the start to the exit.
func (b *Builder) interiorCells() []world.Point {
	cells := make([]world.Point, 0, b.def.InteriorCells())
	for x := 1; x < b.def.Columns-1; x++ {
		for y := 1; y < b.def.Rows-1; y++ {
			cells = append(cells, world.Point{X: x, Y: y})
		}
	}
	return cells
}

// take removes a random cell from cells.
func (b *Builder) take(cells []world.Point) (world.Point, []world.Point) {
	i := b.rng.Intn(len(cells))
	p := cells[i]
	cells[i] = cells[len(cells)-1]
	return p, cells[:len(cells)-1]
}

func (b *Builder) randomIn(r gamedata.Range) int {
	return r.Min + b.rng.Intn(r.Max-r.Min+1)
}

// Ensure Builder can drive the turn manager
var _ turn.BoardBuilder = (*Builder)(nil)
