package turn

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/scavenger/internal/telemetry"
)

// movementStep is where the enemy sequence currently is.
type movementStep int

const (
	stepIdle movementStep = iota
	stepOpeningDelay
	stepEmptyDelay
	stepMove
	stepMoveWait
)

// movement is the cursor of the enemy sequence. It suspends only at the
// fixed waits and resumes on a later Tick.
type movement struct {
	step  movementStep
	wait  time.Duration
	index int
	moved int
	span  trace.Span
}

func (m *Manager) beginMovement(ctx context.Context) {
	tracer := telemetry.Tracer("turn")
	_, span := tracer.Start(ctx, "turn.enemies")
	span.SetAttributes(
		attribute.Int("level", m.level),
		attribute.Int("enemy_count", len(m.enemies)),
	)

	m.move = movement{
		step: stepOpeningDelay,
		wait: m.cfg.TurnDelay,
		span: span,
	}
}

// advanceMovement spends dt on the sequence. Time left over after a wait
// finishes carries into the next step, so a long frame may move several
// enemies at once but always in registration order.
func (m *Manager) advanceMovement(ctx context.Context, dt time.Duration) {
	budget := dt
	for {
		switch m.move.step {
		case stepIdle:
			return

		case stepOpeningDelay:
			if !m.spend(&budget) {
				return
			}
			if len(m.enemies) == 0 {
				// Nobody moves, so stand in for their pacing with a second delay.
				m.move.step = stepEmptyDelay
				m.move.wait = m.cfg.TurnDelay
			} else {
				m.move.step = stepMove
				m.move.index = 0
			}

		case stepEmptyDelay:
			if !m.spend(&budget) {
				return
			}
			m.finishMovement()
			return

		case stepMove:
			if m.move.index >= len(m.enemies) {
				m.finishMovement()
				return
			}
			enemy := m.enemies[m.move.index]
			enemy.MoveEnemy(ctx)
			m.move.moved++
			m.enemyMoves.Add(ctx, 1, metric.WithAttributes(attribute.Int("level", m.level)))

			// The move may have ended the game or the level.
			if m.state != StateEnemyTurn {
				return
			}
			m.move.wait = enemy.MoveTime()
			m.move.step = stepMoveWait

		case stepMoveWait:
			if !m.spend(&budget) {
				return
			}
			m.move.index++
			m.move.step = stepMove
		}
	}
}

// spend takes the current wait out of budget. It returns false if the
// wait is still running.
func (m *Manager) spend(budget *time.Duration) bool {
	if m.move.wait > *budget {
		m.move.wait -= *budget
		*budget = 0
		return false
	}
	*budget -= m.move.wait
	m.move.wait = 0
	return true
}

func (m *Manager) finishMovement() {
	if m.move.span != nil {
		m.move.span.SetAttributes(attribute.Int("enemies_moved", m.move.moved))
		m.move.span.End()
	}
	m.move = movement{}
	_ = m.setState(StatePlayerTurn)
}

// abandonMovement drops an unfinished sequence, e.g. when the level changes.
func (m *Manager) abandonMovement(reason string) {
	if m.move.step == stepIdle {
		return
	}
	if m.move.span != nil {
		m.move.span.SetAttributes(
			attribute.Int("enemies_moved", m.move.moved),
			attribute.String("abandoned", reason),
		)
		m.move.span.End()
	}
	m.move = movement{}
}
