package turn

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"

	"github.com/samdwyer/scavenger/internal/telemetry"
)

// BoardBuilder constructs the terrain of a level and spawns its enemies.
// Spawned enemies are expected to call AddEnemy on the manager.
type BoardBuilder interface {
	SetupScene(ctx context.Context, level int) error
}

// Display is the part of the UI the manager writes to.
type Display interface {
	SetLevelText(text string)
	SetOverlayVisible(visible bool)
}

// Mover is an enemy handle as seen by the turn loop.
type Mover interface {
	MoveEnemy(ctx context.Context)
	MoveTime() time.Duration
}

// Config holds the fixed delays of the turn loop.
type Config struct {
	// LevelStartDelay is how long the level card blocks input after setup.
	LevelStartDelay time.Duration
	// TurnDelay is the pause before enemies start moving.
	TurnDelay time.Duration
	// MeterProvider receives the turn counters. Nil uses the global provider.
	MeterProvider metric.MeterProvider
}

// DefaultConfig returns the stock delays.
func DefaultConfig() Config {
	return Config{
		LevelStartDelay: 2 * time.Second,
		TurnDelay:       100 * time.Millisecond,
	}
}

// Manager owns the turn state of the running game. It is created once and
// shared by reference with the systems that need it; it outlives levels.
type Manager struct {
	cfg     Config
	builder BoardBuilder
	display Display

	state          State
	level          int
	enemies        []Mover
	started        bool
	enabled        bool
	overlayVisible bool
	setupRemaining time.Duration
	move           movement

	// OnStateChange, if set, is called after every state change.
	OnStateChange func(from, to State)

	levelsStarted metric.Int64Counter
	enemyMoves    metric.Int64Counter
}

// New creates a manager at level 1. Call Start to build the first level.
func New(cfg Config, builder BoardBuilder, display Display) *Manager {
	if display == nil {
		display = nopDisplay{}
	}

	meter := telemetry.MeterFrom(cfg.MeterProvider, "turn")
	levelsStarted, err := meter.Int64Counter("scavenger.levels.started",
		metric.WithDescription("Levels initialized"))
	if err != nil {
		levelsStarted = metricnoop.Int64Counter{}
	}
	enemyMoves, err := meter.Int64Counter("scavenger.enemy.moves",
		metric.WithDescription("Enemy move actions issued"))
	if err != nil {
		enemyMoves = metricnoop.Int64Counter{}
	}

	return &Manager{
		cfg:           cfg,
		builder:       builder,
		display:       display,
		state:         StateSetup,
		level:         1,
		enabled:       true,
		levelsStarted: levelsStarted,
		enemyMoves:    enemyMoves,
	}
}

// Start initializes the first level.
func (m *Manager) Start(ctx context.Context) error {
	if !m.enabled {
		return ErrGameOver
	}
	m.started = true
	return m.initLevel(ctx)
}

// NextLevel advances the level counter and initializes the new level.
func (m *Manager) NextLevel(ctx context.Context) error {
	if !m.enabled {
		return ErrGameOver
	}
	m.level++
	m.started = true
	return m.initLevel(ctx)
}

// initLevel blocks input behind the level card, empties the enemy registry
// and hands the level to the board builder.
func (m *Manager) initLevel(ctx context.Context) error {
	tracer := telemetry.Tracer("turn")
	ctx, span := tracer.Start(ctx, "level.init")
	span.SetAttributes(attribute.Int("level", m.level))
	defer span.End()

	if err := m.setState(StateSetup); err != nil {
		return err
	}
	m.abandonMovement("level_change")

	m.display.SetLevelText(fmt.Sprintf("Day %d", m.level))
	m.setOverlay(true)
	m.setupRemaining = m.cfg.LevelStartDelay

	m.enemies = nil

	m.levelsStarted.Add(ctx, 1, metric.WithAttributes(attribute.Int("level", m.level)))

	if m.builder == nil {
		return nil
	}
	if err := m.builder.SetupScene(ctx, m.level); err != nil {
		span.RecordError(err)
		return fmt.Errorf("setting up level %d: %w", m.level, err)
	}
	span.SetAttributes(attribute.Int("enemy_count", len(m.enemies)))
	return nil
}

// AddEnemy appends an enemy to the registry. There is no duplicate check.
func (m *Manager) AddEnemy(e Mover) {
	m.enemies = append(m.enemies, e)
}

// Enemies returns the registered enemies in registration order.
func (m *Manager) Enemies() []Mover {
	out := make([]Mover, len(m.enemies))
	copy(out, m.enemies)
	return out
}

// Tick advances the manager by dt. It is meant to be called once per frame.
func (m *Manager) Tick(ctx context.Context, dt time.Duration) {
	if !m.enabled || !m.started {
		return
	}

	switch m.state {
	case StateSetup:
		if m.setupRemaining > dt {
			m.setupRemaining -= dt
			return
		}
		m.setupRemaining = 0
		m.setOverlay(false)
		_ = m.setState(StatePlayerTurn)
	case StateEnemyTurn:
		m.advanceMovement(ctx, dt)
	}
}

// EndPlayerTurn hands the turn to the enemies. The movement sequence starts
// on the next Tick.
func (m *Manager) EndPlayerTurn(ctx context.Context) error {
	if !m.enabled {
		return ErrGameOver
	}
	if m.state != StatePlayerTurn {
		return fmt.Errorf("%w (state %s)", ErrNotPlayersTurn, m.state)
	}
	if err := m.setState(StateEnemyTurn); err != nil {
		return err
	}
	m.beginMovement(ctx)
	return nil
}

// GameOver shows the final card and disables the manager for good.
func (m *Manager) GameOver(ctx context.Context) {
	if m.state == StateGameOver {
		return
	}

	tracer := telemetry.Tracer("turn")
	_, span := tracer.Start(ctx, "turn.game_over")
	span.SetAttributes(
		attribute.Int("level", m.level),
		attribute.String("from_state", m.state.String()),
	)
	span.End()

	m.abandonMovement("game_over")
	m.display.SetLevelText(fmt.Sprintf("After %d days, you starved", m.level))
	m.setOverlay(true)
	_ = m.setState(StateGameOver)
	m.enabled = false
}

// State returns the current turn state.
func (m *Manager) State() State {
	return m.state
}

// Level returns the current level number, shown as the day.
func (m *Manager) Level() int {
	return m.level
}

// PlayersTurn returns true if the player may act.
func (m *Manager) PlayersTurn() bool {
	return m.enabled && m.state == StatePlayerTurn
}

// Enabled returns false once the game is over.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// OverlayVisible returns whether the level card is currently shown.
func (m *Manager) OverlayVisible() bool {
	return m.overlayVisible
}

func (m *Manager) setState(to State) error {
	from := m.state
	if err := checkTransition(from, to); err != nil {
		return err
	}
	m.state = to
	if m.OnStateChange != nil {
		m.OnStateChange(from, to)
	}
	return nil
}

func (m *Manager) setOverlay(visible bool) {
	m.overlayVisible = visible
	m.display.SetOverlayVisible(visible)
}

type nopDisplay struct{}

func (nopDisplay) SetLevelText(string)    {}
func (nopDisplay) SetOverlayVisible(bool) {}
