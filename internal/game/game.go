package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/scavenger/internal/combat"
	"github.com/samdwyer/scavenger/internal/entity"
	"github.com/samdwyer/scavenger/internal/gamedata"
	"github.com/samdwyer/scavenger/internal/level"
	"github.com/samdwyer/scavenger/internal/records"
	"github.com/samdwyer/scavenger/internal/telemetry"
	"github.com/samdwyer/scavenger/internal/turn"
	"github.com/samdwyer/scavenger/internal/ui"
	"github.com/samdwyer/scavenger/internal/world"
)

// Game holds the entire game state.
type Game struct {
	cfg Config

	screen   *ui.Screen
	renderer *ui.Renderer
	hud      *ui.HUD

	board   *world.Board
	player  *entity.Player
	builder *level.Builder
	turns   *turn.Manager
	records *records.Store

	mode      Mode
	restartIn time.Duration
	message   string
	running   bool
}

// New creates a new game instance on the terminal.
func New(cfg Config) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	g, err := newGame(cfg, screen)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return g, nil
}

// newGame wires the game onto an already initialized screen.
func newGame(cfg Config, screen *ui.Screen) (*Game, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	boardFile, err := gamedata.LoadBoard()
	if err != nil {
		return nil, fmt.Errorf("failed to load board: %w", err)
	}
	enemies, err := gamedata.LoadEnemyRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load enemies: %w", err)
	}
	pickups := gamedata.NewPickupRegistry(boardFile.Pickups)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	def := boardFile.Board
	food := def.StartingFood
	if cfg.StartingFood > 0 {
		food = cfg.StartingFood
	}

	board := world.NewBoard(def.Columns, def.Rows)
	player := entity.NewPlayer(food, entity.Rules{
		WallDamage:  def.WallDamage,
		FoodPerStep: def.FoodPerStep,
	}, combat.NewResolver())

	hud := &ui.HUD{}
	builder := level.NewBuilder(def, enemies, pickups, board, player, rng)
	turns := turn.New(turn.Config{
		LevelStartDelay: cfg.LevelStartDelay,
		TurnDelay:       cfg.TurnDelay,
	}, builder, hud)
	builder.SetRegistrar(turns)

	g := &Game{
		cfg:      cfg,
		screen:   screen,
		renderer: ui.NewRenderer(screen),
		hud:      hud,
		board:    board,
		player:   player,
		builder:  builder,
		turns:    turns,
		records:  records.NewStore(nil),
		mode:     ModePlaying,
		running:  true,
	}
	player.OnStarved = g.gameOver
	player.OnHit = func(_ context.Context, message string) {
		g.message = message
	}
	turns.OnStateChange = func(from, to turn.State) {
		log.Printf("turn: %s -> %s (day %d)", from, to, turns.Level())
	}

	log.Printf("game: seed %d, run %s", seed, telemetry.RunID())
	return g, nil
}

// SetRecords replaces the in-memory records store with a persistent one.
func (g *Game) SetRecords(store *records.Store) {
	if store != nil {
		g.records = store
	}
}

// Run executes the main game loop until the player quits, the screen
// closes or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	ctx, span := tracer.Start(ctx, "game.run")
	defer span.End()
	defer g.screen.Close()

	if err := g.turns.Start(ctx); err != nil {
		span.RecordError(err)
		return err
	}

	done := make(chan struct{})
	defer close(done)
	events := make(chan tcell.Event)
	go func() {
		defer close(events)
		for {
			ev := g.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(g.cfg.FrameRate))
	defer ticker.Stop()
	last := time.Now()

	g.render()
	for g.running {
		select {
		case <-ctx.Done():
			g.running = false
		case ev, ok := <-events:
			if !ok {
				g.running = false
				break
			}
			if err := g.handleEvent(ctx, ev); err != nil {
				span.RecordError(err)
				return err
			}
		case now := <-ticker.C:
			dt := now.Sub(last)
			last = now
			if err := g.update(ctx, dt); err != nil {
				span.RecordError(err)
				return err
			}
		}
		g.render()
	}

	span.SetAttributes(
		attribute.Int("day", g.turns.Level()),
		attribute.String("mode", g.mode.String()),
	)
	return nil
}

// update advances everything time-based by dt.
func (g *Game) update(ctx context.Context, dt time.Duration) error {
	g.turns.Tick(ctx, dt)

	if g.mode != ModeLevelComplete {
		return nil
	}
	if g.restartIn > dt {
		g.restartIn -= dt
		return nil
	}
	g.restartIn = 0
	g.mode = ModePlaying
	g.message = ""
	if err := g.turns.NextLevel(ctx); err != nil && !errors.Is(err, turn.ErrGameOver) {
		return err
	}
	return nil
}

func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return g.handleKey(ctx, ev.Key(), ev.Rune())
	case *tcell.EventResize:
		g.screen.Sync()
	}
	return nil
}

// handleKey processes keyboard input.
func (g *Game) handleKey(ctx context.Context, key tcell.Key, r rune) error {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
	case tcell.KeyUp:
		return g.tryMove(ctx, 0, -1)
	case tcell.KeyDown:
		return g.tryMove(ctx, 0, 1)
	case tcell.KeyLeft:
		return g.tryMove(ctx, -1, 0)
	case tcell.KeyRight:
		return g.tryMove(ctx, 1, 0)
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			g.running = false
		case 'k', 'w':
			return g.tryMove(ctx, 0, -1)
		case 'j', 's':
			return g.tryMove(ctx, 0, 1)
		case 'h', 'a':
			return g.tryMove(ctx, -1, 0)
		case 'l', 'd':
			return g.tryMove(ctx, 1, 0)
		}
	}
	return nil
}

// tryMove spends the player's turn on a step. Input outside the player's
// turn is dropped.
func (g *Game) tryMove(ctx context.Context, dx, dy int) error {
	if g.mode != ModePlaying || !g.turns.PlayersTurn() {
		return nil
	}

	result, err := g.player.AttemptMove(ctx, dx, dy)
	if err != nil {
		return fmt.Errorf("moving player: %w", err)
	}
	if result.Message != "" {
		g.message = result.Message
	}

	if result.ReachedExit && g.mode == ModePlaying {
		g.mode = ModeLevelComplete
		g.restartIn = g.cfg.RestartLevelDelay
	}

	// Starving on this step already ended the game.
	if !g.turns.Enabled() {
		return nil
	}
	return g.turns.EndPlayerTurn(ctx)
}

// gameOver is called once when the player's food runs out.
func (g *Game) gameOver(ctx context.Context) {
	g.turns.GameOver(ctx)
	g.mode = ModeOver

	day := g.turns.Level()
	best, err := g.records.Record(telemetry.RunID(), day)
	if err != nil {
		log.Printf("game: saving records: %v", err)
	}
	if best {
		g.message = fmt.Sprintf("New best: day %d", day)
	} else {
		g.message = fmt.Sprintf("Best: day %d", g.records.Records().BestDay)
	}
}

func (g *Game) render() {
	g.renderer.Render(ui.View{
		Board:   g.board,
		Player:  g.player,
		Day:     g.turns.Level(),
		Status:  g.status(),
		Message: g.message,
	}, g.hud)
}

func (g *Game) status() string {
	switch {
	case g.mode == ModeOver:
		return "press q to quit"
	case g.mode == ModeLevelComplete:
		return "onward"
	case g.turns.PlayersTurn():
		return "your move"
	case g.turns.State() == turn.StateEnemyTurn:
		return "enemies moving"
	default:
		return ""
	}
}

// Mode returns what the game loop is currently doing.
func (g *Game) Mode() Mode {
	return g.mode
}
