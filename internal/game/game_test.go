package game

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/scavenger/internal/records"
	"github.com/samdwyer/scavenger/internal/turn"
	"github.com/samdwyer/scavenger/internal/ui"
	"github.com/samdwyer/scavenger/internal/world"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = 42
	cfg.RecordsApp = ""
	return cfg
}

func newTestGame(t *testing.T) *Game {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.NewScreenFrom(sim)
	if err != nil {
		t.Fatalf("NewScreenFrom() error: %v", err)
	}
	sim.SetSize(40, 20)
	t.Cleanup(screen.Close)

	g, err := newGame(testConfig(), screen)
	if err != nil {
		t.Fatalf("newGame() error: %v", err)
	}
	return g
}

// startPlaying builds day 1 and waits out the level card.
func startPlaying(t *testing.T, g *Game) context.Context {
	t.Helper()
	ctx := context.Background()
	if err := g.turns.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := g.update(ctx, g.cfg.LevelStartDelay); err != nil {
		t.Fatalf("update() error: %v", err)
	}
	if !g.turns.PlayersTurn() {
		t.Fatalf("state = %v after level card, want player_turn", g.turns.State())
	}
	return ctx
}

func TestInputIgnoredDuringSetup(t *testing.T) {
	g := newTestGame(t)
	ctx := context.Background()
	if err := g.turns.Start(ctx); err != nil {
		t.Fatalf("Start() error: %v", err)
	}

	food := g.player.Food
	if err := g.handleKey(ctx, tcell.KeyUp, 0); err != nil {
		t.Fatalf("handleKey() error: %v", err)
	}
	if g.player.Pos != (world.Point{X: 0, Y: 7}) {
		t.Errorf("player moved to %v during setup", g.player.Pos)
	}
	if g.player.Food != food {
		t.Errorf("Food = %d, want %d", g.player.Food, food)
	}
	if !g.hud.OverlayVisible || g.hud.LevelText != "Day 1" {
		t.Errorf("hud = %+v, want Day 1 card", *g.hud)
	}
}

func TestMoveHandsTurnToEnemies(t *testing.T) {
	g := newTestGame(t)
	ctx := startPlaying(t, g)

	if err := g.handleKey(ctx, tcell.KeyRune, 'k'); err != nil {
		t.Fatalf("handleKey() error: %v", err)
	}
	if g.player.Pos != (world.Point{X: 0, Y: 6}) {
		t.Errorf("Pos = %v, want (0,6)", g.player.Pos)
	}
	if g.player.Food != 99 {
		t.Errorf("Food = %d, want 99", g.player.Food)
	}
	if g.turns.State() != turn.StateEnemyTurn {
		t.Fatalf("State() = %v, want enemy_turn", g.turns.State())
	}
	if got := g.status(); got != "enemies moving" {
		t.Errorf("status() = %q, want %q", got, "enemies moving")
	}

	// A second key press before the enemies are done is dropped.
	if err := g.handleKey(ctx, tcell.KeyUp, 0); err != nil {
		t.Fatalf("handleKey() error: %v", err)
	}
	if g.player.Pos != (world.Point{X: 0, Y: 6}) {
		t.Errorf("Pos = %v after early input, want (0,6)", g.player.Pos)
	}

	// Day 1 has no enemies: the turn passes back after two turn delays.
	if err := g.update(ctx, 2*g.cfg.TurnDelay); err != nil {
		t.Fatalf("update() error: %v", err)
	}
	if !g.turns.PlayersTurn() {
		t.Errorf("State() = %v, want player_turn", g.turns.State())
	}
}

func TestReachingExitStartsNextDay(t *testing.T) {
	g := newTestGame(t)
	ctx := startPlaying(t, g)

	// The border lanes are kept clear, so walk up the left edge and along the top.
	steps := []tcell.Key{}
	for i := 0; i < g.board.Rows-1; i++ {
		steps = append(steps, tcell.KeyUp)
	}
	for i := 0; i < g.board.Columns-1; i++ {
		steps = append(steps, tcell.KeyRight)
	}

	for i, key := range steps {
		if err := g.handleKey(ctx, key, 0); err != nil {
			t.Fatalf("step %d: handleKey() error: %v", i, err)
		}
		if i < len(steps)-1 {
			if err := g.update(ctx, time.Second); err != nil {
				t.Fatalf("step %d: update() error: %v", i, err)
			}
		}
	}

	if g.player.Pos != g.board.Exit() {
		t.Fatalf("Pos = %v, want exit %v", g.player.Pos, g.board.Exit())
	}
	if g.Mode() != ModeLevelComplete {
		t.Fatalf("Mode() = %v, want level_complete", g.Mode())
	}
	if g.turns.Level() != 1 {
		t.Errorf("Level() = %d before restart delay, want 1", g.turns.Level())
	}

	if err := g.update(ctx, g.cfg.RestartLevelDelay); err != nil {
		t.Fatalf("update() error: %v", err)
	}
	if g.turns.Level() != 2 {
		t.Errorf("Level() = %d, want 2", g.turns.Level())
	}
	if g.Mode() != ModePlaying {
		t.Errorf("Mode() = %v, want playing", g.Mode())
	}
	if g.turns.State() != turn.StateSetup || g.hud.LevelText != "Day 2" {
		t.Errorf("state %v, card %q; want setup with Day 2", g.turns.State(), g.hud.LevelText)
	}

	wantFood := 100 - len(steps)
	if g.player.Food != wantFood {
		t.Errorf("Food = %d, want %d carried into day 2", g.player.Food, wantFood)
	}
	if g.player.Pos != g.builder.Start() {
		t.Errorf("Pos = %v, want start %v", g.player.Pos, g.builder.Start())
	}
}

func TestStarvingEndsGame(t *testing.T) {
	g := newTestGame(t)
	ctx := startPlaying(t, g)
	g.player.Food = 1

	if err := g.handleKey(ctx, tcell.KeyUp, 0); err != nil {
		t.Fatalf("handleKey() error: %v", err)
	}

	if g.turns.State() != turn.StateGameOver || g.turns.Enabled() {
		t.Fatalf("State() = %v, Enabled() = %v; want game_over, disabled", g.turns.State(), g.turns.Enabled())
	}
	if g.Mode() != ModeOver {
		t.Errorf("Mode() = %v, want over", g.Mode())
	}
	if g.hud.LevelText != "After 1 days, you starved" || !g.hud.OverlayVisible {
		t.Errorf("hud = %+v, want game over card", *g.hud)
	}

	rec := g.records.Records()
	if rec.BestDay != 1 || rec.Runs != 1 {
		t.Errorf("records = %+v, want best day 1 after 1 run", rec)
	}
	if g.message != "New best: day 1" {
		t.Errorf("message = %q", g.message)
	}

	// Nothing moves after the end.
	pos := g.player.Pos
	if err := g.handleKey(ctx, tcell.KeyUp, 0); err != nil {
		t.Fatalf("handleKey() error: %v", err)
	}
	if err := g.update(ctx, time.Minute); err != nil {
		t.Fatalf("update() error: %v", err)
	}
	if g.player.Pos != pos || g.turns.State() != turn.StateGameOver {
		t.Error("game should stay over")
	}
}

// screenRows returns every row of the screen as text.
func screenRows(g *Game) []string {
	w, h := g.screen.Size()
	rows := make([]string, h)
	for y := 0; y < h; y++ {
		line := make([]rune, w)
		for x := 0; x < w; x++ {
			line[x] = g.screen.Content(x, y)
		}
		rows[y] = string(line)
	}
	return rows
}

func TestGameOverFrameShowsRecordAndQuitHint(t *testing.T) {
	g := newTestGame(t)
	ctx := startPlaying(t, g)
	g.player.Food = 1

	if err := g.handleKey(ctx, tcell.KeyUp, 0); err != nil {
		t.Fatalf("handleKey() error: %v", err)
	}
	g.render()

	screen := strings.Join(screenRows(g), "\n")
	for _, want := range []string{"After 1 days, you starved", "New best: day 1", "press q to quit"} {
		if !strings.Contains(screen, want) {
			t.Errorf("game over frame is missing %q:\n%s", want, screen)
		}
	}
}

func TestEnemyHitShowsFoodLost(t *testing.T) {
	g := newTestGame(t)
	ctx := startPlaying(t, g)

	g.player.LoseFood(ctx, 10)
	if g.message != "-10 Food" {
		t.Errorf("message = %q, want %q", g.message, "-10 Food")
	}
	if g.player.Food != 90 {
		t.Errorf("Food = %d, want 90", g.player.Food)
	}
}

func TestGameOverKeepsBestRecord(t *testing.T) {
	g := newTestGame(t)
	store := records.NewStore(nil)
	if _, err := store.Record("earlier", 5); err != nil {
		t.Fatalf("Record() error: %v", err)
	}
	g.SetRecords(store)

	ctx := startPlaying(t, g)
	g.player.Food = 1
	if err := g.handleKey(ctx, tcell.KeyRight, 0); err != nil {
		t.Fatalf("handleKey() error: %v", err)
	}

	if got := store.Records(); got.BestDay != 5 || got.LastDay != 1 || got.Runs != 2 {
		t.Errorf("records = %+v, want best 5, last 1, 2 runs", got)
	}
	if g.message != "Best: day 5" {
		t.Errorf("message = %q, want %q", g.message, "Best: day 5")
	}
}

func TestQuitKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tcell.Key
		r    rune
	}{
		{"q", tcell.KeyRune, 'q'},
		{"Q", tcell.KeyRune, 'Q'},
		{"escape", tcell.KeyEscape, 0},
		{"ctrl-c", tcell.KeyCtrlC, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t)
			if err := g.handleKey(context.Background(), tt.key, tt.r); err != nil {
				t.Fatalf("handleKey() error: %v", err)
			}
			if g.running {
				t.Error("game should stop running")
			}
		})
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	g := newTestGame(t)
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := g.Run(ctx); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if g.turns.Level() != 1 || g.turns.State() != turn.StateSetup {
		t.Errorf("after a short run: level %d, state %v; want day 1 setup", g.turns.Level(), g.turns.State())
	}
}

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModePlaying, "playing"},
		{ModeLevelComplete, "level_complete"},
		{ModeOver, "over"},
		{Mode(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", tt.mode, got, tt.want)
		}
	}
}
