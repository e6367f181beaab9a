package game

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cespare/xxhash/v2"
)

func envMap(m map[string]string) func(string) string {
	return func(key string) string { return m[key] }
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LevelStartDelay != 2*time.Second {
		t.Errorf("LevelStartDelay = %v, want 2s", cfg.LevelStartDelay)
	}
	if cfg.TurnDelay != 100*time.Millisecond {
		t.Errorf("TurnDelay = %v, want 100ms", cfg.TurnDelay)
	}
	if cfg.RestartLevelDelay != time.Second {
		t.Errorf("RestartLevelDelay = %v, want 1s", cfg.RestartLevelDelay)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	cfg, err := LoadConfig(envMap(map[string]string{
		EnvSeed:            "1234",
		EnvTurnDelay:       "250ms",
		EnvLevelStartDelay: "0s",
		EnvStartingFood:    "30",
		EnvFrameRate:       "60",
		EnvRecordsApp:      "-",
	}))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Seed != 1234 {
		t.Errorf("Seed = %d, want 1234", cfg.Seed)
	}
	if cfg.TurnDelay != 250*time.Millisecond {
		t.Errorf("TurnDelay = %v, want 250ms", cfg.TurnDelay)
	}
	if cfg.LevelStartDelay != 0 {
		t.Errorf("LevelStartDelay = %v, want 0", cfg.LevelStartDelay)
	}
	if cfg.StartingFood != 30 || cfg.FrameRate != 60 {
		t.Errorf("StartingFood, FrameRate = %d, %d; want 30, 60", cfg.StartingFood, cfg.FrameRate)
	}
	if cfg.RecordsApp != "" {
		t.Errorf("RecordsApp = %q, want records disabled", cfg.RecordsApp)
	}
	if cfg.RestartLevelDelay != time.Second {
		t.Errorf("RestartLevelDelay = %v, want default 1s", cfg.RestartLevelDelay)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scavenger.yaml")
	data := []byte("seed: monday\nlevelStartDelay: 500ms\nstartingFood: 50\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := LoadConfig(envMap(map[string]string{
		EnvConfigFile: path,
		EnvTurnDelay:  "1s", // env wins over file and defaults
	}))
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Seed != ParseSeed("monday") {
		t.Errorf("Seed = %d, want hash of %q", cfg.Seed, "monday")
	}
	if cfg.LevelStartDelay != 500*time.Millisecond {
		t.Errorf("LevelStartDelay = %v, want 500ms", cfg.LevelStartDelay)
	}
	if cfg.StartingFood != 50 {
		t.Errorf("StartingFood = %d, want 50", cfg.StartingFood)
	}
	if cfg.TurnDelay != time.Second {
		t.Errorf("TurnDelay = %v, want 1s", cfg.TurnDelay)
	}
	if cfg.FrameRate != 30 {
		t.Errorf("FrameRate = %d, want default 30", cfg.FrameRate)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad duration", map[string]string{EnvTurnDelay: "soon"}},
		{"bad int", map[string]string{EnvStartingFood: "lots"}},
		{"negative delay", map[string]string{EnvRestartDelay: "-1s"}},
		{"zero frame rate", map[string]string{EnvFrameRate: "0"}},
		{"frame rate too high", map[string]string{EnvFrameRate: "2000000000"}},
		{"missing file", map[string]string{EnvConfigFile: "/nonexistent/scavenger.yaml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := LoadConfig(envMap(tt.env)); err == nil {
				t.Error("LoadConfig() error = nil, want error")
			}
		})
	}
}

func TestFrameRateLimits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FrameRate = MaxFrameRate
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() at MaxFrameRate error: %v", err)
	}
	if time.Second/time.Duration(cfg.FrameRate) <= 0 {
		t.Error("frame interval at MaxFrameRate should be positive")
	}
	cfg.FrameRate = MaxFrameRate + 1
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() above MaxFrameRate error = nil, want error")
	}
}

func TestParseSeed(t *testing.T) {
	if got := ParseSeed("42"); got != 42 {
		t.Errorf("ParseSeed(42) = %d, want 42", got)
	}
	if got := ParseSeed(" -7 "); got != -7 {
		t.Errorf("ParseSeed(-7) = %d, want -7", got)
	}
	want := int64(xxhash.Sum64String("monday"))
	if got := ParseSeed("monday"); got != want {
		t.Errorf("ParseSeed(monday) = %d, want %d", got, want)
	}
	if ParseSeed("monday") == ParseSeed("tuesday") {
		t.Error("different phrases should give different seeds")
	}
}
