package game

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible level generation.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	LevelStartDelay   time.Duration // Level card time before the player may move
	TurnDelay         time.Duration // Pause before enemies move
	RestartLevelDelay time.Duration // Pause between reaching the exit and the next day
	StartingFood      int           // 0 uses the value from board.json
	FrameRate         int           // Frames per second of the game loop
	RecordsApp        string        // Save data name; empty disables records
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		LevelStartDelay:   2 * time.Second,
		TurnDelay:         100 * time.Millisecond,
		RestartLevelDelay: time.Second,
		FrameRate:         30,
		RecordsApp:        "scavenger",
	}
}

// MaxFrameRate bounds Config.FrameRate so the frame interval stays positive.
const MaxFrameRate = 1000

// fileConfig is the YAML shape of a config file. Unset fields keep their defaults.
type fileConfig struct {
	Seed              *string        `yaml:"seed"`
	LevelStartDelay   *time.Duration `yaml:"levelStartDelay"`
	TurnDelay         *time.Duration `yaml:"turnDelay"`
	RestartLevelDelay *time.Duration `yaml:"restartLevelDelay"`
	StartingFood      *int           `yaml:"startingFood"`
	FrameRate         *int           `yaml:"frameRate"`
	RecordsApp        *string        `yaml:"recordsApp"`
}

// Environment variables read by LoadConfig.
const (
	EnvConfigFile      = "SCAVENGER_CONFIG"
	EnvSeed            = "SCAVENGER_SEED"
	EnvLevelStartDelay = "SCAVENGER_LEVEL_START_DELAY"
	EnvTurnDelay       = "SCAVENGER_TURN_DELAY"
	EnvRestartDelay    = "SCAVENGER_RESTART_DELAY"
	EnvStartingFood    = "SCAVENGER_STARTING_FOOD"
	EnvFrameRate       = "SCAVENGER_FPS"
	EnvRecordsApp      = "SCAVENGER_RECORDS"
)

// LoadConfig builds the configuration from defaults, the YAML file named by
// SCAVENGER_CONFIG (if any), then individual SCAVENGER_* variables.
func LoadConfig(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	cfg := DefaultConfig()

	if path := getenv(EnvConfigFile); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(getenv); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if fc.Seed != nil {
		c.Seed = ParseSeed(*fc.Seed)
	}
	if fc.LevelStartDelay != nil {
		c.LevelStartDelay = *fc.LevelStartDelay
	}
	if fc.TurnDelay != nil {
		c.TurnDelay = *fc.TurnDelay
	}
	if fc.RestartLevelDelay != nil {
		c.RestartLevelDelay = *fc.RestartLevelDelay
	}
	if fc.StartingFood != nil {
		c.StartingFood = *fc.StartingFood
	}
	if fc.FrameRate != nil {
		c.FrameRate = *fc.FrameRate
	}
	if fc.RecordsApp != nil {
		c.RecordsApp = *fc.RecordsApp
	}
	return nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv(EnvSeed); v != "" {
		c.Seed = ParseSeed(v)
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{EnvLevelStartDelay, &c.LevelStartDelay},
		{EnvTurnDelay, &c.TurnDelay},
		{EnvRestartDelay, &c.RestartLevelDelay},
	}
	for _, d := range durations {
		v := getenv(d.key)
		if v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = parsed
	}

	ints := []struct {
		key string
		dst *int
	}{
		{EnvStartingFood, &c.StartingFood},
		{EnvFrameRate, &c.FrameRate},
	}
	for _, i := range ints {
		v := getenv(i.key)
		if v == "" {
			continue
		}
		parsed, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", i.key, err)
		}
		*i.dst = parsed
	}

	if v, ok := lookup(getenv, EnvRecordsApp); ok {
		c.RecordsApp = v
	}
	return nil
}

// lookup treats "-" as an explicit empty value so records can be switched off.
func lookup(getenv func(string) string, key string) (string, bool) {
	v := getenv(key)
	if v == "" {
		return "", false
	}
	if v == "-" {
		return "", true
	}
	return v, true
}

// Validate rejects configurations the game loop cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.LevelStartDelay < 0 || c.TurnDelay < 0 || c.RestartLevelDelay < 0 {
		errs = append(errs, errors.New("delays must not be negative"))
	}
	if c.StartingFood < 0 {
		errs = append(errs, fmt.Errorf("startingFood must not be negative, got %d", c.StartingFood))
	}
	if c.FrameRate <= 0 || c.FrameRate > MaxFrameRate {
		errs = append(errs, fmt.Errorf("frameRate must be in 1..%d, got %d", MaxFrameRate, c.FrameRate))
	}
	return errors.Join(errs...)
}

// ParseSeed turns a seed string into a number. Integers are used as-is; any
// other text is hashed, so "monday" always builds the same levels.
func ParseSeed(s string) int64 {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return int64(xxhash.Sum64String(s))
}
