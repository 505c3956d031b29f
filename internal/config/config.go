// Package config loads the game settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/clock"
	"github.com/hailam/chessduel/internal/engine"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is the prefix of every environment variable read by Load.
const Prefix = "CHESSDUEL"

// ErrInvalidConfig is returned for settings out of range.
var ErrInvalidConfig = errors.New("invalid config")

// Seats for HumanColor.
const (
	SeatWhite = "white"
	SeatBlack = "black"
	SeatBoth  = "both" // Two humans
	SeatNone  = "none" // Computer against itself
)

// Config holds the game settings. Each field is read from CHESSDUEL_<NAME>;
// unset variables keep the value from Default.
type Config struct {
	Difficulty string `envconfig:"DIFFICULTY"`
	Depth      int    `envconfig:"DEPTH"` // Overrides Difficulty when > 0
	HumanColor string `envconfig:"HUMAN_COLOR"`

	Clock        string        `envconfig:"CLOCK"`
	BaseTime     time.Duration `envconfig:"BASE_TIME"`
	Increment    time.Duration `envconfig:"INCREMENT"`
	WarningLimit time.Duration `envconfig:"WARNING_LIMIT"`

	// Budgeted makes the computer spend a share of its clock per move
	// instead of always searching to full depth.
	Budgeted bool `envconfig:"BUDGETED"`

	DataDir string `envconfig:"DATA_DIR"` // Empty selects the platform default
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := Default()
	if err := envconfig.Process(Prefix, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Difficulty:   "medium",
		HumanColor:   SeatWhite,
		Clock:        "none",
		BaseTime:     5 * time.Minute,
		WarningLimit: clock.DefaultWarningLimit,
	}
}

// Validate checks every field.
func (c *Config) Validate() error {
	if _, err := engine.ParseDifficulty(c.Difficulty); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Depth < 0 || c.Depth > engine.MaxDepth {
		return fmt.Errorf("%w: depth %d out of range 0..%d", ErrInvalidConfig, c.Depth, engine.MaxDepth)
	}
	switch strings.ToLower(c.HumanColor) {
	case SeatWhite, SeatBlack, SeatBoth, SeatNone:
	default:
		return fmt.Errorf("%w: human color %q", ErrInvalidConfig, c.HumanColor)
	}
	if _, err := clock.ParsePolicy(c.Clock, c.Increment); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Timed() && c.BaseTime <= 0 {
		return fmt.Errorf("%w: base time must be positive, got %v", ErrInvalidConfig, c.BaseTime)
	}
	if c.Increment < 0 || c.WarningLimit < 0 {
		return fmt.Errorf("%w: negative increment or warning limit", ErrInvalidConfig)
	}
	return nil
}

// Timed reports whether the game is played with clocks.
func (c *Config) Timed() bool {
	switch strings.ToLower(strings.TrimSpace(c.Clock)) {
	case "", "none":
		return false
	}
	return true
}

// EngineDifficulty returns the parsed difficulty.
func (c *Config) EngineDifficulty() engine.Difficulty {
	d, _ := engine.ParseDifficulty(c.Difficulty)
	return d
}

// Policy returns the clock policy, nil for an untimed game.
func (c *Config) Policy() clock.Policy {
	if !c.Timed() {
		return nil
	}
	p, _ := clock.ParsePolicy(c.Clock, c.Increment)
	return p
}

// IsHuman reports whether a human plays color.
func (c *Config) IsHuman(color board.Color) bool {
	switch strings.ToLower(c.HumanColor) {
	case SeatBoth:
		return true
	case SeatWhite:
		return color == board.White
	case SeatBlack:
		return color == board.Black
	}
	return false
}
