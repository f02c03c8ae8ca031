// Package config holds the tunable constants of the puzzle and the solver.
// Everything has a sensible default and can be overridden through the
// environment with a SAMEGAME_ prefix (SAMEGAME_MAX_DEPTH=10, etc), so the
// algorithms themselves never hardcode a dimension or a depth.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	DefaultBoardWidth  = 7
	DefaultBoardHeight = 9
	DefaultMaxDepth    = 13
	// The initial best-so-far sentinel. Anything larger than the maximum
	// search depth works; 100 leaves plenty of headroom for deeper runs.
	DefaultInitialBound = 100
	// Fraction of total system memory the transposition table may grow to.
	DefaultTableMemFraction = 0.25
)

type Config struct {
	BoardWidth       int     `mapstructure:"board-width"`
	BoardHeight      int     `mapstructure:"board-height"`
	MaxDepth         int     `mapstructure:"max-depth"`
	InitialBound     int     `mapstructure:"initial-bound"`
	TableMemFraction float64 `mapstructure:"table-mem-fraction"`
	Debug            bool    `mapstructure:"debug"`
}

// Load reads configuration from the environment on top of the defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("samegame")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("board-width", DefaultBoardWidth)
	v.SetDefault("board-height", DefaultBoardHeight)
	v.SetDefault("max-depth", DefaultMaxDepth)
	v.SetDefault("initial-bound", DefaultInitialBound)
	v.SetDefault("table-mem-fraction", DefaultTableMemFraction)
	v.SetDefault("debug", false)

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultConfig returns the built-in configuration, ignoring the
// environment. Tests use this to stay deterministic.
func DefaultConfig() *Config {
	return &Config{
		BoardWidth:       DefaultBoardWidth,
		BoardHeight:      DefaultBoardHeight,
		MaxDepth:         DefaultMaxDepth,
		InitialBound:     DefaultInitialBound,
		TableMemFraction: DefaultTableMemFraction,
	}
}

func (c *Config) validate() error {
	if c.BoardWidth < 1 || c.BoardHeight < 1 {
		return fmt.Errorf("board dimensions must be positive, got %dx%d", c.BoardWidth, c.BoardHeight)
	}
	if c.MaxDepth < 1 {
		return fmt.Errorf("max depth must be positive, got %d", c.MaxDepth)
	}
	if c.InitialBound <= c.MaxDepth {
		return fmt.Errorf("initial bound %d must exceed max depth %d", c.InitialBound, c.MaxDepth)
	}
	if c.TableMemFraction <= 0 || c.TableMemFraction > 1 {
		return fmt.Errorf("table memory fraction must be in (0, 1], got %v", c.TableMemFraction)
	}
	return nil
}
