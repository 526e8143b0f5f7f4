// Package config defines process configuration and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load layers a YAML file and env on top.
// - Validate runs once at load time so bad weights never reach a pipeline run.
// - Errors wrap this package's sentinel kinds.
package config

import (
	"fmt"
	"math"
	"time"

	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Club is the cohort filter: rows tagged with another club are dropped.
	Club string `koanf:"club"`

	// Season labels every result.
	Season string `koanf:"season"`

	// DivisionOrder is the canonical division order used for tie-breaks.
	DivisionOrder []string `koanf:"division_order"`

	// DivisionWeights maps division labels to difficulty multipliers.
	DivisionWeights map[string]float64 `koanf:"division_weights"`

	// BattingWeight and BowlingWeight blend the all-rounder index.
	BattingWeight float64 `koanf:"batting_weight"`
	BowlingWeight float64 `koanf:"bowling_weight"`

	// MaxRowsPerDivision caps rows kept per discipline and division (0 = no cap).
	MaxRowsPerDivision int `koanf:"max_rows_per_division"`

	// BattingSources and BowlingSources map a division to its raw row file.
	BattingSources map[string]string `koanf:"batting_sources"`
	BowlingSources map[string]string `koanf:"bowling_sources"`

	// RefreshIntervalSec sets how often serve reloads sources (0 = never).
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// MaxLeaderboardLimit caps GET /leaderboard/{discipline}?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// MetricsEnabled turns Prometheus collection on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:      "info",
		Addr:          ":9080",
		Club:          "Eindhoven CC",
		Season:        "2025",
		DivisionOrder: []string{"Eerste_Klasse", "Tweede_Klasse", "Vierde_Klasse"},
		DivisionWeights: map[string]float64{
			"Eerste_Klasse": 1.15,
			"Tweede_Klasse": 1.07,
			"Vierde_Klasse": 1.00,
		},
		BattingWeight:       0.55,
		BowlingWeight:       0.45,
		BattingSources:      map[string]string{},
		BowlingSources:      map[string]string{},
		MaxLeaderboardLimit: 100,
		MetricsEnabled:      true,
	}
}

// Validate checks the configuration for values no pipeline run can use.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if len(c.DivisionOrder) == 0 {
		return fmt.Errorf("%w: division_order must not be empty", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.DivisionOrder))
	for _, d := range c.DivisionOrder {
		if d == "" || seen[d] {
			return fmt.Errorf("%w: division_order has an empty or repeated entry %q", ErrInvalidConfig, d)
		}
		seen[d] = true
	}
	for d, w := range c.DivisionWeights {
		if !(w > 0) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: division weight for %q must be positive, got %v", ErrInvalidConfig, d, w)
		}
	}
	bw, ow := c.BattingWeight, c.BowlingWeight
	if bw < 0 || ow < 0 || math.IsNaN(bw+ow) || math.IsInf(bw+ow, 0) || bw+ow == 0 {
		return fmt.Errorf("%w: batting_weight and bowling_weight must be non-negative with a positive sum, got %v and %v", ErrInvalidConfig, bw, ow)
	}
	if c.MaxRowsPerDivision < 0 {
		return fmt.Errorf("%w: max_rows_per_division must not be negative", ErrInvalidConfig)
	}
	if c.RefreshIntervalSec < 0 {
		return fmt.Errorf("%w: refresh_interval_sec must not be negative", ErrInvalidConfig)
	}
	if c.MaxLeaderboardLimit < 1 {
		return fmt.Errorf("%w: max_leaderboard_limit must be at least 1", ErrInvalidConfig)
	}
	return nil
}

// BlendWeights returns the all-rounder weights normalized to sum to 1.
func (c *Config) BlendWeights() (batting, bowling float64) {
	sum := c.BattingWeight + c.BowlingWeight
	if sum <= 0 {
		return 0, 0
	}
	return c.BattingWeight / sum, c.BowlingWeight / sum
}

// Divisions returns the canonical division order.
func (c *Config) Divisions() []types.Division {
	out := make([]types.Division, len(c.DivisionOrder))
	for i, d := range c.DivisionOrder {
		out[i] = types.Division(d)
	}
	return out
}

// Weights returns the division difficulty multipliers.
func (c *Config) Weights() map[types.Division]float64 {
	out := make(map[types.Division]float64, len(c.DivisionWeights))
	for d, w := range c.DivisionWeights {
		out[types.Division(d)] = w
	}
	return out
}

// Sources returns the per-division source locations of one discipline.
func (c *Config) Sources(d types.Discipline) map[types.Division]string {
	var in map[string]string
	switch d {
	case types.Batting:
		in = c.BattingSources
	case types.Bowling:
		in = c.BowlingSources
	}
	out := make(map[types.Division]string, len(in))
	for div, path := range in {
		out[types.Division(div)] = path
	}
	return out
}

// RefreshInterval returns the serve refresh period; zero disables refresh.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}
