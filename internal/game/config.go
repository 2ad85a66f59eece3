package game

import (
	"errors"
	"fmt"
	"strconv"
)

// Mode selects the frontend.
type Mode string

const (
	ModeTerminal Mode = "terminal"
	ModeWindow   Mode = "window"
	ModeHeadless Mode = "headless"
)

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeTerminal, ModeWindow, ModeHeadless:
		return m, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want terminal, window or headless)", s)
	}
}

// Environment variables read by ApplyEnv.
const (
	EnvSeed   = "STORYBRAWL_SEED"
	EnvRules  = "STORYBRAWL_RULES"
	EnvRoster = "STORYBRAWL_ROSTER"
)

// Config holds game configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible trait rolls,
	// spawns and AI decisions. A seed of 0 means a random seed will be generated.
	Seed int64

	Mode       Mode
	RulesPath  string // Empty uses the embedded rules
	RosterPath string // Empty uses the embedded roster

	// Player puts the first left-team knight under keyboard control. Ignored
	// in headless mode.
	Player bool

	Battles  int // Headless: battles to run back to back
	MaxTicks int // Headless: give up on a battle after this many ticks

	SnapshotPath  string // Headless: PNG of the final frame
	SnapshotWidth int    // Snapshot width in pixels, 0 for full size

	LogPath   string // Log file; terminal mode logs nowhere without one
	Verbosity int    // logr V-level
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Mode:     ModeTerminal,
		Player:   true,
		Battles:  1,
		MaxTicks: 60 * 60 * 5,
	}
}

// ApplyEnv overrides fields from environment variables looked up with getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvSeed); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvSeed, err)
		}
		c.Seed = seed
	}
	if v := getenv(EnvRules); v != "" {
		c.RulesPath = v
	}
	if v := getenv(EnvRoster); v != "" {
		c.RosterPath = v
	}
	return nil
}

// Validate checks option combinations.
func (c Config) Validate() error {
	var errs []error
	if _, err := ParseMode(string(c.Mode)); err != nil {
		errs = append(errs, err)
	}
	if c.Battles < 1 {
		errs = append(errs, fmt.Errorf("battles must be at least 1, got %d", c.Battles))
	}
	if c.MaxTicks < 0 {
		errs = append(errs, fmt.Errorf("max ticks must not be negative, got %d", c.MaxTicks))
	}
	if c.SnapshotWidth < 0 {
		errs = append(errs, fmt.Errorf("snapshot width must not be negative, got %d", c.SnapshotWidth))
	}
	return errors.Join(errs...)
}
