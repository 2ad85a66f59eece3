// Package main is the entry point for StoryBrawl.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"
	"github.com/joho/godotenv"

	"github.com/samdwyer/storybrawl/internal/game"
	"github.com/samdwyer/storybrawl/internal/telemetry"
	"github.com/samdwyer/storybrawl/internal/window"
)

func main() {
	// Load .env file for local development
	// This makes HONEYCOMB_STORYBRAWL_API_KEY available
	if err := godotenv.Load(); err != nil {
		// Not fatal - env vars might be set directly
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to open log: %v", err)
	}
	defer closeLog()

	// Set up OTEL environment variables from our .env variables
	setupOTelEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Initialize telemetry
	shutdown, err := telemetry.Setup(ctx, logger)
	if err != nil {
		logger.Error(err, "telemetry setup failed, running without observability")
	} else {
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Error(err, "telemetry shutdown failed")
			}
		}()
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error(err, "game error")
		closeLog()
		log.Fatalf("Game error: %v", err)
	}
}

func run(ctx context.Context, cfg game.Config, logger logr.Logger) error {
	session, err := game.NewSession(cfg, logger.WithName("session"))
	if err != nil {
		return err
	}

	switch cfg.Mode {
	case game.ModeHeadless:
		return game.RunHeadless(ctx, session, cfg, os.Stdout)
	case game.ModeWindow:
		return window.Run(ctx, session, cfg, logger.WithName("window"))
	default:
		g, err := game.New(session, cfg, logger.WithName("game"))
		if err != nil {
			return fmt.Errorf("initialize terminal: %w", err)
		}
		defer g.Close()
		return g.Run(ctx)
	}
}

// parseConfig layers defaults, environment and flags, in that order.
func parseConfig(args []string) (game.Config, error) {
	cfg := game.DefaultConfig()
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	fs := flag.NewFlagSet("storybrawl", flag.ContinueOnError)
	mode := fs.String("mode", string(cfg.Mode), "frontend: terminal, window or headless")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed, 0 for a random one")
	fs.StringVar(&cfg.RulesPath, "rules", cfg.RulesPath, "rules YAML file (default embedded)")
	fs.StringVar(&cfg.RosterPath, "roster", cfg.RosterPath, "roster YAML file (default embedded)")
	fs.BoolVar(&cfg.Player, "player", cfg.Player, "control the first left-team knight")
	fs.IntVar(&cfg.Battles, "battles", cfg.Battles, "headless: battles to run")
	fs.IntVar(&cfg.MaxTicks, "max-ticks", cfg.MaxTicks, "headless: tick cap per battle, 0 for none")
	fs.StringVar(&cfg.SnapshotPath, "snapshot", cfg.SnapshotPath, "headless: write the final frame to this PNG")
	fs.IntVar(&cfg.SnapshotWidth, "snapshot-width", cfg.SnapshotWidth, "snapshot width in pixels, 0 for full size")
	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "log file")
	fs.IntVar(&cfg.Verbosity, "v", cfg.Verbosity, "log verbosity")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}

	m, err := game.ParseMode(*mode)
	if err != nil {
		return cfg, err
	}
	cfg.Mode = m
	return cfg, cfg.Validate()
}

// newLogger logs to cfg.LogPath if set, otherwise to stderr. The terminal
// frontend owns the screen, so without a log file it logs nowhere.
func newLogger(cfg game.Config) (logr.Logger, func(), error) {
	stdr.SetVerbosity(cfg.Verbosity)

	var out io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case cfg.LogPath != "":
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return logr.Discard(), closeFn, err
		}
		out = f
		closeFn = func() { f.Close() }
	case cfg.Mode == game.ModeTerminal:
		return logr.Discard(), closeFn, nil
	}

	return stdr.New(log.New(out, "", log.LstdFlags)).WithName("storybrawl"), closeFn, nil
}

// setupOTelEnv configures OTEL environment variables from our custom env vars.
func setupOTelEnv() {
	// Always set endpoint to Honeycomb
	os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "https://api.honeycomb.io")

	// Always set headers from our API key - the .env file may have an unexpanded
	// variable reference that doesn't work, so we construct it properly here
	apiKey := os.Getenv("HONEYCOMB_STORYBRAWL_API_KEY")
	dataset := os.Getenv("HONEYCOMB_STORYBRAWL_DATASET")
	if dataset == "" {
		dataset = "storybrawl" // default dataset name
	}
	if apiKey != "" {
		os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
			fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
	}
}
