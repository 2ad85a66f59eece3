package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/storybrawl/internal/battle"
	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/rng"
	"github.com/samdwyer/storybrawl/internal/roster"
	"github.com/samdwyer/storybrawl/internal/telemetry"
	"github.com/samdwyer/storybrawl/internal/world"
)

// Session owns everything that outlives a single battle: rules, roster,
// the ledger recording results and the random source.
type Session struct {
	seed   int64
	rules  *gamedata.Rules
	roster *roster.Roster
	ledger *roster.Ledger
	rng    *rand.Rand
	log    logr.Logger
	tracer trace.Tracer
	meter  metric.Meter
}

// NewSession loads rules and roster as configured and seeds the session.
func NewSession(cfg Config, log logr.Logger) (*Session, error) {
	rules, err := loadRules(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules: %w", err)
	}

	def, err := loadRoster(cfg.RosterPath)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r, err := roster.FromDef(def, seed)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	tracer := telemetry.Tracer("game")
	s := &Session{
		seed:   seed,
		rules:  rules,
		roster: r,
		ledger: roster.NewLedger(r, log.WithName("ledger"), telemetry.Tracer("roster")),
		rng:    rng.New(seed),
		log:    log,
		tracer: tracer,
		meter:  telemetry.Meter("battle"),
	}
	log.Info("session ready", "seed", seed, "players", r.Len())
	return s, nil
}

func loadRules(path string) (*gamedata.Rules, error) {
	if path == "" {
		return gamedata.LoadRules()
	}
	return gamedata.LoadRulesFile(path)
}

func loadRoster(path string) (*gamedata.RosterDef, error) {
	if path == "" {
		return gamedata.LoadRoster()
	}
	return gamedata.LoadRosterFile(path)
}

// Seed returns the seed actually in use.
func (s *Session) Seed() int64 { return s.seed }

// Rules returns the session's combat rules.
func (s *Session) Rules() *gamedata.Rules { return s.rules }

// Roster returns the players.
func (s *Session) Roster() *roster.Roster { return s.roster }

// Ledger returns the stats sink battles report to.
func (s *Session) Ledger() *roster.Ledger { return s.ledger }

// StartBattle partitions the roster into teams, spawns the knights and
// returns a battle that reports to the session ledger. With player set the
// first left-team knight is keyboard controlled.
func (s *Session) StartBattle(ctx context.Context, player bool) (*battle.Battle, error) {
	if err := s.roster.Ready(); err != nil {
		return nil, err
	}

	left, right := s.roster.Partition()
	leftEntrants := battle.AI(left...)
	if player && len(leftEntrants) > 0 {
		leftEntrants[0].Controller = entity.ControllerPlayer
	}

	arena := world.NewArena(s.rules.Arena)
	knights, overlaps := battle.PlaceKnights(leftEntrants, battle.AI(right...), arena, s.rules, s.rng)
	if overlaps > 0 {
		s.log.V(1).Info("spawn fell back to overlapping positions", "knights", overlaps)
	}

	return battle.New(ctx, knights, battle.Config{
		Rules:  s.rules,
		RNG:    s.rng,
		Sink:   s.ledger,
		Logger: s.log.WithName("battle"),
		Tracer: telemetry.Tracer("battle"),
		Meter:  s.meter,
	}), nil
}
