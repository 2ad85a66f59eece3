// Package battle runs a single two-team melee, tick by tick, until one side
// is wiped out.
package battle

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/storybrawl/internal/ai"
	"github.com/samdwyer/storybrawl/internal/combat"
	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/geom"
	"github.com/samdwyer/storybrawl/internal/rng"
	"github.com/samdwyer/storybrawl/internal/telemetry"
	"github.com/samdwyer/storybrawl/internal/world"
)

// Config wires a battle to its collaborators. Rules is required; the rest
// default to no-ops and a clock-seeded RNG.
type Config struct {
	Rules  *gamedata.Rules
	RNG    *rand.Rand // AI block rolls
	Sink   StatsSink
	Logger logr.Logger
	Tracer trace.Tracer
	Meter  metric.Meter
}

// Battle is one melee between the knights it was created with.
type Battle struct {
	id       uuid.UUID
	rules    *gamedata.Rules
	arena    *world.Arena
	knights  []*entity.Knight
	stats    *combat.BattleStats
	resolver *combat.Resolver
	policy   *ai.Policy
	events   *EventLog
	sink     StatsSink
	log      logr.Logger
	tracer   trace.Tracer
	counters counters

	ticks     int
	outcome   Outcome
	finalized bool
	report    Report
	sinkErr   error
}

// New starts a battle between knights, usually built by PlaceKnights.
func New(ctx context.Context, knights []*entity.Knight, cfg Config) *Battle {
	if cfg.Logger.GetSink() == nil {
		cfg.Logger = logr.Discard()
	}
	if cfg.Tracer == nil {
		cfg.Tracer = telemetry.NoopTracer()
	}
	if cfg.Meter == nil {
		cfg.Meter = telemetry.NoopMeter()
	}
	if cfg.RNG == nil {
		cfg.RNG = rng.New(0)
	}

	id := uuid.New()
	log := cfg.Logger.WithValues("battle", id.String())
	b := &Battle{
		id:       id,
		rules:    cfg.Rules,
		arena:    world.NewArena(cfg.Rules.Arena),
		knights:  knights,
		stats:    combat.NewBattleStats(),
		resolver: combat.NewResolver(log),
		policy:   ai.NewPolicy(cfg.Rules.AI, cfg.RNG),
		events:   NewEventLog(cfg.Rules.BattleLog.Capacity),
		sink:     cfg.Sink,
		log:      log,
		tracer:   cfg.Tracer,
		counters: newCounters(cfg.Meter),
	}

	left := entity.CountAlive(knights, entity.TeamLeft)
	right := entity.CountAlive(knights, entity.TeamRight)

	_, span := b.tracer.Start(ctx, "battle.start")
	span.SetAttributes(
		attribute.String("battle.id", id.String()),
		attribute.Int("battle.left", left),
		attribute.Int("battle.right", right),
	)
	span.End()

	b.log.Info("battle started", "left", left, "right", right)
	return b
}

// ID returns the battle's unique identifier.
func (b *Battle) ID() uuid.UUID { return b.id }

// Knights returns the knight registry. Index i holds the knight with ID i.
func (b *Battle) Knights() []*entity.Knight { return b.knights }

// Arena returns the battlefield.
func (b *Battle) Arena() *world.Arena { return b.arena }

// Rules returns the rules the battle runs under.
func (b *Battle) Rules() *gamedata.Rules { return b.rules }

// Stats returns this battle's running tallies.
func (b *Battle) Stats() *combat.BattleStats { return b.stats }

// Events returns recent battle messages, newest first.
func (b *Battle) Events() []string { return b.events.Recent() }

// Ticks returns the number of ticks simulated.
func (b *Battle) Ticks() int { return b.ticks }

// Outcome returns the current outcome.
func (b *Battle) Outcome() Outcome { return b.outcome }

// Report returns the final report once the battle has ended.
func (b *Battle) Report() (Report, bool) { return b.report, b.finalized }

// SinkErr returns the error the stats sink reported, if any.
func (b *Battle) SinkErr() error { return b.sinkErr }

// Player returns the player-controlled knight, or nil in an all-AI battle.
func (b *Battle) Player() *entity.Knight {
	for _, k := range b.knights {
		if k.Controller == entity.ControllerPlayer {
			return k
		}
	}
	return nil
}

// Tick advances the battle by one step. Living knights are updated in
// registry order; a knight whose swing reaches its hit-check point is
// resolved immediately, before the next knight moves. Ticking an ended
// battle does nothing.
func (b *Battle) Tick(ctx context.Context, in Input) Outcome {
	if b.outcome.Ended() {
		return b.outcome
	}
	b.ticks++

	for _, k := range b.knights {
		if !k.IsAlive() {
			continue
		}

		switch k.Controller {
		case entity.ControllerPlayer:
			b.applyInput(k, in)
		default:
			ai.Apply(k, b.policy.Decide(k, b.knights))
		}

		k.Pos = b.arena.Clamp(k.Pos, b.rules.Knight.Size)
		k.Advance()

		if k.ConsumeHitCheck() {
			b.resolve(ctx, k)
		}
	}

	if outcome := Evaluate(b.knights); outcome.Ended() {
		b.finish(ctx, outcome)
	}
	return b.outcome
}

// applyInput drives the player's knight from held keys. Each held direction
// moves the knight by its full speed along that axis.
func (b *Battle) applyInput(k *entity.Knight, in Input) {
	if !in.Any() {
		return
	}
	speed := b.rules.Knight.Speed
	turn := b.rules.Knight.RotationSpeed

	if in.RotateCCW {
		k.Rotate(-turn)
	}
	if in.RotateCW {
		k.Rotate(turn)
	}
	if in.Block {
		k.StartBlock()
	}
	if k.IsBlocking() {
		return
	}

	var d geom.Vec2
	if in.Up {
		d.Y -= speed
	}
	if in.Down {
		d.Y += speed
	}
	if in.Left {
		d.X -= speed
	}
	if in.Right {
		d.X += speed
	}
	k.Move(d)

	if in.Attack {
		k.Attack()
	}
}

func (b *Battle) resolve(ctx context.Context, attacker *entity.Knight) {
	team := metric.WithAttributes(attribute.String("team", attacker.Team.String()))
	for _, hit := range b.resolver.ResolveSwing(attacker, b.knights, b.stats) {
		b.events.Add(hit.Message())
		if hit.Kind == combat.HitBlocked {
			b.counters.blocks.Add(ctx, 1, team)
			continue
		}
		b.counters.hits.Add(ctx, 1, team)
		if hit.Killed {
			b.counters.kills.Add(ctx, 1, team)
			b.events.Add(fmt.Sprintf("%s has been defeated!", hit.Target.Name()))
		}
	}
}

// finish records the outcome and hands the report to the sink. It runs at
// most once per battle.
func (b *Battle) finish(ctx context.Context, outcome Outcome) {
	if b.finalized {
		return
	}
	b.finalized = true
	b.outcome = outcome
	b.report = b.buildReport()

	survivors := entity.CountAlive(b.knights, entity.TeamLeft) + entity.CountAlive(b.knights, entity.TeamRight)
	b.events.Add(b.resultMessage())

	ctx, span := b.tracer.Start(ctx, "battle.end")
	defer span.End()
	span.SetAttributes(
		attribute.String("battle.id", b.id.String()),
		attribute.String("battle.outcome", outcome.String()),
		attribute.Int("battle.ticks", b.ticks),
		attribute.Int("battle.survivors", survivors),
	)

	b.log.Info("battle ended", "outcome", outcome.String(), "ticks", b.ticks, "survivors", survivors)

	if b.sink == nil {
		return
	}
	if err := b.sink.Apply(ctx, b.report); err != nil {
		b.sinkErr = err
		span.RecordError(err)
		b.log.Error(err, "failed to record battle stats")
	}
}

func (b *Battle) buildReport() Report {
	winner, hasWinner := b.outcome.Winner()
	deltas := make([]Delta, 0, len(b.knights))
	for _, k := range b.knights {
		tally := b.stats.Get(k.Name())
		deltas = append(deltas, Delta{
			Name:        k.Name(),
			Team:        k.Team,
			Kills:       tally.Kills,
			DamageDealt: tally.DamageDealt,
			Won:         hasWinner && k.Team == winner,
			Survived:    k.IsAlive(),
		})
	}
	return Report{
		BattleID: b.id,
		Outcome:  b.outcome,
		Ticks:    b.ticks,
		Deltas:   deltas,
	}
}

func (b *Battle) resultMessage() string {
	winner, ok := b.outcome.Winner()
	if !ok {
		return "Battle ended in a draw!"
	}
	return fmt.Sprintf("%s wins!", b.TeamName(winner))
}

// TeamName returns the display name configured for team.
func (b *Battle) TeamName(team entity.Team) string {
	if def := b.rules.Team(team.String()); def != nil {
		return def.Name
	}
	return team.String()
}
