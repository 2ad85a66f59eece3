package roster

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/storybrawl/internal/battle"
	"github.com/samdwyer/storybrawl/internal/telemetry"
)

// ErrReportApplied is returned when a battle report is applied twice.
var ErrReportApplied = errors.New("battle report already applied")

// Ledger folds finished battles into the roster's career records. It is the
// battle.StatsSink of a session.
type Ledger struct {
	roster  *Roster
	applied map[uuid.UUID]bool
	log     logr.Logger
	tracer  trace.Tracer
}

var _ battle.StatsSink = (*Ledger)(nil)

// NewLedger creates a ledger writing into r.
func NewLedger(r *Roster, log logr.Logger, tracer trace.Tracer) *Ledger {
	if tracer == nil {
		tracer = telemetry.NoopTracer()
	}
	return &Ledger{
		roster:  r,
		applied: make(map[uuid.UUID]bool),
		log:     log,
		tracer:  tracer,
	}
}

// Apply adds each combatant's kills, damage, win and game played to their
// record. A report whose battle was already applied is rejected and changes
// nothing. Combatants no longer on the roster are skipped.
func (l *Ledger) Apply(ctx context.Context, report battle.Report) error {
	_, span := l.tracer.Start(ctx, "roster.apply")
	defer span.End()
	span.SetAttributes(
		attribute.String("battle.id", report.BattleID.String()),
		attribute.String("battle.outcome", report.Outcome.String()),
	)

	if l.Applied(report.BattleID) {
		err := fmt.Errorf("%w: %s", ErrReportApplied, report.BattleID)
		span.RecordError(err)
		return err
	}
	l.applied[report.BattleID] = true

	updated := 0
	for _, d := range report.Deltas {
		p := l.roster.Get(d.Name)
		if p == nil {
			l.log.V(1).Info("skipping combatant not on roster", "name", d.Name)
			continue
		}
		p.Record.Kills += d.Kills
		p.Record.DamageDealt += d.DamageDealt
		p.Record.GamesPlayed++
		if d.Won {
			p.Record.Wins++
		}
		updated++
		l.log.V(1).Info("record updated",
			"name", d.Name,
			"kills", d.Kills,
			"damage", d.DamageDealt,
			"won", d.Won,
			"score", p.Record.Score())
	}

	span.SetAttributes(attribute.Int("roster.updated", updated))
	l.log.Info("battle recorded", "battle", report.BattleID.String(), "outcome", report.Outcome.String(), "players", updated)
	return nil
}

// Applied reports whether the battle with id has been recorded.
func (l *Ledger) Applied(id uuid.UUID) bool { return l.applied[id] }
