package game

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/storybrawl/internal/battle"
	"github.com/samdwyer/storybrawl/internal/render"
	"github.com/samdwyer/storybrawl/internal/roster"
)

// RunHeadless fights cfg.Battles all-AI battles back to back and prints
// each outcome and the final rankings to out. A battle still undecided after
// cfg.MaxTicks is abandoned without touching the roster.
func RunHeadless(ctx context.Context, s *Session, cfg Config, out io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "session.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.mode", string(ModeHeadless)),
		attribute.Int64("session.seed", s.Seed()),
		attribute.Int("session.battles", cfg.Battles),
	)

	var last *battle.Battle
	for i := 1; i <= cfg.Battles; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		b, err := s.StartBattle(ctx, false)
		if err != nil {
			span.RecordError(err)
			return err
		}
		outcome := b.RunFor(ctx, cfg.MaxTicks, battle.NoInput)
		if err := b.SinkErr(); err != nil {
			return fmt.Errorf("record battle %d: %w", i, err)
		}

		fmt.Fprintf(out, "Battle %d (%s): %s after %d ticks\n", i, b.ID(), resultLine(b), b.Ticks())
		if outcome.Ended() {
			report, _ := b.Report()
			writeReport(out, report)
		}
		fmt.Fprintln(out)
		last = b
	}

	writeRankings(out, s.Roster())

	if cfg.SnapshotPath != "" && last != nil {
		if err := Snapshot(last, cfg.SnapshotPath, cfg.SnapshotWidth); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nSnapshot written to %s\n", cfg.SnapshotPath)
	}
	return nil
}

// Snapshot renders b's current frame to a PNG at path.
func Snapshot(b *battle.Battle, path string, width int) error {
	arena := b.Arena()
	surface := render.NewImageSurface(arena.Width, arena.Height, 1)
	render.DrawBattle(surface, b)
	return surface.Save(path, width)
}

func resultLine(b *battle.Battle) string {
	if !b.Outcome().Ended() {
		return "no result"
	}
	if events := b.Events(); len(events) > 0 {
		return events[0]
	}
	return b.Outcome().String()
}

func writeReport(out io.Writer, report battle.Report) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  NAME\tTEAM\tKILLS\tDAMAGE\tWON\tSURVIVED")
	for _, d := range report.Deltas {
		fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\t%v\t%v\n", d.Name, d.Team, d.Kills, d.DamageDealt, d.Won, d.Survived)
	}
	tw.Flush()
}

func writeRankings(out io.Writer, r *roster.Roster) {
	fmt.Fprintln(out, "Rankings")
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  #\tNAME\tTIER\tSCORE\tKILLS\tWINS\tDAMAGE\tGAMES")
	for i, p := range r.Rankings() {
		rec := p.Record
		fmt.Fprintf(tw, "  %d\t%s\t%d\t%d\t%d\t%d\t%d\t%d\n", i+1, p.Name, p.Tier, rec.Score(), rec.Kills, rec.Wins, rec.DamageDealt, rec.GamesPlayed)
	}
	tw.Flush()
}
