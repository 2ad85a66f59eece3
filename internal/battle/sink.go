package battle

import (
	"context"

	"github.com/google/uuid"

	"github.com/samdwyer/storybrawl/internal/entity"
)

// Delta is one combatant's result from a finished battle.
type Delta struct {
	Name        string
	Team        entity.Team
	Kills       int
	DamageDealt int
	Won         bool
	Survived    bool
}

// Report is produced once per battle when it ends.
type Report struct {
	BattleID uuid.UUID
	Outcome  Outcome
	Ticks    int
	Deltas   []Delta // Registry order
}

// Delta returns name's delta, or false if name did not fight.
func (r Report) Delta(name string) (Delta, bool) {
	for _, d := range r.Deltas {
		if d.Name == name {
			return d, true
		}
	}
	return Delta{}, false
}

// StatsSink persists battle results. Apply is called at most once per battle.
type StatsSink interface {
	Apply(ctx context.Context, report Report) error
}
