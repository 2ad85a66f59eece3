package battle

import "github.com/samdwyer/storybrawl/internal/entity"

// Outcome is the state of a battle after a tick.
type Outcome int

const (
	// OutcomeOngoing - both teams still have living knights
	OutcomeOngoing Outcome = iota
	// OutcomeLeftWins - only the left team has survivors
	OutcomeLeftWins
	// OutcomeRightWins - only the right team has survivors
	OutcomeRightWins
	// OutcomeDraw - nobody is left standing
	OutcomeDraw
)

// String returns a human-readable outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOngoing:
		return "ongoing"
	case OutcomeLeftWins:
		return "left wins"
	case OutcomeRightWins:
		return "right wins"
	case OutcomeDraw:
		return "draw"
	default:
		return "unknown"
	}
}

// Ended reports whether the outcome is terminal.
func (o Outcome) Ended() bool { return o != OutcomeOngoing }

// Winner returns the winning team. ok is false for draws and ongoing battles.
func (o Outcome) Winner() (team entity.Team, ok bool) {
	switch o {
	case OutcomeLeftWins:
		return entity.TeamLeft, true
	case OutcomeRightWins:
		return entity.TeamRight, true
	default:
		return 0, false
	}
}

// Evaluate decides the outcome from the living knights on each side.
func Evaluate(knights []*entity.Knight) Outcome {
	left := entity.CountAlive(knights, entity.TeamLeft)
	right := entity.CountAlive(knights, entity.TeamRight)
	switch {
	case left == 0 && right == 0:
		return OutcomeDraw
	case left == 0:
		return OutcomeRightWins
	case right == 0:
		return OutcomeLeftWins
	default:
		return OutcomeOngoing
	}
}
