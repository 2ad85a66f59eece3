// Package game wires the roster, battles and frontends into a playable
// session.
package game

// State represents the current screen of the terminal game.
type State int

const (
	// StateBattle is the live battle, updated every tick.
	StateBattle State = iota
	// StateResult shows the outcome and rankings until the next battle.
	StateResult
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateBattle:
		return "battle"
	case StateResult:
		return "result"
	default:
		return "unknown"
	}
}
