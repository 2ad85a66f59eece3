// Package entity provides the knights that fight in a battle.
package entity

// Team identifies one side of the battle.
type Team int

const (
	TeamLeft Team = iota
	TeamRight
)

// String returns the team identifier used in rules and reports.
func (t Team) String() string {
	switch t {
	case TeamLeft:
		return "left"
	case TeamRight:
		return "right"
	default:
		return "unknown"
	}
}

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamLeft {
		return TeamRight
	}
	return TeamLeft
}

// Controller says who decides a knight's actions each tick.
type Controller int

const (
	ControllerAI Controller = iota
	ControllerPlayer
)

// String returns the controller name.
func (c Controller) String() string {
	switch c {
	case ControllerAI:
		return "ai"
	case ControllerPlayer:
		return "player"
	default:
		return "unknown"
	}
}

// CountAlive returns the number of living knights on team.
func CountAlive(knights []*Knight, team Team) int {
	count := 0
	for _, k := range knights {
		if k.Team == team && k.IsAlive() {
			count++
		}
	}
	return count
}
