package battle

import (
	"math/rand"

	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/geom"
	"github.com/samdwyer/storybrawl/internal/profile"
	"github.com/samdwyer/storybrawl/internal/world"
)

// Entrant is a profile joining one side of a battle.
type Entrant struct {
	Profile    *profile.Profile
	Controller entity.Controller
}

// AI wraps profiles as computer-controlled entrants.
func AI(profiles ...*profile.Profile) []Entrant {
	out := make([]Entrant, len(profiles))
	for i, p := range profiles {
		out[i] = Entrant{Profile: p, Controller: entity.ControllerAI}
	}
	return out
}

// PlaceKnights spawns the left team then the right team at random,
// well-separated points with random facing. Knight IDs are registry indexes.
// It returns the knights and how many had to accept an overlapping position.
func PlaceKnights(left, right []Entrant, arena *world.Arena, rules *gamedata.Rules, rng *rand.Rand) ([]*entity.Knight, int) {
	knights := make([]*entity.Knight, 0, len(left)+len(right))
	taken := make([]geom.Vec2, 0, len(left)+len(right))
	overlaps := 0

	place := func(entrants []Entrant, team entity.Team) {
		for _, e := range entrants {
			pos, ok := arena.FindSpawnPoint(rng, taken, rules.Arena.MinSeparation, rules.Arena.SpawnAttempts)
			if !ok {
				overlaps++
			}
			facing := rng.Float64() * geom.TwoPi
			k := entity.NewKnight(len(knights), e.Profile, team, e.Controller, pos, facing, rules.Knight)
			knights = append(knights, k)
			taken = append(taken, pos)
		}
	}

	place(left, entity.TeamLeft)
	place(right, entity.TeamRight)
	return knights, overlaps
}
