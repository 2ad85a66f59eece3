// Package world describes the battlefield knights move in.
package world

import (
	"math/rand"

	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/geom"
)

// Arena is the rectangular battlefield. The top HUDHeight band is reserved
// for team banners and is never entered.
type Arena struct {
	Width     float64
	Height    float64
	HUDHeight float64
	Margin    float64 // Spawn inset from every edge
}

// NewArena creates an arena from rules.
func NewArena(r gamedata.ArenaRules) *Arena {
	return &Arena{
		Width:     r.Width,
		Height:    r.Height,
		HUDHeight: r.HUDHeight,
		Margin:    r.SpawnMargin,
	}
}

// Clamp keeps a body of the given size inside the playable area.
func (a *Arena) Clamp(p geom.Vec2, size float64) geom.Vec2 {
	return geom.Vec2{
		X: geom.Clamp(p.X, size, a.Width-size),
		Y: geom.Clamp(p.Y, size+a.HUDHeight, a.Height-size),
	}
}

// RandomSpawnPoint returns a uniformly random point inside the spawn margin.
func (a *Arena) RandomSpawnPoint(rng *rand.Rand) geom.Vec2 {
	return geom.Vec2{
		X: a.Margin + rng.Float64()*(a.Width-2*a.Margin),
		Y: a.Margin + rng.Float64()*(a.Height-2*a.Margin),
	}
}

// FindSpawnPoint draws random spawn points until one is at least minSep away
// from every point in taken, giving up after attempts tries. On give-up it
// returns one more random point and false; placement never fails.
func (a *Arena) FindSpawnPoint(rng *rand.Rand, taken []geom.Vec2, minSep float64, attempts int) (geom.Vec2, bool) {
	for i := 0; i < attempts; i++ {
		p := a.RandomSpawnPoint(rng)
		if !tooClose(p, taken, minSep) {
			return p, true
		}
	}
	return a.RandomSpawnPoint(rng), false
}

func tooClose(p geom.Vec2, taken []geom.Vec2, minSep float64) bool {
	for _, q := range taken {
		if p.Dist(q) < minSep {
			return true
		}
	}
	return false
}
