// Package combat resolves sword swings between knights.
package combat

import (
	"fmt"

	"github.com/go-logr/logr"

	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/geom"
)

// HitKind says how a swing met a target.
type HitKind int

const (
	// HitLanded - damage applied
	HitLanded HitKind = iota
	// HitBlocked - swing met a raised shield, no damage
	HitBlocked
)

// String returns a human-readable hit kind.
func (h HitKind) String() string {
	switch h {
	case HitLanded:
		return "landed"
	case HitBlocked:
		return "blocked"
	default:
		return "unknown"
	}
}

// HitResult describes one target caught by a swing.
type HitResult struct {
	Attacker *entity.Knight
	Target   *entity.Knight
	Kind     HitKind
	Damage   int  // Damage applied; zero when blocked
	Killed   bool // Target died from this hit
}

// Message returns the battle-log line for the hit.
func (h HitResult) Message() string {
	if h.Kind == HitBlocked {
		return fmt.Sprintf("%s BLOCKED attack from %s!", h.Target.Name(), h.Attacker.Name())
	}
	return fmt.Sprintf("%s hit %s for %d damage!", h.Attacker.Name(), h.Target.Name(), h.Damage)
}

// Resolver applies swings to the knights around the attacker.
type Resolver struct {
	log logr.Logger
}

// NewResolver creates a resolver that logs hits at V(1).
func NewResolver(log logr.Logger) *Resolver {
	return &Resolver{log: log}
}

// ResolveSwing evaluates a swing at its hit-check point against every living
// enemy. All enemies inside range and cone are hit in one pass. Damage and
// kills are credited to the attacker in stats.
func (r *Resolver) ResolveSwing(attacker *entity.Knight, knights []*entity.Knight, stats *BattleStats) []HitResult {
	if !attacker.IsAlive() {
		return nil
	}

	var results []HitResult
	for _, target := range knights {
		if target == attacker || target.Team != attacker.Team.Opponent() || !target.IsAlive() {
			continue
		}
		if !InReach(attacker, target) {
			continue
		}

		if Blocks(target, attacker) {
			results = append(results, HitResult{Attacker: attacker, Target: target, Kind: HitBlocked})
			r.log.V(1).Info("swing blocked", "attacker", attacker.Name(), "defender", target.Name())
			continue
		}

		damage := attacker.Damage()
		target.TakeDamage(damage)
		result := HitResult{
			Attacker: attacker,
			Target:   target,
			Kind:     HitLanded,
			Damage:   damage,
			Killed:   !target.IsAlive(),
		}
		if stats != nil {
			stats.RecordDamage(attacker.Name(), damage)
			if result.Killed {
				stats.RecordKill(attacker.Name())
			}
		}
		r.log.V(1).Info("swing landed",
			"attacker", attacker.Name(),
			"target", target.Name(),
			"damage", damage,
			"targetHP", target.HP(),
			"killed", result.Killed)
		results = append(results, result)
	}
	return results
}

// InReach reports whether target is within attacker's range and attack cone.
func InReach(attacker, target *entity.Knight) bool {
	if attacker.Pos.Dist(target.Pos) > attacker.AttackRange() {
		return false
	}
	return geom.InCone(attacker.Pos, attacker.Facing, target.Pos, attacker.Rules().AttackHalfCone())
}

// Blocks reports whether defender's raised shield covers a swing from attacker.
func Blocks(defender, attacker *entity.Knight) bool {
	if !defender.IsBlocking() {
		return false
	}
	return geom.InCone(defender.Pos, defender.Facing, attacker.Pos, defender.Rules().BlockHalfCone())
}
