package entity

import (
	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/geom"
	"github.com/samdwyer/storybrawl/internal/profile"
)

// NoTarget marks a knight without a cached AI target.
const NoTarget = -1

// Phase is the exclusive combat state of a knight.
type Phase int

const (
	// PhaseIdle - free to move, attack or block
	PhaseIdle Phase = iota
	// PhaseAttacking - swing in progress or attack cooldown running
	PhaseAttacking
	// PhaseBlocking - shield raised, cannot move or attack
	PhaseBlocking
	// PhaseDead - terminal
	PhaseDead
)

// String returns a human-readable phase name.
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAttacking:
		return "attacking"
	case PhaseBlocking:
		return "blocking"
	case PhaseDead:
		return "dead"
	default:
		return "unknown"
	}
}

// Knight is a battle instance of a profile.
type Knight struct {
	ID         int              // Index in the battle's knight registry
	Profile    *profile.Profile // Never nil
	Team       Team
	Controller Controller
	Pos        geom.Vec2
	Facing     float64 // Radians in [0, 2π)

	// AI bookkeeping. TargetID is a registry index, never an owning reference.
	TargetID   int
	ThinkTicks int

	rules gamedata.KnightRules
	hp    int
	phase Phase

	attackCooldown int
	swinging       bool
	swingTicks     int
	damageLatched  bool
	hitCheckDue    bool

	blockTimer    int
	blockCooldown int
}

// NewKnight creates a knight at full health for the given profile.
func NewKnight(id int, p *profile.Profile, team Team, ctrl Controller, pos geom.Vec2, facing float64, rules gamedata.KnightRules) *Knight {
	return &Knight{
		ID:         id,
		Profile:    p,
		Team:       team,
		Controller: ctrl,
		Pos:        pos,
		Facing:     geom.NormalizeAngle(facing),
		TargetID:   NoTarget,
		rules:      rules,
		hp:         p.MaxHealth(),
		phase:      PhaseIdle,
	}
}

// Name returns the profile name.
func (k *Knight) Name() string { return k.Profile.Name }

// IsAlive returns true if the knight has health remaining.
func (k *Knight) IsAlive() bool { return k.hp > 0 }

// HP returns current health.
func (k *Knight) HP() int { return k.hp }

// MaxHP returns the profile's maximum health.
func (k *Knight) MaxHP() int { return k.Profile.MaxHealth() }

// Damage returns damage dealt per unblocked hit.
func (k *Knight) Damage() int { return k.Profile.Damage() }

// AttackRange returns the reach of a swing in arena units.
func (k *Knight) AttackRange() float64 { return float64(k.Profile.AttackRange()) }

// Rules returns the knight tuning this knight was created with.
func (k *Knight) Rules() gamedata.KnightRules { return k.rules }

// Phase returns the current combat phase.
func (k *Knight) Phase() Phase { return k.phase }

// IsAttacking is true from attack() until the attack cooldown expires.
func (k *Knight) IsAttacking() bool { return k.phase == PhaseAttacking }

// IsBlocking is true while the shield is raised.
func (k *Knight) IsBlocking() bool { return k.phase == PhaseBlocking }

// IsSwinging is true while the sword animation runs.
func (k *Knight) IsSwinging() bool { return k.swinging }

// SwingProgress returns the swing animation progress in [0, 1).
func (k *Knight) SwingProgress() float64 {
	if !k.swinging {
		return 0
	}
	return float64(k.swingTicks) / float64(k.rules.SwingDuration)
}

// AttackCooldown returns ticks until the next attack is allowed.
func (k *Knight) AttackCooldown() int { return k.attackCooldown }

// BlockTimer returns ticks left on the current block.
func (k *Knight) BlockTimer() int { return k.blockTimer }

// BlockCooldown returns ticks until a block may be raised again.
func (k *Knight) BlockCooldown() int { return k.blockCooldown }

// CanAttack reports whether Attack would succeed.
func (k *Knight) CanAttack() bool {
	return k.phase == PhaseIdle && k.attackCooldown == 0
}

// CanBlock reports whether StartBlock would succeed.
func (k *Knight) CanBlock() bool {
	return k.phase == PhaseIdle && k.blockCooldown == 0
}

// Attack starts a swing. It is a no-op unless the knight is idle and off
// cooldown, and returns whether the swing started.
func (k *Knight) Attack() bool {
	if !k.CanAttack() {
		return false
	}
	k.phase = PhaseAttacking
	k.attackCooldown = k.rules.AttackCooldown
	k.swinging = true
	k.swingTicks = 0
	k.damageLatched = false
	return true
}

// StartBlock raises the shield. It is a no-op unless the knight is idle and
// the block cooldown has elapsed, and returns whether the block started.
func (k *Knight) StartBlock() bool {
	if !k.CanBlock() {
		return false
	}
	k.phase = PhaseBlocking
	k.blockTimer = k.rules.BlockDuration
	return true
}

// Advance runs the knight's timers for one tick: swing progress, block hold,
// block cooldown and attack cooldown, in that order.
func (k *Knight) Advance() {
	if k.phase == PhaseDead {
		return
	}

	if k.swinging {
		k.swingTicks++
		// Single hit-check at the half-way point of the swing.
		if !k.damageLatched && 2*k.swingTicks >= k.rules.SwingDuration {
			k.hitCheckDue = true
			k.damageLatched = true
		}
		if k.swingTicks >= k.rules.SwingDuration {
			k.swinging = false
			k.swingTicks = 0
		}
	}

	if k.phase == PhaseBlocking {
		k.blockTimer--
		if k.blockTimer <= 0 {
			k.blockTimer = 0
			k.phase = PhaseIdle
			k.blockCooldown = k.rules.BlockCooldown
		}
	}

	if k.blockCooldown > 0 {
		k.blockCooldown--
	}

	if k.attackCooldown > 0 {
		k.attackCooldown--
		if k.attackCooldown == 0 && k.phase == PhaseAttacking {
			k.phase = PhaseIdle
		}
	}
}

// ConsumeHitCheck returns true exactly once per swing, on the tick the swing
// reached its hit-check point.
func (k *Knight) ConsumeHitCheck() bool {
	if !k.hitCheckDue {
		return false
	}
	k.hitCheckDue = false
	return k.IsAlive()
}

// TakeDamage reduces health, clamped at zero, and returns the damage taken.
func (k *Knight) TakeDamage(amount int) int {
	if amount <= 0 || !k.IsAlive() {
		return 0
	}
	actual := amount
	if actual > k.hp {
		actual = k.hp
	}
	k.hp -= actual
	if k.hp == 0 {
		k.die()
	}
	return actual
}

func (k *Knight) die() {
	k.phase = PhaseDead
	k.swinging = false
	k.swingTicks = 0
	k.hitCheckDue = false
	k.blockTimer = 0
	k.TargetID = NoTarget
}

// Rotate turns the knight by delta radians.
func (k *Knight) Rotate(delta float64) {
	if !k.IsAlive() {
		return
	}
	k.Facing = geom.NormalizeAngle(k.Facing + delta)
}

// Move displaces the knight by delta. Blocking and dead knights stay put.
func (k *Knight) Move(delta geom.Vec2) {
	if !k.CanMove() {
		return
	}
	k.Pos = k.Pos.Add(delta)
}

// CanMove reports whether the knight may change position this tick.
func (k *Knight) CanMove() bool {
	return k.IsAlive() && k.phase != PhaseBlocking
}
