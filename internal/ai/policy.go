// Package ai decides what computer-controlled knights do each tick.
package ai

import (
	"math"
	"math/rand"

	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/geom"
)

// Intent is what a knight wants to do this tick.
type Intent struct {
	TargetID int       // Knight being pursued, entity.NoTarget when idle
	Block    bool      // Raise the shield
	Rotate   float64   // Facing change in radians, bounded by the rotation speed
	Move     geom.Vec2 // Displacement for this tick
	Attack   bool      // Start a swing
}

// Idle reports whether the intent does nothing.
func (i Intent) Idle() bool {
	return !i.Block && !i.Attack && i.Rotate == 0 && i.Move == (geom.Vec2{})
}

// Policy chases the nearest enemy, turns towards it at a bounded rate,
// swings when in range and sometimes blocks incoming attacks.
type Policy struct {
	rules gamedata.AIRules
	rng   *rand.Rand
}

// NewPolicy creates a policy drawing block rolls from rng.
func NewPolicy(rules gamedata.AIRules, rng *rand.Rand) *Policy {
	return &Policy{rules: rules, rng: rng}
}

// Decide returns self's intent for this tick. It refreshes self's cached
// target every RetargetInterval ticks or when the target has died; nothing
// else about self is changed.
func (p *Policy) Decide(self *entity.Knight, knights []*entity.Knight) Intent {
	intent := Intent{TargetID: entity.NoTarget}
	if !self.IsAlive() {
		return intent
	}

	self.ThinkTicks++
	target := Lookup(knights, self.TargetID)
	if self.ThinkTicks%p.rules.RetargetInterval == 0 || target == nil || !target.IsAlive() {
		self.TargetID = NearestEnemy(self, knights)
		target = Lookup(knights, self.TargetID)
	}
	if target == nil {
		return intent
	}
	intent.TargetID = target.ID

	distance := self.Pos.Dist(target.Pos)
	bearing := geom.Bearing(self.Pos, target.Pos)
	facingDiff := geom.AngleDiff(self.Facing, bearing)
	reach := self.AttackRange()
	krules := self.Rules()

	// The roll only happens while threatened so the rng stream does not
	// depend on unrelated knights.
	if target.IsAttacking() && distance < reach*p.rules.BlockRangeFactor &&
		p.rng.Float64() < p.rules.BlockChance &&
		!self.IsBlocking() &&
		math.Abs(facingDiff) < p.rules.BlockFrontHalfCone() {
		intent.Block = true
	}

	if self.IsBlocking() || (intent.Block && self.CanBlock()) {
		return intent
	}

	if math.Abs(facingDiff) > p.rules.RotationDeadzone {
		step := math.Min(krules.RotationSpeed, math.Abs(facingDiff))
		intent.Rotate = math.Copysign(step, facingDiff)
	}

	if distance > reach*p.rules.ApproachFactor {
		intent.Move = geom.FromAngle(bearing).Scale(krules.Speed)
	}

	if distance <= reach && self.AttackCooldown() == 0 {
		intent.Attack = true
	}

	return intent
}

// Apply carries out intent on self.
func Apply(self *entity.Knight, intent Intent) {
	if intent.Idle() {
		return
	}
	if intent.Block {
		self.StartBlock()
	}
	if self.IsBlocking() {
		return
	}
	self.Rotate(intent.Rotate)
	self.Move(intent.Move)
	if intent.Attack {
		self.Attack()
	}
}

// NearestEnemy returns the ID of the closest living knight on the other
// team, or entity.NoTarget. Ties go to the lower ID.
func NearestEnemy(self *entity.Knight, knights []*entity.Knight) int {
	best := entity.NoTarget
	bestDist := math.Inf(1)
	for _, k := range knights {
		if k.Team != self.Team.Opponent() || !k.IsAlive() {
			continue
		}
		if d := self.Pos.Dist(k.Pos); d < bestDist {
			bestDist = d
			best = k.ID
		}
	}
	return best
}

// Lookup resolves a knight ID against the registry, nil if out of range.
func Lookup(knights []*entity.Knight, id int) *entity.Knight {
	if id < 0 || id >= len(knights) {
		return nil
	}
	return knights[id]
}
