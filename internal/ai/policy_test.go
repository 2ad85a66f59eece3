package ai

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/geom"
	"github.com/samdwyer/storybrawl/internal/profile"
)

// All fixture knights have 48 range: approach stops at 38.4, block threat
// range is 72.
func spawn(rules *gamedata.Rules, knights *[]*entity.Knight, team entity.Team, x, y, facing float64) *entity.Knight {
	p := profile.FromTraits("K", 1, [profile.TraitCount]int{1, 1, 1, 1, 1})
	k := entity.NewKnight(len(*knights), p, team, entity.ControllerAI, geom.Vec2{X: x, Y: y}, facing, rules.Knight)
	*knights = append(*knights, k)
	return k
}

func newPolicy(rules *gamedata.Rules, seed int64) *Policy {
	return NewPolicy(rules.AI, rand.New(rand.NewSource(seed)))
}

func TestDecideIdleWithoutEnemies(t *testing.T) {
	rules := gamedata.MustLoadRules()
	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 100, 100, 0)
	spawn(rules, &knights, entity.TeamLeft, 200, 100, 0)
	dead := spawn(rules, &knights, entity.TeamRight, 150, 100, 0)
	dead.TakeDamage(1000)

	intent := newPolicy(rules, 1).Decide(self, knights)

	assert.True(t, intent.Idle())
	assert.Equal(t, entity.NoTarget, intent.TargetID)
	assert.Equal(t, entity.NoTarget, self.TargetID)
}

func TestDecideTargetsNearestEnemy(t *testing.T) {
	rules := gamedata.MustLoadRules()
	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 100, 100, 0)
	spawn(rules, &knights, entity.TeamRight, 400, 100, 0)
	near := spawn(rules, &knights, entity.TeamRight, 100, 300, 0)
	spawn(rules, &knights, entity.TeamLeft, 110, 100, 0) // closer, but a teammate

	intent := newPolicy(rules, 1).Decide(self, knights)

	assert.Equal(t, near.ID, intent.TargetID)
	assert.Equal(t, near.ID, self.TargetID)
}

func TestDecideKeepsTargetUntilRetarget(t *testing.T) {
	rules := gamedata.MustLoadRules()
	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 100, 400, 0)
	first := spawn(rules, &knights, entity.TeamRight, 400, 400, 0)
	policy := newPolicy(rules, 1)

	require.Equal(t, first.ID, policy.Decide(self, knights).TargetID)

	// A closer enemy appears; the cached target holds until the interval.
	closer := spawn(rules, &knights, entity.TeamRight, 200, 400, 0)
	for tick := 2; tick < rules.AI.RetargetInterval; tick++ {
		require.Equal(t, first.ID, policy.Decide(self, knights).TargetID, "tick %d", tick)
	}
	assert.Equal(t, closer.ID, policy.Decide(self, knights).TargetID)
}

func TestDecideRetargetsWhenTargetDies(t *testing.T) {
	rules := gamedata.MustLoadRules()
	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 100, 400, 0)
	first := spawn(rules, &knights, entity.TeamRight, 200, 400, 0)
	second := spawn(rules, &knights, entity.TeamRight, 500, 400, 0)
	policy := newPolicy(rules, 1)

	require.Equal(t, first.ID, policy.Decide(self, knights).TargetID)
	first.TakeDamage(1000)

	assert.Equal(t, second.ID, policy.Decide(self, knights).TargetID)
}

func TestDecideRotationIsBounded(t *testing.T) {
	rules := gamedata.MustLoadRules()
	speed := rules.Knight.RotationSpeed

	tests := []struct {
		name       string
		tx, ty     float64
		wantRotate float64
	}{
		{"quarter turn left", 100, 300, speed},
		{"quarter turn right", 100, -100, -speed},
		{"behind", -100, 100, speed}, // +π is the normalized difference
		{"inside deadzone", 300, 110, 0},
	}

	for _, tt := range tests {
		var knights []*entity.Knight
		self := spawn(rules, &knights, entity.TeamLeft, 100, 100, 0)
		spawn(rules, &knights, entity.TeamRight, tt.tx, tt.ty, 0)

		intent := newPolicy(rules, 1).Decide(self, knights)
		assert.InDelta(t, tt.wantRotate, intent.Rotate, 1e-9, tt.name)
	}
}

func TestDecideSmallTurnDoesNotOvershoot(t *testing.T) {
	rules := gamedata.MustLoadRules()
	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 100, 100, 0)
	bearing := rules.AI.RotationDeadzone + 0.02 // less than one rotation step
	spawn(rules, &knights, entity.TeamRight, 100+300*math.Cos(bearing), 100+300*math.Sin(bearing), 0)

	intent := newPolicy(rules, 1).Decide(self, knights)

	assert.InDelta(t, bearing, intent.Rotate, 1e-9)
}

func TestDecideApproachAndAttack(t *testing.T) {
	rules := gamedata.MustLoadRules()

	tests := []struct {
		name       string
		distance   float64
		wantMove   bool
		wantAttack bool
	}{
		{"far away", 300, true, false},
		{"inside range, outside approach", 45, true, true},
		{"inside approach", 30, false, true},
	}

	for _, tt := range tests {
		var knights []*entity.Knight
		self := spawn(rules, &knights, entity.TeamLeft, 500, 400, 0)
		spawn(rules, &knights, entity.TeamRight, 500+tt.distance, 400, math.Pi)

		intent := newPolicy(rules, 1).Decide(self, knights)

		if tt.wantMove {
			assert.InDelta(t, rules.Knight.Speed, intent.Move.Len(), 1e-9, tt.name)
			assert.Greater(t, intent.Move.X, 0.0, tt.name)
		} else {
			assert.Equal(t, geom.Vec2{}, intent.Move, tt.name)
		}
		assert.Equal(t, tt.wantAttack, intent.Attack, tt.name)
	}
}

func TestDecideNoAttackOnCooldown(t *testing.T) {
	rules := gamedata.MustLoadRules()
	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 500, 400, 0)
	spawn(rules, &knights, entity.TeamRight, 530, 400, math.Pi)
	require.True(t, self.Attack())
	self.Advance()

	intent := newPolicy(rules, 1).Decide(self, knights)

	assert.False(t, intent.Attack)
}

func TestDecideBlocksIncomingAttack(t *testing.T) {
	rules := gamedata.MustLoadRules()
	rules.AI.BlockChance = 1

	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 500, 400, 0)
	enemy := spawn(rules, &knights, entity.TeamRight, 560, 400, math.Pi)
	require.True(t, enemy.Attack())

	intent := newPolicy(rules, 1).Decide(self, knights)

	assert.True(t, intent.Block)
	assert.Zero(t, intent.Rotate)
	assert.Equal(t, geom.Vec2{}, intent.Move)
	assert.False(t, intent.Attack)

	Apply(self, intent)
	assert.True(t, self.IsBlocking())
	assert.Equal(t, geom.Vec2{X: 500, Y: 400}, self.Pos)
}

func TestDecideDoesNotBlockThreatBehind(t *testing.T) {
	rules := gamedata.MustLoadRules()
	rules.AI.BlockChance = 1

	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 500, 400, math.Pi) // facing away
	enemy := spawn(rules, &knights, entity.TeamRight, 560, 400, math.Pi)
	require.True(t, enemy.Attack())

	intent := newPolicy(rules, 1).Decide(self, knights)

	assert.False(t, intent.Block)
	assert.NotZero(t, intent.Rotate)
}

func TestDecideNeverBlocks(t *testing.T) {
	rules := gamedata.MustLoadRules()
	rules.AI.BlockChance = 0

	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 500, 400, 0)
	enemy := spawn(rules, &knights, entity.TeamRight, 560, 400, math.Pi)
	require.True(t, enemy.Attack())

	policy := newPolicy(rules, 1)
	for i := 0; i < 50; i++ {
		assert.False(t, policy.Decide(self, knights).Block)
	}
}

func TestApplyWhileBlockingOnlyHolds(t *testing.T) {
	rules := gamedata.MustLoadRules()
	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 500, 400, 0)
	require.True(t, self.StartBlock())

	Apply(self, Intent{Rotate: 0.05, Move: geom.Vec2{X: 1}, Attack: true})

	assert.Equal(t, geom.Vec2{X: 500, Y: 400}, self.Pos)
	assert.Zero(t, self.Facing)
	assert.True(t, self.IsBlocking())
	assert.False(t, self.IsAttacking())
}

func TestApplyIdleIntent(t *testing.T) {
	rules := gamedata.MustLoadRules()
	var knights []*entity.Knight
	self := spawn(rules, &knights, entity.TeamLeft, 500, 400, 0.5)

	Apply(self, Intent{TargetID: 3})

	assert.Equal(t, geom.Vec2{X: 500, Y: 400}, self.Pos)
	assert.Equal(t, 0.5, self.Facing)
	assert.Equal(t, entity.PhaseIdle, self.Phase())
}

func TestDecideDeterministic(t *testing.T) {
	rules := gamedata.MustLoadRules()
	run := func() []Intent {
		var knights []*entity.Knight
		self := spawn(rules, &knights, entity.TeamLeft, 500, 400, 0)
		enemy := spawn(rules, &knights, entity.TeamRight, 560, 400, math.Pi)
		enemy.Attack()
		policy := newPolicy(rules, 99)
		var out []Intent
		for i := 0; i < 40; i++ {
			out = append(out, policy.Decide(self, knights))
		}
		return out
	}

	assert.Equal(t, run(), run())
}
