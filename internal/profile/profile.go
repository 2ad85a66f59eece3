// Package profile holds the persistent combatant records that knights are built from.
package profile

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
)

// TraitCount is the number of independently rolled trait levels.
const TraitCount = 5

// Trait levels are rolled uniformly in [MinTrait, MaxTrait].
const (
	MinTrait = 1
	MaxTrait = 5
)

// Base stats before trait bonuses.
const (
	BaseHealth = 20
	BaseDamage = 5
	BaseRange  = 40
)

// Trait slots. Each slot feeds one or more derived stats.
const (
	TraitVitality = iota // +3 health per level
	TraitStrength        // +2 damage per level
	TraitValor           // +1 health and +1 damage per level
	TraitReach           // +7.5 range per level
	TraitFury            // +1.5 damage per level
)

// Tiers are the story-point values a player may carry.
var Tiers = []int{1, 2, 3, 5, 8, 13, 21, 34}

// ErrInvalidTier is returned for story points outside Tiers.
var ErrInvalidTier = errors.New("invalid tier")

// ValidTier reports whether tier is one of Tiers.
func ValidTier(tier int) bool {
	for _, t := range Tiers {
		if t == tier {
			return true
		}
	}
	return false
}

// ParseTier parses and validates a tier string.
func ParseTier(s string) (int, error) {
	tier, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTier, s)
	}
	if !ValidTier(tier) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidTier, tier)
	}
	return tier, nil
}

// Record accumulates a player's career statistics. It only changes between
// battles, when a battle report is folded in.
type Record struct {
	Kills       int
	DamageDealt int
	Wins        int
	GamesPlayed int
}

// Score ranks players: 10 per kill, 50 per win, 1 per 10 damage dealt.
func (r Record) Score() int {
	return r.Kills*10 + r.Wins*50 + r.DamageDealt/10
}

// Profile is a combatant's persistent identity and derived combat stats.
// Stats are computed once by Generate and never recomputed.
type Profile struct {
	Name   string
	Tier   int
	Traits [TraitCount]int

	maxHealth   int
	damage      int
	attackRange int

	Record Record
}

// Generate rolls traits for a new profile from rng and derives its stats.
// The tier does not influence the rolls.
func Generate(name string, tier int, rng *rand.Rand) *Profile {
	var traits [TraitCount]int
	for i := range traits {
		traits[i] = MinTrait + rng.Intn(MaxTrait-MinTrait+1)
	}
	return FromTraits(name, tier, traits)
}

// FromTraits builds a profile from known trait levels.
func FromTraits(name string, tier int, traits [TraitCount]int) *Profile {
	p := &Profile{Name: name, Tier: tier, Traits: traits}
	p.maxHealth, p.damage, p.attackRange = deriveStats(traits)
	return p
}

// deriveStats sums every trait contribution and rounds once at the end.
func deriveStats(t [TraitCount]int) (health, damage, attackRange int) {
	health = BaseHealth + t[TraitVitality]*3 + t[TraitValor]

	dmg := float64(BaseDamage) +
		float64(t[TraitStrength]*2) +
		float64(t[TraitValor]) +
		float64(t[TraitFury])*1.5
	damage = int(roundHalfUp(dmg))

	attackRange = int(roundHalfUp(float64(BaseRange) + float64(t[TraitReach])*7.5))
	return health, damage, attackRange
}

// roundHalfUp rounds .5 towards +Inf.
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}

// MaxHealth returns the derived maximum health.
func (p *Profile) MaxHealth() int { return p.maxHealth }

// Damage returns the derived damage per hit.
func (p *Profile) Damage() int { return p.damage }

// AttackRange returns the derived attack range in arena units.
func (p *Profile) AttackRange() int { return p.attackRange }

// String summarizes the profile for listings.
func (p *Profile) String() string {
	return fmt.Sprintf("%s (SP %d) HP: %d, Dmg: %d, Range: %d",
		p.Name, p.Tier, p.maxHealth, p.damage, p.attackRange)
}
