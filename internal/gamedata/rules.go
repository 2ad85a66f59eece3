package gamedata

import (
	"errors"
	"fmt"
	"math"
)

// =============================================================================
// COMBAT RULES
// =============================================================================
//
// Every tunable number of the simulation lives in rules.yaml. Durations are
// counted in ticks (the battle loop runs at 60 ticks per second), angles are
// written in degrees and converted to radians on access, distances are in
// arena units (the arena is 1400x800 by default).
//
// Cones are stored as their total opening angle. A 60 degree attack cone hits
// anything within 30 degrees either side of the attacker's facing; the block
// cone is wider so a defender facing the attacker always covers the swing.
//
// Timeline of a swing (defaults):
//   tick 0      attack() - cooldown 120, swing starts
//   tick 10     swing half way - the single hit-check fires
//   tick 20     swing animation ends
//   tick 120    cooldown reaches 0 - knight is idle again
//
// Timeline of a block (defaults):
//   tick 0      startBlock() - block held for 30 ticks
//   tick 30     block drops - block cooldown 90
//   tick 120    block available again

// ArenaRules describes the battlefield and spawn placement.
type ArenaRules struct {
	Width         float64 `yaml:"width"`
	Height        float64 `yaml:"height"`
	HUDHeight     float64 `yaml:"hudHeight"`     // Band at the top knights may not enter
	SpawnMargin   float64 `yaml:"spawnMargin"`   // Inset from every edge for spawn positions
	MinSeparation float64 `yaml:"minSeparation"` // Preferred distance between spawned knights
	SpawnAttempts int     `yaml:"spawnAttempts"` // Rejection attempts before accepting overlap
}

// KnightRules describes knight movement and combat timing.
type KnightRules struct {
	Size           float64 `yaml:"size"`
	Speed          float64 `yaml:"speed"`         // Units per tick
	RotationSpeed  float64 `yaml:"rotationSpeed"` // Radians per tick
	AttackCone     float64 `yaml:"attackCone"`    // Degrees, total
	AttackCooldown int     `yaml:"attackCooldown"`
	SwingDuration  int     `yaml:"swingDuration"`
	BlockCone      float64 `yaml:"blockCone"` // Degrees, total
	BlockDuration  int     `yaml:"blockDuration"`
	BlockCooldown  int     `yaml:"blockCooldown"`
}

// AttackHalfCone returns half the attack cone in radians.
func (k KnightRules) AttackHalfCone() float64 { return Radians(k.AttackCone) / 2 }

// BlockHalfCone returns half the block cone in radians.
func (k KnightRules) BlockHalfCone() float64 { return Radians(k.BlockCone) / 2 }

// AIRules tunes the computer-controlled knights.
type AIRules struct {
	RetargetInterval int     `yaml:"retargetInterval"`
	BlockChance      float64 `yaml:"blockChance"`      // Per-tick probability while threatened
	BlockRangeFactor float64 `yaml:"blockRangeFactor"` // Threat range as a multiple of own attack range
	BlockFrontCone   float64 `yaml:"blockFrontCone"`   // Degrees, total; threat must be inside it
	ApproachFactor   float64 `yaml:"approachFactor"`   // Stop closing in below this multiple of range
	RotationDeadzone float64 `yaml:"rotationDeadzone"` // Radians
}

// BlockFrontHalfCone returns half the AI front cone in radians.
func (a AIRules) BlockFrontHalfCone() float64 { return Radians(a.BlockFrontCone) / 2 }

// LogRules sizes the on-screen battle log.
type LogRules struct {
	Capacity int `yaml:"capacity"`
}

// Rules is the full rules document.
type Rules struct {
	Arena     ArenaRules  `yaml:"arena"`
	Knight    KnightRules `yaml:"knight"`
	AI        AIRules     `yaml:"ai"`
	BattleLog LogRules    `yaml:"battleLog"`
	Teams     []TeamDef   `yaml:"teams"`
}

// Validate checks that the rules describe a playable battle.
func (r *Rules) Validate() error {
	var errs []error
	positive := func(name string, v float64) {
		if v <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %v", name, v))
		}
	}

	positive("arena.width", r.Arena.Width)
	positive("arena.height", r.Arena.Height)
	positive("arena.spawnAttempts", float64(r.Arena.SpawnAttempts))
	if 2*r.Arena.SpawnMargin >= r.Arena.Width || 2*r.Arena.SpawnMargin >= r.Arena.Height {
		errs = append(errs, fmt.Errorf("arena.spawnMargin %v leaves no room to spawn", r.Arena.SpawnMargin))
	}
	positive("knight.size", r.Knight.Size)
	positive("knight.speed", r.Knight.Speed)
	positive("knight.rotationSpeed", r.Knight.RotationSpeed)
	positive("knight.attackCone", r.Knight.AttackCone)
	positive("knight.attackCooldown", float64(r.Knight.AttackCooldown))
	positive("knight.swingDuration", float64(r.Knight.SwingDuration))
	positive("knight.blockCone", r.Knight.BlockCone)
	positive("knight.blockDuration", float64(r.Knight.BlockDuration))
	positive("knight.blockCooldown", float64(r.Knight.BlockCooldown))
	positive("ai.retargetInterval", float64(r.AI.RetargetInterval))
	positive("battleLog.capacity", float64(r.BattleLog.Capacity))

	if r.Knight.SwingDuration > r.Knight.AttackCooldown {
		errs = append(errs, errors.New("knight.swingDuration must not exceed knight.attackCooldown"))
	}
	if r.AI.BlockChance < 0 || r.AI.BlockChance > 1 {
		errs = append(errs, fmt.Errorf("ai.blockChance must be within [0,1], got %v", r.AI.BlockChance))
	}
	if len(r.Teams) != 2 {
		errs = append(errs, fmt.Errorf("exactly two teams required, got %d", len(r.Teams)))
	}
	for _, t := range r.Teams {
		if _, err := ParseHexColor(t.Color); err != nil {
			errs = append(errs, fmt.Errorf("team %s: %w", t.ID, err))
		}
	}

	return errors.Join(errs...)
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// LoadRules loads the embedded rules.yaml.
func LoadRules() (*Rules, error) {
	rules, err := Load[Rules]("rules.yaml")
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid embedded rules: %w", err)
	}
	return &rules, nil
}

// LoadRulesFile loads rules from a YAML file on disk.
func LoadRulesFile(path string) (*Rules, error) {
	rules, err := LoadFile[Rules](path)
	if err != nil {
		return nil, err
	}
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rules in %s: %w", path, err)
	}
	return &rules, nil
}

// MustLoadRules loads the embedded rules, panicking on error.
func MustLoadRules() *Rules {
	rules, err := LoadRules()
	if err != nil {
		panic(err)
	}
	return rules
}
