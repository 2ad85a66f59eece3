package combat

// Tally is one combatant's contribution to a single battle.
type Tally struct {
	Kills       int
	DamageDealt int
}

// BattleStats accumulates per-combatant tallies for the current battle,
// keyed by profile name.
type BattleStats struct {
	tallies map[string]*Tally
	order   []string
}

// NewBattleStats creates an empty accumulator.
func NewBattleStats() *BattleStats {
	return &BattleStats{tallies: make(map[string]*Tally)}
}

func (s *BattleStats) tally(name string) *Tally {
	t, ok := s.tallies[name]
	if !ok {
		t = &Tally{}
		s.tallies[name] = t
		s.order = append(s.order, name)
	}
	return t
}

// RecordDamage adds dealt damage to name's tally.
func (s *BattleStats) RecordDamage(name string, amount int) {
	if amount <= 0 {
		return
	}
	s.tally(name).DamageDealt += amount
}

// RecordKill credits name with a kill.
func (s *BattleStats) RecordKill(name string) {
	s.tally(name).Kills++
}

// Get returns name's tally, zero if the combatant never scored.
func (s *BattleStats) Get(name string) Tally {
	if t, ok := s.tallies[name]; ok {
		return *t
	}
	return Tally{}
}

// Names returns every combatant with a tally, in the order they first scored.
func (s *BattleStats) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Reset clears all tallies for a new battle.
func (s *BattleStats) Reset() {
	s.tallies = make(map[string]*Tally)
	s.order = nil
}
