// Package roster keeps the players between battles: who is signed up, which
// side they fight on, and their career records.
package roster

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/profile"
)

// MaxPlayers is the largest roster allowed.
const MaxPlayers = 20

var (
	// ErrRosterFull is returned when adding beyond MaxPlayers.
	ErrRosterFull = errors.New("roster is full")
	// ErrDuplicateName is returned when a name is already taken.
	ErrDuplicateName = errors.New("player name already taken")
	// ErrEmptyName is returned for blank player names.
	ErrEmptyName = errors.New("player name is empty")
	// ErrUnknownPlayer is returned when a name is not on the roster.
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNotReady is returned when the roster cannot form two teams.
	ErrNotReady = errors.New("roster not ready for battle")
)

// Roster is the ordered list of signed-up players.
type Roster struct {
	players []*profile.Profile
	seed    int64
}

// New creates an empty roster. Trait rolls are derived from seed and each
// player's name, so the same name always rolls the same traits for a seed.
func New(seed int64) *Roster {
	return &Roster{seed: seed}
}

// FromDef builds a roster from a loaded roster file.
func FromDef(def *gamedata.RosterDef, seed int64) (*Roster, error) {
	r := New(seed)
	for _, p := range def.Players {
		if _, err := r.Add(p.Name, p.StoryPoints); err != nil {
			return nil, fmt.Errorf("roster entry %q: %w", p.Name, err)
		}
	}
	return r, nil
}

// Add signs up a new player and rolls their profile.
func (r *Roster) Add(name string, tier int) (*profile.Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !profile.ValidTier(tier) {
		return nil, fmt.Errorf("%w: %d", profile.ErrInvalidTier, tier)
	}
	if len(r.players) >= MaxPlayers {
		return nil, ErrRosterFull
	}
	if r.Get(name) != nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}

	p := profile.Generate(name, tier, r.rngFor(name))
	r.players = append(r.players, p)
	return p, nil
}

func (r *Roster) rngFor(name string) *rand.Rand {
	return rand.New(rand.NewSource(int64(xxhash.Sum64String(name)) ^ r.seed))
}

// Remove drops a player from the roster.
func (r *Roster) Remove(name string) error {
	for i, p := range r.players {
		if p.Name == name {
			r.players = append(r.players[:i], r.players[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
}

// SetTier changes a player's story points. Rolled stats are kept.
func (r *Roster) SetTier(name string, tier int) error {
	if !profile.ValidTier(tier) {
		return fmt.Errorf("%w: %d", profile.ErrInvalidTier, tier)
	}
	p := r.Get(name)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	p.Tier = tier
	return nil
}

// Get returns the named player's profile, or nil.
func (r *Roster) Get(name string) *profile.Profile {
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// Len returns the number of players.
func (r *Roster) Len() int { return len(r.players) }

// Players returns the players in sign-up order.
func (r *Roster) Players() []*profile.Profile {
	out := make([]*profile.Profile, len(r.players))
	copy(out, r.players)
	return out
}

// Ready returns nil when a battle can start: at least two players carrying
// at least two different tiers.
func (r *Roster) Ready() error {
	if len(r.players) < 2 {
		return fmt.Errorf("%w: need at least 2 players, have %d", ErrNotReady, len(r.players))
	}
	if len(r.distinctTiers()) < 2 {
		return fmt.Errorf("%w: all players have the same story points", ErrNotReady)
	}
	return nil
}

func (r *Roster) distinctTiers() []int {
	seen := make(map[int]bool)
	var tiers []int
	for _, p := range r.players {
		if !seen[p.Tier] {
			seen[p.Tier] = true
			tiers = append(tiers, p.Tier)
		}
	}
	sort.Ints(tiers)
	return tiers
}

// Partition splits the roster into two teams. Players whose tier is in the
// lower half of the distinct tier values fight on the left, the rest on the
// right. If that leaves a side empty, players alternate left and right in
// sign-up order instead.
func (r *Roster) Partition() (left, right []*profile.Profile) {
	tiers := r.distinctTiers()
	mid := (len(tiers) + 1) / 2
	onLeft := make(map[int]bool, mid)
	for _, t := range tiers[:mid] {
		onLeft[t] = true
	}

	// Grouped by tier, ascending, sign-up order within a tier.
	for _, t := range tiers {
		for _, p := range r.players {
			if p.Tier != t {
				continue
			}
			if onLeft[t] {
				left = append(left, p)
			} else {
				right = append(right, p)
			}
		}
	}

	if len(left) == 0 || len(right) == 0 {
		left, right = nil, nil
		for i, p := range r.players {
			if i%2 == 0 {
				left = append(left, p)
			} else {
				right = append(right, p)
			}
		}
	}
	return left, right
}

// Rankings returns the players ordered by score, highest first. Ties keep
// sign-up order.
func (r *Roster) Rankings() []*profile.Profile {
	out := r.Players()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Record.Score() > out[j].Record.Score()
	})
	return out
}

// ResetStats clears every player's career record.
func (r *Roster) ResetStats() {
	for _, p := range r.players {
		p.Record = profile.Record{}
	}
}
