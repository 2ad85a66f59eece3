package ui

import (
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/storybrawl/internal/battle"
)

// DefaultHoldWindow is how long a key counts as held after its last press.
// Terminals report no key releases, only auto-repeated presses.
const DefaultHoldWindow = 150 * time.Millisecond

type control int

const (
	ctrlUp control = iota
	ctrlDown
	ctrlLeft
	ctrlRight
	ctrlRotateCCW
	ctrlRotateCW
	ctrlBlock
	ctrlAttack
	controlCount
)

// KeyTracker turns terminal key presses into held-key snapshots. It is an
// InputSource and is safe to feed from the event goroutine while the battle
// loop reads it.
type KeyTracker struct {
	mu     sync.Mutex
	last   [controlCount]time.Time
	window time.Duration
	now    func() time.Time
}

var _ battle.InputSource = (*KeyTracker)(nil)

// NewKeyTracker creates a tracker treating keys as held for window after
// each press.
func NewKeyTracker(window time.Duration) *KeyTracker {
	return &KeyTracker{window: window, now: time.Now}
}

// HandleKey records a key press and reports whether it is a battle control.
func (t *KeyTracker) HandleKey(ev *tcell.EventKey) bool {
	c, ok := controlFor(ev)
	if !ok {
		return false
	}
	t.mu.Lock()
	t.last[c] = t.now()
	t.mu.Unlock()
	return true
}

// Input returns the keys pressed within the hold window.
func (t *KeyTracker) Input() battle.Input {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	held := func(c control) bool {
		return !t.last[c].IsZero() && now.Sub(t.last[c]) <= t.window
	}
	return battle.Input{
		Up:        held(ctrlUp),
		Down:      held(ctrlDown),
		Left:      held(ctrlLeft),
		Right:     held(ctrlRight),
		RotateCCW: held(ctrlRotateCCW),
		RotateCW:  held(ctrlRotateCW),
		Block:     held(ctrlBlock),
		Attack:    held(ctrlAttack),
	}
}

// Reset forgets every press.
func (t *KeyTracker) Reset() {
	t.mu.Lock()
	t.last = [controlCount]time.Time{}
	t.mu.Unlock()
}

func controlFor(ev *tcell.EventKey) (control, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return ctrlUp, true
	case tcell.KeyDown:
		return ctrlDown, true
	case tcell.KeyLeft:
		return ctrlLeft, true
	case tcell.KeyRight:
		return ctrlRight, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return ctrlUp, true
		case 's', 'S':
			return ctrlDown, true
		case 'a', 'A':
			return ctrlLeft, true
		case 'd', 'D':
			return ctrlRight, true
		case 'q', 'Q':
			return ctrlRotateCCW, true
		case 'e', 'E':
			return ctrlRotateCW, true
		case 'c', 'C':
			return ctrlBlock, true
		case ' ':
			return ctrlAttack, true
		}
	}
	return 0, false
}
