package game

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/storybrawl/internal/roster"
	"github.com/samdwyer/storybrawl/internal/ui"
)

func TestStateString(t *testing.T) {
	assert.Equal(t, "battle", StateBattle.String())
	assert.Equal(t, "result", StateResult.String())
	assert.Equal(t, "unknown", State(99).String())
}

func TestParseMode(t *testing.T) {
	for _, s := range []string{"terminal", "window", "headless"} {
		m, err := ParseMode(s)
		require.NoError(t, err)
		assert.Equal(t, Mode(s), m)
	}
	_, err := ParseMode("browser")
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvSeed:   "42",
		EnvRules:  "rules.yaml",
		EnvRoster: "team.yaml",
	}
	cfg := DefaultConfig()
	require.NoError(t, cfg.ApplyEnv(func(k string) string { return env[k] }))
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, "rules.yaml", cfg.RulesPath)
	assert.Equal(t, "team.yaml", cfg.RosterPath)

	cfg = DefaultConfig()
	err := cfg.ApplyEnv(func(k string) string {
		if k == EnvSeed {
			return "forty-two"
		}
		return ""
	})
	assert.ErrorContains(t, err, EnvSeed)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.Mode = "browser"
	cfg.Battles = 0
	cfg.MaxTicks = -1
	cfg.SnapshotWidth = -5
	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"unknown mode", "battles", "max ticks", "snapshot width"} {
		assert.ErrorContains(t, err, want)
	}
}

func headlessConfig(seed int64) Config {
	cfg := DefaultConfig()
	cfg.Mode = ModeHeadless
	cfg.Seed = seed
	return cfg
}

func TestNewSessionDefaults(t *testing.T) {
	s, err := NewSession(headlessConfig(7), logr.Discard())
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.Seed())
	assert.Equal(t, 8, s.Roster().Len())
	assert.NotNil(t, s.Rules())
	assert.NotNil(t, s.Ledger())
}

func TestNewSessionPicksSeed(t *testing.T) {
	s, err := NewSession(headlessConfig(0), logr.Discard())
	require.NoError(t, err)
	assert.NotZero(t, s.Seed())
}

func TestNewSessionMissingFiles(t *testing.T) {
	cfg := headlessConfig(1)
	cfg.RulesPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err := NewSession(cfg, logr.Discard())
	assert.Error(t, err)

	cfg = headlessConfig(1)
	cfg.RosterPath = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = NewSession(cfg, logr.Discard())
	assert.Error(t, err)
}

func writeRoster(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roster.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestStartBattleNotReady(t *testing.T) {
	cfg := headlessConfig(1)
	cfg.RosterPath = writeRoster(t, `players:
  - name: Alice
    storyPoints: 3
  - name: Bob
    storyPoints: 3
`)
	s, err := NewSession(cfg, logr.Discard())
	require.NoError(t, err)

	_, err = s.StartBattle(context.Background(), false)
	assert.ErrorIs(t, err, roster.ErrNotReady)
}

func TestStartBattle(t *testing.T) {
	s, err := NewSession(headlessConfig(3), logr.Discard())
	require.NoError(t, err)

	b, err := s.StartBattle(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, b.Knights(), 8)

	player := b.Player()
	require.NotNil(t, player)
	assert.Equal(t, "Alice", player.Name(), "lowest tier fights on the left and leads it")

	b, err = s.StartBattle(context.Background(), false)
	require.NoError(t, err)
	assert.Nil(t, b.Player())
}

func TestRunHeadless(t *testing.T) {
	s, err := NewSession(headlessConfig(11), logr.Discard())
	require.NoError(t, err)

	cfg := headlessConfig(11)
	cfg.Battles = 2
	cfg.SnapshotPath = filepath.Join(t.TempDir(), "final.png")
	cfg.SnapshotWidth = 350

	var out bytes.Buffer
	require.NoError(t, RunHeadless(context.Background(), s, cfg, &out))

	text := out.String()
	assert.Contains(t, text, "Battle 1 (")
	assert.Contains(t, text, "Battle 2 (")
	assert.Contains(t, text, "Rankings")
	assert.Contains(t, text, "Snapshot written to")
	for _, p := range s.Roster().Players() {
		assert.Contains(t, text, p.Name)
		assert.LessOrEqual(t, p.Record.GamesPlayed, 2)
	}

	img, err := imaging.Open(cfg.SnapshotPath)
	require.NoError(t, err)
	assert.Equal(t, 350, img.Bounds().Dx())
}

func TestRunHeadlessDeterministic(t *testing.T) {
	run := func() string {
		s, err := NewSession(headlessConfig(5), logr.Discard())
		require.NoError(t, err)
		var out bytes.Buffer
		require.NoError(t, RunHeadless(context.Background(), s, headlessConfig(5), &out))
		return out.String()
	}

	// Battle IDs are random, so compare everything after the first line.
	strip := func(s string) string {
		_, rest, _ := strings.Cut(s, "\n")
		return rest
	}
	assert.Equal(t, strip(run()), strip(run()))
}

func TestRunHeadlessCancelled(t *testing.T) {
	s, err := NewSession(headlessConfig(1), logr.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	assert.ErrorIs(t, RunHeadless(ctx, s, headlessConfig(1), &out), context.Canceled)
}

func newTestGame(t *testing.T) (*Game, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.Wrap(sim)
	require.NoError(t, err)
	sim.SetSize(100, 50)
	t.Cleanup(screen.Close)

	s, err := NewSession(headlessConfig(9), logr.Discard())
	require.NoError(t, err)
	return newGame(screen, s, DefaultConfig(), logr.Discard()), sim
}

func screenText(sim tcell.SimulationScreen) string {
	cells, w, h := sim.GetContents()
	var sb strings.Builder
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r := cells[y*w+x].Runes; len(r) > 0 {
				sb.WriteRune(r[0])
			} else {
				sb.WriteRune(' ')
			}
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func TestDrawBattleShowsControls(t *testing.T) {
	g, sim := newTestGame(t)
	b, err := g.session.StartBattle(context.Background(), true)
	require.NoError(t, err)

	g.drawBattle(b)
	text := screenText(sim)
	assert.Contains(t, text, "tick 0")
	assert.Contains(t, text, "Space attack")
	assert.Contains(t, text, "4 alive")
}

func TestDrawResultShowsRankings(t *testing.T) {
	g, sim := newTestGame(t)
	b, err := g.session.StartBattle(context.Background(), false)
	require.NoError(t, err)
	require.True(t, b.RunFor(context.Background(), 60*60*10, nil).Ended())

	g.drawResult(b)
	text := screenText(sim)
	assert.Contains(t, text, "wins!")
	assert.Contains(t, text, "Rankings")
	assert.Contains(t, text, "N next battle")
}

func TestHandleBattleEvent(t *testing.T) {
	g, _ := newTestGame(t)
	quit := false
	cancel := func() { quit = true }

	g.handleBattleEvent(tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone), cancel)
	assert.True(t, g.keys.Input().Up)
	assert.False(t, quit)

	g.handleBattleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), cancel)
	assert.True(t, quit)
}

func TestCloseStopsEventPolling(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	screen, err := ui.Wrap(sim)
	require.NoError(t, err)
	s, err := NewSession(headlessConfig(9), logr.Discard())
	require.NoError(t, err)
	g := newGame(screen, s, DefaultConfig(), logr.Discard())

	// Nobody drains events once the battle loop has returned.
	for len(g.events) < cap(g.events) {
		g.events <- tcell.NewEventKey(tcell.KeyRune, 'w', tcell.ModNone)
	}

	stopped := make(chan struct{})
	go func() {
		g.pollEvents()
		close(stopped)
	}()
	sim.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	time.Sleep(20 * time.Millisecond)

	g.Close()
	g.Close()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("pollEvents still blocked after Close")
	}
	for range g.events {
	}
}
