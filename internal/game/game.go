package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/go-logr/logr"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/storybrawl/internal/battle"
	"github.com/samdwyer/storybrawl/internal/render"
	"github.com/samdwyer/storybrawl/internal/ui"
)

// Rows below the arena: one status line and the recent battle log.
const (
	statusRows = 1
	logRows    = 5
)

var (
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleDim    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleHeader = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
)

// Game is the terminal frontend: live battles followed by a result screen.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	keys     *ui.KeyTracker
	events   chan tcell.Event
	done     chan struct{}
	stop     sync.Once
	session  *Session
	cfg      Config
	log      logr.Logger
	state    State
	running  bool
}

// New creates a terminal game on a fresh tcell screen.
func New(s *Session, cfg Config, log logr.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	return newGame(screen, s, cfg, log), nil
}

func newGame(screen *ui.Screen, s *Session, cfg Config, log logr.Logger) *Game {
	arena := s.Rules().Arena
	return &Game{
		screen:   screen,
		renderer: ui.NewRenderer(screen, arena.Width, arena.Height),
		keys:     ui.NewKeyTracker(ui.DefaultHoldWindow),
		events:   make(chan tcell.Event, 64),
		done:     make(chan struct{}),
		session:  s,
		cfg:      cfg,
		log:      log,
		state:    StateBattle,
		running:  true,
	}
}

// Run plays battles until the player quits or ctx is cancelled.
func (g *Game) Run(ctx context.Context) error {
	ctx, span := g.session.tracer.Start(ctx, "session.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.mode", string(ModeTerminal)),
		attribute.Int64("session.seed", g.session.Seed()),
	)

	go g.pollEvents()

	battles := 0
	for g.running {
		if err := ctx.Err(); err != nil {
			return err
		}

		b, err := g.session.StartBattle(ctx, g.cfg.Player)
		if err != nil {
			span.RecordError(err)
			return err
		}
		battles++

		if err := g.fight(ctx, b); err != nil {
			return err
		}
		if !g.running {
			break
		}
		if err := b.SinkErr(); err != nil {
			g.log.Error(err, "battle result not recorded", "battle", b.ID())
		}
		g.awaitResult(ctx, b)
	}

	span.SetAttributes(attribute.Int("session.battles", battles))
	return nil
}

// fight runs b in real time. Esc abandons the battle and quits.
func (g *Game) fight(ctx context.Context, b *battle.Battle) error {
	g.state = StateBattle
	g.keys.Reset()

	battleCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	frame := func(b *battle.Battle) {
		g.drainEvents(cancel)
		g.drawBattle(b)
	}
	g.drawBattle(b)

	_, err := b.Run(battleCtx, battle.NewTickerClock(battle.TickRate), g.keys, frame)
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		g.log.V(1).Info("battle abandoned", "battle", b.ID(), "ticks", b.Ticks())
		g.running = false
		return nil
	}
	return err
}

// pollEvents forwards terminal events until the screen or the game is closed.
func (g *Game) pollEvents() {
	defer close(g.events)
	for {
		ev := g.screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case g.events <- ev:
		case <-g.done:
			return
		}
	}
}

// drainEvents feeds pending key presses to the tracker without blocking.
func (g *Game) drainEvents(quit context.CancelFunc) {
	for {
		select {
		case ev, ok := <-g.events:
			if !ok {
				quit()
				return
			}
			g.handleBattleEvent(ev, quit)
		default:
			return
		}
	}
}

func (g *Game) handleBattleEvent(ev tcell.Event, quit context.CancelFunc) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyEscape, tcell.KeyCtrlC:
			quit()
		default:
			g.keys.HandleKey(ev)
		}
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// awaitResult shows the result screen until the player starts the next
// battle or quits.
func (g *Game) awaitResult(ctx context.Context, b *battle.Battle) {
	g.state = StateResult
	g.drawResult(b)

	for {
		select {
		case <-ctx.Done():
			g.running = false
			return
		case ev, ok := <-g.events:
			if !ok {
				g.running = false
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				switch {
				case ev.Key() == tcell.KeyEscape, ev.Key() == tcell.KeyCtrlC:
					g.running = false
					return
				case ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q'):
					g.running = false
					return
				case ev.Key() == tcell.KeyRune && (ev.Rune() == 'n' || ev.Rune() == 'N'):
					return
				}
			case *tcell.EventResize:
				g.screen.Sync()
				g.drawResult(b)
			}
		}
	}
}

func (g *Game) drawBattle(b *battle.Battle) {
	cols, rows := g.screen.Size()
	arenaRows := max(rows-statusRows-logRows, 1)

	g.screen.Clear()
	g.renderer.Fit(cols, arenaRows)
	render.DrawBattle(g.renderer, b)

	status := fmt.Sprintf("tick %d  %s", b.Ticks(), controlsHelp(b))
	g.screen.DrawString(0, arenaRows, status, styleDim)

	for i, msg := range b.Events() {
		if i >= logRows {
			break
		}
		style := styleText
		if i > 0 {
			style = styleDim
		}
		g.screen.DrawString(0, arenaRows+statusRows+i, msg, style)
	}
	g.screen.Show()
}

func controlsHelp(b *battle.Battle) string {
	if b.Player() == nil {
		return "spectating  Esc quit"
	}
	return "WASD/arrows move  Q/E turn  Space attack  C block  Esc quit"
}

func (g *Game) drawResult(b *battle.Battle) {
	g.screen.Clear()

	y := 1
	g.screen.DrawString(2, y, resultLine(b), styleHeader)
	y += 2

	if report, ok := b.Report(); ok {
		g.screen.DrawString(2, y, fmt.Sprintf("%-12s %-10s %5s %7s", "NAME", "TEAM", "KILLS", "DAMAGE"), styleDim)
		y++
		for _, d := range report.Deltas {
			style := styleDim
			if def := b.Rules().Team(d.Team.String()); d.Won && def != nil {
				style = tcell.StyleDefault.Foreground(def.TCellColor())
			}
			g.screen.DrawString(2, y, fmt.Sprintf("%-12s %-10s %5d %7d", render.ShortName(d.Name), b.TeamName(d.Team), d.Kills, d.DamageDealt), style)
			y++
		}
		y++
	}

	g.screen.DrawString(2, y, "Rankings", styleHeader)
	y++
	for i, p := range g.session.Roster().Rankings() {
		line := fmt.Sprintf("%2d. %-12s tier %-2d score %4d  (%d kills, %d wins, %d games)",
			i+1, render.ShortName(p.Name), p.Tier, p.Record.Score(), p.Record.Kills, p.Record.Wins, p.Record.GamesPlayed)
		g.screen.DrawString(2, y, line, styleText)
		y++
	}

	g.screen.DrawString(2, y+1, "N next battle  Q quit", styleDim)
	g.screen.Show()
}

// Close stops event polling and releases the screen. It is safe to call
// more than once.
func (g *Game) Close() {
	g.stop.Do(func() {
		close(g.done)
		if g.screen != nil {
			g.screen.Close()
		}
	})
}
