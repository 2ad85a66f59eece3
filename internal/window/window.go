// Package window runs battles in a desktop window using ebiten.
package window

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-logr/logr"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/storybrawl/internal/battle"
	"github.com/samdwyer/storybrawl/internal/game"
	"github.com/samdwyer/storybrawl/internal/render"
	"github.com/samdwyer/storybrawl/internal/telemetry"
)

// logLines is how many battle log entries are shown at the bottom.
const logLines = 5

// Game implements ebiten.Game over a session.
type Game struct {
	ctx     context.Context
	session *game.Session
	cfg     game.Config
	log     logr.Logger
	surface *Surface
	battle  *battle.Battle
	battles int
}

var _ ebiten.Game = (*Game)(nil)

// Run opens the window and plays battles until it is closed, Esc is pressed
// or ctx is cancelled.
func Run(ctx context.Context, s *game.Session, cfg game.Config, log logr.Logger) error {
	ctx, span := telemetry.Tracer("window").Start(ctx, "session.run")
	defer span.End()
	span.SetAttributes(
		attribute.String("session.mode", string(game.ModeWindow)),
		attribute.Int64("session.seed", s.Seed()),
	)

	g := &Game{ctx: ctx, session: s, cfg: cfg, log: log, surface: NewSurface()}
	if err := g.next(); err != nil {
		return err
	}

	arena := s.Rules().Arena
	ebiten.SetWindowSize(int(arena.Width), int(arena.Height))
	ebiten.SetWindowTitle("StoryBrawl")
	ebiten.SetTPS(battle.TickRate)

	err := ebiten.RunGame(g)
	span.SetAttributes(attribute.Int("session.battles", g.battles))
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *Game) next() error {
	b, err := g.session.StartBattle(g.ctx, g.cfg.Player)
	if err != nil {
		return err
	}
	g.battle = b
	g.battles++
	return nil
}

// Update advances the battle one tick per frame.
func (g *Game) Update() error {
	if g.ctx.Err() != nil || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	if g.battle.Outcome().Ended() {
		if inpututil.IsKeyJustPressed(ebiten.KeyN) {
			if err := g.battle.SinkErr(); err != nil {
				g.log.Error(err, "battle result not recorded", "battle", g.battle.ID())
			}
			return g.next()
		}
		return nil
	}

	g.battle.Tick(g.ctx, readInput(ebiten.IsKeyPressed))
	return nil
}

// Draw renders the arena, the battle log and, once decided, the result.
func (g *Game) Draw(screen *ebiten.Image) {
	g.surface.SetTarget(screen)
	render.DrawBattle(g.surface, g.battle)

	h := int(g.battle.Arena().Height)
	for i, msg := range g.battle.Events() {
		if i >= logLines {
			break
		}
		ebitenutil.DebugPrintAt(screen, msg, 10, h-glyphH*(i+1)-4)
	}

	if g.battle.Outcome().Ended() {
		g.drawResult()
	}
}

func (g *Game) drawResult() {
	arena := g.battle.Arena()
	cx, cy := arena.Width/2, arena.Height/2

	g.surface.FillRect(cx-220, cy-140, 440, 280, render.WithAlpha(render.Black, 0.75))
	g.surface.DrawText(g.battle.Events()[0], cx, cy-120, render.AlignCenter, render.White)

	y := cy - 90
	for i, p := range g.session.Roster().Rankings() {
		if i >= 10 {
			break
		}
		line := fmt.Sprintf("%2d. %-12s score %4d", i+1, render.ShortName(p.Name), p.Record.Score())
		g.surface.DrawText(line, cx, y, render.AlignCenter, render.White)
		y += glyphH
	}
	g.surface.DrawText("N next battle   Esc quit", cx, cy+120, render.AlignCenter, render.White)
}

// Layout keeps the logical screen at arena size; ebiten scales it to the
// window.
func (g *Game) Layout(_, _ int) (int, int) {
	arena := g.session.Rules().Arena
	return int(arena.Width), int(arena.Height)
}

// readInput maps held keys to battle controls.
func readInput(pressed func(ebiten.Key) bool) battle.Input {
	held := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if pressed(k) {
				return true
			}
		}
		return false
	}
	return battle.Input{
		Up:        held(ebiten.KeyW, ebiten.KeyArrowUp),
		Down:      held(ebiten.KeyS, ebiten.KeyArrowDown),
		Left:      held(ebiten.KeyA, ebiten.KeyArrowLeft),
		Right:     held(ebiten.KeyD, ebiten.KeyArrowRight),
		RotateCCW: pressed(ebiten.KeyQ),
		RotateCW:  pressed(ebiten.KeyE),
		Block:     pressed(ebiten.KeyC),
		Attack:    pressed(ebiten.KeySpace),
	}
}
