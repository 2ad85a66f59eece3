package render

import (
	"fmt"
	"image/color"
	"math"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/storybrawl/internal/battle"
	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/geom"
)

// Scene colours.
var (
	Background = mustHex("#1a4d4d")
	Blade      = mustHex("#E0E0E0")
	ShieldFill = mustHex("#00BFFF")
	ShieldEdge = mustHex("#87CEEB")
	FacingMark = mustHex("#FFD700")
	Helmet     = mustHex("#888888")
	White      = colorful.Color{R: 1, G: 1, B: 1}
	Black      = colorful.Color{}

	hpHigh = mustHex("#00FF00")
	hpMid  = mustHex("#FFFF00")
	hpLow  = mustHex("#FF0000")
)

const (
	gridStep      = 50.0
	hpBarWidth    = 50.0
	hpBarHeight   = 6.0
	cooldownWidth = 40.0
	maxNameLen    = 10
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// WithAlpha returns c at the given opacity in [0, 1].
func WithAlpha(c colorful.Color, alpha float64) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(math.Round(geom.Clamp(alpha, 0, 1) * 255))}
}

// HealthColor blends from red through yellow to green as frac goes from 0
// to 1.
func HealthColor(frac float64) colorful.Color {
	frac = geom.Clamp(frac, 0, 1)
	if frac >= 0.5 {
		return hpMid.BlendLab(hpHigh, (frac-0.5)*2).Clamped()
	}
	return hpLow.BlendLab(hpMid, frac*2).Clamped()
}

// ShortName truncates long names for labels.
func ShortName(name string) string {
	r := []rune(name)
	if len(r) > maxNameLen {
		return string(r[:maxNameLen-2]) + "..."
	}
	return name
}

// DrawBattle renders the arena, every knight and the team banners.
func DrawBattle(s Surface, b *battle.Battle) {
	arena := b.Arena()
	s.Clear(Background)
	drawGrid(s, arena.Width, arena.Height)

	knights := b.Knights()
	for _, k := range knights {
		if k.IsAlive() && k.IsSwinging() {
			drawSword(s, k, teamColor(b, k.Team))
		}
	}
	for _, k := range knights {
		drawKnight(s, k, teamColor(b, k.Team))
	}
	for _, k := range knights {
		if k.IsAlive() && k.IsBlocking() {
			drawShield(s, k)
		}
	}

	drawBanners(s, b)
}

func teamColor(b *battle.Battle, team entity.Team) colorful.Color {
	if def := b.Rules().Team(team.String()); def != nil {
		return def.RGB()
	}
	return White
}

func drawGrid(s Surface, w, h float64) {
	grid := WithAlpha(White, 0.05)
	for x := 0.0; x < w; x += gridStep {
		s.StrokeLine(x, 0, x, h, 1, grid)
	}
	for y := 0.0; y < h; y += gridStep {
		s.StrokeLine(0, y, w, y, 1, grid)
	}
	s.StrokeLine(w/2, 0, w/2, h, 2, WithAlpha(White, 0.1))
}

func drawBanners(s Surface, b *battle.Battle) {
	w := b.Arena().Width
	knights := b.Knights()

	left := teamColor(b, entity.TeamLeft)
	right := teamColor(b, entity.TeamRight)
	s.DrawText(b.TeamName(entity.TeamLeft), 20, 20, AlignLeft, left)
	s.DrawText(b.TeamName(entity.TeamRight), w-20, 20, AlignRight, right)

	s.DrawText(fmt.Sprintf("%d alive", entity.CountAlive(knights, entity.TeamLeft)), 20, 40, AlignLeft, White)
	s.DrawText(fmt.Sprintf("%d alive", entity.CountAlive(knights, entity.TeamRight)), w-20, 40, AlignRight, White)
}

// drawSword sweeps the blade across the attack cone as the swing runs.
func drawSword(s Surface, k *entity.Knight, team colorful.Color) {
	half := k.Rules().AttackHalfCone()
	angle := k.Facing - half + 2*half*k.SwingProgress()
	size := k.Rules().Size

	base := k.Pos.Add(geom.FromAngle(angle).Scale(size * 0.3))
	tip := k.Pos.Add(geom.FromAngle(angle).Scale(size*0.3 + k.AttackRange()*0.8))

	alpha := 0.6 + 0.4*math.Sin(k.SwingProgress()*math.Pi)
	s.StrokeLine(base.X, base.Y, tip.X, tip.Y, 8, WithAlpha(Blade, alpha))
	s.StrokeLine(base.X, base.Y, tip.X, tip.Y, 2, WithAlpha(team, alpha))
}

func drawShield(s Surface, k *entity.Knight) {
	size := k.Rules().Size
	half := k.Rules().BlockHalfCone()
	c := k.Pos.Add(geom.FromAngle(k.Facing).Scale(size * 0.8))
	r := size * 1.2

	s.FillWedge(c.X, c.Y, r, k.Facing-half, k.Facing+half, WithAlpha(ShieldFill, 0.4))
	from := c.Add(geom.FromAngle(k.Facing - half).Scale(r))
	to := c.Add(geom.FromAngle(k.Facing + half).Scale(r))
	s.StrokeLine(from.X, from.Y, to.X, to.Y, 4, WithAlpha(ShieldEdge, 0.8))
}

func drawKnight(s Surface, k *entity.Knight, team colorful.Color) {
	size := k.Rules().Size
	x, y := k.Pos.X, k.Pos.Y

	if !k.IsAlive() {
		s.FillCircle(x, y, size/2, WithAlpha(Black, 0.5))
		d := size / 4
		s.StrokeLine(x-d, y-d, x+d, y+d, 3, White)
		s.StrokeLine(x-d, y+d, x+d, y-d, 3, White)
		return
	}

	s.FillCircle(x, y, size/2, team)
	s.FillCircle(x, y, size/4, Helmet)
	tip := k.Pos.Add(geom.FromAngle(k.Facing).Scale(size * 0.6))
	s.StrokeLine(x, y, tip.X, tip.Y, 3, FacingMark)

	// Health bar
	barX := x - hpBarWidth/2
	barY := y - size/2 - 12
	frac := float64(k.HP()) / float64(k.MaxHP())
	s.FillRect(barX, barY, hpBarWidth, hpBarHeight, Black)
	s.FillRect(barX, barY, hpBarWidth*frac, hpBarHeight, HealthColor(frac))
	s.DrawText(strconv.Itoa(k.HP()), x, barY-6, AlignCenter, White)

	// Name and tier badge
	s.DrawText(ShortName(k.Name()), x, y+size/2+10, AlignCenter, White)
	s.FillRect(x-12, y+size/2+18, 24, 14, team)
	s.DrawText(strconv.Itoa(k.Profile.Tier), x, y+size/2+25, AlignCenter, White)

	if cd := k.BlockCooldown(); cd > 0 {
		frac := float64(cd) / float64(k.Rules().BlockCooldown)
		cy := y + size/2 + 36
		s.FillRect(x-cooldownWidth/2, cy, cooldownWidth, 4, WithAlpha(Black, 0.5))
		s.FillRect(x-cooldownWidth/2, cy, cooldownWidth*frac, 4, ShieldFill)
	}
}
