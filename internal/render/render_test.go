package render

import (
	"context"
	"image/color"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdwyer/storybrawl/internal/battle"
	"github.com/samdwyer/storybrawl/internal/entity"
	"github.com/samdwyer/storybrawl/internal/gamedata"
	"github.com/samdwyer/storybrawl/internal/geom"
	"github.com/samdwyer/storybrawl/internal/profile"
)

// countingSurface records how often each primitive is drawn.
type countingSurface struct {
	clears, rects, circles, lines, wedges int
	texts                                 []string
}

func (s *countingSurface) Clear(color.Color)                               { s.clears++ }
func (s *countingSurface) FillRect(_, _, _, _ float64, _ color.Color)      { s.rects++ }
func (s *countingSurface) FillCircle(_, _, _ float64, _ color.Color)       { s.circles++ }
func (s *countingSurface) StrokeLine(_, _, _, _, _ float64, _ color.Color) { s.lines++ }
func (s *countingSurface) FillWedge(_, _, _, _, _ float64, _ color.Color)  { s.wedges++ }
func (s *countingSurface) DrawText(text string, _, _ float64, _ Align, _ color.Color) {
	s.texts = append(s.texts, text)
}

func testBattle(t *testing.T) (*battle.Battle, []*entity.Knight) {
	t.Helper()
	rules := gamedata.MustLoadRules()
	traits := [profile.TraitCount]int{1, 1, 1, 1, 1}
	knights := []*entity.Knight{
		entity.NewKnight(0, profile.FromTraits("Alexandrina", 5, traits), entity.TeamLeft, entity.ControllerPlayer, geom.Vec2{X: 300, Y: 300}, 0, rules.Knight),
		entity.NewKnight(1, profile.FromTraits("Bob", 13, traits), entity.TeamRight, entity.ControllerPlayer, geom.Vec2{X: 900, Y: 300}, 0, rules.Knight),
	}
	b := battle.New(context.Background(), knights, battle.Config{Rules: rules, RNG: rand.New(rand.NewSource(1))})
	return b, knights
}

func TestDrawBattle(t *testing.T) {
	b, knights := testBattle(t)

	s := &countingSurface{}
	DrawBattle(s, b)
	assert.Equal(t, 1, s.clears)
	assert.Zero(t, s.wedges)
	assert.Contains(t, s.texts, "Red Team")
	assert.Contains(t, s.texts, "Cyan Team")
	assert.Contains(t, s.texts, "1 alive")
	assert.Contains(t, s.texts, "Alexandr...")
	assert.Contains(t, s.texts, "13")

	require.True(t, knights[0].StartBlock())
	s = &countingSurface{}
	DrawBattle(s, b)
	assert.Equal(t, 1, s.wedges)

	knights[1].TakeDamage(1000)
	s = &countingSurface{}
	DrawBattle(s, b)
	assert.NotContains(t, s.texts, "Bob")
	assert.Contains(t, s.texts, "0 alive")
}

func TestHealthColor(t *testing.T) {
	tests := []struct {
		frac float64
		want colorful.Color
	}{
		{1, hpHigh},
		{0.5, hpMid},
		{0, hpLow},
		{-1, hpLow},
		{2, hpHigh},
	}

	for _, tt := range tests {
		got := HealthColor(tt.frac)
		assert.Less(t, got.DistanceRgb(tt.want), 0.01, "HealthColor(%v) = %v", tt.frac, got.Hex())
	}
}

func TestShortName(t *testing.T) {
	assert.Equal(t, "Bob", ShortName("Bob"))
	assert.Equal(t, "Abcdefghij", ShortName("Abcdefghij"))
	assert.Equal(t, "Abcdefgh...", ShortName("Abcdefghijk"))
}

func TestWithAlpha(t *testing.T) {
	got := WithAlpha(White, 0.5)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 128}, got)
	assert.Equal(t, uint8(255), WithAlpha(Black, 3).A)
}

func TestImageSurface(t *testing.T) {
	b, _ := testBattle(t)
	arena := b.Arena()

	s := NewImageSurface(arena.Width, arena.Height, 0.5)
	DrawBattle(s, b)

	img := s.Image()
	assert.Equal(t, 700, img.Bounds().Dx())
	assert.Equal(t, 400, img.Bounds().Dy())

	// A grid-free point away from every knight keeps the background colour.
	r, g, bl, _ := img.At(610/2+3, 560/2+3).RGBA()
	br, bg, bb := Background.RGB255()
	assert.InDelta(t, int(br), int(r>>8), 2)
	assert.InDelta(t, int(bg), int(g>>8), 2)
	assert.InDelta(t, int(bb), int(bl>>8), 2)

	assert.Equal(t, 350, s.Thumbnail(350).Bounds().Dx())
	assert.Equal(t, 700, s.Thumbnail(2000).Bounds().Dx())

	path := filepath.Join(t.TempDir(), "frame.png")
	require.NoError(t, s.Save(path, 200))
	saved, err := imaging.Open(path)
	require.NoError(t, err)
	assert.Equal(t, 200, saved.Bounds().Dx())
}

func TestImageSurfaceSaveError(t *testing.T) {
	s := NewImageSurface(10, 10, 1)
	err := s.Save(filepath.Join(t.TempDir(), "missing", "frame.png"), 0)
	assert.Error(t, err)
}
