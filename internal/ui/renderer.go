package ui

import (
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/storybrawl/internal/geom"
	"github.com/samdwyer/storybrawl/internal/render"
)

// Strokes fainter than this are not worth a terminal cell.
const minStrokeAlpha = 0x40

// Renderer draws arena-unit primitives onto a region of terminal cells. It
// implements render.Surface.
type Renderer struct {
	screen *Screen
	arenaW float64
	arenaH float64
	cols   int
	rows   int
}

var _ render.Surface = (*Renderer)(nil)

// NewRenderer maps an arena of w x h units onto the top rows of screen.
func NewRenderer(screen *Screen, w, h float64) *Renderer {
	return &Renderer{screen: screen, arenaW: w, arenaH: h}
}

// Fit sizes the drawing region to cols x rows cells.
func (r *Renderer) Fit(cols, rows int) {
	r.cols, r.rows = max(cols, 1), max(rows, 1)
}

// Cell converts an arena point to its cell.
func (r *Renderer) Cell(x, y float64) (int, int) {
	cx := int(math.Floor(x / r.arenaW * float64(r.cols)))
	cy := int(math.Floor(y / r.arenaH * float64(r.rows)))
	return cx, cy
}

// center returns the arena point at the middle of a cell.
func (r *Renderer) center(cx, cy int) geom.Vec2 {
	return geom.Vec2{
		X: (float64(cx) + 0.5) * r.arenaW / float64(r.cols),
		Y: (float64(cy) + 0.5) * r.arenaH / float64(r.rows),
	}
}

func (r *Renderer) inside(cx, cy int) bool {
	return cx >= 0 && cy >= 0 && cx < r.cols && cy < r.rows
}

func alpha(c color.Color) uint32 {
	_, _, _, a := c.RGBA()
	return a >> 8
}

// paint sets a cell's background, keeping its rune.
func (r *Renderer) paint(cx, cy int, c color.Color) {
	if !r.inside(cx, cy) {
		return
	}
	ch, style := r.screen.Content(cx, cy)
	r.screen.SetContent(cx, cy, ch, style.Background(tcell.FromImageColor(c)))
}

// mark sets a cell's rune and foreground, keeping its background.
func (r *Renderer) mark(cx, cy int, ch rune, c color.Color) {
	if !r.inside(cx, cy) {
		return
	}
	_, style := r.screen.Content(cx, cy)
	r.screen.SetContent(cx, cy, ch, style.Foreground(tcell.FromImageColor(c)))
}

func (r *Renderer) Clear(c color.Color) {
	style := tcell.StyleDefault.Background(tcell.FromImageColor(c)).Foreground(tcell.ColorWhite)
	for y := 0; y < r.rows; y++ {
		for x := 0; x < r.cols; x++ {
			r.screen.SetContent(x, y, ' ', style)
		}
	}
}

func (r *Renderer) FillRect(x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 || alpha(c) < minStrokeAlpha {
		return
	}
	x0, y0 := r.Cell(x, y)
	x1, y1 := r.Cell(x+w, y+h)
	for cy := y0; cy <= y1; cy++ {
		for cx := x0; cx <= x1; cx++ {
			r.paint(cx, cy, c)
		}
	}
}

func (r *Renderer) FillCircle(cx, cy, radius float64, c color.Color) {
	if alpha(c) < minStrokeAlpha {
		return
	}
	origin := geom.Vec2{X: cx, Y: cy}
	x0, y0 := r.Cell(cx-radius, cy-radius)
	x1, y1 := r.Cell(cx+radius, cy+radius)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			if r.center(x, y).Dist(origin) <= radius {
				r.paint(x, y, c)
			}
		}
	}
	// Always show at least the centre cell.
	r.paint(x0+(x1-x0)/2, y0+(y1-y0)/2, c)
}

func (r *Renderer) StrokeLine(x1, y1, x2, y2, _ float64, c color.Color) {
	if alpha(c) < minStrokeAlpha {
		return
	}
	ch := lineRune(x2-x1, y2-y1)
	ax, ay := r.Cell(x1, y1)
	bx, by := r.Cell(x2, y2)
	steps := max(abs(bx-ax), abs(by-ay))
	for i := 0; i <= steps; i++ {
		t := 0.0
		if steps > 0 {
			t = float64(i) / float64(steps)
		}
		cx := ax + int(math.Round(t*float64(bx-ax)))
		cy := ay + int(math.Round(t*float64(by-ay)))
		r.mark(cx, cy, ch, c)
	}
}

func (r *Renderer) FillWedge(cx, cy, radius, from, to float64, c color.Color) {
	if alpha(c) < minStrokeAlpha/2 {
		return
	}
	origin := geom.Vec2{X: cx, Y: cy}
	mid := (from + to) / 2
	half := math.Abs(to-from) / 2
	x0, y0 := r.Cell(cx-radius, cy-radius)
	x1, y1 := r.Cell(cx+radius, cy+radius)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			p := r.center(x, y)
			if p.Dist(origin) <= radius && geom.InCone(origin, mid, p, half) {
				r.mark(x, y, '░', c)
			}
		}
	}
}

func (r *Renderer) DrawText(text string, x, y float64, align render.Align, c color.Color) {
	runes := []rune(text)
	cx, cy := r.Cell(x, y)
	cx -= int(math.Round(align.Anchor() * float64(len(runes))))
	for i, ch := range runes {
		r.mark(cx+i, cy, ch, c)
	}
}

// lineRune picks a box-drawing-ish rune for a line's slope.
func lineRune(dx, dy float64) rune {
	switch {
	case dx == 0 && dy == 0:
		return '·'
	case math.Abs(dy) < math.Abs(dx)*0.4:
		return '─'
	case math.Abs(dx) < math.Abs(dy)*0.4:
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
