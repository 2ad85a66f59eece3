package window

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/samdwyer/storybrawl/internal/render"
)

// Debug font cell size in pixels.
const (
	glyphW = 6
	glyphH = 16
)

// wedgeSegments is the number of triangles used per radian of arc.
const wedgeSegments = 12

// Surface draws render primitives onto an ebiten image. The target is
// swapped every frame.
type Surface struct {
	target     *ebiten.Image
	whitePixel *ebiten.Image
}

var _ render.Surface = (*Surface)(nil)

// NewSurface creates a surface. Call SetTarget before drawing.
func NewSurface() *Surface {
	white := ebiten.NewImage(1, 1)
	white.Fill(color.White)
	return &Surface{whitePixel: white}
}

// SetTarget selects the image subsequent calls draw onto.
func (s *Surface) SetTarget(img *ebiten.Image) { s.target = img }

func (s *Surface) Clear(c color.Color) { s.target.Fill(c) }

func (s *Surface) FillRect(x, y, w, h float64, c color.Color) {
	vector.DrawFilledRect(s.target, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (s *Surface) FillCircle(cx, cy, r float64, c color.Color) {
	vector.DrawFilledCircle(s.target, float32(cx), float32(cy), float32(r), c, true)
}

func (s *Surface) StrokeLine(x1, y1, x2, y2, width float64, c color.Color) {
	vector.StrokeLine(s.target, float32(x1), float32(y1), float32(x2), float32(y2), float32(width), c, true)
}

// FillWedge draws the sector as a triangle fan.
func (s *Surface) FillWedge(cx, cy, r, from, to float64, c color.Color) {
	vertices, indices := wedgeMesh(cx, cy, r, from, to, c)
	s.target.DrawTriangles(vertices, indices, s.whitePixel, &ebiten.DrawTrianglesOptions{AntiAlias: true})
}

// DrawText uses the debug font, which is always white.
func (s *Surface) DrawText(text string, x, y float64, align render.Align, _ color.Color) {
	tx, ty := textOrigin(text, x, y, align)
	ebitenutil.DebugPrintAt(s.target, text, tx, ty)
}

// textOrigin returns the top-left pixel for text anchored at x and
// vertically centred on y.
func textOrigin(text string, x, y float64, align render.Align) (int, int) {
	width := float64(len([]rune(text)) * glyphW)
	return int(math.Round(x - width*align.Anchor())), int(math.Round(y - glyphH/2))
}

func wedgeMesh(cx, cy, r, from, to float64, c color.Color) ([]ebiten.Vertex, []uint16) {
	segments := max(int(math.Ceil((to-from)*wedgeSegments)), 1)

	// Vertex colours are straight alpha.
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	vertex := func(x, y float64) ebiten.Vertex {
		return ebiten.Vertex{
			DstX:   float32(x),
			DstY:   float32(y),
			ColorR: float32(n.R) / 0xff,
			ColorG: float32(n.G) / 0xff,
			ColorB: float32(n.B) / 0xff,
			ColorA: float32(n.A) / 0xff,
		}
	}

	vertices := make([]ebiten.Vertex, 0, segments+2)
	vertices = append(vertices, vertex(cx, cy))
	for i := 0; i <= segments; i++ {
		a := from + (to-from)*float64(i)/float64(segments)
		vertices = append(vertices, vertex(cx+r*math.Cos(a), cy+r*math.Sin(a)))
	}

	indices := make([]uint16, 0, segments*3)
	for i := 1; i <= segments; i++ {
		indices = append(indices, 0, uint16(i), uint16(i+1))
	}
	return vertices, indices
}
