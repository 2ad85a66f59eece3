// Package render draws a battle onto any 2D surface.
package render

import "image/color"

// Align positions text horizontally around its anchor point.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Anchor returns the fraction of the text width left of the anchor point.
func (a Align) Anchor() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// Surface is an immediate-mode canvas addressed in arena units. Angles are
// radians, clockwise from +X since Y grows downwards.
type Surface interface {
	Clear(c color.Color)
	FillRect(x, y, w, h float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeLine(x1, y1, x2, y2, width float64, c color.Color)
	FillWedge(cx, cy, r, from, to float64, c color.Color)
	DrawText(text string, x, y float64, align Align, c color.Color)
}
