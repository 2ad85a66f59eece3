package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// ImageSurface renders into an in-memory RGBA image.
type ImageSurface struct {
	dc *gg.Context
}

// NewImageSurface creates a surface for an arena of w x h units drawn at
// scale pixels per unit.
func NewImageSurface(w, h, scale float64) *ImageSurface {
	if scale <= 0 {
		scale = 1
	}
	dc := gg.NewContext(int(w*scale), int(h*scale))
	dc.Scale(scale, scale)
	return &ImageSurface{dc: dc}
}

func (s *ImageSurface) Clear(c color.Color) {
	s.dc.SetColor(c)
	s.dc.Clear()
}

func (s *ImageSurface) FillRect(x, y, w, h float64, c color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	s.dc.SetColor(c)
	s.dc.DrawRectangle(x, y, w, h)
	s.dc.Fill()
}

func (s *ImageSurface) FillCircle(cx, cy, r float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawCircle(cx, cy, r)
	s.dc.Fill()
}

func (s *ImageSurface) StrokeLine(x1, y1, x2, y2, width float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.SetLineWidth(width)
	s.dc.SetLineCapRound()
	s.dc.DrawLine(x1, y1, x2, y2)
	s.dc.Stroke()
}

func (s *ImageSurface) FillWedge(cx, cy, r, from, to float64, c color.Color) {
	s.dc.SetColor(c)
	s.dc.MoveTo(cx, cy)
	s.dc.DrawArc(cx, cy, r, from, to)
	s.dc.ClosePath()
	s.dc.Fill()
}

func (s *ImageSurface) DrawText(text string, x, y float64, align Align, c color.Color) {
	s.dc.SetColor(c)
	s.dc.DrawStringAnchored(text, x, y, align.Anchor(), 0.5)
}

// Image returns the rendered frame.
func (s *ImageSurface) Image() image.Image { return s.dc.Image() }

// Thumbnail returns the frame resized to width pixels, keeping the aspect
// ratio. Widths that would enlarge the frame return it unchanged.
func (s *ImageSurface) Thumbnail(width int) image.Image {
	img := s.dc.Image()
	if width <= 0 || width >= img.Bounds().Dx() {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// Save writes the frame to path, downscaled to width pixels when width is
// positive. The format follows the file extension.
func (s *ImageSurface) Save(path string, width int) error {
	if err := imaging.Save(s.Thumbnail(width), path); err != nil {
		return fmt.Errorf("save snapshot %s: %w", path, err)
	}
	return nil
}
