package imagepkg

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
)

// MaxSide bounds either canvas dimension.
const MaxSide = 8000

var ErrCanvasSize = errors.New("invalid canvas size")

// Direction of a linear gradient.
type Direction int

const (
	Vertical Direction = iota
	Horizontal
)

// Canvas is an isolated raster surface. It is not safe for concurrent use.
type Canvas struct {
	img *image.RGBA
}

// NewCanvas allocates a transparent w x h surface.
func NewCanvas(w, h int) (*Canvas, error) {
	if w <= 0 || h <= 0 || w > MaxSide || h > MaxSide {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasSize, w, h)
	}
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Bounds() image.Rectangle { return c.img.Bounds() }

// Fill composites a flat colour over r.
func (c *Canvas) Fill(r image.Rectangle, col color.Color) {
	draw.Draw(c.img, r, image.NewUniform(col), image.Point{}, draw.Over)
}

// FillGradient composites a linear gradient over r.
func (c *Canvas) FillGradient(r image.Rectangle, from, to color.NRGBA, dir Direction) {
	g := Gradient(r, from, to, dir)
	draw.Draw(c.img, r, g, r.Min, draw.Over)
}

// FillMask composites src through the coverage mask m. src is addressed in
// canvas coordinates.
func (c *Canvas) FillMask(m *image.Alpha, src image.Image) {
	b := m.Bounds()
	draw.DrawMask(c.img, b, src, b.Min, m, b.Min, draw.Over)
}

// FillMaskRect is FillMask restricted to r, which must lie inside the mask.
func (c *Canvas) FillMaskRect(m *image.Alpha, r image.Rectangle, col color.Color) {
	r = r.Intersect(m.Bounds())
	if r.Empty() {
		return
	}
	draw.DrawMask(c.img, r, image.NewUniform(col), image.Point{}, m, r.Min, draw.Over)
}

func (c *Canvas) FillRoundedRect(r image.Rectangle, radii Radii, col color.Color) {
	c.FillMask(RoundedRectMask(r, radii), image.NewUniform(col))
}

func (c *Canvas) FillRoundedGradient(r image.Rectangle, radii Radii, from, to color.NRGBA, dir Direction) {
	c.FillMask(RoundedRectMask(r, radii), Gradient(r, from, to, dir))
}

// StrokeRoundedRect draws a border of the given width inside r.
func (c *Canvas) StrokeRoundedRect(r image.Rectangle, radii Radii, width int, col color.Color) {
	if width <= 0 {
		return
	}
	outer := RoundedRectMask(r, radii)
	inner := RoundedRectMask(r.Inset(width), radii.shrink(width))
	c.FillMask(Subtract(outer, inner), image.NewUniform(col))
}

func (c *Canvas) StrokeRect(r image.Rectangle, width int, col color.Color) {
	c.StrokeRoundedRect(r, Radii{}, width, col)
}

func (c *Canvas) FillCircle(cx, cy, radius float64, col color.Color) {
	c.FillMask(CircleMask(cx, cy, radius), image.NewUniform(col))
}

// StrokeCircle draws a ring whose outer edge has the given radius.
func (c *Canvas) StrokeCircle(cx, cy, radius, width float64, col color.Color) {
	ring := Subtract(CircleMask(cx, cy, radius), CircleMask(cx, cy, radius-width))
	c.FillMask(ring, image.NewUniform(col))
}

func (c *Canvas) FillUpperHalfDisc(cx, cy, radius float64, col color.Color) {
	c.FillMask(UpperHalfDiscMask(cx, cy, radius), image.NewUniform(col))
}

// DrawMasked draws src with its origin at r.Min, clipped to r and to m.
func (c *Canvas) DrawMasked(src image.Image, r image.Rectangle, m *image.Alpha) {
	draw.DrawMask(c.img, r, src, src.Bounds().Min, m, r.Min, draw.Over)
}

// Gradient renders a linear gradient covering r.
func Gradient(r image.Rectangle, from, to color.NRGBA, dir Direction) *image.NRGBA {
	g := image.NewNRGBA(r)
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 {
		return g
	}
	span := h
	if dir == Horizontal {
		span = w
	}
	steps := make([]color.NRGBA, span)
	for i := range steps {
		t := 0.0
		if span > 1 {
			t = float64(i) / float64(span-1)
		}
		steps[i] = lerpColor(from, to, t)
	}
	for y := 0; y < h; y++ {
		off := y * g.Stride
		for x := 0; x < w; x++ {
			s := steps[y]
			if dir == Horizontal {
				s = steps[x]
			}
			g.Pix[off] = s.R
			g.Pix[off+1] = s.G
			g.Pix[off+2] = s.B
			g.Pix[off+3] = s.A
			off += 4
		}
	}
	return g
}
