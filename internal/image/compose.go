package imagepkg

import (
	"image"
	"image/color"
)

// PhotoShape is the outline of a photo region.
type PhotoShape int

const (
	ShapeRect PhotoShape = iota
	ShapeCircle
)

// regionMask returns the clip mask for a photo region.
func regionMask(r image.Rectangle, shape PhotoShape, radius int) *image.Alpha {
	if shape == ShapeCircle {
		cx := float64(r.Min.X) + float64(r.Dx())/2
		cy := float64(r.Min.Y) + float64(r.Dy())/2
		return CircleMask(cx, cy, float64(min(r.Dx(), r.Dy()))/2)
	}
	return RoundedRectMask(r, Round(radius))
}

// DrawPhoto crops src to fill r and draws it clipped to the region's shape.
func (c *Canvas) DrawPhoto(src image.Image, r image.Rectangle, shape PhotoShape, radius int) {
	if r.Empty() {
		return
	}
	fitted := FitCrop(src, r.Dx(), r.Dy())
	m := regionMask(r, shape, radius)
	c.DrawMasked(fitted, r, cropMask(m, r))
}

// FillRegion fills the photo region's shape with a flat colour.
func (c *Canvas) FillRegion(r image.Rectangle, shape PhotoShape, radius int, col color.Color) {
	if r.Empty() {
		return
	}
	c.FillMask(regionMask(r, shape, radius), image.NewUniform(col))
}

// StrokeRegion draws the frame of the photo region.
func (c *Canvas) StrokeRegion(r image.Rectangle, shape PhotoShape, radius, width int, col color.Color) {
	if shape == ShapeCircle {
		cx := float64(r.Min.X) + float64(r.Dx())/2
		cy := float64(r.Min.Y) + float64(r.Dy())/2
		c.StrokeCircle(cx, cy, float64(min(r.Dx(), r.Dy()))/2, float64(width), col)
		return
	}
	c.StrokeRoundedRect(r, Round(radius), width, col)
}

// cropMask restricts m to r so that mask and destination share bounds.
func cropMask(m *image.Alpha, r image.Rectangle) *image.Alpha {
	if m.Bounds().Eq(r) {
		return m
	}
	out := image.NewAlpha(r)
	b := r.Intersect(m.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Pix[out.PixOffset(x, y)] = m.Pix[m.PixOffset(x, y)]
		}
	}
	return out
}
