package imagepkg

import (
	"image"
	"math"
)

// Radii holds per-corner radii of a rounded rectangle.
type Radii struct {
	TL, TR, BR, BL int
}

// Round returns equal radii on all four corners.
func Round(r int) Radii { return Radii{TL: r, TR: r, BR: r, BL: r} }

// Top rounds only the top corners.
func Top(r int) Radii { return Radii{TL: r, TR: r} }

// Bottom rounds only the bottom corners.
func Bottom(r int) Radii { return Radii{BR: r, BL: r} }

// Left rounds only the left corners.
func Left(r int) Radii { return Radii{TL: r, BL: r} }

// Right rounds only the right corners.
func Right(r int) Radii { return Radii{TR: r, BR: r} }

func (rd Radii) clamp(w, h int) Radii {
	limit := w / 2
	if h/2 < limit {
		limit = h / 2
	}
	c := func(v int) int {
		if v < 0 {
			return 0
		}
		if v > limit {
			return limit
		}
		return v
	}
	return Radii{TL: c(rd.TL), TR: c(rd.TR), BR: c(rd.BR), BL: c(rd.BL)}
}

func (rd Radii) shrink(by int) Radii {
	s := func(v int) int {
		if v-by < 0 {
			return 0
		}
		return v - by
	}
	return Radii{TL: s(rd.TL), TR: s(rd.TR), BR: s(rd.BR), BL: s(rd.BL)}
}

// 2x2 supersampling offsets inside a pixel.
var subsamples = [4][2]float64{{0.25, 0.25}, {0.75, 0.25}, {0.25, 0.75}, {0.75, 0.75}}

func rasterize(bounds image.Rectangle, inside func(x, y float64) bool) *image.Alpha {
	m := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			n := 0
			for _, o := range subsamples {
				if inside(float64(x)+o[0], float64(y)+o[1]) {
					n++
				}
			}
			if n > 0 {
				m.Pix[m.PixOffset(x, y)] = uint8(n * 255 / len(subsamples))
			}
		}
	}
	return m
}

// RoundedRectMask returns a coverage mask for r with the given corner radii.
func RoundedRectMask(r image.Rectangle, radii Radii) *image.Alpha {
	m := image.NewAlpha(r)
	if r.Empty() {
		return m
	}
	for i := range m.Pix {
		m.Pix[i] = 0xff
	}
	rd := radii.clamp(r.Dx(), r.Dy())
	carveCorner(m, image.Rect(r.Min.X, r.Min.Y, r.Min.X+rd.TL, r.Min.Y+rd.TL), r.Min.X+rd.TL, r.Min.Y+rd.TL, rd.TL)
	carveCorner(m, image.Rect(r.Max.X-rd.TR, r.Min.Y, r.Max.X, r.Min.Y+rd.TR), r.Max.X-rd.TR, r.Min.Y+rd.TR, rd.TR)
	carveCorner(m, image.Rect(r.Max.X-rd.BR, r.Max.Y-rd.BR, r.Max.X, r.Max.Y), r.Max.X-rd.BR, r.Max.Y-rd.BR, rd.BR)
	carveCorner(m, image.Rect(r.Min.X, r.Max.Y-rd.BL, r.Min.X+rd.BL, r.Max.Y), r.Min.X+rd.BL, r.Max.Y-rd.BL, rd.BL)
	return m
}

func carveCorner(m *image.Alpha, box image.Rectangle, cx, cy, radius int) {
	if radius <= 0 {
		return
	}
	rr := float64(radius * radius)
	fx, fy := float64(cx), float64(cy)
	for y := box.Min.Y; y < box.Max.Y; y++ {
		for x := box.Min.X; x < box.Max.X; x++ {
			n := 0
			for _, o := range subsamples {
				dx := float64(x) + o[0] - fx
				dy := float64(y) + o[1] - fy
				if dx*dx+dy*dy <= rr {
					n++
				}
			}
			m.Pix[m.PixOffset(x, y)] = uint8(n * 255 / len(subsamples))
		}
	}
}

func circleBounds(cx, cy, r float64) image.Rectangle {
	return image.Rect(
		int(math.Floor(cx-r)), int(math.Floor(cy-r)),
		int(math.Ceil(cx+r)), int(math.Ceil(cy+r)),
	)
}

// CircleMask returns a coverage mask for the disc centred on (cx, cy).
func CircleMask(cx, cy, r float64) *image.Alpha {
	rr := r * r
	return rasterize(circleBounds(cx, cy, r), func(x, y float64) bool {
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= rr
	})
}

// UpperHalfDiscMask covers the half of the disc above its centre line.
func UpperHalfDiscMask(cx, cy, r float64) *image.Alpha {
	rr := r * r
	b := circleBounds(cx, cy, r)
	b.Max.Y = int(math.Ceil(cy))
	return rasterize(b, func(x, y float64) bool {
		dx, dy := x-cx, y-cy
		return y <= cy && dx*dx+dy*dy <= rr
	})
}

// Subtract removes the coverage of inner from outer and returns a new mask.
func Subtract(outer, inner *image.Alpha) *image.Alpha {
	b := outer.Bounds()
	m := image.NewAlpha(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			o := uint32(outer.Pix[outer.PixOffset(x, y)])
			if o == 0 {
				continue
			}
			i := uint32(inner.AlphaAt(x, y).A)
			m.Pix[m.PixOffset(x, y)] = uint8(o * (255 - i) / 255)
		}
	}
	return m
}
