package imagepkg

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// ParseColor accepts "#rgb", "#rrggbb" and "#rrggbbaa".
func ParseColor(s string) (color.NRGBA, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return color.NRGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// WithAlpha returns c with its alpha replaced by a (0..1).
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	} else if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}

func lerpColor(a, b color.NRGBA, t float64) color.NRGBA {
	it := 1 - t
	return color.NRGBA{
		R: uint8(float64(a.R)*it + float64(b.R)*t + 0.5),
		G: uint8(float64(a.G)*it + float64(b.G)*t + 0.5),
		B: uint8(float64(a.B)*it + float64(b.B)*t + 0.5),
		A: uint8(float64(a.A)*it + float64(b.A)*t + 0.5),
	}
}
