package imagepkg

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Ellipsis is appended to truncated values.
const Ellipsis = "…"

type Style int

const (
	Regular Style = iota
	Bold
	Italic
)

// Align is the horizontal anchor of a drawn string.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Typeface is a parsed font family. Parsed fonts are immutable and may be
// shared; faces created from them are not safe for concurrent use.
type Typeface struct {
	fonts [3]*opentype.Font
}

var defaultTypeface = sync.OnceValues(func() (*Typeface, error) {
	var t Typeface
	for i, src := range [][]byte{goregular.TTF, gobold.TTF, goitalic.TTF} {
		f, err := opentype.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("parse builtin font: %w", err)
		}
		t.fonts[i] = f
	}
	return &t, nil
})

// DefaultTypeface returns the embedded Go font family.
func DefaultTypeface() (*Typeface, error) {
	return defaultTypeface()
}

// LoadTypeface reads TrueType/OpenType files. An empty regularPath yields the
// default family; an empty boldPath reuses the regular font for bold text.
func LoadTypeface(regularPath, boldPath string) (*Typeface, error) {
	if regularPath == "" {
		return DefaultTypeface()
	}
	regular, err := parseFontFile(regularPath)
	if err != nil {
		return nil, err
	}
	bold := regular
	if boldPath != "" {
		if bold, err = parseFontFile(boldPath); err != nil {
			return nil, err
		}
	}
	return &Typeface{fonts: [3]*opentype.Font{regular, bold, regular}}, nil
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// Face returns a new face of the given style; size is in pixels.
func (t *Typeface) Face(style Style, size float64) (font.Face, error) {
	if style < Regular || style > Italic {
		style = Regular
	}
	return opentype.NewFace(t.fonts[style], &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// Measure returns the rendered advance of s in whole pixels.
func Measure(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// LineHeight is the baseline-to-baseline distance for a font size.
func LineHeight(size float64) int {
	return int(math.Round(size * 1.25))
}

// Truncate returns s unchanged when it fits in maxWidth, otherwise the
// longest prefix that fits together with a trailing ellipsis.
func Truncate(face font.Face, s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if Measure(face, s) <= maxWidth {
		return s
	}
	return ellipsize(face, s, maxWidth)
}

func ellipsize(face font.Face, s string, maxWidth int) string {
	runes := []rune(strings.TrimRightFunc(s, unicode.IsSpace))
	for n := len(runes); n > 0; n-- {
		candidate := strings.TrimRightFunc(string(runes[:n]), unicode.IsSpace) + Ellipsis
		if Measure(face, candidate) <= maxWidth {
			return candidate
		}
	}
	if Measure(face, Ellipsis) <= maxWidth {
		return Ellipsis
	}
	return ""
}

// Wrap breaks s into lines no wider than maxWidth, splitting at whitespace
// and, for words wider than the box, at rune boundaries. A single-line s that
// fits is returned unchanged, and joined words keep their original spacing.
// With maxLines > 0 the result is capped and the last kept line ends in an
// ellipsis. When a rune of s is wider than the box there is nothing to draw
// and Wrap returns nil.
func Wrap(face font.Face, s string, maxWidth, maxLines int) []string {
	if maxWidth <= 0 || strings.TrimSpace(s) == "" {
		return nil
	}
	if !strings.ContainsAny(s, "\r\n") && Measure(face, s) <= maxWidth {
		return []string{s}
	}
	var lines []string
	for _, para := range strings.FieldsFunc(s, func(r rune) bool { return r == '\n' || r == '\r' }) {
		wrapped, ok := wrapLine(face, para, maxWidth)
		if !ok {
			return nil
		}
		lines = append(lines, wrapped...)
	}
	if maxLines > 0 && len(lines) > maxLines {
		lines = lines[:maxLines]
		lines[maxLines-1] = ellipsize(face, lines[maxLines-1], maxWidth)
	}
	out := lines[:0]
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

type token struct {
	gap, word string
}

// tokens splits s into words, each with the whitespace run before it.
func tokens(s string) []token {
	var out []token
	for s != "" {
		word := strings.TrimLeftFunc(s, unicode.IsSpace)
		gap := s[:len(s)-len(word)]
		end := strings.IndexFunc(word, unicode.IsSpace)
		if end < 0 {
			end = len(word)
		}
		if end > 0 {
			out = append(out, token{gap: gap, word: word[:end]})
		}
		s = word[end:]
	}
	return out
}

// wrapLine wraps one line of text. ok is false when a rune does not fit.
func wrapLine(face font.Face, s string, maxWidth int) ([]string, bool) {
	var lines []string
	line := ""
	for _, t := range tokens(s) {
		word := t.word
		candidate := word
		if line != "" {
			candidate = line + t.gap + word
		}
		if Measure(face, candidate) <= maxWidth {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
		}
		for Measure(face, word) > maxWidth {
			head, tail, ok := breakWord(face, word, maxWidth)
			if !ok {
				return nil, false
			}
			lines = append(lines, head)
			word = tail
		}
		line = word
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines, true
}

// breakWord splits off the longest rune prefix of word that fits. ok is
// false when not even the first rune fits.
func breakWord(face font.Face, word string, maxWidth int) (string, string, bool) {
	runes := []rune(word)
	if Measure(face, string(runes[:1])) > maxWidth {
		return "", "", false
	}
	n := 1
	for n < len(runes) && Measure(face, string(runes[:n+1])) <= maxWidth {
		n++
	}
	return string(runes[:n]), string(runes[n:]), true
}

var rtlScripts = []*unicode.RangeTable{unicode.Arabic, unicode.Hebrew, unicode.Syriac, unicode.Thaana, unicode.Nko}

// IsRTL reports whether the first strongly directional rune of s belongs to
// a right-to-left script.
func IsRTL(s string) bool {
	for _, r := range s {
		if unicode.In(r, rtlScripts...) {
			return true
		}
		if unicode.IsLetter(r) {
			return false
		}
	}
	return false
}

// Baseline returns the baseline that vertically centres one line of face in
// a band starting at top with the given height.
func Baseline(face font.Face, top, height int) int {
	m := face.Metrics()
	asc, desc := m.Ascent.Ceil(), m.Descent.Ceil()
	return top + (height-(asc+desc))/2 + asc
}

// DrawText draws s anchored at x. Pixels outside clip are left untouched;
// an empty clip means the whole canvas.
func (c *Canvas) DrawText(face font.Face, s string, x, baseline int, align Align, col color.Color, clip image.Rectangle) {
	if s == "" {
		return
	}
	dst := c.img
	if !clip.Empty() {
		sub, ok := c.img.SubImage(clip).(*image.RGBA)
		if !ok {
			return
		}
		dst = sub
	}
	switch align {
	case AlignCenter:
		x -= Measure(face, s) / 2
	case AlignRight:
		x -= Measure(face, s)
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(col),
		Face: face,
		Dot:  fixed.P(x, baseline),
	}
	d.DrawString(s)
}

// DrawTextShadow draws s twice: once offset in the shadow colour, then in col.
func (c *Canvas) DrawTextShadow(face font.Face, s string, x, baseline int, align Align, col, shadow color.Color, offset int, clip image.Rectangle) {
	c.DrawText(face, s, x+offset, baseline+offset, align, shadow, clip)
	c.DrawText(face, s, x, baseline, align, col, clip)
}
