package card

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	imagepkg "github.com/youruser/casecard/internal/image"
	"github.com/youruser/casecard/internal/layout"
)

// countingDecoder wraps the real decoder and counts calls.
type countingDecoder struct {
	calls atomic.Int32
}

func (d *countingDecoder) Decode(b []byte) (image.Image, error) {
	d.calls.Add(1)
	return imagepkg.PhotoDecoder{}.Decode(b)
}

type fallback struct{ layout, kind, reason string }

type fakeObserver struct {
	mu        sync.Mutex
	rendered  int
	fallbacks []fallback
}

func (o *fakeObserver) CardRendered(string, string, time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rendered++
}

func (o *fakeObserver) PhotoFallback(l, k, r string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks = append(o.fallbacks, fallback{l, k, r})
}

func preset(t *testing.T, name string) layout.Spec {
	t.Helper()
	s, ok := layout.Preset(name)
	require.True(t, ok, name)
	return s
}

func decodePNG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func pixel(img image.Image, p image.Point) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(p.X, p.Y)).(color.NRGBA)
}

func solidPNG(t *testing.T, w, h int, col color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, col)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func rowCount(p Plan) int {
	n := 0
	for _, s := range p.Sections {
		n += len(s.Rows)
	}
	return n
}

func centre(r image.Rectangle) image.Point {
	return image.Pt(r.Min.X+r.Dx()/2, r.Min.Y+r.Dy()/2)
}

var silhouetteColor = color.NRGBA{R: 0xbd, G: 0xc3, B: 0xc7, A: 0xff}
