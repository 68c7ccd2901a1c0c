package imagepkg

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCanvasRejectsBadSizes(t *testing.T) {
	for _, size := range [][2]int{{0, 10}, {10, 0}, {-1, 5}, {MaxSide + 1, 10}} {
		_, err := NewCanvas(size[0], size[1])
		assert.ErrorIs(t, err, ErrCanvasSize, "%v", size)
	}
	c, err := NewCanvas(MaxSide, 1)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, MaxSide, 1), c.Bounds())
}

func TestFillRoundedRectLeavesCornersClear(t *testing.T) {
	c, err := NewCanvas(100, 100)
	require.NoError(t, err)
	c.FillRoundedRect(image.Rect(10, 10, 90, 90), Round(20), red)

	img := c.Image()
	assert.Zero(t, img.RGBAAt(10, 10).A, "corner")
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(50, 50), "centre")
	assert.Equal(t, color.RGBA{R: 0xff, A: 0xff}, img.RGBAAt(50, 10), "top edge")
	assert.Zero(t, img.RGBAAt(5, 50).A, "outside")
}

func TestTopRadiiKeepBottomCornersSquare(t *testing.T) {
	c, err := NewCanvas(100, 100)
	require.NoError(t, err)
	c.FillRoundedRect(image.Rect(0, 0, 100, 100), Top(30), red)

	img := c.Image()
	assert.Zero(t, img.RGBAAt(0, 0).A)
	assert.Equal(t, uint8(0xff), img.RGBAAt(0, 99).A)
	assert.Equal(t, uint8(0xff), img.RGBAAt(99, 99).A)
}

func TestStrokeRoundedRectIsHollow(t *testing.T) {
	c, err := NewCanvas(100, 100)
	require.NoError(t, err)
	c.StrokeRoundedRect(image.Rect(0, 0, 100, 100), Round(10), 4, red)

	img := c.Image()
	assert.Equal(t, uint8(0xff), img.RGBAAt(50, 1).A)
	assert.Zero(t, img.RGBAAt(50, 50).A)
}

func TestFillCircle(t *testing.T) {
	c, err := NewCanvas(60, 60)
	require.NoError(t, err)
	c.FillCircle(30, 30, 10, black)

	img := c.Image()
	assert.Equal(t, color.RGBA{A: 0xff}, img.RGBAAt(30, 30))
	assert.Zero(t, img.RGBAAt(5, 5).A)
}

func TestUpperHalfDiscStopsAtCentreLine(t *testing.T) {
	c, err := NewCanvas(60, 60)
	require.NoError(t, err)
	c.FillUpperHalfDisc(30, 40, 20, black)

	img := c.Image()
	assert.Equal(t, uint8(0xff), img.RGBAAt(30, 30).A)
	assert.Zero(t, img.RGBAAt(30, 45).A)
}

func TestGradientEndpoints(t *testing.T) {
	from := color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	to := color.NRGBA{R: 200, G: 100, B: 50, A: 255}

	g := Gradient(image.Rect(0, 0, 10, 5), from, to, Horizontal)
	assert.Equal(t, from, g.NRGBAAt(0, 2))
	assert.Equal(t, to, g.NRGBAAt(9, 2))

	v := Gradient(image.Rect(0, 0, 4, 11), from, to, Vertical)
	assert.Equal(t, from, v.NRGBAAt(2, 0))
	assert.Equal(t, to, v.NRGBAAt(2, 10))
	assert.Equal(t, color.NRGBA{R: 100, G: 50, B: 25, A: 255}, v.NRGBAAt(2, 5))
}
