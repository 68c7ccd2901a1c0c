package imagepkg

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateQRPNG(t *testing.T) {
	b, err := GenerateQRPNG("Suspect information: Jane Doe", 256)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, 256, img.Bounds().Dx())
}

func TestDrawQRStaysInsideBadge(t *testing.T) {
	c, err := NewCanvas(120, 120)
	require.NoError(t, err)
	badge := image.Rect(10, 10, 62, 62)
	require.NoError(t, c.DrawQR("Suspect information: Jane Doe", badge, 4))

	img := c.Image()
	dark := 0
	for y := 0; y < 120; y++ {
		for x := 0; x < 120; x++ {
			px := img.RGBAAt(x, y)
			inside := image.Pt(x, y).In(badge)
			if !inside {
				require.Zero(t, px.A, "pixel %d,%d outside badge", x, y)
				continue
			}
			if px.A == 0xff && px.R == 0 {
				dark++
				assert.True(t, image.Pt(x, y).In(badge.Inset(4)), "dark module in quiet zone at %d,%d", x, y)
			}
		}
	}
	assert.Positive(t, dark)
}
