package imagepkg

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.NRGBA
		wantErr bool
	}{
		{in: "#bdc3c7", want: color.NRGBA{R: 0xbd, G: 0xc3, B: 0xc7, A: 0xff}},
		{in: "#fff", want: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}},
		{in: "3498db80", want: color.NRGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0x80}},
		{in: " #000000 ", want: color.NRGBA{A: 0xff}},
		{in: "#12345", wantErr: true},
		{in: "#gggggg", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWithAlpha(t *testing.T) {
	c := color.NRGBA{R: 10, G: 20, B: 30, A: 255}
	assert.Equal(t, uint8(128), WithAlpha(c, 0.5).A)
	assert.Equal(t, uint8(0), WithAlpha(c, -1).A)
	assert.Equal(t, uint8(255), WithAlpha(c, 2).A)
	assert.Equal(t, uint8(10), WithAlpha(c, 0.5).R)
}
