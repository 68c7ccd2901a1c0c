package imagepkg

import (
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhotoDecoder(t *testing.T) {
	data := pngBytes(t, 40, 30, red)

	t.Run("decodes png", func(t *testing.T) {
		img, err := PhotoDecoder{}.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 40, 30), img.Bounds())
	})

	t.Run("pixel budget", func(t *testing.T) {
		_, err := PhotoDecoder{MaxPixels: 100}.Decode(data)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("empty payload", func(t *testing.T) {
		_, err := PhotoDecoder{}.Decode(nil)
		assert.ErrorIs(t, err, ErrEmptyPhoto)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := PhotoDecoder{}.Decode([]byte("not an image"))
		assert.Error(t, err)
	})
}

type decodeFunc func([]byte) (image.Image, error)

func (f decodeFunc) Decode(b []byte) (image.Image, error) { return f(b) }

func TestDecodeAsync(t *testing.T) {
	t.Run("result is delivered once and cached", func(t *testing.T) {
		var calls atomic.Int32
		d := decodeFunc(func([]byte) (image.Image, error) {
			calls.Add(1)
			return image.NewNRGBA(image.Rect(0, 0, 2, 2)), nil
		})
		f := DecodeAsync(d, []byte{1})
		a, err := f.Wait()
		require.NoError(t, err)
		b, err := f.Wait()
		require.NoError(t, err)
		assert.Same(t, a, b)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("errors are returned", func(t *testing.T) {
		boom := errors.New("boom")
		f := DecodeAsync(decodeFunc(func([]byte) (image.Image, error) { return nil, boom }), []byte{1})
		_, err := f.Wait()
		assert.ErrorIs(t, err, boom)
	})

	t.Run("panics become errors", func(t *testing.T) {
		f := DecodeAsync(decodeFunc(func([]byte) (image.Image, error) { panic("bad") }), []byte{1})
		img, err := f.Wait()
		assert.Nil(t, img)
		assert.ErrorContains(t, err, "panic")
	})
}

func TestFitCropCoversTarget(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 400, 100))
	out := FitCrop(src, 90, 110)
	assert.Equal(t, 90, out.Bounds().Dx())
	assert.Equal(t, 110, out.Bounds().Dy())
}

func TestDrawPhotoClipsToCircle(t *testing.T) {
	c, err := NewCanvas(100, 100)
	require.NoError(t, err)
	src := image.NewUniform(color.NRGBA{G: 0xff, A: 0xff})
	photo := image.NewNRGBA(image.Rect(0, 0, 50, 50))
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			photo.Set(x, y, src.C)
		}
	}
	c.DrawPhoto(photo, image.Rect(20, 20, 80, 80), ShapeCircle, 0)

	img := c.Image()
	centre := img.RGBAAt(50, 50)
	assert.Equal(t, uint8(0xff), centre.A)
	assert.Greater(t, centre.G, uint8(0xf0))
	assert.Zero(t, centre.R)
	assert.Zero(t, img.RGBAAt(21, 21).A)
}

func TestDecodeDataURI(t *testing.T) {
	payload := []byte("photo-bytes")
	std := base64.StdEncoding.EncodeToString(payload)
	raw := base64.RawStdEncoding.EncodeToString(payload)

	tests := []struct {
		name    string
		in      string
		want    []byte
		wantErr error
	}{
		{name: "data uri", in: "data:image/png;base64," + std, want: payload},
		{name: "bare base64", in: std, want: payload},
		{name: "unpadded", in: raw, want: payload},
		{name: "empty", in: "  ", wantErr: ErrEmptyPhoto},
		{name: "not base64 uri", in: "data:image/png," + std, wantErr: ErrBadDataURI},
		{name: "bad payload", in: "data:image/png;base64,***", wantErr: ErrBadDataURI},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDataURI(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrokeRegionDrawsOnlyTheFrame(t *testing.T) {
	r := image.Rect(20, 20, 80, 80)

	c, err := NewCanvas(100, 100)
	require.NoError(t, err)
	c.StrokeRegion(r, ShapeRect, 0, 4, red)
	img := c.Image()
	assert.Equal(t, uint8(0xff), img.RGBAAt(21, 50).R)
	assert.Equal(t, uint8(0xff), img.RGBAAt(78, 78).A)
	assert.Zero(t, img.RGBAAt(50, 50).A)

	c, err = NewCanvas(100, 100)
	require.NoError(t, err)
	c.StrokeRegion(r, ShapeCircle, 0, 4, red)
	img = c.Image()
	assert.Equal(t, uint8(0xff), img.RGBAAt(50, 22).A)
	assert.Zero(t, img.RGBAAt(50, 50).A)
	assert.Zero(t, img.RGBAAt(21, 21).A)
}
