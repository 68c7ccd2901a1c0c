package imagepkg

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"strings"
	"sync"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// DefaultMaxPixels caps the decoded size of a photo (width*height).
const DefaultMaxPixels = 40_000_000

var (
	ErrEmptyPhoto = errors.New("empty photo payload")
	ErrTooLarge   = errors.New("photo too large")
	ErrBadDataURI = errors.New("malformed data URI")
)

// Decoder turns photo bytes into a drawable image.
type Decoder interface {
	Decode(data []byte) (image.Image, error)
}

// PhotoDecoder decodes PNG, JPEG, GIF, BMP, TIFF and WebP payloads and applies
// the EXIF orientation of camera photos.
type PhotoDecoder struct {
	MaxPixels int
}

func (d PhotoDecoder) Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPhoto
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read photo header: %w", err)
	}
	limit := d.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || cfg.Width*cfg.Height > limit {
		return nil, fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode photo: %w", err)
	}
	return img, nil
}

type decodeResult struct {
	img image.Image
	err error
}

// PhotoFuture is a single-shot asynchronous decode.
type PhotoFuture struct {
	ch   chan decodeResult
	once sync.Once
	res  decodeResult
}

// DecodeAsync starts decoding data in the background.
func DecodeAsync(d Decoder, data []byte) *PhotoFuture {
	f := &PhotoFuture{ch: make(chan decodeResult, 1)}
	go func() {
		var res decodeResult
		defer func() {
			if p := recover(); p != nil {
				res = decodeResult{err: fmt.Errorf("decode photo: panic: %v", p)}
			}
			f.ch <- res
		}()
		res.img, res.err = d.Decode(data)
	}()
	return f
}

// Wait blocks until the decode has finished. Later calls return the same result.
func (f *PhotoFuture) Wait() (image.Image, error) {
	f.once.Do(func() {
		f.res = <-f.ch
	})
	return f.res.img, f.res.err
}

// FitCrop scales src to cover w x h, preserving aspect ratio, and crops the
// overflow around the centre.
func FitCrop(src image.Image, w, h int) *image.NRGBA {
	return imaging.Fill(src, w, h, imaging.Center, imaging.Lanczos)
}

// DecodeDataURI accepts "data:<mime>;base64,<payload>" or bare base64.
func DecodeDataURI(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyPhoto
	}
	if strings.HasPrefix(s, "data:") {
		meta, payload, ok := strings.Cut(s, ",")
		if !ok || !strings.HasSuffix(meta, ";base64") {
			return nil, ErrBadDataURI
		}
		s = payload
	}
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		if data, err = base64.RawStdEncoding.DecodeString(s); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadDataURI, err)
		}
	}
	if len(data) == 0 {
		return nil, ErrEmptyPhoto
	}
	return data, nil
}
