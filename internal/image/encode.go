package imagepkg

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/disintegration/imaging"
)

// Format is an output encoding.
type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
)

// ContentType returns the MIME type of f.
func (f Format) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// Ext returns the file extension of f, dot included.
func (f Format) Ext() string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// Encode serialises img. quality only applies to JPEG.
func Encode(img image.Image, f Format, quality int) ([]byte, error) {
	buf := new(bytes.Buffer)
	var err error
	switch f {
	case JPEG:
		if quality <= 0 || quality > 100 {
			quality = 90
		}
		err = imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(quality))
	default:
		err = imaging.Encode(buf, img, imaging.PNG, imaging.PNGCompressionLevel(png.DefaultCompression))
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
