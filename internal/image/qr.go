package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
	xdraw "golang.org/x/image/draw"
)

// GenerateQRPNG returns PNG bytes of a QR code for the given text.
func GenerateQRPNG(text string, size int) ([]byte, error) {
	pngBytes, err := qrcode.Encode(text, qrcode.Medium, size)
	if err != nil {
		return nil, err
	}
	// validate png decode
	_, err = png.Decode(bytes.NewReader(pngBytes))
	if err != nil {
		return nil, err
	}
	return pngBytes, nil
}

// GenerateQRImage returns the QR code for text with one pixel per module and
// no quiet zone, ready to be scaled onto a canvas.
func GenerateQRImage(text string) (image.Image, error) {
	q, err := qrcode.New(text, qrcode.Medium)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	return q.Image(-1), nil
}

// DrawQR paints a white badge over r and the QR code for text inside it,
// leaving pad pixels of quiet zone.
func (c *Canvas) DrawQR(text string, r image.Rectangle, pad int) error {
	img, err := GenerateQRImage(text)
	if err != nil {
		return err
	}
	c.Fill(r, color.White)
	inner := r.Inset(pad)
	if inner.Empty() {
		return nil
	}
	xdraw.NearestNeighbor.Scale(c.img, inner, img, img.Bounds(), draw.Over, nil)
	return nil
}
