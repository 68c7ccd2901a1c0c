// Package card composes records into card images.
package card

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"time"

	imagepkg "github.com/youruser/casecard/internal/image"
	"github.com/youruser/casecard/internal/layout"
	"github.com/youruser/casecard/internal/record"
)

var (
	ErrCanvasSize     = imagepkg.ErrCanvasSize
	ErrLayoutOverflow = errors.New("layout does not fit the canvas")
	ErrNoPersons      = errors.New("no persons to render")
	ErrTooManyPersons = fmt.Errorf("more than %d persons", record.MaxPersons)
)

const (
	KindCard  = layout.KindCard
	KindMulti = layout.KindMulti
)

// Card is an encoded card image.
type Card struct {
	Data   []byte
	Format imagepkg.Format
	Width  int
	Height int
}

func (c *Card) ContentType() string { return c.Format.ContentType() }

// Observer is told about finished renders and photo fallbacks.
type Observer interface {
	CardRendered(layout, kind string, d time.Duration)
	PhotoFallback(layout, kind, reason string)
}

type nopObserver struct{}

func (nopObserver) CardRendered(string, string, time.Duration) {}
func (nopObserver) PhotoFallback(string, string, string)       {}

type options struct {
	decoder  imagepkg.Decoder
	logger   *slog.Logger
	typeface *imagepkg.Typeface
	observer Observer
}

type Option func(*options)

// WithDecoder replaces the photo decoder.
func WithDecoder(d imagepkg.Decoder) Option { return func(o *options) { o.decoder = d } }

func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithTypeface sets the font family for layouts that do not name their own
// font files.
func WithTypeface(t *imagepkg.Typeface) Option { return func(o *options) { o.typeface = t } }

func WithObserver(obs Observer) Option { return func(o *options) { o.observer = obs } }

func buildOptions(spec layout.Spec, opts []Option) (options, error) {
	o := options{
		decoder:  imagepkg.PhotoDecoder{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	var err error
	switch {
	case spec.FontFile != "":
		o.typeface, err = imagepkg.LoadTypeface(spec.FontFile, spec.BoldFontFile)
	case o.typeface == nil:
		o.typeface, err = imagepkg.DefaultTypeface()
	}
	if err != nil {
		return o, err
	}
	o.logger = o.logger.With("layout", spec.Name)
	return o, nil
}

// Renderer draws single-record cards for one layout. It holds no per-render
// state and is safe for concurrent use.
type Renderer struct {
	spec  layout.Spec
	pal   *palette
	opts  options
	worst Plan
}

// NewRenderer validates spec and checks that a record with every field
// present and wrapped to the line cap still fits the canvas.
func NewRenderer(spec layout.Spec, opts ...Option) (*Renderer, error) {
	spec = spec.Clone()
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Kind != KindCard {
		return nil, fmt.Errorf("%w %q: kind %q is not a single card", layout.ErrInvalid, spec.Name, spec.Kind)
	}
	pal, err := parsePalette(spec)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", layout.ErrInvalid, spec.Name, err)
	}
	o, err := buildOptions(spec, opts)
	if err != nil {
		return nil, err
	}
	r := &Renderer{spec: spec, pal: pal, opts: o}
	worst, err := r.Plan(record.Record{Fields: worstValues(spec.Fields()), Timestamp: record.Stamp(time.Time{})})
	if err != nil {
		return nil, err
	}
	if worst.Footer.Rect.Max.Y > spec.Height {
		return nil, fmt.Errorf("%w: %q needs %dpx, canvas is %dpx", ErrLayoutOverflow, spec.Name, worst.Footer.Rect.Max.Y, spec.Height)
	}
	r.worst = worst
	return r, nil
}

// Spec returns a copy of the renderer's normalized layout.
func (r *Renderer) Spec() layout.Spec { return r.spec.Clone() }

// WorstCase is the plan of a record with every field at its largest.
func (r *Renderer) WorstCase() Plan { return r.worst }

// Plan computes the geometry of rec without drawing.
func (r *Renderer) Plan(rec record.Record) (Plan, error) {
	f, err := newFaces(r.opts.typeface, r.spec.FontScale)
	if err != nil {
		return Plan{}, err
	}
	defer f.Close()
	return planCard(r.spec, rec, f), nil
}

// Render draws rec. A photo that fails to decode is replaced by the
// placeholder; only canvas and encoding failures are returned.
func (r *Renderer) Render(rec record.Record) (*Card, error) {
	start := time.Now()

	// decode runs while the rest of the card is drawn
	var photo *imagepkg.PhotoFuture
	if rec.Photo != nil {
		photo = imagepkg.DecodeAsync(r.opts.decoder, rec.Photo)
	}

	f, err := newFaces(r.opts.typeface, r.spec.FontScale)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p := planCard(r.spec, rec, f)

	c, err := imagepkg.NewCanvas(p.Width, p.Height)
	if err != nil {
		if photo != nil {
			photo.Wait()
		}
		return nil, err
	}
	d := drawer{c: c, pal: r.pal, f: f}
	d.background(p.Width, p.Height)
	d.header(p.Header)
	for _, sec := range p.Sections {
		d.section(sec, r.spec.RightToLeft)
	}
	d.footer(p.Footer)
	if p.Footer.QRText != "" {
		if err := c.DrawQR(p.Footer.QRText, p.Footer.QR, qrPad); err != nil {
			r.opts.logger.Warn("qr badge skipped", "error", err)
		}
	}

	img := await(photo, r.spec.Name, KindCard, r.opts)
	d.photo(p.Photo, img)

	card, err := encode(c, r.spec)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	r.opts.observer.CardRendered(r.spec.Name, KindCard, elapsed)
	r.opts.logger.Debug("card rendered", "width", card.Width, "height", card.Height, "bytes", len(card.Data), "photo", img != nil, "elapsed", elapsed)
	return card, nil
}

func encode(c *imagepkg.Canvas, spec layout.Spec) (*Card, error) {
	format := imagepkg.PNG
	if spec.Format == layout.FormatJPEG {
		format = imagepkg.JPEG
	}
	data, err := imagepkg.Encode(c.Image(), format, spec.JPEGQuality)
	if err != nil {
		return nil, err
	}
	b := c.Bounds()
	return &Card{Data: data, Format: format, Width: b.Dx(), Height: b.Dy()}, nil
}

// await waits for f once. A nil future means no photo was supplied.
func await(f *imagepkg.PhotoFuture, name, kind string, o options) image.Image {
	if f == nil {
		return nil
	}
	img, err := f.Wait()
	if err != nil {
		o.logger.Warn("photo decode failed, using placeholder", "error", err)
		o.observer.PhotoFallback(name, kind, reason(err))
		return nil
	}
	return img
}

func reason(err error) string {
	switch {
	case errors.Is(err, imagepkg.ErrEmptyPhoto):
		return "empty"
	case errors.Is(err, imagepkg.ErrTooLarge):
		return "too_large"
	default:
		return "decode"
	}
}
