// Package layout describes how a card is arranged: canvas size, photo
// region, titled sections of fields, palette and output encoding.
package layout

import (
	"errors"
	"fmt"
	"strings"

	imagepkg "github.com/youruser/casecard/internal/image"
)

var ErrInvalid = errors.New("invalid layout")

const (
	KindCard  = "card"
	KindMulti = "multi"

	PlacementTop  = "top"
	PlacementSide = "side"

	ShapeRect   = "rect"
	ShapeCircle = "circle"

	FormatPNG  = "png"
	FormatJPEG = "jpeg"
)

// Spec is a complete card layout. The zero value is not usable; call
// Normalize and Validate, or start from a preset.
type Spec struct {
	Name           string  `yaml:"name" json:"name"`
	Kind           string  `yaml:"kind" json:"kind"`
	Width          int     `yaml:"width" json:"width"`
	Height         int     `yaml:"height" json:"height"`
	AutoHeight     bool    `yaml:"auto_height" json:"auto_height"`
	Columns        int     `yaml:"columns" json:"columns"`
	Title          string  `yaml:"title" json:"title"`
	TimestampLabel string  `yaml:"timestamp_label" json:"timestamp_label"`
	FontScale      float64 `yaml:"font_scale" json:"font_scale"`
	FontFile       string  `yaml:"font_file" json:"font_file,omitempty"`
	BoldFontFile   string  `yaml:"bold_font_file" json:"bold_font_file,omitempty"`
	MaxValueLines  int     `yaml:"max_value_lines" json:"max_value_lines"`
	QRCode         bool    `yaml:"qr_code" json:"qr_code"`
	Format         string  `yaml:"format" json:"format"`
	JPEGQuality    int     `yaml:"jpeg_quality" json:"jpeg_quality,omitempty"`
	// RightToLeft puts label boxes on the right of their value boxes.
	RightToLeft bool      `yaml:"right_to_left" json:"right_to_left"`
	Photo       Photo     `yaml:"photo" json:"photo"`
	Palette     Palette   `yaml:"palette" json:"palette"`
	Sections    []Section `yaml:"sections" json:"sections"`

	// multi-person cards only
	PersonFields []Field           `yaml:"person_fields" json:"person_fields,omitempty"`
	PersonTypes  map[string]string `yaml:"person_types" json:"person_types,omitempty"`
}

type Photo struct {
	Placement string `yaml:"placement" json:"placement"`
	Shape     string `yaml:"shape" json:"shape"`
	Width     int    `yaml:"width" json:"width"`
	Height    int    `yaml:"height" json:"height"`
}

// Palette colours are hex strings (#rgb, #rrggbb or #rrggbbaa).
type Palette struct {
	BackgroundTop    string `yaml:"background_top" json:"background_top"`
	BackgroundBottom string `yaml:"background_bottom" json:"background_bottom"`
	FrameOuter       string `yaml:"frame_outer" json:"frame_outer"`
	FrameInner       string `yaml:"frame_inner" json:"frame_inner"`
	HeaderStart      string `yaml:"header_start" json:"header_start"`
	HeaderEnd        string `yaml:"header_end" json:"header_end"`
	FooterStart      string `yaml:"footer_start" json:"footer_start"`
	FooterEnd        string `yaml:"footer_end" json:"footer_end"`
	Accent           string `yaml:"accent" json:"accent"`
	Title            string `yaml:"title" json:"title"`
	Text             string `yaml:"text" json:"text"`
	Label            string `yaml:"label" json:"label"`
	LabelFill        string `yaml:"label_fill" json:"label_fill"`
	ValueFill        string `yaml:"value_fill" json:"value_fill"`
	Placeholder      string `yaml:"placeholder" json:"placeholder"`
	PhotoBackground  string `yaml:"photo_background" json:"photo_background"`
	PhotoFrame       string `yaml:"photo_frame" json:"photo_frame"`
	Silhouette       string `yaml:"silhouette" json:"silhouette"`
}

type Section struct {
	Title  string  `yaml:"title" json:"title"`
	Accent Accent  `yaml:"accent" json:"accent"`
	Fields []Field `yaml:"fields" json:"fields"`
}

// Accent is the gradient of a section's title band.
type Accent struct {
	Start string `yaml:"start" json:"start"`
	End   string `yaml:"end" json:"end"`
}

type Field struct {
	Key   string `yaml:"key" json:"key"`
	Label string `yaml:"label" json:"label"`
	// Placeholder is shown when the value is absent. Without one the field
	// is skipped.
	Placeholder string  `yaml:"placeholder" json:"placeholder,omitempty"`
	Format      string  `yaml:"format" json:"format,omitempty"`
	Extras      []Extra `yaml:"extras" json:"extras,omitempty"`
}

// Extra appends another record value to a field. Template must contain
// "{value}"; it is skipped when that value is absent.
type Extra struct {
	Key      string `yaml:"key" json:"key"`
	Template string `yaml:"template" json:"template"`
}

// DefaultPalette is the blue card scheme.
var DefaultPalette = Palette{
	BackgroundTop:    "#f8f9fa",
	BackgroundBottom: "#e9ecef",
	FrameOuter:       "#3498db80",
	FrameInner:       "#2980b9",
	HeaderStart:      "#2c3e50",
	HeaderEnd:        "#3498db",
	FooterStart:      "#2c3e50",
	FooterEnd:        "#34495e",
	Accent:           "#f39c12",
	Title:            "#ffffff",
	Text:             "#2c3e50",
	Label:            "#2c3e50",
	LabelFill:        "#3498db26",
	ValueFill:        "#ffffff",
	Placeholder:      "#95a5a6",
	PhotoBackground:  "#ecf0f1",
	PhotoFrame:       "#3498db",
	Silhouette:       "#bdc3c7",
}

// SectionAccents cycle over sections that do not set their own accent.
var SectionAccents = []Accent{
	{Start: "#3498db", End: "#2980b9"},
	{Start: "#27ae60", End: "#2ecc71"},
	{Start: "#e67e22", End: "#d35400"},
}

// Normalize fills unset values with defaults in place.
func (s *Spec) Normalize() {
	if s.Kind == "" {
		s.Kind = KindCard
	}
	if s.Columns == 0 {
		s.Columns = 1
	}
	if s.FontScale == 0 {
		s.FontScale = 1
	}
	if s.MaxValueLines == 0 {
		s.MaxValueLines = 2
	}
	s.Format = strings.ToLower(s.Format)
	if s.Format == "" {
		s.Format = FormatPNG
	}
	if s.Format == "jpg" {
		s.Format = FormatJPEG
	}
	if s.JPEGQuality == 0 {
		s.JPEGQuality = 90
	}
	if s.Photo.Placement == "" {
		s.Photo.Placement = PlacementTop
	}
	if s.Photo.Shape == "" {
		s.Photo.Shape = ShapeRect
	}
	if s.Photo.Width == 0 {
		s.Photo.Width = 360
	}
	if s.Photo.Height == 0 {
		s.Photo.Height = 440
	}
	s.Palette.fillFrom(DefaultPalette)
	for i := range s.Sections {
		sec := &s.Sections[i]
		def := SectionAccents[i%len(SectionAccents)]
		switch {
		case sec.Accent.Start == "":
			sec.Accent = def
		case sec.Accent.End == "":
			sec.Accent.End = sec.Accent.Start
		}
		normalizeFields(sec.Fields)
	}
	normalizeFields(s.PersonFields)
}

func normalizeFields(fields []Field) {
	for i := range fields {
		for j := range fields[i].Extras {
			if fields[i].Extras[j].Template == "" {
				fields[i].Extras[j].Template = " {value}"
			}
		}
	}
}

func (p *Palette) fillFrom(d Palette) {
	for _, pair := range p.pairs(&d) {
		if *pair[0] == "" {
			*pair[0] = *pair[1]
		}
	}
}

func (p *Palette) pairs(d *Palette) [][2]*string {
	return [][2]*string{
		{&p.BackgroundTop, &d.BackgroundTop},
		{&p.BackgroundBottom, &d.BackgroundBottom},
		{&p.FrameOuter, &d.FrameOuter},
		{&p.FrameInner, &d.FrameInner},
		{&p.HeaderStart, &d.HeaderStart},
		{&p.HeaderEnd, &d.HeaderEnd},
		{&p.FooterStart, &d.FooterStart},
		{&p.FooterEnd, &d.FooterEnd},
		{&p.Accent, &d.Accent},
		{&p.Title, &d.Title},
		{&p.Text, &d.Text},
		{&p.Label, &d.Label},
		{&p.LabelFill, &d.LabelFill},
		{&p.ValueFill, &d.ValueFill},
		{&p.Placeholder, &d.Placeholder},
		{&p.PhotoBackground, &d.PhotoBackground},
		{&p.PhotoFrame, &d.PhotoFrame},
		{&p.Silhouette, &d.Silhouette},
	}
}

// Validate reports the first problem found, wrapped in ErrInvalid.
func (s Spec) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w %q: %s", ErrInvalid, s.Name, fmt.Sprintf(format, args...))
	}
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if s.Kind != KindCard && s.Kind != KindMulti {
		return bad("unknown kind %q", s.Kind)
	}
	if s.Width <= 0 || s.Height <= 0 || s.Width > imagepkg.MaxSide || s.Height > imagepkg.MaxSide {
		return bad("canvas %dx%d outside 1..%d", s.Width, s.Height, imagepkg.MaxSide)
	}
	if s.Columns != 1 && s.Columns != 2 {
		return bad("columns must be 1 or 2, got %d", s.Columns)
	}
	if s.FontScale <= 0 || s.FontScale > 4 {
		return bad("font_scale %.2f outside (0, 4]", s.FontScale)
	}
	if s.MaxValueLines < 1 {
		return bad("max_value_lines must be positive")
	}
	if s.Format != FormatPNG && s.Format != FormatJPEG {
		return bad("unsupported format %q", s.Format)
	}
	if s.JPEGQuality < 1 || s.JPEGQuality > 100 {
		return bad("jpeg_quality %d outside 1..100", s.JPEGQuality)
	}
	if s.Photo.Placement != PlacementTop && s.Photo.Placement != PlacementSide {
		return bad("unknown photo placement %q", s.Photo.Placement)
	}
	if s.Photo.Shape != ShapeRect && s.Photo.Shape != ShapeCircle {
		return bad("unknown photo shape %q", s.Photo.Shape)
	}
	if s.Photo.Width <= 0 || s.Photo.Height <= 0 || s.Photo.Width >= s.Width {
		return bad("photo %dx%d does not fit a %d wide canvas", s.Photo.Width, s.Photo.Height, s.Width)
	}
	for _, pair := range s.Palette.pairs(&Palette{}) {
		if _, err := imagepkg.ParseColor(*pair[0]); err != nil {
			return bad("palette: %v", err)
		}
	}
	switch s.Kind {
	case KindCard:
		if len(s.Sections) == 0 {
			return bad("at least one section is required")
		}
	case KindMulti:
		if len(s.PersonFields) == 0 {
			return bad("person_fields are required")
		}
		for t, c := range s.PersonTypes {
			if _, err := imagepkg.ParseColor(c); err != nil {
				return bad("person type %q: %v", t, err)
			}
		}
	}
	seen := map[string]bool{}
	for _, sec := range s.Sections {
		for _, c := range []string{sec.Accent.Start, sec.Accent.End} {
			if _, err := imagepkg.ParseColor(c); err != nil {
				return bad("section %q accent: %v", sec.Title, err)
			}
		}
		if len(sec.Fields) == 0 {
			return bad("section %q has no fields", sec.Title)
		}
		if err := checkFields(sec.Fields, seen); err != nil {
			return bad("section %q: %v", sec.Title, err)
		}
	}
	if err := checkFields(s.PersonFields, map[string]bool{}); err != nil {
		return bad("person_fields: %v", err)
	}
	return nil
}

func checkFields(fields []Field, seen map[string]bool) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Key) == "" {
			return errors.New("field without key")
		}
		if seen[f.Key] {
			return fmt.Errorf("duplicate field %q", f.Key)
		}
		seen[f.Key] = true
		switch f.Format {
		case "", "year", "date":
		default:
			return fmt.Errorf("field %q: unknown format %q", f.Key, f.Format)
		}
		for _, e := range f.Extras {
			if e.Key == "" || !strings.Contains(e.Template, "{value}") {
				return fmt.Errorf("field %q: extra needs a key and a {value} template", f.Key)
			}
		}
	}
	return nil
}

// Fields returns every field of the layout in drawing order.
func (s Spec) Fields() []Field {
	var out []Field
	for _, sec := range s.Sections {
		out = append(out, sec.Fields...)
	}
	return out
}

// Clone returns a deep copy.
func (s Spec) Clone() Spec {
	c := s
	c.Sections = make([]Section, len(s.Sections))
	for i, sec := range s.Sections {
		sec.Fields = cloneFields(sec.Fields)
		c.Sections[i] = sec
	}
	c.PersonFields = cloneFields(s.PersonFields)
	if s.PersonTypes != nil {
		c.PersonTypes = make(map[string]string, len(s.PersonTypes))
		for k, v := range s.PersonTypes {
			c.PersonTypes[k] = v
		}
	}
	return c
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		f.Extras = append([]Extra(nil), f.Extras...)
		out[i] = f
	}
	return out
}
