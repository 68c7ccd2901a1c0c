package card

import (
	"fmt"
	"image/color"

	"golang.org/x/image/font"

	imagepkg "github.com/youruser/casecard/internal/image"
	"github.com/youruser/casecard/internal/layout"
)

// Card geometry in pixels. Font sizes scale with Spec.FontScale, the rest
// does not.
const (
	outerMargin = 20
	frameInset  = 25
	frameRadius = 15
	innerRadius = 12

	headerInset  = 30
	headerHeight = 100
	stripeWidth  = 20
	stripeStep   = 40
	ruleHeight   = 3
	contentTop   = 180
	contentInset = 50

	photoGap     = 30
	photoFrame   = 5
	photoRadius  = 10
	markerRadius = 8

	sectionGap       = 30
	sectionRadius    = 10
	titleBand        = 60
	sectionPadTop    = 30
	sectionPadBottom = 30
	sectionPadX      = 30
	dotRadius        = 5

	rowMinHeight = 45
	rowGap       = 20
	rowRadius    = 8
	labelWidth   = 220
	labelPadX    = 10
	separator    = 3
	valuePadX    = 20
	valuePadY    = 7
	columnGap    = 20

	footerHeight = 60
	footerGap    = 30
	footerRule   = 2
	footerRadius = 15
	footerMargin = 30
	qrPad        = 4

	shadowOffset = 2
)

// Multi-person card geometry.
const (
	multiHeaderTitle  = 80
	multiHeaderInset  = 10
	multiHeaderBorder = 3
	multiDateBand     = 40
	multiPadX         = 30
	multiLabelWidth   = 170

	panelPadTop    = 40
	panelPadBottom = 30
	panelBorder    = 2
	panelInset     = 10
	badgeRadius    = 20
	badgeOffset    = 30
	multiPhotoX    = 70
	multiPhotoLine = 4
	numberTab      = 30
	typeBadgeW     = 120
	typeBadgeH     = 30
	typeBadgeGap   = 10
)

// Font sizes before scaling.
const (
	titleSize   = 42
	sectionSize = 32
	labelSize   = 26
	valueSize   = 26
	footerSize  = 24

	multiTitleSize = 36
	caseTextSize   = 22
	badgeSize      = 24
	smallBadgeSize = 16
)

const neutralTypeColor = "#7f8c8d"

// faces are created per render: font.Face values are not safe for
// concurrent use.
type faces struct {
	title, section, label, value, footer font.Face
	multiTitle, caseLabel, caseValue     font.Face
	badge, smallBadge                    font.Face
	valueLine, caseLine                  int
}

func newFaces(tf *imagepkg.Typeface, scale float64) (*faces, error) {
	var f faces
	specs := []struct {
		dst   *font.Face
		style imagepkg.Style
		size  float64
	}{
		{&f.title, imagepkg.Bold, titleSize},
		{&f.section, imagepkg.Bold, sectionSize},
		{&f.label, imagepkg.Bold, labelSize},
		{&f.value, imagepkg.Regular, valueSize},
		{&f.footer, imagepkg.Italic, footerSize},
		{&f.multiTitle, imagepkg.Bold, multiTitleSize},
		{&f.caseLabel, imagepkg.Bold, caseTextSize},
		{&f.caseValue, imagepkg.Regular, caseTextSize},
		{&f.badge, imagepkg.Bold, badgeSize},
		{&f.smallBadge, imagepkg.Bold, smallBadgeSize},
	}
	for _, s := range specs {
		face, err := tf.Face(s.style, s.size*scale)
		if err != nil {
			return nil, fmt.Errorf("font face: %w", err)
		}
		*s.dst = face
	}
	f.valueLine = imagepkg.LineHeight(valueSize * scale)
	f.caseLine = imagepkg.LineHeight(caseTextSize * scale)
	return &f, nil
}

func (f *faces) Close() {
	for _, face := range []font.Face{f.title, f.section, f.label, f.value, f.footer,
		f.multiTitle, f.caseLabel, f.caseValue, f.badge, f.smallBadge} {
		if face != nil {
			face.Close()
		}
	}
}

type palette struct {
	bgTop, bgBottom        color.NRGBA
	frameOuter, frameInner color.NRGBA
	headerStart, headerEnd color.NRGBA
	footerStart, footerEnd color.NRGBA
	accent, title, text    color.NRGBA
	label, labelFill       color.NRGBA
	valueFill, placeholder color.NRGBA
	photoBg, photoFrame    color.NRGBA
	silhouette             color.NRGBA
	sections               [][2]color.NRGBA
	personTypes            map[string]color.NRGBA
	neutral                color.NRGBA
	shadow, stripe, white  color.NRGBA
}

func parsePalette(s layout.Spec) (*palette, error) {
	p := &palette{
		shadow:      color.NRGBA{A: 0x4d},
		stripe:      color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0x10},
		white:       color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		personTypes: map[string]color.NRGBA{},
	}
	src := s.Palette
	pairs := []struct {
		dst *color.NRGBA
		hex string
	}{
		{&p.bgTop, src.BackgroundTop},
		{&p.bgBottom, src.BackgroundBottom},
		{&p.frameOuter, src.FrameOuter},
		{&p.frameInner, src.FrameInner},
		{&p.headerStart, src.HeaderStart},
		{&p.headerEnd, src.HeaderEnd},
		{&p.footerStart, src.FooterStart},
		{&p.footerEnd, src.FooterEnd},
		{&p.accent, src.Accent},
		{&p.title, src.Title},
		{&p.text, src.Text},
		{&p.label, src.Label},
		{&p.labelFill, src.LabelFill},
		{&p.valueFill, src.ValueFill},
		{&p.placeholder, src.Placeholder},
		{&p.photoBg, src.PhotoBackground},
		{&p.photoFrame, src.PhotoFrame},
		{&p.silhouette, src.Silhouette},
		{&p.neutral, neutralTypeColor},
	}
	for _, pr := range pairs {
		c, err := imagepkg.ParseColor(pr.hex)
		if err != nil {
			return nil, err
		}
		*pr.dst = c
	}
	for _, sec := range s.Sections {
		start, err := imagepkg.ParseColor(sec.Accent.Start)
		if err != nil {
			return nil, err
		}
		end, err := imagepkg.ParseColor(sec.Accent.End)
		if err != nil {
			return nil, err
		}
		p.sections = append(p.sections, [2]color.NRGBA{start, end})
	}
	for t, hex := range s.PersonTypes {
		c, err := imagepkg.ParseColor(hex)
		if err != nil {
			return nil, err
		}
		p.personTypes[t] = c
	}
	return p, nil
}

func (p *palette) personType(t string) color.NRGBA {
	if c, ok := p.personTypes[t]; ok {
		return c
	}
	return p.neutral
}
