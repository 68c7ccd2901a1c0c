package card

import (
	"fmt"
	"image"
	"image/color"
	"strconv"
	"time"

	imagepkg "github.com/youruser/casecard/internal/image"
	"github.com/youruser/casecard/internal/layout"
	"github.com/youruser/casecard/internal/record"
)

// MultiPlan is the computed geometry of a multi-person card.
type MultiPlan struct {
	Width  int            `json:"width"`
	Height int            `json:"height"`
	Header CaseHeaderPlan `json:"header"`
	Panels []PanelPlan    `json:"panels"`
}

type CaseHeaderPlan struct {
	Rect  image.Rectangle `json:"rect"`
	Title string          `json:"title"`
	Rows  []RowPlan       `json:"rows"`
	Date  image.Rectangle `json:"date"`
	Text  string          `json:"text"`
}

type PanelPlan struct {
	Number    int             `json:"number"`
	Type      string          `json:"type,omitempty"`
	Rect      image.Rectangle `json:"rect"`
	Tinted    bool            `json:"tinted"`
	Badge     image.Point     `json:"badge"`
	Photo     PhotoPlan       `json:"photo"`
	TypeBadge image.Rectangle `json:"type_badge"`
	Rows      []RowPlan       `json:"rows"`
}

// MultiRenderer draws one case with up to record.MaxPersons panels. Panel
// heights are measured, so panels stack without gaps or overlap.
type MultiRenderer struct {
	spec layout.Spec
	pal  *palette
	opts options
}

func NewMultiRenderer(spec layout.Spec, opts ...Option) (*MultiRenderer, error) {
	spec = spec.Clone()
	spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.Kind != KindMulti {
		return nil, fmt.Errorf("%w %q: kind %q is not a multi-person card", layout.ErrInvalid, spec.Name, spec.Kind)
	}
	pal, err := parsePalette(spec)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", layout.ErrInvalid, spec.Name, err)
	}
	o, err := buildOptions(spec, opts)
	if err != nil {
		return nil, err
	}
	m := &MultiRenderer{spec: spec, pal: pal, opts: o}

	persons := make([]record.Person, record.MaxPersons)
	for i := range persons {
		persons[i] = record.Person{Number: i + 1, Type: worstValue[:24], Fields: worstValues(spec.PersonFields)}
	}
	caseRec := record.CaseRecord{Fields: worstValues(spec.Fields()), Timestamp: record.Stamp(time.Time{})}
	worst, err := m.Plan(caseRec, persons)
	if err != nil {
		return nil, err
	}
	if need := worst.Panels[len(worst.Panels)-1].Rect.Max.Y; need > spec.Height {
		return nil, fmt.Errorf("%w: %q needs %dpx for %d persons, canvas is %dpx", ErrLayoutOverflow, spec.Name, need, record.MaxPersons, spec.Height)
	}
	return m, nil
}

func (m *MultiRenderer) Spec() layout.Spec { return m.spec.Clone() }

// Plan computes the geometry of a multi-person card without drawing.
func (m *MultiRenderer) Plan(c record.CaseRecord, persons []record.Person) (MultiPlan, error) {
	if err := checkPersons(persons); err != nil {
		return MultiPlan{}, err
	}
	f, err := newFaces(m.opts.typeface, m.spec.FontScale)
	if err != nil {
		return MultiPlan{}, err
	}
	defer f.Close()
	return planMulti(m.spec, c, persons, f), nil
}

func checkPersons(persons []record.Person) error {
	if len(persons) == 0 {
		return ErrNoPersons
	}
	if len(persons) > record.MaxPersons {
		return fmt.Errorf("%w: got %d", ErrTooManyPersons, len(persons))
	}
	return nil
}

func planMulti(spec layout.Spec, c record.CaseRecord, persons []record.Person, f *faces) MultiPlan {
	w := spec.Width
	p := MultiPlan{Width: w}

	g := rowGrid{
		x0: multiPadX, x1: w - multiPadX,
		y:          multiHeaderTitle,
		columns:    2,
		labelWidth: multiLabelWidth,
		mirror:     spec.RightToLeft,
		maxLines:   spec.MaxValueLines,
		label:      f.caseLabel,
		value:      f.caseValue,
		lineHeight: f.caseLine,
	}
	rows, h := g.place(record.Entries(spec.Fields(), c.Fields))
	y := multiHeaderTitle + h
	if h > 0 {
		y += rowGap
	}
	p.Header = CaseHeaderPlan{
		Title: imagepkg.Truncate(f.multiTitle, spec.Title, w-2*multiPadX),
		Rows:  rows,
		Date:  image.Rect(0, y, w, y+multiDateBand),
		Text:  imagepkg.Truncate(f.caseValue, spec.TimestampLabel+c.Timestamp, w-2*multiPadX),
	}
	y += multiDateBand + multiHeaderInset
	p.Header.Rect = image.Rect(0, 0, w, y)

	for i, person := range persons {
		pp := planPanel(spec, person, i, y, f)
		p.Panels = append(p.Panels, pp)
		y = pp.Rect.Max.Y
	}
	p.Height = y
	if !spec.AutoHeight {
		p.Height = max(y, spec.Height)
	}
	return p
}

func planPanel(spec layout.Spec, person record.Person, i, top int, f *faces) PanelPlan {
	w := spec.Width
	n := person.Number
	if n <= 0 {
		n = i + 1
	}
	size := min(spec.Photo.Width, spec.Photo.Height)
	x0 := w - multiPhotoX - size
	if spec.RightToLeft {
		x0 = multiPhotoX
	}
	photo := image.Rect(x0, top+panelPadTop, x0+size, top+panelPadTop+size)
	pp := PanelPlan{
		Number: n,
		Type:   person.Type,
		Tinted: n%2 == 0,
		Badge:  image.Pt(w-badgeOffset, top+badgeOffset),
		Photo: PhotoPlan{
			Rect:    photo,
			Inner:   photo.Inset(multiPhotoLine),
			Present: person.Photo != nil,
		},
	}
	pp.Photo.Head, pp.Photo.HeadRadius, pp.Photo.Body, pp.Photo.BodyRadius = silhouette(pp.Photo.Inner, false)
	if spec.RightToLeft {
		pp.Badge = image.Pt(badgeOffset, top+badgeOffset)
	}
	block := photo.Max.Y
	if person.Type != "" {
		bx := photo.Min.X + (size-typeBadgeW)/2
		pp.TypeBadge = image.Rect(bx, block+typeBadgeGap, bx+typeBadgeW, block+typeBadgeGap+typeBadgeH)
		block = pp.TypeBadge.Max.Y
	}

	x0, x1 := multiPadX, photo.Min.X-multiPadX
	if spec.RightToLeft {
		x0, x1 = photo.Max.X+multiPadX, w-multiPadX-2*badgeRadius
	}
	g := rowGrid{
		x0: x0, x1: x1,
		y:          top + panelPadTop,
		columns:    1,
		labelWidth: multiLabelWidth,
		mirror:     spec.RightToLeft,
		maxLines:   spec.MaxValueLines,
		label:      f.caseLabel,
		value:      f.caseValue,
		lineHeight: f.caseLine,
	}
	rows, h := g.place(record.Entries(spec.PersonFields, person.Fields))
	pp.Rows = rows
	bottom := max(block, top+panelPadTop+h) + panelPadBottom
	pp.Rect = image.Rect(0, top, w, bottom)
	return pp
}

// Render draws the case header and one panel per person. Person photos are
// decoded concurrently; each is awaited once before its panel is finished.
func (m *MultiRenderer) Render(c record.CaseRecord, persons []record.Person) (*Card, error) {
	if err := checkPersons(persons); err != nil {
		return nil, err
	}
	start := time.Now()
	futures := make([]*imagepkg.PhotoFuture, len(persons))
	for i, p := range persons {
		if p.Photo != nil {
			futures[i] = imagepkg.DecodeAsync(m.opts.decoder, p.Photo)
		}
	}
	drain := func() {
		for _, fu := range futures {
			if fu != nil {
				fu.Wait()
			}
		}
	}

	f, err := newFaces(m.opts.typeface, m.spec.FontScale)
	if err != nil {
		drain()
		return nil, err
	}
	defer f.Close()
	p := planMulti(m.spec, c, persons, f)
	if p.Height > m.spec.Height {
		drain()
		return nil, fmt.Errorf("%w: %q needs %dpx", ErrLayoutOverflow, m.spec.Name, p.Height)
	}
	cv, err := imagepkg.NewCanvas(p.Width, p.Height)
	if err != nil {
		drain()
		return nil, err
	}
	d := drawer{c: cv, pal: m.pal, f: f}
	cv.Fill(cv.Bounds(), d.pal.bgTop)
	d.caseHeader(p.Header, m.sectionAccent())
	for i, panel := range p.Panels {
		d.panel(panel, m.sectionAccent())
		img := await(futures[i], m.spec.Name, KindMulti, m.opts)
		d.panelPhoto(panel, img)
	}

	card, err := encode(cv, m.spec)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)
	m.opts.observer.CardRendered(m.spec.Name, KindMulti, elapsed)
	m.opts.logger.Debug("multi-person card rendered", "persons", len(persons), "height", card.Height, "elapsed", elapsed)
	return card, nil
}

func (m *MultiRenderer) sectionAccent() color.NRGBA {
	if len(m.pal.sections) == 0 {
		return m.pal.photoFrame
	}
	return m.pal.sections[0][0]
}

func (d drawer) caseHeader(h CaseHeaderPlan, accent color.NRGBA) {
	r := h.Rect
	d.c.FillGradient(r, d.pal.headerEnd, d.pal.headerStart, imagepkg.Vertical)
	d.c.StrokeRect(r.Inset(multiHeaderInset), multiHeaderBorder, d.pal.accent)
	title := image.Rect(r.Min.X, r.Min.Y+multiHeaderInset, r.Max.X, multiHeaderTitle)
	base := imagepkg.Baseline(d.f.multiTitle, title.Min.Y, title.Dy())
	d.c.DrawTextShadow(d.f.multiTitle, h.Title, r.Dx()/2, base, imagepkg.AlignCenter, d.pal.title, d.pal.shadow, shadowOffset, title)
	for _, row := range h.Rows {
		d.row(row, accent, row.LabelBox.Min.X > row.ValueBox.Min.X, d.f.caseLabel, d.f.caseValue, d.f.caseLine)
	}
	base = imagepkg.Baseline(d.f.caseValue, h.Date.Min.Y, h.Date.Dy())
	d.c.DrawText(d.f.caseValue, h.Text, h.Date.Dx()/2, base, imagepkg.AlignCenter, d.pal.title, h.Date)
}

func (d drawer) panel(p PanelPlan, accent color.NRGBA) {
	bg := d.pal.white
	if p.Tinted {
		bg = d.pal.photoBg
	}
	d.c.Fill(p.Rect, bg)
	d.c.StrokeRect(p.Rect.Inset(panelInset), panelBorder, d.pal.photoFrame)

	d.c.FillCircle(float64(p.Badge.X), float64(p.Badge.Y), badgeRadius, d.pal.photoFrame)
	num := strconv.Itoa(p.Number)
	badge := image.Rect(p.Badge.X-badgeRadius, p.Badge.Y-badgeRadius, p.Badge.X+badgeRadius, p.Badge.Y+badgeRadius)
	d.c.DrawText(d.f.badge, num, p.Badge.X, imagepkg.Baseline(d.f.badge, badge.Min.Y, badge.Dy()), imagepkg.AlignCenter, d.pal.white, badge)

	if p.Type != "" {
		tb := p.TypeBadge
		d.c.FillRoundedRect(tb, imagepkg.Round(tb.Dy()/2), d.pal.personType(p.Type))
		label := imagepkg.Truncate(d.f.smallBadge, p.Type, tb.Dx()-2*labelPadX)
		d.c.DrawText(d.f.smallBadge, label, tb.Min.X+tb.Dx()/2, imagepkg.Baseline(d.f.smallBadge, tb.Min.Y, tb.Dy()), imagepkg.AlignCenter, d.pal.white, tb)
	}
	for _, row := range p.Rows {
		d.row(row, accent, row.LabelBox.Min.X > row.ValueBox.Min.X, d.f.caseLabel, d.f.caseValue, d.f.caseLine)
	}
}

// panelPhoto draws the square photo with its frame and number tab.
func (d drawer) panelPhoto(p PanelPlan, img image.Image) {
	ph := p.Photo
	d.c.Fill(ph.Rect, d.pal.photoBg)
	if img != nil {
		d.c.DrawPhoto(img, ph.Inner, imagepkg.ShapeRect, 0)
	} else {
		d.placeholder(ph)
	}
	d.c.StrokeRect(ph.Rect, multiPhotoLine, d.pal.photoFrame)
	tab := image.Rect(ph.Rect.Max.X-numberTab, ph.Rect.Max.Y-numberTab, ph.Rect.Max.X, ph.Rect.Max.Y)
	d.c.Fill(tab, d.pal.photoFrame)
	d.c.DrawText(d.f.smallBadge, strconv.Itoa(p.Number), tab.Min.X+tab.Dx()/2, imagepkg.Baseline(d.f.smallBadge, tab.Min.Y, tab.Dy()), imagepkg.AlignCenter, d.pal.white, tab)
}
