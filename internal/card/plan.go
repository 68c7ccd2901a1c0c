package card

import (
	"image"
	"math"
	"strings"

	"golang.org/x/image/font"

	imagepkg "github.com/youruser/casecard/internal/image"
	"github.com/youruser/casecard/internal/layout"
	"github.com/youruser/casecard/internal/record"
)

// Plan is the computed geometry of one card.
type Plan struct {
	Width    int           `json:"width"`
	Height   int           `json:"height"`
	Header   HeaderPlan    `json:"header"`
	Photo    PhotoPlan     `json:"photo"`
	Sections []SectionPlan `json:"sections"`
	Footer   FooterPlan    `json:"footer"`
}

type HeaderPlan struct {
	Rect  image.Rectangle `json:"rect"`
	Rule  image.Rectangle `json:"rule"`
	Title string          `json:"title"`
}

// PhotoPlan places the photo region. Rect includes the frame, Inner is the
// area the photo or the placeholder fills.
type PhotoPlan struct {
	Rect       image.Rectangle `json:"rect"`
	Inner      image.Rectangle `json:"inner"`
	Circle     bool            `json:"circle"`
	Present    bool            `json:"present"`
	Head       image.Point     `json:"head"`
	HeadRadius int             `json:"head_radius"`
	Body       image.Point     `json:"body"`
	BodyRadius int             `json:"body_radius"`
}

type SectionPlan struct {
	Title     string          `json:"title"`
	Rect      image.Rectangle `json:"rect"`
	TitleBand image.Rectangle `json:"title_band"`
	Rows      []RowPlan       `json:"rows"`
	accent    int
}

// RowPlan is one label/value cell.
type RowPlan struct {
	Key         string          `json:"key"`
	Label       string          `json:"label"`
	Value       string          `json:"value"`
	Rect        image.Rectangle `json:"rect"`
	LabelBox    image.Rectangle `json:"label_box"`
	ValueBox    image.Rectangle `json:"value_box"`
	Lines       []string        `json:"lines"`
	LineWidths  []int           `json:"line_widths"`
	ValueWidth  int             `json:"value_width"`
	RTL         bool            `json:"rtl"`
	Placeholder bool            `json:"placeholder,omitempty"`
}

type FooterPlan struct {
	Rect   image.Rectangle `json:"rect"`
	Rule   image.Rectangle `json:"rule"`
	Text   string          `json:"text"`
	QR     image.Rectangle `json:"qr"`
	QRText string          `json:"qr_text,omitempty"`
}

// rowGrid lays entries out in one or two columns starting at Y. Cells of
// the same line share the height of the tallest.
type rowGrid struct {
	x0, x1, y  int
	columns    int
	labelWidth int
	mirror     bool
	maxLines   int
	label      font.Face
	value      font.Face
	lineHeight int
}

func (g rowGrid) place(entries []record.Entry) ([]RowPlan, int) {
	if len(entries) == 0 {
		return nil, 0
	}
	cols := max(g.columns, 1)
	colW := (g.x1 - g.x0 - (cols-1)*columnGap) / cols
	lw := min(g.labelWidth, colW*2/5)
	rows := make([]RowPlan, 0, len(entries))
	y := g.y
	for i := 0; i < len(entries); i += cols {
		line := entries[i:min(i+cols, len(entries))]
		first := len(rows)
		h := rowMinHeight
		for j, e := range line {
			cx0 := g.x0 + j*(colW+columnGap)
			if g.mirror {
				cx0 = g.x1 - (j+1)*colW - j*columnGap
			}
			row := g.cell(e, cx0, cx0+colW, y, lw)
			h = max(h, len(row.Lines)*g.lineHeight+2*valuePadY)
			rows = append(rows, row)
		}
		for k := first; k < len(rows); k++ {
			rows[k].Rect.Max.Y = y + h
			rows[k].LabelBox.Max.Y = y + h
			rows[k].ValueBox.Max.Y = y + h
		}
		y += h + rowGap
	}
	return rows, y - rowGap - g.y
}

func (g rowGrid) cell(e record.Entry, x0, x1, y, lw int) RowPlan {
	r := RowPlan{
		Key:         e.Key,
		Value:       e.Value,
		Rect:        image.Rect(x0, y, x1, y),
		Placeholder: e.Placeholder,
		RTL:         imagepkg.IsRTL(e.Value),
	}
	if g.mirror {
		r.LabelBox = image.Rect(x1-lw, y, x1, y)
		r.ValueBox = image.Rect(x0, y, x1-lw-separator, y)
	} else {
		r.LabelBox = image.Rect(x0, y, x0+lw, y)
		r.ValueBox = image.Rect(x0+lw+separator, y, x1, y)
	}
	r.Label = imagepkg.Truncate(g.label, e.Label, r.LabelBox.Dx()-2*labelPadX)
	r.ValueWidth = max(r.ValueBox.Dx()-2*valuePadX, 0)
	r.Lines = imagepkg.Wrap(g.value, e.Value, r.ValueWidth, g.maxLines)
	r.LineWidths = make([]int, len(r.Lines))
	for i, l := range r.Lines {
		r.LineWidths[i] = imagepkg.Measure(g.value, l)
	}
	return r
}

// worstValue wraps past any sensible line cap in any box.
var worstValue = strings.TrimSpace(strings.Repeat("WWWWWWWW ", 120))

// worstValues gives every field and extra of fields a maximal value.
func worstValues(fields []layout.Field) map[string]string {
	v := map[string]string{}
	for _, f := range fields {
		v[f.Key] = worstValue
		for _, e := range f.Extras {
			v[e.Key] = worstValue
		}
	}
	return v
}

// planCard computes the geometry of a single card for rec.
func planCard(spec layout.Spec, rec record.Record, f *faces) Plan {
	w := spec.Width
	p := Plan{Width: w, Height: spec.Height}

	p.Header = HeaderPlan{
		Rect:  image.Rect(headerInset, headerInset, w-headerInset, headerInset+headerHeight),
		Title: imagepkg.Truncate(f.title, spec.Title, w-2*headerInset-40),
	}
	p.Header.Rule = image.Rect(headerInset, p.Header.Rect.Max.Y, w-headerInset, p.Header.Rect.Max.Y+ruleHeight)

	p.Photo = planPhoto(spec, rec.Photo != nil)

	x0, x1 := contentInset, w-contentInset
	cursor := contentTop
	if spec.Photo.Placement == layout.PlacementSide {
		x1 = p.Photo.Rect.Min.X - photoGap
	} else {
		cursor = p.Photo.Rect.Max.Y + photoGap
	}

	bottom := cursor
	for i, sec := range spec.Sections {
		entries := record.Entries(sec.Fields, rec.Fields)
		if len(entries) == 0 {
			continue
		}
		g := rowGrid{
			x0: x0 + sectionPadX, x1: x1 - sectionPadX,
			y:          cursor + titleBand + sectionPadTop,
			columns:    spec.Columns,
			labelWidth: labelWidth,
			mirror:     spec.RightToLeft,
			maxLines:   spec.MaxValueLines,
			label:      f.label,
			value:      f.value,
			lineHeight: f.valueLine,
		}
		rows, h := g.place(entries)
		sp := SectionPlan{
			Title:     imagepkg.Truncate(f.section, sec.Title, x1-x0-40),
			Rect:      image.Rect(x0, cursor, x1, cursor+titleBand+sectionPadTop+h+sectionPadBottom),
			TitleBand: image.Rect(x0, cursor, x1, cursor+titleBand),
			Rows:      rows,
			accent:    i,
		}
		p.Sections = append(p.Sections, sp)
		bottom = sp.Rect.Max.Y
		cursor = bottom + sectionGap
	}
	if len(p.Sections) == 0 && spec.Photo.Placement != layout.PlacementSide {
		bottom = p.Photo.Rect.Max.Y
	}
	if spec.Photo.Placement == layout.PlacementSide {
		bottom = max(bottom, p.Photo.Rect.Max.Y)
	}

	fy := bottom + footerGap
	p.Footer = FooterPlan{
		Rect: image.Rect(headerInset, fy, w-headerInset, fy+footerHeight),
		Rule: image.Rect(headerInset, fy-5, w-headerInset, fy-5+footerRule),
		Text: spec.TimestampLabel + rec.Timestamp,
	}
	if spec.QRCode {
		side := footerHeight - 2*qrPad
		right := p.Footer.Rect.Max.X - footerRadius
		p.Footer.QR = image.Rect(right-side, fy+qrPad, right, fy+qrPad+side)
		p.Footer.QRText = record.ShareText(rec)
	}
	maxText := p.Footer.Rect.Dx() - 40
	if spec.QRCode {
		maxText -= 2 * (p.Footer.QR.Dx() + footerRadius)
	}
	p.Footer.Text = imagepkg.Truncate(f.footer, p.Footer.Text, maxText)

	if spec.AutoHeight {
		p.Height = min(spec.Height, p.Footer.Rect.Max.Y+footerMargin)
	}
	return p
}

func planPhoto(spec layout.Spec, present bool) PhotoPlan {
	pw, ph := spec.Photo.Width, spec.Photo.Height
	circle := spec.Photo.Shape == layout.ShapeCircle
	if circle {
		pw = min(pw, ph)
		ph = pw
	}
	var r image.Rectangle
	if spec.Photo.Placement == layout.PlacementSide {
		x1 := spec.Width - contentInset
		r = image.Rect(x1-pw, contentTop, x1, contentTop+ph)
	} else {
		x0 := (spec.Width - pw) / 2
		r = image.Rect(x0, contentTop, x0+pw, contentTop+ph)
	}
	pp := PhotoPlan{Rect: r, Inner: r.Inset(photoFrame), Circle: circle, Present: present}
	pp.Head, pp.HeadRadius, pp.Body, pp.BodyRadius = silhouette(pp.Inner, circle)
	return pp
}

// silhouette returns the head circle and the body half-disc of the
// placeholder figure inside r.
func silhouette(r image.Rectangle, circle bool) (image.Point, int, image.Point, int) {
	d := float64(min(r.Dx(), r.Dy()))
	cx := r.Min.X + r.Dx()/2
	if circle {
		head := image.Pt(cx, r.Min.Y+int(math.Round(d*0.38)))
		body := image.Pt(cx, r.Min.Y+int(math.Round(d*0.85)))
		return head, int(math.Round(d * 0.18)), body, int(math.Round(d * 0.30))
	}
	bodyR := int(math.Round(d * 0.38))
	headR := int(math.Round(d * 0.18))
	body := image.Pt(cx, r.Max.Y)
	head := image.Pt(cx, r.Max.Y-bodyR-headR-int(math.Round(d*0.04)))
	return head, headR, body, bodyR
}
