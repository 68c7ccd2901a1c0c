package card

import (
	"image"
	"image/color"

	"golang.org/x/image/font"

	imagepkg "github.com/youruser/casecard/internal/image"
)

type drawer struct {
	c   *imagepkg.Canvas
	pal *palette
	f   *faces
}

func (d drawer) background(w, h int) {
	d.c.FillGradient(image.Rect(0, 0, w, h), d.pal.bgTop, d.pal.bgBottom, imagepkg.Vertical)
	outer := image.Rect(outerMargin, outerMargin, w-outerMargin, h-outerMargin)
	d.c.StrokeRoundedRect(outer, imagepkg.Round(frameRadius), frameInset-outerMargin, d.pal.frameOuter)
	inner := image.Rect(frameInset, frameInset, w-frameInset, h-frameInset)
	d.c.StrokeRoundedRect(inner, imagepkg.Round(innerRadius), 2, d.pal.frameInner)
}

func (d drawer) header(h HeaderPlan) {
	r := h.Rect
	radii := imagepkg.Top(innerRadius)
	d.c.FillRoundedGradient(r, radii, d.pal.headerStart, d.pal.headerEnd, imagepkg.Horizontal)
	band := imagepkg.RoundedRectMask(r, radii)
	for x := r.Min.X; x < r.Max.X; x += stripeStep {
		d.c.FillMaskRect(band, image.Rect(x, r.Min.Y, x+stripeWidth, r.Max.Y), d.pal.stripe)
	}
	base := imagepkg.Baseline(d.f.title, r.Min.Y, r.Dy())
	d.c.DrawTextShadow(d.f.title, h.Title, r.Min.X+r.Dx()/2, base, imagepkg.AlignCenter, d.pal.title, d.pal.shadow, shadowOffset, r)
	d.c.Fill(h.Rule, d.pal.accent)
}

func (d drawer) section(s SectionPlan, mirror bool) {
	accent := d.pal.sections[s.accent%len(d.pal.sections)]
	start, end := accent[0], accent[1]
	radii := imagepkg.Round(sectionRadius)
	d.c.FillRoundedRect(s.Rect, radii, imagepkg.WithAlpha(start, 0.05))
	d.c.StrokeRoundedRect(s.Rect, radii, 2, imagepkg.WithAlpha(start, 0.3))

	band := s.TitleBand
	d.c.FillRoundedGradient(band, imagepkg.Top(sectionRadius), start, end, imagepkg.Horizontal)
	cx := band.Min.X + band.Dx()/2
	d.c.DrawText(d.f.section, s.Title, cx, imagepkg.Baseline(d.f.section, band.Min.Y, band.Dy()), imagepkg.AlignCenter, d.pal.title, band)
	d.c.FillCircle(float64(cx), float64(band.Max.Y+dotRadius*2), dotRadius, d.pal.accent)

	for _, row := range s.Rows {
		d.row(row, start, mirror, d.f.label, d.f.value, d.f.valueLine)
	}
}

// row draws one label box, separator and value box.
func (d drawer) row(r RowPlan, accent color.NRGBA, mirror bool, label, value font.Face, lineHeight int) {
	labelRadii, valueRadii := imagepkg.Left(rowRadius), imagepkg.Right(rowRadius)
	sep := image.Rect(r.LabelBox.Max.X, r.Rect.Min.Y, r.ValueBox.Min.X, r.Rect.Max.Y)
	if mirror {
		labelRadii, valueRadii = valueRadii, labelRadii
		sep = image.Rect(r.ValueBox.Max.X, r.Rect.Min.Y, r.LabelBox.Min.X, r.Rect.Max.Y)
	}
	d.c.FillRoundedRect(r.LabelBox, labelRadii, d.pal.labelFill)
	d.c.Fill(sep, accent)
	d.c.FillRoundedRect(r.ValueBox, valueRadii, d.pal.valueFill)

	lb := r.LabelBox
	d.c.DrawText(label, r.Label, lb.Min.X+lb.Dx()/2, imagepkg.Baseline(label, lb.Min.Y, lb.Dy()), imagepkg.AlignCenter, d.pal.label, lb)

	if len(r.Lines) == 0 {
		return
	}
	vb := r.ValueBox
	col := d.pal.text
	if r.Placeholder {
		col = d.pal.placeholder
	}
	x, align := vb.Min.X+valuePadX, imagepkg.AlignLeft
	if r.RTL {
		x, align = vb.Max.X-valuePadX, imagepkg.AlignRight
	}
	top := vb.Min.Y + (vb.Dy()-len(r.Lines)*lineHeight)/2
	for i, line := range r.Lines {
		base := imagepkg.Baseline(value, top+i*lineHeight, lineHeight)
		d.c.DrawText(value, line, x, base, align, col, vb)
	}
}

func (d drawer) footer(f FooterPlan) {
	d.c.Fill(f.Rule, d.pal.accent)
	d.c.FillRoundedGradient(f.Rect, imagepkg.Bottom(footerRadius), d.pal.footerStart, d.pal.footerEnd, imagepkg.Horizontal)
	r := f.Rect
	base := imagepkg.Baseline(d.f.footer, r.Min.Y, r.Dy())
	d.c.DrawTextShadow(d.f.footer, f.Text, r.Min.X+r.Dx()/2, base, imagepkg.AlignCenter, d.pal.title, d.pal.shadow, shadowOffset, r)
}

// photo draws the framed photo region, the photo or the placeholder figure,
// and the corner markers.
func (d drawer) photo(p PhotoPlan, img image.Image) {
	shape := imagepkg.ShapeRect
	if p.Circle {
		shape = imagepkg.ShapeCircle
	}
	d.c.FillRegion(p.Inner, shape, photoRadius-photoFrame, d.pal.photoBg)
	if img != nil {
		d.c.DrawPhoto(img, p.Inner, shape, photoRadius-photoFrame)
	} else {
		d.placeholder(p)
	}
	d.c.StrokeRegion(p.Rect, shape, photoRadius, photoFrame, d.pal.photoFrame)
	r := p.Rect
	for _, pt := range []image.Point{r.Min, {X: r.Max.X, Y: r.Min.Y}, r.Max, {X: r.Min.X, Y: r.Max.Y}} {
		d.c.FillCircle(float64(pt.X), float64(pt.Y), markerRadius, d.pal.accent)
	}
}

func (d drawer) placeholder(p PhotoPlan) {
	d.c.FillUpperHalfDisc(float64(p.Body.X), float64(p.Body.Y), float64(p.BodyRadius), d.pal.silhouette)
	d.c.FillCircle(float64(p.Head.X), float64(p.Head.Y), float64(p.HeadRadius), d.pal.silhouette)
}
