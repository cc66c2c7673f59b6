package dashboard

import (
	"image"
	"image/color"
	"strconv"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/logging"
)

// BarLabelOffsetY moves a bar's count label below the bar top so it sits inside the bar.
const BarLabelOffsetY = 20

const (
	pieLabelSize = 16
	barLabelSize = 14
)

// VAlign says which part of the text box sits on Label.At.Y.
type VAlign int

const (
	AlignMiddle VAlign = iota
	AlignBottom
)

// Label is one piece of overlay text, horizontally centred on At.
type Label struct {
	Text   string
	At     image.Point
	VAlign VAlign
}

// PieLabels computes the percentage label of every slice of the last drawn pie frame.
// A zero total yields no labels.
func PieLabels(ch *chartkit.Chart) []Label {
	g := ch.Geometry()
	total := 0.0
	for _, e := range g.Elements {
		total += e.Value
	}
	if total <= 0 {
		return nil
	}
	out := make([]Label, 0, len(g.Elements))
	for _, e := range g.Elements {
		out = append(out, Label{
			Text:   Percent(e.Value, total) + "%",
			At:     e.Anchor,
			VAlign: AlignMiddle,
		})
	}
	return out
}

// BarLabels computes the count label of every non-zero bar of the last drawn bar frame.
func BarLabels(ch *chartkit.Chart) []Label {
	g := ch.Geometry()
	var out []Label
	for _, e := range g.Elements {
		if e.Value <= 0 {
			continue
		}
		out = append(out, Label{
			Text:   strconv.FormatFloat(e.Value, 'f', -1, 64),
			At:     e.Anchor.Add(image.Pt(0, BarLabelOffsetY)),
			VAlign: AlignBottom,
		})
	}
	return out
}

// Overlay paints derived labels on a chart after every completed redraw.
type Overlay struct {
	compute func(*chartkit.Chart) []Label
	size    float64
	color   color.Color
}

// NewPieOverlay paints slice percentages in white bold 16px.
func NewPieOverlay() *Overlay {
	return &Overlay{compute: PieLabels, size: pieLabelSize, color: color.White}
}

// NewBarOverlay paints bar counts in white bold 14px.
func NewBarOverlay() *Overlay {
	return &Overlay{compute: BarLabels, size: barLabelSize, color: color.White}
}

// RenderComplete implements chartkit.Observer.
func (o *Overlay) RenderComplete(ch *chartkit.Chart) {
	dst := ch.Canvas()
	if dst == nil {
		return
	}
	labels := o.compute(ch)
	if len(labels) == 0 {
		return
	}
	face, err := boldFace(o.size)
	if err != nil {
		logging.Warnf("[overlay] font: %v", err)
		return
	}
	Paint(dst, face, o.color, labels)
}

// Paint draws labels onto dst.
func Paint(dst *image.RGBA, face font.Face, col color.Color, labels []Label) {
	m := face.Metrics()
	dr := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: face}
	for _, l := range labels {
		w := dr.MeasureString(l.Text)
		x := fixed.I(l.At.X) - w/2
		y := fixed.I(l.At.Y)
		switch l.VAlign {
		case AlignMiddle:
			y += (m.Ascent - m.Descent) / 2
		case AlignBottom:
			y -= m.Descent
		}
		dr.Dot = fixed.Point26_6{X: x, Y: y}
		dr.DrawString(l.Text)
	}
}

var (
	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
	boldTTF *opentype.Font
)

// boldFace returns a cached Go Bold face at size px.
func boldFace(size float64) (font.Face, error) {
	facesMu.Lock()
	defer facesMu.Unlock()
	if f, ok := faces[size]; ok {
		return f, nil
	}
	if boldTTF == nil {
		f, err := opentype.Parse(gobold.TTF)
		if err != nil {
			return nil, err
		}
		boldTTF = f
	}
	face, err := opentype.NewFace(boldTTF, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	faces[size] = face
	return face, nil
}
