package chartkit

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// draw renders one frame with go-chart's raster renderer and returns it as an RGBA canvas
// together with the element geometry used to place it.
func (c *Chart) draw(labels []string, values []float64) (*image.RGBA, Geometry, error) {
	o := c.Options.withDefaults()
	if o.Width <= 0 || o.Height <= 0 {
		return nil, Geometry{}, fmt.Errorf("invalid chart size %dx%d", o.Width, o.Height)
	}
	r, err := chart.PNG(o.Width, o.Height)
	if err != nil {
		return nil, Geometry{}, fmt.Errorf("create renderer: %w", err)
	}
	f, err := chart.GetDefaultFont()
	if err != nil {
		return nil, Geometry{}, fmt.Errorf("load font: %w", err)
	}
	r.SetFont(f)
	fillRect(r, image.Rect(0, 0, o.Width, o.Height), o.Background)

	var g Geometry
	switch o.Kind {
	case KindPie:
		g = drawPie(r, o, labels, values)
	case KindBar:
		g = drawBars(r, o, labels, values)
	default:
		return nil, Geometry{}, errors.New("unknown chart kind")
	}
	drawTooltip(r, o, g, Data{Labels: labels, Values: values}, c.active)

	var buf bytes.Buffer
	if err := r.Save(&buf); err != nil {
		return nil, Geometry{}, fmt.Errorf("encode frame: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, Geometry{}, fmt.Errorf("decode frame: %w", err)
	}
	b := img.Bounds()
	rgba := image.NewRGBA(b)
	draw.Draw(rgba, b, img, b.Min, draw.Src)
	return rgba, g, nil
}

func drawPie(r chart.Renderer, o Options, labels []string, values []float64) Geometry {
	legendH := 0
	if o.Legend.Display {
		legendH = int(math.Ceil(o.Legend.FontSize)) + 2*o.Legend.Padding
	}
	area := image.Rect(defaultPadding, defaultPadding, o.Width-defaultPadding, o.Height-defaultPadding-legendH)
	g := layoutPie(area, labels, values)
	cx, cy := g.Center.X, g.Center.Y

	drawn := false
	for _, e := range g.Elements {
		if e.Sweep <= 0 {
			continue
		}
		r.SetFillColor(o.colorFor(e.Index))
		r.SetStrokeColor(colorWhite)
		r.SetStrokeWidth(2)
		r.MoveTo(cx, cy)
		r.ArcTo(cx, cy, g.Radius, g.Radius, e.StartAngle, e.Sweep)
		r.LineTo(cx, cy)
		r.Close()
		r.FillStroke()
		drawn = true
	}
	// nothing to show yet: outline the pie so the mount is not empty
	if !drawn && g.Radius > 0 {
		r.SetStrokeColor(colorEmptyPie)
		r.SetStrokeWidth(1)
		r.MoveTo(cx+int(g.Radius), cy)
		r.ArcTo(cx, cy, g.Radius, g.Radius, 0, 2*math.Pi)
		r.Stroke()
	}
	if o.Legend.Display {
		drawLegend(r, o, labels, o.Height-defaultPadding-legendH, legendH)
	}
	return g
}

func drawLegend(r chart.Renderer, o Options, labels []string, top, height int) {
	r.SetFontSize(o.Legend.FontSize)
	r.SetFontColor(o.FontColor)
	widths := make([]int, len(labels))
	total := 0
	for i, l := range labels {
		widths[i] = r.MeasureText(l).Width()
		total += legendBoxSize + legendBoxTextSpacer + widths[i]
	}
	if len(labels) > 1 {
		total += legendItemSpacing * (len(labels) - 1)
	}
	x := (o.Width - total) / 2
	mid := top + height/2
	for i, l := range labels {
		fillRect(r, image.Rect(x, mid-legendBoxSize/2, x+legendBoxSize, mid+legendBoxSize/2), o.colorFor(i))
		x += legendBoxSize + legendBoxTextSpacer
		th := r.MeasureText(l).Height()
		r.Text(l, x, mid+th/2)
		x += widths[i] + legendItemSpacing
	}
}

func drawBars(r chart.Renderer, o Options, labels []string, values []float64) Geometry {
	axis := o.ValueAxis
	ticks := valueTicks(axis)
	r.SetFontSize(o.FontSize)
	r.SetFontColor(o.FontColor)
	labelW := 0
	for _, t := range ticks {
		if w := r.MeasureText(formatTick(t)).Width(); w > labelW {
			labelW = w
		}
	}
	labelH := r.MeasureText("0").Height()
	plot := image.Rect(
		defaultPadding+labelW+axisLabelGap,
		defaultPadding+labelH/2,
		o.Width-defaultPadding,
		o.Height-defaultPadding-labelH-axisLabelGap,
	)
	g := layoutBars(plot, labels, values, axis)

	for _, t := range ticks {
		y := valueToY(plot, axis, t)
		if axis.ShowGrid {
			strokeLine(r, plot.Min.X, y, plot.Max.X, y, axis.GridColor)
		}
		s := formatTick(t)
		r.Text(s, plot.Min.X-axisLabelGap-r.MeasureText(s).Width(), y+labelH/2)
	}
	if o.CategoryAxis.ShowGrid && len(values) > 0 {
		band := float64(plot.Dx()) / float64(len(values))
		for i := 1; i < len(values); i++ {
			x := plot.Min.X + int(math.Round(band*float64(i)))
			strokeLine(r, x, plot.Min.Y, x, plot.Max.Y, axis.GridColor)
		}
	}
	strokeLine(r, plot.Min.X, plot.Min.Y, plot.Min.X, plot.Max.Y, colorAxisLine)
	strokeLine(r, plot.Min.X, plot.Max.Y, plot.Max.X, plot.Max.Y, colorAxisLine)

	for _, e := range g.Elements {
		if e.Bounds.Dy() <= 0 || e.Bounds.Dx() <= 0 {
			continue
		}
		r.SetFillColor(o.BarFill)
		r.SetStrokeColor(o.BarBorder)
		r.SetStrokeWidth(1)
		rectPath(r, e.Bounds)
		r.FillStroke()
	}

	if n := len(g.Elements); n > 0 {
		maxW := plot.Dx() / n
		if shown := len(categoryTickIndices(n, o.CategoryAxis.MaxTicks)); shown > 0 {
			maxW = plot.Dx() / shown
		}
		r.SetFontColor(o.FontColor)
		for _, i := range categoryTickIndices(n, o.CategoryAxis.MaxTicks) {
			e := g.Elements[i]
			s := fitLabel(r, e.Label, maxW-4)
			r.Text(s, e.Anchor.X-r.MeasureText(s).Width()/2, plot.Max.Y+axisLabelGap+labelH)
		}
	}
	return g
}

func drawTooltip(r chart.Renderer, o Options, g Geometry, data Data, active int) {
	if o.Tooltip == nil || active < 0 || active >= len(g.Elements) {
		return
	}
	text := o.Tooltip(data, active)
	if text == "" {
		return
	}
	r.SetFontSize(defaultTooltipSize)
	tb := r.MeasureText(text)
	bw := tb.Width() + 2*tooltipPadding
	bh := tb.Height() + 2*tooltipPadding
	a := g.Elements[active].Anchor
	x := a.X - bw/2
	y := a.Y - bh - tooltipPadding
	if g.Kind == KindPie {
		y = a.Y - bh/2
	}
	x = clampInt(x, 0, o.Width-bw)
	y = clampInt(y, 0, o.Height-bh)
	fillRect(r, image.Rect(x, y, x+bw, y+bh), colorTooltipBG)
	r.SetFontColor(colorWhite)
	r.Text(text, x+tooltipPadding, y+tooltipPadding+tb.Height())
}

// fitLabel shortens s with "..." until it fits maxW pixels.
func fitLabel(r chart.Renderer, s string, maxW int) string {
	if maxW <= 0 || r.MeasureText(s).Width() <= maxW {
		return s
	}
	runes := []rune(s)
	for n := len(runes) - 1; n > 0; n-- {
		cand := string(runes[:n]) + "..."
		if r.MeasureText(cand).Width() <= maxW {
			return cand
		}
	}
	return "..."
}

func rectPath(r chart.Renderer, b image.Rectangle) {
	r.MoveTo(b.Min.X, b.Min.Y)
	r.LineTo(b.Max.X, b.Min.Y)
	r.LineTo(b.Max.X, b.Max.Y)
	r.LineTo(b.Min.X, b.Max.Y)
	r.Close()
}

func fillRect(r chart.Renderer, b image.Rectangle, col drawing.Color) {
	r.SetFillColor(col)
	rectPath(r, b)
	r.Fill()
}

func strokeLine(r chart.Renderer, x0, y0, x1, y1 int, col drawing.Color) {
	r.SetStrokeColor(col)
	r.SetStrokeWidth(1)
	r.MoveTo(x0, y0)
	r.LineTo(x1, y1)
	r.Stroke()
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
