package chartkit

import (
	"image"
	"math"
)

// Element is one rendered slice or bar. Anchor is the point overlays and tooltips attach to:
// the mid-angle point at half radius for a slice, the top centre of a bar.
type Element struct {
	Index  int
	Label  string
	Value  float64
	Anchor image.Point

	// Bounds is the bar rectangle; for slices it is the pie's bounding square.
	Bounds image.Rectangle

	// StartAngle and Sweep are in radians, clockwise from 3 o'clock (screen coordinates).
	StartAngle float64
	Sweep      float64
}

// Geometry describes the last drawn frame in image pixel space.
type Geometry struct {
	Kind     Kind
	Plot     image.Rectangle
	Center   image.Point
	Radius   float64
	Elements []Element
}

// pieStartAngle puts the first slice at 12 o'clock.
const pieStartAngle = -math.Pi / 2

// layoutPie places slices inside area. A zero or negative total yields zero-sweep slices.
func layoutPie(area image.Rectangle, labels []string, values []float64) Geometry {
	diameter := area.Dx()
	if area.Dy() < diameter {
		diameter = area.Dy()
	}
	if diameter < 0 {
		diameter = 0
	}
	cx := area.Min.X + area.Dx()/2
	cy := area.Min.Y + area.Dy()/2
	radius := float64(diameter) / 2
	g := Geometry{
		Kind:   KindPie,
		Plot:   area,
		Center: image.Pt(cx, cy),
		Radius: radius,
	}
	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}
	bounds := image.Rect(cx-diameter/2, cy-diameter/2, cx+diameter/2, cy+diameter/2)
	angle := pieStartAngle
	for i, v := range values {
		sweep := 0.0
		if total > 0 && v > 0 {
			sweep = 2 * math.Pi * v / total
		}
		mid := angle + sweep/2
		g.Elements = append(g.Elements, Element{
			Index:      i,
			Label:      labelAt(labels, i),
			Value:      v,
			Anchor:     image.Pt(cx+int(math.Round(math.Cos(mid)*radius/2)), cy+int(math.Round(math.Sin(mid)*radius/2))),
			Bounds:     bounds,
			StartAngle: angle,
			Sweep:      sweep,
		})
		angle += sweep
	}
	return g
}

// layoutBars places one bar per value inside plot, scaled to [axis.Min, axis.Max].
func layoutBars(plot image.Rectangle, labels []string, values []float64, axis ValueAxis) Geometry {
	g := Geometry{Kind: KindBar, Plot: plot}
	n := len(values)
	if n == 0 || plot.Dx() <= 0 {
		return g
	}
	band := float64(plot.Dx()) / float64(n)
	barW := band * categoryPercentage * barPercentage
	for i, v := range values {
		xc := float64(plot.Min.X) + band*(float64(i)+0.5)
		top := valueToY(plot, axis, v)
		base := valueToY(plot, axis, math.Max(axis.Min, 0))
		if top > base {
			top, base = base, top
		}
		left := int(math.Round(xc - barW/2))
		right := int(math.Round(xc + barW/2))
		g.Elements = append(g.Elements, Element{
			Index:  i,
			Label:  labelAt(labels, i),
			Value:  v,
			Anchor: image.Pt(int(math.Round(xc)), top),
			Bounds: image.Rect(left, top, right, base),
		})
	}
	return g
}

// valueToY maps a value onto the plot's vertical pixel range, clamped to the plot.
func valueToY(plot image.Rectangle, axis ValueAxis, v float64) int {
	span := axis.Max - axis.Min
	if span <= 0 {
		span = 1
	}
	frac := (v - axis.Min) / span
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return plot.Max.Y - int(math.Round(frac*float64(plot.Dy())))
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return ""
}

// HitTest returns the index of the element under p, or -1.
func (g Geometry) HitTest(p image.Point) int {
	switch g.Kind {
	case KindPie:
		dx := float64(p.X - g.Center.X)
		dy := float64(p.Y - g.Center.Y)
		if g.Radius <= 0 || math.Hypot(dx, dy) > g.Radius {
			return -1
		}
		a := math.Atan2(dy, dx)
		for _, e := range g.Elements {
			if e.Sweep <= 0 {
				continue
			}
			if angleWithin(a, e.StartAngle, e.Sweep) {
				return e.Index
			}
		}
	case KindBar:
		for _, e := range g.Elements {
			if p.In(e.Bounds) {
				return e.Index
			}
		}
	}
	return -1
}

// angleWithin reports whether a lies in [start, start+sweep) modulo 2π.
func angleWithin(a, start, sweep float64) bool {
	if sweep >= 2*math.Pi {
		return true
	}
	d := math.Mod(a-start, 2*math.Pi)
	if d < 0 {
		d += 2 * math.Pi
	}
	return d < sweep
}
