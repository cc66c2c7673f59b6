// Package chartkit is a small retained-mode charting layer for the dashboard. A Chart owns
// mutable Data and Options; Update animates from what is on screen to the current data,
// Render redraws in place. After every completed redraw the registered observers run once
// with the freshly drawn canvas, which is then presented to the chart's surface.
//
// A Chart is not safe for concurrent use. All calls, and the tasks handed to After, must run
// on one goroutine (the dashboard's dispatcher).
package chartkit

import (
	"image"
	"math"
	"time"

	"github.com/iafilius/PhishingDashboard/src/logging"
)

// Observer is notified once per completed redraw. Implementations may paint on c.Canvas().
type Observer interface {
	RenderComplete(c *Chart)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(c *Chart)

// RenderComplete calls f(c).
func (f ObserverFunc) RenderComplete(c *Chart) { f(c) }

// After schedules task to run after delay on the chart's goroutine. A nil After runs
// animation frames back to back without waiting.
type After func(delay time.Duration, task func())

// Chart is one live chart bound to a surface.
type Chart struct {
	Data    Data
	Options Options

	surface   Surface
	observers []Observer
	after     After

	// what the last frame showed
	drawnLabels []string
	drawnValues []float64
	canvas      *image.RGBA
	geom        Geometry

	active    int
	animGen   uint64
	animating bool
	redraws   uint64
}

// New creates a chart, registers observers and runs the initial update (animating from zero).
func New(surface Surface, opts Options, data Data, after After, observers ...Observer) *Chart {
	c := &Chart{
		Data:      data,
		Options:   opts,
		surface:   surface,
		after:     after,
		observers: observers,
		active:    -1,
	}
	c.Update()
	return c
}

// OnRenderComplete registers an additional observer.
func (c *Chart) OnRenderComplete(o Observer) { c.observers = append(c.observers, o) }

// Canvas is the drawing surface of the last frame. Observers paint on it before it is presented.
func (c *Chart) Canvas() *image.RGBA { return c.canvas }

// Geometry describes the elements of the last frame.
func (c *Chart) Geometry() Geometry { return c.geom }

// Active returns the highlighted element index, or -1.
func (c *Chart) Active() int { return c.active }

// Redraws counts completed redraws (observer notifications).
func (c *Chart) Redraws() uint64 { return c.redraws }

// Animating reports whether an update animation is in progress.
func (c *Chart) Animating() bool { return c.animating }

// SetActive highlights element i (-1 clears). It reports whether the highlight changed;
// callers follow a change with Render.
func (c *Chart) SetActive(i int) bool {
	if i < -1 {
		i = -1
	}
	if i == c.active {
		return false
	}
	c.active = i
	return true
}

// Resize changes the output size and redraws.
func (c *Chart) Resize(w, h int) {
	if w == c.Options.Width && h == c.Options.Height {
		return
	}
	c.Options.Width, c.Options.Height = w, h
	c.Render()
}

// Update redraws from the values currently on screen to Data, animating when
// Options.Animation.Frames > 0. A newer Update supersedes a running animation and starts
// from whatever frame was last drawn.
func (c *Chart) Update() {
	c.animGen++
	gen := c.animGen
	labels := append([]string(nil), c.Data.Labels...)
	to := append([]float64(nil), c.Data.Values...)
	from := c.drawnValues
	frames := c.Options.Animation.Frames
	if frames <= 0 {
		c.animating = false
		c.complete(labels, to)
		return
	}
	delay := c.Options.Animation.Duration / time.Duration(frames+1)
	c.animating = true
	var step func(f int)
	step = func(f int) {
		if gen != c.animGen {
			return
		}
		if f > frames {
			c.animating = false
			c.complete(labels, to)
			return
		}
		t := easeOutQuart(float64(f) / float64(frames+1))
		c.frame(labels, interpolate(from, to, t))
		c.schedule(delay, func() { step(f + 1) })
	}
	step(1)
}

// Render redraws the values on screen without animation, e.g. after a hover or resize.
// While an update animation runs the next frame already reflects the new state, so Render
// leaves it alone.
func (c *Chart) Render() {
	if c.animating {
		return
	}
	c.complete(c.drawnLabels, c.drawnValues)
}

func (c *Chart) schedule(delay time.Duration, task func()) {
	if c.after == nil {
		task()
		return
	}
	c.after(delay, task)
}

// frame draws an intermediate animation frame. Observers are not notified.
func (c *Chart) frame(labels []string, values []float64) {
	img, geom, err := c.draw(labels, values)
	if err != nil {
		logging.Debugf("[chartkit] %s frame: %v", c.Options.Kind, err)
		return
	}
	c.store(labels, values, img, geom)
	c.present(img)
}

// complete draws the final frame of a redraw, runs observers on it and presents it.
func (c *Chart) complete(labels []string, values []float64) {
	img, geom, err := c.draw(labels, values)
	if err != nil {
		logging.Errorf("[chartkit] %s chart render error: %v; showing blank fallback", c.Options.Kind, err)
		c.present(Blank(max(c.Options.Width, 1), max(c.Options.Height, 1), c.Options.withDefaults().Background))
		return
	}
	c.store(labels, values, img, geom)
	c.redraws++
	for _, o := range c.observers {
		o.RenderComplete(c)
	}
	c.present(img)
}

func (c *Chart) store(labels []string, values []float64, img *image.RGBA, geom Geometry) {
	c.drawnLabels = labels
	c.drawnValues = values
	c.canvas = img
	c.geom = geom
}

func (c *Chart) present(img image.Image) {
	if c.surface != nil {
		c.surface.Present(img)
	}
}

// interpolate moves from toward to by t. New elements grow from zero; removed ones vanish.
func interpolate(from, to []float64, t float64) []float64 {
	out := make([]float64, len(to))
	for i, v := range to {
		start := 0.0
		if i < len(from) {
			start = from[i]
		}
		out[i] = start + (v-start)*t
	}
	return out
}

func easeOutQuart(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}
