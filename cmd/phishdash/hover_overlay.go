package main

import (
	"image"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/iafilius/PhishingDashboard/cmd/phishdash/uihelpers"
	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/dashboard"
)

// hoverOverlay sits on top of a chart image and highlights the slice or bar under the mouse.
// The chart itself draws the tooltip; this widget only maps mouse positions to elements.
type hoverOverlay struct {
	widget.BaseWidget
	chart    func() *chartkit.Chart
	dispatch dashboard.Dispatcher
}

func newHoverOverlay(chart func() *chartkit.Chart, d dashboard.Dispatcher) *hoverOverlay {
	h := &hoverOverlay{chart: chart, dispatch: d}
	h.ExtendBaseWidget(h)
	return h
}

func (h *hoverOverlay) CreateRenderer() fyne.WidgetRenderer {
	// transparent background to ensure full hit-area for hover events
	bg := canvas.NewRectangle(color.RGBA{R: 0, G: 0, B: 0, A: 0})
	return widget.NewSimpleRenderer(bg)
}

func (h *hoverOverlay) MouseIn(ev *desktop.MouseEvent)    { h.track(ev.Position) }
func (h *hoverOverlay) MouseMoved(ev *desktop.MouseEvent) { h.track(ev.Position) }
func (h *hoverOverlay) MouseOut()                         { h.highlight(func(*chartkit.Chart) int { return -1 }) }

func (h *hoverOverlay) track(pos fyne.Position) {
	size := h.Size()
	h.highlight(func(ch *chartkit.Chart) int {
		return hoverIndex(ch, pos.X, pos.Y, size.Width, size.Height)
	})
}

// highlight resolves the element on the dispatcher, where the chart may be touched, and
// redraws only when the highlighted element changed.
func (h *hoverOverlay) highlight(pick func(*chartkit.Chart) int) {
	h.dispatch.Do(func() {
		ch := h.chart()
		if ch == nil {
			return
		}
		if ch.SetActive(pick(ch)) {
			ch.Render()
		}
	})
}

// hoverIndex maps a view position to the chart element under it, or -1.
func hoverIndex(ch *chartkit.Chart, x, y, viewW, viewH float32) int {
	if ch == nil || ch.Canvas() == nil {
		return -1
	}
	b := ch.Canvas().Bounds()
	ix, iy, ok := uihelpers.ViewToImage(x, y, float32(b.Dx()), float32(b.Dy()), viewW, viewH)
	if !ok {
		return -1
	}
	return ch.Geometry().HitTest(image.Pt(ix, iy))
}

// Assert that hoverOverlay implements desktop.Hoverable
var _ desktop.Hoverable = (*hoverOverlay)(nil)
