// Package dashboard keeps the two statistics charts in step with the backend: it fetches a
// snapshot, reconciles each chart (create once, then mutate in place), paints the overlays
// after every redraw and repeats on a fixed period.
package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/singleflight"

	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/logging"
	"github.com/iafilius/PhishingDashboard/src/stats"
)

// Fetcher returns the current statistics; *stats.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context) (stats.Snapshot, error)
}

// Cards shows the raw counts next to the charts.
type Cards interface {
	SetCounts(safe, phishing int)
}

// CardsFunc adapts a function to Cards.
type CardsFunc func(safe, phishing int)

// SetCounts calls f(safe, phishing).
func (f CardsFunc) SetCounts(safe, phishing int) { f(safe, phishing) }

// Mounts are where the dashboard draws. Pie being nil means there is no dashboard to
// drive and the scheduler will not start.
type Mounts struct {
	Pie   chartkit.Surface
	Bar   chartkit.Surface
	Cards Cards
}

// Controller owns the chart handles. Reconcile and Apply must run on the dispatcher.
type Controller struct {
	fetcher  Fetcher
	mounts   Mounts
	settings ChartSettings
	dispatch Dispatcher
	after    chartkit.After

	pie *chartkit.Chart
	bar *chartkit.Chart

	fetches singleflight.Group

	// life bounds shared fetches; callers only bound their own wait.
	life  context.Context
	close context.CancelFunc
}

// NewController wires a fetcher to the mounts. A nil dispatcher means Immediate.
func NewController(f Fetcher, m Mounts, s ChartSettings, d Dispatcher) *Controller {
	if d == nil {
		d = Immediate
	}
	life, cancel := context.WithCancel(context.Background())
	return &Controller{
		fetcher:  f,
		mounts:   m,
		settings: s,
		dispatch: d,
		after:    AfterOn(d),
		life:     life,
		close:    cancel,
	}
}

// Close aborts any fetch still in flight. Refresh fails with context.Canceled afterwards.
func (c *Controller) Close() { c.close() }

// Dispatcher returns the dispatcher chart work runs on.
func (c *Controller) Dispatcher() Dispatcher { return c.dispatch }

// Pie returns the pie handle, nil before the first reconcile.
func (c *Controller) Pie() *chartkit.Chart { return c.pie }

// Bar returns the bar handle, nil before the first reconcile.
func (c *Controller) Bar() *chartkit.Chart { return c.bar }

// Chart returns the handle for kind.
func (c *Controller) Chart(kind chartkit.Kind) *chartkit.Chart {
	switch kind {
	case chartkit.KindPie:
		return c.pie
	case chartkit.KindBar:
		return c.bar
	}
	return nil
}

// Resize sets the pixel size for both charts, including ones not created yet.
func (c *Controller) Resize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.settings.Width, c.settings.Height = w, h
	for _, ch := range []*chartkit.Chart{c.pie, c.bar} {
		if ch != nil {
			ch.Resize(w, h)
		}
	}
}

// Apply shows one snapshot: stat cards first, then the pie, then the bar chart.
func (c *Controller) Apply(s stats.Snapshot) {
	if c.mounts.Cards != nil {
		c.mounts.Cards.SetCounts(s.SafeCount, s.PhishingCount)
	}
	c.Reconcile(chartkit.KindPie, s)
	c.Reconcile(chartkit.KindBar, s)
}

// Reconcile creates the chart of kind on first use and updates it in place afterwards.
func (c *Controller) Reconcile(kind chartkit.Kind, s stats.Snapshot) {
	switch kind {
	case chartkit.KindPie:
		values := PieValues(s)
		if c.pie == nil {
			c.pie = chartkit.New(c.mounts.Pie, pieOptions(c.settings),
				chartkit.Data{Labels: append([]string(nil), PieCategories...), Values: values},
				c.after, NewPieOverlay())
			return
		}
		c.pie.Data.Values = values
		c.pie.Update()
	case chartkit.KindBar:
		labels, counts := BarSeries(s)
		if c.bar == nil {
			c.bar = chartkit.New(c.mounts.Bar, barOptions(c.settings),
				chartkit.Data{Labels: labels, Values: toFloats(counts)},
				c.after, NewBarOverlay())
			return
		}
		c.bar.Data.Labels = labels
		c.bar.Data.Values = toFloats(counts)
		c.bar.Options.ValueAxis.Max = float64(AxisCeiling(counts))
		c.bar.Update()
	}
}

// Refresh runs one fetch then reconcile cycle. Concurrent calls share a single fetch, whose
// snapshot is applied once on the dispatcher. The fetch is bounded by the controller's
// lifetime, not by ctx: a caller that gives up returns ctx.Err() without cancelling the
// cycle for the others. A failed fetch is logged and leaves the charts as they are.
func (c *Controller) Refresh(ctx context.Context) error {
	id := ulid.Make().String()
	start := time.Now()
	ch := c.fetches.DoChan("snapshot", func() (interface{}, error) {
		fctx, cancel := c.fetchContext(ctx)
		defer cancel()
		snap, err := c.fetcher.Fetch(fctx)
		if err != nil {
			return nil, err
		}
		c.dispatch.Do(func() { c.Apply(snap) })
		return snap, nil
	})
	var res singleflight.Result
	select {
	case res = <-ch:
	case <-ctx.Done():
		logging.Debugf("[poll %s] caller gave up after %s: %v", id, time.Since(start), ctx.Err())
		return ctx.Err()
	}
	if err := res.Err; err != nil {
		var fe *stats.FetchError
		var de *stats.DecodeError
		switch {
		case errors.As(err, &fe):
			logging.Warnf("[poll %s] fetch failed: %v", id, err)
		case errors.As(err, &de):
			logging.Warnf("[poll %s] bad payload: %v", id, err)
		default:
			logging.Warnf("[poll %s] %v", id, err)
		}
		return err
	}
	snap := res.Val.(stats.Snapshot)
	logging.Debugf("[poll %s] safe=%d phishing=%d keywords=%d shared=%v in %s",
		id, snap.SafeCount, snap.PhishingCount, len(snap.TopKeywords), res.Shared, time.Since(start))
	return nil
}

// fetchContext keeps the caller's values but takes cancellation from the controller.
func (c *Controller) fetchContext(ctx context.Context) (context.Context, context.CancelFunc) {
	fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	stop := context.AfterFunc(c.life, cancel)
	return fctx, func() {
		stop()
		cancel()
	}
}
