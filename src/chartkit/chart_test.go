package chartkit

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func pieOptions() Options {
	return Options{
		Kind:   KindPie,
		Width:  320,
		Height: 240,
		Legend: LegendOptions{Display: true, Padding: 15, FontSize: 13},
	}
}

func barOptions() Options {
	return Options{
		Kind:         KindBar,
		Width:        320,
		Height:       240,
		ValueAxis:    ValueAxis{Min: 0, Max: 60, Step: 30, ShowGrid: true},
		CategoryAxis: CategoryAxis{MaxTicks: 5},
	}
}

// queue collects animation tasks so tests can step frames by hand.
type queue struct {
	tasks  []func()
	delays []time.Duration
}

func (q *queue) after(d time.Duration, task func()) {
	q.delays = append(q.delays, d)
	q.tasks = append(q.tasks, task)
}

func (q *queue) drain() int {
	n := 0
	for len(q.tasks) > 0 {
		task := q.tasks[0]
		q.tasks = q.tasks[1:]
		task()
		n++
	}
	return n
}

func TestNewRendersOnceAndNotifies(t *testing.T) {
	surf := &MemorySurface{}
	calls := 0
	c := New(surf, pieOptions(), Data{Labels: []string{"Phishing", "Safe"}, Values: []float64{10, 40}}, nil,
		ObserverFunc(func(ch *Chart) {
			calls++
			if ch.Canvas() == nil {
				t.Fatalf("observer ran without a canvas")
			}
		}))
	if calls != 1 || c.Redraws() != 1 {
		t.Fatalf("want exactly one notification, got calls=%d redraws=%d", calls, c.Redraws())
	}
	if surf.Frames() != 1 || len(surf.PNG()) == 0 {
		t.Fatalf("surface not presented: frames=%d", surf.Frames())
	}
	b := c.Canvas().Bounds()
	if b.Dx() != 320 || b.Dy() != 240 {
		t.Fatalf("canvas size %v", b)
	}
	if len(c.Geometry().Elements) != 2 {
		t.Fatalf("geometry not stored: %+v", c.Geometry())
	}
}

func TestUpdateAndRenderNotifyOncePerRedraw(t *testing.T) {
	calls := 0
	c := New(nil, barOptions(), Data{Labels: []string{"a"}, Values: []float64{3}}, nil,
		ObserverFunc(func(*Chart) { calls++ }))
	c.Data.Labels = []string{"a", "b"}
	c.Data.Values = []float64{3, 9}
	c.Update()
	c.Render()
	if calls != 3 {
		t.Fatalf("expected 3 notifications, got %d", calls)
	}
	if got := c.Geometry().Elements[1].Value; got != 9 {
		t.Fatalf("second bar value %v want 9", got)
	}
}

func TestAnimatedUpdate(t *testing.T) {
	q := &queue{}
	surf := &MemorySurface{}
	opts := barOptions()
	opts.Animation = Animation{Frames: 4, Duration: 500 * time.Millisecond}
	calls := 0
	c := New(surf, opts, Data{Labels: []string{"a"}, Values: []float64{40}}, q.after,
		ObserverFunc(func(*Chart) { calls++ }))
	if !c.Animating() {
		t.Fatalf("expected animation in progress")
	}
	if calls != 0 {
		t.Fatalf("observers must wait for the final frame, got %d", calls)
	}
	// hover redraw requests are ignored mid-animation
	c.Render()
	if calls != 0 {
		t.Fatalf("render during animation must be a no-op")
	}
	q.drain()
	if c.Animating() || calls != 1 {
		t.Fatalf("animation did not finish cleanly: animating=%v calls=%d", c.Animating(), calls)
	}
	// 4 intermediate frames + final
	if surf.Frames() != 5 {
		t.Fatalf("presented %d frames want 5", surf.Frames())
	}
	if q.delays[0] != 100*time.Millisecond {
		t.Fatalf("frame delay %v want 100ms", q.delays[0])
	}
}

func TestNewerUpdateSupersedesAnimation(t *testing.T) {
	q := &queue{}
	opts := pieOptions()
	opts.Animation = Animation{Frames: 3, Duration: 300 * time.Millisecond}
	calls := 0
	c := New(nil, opts, Data{Labels: []string{"a", "b"}, Values: []float64{1, 1}}, q.after,
		ObserverFunc(func(*Chart) { calls++ }))
	c.Data.Values = []float64{5, 1}
	c.Update()
	q.drain()
	if calls != 1 {
		t.Fatalf("superseded animation must not notify, got %d", calls)
	}
	if c.Geometry().Elements[0].Value != 5 {
		t.Fatalf("final frame shows %v want 5", c.Geometry().Elements[0].Value)
	}
}

func TestEmptyBarChartRenders(t *testing.T) {
	surf := &MemorySurface{}
	c := New(surf, barOptions(), Data{}, nil)
	if c.Canvas() == nil || surf.Frames() != 1 {
		t.Fatalf("empty bar chart should still render axes")
	}
	if len(c.Geometry().Elements) != 0 {
		t.Fatalf("no bars expected")
	}
}

func TestInvalidSizeFallsBackToBlank(t *testing.T) {
	surf := &MemorySurface{}
	opts := pieOptions()
	opts.Width = 0
	calls := 0
	New(surf, opts, Data{Labels: []string{"a"}, Values: []float64{1}}, nil, ObserverFunc(func(*Chart) { calls++ }))
	if calls != 0 {
		t.Fatalf("failed render must not notify observers")
	}
	if surf.Frames() != 1 || surf.Image().Bounds().Dx() != 1 {
		t.Fatalf("expected 1px blank fallback, frames=%d", surf.Frames())
	}
}

func TestSetActiveAndTooltip(t *testing.T) {
	opts := barOptions()
	var asked []int
	opts.Tooltip = func(d Data, i int) string {
		asked = append(asked, i)
		return d.Labels[i]
	}
	c := New(nil, opts, Data{Labels: []string{"urgent", "verify"}, Values: []float64{20, 10}}, nil)
	if c.Active() != -1 {
		t.Fatalf("no element should be active initially")
	}
	if !c.SetActive(1) || c.SetActive(1) {
		t.Fatalf("SetActive change reporting wrong")
	}
	c.Render()
	if len(asked) != 1 || asked[0] != 1 {
		t.Fatalf("tooltip not drawn for active element: %v", asked)
	}
	c.SetActive(-5)
	if c.Active() != -1 {
		t.Fatalf("negative index should clear")
	}
}

func TestResize(t *testing.T) {
	c := New(nil, pieOptions(), Data{Labels: []string{"a"}, Values: []float64{1}}, nil)
	c.Resize(400, 300)
	if b := c.Canvas().Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Fatalf("resize not applied: %v", b)
	}
	before := c.Redraws()
	c.Resize(400, 300)
	if c.Redraws() != before {
		t.Fatalf("same size must not redraw")
	}
}

func TestPieSliceColours(t *testing.T) {
	opts := pieOptions()
	opts.Legend.Display = false
	opts.Colors = nil
	c := New(nil, opts, Data{Labels: []string{"only"}, Values: []float64{1}}, nil)
	g := c.Geometry()
	// a point well inside the single slice carries the first palette colour
	p := image.Pt(g.Center.X+int(g.Radius/2), g.Center.Y)
	got := c.Canvas().RGBAAt(p.X, p.Y)
	want := defaultPiePalette[0]
	if got.R != want.R || got.G != want.G || got.B != want.B {
		t.Fatalf("slice colour %v want %v", got, want)
	}
}

func TestFileSurfaceWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "chart.png")
	FileSurface{Path: path}.Present(Blank(4, 3, color.White))
	st, err := os.Stat(path)
	if err != nil || st.Size() == 0 {
		t.Fatalf("png not written: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind")
	}
}
