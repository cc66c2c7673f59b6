package main

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/config"
)

// runResolve runs the real flag set with an action that only captures the resolved settings.
func runResolve(t *testing.T, args ...string) (config.Config, error) {
	t.Helper()
	app := newApp()
	var got config.Config
	var resolveErr error
	app.Before = nil
	app.Action = func(c *cli.Context) error {
		got, resolveErr = resolveConfig(c)
		return nil
	}
	app.Commands = nil
	require.NoError(t, app.Run(append([]string{"phishdash"}, args...)))
	return got, resolveErr
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := runResolve(t)
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestResolveConfigLayering(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dash.toml")
	require.NoError(t, os.WriteFile(p, []byte("endpoint = \"http://file/api\"\ninterval = \"10s\"\nchart_width = 700\n"), 0o644))
	t.Setenv("PHISHDASH_CHART_HEIGHT", "420")

	cfg, err := runResolve(t, "--config", p, "--interval", "5s")
	require.NoError(t, err)
	assert.Equal(t, "http://file/api", cfg.Endpoint, "file value kept when flag not set")
	assert.Equal(t, 5*time.Second, cfg.Interval, "flag beats file")
	assert.Equal(t, 700, cfg.ChartWidth)
	assert.Equal(t, 420, cfg.ChartHeight, "env var applies")
}

func TestResolveConfigRejectsBadValues(t *testing.T) {
	_, err := runResolve(t, "--interval", "0s")
	assert.Error(t, err)
	_, err = runResolve(t, "--log-level", "loud")
	assert.Error(t, err)
}

func TestHoverIndexMapsViewToElements(t *testing.T) {
	ch := chartkit.New(nil, chartkit.Options{Kind: chartkit.KindBar, Width: 200, Height: 100,
		ValueAxis: chartkit.ValueAxis{Max: 10, Step: 5}},
		chartkit.Data{Labels: []string{"a", "b"}, Values: []float64{10, 10}}, nil)
	g := ch.Geometry()
	mid := func(r image.Rectangle) (float32, float32) {
		return float32(r.Min.X+r.Max.X) / 2, float32(r.Min.Y+r.Max.Y) / 2
	}
	// view twice the image size: positions scale by 2
	x, y := mid(g.Elements[1].Bounds)
	if got := hoverIndex(ch, x*2, y*2, 400, 200); got != 1 {
		t.Fatalf("hover over second bar => %d", got)
	}
	// letterboxed view: image drawn 200x100 centred in 200x300, offset 100
	x, y = mid(g.Elements[0].Bounds)
	if got := hoverIndex(ch, x, y+100, 200, 300); got != 0 {
		t.Fatalf("hover over first bar in letterbox => %d", got)
	}
	if got := hoverIndex(ch, 10, 10, 200, 300); got != -1 {
		t.Fatalf("hover in letterbox => %d", got)
	}
	if got := hoverIndex(nil, 1, 1, 1, 1); got != -1 {
		t.Fatalf("nil chart => %d", got)
	}
}

func TestVariantThemeIgnoresSystemVariant(t *testing.T) {
	dark := variantTheme{Theme: theme.DefaultTheme(), variant: theme.VariantDark}
	want := theme.DefaultTheme().Color(theme.ColorNameBackground, theme.VariantDark)
	assert.Equal(t, want, dark.Color(theme.ColorNameBackground, theme.VariantLight))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNamePadding), dark.Size(theme.SizeNamePadding))
}
