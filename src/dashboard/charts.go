package dashboard

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/iafilius/PhishingDashboard/src/chartkit"
	"github.com/iafilius/PhishingDashboard/src/stats"
)

// PieCategories are the pie slice labels, in slice order.
var PieCategories = []string{"Phishing", "Safe"}

const (
	// InitialAxisMax and AxisStep describe the bar value axis at creation time.
	InitialAxisMax = 60
	AxisStep       = 30

	// axisFloor keeps the ceiling from collapsing when all counts are small.
	axisFloor    = 5
	axisMultiple = 5

	barMaxCategoryTicks = 5
	legendPadding       = 15
	legendFontSize      = 13
)

var (
	colorPhishing = drawing.ColorFromHex("dc3545")
	colorSafe     = drawing.ColorFromHex("28a745")
	colorBarFill  = drawing.Color{R: 2, G: 117, B: 216, A: 204}
	colorBarEdge  = drawing.Color{R: 2, G: 117, B: 216, A: 255}
	colorGrid     = drawing.Color{R: 0, G: 0, B: 0, A: 13}
	colorFont     = drawing.ColorFromHex("292b2c")
)

// labelPolicy strips any markup that made it into a scraped keyword.
var labelPolicy = bluemonday.StrictPolicy()

// ChartSettings are the host-dependent parts of the chart configuration.
type ChartSettings struct {
	Width, Height     int
	AnimationFrames   int
	AnimationDuration time.Duration
}

// AxisCeiling returns the bar value-axis maximum for counts: the smallest multiple of 5
// that is at least max(counts..., 5).
func AxisCeiling(counts []int) int {
	m := lo.Max(append([]int{axisFloor}, counts...))
	return int(math.Ceil(float64(m)/axisMultiple)) * axisMultiple
}

// Percent formats part/total*100 with one decimal, rounding half away from zero.
// A zero total yields "".
func Percent(part, total float64) string {
	if total == 0 {
		return ""
	}
	p := decimal.NewFromFloat(part).Div(decimal.NewFromFloat(total)).Mul(decimal.NewFromInt(100))
	return p.StringFixed(1)
}

// PieValues orders a snapshot for the pie: phishing first, then safe.
func PieValues(s stats.Snapshot) []float64 {
	return []float64{float64(s.PhishingCount), float64(s.SafeCount)}
}

// BarSeries splits the keyword list into sanitised labels and counts.
func BarSeries(s stats.Snapshot) ([]string, []int) {
	labels := lo.Map(s.TopKeywords, func(k stats.KeywordCount, _ int) string { return CleanLabel(k.Keyword) })
	counts := lo.Map(s.TopKeywords, func(k stats.KeywordCount, _ int) int { return k.Count })
	return labels, counts
}

// CleanLabel removes markup from a keyword and decodes entities so it renders as text.
func CleanLabel(s string) string {
	return strings.TrimSpace(html.UnescapeString(labelPolicy.Sanitize(s)))
}

func toFloats(counts []int) []float64 {
	return lo.Map(counts, func(c int, _ int) float64 { return float64(c) })
}

func pieOptions(s ChartSettings) chartkit.Options {
	return chartkit.Options{
		Kind:      chartkit.KindPie,
		Width:     s.Width,
		Height:    s.Height,
		FontColor: colorFont,
		Colors:    []drawing.Color{colorPhishing, colorSafe},
		Legend:    chartkit.LegendOptions{Display: true, Padding: legendPadding, FontSize: legendFontSize},
		Tooltip:   pieTooltip,
		Animation: chartkit.Animation{Frames: s.AnimationFrames, Duration: s.AnimationDuration},
	}
}

func barOptions(s ChartSettings) chartkit.Options {
	return chartkit.Options{
		Kind:      chartkit.KindBar,
		Width:     s.Width,
		Height:    s.Height,
		FontColor: colorFont,
		BarFill:   colorBarFill,
		BarBorder: colorBarEdge,
		ValueAxis: chartkit.ValueAxis{
			Min:       0,
			Max:       InitialAxisMax,
			Step:      AxisStep,
			ShowGrid:  true,
			GridColor: colorGrid,
		},
		CategoryAxis: chartkit.CategoryAxis{ShowGrid: false, MaxTicks: barMaxCategoryTicks},
		Tooltip:      barTooltip,
		Animation:    chartkit.Animation{Frames: s.AnimationFrames, Duration: s.AnimationDuration},
	}
}

func pieTooltip(d chartkit.Data, i int) string {
	if i < 0 || i >= len(d.Values) || i >= len(d.Labels) {
		return ""
	}
	return fmt.Sprintf("%s: %d emails", d.Labels[i], int(math.Round(d.Values[i])))
}

func barTooltip(d chartkit.Data, i int) string {
	if i < 0 || i >= len(d.Values) {
		return ""
	}
	total := lo.Sum(d.Values)
	pct := Percent(d.Values[i], total)
	if pct == "" {
		pct = "0.0"
	}
	return fmt.Sprintf("Count: %d (%s%% of all keywords)", int(math.Round(d.Values[i])), pct)
}
