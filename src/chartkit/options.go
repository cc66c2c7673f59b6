package chartkit

import (
	"time"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Kind selects the chart layout.
type Kind int

const (
	KindPie Kind = iota
	KindBar
)

func (k Kind) String() string {
	switch k {
	case KindPie:
		return "pie"
	case KindBar:
		return "bar"
	default:
		return "unknown"
	}
}

// Data is the data-bearing part of a chart. Callers mutate it in place and then call Update.
type Data struct {
	Labels []string
	Values []float64
}

// LegendOptions controls the legend row drawn below a pie.
type LegendOptions struct {
	Display  bool
	Padding  int
	FontSize float64
}

// ValueAxis is the numeric axis of a bar chart.
type ValueAxis struct {
	Min, Max  float64
	Step      float64
	ShowGrid  bool
	GridColor drawing.Color
}

// CategoryAxis is the label axis of a bar chart.
type CategoryAxis struct {
	ShowGrid bool
	MaxTicks int // 0 shows every label
}

// Animation controls how Update moves from the previously drawn values to the new data.
// Frames == 0 draws the final frame directly.
type Animation struct {
	Frames   int
	Duration time.Duration
}

// TooltipFunc formats the hover tooltip for element index.
type TooltipFunc func(data Data, index int) string

// Options is the non-data configuration of a chart. ValueAxis bounds may be changed between updates.
type Options struct {
	Kind          Kind
	Width, Height int
	Background    drawing.Color
	FontColor     drawing.Color
	FontSize      float64

	// Colors are per-category fills for pies; bars use BarFill/BarBorder.
	Colors    []drawing.Color
	BarFill   drawing.Color
	BarBorder drawing.Color

	Legend       LegendOptions
	ValueAxis    ValueAxis
	CategoryAxis CategoryAxis
	Tooltip      TooltipFunc
	Animation    Animation
}

// Defaults applied when Options leave them zero.
const (
	defaultPadding      = 10
	defaultFontSize     = 10.0
	defaultTooltipSize  = 10.0
	tooltipPadding      = 6
	categoryPercentage  = 0.8
	barPercentage       = 0.9
	axisLabelGap        = 6
	legendBoxSize       = 12
	legendItemSpacing   = 15
	legendBoxTextSpacer = 6
)

var (
	colorWhite        = drawing.Color{R: 255, G: 255, B: 255, A: 255}
	colorAxisLine     = drawing.Color{R: 0, G: 0, B: 0, A: 25}
	colorEmptyPie     = drawing.Color{R: 200, G: 200, B: 200, A: 255}
	colorTooltipBG    = drawing.Color{R: 0, G: 0, B: 0, A: 204}
	defaultFontColor  = drawing.Color{R: 0x29, G: 0x2b, B: 0x2c, A: 255}
	defaultBackground = colorWhite
	defaultPiePalette = []drawing.Color{{R: 0x02, G: 0x75, B: 0xd8, A: 255}, {R: 0xff, G: 0xc1, B: 0x07, A: 255}}
	defaultBarFill    = drawing.Color{R: 2, G: 117, B: 216, A: 204}
	defaultBarBorder  = drawing.Color{R: 2, G: 117, B: 216, A: 255}
)

func (o Options) withDefaults() Options {
	if o.Background.IsZero() {
		o.Background = defaultBackground
	}
	if o.FontColor.IsZero() {
		o.FontColor = defaultFontColor
	}
	if o.FontSize <= 0 {
		o.FontSize = defaultFontSize
	}
	if len(o.Colors) == 0 {
		o.Colors = defaultPiePalette
	}
	if o.BarFill.IsZero() {
		o.BarFill = defaultBarFill
	}
	if o.BarBorder.IsZero() {
		o.BarBorder = defaultBarBorder
	}
	if o.Legend.FontSize <= 0 {
		o.Legend.FontSize = o.FontSize
	}
	return o
}

func (o Options) colorFor(i int) drawing.Color {
	if len(o.Colors) == 0 {
		return defaultPiePalette[i%len(defaultPiePalette)]
	}
	return o.Colors[i%len(o.Colors)]
}
