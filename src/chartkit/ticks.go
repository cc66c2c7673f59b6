package chartkit

import (
	"math"
	"strconv"
)

// valueTicks returns tick positions from Min to Max in Step increments. Max is always the last
// tick, so a ceiling that is not a multiple of Step still gets a labelled gridline.
func valueTicks(axis ValueAxis) []float64 {
	min, max := axis.Min, axis.Max
	if max <= min {
		return []float64{min}
	}
	step := axis.Step
	if step <= 0 || (max-min)/step > 50 {
		step = (max - min) / 5
	}
	var out []float64
	for v := min; v < max-step*1e-9; v += step {
		out = append(out, math.Round(v*1e6)/1e6)
	}
	return append(out, max)
}

// categoryTickIndices picks which category labels to draw when at most maxTicks fit.
// Every skip-th label is kept, skip = ceil(n/maxTicks).
func categoryTickIndices(n, maxTicks int) []int {
	if n <= 0 {
		return nil
	}
	skip := 1
	if maxTicks > 0 && n > maxTicks {
		skip = int(math.Ceil(float64(n) / float64(maxTicks)))
	}
	out := make([]int, 0, n/skip+1)
	for i := 0; i < n; i += skip {
		out = append(out, i)
	}
	return out
}

// formatTick renders axis values without trailing zeros.
func formatTick(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
