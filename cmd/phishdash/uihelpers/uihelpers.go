package uihelpers

import "math"

// ComputeChartDimensions applies width/height clamp rules used for the two side-by-side charts.
// Input: window content width. Returns the clamped per-chart width & height.
func ComputeChartDimensions(windowW int) (int, int) {
	w := (windowW - 40) / 2
	if w < 360 {
		w = 360
	}
	if w > 900 {
		w = 900
	}
	h := int(float32(w) * 0.65)
	if h < 260 {
		h = 260
	}
	if h > 520 {
		h = 520
	}
	return w, h
}

// ContainRect returns where an image of imgW x imgH is drawn inside a view of viewW x viewH
// with contain scaling (aspect preserved, centred). Returns the offset, drawn size and scale.
func ContainRect(imgW, imgH, viewW, viewH float32) (x, y, w, h, scale float32) {
	if imgW <= 0 || imgH <= 0 || viewW <= 0 || viewH <= 0 {
		return 0, 0, 0, 0, 0
	}
	scale = float32(math.Min(float64(viewW/imgW), float64(viewH/imgH)))
	w = imgW * scale
	h = imgH * scale
	x = (viewW - w) / 2
	y = (viewH - h) / 2
	return x, y, w, h, scale
}

// ViewToImage maps a position inside the view back to image pixels. ok is false when the
// point falls in the letterbox around the image.
func ViewToImage(px, py, imgW, imgH, viewW, viewH float32) (ix, iy int, ok bool) {
	x, y, w, h, scale := ContainRect(imgW, imgH, viewW, viewH)
	if scale == 0 || px < x || py < y || px >= x+w || py >= y+h {
		return 0, 0, false
	}
	return int((px - x) / scale), int((py - y) / scale), true
}
