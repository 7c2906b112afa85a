package floorplan

import (
	"math"
)

// Sanitize turns an item into a furniture entry valid for a width x height
// image. Coordinates are rounded and clamped into bounds, swapped corners
// are reordered once, and boxes still degenerate after that are rejected.
// Out-of-range confidence is clamped into [0,1] and reported.
func Sanitize(item Item, width, height int) (f Furniture, clamped bool, ok bool) {
	x1 := clampCoord(item.X1, 0, width-1)
	y1 := clampCoord(item.Y1, 0, height-1)
	x2 := clampCoord(item.X2, 0, width-1)
	y2 := clampCoord(item.Y2, 0, height-1)

	if x2 <= x1 || y2 <= y1 {
		x1, x2 = min(x1, x2), max(x1, x2)
		y1, y2 = min(y1, y2), max(y1, y2)
	}

	if x2 <= x1 || y2 <= y1 {
		return Furniture{}, false, false
	}

	confidence := item.Confidence

	if math.IsNaN(confidence) {
		confidence = 0
	}

	if confidence < 0 {
		confidence = 0
		clamped = true
	}

	if confidence > 1 {
		confidence = 1
		clamped = true
	}

	return Furniture{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,

		Type: lowerOr(item.Type, "unknown"),
		Room: lowerOr(item.Room, "unknown"),

		Confidence: confidence,
	}, clamped, true
}

func clampCoord(v float64, lo, hi int) int {
	if hi < lo {
		hi = lo
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}

	iv := int(math.Round(v))

	if iv < lo {
		return lo
	}

	if iv > hi {
		return hi
	}

	return iv
}
