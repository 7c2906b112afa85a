package detector

import (
	"strconv"

	"github.com/adrianliechti/furnish/pkg/floorplan"
)

// Items converts raw detections into floor-plan items, mapping class indexes
// through names, normalizing labels and dropping everything that is not
// furniture. Oriented boxes are reduced to their axis-aligned envelope.
func Items(detections []Detection, names map[int]string) []floorplan.Item {
	items := make([]floorplan.Item, 0, len(detections))

	for _, d := range detections {
		label, ok := names[d.Class]

		if !ok {
			label = "class_" + strconv.Itoa(d.Class)
		}

		label = floorplan.NormalizeLabel(label)

		if !floorplan.IsFurniture(label) {
			continue
		}

		x1, y1, x2, y2 := d.Box[0], d.Box[1], d.Box[2], d.Box[3]

		if len(d.Polygon) >= 8 {
			x1, y1, x2, y2 = envelope(d.Polygon)
		}

		items = append(items, floorplan.Item{
			X1: x1,
			Y1: y1,
			X2: x2,
			Y2: y2,

			Type: label,

			Confidence: d.Confidence,
		})
	}

	return items
}

func envelope(polygon []float64) (x1, y1, x2, y2 float64) {
	x1, y1 = polygon[0], polygon[1]
	x2, y2 = polygon[0], polygon[1]

	for i := 2; i+1 < len(polygon); i += 2 {
		x, y := polygon[i], polygon[i+1]

		if x < x1 {
			x1 = x
		}

		if x > x2 {
			x2 = x
		}

		if y < y1 {
			y1 = y
		}

		if y > y2 {
			y2 = y
		}
	}

	return
}
