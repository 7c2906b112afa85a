package detector

import (
	"testing"
)

func TestItems(t *testing.T) {
	names := map[int]string{
		0: "couch",
		1: "person",
		2: "Dining Table",
	}

	detections := []Detection{
		{Class: 0, Confidence: 0.9, Box: [4]float64{10, 20, 110, 80}},
		{Class: 1, Confidence: 0.8, Box: [4]float64{5, 5, 20, 40}},
		{Class: 2, Confidence: 0.7, Box: [4]float64{200, 200, 300, 260}},
	}

	items := Items(detections, names)

	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}

	if items[0].Type != "sofa" {
		t.Errorf("type = %q, want sofa", items[0].Type)
	}

	if items[1].Type != "table" {
		t.Errorf("type = %q, want table", items[1].Type)
	}

	if items[0].X1 != 10 || items[0].Y2 != 80 {
		t.Errorf("box = %+v", items[0])
	}
}

func TestItemsUnknownClass(t *testing.T) {
	detections := []Detection{
		{Class: 7, Confidence: 0.9, Box: [4]float64{0, 0, 10, 10}},
	}

	if items := Items(detections, nil); len(items) != 0 {
		t.Errorf("class_7 is not furniture, items = %v", items)
	}
}

func TestItemsOrientedEnvelope(t *testing.T) {
	names := map[int]string{0: "bed"}

	detections := []Detection{
		{
			Class:      0,
			Confidence: 0.85,
			Box:        [4]float64{0, 0, 1, 1},
			Polygon:    []float64{50, 10, 90, 40, 60, 80, 20, 50},
		},
	}

	items := Items(detections, names)

	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}

	item := items[0]

	if item.X1 != 20 || item.Y1 != 10 || item.X2 != 90 || item.Y2 != 80 {
		t.Errorf("envelope = %+v", item)
	}
}
