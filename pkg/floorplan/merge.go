package floorplan

import (
	"encoding/json"
)

// Merge enriches a baseline plan document with sanitized furniture items.
// A baseline that fails to parse is replaced by an empty one, and missing
// or zero dimensions fall back to the given image dimensions. Merge never
// fails; problems are reported through Diagnostics.
func Merge(baseline []byte, items []Item, fallbackWidth, fallbackHeight int) (*Document, *Diagnostics) {
	diagnostics := &Diagnostics{
		Received: len(items),
	}

	var doc Document

	if err := json.Unmarshal(baseline, &doc); err != nil {
		doc = Document{}
		diagnostics.BaselineInvalid = true
	}

	if doc.Width == 0 || doc.Height == 0 {
		doc.Width = fallbackWidth
		doc.Height = fallbackHeight
	}

	furniture := make([]Furniture, 0, len(items))

	for _, item := range items {
		f, clamped, ok := Sanitize(item, doc.Width, doc.Height)

		if clamped {
			diagnostics.ConfidenceClamped++
		}

		if !ok {
			diagnostics.Dropped++
			continue
		}

		furniture = append(furniture, f)
	}

	diagnostics.Kept = len(furniture)

	doc.Furniture = furniture

	if doc.SchemaVersion == "" {
		doc.SchemaVersion = SchemaVersion
	}

	return &doc, diagnostics
}
