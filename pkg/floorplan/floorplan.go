// Package floorplan implements the furniture normalization and merge
// pipeline: label vocabulary, model reply parsing, box sanitization and
// baseline document merging.
package floorplan

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"
)

// SchemaVersion is stamped on merged documents that do not carry one.
const SchemaVersion = "furnish.v1"

// Furniture is a sanitized furniture entry. Boxes satisfy
// 0 <= x1 < x2 < Width and 0 <= y1 < y2 < Height.
type Furniture struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`

	Type string `json:"type"`
	Room string `json:"room"`

	Confidence float64 `json:"confidence"`
}

// Item is a furniture candidate before sanitization. Coordinates are in
// image pixel space but may be fractional, out of range or swapped.
type Item struct {
	X1 float64
	Y1 float64
	X2 float64
	Y2 float64

	Type string
	Room string

	Confidence float64
}

// ItemFrom coerces a loosely-typed furniture object, as found in model
// replies, into an Item. Missing or unparsable values default to zero, type
// and room to "unknown", and confidence falls back to a "score" key.
func ItemFrom(values map[string]any) Item {
	confidence, ok := toFloat(values["confidence"])

	if !ok {
		confidence, _ = toFloat(values["score"])
	}

	x1, _ := toFloat(values["x1"])
	y1, _ := toFloat(values["y1"])
	x2, _ := toFloat(values["x2"])
	y2, _ := toFloat(values["y2"])

	return Item{
		X1: x1,
		Y1: y1,
		X2: x2,
		Y2: y2,

		Type: lowerOr(toString(values["type"]), "unknown"),
		Room: lowerOr(toString(values["room"]), "unknown"),

		Confidence: confidence,
	}
}

// Document is a floor-plan baseline plus furniture. Unknown top-level keys
// of the baseline survive a merge round-trip verbatim, and the caller's
// structural data (points, classes) is carried as raw JSON, never
// reinterpreted or validated for shape.
type Document struct {
	Points  json.RawMessage
	Classes json.RawMessage

	Width  int
	Height int

	AverageDoor float64

	Furniture []Furniture

	SchemaVersion string

	Extra map[string]json.RawMessage
}

func (d *Document) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	for key, value := range raw {
		switch key {
		case "points":
			d.Points = value

		case "classes":
			d.Classes = value

		case "Width":
			d.Width = rawInt(value)

		case "Height":
			d.Height = rawInt(value)

		case "averageDoor":
			d.AverageDoor = rawFloat(value)

		case "furniture":
			json.Unmarshal(value, &d.Furniture)

		case "schema_version":
			json.Unmarshal(value, &d.SchemaVersion)

		default:
			if d.Extra == nil {
				d.Extra = map[string]json.RawMessage{}
			}

			d.Extra[key] = value
		}
	}

	return nil
}

// MarshalJSON emits known keys in a fixed order and extra baseline keys
// sorted, so equal documents serialize identically.
func (d Document) MarshalJSON() ([]byte, error) {
	points := d.Points

	if points == nil {
		points = json.RawMessage("[]")
	}

	classes := d.Classes

	if classes == nil {
		classes = json.RawMessage("[]")
	}

	furniture := d.Furniture

	if furniture == nil {
		furniture = []Furniture{}
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	write := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}

		name, err := json.Marshal(key)

		if err != nil {
			return err
		}

		data, err := json.Marshal(value)

		if err != nil {
			return err
		}

		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(data)

		return nil
	}

	if err := write("points", points); err != nil {
		return nil, err
	}

	if err := write("classes", classes); err != nil {
		return nil, err
	}

	if err := write("Width", d.Width); err != nil {
		return nil, err
	}

	if err := write("Height", d.Height); err != nil {
		return nil, err
	}

	if err := write("averageDoor", d.AverageDoor); err != nil {
		return nil, err
	}

	if err := write("furniture", furniture); err != nil {
		return nil, err
	}

	if err := write("schema_version", d.SchemaVersion); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(d.Extra))

	for key := range d.Extra {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		if err := write(key, d.Extra[key]); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Diagnostics reports what the merger did with the candidate items.
type Diagnostics struct {
	Received int `json:"received"`
	Kept     int `json:"kept"`
	Dropped  int `json:"dropped"`

	ConfidenceClamped int `json:"confidence_clamped"`

	BaselineInvalid bool `json:"baseline_invalid"`
}

func rawInt(data json.RawMessage) int {
	var value any

	if err := json.Unmarshal(data, &value); err != nil {
		return 0
	}

	f, _ := toFloat(value)

	return int(f)
}

func rawFloat(data json.RawMessage) float64 {
	var value any

	if err := json.Unmarshal(data, &value); err != nil {
		return 0
	}

	f, _ := toFloat(value)

	return f
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true

	case float32:
		return float64(v), true

	case int:
		return float64(v), true

	case int64:
		return float64(v), true

	case json.Number:
		f, err := v.Float64()

		return f, err == nil

	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)

		if err != nil {
			return 0, false
		}

		return f, true
	}

	return 0, false
}

func toString(value any) string {
	s, _ := value.(string)

	return s
}

func lowerOr(s, fallback string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return fallback
	}

	return strings.ToLower(s)
}
