package floorplan

import (
	"strings"
)

// synonyms maps detector vocabulary onto the canonical furniture vocabulary.
var synonyms = map[string]string{
	"couch":        "sofa",
	"refrigerator": "fridge",
	"stove":        "stove/cooktop",
	"dining table": "table",
	"tvmonitor":    "tv",
}

var furnitureLabels = map[string]struct{}{
	"bed":             {},
	"sofa":            {},
	"couch":           {},
	"armchair":        {},
	"chair":           {},
	"dining table":    {},
	"table":           {},
	"tv":              {},
	"tv stand":        {},
	"refrigerator":    {},
	"fridge":          {},
	"microwave":       {},
	"oven":            {},
	"stove":           {},
	"stove/cooktop":   {},
	"sink":            {},
	"toilet":          {},
	"shower":          {},
	"bathtub":         {},
	"bookshelf":       {},
	"desk":            {},
	"bench":           {},
	"wardrobe":        {},
	"closet":          {},
	"dresser":         {},
	"nightstand":      {},
	"island":          {},
	"vanity":          {},
	"washing machine": {},
	"dryer":           {},
	"rug":             {},
	"side table":      {},
	"shoe rack":       {},
	"radiator":        {},
}

// NormalizeLabel lower-cases a raw detector label and maps synonyms onto the
// canonical vocabulary. Unknown labels pass through lower-cased.
func NormalizeLabel(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))

	if canonical, ok := synonyms[label]; ok {
		return canonical
	}

	return label
}

// IsFurniture reports whether a label belongs to the furniture vocabulary,
// either directly or as a known synonym.
func IsFurniture(label string) bool {
	label = strings.ToLower(label)

	if _, ok := furnitureLabels[label]; ok {
		return true
	}

	_, ok := synonyms[label]

	return ok
}
