package detector

import (
	"context"

	"github.com/adrianliechti/furnish/pkg/floorplan"
	"github.com/adrianliechti/furnish/pkg/provider"
)

// Detector locates furniture in a floor-plan image. Implementations return
// raw items in image pixel coordinates; sanitization and merging happen in
// the floorplan package.
type Detector interface {
	Detect(ctx context.Context, image *provider.File, options *DetectOptions) ([]floorplan.Item, error)
}

type DetectOptions struct {
	// Baseline is the caller-supplied plan document, forwarded to backends
	// that use it as detection context.
	Baseline string

	Confidence *float64
	IoU        *float64

	// Oriented requests oriented bounding boxes from backends that support
	// them. Results are still reported as axis-aligned envelopes.
	Oriented bool
}

// Detection is a single raw model output before label normalization.
type Detection struct {
	Class      int
	Confidence float64

	// Box is x1, y1, x2, y2.
	Box [4]float64

	// Polygon holds the corner coordinates of an oriented box as
	// x1, y1, ..., x4, y4. Empty for axis-aligned results.
	Polygon []float64
}
