package limiter

import (
	"context"

	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/floorplan"
	"github.com/adrianliechti/furnish/pkg/provider"

	"golang.org/x/time/rate"
)

type Detector interface {
	Limiter
	detector.Detector
}

type limitedDetector struct {
	limiter  *rate.Limiter
	provider detector.Detector
}

func NewDetector(l *rate.Limiter, p detector.Detector) Detector {
	return &limitedDetector{
		limiter:  l,
		provider: p,
	}
}

func (p *limitedDetector) limiterSetup() {
}

func (p *limitedDetector) Detect(ctx context.Context, image *provider.File, options *detector.DetectOptions) ([]floorplan.Item, error) {
	if p.limiter != nil {
		p.limiter.Wait(ctx)
	}

	return p.provider.Detect(ctx, image, options)
}
