package otel

import (
	"context"
	"time"

	"github.com/adrianliechti/furnish/pkg/detector"
	"github.com/adrianliechti/furnish/pkg/floorplan"
	"github.com/adrianliechti/furnish/pkg/provider"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Detector interface {
	Observable
	detector.Detector
}

type observableDetector struct {
	name string

	provider string

	detector detector.Detector

	itemsMetric    metric.Int64Counter
	durationMetric metric.Float64Histogram
}

func NewDetector(provider, name string, p detector.Detector) Detector {
	meter := otel.Meter(instrumentationName)

	itemsMetric, _ := meter.Int64Counter("furnish.detector.items")
	durationMetric, _ := meter.Float64Histogram("furnish.detector.duration", metric.WithUnit("s"))

	return &observableDetector{
		detector: p,

		name: name,

		provider: provider,

		itemsMetric:    itemsMetric,
		durationMetric: durationMetric,
	}
}

func (p *observableDetector) otelSetup() {
}

func (p *observableDetector) Detect(ctx context.Context, image *provider.File, options *detector.DetectOptions) ([]floorplan.Item, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "detect "+p.name)
	defer span.End()

	timestamp := time.Now()

	result, err := p.detector.Detect(ctx, image, options)

	if err != nil {
		return nil, err
	}

	attrs := metric.WithAttributes(KeyValues([]KeyValue{
		attribute.String("detector", p.name),
		attribute.String("provider", p.provider),
	}, EndUserAttrs(ctx))...)

	p.durationMetric.Record(ctx, time.Since(timestamp).Seconds(), attrs)
	p.itemsMetric.Add(ctx, int64(len(result)), attrs)

	if EnableDebug {
		span.SetAttributes(attribute.Int("items", len(result)))
	}

	return result, nil
}
