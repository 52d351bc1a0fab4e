package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when instruments are requested from a nil meter
var ErrMeterNil = errors.New("telemetry: meter is nil")

// Outcome labels for assembly and render measurements
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// DocumentMetrics holds the document pipeline's instruments
type DocumentMetrics struct {
	assemblies     metric.Int64Counter
	sections       metric.Int64Histogram
	renders        metric.Int64Counter
	renderDuration metric.Float64Histogram
	pdfBytes       metric.Int64Histogram
}

// NewDocumentMetrics registers the instruments on meter
func NewDocumentMetrics(meter metric.Meter) (*DocumentMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	m := &DocumentMetrics{}
	var err error

	if m.assemblies, err = meter.Int64Counter(
		"document.assemblies",
		metric.WithDescription("Documents assembled from artifact records"),
		metric.WithUnit("{documents}"),
	); err != nil {
		return nil, err
	}
	if m.sections, err = meter.Int64Histogram(
		"document.sections",
		metric.WithDescription("Sections emitted per assembled document"),
		metric.WithUnit("{sections}"),
		metric.WithExplicitBucketBoundaries(0, 5, 10, 20, 40, 80, 160),
	); err != nil {
		return nil, err
	}
	if m.renders, err = meter.Int64Counter(
		"document.renders",
		metric.WithDescription("PDF renders by outcome"),
		metric.WithUnit("{renders}"),
	); err != nil {
		return nil, err
	}
	if m.renderDuration, err = meter.Float64Histogram(
		"document.render.duration",
		metric.WithDescription("Time spent rendering a PDF"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}
	if m.pdfBytes, err = meter.Int64Histogram(
		"document.pdf.size",
		metric.WithDescription("Size of rendered PDFs"),
		metric.WithUnit("By"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordAssembly records one assembly of artifactType producing n sections.
// A nil receiver records nothing.
func (m *DocumentMetrics) RecordAssembly(ctx context.Context, artifactType, outcome string, n int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("artifact_type", artifactType),
		attribute.String("outcome", outcome),
	)
	m.assemblies.Add(ctx, 1, attrs)
	if outcome == OutcomeOK {
		m.sections.Record(ctx, int64(n), metric.WithAttributes(attribute.String("artifact_type", artifactType)))
	}
}

// RecordRender records one PDF render
func (m *DocumentMetrics) RecordRender(ctx context.Context, artifactType, outcome string, elapsed time.Duration, size int) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("artifact_type", artifactType),
		attribute.String("outcome", outcome),
	)
	m.renders.Add(ctx, 1, attrs)
	m.renderDuration.Record(ctx, elapsed.Seconds(), attrs)
	if outcome == OutcomeOK {
		m.pdfBytes.Record(ctx, int64(size), metric.WithAttributes(attribute.String("artifact_type", artifactType)))
	}
}
