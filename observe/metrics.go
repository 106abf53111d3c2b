package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records check evaluation and request metrics.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordCheck records one check evaluation with its resulting status
	// label. A non-nil err counts as a failure; status is then ignored.
	RecordCheck(ctx context.Context, meta CheckMeta, status string, duration time.Duration, err error)

	// RecordRequest records one aggregation request and its overall health label.
	RecordRequest(ctx context.Context, endpoint, health string, duration time.Duration)
}

type metricsImpl struct {
	evaluations  metric.Int64Counter
	failures     metric.Int64Counter
	durationHist metric.Float64Histogram
	requests     metric.Int64Counter
	requestHist  metric.Float64Histogram
}

// NewMetrics creates a Metrics instance with instruments registered on meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	evaluations, err := meter.Int64Counter(
		"statuscheck.check.evaluations",
		metric.WithDescription("Total number of check evaluations"),
		metric.WithUnit("{evaluation}"),
	)
	if err != nil {
		return nil, err
	}

	failures, err := meter.Int64Counter(
		"statuscheck.check.failures",
		metric.WithDescription("Check evaluations that failed to produce a result"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"statuscheck.check.duration_ms",
		metric.WithDescription("Check evaluation duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	requests, err := meter.Int64Counter(
		"statuscheck.request.total",
		metric.WithDescription("Total number of status requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}

	requestHist, err := meter.Float64Histogram(
		"statuscheck.request.duration_ms",
		metric.WithDescription("Status request duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		evaluations:  evaluations,
		failures:     failures,
		durationHist: durationHist,
		requests:     requests,
		requestHist:  requestHist,
	}, nil
}

// RecordCheck records metrics for a check evaluation.
func (m *metricsImpl) RecordCheck(ctx context.Context, meta CheckMeta, status string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("check.ref", meta.Ref),
	}
	if meta.Category != "" {
		attrs = append(attrs, attribute.String("check.category", meta.Category))
	}
	base := metric.WithAttributes(attrs...)

	if err != nil {
		m.failures.Add(ctx, 1, base)
		m.evaluations.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("check.status", "failed"))...))
	} else {
		m.evaluations.Add(ctx, 1, metric.WithAttributes(append(attrs, attribute.String("check.status", status))...))
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), base)
}

// RecordRequest records metrics for an aggregation request.
func (m *metricsImpl) RecordRequest(ctx context.Context, endpoint, health string, duration time.Duration) {
	opt := metric.WithAttributes(
		attribute.String("endpoint", endpoint),
		attribute.String("health", health),
	)
	m.requests.Add(ctx, 1, opt)
	m.requestHist.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attribute.String("endpoint", endpoint)))
}

type noopMetrics struct{}

// NopMetrics returns a Metrics that records nothing.
func NopMetrics() Metrics {
	return noopMetrics{}
}

func (noopMetrics) RecordCheck(ctx context.Context, meta CheckMeta, status string, duration time.Duration, err error) {
}

func (noopMetrics) RecordRequest(ctx context.Context, endpoint, health string, duration time.Duration) {
}
