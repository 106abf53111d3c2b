package observe

import (
	"context"
	"time"
)

// EvaluateFunc evaluates a single check and returns its status label.
// This is the function signature that Middleware wraps.
type EvaluateFunc func(ctx context.Context, meta CheckMeta) (string, error)

// Middleware wraps check evaluation with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe EvaluateFunc.
//   - Context: Propagates context through tracing spans.
//   - Errors: Errors from wrapped function are recorded and propagated unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger
}

// NewMiddleware creates a new Middleware with the given observability components.
// Nil components are replaced by no-op implementations.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	if tracer == nil {
		tracer = NopTracer()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if logger == nil {
		logger = NopLogger()
	}
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// Wrap wraps an EvaluateFunc with tracing, metrics, and logging.
func (m *Middleware) Wrap(fn EvaluateFunc) EvaluateFunc {
	return func(ctx context.Context, meta CheckMeta) (string, error) {
		ctx, span := m.tracer.StartSpan(ctx, meta)
		start := time.Now()

		status, err := fn(ctx, meta)

		duration := time.Since(start)
		m.tracer.EndSpan(span, status, err)
		m.metrics.RecordCheck(ctx, meta, status, duration, err)

		checkLogger := m.logger.WithCheck(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			checkLogger.Debug(ctx, "check evaluation failed", fields...)
		} else {
			fields = append(fields, Field{Key: "status", Value: status})
			checkLogger.Debug(ctx, "check evaluated", fields...)
		}

		return status, err
	}
}

// RecordRequest forwards a completed request to the metrics recorder.
func (m *Middleware) RecordRequest(ctx context.Context, endpoint, health string, duration time.Duration) {
	m.metrics.RecordRequest(ctx, endpoint, health, duration)
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	metrics, err := NewMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(NewTracer(obs.Tracer()), metrics, obs.Logger()), nil
}
