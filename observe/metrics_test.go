package observe

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newManualMetrics(t *testing.T) (Metrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}
	return m, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for _, sm := range rm.ScopeMetrics {
		for i := range sm.Metrics {
			if sm.Metrics[i].Name == name {
				return &sm.Metrics[i]
			}
		}
	}
	return nil
}

// sumFor returns the counter value for data points carrying attr.
func sumFor(t *testing.T, m *metricdata.Metrics, attr attribute.KeyValue) int64 {
	t.Helper()
	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s is %T, want Sum[int64]", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attr.Key); ok && v == attr.Value {
			total += dp.Value
		}
	}
	return total
}

func TestMetrics_RecordCheck(t *testing.T) {
	m, reader := newManualMetrics(t)
	ctx := context.Background()
	meta := CheckMeta{Ref: "core_cron", Category: "status"}

	m.RecordCheck(ctx, meta, "ok", 5*time.Millisecond, nil)
	m.RecordCheck(ctx, meta, "warning", 5*time.Millisecond, nil)
	m.RecordCheck(ctx, meta, "", 5*time.Millisecond, errors.New("boom"))

	rm := collect(t, reader)

	evals := findMetric(rm, "statuscheck.check.evaluations")
	if evals == nil {
		t.Fatal("statuscheck.check.evaluations not found")
	}
	if got := sumFor(t, evals, attribute.String("check.ref", "core_cron")); got != 3 {
		t.Errorf("evaluations = %d, want 3", got)
	}
	if got := sumFor(t, evals, attribute.String("check.status", "failed")); got != 1 {
		t.Errorf("failed evaluations = %d, want 1", got)
	}
	if got := sumFor(t, evals, attribute.String("check.status", "warning")); got != 1 {
		t.Errorf("warning evaluations = %d, want 1", got)
	}

	failures := findMetric(rm, "statuscheck.check.failures")
	if failures == nil {
		t.Fatal("statuscheck.check.failures not found")
	}
	if got := sumFor(t, failures, attribute.String("check.category", "status")); got != 1 {
		t.Errorf("failures = %d, want 1", got)
	}

	hist := findMetric(rm, "statuscheck.check.duration_ms")
	if hist == nil {
		t.Fatal("statuscheck.check.duration_ms not found")
	}
	h, ok := hist.Data.(metricdata.Histogram[float64])
	if !ok || len(h.DataPoints) == 0 || h.DataPoints[0].Count != 3 {
		t.Errorf("duration histogram = %+v, want 3 observations", hist.Data)
	}
}

func TestMetrics_RecordRequest(t *testing.T) {
	m, reader := newManualMetrics(t)
	ctx := context.Background()

	m.RecordRequest(ctx, "status", "healthy", time.Millisecond)
	m.RecordRequest(ctx, "status", "critical", time.Millisecond)
	m.RecordRequest(ctx, "health", "healthy", time.Millisecond)

	rm := collect(t, reader)
	total := findMetric(rm, "statuscheck.request.total")
	if total == nil {
		t.Fatal("statuscheck.request.total not found")
	}
	if got := sumFor(t, total, attribute.String("endpoint", "status")); got != 2 {
		t.Errorf("status requests = %d, want 2", got)
	}
	if got := sumFor(t, total, attribute.String("health", "healthy")); got != 2 {
		t.Errorf("healthy requests = %d, want 2", got)
	}
	if findMetric(rm, "statuscheck.request.duration_ms") == nil {
		t.Error("statuscheck.request.duration_ms not found")
	}
}
