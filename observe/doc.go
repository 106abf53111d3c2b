// Package observe provides observability primitives for status check evaluation.
//
// It is a pure instrumentation library: no check execution, no transport, no
// I/O beyond exporter setup and log output. The status package wraps every
// check evaluation with a Middleware so that each evaluation produces a span
// named check.result.<ref>, a set of metric points, and a debug log entry.
//
// Metric instruments:
//
//	statuscheck.check.evaluations    counter   check.ref, check.category, check.status
//	statuscheck.check.failures       counter   check.ref, check.category
//	statuscheck.check.duration_ms    histogram check.ref, check.category
//	statuscheck.request.total        counter   endpoint, health
//	statuscheck.request.duration_ms  histogram endpoint
package observe
