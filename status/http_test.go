package status

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonwraymond/statuscheck/observe"
)

func serve(t *testing.T, svc Service, method, target string, wrap ...func(http.Handler) http.Handler) *httptest.ResponseRecorder {
	t.Helper()
	mux := http.NewServeMux()
	RegisterHandlers(mux, svc, nil, wrap...)

	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestLivenessHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	LivenessHandler()(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Errorf("liveness = %d %q, want 200 OK", rec.Code, rec.Body.String())
	}
}

func TestSystemStatusHandler(t *testing.T) {
	agg, _ := newTestAggregator(t, "",
		newStub("a", StatusOK),
		&stubCheck{ref: "sec", category: CategorySecurity, result: Critical("exposed")})

	rec := serve(t, agg, http.MethodGet, PathSystemStatus+"?type=security")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("missing request id header")
	}

	var resp DetailedResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if resp.Summary.Total != 1 || resp.Summary.Critical != 1 || resp.Checks[0].ID != "sec" {
		t.Errorf("response = %+v, want only the security check", resp)
	}
}

func TestHealthStatusHandler_UnhealthyIs200(t *testing.T) {
	agg, _ := newTestAggregator(t, "", newStub("a", StatusCritical))

	rec := serve(t, agg, http.MethodGet, PathHealthStatus)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp SimpleResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if resp.Healthy || resp.Status != "critical" || resp.Timestamp != fixedNow.Unix() {
		t.Errorf("response = %+v", resp)
	}
}

func TestCatalogHandler(t *testing.T) {
	agg, _ := newTestAggregator(t, "a", newStub("a", StatusOK))

	rec := serve(t, agg, http.MethodGet, PathCatalog)
	var entries []CatalogEntry
	if err := json.NewDecoder(rec.Body).Decode(&entries); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	if len(entries) != 1 || !entries[0].Excluded {
		t.Errorf("catalog = %+v", entries)
	}
}

func TestHandlers_SourceFailure(t *testing.T) {
	src := SourceFunc(func(context.Context, Category) ([]Check, error) {
		return nil, errors.New("down")
	})
	agg, _ := NewAggregator(src)

	for _, path := range []string{PathSystemStatus, PathHealthStatus, PathCatalog} {
		rec := serve(t, agg, http.MethodGet, path)
		if rec.Code != http.StatusInternalServerError {
			t.Errorf("%s status = %d, want 500", path, rec.Code)
		}
		var body errorResponse
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode error = %v", err)
		}
		if body.RequestID == "" || body.Error == "" {
			t.Errorf("%s body = %+v", path, body)
		}
	}
}

func TestHandlers_RequestIDPropagated(t *testing.T) {
	agg, _ := newTestAggregator(t, "")
	mux := http.NewServeMux()
	RegisterHandlers(mux, agg, nil)

	req := httptest.NewRequest(http.MethodGet, PathHealthStatus, nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); got != "req-123" {
		t.Errorf("request id = %q, want req-123", got)
	}
}

func TestHandlers_RequestIDInLogs(t *testing.T) {
	var buf bytes.Buffer
	logger := observe.NewLoggerWithWriter("debug", &buf)

	reg := NewRegistry()
	for _, c := range []Check{newStub("ok", StatusOK), &stubCheck{ref: "bad", category: CategoryStatus, err: errors.New("down")}} {
		if err := reg.RegisterTyped(c); err != nil {
			t.Fatal(err)
		}
	}
	agg, err := NewAggregator(reg,
		WithLogger(logger),
		WithMiddleware(observe.NewMiddleware(nil, nil, logger)),
	)
	if err != nil {
		t.Fatal(err)
	}
	mux := http.NewServeMux()
	RegisterHandlers(mux, agg, logger)

	req := httptest.NewRequest(http.MethodGet, PathSystemStatus, nil)
	req.Header.Set(RequestIDHeader, "req-42")
	mux.ServeHTTP(httptest.NewRecorder(), req)

	seen := map[string]bool{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("log line %q: %v", line, err)
		}
		msg, _ := entry["msg"].(string)
		if entry["request_id"] != "req-42" {
			t.Errorf("%q logged without request id: %v", msg, entry)
		}
		seen[msg] = true
	}
	for _, msg := range []string{"check omitted", "check evaluated", "check evaluation failed"} {
		if !seen[msg] {
			t.Errorf("no %q entry in logs:\n%s", msg, buf.String())
		}
	}
}

func TestHandlers_MethodNotAllowed(t *testing.T) {
	agg, _ := newTestAggregator(t, "")
	rec := serve(t, agg, http.MethodPost, PathHealthStatus)
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", rec.Code)
	}
}

type fixedLimiter bool

func (l fixedLimiter) Allow() bool { return bool(l) }

func TestLimitHandler(t *testing.T) {
	agg, _ := newTestAggregator(t, "")
	limit := func(allow bool) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler { return LimitHandler(fixedLimiter(allow), next) }
	}

	if rec := serve(t, agg, http.MethodGet, PathHealthStatus, limit(false)); rec.Code != http.StatusTooManyRequests {
		t.Errorf("denied status = %d, want 429", rec.Code)
	}
	if rec := serve(t, agg, http.MethodGet, PathHealthStatus, limit(true)); rec.Code != http.StatusOK {
		t.Errorf("allowed status = %d, want 200", rec.Code)
	}
	if rec := serve(t, agg, http.MethodGet, PathLiveness, limit(false)); rec.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want 200 regardless of limits", rec.Code)
	}
}

func TestRegisterHandlers_WrapOrder(t *testing.T) {
	agg, _ := newTestAggregator(t, "")
	var order []string
	tag := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	serve(t, agg, http.MethodGet, PathHealthStatus, tag("outer"), tag("inner"))
	if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
		t.Errorf("wrap order = %v, want [outer inner]", order)
	}
}
