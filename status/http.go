package status

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/jonwraymond/statuscheck/observe"
)

// Routes served by RegisterHandlers.
const (
	PathSystemStatus = "/api/v1/status"
	PathHealthStatus = "/api/v1/health"
	PathCatalog      = "/api/v1/checks"
	PathLiveness     = "/healthz"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

// DefaultRequestTimeout bounds a single aggregation request.
const DefaultRequestTimeout = 30 * time.Second

// errorResponse is the JSON body written for failed requests.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// LivenessHandler reports that the process is serving. It evaluates no checks.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}
}

// SystemStatusHandler serves the detailed response. The optional "type" query
// parameter selects the scope; unknown values select every category.
func SystemStatusHandler(svc Service, logger observe.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel, reqID := begin(w, r)
		defer cancel()

		scope := ParseScope(r.URL.Query().Get("type"))
		resp, err := svc.SystemStatus(ctx, scope)
		if err != nil {
			fail(ctx, w, logger, reqID, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// HealthStatusHandler serves the simple response. An unhealthy system is
// still a successful request and returns 200.
func HealthStatusHandler(svc Service, logger observe.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel, reqID := begin(w, r)
		defer cancel()

		resp, err := svc.HealthStatus(ctx)
		if err != nil {
			fail(ctx, w, logger, reqID, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// CatalogHandler lists the available checks for building an exclusion list.
func CatalogHandler(svc Service, logger observe.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel, reqID := begin(w, r)
		defer cancel()

		entries, err := svc.Catalog(ctx)
		if err != nil {
			fail(ctx, w, logger, reqID, err)
			return
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

// Limiter admits or rejects a request.
type Limiter interface {
	Allow() bool
}

// LimitHandler rejects requests with 429 when l has no capacity.
func LimitHandler(l Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow() {
			w.Header().Set("Retry-After", "1")
			writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RegisterHandlers registers the status routes on mux. Each aggregation route
// is wrapped by wrap, outermost first; the liveness route is never wrapped.
func RegisterHandlers(mux *http.ServeMux, svc Service, logger observe.Logger, wrap ...func(http.Handler) http.Handler) {
	if logger == nil {
		logger = observe.NopLogger()
	}

	handle := func(pattern string, h http.Handler) {
		for i := len(wrap) - 1; i >= 0; i-- {
			h = wrap[i](h)
		}
		mux.Handle(pattern, h)
	}

	mux.HandleFunc("GET "+PathLiveness, LivenessHandler())
	handle("GET "+PathSystemStatus, SystemStatusHandler(svc, logger))
	handle("GET "+PathHealthStatus, HealthStatusHandler(svc, logger))
	handle("GET "+PathCatalog, CatalogHandler(svc, logger))
}

// begin assigns the request id and applies the request timeout. Every entry
// logged with the returned context carries the request id.
func begin(w http.ResponseWriter, r *http.Request) (context.Context, context.CancelFunc, string) {
	reqID := r.Header.Get(RequestIDHeader)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	w.Header().Set(RequestIDHeader, reqID)

	ctx := observe.ContextWithFields(r.Context(), observe.Field{Key: "request_id", Value: reqID})
	ctx, cancel := context.WithTimeout(ctx, DefaultRequestTimeout)
	return ctx, cancel, reqID
}

func fail(ctx context.Context, w http.ResponseWriter, logger observe.Logger, reqID string, err error) {
	if logger == nil {
		logger = observe.NopLogger()
	}
	logger.With(observe.Field{Key: "request_id", Value: reqID}).Error(ctx, "status request failed",
		observe.Field{Key: "error", Value: err.Error()},
	)
	writeJSON(w, http.StatusInternalServerError, errorResponse{
		Error:     "check source unavailable",
		RequestID: reqID,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
