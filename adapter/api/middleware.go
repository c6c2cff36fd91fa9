package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/felixgeelhaar/triage/pkg/observability"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withRequestContext stamps request and correlation ids on the context,
// echoes the correlation id and logs each request.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := observability.NewRequestContext(r.Context(), r.Header.Get(observability.HeaderCorrelationID))
		w.Header().Set(observability.HeaderCorrelationID, observability.CorrelationIDFromContext(ctx))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		r = r.WithContext(ctx)
		next.ServeHTTP(rec, r)

		route := r.Pattern
		if route == "" {
			route = "unmatched"
		}
		s.metrics.Counter(observability.MetricHTTPRequests, 1,
			observability.T("route", route),
			observability.T("status", strconv.Itoa(rec.status)),
		)
		s.logger.InfoContext(ctx, "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			observability.DurationKey, time.Since(start).Milliseconds(),
		)
	})
}
