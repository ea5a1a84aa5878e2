package metrics

import (
	"net/http"
	"time"
)

const (
	// MetricsPath is the default path for the metrics endpoint
	MetricsPath = "/metrics"
)

// probePaths are hit by orchestrators every few seconds and would drown out
// API traffic in the request histograms.
var probePaths = map[string]bool{
	"/health": true,
	"/ready":  true,
}

// statusRecorder captures the first status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rec *statusRecorder) WriteHeader(code int) {
	if !rec.wroteHeader {
		rec.status = code
		rec.wroteHeader = true
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(data []byte) (int, error) {
	if !rec.wroteHeader {
		rec.WriteHeader(http.StatusOK)
	}
	return rec.ResponseWriter.Write(data)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rec *statusRecorder) Unwrap() http.ResponseWriter {
	return rec.ResponseWriter
}

// PrometheusMiddleware records request counts and latency for API routes.
// Requests to metricsPath and the health probes are passed through unrecorded.
func PrometheusMiddleware(registry Registry, metricsPath string) func(http.Handler) http.Handler {
	if metricsPath == "" {
		metricsPath = MetricsPath
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == metricsPath || probePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			registry.IncHTTPRequestsInFlight()
			defer registry.DecHTTPRequestsInFlight()

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			registry.RecordHTTPRequest(r.Method, GetRoutePath(r), rec.status, time.Since(start).Seconds())
		})
	}
}
