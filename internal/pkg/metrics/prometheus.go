package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sp3dr4/bizsearch/config"
)

// PrometheusRegistry implements the Registry interface using Prometheus metrics
type PrometheusRegistry struct {
	registry *prometheus.Registry
	config   config.MetricsConfig

	// HTTP Metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight prometheus.Gauge

	// Business Metrics
	searchesTotal         *prometheus.CounterVec
	cacheLookupsTotal     *prometheus.CounterVec
	upstreamRequestsTotal *prometheus.CounterVec
	historyWritesTotal    *prometheus.CounterVec
}

// NewPrometheusRegistry creates a new Prometheus metrics registry
func NewPrometheusRegistry(cfg config.MetricsConfig) (Registry, error) {
	registry := prometheus.NewRegistry()

	// Create HTTP metrics
	httpRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{LabelMethod, LabelPath, LabelStatusCode},
	)

	httpRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{LabelMethod, LabelPath, LabelStatusClass},
	)

	httpRequestsInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "http_requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Create business metrics
	searchesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "searches_total",
			Help:      "Total number of business searches by outcome",
		},
		[]string{LabelStatus},
	)

	cacheLookupsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "cache_lookups_total",
			Help:      "Total number of search cache lookups by hit or miss",
		},
		[]string{LabelCacheStatus},
	)

	upstreamRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "upstream_requests_total",
			Help:      "Total number of geocoding and places requests by operation and outcome",
		},
		[]string{LabelOperation, LabelStatus},
	)

	historyWritesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "history_writes_total",
			Help:      "Total number of search history writes by outcome",
		},
		[]string{LabelStatus},
	)

	// Register all metrics
	metricsCollectors := []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		httpRequestsInFlight,
		searchesTotal,
		cacheLookupsTotal,
		upstreamRequestsTotal,
		historyWritesTotal,
	}

	for _, collector := range metricsCollectors {
		if err := registry.Register(collector); err != nil {
			return nil, err
		}
	}

	// Register Go runtime metrics if enabled
	if cfg.CollectRuntime {
		registry.MustRegister(collectors.NewGoCollector())
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	}

	return &PrometheusRegistry{
		registry:              registry,
		config:                cfg,
		httpRequestsTotal:     httpRequestsTotal,
		httpRequestDuration:   httpRequestDuration,
		httpRequestsInFlight:  httpRequestsInFlight,
		searchesTotal:         searchesTotal,
		cacheLookupsTotal:     cacheLookupsTotal,
		upstreamRequestsTotal: upstreamRequestsTotal,
		historyWritesTotal:    historyWritesTotal,
	}, nil
}

// RecordHTTPRequest counts the request by exact status code. Latency is
// bucketed by status class to keep the histogram series bounded.
func (p *PrometheusRegistry) RecordHTTPRequest(method, path string, statusCode int, duration float64) {
	p.httpRequestsTotal.WithLabelValues(method, path, FormatStatusCode(statusCode)).Inc()
	p.httpRequestDuration.WithLabelValues(method, path, GetStatusCodeClass(statusCode)).Observe(duration)
}

// IncHTTPRequestsInFlight increments the in-flight HTTP requests counter
func (p *PrometheusRegistry) IncHTTPRequestsInFlight() {
	p.httpRequestsInFlight.Inc()
}

// DecHTTPRequestsInFlight decrements the in-flight HTTP requests counter
func (p *PrometheusRegistry) DecHTTPRequestsInFlight() {
	p.httpRequestsInFlight.Dec()
}

// RecordSearch counts a completed search by outcome
func (p *PrometheusRegistry) RecordSearch(status string) {
	p.searchesTotal.WithLabelValues(status).Inc()
}

// RecordCacheLookup counts a search cache hit or miss
func (p *PrometheusRegistry) RecordCacheLookup(hit bool) {
	status := CacheMiss
	if hit {
		status = CacheHit
	}
	p.cacheLookupsTotal.WithLabelValues(status).Inc()
}

// RecordUpstreamRequest counts a call to the geocoding or places provider
func (p *PrometheusRegistry) RecordUpstreamRequest(operation, status string) {
	p.upstreamRequestsTotal.WithLabelValues(operation, status).Inc()
}

// RecordHistoryWrite counts a search history write by outcome
func (p *PrometheusRegistry) RecordHistoryWrite(status string) {
	p.historyWritesTotal.WithLabelValues(status).Inc()
}

// GetRegistry returns the underlying Prometheus registry
func (p *PrometheusRegistry) GetRegistry() *prometheus.Registry {
	return p.registry
}

// GetHandler returns an HTTP handler for the metrics endpoint
func (p *PrometheusRegistry) GetHandler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}
