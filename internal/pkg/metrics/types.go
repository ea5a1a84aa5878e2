package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry defines the interface for metrics collection
type Registry interface {
	// HTTP Metrics
	RecordHTTPRequest(method, path string, statusCode int, duration float64)
	IncHTTPRequestsInFlight()
	DecHTTPRequestsInFlight()

	// Business Metrics
	RecordSearch(status string)
	RecordCacheLookup(hit bool)
	RecordUpstreamRequest(operation, status string)
	RecordHistoryWrite(status string)

	// Prometheus-specific methods
	GetRegistry() *prometheus.Registry
	GetHandler() http.Handler
}

// NoOpRegistry provides a no-op implementation for when metrics are disabled
type NoOpRegistry struct{}

func NewNoOpRegistry() Registry {
	return &NoOpRegistry{}
}

func (n *NoOpRegistry) RecordHTTPRequest(method, path string, statusCode int, duration float64) {}
func (n *NoOpRegistry) IncHTTPRequestsInFlight()                                                {}
func (n *NoOpRegistry) DecHTTPRequestsInFlight()                                                {}
func (n *NoOpRegistry) RecordSearch(status string)                                              {}
func (n *NoOpRegistry) RecordCacheLookup(hit bool)                                              {}
func (n *NoOpRegistry) RecordUpstreamRequest(operation, status string)                          {}
func (n *NoOpRegistry) RecordHistoryWrite(status string)                                        {}
func (n *NoOpRegistry) GetRegistry() *prometheus.Registry                                       { return nil }
func (n *NoOpRegistry) GetHandler() http.Handler                                                { return nil }

// Common label names as constants
const (
	LabelMethod      = "method"
	LabelPath        = "path"
	LabelStatusCode  = "status_code"
	LabelStatusClass = "status_class"
	LabelOperation   = "operation"
	LabelStatus      = "status"
	LabelCacheStatus = "cache_status"
)

// Outcome label values
const (
	StatusSuccess = "success"
	StatusError   = "error"
	CacheHit      = "hit"
	CacheMiss     = "miss"
)
