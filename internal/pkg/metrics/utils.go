package metrics

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetRoutePath extracts the route pattern from the request context
// This helps group metrics by route pattern rather than specific values
func GetRoutePath(r *http.Request) string {
	// Try to get the route pattern from chi router context
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}

	// Fallback to request path, but normalize common patterns
	path := r.URL.Path
	return NormalizePath(path)
}

var knownAPIPaths = map[string]bool{
	"/api/search":             true,
	"/api/search/history":     true,
	"/api/search/suggestions": true,
	"/api/register":           true,
	"/api/login":              true,
	"/api/user":               true,
}

// NormalizePath normalizes URL paths to reduce cardinality in metrics
// This prevents metrics explosion from dynamic path segments
func NormalizePath(path string) string {
	if path == "" || path == "/" {
		return "/"
	}

	// Handle common API patterns
	switch {
	case path == "/health", path == "/ready", path == "/metrics", path == "/redoc":
		return path
	case strings.HasPrefix(path, "/swagger"):
		return "/swagger/*"
	case knownAPIPaths[path]:
		return path
	}

	// Anything else is an unknown route; collapse it to keep cardinality bounded.
	return "/other"
}

// GetStatusCodeClass returns the HTTP status code class (2xx, 3xx, 4xx, 5xx)
// This can be useful for high-level metrics grouping
func GetStatusCodeClass(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}

// FormatStatusCode converts an integer status code to string
func FormatStatusCode(statusCode int) string {
	return strconv.Itoa(statusCode)
}
