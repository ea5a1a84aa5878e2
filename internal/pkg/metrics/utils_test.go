package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := map[string]string{
		"":                        "/",
		"/":                       "/",
		"/health":                 "/health",
		"/swagger/index.html":     "/swagger/*",
		"/api/search":             "/api/search",
		"/api/search/history":     "/api/search/history",
		"/api/search/suggestions": "/api/search/suggestions",
		"/api/unknown/123":        "/other",
		"/wp-admin":               "/other",
	}

	for in, want := range tests {
		assert.Equal(t, want, NormalizePath(in), "path %q", in)
	}
}

func TestGetStatusCodeClass(t *testing.T) {
	assert.Equal(t, "2xx", GetStatusCodeClass(200))
	assert.Equal(t, "4xx", GetStatusCodeClass(401))
	assert.Equal(t, "5xx", GetStatusCodeClass(502))
	assert.Equal(t, "unknown", GetStatusCodeClass(101))
}
