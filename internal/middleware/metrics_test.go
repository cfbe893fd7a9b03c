package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordsRoutePattern(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Get("/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	r.Handle("/metrics", m.Handler())

	for _, id := range []string{"a", "b", "c"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/products/"+id, nil))
		require.Equal(t, http.StatusNotFound, w.Code)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `eshop_http_requests_total{method="GET",route="/products/{id}",status="404"} 3`)
	assert.NotContains(t, body, `route="/products/a"`)
	assert.Contains(t, body, "eshop_http_request_duration_seconds_bucket")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetrics_FoldsUnknownMethods(t *testing.T) {
	m := NewMetrics()

	r := chi.NewRouter()
	r.Use(m.Instrument)
	r.Handle("/metrics", m.Handler())

	for _, method := range []string{"BREW", "PROPFIND", "X-RANDOM-1"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(method, "/anything", nil))
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `eshop_http_requests_total{method="OTHER",route="unmatched",status="405"} 3`)
	assert.NotContains(t, body, `method="BREW"`)
	assert.NotContains(t, body, `method="PROPFIND"`)
}

func TestMethodLabel(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{method: http.MethodGet, want: "GET"},
		{method: http.MethodDelete, want: "DELETE"},
		{method: http.MethodOptions, want: "OPTIONS"},
		{method: "get", want: "OTHER"},
		{method: "PURGE", want: "OTHER"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			assert.Equal(t, tt.want, methodLabel(tt.method))
		})
	}
}
