package health

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"woodzire_server/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func TestHealthRoutes(t *testing.T) {
	logger := gecho.NewDefaultLogger()
	r := chi.NewRouter()
	NewHealthRoutesManager(logger, services.NewHealthService(logger, nil, nil)).RegisterRoutes(r)

	HttpRequests.WithLabelValues(http.MethodGet, "/products", "200").Inc()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/server", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "service_alive")

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "woodzire_http_requests_total")
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
