package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chillthrive/CT-BookingService/pkg/metrics"
)

// Сигнатура сборщика должна совпадать с pkg/metrics
var _ MetricsCollector = (*metrics.Metrics)(nil)

type observedRequest struct {
	method   string
	path     string
	status   string
	duration time.Duration
}

type fakeCollector struct {
	observed []observedRequest
}

func (f *fakeCollector) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	f.observed = append(f.observed, observedRequest{method, path, status, duration})
}

func TestMetrics_LabelsByRouteTemplate(t *testing.T) {
	collector := &fakeCollector{}

	router := mux.NewRouter()
	router.Use(Metrics(collector))
	router.HandleFunc("/api/v1/bookings/{bookingId}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/8b7d3f9e-1f7c-4a9e-9a46-000000000001", nil))

	require.Len(t, collector.observed, 1)
	got := collector.observed[0]
	assert.Equal(t, http.MethodGet, got.method)
	assert.Equal(t, "/api/v1/bookings/{bookingId}", got.path)
	assert.Equal(t, "404", got.status)
	assert.GreaterOrEqual(t, got.duration, time.Duration(0))
}

func TestMetrics_DefaultsToOKWhenHandlerWritesNoHeader(t *testing.T) {
	collector := &fakeCollector{}

	router := mux.NewRouter()
	router.Use(Metrics(collector))
	router.HandleFunc("/api/v1/services/{serviceId}/availability", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}).Methods(http.MethodGet)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/services/8b7d3f9e-1f7c-4a9e-9a46-000000000002/availability", nil))

	require.Len(t, collector.observed, 1)
	assert.Equal(t, "200", collector.observed[0].status)
}
