package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func metricsRouter(route string, h http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics())
	r.Get(route, h)
	return r
}

func serve(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := metricsRouter("/metrics-test/wishes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	counter := httpRequests.WithLabelValues(http.MethodGet, "/metrics-test/wishes/{id}", "404")
	before := testutil.ToFloat64(counter)

	serve(r, "/metrics-test/wishes/a")
	serve(r, "/metrics-test/wishes/b")

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestPrometheusMetrics_ImplicitOK(t *testing.T) {
	r := metricsRouter("/metrics-test/implicit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	counter := httpRequests.WithLabelValues(http.MethodGet, "/metrics-test/implicit", "200")
	before := testutil.ToFloat64(counter)

	serve(r, "/metrics-test/implicit")

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestPrometheusMetrics_ObservesDuration(t *testing.T) {
	r := metricsRouter("/metrics-test/duration", func(w http.ResponseWriter, r *http.Request) {})

	serve(r, "/metrics-test/duration")

	assert.GreaterOrEqual(t, testutil.CollectAndCount(httpDuration), 1)
}

func TestPrometheusMetrics_InFlight(t *testing.T) {
	var during float64
	r := metricsRouter("/metrics-test/inflight", func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(httpInFlight)
	})

	before := testutil.ToFloat64(httpInFlight)
	serve(r, "/metrics-test/inflight")

	assert.Equal(t, before+1, during)
	assert.Equal(t, before, testutil.ToFloat64(httpInFlight))
}

func TestPrometheusMetrics_Unmatched(t *testing.T) {
	r := metricsRouter("/metrics-test/known", func(w http.ResponseWriter, r *http.Request) {})

	before := testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404"))
	serve(r, "/metrics-test/unknown")

	assert.Equal(t, before+1, testutil.ToFloat64(httpRequests.WithLabelValues(http.MethodGet, "unmatched", "404")))
}
