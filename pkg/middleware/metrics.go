package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "wishkit",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Requests served by the widget bridge",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "wishkit",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency of non-streaming requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wishkit",
		Subsystem: "http",
		Name:      "requests_in_flight",
		Help:      "Requests currently being served, open streams included",
	})
)

// PrometheusMetrics counts requests by chi route pattern. Upgraded websocket
// connections are counted with status 101 when they close and are left out
// of the latency histogram.
func PrometheusMetrics() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			httpInFlight.Inc()
			defer httpInFlight.Dec()

			sw := newStatusWriter(w)
			next.ServeHTTP(sw, r)

			route := routePattern(r)
			httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(sw.statusCode)).Inc()
			if sw.statusCode != http.StatusSwitchingProtocols {
				httpDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			}
		})
	}
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
