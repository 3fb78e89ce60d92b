package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/health"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/middleware"
)

// ServiceName labels metrics and traces of the bridge.
const ServiceName = "wishkit"

// NewRouter creates a chi router with all bridge routes registered.
func NewRouter(
	wishHandler *WishHandler,
	draftHandler *DraftHandler,
	streamHandler *StreamHandler,
	healthHandler *health.Handler,
	logger *slog.Logger,
	corsConfig middleware.CORSConfig,
	rateLimit middleware.RateLimitConfig,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(corsConfig))
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.Tracing(ServiceName))
	r.Use(WithIdentity(wishHandler.identity))
	r.Use(middleware.RequestLogger(logger))
	r.Use(middleware.PrometheusMetrics())

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/wishes", wishHandler.List)
		r.Get("/wishes/{id}", wishHandler.Get)
		r.Get("/draft", draftHandler.Get)
		r.Put("/draft", draftHandler.Update)

		// Routes that reach the WishKit API.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(rateLimit, logger))
			r.Post("/wishes", wishHandler.Submit)
			r.Post("/wishes/refresh", wishHandler.Refresh)
			r.Post("/wishes/{id}/vote", wishHandler.Vote)
			r.Post("/draft/submit", draftHandler.SubmitDraft)
		})

		r.Get("/settings", draftHandler.Settings)
		r.Get("/stream", streamHandler.Stream)
	})

	return r
}
