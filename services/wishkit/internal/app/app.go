package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/database"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/health"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/httpclient"
	pkgkafka "github.com/DigitalMasterpieces/wishkit-go/pkg/kafka"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/middleware"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/tracing"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/api"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/config"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/event"
	handler "github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/handler/http"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/repository/memory"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/service"
)

// App wires together all dependencies and runs the widget host.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	store          *identityStore
	producer       *pkgkafka.Producer
	refresher      *service.RefreshController
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Tracing.
	traceCfg := tracing.DefaultConfig(handler.ServiceName)
	traceCfg.Environment = cfg.Environment
	traceCfg.OTLPEndpoint = cfg.OTELEndpoint
	traceCfg.SampleRate = cfg.OTELSampleRate
	traceCfg.Enabled = cfg.OTELEnabled
	tracerShutdown, err := tracing.InitTracer(ctx, traceCfg)
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)

	// Identity persistence.
	store, err := openIdentityStore(ctx, cfg, logger)
	if err != nil {
		_ = tracerShutdown(context.Background())
		return nil, err
	}
	provider := identity.NewProvider(store, logger)

	// Outgoing WishKit API client: retries behind a circuit breaker.
	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.HTTPClientTimeout
	clientCfg.MaxRetries = cfg.HTTPClientMaxRetries

	cbCfg := httpclient.DefaultCircuitBreakerConfig("wishkit-api")
	cbCfg.MaxRequests = cfg.CBMaxRequests
	cbCfg.Interval = time.Duration(cfg.CBInterval) * time.Second
	cbCfg.Timeout = time.Duration(cfg.CBTimeout) * time.Second
	cbCfg.FailureRatio = cfg.CBFailureRatio
	cbCfg.MinRequests = cfg.CBMinRequests

	httpDoer := httpclient.NewCircuitBreakerClient(httpclient.New(clientCfg), cbCfg, logger)
	wishAPI := api.NewClient(httpDoer, cfg.APIURL, cfg.APIKey, provider, logger)

	// Events.
	var (
		producer *pkgkafka.Producer
		events   service.EventPublisher = event.Noop{}
	)
	if cfg.KafkaEnabled() {
		producer = pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers), logger)
		events = event.NewProducer(producer, logger)
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("no kafka brokers configured, widget events are dropped")
	}

	// Build the dependency graph.
	repo := memory.NewWishRepository()
	votes := service.NewVoteCoordinator(repo, wishAPI, events, domain.VotePolicy{AllowUndo: cfg.AllowUndoVote}, logger)
	submissions := service.NewSubmissionCoordinator(repo, wishAPI, provider, events, cfg.EmailPolicy(), logger)
	refresher := service.NewRefreshController(repo, wishAPI, events, logger)

	// Server-side counts change after every accepted vote or submission.
	votes.OnVoted(refresher.RefreshAsync)
	submissions.OnSubmitted(refresher.RefreshAsync)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.RegisterCritical("identity_store", store.ping)
	if producer != nil {
		healthHandler.RegisterNonCritical("kafka", producer.Ping)
	}

	// HTTP router.
	settings := handler.Settings{
		EmailField:           cfg.EmailPolicy(),
		AllowUndoVote:        cfg.AllowUndoVote,
		ExpandDescription:    cfg.ExpandDescription,
		StatusBadge:          cfg.StatusBadge,
		CommentSection:       cfg.CommentSection,
		MaxTitleLength:       domain.MaxTitleLength,
		MaxDescriptionLength: domain.MaxDescriptionLength,
	}
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.CORSAllowedOrigins

	router := handler.NewRouter(
		handler.NewWishHandler(repo, votes, submissions, refresher, provider, settings, logger),
		handler.NewDraftHandler(submissions, settings, logger),
		handler.NewStreamHandler(repo, corsCfg, logger),
		healthHandler,
		logger,
		corsCfg,
		middleware.RateLimitConfig{RPS: cfg.RateLimitRPS, Burst: cfg.RateLimitBurst},
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		store:          store,
		producer:       producer,
		refresher:      refresher,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the refresh loop and the HTTP server and blocks until the
// context is canceled or the server fails to serve.
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	refreshDone := make(chan struct{})
	go func() {
		defer close(refreshDone)
		a.refresher.Run(ctx, a.cfg.RefreshInterval)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case runErr = <-errCh:
		a.logger.Error("http server failed", slog.String("error", runErr.Error()))
	}

	cancel()
	<-refreshDone
	if err := a.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown gracefully stops all components.
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}

	// Background refreshes started by votes and submissions.
	a.refresher.Wait()

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if err := a.store.close(); err != nil {
		a.logger.Error("identity store close error", slog.String("error", err.Error()))
	}

	if err := a.tracerShutdown(shutdownCtx); err != nil {
		a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
	}

	a.logger.Info("application shutdown complete")
	return nil
}
