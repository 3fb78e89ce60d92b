package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	pkgconfig "github.com/DigitalMasterpieces/wishkit-go/pkg/config"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/logger"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/app"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/config"
)

func main() {
	// A .env next to the binary is optional; the environment wins.
	if err := pkgconfig.LoadDotEnv(".env"); err != nil {
		slog.Error("failed to load .env", slog.String("error", err.Error()))
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New("wishkit", cfg.LogLevel)
	log.Info("starting wishkit widget host",
		slog.String("environment", cfg.Environment),
		slog.Int("http_port", cfg.HTTPPort),
		slog.String("api_url", cfg.APIURL),
		slog.String("identity_store", cfg.IdentityStore),
	)
	if cfg.APIKey == "" {
		log.Warn("WISHKIT_API_KEY is empty, every WishKit request will be rejected")
	}

	application, err := app.NewApp(cfg, log)
	if err != nil {
		log.Error("failed to initialize application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create a context that is cancelled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := application.Run(ctx); err != nil {
		log.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("wishkit widget host stopped")
}
