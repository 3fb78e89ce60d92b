package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/database"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/config"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity"
	memstore "github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity/memory"
	redisstore "github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity/redis"
	sqlitestore "github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity/sqlite"
)

// identityStore is the configured token store together with its health
// check and the resource it owns.
type identityStore struct {
	identity.TokenStore
	ping  func(ctx context.Context) error
	close func() error
}

func openIdentityStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*identityStore, error) {
	switch cfg.IdentityStore {
	case config.IdentityStoreSQLite:
		db, err := database.OpenSQLite(ctx, database.DefaultSQLiteConfig(cfg.IdentitySQLitePath), logger)
		if err != nil {
			return nil, fmt.Errorf("open identity database: %w", err)
		}
		store := sqlitestore.NewStore(db)
		if err := store.Migrate(ctx, logger); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate identity database: %w", err)
		}
		if err := prometheus.Register(database.NewDBStatsCollector(db, "identity")); err != nil {
			logger.Warn("db stats collector not registered", slog.String("error", err.Error()))
		}
		logger.Info("identity store ready",
			slog.String("backend", cfg.IdentityStore),
			slog.String("path", cfg.IdentitySQLitePath),
		)
		return &identityStore{TokenStore: store, ping: store.Ping, close: db.Close}, nil

	case config.IdentityStoreRedis:
		client, err := database.NewRedisClient(ctx, database.RedisConfig{
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		store := redisstore.NewStore(client, cfg.IdentityInstallation)
		logger.Info("identity store ready",
			slog.String("backend", cfg.IdentityStore),
			slog.String("installation", cfg.IdentityInstallation),
		)
		return &identityStore{TokenStore: store, ping: store.Ping, close: client.Close}, nil

	case config.IdentityStoreMemory:
		logger.Warn("identity store is in memory, the voter identity changes on every restart")
		return &identityStore{
			TokenStore: memstore.NewStore(),
			ping:       func(context.Context) error { return nil },
			close:      func() error { return nil },
		}, nil

	default:
		return nil, fmt.Errorf("unknown identity store %q", cfg.IdentityStore)
	}
}
