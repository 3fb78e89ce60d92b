package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/database"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrations returns the schema files for the identity table.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationFiles, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	selectTokenSQL = `SELECT token FROM identity WHERE id = 1`
	upsertTokenSQL = `INSERT INTO identity (id, token) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET token = excluded.token`
)

// Store keeps the installation token in a single-row sqlite table.
type Store struct {
	db *sql.DB
}

// NewStore wraps an open database. Call Migrate before first use.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the identity table if needed.
func (s *Store) Migrate(ctx context.Context, logger *slog.Logger) error {
	return database.RunMigrations(ctx, s.db, Migrations(), logger)
}

// LoadToken returns the stored token or identity.ErrNoToken.
func (s *Store) LoadToken(ctx context.Context) (token string, err error) {
	ctx, end := database.TraceQuery(ctx, "sqlite", "LoadToken", selectTokenSQL)
	defer func() { end(err) }()

	err = s.db.QueryRowContext(ctx, selectTokenSQL).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", identity.ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("load identity token: %w", err)
	}
	return token, nil
}

// SaveToken stores token, replacing any previous one.
func (s *Store) SaveToken(ctx context.Context, token string) (err error) {
	ctx, end := database.TraceQuery(ctx, "sqlite", "SaveToken", upsertTokenSQL)
	defer func() { end(err) }()

	if _, err = s.db.ExecContext(ctx, upsertTokenSQL, token); err != nil {
		return fmt.Errorf("save identity token: %w", err)
	}
	return nil
}

// Ping checks that the database file is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
