package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/database"
	"github.com/DigitalMasterpieces/wishkit-go/pkg/logger"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity"
)

func newTestStore(t *testing.T, path string) *Store {
	t.Helper()
	ctx := context.Background()

	db, err := database.OpenSQLite(ctx, database.DefaultSQLiteConfig(path), logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	s := NewStore(db)
	require.NoError(t, s.Migrate(ctx, logger.Discard()))
	return s
}

func TestStore_EmptyReturnsErrNoToken(t *testing.T) {
	s := newTestStore(t, filepath.Join(t.TempDir(), "identity.db"))

	_, err := s.LoadToken(context.Background())
	assert.ErrorIs(t, err, identity.ErrNoToken)
	assert.NoError(t, s.Ping(context.Background()))
}

func TestStore_SaveOverwrites(t *testing.T) {
	s := newTestStore(t, filepath.Join(t.TempDir(), "identity.db"))
	ctx := context.Background()

	require.NoError(t, s.SaveToken(ctx, "first"))
	require.NoError(t, s.SaveToken(ctx, "second"))

	got, err := s.LoadToken(ctx)
	require.NoError(t, err)
	assert.Equal(t, "second", got)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.db")
	ctx := context.Background()

	first := newTestStore(t, path)
	p := identity.NewProvider(first, logger.Discard())
	token := p.Current(ctx).Token
	require.True(t, p.Persisted())
	require.NoError(t, first.db.Close())

	second := newTestStore(t, path)
	again := identity.NewProvider(second, logger.Discard())
	assert.Equal(t, token, again.Current(ctx).Token)
}
