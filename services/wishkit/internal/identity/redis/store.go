package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/database"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/identity"
)

const keyPrefix = "wishkit:identity:"

// Store keeps the installation token in Redis without expiry, so several
// processes sharing an installation name share one identity.
type Store struct {
	client *redis.Client
	key    string
}

// NewStore creates a Redis-backed token store for the given installation.
func NewStore(client *redis.Client, installation string) *Store {
	return &Store{client: client, key: keyPrefix + installation}
}

// LoadToken returns the stored token or identity.ErrNoToken.
func (s *Store) LoadToken(ctx context.Context) (string, error) {
	ctx, end := database.TraceQuery(ctx, "redis", "LoadToken", "GET "+s.key)

	token, err := s.client.Get(ctx, s.key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		end(nil)
		return "", identity.ErrNoToken
	case err != nil:
		end(err)
		return "", fmt.Errorf("redis get identity: %w", err)
	}
	end(nil)
	return token, nil
}

// SaveToken stores token with no TTL.
func (s *Store) SaveToken(ctx context.Context, token string) (err error) {
	ctx, end := database.TraceQuery(ctx, "redis", "SaveToken", "SET "+s.key)
	defer func() { end(err) }()

	if err = s.client.Set(ctx, s.key, token, 0).Err(); err != nil {
		return fmt.Errorf("redis set identity: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
