package identity

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
)

// ErrNoToken is returned by a TokenStore that holds no token yet.
var ErrNoToken = errors.New("no identity token stored")

// TokenStore persists the installation token between runs.
type TokenStore interface {
	LoadToken(ctx context.Context) (string, error)
	SaveToken(ctx context.Context, token string) error
}

// Provider hands out the voter identity of this installation. The first call
// to Current loads the token, generating and saving one when none exists.
// Every later call returns the same voter.
type Provider struct {
	store  TokenStore
	logger *slog.Logger

	mu        sync.Mutex
	voter     domain.Voter
	persisted bool
}

// NewProvider creates a Provider backed by store.
func NewProvider(store TokenStore, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.Default()
	}
	return &Provider{store: store, logger: logger}
}

// Current returns the installation's voter identity. It never fails: when the
// store cannot be read or written a session-only token is used instead.
func (p *Provider) Current(ctx context.Context) domain.Voter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.voter.IsZero() {
		return p.voter
	}

	token, err := p.store.LoadToken(ctx)
	switch {
	case err == nil && token != "":
		p.voter = domain.Voter{Token: token}
		p.persisted = true
		return p.voter

	case err == nil, errors.Is(err, ErrNoToken):
		token = uuid.New().String()
		if saveErr := p.store.SaveToken(ctx, token); saveErr != nil {
			p.logger.WarnContext(ctx, "failed to persist identity token, using session identity",
				slog.String("error", saveErr.Error()),
			)
		} else {
			p.persisted = true
			p.logger.InfoContext(ctx, "generated new identity token")
		}

	default:
		token = uuid.New().String()
		p.logger.WarnContext(ctx, "failed to load identity token, using session identity",
			slog.String("error", err.Error()),
		)
	}

	p.voter = domain.Voter{Token: token}
	return p.voter
}

// Persisted reports whether the current identity survives a restart. It is
// false until Current has been called.
func (p *Provider) Persisted() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.persisted
}
