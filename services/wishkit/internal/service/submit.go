package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/repository"
)

// PlaceholderPrefix marks the id of a wish shown while its creation request
// is in flight.
const PlaceholderPrefix = "pending-"

// SubmissionCoordinator owns the submission form: the live draft, its
// validation and the create request.
type SubmissionCoordinator struct {
	repo        repository.WishRepository
	api         WishAPI
	identity    IdentityProvider
	events      EventPublisher
	emailPolicy domain.EmailPolicy
	logger      *slog.Logger

	mu          sync.Mutex
	draft       domain.Draft
	inFlight    bool
	onSubmitted func(ctx context.Context)
}

// NewSubmissionCoordinator creates a new submission coordinator.
func NewSubmissionCoordinator(
	repo repository.WishRepository,
	api WishAPI,
	identity IdentityProvider,
	events EventPublisher,
	emailPolicy domain.EmailPolicy,
	logger *slog.Logger,
) *SubmissionCoordinator {
	return &SubmissionCoordinator{
		repo:        repo,
		api:         api,
		identity:    identity,
		events:      events,
		emailPolicy: emailPolicy,
		logger:      logger,
	}
}

// EmailPolicy returns the configured email field policy.
func (c *SubmissionCoordinator) EmailPolicy() domain.EmailPolicy {
	return c.emailPolicy
}

// OnSubmitted registers fn to run after every successful submission.
func (c *SubmissionCoordinator) OnSubmitted(fn func(ctx context.Context)) {
	c.mu.Lock()
	c.onSubmitted = fn
	c.mu.Unlock()
}

// UpdateTitle stores title cut to the maximum title length and returns the
// stored value.
func (c *SubmissionCoordinator) UpdateTitle(title string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Title = domain.Truncate(title, domain.MaxTitleLength)
	return c.draft.Title
}

// UpdateDescription stores description cut to the maximum description
// length and returns the stored value.
func (c *SubmissionCoordinator) UpdateDescription(description string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Description = domain.Truncate(description, domain.MaxDescriptionLength)
	return c.draft.Description
}

// UpdateEmail stores the email field as typed.
func (c *SubmissionCoordinator) UpdateEmail(email string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.draft.Email = email
	return c.draft.Email
}

// Draft returns the current form content.
func (c *SubmissionCoordinator) Draft() domain.Draft {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.draft
}

// InFlight reports whether a create request is outstanding.
func (c *SubmissionCoordinator) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Placeholder returns the wish shown while a submission is in flight.
func (c *SubmissionCoordinator) Placeholder() (domain.Wish, bool) {
	return c.repo.Placeholder()
}

// SubmitDraft sends the given values as a new wish. The stored draft is
// neither read nor modified.
func (c *SubmissionCoordinator) SubmitDraft(ctx context.Context, title, description, email string) error {
	draft := domain.Draft{Title: title, Description: description, Email: email}.Truncated()
	return c.send(ctx, draft, false)
}

// Submit validates the current draft and sends it. The draft is cleared on
// success and kept on failure so the user can retry.
func (c *SubmissionCoordinator) Submit(ctx context.Context) error {
	c.mu.Lock()
	draft := c.draft.Truncated()
	c.mu.Unlock()
	return c.send(ctx, draft, true)
}

func (c *SubmissionCoordinator) send(ctx context.Context, draft domain.Draft, stored bool) error {
	if err := draft.Validate(c.emailPolicy, validEmail); err != nil {
		SubmissionsTotal.WithLabelValues("invalid").Inc()
		c.logger.DebugContext(ctx, "submission rejected", slog.String("error", err.Error()))
		return err
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		SubmissionsTotal.WithLabelValues("in_flight").Inc()
		return domain.ErrSubmissionInFlight
	}
	c.inFlight = true
	c.mu.Unlock()

	creator := c.identity.Current(ctx)
	placeholder := domain.NewWish(PlaceholderPrefix+uuid.NewString(), draft.Title, draft.Description,
		domain.StatePending, creator, nil, nil)
	c.repo.AddPlaceholder(placeholder)

	outgoing := draft.Outgoing(c.emailPolicy)
	err := c.api.CreateWish(ctx, outgoing)

	c.repo.RemovePlaceholder(placeholder.ID)

	c.mu.Lock()
	c.inFlight = false
	if err == nil && stored && c.draft.Truncated() == draft {
		c.draft = domain.Draft{}
	}
	hook := c.onSubmitted
	c.mu.Unlock()

	if err != nil {
		SubmissionsTotal.WithLabelValues("failed").Inc()
		c.logger.WarnContext(ctx, "wish submission failed", slog.String("error", err.Error()))
		return asTransport(err, "create wish")
	}

	SubmissionsTotal.WithLabelValues("created").Inc()
	c.logger.InfoContext(ctx, "wish submitted", slog.String("title", outgoing.Title))

	if err := c.events.PublishWishSubmitted(ctx, outgoing, creator); err != nil {
		c.logger.WarnContext(ctx, "failed to publish submission event", slog.String("error", err.Error()))
	}
	if hook != nil {
		hook(ctx)
	}
	return nil
}
