package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	apperrors "github.com/DigitalMasterpieces/wishkit-go/pkg/errors"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/event"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/repository"
)

// VoteCoordinator validates votes, applies them optimistically and confirms
// or reverts them once the server answers.
type VoteCoordinator struct {
	repo   repository.WishRepository
	api    WishAPI
	events EventPublisher
	policy domain.VotePolicy
	logger *slog.Logger

	mu      sync.RWMutex
	onVoted func(ctx context.Context)
}

// NewVoteCoordinator creates a new vote coordinator.
func NewVoteCoordinator(repo repository.WishRepository, api WishAPI, events EventPublisher, policy domain.VotePolicy, logger *slog.Logger) *VoteCoordinator {
	return &VoteCoordinator{
		repo:   repo,
		api:    api,
		events: events,
		policy: policy,
		logger: logger,
	}
}

// Policy returns the vote configuration.
func (c *VoteCoordinator) Policy() domain.VotePolicy {
	return c.policy
}

// OnVoted registers fn to run after every vote the server accepted.
func (c *VoteCoordinator) OnVoted(fn func(ctx context.Context)) {
	c.mu.Lock()
	c.onVoted = fn
	c.mu.Unlock()
}

// CastVote votes for wishID as voter. Local rules are checked first and a
// rejection makes no network call. An accepted vote is shown immediately,
// sent to the server once, and reverted if the server call fails. With
// undo enabled, voting again on a wish retracts the vote.
func (c *VoteCoordinator) CastVote(ctx context.Context, wishID string, voter domain.Voter) (domain.VoteAction, error) {
	action, err := c.repo.ApplyOptimisticVote(wishID, voter, c.policy)
	if err != nil {
		VotesTotal.WithLabelValues("none", rejectionLabel(err)).Inc()
		c.logger.DebugContext(ctx, "vote rejected",
			slog.String("wish_id", wishID),
			slog.String("error", err.Error()),
		)
		return 0, err
	}

	if action == domain.VoteRetract {
		err = c.api.UnvoteWish(ctx, wishID)
	} else {
		err = c.api.VoteWish(ctx, wishID)
	}

	if err != nil {
		c.repo.RollbackOptimisticVote(wishID, voter)
		VotesTotal.WithLabelValues(action.String(), event.OutcomeRolledBack).Inc()
		c.logger.WarnContext(ctx, "vote failed, rolled back",
			slog.String("wish_id", wishID),
			slog.String("action", action.String()),
			slog.String("error", err.Error()),
		)
		c.publish(ctx, wishID, voter, action, event.OutcomeRolledBack, apperrors.Reason(err))
		return 0, asTransport(err, "vote")
	}

	c.repo.CommitOptimisticVote(wishID, voter)
	VotesTotal.WithLabelValues(action.String(), event.OutcomeCommitted).Inc()
	c.logger.InfoContext(ctx, "vote committed",
		slog.String("wish_id", wishID),
		slog.String("action", action.String()),
	)
	c.publish(ctx, wishID, voter, action, event.OutcomeCommitted, "")

	c.mu.RLock()
	hook := c.onVoted
	c.mu.RUnlock()
	if hook != nil {
		hook(ctx)
	}

	return action, nil
}

func (c *VoteCoordinator) publish(ctx context.Context, wishID string, voter domain.Voter, action domain.VoteAction, outcome, reason string) {
	if err := c.events.PublishWishVoted(ctx, wishID, voter, action, outcome, reason); err != nil {
		c.logger.WarnContext(ctx, "failed to publish vote event",
			slog.String("wish_id", wishID),
			slog.String("error", err.Error()),
		)
	}
}

// rejectionLabel turns a vote rule error into a metric label.
func rejectionLabel(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return "rejected_" + appErr.Code
	}
	return "rejected"
}

// asTransport makes sure err is a transport AppError, keeping its reason.
func asTransport(err error, op string) error {
	if errors.Is(err, apperrors.ErrTransport) {
		return err
	}
	return apperrors.Transport(apperrors.Reason(err), fmt.Errorf("%s: %w", op, err))
}
