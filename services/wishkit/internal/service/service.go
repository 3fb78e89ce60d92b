package service

import (
	"context"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/validator"
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
)

// EmailTag is the validator tag for the structural email check of the
// submission form.
const EmailTag = "wishkit_email"

func init() {
	validator.Register(EmailTag, domain.ValidEmail, "must contain '@' and '.' and be at least 6 characters")
}

// WishAPI is the remote WishKit service. Failures are transport AppErrors.
type WishAPI interface {
	FetchWishList(ctx context.Context) (domain.Snapshot, error)
	CreateWish(ctx context.Context, draft domain.Draft) error
	VoteWish(ctx context.Context, wishID string) error
	UnvoteWish(ctx context.Context, wishID string) error
}

// IdentityProvider returns the voter identity of this installation.
type IdentityProvider interface {
	Current(ctx context.Context) domain.Voter
}

// EventPublisher publishes widget domain events. Publishing is best effort:
// a failed publish is logged and never fails the operation.
type EventPublisher interface {
	PublishWishVoted(ctx context.Context, wishID string, voter domain.Voter, action domain.VoteAction, outcome, reason string) error
	PublishWishSubmitted(ctx context.Context, draft domain.Draft, creator domain.Voter) error
	PublishSnapshotRefreshed(ctx context.Context, snapshot domain.Snapshot) error
}

// validEmail runs the registered email tag.
func validEmail(email string) bool {
	return validator.Var(email, EmailTag) == nil
}
