package repository

import (
	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
)

// ChangeKind names the mutation that produced a Change.
type ChangeKind string

const (
	ChangeSnapshot    ChangeKind = "snapshot"
	ChangeVote        ChangeKind = "vote"
	ChangeRollback    ChangeKind = "rollback"
	ChangePlaceholder ChangeKind = "placeholder"
)

// Change notifies subscribers that the visible wish list changed. Revision
// increases with every published change.
type Change struct {
	Revision uint64     `json:"revision"`
	Kind     ChangeKind `json:"kind"`
	WishID   string     `json:"wish_id,omitempty"`
}

// WishRepository holds the current wish list snapshot plus optimistic vote
// mutations layered on top of it.
//
// Readers always observe a complete state: either the one before or the one
// after a mutation, never a mix. Slices returned by reads must not be
// modified.
type WishRepository interface {
	// ReplaceSnapshot installs a freshly fetched snapshot as the new
	// baseline. Committed votes are dropped and pending votes are re-applied
	// on top. A snapshot with a non-zero Sequence not newer than the current
	// one is rejected with domain.ErrStaleSnapshot.
	ReplaceSnapshot(snapshot domain.Snapshot) error

	// RequestedPartition returns approved wishes plus voter's own pending
	// wishes, most votes first.
	RequestedPartition(voter domain.Voter) []domain.Wish

	// ImplementedPartition returns implemented wishes, most votes first.
	ImplementedPartition() []domain.Wish

	// ApplyOptimisticVote checks the vote rules against the visible state
	// and records a pending vote for (wishID, voter) in one step.
	ApplyOptimisticVote(wishID string, voter domain.Voter, policy domain.VotePolicy) (domain.VoteAction, error)

	// CommitOptimisticVote marks the pending vote as accepted by the server.
	CommitOptimisticVote(wishID string, voter domain.Voter)

	// RollbackOptimisticVote removes the pending vote, restoring the vote set
	// exactly as it was before ApplyOptimisticVote.
	RollbackOptimisticVote(wishID string, voter domain.Voter)

	// AddPlaceholder shows w, a locally created wish that has not reached
	// the server yet. It replaces any previous placeholder.
	AddPlaceholder(w domain.Wish)

	// RemovePlaceholder drops the placeholder with the given id.
	RemovePlaceholder(id string)

	// Placeholder returns the current placeholder, if any.
	Placeholder() (domain.Wish, bool)

	// Subscribe registers for change notifications. The channel keeps at
	// most buffer notifications; when a subscriber falls behind the oldest
	// ones are dropped. cancel closes the channel.
	Subscribe(buffer int) (changes <-chan Change, cancel func())

	// Wish returns the visible state of a single wish.
	Wish(id string) (domain.Wish, bool)

	Watermark() bool
	Revision() uint64
	Len() int
}
