package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/DigitalMasterpieces/wishkit-go/services/wishkit/internal/domain"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) FetchWishList(ctx context.Context) (domain.Snapshot, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Snapshot), args.Error(1)
}

func (m *mockAPI) CreateWish(ctx context.Context, draft domain.Draft) error {
	return m.Called(ctx, draft).Error(0)
}

func (m *mockAPI) VoteWish(ctx context.Context, wishID string) error {
	return m.Called(ctx, wishID).Error(0)
}

func (m *mockAPI) UnvoteWish(ctx context.Context, wishID string) error {
	return m.Called(ctx, wishID).Error(0)
}

type mockEvents struct {
	mock.Mock
}

func (m *mockEvents) PublishWishVoted(ctx context.Context, wishID string, voter domain.Voter, action domain.VoteAction, outcome, reason string) error {
	return m.Called(ctx, wishID, voter, action, outcome, reason).Error(0)
}

func (m *mockEvents) PublishWishSubmitted(ctx context.Context, draft domain.Draft, creator domain.Voter) error {
	return m.Called(ctx, draft, creator).Error(0)
}

func (m *mockEvents) PublishSnapshotRefreshed(ctx context.Context, snapshot domain.Snapshot) error {
	return m.Called(ctx, snapshot).Error(0)
}

// permissiveEvents accepts every event.
func permissiveEvents() *mockEvents {
	e := new(mockEvents)
	e.On("PublishWishVoted", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	e.On("PublishWishSubmitted", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	e.On("PublishSnapshotRefreshed", mock.Anything, mock.Anything).Return(nil).Maybe()
	return e
}

type fixedIdentity domain.Voter

func (f fixedIdentity) Current(context.Context) domain.Voter {
	return domain.Voter(f)
}
