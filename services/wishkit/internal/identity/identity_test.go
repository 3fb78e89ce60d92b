package identity

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/DigitalMasterpieces/wishkit-go/pkg/logger"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) LoadToken(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *mockStore) SaveToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func TestProvider_LoadsExistingToken(t *testing.T) {
	store := new(mockStore)
	store.On("LoadToken", mock.Anything).Return("stored-token", nil).Once()

	p := NewProvider(store, logger.Discard())
	ctx := context.Background()

	assert.Equal(t, "stored-token", p.Current(ctx).Token)
	assert.Equal(t, "stored-token", p.Current(ctx).Token)
	assert.True(t, p.Persisted())
	store.AssertExpectations(t)
}

func TestProvider_GeneratesAndSavesWhenEmpty(t *testing.T) {
	store := new(mockStore)
	store.On("LoadToken", mock.Anything).Return("", ErrNoToken).Once()
	store.On("SaveToken", mock.Anything, mock.AnythingOfType("string")).Return(nil).Once()

	p := NewProvider(store, logger.Discard())
	v := p.Current(context.Background())

	_, err := uuid.Parse(v.Token)
	require.NoError(t, err)
	assert.True(t, p.Persisted())
	store.AssertCalled(t, "SaveToken", mock.Anything, v.Token)
}

func TestProvider_SaveFailureKeepsSessionToken(t *testing.T) {
	store := new(mockStore)
	store.On("LoadToken", mock.Anything).Return("", ErrNoToken).Once()
	store.On("SaveToken", mock.Anything, mock.Anything).Return(errors.New("read-only fs")).Once()

	p := NewProvider(store, logger.Discard())
	first := p.Current(context.Background())
	second := p.Current(context.Background())

	assert.False(t, first.IsZero())
	assert.Equal(t, first, second)
	assert.False(t, p.Persisted())
}

func TestProvider_LoadFailureDoesNotOverwrite(t *testing.T) {
	store := new(mockStore)
	store.On("LoadToken", mock.Anything).Return("", errors.New("disk error")).Once()

	p := NewProvider(store, logger.Discard())
	v := p.Current(context.Background())

	assert.False(t, v.IsZero())
	assert.False(t, p.Persisted())
	store.AssertNotCalled(t, "SaveToken", mock.Anything, mock.Anything)
}

func TestProvider_ConcurrentCallersSeeOneIdentity(t *testing.T) {
	store := new(mockStore)
	store.On("LoadToken", mock.Anything).Return("", ErrNoToken).Once()
	store.On("SaveToken", mock.Anything, mock.Anything).Return(nil).Once()

	p := NewProvider(store, logger.Discard())

	var wg sync.WaitGroup
	got := make([]string, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = p.Current(context.Background()).Token
		}(i)
	}
	wg.Wait()

	for _, tok := range got {
		assert.Equal(t, got[0], tok)
	}
	store.AssertExpectations(t)
}
