package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockEventHandler is a mock implementation of shared.EventHandler
type MockEventHandler struct {
	mock.Mock
}

func (m *MockEventHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventHandler) EventTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestIdempotentHandler_Handle_NewEvent(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	event := newTestEvent("TestEvent", uuid.New())

	store.On("MarkProcessed", mock.Anything, mock.MatchedBy(func(key string) bool {
		return assert.Contains(t, key, event.EventID().String())
	}), 24*time.Hour).Return(true, nil)
	inner.On("Handle", mock.Anything, event).Return(nil)

	h := NewIdempotentHandler(inner, store, zap.NewNop())
	require.NoError(t, h.Handle(context.Background(), event))

	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsProcessed)
	inner.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestIdempotentHandler_Handle_DuplicateSkipped(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)

	h := NewIdempotentHandler(inner, store, zap.NewNop())
	require.NoError(t, h.Handle(context.Background(), newTestEvent("TestEvent", uuid.New())))

	inner.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsDuplicate)
}

func TestIdempotentHandler_Handle_FailureReleasesKey(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	handlerErr := errors.New("posting failed")

	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	store.On("Release", mock.Anything, mock.Anything).Return(nil)
	inner.On("Handle", mock.Anything, mock.Anything).Return(handlerErr)

	h := NewIdempotentHandler(inner, store, zap.NewNop())
	err := h.Handle(context.Background(), newTestEvent("TestEvent", uuid.New()))

	assert.ErrorIs(t, err, handlerErr)
	store.AssertCalled(t, "Release", mock.Anything, mock.Anything)
	assert.Equal(t, int64(1), h.GetMetrics().Stats().EventsFailed)
}

func TestIdempotentHandler_Handle_StoreErrorStillProcesses(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(false, errors.New("redis down"))
	inner.On("Handle", mock.Anything, mock.Anything).Return(errors.New("still failing"))

	h := NewIdempotentHandler(inner, store, zap.NewNop())
	require.Error(t, h.Handle(context.Background(), newTestEvent("TestEvent", uuid.New())))

	inner.AssertExpectations(t)
	store.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

func TestIdempotentHandler_Handle_Disabled(t *testing.T) {
	inner := new(MockEventHandler)
	store := new(MockIdempotencyStore)
	inner.On("Handle", mock.Anything, mock.Anything).Return(nil)

	h := NewIdempotentHandler(inner, store, zap.NewNop(),
		WithIdempotencyConfig(shared.IdempotencyConfig{Enabled: false}),
	)
	require.NoError(t, h.Handle(context.Background(), newTestEvent("TestEvent", uuid.New())))

	store.AssertNotCalled(t, "MarkProcessed", mock.Anything, mock.Anything, mock.Anything)
}

func TestWrapHandlersWithIdempotency_SharedMetrics(t *testing.T) {
	inner := new(MockEventHandler)
	inner.On("EventTypes").Return([]string{"TestEvent"})
	inner.On("Handle", mock.Anything, mock.Anything).Return(nil)
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	metrics := &IdempotencyMetrics{}

	wrapped := WrapHandlersWithIdempotency([]shared.EventHandler{inner, inner}, store, zap.NewNop(),
		WithIdempotencyMetrics(metrics),
	)
	for _, h := range wrapped {
		assert.Equal(t, []string{"TestEvent"}, h.EventTypes())
		require.NoError(t, h.Handle(context.Background(), newTestEvent("TestEvent", uuid.New())))
	}

	assert.Equal(t, int64(2), metrics.Stats().EventsProcessed)
	assert.Same(t, inner, wrapped[0].(*IdempotentHandler).Unwrap())
}
