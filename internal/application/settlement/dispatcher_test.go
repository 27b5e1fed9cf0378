package settlement_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/erp/settlement/internal/application/settlement"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
)

type MockPoster struct {
	mock.Mock
}

func (m *MockPoster) PostOrder(ctx context.Context, cmd settlement.PostCommand) (*settlement.PostingResult, error) {
	args := m.Called(ctx, cmd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*settlement.PostingResult), args.Error(1)
}

func newCommand() settlement.PostCommand {
	return settlement.PostCommand{TenantID: uuid.New(), OrderID: uuid.New()}
}

func TestPostingDispatcher_PassesThroughSuccess(t *testing.T) {
	poster := new(MockPoster)
	cmd := newCommand()
	poster.On("PostOrder", mock.Anything, cmd).Return(&settlement.PostingResult{
		Status:         string(pos.PostingStatusPosted),
		Posted:         true,
		DocumentNumber: "JE-000001",
	}, nil)

	d := settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{}, nil)
	result := d.Dispatch(context.Background(), cmd)

	assert.True(t, result.Posted)
	assert.Equal(t, "JE-000001", result.DocumentNumber)
	assert.Equal(t, "closed", d.State())
	poster.AssertExpectations(t)
}

func TestPostingDispatcher_ConfigurationFailureKeepsBreakerClosed(t *testing.T) {
	poster := new(MockPoster)
	failed := &settlement.PostingResult{
		Status:                string(pos.PostingStatusFailed),
		RequiresManualPosting: true,
		Error:                 ledger.ErrUnresolvedAccount.Message,
	}
	poster.On("PostOrder", mock.Anything, mock.Anything).Return(failed, ledger.ErrUnresolvedAccount)

	d := settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{MaxFailures: 2}, nil)
	for range 5 {
		result := d.Dispatch(context.Background(), newCommand())
		assert.Equal(t, string(pos.PostingStatusFailed), result.Status)
		assert.True(t, result.RequiresManualPosting)
	}

	assert.Equal(t, "closed", d.State(), "a missing mapping is not a store outage")
	poster.AssertNumberOfCalls(t, "PostOrder", 5)
}

func TestPostingDispatcher_OpensAfterTransientFailures(t *testing.T) {
	poster := new(MockPoster)
	poster.On("PostOrder", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	d := settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{
		MaxFailures: 2,
		OpenTimeout: time.Minute,
	}, nil)

	for range 3 {
		result := d.Dispatch(context.Background(), newCommand())
		assert.Equal(t, string(pos.PostingStatusPending), result.Status)
		assert.False(t, result.Posted)
		assert.False(t, result.RequiresManualPosting, "the outbox delivers it later")
	}

	assert.Equal(t, "open", d.State())
	poster.AssertNumberOfCalls(t, "PostOrder", 2)
}

func TestPostingDispatcher_TimeoutDefersPosting(t *testing.T) {
	poster := new(MockPoster)
	poster.On("PostOrder", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(nil, context.DeadlineExceeded)

	d := settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{Timeout: 20 * time.Millisecond}, nil)
	result := d.Dispatch(context.Background(), newCommand())

	assert.Equal(t, string(pos.PostingStatusPending), result.Status)
	assert.NotEmpty(t, result.Error)
}

func TestPostingDispatcher_UnrecordedRejectionStaysPending(t *testing.T) {
	poster := new(MockPoster)
	poster.On("PostOrder", mock.Anything, mock.Anything).Return(nil, pos.ErrAlreadySettled)

	d := settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{MaxFailures: 1}, nil)
	result := d.Dispatch(context.Background(), newCommand())

	assert.Equal(t, string(pos.PostingStatusPending), result.Status)
	assert.False(t, result.RequiresManualPosting, "the order row is still pending and the outbox retries it")
	assert.Equal(t, pos.ErrAlreadySettled.Message, result.Error)
	assert.Equal(t, "closed", d.State())
}
