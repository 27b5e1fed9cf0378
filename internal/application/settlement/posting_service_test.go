package settlement_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/settlement/internal/application/settlement"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/testutil"
)

func TestPostingService_PostNowAfterConfigurationFix(t *testing.T) {
	r := testutil.NewRestaurant(t)
	r.SetConfig(t, func(c *pos.PosConfig) { c.DefaultCashAccountID = nil })
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "2", Price: "100"})

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "224"))
	require.NoError(t, err)
	require.Equal(t, "FAILED", result.Posting.Status)

	_, err = svc.poster.PostNow(context.Background(), r.TenantID, order.ID, nil)
	require.ErrorIs(t, err, ledger.ErrUnresolvedAccount)

	r.SetConfig(t, func(c *pos.PosConfig) {})
	actor := testutil.TestUserID()
	posted, err := svc.poster.PostNow(context.Background(), r.TenantID, order.ID, &actor)
	require.NoError(t, err)
	assert.Equal(t, "POSTED", posted.Status)
	assert.True(t, posted.Posted)
	assert.False(t, posted.RequiresManualPosting)
	assert.Equal(t, "JE-000001", posted.DocumentNumber)

	stored := r.Order(t, order.ID)
	assert.Equal(t, pos.PostingStatusPosted, stored.PostingStatus)
	assert.Empty(t, stored.PostingError)

	entry := r.Entry(t, order.ID)
	require.NotNil(t, entry)
	assert.True(t, entry.Posted)
	require.NotNil(t, entry.PostedBy)
	assert.Equal(t, actor, *entry.PostedBy)
}

func TestPostingService_PostOrderIsIdempotent(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})

	first, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
	require.NoError(t, err)
	require.True(t, first.Posting.Posted)

	again, err := svc.poster.PostNow(context.Background(), r.TenantID, order.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, first.Posting.JournalEntryID, again.JournalEntryID)
	assert.Equal(t, first.Posting.DocumentNumber, again.DocumentNumber)
	assert.Equal(t, int64(2), r.SeriesNext(t))
}

func TestPostingService_RejectsUnpaidOrder(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})

	result, err := svc.poster.PostNow(context.Background(), r.TenantID, order.ID, nil)
	require.ErrorIs(t, err, pos.ErrOrderNotPaid)
	assert.Nil(t, result)
	assert.Equal(t, pos.PostingStatusUnposted, r.Order(t, order.ID).PostingStatus)
}

func TestPostingService_OnlyPendingSkipsFailedOrders(t *testing.T) {
	r := testutil.NewRestaurant(t)
	r.SetConfig(t, func(c *pos.PosConfig) { c.DefaultSalesAccountID = nil })
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})

	_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
	require.NoError(t, err)

	r.SetConfig(t, func(c *pos.PosConfig) {})
	result, err := svc.poster.PostOrder(context.Background(), settlement.PostCommand{
		TenantID:    r.TenantID,
		OrderID:     order.ID,
		OnlyPending: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "FAILED", result.Status)
	assert.True(t, result.RequiresManualPosting)
	assert.Nil(t, r.Entry(t, order.ID))
}

func TestSummaryService_AccountingSummary(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "2", Price: "100"})

	settled, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "250"))
	require.NoError(t, err)

	summary, err := svc.summary.AccountingSummary(context.Background(), r.TenantID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, summary.OrderNumber)
	assert.Equal(t, "PAID", summary.Status)
	assertDec(t, "224", summary.TotalAmount)
	require.NotNil(t, summary.PaymentID)
	assert.Equal(t, settled.PaymentID, *summary.PaymentID)
	assert.Equal(t, "CASH", summary.PaymentMethodName)
	assert.Equal(t, "POSTED", summary.PostingStatus)
	assert.True(t, summary.Posted)
	assert.NotNil(t, summary.PostedAt)
	assert.Equal(t, "JE-000001", summary.DocumentNumber)
	assert.Len(t, summary.JournalLines, 3)
	assert.True(t, summary.TotalDebit.Equal(summary.TotalCredit))
	assert.False(t, summary.RequiresManualPosting)

	t.Run("open order", func(t *testing.T) {
		open := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})
		summary, err := svc.summary.AccountingSummary(context.Background(), r.TenantID, open.ID)
		require.NoError(t, err)
		assert.Equal(t, "OPEN", summary.Status)
		assert.Nil(t, summary.PaymentID)
		assert.Empty(t, summary.JournalLines)
		assert.False(t, summary.RequiresManualPosting)
	})

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.summary.AccountingSummary(context.Background(), r.TenantID, uuid.New())
		assert.ErrorIs(t, err, pos.ErrOrderNotFound)
	})
}

// stubPoster returns canned results and counts calls
type stubPoster struct {
	calls  atomic.Int32
	result *settlement.PostingResult
	err    error
}

func (p *stubPoster) PostOrder(ctx context.Context, cmd settlement.PostCommand) (*settlement.PostingResult, error) {
	p.calls.Add(1)
	return p.result, p.err
}

func TestPostingDispatcher_TransientFailuresTripBreaker(t *testing.T) {
	poster := &stubPoster{err: errors.New("connection refused")}
	d := settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{
		MaxFailures: 2,
		OpenTimeout: time.Minute,
	}, nil)
	cmd := settlement.PostCommand{TenantID: uuid.New(), OrderID: uuid.New()}

	for i := 0; i < 3; i++ {
		result := d.Dispatch(context.Background(), cmd)
		assert.Equal(t, "PENDING", result.Status)
		assert.False(t, result.RequiresManualPosting)
		assert.False(t, result.Posted)
	}
	assert.Equal(t, int32(2), poster.calls.Load(), "open breaker must skip the poster")
	assert.Equal(t, "open", d.State())
}

func TestPostingDispatcher_ConfigurationFailuresDoNotTripBreaker(t *testing.T) {
	poster := &stubPoster{
		result: &settlement.PostingResult{Status: "FAILED", RequiresManualPosting: true, Error: "no sales account"},
		err:    ledger.ErrUnresolvedAccount,
	}
	d := settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{MaxFailures: 1}, nil)
	cmd := settlement.PostCommand{TenantID: uuid.New(), OrderID: uuid.New()}

	for i := 0; i < 3; i++ {
		result := d.Dispatch(context.Background(), cmd)
		assert.Equal(t, "FAILED", result.Status)
		assert.True(t, result.RequiresManualPosting)
	}
	assert.Equal(t, int32(3), poster.calls.Load())
	assert.Equal(t, "closed", d.State())
}

func TestOrderSettledHandler(t *testing.T) {
	order, err := pos.NewOrder(uuid.New(), "POS-1", nil)
	require.NoError(t, err)

	t.Run("skips when auto-post was off", func(t *testing.T) {
		poster := &stubPoster{}
		h := settlement.NewOrderSettledHandler(poster, nil)
		require.NoError(t, h.Handle(context.Background(), pos.NewOrderSettledEvent(order, uuid.New(), false)))
		assert.Equal(t, int32(0), poster.calls.Load())
	})

	t.Run("returns transient errors for retry", func(t *testing.T) {
		poster := &stubPoster{err: errors.New("timeout")}
		h := settlement.NewOrderSettledHandler(poster, nil)
		assert.Error(t, h.Handle(context.Background(), pos.NewOrderSettledEvent(order, uuid.New(), true)))
	})

	t.Run("swallows recorded failures", func(t *testing.T) {
		poster := &stubPoster{result: &settlement.PostingResult{Status: "FAILED"}, err: ledger.ErrNoOpenPeriod}
		h := settlement.NewOrderSettledHandler(poster, nil)
		assert.NoError(t, h.Handle(context.Background(), pos.NewOrderSettledEvent(order, uuid.New(), true)))
	})

	t.Run("rejects other events", func(t *testing.T) {
		h := settlement.NewOrderSettledHandler(&stubPoster{}, nil)
		assert.Error(t, h.Handle(context.Background(), pos.NewOrderCancelledEvent(order)))
	})

	assert.Equal(t, []string{pos.EventTypeOrderSettled}, settlement.NewOrderSettledHandler(&stubPoster{}, nil).EventTypes())
}
