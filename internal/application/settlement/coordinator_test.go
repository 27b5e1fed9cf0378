package settlement_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/settlement/internal/application/settlement"
	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/infrastructure/persistence/models"
	"github.com/erp/settlement/internal/testutil"
)

var dec = testutil.Dec

type services struct {
	coordinator *settlement.Coordinator
	poster      *settlement.PostingService
	summary     *settlement.SummaryService
}

func newServices(r *testutil.Restaurant, inline bool) services {
	clock := testutil.FixedClock(testutil.SettledAt)
	poster := settlement.NewPostingService(r.Scope, nil,
		settlement.WithPostingClock(clock),
		settlement.WithRetryBudget(200*time.Millisecond),
	)
	opts := []settlement.CoordinatorOption{settlement.WithClock(clock)}
	if inline {
		opts = append(opts, settlement.WithDispatcher(settlement.NewPostingDispatcher(poster, settlement.DispatcherConfig{}, nil)))
	}
	return services{
		coordinator: settlement.NewCoordinator(r.Scope, nil, opts...),
		poster:      poster,
		summary:     settlement.NewSummaryService(r.Scope),
	}
}

func cashRequest(r *testutil.Restaurant, tendered string) settlement.SettleRequest {
	return settlement.SettleRequest{PaymentMethodID: r.Cash.ID, AmountTendered: dec(tendered)}
}

func lineOf(t *testing.T, entry *ledger.JournalEntry, role ledger.AccountRole) ledger.JournalLine {
	t.Helper()
	for _, l := range entry.Lines {
		if l.Role == role {
			return l
		}
	}
	t.Fatalf("no %s line in entry %s", role, entry.DocumentNumber)
	return ledger.JournalLine{}
}

func assertDec(t *testing.T, expected string, actual decimal.Decimal, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, dec(expected).Equal(actual), "expected %s, got %s %v", expected, actual, msgAndArgs)
}

func TestCoordinator_Settle_TotalsAndPosting(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "2", Price: "100"})

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "250"))
	require.NoError(t, err)

	assert.Equal(t, "PAID", result.Status)
	assertDec(t, "200", result.Subtotal)
	assertDec(t, "0", result.Discount)
	assertDec(t, "24", result.Tax)
	assertDec(t, "224", result.TotalAmount)
	assertDec(t, "250", result.AmountPaid)
	assertDec(t, "26", result.Change)
	assert.Equal(t, testutil.SettledAt, result.PaidAt)
	assert.Empty(t, result.StockWarnings)

	assert.Equal(t, "POSTED", result.Posting.Status)
	assert.True(t, result.Posting.Posted)
	assert.False(t, result.Posting.RequiresManualPosting)
	assert.Equal(t, "JE-000001", result.Posting.DocumentNumber)
	assert.ElementsMatch(t, []string{"CASH", "SALES", "TAX"}, result.Posting.UsedDefaults)

	stored := r.Order(t, order.ID)
	assert.Equal(t, pos.OrderStatusPaid, stored.Status)
	assert.True(t, stored.PaymentReceived)
	assert.Equal(t, pos.PostingStatusPosted, stored.PostingStatus)
	assert.Equal(t, int64(1), r.CountPayments(t, order.ID))

	entry := r.Entry(t, order.ID)
	require.NotNil(t, entry)
	debit, credit := testutil.DebitCredit(entry)
	assert.True(t, debit.Equal(credit), "entry must balance: %s vs %s", debit, credit)
	assertDec(t, "224", lineOf(t, entry, ledger.RoleCash).Debit)
	assertDec(t, "200", lineOf(t, entry, ledger.RoleSales).Credit)
	assertDec(t, "24", lineOf(t, entry, ledger.RoleTax).Credit)
	assert.Equal(t, r.Chart.Cash, lineOf(t, entry, ledger.RoleCash).AccountID)
	assert.Equal(t, int64(2), r.SeriesNext(t))

	assert.Contains(t, r.OutboxTypes(t, order.ID), pos.EventTypeOrderSettled)
	assert.Contains(t, r.OutboxTypes(t, entry.ID), ledger.EventTypeJournalEntryPosted)
}

func TestCoordinator_Settle_DiscountNettedWithoutDiscountAccount(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "2", Price: "100"})

	req := cashRequest(r, "250")
	discount := dec("20")
	req.DiscountAmount = &discount

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, req)
	require.NoError(t, err)

	assertDec(t, "20", result.Discount)
	assertDec(t, "21.6", result.Tax)
	assertDec(t, "201.6", result.TotalAmount)
	assertDec(t, "48.4", result.Change)

	entry := r.Entry(t, order.ID)
	require.NotNil(t, entry)
	assertDec(t, "201.6", lineOf(t, entry, ledger.RoleCash).Debit)
	assertDec(t, "180", lineOf(t, entry, ledger.RoleSales).Credit)
	assertDec(t, "21.6", lineOf(t, entry, ledger.RoleTax).Credit)
	for _, l := range entry.Lines {
		assert.NotEqual(t, ledger.RoleDiscount, l.Role)
	}
}

func TestCoordinator_Settle_DiscountThroughContraAccount(t *testing.T) {
	r := testutil.NewRestaurant(t)
	r.SetConfig(t, func(c *pos.PosConfig) {
		id := r.Chart.Discount
		c.DefaultDiscountAccountID = &id
	})
	svc := newServices(r, true)
	d := r.AddDiscount(t, pos.DiscountTypePercent, "10")
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "2", Price: "100"})

	req := cashRequest(r, "201.60")
	req.DiscountID = &d.ID

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, req)
	require.NoError(t, err)
	assertDec(t, "20", result.Discount)
	assertDec(t, "201.6", result.TotalAmount)
	assertDec(t, "0", result.Change)

	entry := r.Entry(t, order.ID)
	require.NotNil(t, entry)
	assertDec(t, "20", lineOf(t, entry, ledger.RoleDiscount).Debit)
	assertDec(t, "200", lineOf(t, entry, ledger.RoleSales).Credit)
	debit, credit := testutil.DebitCredit(entry)
	assertDec(t, "221.6", debit)
	assertDec(t, "221.6", credit)
}

func TestCoordinator_Settle_InsufficientPaymentLeavesNothingBehind(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	itemID, componentID := uuid.New(), uuid.New()
	r.AddStock(t, componentID, "10", "0", "1")
	r.AddRecipe(t, itemID, map[uuid.UUID]string{componentID: "1"})
	order := r.CreateOrder(t, nil, testutil.LineSpec{ItemID: itemID, Quantity: "2", Price: "100"})

	_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "200"))
	require.ErrorIs(t, err, pos.ErrInsufficientPayment)

	assert.Equal(t, int64(0), r.CountPayments(t, order.ID))
	assert.Equal(t, pos.OrderStatusOpen, r.Order(t, order.ID).Status)
	assertDec(t, "10", r.Stock(t, componentID).QuantityOnHand)
	assert.Empty(t, r.Movements(t, order.ID))
	assert.Empty(t, r.OutboxTypes(t, order.ID))
}

func TestCoordinator_Settle_TwiceFailsWithAlreadySettled(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "50"})

	_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "100"))
	require.NoError(t, err)

	_, err = svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "100"))
	require.ErrorIs(t, err, pos.ErrAlreadySettled)
	assert.Equal(t, int64(1), r.CountPayments(t, order.ID))
	assert.Equal(t, int64(2), r.SeriesNext(t), "second attempt must not consume a document number")
}

func TestCoordinator_Settle_DepletionMayGoNegative(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	itemID, componentID := uuid.New(), uuid.New()
	r.AddStock(t, componentID, "5", "0", "2.50")
	r.AddRecipe(t, itemID, map[uuid.UUID]string{componentID: "2"})
	order := r.CreateOrder(t, nil, testutil.LineSpec{ItemID: itemID, Name: "Burger", Quantity: "3", Price: "10"})

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "50"))
	require.NoError(t, err)

	assertDec(t, "-1", r.Stock(t, componentID).QuantityOnHand)
	require.Len(t, result.StockWarnings, 1)
	assert.Equal(t, string(inventory.WarningNegativeStock), result.StockWarnings[0].Kind)
	assert.Equal(t, componentID, result.StockWarnings[0].ComponentItemID)
	assertDec(t, "-1", result.StockWarnings[0].QuantityOnHand)

	movements := r.Movements(t, order.ID)
	total := decimal.Zero
	for _, m := range movements {
		total = total.Add(m.Delta)
		assert.Equal(t, "POS order "+order.OrderNumber+" settlement", m.Reason)
	}
	assertDec(t, "-6", total)
}

func TestCoordinator_Settle_PostsCostOfGoodsWhenMapped(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	itemID, componentID := uuid.New(), uuid.New()
	r.AddStock(t, componentID, "100", "0", "2.50")
	r.AddRecipe(t, itemID, map[uuid.UUID]string{componentID: "2"})
	r.MapItem(t, itemID, map[ledger.AccountRole]uuid.UUID{
		ledger.RoleCOGS:      r.Chart.COGS,
		ledger.RoleInventory: r.Chart.Inventory,
	})
	order := r.CreateOrder(t, nil, testutil.LineSpec{ItemID: itemID, Quantity: "3", Price: "10"})

	_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "40"))
	require.NoError(t, err)

	entry := r.Entry(t, order.ID)
	require.NotNil(t, entry)
	assertDec(t, "15", lineOf(t, entry, ledger.RoleCOGS).Debit)
	assertDec(t, "15", lineOf(t, entry, ledger.RoleInventory).Credit)
	assert.True(t, entry.IsBalanced())
}

func TestCoordinator_Settle_MissingStockRecordRollsBack(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	itemID := uuid.New()
	r.AddRecipe(t, itemID, map[uuid.UUID]string{uuid.New(): "1"})
	order := r.CreateOrder(t, nil, testutil.LineSpec{ItemID: itemID, Quantity: "1", Price: "10"})

	_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
	require.ErrorIs(t, err, inventory.ErrStockRecordMissing)
	assert.Equal(t, int64(0), r.CountPayments(t, order.ID))
	assert.Equal(t, pos.OrderStatusOpen, r.Order(t, order.ID).Status)
}

func TestCoordinator_Settle_ValidationFailures(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	inactive := r.AddPaymentMethod(t, "VOUCHER", pos.PaymentMethodBank, false)

	t.Run("unknown order", func(t *testing.T) {
		_, err := svc.coordinator.Settle(context.Background(), r.TenantID, uuid.New(), nil, cashRequest(r, "10"))
		assert.ErrorIs(t, err, pos.ErrOrderNotFound)
	})

	t.Run("inactive payment method", func(t *testing.T) {
		order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})
		req := settlement.SettleRequest{PaymentMethodID: inactive.ID, AmountTendered: dec("20")}
		_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, req)
		assert.ErrorIs(t, err, pos.ErrInvalidPaymentMethod)
	})

	t.Run("unknown payment method", func(t *testing.T) {
		order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})
		req := settlement.SettleRequest{PaymentMethodID: uuid.New(), AmountTendered: dec("20")}
		_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, req)
		assert.ErrorIs(t, err, pos.ErrInvalidPaymentMethod)
	})

	t.Run("discount above subtotal", func(t *testing.T) {
		order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})
		req := cashRequest(r, "20")
		discount := dec("11")
		req.DiscountAmount = &discount
		_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, req)
		assert.ErrorIs(t, err, pos.ErrInvalidDiscount)
	})

	t.Run("other tenant", func(t *testing.T) {
		order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})
		_, err := svc.coordinator.Settle(context.Background(), uuid.New(), order.ID, nil, cashRequest(r, "20"))
		assert.ErrorIs(t, err, pos.ErrOrderNotFound)
	})
}

func TestCoordinator_Settle_ReleasesTable(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	table := r.AddTable(t, "T1")
	order := r.CreateOrder(t, table, testutil.LineSpec{Quantity: "1", Price: "10"})

	_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
	require.NoError(t, err)

	var status string
	require.NoError(t, r.DB.Table("dining_tables").Select("status").Where("id = ?", table.ID).Scan(&status).Error)
	assert.Equal(t, string(pos.TableStatusAvailable), status)
}

func TestCoordinator_RemovedTableDoesNotBlock(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)

	t.Run("settle", func(t *testing.T) {
		table := r.AddTable(t, "T8")
		order := r.CreateOrder(t, table, testutil.LineSpec{Quantity: "1", Price: "10"})
		require.NoError(t, r.DB.Exec("DELETE FROM dining_tables WHERE id = ?", table.ID).Error)

		result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
		require.NoError(t, err)
		assert.Equal(t, "PAID", result.Status)
		assert.Equal(t, int64(1), r.CountPayments(t, order.ID))
	})

	t.Run("cancel", func(t *testing.T) {
		table := r.AddTable(t, "T9")
		order := r.CreateOrder(t, table, testutil.LineSpec{Quantity: "1", Price: "10"})
		require.NoError(t, r.DB.Exec("DELETE FROM dining_tables WHERE id = ?", table.ID).Error)

		result, err := svc.coordinator.Cancel(context.Background(), r.TenantID, order.ID, settlement.CancelRequest{Reason: "table removed"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", result.Status)
	})
}

func TestCoordinator_Settle_MissingSalesAccountStillPays(t *testing.T) {
	r := testutil.NewRestaurant(t)
	r.SetConfig(t, func(c *pos.PosConfig) { c.DefaultSalesAccountID = nil })
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "2", Price: "100"})

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "250"))
	require.NoError(t, err)

	assert.Equal(t, "PAID", result.Status)
	assert.False(t, result.Posting.Posted)
	assert.True(t, result.Posting.RequiresManualPosting)
	assert.Equal(t, "FAILED", result.Posting.Status)
	assert.NotEmpty(t, result.Posting.Error)

	stored := r.Order(t, order.ID)
	assert.Equal(t, pos.OrderStatusPaid, stored.Status)
	assert.Equal(t, pos.PostingStatusFailed, stored.PostingStatus)
	assert.NotEmpty(t, stored.PostingError)
	assert.Equal(t, int64(1), r.CountPayments(t, order.ID))
	assert.Nil(t, r.Entry(t, order.ID))
	assert.Equal(t, int64(1), r.SeriesNext(t), "failed posting must not consume a document number")
}

func TestCoordinator_Settle_NoOpenPeriod(t *testing.T) {
	r := testutil.NewRestaurant(t)
	require.NoError(t, r.DB.Table("accounting_periods").Where("id = ?", r.Period.ID).Update("status", "CLOSED").Error)
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
	require.NoError(t, err)
	assert.Equal(t, "FAILED", result.Posting.Status)
	assert.Contains(t, r.Order(t, order.ID).PostingError, "period")
}

func TestCoordinator_Settle_NoNumberingSeries(t *testing.T) {
	r := testutil.NewRestaurant(t)
	require.NoError(t, r.DB.Where("id = ?", r.Series.ID).Delete(&models.NumberingSeriesModel{}).Error)
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
	require.NoError(t, err)

	assert.Equal(t, "PAID", result.Status)
	assert.Equal(t, "FAILED", result.Posting.Status)
	assert.True(t, result.Posting.RequiresManualPosting)

	stored := r.Order(t, order.ID)
	assert.Equal(t, pos.PostingStatusFailed, stored.PostingStatus)
	assert.Contains(t, stored.PostingError, "numbering series")
	assert.Equal(t, int64(1), r.CountPayments(t, order.ID))
	assert.Nil(t, r.Entry(t, order.ID))

	_, err = svc.poster.PostNow(context.Background(), r.TenantID, order.ID, nil)
	assert.ErrorIs(t, err, ledger.ErrNoNumberingSeries)
}

func TestCoordinator_Settle_AutoPostDisabled(t *testing.T) {
	r := testutil.NewRestaurant(t)
	r.SetConfig(t, func(c *pos.PosConfig) { c.AutoPostToGL = false })
	svc := newServices(r, true)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
	require.NoError(t, err)
	assert.Equal(t, "UNPOSTED", result.Posting.Status)
	assert.True(t, result.Posting.RequiresManualPosting)
	assert.Nil(t, r.Entry(t, order.ID))
}

func TestCoordinator_Settle_OutboxCompletesDeferredPosting(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, false)
	order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "2", Price: "100"})

	result, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "250"))
	require.NoError(t, err)
	assert.Equal(t, "PENDING", result.Posting.Status)
	assert.False(t, result.Posting.RequiresManualPosting)
	assert.Nil(t, r.Entry(t, order.ID))

	var row models.OutboxEntryModel
	require.NoError(t, r.DB.
		Where("aggregate_id = ? AND event_type = ?", order.ID, pos.EventTypeOrderSettled).
		First(&row).Error)
	evt, err := r.Serializer.Deserialize(pos.EventTypeOrderSettled, row.Payload)
	require.NoError(t, err)

	handler := settlement.NewOrderSettledHandler(svc.poster, nil)
	require.NoError(t, handler.Handle(context.Background(), evt))
	require.NoError(t, handler.Handle(context.Background(), evt), "redelivery is a no-op")

	entry := r.Entry(t, order.ID)
	require.NotNil(t, entry)
	assert.Equal(t, pos.PostingStatusPosted, r.Order(t, order.ID).PostingStatus)
	assert.Equal(t, int64(2), r.SeriesNext(t))
}

func TestCoordinator_Cancel(t *testing.T) {
	r := testutil.NewRestaurant(t)
	svc := newServices(r, true)
	table := r.AddTable(t, "T2")

	t.Run("open order", func(t *testing.T) {
		order := r.CreateOrder(t, table, testutil.LineSpec{Quantity: "1", Price: "10"})
		result, err := svc.coordinator.Cancel(context.Background(), r.TenantID, order.ID, settlement.CancelRequest{Reason: "walked out"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", result.Status)
		assert.Equal(t, "walked out", result.Reason)
		assert.Contains(t, r.OutboxTypes(t, order.ID), pos.EventTypeOrderCancelled)

		_, err = svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
		assert.ErrorIs(t, err, pos.ErrAlreadySettled)
	})

	t.Run("paid order", func(t *testing.T) {
		order := r.CreateOrder(t, nil, testutil.LineSpec{Quantity: "1", Price: "10"})
		_, err := svc.coordinator.Settle(context.Background(), r.TenantID, order.ID, nil, cashRequest(r, "20"))
		require.NoError(t, err)

		_, err = svc.coordinator.Cancel(context.Background(), r.TenantID, order.ID, settlement.CancelRequest{})
		assert.ErrorIs(t, err, pos.ErrAlreadySettled)
	})
}
