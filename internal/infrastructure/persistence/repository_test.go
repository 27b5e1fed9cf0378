package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/persistence"
	"github.com/erp/settlement/internal/testutil"
)

func TestGormStockRepository_SaveWithLockRejectsStaleVersion(t *testing.T) {
	r := testutil.NewRestaurant(t)
	ctx := context.Background()
	repo := persistence.NewGormStockRepository(r.DB)
	componentID := uuid.New()
	r.AddStock(t, componentID, "10", "2", "1.50")

	first, err := repo.FindForUpdate(ctx, r.TenantID, componentID, r.Location)
	require.NoError(t, err)
	second, err := repo.FindForUpdate(ctx, r.TenantID, componentID, r.Location)
	require.NoError(t, err)

	first.QuantityOnHand = testutil.Dec("7")
	require.NoError(t, repo.SaveWithLock(ctx, first))

	second.QuantityOnHand = testutil.Dec("4")
	err = repo.SaveWithLock(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	assert.True(t, r.Stock(t, componentID).QuantityOnHand.Equal(testutil.Dec("7")))
}

func TestGormStockRepository_MissingStockIsNotFound(t *testing.T) {
	r := testutil.NewRestaurant(t)

	_, err := persistence.NewGormStockRepository(r.DB).FindForUpdate(context.Background(), r.TenantID, uuid.New(), r.Location)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormMovementRepository_AppendAndFindBySource(t *testing.T) {
	r := testutil.NewRestaurant(t)
	ctx := context.Background()
	repo := persistence.NewGormMovementRepository(r.DB)
	componentID := uuid.New()
	stock := r.AddStock(t, componentID, "5", "0", "2.00")
	orderID, lineID := uuid.New(), uuid.New()

	require.NoError(t, repo.Append(ctx))

	mv := &inventory.InventoryMovement{
		ID:              uuid.New(),
		TenantID:        r.TenantID,
		StockID:         stock.ID,
		ComponentItemID: componentID,
		LocationID:      r.Location,
		Delta:           testutil.Dec("-2"),
		BalanceBefore:   testutil.Dec("5"),
		BalanceAfter:    testutil.Dec("3"),
		UnitCost:        testutil.Dec("2.00"),
		Reason:          "POS order POS-0001 settlement",
		SourceType:      inventory.SourceTypePOSOrder,
		SourceID:        orderID,
		OrderLineID:     &lineID,
		CreatedAt:       testutil.SettledAt,
	}
	require.NoError(t, repo.Append(ctx, mv))

	got, err := repo.FindBySource(ctx, r.TenantID, inventory.SourceTypePOSOrder, orderID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.True(t, got[0].Delta.Equal(testutil.Dec("-2")))
	assert.Equal(t, mv.Reason, got[0].Reason)

	other, err := repo.FindBySource(ctx, r.TenantID, inventory.SourceTypePOSOrder, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestGormRecipeRepository_RoundTrip(t *testing.T) {
	r := testutil.NewRestaurant(t)
	itemID, bun, patty := uuid.New(), uuid.New(), uuid.New()
	r.AddRecipe(t, itemID, map[uuid.UUID]string{bun: "1", patty: "0.25"})

	recipes, err := persistence.NewGormRecipeRepository(r.DB).FindByItemIDs(context.Background(), r.TenantID, []uuid.UUID{itemID, uuid.New()})
	require.NoError(t, err)

	require.Contains(t, recipes, itemID)
	assert.Len(t, recipes[itemID].Components, 2)
}

func newEntry(t *testing.T, r *testutil.Restaurant, number string, sourceID uuid.UUID) *ledger.JournalEntry {
	t.Helper()
	amount := testutil.Dec("11.20")
	entry, err := ledger.NewJournalEntry(r.TenantID, ledger.EntryHeader{
		DocumentNumber: number,
		DocumentDate:   testutil.SettledAt,
		PostingDate:    testutil.SettledAt,
		Period:         r.Period,
		SourceType:     ledger.SourceTypePOSOrder,
		SourceID:       sourceID,
	}, &ledger.EntryDraft{
		Lines: []ledger.DraftLine{
			{Role: ledger.RoleCash, AccountID: r.Chart.Cash, Debit: amount},
			{Role: ledger.RoleSales, AccountID: r.Chart.Sales, Credit: amount},
		},
		TotalDebit:  amount,
		TotalCredit: amount,
	})
	require.NoError(t, err)
	return entry
}

func TestGormJournalEntryRepository_OneEntryPerSource(t *testing.T) {
	r := testutil.NewRestaurant(t)
	ctx := context.Background()
	repo := persistence.NewGormJournalEntryRepository(r.DB)
	sourceID := uuid.New()

	require.NoError(t, repo.Create(ctx, newEntry(t, r, "JE-000001", sourceID)))

	err := repo.Create(ctx, newEntry(t, r, "JE-000002", sourceID))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)

	stored, err := repo.FindBySource(ctx, r.TenantID, ledger.SourceTypePOSOrder, sourceID)
	require.NoError(t, err)
	assert.Equal(t, "JE-000001", stored.DocumentNumber)
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, 1, stored.Lines[0].LineNumber)
	debit, credit := testutil.DebitCredit(stored)
	assert.True(t, debit.Equal(credit))
}

func TestGormPeriodRepository_FindOpenByDate(t *testing.T) {
	r := testutil.NewRestaurant(t)
	repo := persistence.NewGormPeriodRepository(r.DB)

	period, err := repo.FindOpenByDate(context.Background(), r.TenantID, testutil.SettledAt)
	require.NoError(t, err)
	assert.Equal(t, r.Period.ID, period.ID)

	_, err = repo.FindOpenByDate(context.Background(), r.TenantID, time.Date(2026, time.April, 2, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormNumberingSeriesRepository_Missing(t *testing.T) {
	r := testutil.NewRestaurant(t)

	_, err := persistence.NewGormNumberingSeriesRepository(r.DB).FindForUpdate(context.Background(), r.TenantID, "INV")

	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTableRepository_MissingTable(t *testing.T) {
	r := testutil.NewRestaurant(t)
	table := r.AddTable(t, "T1")

	got, err := persistence.NewGormTableRepository(r.DB).FindByIDForUpdate(context.Background(), r.TenantID, table.ID)
	require.NoError(t, err)
	assert.Equal(t, pos.TableStatusAvailable, got.Status)

	_, err = persistence.NewGormTableRepository(r.DB).FindByIDForUpdate(context.Background(), r.TenantID, uuid.New())
	assert.ErrorIs(t, err, pos.ErrTableNotFound)
}

func TestDirectoryRepositories_StoreInactiveRows(t *testing.T) {
	r := testutil.NewRestaurant(t)
	ctx := context.Background()

	t.Run("payment method", func(t *testing.T) {
		method := r.AddPaymentMethod(t, "VOUCHER", pos.PaymentMethodCash, false)

		got, err := persistence.NewGormPaymentMethodRepository(r.DB).FindByID(ctx, r.TenantID, method.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)
		assert.ErrorIs(t, got.EnsureUsable(), pos.ErrInvalidPaymentMethod)
	})

	t.Run("discount", func(t *testing.T) {
		d := &pos.Discount{
			TenantEntity: shared.NewTenantEntity(r.TenantID),
			Code:         "RETIRED",
			Name:         "Retired promotion",
			Type:         pos.DiscountTypeFixed,
			Value:        testutil.Dec("5"),
			Active:       false,
		}
		repo := persistence.NewGormDiscountRepository(r.DB)
		require.NoError(t, repo.Create(ctx, d))

		got, err := repo.FindByID(ctx, r.TenantID, d.ID)
		require.NoError(t, err)
		assert.False(t, got.Active)
	})

	t.Run("ledger account", func(t *testing.T) {
		a := &ledger.LedgerAccount{TenantEntity: shared.NewTenantEntity(r.TenantID), Code: "4999", Name: "Closed account", Active: false}
		repo := persistence.NewGormAccountRepository(r.DB)
		require.NoError(t, repo.Create(ctx, a))

		got, err := repo.FindByIDs(ctx, r.TenantID, []uuid.UUID{a.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.False(t, got[0].Active)
	})
}
