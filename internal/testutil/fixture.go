package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/event"
	"github.com/erp/settlement/internal/infrastructure/persistence"
	"github.com/erp/settlement/internal/infrastructure/persistence/models"
)

// SettledAt is the fixed settlement time used by fixtures
var SettledAt = time.Date(2026, time.March, 15, 12, 30, 0, 0, time.UTC)

// Chart holds the ledger accounts seeded by a Restaurant
type Chart struct {
	Cash      uuid.UUID
	Sales     uuid.UUID
	Tax       uuid.UUID
	Discount  uuid.UUID
	COGS      uuid.UUID
	Inventory uuid.UUID
}

// Restaurant is a tenant seeded with the master data a settlement needs:
// a chart of accounts with POS defaults for cash, sales and tax, an open
// period around SettledAt, a journal numbering series and a cash method.
type Restaurant struct {
	DB         *gorm.DB
	TenantID   uuid.UUID
	Serializer *event.EventSerializer
	Outbox     *event.OutboxPublisher
	Scope      *persistence.GormTransactionScope
	Chart      Chart
	Cash       *pos.PaymentMethod
	Period     *ledger.AccountingPeriod
	Series     *ledger.NumberingSeries
	Location   uuid.UUID

	orderSeq int
}

// NewRestaurant seeds a Restaurant in a fresh sqlite database
func NewRestaurant(t *testing.T) *Restaurant {
	t.Helper()
	return NewRestaurantOn(t, NewSQLiteDB(t))
}

// NewRestaurantOn seeds a Restaurant with a new tenant in an already
// migrated database
func NewRestaurantOn(t *testing.T, db *gorm.DB) *Restaurant {
	t.Helper()
	ctx := context.Background()

	serializer := event.NewEventSerializer()
	event.RegisterSettlementEvents(serializer)
	outbox := event.NewOutboxPublisher(serializer)

	r := &Restaurant{
		DB:         db,
		TenantID:   uuid.New(),
		Serializer: serializer,
		Outbox:     outbox,
		Scope:      persistence.NewGormTransactionScope(db, outbox),
		Location:   uuid.New(),
	}

	accounts := persistence.NewGormAccountRepository(db)
	newAccount := func(code, name string) uuid.UUID {
		a := &ledger.LedgerAccount{TenantEntity: shared.NewTenantEntity(r.TenantID), Code: code, Name: name, Active: true}
		require.NoError(t, accounts.Create(ctx, a))
		return a.ID
	}
	r.Chart = Chart{
		Cash:      newAccount("1000", "Cash on hand"),
		Inventory: newAccount("1300", "Inventory"),
		Tax:       newAccount("2100", "Output tax"),
		Sales:     newAccount("4000", "Food sales"),
		Discount:  newAccount("4900", "Sales discounts"),
		COGS:      newAccount("5000", "Cost of goods sold"),
	}

	r.SetConfig(t, func(c *pos.PosConfig) {})

	r.Period = &ledger.AccountingPeriod{
		ID:        uuid.New(),
		TenantID:  r.TenantID,
		Code:      "2026-03",
		StartDate: time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC),
		Status:    ledger.PeriodStatusOpen,
	}
	require.NoError(t, persistence.NewGormPeriodRepository(db).Create(ctx, r.Period))

	r.Series = &ledger.NumberingSeries{
		ID:           uuid.New(),
		TenantID:     r.TenantID,
		DocumentType: ledger.DocumentTypeJournal,
		Prefix:       "JE-",
		NextNumber:   1,
		Padding:      6,
		UpdatedAt:    SettledAt,
	}
	require.NoError(t, persistence.NewGormNumberingSeriesRepository(db).Create(ctx, r.Series))

	r.Cash = r.AddPaymentMethod(t, "CASH", pos.PaymentMethodCash, true)
	return r
}

// SetConfig stores the POS configuration. The base configuration posts
// automatically at 12% tax with cash, sales and tax defaults.
func (r *Restaurant) SetConfig(t *testing.T, mutate func(c *pos.PosConfig)) {
	t.Helper()
	cash, sales, tax := r.Chart.Cash, r.Chart.Sales, r.Chart.Tax
	cfg := &pos.PosConfig{
		TenantID:              r.TenantID,
		AutoPostToGL:          true,
		TaxRate:               pos.DefaultTaxRate,
		DefaultCashAccountID:  &cash,
		DefaultSalesAccountID: &sales,
		DefaultTaxAccountID:   &tax,
	}
	mutate(cfg)
	require.NoError(t, persistence.NewGormConfigRepository(r.DB).Upsert(context.Background(), cfg))
}

// AddPaymentMethod creates a payment method
func (r *Restaurant) AddPaymentMethod(t *testing.T, code string, kind pos.PaymentMethodType, active bool) *pos.PaymentMethod {
	t.Helper()
	m := &pos.PaymentMethod{
		TenantEntity: shared.NewTenantEntity(r.TenantID),
		Code:         code,
		Name:         code,
		Type:         kind,
		Active:       active,
	}
	require.NoError(t, persistence.NewGormPaymentMethodRepository(r.DB).Create(context.Background(), m))
	return m
}

// AddDiscount creates an active discount
func (r *Restaurant) AddDiscount(t *testing.T, kind pos.DiscountType, value string) *pos.Discount {
	t.Helper()
	d := &pos.Discount{
		TenantEntity: shared.NewTenantEntity(r.TenantID),
		Code:         "D" + value,
		Name:         "Discount " + value,
		Type:         kind,
		Value:        Dec(value),
		Active:       true,
	}
	require.NoError(t, persistence.NewGormDiscountRepository(r.DB).Create(context.Background(), d))
	return d
}

// AddTable creates a table occupied by nobody
func (r *Restaurant) AddTable(t *testing.T, number string) *pos.DiningTable {
	t.Helper()
	table := &pos.DiningTable{
		TenantEntity: shared.NewTenantEntity(r.TenantID),
		Number:       number,
		Status:       pos.TableStatusAvailable,
	}
	require.NoError(t, persistence.NewGormTableRepository(r.DB).Save(context.Background(), table))
	return table
}

// LineSpec describes an order line to create
type LineSpec struct {
	ItemID    uuid.UUID
	Name      string
	Quantity  string
	Price     string
	Modifiers []pos.LineModifier
}

// CreateOrder creates an OPEN order, seating it at table when given
func (r *Restaurant) CreateOrder(t *testing.T, table *pos.DiningTable, lines ...LineSpec) *pos.Order {
	t.Helper()
	ctx := context.Background()
	r.orderSeq++

	var tableID *uuid.UUID
	if table != nil {
		id := table.ID
		tableID = &id
	}
	order, err := pos.NewOrder(r.TenantID, fmt.Sprintf("POS-%04d", r.orderSeq), tableID)
	require.NoError(t, err)
	for _, l := range lines {
		itemID := l.ItemID
		if itemID == uuid.Nil {
			itemID = uuid.New()
		}
		name := l.Name
		if name == "" {
			name = "Item"
		}
		_, err := order.AddLine(itemID, name, Dec(l.Quantity), Dec(l.Price), l.Modifiers...)
		require.NoError(t, err)
	}
	require.NoError(t, persistence.NewGormOrderRepository(r.DB).Create(ctx, order))

	if table != nil {
		require.NoError(t, table.Occupy(order.ID))
		require.NoError(t, persistence.NewGormTableRepository(r.DB).Save(ctx, table))
	}
	return order
}

// AddStock creates a stock record at the fixture location
func (r *Restaurant) AddStock(t *testing.T, componentID uuid.UUID, onHand, reorder, cost string) *inventory.InventoryStock {
	t.Helper()
	stock, err := inventory.NewInventoryStock(r.TenantID, componentID, r.Location, Dec(onHand), Dec(reorder), Dec(cost))
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormStockRepository(r.DB).Create(context.Background(), stock))
	return stock
}

// AddRecipe stores the recipe of an item; components are drawn from the
// fixture location
func (r *Restaurant) AddRecipe(t *testing.T, itemID uuid.UUID, components map[uuid.UUID]string) {
	t.Helper()
	recipe := &inventory.Recipe{ItemID: itemID}
	for componentID, qty := range components {
		recipe.Components = append(recipe.Components, inventory.RecipeComponent{
			ComponentItemID: componentID,
			LocationID:      r.Location,
			QuantityUsed:    Dec(qty),
		})
	}
	require.NoError(t, persistence.NewGormRecipeRepository(r.DB).Save(context.Background(), r.TenantID, recipe))
}

// MapItem assigns accounts to an item
func (r *Restaurant) MapItem(t *testing.T, itemID uuid.UUID, accounts map[ledger.AccountRole]uuid.UUID) {
	t.Helper()
	require.NoError(t, persistence.NewGormMappingRepository(r.DB).Save(context.Background(), &ledger.AccountMapping{
		ID:          uuid.New(),
		TenantID:    r.TenantID,
		SubjectType: ledger.SubjectItem,
		SubjectID:   itemID,
		Accounts:    accounts,
	}))
}

// Order reloads an order
func (r *Restaurant) Order(t *testing.T, id uuid.UUID) *pos.Order {
	t.Helper()
	order, err := persistence.NewGormOrderRepository(r.DB).FindByID(context.Background(), r.TenantID, id)
	require.NoError(t, err)
	return order
}

// Stock reloads the stock of a component at the fixture location
func (r *Restaurant) Stock(t *testing.T, componentID uuid.UUID) *inventory.InventoryStock {
	t.Helper()
	stock, err := persistence.NewGormStockRepository(r.DB).FindByComponent(context.Background(), r.TenantID, componentID, r.Location)
	require.NoError(t, err)
	return stock
}

// Movements returns the movements caused by an order
func (r *Restaurant) Movements(t *testing.T, orderID uuid.UUID) []inventory.InventoryMovement {
	t.Helper()
	movements, err := persistence.NewGormMovementRepository(r.DB).FindBySource(context.Background(), r.TenantID, inventory.SourceTypePOSOrder, orderID)
	require.NoError(t, err)
	return movements
}

// Entry returns the journal entry of an order, or nil
func (r *Restaurant) Entry(t *testing.T, orderID uuid.UUID) *ledger.JournalEntry {
	t.Helper()
	entry, err := persistence.NewGormJournalEntryRepository(r.DB).FindBySource(context.Background(), r.TenantID, ledger.SourceTypePOSOrder, orderID)
	if err != nil {
		require.ErrorIs(t, err, shared.ErrNotFound)
		return nil
	}
	return entry
}

// CountPayments counts the payments of an order
func (r *Restaurant) CountPayments(t *testing.T, orderID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, r.DB.Model(&models.PaymentModel{}).Where("order_id = ?", orderID).Count(&n).Error)
	return n
}

// OutboxTypes returns the event types written to the outbox for an aggregate
func (r *Restaurant) OutboxTypes(t *testing.T, aggregateID uuid.UUID) []string {
	t.Helper()
	var types []string
	require.NoError(t, r.DB.Model(&models.OutboxEntryModel{}).
		Where("aggregate_id = ?", aggregateID).
		Order("created_at").
		Pluck("event_type", &types).Error)
	return types
}

// SeriesNext returns the stored next number of the journal series
func (r *Restaurant) SeriesNext(t *testing.T) int64 {
	t.Helper()
	var m models.NumberingSeriesModel
	require.NoError(t, r.DB.Where("id = ?", r.Series.ID).First(&m).Error)
	return m.NextNumber
}

// DebitCredit sums both sides of an entry
func DebitCredit(entry *ledger.JournalEntry) (decimal.Decimal, decimal.Decimal) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range entry.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}
