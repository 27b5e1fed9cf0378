package persistence

import (
	"context"
	"errors"

	appsettlement "github.com/erp/settlement/internal/application/settlement"
	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"gorm.io/gorm"
)

var errNoOutbox = errors.New("persistence: no outbox event saver configured")

// GormTransactionScope runs settlement and posting work in one database
// transaction. Events saved through the repositories land in the outbox
// inside the same transaction.
type GormTransactionScope struct {
	db     *gorm.DB
	outbox shared.OutboxEventSaver
}

func NewGormTransactionScope(db *gorm.DB, outbox shared.OutboxEventSaver) *GormTransactionScope {
	return &GormTransactionScope{db: db, outbox: outbox}
}

// Execute commits when fn returns nil and rolls back otherwise.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appsettlement.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{db: tx, outbox: s.outbox})
	})
}

// NewRepositories returns repositories bound to db without a transaction,
// for read paths.
func NewRepositories(db *gorm.DB, outbox shared.OutboxEventSaver) appsettlement.Repositories {
	return &gormRepositories{db: db, outbox: outbox}
}

type gormRepositories struct {
	db     *gorm.DB
	outbox shared.OutboxEventSaver
}

func (r *gormRepositories) Orders() pos.OrderRepository {
	return NewGormOrderRepository(r.db)
}

func (r *gormRepositories) Payments() pos.PaymentRepository {
	return NewGormPaymentRepository(r.db)
}

func (r *gormRepositories) PaymentMethods() pos.PaymentMethodRepository {
	return NewGormPaymentMethodRepository(r.db)
}

func (r *gormRepositories) Tables() pos.TableRepository {
	return NewGormTableRepository(r.db)
}

func (r *gormRepositories) Discounts() pos.DiscountRepository {
	return NewGormDiscountRepository(r.db)
}

func (r *gormRepositories) Configs() pos.ConfigRepository {
	return NewGormConfigRepository(r.db)
}

func (r *gormRepositories) Stocks() inventory.StockRepository {
	return NewGormStockRepository(r.db)
}

func (r *gormRepositories) Movements() inventory.MovementRepository {
	return NewGormMovementRepository(r.db)
}

func (r *gormRepositories) Recipes() inventory.RecipeRepository {
	return NewGormRecipeRepository(r.db)
}

func (r *gormRepositories) Accounts() ledger.AccountRepository {
	return NewGormAccountRepository(r.db)
}

func (r *gormRepositories) Mappings() ledger.MappingRepository {
	return NewGormMappingRepository(r.db)
}

func (r *gormRepositories) Periods() ledger.PeriodRepository {
	return NewGormPeriodRepository(r.db)
}

func (r *gormRepositories) Series() ledger.NumberingSeriesRepository {
	return NewGormNumberingSeriesRepository(r.db)
}

func (r *gormRepositories) Journals() ledger.JournalEntryRepository {
	return NewGormJournalEntryRepository(r.db)
}

// SaveEvents writes events to the outbox using the repositories' transaction.
func (r *gormRepositories) SaveEvents(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	if r.outbox == nil {
		return errNoOutbox
	}
	return r.outbox.SaveEvents(ctx, r.db, events...)
}

var (
	_ appsettlement.TransactionScope = (*GormTransactionScope)(nil)
	_ appsettlement.Repositories     = (*gormRepositories)(nil)
)
