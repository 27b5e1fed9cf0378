package settlement

import (
	"context"

	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
)

// Repositories exposes every repository a settlement or posting needs,
// all bound to the same unit of work.
type Repositories interface {
	Orders() pos.OrderRepository
	Payments() pos.PaymentRepository
	PaymentMethods() pos.PaymentMethodRepository
	Tables() pos.TableRepository
	Discounts() pos.DiscountRepository
	Configs() pos.ConfigRepository

	Stocks() inventory.StockRepository
	Movements() inventory.MovementRepository
	Recipes() inventory.RecipeRepository

	Accounts() ledger.AccountRepository
	Mappings() ledger.MappingRepository
	Periods() ledger.PeriodRepository
	Series() ledger.NumberingSeriesRepository
	Journals() ledger.JournalEntryRepository

	// SaveEvents writes events to the transactional outbox
	SaveEvents(ctx context.Context, events ...shared.DomainEvent) error
}

// TransactionScope runs fn inside a single database transaction.
// The transaction commits when fn returns nil and rolls back otherwise.
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}
