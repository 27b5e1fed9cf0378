package pos

import (
	"context"

	"github.com/google/uuid"
)

// OrderRepository defines the interface for POS order persistence
type OrderRepository interface {
	// FindByID loads an order with its lines
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// FindByIDForUpdate loads an order and holds a row lock on it until the
	// surrounding transaction ends. Returns ErrOrderNotFound if it does not exist.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Order, error)

	// Save updates the order header with an optimistic version check
	Save(ctx context.Context, order *Order) error
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Create inserts a payment. A second payment for the same order violates a
	// unique constraint and is reported as ErrAlreadySettled.
	Create(ctx context.Context, payment *Payment) error

	// FindByOrderID returns the payment of a settled order
	FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*Payment, error)
}

// PaymentMethodRepository is the payment-method directory
type PaymentMethodRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PaymentMethod, error)
}

// TableRepository gives access to dining tables
type TableRepository interface {
	// FindByIDForUpdate loads and locks a table
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*DiningTable, error)
	Save(ctx context.Context, table *DiningTable) error
}

// DiscountRepository is the discount directory
type DiscountRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Discount, error)
}

// ConfigRepository reads business-scope POS configuration
type ConfigRepository interface {
	// FindByTenant returns the configuration, or DefaultPosConfig when none is stored
	FindByTenant(ctx context.Context, tenantID uuid.UUID) (*PosConfig, error)
}
