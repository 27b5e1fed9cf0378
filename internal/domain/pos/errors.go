package pos

import "github.com/erp/settlement/internal/domain/shared"

// Settlement validation errors. These are returned to the cashier and never
// leave partial state behind.
var (
	ErrOrderNotFound        = shared.NewDomainError("ORDER_NOT_FOUND", "Order not found")
	ErrAlreadySettled       = shared.NewDomainError("ALREADY_SETTLED", "Order is not in a settleable state")
	ErrInvalidPaymentMethod = shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method is not available")
	ErrInsufficientPayment  = shared.NewDomainError("INSUFFICIENT_PAYMENT", "Amount tendered is less than the order total")
	ErrInvalidDiscount      = shared.NewDomainError("INVALID_DISCOUNT", "Discount is not applicable to this order")
	ErrEmptyOrder           = shared.NewDomainError("EMPTY_ORDER", "Order has no lines")
	ErrOrderNotPaid         = shared.NewDomainError("ORDER_NOT_PAID", "Order has not been settled")
	ErrTableNotFound        = shared.NewConfigurationError("TABLE_NOT_FOUND", "Table referenced by the order does not exist")
)
