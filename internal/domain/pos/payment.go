package pos

import (
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethodType classifies how a payment is received
type PaymentMethodType string

const (
	PaymentMethodCash    PaymentMethodType = "CASH"
	PaymentMethodCard    PaymentMethodType = "CARD"
	PaymentMethodEWallet PaymentMethodType = "EWALLET"
	PaymentMethodBank    PaymentMethodType = "BANK"
)

// PaymentMethod is an entry of the payment-method directory
type PaymentMethod struct {
	shared.TenantEntity
	Code   string
	Name   string
	Type   PaymentMethodType
	Active bool
}

// EnsureUsable returns ErrInvalidPaymentMethod for inactive methods
func (m *PaymentMethod) EnsureUsable() error {
	if !m.Active {
		return ErrInvalidPaymentMethod.WithMessage(fmt.Sprintf("Payment method %s is inactive", m.Code))
	}
	return nil
}

// Payment is the immutable record of a successful settlement.
// At most one payment exists per order.
type Payment struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	OrderID         uuid.UUID
	PaymentMethodID uuid.UUID
	Amount          decimal.Decimal
	AmountTendered  decimal.Decimal
	Change          decimal.Decimal
	PaidAt          time.Time
	ReceivedBy      *uuid.UUID
	CreatedAt       time.Time
}

// NewPayment creates the payment for a settled order
func NewPayment(order *Order, method *PaymentMethod, s *Settlement, paidAt time.Time, actorID *uuid.UUID) *Payment {
	return &Payment{
		ID:              uuid.New(),
		TenantID:        order.TenantID,
		OrderID:         order.ID,
		PaymentMethodID: method.ID,
		Amount:          s.GrandTotal,
		AmountTendered:  s.AmountTendered,
		Change:          s.Change,
		PaidAt:          paidAt,
		ReceivedBy:      actorID,
		CreatedAt:       paidAt,
	}
}
