package pos

import (
	"time"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeOrder = "PosOrder"

// Event type constants
const (
	EventTypeOrderSettled   = "pos.order.settled"
	EventTypeOrderCancelled = "pos.order.cancelled"
)

// OrderSettledEvent is raised in the settlement transaction. With AutoPost set
// it is the ledger posting command for the order.
type OrderSettledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	PaymentID   uuid.UUID       `json:"payment_id"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	PaidAt      time.Time       `json:"paid_at"`
	AutoPost    bool            `json:"auto_post"`
}

// NewOrderSettledEvent creates a new OrderSettledEvent
func NewOrderSettledEvent(order *Order, paymentID uuid.UUID, autoPost bool) *OrderSettledEvent {
	var paidAt time.Time
	if order.PaidAt != nil {
		paidAt = *order.PaidAt
	}
	return &OrderSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderSettled, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		PaymentID:       paymentID,
		GrandTotal:      order.GrandTotal,
		PaidAt:          paidAt,
		AutoPost:        autoPost,
	}
}

// EventType returns the event type name
func (e *OrderSettledEvent) EventType() string {
	return EventTypeOrderSettled
}

// OrderCancelledEvent is raised when an unpaid order is cancelled
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Reason      string    `json:"reason"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(order *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, order.ID, order.TenantID),
		OrderID:         order.ID,
		OrderNumber:     order.OrderNumber,
		Reason:          order.CancelReason,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
