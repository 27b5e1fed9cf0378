package pos

import (
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/domain/shared/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a POS order
type OrderStatus string

const (
	OrderStatusOpen      OrderStatus = "OPEN"
	OrderStatusPreparing OrderStatus = "PREPARING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusOpen, OrderStatusPreparing, OrderStatusPaid, OrderStatusCancelled:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	return string(s)
}

// IsSettleable reports whether an order in this status may be paid
func (s OrderStatus) IsSettleable() bool {
	return s == OrderStatusOpen || s == OrderStatusPreparing
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusOpen:
		return target == OrderStatusPreparing || target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPreparing:
		return target == OrderStatusPaid || target == OrderStatusCancelled
	case OrderStatusPaid, OrderStatusCancelled:
		return false
	}
	return false
}

// PostingStatus tracks the ledger side of a settled order
type PostingStatus string

const (
	PostingStatusUnposted PostingStatus = "UNPOSTED"
	PostingStatusPending  PostingStatus = "PENDING"
	PostingStatusPosted   PostingStatus = "POSTED"
	PostingStatusFailed   PostingStatus = "FAILED"
)

// RequiresManualPosting reports whether an operator has to post the order
func (s PostingStatus) RequiresManualPosting() bool {
	return s == PostingStatusFailed || s == PostingStatusUnposted
}

// LineModifier is a priced option chosen on an order line (e.g. extra shot)
type LineModifier struct {
	Name       string          `json:"name"`
	PriceDelta decimal.Decimal `json:"price_delta"`
}

// OrderLine is a sold item. PriceAtSale is a snapshot taken when the line was
// entered and never changes afterwards.
type OrderLine struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ItemID      uuid.UUID
	ItemName    string
	Quantity    decimal.Decimal
	PriceAtSale decimal.Decimal
	Modifiers   []LineModifier
}

// NewOrderLine creates a validated order line
func NewOrderLine(orderID, itemID uuid.UUID, itemName string, quantity, priceAtSale decimal.Decimal, modifiers ...LineModifier) (*OrderLine, error) {
	if itemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item ID cannot be empty")
	}
	if !quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if priceAtSale.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	return &OrderLine{
		ID:          uuid.New(),
		OrderID:     orderID,
		ItemID:      itemID,
		ItemName:    itemName,
		Quantity:    quantity,
		PriceAtSale: priceAtSale,
		Modifiers:   modifiers,
	}, nil
}

// UnitPrice returns the price at sale plus all modifier deltas
func (l OrderLine) UnitPrice() decimal.Decimal {
	unit := l.PriceAtSale
	for _, m := range l.Modifiers {
		unit = unit.Add(m.PriceDelta)
	}
	return unit
}

// Total returns (priceAtSale + Σ modifier delta) × quantity
func (l OrderLine) Total() decimal.Decimal {
	return money.Round(l.UnitPrice().Mul(l.Quantity))
}

// Order is the POS order aggregate root
type Order struct {
	shared.TenantAggregateRoot
	OrderNumber     string
	TableID         *uuid.UUID
	Status          OrderStatus
	Lines           []OrderLine
	Subtotal        decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxAmount       decimal.Decimal
	GrandTotal      decimal.Decimal
	PaymentReceived bool
	PaidAt          *time.Time
	CancelledAt     *time.Time
	CancelReason    string

	PostingStatus  PostingStatus
	JournalEntryID *uuid.UUID
	PostingError   string
	PostedAt       *time.Time
}

// NewOrder creates an open order. Orders are normally created by order entry;
// the constructor exists for that collaborator and for tests.
func NewOrder(tenantID uuid.UUID, orderNumber string, tableID *uuid.UUID) (*Order, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	return &Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		TableID:             tableID,
		Status:              OrderStatusOpen,
		Subtotal:            decimal.Zero,
		DiscountAmount:      decimal.Zero,
		TaxAmount:           decimal.Zero,
		GrandTotal:          decimal.Zero,
		PostingStatus:       PostingStatusUnposted,
	}, nil
}

// AddLine appends a line to an order that has not been settled yet
func (o *Order) AddLine(itemID uuid.UUID, itemName string, quantity, price decimal.Decimal, modifiers ...LineModifier) (*OrderLine, error) {
	if !o.Status.IsSettleable() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot add lines to order in %s status", o.Status))
	}
	line, err := NewOrderLine(o.ID, itemID, itemName, quantity, price, modifiers...)
	if err != nil {
		return nil, err
	}
	o.Lines = append(o.Lines, *line)
	o.UpdatedAt = time.Now()
	return line, nil
}

// StartPreparing moves an open order to the kitchen
func (o *Order) StartPreparing() error {
	if !o.Status.CanTransitionTo(OrderStatusPreparing) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot prepare order in %s status", o.Status))
	}
	o.Status = OrderStatusPreparing
	o.UpdatedAt = time.Now()
	return nil
}

// Settle records the computed totals and marks the order paid.
// When autoPost is set the order waits for the ledger posting command.
func (o *Order) Settle(s *Settlement, paymentID uuid.UUID, paidAt time.Time, autoPost bool) error {
	if !o.Status.IsSettleable() {
		return ErrAlreadySettled.WithMessage(fmt.Sprintf("Order %s is %s and cannot be settled", o.OrderNumber, o.Status))
	}
	o.Subtotal = s.Subtotal
	o.DiscountAmount = s.Discount
	o.TaxAmount = s.Tax
	o.GrandTotal = s.GrandTotal
	o.PaymentReceived = true
	o.PaidAt = &paidAt
	o.Status = OrderStatusPaid
	o.UpdatedAt = paidAt
	if autoPost {
		o.PostingStatus = PostingStatusPending
	} else {
		o.PostingStatus = PostingStatusUnposted
	}

	o.AddDomainEvent(NewOrderSettledEvent(o, paymentID, autoPost))
	return nil
}

// Cancel rejects an order that has not been paid
func (o *Order) Cancel(reason string) error {
	if o.Status == OrderStatusPaid {
		return ErrAlreadySettled.WithMessage(fmt.Sprintf("Order %s is already paid", o.OrderNumber))
	}
	if !o.Status.CanTransitionTo(OrderStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}
	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	o.AddDomainEvent(NewOrderCancelledEvent(o))
	return nil
}

// MarkPostingPending queues the order for another posting attempt
func (o *Order) MarkPostingPending() error {
	if o.Status != OrderStatusPaid {
		return ErrOrderNotPaid
	}
	if o.PostingStatus == PostingStatusPosted {
		return nil
	}
	o.PostingStatus = PostingStatusPending
	o.UpdatedAt = time.Now()
	return nil
}

// MarkPosted links the order to its journal entry
func (o *Order) MarkPosted(journalEntryID uuid.UUID, at time.Time) error {
	if o.Status != OrderStatusPaid {
		return ErrOrderNotPaid
	}
	o.PostingStatus = PostingStatusPosted
	o.JournalEntryID = &journalEntryID
	o.PostingError = ""
	o.PostedAt = &at
	o.UpdatedAt = at
	return nil
}

// MarkPostingFailed records why the ledger posting could not be completed
func (o *Order) MarkPostingFailed(reason string) error {
	if o.Status != OrderStatusPaid {
		return ErrOrderNotPaid
	}
	if o.PostingStatus == PostingStatusPosted {
		return shared.NewDomainError("INVALID_STATE", "Order is already posted")
	}
	o.PostingStatus = PostingStatusFailed
	o.PostingError = reason
	o.UpdatedAt = time.Now()
	return nil
}

// IsPosted reports whether a journal entry exists for the order
func (o *Order) IsPosted() bool {
	return o.PostingStatus == PostingStatusPosted && o.JournalEntryID != nil
}
