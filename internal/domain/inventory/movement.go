package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceTypePOSOrder marks movements caused by settling a POS order
const SourceTypePOSOrder = "POS_ORDER"

// InventoryMovement is an immutable, append-only record of a stock change.
// It is written once and never updated.
type InventoryMovement struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	StockID         uuid.UUID
	ComponentItemID uuid.UUID
	LocationID      uuid.UUID
	Delta           decimal.Decimal
	BalanceBefore   decimal.Decimal
	BalanceAfter    decimal.Decimal
	UnitCost        decimal.Decimal
	Reason          string
	SourceType      string
	SourceID        uuid.UUID
	OrderLineID     *uuid.UUID
	CreatedAt       time.Time
}

// CostValue returns |Delta| × UnitCost
func (m InventoryMovement) CostValue() decimal.Decimal {
	return m.Delta.Abs().Mul(m.UnitCost)
}

// newDepletionMovement records quantity leaving stock for one order line
func newDepletionMovement(stock *InventoryStock, lineID uuid.UUID, quantity, before, after decimal.Decimal, src Source, at time.Time) *InventoryMovement {
	line := lineID
	return &InventoryMovement{
		ID:              uuid.New(),
		TenantID:        stock.TenantID,
		StockID:         stock.ID,
		ComponentItemID: stock.ComponentItemID,
		LocationID:      stock.LocationID,
		Delta:           quantity.Neg(),
		BalanceBefore:   before,
		BalanceAfter:    after,
		UnitCost:        stock.StandardCost,
		Reason:          src.Reason(),
		SourceType:      SourceTypePOSOrder,
		SourceID:        src.OrderID,
		OrderLineID:     &line,
		CreatedAt:       at,
	}
}
