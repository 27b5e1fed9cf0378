package inventory

import (
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeInventoryStock = "InventoryStock"

// Event type constants
const (
	EventTypeStockWentNegative = "inventory.stock.went_negative"
	EventTypeStockBelowReorder = "inventory.stock.below_reorder"
)

// StockWentNegativeEvent is raised when depletion drives on-hand quantity below zero
type StockWentNegativeEvent struct {
	shared.BaseDomainEvent
	StockID         uuid.UUID       `json:"stock_id"`
	ComponentItemID uuid.UUID       `json:"component_item_id"`
	LocationID      uuid.UUID       `json:"location_id"`
	QuantityOnHand  decimal.Decimal `json:"quantity_on_hand"`
	OrderID         uuid.UUID       `json:"order_id"`
}

// NewStockWentNegativeEvent creates a new StockWentNegativeEvent
func NewStockWentNegativeEvent(stock *InventoryStock, orderID uuid.UUID) *StockWentNegativeEvent {
	return &StockWentNegativeEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockWentNegative, AggregateTypeInventoryStock, stock.ID, stock.TenantID),
		StockID:         stock.ID,
		ComponentItemID: stock.ComponentItemID,
		LocationID:      stock.LocationID,
		QuantityOnHand:  stock.QuantityOnHand,
		OrderID:         orderID,
	}
}

// EventType returns the event type name
func (e *StockWentNegativeEvent) EventType() string {
	return EventTypeStockWentNegative
}

// StockBelowReorderEvent is raised when depletion crosses the reorder threshold
type StockBelowReorderEvent struct {
	shared.BaseDomainEvent
	StockID          uuid.UUID       `json:"stock_id"`
	ComponentItemID  uuid.UUID       `json:"component_item_id"`
	LocationID       uuid.UUID       `json:"location_id"`
	QuantityOnHand   decimal.Decimal `json:"quantity_on_hand"`
	ReorderThreshold decimal.Decimal `json:"reorder_threshold"`
}

// NewStockBelowReorderEvent creates a new StockBelowReorderEvent
func NewStockBelowReorderEvent(stock *InventoryStock) *StockBelowReorderEvent {
	return &StockBelowReorderEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeStockBelowReorder, AggregateTypeInventoryStock, stock.ID, stock.TenantID),
		StockID:          stock.ID,
		ComponentItemID:  stock.ComponentItemID,
		LocationID:       stock.LocationID,
		QuantityOnHand:   stock.QuantityOnHand,
		ReorderThreshold: stock.ReorderThreshold,
	}
}

// EventType returns the event type name
func (e *StockBelowReorderEvent) EventType() string {
	return EventTypeStockBelowReorder
}
