package inventory

import (
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryStock is the on-hand quantity of one component at one location.
// Depletion may drive QuantityOnHand below zero; that is reported as an
// anomaly and never blocks a paid order.
type InventoryStock struct {
	shared.TenantEntity
	ComponentItemID  uuid.UUID
	LocationID       uuid.UUID
	QuantityOnHand   decimal.Decimal
	ReorderThreshold decimal.Decimal
	StandardCost     decimal.Decimal
	Version          int
}

// NewInventoryStock creates a stock record for a component at a location
func NewInventoryStock(tenantID, componentItemID, locationID uuid.UUID, onHand, reorderThreshold, standardCost decimal.Decimal) (*InventoryStock, error) {
	if componentItemID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_COMPONENT", "Component item ID cannot be empty")
	}
	if locationID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location ID cannot be empty")
	}
	if standardCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Standard cost cannot be negative")
	}
	return &InventoryStock{
		TenantEntity:     shared.NewTenantEntity(tenantID),
		ComponentItemID:  componentItemID,
		LocationID:       locationID,
		QuantityOnHand:   onHand,
		ReorderThreshold: reorderThreshold,
		StandardCost:     standardCost,
		Version:          1,
	}, nil
}

// DepletionOutcome describes the effect of one Deplete call
type DepletionOutcome struct {
	Before       decimal.Decimal
	After        decimal.Decimal
	Negative     bool
	BelowReorder bool
}

// Deplete subtracts quantity from the on-hand balance without clamping at zero
func (s *InventoryStock) Deplete(quantity decimal.Decimal) (DepletionOutcome, error) {
	if !quantity.IsPositive() {
		return DepletionOutcome{}, shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Depletion quantity must be positive, got %s", quantity))
	}
	before := s.QuantityOnHand
	after := before.Sub(quantity)
	s.QuantityOnHand = after
	s.UpdatedAt = time.Now()

	return DepletionOutcome{
		Before:       before,
		After:        after,
		Negative:     after.IsNegative(),
		BelowReorder: s.ReorderThreshold.IsPositive() && after.LessThan(s.ReorderThreshold) && !before.LessThan(s.ReorderThreshold),
	}, nil
}
