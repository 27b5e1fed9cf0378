package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Source identifies the order that causes a depletion
type Source struct {
	OrderID     uuid.UUID
	OrderNumber string
}

// Reason is the movement reason referencing the order
func (s Source) Reason() string {
	return fmt.Sprintf("POS order %s settlement", s.OrderNumber)
}

// WarningKind classifies a stock anomaly found during depletion
type WarningKind string

const (
	WarningNegativeStock WarningKind = "NEGATIVE_STOCK"
	WarningBelowReorder  WarningKind = "BELOW_REORDER"
)

// StockWarning is a non-blocking anomaly reported to the caller
type StockWarning struct {
	Kind            WarningKind
	ComponentItemID uuid.UUID
	LocationID      uuid.UUID
	QuantityOnHand  decimal.Decimal
}

// DepletionResult is the outcome of depleting stock for one order
type DepletionResult struct {
	Movements []*InventoryMovement
	Warnings  []StockWarning
	Events    []shared.DomainEvent
}

// DepletionResolver applies recipe depletion to stock records. It must run
// with repositories bound to the settlement transaction.
type DepletionResolver struct {
	stocks    StockRepository
	movements MovementRepository
	now       func() time.Time
}

// NewDepletionResolver creates a DepletionResolver
func NewDepletionResolver(stocks StockRepository, movements MovementRepository) *DepletionResolver {
	return &DepletionResolver{stocks: stocks, movements: movements, now: time.Now}
}

// Deplete locks every required stock row in plan order, subtracts the
// required quantity and appends one movement per (line, component).
// A missing stock record aborts with ErrStockRecordMissing.
func (r *DepletionResolver) Deplete(ctx context.Context, tenantID uuid.UUID, src Source, plan []Requirement) (*DepletionResult, error) {
	result := &DepletionResult{}
	if len(plan) == 0 {
		return result, nil
	}
	at := r.now()

	for _, req := range plan {
		stock, err := r.stocks.FindForUpdate(ctx, tenantID, req.ComponentItemID, req.LocationID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, ErrStockRecordMissing.WithMessage(fmt.Sprintf("No stock record for component %s at location %s", req.ComponentItemID, req.LocationID))
			}
			return nil, fmt.Errorf("lock stock %s/%s: %w", req.ComponentItemID, req.LocationID, err)
		}

		outcome, err := stock.Deplete(req.Quantity)
		if err != nil {
			return nil, err
		}

		balance := outcome.Before
		for _, demand := range req.Lines {
			after := balance.Sub(demand.Quantity)
			result.Movements = append(result.Movements, newDepletionMovement(stock, demand.LineID, demand.Quantity, balance, after, src, at))
			balance = after
		}

		if err := r.stocks.SaveWithLock(ctx, stock); err != nil {
			return nil, fmt.Errorf("save stock %s: %w", stock.ID, err)
		}

		if outcome.Negative {
			result.Warnings = append(result.Warnings, StockWarning{Kind: WarningNegativeStock, ComponentItemID: stock.ComponentItemID, LocationID: stock.LocationID, QuantityOnHand: stock.QuantityOnHand})
			result.Events = append(result.Events, NewStockWentNegativeEvent(stock, src.OrderID))
		} else if outcome.BelowReorder {
			result.Warnings = append(result.Warnings, StockWarning{Kind: WarningBelowReorder, ComponentItemID: stock.ComponentItemID, LocationID: stock.LocationID, QuantityOnHand: stock.QuantityOnHand})
			result.Events = append(result.Events, NewStockBelowReorderEvent(stock))
		}
	}

	if err := r.movements.Append(ctx, result.Movements...); err != nil {
		return nil, fmt.Errorf("append movements: %w", err)
	}
	return result, nil
}
