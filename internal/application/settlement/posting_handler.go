package settlement

import (
	"context"
	"fmt"

	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"go.uber.org/zap"
)

// OrderSettledHandler consumes pos.order.settled from the outbox and posts
// the order to the ledger when auto-posting was on at settlement time.
type OrderSettledHandler struct {
	poster Poster
	logger *zap.Logger
}

// NewOrderSettledHandler creates a new handler for order settled events
func NewOrderSettledHandler(poster Poster, logger *zap.Logger) *OrderSettledHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderSettledHandler{poster: poster, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *OrderSettledHandler) EventTypes() []string {
	return []string{pos.EventTypeOrderSettled}
}

// Handle posts the settled order. Transient failures are returned so the
// outbox retries; recorded configuration failures are not.
func (h *OrderSettledHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	settledEvent, ok := event.(*pos.OrderSettledEvent)
	if !ok {
		h.logger.Error("unexpected event type",
			zap.String("expected", pos.EventTypeOrderSettled),
			zap.String("actual", event.EventType()),
		)
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			pos.EventTypeOrderSettled, event.EventType())
	}
	if !settledEvent.AutoPost {
		return nil
	}

	result, err := h.poster.PostOrder(ctx, PostCommand{
		TenantID:    settledEvent.TenantID(),
		OrderID:     settledEvent.OrderID,
		OnlyPending: true,
	})
	if err != nil {
		if result != nil {
			// recorded as FAILED on the order, redelivery cannot help
			return nil
		}
		h.logger.Warn("ledger posting from outbox failed",
			zap.String("order_id", settledEvent.OrderID.String()),
			zap.String("order_number", settledEvent.OrderNumber),
			zap.Error(err),
		)
		return err
	}

	h.logger.Debug("settled order handled",
		zap.String("order_id", settledEvent.OrderID.String()),
		zap.String("posting_status", result.Status),
	)
	return nil
}

var _ shared.EventHandler = (*OrderSettledHandler)(nil)
