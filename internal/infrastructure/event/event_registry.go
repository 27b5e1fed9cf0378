package event

import (
	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
)

// RegisterSettlementEvents registers every settlement event with the serializer.
// The outbox processor cannot deliver an event type that is missing here.
func RegisterSettlementEvents(serializer *EventSerializer) {
	// POS
	serializer.Register(pos.EventTypeOrderSettled, &pos.OrderSettledEvent{})
	serializer.Register(pos.EventTypeOrderCancelled, &pos.OrderCancelledEvent{})

	// Inventory
	serializer.Register(inventory.EventTypeStockWentNegative, &inventory.StockWentNegativeEvent{})
	serializer.Register(inventory.EventTypeStockBelowReorder, &inventory.StockBelowReorderEvent{})

	// Ledger
	serializer.Register(ledger.EventTypeJournalEntryPosted, &ledger.JournalEntryPostedEvent{})
}
