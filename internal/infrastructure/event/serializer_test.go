package event

import (
	"testing"
	"time"

	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventSerializer_Deserialize(t *testing.T) {
	s := NewEventSerializer()
	s.Register("TestEvent", &testEvent{})

	event := newTestEvent("TestEvent", uuid.New())
	data, err := s.Serialize(event)
	require.NoError(t, err)

	got, err := s.Deserialize("TestEvent", data)
	require.NoError(t, err)

	decoded, ok := got.(*testEvent)
	require.True(t, ok)
	assert.Equal(t, event.EventID(), decoded.EventID())
	assert.Equal(t, event.TenantID(), decoded.TenantID())
	assert.Equal(t, event.AggregateID(), decoded.AggregateID())
	assert.Equal(t, "test data", decoded.Data)
}

func TestEventSerializer_Deserialize_Errors(t *testing.T) {
	s := NewEventSerializer()
	s.Register("TestEvent", &testEvent{})

	_, err := s.Deserialize("Missing", []byte(`{}`))
	assert.ErrorContains(t, err, "unknown event type")

	_, err = s.Deserialize("TestEvent", []byte(`{not json`))
	assert.ErrorContains(t, err, "failed to unmarshal event")
}

func TestRegisterSettlementEvents(t *testing.T) {
	s := NewEventSerializer()
	RegisterSettlementEvents(s)

	assert.Equal(t, []string{
		inventory.EventTypeStockBelowReorder,
		inventory.EventTypeStockWentNegative,
		ledger.EventTypeJournalEntryPosted,
		pos.EventTypeOrderCancelled,
		pos.EventTypeOrderSettled,
	}, s.RegisteredTypes())
}

func TestEventSerializer_OrderSettledRoundTrip(t *testing.T) {
	s := NewEventSerializer()
	RegisterSettlementEvents(s)

	paidAt := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	order := &pos.Order{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(uuid.New()),
		OrderNumber:         "POS-0001",
		GrandTotal:          decimal.RequireFromString("224.00"),
		PaidAt:              &paidAt,
	}
	event := pos.NewOrderSettledEvent(order, uuid.New(), true)

	data, err := s.Serialize(event)
	require.NoError(t, err)
	got, err := s.Deserialize(pos.EventTypeOrderSettled, data)
	require.NoError(t, err)

	settled := got.(*pos.OrderSettledEvent)
	assert.Equal(t, order.ID, settled.OrderID)
	assert.Equal(t, order.TenantID, settled.TenantID())
	assert.True(t, settled.GrandTotal.Equal(order.GrandTotal))
	assert.True(t, settled.PaidAt.Equal(paidAt))
	assert.True(t, settled.AutoPost)
}
