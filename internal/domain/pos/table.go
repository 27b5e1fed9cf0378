package pos

import (
	"time"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
)

// TableStatus is the availability of a dining table
type TableStatus string

const (
	TableStatusAvailable TableStatus = "AVAILABLE"
	TableStatusOccupied  TableStatus = "OCCUPIED"
)

// DiningTable is a seat group an order can be attached to
type DiningTable struct {
	shared.TenantEntity
	Number         string
	Status         TableStatus
	CurrentOrderID *uuid.UUID
}

// Release frees the table. Releasing an available table is a no-op.
func (t *DiningTable) Release() {
	t.Status = TableStatusAvailable
	t.CurrentOrderID = nil
	t.UpdatedAt = time.Now()
}

// Occupy seats an order at the table
func (t *DiningTable) Occupy(orderID uuid.UUID) error {
	if t.Status == TableStatusOccupied && t.CurrentOrderID != nil && *t.CurrentOrderID != orderID {
		return shared.NewDomainError("TABLE_OCCUPIED", "Table is already occupied")
	}
	t.Status = TableStatusOccupied
	t.CurrentOrderID = &orderID
	t.UpdatedAt = time.Now()
	return nil
}
