package inventory

import (
	"context"

	"github.com/google/uuid"
)

// StockRepository defines persistence for stock records
type StockRepository interface {
	// FindForUpdate loads and row-locks the stock of a component at a location.
	// Returns shared.ErrNotFound when no record exists.
	FindForUpdate(ctx context.Context, tenantID, componentItemID, locationID uuid.UUID) (*InventoryStock, error)

	// SaveWithLock writes the quantity with an optimistic version check
	SaveWithLock(ctx context.Context, stock *InventoryStock) error
}

// MovementRepository is the append-only movement log
type MovementRepository interface {
	// Append inserts movements. Existing movements are never updated.
	Append(ctx context.Context, movements ...*InventoryMovement) error

	// FindBySource returns all movements caused by a source document
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]InventoryMovement, error)
}

// RecipeRepository reads bills of materials
type RecipeRepository interface {
	// FindByItemIDs returns the recipes of the given items keyed by item ID.
	// Items without a recipe are absent from the map.
	FindByItemIDs(ctx context.Context, tenantID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]*Recipe, error)
}
