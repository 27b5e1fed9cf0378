package models

import (
	"time"

	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryStockModel is the on-hand balance of one component at one location.
type InventoryStockModel struct {
	TenantModel
	ComponentItemID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_component_location,priority:1"`
	LocationID       uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_stock_component_location,priority:2"`
	QuantityOnHand   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderThreshold decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	StandardCost     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Version          int             `gorm:"not null;default:1"`
}

func (InventoryStockModel) TableName() string {
	return "inventory_stocks"
}

func (m *InventoryStockModel) ToDomain() *inventory.InventoryStock {
	return &inventory.InventoryStock{
		TenantEntity:     m.TenantModel.toDomain(),
		ComponentItemID:  m.ComponentItemID,
		LocationID:       m.LocationID,
		QuantityOnHand:   m.QuantityOnHand,
		ReorderThreshold: m.ReorderThreshold,
		StandardCost:     m.StandardCost,
		Version:          m.Version,
	}
}

func InventoryStockModelFromDomain(s *inventory.InventoryStock) *InventoryStockModel {
	m := &InventoryStockModel{
		ComponentItemID:  s.ComponentItemID,
		LocationID:       s.LocationID,
		QuantityOnHand:   s.QuantityOnHand,
		ReorderThreshold: s.ReorderThreshold,
		StandardCost:     s.StandardCost,
		Version:          s.Version,
	}
	m.TenantModel.fromDomain(s.TenantEntity)
	return m
}

// InventoryMovementModel is an append-only movement row. It has no UpdatedAt.
type InventoryMovementModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_source,priority:1"`
	StockID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	ComponentItemID uuid.UUID       `gorm:"type:uuid;not null"`
	LocationID      uuid.UUID       `gorm:"type:uuid;not null"`
	Delta           decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Reason          string          `gorm:"type:varchar(255)"`
	SourceType      string          `gorm:"type:varchar(30);not null;index:idx_movement_source,priority:2"`
	SourceID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_source,priority:3"`
	OrderLineID     *uuid.UUID      `gorm:"type:uuid"`
	CreatedAt       time.Time       `gorm:"not null"`
}

func (InventoryMovementModel) TableName() string {
	return "inventory_movements"
}

func (m *InventoryMovementModel) ToDomain() inventory.InventoryMovement {
	return inventory.InventoryMovement{
		ID:              m.ID,
		TenantID:        m.TenantID,
		StockID:         m.StockID,
		ComponentItemID: m.ComponentItemID,
		LocationID:      m.LocationID,
		Delta:           m.Delta,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		UnitCost:        m.UnitCost,
		Reason:          m.Reason,
		SourceType:      m.SourceType,
		SourceID:        m.SourceID,
		OrderLineID:     m.OrderLineID,
		CreatedAt:       m.CreatedAt,
	}
}

func InventoryMovementModelFromDomain(mv *inventory.InventoryMovement) *InventoryMovementModel {
	return &InventoryMovementModel{
		ID:              mv.ID,
		TenantID:        mv.TenantID,
		StockID:         mv.StockID,
		ComponentItemID: mv.ComponentItemID,
		LocationID:      mv.LocationID,
		Delta:           mv.Delta,
		BalanceBefore:   mv.BalanceBefore,
		BalanceAfter:    mv.BalanceAfter,
		UnitCost:        mv.UnitCost,
		Reason:          mv.Reason,
		SourceType:      mv.SourceType,
		SourceID:        mv.SourceID,
		OrderLineID:     mv.OrderLineID,
		CreatedAt:       mv.CreatedAt,
	}
}

// RecipeComponentModel is one row of a bill of materials. A recipe is the
// set of rows sharing an item_id.
type RecipeComponentModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_recipe_item,priority:1"`
	ItemID          uuid.UUID       `gorm:"type:uuid;not null;index:idx_recipe_item,priority:2"`
	ComponentItemID uuid.UUID       `gorm:"type:uuid;not null"`
	LocationID      uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityUsed    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (RecipeComponentModel) TableName() string {
	return "recipe_components"
}

func (m *RecipeComponentModel) ToDomain() inventory.RecipeComponent {
	return inventory.RecipeComponent{
		ComponentItemID: m.ComponentItemID,
		LocationID:      m.LocationID,
		QuantityUsed:    m.QuantityUsed,
	}
}

// RecipeComponentModelsFromDomain flattens a recipe into its component rows.
func RecipeComponentModelsFromDomain(tenantID uuid.UUID, r *inventory.Recipe) []RecipeComponentModel {
	rows := make([]RecipeComponentModel, len(r.Components))
	for i, c := range r.Components {
		rows[i] = RecipeComponentModel{
			ID:              uuid.New(),
			TenantID:        tenantID,
			ItemID:          r.ItemID,
			ComponentItemID: c.ComponentItemID,
			LocationID:      c.LocationID,
			QuantityUsed:    c.QuantityUsed,
		}
	}
	return rows
}
