package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockRepository implements inventory.StockRepository.
type GormStockRepository struct {
	db *gorm.DB
}

func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func (r *GormStockRepository) FindForUpdate(ctx context.Context, tenantID, componentItemID, locationID uuid.UUID) (*inventory.InventoryStock, error) {
	var m models.InventoryStockModel
	err := forUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND component_item_id = ? AND location_id = ?", tenantID, componentItemID, locationID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// SaveWithLock writes the balance if nobody bumped the version since the read.
func (r *GormStockRepository) SaveWithLock(ctx context.Context, stock *inventory.InventoryStock) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.InventoryStockModel{}).
		Where("id = ? AND version = ?", stock.ID, stock.Version).
		Updates(map[string]any{
			"quantity_on_hand": stock.QuantityOnHand,
			"version":          stock.Version + 1,
			"updated_at":       now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage(fmt.Sprintf("Stock %s was modified by another transaction", stock.ID))
	}
	stock.Version++
	stock.UpdatedAt = now
	return nil
}

func (r *GormStockRepository) Create(ctx context.Context, stock *inventory.InventoryStock) error {
	return r.db.WithContext(ctx).Create(models.InventoryStockModelFromDomain(stock)).Error
}

// FindByComponent reads a stock record without locking it.
func (r *GormStockRepository) FindByComponent(ctx context.Context, tenantID, componentItemID, locationID uuid.UUID) (*inventory.InventoryStock, error) {
	var m models.InventoryStockModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND component_item_id = ? AND location_id = ?", tenantID, componentItemID, locationID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// GormMovementRepository is the append-only movement log.
type GormMovementRepository struct {
	db *gorm.DB
}

func NewGormMovementRepository(db *gorm.DB) *GormMovementRepository {
	return &GormMovementRepository{db: db}
}

func (r *GormMovementRepository) Append(ctx context.Context, movements ...*inventory.InventoryMovement) error {
	if len(movements) == 0 {
		return nil
	}
	rows := make([]*models.InventoryMovementModel, len(movements))
	for i, mv := range movements {
		rows[i] = models.InventoryMovementModelFromDomain(mv)
	}
	return r.db.WithContext(ctx).Create(rows).Error
}

func (r *GormMovementRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) ([]inventory.InventoryMovement, error) {
	var rows []models.InventoryMovementModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, sourceType, sourceID).
		Order("created_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]inventory.InventoryMovement, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

// GormRecipeRepository reads recipes from recipe_components.
type GormRecipeRepository struct {
	db *gorm.DB
}

func NewGormRecipeRepository(db *gorm.DB) *GormRecipeRepository {
	return &GormRecipeRepository{db: db}
}

func (r *GormRecipeRepository) FindByItemIDs(ctx context.Context, tenantID uuid.UUID, itemIDs []uuid.UUID) (map[uuid.UUID]*inventory.Recipe, error) {
	recipes := make(map[uuid.UUID]*inventory.Recipe)
	if len(itemIDs) == 0 {
		return recipes, nil
	}

	var rows []models.RecipeComponentModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND item_id IN ?", tenantID, itemIDs).
		Order("item_id, id").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rec, ok := recipes[rows[i].ItemID]
		if !ok {
			rec = &inventory.Recipe{ItemID: rows[i].ItemID}
			recipes[rows[i].ItemID] = rec
		}
		rec.Components = append(rec.Components, rows[i].ToDomain())
	}
	return recipes, nil
}

// Save replaces the components of a recipe.
func (r *GormRecipeRepository) Save(ctx context.Context, tenantID uuid.UUID, recipe *inventory.Recipe) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND item_id = ?", tenantID, recipe.ItemID).
			Delete(&models.RecipeComponentModel{}).Error; err != nil {
			return err
		}
		rows := models.RecipeComponentModelsFromDomain(tenantID, recipe)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

var (
	_ inventory.StockRepository    = (*GormStockRepository)(nil)
	_ inventory.MovementRepository = (*GormMovementRepository)(nil)
	_ inventory.RecipeRepository   = (*GormRecipeRepository)(nil)
)
