package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPaymentMethodRepository reads the payment-method directory.
type GormPaymentMethodRepository struct {
	db *gorm.DB
}

func NewGormPaymentMethodRepository(db *gorm.DB) *GormPaymentMethodRepository {
	return &GormPaymentMethodRepository{db: db}
}

func (r *GormPaymentMethodRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pos.PaymentMethod, error) {
	var m models.PaymentMethodModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pos.ErrInvalidPaymentMethod.WithMessage(fmt.Sprintf("Payment method %s not found", id))
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormPaymentMethodRepository) Create(ctx context.Context, pm *pos.PaymentMethod) error {
	return r.db.WithContext(ctx).Create(models.PaymentMethodModelFromDomain(pm)).Error
}

// GormTableRepository gives locked access to dining tables.
type GormTableRepository struct {
	db *gorm.DB
}

func NewGormTableRepository(db *gorm.DB) *GormTableRepository {
	return &GormTableRepository{db: db}
}

func (r *GormTableRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*pos.DiningTable, error) {
	var m models.DiningTableModel
	err := forUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pos.ErrTableNotFound.WithMessage(fmt.Sprintf("Table %s not found", id))
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormTableRepository) Save(ctx context.Context, t *pos.DiningTable) error {
	return r.db.WithContext(ctx).Save(models.DiningTableModelFromDomain(t)).Error
}

type GormDiscountRepository struct {
	db *gorm.DB
}

func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

func (r *GormDiscountRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pos.Discount, error) {
	var m models.DiscountModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pos.ErrInvalidDiscount.WithMessage(fmt.Sprintf("Discount %s not found", id))
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormDiscountRepository) Create(ctx context.Context, d *pos.Discount) error {
	return r.db.WithContext(ctx).Create(models.DiscountModelFromDomain(d)).Error
}

// GormConfigRepository reads and writes the per-tenant POS configuration.
type GormConfigRepository struct {
	db *gorm.DB
}

func NewGormConfigRepository(db *gorm.DB) *GormConfigRepository {
	return &GormConfigRepository{db: db}
}

func (r *GormConfigRepository) FindByTenant(ctx context.Context, tenantID uuid.UUID) (*pos.PosConfig, error) {
	var m models.PosConfigModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pos.DefaultPosConfig(tenantID), nil
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Upsert stores the configuration, replacing an existing row.
func (r *GormConfigRepository) Upsert(ctx context.Context, c *pos.PosConfig) error {
	m := models.PosConfigModelFromDomain(c)
	m.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "tenant_id"}},
			UpdateAll: true,
		}).
		Create(m).Error
}

var (
	_ pos.PaymentMethodRepository = (*GormPaymentMethodRepository)(nil)
	_ pos.TableRepository         = (*GormTableRepository)(nil)
	_ pos.DiscountRepository      = (*GormDiscountRepository)(nil)
	_ pos.ConfigRepository        = (*GormConfigRepository)(nil)
)
