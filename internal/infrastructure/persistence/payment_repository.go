package persistence

import (
	"context"
	"errors"

	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormPaymentRepository struct {
	db *gorm.DB
}

func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create relies on the unique order_id index to reject a second payment.
func (r *GormPaymentRepository) Create(ctx context.Context, payment *pos.Payment) error {
	err := r.db.WithContext(ctx).Create(models.PaymentModelFromDomain(payment)).Error
	if isDuplicateKey(err) {
		return pos.ErrAlreadySettled.WithMessage("A payment already exists for this order")
	}
	return err
}

func (r *GormPaymentRepository) FindByOrderID(ctx context.Context, tenantID, orderID uuid.UUID) (*pos.Payment, error) {
	var m models.PaymentModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND order_id = ?", tenantID, orderID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound.WithMessage("Payment not found for order")
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

var _ pos.PaymentRepository = (*GormPaymentRepository)(nil)
