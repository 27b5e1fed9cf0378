package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/pos"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOrderRepository implements pos.OrderRepository.
type GormOrderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func (r *GormOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*pos.Order, error) {
	return r.find(ctx, r.db.WithContext(ctx), tenantID, id)
}

// FindByIDForUpdate locks the order header; lines are read after the lock is held.
func (r *GormOrderRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*pos.Order, error) {
	return r.find(ctx, forUpdate(r.db.WithContext(ctx)), tenantID, id)
}

func (r *GormOrderRepository) find(ctx context.Context, q *gorm.DB, tenantID, id uuid.UUID) (*pos.Order, error) {
	var m models.OrderModel
	if err := q.Where("tenant_id = ? AND id = ?", tenantID, id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pos.ErrOrderNotFound
		}
		return nil, err
	}
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", m.ID).
		Order("position ASC").
		Find(&m.Lines).Error; err != nil {
		return nil, fmt.Errorf("load order lines: %w", err)
	}
	return m.ToDomain(), nil
}

// Create inserts a new order with its lines. Orders are entered by the
// order-taking flow; settlement only updates them.
func (r *GormOrderRepository) Create(ctx context.Context, order *pos.Order) error {
	return r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order)).Error
}

// Save writes the header fields settlement and posting change. The update
// only applies when the stored version matches; lines are immutable here.
func (r *GormOrderRepository) Save(ctx context.Context, order *pos.Order) error {
	now := time.Now()
	result := r.db.WithContext(ctx).
		Model(&models.OrderModel{}).
		Where("tenant_id = ? AND id = ? AND version = ?", order.TenantID, order.ID, order.Version).
		Updates(map[string]any{
			"status":           order.Status,
			"subtotal":         order.Subtotal,
			"discount_amount":  order.DiscountAmount,
			"tax_amount":       order.TaxAmount,
			"grand_total":      order.GrandTotal,
			"payment_received": order.PaymentReceived,
			"paid_at":          order.PaidAt,
			"cancelled_at":     order.CancelledAt,
			"cancel_reason":    order.CancelReason,
			"posting_status":   order.PostingStatus,
			"journal_entry_id": order.JournalEntryID,
			"posting_error":    order.PostingError,
			"posted_at":        order.PostedAt,
			"version":          order.Version + 1,
			"updated_at":       now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict.WithMessage(fmt.Sprintf("Order %s was modified by another transaction", order.OrderNumber))
	}
	order.Version++
	order.UpdatedAt = now
	return nil
}

var _ pos.OrderRepository = (*GormOrderRepository)(nil)
