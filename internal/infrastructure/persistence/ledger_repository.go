package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GormAccountRepository struct {
	db *gorm.DB
}

func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]ledger.LedgerAccount, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.LedgerAccountModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]ledger.LedgerAccount, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *GormAccountRepository) Create(ctx context.Context, a *ledger.LedgerAccount) error {
	return r.db.WithContext(ctx).Create(models.LedgerAccountModelFromDomain(a)).Error
}

type GormMappingRepository struct {
	db *gorm.DB
}

func NewGormMappingRepository(db *gorm.DB) *GormMappingRepository {
	return &GormMappingRepository{db: db}
}

// FindForSubjects loads item and payment-method mappings in one query.
func (r *GormMappingRepository) FindForSubjects(ctx context.Context, tenantID uuid.UUID, itemIDs []uuid.UUID, paymentMethodID uuid.UUID) ([]ledger.AccountMapping, error) {
	q := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if len(itemIDs) > 0 {
		q = q.Where(
			r.db.Where("subject_type = ? AND subject_id IN ?", ledger.SubjectItem, itemIDs).
				Or("subject_type = ? AND subject_id = ?", ledger.SubjectPaymentMethod, paymentMethodID),
		)
	} else {
		q = q.Where("subject_type = ? AND subject_id = ?", ledger.SubjectPaymentMethod, paymentMethodID)
	}

	var rows []models.AccountMappingModel
	if err := q.Order("subject_type, subject_id, role").Find(&rows).Error; err != nil {
		return nil, err
	}
	return models.GroupAccountMappings(rows), nil
}

// Save replaces every role row of the mapping's subject.
func (r *GormMappingRepository) Save(ctx context.Context, m *ledger.AccountMapping) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND subject_type = ? AND subject_id = ?", m.TenantID, m.SubjectType, m.SubjectID).
			Delete(&models.AccountMappingModel{}).Error; err != nil {
			return err
		}
		rows := models.AccountMappingModelsFromDomain(m)
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

type GormPeriodRepository struct {
	db *gorm.DB
}

func NewGormPeriodRepository(db *gorm.DB) *GormPeriodRepository {
	return &GormPeriodRepository{db: db}
}

func (r *GormPeriodRepository) FindOpenByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (*ledger.AccountingPeriod, error) {
	day := ledger.DateOf(date)
	var m models.AccountingPeriodModel
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND status = ? AND start_date <= ? AND end_date >= ?", tenantID, ledger.PeriodStatusOpen, day, day).
		Order("start_date DESC").
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormPeriodRepository) Create(ctx context.Context, p *ledger.AccountingPeriod) error {
	return r.db.WithContext(ctx).Create(models.AccountingPeriodModelFromDomain(p)).Error
}

// GormNumberingSeriesRepository serializes document numbering through a row lock.
type GormNumberingSeriesRepository struct {
	db *gorm.DB
}

func NewGormNumberingSeriesRepository(db *gorm.DB) *GormNumberingSeriesRepository {
	return &GormNumberingSeriesRepository{db: db}
}

func (r *GormNumberingSeriesRepository) FindForUpdate(ctx context.Context, tenantID uuid.UUID, documentType string) (*ledger.NumberingSeries, error) {
	var m models.NumberingSeriesModel
	err := forUpdate(r.db.WithContext(ctx)).
		Where("tenant_id = ? AND document_type = ?", tenantID, documentType).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

func (r *GormNumberingSeriesRepository) Save(ctx context.Context, s *ledger.NumberingSeries) error {
	return r.db.WithContext(ctx).
		Model(&models.NumberingSeriesModel{}).
		Where("id = ?", s.ID).
		Updates(map[string]any{
			"next_number": s.NextNumber,
			"updated_at":  s.UpdatedAt,
		}).Error
}

func (r *GormNumberingSeriesRepository) Create(ctx context.Context, s *ledger.NumberingSeries) error {
	return r.db.WithContext(ctx).Create(models.NumberingSeriesModelFromDomain(s)).Error
}

// GormJournalEntryRepository persists journal entries with their lines.
type GormJournalEntryRepository struct {
	db *gorm.DB
}

func NewGormJournalEntryRepository(db *gorm.DB) *GormJournalEntryRepository {
	return &GormJournalEntryRepository{db: db}
}

func (r *GormJournalEntryRepository) Create(ctx context.Context, entry *ledger.JournalEntry) error {
	err := r.db.WithContext(ctx).Create(models.JournalEntryModelFromDomain(entry)).Error
	if isDuplicateKey(err) {
		return shared.ErrAlreadyExists.WithMessage(fmt.Sprintf("A journal entry already exists for %s %s", entry.SourceType, entry.SourceID))
	}
	return err
}

func (r *GormJournalEntryRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) (*ledger.JournalEntry, error) {
	var m models.JournalEntryModel
	err := r.db.WithContext(ctx).
		Preload("Lines", func(db *gorm.DB) *gorm.DB { return db.Order("line_number ASC") }).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, sourceType, sourceID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

var (
	_ ledger.AccountRepository         = (*GormAccountRepository)(nil)
	_ ledger.MappingRepository         = (*GormMappingRepository)(nil)
	_ ledger.PeriodRepository          = (*GormPeriodRepository)(nil)
	_ ledger.NumberingSeriesRepository = (*GormNumberingSeriesRepository)(nil)
	_ ledger.JournalEntryRepository    = (*GormJournalEntryRepository)(nil)
)
