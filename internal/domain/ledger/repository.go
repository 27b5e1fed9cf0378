package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountRepository reads the chart of accounts
type AccountRepository interface {
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]LedgerAccount, error)
}

// MappingRepository reads account mappings
type MappingRepository interface {
	// FindForSubjects returns the mappings of the given items and payment method
	FindForSubjects(ctx context.Context, tenantID uuid.UUID, itemIDs []uuid.UUID, paymentMethodID uuid.UUID) ([]AccountMapping, error)
}

// PeriodRepository looks up accounting periods
type PeriodRepository interface {
	// FindOpenByDate returns the OPEN period containing date, or shared.ErrNotFound
	FindOpenByDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (*AccountingPeriod, error)
}

// NumberingSeriesRepository gives serialized access to the document counters
type NumberingSeriesRepository interface {
	// FindForUpdate loads and row-locks the series of a document type, or
	// returns shared.ErrNotFound
	FindForUpdate(ctx context.Context, tenantID uuid.UUID, documentType string) (*NumberingSeries, error)
	Save(ctx context.Context, series *NumberingSeries) error
}

// JournalEntryRepository persists journal entries
type JournalEntryRepository interface {
	// Create inserts the entry with its lines. A second entry for the same
	// source violates a unique constraint.
	Create(ctx context.Context, entry *JournalEntry) error

	// FindBySource returns the entry posted for a source document, or shared.ErrNotFound
	FindBySource(ctx context.Context, tenantID uuid.UUID, sourceType string, sourceID uuid.UUID) (*JournalEntry, error)
}
