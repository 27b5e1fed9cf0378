package ledger

import (
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeJournalEntry = "JournalEntry"

// EventTypeJournalEntryPosted is raised when an entry is posted to the ledger
const EventTypeJournalEntryPosted = "ledger.journal_entry.posted"

// JournalEntryPostedEvent is raised when a journal entry is posted
type JournalEntryPostedEvent struct {
	shared.BaseDomainEvent
	EntryID        uuid.UUID       `json:"entry_id"`
	DocumentNumber string          `json:"document_number"`
	SourceType     string          `json:"source_type"`
	SourceID       uuid.UUID       `json:"source_id"`
	Amount         decimal.Decimal `json:"amount"`
}

// NewJournalEntryPostedEvent creates a new JournalEntryPostedEvent
func NewJournalEntryPostedEvent(e *JournalEntry) *JournalEntryPostedEvent {
	return &JournalEntryPostedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeJournalEntryPosted, AggregateTypeJournalEntry, e.ID, e.TenantID),
		EntryID:         e.ID,
		DocumentNumber:  e.DocumentNumber,
		SourceType:      e.SourceType,
		SourceID:        e.SourceID,
		Amount:          e.TotalDebit,
	}
}

// EventType returns the event type name
func (e *JournalEntryPostedEvent) EventType() string {
	return EventTypeJournalEntryPosted
}
