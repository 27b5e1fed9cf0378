package ledger

import (
	"fmt"
	"time"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/domain/shared/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceTypePOSOrder marks journal entries posted for a settled POS order
const SourceTypePOSOrder = "POS_ORDER"

// JournalLine is one side of a double-entry posting. Exactly one of Debit and
// Credit is positive; the other is zero.
type JournalLine struct {
	ID          uuid.UUID
	EntryID     uuid.UUID
	LineNumber  int
	AccountID   uuid.UUID
	Role        AccountRole
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// IsDebit reports whether the line is on the debit side
func (l JournalLine) IsDebit() bool {
	return l.Debit.IsPositive()
}

func (l JournalLine) validate() error {
	debit, credit := l.Debit.IsPositive(), l.Credit.IsPositive()
	if debit == credit || l.Debit.IsNegative() || l.Credit.IsNegative() {
		return ErrInvalidJournalLine.WithMessage(fmt.Sprintf("Line %d (%s) has debit %s and credit %s", l.LineNumber, l.Role, l.Debit, l.Credit))
	}
	if l.AccountID == uuid.Nil {
		return ErrInvalidJournalLine.WithMessage(fmt.Sprintf("Line %d (%s) has no account", l.LineNumber, l.Role))
	}
	return nil
}

// JournalEntry is a balanced set of journal lines. After creation only the
// posted flag and posting actor change.
type JournalEntry struct {
	shared.TenantAggregateRoot
	DocumentType   string
	DocumentNumber string
	DocumentDate   time.Time
	PostingDate    time.Time
	PeriodID       uuid.UUID
	Description    string
	SourceType     string
	SourceID       uuid.UUID
	TotalDebit     decimal.Decimal
	TotalCredit    decimal.Decimal
	Posted         bool
	PostedBy       *uuid.UUID
	PostedAt       *time.Time
	Lines          []JournalLine
}

// EntryHeader carries everything about an entry except its lines
type EntryHeader struct {
	DocumentNumber string
	DocumentDate   time.Time
	PostingDate    time.Time
	Period         *AccountingPeriod
	Description    string
	SourceType     string
	SourceID       uuid.UUID
}

// NewJournalEntry creates a journal entry from a draft. It fails without
// creating anything when a line is malformed, the entry does not balance
// within money.Tolerance, or the period does not accept the posting date.
func NewJournalEntry(tenantID uuid.UUID, header EntryHeader, draft *EntryDraft) (*JournalEntry, error) {
	if header.Period == nil || !header.Period.Accepts(header.PostingDate) {
		return nil, ErrNoOpenPeriod.WithMessage(fmt.Sprintf("No open accounting period for %s", header.PostingDate.Format(time.DateOnly)))
	}
	if header.DocumentNumber == "" {
		return nil, ErrNoNumberingSeries
	}
	if draft == nil || len(draft.Lines) == 0 {
		return nil, ErrInvalidJournalLine.WithMessage("Journal entry has no lines")
	}

	entry := &JournalEntry{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DocumentType:        DocumentTypeJournal,
		DocumentNumber:      header.DocumentNumber,
		DocumentDate:        header.DocumentDate,
		PostingDate:         header.PostingDate,
		PeriodID:            header.Period.ID,
		Description:         header.Description,
		SourceType:          header.SourceType,
		SourceID:            header.SourceID,
	}

	lines := make([]JournalLine, 0, len(draft.Lines))
	for i, dl := range draft.Lines {
		line := JournalLine{
			ID:          uuid.New(),
			EntryID:     entry.ID,
			LineNumber:  i + 1,
			AccountID:   dl.AccountID,
			Role:        dl.Role,
			Debit:       dl.Debit,
			Credit:      dl.Credit,
			Description: dl.Description,
		}
		if err := line.validate(); err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	entry.Lines = lines

	debit, credit, err := CheckBalance(lines)
	if err != nil {
		return nil, err
	}
	entry.TotalDebit = debit
	entry.TotalCredit = credit
	return entry, nil
}

// CheckBalance sums both sides and fails with ErrUnbalancedEntry when they
// differ by more than money.Tolerance
func CheckBalance(lines []JournalLine) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	if !money.WithinTolerance(debit, credit) {
		return debit, credit, ErrUnbalancedEntry.WithMessage(fmt.Sprintf("Debits %s do not equal credits %s", debit.StringFixed(money.Scale), credit.StringFixed(money.Scale)))
	}
	return debit, credit, nil
}

// IsBalanced reports whether Σdebit == Σcredit within money.Tolerance
func (e *JournalEntry) IsBalanced() bool {
	_, _, err := CheckBalance(e.Lines)
	return err == nil
}

// MarkPosted flags the entry as posted by actor
func (e *JournalEntry) MarkPosted(actorID *uuid.UUID, at time.Time) error {
	if e.Posted {
		return shared.NewDomainError("ALREADY_POSTED", fmt.Sprintf("Journal entry %s is already posted", e.DocumentNumber))
	}
	if !e.IsBalanced() {
		return ErrUnbalancedEntry
	}
	e.Posted = true
	e.PostedBy = actorID
	e.PostedAt = &at
	e.UpdatedAt = at

	e.AddDomainEvent(NewJournalEntryPostedEvent(e))
	return nil
}
