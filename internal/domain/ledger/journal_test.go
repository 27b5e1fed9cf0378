package ledger

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openPeriod(start, end time.Time) *AccountingPeriod {
	return &AccountingPeriod{ID: uuid.New(), Code: "2026-10", StartDate: start, EndDate: end, Status: PeriodStatusOpen}
}

func balancedDraft() *EntryDraft {
	return &EntryDraft{Lines: []DraftLine{
		{Role: RoleCash, AccountID: uuid.New(), Debit: dec("224"), Credit: decimal.Zero},
		{Role: RoleSales, AccountID: uuid.New(), Debit: decimal.Zero, Credit: dec("200")},
		{Role: RoleTax, AccountID: uuid.New(), Debit: decimal.Zero, Credit: dec("24")},
	}}
}

func TestNewJournalEntry(t *testing.T) {
	tenantID := uuid.New()
	postingDate := time.Date(2026, 10, 14, 18, 30, 0, 0, time.UTC)
	period := openPeriod(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC))
	header := EntryHeader{
		DocumentNumber: "JE-000001",
		DocumentDate:   postingDate,
		PostingDate:    postingDate,
		Period:         period,
		SourceType:     SourceTypePOSOrder,
		SourceID:       uuid.New(),
	}

	t.Run("creates balanced entry with numbered lines", func(t *testing.T) {
		entry, err := NewJournalEntry(tenantID, header, balancedDraft())
		require.NoError(t, err)

		assert.Equal(t, period.ID, entry.PeriodID)
		assert.Equal(t, DocumentTypeJournal, entry.DocumentType)
		assert.True(t, dec("224").Equal(entry.TotalDebit))
		assert.True(t, dec("224").Equal(entry.TotalCredit))
		assert.True(t, entry.IsBalanced())
		require.Len(t, entry.Lines, 3)
		assert.Equal(t, 3, entry.Lines[2].LineNumber)
		assert.Equal(t, entry.ID, entry.Lines[0].EntryID)
		assert.True(t, entry.Lines[0].IsDebit())
		assert.False(t, entry.Posted)
	})

	t.Run("closed period is rejected", func(t *testing.T) {
		closed := *period
		closed.Status = PeriodStatusClosed
		h := header
		h.Period = &closed
		_, err := NewJournalEntry(tenantID, h, balancedDraft())
		assert.ErrorIs(t, err, ErrNoOpenPeriod)
	})

	t.Run("posting date outside the period is rejected", func(t *testing.T) {
		h := header
		h.PostingDate = time.Date(2026, 11, 1, 0, 0, 1, 0, time.UTC)
		_, err := NewJournalEntry(tenantID, h, balancedDraft())
		assert.ErrorIs(t, err, ErrNoOpenPeriod)
	})

	t.Run("missing period is rejected", func(t *testing.T) {
		h := header
		h.Period = nil
		_, err := NewJournalEntry(tenantID, h, balancedDraft())
		assert.ErrorIs(t, err, ErrNoOpenPeriod)
	})

	t.Run("unbalanced lines are rejected", func(t *testing.T) {
		draft := balancedDraft()
		draft.Lines[2].Credit = dec("23.98")
		_, err := NewJournalEntry(tenantID, header, draft)
		assert.ErrorIs(t, err, ErrUnbalancedEntry)
	})

	t.Run("one cent difference is within tolerance", func(t *testing.T) {
		draft := balancedDraft()
		draft.Lines[2].Credit = dec("23.99")
		_, err := NewJournalEntry(tenantID, header, draft)
		assert.NoError(t, err)
	})

	t.Run("line with both debit and credit is rejected", func(t *testing.T) {
		draft := balancedDraft()
		draft.Lines[1].Debit = dec("1")
		_, err := NewJournalEntry(tenantID, header, draft)
		assert.ErrorIs(t, err, ErrInvalidJournalLine)
	})

	t.Run("line with neither side is rejected", func(t *testing.T) {
		draft := balancedDraft()
		draft.Lines = append(draft.Lines, DraftLine{Role: RoleCOGS, AccountID: uuid.New(), Debit: decimal.Zero, Credit: decimal.Zero})
		_, err := NewJournalEntry(tenantID, header, draft)
		assert.ErrorIs(t, err, ErrInvalidJournalLine)
	})
}

func TestJournalEntry_MarkPosted(t *testing.T) {
	postingDate := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	entry, err := NewJournalEntry(uuid.New(), EntryHeader{
		DocumentNumber: "JE-1",
		PostingDate:    postingDate,
		Period:         openPeriod(postingDate, postingDate),
	}, balancedDraft())
	require.NoError(t, err)
	actor := uuid.New()

	require.NoError(t, entry.MarkPosted(&actor, postingDate))
	assert.True(t, entry.Posted)
	assert.Equal(t, actor, *entry.PostedBy)
	require.Len(t, entry.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeJournalEntryPosted, entry.GetDomainEvents()[0].EventType())

	assert.Error(t, entry.MarkPosted(&actor, postingDate))
}

func TestAccountingPeriod_Contains(t *testing.T) {
	p := openPeriod(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC))
	assert.True(t, p.Contains(time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, p.Contains(time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2026, 9, 30, 23, 59, 59, 0, time.UTC)))
	assert.True(t, p.Accepts(time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)))
}

func TestNumberingSeries_Next(t *testing.T) {
	s := &NumberingSeries{DocumentType: DocumentTypeJournal, Prefix: "JE-", NextNumber: 41, Padding: 6}
	assert.Equal(t, "JE-000041", s.Next())
	assert.Equal(t, "JE-000042", s.Next())
	assert.Equal(t, int64(43), s.NextNumber)

	unpadded := &NumberingSeries{Prefix: "J"}
	assert.Equal(t, "J1", unpadded.Next())
	assert.Equal(t, int64(2), unpadded.NextNumber)
}
