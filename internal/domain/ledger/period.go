package ledger

import (
	"time"

	"github.com/google/uuid"
)

// PeriodStatus is the status of an accounting period
type PeriodStatus string

const (
	PeriodStatusOpen   PeriodStatus = "OPEN"
	PeriodStatusClosed PeriodStatus = "CLOSED"
)

// AccountingPeriod is a date range that accepts postings while OPEN.
// StartDate and EndDate are calendar dates, both inclusive.
type AccountingPeriod struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Code      string
	StartDate time.Time
	EndDate   time.Time
	Status    PeriodStatus
}

// Contains reports whether the calendar date of t lies within the period
func (p *AccountingPeriod) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(p.StartDate)) && !d.After(DateOf(p.EndDate))
}

// Accepts reports whether an entry dated t may be posted into the period
func (p *AccountingPeriod) Accepts(t time.Time) bool {
	return p.Status == PeriodStatusOpen && p.Contains(t)
}

// DateOf truncates t to midnight UTC of its calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
