package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DocumentTypeJournal is the numbering series used for journal entries
const DocumentTypeJournal = "JE"

// NumberingSeries is a per-document-type counter. It must be read and
// advanced under a row lock in the transaction that uses the number.
type NumberingSeries struct {
	ID           uuid.UUID
	TenantID     uuid.UUID
	DocumentType string
	Prefix       string
	NextNumber   int64
	Padding      int
	UpdatedAt    time.Time
}

// Next returns the formatted current number and advances the counter
func (s *NumberingSeries) Next() string {
	n := s.NextNumber
	if n < 1 {
		n = 1
	}
	s.NextNumber = n + 1
	s.UpdatedAt = time.Now()
	if s.Padding > 0 {
		return fmt.Sprintf("%s%0*d", s.Prefix, s.Padding, n)
	}
	return fmt.Sprintf("%s%d", s.Prefix, n)
}
