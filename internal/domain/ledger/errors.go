package ledger

import "github.com/erp/settlement/internal/domain/shared"

// Configuration errors block posting until an administrator fixes master data.
var (
	ErrUnresolvedAccount = shared.NewConfigurationError("UNRESOLVED_ACCOUNT", "A required ledger account could not be resolved")
	ErrNoOpenPeriod      = shared.NewConfigurationError("NO_OPEN_PERIOD", "No open accounting period covers the posting date")
	ErrNoNumberingSeries = shared.NewConfigurationError("NO_NUMBERING_SERIES", "No numbering series is configured for the document type")
)

// Consistency errors mean the entry builder produced something impossible.
var (
	ErrUnbalancedEntry    = shared.NewConsistencyError("UNBALANCED_ENTRY", "Journal entry debits and credits do not balance")
	ErrInvalidJournalLine = shared.NewConsistencyError("INVALID_JOURNAL_LINE", "Journal line must carry exactly one positive debit or credit")
)
