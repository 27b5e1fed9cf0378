package settlement

import (
	"time"

	"github.com/erp/settlement/internal/domain/inventory"
	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/pos"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Requests ====================

// SettleRequest is the cashier's settlement input.
// DiscountID resolves the amount from the discount directory; DiscountAmount
// is only used when no DiscountID is given.
type SettleRequest struct {
	PaymentMethodID uuid.UUID        `json:"paymentMethodId" binding:"required"`
	AmountTendered  decimal.Decimal  `json:"amountTendered" binding:"gte=0"`
	DiscountID      *uuid.UUID       `json:"discountId"`
	DiscountAmount  *decimal.Decimal `json:"discountAmount" binding:"omitempty,gte=0"`
}

// CancelRequest cancels an unpaid order
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ==================== Responses ====================

// PostingResult describes the state of the ledger posting of an order
type PostingResult struct {
	Status                string     `json:"status"`
	Posted                bool       `json:"posted"`
	RequiresManualPosting bool       `json:"requiresManualPosting"`
	JournalEntryID        *uuid.UUID `json:"journalEntryId,omitempty"`
	DocumentNumber        string     `json:"documentNumber,omitempty"`
	UsedDefaults          []string   `json:"usedDefaultAccounts,omitempty"`
	Error                 string     `json:"error,omitempty"`
}

// StockWarningDTO is a non-blocking inventory anomaly raised by a settlement
type StockWarningDTO struct {
	Kind            string          `json:"kind"`
	ComponentItemID uuid.UUID       `json:"componentItemId"`
	LocationID      uuid.UUID       `json:"locationId"`
	QuantityOnHand  decimal.Decimal `json:"quantityOnHand"`
}

// SettlementResult is returned to the cashier after a successful settlement
type SettlementResult struct {
	PaymentID     uuid.UUID         `json:"paymentId"`
	OrderID       uuid.UUID         `json:"orderId"`
	OrderNumber   string            `json:"orderNumber"`
	Status        string            `json:"status"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Discount      decimal.Decimal   `json:"discount"`
	Tax           decimal.Decimal   `json:"tax"`
	TotalAmount   decimal.Decimal   `json:"totalAmount"`
	AmountPaid    decimal.Decimal   `json:"amountPaid"`
	Change        decimal.Decimal   `json:"change"`
	PaidAt        time.Time         `json:"paidAt"`
	Posting       PostingResult     `json:"posting"`
	StockWarnings []StockWarningDTO `json:"stockWarnings"`
}

// CancelResult is returned after an order is cancelled
type CancelResult struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	Status      string    `json:"status"`
	CancelledAt time.Time `json:"cancelledAt"`
	Reason      string    `json:"reason,omitempty"`
}

// JournalLineDTO is one line of a posted entry
type JournalLineDTO struct {
	LineNumber  int             `json:"lineNumber"`
	AccountID   uuid.UUID       `json:"accountId"`
	Role        string          `json:"role"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// AccountingSummary is the accounting view of one order
type AccountingSummary struct {
	OrderID               uuid.UUID        `json:"orderId"`
	OrderNumber           string           `json:"orderNumber"`
	Status                string           `json:"status"`
	Subtotal              decimal.Decimal  `json:"subtotal"`
	Discount              decimal.Decimal  `json:"discount"`
	Tax                   decimal.Decimal  `json:"tax"`
	TotalAmount           decimal.Decimal  `json:"totalAmount"`
	PaymentID             *uuid.UUID       `json:"paymentId,omitempty"`
	PaymentMethodID       *uuid.UUID       `json:"paymentMethodId,omitempty"`
	PaymentMethodName     string           `json:"paymentMethodName,omitempty"`
	PaidAt                *time.Time       `json:"paidAt,omitempty"`
	PostingStatus         string           `json:"postingStatus"`
	Posted                bool             `json:"posted"`
	PostedAt              *time.Time       `json:"postedAt,omitempty"`
	JournalEntryID        *uuid.UUID       `json:"journalEntryId,omitempty"`
	DocumentNumber        string           `json:"documentNumber,omitempty"`
	TotalDebit            decimal.Decimal  `json:"totalDebit"`
	TotalCredit           decimal.Decimal  `json:"totalCredit"`
	JournalLines          []JournalLineDTO `json:"journalLines"`
	LastError             string           `json:"lastError,omitempty"`
	RequiresManualPosting bool             `json:"requiresManualPosting"`
}

// ==================== Mapping helpers ====================

func postingResultFromOrder(o *pos.Order) PostingResult {
	return PostingResult{
		Status:                string(o.PostingStatus),
		Posted:                o.IsPosted(),
		RequiresManualPosting: o.Status == pos.OrderStatusPaid && o.PostingStatus.RequiresManualPosting(),
		JournalEntryID:        o.JournalEntryID,
		Error:                 o.PostingError,
	}
}

func postingResultFromEntry(o *pos.Order, entry *ledger.JournalEntry, usedDefaults []ledger.AccountRole) PostingResult {
	r := postingResultFromOrder(o)
	if entry != nil {
		id := entry.ID
		r.JournalEntryID = &id
		r.DocumentNumber = entry.DocumentNumber
	}
	for _, role := range usedDefaults {
		r.UsedDefaults = append(r.UsedDefaults, role.String())
	}
	return r
}

func toStockWarningDTOs(warnings []inventory.StockWarning) []StockWarningDTO {
	out := make([]StockWarningDTO, 0, len(warnings))
	for _, w := range warnings {
		out = append(out, StockWarningDTO{
			Kind:            string(w.Kind),
			ComponentItemID: w.ComponentItemID,
			LocationID:      w.LocationID,
			QuantityOnHand:  w.QuantityOnHand,
		})
	}
	return out
}

func toJournalLineDTOs(lines []ledger.JournalLine) []JournalLineDTO {
	out := make([]JournalLineDTO, 0, len(lines))
	for _, l := range lines {
		out = append(out, JournalLineDTO{
			LineNumber:  l.LineNumber,
			AccountID:   l.AccountID,
			Role:        l.Role.String(),
			Debit:       l.Debit,
			Credit:      l.Credit,
			Description: l.Description,
		})
	}
	return out
}
