package settlement

import (
	"context"
	"errors"

	"github.com/erp/settlement/internal/domain/ledger"
	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SummaryService answers the accounting view of an order
type SummaryService struct {
	txScope TransactionScope
}

// NewSummaryService creates a SummaryService
func NewSummaryService(txScope TransactionScope) *SummaryService {
	return &SummaryService{txScope: txScope}
}

// AccountingSummary returns the order totals, its payment and its journal
// entry, if any
func (s *SummaryService) AccountingSummary(ctx context.Context, tenantID, orderID uuid.UUID) (*AccountingSummary, error) {
	var summary *AccountingSummary
	err := s.txScope.Execute(ctx, func(repos Repositories) error {
		order, err := repos.Orders().FindByID(ctx, tenantID, orderID)
		if err != nil {
			return err
		}
		posting := postingResultFromOrder(order)
		summary = &AccountingSummary{
			OrderID:               order.ID,
			OrderNumber:           order.OrderNumber,
			Status:                string(order.Status),
			Subtotal:              order.Subtotal,
			Discount:              order.DiscountAmount,
			Tax:                   order.TaxAmount,
			TotalAmount:           order.GrandTotal,
			PaidAt:                order.PaidAt,
			PostingStatus:         posting.Status,
			Posted:                posting.Posted,
			PostedAt:              order.PostedAt,
			JournalEntryID:        order.JournalEntryID,
			TotalDebit:            decimal.Zero,
			TotalCredit:           decimal.Zero,
			JournalLines:          []JournalLineDTO{},
			LastError:             order.PostingError,
			RequiresManualPosting: posting.RequiresManualPosting,
		}

		payment, err := repos.Payments().FindByOrderID(ctx, tenantID, order.ID)
		switch {
		case err == nil:
			summary.PaymentID = &payment.ID
			summary.PaymentMethodID = &payment.PaymentMethodID
			if method, err := repos.PaymentMethods().FindByID(ctx, tenantID, payment.PaymentMethodID); err == nil {
				summary.PaymentMethodName = method.Name
			}
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}

		entry, err := repos.Journals().FindBySource(ctx, tenantID, ledger.SourceTypePOSOrder, order.ID)
		switch {
		case err == nil:
			summary.JournalEntryID = &entry.ID
			summary.DocumentNumber = entry.DocumentNumber
			summary.TotalDebit = entry.TotalDebit
			summary.TotalCredit = entry.TotalCredit
			summary.JournalLines = toJournalLineDTOs(entry.Lines)
		case !errors.Is(err, shared.ErrNotFound):
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summary, nil
}
