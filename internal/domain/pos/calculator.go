package pos

import (
	"fmt"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/domain/shared/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LineTotal is the extended amount of one order line
type LineTotal struct {
	LineID uuid.UUID
	ItemID uuid.UUID
	Total  decimal.Decimal
}

// Settlement holds the totals derived for an order at payment time
type Settlement struct {
	Lines          []LineTotal
	Subtotal       decimal.Decimal
	Discount       decimal.Decimal
	TaxableAmount  decimal.Decimal
	TaxRate        decimal.Decimal
	Tax            decimal.Decimal
	GrandTotal     decimal.Decimal
	AmountTendered decimal.Decimal
	Change         decimal.Decimal
}

// SettlementCalculator computes subtotal, discount, tax, grand total and change.
// It has no side effects.
type SettlementCalculator struct {
	taxRate decimal.Decimal
}

// NewSettlementCalculator creates a calculator for the given tax rate
func NewSettlementCalculator(taxRate decimal.Decimal) *SettlementCalculator {
	return &SettlementCalculator{taxRate: taxRate}
}

// Subtotal returns Σ line totals
func (c *SettlementCalculator) Subtotal(lines []OrderLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total())
	}
	return subtotal
}

// Calculate derives the settlement totals:
//
//	subtotal   = Σ (priceAtSale + Σ modifierDelta) × quantity
//	taxable    = subtotal − discount
//	tax        = taxable × rate, rounded to the currency scale
//	grandTotal = taxable + tax
//	change     = tendered − grandTotal
//
// It fails with ErrInsufficientPayment when change is negative. The comparison
// is exact. Discount and tendered amounts finer than the currency scale are
// rejected.
func (c *SettlementCalculator) Calculate(lines []OrderLine, discount, tendered decimal.Decimal) (*Settlement, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}
	if tendered.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount tendered cannot be negative")
	}
	if !money.FitsScale(tendered) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", fmt.Sprintf("Amount tendered %s has more than %d decimal places", tendered.String(), money.Scale))
	}
	if !money.FitsScale(discount) {
		return nil, ErrInvalidDiscount.WithMessage(fmt.Sprintf("Discount %s has more than %d decimal places", discount.String(), money.Scale))
	}

	totals := make([]LineTotal, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		t := l.Total()
		totals = append(totals, LineTotal{LineID: l.ID, ItemID: l.ItemID, Total: t})
		subtotal = subtotal.Add(t)
	}

	if discount.IsNegative() || discount.GreaterThan(subtotal) {
		return nil, ErrInvalidDiscount.WithMessage(fmt.Sprintf("Discount %s must be between 0 and the subtotal %s", discount.StringFixed(money.Scale), subtotal.StringFixed(money.Scale)))
	}

	taxable := subtotal.Sub(discount)
	tax := money.Round(taxable.Mul(c.taxRate))
	grandTotal := taxable.Add(tax)
	change := tendered.Sub(grandTotal)

	if change.IsNegative() {
		return nil, ErrInsufficientPayment.WithMessage(fmt.Sprintf("Amount tendered %s is less than the total %s", tendered.StringFixed(money.Scale), grandTotal.StringFixed(money.Scale)))
	}

	return &Settlement{
		Lines:          totals,
		Subtotal:       subtotal,
		Discount:       discount,
		TaxableAmount:  taxable,
		TaxRate:        c.taxRate,
		Tax:            tax,
		GrandTotal:     grandTotal,
		AmountTendered: tendered,
		Change:         change,
	}, nil
}
