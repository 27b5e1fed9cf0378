package pos

import (
	"fmt"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/erp/settlement/internal/domain/shared/money"
	"github.com/shopspring/decimal"
)

// DiscountType determines how Value is interpreted
type DiscountType string

const (
	DiscountTypeFixed   DiscountType = "FIXED"
	DiscountTypePercent DiscountType = "PERCENT"
)

// Discount is a configured discount a cashier can select
type Discount struct {
	shared.TenantEntity
	Code   string
	Name   string
	Type   DiscountType
	Value  decimal.Decimal
	Active bool
}

// AmountFor returns the discount amount for a subtotal. Fixed discounts larger
// than the subtotal are capped at the subtotal.
func (d *Discount) AmountFor(subtotal decimal.Decimal) (decimal.Decimal, error) {
	if !d.Active {
		return decimal.Zero, ErrInvalidDiscount.WithMessage(fmt.Sprintf("Discount %s is inactive", d.Code))
	}
	var amount decimal.Decimal
	switch d.Type {
	case DiscountTypeFixed:
		amount = d.Value
	case DiscountTypePercent:
		amount = money.Round(subtotal.Mul(d.Value).Div(decimal.NewFromInt(100)))
	default:
		return decimal.Zero, ErrInvalidDiscount.WithMessage(fmt.Sprintf("Unknown discount type %s", d.Type))
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount, nil
}
