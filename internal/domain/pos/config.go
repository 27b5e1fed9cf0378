package pos

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultTaxRate is the sales tax applied at settlement (12%)
var DefaultTaxRate = decimal.RequireFromString("0.12")

// PosConfig is the business-scope configuration read during settlement.
// The default accounts are the second tier of account resolution.
type PosConfig struct {
	TenantID                  uuid.UUID
	AutoPostToGL              bool
	TaxRate                   decimal.Decimal
	DefaultCashAccountID      *uuid.UUID
	DefaultSalesAccountID     *uuid.UUID
	DefaultTaxAccountID       *uuid.UUID
	DefaultDiscountAccountID  *uuid.UUID
	DefaultCOGSAccountID      *uuid.UUID
	DefaultInventoryAccountID *uuid.UUID
}

// DefaultPosConfig is used for a business scope without stored configuration
func DefaultPosConfig(tenantID uuid.UUID) *PosConfig {
	return &PosConfig{
		TenantID: tenantID,
		TaxRate:  DefaultTaxRate,
	}
}

// EffectiveTaxRate returns the configured rate, or DefaultTaxRate when the
// configuration is missing or invalid. A zero rate is a valid tax-exempt setup.
func (c *PosConfig) EffectiveTaxRate() decimal.Decimal {
	if c == nil || c.TaxRate.IsNegative() {
		return DefaultTaxRate
	}
	return c.TaxRate
}
