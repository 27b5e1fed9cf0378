package ledger

import (
	"github.com/erp/settlement/internal/domain/shared"
)

// AccountRole is the purpose an account serves in a settlement posting
type AccountRole string

const (
	RoleSales     AccountRole = "SALES"
	RoleCOGS      AccountRole = "COGS"
	RoleInventory AccountRole = "INVENTORY"
	RoleTax       AccountRole = "TAX"
	RoleDiscount  AccountRole = "DISCOUNT"
	RoleCash      AccountRole = "CASH"
)

// IsValid checks if the role is known
func (r AccountRole) IsValid() bool {
	switch r {
	case RoleSales, RoleCOGS, RoleInventory, RoleTax, RoleDiscount, RoleCash:
		return true
	}
	return false
}

func (r AccountRole) String() string {
	return string(r)
}

// LedgerAccount is an entry of the chart of accounts
type LedgerAccount struct {
	shared.TenantEntity
	Code   string
	Name   string
	Active bool
}
