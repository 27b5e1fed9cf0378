package ledger

import (
	"testing"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type chart struct {
	tenantID  uuid.UUID
	cash      uuid.UUID
	bank      uuid.UUID
	sales     uuid.UUID
	foodSales uuid.UUID
	tax       uuid.UUID
	discount  uuid.UUID
	cogs      uuid.UUID
	inventory uuid.UUID
	inactive  uuid.UUID
}

func newChart() chart {
	return chart{
		tenantID:  uuid.New(),
		cash:      uuid.New(),
		bank:      uuid.New(),
		sales:     uuid.New(),
		foodSales: uuid.New(),
		tax:       uuid.New(),
		discount:  uuid.New(),
		cogs:      uuid.New(),
		inventory: uuid.New(),
		inactive:  uuid.New(),
	}
}

func (c chart) accounts() []LedgerAccount {
	mk := func(id uuid.UUID, code string, active bool) LedgerAccount {
		return LedgerAccount{TenantEntity: shared.TenantEntity{BaseEntity: shared.BaseEntity{ID: id}, TenantID: c.tenantID}, Code: code, Name: code, Active: active}
	}
	return []LedgerAccount{
		mk(c.cash, "1000", true),
		mk(c.bank, "1010", true),
		mk(c.inventory, "1200", true),
		mk(c.tax, "2100", true),
		mk(c.sales, "4000", true),
		mk(c.foodSales, "4010", true),
		mk(c.discount, "4900", true),
		mk(c.cogs, "5000", true),
		mk(c.inactive, "9999", false),
	}
}

func (c chart) defaults(roles ...AccountRole) Defaults {
	all := Defaults{
		RoleCash:      c.cash,
		RoleSales:     c.sales,
		RoleTax:       c.tax,
		RoleDiscount:  c.discount,
		RoleCOGS:      c.cogs,
		RoleInventory: c.inventory,
	}
	if len(roles) == 0 {
		return all
	}
	out := Defaults{}
	for _, r := range roles {
		out[r] = all[r]
	}
	return out
}

func sumSides(t *testing.T, d *EntryDraft) (decimal.Decimal, decimal.Decimal) {
	t.Helper()
	debit, credit := decimal.Zero, decimal.Zero
	for _, l := range d.Lines {
		debit = debit.Add(l.Debit)
		credit = credit.Add(l.Credit)
	}
	return debit, credit
}

func lineFor(d *EntryDraft, role AccountRole) *DraftLine {
	for i := range d.Lines {
		if d.Lines[i].Role == role {
			return &d.Lines[i]
		}
	}
	return nil
}
