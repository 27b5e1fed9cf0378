package ledger

import (
	"fmt"
	"sort"
	"strings"

	"github.com/erp/settlement/internal/domain/shared/money"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// SaleLine is a settled order line as the ledger sees it
type SaleLine struct {
	ItemID   uuid.UUID
	ItemName string
	// Total is the line amount before discount
	Total decimal.Decimal
	// Cost is the standard cost of the components consumed by the line
	Cost decimal.Decimal
}

// PostingInput is everything needed to build the entry for one settlement
type PostingInput struct {
	OrderNumber       string
	PaymentMethodID   uuid.UUID
	PaymentMethodName string
	Lines             []SaleLine
	Discount          decimal.Decimal
	Tax               decimal.Decimal
	AmountReceived    decimal.Decimal
}

// DraftLine is a grouped, unsaved journal line
type DraftLine struct {
	Role        AccountRole
	AccountID   uuid.UUID
	Resolution  ResolutionKind
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Description string
}

// EntryDraft is a balanced set of lines ready to become a JournalEntry
type EntryDraft struct {
	Lines       []DraftLine
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
}

// UsedDefaults returns the roles that fell back to a business-scope default
func (d *EntryDraft) UsedDefaults() []AccountRole {
	seen := map[AccountRole]bool{}
	var roles []AccountRole
	for _, l := range d.Lines {
		if l.Resolution == KindUsingDefault && !seen[l.Role] {
			seen[l.Role] = true
			roles = append(roles, l.Role)
		}
	}
	return roles
}

// roleOrder fixes the line order: debits first, then credits
var roleOrder = map[AccountRole]int{
	RoleCash:      0,
	RoleDiscount:  1,
	RoleCOGS:      2,
	RoleSales:     3,
	RoleTax:       4,
	RoleInventory: 5,
}

// EntryBuilder assembles the double-entry lines of a settlement:
//
//	Dr cash                 amount received
//	Dr discount             discount          (when a discount account resolves)
//	Cr sales                line totals, net of discount when no discount account resolves
//	Cr tax                  tax
//	Dr COGS / Cr inventory  component cost    (when both accounts resolve)
//
// Discount and tax are allocated to lines in proportion to their totals so
// item-level sales, discount and tax mappings are honored.
type EntryBuilder struct {
	resolver *AccountResolver
	title    cases.Caser
}

// NewEntryBuilder creates an EntryBuilder over a resolver
func NewEntryBuilder(resolver *AccountResolver) *EntryBuilder {
	return &EntryBuilder{resolver: resolver, title: cases.Title(language.English)}
}

type groupKey struct {
	role    AccountRole
	account uuid.UUID
	debit   bool
}

type draftAccumulator struct {
	order  []groupKey
	groups map[groupKey]*DraftLine
}

func (a *draftAccumulator) add(role AccountRole, res Resolution, debit bool, amount decimal.Decimal, description string) {
	if !amount.IsPositive() {
		return
	}
	id, _ := res.Account()
	key := groupKey{role: role, account: id, debit: debit}
	line, ok := a.groups[key]
	if !ok {
		line = &DraftLine{Role: role, AccountID: id, Resolution: res.Kind, Debit: decimal.Zero, Credit: decimal.Zero, Description: description}
		a.groups[key] = line
		a.order = append(a.order, key)
	}
	if debit {
		line.Debit = line.Debit.Add(amount)
	} else {
		line.Credit = line.Credit.Add(amount)
	}
}

// Build resolves accounts and produces a balanced draft. Missing required
// accounts (sales, cash, and tax when tax is positive) fail with
// ErrUnresolvedAccount; missing optional accounts drop their lines. An
// imbalance fails with ErrUnbalancedEntry.
func (b *EntryBuilder) Build(in PostingInput) (*EntryDraft, error) {
	acc := &draftAccumulator{groups: make(map[groupKey]*DraftLine)}
	var missing []string

	methodName := b.title.String(strings.ToLower(in.PaymentMethodName))
	cash := b.resolver.ResolvePaymentMethod(in.PaymentMethodID, RoleCash)
	if _, ok := cash.Account(); !ok {
		missing = append(missing, fmt.Sprintf("%s (%s)", RoleCash, methodName))
	}
	acc.add(RoleCash, cash, true, in.AmountReceived, fmt.Sprintf("%s received for order %s", methodName, in.OrderNumber))

	weights := make([]decimal.Decimal, len(in.Lines))
	for i, l := range in.Lines {
		weights[i] = l.Total
	}
	discounts := money.Allocate(in.Discount, weights)
	nets := make([]decimal.Decimal, len(in.Lines))
	for i, l := range in.Lines {
		nets[i] = l.Total.Sub(discounts[i])
	}
	taxes := money.Allocate(in.Tax, nets)

	for i, l := range in.Lines {
		sales := b.resolver.ResolveItem(l.ItemID, RoleSales)
		if _, ok := sales.Account(); !ok {
			missing = append(missing, fmt.Sprintf("%s (%s)", RoleSales, l.ItemName))
		}

		discount := b.resolver.ResolveItem(l.ItemID, RoleDiscount)
		if _, ok := discount.Account(); ok && discounts[i].IsPositive() {
			acc.add(RoleSales, sales, false, l.Total, "Sales revenue")
			acc.add(RoleDiscount, discount, true, discounts[i], "Sales discount")
		} else {
			acc.add(RoleSales, sales, false, nets[i], "Sales revenue")
		}

		if taxes[i].IsPositive() {
			tax := b.resolver.ResolveItem(l.ItemID, RoleTax)
			if _, ok := tax.Account(); !ok {
				missing = append(missing, fmt.Sprintf("%s (%s)", RoleTax, l.ItemName))
			}
			acc.add(RoleTax, tax, false, taxes[i], "Output tax")
		}

		if l.Cost.IsPositive() {
			cogs := b.resolver.ResolveItem(l.ItemID, RoleCOGS)
			inv := b.resolver.ResolveItem(l.ItemID, RoleInventory)
			_, cogsOK := cogs.Account()
			_, invOK := inv.Account()
			if cogsOK && invOK {
				cost := money.Round(l.Cost)
				acc.add(RoleCOGS, cogs, true, cost, "Cost of goods sold")
				acc.add(RoleInventory, inv, false, cost, "Inventory consumed")
			}
		}
	}

	if len(missing) > 0 {
		return nil, ErrUnresolvedAccount.WithMessage("No ledger account resolved for " + strings.Join(dedupe(missing), ", "))
	}

	sort.SliceStable(acc.order, func(i, j int) bool {
		return roleOrder[acc.order[i].role] < roleOrder[acc.order[j].role]
	})
	draft := &EntryDraft{Lines: make([]DraftLine, 0, len(acc.order)), TotalDebit: decimal.Zero, TotalCredit: decimal.Zero}
	for _, key := range acc.order {
		line := acc.groups[key]
		draft.Lines = append(draft.Lines, *line)
		draft.TotalDebit = draft.TotalDebit.Add(line.Debit)
		draft.TotalCredit = draft.TotalCredit.Add(line.Credit)
	}

	if !money.WithinTolerance(draft.TotalDebit, draft.TotalCredit) {
		return nil, ErrUnbalancedEntry.WithMessage(fmt.Sprintf("Order %s: debits %s do not equal credits %s", in.OrderNumber, draft.TotalDebit.StringFixed(money.Scale), draft.TotalCredit.StringFixed(money.Scale)))
	}
	return draft, nil
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, s := range items {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
