package ledger

import (
	"testing"

	"github.com/erp/settlement/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntryBuilder_Build(t *testing.T) {
	c := newChart()
	itemID := uuid.New()
	methodID := uuid.New()

	t.Run("no discount balances cash against sales and tax", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(RoleCash, RoleSales, RoleTax), c.accounts())
		draft, err := NewEntryBuilder(resolver).Build(PostingInput{
			OrderNumber:       "POS-1",
			PaymentMethodID:   methodID,
			PaymentMethodName: "CASH",
			Lines:             []SaleLine{{ItemID: itemID, ItemName: "Burger", Total: dec("200")}},
			Tax:               dec("24"),
			AmountReceived:    dec("224"),
		})
		require.NoError(t, err)

		require.Len(t, draft.Lines, 3)
		assert.Equal(t, RoleCash, draft.Lines[0].Role)
		assert.True(t, dec("224").Equal(draft.Lines[0].Debit))
		assert.Equal(t, "Cash received for order POS-1", draft.Lines[0].Description)
		assert.True(t, dec("200").Equal(lineFor(draft, RoleSales).Credit))
		assert.True(t, dec("24").Equal(lineFor(draft, RoleTax).Credit))
		assert.True(t, dec("224").Equal(draft.TotalDebit))
		assert.True(t, draft.TotalDebit.Equal(draft.TotalCredit))
		assert.ElementsMatch(t, []AccountRole{RoleCash, RoleSales, RoleTax}, draft.UsedDefaults())
	})

	t.Run("discount nets against sales when no discount account resolves", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(RoleCash, RoleSales, RoleTax), c.accounts())
		draft, err := NewEntryBuilder(resolver).Build(PostingInput{
			OrderNumber:     "POS-2",
			PaymentMethodID: methodID,
			Lines:           []SaleLine{{ItemID: itemID, ItemName: "Burger", Total: dec("200")}},
			Discount:        dec("20"),
			Tax:             dec("21.6"),
			AmountReceived:  dec("201.6"),
		})
		require.NoError(t, err)

		assert.Nil(t, lineFor(draft, RoleDiscount))
		assert.True(t, dec("180").Equal(lineFor(draft, RoleSales).Credit))
		assert.True(t, dec("21.6").Equal(lineFor(draft, RoleTax).Credit))
		debit, credit := sumSides(t, draft)
		assert.True(t, debit.Equal(credit))
	})

	t.Run("discount posts through the contra account when it resolves", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(RoleCash, RoleSales, RoleTax, RoleDiscount), c.accounts())
		draft, err := NewEntryBuilder(resolver).Build(PostingInput{
			OrderNumber:     "POS-3",
			PaymentMethodID: methodID,
			Lines:           []SaleLine{{ItemID: itemID, ItemName: "Burger", Total: dec("200")}},
			Discount:        dec("20"),
			Tax:             dec("21.6"),
			AmountReceived:  dec("201.6"),
		})
		require.NoError(t, err)

		assert.True(t, dec("200").Equal(lineFor(draft, RoleSales).Credit))
		require.NotNil(t, lineFor(draft, RoleDiscount))
		assert.True(t, dec("20").Equal(lineFor(draft, RoleDiscount).Debit))
		assert.True(t, dec("221.6").Equal(draft.TotalDebit))
		assert.True(t, dec("221.6").Equal(draft.TotalCredit))
	})

	t.Run("COGS pair is added when both accounts resolve", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(), c.accounts())
		draft, err := NewEntryBuilder(resolver).Build(PostingInput{
			OrderNumber:     "POS-4",
			PaymentMethodID: methodID,
			Lines:           []SaleLine{{ItemID: itemID, ItemName: "Burger", Total: dec("200"), Cost: dec("61.255")}},
			Tax:             dec("24"),
			AmountReceived:  dec("224"),
		})
		require.NoError(t, err)

		assert.True(t, dec("61.26").Equal(lineFor(draft, RoleCOGS).Debit))
		assert.True(t, dec("61.26").Equal(lineFor(draft, RoleInventory).Credit))
		assert.True(t, draft.TotalDebit.Equal(draft.TotalCredit))
		assert.Equal(t, RoleCOGS, draft.Lines[1].Role)
		assert.Equal(t, RoleInventory, draft.Lines[len(draft.Lines)-1].Role)
	})

	t.Run("COGS pair is omitted when inventory account is missing", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(RoleCash, RoleSales, RoleTax, RoleCOGS), c.accounts())
		draft, err := NewEntryBuilder(resolver).Build(PostingInput{
			PaymentMethodID: methodID,
			Lines:           []SaleLine{{ItemID: itemID, ItemName: "Burger", Total: dec("200"), Cost: dec("50")}},
			Tax:             dec("24"),
			AmountReceived:  dec("224"),
		})
		require.NoError(t, err)
		assert.Nil(t, lineFor(draft, RoleCOGS))
		assert.Nil(t, lineFor(draft, RoleInventory))
	})

	t.Run("missing sales account is unresolved", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(RoleCash, RoleTax), c.accounts())
		_, err := NewEntryBuilder(resolver).Build(PostingInput{
			PaymentMethodID: methodID,
			Lines:           []SaleLine{{ItemID: itemID, ItemName: "Burger", Total: dec("200")}},
			Tax:             dec("24"),
			AmountReceived:  dec("224"),
		})
		assert.ErrorIs(t, err, ErrUnresolvedAccount)
		assert.Contains(t, err.Error(), "SALES (Burger)")
		assert.Equal(t, shared.CategoryConfiguration, shared.CategoryOf(err))
	})

	t.Run("missing cash account is unresolved", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(RoleSales, RoleTax), c.accounts())
		_, err := NewEntryBuilder(resolver).Build(PostingInput{
			PaymentMethodID:   methodID,
			PaymentMethodName: "e-wallet",
			Lines:             []SaleLine{{ItemID: itemID, ItemName: "Burger", Total: dec("200")}},
			Tax:               dec("24"),
			AmountReceived:    dec("224"),
		})
		assert.ErrorIs(t, err, ErrUnresolvedAccount)
		assert.Contains(t, err.Error(), "CASH")
	})

	t.Run("tax account is only required when tax is positive", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(RoleCash, RoleSales), c.accounts())
		draft, err := NewEntryBuilder(resolver).Build(PostingInput{
			PaymentMethodID: methodID,
			Lines:           []SaleLine{{ItemID: itemID, ItemName: "Water", Total: dec("50")}},
			Tax:             decimal.Zero,
			AmountReceived:  dec("50"),
		})
		require.NoError(t, err)
		assert.Nil(t, lineFor(draft, RoleTax))

		_, err = NewEntryBuilder(resolver).Build(PostingInput{
			PaymentMethodID: methodID,
			Lines:           []SaleLine{{ItemID: itemID, ItemName: "Water", Total: dec("50")}},
			Tax:             dec("6"),
			AmountReceived:  dec("56"),
		})
		assert.ErrorIs(t, err, ErrUnresolvedAccount)
	})

	t.Run("amount received that does not match totals is a consistency failure", func(t *testing.T) {
		resolver := NewAccountResolver(nil, c.defaults(), c.accounts())
		_, err := NewEntryBuilder(resolver).Build(PostingInput{
			PaymentMethodID: methodID,
			Lines:           []SaleLine{{ItemID: itemID, ItemName: "Burger", Total: dec("200")}},
			Tax:             dec("24"),
			AmountReceived:  dec("250"),
		})
		assert.ErrorIs(t, err, ErrUnbalancedEntry)
		assert.Equal(t, shared.CategoryConsistency, shared.CategoryOf(err))
	})

	t.Run("item mappings split sales across accounts and still balance", func(t *testing.T) {
		food := uuid.New()
		drink := uuid.New()
		mappings := []AccountMapping{
			{SubjectType: SubjectItem, SubjectID: food, Accounts: map[AccountRole]uuid.UUID{RoleSales: c.foodSales}},
			{SubjectType: SubjectPaymentMethod, SubjectID: methodID, Accounts: map[AccountRole]uuid.UUID{RoleCash: c.bank}},
		}
		resolver := NewAccountResolver(mappings, c.defaults(RoleCash, RoleSales, RoleTax), c.accounts())

		// subtotal 100 + 33.33 = 133.33, discount 10, tax 12% of 123.33 = 14.80
		draft, err := NewEntryBuilder(resolver).Build(PostingInput{
			PaymentMethodID: methodID,
			Lines: []SaleLine{
				{ItemID: food, ItemName: "Pasta", Total: dec("100")},
				{ItemID: drink, ItemName: "Juice", Total: dec("33.33")},
			},
			Discount:       dec("10"),
			Tax:            dec("14.80"),
			AmountReceived: dec("138.13"),
		})
		require.NoError(t, err)

		assert.Equal(t, c.bank, draft.Lines[0].AccountID)
		assert.Equal(t, KindResolved, draft.Lines[0].Resolution)
		var foodCredit, otherCredit decimal.Decimal
		for _, l := range draft.Lines {
			if l.Role != RoleSales {
				continue
			}
			if l.AccountID == c.foodSales {
				foodCredit = l.Credit
			} else {
				otherCredit = l.Credit
			}
		}
		assert.True(t, dec("123.33").Equal(foodCredit.Add(otherCredit)))
		assert.True(t, draft.TotalDebit.Equal(draft.TotalCredit))
	})
}

func TestEntryBuilder_BalanceProperty(t *testing.T) {
	c := newChart()
	resolver := NewAccountResolver(nil, c.defaults(), c.accounts())
	rate := dec("0.12")

	totals := [][]string{
		{"0.01"},
		{"10.99", "3.33", "7.77"},
		{"100", "250.5", "0.99", "12.34", "999.99"},
		{"1", "1", "1"},
	}
	discounts := []string{"0", "0.01", "3.33", "17.5"}

	for _, set := range totals {
		for _, dstr := range discounts {
			lines := make([]SaleLine, 0, len(set))
			subtotal := decimal.Zero
			for i, s := range set {
				lines = append(lines, SaleLine{ItemID: uuid.New(), ItemName: "item", Total: dec(s), Cost: dec(s).Mul(dec("0.3")).Add(decimal.NewFromInt(int64(i)))})
				subtotal = subtotal.Add(dec(s))
			}
			discount := dec(dstr)
			if discount.GreaterThan(subtotal) {
				continue
			}
			tax := subtotal.Sub(discount).Mul(rate).Round(2)
			draft, err := NewEntryBuilder(resolver).Build(PostingInput{
				PaymentMethodID: uuid.New(),
				Lines:           lines,
				Discount:        discount,
				Tax:             tax,
				AmountReceived:  subtotal.Sub(discount).Add(tax),
			})
			require.NoError(t, err)
			debit, credit := sumSides(t, draft)
			assert.True(t, debit.Sub(credit).Abs().LessThanOrEqual(dec("0.01")), "debit %s credit %s", debit, credit)
			for _, l := range draft.Lines {
				assert.NotEqual(t, l.Debit.IsPositive(), l.Credit.IsPositive(), "line must be exclusively debit or credit")
			}
		}
	}
}
