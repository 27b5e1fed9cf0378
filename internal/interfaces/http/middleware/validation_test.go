package middleware

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payment struct {
	Method   string           `json:"paymentMethodId" binding:"required,uuid"`
	Tendered decimal.Decimal  `json:"amountTendered" binding:"gte=0"`
	Discount *decimal.Decimal `json:"discountAmount" binding:"omitempty,gte=0"`
	Reason   string           `json:"reason" binding:"max=5"`
}

func TestFieldErrors_UseJSONNamesAndDecimalRules(t *testing.T) {
	SetupValidator()
	negative := decimal.RequireFromString("-1.50")

	err := binding.Validator.ValidateStruct(&payment{
		Method:   "cash",
		Tendered: decimal.RequireFromString("-10"),
		Discount: &negative,
		Reason:   "too long",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	byField := map[string]string{}
	for _, fe := range FieldErrors(verrs) {
		byField[fe.Field] = fe.Message
	}
	assert.Equal(t, "Invalid UUID format", byField["paymentMethodId"])
	assert.Equal(t, "Must be greater than or equal to 0", byField["amountTendered"])
	assert.Equal(t, "Must be greater than or equal to 0", byField["discountAmount"])
	assert.Equal(t, "Must be at most 5 characters", byField["reason"])
}

func TestFieldErrors_AcceptsValidPayment(t *testing.T) {
	SetupValidator()
	err := binding.Validator.ValidateStruct(&payment{
		Method:   "6c1b2a0e-3f7d-4a55-8b1e-0d8f3c2a9e10",
		Tendered: decimal.RequireFromString("224.00"),
	})
	assert.NoError(t, err)
}
