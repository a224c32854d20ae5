package dto

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator(t *testing.T) *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	require.NoError(t, registerDecimalValidators(v))
	return v
}

func TestDecimalTags(t *testing.T) {
	v := newValidator(t)
	tests := []struct {
		name    string
		req     any
		wantErr bool
	}{
		{"positive target", QuoteTargetRequest{Resource: "Diamond", Target: decimal.NewFromInt(5)}, false},
		{"zero target", QuoteTargetRequest{Resource: "Diamond", Target: decimal.Zero}, true},
		{"negative target", QuoteTargetRequest{Resource: "Diamond", Target: decimal.NewFromInt(-1)}, true},
		{"zero budget", QuoteBudgetRequest{Resource: "Diamond", Budget: decimal.Zero}, false},
		{"negative budget", QuoteBudgetRequest{Resource: "Diamond", Budget: decimal.NewFromInt(-1)}, true},
		{"zero rate", UpdateRateRequest{Rate: decimal.Zero}, true},
		{"fractional rate", UpdateRateRequest{Rate: decimal.RequireFromString("0.5")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBalanceMustBePresentAndNonNegative(t *testing.T) {
	v := newValidator(t)
	zero := decimal.Zero
	negative := decimal.NewFromInt(-3)

	assert.Error(t, v.Struct(SetBalanceRequest{}))
	assert.NoError(t, v.Struct(SetBalanceRequest{Balance: &zero}))
	assert.Error(t, v.Struct(SetBalanceRequest{Balance: &negative}))
}

func TestFloatPointerAllowsZero(t *testing.T) {
	v := newValidator(t)
	zero := int64(0)
	assert.NoError(t, v.Struct(SetFloatRequest{Float: &zero}))
	assert.Error(t, v.Struct(SetFloatRequest{}))
}
