package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyInterest(t *testing.T) {
	tests := []struct {
		name    string
		balance string
		rate    string
		want    string
	}{
		{"whole percent", "1000", "24", "20"},
		{"rounds to cents", "1234.56", "19.99", "20.57"},
		{"half rounds up", "1", "6", "0.01"},
		{"zero rate", "5000", "0", "0"},
		{"zero balance", "0", "29.99", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MonthlyInterest(dec(tt.balance), dec(tt.rate))
			require.NoError(t, err)
			assertDecimal(t, tt.want, got)
		})
	}
}

func TestMonthlyInterest_RejectsNegativeInputs(t *testing.T) {
	_, err := MonthlyInterest(dec("-1"), dec("10"))
	assert.ErrorIs(t, err, ErrInvalidDebtParameters)

	_, err = MonthlyInterest(dec("100"), dec("-0.5"))
	assert.ErrorIs(t, err, ErrInvalidDebtParameters)
}
