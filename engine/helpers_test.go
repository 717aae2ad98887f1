package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"debt-planner/domain"
)

var testNow = time.Date(2026, time.January, 15, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func debt(id, balance, rate, minimum string) domain.Debt {
	return domain.Debt{
		ID:             id,
		Balance:        dec(balance),
		AnnualRate:     dec(rate),
		MinimumPayment: dec(minimum),
	}
}

// scenarioDebts is the two-debt example used across the property tests.
func scenarioDebts() []domain.Debt {
	return []domain.Debt{
		debt("D1", "1000", "24", "50"),
		debt("D2", "2000", "12", "80"),
	}
}

func month(s string) domain.Month {
	m, err := domain.ParseMonth(s)
	if err != nil {
		panic(err)
	}
	return m
}
