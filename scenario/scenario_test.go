package scenario

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-planner/domain"
)

const jsonScenario = `{
	"debts": [
		{"id": "card", "name": "Visa", "balance": "1000", "annual_rate": "24", "minimum_payment": "50"},
		{"id": "car", "balance": 2000, "annual_rate": 12, "minimum_payment": 80}
	],
	"budget": "200",
	"strategy": {"kind": "custom", "order": ["car"]},
	"fundings": [{"amount": "500", "effective_month": "2026-06", "note": "bonus"}],
	"start": "2026-01"
}`

const yamlScenario = `
debts:
  - id: card
    name: Visa
    balance: 1000
    annual_rate: 24
    minimum_payment: 50
  - id: car
    balance: 2000
    annual_rate: 12
    minimum_payment: 80
budget: 200
strategy:
  kind: custom
  order: [car]
fundings:
  - amount: 500
    effective_month: "2026-06"
    note: bonus
start: "2026-01"
`

const tomlScenario = `
budget = 200
start = "2026-01"

[strategy]
kind = "custom"
order = ["car"]

[[debts]]
id = "card"
name = "Visa"
balance = 1000
annual_rate = 24
minimum_payment = 50

[[debts]]
id = "car"
balance = 2000
annual_rate = 12
minimum_payment = 80

[[fundings]]
amount = 500
effective_month = "2026-06"
note = "bonus"
`

func write(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadPlan_AllFormats(t *testing.T) {
	files := map[string]string{
		"plan.json": jsonScenario,
		"plan.yaml": yamlScenario,
		"plan.toml": tomlScenario,
	}
	for name, body := range files {
		t.Run(name, func(t *testing.T) {
			req, err := LoadPlan(write(t, name, body))
			require.NoError(t, err)

			require.Len(t, req.Debts, 2)
			assert.Equal(t, "card", req.Debts[0].ID)
			assert.Equal(t, "Visa", req.Debts[0].Name)
			assert.True(t, decimal.NewFromInt(1000).Equal(req.Debts[0].Balance))
			assert.True(t, decimal.NewFromInt(12).Equal(req.Debts[1].AnnualRate))
			assert.True(t, decimal.NewFromInt(200).Equal(req.Budget))
			assert.Equal(t, domain.Custom, req.Strategy.Kind)
			assert.Equal(t, []string{"car"}, req.Strategy.Order)
			require.Len(t, req.Fundings, 1)
			assert.Equal(t, domain.Month{Year: 2026, Month: 6}, req.Fundings[0].EffectiveMonth)
			require.NotNil(t, req.Start)
			assert.Equal(t, domain.Month{Year: 2026, Month: 1}, *req.Start)
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	_, err := LoadPlan(write(t, "plan.xml", "<debts/>"))
	assert.ErrorContains(t, err, "unsupported scenario format")

	_, err = LoadPlan(write(t, "plan.json", `{"debts": [], "budgett": "1"}`))
	assert.Error(t, err)

	_, err = LoadPlan(write(t, "plan.toml", "budget = 1\nbonus = 2\n"))
	assert.ErrorContains(t, err, "unknown keys")

	_, err = LoadPlan(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestLoadAdvice(t *testing.T) {
	req, err := LoadAdvice(write(t, "advice.yaml", `
debts:
  - {id: a, balance: 500, annual_rate: 10, minimum_payment: 25}
max_budget: 300
step: 25
preference: minimize_interest
`))
	require.NoError(t, err)
	assert.Equal(t, "minimize_interest", req.Preference)
	assert.True(t, decimal.NewFromInt(25).Equal(req.Step))
}
