package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"debt-planner/domain"
)

func rankCandidates() []Candidate {
	return []Candidate{
		{ID: "a", Balance: dec("1000"), AnnualRate: dec("24")},
		{ID: "b", Balance: dec("2000"), AnnualRate: dec("12")},
		{ID: "c", Balance: dec("500"), AnnualRate: dec("24")},
		{ID: "d", Balance: dec("500"), AnnualRate: dec("24")},
	}
}

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		spec domain.StrategySpec
		want []string
	}{
		{"avalanche", domain.StrategySpec{Kind: domain.Avalanche}, []string{"c", "d", "a", "b"}},
		{"default is avalanche", domain.StrategySpec{}, []string{"c", "d", "a", "b"}},
		{"snowball", domain.StrategySpec{Kind: domain.Snowball}, []string{"c", "d", "a", "b"}},
		{"custom", domain.StrategySpec{Kind: domain.Custom, Order: []string{"b", "d"}}, []string{"b", "d", "a", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewStrategy(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want, Rank(s, rankCandidates()))
		})
	}
}

func TestRank_SnowballUsesCurrentBalance(t *testing.T) {
	s, err := NewStrategy(domain.StrategySpec{Kind: domain.Snowball})
	require.NoError(t, err)

	cands := []Candidate{
		{ID: "x", Balance: dec("300"), AnnualRate: dec("5")},
		{ID: "y", Balance: dec("300"), AnnualRate: dec("9")},
		{ID: "z", Balance: dec("120.50"), AnnualRate: dec("1")},
	}
	assert.Equal(t, []string{"z", "y", "x"}, Rank(s, cands))
}

func TestNewStrategy_Errors(t *testing.T) {
	_, err := NewStrategy(domain.StrategySpec{Kind: "fastest"})
	assert.ErrorIs(t, err, ErrInvalidStrategy)

	_, err = NewStrategy(domain.StrategySpec{Kind: domain.Custom})
	assert.ErrorIs(t, err, ErrInvalidStrategy)

	_, err = NewStrategy(domain.StrategySpec{Kind: domain.Custom, Order: []string{"a", "a"}})
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}
