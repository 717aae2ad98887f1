package engine

import (
	"fmt"

	"github.com/shopspring/decimal"

	"debt-planner/domain"
)

// FundingSchedule resolves one-time fundings to simulated months. Month 0 is
// the start month.
type FundingSchedule struct {
	start    domain.Month
	byOffset map[int]decimal.Decimal
	skipped  []domain.OneTimeFunding
}

func NewFundingSchedule(fundings []domain.OneTimeFunding, start domain.Month) (*FundingSchedule, error) {
	s := &FundingSchedule{
		start:    start,
		byOffset: make(map[int]decimal.Decimal),
	}
	for i, f := range fundings {
		if !f.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: funding %d has non-positive amount %s", ErrInvalidFunding, i, f.Amount)
		}
		if f.EffectiveMonth.IsZero() {
			return nil, fmt.Errorf("%w: funding %d has no effective month", ErrInvalidFunding, i)
		}
		offset := f.EffectiveMonth.MonthsSince(start)
		if offset < 0 {
			s.skipped = append(s.skipped, f)
			continue
		}
		s.byOffset[offset] = s.byOffset[offset].Add(f.Amount)
	}
	return s, nil
}

// AmountFor returns the sum of fundings effective in the given month.
func (s *FundingSchedule) AmountFor(month int) decimal.Decimal {
	return s.byOffset[month]
}

// Skipped lists fundings dated before the start month. They never apply.
func (s *FundingSchedule) Skipped() []domain.OneTimeFunding {
	return s.skipped
}
