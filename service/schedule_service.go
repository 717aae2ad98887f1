package service

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"debt-planner/domain"
	"debt-planner/engine"
)

type ScheduleService struct {
	opts Options
}

func NewScheduleService(opts Options) *ScheduleService {
	return &ScheduleService{opts: opts.withDefaults()}
}

// BuildSchedule amortizes a single debt at a fixed monthly payment. When
// only a term is given the payment is the annuity that clears the balance in
// that many months.
func (s *ScheduleService) BuildSchedule(
	ctx context.Context,
	req domain.ScheduleRequest,
) (domain.ScheduleResult, error) {
	limits := s.opts.Limits
	switch {
	case !req.Balance.IsPositive():
		return domain.ScheduleResult{}, invalidf("balance must be positive")
	case req.Balance.GreaterThan(limits.MaxDebtAmount):
		return domain.ScheduleResult{}, invalidf("balance exceeds the maximum of %s", limits.MaxDebtAmount)
	case req.AnnualRate.IsNegative():
		return domain.ScheduleResult{}, invalidf("interest rate must not be negative")
	case req.AnnualRate.GreaterThan(limits.MaxInterestRate):
		return domain.ScheduleResult{}, invalidf("interest rate exceeds the maximum of %s%%", limits.MaxInterestRate)
	case req.MonthlyPayment.IsNegative():
		return domain.ScheduleResult{}, invalidf("monthly payment must not be negative")
	}

	payment := req.MonthlyPayment
	if !payment.IsPositive() {
		if req.TermMonths == 0 {
			return domain.ScheduleResult{}, invalidf("either monthly_payment or term_months is required")
		}
		var err error
		if payment, err = PaymentForTerm(req.Balance, req.AnnualRate, req.TermMonths); err != nil {
			return domain.ScheduleResult{}, err
		}
	}

	start := domain.MonthOf(startTime(req.Start, s.opts.Clock))
	entries, err := engine.BuildSchedule(req.Balance, req.AnnualRate, payment, start)
	if err != nil {
		return domain.ScheduleResult{}, err
	}

	result := domain.ScheduleResult{
		MonthlyPayment: payment,
		TotalInterest:  decimal.Zero,
		TotalPaid:      decimal.Zero,
		Months:         len(entries),
		PaidOff:        true,
		Entries:        entries,
	}
	for _, e := range entries {
		result.TotalInterest = result.TotalInterest.Add(e.Interest)
		result.TotalPaid = result.TotalPaid.Add(e.Payment)
	}
	if n := len(entries); n > 0 && entries[n-1].EndingBalance.GreaterThan(decimal.NewFromFloat(0.01)) {
		result.PaidOff = false
	}

	s.opts.Logger.Debug("schedule built",
		zap.String("payment", payment.String()),
		zap.Int("months", result.Months),
		zap.Bool("paid_off", result.PaidOff))
	return result, nil
}

// PaymentForTerm returns the fixed monthly payment that repays balance in
// termMonths, rounded up to the cent:
//
//	payment = P * r / (1 - (1+r)^-n),  r = annualRate / 1200
//
// A zero rate degenerates to P / n.
func PaymentForTerm(balance, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if termMonths < MinTermMonths || termMonths > engine.ScheduleMaxMonths {
		return decimal.Decimal{}, invalidf("term must be between %d and %d months", MinTermMonths, engine.ScheduleMaxMonths)
	}
	if !balance.IsPositive() || annualRate.IsNegative() {
		return decimal.Decimal{}, invalidf("balance must be positive and rate not negative")
	}

	if annualRate.IsZero() {
		return balance.Div(decimal.NewFromInt(int64(termMonths))).RoundCeil(2), nil
	}

	monthlyRate := annualRate.InexactFloat64() / 1200
	n := float64(termMonths)
	cuota := balance.InexactFloat64() * (monthlyRate / (1 - math.Pow(1+monthlyRate, -n)))

	// Round away float noise before rounding up to the cent.
	return decimal.NewFromFloat(cuota).Round(6).RoundCeil(2), nil
}
