package engine

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidDebtParameters = errors.New("invalid debt parameters")
	ErrInvalidBudget         = errors.New("invalid budget")
	ErrInvalidFunding        = errors.New("invalid one-time funding")
	ErrInvalidStrategy       = errors.New("invalid strategy")
	ErrDuplicateDebt         = errors.New("duplicate debt id")

	// ErrUnreachablePayoff means the month cap was reached even though every
	// debt amortizes on its own minimum and the budget covers all minimums.
	// That can only come from an allocation fault.
	ErrUnreachablePayoff = errors.New("payoff unreachable despite sufficient budget")
)

// DebtError reports a problem with one debt of a batch.
type DebtError struct {
	DebtID string
	Reason string
	Err    error
}

func (e *DebtError) Error() string {
	return fmt.Sprintf("debt %q: %s", e.DebtID, e.Reason)
}

func (e *DebtError) Unwrap() error {
	return e.Err
}

func invalidDebt(id, reason string) *DebtError {
	return &DebtError{DebtID: id, Reason: reason, Err: ErrInvalidDebtParameters}
}
