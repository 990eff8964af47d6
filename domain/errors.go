package domain

import "errors"

// ErrInvalidScenario matches every InvalidScenarioError via errors.Is.
var ErrInvalidScenario = errors.New("invalid scenario")

// Reasons reported by InvalidScenarioError, in the order they are checked.
const (
	ReasonDownPaymentExceedsCost = "down payment exceeds home cost"
	ReasonNonPositiveTerm        = "non-positive term"
	ReasonPaymentExceedsCash     = "payment exceeds disposable cash"
	ReasonInsufficientSavings    = "insufficient savings"
)

// InvalidScenarioError rejects a set of inputs before any period is simulated.
type InvalidScenarioError struct {
	Reason string
	Detail string
}

func (e *InvalidScenarioError) Error() string {
	if e.Detail == "" {
		return e.Reason
	}
	return e.Reason + ": " + e.Detail
}

func (e *InvalidScenarioError) Is(target error) bool {
	return target == ErrInvalidScenario
}
