package rentals

import (
	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
)

// statusRank orders the payment lifecycle. Transitions only ever move to a
// higher rank; a lower or equal rank means the incoming event is stale.
var statusRank = map[enums.RentalStatus]int{
	enums.RentalStatusPending:   0,
	enums.RentalStatusConfirmed: 1,
	enums.RentalStatusPaid:      2,
	enums.RentalStatusCompleted: 3,
}

// Decision is the outcome of evaluating a requested transition.
type Decision int

const (
	// DecisionApply means the transition is valid and should be persisted.
	DecisionApply Decision = iota
	// DecisionSkip means the event is stale or duplicated; drop it silently.
	DecisionSkip
	// DecisionReject means the transition is illegal for the current state.
	DecisionReject
)

// EvaluatePaymentOutcome decides how a webhook-driven transition applies to
// the current status. Out-of-order deliveries resolve to DecisionSkip so a
// late event can never downgrade a rental.
func EvaluatePaymentOutcome(current, next enums.RentalStatus) Decision {
	if current == next {
		return DecisionSkip
	}
	if current.IsTerminal() {
		return DecisionSkip
	}

	if next == enums.RentalStatusPaymentFailed {
		// A failure can only land while the rental is still pending. After a
		// confirmation or payment has been observed the failure is stale.
		if current == enums.RentalStatusPending {
			return DecisionApply
		}
		return DecisionSkip
	}

	nextRank, ok := statusRank[next]
	if !ok {
		return DecisionReject
	}
	currentRank, ok := statusRank[current]
	if !ok {
		// payment_failed may still be rescued by a later success event.
		if current == enums.RentalStatusPaymentFailed {
			return DecisionApply
		}
		return DecisionReject
	}
	if nextRank <= currentRank {
		return DecisionSkip
	}
	return DecisionApply
}

// EvaluateOwnerAction validates a transition requested by a user rather than
// a webhook. Unlike webhook replays, a bad request here is an error.
func EvaluateOwnerAction(current, next enums.RentalStatus) error {
	switch next {
	case enums.RentalStatusConfirmed:
		if current == enums.RentalStatusPending {
			return nil
		}
	case enums.RentalStatusCompleted:
		if current == enums.RentalStatusConfirmed || current == enums.RentalStatusPaid {
			return nil
		}
	case enums.RentalStatusCancelled:
		if !current.IsTerminal() && current != enums.RentalStatusPaid {
			return nil
		}
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, "rental cannot move from "+current.String()+" to "+next.String())
}
