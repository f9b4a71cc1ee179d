package rentals

import (
	"testing"

	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	pkgerrors "github.com/lonoleggi/lonoleggi-backend/pkg/errors"
)

func TestEvaluatePaymentOutcome(t *testing.T) {
	cases := []struct {
		name    string
		current enums.RentalStatus
		next    enums.RentalStatus
		want    Decision
	}{
		{"pending to confirmed", enums.RentalStatusPending, enums.RentalStatusConfirmed, DecisionApply},
		{"pending to paid skips confirmed", enums.RentalStatusPending, enums.RentalStatusPaid, DecisionApply},
		{"confirmed to paid", enums.RentalStatusConfirmed, enums.RentalStatusPaid, DecisionApply},
		{"duplicate delivery", enums.RentalStatusPaid, enums.RentalStatusPaid, DecisionSkip},
		{"late confirmation after paid", enums.RentalStatusPaid, enums.RentalStatusConfirmed, DecisionSkip},
		{"late confirmation after completed", enums.RentalStatusCompleted, enums.RentalStatusConfirmed, DecisionSkip},
		{"success after cancellation", enums.RentalStatusCancelled, enums.RentalStatusPaid, DecisionSkip},
		{"failure while pending", enums.RentalStatusPending, enums.RentalStatusPaymentFailed, DecisionApply},
		{"failure after confirmation", enums.RentalStatusConfirmed, enums.RentalStatusPaymentFailed, DecisionSkip},
		{"failure after payment", enums.RentalStatusPaid, enums.RentalStatusPaymentFailed, DecisionSkip},
		{"retry succeeds after failure", enums.RentalStatusPaymentFailed, enums.RentalStatusPaid, DecisionApply},
		{"confirmation after failure", enums.RentalStatusPaymentFailed, enums.RentalStatusConfirmed, DecisionApply},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EvaluatePaymentOutcome(tc.current, tc.next); got != tc.want {
				t.Fatalf("EvaluatePaymentOutcome(%s, %s) = %v, want %v", tc.current, tc.next, got, tc.want)
			}
		})
	}
}

func TestEvaluateOwnerAction(t *testing.T) {
	allowed := []struct {
		current enums.RentalStatus
		next    enums.RentalStatus
	}{
		{enums.RentalStatusPending, enums.RentalStatusConfirmed},
		{enums.RentalStatusConfirmed, enums.RentalStatusCompleted},
		{enums.RentalStatusPaid, enums.RentalStatusCompleted},
		{enums.RentalStatusPending, enums.RentalStatusCancelled},
		{enums.RentalStatusConfirmed, enums.RentalStatusCancelled},
		{enums.RentalStatusPaymentFailed, enums.RentalStatusCancelled},
	}
	for _, tc := range allowed {
		if err := EvaluateOwnerAction(tc.current, tc.next); err != nil {
			t.Fatalf("expected %s -> %s to be allowed, got %v", tc.current, tc.next, err)
		}
	}

	rejected := []struct {
		current enums.RentalStatus
		next    enums.RentalStatus
	}{
		{enums.RentalStatusPaid, enums.RentalStatusConfirmed},
		{enums.RentalStatusPending, enums.RentalStatusCompleted},
		{enums.RentalStatusPaid, enums.RentalStatusCancelled},
		{enums.RentalStatusCancelled, enums.RentalStatusConfirmed},
		{enums.RentalStatusCompleted, enums.RentalStatusCancelled},
		{enums.RentalStatusPending, enums.RentalStatusPaid},
	}
	for _, tc := range rejected {
		err := EvaluateOwnerAction(tc.current, tc.next)
		if err == nil {
			t.Fatalf("expected %s -> %s to be rejected", tc.current, tc.next)
		}
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
			t.Fatalf("expected state conflict for %s -> %s, got %v", tc.current, tc.next, err)
		}
	}
}
