package enums

import "fmt"

// RentalStatus tracks the lifecycle of a rental booking.
type RentalStatus string

const (
	RentalStatusPending       RentalStatus = "pending"
	RentalStatusConfirmed     RentalStatus = "confirmed"
	RentalStatusPaid          RentalStatus = "paid"
	RentalStatusPaymentFailed RentalStatus = "payment_failed"
	RentalStatusCompleted     RentalStatus = "completed"
	RentalStatusCancelled     RentalStatus = "cancelled"
)

var validRentalStatuses = []RentalStatus{
	RentalStatusPending,
	RentalStatusConfirmed,
	RentalStatusPaid,
	RentalStatusPaymentFailed,
	RentalStatusCompleted,
	RentalStatusCancelled,
}

// String implements fmt.Stringer.
func (r RentalStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RentalStatus.
func (r RentalStatus) IsValid() bool {
	for _, candidate := range validRentalStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status admits no further transitions.
func (r RentalStatus) IsTerminal() bool {
	return r == RentalStatusCompleted || r == RentalStatusCancelled
}

// ParseRentalStatus converts raw input into a RentalStatus.
func ParseRentalStatus(value string) (RentalStatus, error) {
	for _, candidate := range validRentalStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rental status %q", value)
}
