package checkout

import (
	"time"

	"github.com/google/uuid"

	"github.com/lonoleggi/lonoleggi-backend/pkg/types"
)

// StartInput is the renter's checkout request. ExpectedAmount is the price the
// client displayed, in minor units; the server re-quotes and rejects the
// checkout when the two disagree.
type StartInput struct {
	EquipmentID    uuid.UUID             `json:"equipment_id" validate:"required"`
	StartDate      time.Time             `json:"start_date" validate:"required"`
	EndDate        time.Time             `json:"end_date" validate:"required"`
	ExpectedAmount int64                 `json:"expected_amount" validate:"required,min=1"`
	PaymentMethod  string                `json:"payment_method" validate:"omitempty,max=255"`
	Notes          *string               `json:"notes" validate:"omitempty,max=2000"`
	BillingDetails *types.BillingDetails `json:"billing_details"`
}

// StartResult is returned to the client so it can confirm the payment.
type StartResult struct {
	RentalID     uuid.UUID `json:"rental_id"`
	ClientSecret string    `json:"client_secret"`
	AmountMinor  int64     `json:"amount"`
	Currency     string    `json:"currency"`
	ExpiresAt    time.Time `json:"expires_at"`
}
