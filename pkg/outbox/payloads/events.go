package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
)

// RentalCreatedEvent signals a new pending booking with its equipment hold.
type RentalCreatedEvent struct {
	RentalID    uuid.UUID       `json:"rental_id"`
	EquipmentID uuid.UUID       `json:"equipment_id"`
	UserID      uuid.UUID       `json:"user_id"`
	OwnerID     uuid.UUID       `json:"owner_id"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     time.Time       `json:"end_date"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
}

// RentalStatusEvent is emitted for every reconciled status transition.
type RentalStatusEvent struct {
	RentalID        uuid.UUID          `json:"rental_id"`
	EquipmentID     uuid.UUID          `json:"equipment_id"`
	UserID          uuid.UUID          `json:"user_id"`
	Status          enums.RentalStatus `json:"status"`
	PaymentIntentID *string            `json:"payment_intent_id,omitempty"`
	Reason          string             `json:"reason,omitempty"`
}

// RentalExpiredEvent describes a pending booking reclaimed by the TTL sweep.
type RentalExpiredEvent struct {
	RentalID    uuid.UUID `json:"rentalId"`
	EquipmentID uuid.UUID `json:"equipmentId"`
	UserID      uuid.UUID `json:"userId"`
	ExpiredAt   time.Time `json:"expiredAt"`
}
