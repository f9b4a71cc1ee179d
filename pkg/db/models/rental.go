package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	"github.com/lonoleggi/lonoleggi-backend/pkg/types"
)

// Rental is one booking of an equipment item for a date range. Rows are never
// deleted; completed and cancelled are the terminal statuses.
type Rental struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	EquipmentID     uuid.UUID             `gorm:"column:equipment_id;type:uuid;not null" json:"equipment_id"`
	UserID          uuid.UUID             `gorm:"column:user_id;type:uuid;not null" json:"user_id"`
	StartDate       time.Time             `gorm:"column:start_date;not null" json:"start_date"`
	EndDate         time.Time             `gorm:"column:end_date;not null" json:"end_date"`
	TotalPrice      decimal.Decimal       `gorm:"column:total_price;type:numeric(12,2);not null" json:"total_price"`
	Status          enums.RentalStatus    `gorm:"column:status;type:rental_status;not null;default:'pending'" json:"status"`
	Notes           *string               `gorm:"column:notes;type:text" json:"notes,omitempty"`
	PaymentIntentID *string               `gorm:"column:payment_intent_id;type:text" json:"payment_intent_id,omitempty"`
	BillingDetails  *types.BillingDetails `gorm:"column:billing_details;type:jsonb;serializer:json" json:"billing_details,omitempty"`
	ExpiresAt       *time.Time            `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
