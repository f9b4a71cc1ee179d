package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	"github.com/lonoleggi/lonoleggi-backend/pkg/types"
)

// Equipment is a rentable listing with its rate schedule and availability flag.
type Equipment struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID      uuid.UUID             `gorm:"column:owner_id;type:uuid;not null" json:"owner_id"`
	Name         string                `gorm:"column:name;type:text;not null" json:"name"`
	Description  string                `gorm:"column:description;type:text" json:"description"`
	Category     string                `gorm:"column:category;type:text" json:"category"`
	Location     string                `gorm:"column:location;type:text" json:"location"`
	PriceHour    decimal.Decimal       `gorm:"column:price_hour;type:numeric(12,2);not null;default:0" json:"price_hour"`
	PriceDay     decimal.Decimal       `gorm:"column:price_day;type:numeric(12,2);not null;default:0" json:"price_day"`
	PriceWeek    decimal.Decimal       `gorm:"column:price_week;type:numeric(12,2);not null;default:0" json:"price_week"`
	PriceMonth   decimal.Decimal       `gorm:"column:price_month;type:numeric(12,2);not null;default:0" json:"price_month"`
	TrackingType enums.TrackingType    `gorm:"column:tracking_type;type:tracking_type;not null;default:'bulk'" json:"tracking_type"`
	Quantity     *int                  `gorm:"column:quantity" json:"quantity,omitempty"`
	SerialCode   *string               `gorm:"column:serial_code;type:text" json:"serial_code,omitempty"`
	Status       enums.EquipmentStatus `gorm:"column:status;type:equipment_status;not null;default:'available'" json:"status"`
	Images       types.StringArray     `gorm:"column:images;type:jsonb;serializer:json" json:"images"`
	Features     types.StringArray     `gorm:"column:features;type:jsonb;serializer:json" json:"features,omitempty"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName pins the plural-resistant table name.
func (Equipment) TableName() string { return "equipment" }
