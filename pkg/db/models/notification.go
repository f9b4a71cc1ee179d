package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/lonoleggi/lonoleggi-backend/pkg/enums"
	"github.com/lonoleggi/lonoleggi-backend/pkg/types"
)

// Notification stores in-app notification payloads addressed to a user.
type Notification struct {
	ID        uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID    uuid.UUID              `gorm:"type:uuid;not null" json:"user_id"`
	Type      enums.NotificationType `gorm:"type:notification_type;not null" json:"type"`
	Title     string                 `gorm:"type:text;not null" json:"title"`
	Message   string                 `gorm:"type:text;not null" json:"message"`
	Metadata  types.JSONMap          `gorm:"type:jsonb;serializer:json" json:"metadata,omitempty"`
	ReadAt    *time.Time             `gorm:"type:timestamptz" json:"read_at,omitempty"`
	CreatedAt time.Time              `gorm:"type:timestamptz;default:now()" json:"created_at"`
}
