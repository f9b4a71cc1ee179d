package enums

import "fmt"

// NotificationType maps to the notification_type enum in Postgres.
type NotificationType string

const (
	NotificationTypeNewRental        NotificationType = "new_rental"
	NotificationTypeRentalConfirmed  NotificationType = "rental_confirmed"
	NotificationTypeRentalCancelled  NotificationType = "rental_cancelled"
	NotificationTypeRentalCompleted  NotificationType = "rental_completed"
	NotificationTypeRentalExpired    NotificationType = "rental_expired"
	NotificationTypePaymentSucceeded NotificationType = "payment_succeeded"
	NotificationTypePaymentFailed    NotificationType = "payment_failed"
	NotificationTypeSystem           NotificationType = "system"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeNewRental,
	NotificationTypeRentalConfirmed,
	NotificationTypeRentalCancelled,
	NotificationTypeRentalCompleted,
	NotificationTypeRentalExpired,
	NotificationTypePaymentSucceeded,
	NotificationTypePaymentFailed,
	NotificationTypeSystem,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
