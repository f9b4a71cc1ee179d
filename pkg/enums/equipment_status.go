package enums

import "fmt"

// EquipmentStatus reflects whether a listing can accept new rentals.
type EquipmentStatus string

const (
	EquipmentStatusAvailable EquipmentStatus = "available"
	EquipmentStatusRented    EquipmentStatus = "rented"
	EquipmentStatusRepair    EquipmentStatus = "repair"
)

var validEquipmentStatuses = []EquipmentStatus{
	EquipmentStatusAvailable,
	EquipmentStatusRented,
	EquipmentStatusRepair,
}

// String implements fmt.Stringer.
func (e EquipmentStatus) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EquipmentStatus.
func (e EquipmentStatus) IsValid() bool {
	for _, candidate := range validEquipmentStatuses {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEquipmentStatus converts raw input into an EquipmentStatus.
func ParseEquipmentStatus(value string) (EquipmentStatus, error) {
	for _, candidate := range validEquipmentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid equipment status %q", value)
}
