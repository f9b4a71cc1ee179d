package enums

import "fmt"

// TrackingType describes how stock for a listing is tracked: a bulk quantity
// counter or an individual serial code.
type TrackingType string

const (
	TrackingTypeBulk   TrackingType = "bulk"
	TrackingTypeSerial TrackingType = "serial"
)

var validTrackingTypes = []TrackingType{
	TrackingTypeBulk,
	TrackingTypeSerial,
}

// IsValid reports whether the value is a known TrackingType.
func (t TrackingType) IsValid() bool {
	for _, candidate := range validTrackingTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTrackingType converts raw input into a TrackingType.
func ParseTrackingType(value string) (TrackingType, error) {
	for _, candidate := range validTrackingTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid tracking type %q", value)
}
