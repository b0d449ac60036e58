package enums

import "fmt"

// PayEventStatus is the outcome of a single allocation leg.
type PayEventStatus string

const (
	PayEventStatusPending    PayEventStatus = "pending"
	PayEventStatusProcessing PayEventStatus = "processing"
	PayEventStatusComplete   PayEventStatus = "complete"
	PayEventStatusFailed     PayEventStatus = "failed"
)

var validPayEventStatuses = []PayEventStatus{
	PayEventStatusPending,
	PayEventStatusProcessing,
	PayEventStatusComplete,
	PayEventStatusFailed,
}

// String implements fmt.Stringer.
func (s PayEventStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s PayEventStatus) IsValid() bool {
	for _, candidate := range validPayEventStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParsePayEventStatus converts raw input into a PayEventStatus.
func ParsePayEventStatus(value string) (PayEventStatus, error) {
	for _, candidate := range validPayEventStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid pay event status %q", value)
}
