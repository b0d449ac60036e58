package enums

import "fmt"

// RunStatus tracks a payroll run from creation to its terminal state.
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusProcessing RunStatus = "processing"
	RunStatusComplete   RunStatus = "complete"
	RunStatusFailed     RunStatus = "failed"
)

var validRunStatuses = []RunStatus{
	RunStatusPending,
	RunStatusProcessing,
	RunStatusComplete,
	RunStatusFailed,
}

// String implements fmt.Stringer.
func (s RunStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s RunStatus) IsValid() bool {
	for _, candidate := range validRunStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the run can no longer transition.
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusComplete || s == RunStatusFailed
}

// ParseRunStatus converts raw input into a RunStatus.
func ParseRunStatus(value string) (RunStatus, error) {
	for _, candidate := range validRunStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid run status %q", value)
}
