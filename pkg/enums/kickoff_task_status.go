package enums

import "fmt"

// KickoffTaskStatus tracks one checklist item on an awarded project.
type KickoffTaskStatus string

const (
	KickoffTaskStatusPending  KickoffTaskStatus = "pending"
	KickoffTaskStatusComplete KickoffTaskStatus = "complete"
	KickoffTaskStatusBlocked  KickoffTaskStatus = "blocked"
)

var validKickoffTaskStatuses = []KickoffTaskStatus{
	KickoffTaskStatusPending,
	KickoffTaskStatusComplete,
	KickoffTaskStatusBlocked,
}

// String implements fmt.Stringer.
func (k KickoffTaskStatus) String() string {
	return string(k)
}

// IsValid reports whether the value is a known KickoffTaskStatus.
func (k KickoffTaskStatus) IsValid() bool {
	for _, candidate := range validKickoffTaskStatuses {
		if candidate == k {
			return true
		}
	}
	return false
}

// ParseKickoffTaskStatus converts raw input into a KickoffTaskStatus.
func ParseKickoffTaskStatus(value string) (KickoffTaskStatus, error) {
	for _, candidate := range validKickoffTaskStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid kickoff task status %q", value)
}
