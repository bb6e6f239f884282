package enums

import "fmt"

// ProfileStatus gates whether a member may use club features.
type ProfileStatus string

const (
	ProfileStatusActive    ProfileStatus = "active"
	ProfileStatusInactive  ProfileStatus = "inactive"
	ProfileStatusSuspended ProfileStatus = "suspended"
)

var validProfileStatuses = []ProfileStatus{
	ProfileStatusActive,
	ProfileStatusInactive,
	ProfileStatusSuspended,
}

// String implements fmt.Stringer.
func (p ProfileStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProfileStatus.
func (p ProfileStatus) IsValid() bool {
	for _, candidate := range validProfileStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProfileStatus converts raw input into a ProfileStatus.
func ParseProfileStatus(value string) (ProfileStatus, error) {
	for _, candidate := range validProfileStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile status %q", value)
}
