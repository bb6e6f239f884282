package enums

import "fmt"

// RSVPStatus is a member's answer to an event invitation.
type RSVPStatus string

const (
	RSVPStatusAttending    RSVPStatus = "attending"
	RSVPStatusMaybe        RSVPStatus = "maybe"
	RSVPStatusNotAttending RSVPStatus = "not_attending"
)

var validRSVPStatuses = []RSVPStatus{
	RSVPStatusAttending,
	RSVPStatusMaybe,
	RSVPStatusNotAttending,
}

// String implements fmt.Stringer.
func (r RSVPStatus) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RSVPStatus.
func (r RSVPStatus) IsValid() bool {
	for _, candidate := range validRSVPStatuses {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRSVPStatus converts raw input into a RSVPStatus.
func ParseRSVPStatus(value string) (RSVPStatus, error) {
	for _, candidate := range validRSVPStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid rsvp status %q", value)
}
