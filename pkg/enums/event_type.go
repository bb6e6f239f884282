package enums

import "fmt"

// EventType controls which audience an event targets.
type EventType string

const (
	EventTypeGeneral    EventType = "general"
	EventTypeMemberOnly EventType = "member_only"
	EventTypeVIPOnly    EventType = "vip_only"
	EventTypePublic     EventType = "public"
)

var validEventTypes = []EventType{
	EventTypeGeneral,
	EventTypeMemberOnly,
	EventTypeVIPOnly,
	EventTypePublic,
}

// String implements fmt.Stringer.
func (e EventType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EventType.
func (e EventType) IsValid() bool {
	for _, candidate := range validEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEventType converts raw input into a EventType.
func ParseEventType(value string) (EventType, error) {
	for _, candidate := range validEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
