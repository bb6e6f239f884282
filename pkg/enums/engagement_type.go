package enums

import "fmt"

// EngagementType is the kind of interaction recorded against a post.
type EngagementType string

const (
	EngagementTypeLike  EngagementType = "like"
	EngagementTypeView  EngagementType = "view"
	EngagementTypeShare EngagementType = "share"
)

var validEngagementTypes = []EngagementType{
	EngagementTypeLike,
	EngagementTypeView,
	EngagementTypeShare,
}

// String implements fmt.Stringer.
func (e EngagementType) String() string {
	return string(e)
}

// IsValid reports whether the value is a known EngagementType.
func (e EngagementType) IsValid() bool {
	for _, candidate := range validEngagementTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseEngagementType converts raw input into a EngagementType.
func ParseEngagementType(value string) (EngagementType, error) {
	for _, candidate := range validEngagementTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid engagement type %q", value)
}
