package enums

import "fmt"

// ContentVisibility limits which members can see a post.
type ContentVisibility string

const (
	ContentVisibilityPublic  ContentVisibility = "public"
	ContentVisibilityMembers ContentVisibility = "members"
	ContentVisibilityVIPOnly ContentVisibility = "vip_only"
)

var validContentVisibilitys = []ContentVisibility{
	ContentVisibilityPublic,
	ContentVisibilityMembers,
	ContentVisibilityVIPOnly,
}

// String implements fmt.Stringer.
func (c ContentVisibility) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ContentVisibility.
func (c ContentVisibility) IsValid() bool {
	for _, candidate := range validContentVisibilitys {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseContentVisibility converts raw input into a ContentVisibility.
func ParseContentVisibility(value string) (ContentVisibility, error) {
	for _, candidate := range validContentVisibilitys {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid content visibility %q", value)
}
