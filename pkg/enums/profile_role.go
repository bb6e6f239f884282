package enums

import "fmt"

// ProfileRole is the club-level permission role stored on a member profile.
type ProfileRole string

const (
	ProfileRoleAdmin  ProfileRole = "admin"
	ProfileRoleStaff  ProfileRole = "staff"
	ProfileRoleMember ProfileRole = "member"
)

var validProfileRoles = []ProfileRole{
	ProfileRoleAdmin,
	ProfileRoleStaff,
	ProfileRoleMember,
}

// String implements fmt.Stringer.
func (p ProfileRole) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProfileRole.
func (p ProfileRole) IsValid() bool {
	for _, candidate := range validProfileRoles {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProfileRole converts raw input into a ProfileRole.
func ParseProfileRole(value string) (ProfileRole, error) {
	for _, candidate := range validProfileRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile role %q", value)
}

// CanManageMembers reports whether the role may browse the member directory.
func (p ProfileRole) CanManageMembers() bool {
	return p == ProfileRoleAdmin || p == ProfileRoleStaff
}
