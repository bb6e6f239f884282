package profiles

import (
	"time"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	"github.com/hydrationdev/hydration-os/pkg/types"
)

const dateLayout = "2006-01-02"

// ProfileDTO is the signed-in member's own view of their profile.
type ProfileDTO struct {
	ID               uuid.UUID               `json:"id"`
	Email            string                  `json:"email"`
	FirstName        *string                 `json:"first_name,omitempty"`
	LastName         *string                 `json:"last_name,omitempty"`
	AvatarURL        *string                 `json:"avatar_url,omitempty"`
	Phone            *string                 `json:"phone,omitempty"`
	DateOfBirth      *string                 `json:"date_of_birth,omitempty"`
	Address          *types.ProfileAddress   `json:"address,omitempty"`
	EmergencyContact *types.EmergencyContact `json:"emergency_contact,omitempty"`
	Preferences      map[string]any          `json:"preferences"`
	Role             enums.ProfileRole       `json:"role"`
	Status           enums.ProfileStatus     `json:"status"`
	CreatedAt        time.Time               `json:"created_at"`
	UpdatedAt        time.Time               `json:"updated_at"`
}

// MemberDTO is a directory row; it omits personal contact details.
type MemberDTO struct {
	ID        uuid.UUID           `json:"id"`
	Email     string              `json:"email"`
	FirstName *string             `json:"first_name,omitempty"`
	LastName  *string             `json:"last_name,omitempty"`
	AvatarURL *string             `json:"avatar_url,omitempty"`
	Role      enums.ProfileRole   `json:"role"`
	Status    enums.ProfileStatus `json:"status"`
	CreatedAt time.Time           `json:"created_at"`
}

type MemberListDTO struct {
	Members    []MemberDTO `json:"members"`
	NextCursor string      `json:"next_cursor,omitempty"`
}

// FromModel maps the persisted profile into a DTO.
func FromModel(m *models.UserProfile) *ProfileDTO {
	if m == nil {
		return nil
	}
	dto := &ProfileDTO{
		ID:          m.ID,
		Email:       m.Email,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		AvatarURL:   m.AvatarURL,
		Phone:       m.Phone,
		Preferences: map[string]any{},
		Role:        m.Role,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.DateOfBirth != nil {
		formatted := m.DateOfBirth.Format(dateLayout)
		dto.DateOfBirth = &formatted
	}
	if m.Address != nil {
		cpy := *m.Address
		dto.Address = &cpy
	}
	if m.EmergencyContact != nil {
		cpy := *m.EmergencyContact
		dto.EmergencyContact = &cpy
	}
	for k, v := range m.Preferences {
		dto.Preferences[k] = v
	}
	return dto
}

func MemberFromModel(m models.UserProfile) MemberDTO {
	return MemberDTO{
		ID:        m.ID,
		Email:     m.Email,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		AvatarURL: m.AvatarURL,
		Role:      m.Role,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
	}
}

func ListFromResult(res *ListMembersResult) MemberListDTO {
	out := MemberListDTO{Members: []MemberDTO{}}
	if res == nil {
		return out
	}
	for _, m := range res.Members {
		out.Members = append(out.Members, MemberFromModel(m))
	}
	out.NextCursor = res.NextCursor
	return out
}

// ParseDate reads a YYYY-MM-DD date of birth.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(dateLayout, value)
}
