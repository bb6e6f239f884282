package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/hydrationdev/hydration-os/pkg/enums"
	"github.com/hydrationdev/hydration-os/pkg/types"
)

// UserProfile is the local record for a member, keyed by the identity
// provider's subject id.
type UserProfile struct {
	ID               uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalID       string                  `gorm:"column:external_id;not null;uniqueIndex"`
	Email            string                  `gorm:"column:email;not null"`
	FirstName        *string                 `gorm:"column:first_name"`
	LastName         *string                 `gorm:"column:last_name"`
	AvatarURL        *string                 `gorm:"column:avatar_url"`
	Phone            *string                 `gorm:"column:phone"`
	DateOfBirth      *time.Time              `gorm:"column:date_of_birth;type:date"`
	Address          *types.ProfileAddress   `gorm:"column:address;type:jsonb"`
	EmergencyContact *types.EmergencyContact `gorm:"column:emergency_contact;type:jsonb"`
	Preferences      datatypes.JSONMap       `gorm:"column:preferences;type:jsonb"`
	Role             enums.ProfileRole       `gorm:"column:role;type:profile_role;not null"`
	Status           enums.ProfileStatus     `gorm:"column:status;type:profile_status;not null"`
	CreatedAt        time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

func (UserProfile) TableName() string { return "user_profiles" }
