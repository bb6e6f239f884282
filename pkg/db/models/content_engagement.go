package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/pkg/enums"
)

type ContentEngagement struct {
	ID             uuid.UUID            `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ContentID      uuid.UUID            `gorm:"column:content_id;type:uuid;not null"`
	UserID         uuid.UUID            `gorm:"column:user_id;type:uuid;not null"`
	EngagementType enums.EngagementType `gorm:"column:engagement_type;type:engagement_type;not null"`
	CreatedAt      time.Time            `gorm:"column:created_at;autoCreateTime"`
}

func (ContentEngagement) TableName() string { return "content_engagement" }
