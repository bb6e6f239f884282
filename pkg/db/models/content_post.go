package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/hydrationdev/hydration-os/pkg/enums"
)

// ContentPost is a feed entry. A nil PublishedAt means draft.
type ContentPost struct {
	ID          uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string                  `gorm:"column:title;not null"`
	Content     *string                 `gorm:"column:content"`
	ContentType enums.ContentType       `gorm:"column:content_type;type:content_type;not null"`
	MediaURLs   pq.StringArray          `gorm:"column:media_urls;type:text[]"`
	Visibility  enums.ContentVisibility `gorm:"column:visibility;type:content_visibility;not null"`
	IsFeatured  bool                    `gorm:"column:is_featured;not null"`
	PublishedAt *time.Time              `gorm:"column:published_at;index"`
	ExpiresAt   *time.Time              `gorm:"column:expires_at"`
	CreatedBy   *uuid.UUID              `gorm:"column:created_by;type:uuid"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime"`

	Creator         *UserProfile `gorm:"foreignKey:CreatedBy"`
	EngagementCount int64        `gorm:"->;-:migration;column:engagement_count"`
}

func (ContentPost) TableName() string { return "content_posts" }

// IsVisibleAt reports whether the post is published and not yet expired at now.
func (p ContentPost) IsVisibleAt(now time.Time) bool {
	if p.PublishedAt == nil || p.PublishedAt.After(now) {
		return false
	}
	return p.ExpiresAt == nil || p.ExpiresAt.After(now)
}
