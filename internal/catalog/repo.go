package catalog

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/hydrationdev/hydration-os/pkg/db"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
)

const (
	rsvpCountSelect       = "events.*, (SELECT COUNT(*) FROM event_rsvps WHERE event_rsvps.event_id = events.id AND event_rsvps.status = ?) AS rsvp_count"
	engagementCountSelect = "content_posts.*, (SELECT COUNT(*) FROM content_engagement WHERE content_engagement.content_id = content_posts.id) AS engagement_count"
)

// Repository runs the read-only catalog queries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	ListUpcomingEvents(ctx context.Context, now time.Time, limit int) ([]models.Event, error)
	ListRecentContent(ctx context.Context, limit int) ([]models.ContentPost, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("price_monthly IS NULL").
		Order("price_monthly ASC").
		Order("name ASC").
		Find(&plans).Error
	return plans, err
}

// ListUpcomingEvents returns published events starting at or after now with
// their attending RSVP count. Without an event_rsvps table the events are
// still listed and every count reads zero.
func (r *repository) ListUpcomingEvents(ctx context.Context, now time.Time, limit int) ([]models.Event, error) {
	upcoming := func(sel string, args ...any) ([]models.Event, error) {
		var events []models.Event
		err := r.db.WithContext(ctx).
			Model(&models.Event{}).
			Select(sel, args...).
			Where("events.status = ? AND events.start_date >= ?", enums.EventStatusPublished, now).
			Order("events.start_date ASC").
			Limit(limit).
			Find(&events).Error
		return events, err
	}
	events, err := upcoming(rsvpCountSelect, enums.RSVPStatusAttending)
	if err != nil && db.IsUndefinedTable(err) {
		return upcoming("events.*")
	}
	return events, err
}

// ListRecentContent returns published posts, newest first, with an abbreviated
// creator and their engagement count. Posts scheduled for a later publish time
// are included. Without a content_engagement table every count reads zero.
func (r *repository) ListRecentContent(ctx context.Context, limit int) ([]models.ContentPost, error) {
	recent := func(sel string) ([]models.ContentPost, error) {
		var posts []models.ContentPost
		err := r.db.WithContext(ctx).
			Model(&models.ContentPost{}).
			Select(sel).
			Preload("Creator", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "first_name", "last_name", "avatar_url")
			}).
			Where("content_posts.published_at IS NOT NULL").
			Order("content_posts.published_at DESC").
			Limit(limit).
			Find(&posts).Error
		return posts, err
	}
	posts, err := recent(engagementCountSelect)
	if err != nil && db.IsUndefinedTable(err) {
		return recent("content_posts.*")
	}
	return posts, err
}
