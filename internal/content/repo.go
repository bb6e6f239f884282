package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPost(ctx context.Context, id uuid.UUID) (*models.ContentPost, error)
	InsertEngagement(ctx context.Context, engagement *models.ContentEngagement) (bool, error)
	DeleteEngagement(ctx context.Context, contentID, userID uuid.UUID, kind enums.EngagementType) (bool, error)
	DeleteViewsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	UnfeatureExpired(ctx context.Context, now time.Time) (int64, error)
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

func (r *repository) FindPost(ctx context.Context, id uuid.UUID) (*models.ContentPost, error) {
	var post models.ContentPost
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// InsertEngagement records an engagement once; it reports false when the same
// member already engaged the same way.
func (r *repository) InsertEngagement(ctx context.Context, engagement *models.ContentEngagement) (bool, error) {
	if engagement.ID == uuid.Nil {
		engagement.ID = uuid.New()
	}
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "content_id"}, {Name: "user_id"}, {Name: "engagement_type"}},
			DoNothing: true,
		}).
		Create(engagement)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *repository) DeleteEngagement(ctx context.Context, contentID, userID uuid.UUID, kind enums.EngagementType) (bool, error) {
	tx := r.db.WithContext(ctx).
		Where("content_id = ? AND user_id = ? AND engagement_type = ?", contentID, userID, kind).
		Delete(&models.ContentEngagement{})
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

// DeleteViewsBefore prunes view engagements recorded before cutoff.
func (r *repository) DeleteViewsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("engagement_type = ? AND created_at < ?", enums.EngagementTypeView, cutoff).
		Delete(&models.ContentEngagement{})
	return tx.RowsAffected, tx.Error
}

// UnfeatureExpired clears is_featured on posts whose expiry has passed.
func (r *repository) UnfeatureExpired(ctx context.Context, now time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Model(&models.ContentPost{}).
		Where("is_featured = ? AND expires_at IS NOT NULL AND expires_at <= ?", true, now).
		Updates(map[string]any{"is_featured": false})
	return tx.RowsAffected, tx.Error
}
