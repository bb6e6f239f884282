package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	"github.com/hydrationdev/hydration-os/pkg/pagination"
)

// Repository exposes persistence for member profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	Upsert(ctx context.Context, profile *models.UserProfile, assign []string) (*models.UserProfile, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error)
	List(ctx context.Context, query ListQuery) ([]models.UserProfile, error)
}

// ListQuery filters the member directory. Limit is the raw row count to fetch.
type ListQuery struct {
	Role   *enums.ProfileRole
	Status *enums.ProfileStatus
	Search string
	Limit  int
	Cursor *pagination.Cursor
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a profile repository.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error) {
	return r.first(ctx, "external_id = ?", externalID)
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *repository) first(ctx context.Context, where string, arg any) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.WithContext(ctx).Where(where, arg).Take(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Upsert inserts profile or, when its external id already exists, overwrites
// only the assign columns. The stored row is returned.
func (r *repository) Upsert(ctx context.Context, profile *models.UserProfile, assign []string) (*models.UserProfile, error) {
	if profile.ID == uuid.Nil {
		profile.ID = uuid.New()
	}
	columns := append(append([]string{}, assign...), "updated_at")
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns(columns),
		}).
		Create(profile).Error
	if err != nil {
		return nil, err
	}
	return r.FindByExternalID(ctx, profile.ExternalID)
}

// Update applies updates to the profile with id and reports whether it exists.
func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	tx := r.db.WithContext(ctx).Model(&models.UserProfile{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

func (r *repository) List(ctx context.Context, query ListQuery) ([]models.UserProfile, error) {
	q := r.db.WithContext(ctx).Model(&models.UserProfile{})
	if query.Role != nil {
		q = q.Where("role = ?", *query.Role)
	}
	if query.Status != nil {
		q = q.Where("status = ?", *query.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(query.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("LOWER(COALESCE(first_name, '')) LIKE ? OR LOWER(COALESCE(last_name, '')) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}
	if query.Cursor != nil {
		q = q.Where("(created_at < ?) OR (created_at = ? AND id < ?)", query.Cursor.CreatedAt, query.Cursor.CreatedAt, query.Cursor.ID)
	}

	var rows []models.UserProfile
	err := q.Order("created_at DESC").Order("id DESC").Limit(query.Limit).Find(&rows).Error
	return rows, err
}
