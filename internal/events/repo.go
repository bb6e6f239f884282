package events

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
)

const rsvpCountSelect = "events.*, (SELECT COUNT(*) FROM event_rsvps WHERE event_rsvps.event_id = events.id AND event_rsvps.status = ?) AS rsvp_count"

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindPublished(ctx context.Context, id uuid.UUID) (*models.Event, error)
	LockPublished(ctx context.Context, id uuid.UUID) (*models.Event, error)
	AttendingSeats(ctx context.Context, eventID, excludeUserID uuid.UUID) (int64, error)
	UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP) (*models.EventRSVP, error)
	ListRSVPsByUser(ctx context.Context, userID uuid.UUID) ([]models.EventRSVP, error)
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

// FindPublished loads a published event with its attending count.
func (r *repository) FindPublished(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Select(rsvpCountSelect, enums.RSVPStatusAttending).
		Where("events.id = ? AND events.status = ?", id, enums.EventStatusPublished).
		Take(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// LockPublished loads a published event FOR UPDATE so concurrent RSVPs against
// it serialize on capacity.
func (r *repository) LockPublished(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND status = ?", id, enums.EventStatusPublished).
		Take(&event).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// AttendingSeats sums 1 + guest_count over attending RSVPs, ignoring the RSVP
// of excludeUserID.
func (r *repository) AttendingSeats(ctx context.Context, eventID, excludeUserID uuid.UUID) (int64, error) {
	var seats int64
	err := r.db.WithContext(ctx).
		Model(&models.EventRSVP{}).
		Select("COALESCE(SUM(1 + guest_count), 0)").
		Where("event_id = ? AND status = ? AND user_id <> ?", eventID, enums.RSVPStatusAttending, excludeUserID).
		Scan(&seats).Error
	return seats, err
}

// UpsertRSVP writes the caller's RSVP. An existing RSVP keeps its payment
// status.
func (r *repository) UpsertRSVP(ctx context.Context, rsvp *models.EventRSVP) (*models.EventRSVP, error) {
	if rsvp.ID == uuid.Nil {
		rsvp.ID = uuid.New()
	}
	err := r.db.WithContext(ctx).
		Omit("Event").
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "guest_count", "special_requests", "updated_at"}),
		}).
		Create(rsvp).Error
	if err != nil {
		return nil, err
	}

	var stored models.EventRSVP
	if err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", rsvp.EventID, rsvp.UserID).
		Take(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *repository) ListRSVPsByUser(ctx context.Context, userID uuid.UUID) ([]models.EventRSVP, error) {
	var rsvps []models.EventRSVP
	err := r.db.WithContext(ctx).
		Preload("Event").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rsvps).Error
	return rsvps, err
}
