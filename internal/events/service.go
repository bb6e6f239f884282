package events

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hydrationdev/hydration-os/internal/accessor"
	"github.com/hydrationdev/hydration-os/pkg/db"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

// MaxGuests caps the guests a member may bring to one event.
const MaxGuests = 10

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type ServiceParams struct {
	Repo     Repository
	DB       txRunner
	Observer *accessor.Observer
	Now      func() time.Time
}

type Service struct {
	repo Repository
	db   txRunner
	obs  *accessor.Observer
	now  func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	if params.DB == nil {
		return nil, errors.New("db is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, db: params.DB, obs: params.Observer, now: now}, nil
}

// RSVPInput is a member's response to an event.
type RSVPInput struct {
	EventID         uuid.UUID
	ProfileID       uuid.UUID
	Status          enums.RSVPStatus
	GuestCount      int
	SpecialRequests *string
}

// GetEvent returns a published event with its attending count.
func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) result.Result[*models.Event] {
	call := s.obs.Start(ctx, "get_event")
	event, err := s.repo.FindPublished(call.Context(), id)
	switch {
	case err != nil && db.IsUndefinedTable(err):
		call.MissingRelation(err)
		return accessor.Finish(call, result.Empty[*models.Event]())
	case err != nil:
		return accessor.Finish(call, result.Failed[*models.Event](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup event")))
	case event == nil:
		return accessor.Finish(call, result.Empty[*models.Event]())
	}
	return accessor.Finish(call, result.OK(event))
}

// Respond creates or replaces the member's RSVP. Attending responses are
// checked against the event's capacity under a row lock.
func (s *Service) Respond(ctx context.Context, input RSVPInput) (*models.EventRSVP, error) {
	call := s.obs.Start(ctx, "respond_rsvp")
	r := accessor.Finish(call, s.respond(call.Context(), input))
	if r.IsFailed() {
		return nil, r.Err
	}
	return r.Value, nil
}

func (s *Service) respond(ctx context.Context, input RSVPInput) result.Result[*models.EventRSVP] {
	if err := validateRSVP(input); err != nil {
		return result.Failed[*models.EventRSVP](err)
	}

	var stored *models.EventRSVP
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		event, err := repo.LockPublished(ctx, input.EventID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup event")
		}
		if event == nil {
			return pkgerrors.New(pkgerrors.CodeNotFound, "event not found")
		}
		if !event.StartDate.After(s.now()) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "event has already started")
		}

		rsvp := &models.EventRSVP{
			EventID:         event.ID,
			UserID:          input.ProfileID,
			Status:          input.Status,
			PaymentStatus:   enums.PaymentStatusPaid,
			GuestCount:      input.GuestCount,
			SpecialRequests: input.SpecialRequests,
		}
		if event.IsPriced() {
			rsvp.PaymentStatus = enums.PaymentStatusPending
		}

		if event.MaxAttendees != nil && rsvp.Seats() > 0 {
			taken, err := repo.AttendingSeats(ctx, event.ID, input.ProfileID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count attendees")
			}
			if taken+int64(rsvp.Seats()) > int64(*event.MaxAttendees) {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "event is at capacity").WithDetails(map[string]any{
					"max_attendees":   *event.MaxAttendees,
					"seats_remaining": max(int64(*event.MaxAttendees)-taken, 0),
				})
			}
		}

		stored, err = repo.UpsertRSVP(ctx, rsvp)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rsvp")
		}
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save rsvp")
		}
		return result.Failed[*models.EventRSVP](err)
	}
	return result.OK(stored)
}

func validateRSVP(input RSVPInput) error {
	details := map[string]string{}
	if input.EventID == uuid.Nil {
		details["event_id"] = "is required"
	}
	if input.ProfileID == uuid.Nil {
		details["profile_id"] = "is required"
	}
	if !input.Status.IsValid() {
		details["status"] = "is invalid"
	}
	if input.GuestCount < 0 || input.GuestCount > MaxGuests {
		details["guest_count"] = "must be between 0 and 10"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").WithDetails(details)
	}
	return nil
}

// ListMyRSVPs returns the member's RSVPs, newest first, with events loaded.
func (s *Service) ListMyRSVPs(ctx context.Context, profileID uuid.UUID) ([]models.EventRSVP, error) {
	call := s.obs.Start(ctx, "list_my_rsvps")
	rsvps, err := s.repo.ListRSVPsByUser(call.Context(), profileID)
	var r result.Result[[]models.EventRSVP]
	switch {
	case err != nil && db.IsUndefinedTable(err):
		call.MissingRelation(err)
		r = result.Empty[[]models.EventRSVP]()
	case err != nil:
		r = result.Failed[[]models.EventRSVP](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list rsvps"))
	case len(rsvps) == 0:
		r = result.Empty[[]models.EventRSVP]()
	default:
		r = result.OK(rsvps)
	}
	r = accessor.Finish(call, r)
	if r.IsFailed() {
		return nil, r.Err
	}
	return r.ValueOr([]models.EventRSVP{}), nil
}
