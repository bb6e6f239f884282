package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/api/middleware"
	"github.com/hydrationdev/hydration-os/api/responses"
	"github.com/hydrationdev/hydration-os/api/validators"
	"github.com/hydrationdev/hydration-os/internal/account"
	"github.com/hydrationdev/hydration-os/internal/events"
	"github.com/hydrationdev/hydration-os/internal/profiles"
	"github.com/hydrationdev/hydration-os/internal/subscriptions"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/result"
	"github.com/hydrationdev/hydration-os/pkg/types"
)

type profileUpdater interface {
	UpdateProfile(ctx context.Context, profileID uuid.UUID, update profiles.ProfileUpdate) result.Result[*models.UserProfile]
}

type subscriptionReader interface {
	GetActiveSubscription(ctx context.Context, profileID uuid.UUID) result.Result[*models.UserSubscription]
}

type accountOverviewer interface {
	Overview(ctx context.Context, profile *models.UserProfile) account.Overview
}

type rsvpLister interface {
	ListMyRSVPs(ctx context.Context, profileID uuid.UUID) ([]models.EventRSVP, error)
}

// currentProfile returns the caller's profile or writes the reason it is
// missing.
func currentProfile(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*models.UserProfile, bool) {
	profile := middleware.ProfileFromContext(r.Context())
	if profile == nil {
		responses.WriteError(r.Context(), logg, w, middleware.MissingProfileError(r))
		return nil, false
	}
	return profile, true
}

// MeProfile returns the profile resolved for the session.
func MeProfile(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := currentProfile(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, profiles.FromModel(profile))
	}
}

type profileUpdateRequest struct {
	FirstName        *string                 `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName         *string                 `json:"last_name,omitempty" validate:"omitempty,max=100"`
	Email            *string                 `json:"email,omitempty" validate:"omitempty,max=320"`
	Phone            *string                 `json:"phone,omitempty" validate:"omitempty,max=40"`
	DateOfBirth      *string                 `json:"date_of_birth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address          *types.ProfileAddress   `json:"address,omitempty"`
	EmergencyContact *types.EmergencyContact `json:"emergency_contact,omitempty"`
	Preferences      map[string]any          `json:"preferences,omitempty"`
}

func (req profileUpdateRequest) toUpdate() (profiles.ProfileUpdate, error) {
	update := profiles.ProfileUpdate{
		FirstName:        req.FirstName,
		LastName:         req.LastName,
		Email:            req.Email,
		Phone:            req.Phone,
		Address:          req.Address,
		EmergencyContact: req.EmergencyContact,
		Preferences:      req.Preferences,
	}
	if req.DateOfBirth != nil && strings.TrimSpace(*req.DateOfBirth) != "" {
		dob, err := profiles.ParseDate(strings.TrimSpace(*req.DateOfBirth))
		if err != nil {
			return update, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid date of birth").
				WithDetails(map[string]any{"date_of_birth": "must match layout 2006-01-02"})
		}
		if dob.After(time.Now().UTC()) {
			return update, pkgerrors.New(pkgerrors.CodeValidation, "invalid date of birth").
				WithDetails(map[string]any{"date_of_birth": "must be in the past"})
		}
		update.DateOfBirth = &dob
	}
	return update, nil
}

// MeUpdate applies self-service profile edits.
func MeUpdate(svc profileUpdater, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := currentProfile(w, r, logg)
		if !ok {
			return
		}

		var req profileUpdateRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		update, err := req.toUpdate()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res := svc.UpdateProfile(r.Context(), profile.ID, update)
		switch res.State {
		case result.StateOK:
			responses.WriteSuccess(w, profiles.FromModel(res.Value))
		case result.StateEmpty:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "profile not found"))
		default:
			responses.WriteError(r.Context(), logg, w, dependencyError(res.Err, "profile unavailable"))
		}
	}
}

// MeSubscription returns the caller's active subscription, or null data when
// there is none.
func MeSubscription(svc subscriptionReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := currentProfile(w, r, logg)
		if !ok {
			return
		}

		res := svc.GetActiveSubscription(r.Context(), profile.ID)
		if res.IsFailed() {
			responses.WriteError(r.Context(), logg, w, dependencyError(res.Err, "subscription unavailable"))
			return
		}
		responses.WriteSuccess(w, subscriptions.FromModel(res.Value))
	}
}

// MeAccount returns the account page sections, each with its own state. It
// answers 200 even when a section failed.
func MeAccount(svc accountOverviewer, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := currentProfile(w, r, logg)
		if !ok {
			return
		}
		responses.WriteSuccess(w, account.FromOverview(svc.Overview(r.Context(), profile)))
	}
}

func MeRSVPs(svc rsvpLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := currentProfile(w, r, logg)
		if !ok {
			return
		}

		rows, err := svc.ListMyRSVPs(r.Context(), profile.ID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, dependencyError(err, "rsvps unavailable"))
			return
		}
		responses.WriteSuccess(w, events.RSVPsFromModels(rows))
	}
}
