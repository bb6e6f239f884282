package controllers

import (
	"context"
	"net/http"

	"github.com/hydrationdev/hydration-os/api/responses"
	"github.com/hydrationdev/hydration-os/api/validators"
	"github.com/hydrationdev/hydration-os/internal/events"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
)

type rsvpResponder interface {
	Respond(ctx context.Context, input events.RSVPInput) (*models.EventRSVP, error)
}

type rsvpRequest struct {
	Status          string  `json:"status" validate:"required"`
	GuestCount      int     `json:"guest_count" validate:"gte=0"`
	SpecialRequests *string `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

// RespondRSVP records the caller's response to an event. Repeating the call
// replaces the previous response.
func RespondRSVP(svc rsvpResponder, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := currentProfile(w, r, logg)
		if !ok {
			return
		}

		eventID, err := validators.ParseUUIDParam(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req rsvpRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseRSVPStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid rsvp status").
				WithDetails(map[string]any{"status": "must be one of attending, maybe, not_attending"}))
			return
		}

		rsvp, err := svc.Respond(r.Context(), events.RSVPInput{
			EventID:         eventID,
			ProfileID:       profile.ID,
			Status:          status,
			GuestCount:      req.GuestCount,
			SpecialRequests: req.SpecialRequests,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, events.RSVPFromModel(*rsvp))
	}
}
