package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/api/responses"
	"github.com/hydrationdev/hydration-os/api/validators"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
)

type engagementService interface {
	Engage(ctx context.Context, contentID, profileID uuid.UUID, kind enums.EngagementType) (bool, error)
	Unlike(ctx context.Context, contentID, profileID uuid.UUID) error
}

type engagementRequest struct {
	Type string `json:"type" validate:"required"`
}

// EngageContent records a like, view or share. A new engagement answers 201,
// a repeated one 200.
func EngageContent(svc engagementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := currentProfile(w, r, logg)
		if !ok {
			return
		}

		contentID, err := validators.ParseUUIDParam(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req engagementRequest
		if err := validators.DecodeJSONBody(w, r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		kind, err := enums.ParseEngagementType(req.Type)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid engagement type").
				WithDetails(map[string]any{"type": "must be one of like, view, share"}))
			return
		}

		created, err := svc.Engage(r.Context(), contentID, profile.ID, kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"content_id": contentID,
			"type":       kind,
			"created":    created,
		})
	}
}

func UnlikeContent(svc engagementService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := currentProfile(w, r, logg)
		if !ok {
			return
		}

		contentID, err := validators.ParseUUIDParam(r, "contentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Unlike(r.Context(), contentID, profile.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
