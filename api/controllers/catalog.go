package controllers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/api/responses"
	"github.com/hydrationdev/hydration-os/api/validators"
	"github.com/hydrationdev/hydration-os/internal/catalog"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

type catalogService interface {
	ListPlans(ctx context.Context) result.Result[[]models.SubscriptionPlan]
	ListUpcomingEvents(ctx context.Context, limit int) result.Result[[]models.Event]
	ListRecentContent(ctx context.Context, limit int) result.Result[[]models.ContentPost]
}

type eventReader interface {
	GetEvent(ctx context.Context, id uuid.UUID) result.Result[*models.Event]
}

// ListPlans returns the active membership plans, cheapest first.
func ListPlans(svc catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeList(r.Context(), logg, w, svc.ListPlans(r.Context()), "plans", catalog.PlansFromModels)
	}
}

// ListUpcomingEvents returns published events that have not started.
func ListUpcomingEvents(svc catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeList(r.Context(), logg, w, svc.ListUpcomingEvents(r.Context(), limit), "events", catalog.EventsFromModels)
	}
}

// ListRecentContent returns the newest published posts.
func ListRecentContent(svc catalogService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryLimit(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeList(r.Context(), logg, w, svc.ListRecentContent(r.Context(), limit), "content", catalog.ContentFromModels)
	}
}

func GetEvent(svc eventReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseUUIDParam(r, "eventId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res := svc.GetEvent(r.Context(), id)
		switch res.State {
		case result.StateOK:
			responses.WriteSuccess(w, catalog.EventFromModel(*res.Value))
		case result.StateEmpty:
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "event not found"))
		default:
			responses.WriteError(r.Context(), logg, w, dependencyError(res.Err, "event unavailable"))
		}
	}
}
