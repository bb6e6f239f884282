package controllers

import (
	"context"
	"net/http"

	"github.com/hydrationdev/hydration-os/api/responses"
	"github.com/hydrationdev/hydration-os/api/validators"
	"github.com/hydrationdev/hydration-os/internal/profiles"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/pagination"
)

const maxSearchLength = 100

type memberDirectory interface {
	ListMembers(ctx context.Context, params profiles.ListMembersParams) (*profiles.ListMembersResult, error)
}

// ListMembers serves the staff member directory. Query: role, status, q,
// limit, cursor.
func ListMembers(svc memberDirectory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		res, err := svc.ListMembers(r.Context(), profiles.ListMembersParams{
			Role:   validators.QueryString(r, "role", 20),
			Status: validators.QueryString(r, "status", 20),
			Search: validators.QueryString(r, "q", maxSearchLength),
			Limit:  limit,
			Cursor: validators.QueryString(r, "cursor", 0),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profiles.ListFromResult(res))
	}
}
