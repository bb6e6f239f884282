package middleware

import (
	"net/http"

	"github.com/hydrationdev/hydration-os/api/responses"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
)

// RequireProfile rejects requests that reached the handler without a
// resolved profile.
func RequireProfile(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireProfileWhere(logg, func(*models.UserProfile) bool { return true })
}

// RequireStaff limits a route to profiles allowed to manage members.
func RequireStaff(logg *logger.Logger) func(http.Handler) http.Handler {
	return requireProfileWhere(logg, func(p *models.UserProfile) bool {
		return p.Role.CanManageMembers()
	})
}

func RequireProfileRole(logg *logger.Logger, roles ...enums.ProfileRole) func(http.Handler) http.Handler {
	return requireProfileWhere(logg, func(p *models.UserProfile) bool {
		for _, role := range roles {
			if p.Role == role {
				return true
			}
		}
		return false
	})
}

func requireProfileWhere(logg *logger.Logger, allowed func(*models.UserProfile) bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			profile := ProfileFromContext(ctx)
			if profile == nil {
				responses.WriteError(ctx, logg, w, MissingProfileError(r))
				return
			}
			if !allowed(profile) {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MissingProfileError explains why a request carries no profile: the stored
// resolution failure when signed in, UNAUTHORIZED otherwise.
func MissingProfileError(r *http.Request) error {
	if err := ProfileErrorFromContext(r.Context()); err != nil {
		return err
	}
	if SubjectFromContext(r.Context()) == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	}
	return pkgerrors.New(pkgerrors.CodeDependency, "profile unavailable")
}
