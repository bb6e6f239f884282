package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hydrationdev/hydration-os/api/responses"
	"github.com/hydrationdev/hydration-os/pkg/auth"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

type profileResolver interface {
	Resolve(ctx context.Context, claims auth.IdentityClaims) result.Result[*models.UserProfile]
}

// Identity verifies the session token from the Authorization header or the
// session cookie and attaches the caller's profile to the request. A request
// whose profile cannot be loaded still proceeds, carrying the failure in
// context for handlers that need the profile.
func Identity(verifier auth.Verifier, resolver profileResolver, sessionCookie string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, err := sessionToken(r, sessionCookie)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, err.Error()))
				return
			}

			claims, err := verifier.Verify(ctx, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid session token"))
				return
			}

			ctx = WithSubject(ctx, claims.Subject)
			if logg != nil {
				ctx = logg.WithSubject(ctx, claims.Subject)
			}

			resolved := resolver.Resolve(ctx, *claims)
			if resolved.IsOK() {
				profile := resolved.Value
				ctx = WithProfile(ctx, profile)
				if logg != nil {
					ctx = logg.WithProfileID(ctx, profile.ID.String())
					ctx = logg.WithActorRole(ctx, profile.Role.String())
				}
			} else {
				cause := resolved.Err
				if cause == nil {
					cause = pkgerrors.New(pkgerrors.CodeDependency, "profile unavailable")
				}
				ctx = WithProfileError(ctx, cause)
				if logg != nil {
					logg.WarnErr(ctx, "identity.profile_unavailable", cause)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionToken(r *http.Request, cookieName string) (string, error) {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", errors.New("invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if cookie, err := r.Cookie(cookieName); err == nil && strings.TrimSpace(cookie.Value) != "" {
			return strings.TrimSpace(cookie.Value), nil
		}
	}
	return "", errors.New("missing session token")
}
