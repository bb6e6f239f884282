package middleware

import (
	"context"

	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
)

type contextKey string

const (
	ctxSubject      contextKey = "subject"
	ctxProfile      contextKey = "profile"
	ctxProfileError contextKey = "profile_error"
)

func SubjectFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxSubject).(string); ok {
		return v
	}
	return ""
}

// ProfileFromContext returns the resolved member profile, or nil when the
// request is anonymous or the profile could not be loaded.
func ProfileFromContext(ctx context.Context) *models.UserProfile {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxProfile).(*models.UserProfile); ok {
		return v
	}
	return nil
}

func RoleFromContext(ctx context.Context) enums.ProfileRole {
	if profile := ProfileFromContext(ctx); profile != nil {
		return profile.Role
	}
	return ""
}

// ProfileErrorFromContext returns why a signed-in request has no profile.
func ProfileErrorFromContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxProfileError).(error); ok {
		return v
	}
	return nil
}

func WithSubject(ctx context.Context, subject string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSubject, subject)
}

func WithProfile(ctx context.Context, profile *models.UserProfile) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfile, profile)
}

func WithProfileError(ctx context.Context, err error) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxProfileError, err)
}
