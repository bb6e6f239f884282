// Package identity links a verified identity-provider session to the local
// member profile, creating the profile on first sign-in.
package identity

import (
	"context"
	"errors"

	"github.com/hydrationdev/hydration-os/internal/profiles"
	"github.com/hydrationdev/hydration-os/pkg/auth"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

const profileUnavailable = "profile unavailable"

type profileStore interface {
	GetProfile(ctx context.Context, externalID string) result.Result[*models.UserProfile]
	UpsertProfile(ctx context.Context, input profiles.UpsertInput) result.Result[*models.UserProfile]
}

type BridgeParams struct {
	Profiles profileStore
	Logger   *logger.Logger
}

type Bridge struct {
	profiles profileStore
	logg     *logger.Logger
}

func NewBridge(params BridgeParams) (*Bridge, error) {
	if params.Profiles == nil {
		return nil, errors.New("profile store is required")
	}
	return &Bridge{profiles: params.Profiles, logg: params.Logger}, nil
}

// Resolve returns the profile for claims.Subject, creating it from the claims
// when none exists. Either step failing yields a failed result; there is no
// retry.
func (b *Bridge) Resolve(ctx context.Context, claims auth.IdentityClaims) result.Result[*models.UserProfile] {
	found := b.profiles.GetProfile(ctx, claims.Subject)
	switch found.State {
	case result.StateOK:
		return found
	case result.StateFailed:
		return unavailable(found.Err)
	}

	created := b.profiles.UpsertProfile(ctx, profiles.UpsertInput{
		ExternalID: claims.Subject,
		Email:      claims.Email,
		FirstName:  claims.FirstName,
		LastName:   claims.LastName,
		AvatarURL:  claims.AvatarURL,
	})
	if !created.IsOK() {
		return unavailable(created.Err)
	}
	if b.logg != nil {
		b.logg.Info(b.logg.WithProfileID(ctx, created.Value.ID.String()), "identity.profile_created")
	}
	return created
}

func unavailable(cause error) result.Result[*models.UserProfile] {
	return result.Failed[*models.UserProfile](pkgerrors.Wrap(pkgerrors.CodeDependency, cause, profileUnavailable))
}
