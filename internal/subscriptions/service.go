package subscriptions

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/internal/accessor"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

type ServiceParams struct {
	Repo     Repository
	Observer *accessor.Observer
}

type Service struct {
	repo Repository
	obs  *accessor.Observer
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, obs: params.Observer}, nil
}

// GetActiveSubscription returns the member's current active subscription with
// its plan, or an empty result when they have none.
func (s *Service) GetActiveSubscription(ctx context.Context, profileID uuid.UUID) result.Result[*models.UserSubscription] {
	call := s.obs.Start(ctx, "get_active_subscription")
	if profileID == uuid.Nil {
		return accessor.Finish(call, result.Failed[*models.UserSubscription](pkgerrors.New(pkgerrors.CodeValidation, "profile id is required")))
	}
	sub, err := s.repo.FindActiveByUser(call.Context(), profileID)
	if err != nil {
		return accessor.Finish(call, result.Failed[*models.UserSubscription](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup active subscription")))
	}
	if sub == nil || !sub.Status.Current() {
		return accessor.Finish(call, result.Empty[*models.UserSubscription]())
	}
	return accessor.Finish(call, result.OK(sub))
}
