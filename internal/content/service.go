package content

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/internal/accessor"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

type ServiceParams struct {
	Repo     Repository
	Observer *accessor.Observer
	Now      func() time.Time
}

type Service struct {
	repo Repository
	obs  *accessor.Observer
	now  func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, obs: params.Observer, now: now}, nil
}

// Engage records a like, view or share on a visible post. Repeating the same
// engagement is a no-op and reports created=false.
func (s *Service) Engage(ctx context.Context, contentID, profileID uuid.UUID, kind enums.EngagementType) (bool, error) {
	call := s.obs.Start(ctx, "engage_content")
	r := accessor.Finish(call, s.engage(call.Context(), contentID, profileID, kind))
	return r.Value, r.Err
}

func (s *Service) engage(ctx context.Context, contentID, profileID uuid.UUID, kind enums.EngagementType) result.Result[bool] {
	if contentID == uuid.Nil || profileID == uuid.Nil {
		return result.Failed[bool](pkgerrors.New(pkgerrors.CodeValidation, "content and profile are required"))
	}
	if !kind.IsValid() {
		return result.Failed[bool](pkgerrors.New(pkgerrors.CodeValidation, "invalid engagement type").WithDetails(map[string]any{"engagement_type": kind.String()}))
	}

	post, err := s.repo.FindPost(ctx, contentID)
	if err != nil {
		return result.Failed[bool](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup content"))
	}
	if post == nil || !post.IsVisibleAt(s.now()) {
		return result.Failed[bool](pkgerrors.New(pkgerrors.CodeNotFound, "content not found"))
	}

	created, err := s.repo.InsertEngagement(ctx, &models.ContentEngagement{
		ContentID:      post.ID,
		UserID:         profileID,
		EngagementType: kind,
	})
	if err != nil {
		return result.Failed[bool](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record engagement"))
	}
	return result.OK(created)
}

// Unlike removes the member's like. Removing a missing like succeeds.
func (s *Service) Unlike(ctx context.Context, contentID, profileID uuid.UUID) error {
	call := s.obs.Start(ctx, "unlike_content")
	var r result.Result[bool]
	if contentID == uuid.Nil || profileID == uuid.Nil {
		r = result.Failed[bool](pkgerrors.New(pkgerrors.CodeValidation, "content and profile are required"))
	} else if removed, err := s.repo.DeleteEngagement(call.Context(), contentID, profileID, enums.EngagementTypeLike); err != nil {
		r = result.Failed[bool](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove like"))
	} else if removed {
		r = result.OK(true)
	} else {
		r = result.Empty[bool]()
	}
	return accessor.Finish(call, r).Err
}
