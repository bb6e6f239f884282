package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/hydrationdev/hydration-os/internal/accessor"
	"github.com/hydrationdev/hydration-os/pkg/db"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/pagination"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

type ServiceParams struct {
	Repo     Repository
	Observer *accessor.Observer
	// Limits overrides the feed page size bounds; zero fields use the defaults.
	Limits pagination.Bounds
	Now    func() time.Time
}

// Service serves the public catalog: plans, upcoming events and recent content.
type Service struct {
	repo   Repository
	obs    *accessor.Observer
	limits pagination.Bounds
	now    func() time.Time
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	limits := params.Limits
	if limits.Default <= 0 {
		limits.Default = pagination.FeedBounds.Default
	}
	if limits.Max <= 0 {
		limits.Max = pagination.FeedBounds.Max
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &Service{repo: params.Repo, obs: params.Observer, limits: limits, now: now}, nil
}

// ListPlans returns active plans, cheapest first.
func (s *Service) ListPlans(ctx context.Context) result.Result[[]models.SubscriptionPlan] {
	call := s.obs.Start(ctx, "list_plans")
	plans, err := s.repo.ListActivePlans(call.Context())
	return accessor.Finish(call, rows(call, plans, err, "list plans", false))
}

// ListUpcomingEvents returns at most limit published future events. A
// non-positive limit selects the default page size.
func (s *Service) ListUpcomingEvents(ctx context.Context, limit int) result.Result[[]models.Event] {
	call := s.obs.Start(ctx, "list_upcoming_events")
	events, err := s.repo.ListUpcomingEvents(call.Context(), s.now().UTC(), s.limits.Normalize(limit))
	return accessor.Finish(call, rows(call, events, err, "list upcoming events", true))
}

// ListRecentContent returns at most limit published posts, newest first.
func (s *Service) ListRecentContent(ctx context.Context, limit int) result.Result[[]models.ContentPost] {
	call := s.obs.Start(ctx, "list_recent_content")
	posts, err := s.repo.ListRecentContent(call.Context(), s.limits.Normalize(limit))
	return accessor.Finish(call, rows(call, posts, err, "list recent content", true))
}

// rows classifies a list query outcome. optional marks queries against tables
// a deployment may not have created.
func rows[T any](call accessor.Call, values []T, err error, what string, optional bool) result.Result[[]T] {
	switch {
	case err != nil && optional && db.IsUndefinedTable(err):
		call.MissingRelation(err)
		return result.Empty[[]T]()
	case err != nil:
		return result.Failed[[]T](pkgerrors.Wrap(pkgerrors.CodeDependency, err, what))
	case len(values) == 0:
		return result.Empty[[]T]()
	}
	return result.OK(values)
}
