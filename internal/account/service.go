// Package account assembles the member account page: current subscription and
// the plans available to switch to.
package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

type subscriptionReader interface {
	GetActiveSubscription(ctx context.Context, profileID uuid.UUID) result.Result[*models.UserSubscription]
}

type planLister interface {
	ListPlans(ctx context.Context) result.Result[[]models.SubscriptionPlan]
}

type ServiceParams struct {
	Subscriptions subscriptionReader
	Catalog       planLister
}

type Service struct {
	subscriptions subscriptionReader
	catalog       planLister
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Subscriptions == nil {
		return nil, errors.New("subscription reader is required")
	}
	if params.Catalog == nil {
		return nil, errors.New("catalog is required")
	}
	return &Service{subscriptions: params.Subscriptions, catalog: params.Catalog}, nil
}

// Overview holds one result per section so a failing section never hides the
// others.
type Overview struct {
	Profile      *models.UserProfile
	Subscription result.Result[*models.UserSubscription]
	Plans        result.Result[[]models.SubscriptionPlan]
}

// Overview loads the sections for profile concurrently.
func (s *Service) Overview(ctx context.Context, profile *models.UserProfile) Overview {
	out := Overview{Profile: profile}
	if profile == nil {
		out.Subscription = result.Empty[*models.UserSubscription]()
		out.Plans = s.catalog.ListPlans(ctx)
		return out
	}

	// Sections report failure through their own result, so the group never
	// cancels a sibling.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		out.Subscription = s.subscriptions.GetActiveSubscription(gctx, profile.ID)
		return nil
	})
	g.Go(func() error {
		out.Plans = s.catalog.ListPlans(gctx)
		return nil
	})
	_ = g.Wait()
	return out
}
