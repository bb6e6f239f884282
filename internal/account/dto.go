package account

import (
	"github.com/hydrationdev/hydration-os/internal/catalog"
	"github.com/hydrationdev/hydration-os/internal/profiles"
	"github.com/hydrationdev/hydration-os/internal/subscriptions"
	"github.com/hydrationdev/hydration-os/pkg/result"
)

// SectionDTO reports a section's state next to its data. Failed sections carry
// no data.
type SectionDTO[T any] struct {
	State result.State `json:"state"`
	Data  T            `json:"data"`
}

type OverviewDTO struct {
	Profile      *profiles.ProfileDTO                       `json:"profile"`
	Subscription SectionDTO[*subscriptions.SubscriptionDTO] `json:"subscription"`
	Plans        SectionDTO[[]catalog.PlanDTO]              `json:"plans"`
}

func FromOverview(o Overview) OverviewDTO {
	return OverviewDTO{
		Profile: profiles.FromModel(o.Profile),
		Subscription: SectionDTO[*subscriptions.SubscriptionDTO]{
			State: o.Subscription.State,
			Data:  subscriptions.FromModel(o.Subscription.Value),
		},
		Plans: SectionDTO[[]catalog.PlanDTO]{
			State: o.Plans.State,
			Data:  catalog.PlansFromModels(o.Plans.Value),
		},
	}
}
