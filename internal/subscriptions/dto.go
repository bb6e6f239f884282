package subscriptions

import (
	"time"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/internal/catalog"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
)

type SubscriptionDTO struct {
	ID                 uuid.UUID                `json:"id"`
	Status             enums.SubscriptionStatus `json:"status"`
	CurrentPeriodStart *time.Time               `json:"current_period_start,omitempty"`
	CurrentPeriodEnd   *time.Time               `json:"current_period_end,omitempty"`
	CancelAtPeriodEnd  bool                     `json:"cancel_at_period_end"`
	Plan               *catalog.PlanDTO         `json:"plan,omitempty"`
}

// FromModel maps the persisted subscription into a DTO.
func FromModel(m *models.UserSubscription) *SubscriptionDTO {
	if m == nil {
		return nil
	}
	dto := &SubscriptionDTO{
		ID:                 m.ID,
		Status:             m.Status,
		CurrentPeriodStart: m.CurrentPeriodStart,
		CurrentPeriodEnd:   m.CurrentPeriodEnd,
		CancelAtPeriodEnd:  m.CancelAtPeriodEnd,
	}
	if m.Plan != nil {
		plan := catalog.PlanFromModel(*m.Plan)
		dto.Plan = &plan
	}
	return dto
}
