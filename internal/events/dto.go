package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/internal/catalog"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
)

type RSVPDTO struct {
	ID              uuid.UUID           `json:"id"`
	EventID         uuid.UUID           `json:"event_id"`
	Status          enums.RSVPStatus    `json:"status"`
	PaymentStatus   enums.PaymentStatus `json:"payment_status"`
	GuestCount      int                 `json:"guest_count"`
	SpecialRequests *string             `json:"special_requests,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
	Event           *catalog.EventDTO   `json:"event,omitempty"`
}

func RSVPFromModel(m models.EventRSVP) RSVPDTO {
	dto := RSVPDTO{
		ID:              m.ID,
		EventID:         m.EventID,
		Status:          m.Status,
		PaymentStatus:   m.PaymentStatus,
		GuestCount:      m.GuestCount,
		SpecialRequests: m.SpecialRequests,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if m.Event != nil {
		event := catalog.EventFromModel(*m.Event)
		dto.Event = &event
	}
	return dto
}

func RSVPsFromModels(rows []models.EventRSVP) []RSVPDTO {
	out := make([]RSVPDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, RSVPFromModel(row))
	}
	return out
}
