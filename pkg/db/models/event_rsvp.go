package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/hydrationdev/hydration-os/pkg/enums"
)

type EventRSVP struct {
	ID                    uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	EventID               uuid.UUID           `gorm:"column:event_id;type:uuid;not null;uniqueIndex:event_rsvps_event_user"`
	UserID                uuid.UUID           `gorm:"column:user_id;type:uuid;not null;uniqueIndex:event_rsvps_event_user"`
	Status                enums.RSVPStatus    `gorm:"column:status;type:rsvp_status;not null"`
	PaymentStatus         enums.PaymentStatus `gorm:"column:payment_status;type:payment_status;not null"`
	StripePaymentIntentID *string             `gorm:"column:stripe_payment_intent_id"`
	GuestCount            int                 `gorm:"column:guest_count;not null"`
	SpecialRequests       *string             `gorm:"column:special_requests"`
	CreatedAt             time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	Event *Event `gorm:"foreignKey:EventID"`
}

func (EventRSVP) TableName() string { return "event_rsvps" }

// Seats is the number of places the RSVP occupies when attending.
func (r EventRSVP) Seats() int {
	if r.Status != enums.RSVPStatusAttending {
		return 0
	}
	return 1 + r.GuestCount
}
