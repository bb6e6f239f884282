package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hydrationdev/hydration-os/pkg/enums"
)

// Event is a scheduled club event. RSVPCount is derived at query time and is
// never written.
type Event struct {
	ID            uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Title         string              `gorm:"column:title;not null"`
	Description   *string             `gorm:"column:description"`
	EventType     enums.EventType     `gorm:"column:event_type;type:event_type;not null"`
	StartDate     time.Time           `gorm:"column:start_date;not null;index"`
	EndDate       *time.Time          `gorm:"column:end_date"`
	Location      *string             `gorm:"column:location"`
	MaxAttendees  *int                `gorm:"column:max_attendees"`
	Price         decimal.NullDecimal `gorm:"column:price;type:numeric(10,2)"`
	StripePriceID *string             `gorm:"column:stripe_price_id"`
	CoverImageURL *string             `gorm:"column:cover_image_url"`
	Status        enums.EventStatus   `gorm:"column:status;type:event_status;not null"`
	CreatedBy     *uuid.UUID          `gorm:"column:created_by;type:uuid"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`

	RSVPCount int64 `gorm:"->;-:migration;column:rsvp_count"`
}

func (Event) TableName() string { return "events" }

// IsPriced reports whether attending requires a payment.
func (e Event) IsPriced() bool {
	return e.Price.Valid && e.Price.Decimal.IsPositive()
}
