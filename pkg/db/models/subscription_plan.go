package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// SubscriptionPlan is a purchasable membership tier. Rows are maintained by the
// billing integration; this service only reads them.
type SubscriptionPlan struct {
	ID                uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name              string              `gorm:"column:name;not null"`
	Description       *string             `gorm:"column:description"`
	PriceMonthly      decimal.NullDecimal `gorm:"column:price_monthly;type:numeric(10,2)"`
	PriceYearly       decimal.NullDecimal `gorm:"column:price_yearly;type:numeric(10,2)"`
	StripePriceID     *string             `gorm:"column:stripe_price_id"`
	Features          pq.StringArray      `gorm:"column:features;type:text[]"`
	MaxEventsPerMonth *int                `gorm:"column:max_events_per_month"`
	IsActive          bool                `gorm:"column:is_active;not null"`
	CreatedAt         time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (SubscriptionPlan) TableName() string { return "subscription_plans" }
