package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
)

type PlanDTO struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	Description       *string   `json:"description,omitempty"`
	PriceMonthly      *string   `json:"price_monthly"`
	PriceYearly       *string   `json:"price_yearly"`
	Features          []string  `json:"features"`
	MaxEventsPerMonth *int      `json:"max_events_per_month,omitempty"`
}

type EventDTO struct {
	ID            uuid.UUID         `json:"id"`
	Title         string            `json:"title"`
	Description   *string           `json:"description,omitempty"`
	EventType     enums.EventType   `json:"event_type"`
	StartDate     time.Time         `json:"start_date"`
	EndDate       *time.Time        `json:"end_date,omitempty"`
	Location      *string           `json:"location,omitempty"`
	MaxAttendees  *int              `json:"max_attendees,omitempty"`
	Price         *string           `json:"price"`
	CoverImageURL *string           `json:"cover_image_url,omitempty"`
	Status        enums.EventStatus `json:"status"`
	RSVPCount     int64             `json:"rsvp_count"`
}

// CreatorDTO is the abbreviated author shown on feed entries.
type CreatorDTO struct {
	ID        uuid.UUID `json:"id"`
	FirstName *string   `json:"first_name,omitempty"`
	LastName  *string   `json:"last_name,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
}

type ContentDTO struct {
	ID              uuid.UUID               `json:"id"`
	Title           string                  `json:"title"`
	Content         *string                 `json:"content,omitempty"`
	ContentType     enums.ContentType       `json:"content_type"`
	MediaURLs       []string                `json:"media_urls"`
	Visibility      enums.ContentVisibility `json:"visibility"`
	IsFeatured      bool                    `json:"is_featured"`
	PublishedAt     *time.Time              `json:"published_at,omitempty"`
	ExpiresAt       *time.Time              `json:"expires_at,omitempty"`
	Creator         *CreatorDTO             `json:"creator,omitempty"`
	EngagementCount int64                   `json:"engagement_count"`
}

func PlanFromModel(m models.SubscriptionPlan) PlanDTO {
	features := []string{}
	features = append(features, m.Features...)
	return PlanDTO{
		ID:                m.ID,
		Name:              m.Name,
		Description:       m.Description,
		PriceMonthly:      money(m.PriceMonthly),
		PriceYearly:       money(m.PriceYearly),
		Features:          features,
		MaxEventsPerMonth: m.MaxEventsPerMonth,
	}
}

func EventFromModel(m models.Event) EventDTO {
	return EventDTO{
		ID:            m.ID,
		Title:         m.Title,
		Description:   m.Description,
		EventType:     m.EventType,
		StartDate:     m.StartDate,
		EndDate:       m.EndDate,
		Location:      m.Location,
		MaxAttendees:  m.MaxAttendees,
		Price:         money(m.Price),
		CoverImageURL: m.CoverImageURL,
		Status:        m.Status,
		RSVPCount:     m.RSVPCount,
	}
}

func ContentFromModel(m models.ContentPost) ContentDTO {
	media := []string{}
	media = append(media, m.MediaURLs...)
	dto := ContentDTO{
		ID:              m.ID,
		Title:           m.Title,
		Content:         m.Content,
		ContentType:     m.ContentType,
		MediaURLs:       media,
		Visibility:      m.Visibility,
		IsFeatured:      m.IsFeatured,
		PublishedAt:     m.PublishedAt,
		ExpiresAt:       m.ExpiresAt,
		EngagementCount: m.EngagementCount,
	}
	if m.Creator != nil {
		dto.Creator = &CreatorDTO{
			ID:        m.Creator.ID,
			FirstName: m.Creator.FirstName,
			LastName:  m.Creator.LastName,
			AvatarURL: m.Creator.AvatarURL,
		}
	}
	return dto
}

func PlansFromModels(rows []models.SubscriptionPlan) []PlanDTO {
	out := make([]PlanDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, PlanFromModel(row))
	}
	return out
}

func EventsFromModels(rows []models.Event) []EventDTO {
	out := make([]EventDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, EventFromModel(row))
	}
	return out
}

func ContentFromModels(rows []models.ContentPost) []ContentDTO {
	out := make([]ContentDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, ContentFromModel(row))
	}
	return out
}

func money(v decimal.NullDecimal) *string {
	if !v.Valid {
		return nil
	}
	s := v.Decimal.StringFixed(2)
	return &s
}
