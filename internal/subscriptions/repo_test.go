package subscriptions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hydrationdev/hydration-os/internal/dbtest"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
)

func seedPlan(t *testing.T, conn *gorm.DB, name string) models.SubscriptionPlan {
	t.Helper()
	plan := models.SubscriptionPlan{
		ID:           uuid.New(),
		Name:         name,
		PriceMonthly: decimal.NewNullDecimal(decimal.RequireFromString("29.00")),
		Features:     pq.StringArray{"lounge access", "guest passes"},
		IsActive:     true,
	}
	require.NoError(t, conn.Create(&plan).Error)
	return plan
}

func TestFindActiveByUserJoinsPlan(t *testing.T) {
	conn := dbtest.Open(t, false)
	repo := NewRepository(conn)
	userID := uuid.New()
	gold := seedPlan(t, conn, "Gold")
	silver := seedPlan(t, conn, "Silver")
	base := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := []models.UserSubscription{
		{ID: uuid.New(), UserID: userID, PlanID: silver.ID, Status: enums.SubscriptionStatusCanceled, CreatedAt: base.Add(48 * time.Hour)},
		{ID: uuid.New(), UserID: userID, PlanID: gold.ID, Status: enums.SubscriptionStatusActive, CreatedAt: base},
		{ID: uuid.New(), UserID: uuid.New(), PlanID: silver.ID, Status: enums.SubscriptionStatusActive, CreatedAt: base},
	}
	for i := range rows {
		require.NoError(t, conn.Omit("Plan").Create(&rows[i]).Error)
	}

	sub, err := repo.FindActiveByUser(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, sub)
	assert.Equal(t, rows[1].ID, sub.ID)
	require.NotNil(t, sub.Plan)
	assert.Equal(t, "Gold", sub.Plan.Name)
	assert.Equal(t, []string{"lounge access", "guest passes"}, []string(sub.Plan.Features))
	assert.True(t, sub.Plan.PriceMonthly.Valid)
}

func TestFindActiveByUserNone(t *testing.T) {
	repo := NewRepository(dbtest.Open(t, false))

	sub, err := repo.FindActiveByUser(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Nil(t, sub)
}
