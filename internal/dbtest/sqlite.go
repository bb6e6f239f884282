// Package dbtest opens throwaway sqlite databases shaped like the Postgres
// schema so repositories can be exercised without a server.
package dbtest

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const coreSchema = `
CREATE TABLE user_profiles (
  id TEXT PRIMARY KEY,
  external_id TEXT NOT NULL,
  email TEXT NOT NULL DEFAULT '',
  first_name TEXT,
  last_name TEXT,
  avatar_url TEXT,
  phone TEXT,
  date_of_birth DATE,
  address TEXT,
  emergency_contact TEXT,
  preferences TEXT NOT NULL DEFAULT '{}',
  role TEXT NOT NULL DEFAULT 'member',
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT user_profiles_external_id_key UNIQUE (external_id)
);
CREATE TABLE subscription_plans (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT,
  price_monthly NUMERIC,
  price_yearly NUMERIC,
  stripe_price_id TEXT,
  features TEXT,
  max_events_per_month INTEGER,
  is_active BOOLEAN NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE user_subscriptions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  plan_id TEXT NOT NULL,
  stripe_subscription_id TEXT,
  status TEXT NOT NULL,
  current_period_start DATETIME,
  current_period_end DATETIME,
  cancel_at_period_end BOOLEAN NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`

const optionalSchema = `
CREATE TABLE events (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  description TEXT,
  event_type TEXT NOT NULL DEFAULT 'general',
  start_date DATETIME NOT NULL,
  end_date DATETIME,
  location TEXT,
  max_attendees INTEGER,
  price NUMERIC,
  stripe_price_id TEXT,
  cover_image_url TEXT,
  status TEXT NOT NULL DEFAULT 'draft',
  created_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE event_rsvps (
  id TEXT PRIMARY KEY,
  event_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'attending',
  payment_status TEXT NOT NULL DEFAULT 'pending',
  stripe_payment_intent_id TEXT,
  guest_count INTEGER NOT NULL DEFAULT 0,
  special_requests TEXT,
  created_at DATETIME,
  updated_at DATETIME,
  CONSTRAINT event_rsvps_event_user_key UNIQUE (event_id, user_id)
);
CREATE TABLE content_posts (
  id TEXT PRIMARY KEY,
  title TEXT NOT NULL,
  content TEXT,
  content_type TEXT NOT NULL DEFAULT 'post',
  media_urls TEXT,
  visibility TEXT NOT NULL DEFAULT 'members',
  is_featured BOOLEAN NOT NULL DEFAULT 0,
  published_at DATETIME,
  expires_at DATETIME,
  created_by TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE content_engagement (
  id TEXT PRIMARY KEY,
  content_id TEXT NOT NULL,
  user_id TEXT NOT NULL,
  engagement_type TEXT NOT NULL,
  created_at DATETIME,
  CONSTRAINT content_engagement_unique_key UNIQUE (content_id, user_id, engagement_type)
);`

// Open returns an isolated in-memory database with the core tables, plus the
// events and content tables when withOptional is set.
func Open(t *testing.T, withOptional bool) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(coreSchema).Error)
	if withOptional {
		require.NoError(t, conn.Exec(optionalSchema).Error)
	}

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}
