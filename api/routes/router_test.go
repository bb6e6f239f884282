package routes

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hydrationdev/hydration-os/internal/accessor"
	"github.com/hydrationdev/hydration-os/internal/account"
	"github.com/hydrationdev/hydration-os/internal/catalog"
	"github.com/hydrationdev/hydration-os/internal/content"
	"github.com/hydrationdev/hydration-os/internal/dbtest"
	"github.com/hydrationdev/hydration-os/internal/events"
	"github.com/hydrationdev/hydration-os/internal/identity"
	"github.com/hydrationdev/hydration-os/internal/profiles"
	"github.com/hydrationdev/hydration-os/internal/subscriptions"
	"github.com/hydrationdev/hydration-os/pkg/auth"
	"github.com/hydrationdev/hydration-os/pkg/config"
	"github.com/hydrationdev/hydration-os/pkg/db"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	"github.com/hydrationdev/hydration-os/pkg/logger"
	"github.com/hydrationdev/hydration-os/pkg/metrics"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(context.Context) error {
	return s.err
}

type stubRedis struct {
	stubPinger
	counts map[string]int64
}

func (s *stubRedis) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[scope]++
	return s.counts[scope] <= limit, s.counts[scope], nil
}

// tokenVerifier accepts "token-<subject>" bearer tokens.
type tokenVerifier struct{}

func (tokenVerifier) Verify(_ context.Context, token string) (*auth.IdentityClaims, error) {
	subject, ok := strings.CutPrefix(token, "token-")
	if !ok || subject == "" {
		return nil, auth.ErrInvalidToken
	}
	email := subject + "@example.com"
	return &auth.IdentityClaims{Subject: subject, Email: &email}, nil
}

type testServer struct {
	handler http.Handler
	conn    *gorm.DB
	redis   *stubRedis
}

func newTestServer(t *testing.T, withOptional bool) *testServer {
	t.Helper()

	conn := dbtest.Open(t, withOptional)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	reg := prometheus.NewRegistry()
	obs := accessor.NewObserver(logg, metrics.NewAccessorMetrics(reg))

	profileSvc, err := profiles.NewService(profiles.ServiceParams{Repo: profiles.NewRepository(conn), Observer: obs})
	require.NoError(t, err)
	subscriptionSvc, err := subscriptions.NewService(subscriptions.ServiceParams{Repo: subscriptions.NewRepository(conn), Observer: obs})
	require.NoError(t, err)
	catalogSvc, err := catalog.NewService(catalog.ServiceParams{Repo: catalog.NewRepository(conn), Observer: obs})
	require.NoError(t, err)
	eventSvc, err := events.NewService(events.ServiceParams{Repo: events.NewRepository(conn), DB: db.Wrap(conn), Observer: obs})
	require.NoError(t, err)
	contentSvc, err := content.NewService(content.ServiceParams{Repo: content.NewRepository(conn), Observer: obs})
	require.NoError(t, err)
	accountSvc, err := account.NewService(account.ServiceParams{Subscriptions: subscriptionSvc, Catalog: catalogSvc})
	require.NoError(t, err)
	bridge, err := identity.NewBridge(identity.BridgeParams{Profiles: profileSvc, Logger: logg})
	require.NoError(t, err)

	redisStub := &stubRedis{}
	cfg := &config.Config{
		App:       config.AppConfig{Env: "test"},
		Identity:  config.IdentityConfig{SessionCookie: "__session"},
		RateLimit: config.RateLimitConfig{Window: time.Minute, WriteLimit: 3, WriteIPLimit: 100},
	}

	handler := NewRouter(Params{
		Config:        cfg,
		Logger:        logg,
		DB:            db.Wrap(conn),
		Redis:         redisStub,
		Verifier:      tokenVerifier{},
		Bridge:        bridge,
		Profiles:      profileSvc,
		Subscriptions: subscriptionSvc,
		Catalog:       catalogSvc,
		Events:        eventSvc,
		Content:       contentSvc,
		Account:       accountSvc,
		HTTPMetrics:   metrics.NewHTTPMetrics(reg),
		Gatherer:      reg,
	})
	return &testServer{handler: handler, conn: conn, redis: redisStub}
}

func (s *testServer) do(t *testing.T, method, path, subject, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if subject != "" {
		req.Header.Set("Authorization", "Bearer token-"+subject)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealthRoutes(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "test", rec.Header().Get("X-Hydration-Env"))

	rec = srv.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	srv.redis.err = errors.New("redis down")
	rec = srv.do(t, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"down"`)
}

func TestPublicRoutes(t *testing.T) {
	srv := newTestServer(t, true)

	rec := srv.do(t, http.MethodGet, "/api/public/ping", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, srv.conn.Create(&models.SubscriptionPlan{
		ID:           uuid.New(),
		Name:         "Basic",
		PriceMonthly: decimal.NewNullDecimal(decimal.RequireFromString("19.00")),
		IsActive:     true,
	}).Error)

	rec = srv.do(t, http.MethodGet, "/api/v1/plans", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var plans []catalog.PlanDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &plans))
	require.Len(t, plans, 1)
	assert.Equal(t, "19.00", *plans[0].PriceMonthly)

	rec = srv.do(t, http.MethodGet, "/api/v1/events?limit=500", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", string(decode(t, rec).Data))

	rec = srv.do(t, http.MethodGet, "/api/v1/events?limit=abc", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/events/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hydration_http_requests_total")
}

func TestCatalogRoutesWithoutOptionalTables(t *testing.T) {
	srv := newTestServer(t, false)

	for _, path := range []string{"/api/v1/events", "/api/v1/content"} {
		rec := srv.do(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, "[]", string(decode(t, rec).Data), path)
	}
}

func TestMeRequiresIdentity(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/v1/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer nope")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeCreatesProfileOnFirstAccessAndUpdates(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/v1/me", "user_1", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var profile profiles.ProfileDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &profile))
	assert.Equal(t, "user_1@example.com", profile.Email)
	assert.Equal(t, enums.ProfileRoleMember, profile.Role)
	assert.Equal(t, enums.ProfileStatusActive, profile.Status)

	rec = srv.do(t, http.MethodGet, "/api/v1/me", "user_1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var again profiles.ProfileDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &again))
	assert.Equal(t, profile.ID, again.ID)

	var count int64
	require.NoError(t, srv.conn.Model(&models.UserProfile{}).Where("external_id = ?", "user_1").Count(&count).Error)
	assert.EqualValues(t, 1, count)

	rec = srv.do(t, http.MethodPut, "/api/v1/me", "user_1", `{"first_name":"Ada","date_of_birth":"1990-04-02"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated profiles.ProfileDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &updated))
	require.NotNil(t, updated.FirstName)
	assert.Equal(t, "Ada", *updated.FirstName)
	require.NotNil(t, updated.DateOfBirth)
	assert.Equal(t, "1990-04-02", *updated.DateOfBirth)

	rec = srv.do(t, http.MethodPut, "/api/v1/me", "user_1", `{"role":"admin"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/me/subscription", "user_1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", string(decode(t, rec).Data))

	rec = srv.do(t, http.MethodGet, "/api/v1/me/account", "user_1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"subscription":{"state":"empty"`)
}

func TestWriteRoutesAreRateLimited(t *testing.T) {
	srv := newTestServer(t, false)

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		rec := srv.do(t, http.MethodPut, "/api/v1/me", "user_2", `{"first_name":"Grace"}`)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestMembersRequiresStaff(t *testing.T) {
	srv := newTestServer(t, false)

	rec := srv.do(t, http.MethodGet, "/api/v1/members", "user_3", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, srv.conn.Model(&models.UserProfile{}).
		Where("external_id = ?", "user_3").
		Update("role", enums.ProfileRoleStaff).Error)

	rec = srv.do(t, http.MethodGet, "/api/v1/members?limit=10", "user_3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list profiles.MemberListDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &list))
	require.Len(t, list.Members, 1)
	assert.Equal(t, "user_3@example.com", list.Members[0].Email)

	rec = srv.do(t, http.MethodGet, "/api/v1/members?role=owner", "user_3", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRSVPAndEngagementFlow(t *testing.T) {
	srv := newTestServer(t, true)

	event := models.Event{
		ID:        uuid.New(),
		Title:     "Cold plunge clinic",
		EventType: enums.EventTypeMemberOnly,
		StartDate: time.Now().UTC().Add(72 * time.Hour),
		Status:    enums.EventStatusPublished,
	}
	require.NoError(t, srv.conn.Create(&event).Error)
	published := time.Now().UTC().Add(-time.Hour)
	post := models.ContentPost{
		ID:          uuid.New(),
		Title:       "Recovery tips",
		ContentType: enums.ContentTypePost,
		Visibility:  enums.ContentVisibilityMembers,
		PublishedAt: &published,
	}
	require.NoError(t, srv.conn.Omit("Creator").Create(&post).Error)

	rsvpPath := "/api/v1/events/" + event.ID.String() + "/rsvp"
	rec := srv.do(t, http.MethodPost, rsvpPath, "user_4", `{"status":"attending","guest_count":1}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodPost, rsvpPath, "user_4", `{"status":"going"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodGet, "/api/v1/me/rsvps", "user_4", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var rsvps []events.RSVPDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &rsvps))
	require.Len(t, rsvps, 1)
	assert.Equal(t, 1, rsvps[0].GuestCount)
	require.NotNil(t, rsvps[0].Event)
	assert.Equal(t, event.ID, rsvps[0].Event.ID)

	rec = srv.do(t, http.MethodGet, "/api/v1/events/"+event.ID.String(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail catalog.EventDTO
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &detail))
	assert.EqualValues(t, 1, detail.RSVPCount)

	engagePath := "/api/v1/content/" + post.ID.String() + "/engagement"
	rec = srv.do(t, http.MethodPost, engagePath, "user_4", `{"type":"like"}`)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = srv.do(t, http.MethodPost, engagePath, "user_4", `{"type":"like"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodDelete, engagePath+"/like", "user_4", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = srv.do(t, http.MethodDelete, engagePath+"/like", "user_4", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
