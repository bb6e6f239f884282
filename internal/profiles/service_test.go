package profiles

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/pagination"
	"github.com/hydrationdev/hydration-os/pkg/types"
)

type stubRepo struct {
	findByExternalFn func(ctx context.Context, externalID string) (*models.UserProfile, error)
	findByIDFn       func(ctx context.Context, id uuid.UUID) (*models.UserProfile, error)
	upsertFn         func(ctx context.Context, profile *models.UserProfile, assign []string) (*models.UserProfile, error)
	updateFn         func(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error)
	listFn           func(ctx context.Context, query ListQuery) ([]models.UserProfile, error)
}

func (s *stubRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepo) FindByExternalID(ctx context.Context, externalID string) (*models.UserProfile, error) {
	if s.findByExternalFn != nil {
		return s.findByExternalFn(ctx, externalID)
	}
	return nil, nil
}

func (s *stubRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.UserProfile, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, nil
}

func (s *stubRepo) Upsert(ctx context.Context, profile *models.UserProfile, assign []string) (*models.UserProfile, error) {
	if s.upsertFn != nil {
		return s.upsertFn(ctx, profile, assign)
	}
	return profile, nil
}

func (s *stubRepo) Update(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error) {
	if s.updateFn != nil {
		return s.updateFn(ctx, id, updates)
	}
	return true, nil
}

func (s *stubRepo) List(ctx context.Context, query ListQuery) ([]models.UserProfile, error) {
	if s.listFn != nil {
		return s.listFn(ctx, query)
	}
	return nil, nil
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: repo})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestNewServiceRequiresRepo(t *testing.T) {
	if _, err := NewService(ServiceParams{}); err == nil {
		t.Fatal("expected error without repo")
	}
}

func TestGetProfileStates(t *testing.T) {
	existing := &models.UserProfile{ID: uuid.New(), ExternalID: "user_1"}
	svc := newTestService(t, &stubRepo{
		findByExternalFn: func(ctx context.Context, externalID string) (*models.UserProfile, error) {
			switch externalID {
			case "user_1":
				return existing, nil
			case "user_broken":
				return nil, errors.New("connection refused")
			}
			return nil, nil
		},
	})
	ctx := context.Background()

	if r := svc.GetProfile(ctx, "user_1"); !r.IsOK() || r.Value != existing {
		t.Fatalf("expected ok with existing profile, got %+v", r)
	}
	if r := svc.GetProfile(ctx, "user_new"); !r.IsEmpty() || r.Value != nil {
		t.Fatalf("expected empty, got %+v", r)
	}
	r := svc.GetProfile(ctx, "user_broken")
	if !r.IsFailed() || !pkgerrors.IsCode(r.Err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency failure, got %+v", r)
	}
	r = svc.GetProfile(ctx, "  ")
	if !r.IsFailed() || !pkgerrors.IsCode(r.Err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation failure for blank id, got %+v", r)
	}
}

func TestUpsertProfileAppliesDefaultsAndAssignsOnlyProvided(t *testing.T) {
	var gotAssign []string
	var gotProfile *models.UserProfile
	svc := newTestService(t, &stubRepo{
		upsertFn: func(ctx context.Context, profile *models.UserProfile, assign []string) (*models.UserProfile, error) {
			gotProfile, gotAssign = profile, assign
			return profile, nil
		},
	})
	first := "A"
	r := svc.UpsertProfile(context.Background(), UpsertInput{ExternalID: " user_1 ", FirstName: &first})
	if !r.IsOK() {
		t.Fatalf("expected ok, got %+v", r)
	}
	if gotProfile.ExternalID != "user_1" {
		t.Fatalf("expected trimmed external id, got %q", gotProfile.ExternalID)
	}
	if gotProfile.Role != enums.ProfileRoleMember || gotProfile.Status != enums.ProfileStatusActive {
		t.Fatalf("expected member/active defaults, got %s/%s", gotProfile.Role, gotProfile.Status)
	}
	if gotProfile.Email != "" || gotProfile.Preferences == nil {
		t.Fatalf("expected blank email and empty preferences, got %q %v", gotProfile.Email, gotProfile.Preferences)
	}
	if len(gotAssign) != 1 || gotAssign[0] != "first_name" {
		t.Fatalf("expected only first_name assigned, got %v", gotAssign)
	}
}

func TestUpsertProfileRejectsInvalidRoleBeforeWrite(t *testing.T) {
	called := false
	svc := newTestService(t, &stubRepo{
		upsertFn: func(ctx context.Context, profile *models.UserProfile, assign []string) (*models.UserProfile, error) {
			called = true
			return profile, nil
		},
	})
	role := enums.ProfileRole("owner")
	r := svc.UpsertProfile(context.Background(), UpsertInput{ExternalID: "user_1", Role: &role})
	if !r.IsFailed() || !pkgerrors.IsCode(r.Err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation failure, got %+v", r)
	}
	if called {
		t.Fatal("repository must not be called for invalid input")
	}
}

func TestUpsertProfileMapsUniqueViolationToConflict(t *testing.T) {
	svc := newTestService(t, &stubRepo{
		upsertFn: func(ctx context.Context, profile *models.UserProfile, assign []string) (*models.UserProfile, error) {
			return nil, errors.New("UNIQUE constraint failed: user_profiles.email")
		},
	})
	r := svc.UpsertProfile(context.Background(), UpsertInput{ExternalID: "user_1"})
	if !r.IsFailed() || !pkgerrors.IsCode(r.Err, pkgerrors.CodeConflict) {
		t.Fatalf("expected conflict failure, got %+v", r)
	}
	if r.Value != nil {
		t.Fatal("failed result must not carry a profile")
	}
}

func TestUpdateProfileBuildsColumnUpdates(t *testing.T) {
	id := uuid.New()
	var got map[string]any
	svc := newTestService(t, &stubRepo{
		updateFn: func(ctx context.Context, gotID uuid.UUID, updates map[string]any) (bool, error) {
			if gotID != id {
				t.Fatalf("unexpected id %s", gotID)
			}
			got = updates
			return true, nil
		},
		findByIDFn: func(ctx context.Context, gotID uuid.UUID) (*models.UserProfile, error) {
			return &models.UserProfile{ID: gotID}, nil
		},
	})
	blank := ""
	email := "new@example.com"
	dob := time.Date(1990, 5, 17, 0, 0, 0, 0, time.UTC)
	r := svc.UpdateProfile(context.Background(), id, ProfileUpdate{
		LastName:    &blank,
		Email:       &email,
		DateOfBirth: &dob,
		Address:     &types.ProfileAddress{},
		Preferences: map[string]any{"sms": false},
	})
	if !r.IsOK() {
		t.Fatalf("expected ok, got %+v", r)
	}
	if v, ok := got["last_name"]; !ok || v != nil {
		t.Fatalf("expected last_name cleared, got %v", v)
	}
	if got["email"] != email {
		t.Fatalf("expected email update, got %v", got["email"])
	}
	if v, ok := got["address"]; !ok || v != nil {
		t.Fatalf("expected zero address to clear column, got %v", v)
	}
	if _, ok := got["first_name"]; ok {
		t.Fatal("first_name was not provided and must not be updated")
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	bad := "not-an-email"
	cases := map[string]ProfileUpdate{
		"empty":     {},
		"bad email": {Email: &bad},
	}
	for name, update := range cases {
		r := svc.UpdateProfile(context.Background(), uuid.New(), update)
		if !r.IsFailed() || !pkgerrors.IsCode(r.Err, pkgerrors.CodeValidation) {
			t.Fatalf("%s: expected validation failure, got %+v", name, r)
		}
	}
}

func TestUpdateProfileUnknownIsEmpty(t *testing.T) {
	svc := newTestService(t, &stubRepo{
		updateFn: func(ctx context.Context, id uuid.UUID, updates map[string]any) (bool, error) {
			return false, nil
		},
	})
	phone := "555"
	if r := svc.UpdateProfile(context.Background(), uuid.New(), ProfileUpdate{Phone: &phone}); !r.IsEmpty() {
		t.Fatalf("expected empty for unknown profile, got %+v", r)
	}
}

func TestListMembersReturnsCursor(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := []models.UserProfile{
		{ID: uuid.New(), CreatedAt: base.Add(3 * time.Hour)},
		{ID: uuid.New(), CreatedAt: base.Add(2 * time.Hour)},
		{ID: uuid.New(), CreatedAt: base.Add(1 * time.Hour)},
	}
	svc := newTestService(t, &stubRepo{
		listFn: func(ctx context.Context, query ListQuery) ([]models.UserProfile, error) {
			if query.Limit != 3 {
				t.Fatalf("expected buffered limit 3, got %d", query.Limit)
			}
			if query.Role == nil || *query.Role != enums.ProfileRoleStaff {
				t.Fatalf("expected staff role filter, got %v", query.Role)
			}
			return rows, nil
		},
	})
	res, err := svc.ListMembers(context.Background(), ListMembersParams{Role: "staff", Limit: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(res.Members))
	}
	cursor, err := pagination.ParseCursor(res.NextCursor)
	if err != nil || cursor == nil {
		t.Fatalf("expected next cursor, got %q (%v)", res.NextCursor, err)
	}
	if cursor.ID != rows[1].ID {
		t.Fatalf("cursor should point at last returned row")
	}
}

func TestListMembersRejectsBadFilters(t *testing.T) {
	svc := newTestService(t, &stubRepo{})
	for _, params := range []ListMembersParams{
		{Role: "owner"},
		{Status: "deleted"},
		{Cursor: "%%%"},
	} {
		_, err := svc.ListMembers(context.Background(), params)
		if err == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
			t.Fatalf("expected validation error for %+v, got %v", params, err)
		}
	}
}
