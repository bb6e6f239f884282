package profiles

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/hydrationdev/hydration-os/internal/accessor"
	"github.com/hydrationdev/hydration-os/pkg/db"
	"github.com/hydrationdev/hydration-os/pkg/db/models"
	"github.com/hydrationdev/hydration-os/pkg/enums"
	pkgerrors "github.com/hydrationdev/hydration-os/pkg/errors"
	"github.com/hydrationdev/hydration-os/pkg/pagination"
	"github.com/hydrationdev/hydration-os/pkg/result"
	"github.com/hydrationdev/hydration-os/pkg/types"
)

var validate = validator.New()

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	Repo     Repository
	Observer *accessor.Observer
}

// Service reads and writes member profiles.
type Service struct {
	repo Repository
	obs  *accessor.Observer
}

// NewService builds a profile service.
func NewService(params ServiceParams) (*Service, error) {
	if params.Repo == nil {
		return nil, errors.New("repo is required")
	}
	return &Service{repo: params.Repo, obs: params.Observer}, nil
}

// UpsertInput identifies a profile by external id. Nil fields are neither
// inserted nor overwritten.
type UpsertInput struct {
	ExternalID string
	Email      *string
	FirstName  *string
	LastName   *string
	Phone      *string
	AvatarURL  *string
	Role       *enums.ProfileRole
	Status     *enums.ProfileStatus
}

// ProfileUpdate holds self-service edits. A blank string clears an optional
// column; a zero address or contact clears the jsonb value.
type ProfileUpdate struct {
	FirstName        *string
	LastName         *string
	Email            *string
	Phone            *string
	DateOfBirth      *time.Time
	Address          *types.ProfileAddress
	EmergencyContact *types.EmergencyContact
	Preferences      map[string]any
}

// ListMembersParams are raw directory filters as received from a caller.
type ListMembersParams struct {
	Role   string
	Status string
	Search string
	Limit  int
	Cursor string
}

type ListMembersResult struct {
	Members    []models.UserProfile
	NextCursor string
}

func (s *Service) GetProfile(ctx context.Context, externalID string) result.Result[*models.UserProfile] {
	call := s.obs.Start(ctx, "get_profile")
	return accessor.Finish(call, s.getProfile(call.Context(), externalID))
}

func (s *Service) getProfile(ctx context.Context, externalID string) result.Result[*models.UserProfile] {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return result.Failed[*models.UserProfile](pkgerrors.New(pkgerrors.CodeValidation, "external id is required"))
	}
	profile, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return result.Failed[*models.UserProfile](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup profile"))
	}
	if profile == nil {
		return result.Empty[*models.UserProfile]()
	}
	return result.OK(profile)
}

// UpsertProfile creates the profile for input.ExternalID or updates the
// provided fields of the existing one in a single statement.
func (s *Service) UpsertProfile(ctx context.Context, input UpsertInput) result.Result[*models.UserProfile] {
	call := s.obs.Start(ctx, "upsert_profile")
	return accessor.Finish(call, s.upsertProfile(call.Context(), input))
}

func (s *Service) upsertProfile(ctx context.Context, input UpsertInput) result.Result[*models.UserProfile] {
	profile, assign, err := buildUpsert(input)
	if err != nil {
		return result.Failed[*models.UserProfile](err)
	}
	stored, err := s.repo.Upsert(ctx, profile, assign)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return result.Failed[*models.UserProfile](pkgerrors.Wrap(pkgerrors.CodeConflict, err, "profile conflicts with an existing record"))
		}
		return result.Failed[*models.UserProfile](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upsert profile"))
	}
	if stored == nil {
		return result.Failed[*models.UserProfile](pkgerrors.New(pkgerrors.CodeDependency, "profile missing after upsert"))
	}
	return result.OK(stored)
}

func buildUpsert(input UpsertInput) (*models.UserProfile, []string, error) {
	externalID := strings.TrimSpace(input.ExternalID)
	if externalID == "" {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "external id is required")
	}

	profile := &models.UserProfile{
		ExternalID:  externalID,
		Role:        enums.ProfileRoleMember,
		Status:      enums.ProfileStatusActive,
		Preferences: datatypes.JSONMap{},
	}
	var assign []string

	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role").WithDetails(map[string]any{"role": input.Role.String()})
		}
		profile.Role = *input.Role
		assign = append(assign, "role")
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").WithDetails(map[string]any{"status": input.Status.String()})
		}
		profile.Status = *input.Status
		assign = append(assign, "status")
	}
	if input.Email != nil {
		profile.Email = strings.TrimSpace(*input.Email)
		assign = append(assign, "email")
	}
	if input.FirstName != nil {
		profile.FirstName = input.FirstName
		assign = append(assign, "first_name")
	}
	if input.LastName != nil {
		profile.LastName = input.LastName
		assign = append(assign, "last_name")
	}
	if input.Phone != nil {
		profile.Phone = input.Phone
		assign = append(assign, "phone")
	}
	if input.AvatarURL != nil {
		profile.AvatarURL = input.AvatarURL
		assign = append(assign, "avatar_url")
	}
	return profile, assign, nil
}

// UpdateProfile applies self-service edits to the profile with profileID.
func (s *Service) UpdateProfile(ctx context.Context, profileID uuid.UUID, update ProfileUpdate) result.Result[*models.UserProfile] {
	call := s.obs.Start(ctx, "update_profile")
	return accessor.Finish(call, s.updateProfile(call.Context(), profileID, update))
}

func (s *Service) updateProfile(ctx context.Context, profileID uuid.UUID, update ProfileUpdate) result.Result[*models.UserProfile] {
	if profileID == uuid.Nil {
		return result.Failed[*models.UserProfile](pkgerrors.New(pkgerrors.CodeValidation, "profile id is required"))
	}
	updates, err := buildUpdates(update)
	if err != nil {
		return result.Failed[*models.UserProfile](err)
	}

	found, err := s.repo.Update(ctx, profileID, updates)
	if err != nil {
		return result.Failed[*models.UserProfile](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile"))
	}
	if !found {
		return result.Empty[*models.UserProfile]()
	}
	profile, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		return result.Failed[*models.UserProfile](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload profile"))
	}
	if profile == nil {
		return result.Empty[*models.UserProfile]()
	}
	return result.OK(profile)
}

func buildUpdates(update ProfileUpdate) (map[string]any, error) {
	updates := map[string]any{}
	setOptional := func(column string, value *string) {
		if value == nil {
			return
		}
		if trimmed := strings.TrimSpace(*value); trimmed != "" {
			updates[column] = trimmed
		} else {
			updates[column] = nil
		}
	}
	setOptional("first_name", update.FirstName)
	setOptional("last_name", update.LastName)
	setOptional("phone", update.Phone)

	if update.Email != nil {
		email := strings.TrimSpace(*update.Email)
		if err := validate.Var(email, "required,email"); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email").WithDetails(map[string]any{"email": "must be a valid email"})
		}
		updates["email"] = email
	}
	if update.DateOfBirth != nil {
		updates["date_of_birth"] = update.DateOfBirth.UTC()
	}
	if update.Address != nil {
		if update.Address.IsZero() {
			updates["address"] = nil
		} else {
			updates["address"] = *update.Address
		}
	}
	if update.EmergencyContact != nil {
		if *update.EmergencyContact == (types.EmergencyContact{}) {
			updates["emergency_contact"] = nil
		} else {
			updates["emergency_contact"] = *update.EmergencyContact
		}
	}
	if update.Preferences != nil {
		updates["preferences"] = datatypes.JSONMap(update.Preferences)
	}

	if len(updates) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "no profile fields provided")
	}
	return updates, nil
}

// ListMembers pages through the member directory, newest first.
func (s *Service) ListMembers(ctx context.Context, params ListMembersParams) (*ListMembersResult, error) {
	call := s.obs.Start(ctx, "list_members")
	r := accessor.Finish(call, s.listMembers(call.Context(), params))
	if r.IsFailed() {
		return nil, r.Err
	}
	return r.Value, nil
}

func (s *Service) listMembers(ctx context.Context, params ListMembersParams) result.Result[*ListMembersResult] {
	query := ListQuery{
		Search: params.Search,
		Limit:  pagination.LimitWithBuffer(params.Limit),
	}
	if raw := strings.TrimSpace(params.Role); raw != "" {
		role, err := enums.ParseProfileRole(raw)
		if err != nil {
			return result.Failed[*ListMembersResult](pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role filter"))
		}
		query.Role = &role
	}
	if raw := strings.TrimSpace(params.Status); raw != "" {
		status, err := enums.ParseProfileStatus(raw)
		if err != nil {
			return result.Failed[*ListMembersResult](pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
		}
		query.Status = &status
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return result.Failed[*ListMembersResult](pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor"))
	}
	query.Cursor = cursor

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return result.Failed[*ListMembersResult](pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list members"))
	}
	page, more := pagination.Trim(rows, params.Limit)
	out := &ListMembersResult{Members: page}
	if more {
		last := page[len(page)-1]
		out.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result.OK(out)
}
