package services

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/vytor/timestables/internal/errors"
	"github.com/vytor/timestables/internal/logger"
	"github.com/vytor/timestables/internal/models"
	"github.com/vytor/timestables/internal/repository"
	"github.com/vytor/timestables/internal/rewards"
	"github.com/vytor/timestables/internal/store"
)

// ProfileService handles profile-related business logic
type ProfileService interface {
	ListProfiles(ctx context.Context) ([]models.Profile, error)
	CreateProfile(ctx context.Context, name, theme, gender string) (*models.Profile, error)
	GetProfile(ctx context.Context, id int64) (*models.Profile, error)
	UpdateSettings(ctx context.Context, id int64, theme, gender string) (*models.Profile, error)
	DeleteProfile(ctx context.Context, id int64) error
}

type profileService struct {
	profileRepo  repository.ProfileRepository
	progressRepo repository.ProgressRepository
	stores       *store.Registry
	defaultTheme rewards.Theme
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, progressRepo repository.ProgressRepository, stores *store.Registry, defaultTheme rewards.Theme) ProfileService {
	return &profileService{
		profileRepo:  profileRepo,
		progressRepo: progressRepo,
		stores:       stores,
		defaultTheme: defaultTheme,
	}
}

func (s *profileService) ListProfiles(ctx context.Context) ([]models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing profiles")

	profiles, err := s.profileRepo.List(ctx)
	if err != nil {
		log.Error("failed to list profiles: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return profiles, nil
}

// normalizeSettings validates theme and canonicalises gender. An empty
// theme means the configured default.
func (s *profileService) normalizeSettings(theme, gender string) (string, string, error) {
	t := s.defaultTheme
	if strings.TrimSpace(theme) != "" {
		parsed, ok := rewards.ParseTheme(theme)
		if !ok {
			return "", "", errors.NewValidationError("theme", "must be space, heroes or animals")
		}
		t = parsed
	}
	return t.String(), rewards.ParseGender(gender).String(), nil
}

func (s *profileService) CreateProfile(ctx context.Context, name, theme, gender string) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	name = strings.TrimSpace(name)
	log.Debug("creating profile: name=%s, theme=%s", name, theme)

	if name == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	theme, gender, err := s.normalizeSettings(theme, gender)
	if err != nil {
		return nil, err
	}

	profile, err := s.profileRepo.Create(ctx, models.Profile{Name: name, Theme: theme, Gender: gender})
	if stderrors.Is(err, repository.ErrDuplicate) {
		return nil, errors.NewConflictError("a profile named " + name + " already exists")
	}
	if err != nil {
		log.Error("failed to create profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("profile created: id=%d", profile.ID)
	return profile, nil
}

func (s *profileService) GetProfile(ctx context.Context, id int64) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile: id=%d", id)

	profile, err := s.profileRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return nil, errors.NewInternalError(err)
	}

	if profile == nil {
		return nil, errors.NewNotFoundError("profile", id)
	}

	return profile, nil
}

func (s *profileService) UpdateSettings(ctx context.Context, id int64, theme, gender string) (*models.Profile, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating profile settings: id=%d, theme=%s, gender=%s", id, theme, gender)

	theme, gender, err := s.normalizeSettings(theme, gender)
	if err != nil {
		return nil, err
	}

	err = s.profileRepo.UpdateSettings(ctx, id, theme, gender)
	if stderrors.Is(err, repository.ErrNotFound) {
		return nil, errors.NewNotFoundError("profile", id)
	}
	if err != nil {
		log.Error("failed to update profile settings: %v", err)
		return nil, errors.NewInternalError(err)
	}

	return s.GetProfile(ctx, id)
}

// DeleteProfile removes the profile, its challenge history and its reward
// progress, and drops any loaded reward state.
func (s *profileService) DeleteProfile(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)
	log.Debug("deleting profile: id=%d", id)

	if _, err := s.GetProfile(ctx, id); err != nil {
		return err
	}

	if err := s.profileRepo.Delete(ctx, id); err != nil {
		log.Error("failed to delete profile: %v", err)
		return errors.NewInternalError(err)
	}

	owner := models.ProfileOwner(id)
	s.stores.Forget(owner)
	if err := s.progressRepo.Delete(ctx, owner); err != nil {
		log.Error("failed to delete progress for %s: %v", owner, err)
		return errors.NewInternalError(err)
	}

	log.Info("profile deleted: id=%d", id)
	return nil
}
