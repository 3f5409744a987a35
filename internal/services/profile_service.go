package services

import (
	"context"
	"sync"
	"time"

	"github.com/vytor/menuflash/internal/errors"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/repository"
	"github.com/vytor/menuflash/internal/state"
)

// ProfileService handles the user profile, practice test history and resets
type ProfileService interface {
	GetProfile(ctx context.Context) (models.UserProfile, error)
	// Update applies a reducer to the stored profile and saves the result.
	Update(ctx context.Context, reduce func(models.UserProfile) models.UserProfile) (models.UserProfile, error)
	UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.UserProfile, error)
	RecordPracticeTest(ctx context.Context, test models.PracticeTest) (models.PracticeTest, error)
	PracticeTests(ctx context.Context, limit int) ([]models.PracticeTest, error)
	ResetProgress(ctx context.Context) error
}

type profileService struct {
	profileRepo      repository.ProfileRepository
	progressRepo     repository.ProgressRepository
	practiceTestRepo repository.PracticeTestRepository
	now              func() time.Time

	// mu makes every profile read-modify-write atomic.
	mu sync.Mutex
}

// NewProfileService creates a new ProfileService
func NewProfileService(profileRepo repository.ProfileRepository, progressRepo repository.ProgressRepository, practiceTestRepo repository.PracticeTestRepository) ProfileService {
	return &profileService{
		profileRepo:      profileRepo,
		progressRepo:     progressRepo,
		practiceTestRepo: practiceTestRepo,
		now:              time.Now,
	}
}

func (s *profileService) load(ctx context.Context) (models.UserProfile, error) {
	p, err := s.profileRepo.Get(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	if p == nil {
		return state.DefaultProfile(), nil
	}
	return *p, nil
}

func (s *profileService) GetProfile(ctx context.Context) (models.UserProfile, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting profile")

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx)
	if err != nil {
		log.Error("failed to get profile: %v", err)
		return models.UserProfile{}, errors.NewInternalError(err)
	}
	return p, nil
}

func (s *profileService) Update(ctx context.Context, reduce func(models.UserProfile) models.UserProfile) (models.UserProfile, error) {
	log := logger.FromContext(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.load(ctx)
	if err != nil {
		log.Error("failed to load profile: %v", err)
		return models.UserProfile{}, errors.NewInternalError(err)
	}

	next := reduce(current)
	next.UpdatedAt = s.now()
	if err := s.profileRepo.Save(ctx, next); err != nil {
		log.Error("failed to save profile: %v", err)
		return models.UserProfile{}, errors.NewInternalError(err)
	}

	if next.Level > current.Level {
		log.Info("level up: %d -> %d", current.Level, next.Level)
	}
	return next, nil
}

func (s *profileService) UpdateSettings(ctx context.Context, patch models.SettingsPatch) (models.UserProfile, error) {
	logger.FromContext(ctx).Debug("updating settings")

	if patch.HintLevel != nil && !state.ValidHintLevel(*patch.HintLevel) {
		return models.UserProfile{}, errors.NewValidationError("hint_level", "must be one of none, low, medium, high")
	}
	return s.Update(ctx, func(p models.UserProfile) models.UserProfile {
		return state.UpdateSettings(p, patch)
	})
}

func (s *profileService) RecordPracticeTest(ctx context.Context, test models.PracticeTest) (models.PracticeTest, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording practice test: score=%d", test.Score)

	id, err := s.practiceTestRepo.Insert(ctx, test)
	if err != nil {
		log.Error("failed to record practice test: %v", err)
		return models.PracticeTest{}, errors.NewInternalError(err)
	}
	test.ID = id
	return test, nil
}

func (s *profileService) PracticeTests(ctx context.Context, limit int) ([]models.PracticeTest, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing practice tests: limit=%d", limit)

	if limit < 0 {
		return nil, errors.NewValidationError("limit", "cannot be negative")
	}
	tests, err := s.practiceTestRepo.List(ctx, limit)
	if err != nil {
		log.Error("failed to list practice tests: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return tests, nil
}

// ResetProgress restores the default profile and drops all item progress
// and practice tests.
func (s *profileService) ResetProgress(ctx context.Context) error {
	log := logger.FromContext(ctx)
	log.Info("resetting all progress")

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.progressRepo.DeleteAll(ctx); err != nil {
		log.Error("failed to delete progress: %v", err)
		return errors.NewInternalError(err)
	}
	if err := s.practiceTestRepo.DeleteAll(ctx); err != nil {
		log.Error("failed to delete practice tests: %v", err)
		return errors.NewInternalError(err)
	}
	fresh := state.DefaultProfile()
	fresh.UpdatedAt = s.now()
	if err := s.profileRepo.Save(ctx, fresh); err != nil {
		log.Error("failed to save default profile: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}
