package services

import (
	"context"
	"time"

	"github.com/vytor/menuflash/internal/achievements"
	"github.com/vytor/menuflash/internal/content"
	"github.com/vytor/menuflash/internal/errors"
	"github.com/vytor/menuflash/internal/logger"
	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/repository"
	"github.com/vytor/menuflash/internal/state"
	"github.com/vytor/menuflash/internal/study"
)

// AchievementStatus is one badge as shown to the user.
type AchievementStatus struct {
	achievements.Achievement
	Unlocked bool `json:"unlocked"`
	Progress int  `json:"progress"`
}

// AchievementService evaluates and unlocks achievements
type AchievementService interface {
	List(ctx context.Context) ([]AchievementStatus, error)
	// Evaluate unlocks every achievement earned so far, judging session-scoped
	// badges on session when it is not nil. It returns the new unlocks.
	Evaluate(ctx context.Context, session *models.StudySession, now time.Time) ([]achievements.Achievement, error)
}

type achievementService struct {
	profiles         ProfileService
	progressRepo     repository.ProgressRepository
	practiceTestRepo repository.PracticeTestRepository
	menu             *content.Source
}

// NewAchievementService creates a new AchievementService
func NewAchievementService(profiles ProfileService, progressRepo repository.ProgressRepository, practiceTestRepo repository.PracticeTestRepository, menu *content.Source) AchievementService {
	return &achievementService{
		profiles:         profiles,
		progressRepo:     progressRepo,
		practiceTestRepo: practiceTestRepo,
		menu:             menu,
	}
}

// snapshot gathers everything but the profile, which callers fill in.
func (s *achievementService) snapshot(ctx context.Context, session *models.StudySession, now time.Time) (achievements.Snapshot, error) {
	list, err := s.progressRepo.List(ctx, models.ProgressFilter{})
	if err != nil {
		return achievements.Snapshot{}, err
	}
	progress := make(map[string]*models.ItemProgress, len(list))
	for _, p := range list {
		progress[p.ItemID] = p
	}

	tests, err := s.practiceTestRepo.List(ctx, 0)
	if err != nil {
		return achievements.Snapshot{}, err
	}
	best := -1
	for _, t := range tests {
		best = max(best, t.Score)
	}

	snap := achievements.Snapshot{BestTestScore: best}
	snap.CategoryMastery, snap.MenuMastery = achievements.MasteryPercent(s.menu.Catalog().Items(), progress)

	if session != nil {
		snap.SessionCorrect = session.Score
		snap.FastestCorrectMs, _ = study.FastestCorrectMs(session)
		for _, o := range session.Outcomes {
			if !o.Skipped {
				snap.SessionAnswered++
			}
		}
		snap.SessionElapsed = now.Sub(session.StartedAt)
		snap.MasteredInSession = len(session.MasteredItems)
	}
	return snap, nil
}

func (s *achievementService) List(ctx context.Context) ([]AchievementStatus, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing achievements")

	profile, err := s.profiles.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, nil, time.Now())
	if err != nil {
		log.Error("failed to build achievement snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}
	snap.Profile = profile

	all := achievements.All()
	out := make([]AchievementStatus, len(all))
	for i, a := range all {
		unlocked := profile.HasAchievement(a.ID)
		progress := min(achievements.Progress(a.ID, snap), a.Target)
		if unlocked {
			progress = a.Target
		}
		out[i] = AchievementStatus{Achievement: a, Unlocked: unlocked, Progress: progress}
	}
	return out, nil
}

func (s *achievementService) Evaluate(ctx context.Context, session *models.StudySession, now time.Time) ([]achievements.Achievement, error) {
	log := logger.FromContext(ctx)

	snap, err := s.snapshot(ctx, session, now)
	if err != nil {
		log.Error("failed to build achievement snapshot: %v", err)
		return nil, errors.NewInternalError(err)
	}

	// Cheap read first so most answers skip the profile write.
	profile, err := s.profiles.GetProfile(ctx)
	if err != nil {
		return nil, err
	}
	snap.Profile = profile
	if len(achievements.Evaluate(snap, profile.Achievements)) == 0 {
		return nil, nil
	}

	var earned []string
	_, err = s.profiles.Update(ctx, func(p models.UserProfile) models.UserProfile {
		snap.Profile = p
		earned = achievements.Evaluate(snap, p.Achievements)
		for _, id := range earned {
			p = state.UnlockAchievement(p, id)
		}
		return p
	})
	if err != nil {
		return nil, err
	}

	unlocked := make([]achievements.Achievement, 0, len(earned))
	for _, id := range earned {
		a, _ := achievements.Lookup(id)
		log.Info("achievement unlocked: %s", a.Name)
		unlocked = append(unlocked, a)
	}
	return unlocked, nil
}
