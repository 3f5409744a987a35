// Package state holds the reducers that move the user profile from one
// snapshot to the next. Callers own persistence.
package state

import (
	"slices"
	"time"

	"github.com/vytor/menuflash/internal/models"
	"github.com/vytor/menuflash/internal/xp"
)

// DateLayout is the calendar-day format stored in LastStudyDate.
const DateLayout = time.DateOnly

// DefaultProfile is the profile of a user who has never studied.
func DefaultProfile() models.UserProfile {
	return models.UserProfile{
		Level:         1,
		XP:            0,
		XPToNextLevel: xp.ForLevel(1),
		Achievements:  []string{},
		Settings:      DefaultSettings(),
	}
}

func DefaultSettings() models.Settings {
	return models.Settings{
		DarkMode:     true,
		SoundEffects: false,
		AutoAdvance:  true,
		TimerEnabled: false,
		HintLevel:    models.HintMedium,
	}
}

// AddXP adds amount and recomputes the level fields.
func AddXP(p models.UserProfile, amount int) models.UserProfile {
	p.XP += amount
	info := xp.LevelFromXP(p.XP)
	p.Level = info.Level
	p.XPToNextLevel = info.XPToNextLevel
	return p
}

func IncrementStreak(p models.UserProfile) models.UserProfile {
	p.CurrentSessionStreak++
	p.BestEverStreak = max(p.BestEverStreak, p.CurrentSessionStreak)
	return p
}

func ResetSessionStreak(p models.UserProfile) models.UserProfile {
	p.CurrentSessionStreak = 0
	return p
}

// CountQuestion bumps the lifetime answered counter.
func CountQuestion(p models.UserProfile) models.UserProfile {
	p.TotalQuestionsAnswered++
	return p
}

// CheckDailyStreak updates the consecutive-day streak for a study session
// starting at now. Days are calendar days in now's location.
func CheckDailyStreak(p models.UserProfile, now time.Time) models.UserProfile {
	today := now.Format(DateLayout)

	switch p.LastStudyDate {
	case "":
		p.StreakDays = 1
	case today:
		return p
	case now.AddDate(0, 0, -1).Format(DateLayout):
		p.StreakDays++
	default:
		p.StreakDays = 1
	}
	p.LastStudyDate = today
	return p
}

// UnlockAchievement adds id once; unlocking twice is a no-op.
func UnlockAchievement(p models.UserProfile, id string) models.UserProfile {
	if p.HasAchievement(id) {
		return p
	}
	p.Achievements = append(slices.Clone(p.Achievements), id)
	return p
}

// UpdateSettings applies the non-nil fields of patch.
func UpdateSettings(p models.UserProfile, patch models.SettingsPatch) models.UserProfile {
	s := &p.Settings
	if patch.DarkMode != nil {
		s.DarkMode = *patch.DarkMode
	}
	if patch.SoundEffects != nil {
		s.SoundEffects = *patch.SoundEffects
	}
	if patch.AutoAdvance != nil {
		s.AutoAdvance = *patch.AutoAdvance
	}
	if patch.TimerEnabled != nil {
		s.TimerEnabled = *patch.TimerEnabled
	}
	if patch.HintLevel != nil {
		s.HintLevel = *patch.HintLevel
	}
	return p
}

// EndSession folds a finished session's duration into the study stats.
func EndSession(stats models.StudyStats, duration time.Duration) models.StudyStats {
	ms := max(duration.Milliseconds(), 0)
	stats.TotalStudyTimeMs += ms
	stats.SessionsCompleted++
	stats.AverageSessionTimeMs = stats.TotalStudyTimeMs / int64(stats.SessionsCompleted)
	return stats
}

// ValidHintLevel reports whether h is one of the known hint levels.
func ValidHintLevel(h models.HintLevel) bool {
	switch h {
	case models.HintNone, models.HintLow, models.HintMedium, models.HintHigh:
		return true
	}
	return false
}
