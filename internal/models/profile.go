package models

import "time"

type HintLevel string

const (
	HintNone   HintLevel = "none"
	HintLow    HintLevel = "low"
	HintMedium HintLevel = "medium"
	HintHigh   HintLevel = "high"
)

type Settings struct {
	DarkMode     bool      `json:"dark_mode"`
	SoundEffects bool      `json:"sound_effects"`
	AutoAdvance  bool      `json:"auto_advance"`
	TimerEnabled bool      `json:"timer_enabled"`
	HintLevel    HintLevel `json:"hint_level"`
}

// SettingsPatch carries optional settings changes; nil fields are left alone.
type SettingsPatch struct {
	DarkMode     *bool      `json:"dark_mode,omitempty"`
	SoundEffects *bool      `json:"sound_effects,omitempty"`
	AutoAdvance  *bool      `json:"auto_advance,omitempty"`
	TimerEnabled *bool      `json:"timer_enabled,omitempty"`
	HintLevel    *HintLevel `json:"hint_level,omitempty"`
}

type StudyStats struct {
	TotalStudyTimeMs     int64 `json:"total_study_time_ms"`
	SessionsCompleted    int   `json:"sessions_completed"`
	AverageSessionTimeMs int64 `json:"average_session_time_ms"`
}

type UserProfile struct {
	Level                  int        `json:"level"`
	XP                     int        `json:"xp"`
	XPToNextLevel          int        `json:"xp_to_next_level"`
	StreakDays             int        `json:"streak_days"`
	LastStudyDate          string     `json:"last_study_date"` // YYYY-MM-DD, empty before the first session
	CurrentSessionStreak   int        `json:"current_session_streak"`
	BestEverStreak         int        `json:"best_ever_streak"`
	TotalQuestionsAnswered int        `json:"total_questions_answered"`
	Achievements           []string   `json:"achievements"`
	Settings               Settings   `json:"settings"`
	Stats                  StudyStats `json:"stats"`
	UpdatedAt              time.Time  `json:"updated_at"`
}

func (p UserProfile) HasAchievement(id string) bool {
	for _, a := range p.Achievements {
		if a == id {
			return true
		}
	}
	return false
}

type PracticeTest struct {
	ID             int64     `json:"id"`
	TakenAt        time.Time `json:"taken_at"`
	Score          int       `json:"score"` // percent
	TotalQuestions int       `json:"total_questions"`
	CorrectAnswers int       `json:"correct_answers"`
	TimeMs         int64     `json:"time_ms"`
	WeakAreas      []string  `json:"weak_areas"`
}
