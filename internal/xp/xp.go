// Package xp computes answer rewards and maps cumulative experience to levels.
package xp

import (
	"math"

	"github.com/vytor/menuflash/internal/models"
)

const (
	BaseReward       = 10
	SpeedBonus       = 2
	SpeedThresholdMs = 5000

	// FlashcardKnownXP is awarded when a flashcard is self-graded as known.
	FlashcardKnownXP = 8
)

// Practice tests reward attempts too, and scale linearly with the streak.
const (
	PracticeCorrectXP    = 10
	PracticeIncorrectXP  = 5
	PracticeStreakFactor = 2
	PracticeSpeedBonus   = 5
)

var streakBonuses = []struct {
	minStreak int
	bonus     int
}{
	{3, 5},
	{5, 5},
	{10, 10},
}

// ForLevel is the XP needed to clear level.
func ForLevel(level int) int {
	return int(math.Floor(100 * math.Pow(1.15, float64(level-1))))
}

type LevelInfo struct {
	Level          int `json:"level"`
	CurrentLevelXP int `json:"current_level_xp"`
	XPToNextLevel  int `json:"xp_to_next_level"`
}

// LevelFromXP converts cumulative XP to a level and the progress within it.
func LevelFromXP(total int) LevelInfo {
	level := 1
	floor := 0
	next := ForLevel(1)
	for total >= next {
		level++
		floor = next
		next += ForLevel(level)
	}
	return LevelInfo{
		Level:          level,
		CurrentLevelXP: total - floor,
		XPToNextLevel:  next - floor,
	}
}

// RewardForAnswer returns the XP for one graded answer. Streak bonuses stack.
func RewardForAnswer(correct bool, streak, responseTimeMs int) int {
	if !correct {
		return 0
	}
	reward := BaseReward
	for _, b := range streakBonuses {
		if streak >= b.minStreak {
			reward += b.bonus
		}
	}
	if responseTimeMs < SpeedThresholdMs {
		reward += SpeedBonus
	}
	return reward
}

// PracticeTestReward returns the XP for one practice test question. Wrong
// answers still earn the base; a negative streak counts as zero.
func PracticeTestReward(correct bool, streak, responseTimeMs int) int {
	reward := PracticeIncorrectXP
	if correct {
		reward = PracticeCorrectXP
	}
	reward += PracticeStreakFactor * max(streak, 0)
	if responseTimeMs < SpeedThresholdMs {
		reward += PracticeSpeedBonus
	}
	return reward
}

// CompletionBonus is awarded once when a session of mode is finished.
// Quick-fire and practice tests have none.
func CompletionBonus(mode models.StudyMode) int {
	switch mode {
	case models.ModeFillBlank, models.ModeCustomerQuestions:
		return 50
	case models.ModeFlashcard, models.ModeMultipleChoice:
		return 40
	default:
		return 0
	}
}
