// Package mastery classifies attempt histories into mastery tiers and folds
// new attempts into an item's progress.
package mastery

import "github.com/vytor/menuflash/internal/models"

// RecentWindow is how many trailing attempts count as recent performance.
const RecentWindow = 5

// Classify returns the mastery tier for one component's attempt history.
// Gates are checked strongest first.
func Classify(history []models.AttemptRecord) models.Status {
	attempts := len(history)
	if attempts == 0 {
		return models.StatusNew
	}

	accuracy := accuracyOf(history)
	recentAccuracy := accuracyOf(history[attempts-min(RecentWindow, attempts):])

	switch {
	case accuracy >= 0.9 && attempts >= 3 && recentAccuracy >= 0.8:
		return models.StatusMastered
	case accuracy >= 0.7 && attempts >= 2:
		return models.StatusConfident
	default:
		return models.StatusLearning
	}
}

// Weakest returns the lowest-priority tier across every component of p, or
// StatusNew when p has no components.
func Weakest(p *models.ItemProgress) models.Status {
	if p == nil {
		return models.StatusNew
	}
	weakest, found := models.StatusNew, false
	for _, c := range p.Components {
		if c == nil {
			continue
		}
		if s := Classify(c.History); !found || s.Priority() < weakest.Priority() {
			weakest, found = s, true
		}
	}
	return weakest
}

func accuracyOf(history []models.AttemptRecord) float64 {
	if len(history) == 0 {
		return 0
	}
	correct := 0
	for _, h := range history {
		if h.Correct {
			correct++
		}
	}
	return float64(correct) / float64(len(history))
}
