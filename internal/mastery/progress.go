package mastery

import (
	"time"

	"github.com/vytor/menuflash/internal/models"
)

// NewItemProgress returns the state of an item that has never been answered.
func NewItemProgress(itemID string) *models.ItemProgress {
	return &models.ItemProgress{
		ItemID:     itemID,
		Status:     models.StatusNew,
		Components: map[string]*models.ComponentProgress{},
	}
}

// RecordAttempt folds one answer into progress and returns the updated copy.
// A nil progress is treated as the item's first encounter; the input is never mutated.
func RecordAttempt(progress *models.ItemProgress, itemID, componentID string, correct bool, responseTimeMs int, now time.Time) *models.ItemProgress {
	next := progress.Clone()
	if next == nil {
		next = NewItemProgress(itemID)
	}
	if next.Components == nil {
		next.Components = map[string]*models.ComponentProgress{}
	}

	comp, ok := next.Components[componentID]
	if !ok {
		comp = &models.ComponentProgress{}
		next.Components[componentID] = comp
	}

	comp.History = append(comp.History, models.AttemptRecord{
		Timestamp:      now,
		Correct:        correct,
		ResponseTimeMs: responseTimeMs,
	})
	if over := len(comp.History) - models.MaxHistory; over > 0 {
		comp.History = append([]models.AttemptRecord(nil), comp.History[over:]...)
	}
	comp.Attempts++
	if correct {
		comp.Correct++
	}
	comp.LastSeen = now

	next.OverallAccuracy = OverallAccuracy(next)
	next.Status = Weakest(next)
	next.UpdatedAt = now
	return next
}

// OverallAccuracy is total correct over total attempts across components.
func OverallAccuracy(p *models.ItemProgress) float64 {
	attempts, correct := 0, 0
	for _, c := range p.Components {
		if c == nil {
			continue
		}
		attempts += c.Attempts
		correct += c.Correct
	}
	if attempts == 0 {
		return 0
	}
	return float64(correct) / float64(attempts)
}
