package review

import (
	"time"

	"github.com/vytor/menuflash/internal/models"
)

// Rand is the subset of math/rand/v2 used for draws.
type Rand interface {
	Float64() float64
}

// Candidate is one entry in a weighted draw.
type Candidate[T any] struct {
	Value  T
	Weight float64
}

// Sample draws up to count values without replacement, each draw proportional
// to the remaining weights. A negative count selects nothing.
func Sample[T any](pool []Candidate[T], count int, rng Rand) []T {
	count = max(count, 0)
	remaining := append([]Candidate[T](nil), pool...)
	selected := make([]T, 0, min(count, len(remaining)))

	for len(selected) < count && len(remaining) > 0 {
		total := 0.0
		for _, c := range remaining {
			total += c.Weight
		}
		draw := rng.Float64() * total

		// Falls back to the last candidate if rounding leaves draw == total.
		pick := len(remaining) - 1
		running := 0.0
		for i, c := range remaining {
			running += c.Weight
			if running > draw {
				pick = i
				break
			}
		}

		selected = append(selected, remaining[pick].Value)
		remaining = append(remaining[:pick], remaining[pick+1:]...)
	}
	return selected
}

// SelectOptions narrows the pool before sampling.
type SelectOptions struct {
	Category string
	Count    int // 0 selects every eligible question
}

// SelectQuestions orders a round of questions. Each question is weighted by
// its item's classified status and by when its own component was last seen.
// Questions of inactive items are never selected.
func SelectQuestions(questions []models.Question, items map[string]models.MenuItem, progress map[string]*models.ItemProgress, opts SelectOptions, now time.Time, rng Rand) []models.Question {
	var pool []Candidate[models.Question]
	for _, q := range questions {
		if opts.Category != "" && q.Category != opts.Category {
			continue
		}
		if item, ok := items[q.ItemID]; ok && !item.Active() {
			continue
		}
		status, lastSeen := questionState(q, progress[q.ItemID])
		pool = append(pool, Candidate[models.Question]{Value: q, Weight: Weight(status, lastSeen, now)})
	}

	count := opts.Count
	if count <= 0 || count > len(pool) {
		count = len(pool)
	}
	return Sample(pool, count, rng)
}

func questionState(q models.Question, p *models.ItemProgress) (models.Status, *time.Time) {
	if p == nil {
		return models.StatusNew, nil
	}
	status := p.Status
	if !status.Valid() {
		status = models.StatusNew
	}
	if c, ok := p.Components[q.ComponentID]; ok {
		seen := c.LastSeen
		return status, &seen
	}
	return status, nil
}

// DueItems returns the ids of items whose progress says they are due.
// Items with no progress are new and therefore due.
func DueItems(items []models.MenuItem, progress map[string]*models.ItemProgress, now time.Time) []string {
	var due []string
	for _, item := range items {
		if !item.Active() {
			continue
		}
		if IsDue(progress[item.ID], now) {
			due = append(due, item.ID)
		}
	}
	return due
}
