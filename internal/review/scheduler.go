// Package review decides which menu items are due and biases question
// ordering toward items that need more practice.
package review

import (
	"math"
	"time"

	"github.com/vytor/menuflash/internal/models"
)

const day = 24 * time.Hour

var baseWeights = map[models.Status]float64{
	models.StatusNew:       3,
	models.StatusLearning:  4,
	models.StatusConfident: 2,
	models.StatusMastered:  1,
}

// Intervals is the minimum number of days between reviews per tier.
var Intervals = map[models.Status]int{
	models.StatusNew:       0,
	models.StatusLearning:  1,
	models.StatusConfident: 3,
	models.StatusMastered:  7,
}

// DaysSince returns the whole days between then and now, rounded up.
func DaysSince(then, now time.Time) int {
	d := now.Sub(then)
	if d < 0 {
		d = -d
	}
	return int(math.Ceil(float64(d) / float64(day)))
}

// Weight scores an item for selection. A nil lastSeen means never seen.
func Weight(status models.Status, lastSeen *time.Time, now time.Time) float64 {
	w, ok := baseWeights[status]
	if !ok {
		w = baseWeights[models.StatusNew]
	}

	if lastSeen == nil {
		return w * 2
	}
	switch days := DaysSince(*lastSeen, now); {
	case days >= 7:
		return w * 2
	case days >= 3:
		return w * 1.5
	default:
		return w
	}
}

// IsDue reports whether an item should be reviewed now. The stalest component
// decides; items flagged for review or without components are always due.
func IsDue(p *models.ItemProgress, now time.Time) bool {
	if p == nil || p.NeedsReview {
		return true
	}
	oldest, ok := p.OldestSeen()
	if !ok {
		return true
	}
	return DaysSince(oldest, now) >= Intervals[p.Status]
}
