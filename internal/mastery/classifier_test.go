package mastery_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vytor/menuflash/internal/mastery"
	"github.com/vytor/menuflash/internal/models"
)

func history(outcomes ...bool) []models.AttemptRecord {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	out := make([]models.AttemptRecord, len(outcomes))
	for i, ok := range outcomes {
		out[i] = models.AttemptRecord{Timestamp: base.Add(time.Duration(i) * time.Minute), Correct: ok, ResponseTimeMs: 3000}
	}
	return out
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		history []models.AttemptRecord
		want    models.Status
	}{
		{name: "no history", history: nil, want: models.StatusNew},
		{name: "single miss", history: history(false), want: models.StatusLearning},
		{name: "single hit", history: history(true), want: models.StatusLearning},
		{name: "two hits", history: history(true, true), want: models.StatusConfident},
		{name: "three hits", history: history(true, true, true), want: models.StatusMastered},
		{name: "two of three", history: history(true, false, true), want: models.StatusLearning},
		{name: "three of four", history: history(true, true, false, true), want: models.StatusConfident},
		{
			// 18/20 overall is 0.9 but only 3 of the last 5 were right.
			name:    "high overall, weak recent",
			history: history(true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, false, true, false, true),
			want:    models.StatusConfident,
		},
		{
			name:    "high overall, strong recent",
			history: history(false, true, true, true, true, true, true, true, true, true),
			want:    models.StatusMastered,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, mastery.Classify(tt.history))
		})
	}
}

func TestWeakest(t *testing.T) {
	assert.Equal(t, models.StatusNew, mastery.Weakest(nil))

	p := &models.ItemProgress{Components: map[string]*models.ComponentProgress{
		"0": {Attempts: 3, Correct: 3, History: history(true, true, true)},
		"1": {Attempts: 2, Correct: 2, History: history(true, true)},
	}}
	assert.Equal(t, models.StatusConfident, mastery.Weakest(p))
}
