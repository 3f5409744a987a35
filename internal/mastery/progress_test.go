package mastery_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/menuflash/internal/mastery"
	"github.com/vytor/menuflash/internal/models"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestRecordAttempt_FirstEncounter(t *testing.T) {
	p := mastery.RecordAttempt(nil, "spicy-tuna", "0", false, 4200, t0)

	require.NotNil(t, p)
	assert.Equal(t, "spicy-tuna", p.ItemID)
	require.Contains(t, p.Components, "0")
	comp := p.Components["0"]
	assert.Equal(t, 1, comp.Attempts)
	assert.Equal(t, 0, comp.Correct)
	assert.Equal(t, t0, comp.LastSeen)
	require.Len(t, comp.History, 1)
	assert.Equal(t, 4200, comp.History[0].ResponseTimeMs)
	assert.Equal(t, mastery.Classify(comp.History), p.Status)
	assert.Equal(t, models.StatusLearning, p.Status)
	assert.Equal(t, 0.0, p.OverallAccuracy)
	assert.False(t, p.NeedsReview)
	assert.False(t, p.Bookmarked)
}

func TestRecordAttempt_DoesNotMutateInput(t *testing.T) {
	first := mastery.RecordAttempt(nil, "eel", "0", true, 1000, t0)
	second := mastery.RecordAttempt(first, "eel", "0", true, 1000, t0.Add(time.Minute))

	assert.Equal(t, 1, first.Components["0"].Attempts)
	assert.Len(t, first.Components["0"].History, 1)
	assert.Equal(t, 2, second.Components["0"].Attempts)
}

func TestRecordAttempt_HistoryCap(t *testing.T) {
	var p *models.ItemProgress
	for i := 0; i < 25; i++ {
		// Alternate outcomes so order is observable.
		p = mastery.RecordAttempt(p, "roll", "0", i%2 == 0, i, t0.Add(time.Duration(i)*time.Second))
	}

	comp := p.Components["0"]
	assert.Equal(t, 25, comp.Attempts)
	assert.Equal(t, 13, comp.Correct)
	require.Len(t, comp.History, models.MaxHistory)
	for i, h := range comp.History {
		want := i + 5
		assert.Equal(t, want, h.ResponseTimeMs)
		assert.Equal(t, want%2 == 0, h.Correct)
		assert.Equal(t, t0.Add(time.Duration(want)*time.Second), h.Timestamp)
	}
}

func TestRecordAttempt_StatusIsWeakestComponent(t *testing.T) {
	var p *models.ItemProgress
	for i := 0; i < 3; i++ {
		p = mastery.RecordAttempt(p, "nigiri", "0", true, 2000, t0.Add(time.Duration(i)*time.Minute))
	}
	assert.Equal(t, models.StatusMastered, p.Status)

	p = mastery.RecordAttempt(p, "nigiri", "1", false, 2000, t0.Add(time.Hour))

	assert.Equal(t, models.StatusMastered, mastery.Classify(p.Components["0"].History))
	assert.Equal(t, models.StatusLearning, mastery.Classify(p.Components["1"].History))
	assert.Equal(t, models.StatusLearning, p.Status)
}

func TestRecordAttempt_OverallAccuracyAcrossComponents(t *testing.T) {
	var p *models.ItemProgress
	p = mastery.RecordAttempt(p, "salad", "0", true, 100, t0)
	p = mastery.RecordAttempt(p, "salad", "0", true, 100, t0)
	p = mastery.RecordAttempt(p, "salad", "1", false, 100, t0)
	p = mastery.RecordAttempt(p, "salad", "1", true, 100, t0)

	assert.InDelta(t, 0.75, p.OverallAccuracy, 1e-9)
}

func TestRecordAttempt_KeepsFlags(t *testing.T) {
	p := mastery.NewItemProgress("ponzu")
	p.Bookmarked = true
	p.NeedsReview = true

	next := mastery.RecordAttempt(p, "ponzu", "0", true, 100, t0)
	assert.True(t, next.Bookmarked)
	assert.True(t, next.NeedsReview)
}

func TestRecordAttempt_NilComponentEntry(t *testing.T) {
	var stored models.ItemProgress
	require.NoError(t, json.Unmarshal([]byte(`{"item_id":"ponzu","status":"learning","components":{"0":null}}`), &stored))

	clone := stored.Clone()
	assert.Empty(t, clone.Components)
	_, seen := stored.OldestSeen()
	assert.False(t, seen)
	assert.Equal(t, models.StatusNew, mastery.Weakest(&stored))
	assert.Zero(t, mastery.OverallAccuracy(&stored))

	next := mastery.RecordAttempt(&stored, "ponzu", "0", true, 900, t0)
	require.Contains(t, next.Components, "0")
	assert.Equal(t, 1, next.Components["0"].Attempts)
	assert.Equal(t, models.StatusLearning, next.Status)
}
