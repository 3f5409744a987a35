package models

import "time"

// Status is the mastery tier of a component or item.
type Status string

const (
	StatusNew       Status = "new"
	StatusLearning  Status = "learning"
	StatusConfident Status = "confident"
	StatusMastered  Status = "mastered"
)

// Priority orders tiers from weakest (0) to strongest (3).
func (s Status) Priority() int {
	switch s {
	case StatusLearning:
		return 1
	case StatusConfident:
		return 2
	case StatusMastered:
		return 3
	default:
		return 0
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusLearning, StatusConfident, StatusMastered:
		return true
	}
	return false
}

// MaxHistory is the number of attempts kept per component.
const MaxHistory = 20

type AttemptRecord struct {
	Timestamp      time.Time `json:"timestamp"`
	Correct        bool      `json:"correct"`
	ResponseTimeMs int       `json:"response_time_ms"`
}

type ComponentProgress struct {
	Attempts int             `json:"attempts"`
	Correct  int             `json:"correct"`
	LastSeen time.Time       `json:"last_seen"`
	History  []AttemptRecord `json:"history"`
}

type ItemProgress struct {
	ItemID          string                        `json:"item_id"`
	Status          Status                        `json:"status"`
	Components      map[string]*ComponentProgress `json:"components"`
	OverallAccuracy float64                       `json:"overall_accuracy"`
	NeedsReview     bool                          `json:"needs_review"`
	Bookmarked      bool                          `json:"bookmarked"`
	UpdatedAt       time.Time                     `json:"updated_at"`
}

// Clone returns a deep copy so reducers never alias caller state. Nil
// component entries carry no attempts and are dropped.
func (p *ItemProgress) Clone() *ItemProgress {
	if p == nil {
		return nil
	}
	out := *p
	out.Components = make(map[string]*ComponentProgress, len(p.Components))
	for id, c := range p.Components {
		if c == nil {
			continue
		}
		cc := *c
		cc.History = append([]AttemptRecord(nil), c.History...)
		out.Components[id] = &cc
	}
	return &out
}

// OldestSeen returns the earliest component LastSeen, false when there are no components.
func (p *ItemProgress) OldestSeen() (time.Time, bool) {
	var oldest time.Time
	found := false
	for _, c := range p.Components {
		if c == nil {
			continue
		}
		if !found || c.LastSeen.Before(oldest) {
			oldest = c.LastSeen
			found = true
		}
	}
	return oldest, found
}

// NewestSeen returns the latest component LastSeen, false when there are no components.
func (p *ItemProgress) NewestSeen() (time.Time, bool) {
	var newest time.Time
	found := false
	for _, c := range p.Components {
		if c == nil {
			continue
		}
		if !found || c.LastSeen.After(newest) {
			newest = c.LastSeen
			found = true
		}
	}
	return newest, found
}

type ProgressFilter struct {
	Status      Status
	Bookmarked  *bool
	NeedsReview *bool
	ItemIDs     []string
	Limit       int
	Offset      int
}
