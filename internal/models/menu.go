package models

import (
	"strings"
	"time"
)

type ItemState string

const (
	ItemActive   ItemState = "active"
	ItemInactive ItemState = "inactive"
)

type Blank struct {
	Answer       string   `json:"answer"`
	Alternatives []string `json:"alternatives"`
}

type DescriptionLine struct {
	FullText string  `json:"full_text"`
	Context  string  `json:"context"`
	Hint     string  `json:"hint,omitempty"`
	Blanks   []Blank `json:"individual_blanks"`
}

type MenuItem struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	State    ItemState         `json:"status"`
	Lines    []DescriptionLine `json:"description_lines"`
}

func (m MenuItem) Active() bool {
	return m.State != ItemInactive
}

// Question is one description line of a menu item, graded as one component.
// Customer questions reuse it with a Prompt and a single blank.
type Question struct {
	ItemID      string  `json:"item_id"`
	ComponentID string  `json:"component_id"`
	ItemName    string  `json:"item_name"`
	Category    string  `json:"category"`
	Context     string  `json:"context"`
	FullText    string  `json:"full_text"`
	Prompt      string  `json:"prompt,omitempty"`
	Blanks      []Blank `json:"blanks"`
	// Hint is the authored hint; sessions decide whether to show it.
	Hint string `json:"-"`
}

// Key identifies the question across items.
func (q Question) Key() string {
	return q.ItemID + "/" + q.ComponentID
}

// ExpectedAnswer joins every blank's answer into one comma-separated list.
func (q Question) ExpectedAnswer() string {
	answers := make([]string, 0, len(q.Blanks))
	for _, b := range q.Blanks {
		answers = append(answers, b.Answer)
	}
	return strings.Join(answers, ", ")
}

// Alternatives flattens every blank's accepted alternatives.
func (q Question) Alternatives() []string {
	var alts []string
	for _, b := range q.Blanks {
		alts = append(alts, b.Alternatives...)
	}
	return alts
}

// CustomerQuestion is a question a guest might ask about an item, answered
// in free text.
type CustomerQuestion struct {
	Item         string   `json:"item"`
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Category     string   `json:"category"`
	Alternatives []string `json:"alternatives"`
}

type ImportState string

const (
	ImportQueued    ImportState = "queued"
	ImportRunning   ImportState = "running"
	ImportSucceeded ImportState = "succeeded"
	ImportFailed    ImportState = "failed"
)

// ImportStatus tracks one background menu import.
type ImportStatus struct {
	ID         string      `json:"id"`
	Path       string      `json:"path"`
	State      ImportState `json:"state"`
	Items      int         `json:"items,omitempty"`
	Error      string      `json:"error,omitempty"`
	Problems   []string    `json:"problems,omitempty"`
	QueuedAt   time.Time   `json:"queued_at"`
	FinishedAt *time.Time  `json:"finished_at,omitempty"`
}
