package models

import "time"

type StudyMode string

const (
	ModeQuickFire      StudyMode = "quick-fire"
	ModeFlashcard      StudyMode = "flashcard"
	ModeFillBlank      StudyMode = "fill-blank"
	ModeMultipleChoice StudyMode = "multiple-choice"
	ModePracticeTest   StudyMode = "practice-test"
	// ModeCustomerQuestions drills guest questions instead of menu lines.
	ModeCustomerQuestions StudyMode = "customer-questions"
)

func (m StudyMode) Valid() bool {
	switch m {
	case ModeQuickFire, ModeFlashcard, ModeFillBlank, ModeMultipleChoice, ModePracticeTest, ModeCustomerQuestions:
		return true
	}
	return false
}

// TracksProgress reports whether answers in m update item progress and the
// lifetime question count.
func (m StudyMode) TracksProgress() bool {
	return m != ModeCustomerQuestions
}

type MatchKind string

const (
	MatchExact   MatchKind = "exact"
	MatchClose   MatchKind = "close"
	MatchPartial MatchKind = "partial"
	MatchNone    MatchKind = "none"
)

type ValidationResult struct {
	IsCorrect  bool      `json:"is_correct"`
	MatchKind  MatchKind `json:"match_kind"`
	Similarity *float64  `json:"similarity,omitempty"`
	Feedback   string    `json:"feedback"`
}

type SessionQuestion struct {
	Question
	Options      []string `json:"options,omitempty"`
	CorrectIndex int      `json:"-"`
	Hints        []string `json:"hints,omitempty"`
}

type AnswerOutcome struct {
	QuestionIndex  int                `json:"question_index"`
	ItemID         string             `json:"item_id"`
	Category       string             `json:"category"`
	Correct        bool               `json:"correct"`
	Skipped        bool               `json:"skipped"`
	ResponseTimeMs int                `json:"response_time_ms"`
	XPAwarded      int                `json:"xp_awarded"`
	Validation     *ValidationResult  `json:"validation,omitempty"`
	BlankResults   []ValidationResult `json:"blank_results,omitempty"`
}

type StudySession struct {
	ID           string            `json:"id"`
	Mode         StudyMode         `json:"mode"`
	Category     string            `json:"category,omitempty"`
	Questions    []SessionQuestion `json:"questions"`
	CurrentIndex int               `json:"current_index"`
	Score        int               `json:"score"`
	Streak       int               `json:"streak"`
	Outcomes     []AnswerOutcome   `json:"outcomes"`
	// MasteredItems lists items that reached mastered during this session.
	MasteredItems []string   `json:"mastered_items"`
	StartedAt     time.Time  `json:"started_at"`
	QuestionAt    time.Time  `json:"question_at"`
	EndedAt       *time.Time `json:"ended_at,omitempty"`
	// Completed is true when every question was answered before the session ended.
	Completed bool `json:"completed"`
	// BonusXP is the completion bonus awarded when the session completed.
	BonusXP      int           `json:"bonus_xp"`
	PracticeTest *PracticeTest `json:"practice_test,omitempty"`
	LastActivity time.Time     `json:"-"`
}

// Answered reports whether the current question already has an outcome.
func (s *StudySession) Answered() bool {
	for _, o := range s.Outcomes {
		if o.QuestionIndex == s.CurrentIndex {
			return true
		}
	}
	return false
}

// XPEarned sums the XP of every answer plus the completion bonus.
func (s *StudySession) XPEarned() int {
	total := s.BonusXP
	for _, o := range s.Outcomes {
		total += o.XPAwarded
	}
	return total
}

func (s *StudySession) Finished() bool {
	return s.EndedAt != nil
}

func (s *StudySession) Current() *SessionQuestion {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Questions) {
		return nil
	}
	return &s.Questions[s.CurrentIndex]
}
