package study

import (
	"math"
	"sort"
	"time"

	"github.com/vytor/menuflash/internal/models"
)

// WeakAreaThreshold is the per-category accuracy below which a category is
// reported as weak after a practice test.
const WeakAreaThreshold = 0.7

// Accuracy is correct outcomes over questions in the session.
func Accuracy(s *models.StudySession) float64 {
	if len(s.Questions) == 0 {
		return 0
	}
	return float64(s.Score) / float64(len(s.Questions))
}

// WeakAreas returns the sorted categories answered below WeakAreaThreshold.
func WeakAreas(s *models.StudySession) []string {
	type tally struct{ correct, total int }
	byCategory := map[string]*tally{}
	for _, o := range s.Outcomes {
		t, ok := byCategory[o.Category]
		if !ok {
			t = &tally{}
			byCategory[o.Category] = t
		}
		t.total++
		if o.Correct {
			t.correct++
		}
	}

	weak := []string{}
	for category, t := range byCategory {
		if float64(t.correct)/float64(t.total) < WeakAreaThreshold {
			weak = append(weak, category)
		}
	}
	sort.Strings(weak)
	return weak
}

// PracticeTestResult turns a finished practice test session into its record.
func PracticeTestResult(s *models.StudySession, endedAt time.Time) models.PracticeTest {
	return models.PracticeTest{
		TakenAt:        endedAt,
		Score:          int(math.Round(Accuracy(s) * 100)),
		TotalQuestions: len(s.Questions),
		CorrectAnswers: s.Score,
		TimeMs:         endedAt.Sub(s.StartedAt).Milliseconds(),
		WeakAreas:      WeakAreas(s),
	}
}

// FastestCorrectMs returns the quickest correct response in the session and
// whether there was any correct response.
func FastestCorrectMs(s *models.StudySession) (int, bool) {
	fastest, found := 0, false
	for _, o := range s.Outcomes {
		if !o.Correct {
			continue
		}
		if !found || o.ResponseTimeMs < fastest {
			fastest, found = o.ResponseTimeMs, true
		}
	}
	return fastest, found
}
