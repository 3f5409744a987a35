package study

import (
	"github.com/vytor/menuflash/internal/content"
	"github.com/vytor/menuflash/internal/models"
)

// BuildQuestions wraps the selected questions for a session. Multiple choice
// questions get their options drawn from pool instead of hints; every other
// mode shows the hints allowed at level.
func BuildQuestions(mode models.StudyMode, selected, pool []models.Question, rng content.Shuffler, level models.HintLevel) []models.SessionQuestion {
	out := make([]models.SessionQuestion, len(selected))
	for i, q := range selected {
		out[i] = models.SessionQuestion{Question: q}
		if mode == models.ModeMultipleChoice {
			out[i].Options, out[i].CorrectIndex = content.MultipleChoice(q, pool, rng)
			continue
		}
		out[i].Hints = content.Hints(q, level)
	}
	return out
}
