package study

import (
	"github.com/vytor/menuflash/internal/grading"
	"github.com/vytor/menuflash/internal/models"
)

// GradeTyped grades a free-text answer against the whole expected answer of
// the question, as quick-fire and fill-blank do.
func GradeTyped(q models.Question, answer string) models.ValidationResult {
	return grading.Validate(answer, q.ExpectedAnswer(), q.Alternatives())
}

// GradeBlanks grades one answer per blank. The question is correct only when
// every blank is; missing answers count as empty.
func GradeBlanks(q models.Question, answers []string) (bool, []models.ValidationResult) {
	results := make([]models.ValidationResult, len(q.Blanks))
	allCorrect := len(q.Blanks) > 0
	for i, b := range q.Blanks {
		var answer string
		if i < len(answers) {
			answer = answers[i]
		}
		results[i] = grading.Validate(answer, b.Answer, b.Alternatives)
		if !results[i].IsCorrect {
			allCorrect = false
		}
	}
	return allCorrect, results
}

// GradeChoice compares the picked option with the correct one.
func GradeChoice(q models.SessionQuestion, index int) bool {
	return index == q.CorrectIndex
}
