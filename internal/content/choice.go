package content

import (
	"github.com/vytor/menuflash/internal/models"
)

// MaxDistractors is how many wrong options a multiple choice question offers.
const MaxDistractors = 3

// Shuffler is the subset of math/rand/v2 used to order options.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// MultipleChoice builds the options for q: its expected answer plus up to
// MaxDistractors distinct answers from other questions in pool.
func MultipleChoice(q models.Question, pool []models.Question, rng Shuffler) ([]string, int) {
	correct := q.ExpectedAnswer()

	seen := map[string]bool{correct: true}
	var wrong []string
	for _, other := range pool {
		if other.Key() == q.Key() {
			continue
		}
		answer := other.ExpectedAnswer()
		if seen[answer] {
			continue
		}
		seen[answer] = true
		wrong = append(wrong, answer)
	}
	rng.Shuffle(len(wrong), func(i, j int) { wrong[i], wrong[j] = wrong[j], wrong[i] })
	if len(wrong) > MaxDistractors {
		wrong = wrong[:MaxDistractors]
	}

	options := append([]string{correct}, wrong...)
	rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	for i, o := range options {
		if o == correct {
			return options, i
		}
	}
	return options, 0
}
