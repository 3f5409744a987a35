package grading

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/vytor/menuflash/internal/models"
)

const (
	// CloseThreshold is the minimum similarity accepted as a close match.
	CloseThreshold = 0.8
	// IngredientCoverage is the share of list segments that must be hit.
	IngredientCoverage = 0.6
	// IngredientMinHits accepts a list answer regardless of coverage.
	IngredientMinHits = 3
	// KeyWordMinLen is the length a token must exceed to count as a key word.
	KeyWordMinLen = 3
)

const (
	feedbackEmpty       = "Please enter an answer"
	feedbackExact       = "Perfect! Exact match!"
	feedbackClose       = "Close enough! Great job!"
	feedbackKeyWords    = "Good! You got all the key parts!"
	feedbackAlternative = "Alternative answer accepted!"
)

// Normalize lowercases s, drops everything but letters, digits, underscores and
// whitespace, and collapses whitespace runs to single spaces.
func Normalize(s string) string {
	// Composed form keeps "n" + combining tilde as one letter instead of dropping the mark.
	s = strings.ToLower(norm.NFC.String(s))
	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// KeyWords returns the tokens of a normalized answer longer than KeyWordMinLen runes.
func KeyWords(normalized string) []string {
	var words []string
	for _, w := range strings.Split(normalized, " ") {
		if len([]rune(w)) > KeyWordMinLen {
			words = append(words, w)
		}
	}
	return words
}

// Validate grades userAnswer against correctAnswer and its accepted alternatives.
// Rules are tried in a fixed order and the first one that accepts wins.
func Validate(userAnswer, correctAnswer string, alternatives []string) models.ValidationResult {
	if strings.TrimSpace(userAnswer) == "" {
		return models.ValidationResult{MatchKind: models.MatchNone, Feedback: feedbackEmpty}
	}

	user := Normalize(userAnswer)
	correct := Normalize(correctAnswer)
	alts := make([]string, len(alternatives))
	for i, a := range alternatives {
		alts[i] = Normalize(a)
	}

	if user == correct || contains(alts, user) {
		return models.ValidationResult{IsCorrect: true, MatchKind: models.MatchExact, Feedback: feedbackExact}
	}

	// Lists are checked before global similarity; their acceptance bar is lower.
	if strings.Contains(correctAnswer, ",") {
		hits, total := IngredientHits(userAnswer, correctAnswer)
		if float64(hits)/float64(total) >= IngredientCoverage || hits >= IngredientMinHits {
			return models.ValidationResult{
				IsCorrect: true,
				MatchKind: models.MatchPartial,
				Feedback:  fmt.Sprintf("Good! You got %d of %d key ingredients!", hits, total),
			}
		}
	}

	if sim := Similarity(user, correct); sim >= CloseThreshold {
		return models.ValidationResult{IsCorrect: true, MatchKind: models.MatchClose, Similarity: &sim, Feedback: feedbackClose}
	}

	if keys := KeyWords(correct); len(keys) >= 2 && containsAll(user, keys) {
		return models.ValidationResult{IsCorrect: true, MatchKind: models.MatchPartial, Feedback: feedbackKeyWords}
	}

	for _, alt := range alts {
		if sim := Similarity(user, alt); sim >= CloseThreshold {
			return models.ValidationResult{IsCorrect: true, MatchKind: models.MatchClose, Similarity: &sim, Feedback: feedbackAlternative}
		}
	}

	return models.ValidationResult{
		MatchKind: models.MatchNone,
		Feedback:  "Not quite. The correct answer is: " + correctAnswer,
	}
}

// IngredientHits splits both answers on commas and counts the user segments
// that equal, contain, or are contained in some expected segment. An expected
// segment may be hit by more than one user segment. Empty user segments never hit.
func IngredientHits(userAnswer, correctAnswer string) (hits, total int) {
	expected := splitList(correctAnswer)
	for _, u := range splitList(userAnswer) {
		if u == "" {
			continue
		}
		for _, c := range expected {
			if u == c || strings.Contains(c, u) || strings.Contains(u, c) {
				hits++
				break
			}
		}
	}
	return hits, len(expected)
}

// Suggest returns the candidates at least half similar to query, best first.
func Suggest(query string, candidates []string) []string {
	type scored struct {
		value string
		sim   float64
	}
	q := Normalize(query)
	var matches []scored
	for _, c := range candidates {
		if sim := Similarity(q, Normalize(c)); sim >= 0.5 {
			matches = append(matches, scored{c, sim})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].sim > matches[j].sim })

	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.value
	}
	return out
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	for i, p := range parts {
		parts[i] = Normalize(p)
	}
	return parts
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func containsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}
