package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/vytor/menuflash/internal/models"
)

type hintRule struct {
	any  []string
	none []string
	hint string
}

// contextRules are checked in order against the lowercased line context.
var contextRules = []hintRule{
	{any: []string{"plate", "served on"}, hint: "How is it served/plated?"},
	{any: []string{"oz", "ounce"}, hint: "How many ounces?"},
	{any: []string{"piece"}, hint: "How many pieces?"},
	{any: []string{"size"}, hint: "What size/portion?"},
	{any: []string{"topped"}, hint: "What is it topped with?"},
	{any: []string{"garnish"}, hint: "What garnish?"},
	{any: []string{"finished"}, hint: "What's the finishing touch?"},
	{any: []string{"drizzle"}, hint: "What sauce is drizzled?"},
	{any: []string{"sauce"}, none: []string{"soy"}, hint: "What sauce?"},
	{any: []string{"layered"}, hint: "What ingredients are layered?"},
	{any: []string{"mixed"}, hint: "What's mixed in?"},
	{any: []string{"made with", "consists of"}, hint: "What ingredients?"},
	{any: []string{"tuna", "salmon", "fish"}, hint: "What type/grade of fish?"},
	{any: []string{"shrimp", "crab"}, hint: "What type/grade of seafood?"},
	{any: []string{"cheese"}, hint: "What type of cheese?"},
}

type categoryRule struct {
	category string
	rules    []hintRule
	fallback string
}

// categoryRules apply when no context rule matched.
var categoryRules = []categoryRule{
	{
		category: "salad",
		rules: []hintRule{
			{any: []string{"dressing", "dressed"}, hint: "What dressing?"},
			{any: []string{"lettuce", "greens"}, hint: "What type of greens?"},
		},
		fallback: "What ingredients are in this salad?",
	},
	{
		category: "soup",
		rules: []hintRule{
			{any: []string{"contains", "flour"}, hint: "What allergens/ingredients?"},
			{any: []string{"served with", "comes with"}, hint: "What comes with it?"},
		},
		fallback: "What's in this soup?",
	},
	{category: "sushi", fallback: "What ingredient(s)?"},
	{category: "dressing", rules: []hintRule{{any: []string{"base"}, hint: "What's the base?"}}, fallback: "What ingredients?"},
	{category: "sauce", rules: []hintRule{{any: []string{"base"}, hint: "What's the base?"}}, fallback: "What ingredients?"},
}

const defaultHint = "Fill in the blank(s)"

func (r hintRule) matches(s string) bool {
	for _, n := range r.none {
		if strings.Contains(s, n) {
			return false
		}
	}
	for _, a := range r.any {
		if strings.Contains(s, a) {
			return true
		}
	}
	return false
}

func firstMatch(rules []hintRule, s string) (string, bool) {
	for _, r := range rules {
		if r.matches(s) {
			return r.hint, true
		}
	}
	return "", false
}

// ContextHint derives a generic prompt from the line context, falling back
// to the category.
func ContextHint(q models.Question) string {
	context := strings.ToLower(q.Context)
	if hint, ok := firstMatch(contextRules, context); ok {
		return hint
	}
	category := strings.ToLower(q.Category)
	for _, c := range categoryRules {
		if !strings.Contains(category, c.category) {
			continue
		}
		if hint, ok := firstMatch(c.rules, context); ok {
			return hint
		}
		return c.fallback
	}
	return defaultHint
}

// letterHint shows the first letter and length of every blank.
func letterHint(q models.Question) string {
	parts := make([]string, 0, len(q.Blanks))
	for _, b := range q.Blanks {
		answer := strings.TrimSpace(b.Answer)
		first, _ := utf8.DecodeRuneInString(answer)
		if first == utf8.RuneError {
			continue
		}
		parts = append(parts, fmt.Sprintf("%c… (%d characters)", first, utf8.RuneCountInString(answer)))
	}
	if len(parts) == 0 {
		return ""
	}
	return "Starts with " + strings.Join(parts, ", ")
}

// Hints returns the hints shown for q at level, most helpful last.
//
//	none    nothing
//	low     the context hint
//	medium  the authored hint, or the context hint when there is none
//	high    the authored hint, the context hint and the first letters
//
// Customer questions have no hints.
func Hints(q models.Question, level models.HintLevel) []string {
	if level == models.HintNone || q.Prompt != "" {
		return nil
	}

	switch level {
	case models.HintLow:
		return []string{ContextHint(q)}
	case models.HintHigh:
		var hints []string
		if q.Hint != "" {
			hints = append(hints, q.Hint)
		}
		hints = append(hints, ContextHint(q))
		if letters := letterHint(q); letters != "" {
			hints = append(hints, letters)
		}
		return hints
	default:
		if q.Hint != "" {
			return []string{q.Hint}
		}
		return []string{ContextHint(q)}
	}
}
