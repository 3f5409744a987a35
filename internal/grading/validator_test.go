package grading_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/menuflash/internal/grading"
	"github.com/vytor/menuflash/internal/models"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Spicy   Tuna!! ", "spicy tuna"},
		{"Crab, Avocado & Cucumber", "crab avocado cucumber"},
		{"Jalapeño\tPonzu", "jalapeño ponzu"},
		{"Jalapen\u0303o", "jalape\u00f1o"},
		{"tuna !", "tuna"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, grading.Normalize(tt.in))
		})
	}
}

func TestValidate_EmptyAnswer(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		res := grading.Validate(in, "anything", nil)
		assert.False(t, res.IsCorrect)
		assert.Equal(t, models.MatchNone, res.MatchKind)
		assert.Equal(t, "Please enter an answer", res.Feedback)
	}
}

func TestValidate_ExactMatchIgnoresCaseAndPunctuation(t *testing.T) {
	variants := []string{"spicy tuna", "Spicy Tuna", "SPICY TUNA!", "  spicy,   tuna. "}

	for _, v := range variants {
		t.Run(v, func(t *testing.T) {
			res := grading.Validate(v, "Spicy Tuna", nil)
			assert.True(t, res.IsCorrect)
			assert.Equal(t, models.MatchExact, res.MatchKind)
			assert.Nil(t, res.Similarity)
		})
	}
}

func TestValidate_ExactMatchOnAlternative(t *testing.T) {
	res := grading.Validate("Hamachi", "yellowtail", []string{"hamachi", "buri"})
	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.MatchExact, res.MatchKind)
}

func TestValidate_IngredientList(t *testing.T) {
	res := grading.Validate("tomato, lettuce, bacon", "tomato, lettuce, bacon, cheese, mayo", nil)

	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.MatchPartial, res.MatchKind)
	assert.Contains(t, res.Feedback, "3 of 5")
}

func TestValidate_IngredientListSubstringHits(t *testing.T) {
	// "crab" is contained in "snow crab"; "cucumbers" contains "cucumber".
	res := grading.Validate("crab, cucumbers", "snow crab, cucumber, avocado", nil)

	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.MatchPartial, res.MatchKind)
	assert.Contains(t, res.Feedback, "2 of 3")
}

func TestValidate_IngredientListRepeatedSegmentsCountEachTime(t *testing.T) {
	// No consumption tracking: one expected segment can be hit repeatedly.
	res := grading.Validate("tuna, tuna, tuna", "tuna, salmon, eel, crab, shrimp", nil)

	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.MatchPartial, res.MatchKind)
	assert.Contains(t, res.Feedback, "3 of 5")
}

func TestValidate_IngredientListEmptySegmentsDoNotHit(t *testing.T) {
	hits, total := grading.IngredientHits("miso,", "miso, tofu")
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, total)

	res := grading.Validate("miso,", "miso, tofu", nil)
	assert.False(t, res.IsCorrect)
}

func TestValidate_IngredientListBelowThreshold(t *testing.T) {
	res := grading.Validate("rice", "rice, nori, tuna, cucumber, sesame", nil)

	assert.False(t, res.IsCorrect)
	assert.Equal(t, models.MatchNone, res.MatchKind)
	assert.Equal(t, "Not quite. The correct answer is: rice, nori, tuna, cucumber, sesame", res.Feedback)
}

func TestValidate_CloseMatch(t *testing.T) {
	res := grading.Validate("salmon avocado rol", "Salmon Avocado Roll", nil)

	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.MatchClose, res.MatchKind)
	require.NotNil(t, res.Similarity)
	assert.InDelta(t, 1-1.0/19.0, *res.Similarity, 1e-9)
}

func TestValidate_KeyWordCoverage(t *testing.T) {
	res := grading.Validate("albacore seared and served with ponzu sauce plus garlic chips", "seared albacore with ponzu sauce", nil)

	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.MatchPartial, res.MatchKind)
	assert.Equal(t, "Good! You got all the key parts!", res.Feedback)
}

func TestValidate_KeyWordCoverageNeedsTwoKeyWords(t *testing.T) {
	// Only one token longer than three characters: coverage rule does not apply.
	res := grading.Validate("a big plate of edamame for the table", "edamame", nil)
	assert.False(t, res.IsCorrect)
}

func TestValidate_AlternativeFuzzyMatch(t *testing.T) {
	res := grading.Validate("hamachii", "yellowtail", []string{"hamachi"})

	assert.True(t, res.IsCorrect)
	assert.Equal(t, models.MatchClose, res.MatchKind)
	require.NotNil(t, res.Similarity)
	assert.InDelta(t, 0.875, *res.Similarity, 1e-9)
	assert.Equal(t, "Alternative answer accepted!", res.Feedback)
}

func TestValidate_Wrong(t *testing.T) {
	res := grading.Validate("chicken", "Wagyu Beef", []string{"kobe beef"})

	assert.False(t, res.IsCorrect)
	assert.Equal(t, models.MatchNone, res.MatchKind)
	assert.Equal(t, "Not quite. The correct answer is: Wagyu Beef", res.Feedback)
}

func TestValidate_EmptyCorrectAnswerDegradesGracefully(t *testing.T) {
	res := grading.Validate("something", "", nil)
	assert.False(t, res.IsCorrect)
	assert.Equal(t, models.MatchNone, res.MatchKind)
}

func TestSuggest(t *testing.T) {
	got := grading.Suggest("spicy tuna", []string{"Spicy Tuna Roll", "Spicy Tuna", "Eel Avocado", "spicy tun"})
	assert.Equal(t, []string{"Spicy Tuna", "spicy tun", "Spicy Tuna Roll"}, got)
}
