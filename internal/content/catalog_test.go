package content

import (
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/menuflash/internal/models"
)

func testCatalog(t *testing.T) *Catalog {
	t.Helper()
	ds, err := ReadJSON(strings.NewReader(menuJSON))
	require.NoError(t, err)
	c, err := Build(ds)
	require.NoError(t, err)
	return c
}

func TestCatalog_Questions(t *testing.T) {
	c := testCatalog(t)

	all := c.Questions("")
	require.Len(t, all, 3, "inactive eel roll is excluded")

	first := all[0]
	assert.Equal(t, "spicy-tuna/0", first.Key())
	assert.Equal(t, "tuna, spicy mayo, cucumber", first.ExpectedAnswer())
	assert.Equal(t, []string{"ahi"}, first.Alternatives())
	assert.Equal(t, "1", all[1].ComponentID)

	soups := c.Questions("Soups & Salads")
	require.Len(t, soups, 1)
	assert.Equal(t, "miso", soups[0].ItemID)

	assert.Empty(t, c.Questions("Desserts"))
}

func TestCatalog_Lookup(t *testing.T) {
	c := testCatalog(t)

	item, ok := c.Item("eel")
	require.True(t, ok)
	assert.False(t, item.Active())

	_, ok = c.Item("missing")
	assert.False(t, ok)

	q, ok := c.Question("spicy-tuna", "1")
	require.True(t, ok)
	assert.Equal(t, "scallions", q.ExpectedAnswer())
	assert.Equal(t, "Think green", q.Hint)

	assert.Equal(t, []string{"Soups & Salads", "Sushi"}, c.Categories())
	assert.Len(t, c.ItemMap(), 3)
}

func TestCatalog_CustomerQuestions(t *testing.T) {
	c := testCatalog(t)

	assert.Equal(t, []string{"Dietary", "Flavor"}, c.CustomerCategories())

	all := c.CustomerQuestions("")
	require.Len(t, all, 3)
	miso := all[0]
	assert.Equal(t, "miso", miso.ItemID, "linked to the menu item by name")
	assert.Equal(t, "customer-0", miso.ComponentID)
	assert.Equal(t, "Is the miso soup vegetarian?", miso.Prompt)
	assert.Equal(t, "no, it has bonito", miso.ExpectedAnswer())
	assert.Equal(t, []string{"no fish stock"}, miso.Alternatives())
	assert.Empty(t, all[2].ItemID, "unknown items stay unlinked")

	flavor := c.CustomerQuestions("Flavor")
	require.Len(t, flavor, 2)
	assert.Equal(t, "spicy-tuna", flavor[0].ItemID)

	assert.Len(t, c.Questions(""), 3, "customer questions are not menu questions")
}

func TestNewCatalog_RejectsInvalid(t *testing.T) {
	_, err := NewCatalog([]models.MenuItem{{ID: "x"}})
	var vErr *ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestSource_Replace(t *testing.T) {
	first := testCatalog(t)
	src := NewSource(first)
	assert.Same(t, first, src.Catalog())

	second := testCatalog(t)
	prev := src.Replace(second)
	assert.Same(t, first, prev)
	assert.Same(t, second, src.Catalog())
}

func TestMultipleChoice(t *testing.T) {
	pool := []models.Question{
		{ItemID: "a", ComponentID: "0", Blanks: []models.Blank{{Answer: "rice"}}},
		{ItemID: "b", ComponentID: "0", Blanks: []models.Blank{{Answer: "nori"}}},
		{ItemID: "c", ComponentID: "0", Blanks: []models.Blank{{Answer: "rice"}}},
		{ItemID: "d", ComponentID: "0", Blanks: []models.Blank{{Answer: "tuna"}}},
		{ItemID: "e", ComponentID: "0", Blanks: []models.Blank{{Answer: "eel"}}},
		{ItemID: "f", ComponentID: "0", Blanks: []models.Blank{{Answer: "tuna"}}},
		{ItemID: "g", ComponentID: "0", Blanks: []models.Blank{{Answer: "ginger"}}},
	}
	rng := rand.New(rand.NewPCG(1, 1))

	for range 20 {
		options, idx := MultipleChoice(pool[0], pool, rng)

		require.Len(t, options, 4)
		assert.Equal(t, "rice", options[idx])
		seen := map[string]bool{}
		for _, o := range options {
			assert.False(t, seen[o], "duplicate option %q", o)
			seen[o] = true
		}
	}
}

func TestMultipleChoice_SmallPool(t *testing.T) {
	pool := []models.Question{
		{ItemID: "a", ComponentID: "0", Blanks: []models.Blank{{Answer: "rice"}}},
		{ItemID: "b", ComponentID: "0", Blanks: []models.Blank{{Answer: "nori"}}},
	}

	options, idx := MultipleChoice(pool[0], pool, rand.New(rand.NewPCG(2, 2)))
	assert.ElementsMatch(t, []string{"rice", "nori"}, options)
	assert.Equal(t, "rice", options[idx])
}
