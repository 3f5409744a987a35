package services_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vytor/menuflash/internal/content"
	"github.com/vytor/menuflash/internal/models"
)

func testItems() []models.MenuItem {
	return []models.MenuItem{
		{
			ID: "tuna", Name: "Spicy Tuna Roll", Category: "Sushi",
			Lines: []models.DescriptionLine{
				{FullText: "tuna, spicy mayo", Context: "Inside", Blanks: []models.Blank{{Answer: "tuna"}, {Answer: "spicy mayo"}}},
				{FullText: "scallions", Context: "Topping", Blanks: []models.Blank{{Answer: "scallions", Alternatives: []string{"green onion"}}}},
			},
		},
		{
			ID: "miso", Name: "Miso Soup", Category: "Soups & Salads",
			Lines: []models.DescriptionLine{
				{FullText: "tofu", Context: "Garnish", Blanks: []models.Blank{{Answer: "tofu"}}},
			},
		},
		{
			ID: "eel", Name: "Eel Roll", Category: "Sushi", State: models.ItemInactive,
			Lines: []models.DescriptionLine{
				{FullText: "eel", Context: "Inside", Blanks: []models.Blank{{Answer: "eel"}}},
			},
		},
	}
}

func testCustomerQuestions() []models.CustomerQuestion {
	return []models.CustomerQuestion{
		{Item: "Miso Soup", Question: "Is the miso soup vegetarian?", Answer: "no", Category: "Dietary", Alternatives: []string{"nope"}},
		{Item: "Spicy Tuna Roll", Question: "Is the spicy tuna roll spicy?", Answer: "yes", Category: "Flavor"},
	}
}

func testMenu(t *testing.T) *content.Source {
	t.Helper()
	catalog, err := content.Build(content.Dataset{MenuItems: testItems(), CustomerQuestions: testCustomerQuestions()})
	require.NoError(t, err)
	return content.NewSource(catalog)
}

func ptr[T any](v T) *T { return &v }
