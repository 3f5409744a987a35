package content

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func workbook(t *testing.T, sheet string, rows [][]any) *bytes.Buffer {
	t.Helper()
	return workbookSheets(t, map[string][][]any{sheet: rows})
}

func workbookSheets(t *testing.T, sheets map[string][][]any) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for sheet, rows := range sheets {
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

func header() []any {
	row := make([]any, len(Columns))
	for i, c := range Columns {
		row[i] = c
	}
	return row
}

func TestReadXLSX_GroupsRowsIntoItems(t *testing.T) {
	buf := workbook(t, SheetName, [][]any{
		header(),
		{"spicy-tuna", "Spicy Tuna Roll", "Sushi", "active", 0, "Inside", "tuna, spicy mayo", "tuna", "ahi | maguro"},
		{"spicy-tuna", "", "", "", 0, "", "", "spicy mayo", ""},
		{"spicy-tuna", "", "", "", 1, "Topping", "scallions", "scallions", "green onion"},
		{},
		{"miso", "Miso Soup", "Soups & Salads", "", 0, "Garnish", "tofu", "tofu", ""},
	})

	ds, err := ReadXLSX(buf)
	require.NoError(t, err)
	items := ds.MenuItems
	require.Len(t, items, 2)
	assert.Empty(t, ds.CustomerQuestions)

	tuna := items[0]
	assert.Equal(t, "Spicy Tuna Roll", tuna.Name)
	require.Len(t, tuna.Lines, 2)
	assert.Equal(t, "Inside", tuna.Lines[0].Context)
	require.Len(t, tuna.Lines[0].Blanks, 2)
	assert.Equal(t, []string{"ahi", "maguro"}, tuna.Lines[0].Blanks[0].Alternatives)
	assert.Equal(t, "spicy mayo", tuna.Lines[0].Blanks[1].Answer)
	assert.Empty(t, tuna.Lines[0].Blanks[1].Alternatives)
	assert.Equal(t, "scallions", tuna.Lines[1].Blanks[0].Answer)

	c, err := NewCatalog(items)
	require.NoError(t, err)
	assert.Equal(t, []string{"Soups & Salads", "Sushi"}, c.Categories())
}

func TestReadXLSX_HintsAndCustomerQuestions(t *testing.T) {
	buf := workbookSheets(t, map[string][][]any{
		SheetName: {
			append(header(), "hint"),
			{"miso", "Miso Soup", "Soups", "", 0, "Garnish", "tofu, scallions", "tofu", "", ""},
			{"miso", "", "", "", 0, "", "", "scallions", "", "Two toppings"},
		},
		CustomerSheetName: {
			{"item", "question", "answer", "category", "alternatives"},
			{"Miso Soup", "Is it vegan?", "no", "Dietary", "nope | contains fish"},
			{},
		},
	})

	ds, err := ReadXLSX(buf)
	require.NoError(t, err)
	require.Len(t, ds.MenuItems, 1)
	assert.Equal(t, "Two toppings", ds.MenuItems[0].Lines[0].Hint)

	require.Len(t, ds.CustomerQuestions, 1)
	assert.Equal(t, "Is it vegan?", ds.CustomerQuestions[0].Question)
	assert.Equal(t, []string{"nope", "contains fish"}, ds.CustomerQuestions[0].Alternatives)

	c, err := Build(ds)
	require.NoError(t, err)
	assert.Equal(t, "miso", c.CustomerQuestions("")[0].ItemID)
}

func TestReadXLSX_CustomerSheetMissingColumns(t *testing.T) {
	buf := workbookSheets(t, map[string][][]any{
		SheetName:         {header(), {"miso", "Miso Soup", "Soups", "", 0, "", "", "tofu", ""}},
		CustomerSheetName: {{"item", "question"}},
	})

	_, err := ReadXLSX(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sheet Customer Questions is missing columns: answer, category, alternatives")
}

func TestReadXLSX_MissingColumns(t *testing.T) {
	buf := workbook(t, SheetName, [][]any{{"item_id", "name"}})

	_, err := ReadXLSX(buf)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, err.Error(), "missing columns: category, status, line")
}

func TestReadXLSX_BadLineNumber(t *testing.T) {
	buf := workbook(t, SheetName, [][]any{
		header(),
		{"miso", "Miso Soup", "Soups", "", "first", "", "", "tofu", ""},
	})

	_, err := ReadXLSX(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `row 2: line must be a number, got "first"`)
}

func TestReadXLSX_MissingSheet(t *testing.T) {
	buf := workbook(t, "Other", [][]any{header()})

	_, err := ReadXLSX(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read sheet Menu")
}
