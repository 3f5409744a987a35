package content

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vytor/menuflash/internal/models"
)

// SheetName is the worksheet holding the menu, one row per blank.
const SheetName = "Menu"

// Columns are the required header names of the menu sheet. A "hint" column
// is optional; the first non-empty hint of a line wins.
var Columns = []string{"item_id", "name", "category", "status", "line", "context", "full_text", "answer", "alternatives"}

// CustomerSheetName is the optional worksheet of customer questions.
const CustomerSheetName = "Customer Questions"

// CustomerColumns are the required header names of the customer sheet.
var CustomerColumns = []string{"item", "question", "answer", "category", "alternatives"}

const alternativesSep = "|"

// ReadXLSX reads the Menu sheet of a workbook, plus the Customer Questions
// sheet when there is one. Rows sharing an item_id form one item; rows
// sharing a line number within an item form one description line. Item,
// line and blank order follow the sheet.
func ReadXLSX(r io.Reader) (Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Dataset{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	items, err := readMenuSheet(f)
	if err != nil {
		return Dataset{}, err
	}
	ds := Dataset{MenuItems: items}
	if slices.Contains(f.GetSheetList(), CustomerSheetName) {
		if ds.CustomerQuestions, err = readCustomerSheet(f); err != nil {
			return Dataset{}, err
		}
	}
	return ds, nil
}

func sheetRows(f *excelize.File, sheet string, columns []string) ([][]string, func([]string, string) string, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, &ValidationError{Problems: []string{fmt.Sprintf("sheet %s is empty", sheet)}}
	}

	col, err := headerIndex(sheet, rows[0], columns)
	if err != nil {
		return nil, nil, err
	}
	cell := func(row []string, name string) string {
		if i, ok := col[name]; ok && i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}
	return rows, cell, nil
}

func readCustomerSheet(f *excelize.File) ([]models.CustomerQuestion, error) {
	rows, cell, err := sheetRows(f, CustomerSheetName, CustomerColumns)
	if err != nil {
		return nil, err
	}
	var qs []models.CustomerQuestion
	for _, row := range rows[1:] {
		if isBlankRow(row) {
			continue
		}
		qs = append(qs, models.CustomerQuestion{
			Item:         cell(row, "item"),
			Question:     cell(row, "question"),
			Answer:       cell(row, "answer"),
			Category:     cell(row, "category"),
			Alternatives: splitAlternatives(cell(row, "alternatives")),
		})
	}
	return qs, nil
}

func readMenuSheet(f *excelize.File) ([]models.MenuItem, error) {
	rows, cell, err := sheetRows(f, SheetName, Columns)
	if err != nil {
		return nil, err
	}

	var (
		items     []models.MenuItem
		itemIndex = map[string]int{}
		lineIndex = map[string]int{}
		problems  []string
	)
	for n, row := range rows[1:] {
		rowNum := n + 2
		id := cell(row, "item_id")
		if id == "" {
			if isBlankRow(row) {
				continue
			}
			problems = append(problems, fmt.Sprintf("row %d: item_id is required", rowNum))
			continue
		}

		idx, ok := itemIndex[id]
		if !ok {
			idx = len(items)
			itemIndex[id] = idx
			items = append(items, models.MenuItem{
				ID:       id,
				Name:     cell(row, "name"),
				Category: cell(row, "category"),
				State:    models.ItemState(strings.ToLower(cell(row, "status"))),
			})
		}
		item := &items[idx]

		lineNo := cell(row, "line")
		if _, err := strconv.Atoi(lineNo); err != nil {
			problems = append(problems, fmt.Sprintf("row %d: line must be a number, got %q", rowNum, lineNo))
			continue
		}
		key := id + "\x00" + lineNo
		li, ok := lineIndex[key]
		if !ok {
			li = len(item.Lines)
			lineIndex[key] = li
			item.Lines = append(item.Lines, models.DescriptionLine{
				Context:  cell(row, "context"),
				FullText: cell(row, "full_text"),
			})
		}
		if line := &item.Lines[li]; line.Hint == "" {
			line.Hint = cell(row, "hint")
		}

		item.Lines[li].Blanks = append(item.Lines[li].Blanks, models.Blank{
			Answer:       cell(row, "answer"),
			Alternatives: splitAlternatives(cell(row, "alternatives")),
		})
	}

	if len(problems) > 0 {
		return nil, &ValidationError{Problems: problems}
	}
	return items, nil
}

func headerIndex(sheet string, header, columns []string) (map[string]int, error) {
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	var missing []string
	for _, name := range columns {
		if _, ok := col[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &ValidationError{Problems: []string{fmt.Sprintf("sheet %s is missing columns: %s", sheet, strings.Join(missing, ", "))}}
	}
	return col, nil
}

func splitAlternatives(s string) []string {
	alts := []string{}
	for _, a := range strings.Split(s, alternativesSep) {
		if a = strings.TrimSpace(a); a != "" {
			alts = append(alts, a)
		}
	}
	return alts
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
