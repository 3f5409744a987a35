package content

import (
	"fmt"
	"strings"

	"github.com/vytor/menuflash/internal/models"
)

// ValidationError lists every shape problem found in a dataset.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid menu dataset (%d problems): %s", len(e.Problems), strings.Join(e.Problems, "; "))
}

// Validate checks items against the dataset schema and normalizes an empty
// status to active. It reports all problems at once.
func Validate(items []models.MenuItem) error {
	if problems := validateItems(items); len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// ValidateDataset checks menu items and customer questions together.
func ValidateDataset(ds Dataset) error {
	problems := validateItems(ds.MenuItems)
	problems = append(problems, validateCustomerQuestions(ds.CustomerQuestions)...)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func validateCustomerQuestions(qs []models.CustomerQuestion) []string {
	var problems []string
	for i, q := range qs {
		where := fmt.Sprintf("customer_questions[%d]", i)
		for _, f := range []struct{ name, value string }{
			{"item", q.Item},
			{"question", q.Question},
			{"answer", q.Answer},
			{"category", q.Category},
		} {
			if strings.TrimSpace(f.value) == "" {
				problems = append(problems, fmt.Sprintf("%s: %s is required", where, f.name))
			}
		}
	}
	return problems
}

func validateItems(items []models.MenuItem) []string {
	var problems []string
	addf := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(items) == 0 {
		addf("menu_items is empty")
	}

	seen := make(map[string]int, len(items))
	for i := range items {
		item := &items[i]
		where := fmt.Sprintf("menu_items[%d]", i)
		if item.ID != "" {
			where = fmt.Sprintf("menu_items[%d] (%s)", i, item.ID)
		}

		if strings.TrimSpace(item.ID) == "" {
			addf("%s: id is required", where)
		} else if prev, dup := seen[item.ID]; dup {
			addf("%s: duplicate id, first used at menu_items[%d]", where, prev)
		} else {
			seen[item.ID] = i
		}
		if strings.TrimSpace(item.Name) == "" {
			addf("%s: name is required", where)
		}
		if strings.TrimSpace(item.Category) == "" {
			addf("%s: category is required", where)
		}

		switch item.State {
		case "":
			item.State = models.ItemActive
		case models.ItemActive, models.ItemInactive:
		default:
			addf("%s: status must be active or inactive, got %q", where, item.State)
		}

		if len(item.Lines) == 0 {
			addf("%s: description_lines is empty", where)
		}
		for j, line := range item.Lines {
			if len(line.Blanks) == 0 {
				addf("%s: description_lines[%d] has no individual_blanks", where, j)
			}
			for k, b := range line.Blanks {
				if strings.TrimSpace(b.Answer) == "" {
					addf("%s: description_lines[%d].individual_blanks[%d]: answer is required", where, j, k)
				}
			}
		}
	}

	return problems
}
