package content

import (
	"slices"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/vytor/menuflash/internal/models"
)

// Catalog is an immutable, validated view of the menu.
type Catalog struct {
	items      []models.MenuItem
	byID       map[string]int
	questions  []models.Question
	categories []string

	customer           []models.Question
	customerCategories []string
}

// NewCatalog validates items and indexes them.
func NewCatalog(items []models.MenuItem) (*Catalog, error) {
	return Build(Dataset{MenuItems: items})
}

// Build validates a whole dataset and indexes it.
func Build(ds Dataset) (*Catalog, error) {
	items := slices.Clone(ds.MenuItems)
	if err := ValidateDataset(Dataset{MenuItems: items, CustomerQuestions: ds.CustomerQuestions}); err != nil {
		return nil, err
	}

	c := &Catalog{
		items: items,
		byID:  make(map[string]int, len(items)),
	}
	seenCategory := map[string]bool{}
	for i, item := range items {
		c.byID[item.ID] = i
		if !item.Active() {
			continue
		}
		if !seenCategory[item.Category] {
			seenCategory[item.Category] = true
			c.categories = append(c.categories, item.Category)
		}
		for j, line := range item.Lines {
			c.questions = append(c.questions, models.Question{
				ItemID:      item.ID,
				ComponentID: strconv.Itoa(j),
				ItemName:    item.Name,
				Category:    item.Category,
				Context:     line.Context,
				FullText:    line.FullText,
				Blanks:      line.Blanks,
				Hint:        line.Hint,
			})
		}
	}
	slices.Sort(c.categories)
	c.indexCustomer(ds.CustomerQuestions)
	return c, nil
}

// indexCustomer turns customer questions into single-blank questions. The
// item is linked by name when the menu has it.
func (c *Catalog) indexCustomer(qs []models.CustomerQuestion) {
	byName := make(map[string]string, len(c.items))
	for _, item := range c.items {
		byName[strings.ToLower(item.Name)] = item.ID
	}
	seenCategory := map[string]bool{}
	for i, cq := range qs {
		c.customer = append(c.customer, models.Question{
			ItemID:      byName[strings.ToLower(strings.TrimSpace(cq.Item))],
			ComponentID: "customer-" + strconv.Itoa(i),
			ItemName:    cq.Item,
			Category:    cq.Category,
			Prompt:      cq.Question,
			Blanks:      []models.Blank{{Answer: cq.Answer, Alternatives: cq.Alternatives}},
		})
		if !seenCategory[cq.Category] {
			seenCategory[cq.Category] = true
			c.customerCategories = append(c.customerCategories, cq.Category)
		}
	}
	slices.Sort(c.customerCategories)
}

// CustomerQuestions returns the customer questions of category, or all of
// them for an empty category.
func (c *Catalog) CustomerQuestions(category string) []models.Question {
	if category == "" {
		return slices.Clone(c.customer)
	}
	var out []models.Question
	for _, q := range c.customer {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// CustomerCategories returns the sorted categories of the customer questions.
func (c *Catalog) CustomerCategories() []string {
	return slices.Clone(c.customerCategories)
}

// Items returns every item, inactive ones included.
func (c *Catalog) Items() []models.MenuItem {
	return slices.Clone(c.items)
}

func (c *Catalog) Item(id string) (models.MenuItem, bool) {
	i, ok := c.byID[id]
	if !ok {
		return models.MenuItem{}, false
	}
	return c.items[i], true
}

// ItemMap indexes every item by id.
func (c *Catalog) ItemMap() map[string]models.MenuItem {
	m := make(map[string]models.MenuItem, len(c.items))
	for _, item := range c.items {
		m[item.ID] = item
	}
	return m
}

// Categories returns the sorted categories that have active items.
func (c *Catalog) Categories() []string {
	return slices.Clone(c.categories)
}

// Questions returns one question per description line of every active item,
// optionally restricted to category. An empty category means all.
func (c *Catalog) Questions(category string) []models.Question {
	if category == "" {
		return slices.Clone(c.questions)
	}
	var out []models.Question
	for _, q := range c.questions {
		if q.Category == category {
			out = append(out, q)
		}
	}
	return out
}

// Question looks up a single question by item and component id.
func (c *Catalog) Question(itemID, componentID string) (models.Question, bool) {
	for _, q := range c.questions {
		if q.ItemID == itemID && q.ComponentID == componentID {
			return q, true
		}
	}
	return models.Question{}, false
}

// Source holds the live catalog and lets an import swap it atomically.
type Source struct {
	current atomic.Pointer[Catalog]
}

func NewSource(c *Catalog) *Source {
	s := &Source{}
	s.current.Store(c)
	return s
}

func (s *Source) Catalog() *Catalog {
	return s.current.Load()
}

// Replace installs c and returns the previous catalog.
func (s *Source) Replace(c *Catalog) *Catalog {
	return s.current.Swap(c)
}
