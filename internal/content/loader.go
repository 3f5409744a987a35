// Package content loads the menu dataset and turns it into quiz questions.
package content

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vytor/menuflash/internal/models"
)

// Dataset is everything one menu file holds. Customer questions are optional.
type Dataset struct {
	MenuItems         []models.MenuItem
	CustomerQuestions []models.CustomerQuestion
}

type document struct {
	MenuItems         *[]models.MenuItem        `json:"menu_items"`
	CustomerQuestions []models.CustomerQuestion `json:"customer_questions"`
}

// LoadFile reads a .json or .xlsx dataset and returns a validated catalog.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open menu: %w", err)
	}
	defer f.Close()

	var ds Dataset
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		ds, err = ReadJSON(f)
	case ".xlsx":
		ds, err = ReadXLSX(f)
	default:
		return nil, fmt.Errorf("unsupported menu format %q", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return Build(ds)
}

// ReadJSON decodes the menu document. Unknown fields are rejected so
// schema drift is reported instead of silently ignored.
func ReadJSON(r io.Reader) (Dataset, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var doc document
	if err := dec.Decode(&doc); err != nil {
		return Dataset{}, fmt.Errorf("decode menu json: %w", err)
	}
	if doc.MenuItems == nil {
		return Dataset{}, &ValidationError{Problems: []string{"menu_items is missing"}}
	}
	return Dataset{MenuItems: *doc.MenuItems, CustomerQuestions: doc.CustomerQuestions}, nil
}
