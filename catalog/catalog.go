// Package catalog holds the static category catalog articles are filed under.
//
// The catalog is configuration: it is read once at start-up and never
// mutated. The data layer does not enforce it; callers use Check before
// handing category ids to the article store.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/TzzJokerzzT/article-manager/model"
	"gopkg.in/yaml.v3"
)

const maxNameLength = 100

// Category is a top-level article category.
type Category struct {
	ID            string        `json:"id" yaml:"id"`
	Name          string        `json:"name" yaml:"name"`
	Description   string        `json:"description" yaml:"description"`
	Subcategories []Subcategory `json:"subcategories" yaml:"subcategories"`
}

// Subcategory belongs to exactly one Category.
type Subcategory struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	CategoryID  string `json:"category_id" yaml:"category_id"`
}

// Catalog is an ordered, read-only list of categories.
type Catalog struct {
	categories []Category
}

// New validates categories and builds a Catalog from them.
func New(categories []Category) (*Catalog, error) {
	seen := make(map[string]bool, len(categories))
	for i := range categories {
		c := &categories[i]
		if c.ID == "" {
			return nil, fmt.Errorf("category %d: id is required", i)
		}
		if seen[c.ID] {
			return nil, fmt.Errorf("category %s: duplicate id", c.ID)
		}
		seen[c.ID] = true
		if err := validateName(c.Name); err != nil {
			return nil, fmt.Errorf("category %s: %w", c.ID, err)
		}
		for j := range c.Subcategories {
			sub := &c.Subcategories[j]
			if sub.CategoryID == "" {
				sub.CategoryID = c.ID
			}
			if sub.ID == "" {
				return nil, fmt.Errorf("category %s: subcategory %d: id is required", c.ID, j)
			}
			if sub.CategoryID != c.ID {
				return nil, fmt.Errorf("subcategory %s: belongs to %s, listed under %s", sub.ID, sub.CategoryID, c.ID)
			}
			if err := validateName(sub.Name); err != nil {
				return nil, fmt.Errorf("subcategory %s: %w", sub.ID, err)
			}
		}
	}
	return &Catalog{categories: categories}, nil
}

func validateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("name cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return errors.New("name cannot exceed 100 characters")
	}
	return nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New([]Category{
		{
			ID:          "tech",
			Name:        "Technology",
			Description: "Articles about technology and programming",
			Subcategories: []Subcategory{
				{ID: "web-dev", Name: "Web Development", Description: "Frontend and backend web development", CategoryID: "tech"},
				{ID: "mobile", Name: "Mobile Development", Description: "Mobile app development", CategoryID: "tech"},
				{ID: "ai-ml", Name: "AI & Machine Learning", Description: "Artificial intelligence and machine learning", CategoryID: "tech"},
			},
		},
		{
			ID:          "science",
			Name:        "Science",
			Description: "Scientific articles and research",
		},
		{
			ID:          "business",
			Name:        "Business",
			Description: "Business and entrepreneurship articles",
		},
	})
	if err != nil {
		panic(err)
	}
	return c
}

// Parse reads a YAML list of categories.
func Parse(r io.Reader) (*Catalog, error) {
	var categories []Category
	if err := yaml.NewDecoder(r).Decode(&categories); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(categories)
}

// Load reads the catalog file at path. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Categories returns a copy of the categories in catalog order.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		out[i] = cat
		out[i].Subcategories = append([]Subcategory(nil), cat.Subcategories...)
	}
	return out
}

// Category looks up a category by id.
func (c *Catalog) Category(id string) (Category, bool) {
	for _, cat := range c.categories {
		if cat.ID == id {
			return cat, true
		}
	}
	return Category{}, false
}

// Check reports whether categoryID exists and subcategoryID, when set,
// belongs to it. Violations are returned as *model.ValidationError.
func (c *Catalog) Check(categoryID, subcategoryID string) error {
	cat, ok := c.Category(categoryID)
	if !ok {
		return &model.ValidationError{Field: "categoryId", Message: fmt.Sprintf("unknown category %q", categoryID)}
	}
	if subcategoryID == "" {
		return nil
	}
	for _, sub := range cat.Subcategories {
		if sub.ID == subcategoryID {
			return nil
		}
	}
	return &model.ValidationError{
		Field:   "subcategoryId",
		Message: fmt.Sprintf("%q is not a subcategory of %q", subcategoryID, categoryID),
	}
}
