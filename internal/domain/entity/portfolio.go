package entity

import "slices"

// Category is a portfolio category identifier. Identifiers equal their display labels.
type Category string

// Declared portfolio categories.
const (
	CategoryBridal         Category = "Bridal Makeup"
	CategoryFestival       Category = "Festival Makeup"
	CategoryEditorial      Category = "Editorial & Fashion"
	CategorySpecialEffects Category = "Special Effects"
	CategoryPhotoshoot     Category = "Photoshoot"

	// CategoryAll is the query wildcard; it is not a category of any entry.
	CategoryAll Category = "all"
)

// Categories returns the declared categories in display order.
func Categories() []Category {
	return []Category{CategoryBridal, CategoryFestival, CategoryEditorial, CategorySpecialEffects, CategoryPhotoshoot}
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return slices.Contains(Categories(), c)
}

// PortfolioImage is one photo of a portfolio entry.
type PortfolioImage struct {
	URL    string `json:"url" yaml:"url"`
	Alt    string `json:"alt" yaml:"alt"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// PortfolioEntry is one item of the unified portfolio catalogue.
type PortfolioEntry struct {
	ID           string           `json:"id" yaml:"id"`
	Title        string           `json:"title" yaml:"title"`
	Subtitle     string           `json:"subtitle" yaml:"subtitle"`
	Description  string           `json:"description" yaml:"description"`
	Images       []PortfolioImage `json:"images" yaml:"images"`
	Category     Category         `json:"category" yaml:"category"`
	Featured     bool             `json:"featured" yaml:"featured"`
	DisplayOrder *int             `json:"display_order,omitempty" yaml:"display_order,omitempty"`
	Tags         []string         `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Source names the dataset the entry was loaded from.
	Source string `json:"source" yaml:"-"`
}

// Clone returns a deep copy of the entry.
func (e PortfolioEntry) Clone() PortfolioEntry {
	e.Images = slices.Clone(e.Images)
	e.Tags = slices.Clone(e.Tags)
	if e.DisplayOrder != nil {
		order := *e.DisplayOrder
		e.DisplayOrder = &order
	}
	return e
}

// Order returns DisplayOrder, or 999 when unset so unordered entries sort last.
func (e PortfolioEntry) Order() int {
	if e.DisplayOrder == nil {
		return 999
	}
	return *e.DisplayOrder
}
