package portfolio

import (
	"slices"
	"time"

	"portfolio-content/internal/domain/entity"
)

// Report summarises one catalogue build.
type Report struct {
	Loaded     int         `json:"loaded"`
	Kept       int         `json:"kept"`
	Warnings   int         `json:"warnings"`
	Rejections []Rejection `json:"rejections"`
	LiveItems  int         `json:"live_items"`
}

// Catalogue is the frozen, ordered portfolio collection.
type Catalogue struct {
	entries []entity.PortfolioEntry
	byID    map[string]int
	report  Report
	builtAt time.Time
}

// Freeze builds a Catalogue from entries, which are copied.
func Freeze(entries []entity.PortfolioEntry, report Report) *Catalogue {
	c := &Catalogue{
		entries: entity.CloneAll(entries),
		byID:    make(map[string]int, len(entries)),
		report:  report,
		builtAt: time.Now(),
	}
	if c.entries == nil {
		c.entries = []entity.PortfolioEntry{}
	}
	for i, e := range c.entries {
		c.byID[e.ID] = i
	}
	c.report.Kept = len(c.entries)
	return c
}

// Len returns the number of entries.
func (c *Catalogue) Len() int { return len(c.entries) }

// BuiltAt returns when the catalogue was frozen.
func (c *Catalogue) BuiltAt() time.Time { return c.builtAt }

// Report returns the build report.
func (c *Catalogue) Report() Report {
	r := c.report
	r.Rejections = slices.Clone(r.Rejections)
	return r
}

// All returns every entry in load order.
func (c *Catalogue) All() []entity.PortfolioEntry {
	return entity.CloneAll(c.entries)
}

// ByCategory returns entries of category, or of every category for
// entity.CategoryAll, optionally only featured ones, sorted ascending by
// display order (unordered last, ties in load order) and truncated to limit
// when limit > 0.
//
// Entries whose category is not declared are only returned for CategoryAll.
func (c *Catalogue) ByCategory(category entity.Category, featuredOnly bool, limit int) []entity.PortfolioEntry {
	if category != entity.CategoryAll && !category.Valid() {
		return []entity.PortfolioEntry{}
	}
	out := make([]entity.PortfolioEntry, 0, len(c.entries))
	for _, e := range c.entries {
		if category != entity.CategoryAll && e.Category != category {
			continue
		}
		if featuredOnly && !e.Featured {
			continue
		}
		out = append(out, e.Clone())
	}
	slices.SortStableFunc(out, func(a, b entity.PortfolioEntry) int {
		return a.Order() - b.Order()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Featured returns up to limit featured entries of every category.
func (c *Catalogue) Featured(limit int) []entity.PortfolioEntry {
	return c.ByCategory(entity.CategoryAll, true, limit)
}

// ByID returns the entry with id.
func (c *Catalogue) ByID(id string) (entity.PortfolioEntry, bool) {
	i, ok := c.byID[id]
	if !ok {
		return entity.PortfolioEntry{}, false
	}
	return c.entries[i].Clone(), true
}

// CategoryInfo describes one category of the catalogue.
type CategoryInfo struct {
	ID    entity.Category `json:"id"`
	Label string          `json:"label"`
	Count int             `json:"count"`
}

// Categories returns the "all" pseudo-category followed by every declared
// category with its entry count.
func (c *Catalogue) Categories() []CategoryInfo {
	counts := c.categoryCounts()
	out := []CategoryInfo{{ID: entity.CategoryAll, Label: "All Work", Count: len(c.entries)}}
	for _, cat := range entity.Categories() {
		out = append(out, CategoryInfo{ID: cat, Label: string(cat), Count: counts[cat]})
	}
	return out
}

func (c *Catalogue) categoryCounts() map[entity.Category]int {
	counts := make(map[entity.Category]int)
	for _, e := range c.entries {
		counts[e.Category]++
	}
	return counts
}

// Stats summarises the catalogue.
type Stats struct {
	Total         int            `json:"total"`
	Featured      int            `json:"featured"`
	Images        int            `json:"images"`
	ByCategory    map[string]int `json:"by_category"`
	BySource      map[string]int `json:"by_source"`
	Uncategorized int            `json:"uncategorized"`
	Rejected      int            `json:"rejected"`
	LastBuiltAt   time.Time      `json:"last_built_at"`
	Warnings      int            `json:"warnings"`
}

// Stats computes catalogue statistics.
func (c *Catalogue) Stats() Stats {
	s := Stats{
		Total:       len(c.entries),
		ByCategory:  make(map[string]int),
		BySource:    make(map[string]int),
		Rejected:    len(c.report.Rejections),
		LastBuiltAt: c.builtAt,
		Warnings:    c.report.Warnings,
	}
	for _, cat := range entity.Categories() {
		s.ByCategory[string(cat)] = 0
	}
	for _, e := range c.entries {
		if e.Featured {
			s.Featured++
		}
		s.Images += len(e.Images)
		s.BySource[e.Source]++
		if e.Category.Valid() {
			s.ByCategory[string(e.Category)]++
		} else {
			s.Uncategorized++
		}
	}
	return s
}
