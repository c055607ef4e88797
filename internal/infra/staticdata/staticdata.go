// Package staticdata holds the bundled fallback content.
//
// The datasets are embedded YAML decoded once per process. Every accessor
// returns a deep copy, so callers may modify what they receive without
// affecting later fallbacks.
package staticdata

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"portfolio-content/internal/domain/entity"
)

//go:embed data
var files embed.FS

// Dataset is one raw portfolio dataset. Records use the same field names as
// the delivery API so they pass through the same validator. Defaults are
// applied to records that do not set a field themselves.
type Dataset struct {
	Name     string           `yaml:"name"`
	Defaults map[string]any   `yaml:"defaults"`
	Records  []map[string]any `yaml:"entries"`
}

// Resolved returns deep copies of the records with Defaults applied.
func (d Dataset) Resolved() []map[string]any {
	out := make([]map[string]any, 0, len(d.Records))
	for _, r := range d.Records {
		rec := cloneMap(r)
		for k, v := range d.Defaults {
			if _, ok := rec[k]; !ok {
				rec[k] = cloneValue(v)
			}
		}
		out = append(out, rec)
	}
	return out
}

// Bundle is the decoded set of fallback datasets.
type Bundle struct {
	articles  []entity.Article
	gallery   []entity.GalleryItem
	sections  []entity.PageSection
	landing   entity.LandingContent
	portfolio []Dataset
	manifest  *Manifest
}

var (
	defaultOnce   sync.Once
	defaultBundle *Bundle
	defaultErr    error
)

// Default returns the bundle decoded from the embedded files.
// Decoding happens on first use.
func Default() (*Bundle, error) {
	defaultOnce.Do(func() {
		defaultBundle, defaultErr = Load(files)
	})
	return defaultBundle, defaultErr
}

// MustDefault is Default for callers that cannot run without fallback data.
func MustDefault() *Bundle {
	b, err := Default()
	if err != nil {
		panic(err)
	}
	return b
}

// Load decodes a bundle from fsys, which must contain a data directory laid
// out like the embedded one.
func Load(fsys fs.FS) (*Bundle, error) {
	b := &Bundle{}
	if err := decodeFile(fsys, "data/articles.yaml", &b.articles); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, "data/gallery.yaml", &b.gallery); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, "data/sections.yaml", &b.sections); err != nil {
		return nil, err
	}
	if err := decodeFile(fsys, "data/landing.yaml", &b.landing); err != nil {
		return nil, err
	}

	names, err := fs.Glob(fsys, "data/portfolio/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list portfolio datasets: %w", err)
	}
	slices.Sort(names)
	for _, name := range names {
		var ds Dataset
		if err := decodeFile(fsys, name, &ds); err != nil {
			return nil, err
		}
		if ds.Name == "" {
			ds.Name = strings.TrimSuffix(path.Base(name), path.Ext(name))
		}
		b.portfolio = append(b.portfolio, ds)
	}

	var m manifestFile
	if err := decodeFile(fsys, "data/assets.yaml", &m); err != nil {
		return nil, err
	}
	b.manifest = newManifest(m.Assets)
	return b, nil
}

func decodeFile(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Articles returns every fallback article.
func (b *Bundle) Articles() []entity.Article {
	return entity.CloneAll(b.articles)
}

// ArticleBySlug returns the fallback article with slug.
func (b *Bundle) ArticleBySlug(slug string) (entity.Article, bool) {
	for _, a := range b.articles {
		if a.Slug == slug {
			return a.Clone(), true
		}
	}
	return entity.Article{}, false
}

// GalleryItems returns every fallback gallery item.
func (b *Bundle) GalleryItems() []entity.GalleryItem {
	return entity.CloneAll(b.gallery)
}

// PageSections returns the sections of page ordered by Order.
// An empty page returns every section.
func (b *Bundle) PageSections(page string) []entity.PageSection {
	out := make([]entity.PageSection, 0, len(b.sections))
	for _, s := range b.sections {
		if page == "" || s.Page == page {
			out = append(out, s.Clone())
		}
	}
	slices.SortStableFunc(out, func(a, b entity.PageSection) int { return a.Order - b.Order })
	return out
}

// Landing returns the fallback home page content.
func (b *Bundle) Landing() entity.LandingContent {
	return b.landing.Clone()
}

// PortfolioDatasets returns deep copies of the raw portfolio datasets in file name order.
func (b *Bundle) PortfolioDatasets() []Dataset {
	out := make([]Dataset, len(b.portfolio))
	for i, ds := range b.portfolio {
		recs := make([]map[string]any, len(ds.Records))
		for j, r := range ds.Records {
			recs[j] = cloneMap(r)
		}
		out[i] = Dataset{Name: ds.Name, Defaults: cloneMap(ds.Defaults), Records: recs}
	}
	return out
}

// Manifest returns the local asset manifest. It is read-only.
func (b *Bundle) Manifest() *Manifest {
	return b.manifest
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneMap(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}
