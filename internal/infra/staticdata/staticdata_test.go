package staticdata

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/domain/validation"
)

func TestDefault_DecodesEmbeddedData(t *testing.T) {
	b, err := Default()
	require.NoError(t, err)

	assert.Len(t, b.Articles(), 3)
	assert.Len(t, b.GalleryItems(), 4)
	assert.NotEmpty(t, b.PageSections("about"))
	assert.Equal(t, "static-landing", b.Landing().ID)
	assert.Greater(t, b.Manifest().Len(), 0)

	names := make([]string, 0)
	for _, ds := range b.PortfolioDatasets() {
		names = append(names, ds.Name)
	}
	assert.Equal(t, []string{"bridal", "editorial", "festival", "photoshoot"}, names)
}

func TestDefault_ArticlesHavePublicationDates(t *testing.T) {
	b := MustDefault()
	for _, a := range b.Articles() {
		assert.False(t, a.PublishedAt.IsZero(), a.Slug)
		assert.NotEmpty(t, a.Body, a.Slug)
		assert.NotNil(t, a.FeaturedImage, a.Slug)
	}
}

func TestDefault_GalleryCategoriesAreDeclared(t *testing.T) {
	b := MustDefault()
	for _, g := range b.GalleryItems() {
		assert.True(t, entity.Category(g.Category).Valid(), "gallery item %s has category %q", g.ID, g.Category)
		assert.NotEmpty(t, g.Images, g.ID)
	}
}

func TestDefault_PortfolioRecordsValidate(t *testing.T) {
	b := MustDefault()
	for _, ds := range b.PortfolioDatasets() {
		for _, rec := range ds.Resolved() {
			r := validation.ValidatePortfolioEntry(rec, validation.DefaultOptions())
			assert.True(t, r.IsValid, "dataset %s record %v: %v", ds.Name, rec["id"], r.Errors)
		}
	}
}

func TestDefault_LocalImagesAreInManifest(t *testing.T) {
	b := MustDefault()
	m := b.Manifest()
	for _, g := range b.GalleryItems() {
		for _, img := range g.Images {
			_, ok := m.Lookup(img.URL)
			assert.True(t, ok, "gallery image %s missing from manifest", img.URL)
		}
	}
	for _, a := range b.Articles() {
		_, ok := m.Lookup(a.FeaturedImage.URL)
		assert.True(t, ok, "article image %s missing from manifest", a.FeaturedImage.URL)
	}
}

func TestBundle_ReturnsCopies(t *testing.T) {
	b := MustDefault()

	first := b.Articles()
	first[0].Title = "changed"
	first[0].Tags[0] = "changed"
	first[0].FeaturedImage.URL = "changed"

	second := b.Articles()
	assert.NotEqual(t, "changed", second[0].Title)
	assert.NotEqual(t, "changed", second[0].Tags[0])
	assert.NotEqual(t, "changed", second[0].FeaturedImage.URL)

	ds := b.PortfolioDatasets()
	ds[0].Records[0]["title"] = "changed"
	assert.NotEqual(t, "changed", b.PortfolioDatasets()[0].Records[0]["title"])

	landing := b.Landing()
	landing.Highlights[0] = "changed"
	if diff := cmp.Diff(b.Landing(), b.Landing()); diff != "" {
		t.Errorf("Landing() not stable (-want +got):\n%s", diff)
	}
	assert.NotEqual(t, "changed", b.Landing().Highlights[0])
}

func TestBundle_ArticleBySlug(t *testing.T) {
	b := MustDefault()

	a, ok := b.ArticleBySlug("festival-glitter-that-lasts")
	require.True(t, ok)
	assert.Equal(t, "static-article-festival-glitter", a.ID)

	_, ok = b.ArticleBySlug("missing")
	assert.False(t, ok)
}

func TestBundle_PageSectionsOrdered(t *testing.T) {
	b := MustDefault()
	sections := b.PageSections("services")
	require.Len(t, sections, 2)
	assert.Equal(t, "bridal", sections[0].Key)
	assert.Equal(t, "events", sections[1].Key)
	assert.Empty(t, b.PageSections("missing"))
}

func TestDataset_ResolvedAppliesDefaults(t *testing.T) {
	ds := Dataset{
		Name:     "festival",
		Defaults: map[string]any{"category": "Festival Makeup"},
		Records: []map[string]any{
			{"id": "a"},
			{"id": "b", "category": "Photoshoot"},
		},
	}
	recs := ds.Resolved()
	assert.Equal(t, "Festival Makeup", recs[0]["category"])
	assert.Equal(t, "Photoshoot", recs[1]["category"])
	_, touched := ds.Records[0]["category"]
	assert.False(t, touched)
}

func TestLoad_ErrorsOnMalformedFile(t *testing.T) {
	fsys := fstest.MapFS{
		"data/articles.yaml": {Data: []byte("- id: [unterminated")},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "articles.yaml")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(fstest.MapFS{})
	assert.Error(t, err)
}

func TestManifest(t *testing.T) {
	m := NewManifest(
		ManifestAsset{Path: "/b.jpg", Alt: "b", Width: 10, Height: 10},
		ManifestAsset{Path: "/a.jpg", Alt: "a"},
	)
	assert.Equal(t, 2, m.Len())
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, m.Paths())
	a, ok := m.Lookup("/b.jpg")
	require.True(t, ok)
	assert.Equal(t, "b", a.Alt)

	var empty *Manifest
	_, ok = empty.Lookup("/a.jpg")
	assert.False(t, ok)
	assert.Equal(t, 0, empty.Len())
}
