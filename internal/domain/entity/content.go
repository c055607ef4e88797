// Package entity defines the public content shapes served by the content
// gateway and the portfolio catalogue.
//
// The same structs are produced by the live transform and decoded from the
// bundled static datasets, so callers cannot tell the two sources apart by
// shape. Entities are plain values; Clone methods return deep copies for the
// places that hand shared data to callers.
package entity

import (
	"slices"
	"time"
)

// ContentType identifies one content shape.
type ContentType string

// Content shapes served by the gateway.
const (
	ContentArticle     ContentType = "article"
	ContentGallery     ContentType = "gallery"
	ContentPageSection ContentType = "section"
	ContentLanding     ContentType = "landing"
	ContentPortfolio   ContentType = "portfolio"
)

// ContentTypes lists every gateway content shape.
func ContentTypes() []ContentType {
	return []ContentType{ContentArticle, ContentGallery, ContentPageSection, ContentLanding, ContentPortfolio}
}

// Asset is a media file referenced by content.
type Asset struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	URL         string `json:"url" yaml:"url"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	FileName    string `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
	Width       int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height      int    `json:"height,omitempty" yaml:"height,omitempty"`
}

// Alt returns the accessible text of the asset: its description, else its title.
func (a Asset) Alt() string {
	if a.Description != "" {
		return a.Description
	}
	return a.Title
}

func cloneAsset(a *Asset) *Asset {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// Link is a call-to-action.
type Link struct {
	Label string `json:"label" yaml:"label"`
	URL   string `json:"url" yaml:"url"`
}

// SEO holds page metadata.
type SEO struct {
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// Article is a blog post.
type Article struct {
	ID            string    `json:"id" yaml:"id"`
	Slug          string    `json:"slug" yaml:"slug"`
	Title         string    `json:"title" yaml:"title"`
	Excerpt       string    `json:"excerpt" yaml:"excerpt"`
	Body          string    `json:"body" yaml:"body"` // HTML
	Category      string    `json:"category" yaml:"category"`
	Tags          []string  `json:"tags" yaml:"tags"`
	Author        string    `json:"author,omitempty" yaml:"author,omitempty"`
	PublishedAt   time.Time `json:"published_at" yaml:"published_at"`
	FeaturedImage *Asset    `json:"featured_image,omitempty" yaml:"featured_image,omitempty"`
	ReadingTime   int       `json:"reading_time" yaml:"reading_time"` // minutes
	Featured      bool      `json:"featured" yaml:"featured"`
	SEO           SEO       `json:"seo" yaml:"seo"`
}

// Clone returns a deep copy of the article.
func (a Article) Clone() Article {
	a.Tags = slices.Clone(a.Tags)
	a.FeaturedImage = cloneAsset(a.FeaturedImage)
	return a
}

// GalleryItem is one portfolio look with its photos.
type GalleryItem struct {
	ID           string   `json:"id" yaml:"id"`
	Title        string   `json:"title" yaml:"title"`
	Subtitle     string   `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Description  string   `json:"description" yaml:"description"`
	Category     string   `json:"category" yaml:"category"`
	Images       []Asset  `json:"images" yaml:"images"`
	Featured     bool     `json:"featured" yaml:"featured"`
	DisplayOrder *int     `json:"display_order,omitempty" yaml:"display_order,omitempty"`
	Tags         []string `json:"tags" yaml:"tags"`
}

// Clone returns a deep copy of the gallery item.
func (g GalleryItem) Clone() GalleryItem {
	g.Images = slices.Clone(g.Images)
	g.Tags = slices.Clone(g.Tags)
	if g.DisplayOrder != nil {
		order := *g.DisplayOrder
		g.DisplayOrder = &order
	}
	return g
}

// PageSection is a block of copy on one page.
type PageSection struct {
	ID       string `json:"id" yaml:"id"`
	Page     string `json:"page" yaml:"page"`
	Key      string `json:"key" yaml:"key"`
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle,omitempty" yaml:"subtitle,omitempty"`
	Body     string `json:"body" yaml:"body"` // HTML
	Image    *Asset `json:"image,omitempty" yaml:"image,omitempty"`
	Order    int    `json:"order" yaml:"order"`
	CTA      *Link  `json:"cta,omitempty" yaml:"cta,omitempty"`
}

// Clone returns a deep copy of the section.
func (s PageSection) Clone() PageSection {
	s.Image = cloneAsset(s.Image)
	if s.CTA != nil {
		cta := *s.CTA
		s.CTA = &cta
	}
	return s
}

// LandingContent is the home page hero and highlights.
type LandingContent struct {
	ID          string   `json:"id" yaml:"id"`
	Headline    string   `json:"headline" yaml:"headline"`
	Subheadline string   `json:"subheadline" yaml:"subheadline"`
	Intro       string   `json:"intro" yaml:"intro"` // HTML
	HeroImage   *Asset   `json:"hero_image,omitempty" yaml:"hero_image,omitempty"`
	PrimaryCTA  Link     `json:"primary_cta" yaml:"primary_cta"`
	Highlights  []string `json:"highlights" yaml:"highlights"`
	SEO         SEO      `json:"seo" yaml:"seo"`
}

// Clone returns a deep copy of the landing content.
func (l LandingContent) Clone() LandingContent {
	l.HeroImage = cloneAsset(l.HeroImage)
	l.Highlights = slices.Clone(l.Highlights)
	return l
}

// CloneAll deep-copies a slice of cloneable values.
func CloneAll[T interface{ Clone() T }](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}
