package validation

import (
	"strings"
	"unicode"
)

// Field names of the delivery-API records.
const (
	FieldTitle          = "title"
	FieldSlug           = "slug"
	FieldExcerpt        = "excerpt"
	FieldBody           = "body"
	FieldCategory       = "category"
	FieldTags           = "tags"
	FieldAuthor         = "author"
	FieldPublishedDate  = "publishedDate"
	FieldFeaturedImage  = "featuredImage"
	FieldFeatured       = "featured"
	FieldSEOTitle       = "seoTitle"
	FieldSEODescription = "seoDescription"
	FieldSubtitle       = "subtitle"
	FieldDescription    = "description"
	FieldImages         = "images"
	FieldDisplayOrder   = "displayOrder"
	FieldPage           = "page"
	FieldSectionKey     = "sectionKey"
	FieldImage          = "image"
	FieldOrder          = "order"
	FieldCTALabel       = "ctaLabel"
	FieldCTAURL         = "ctaUrl"
	FieldHeadline       = "headline"
	FieldSubheadline    = "subheadline"
	FieldIntro          = "intro"
	FieldHeroImage      = "heroImage"
	FieldHighlights     = "highlights"
	FieldID             = "id"
)

// DefaultArticleCategory is used when an article carries no category.
const DefaultArticleCategory = "Beauty Tips"

// ValidateArticle validates a blog post record.
func ValidateArticle(f Fields, opts Options) Result {
	opts = opts.withDefaults()
	c := newChecker()

	c.requiredString(f, FieldTitle)
	slug := c.requiredString(f, FieldSlug)
	if slug != "" && !isSlug(slug) {
		c.warnf("%s %q should contain only lower-case letters, digits and hyphens", FieldSlug, slug)
	}
	c.optionalString(f, FieldExcerpt, "")
	c.richTextBlock(f, FieldBody, true)
	if _, ok := f[FieldCategory]; ok {
		c.category(f, FieldCategory, opts.ArticleCategories, false)
	} else {
		c.data[FieldCategory] = DefaultArticleCategory
	}
	c.tags(f, FieldTags)
	c.optionalString(f, FieldAuthor, "")
	c.date(f, FieldPublishedDate, true, opts)
	c.assetReference(f, FieldFeaturedImage, false)
	c.optionalBoolean(f, FieldFeatured, false)
	c.seo(f, FieldSEOTitle, FieldSEODescription)

	return c.result()
}

// ValidateGalleryItem validates a portfolio gallery record.
func ValidateGalleryItem(f Fields, opts Options) Result {
	opts = opts.withDefaults()
	c := newChecker()

	c.requiredString(f, FieldTitle)
	c.optionalString(f, FieldSubtitle, "")
	c.optionalString(f, FieldDescription, "")
	c.category(f, FieldCategory, opts.PortfolioCategories, true)
	c.images(f, FieldImages, true)
	c.optionalBoolean(f, FieldFeatured, false)
	c.order(f, FieldDisplayOrder)
	c.tags(f, FieldTags)

	return c.result()
}

// ValidatePageSection validates a page copy block.
func ValidatePageSection(f Fields, opts Options) Result {
	c := newChecker()

	c.requiredString(f, FieldPage)
	c.requiredString(f, FieldSectionKey)
	c.requiredString(f, FieldTitle)
	c.optionalString(f, FieldSubtitle, "")
	c.richTextBlock(f, FieldBody, false)
	c.assetReference(f, FieldImage, false)
	c.order(f, FieldOrder)
	c.link(f, FieldCTALabel, FieldCTAURL)

	return c.result()
}

// ValidateLandingContent validates the home page record.
func ValidateLandingContent(f Fields, opts Options) Result {
	c := newChecker()

	c.requiredString(f, FieldHeadline)
	c.optionalString(f, FieldSubheadline, "")
	c.richTextBlock(f, FieldIntro, false)
	c.assetReference(f, FieldHeroImage, true)
	c.link(f, FieldCTALabel, FieldCTAURL)

	highlights := c.optionalArray(f, FieldHighlights)
	kept := make([]string, 0, len(highlights))
	for i, raw := range highlights {
		s, ok := raw.(string)
		if !ok {
			c.warnf("%s[%d] must be a string, got %T; ignoring", FieldHighlights, i, raw)
			continue
		}
		kept = append(kept, s)
	}
	c.data[FieldHighlights] = kept
	c.seo(f, FieldSEOTitle, FieldSEODescription)

	return c.result()
}

// ValidatePortfolioEntry validates an entry of a bundled portfolio dataset.
func ValidatePortfolioEntry(f Fields, opts Options) Result {
	opts = opts.withDefaults()
	c := newChecker()

	c.requiredString(f, FieldID)
	c.requiredString(f, FieldTitle)
	c.optionalString(f, FieldSubtitle, "")
	c.optionalString(f, FieldDescription, "")
	c.category(f, FieldCategory, opts.PortfolioCategories, true)
	c.images(f, FieldImages, true)
	c.optionalBoolean(f, FieldFeatured, false)
	c.order(f, FieldDisplayOrder)
	c.tags(f, FieldTags)

	return c.result()
}

func isSlug(s string) bool {
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if r != '-' && !unicode.IsDigit(r) && !(unicode.IsLower(r) && r <= unicode.MaxASCII) {
			return false
		}
	}
	return true
}
