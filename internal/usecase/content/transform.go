package content

import (
	"encoding/json"
	"html"
	"strings"
	"time"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/domain/validation"
	"portfolio-content/internal/infra/cms"
	"portfolio-content/internal/utils/text"
)

// excerptLength is the length of excerpts derived from the body.
const excerptLength = 160

// Transforms are best effort: validation errors are reported by the
// validator, and missing or mistyped fields become zero values here.

func toArticle(e cms.Entry) entity.Article {
	f := e.Fields
	body := f[validation.FieldBody]
	plain := text.PlainText(body)

	a := entity.Article{
		ID:            e.Sys.ID,
		Slug:          str(f, validation.FieldSlug),
		Title:         str(f, validation.FieldTitle),
		Excerpt:       str(f, validation.FieldExcerpt),
		Body:          richHTML(body),
		Category:      str(f, validation.FieldCategory),
		Tags:          strList(f, validation.FieldTags),
		Author:        author(f[validation.FieldAuthor]),
		FeaturedImage: asset(f[validation.FieldFeaturedImage]),
		ReadingTime:   text.ReadingTime(plain),
		Featured:      boolean(f, validation.FieldFeatured),
		SEO: entity.SEO{
			Title:       str(f, validation.FieldSEOTitle),
			Description: str(f, validation.FieldSEODescription),
		},
	}
	if a.Category == "" {
		a.Category = validation.DefaultArticleCategory
	}
	if a.Excerpt == "" {
		a.Excerpt = text.Excerpt(plain, excerptLength)
	}
	if t, ok := validation.ParseDate(str(f, validation.FieldPublishedDate)); ok {
		a.PublishedAt = t.UTC()
	} else if t, err := time.Parse(time.RFC3339, e.Sys.CreatedAt); err == nil {
		a.PublishedAt = t.UTC()
	}
	if a.SEO.Title == "" {
		a.SEO.Title = a.Title
	}
	if a.SEO.Description == "" {
		a.SEO.Description = a.Excerpt
	}
	return a
}

func toGalleryItem(e cms.Entry) entity.GalleryItem {
	f := e.Fields
	g := entity.GalleryItem{
		ID:          e.Sys.ID,
		Title:       str(f, validation.FieldTitle),
		Subtitle:    str(f, validation.FieldSubtitle),
		Description: text.PlainText(f[validation.FieldDescription]),
		Category:    str(f, validation.FieldCategory),
		Images:      assets(f[validation.FieldImages]),
		Featured:    boolean(f, validation.FieldFeatured),
		Tags:        strList(f, validation.FieldTags),
	}
	if n, ok := number(f, validation.FieldDisplayOrder); ok {
		g.DisplayOrder = &n
	}
	return g
}

func toPageSection(e cms.Entry) entity.PageSection {
	f := e.Fields
	s := entity.PageSection{
		ID:       e.Sys.ID,
		Page:     str(f, validation.FieldPage),
		Key:      str(f, validation.FieldSectionKey),
		Title:    str(f, validation.FieldTitle),
		Subtitle: str(f, validation.FieldSubtitle),
		Body:     richHTML(f[validation.FieldBody]),
		Image:    asset(f[validation.FieldImage]),
	}
	if n, ok := number(f, validation.FieldOrder); ok {
		s.Order = n
	}
	if cta := link(f); cta.URL != "" {
		s.CTA = &cta
	}
	return s
}

func toLanding(e cms.Entry) entity.LandingContent {
	f := e.Fields
	l := entity.LandingContent{
		ID:          e.Sys.ID,
		Headline:    str(f, validation.FieldHeadline),
		Subheadline: str(f, validation.FieldSubheadline),
		Intro:       richHTML(f[validation.FieldIntro]),
		HeroImage:   asset(f[validation.FieldHeroImage]),
		PrimaryCTA:  link(f),
		Highlights:  strList(f, validation.FieldHighlights),
		SEO: entity.SEO{
			Title:       str(f, validation.FieldSEOTitle),
			Description: str(f, validation.FieldSEODescription),
		},
	}
	if l.SEO.Title == "" {
		l.SEO.Title = l.Headline
	}
	return l
}

// richHTML renders a rich-text field. Plain strings without markup become a
// single escaped paragraph.
func richHTML(v any) string {
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		if s == "" || strings.HasPrefix(s, "<") {
			return s
		}
		return "<p>" + html.EscapeString(s) + "</p>"
	}
	return text.ToHTML(v)
}

func asset(raw any) *entity.Asset {
	if raw == nil {
		return nil
	}
	a, ok := validation.DecodeAsset(raw)
	if !ok {
		return nil
	}
	return &a
}

func assets(raw any) []entity.Asset {
	list, _ := raw.([]any)
	out := make([]entity.Asset, 0, len(list))
	for _, item := range list {
		if a, ok := validation.DecodeAsset(item); ok {
			out = append(out, a)
		}
	}
	return out
}

// author reads a plain name or a linked author entry.
func author(raw any) string {
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case map[string]any:
		if fields, ok := v["fields"].(map[string]any); ok {
			return str(fields, "name")
		}
		return str(v, "name")
	default:
		return ""
	}
}

func link(f map[string]any) entity.Link {
	return entity.Link{
		Label: str(f, validation.FieldCTALabel),
		URL:   validation.NormalizeURL(str(f, validation.FieldCTAURL)),
	}
}

func str(f map[string]any, key string) string {
	s, _ := f[key].(string)
	return strings.TrimSpace(s)
}

func strList(f map[string]any, key string) []string {
	out := []string{}
	list, _ := f[key].([]any)
	for _, item := range list {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}

func boolean(f map[string]any, key string) bool {
	b, _ := f[key].(bool)
	return b
}

func number(f map[string]any, key string) (int, bool) {
	switch v := f[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	default:
		return 0, false
	}
}
