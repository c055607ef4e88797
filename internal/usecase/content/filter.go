package content

import (
	"slices"

	"portfolio-content/internal/domain/entity"
)

// filterArticles applies an article query to static data the way the
// content service would. Category and tag match exactly, as fields.category
// and fields.tags[in] do upstream.
func filterArticles(in []entity.Article, q ArticleQuery) []entity.Article {
	out := make([]entity.Article, 0, len(in))
	for _, a := range in {
		if q.Category != "" && a.Category != q.Category {
			continue
		}
		if q.Tag != "" && !slices.Contains(a.Tags, q.Tag) {
			continue
		}
		if q.FeaturedOnly && !a.Featured {
			continue
		}
		out = append(out, a)
	}
	slices.SortStableFunc(out, func(a, b entity.Article) int {
		return b.PublishedAt.Compare(a.PublishedAt)
	})
	return page(out, q.Skip, q.Limit)
}

func filterGallery(in []entity.GalleryItem, q GalleryQuery) []entity.GalleryItem {
	out := make([]entity.GalleryItem, 0, len(in))
	for _, g := range in {
		if q.Category != "" && g.Category != q.Category {
			continue
		}
		if q.FeaturedOnly && !g.Featured {
			continue
		}
		out = append(out, g)
	}
	slices.SortStableFunc(out, func(a, b entity.GalleryItem) int {
		return displayOrder(a.DisplayOrder) - displayOrder(b.DisplayOrder)
	})
	return page(out, 0, q.Limit)
}

func displayOrder(o *int) int {
	if o == nil {
		return 999
	}
	return *o
}

func page[T any](in []T, skip, limit int) []T {
	if skip > 0 {
		if skip >= len(in) {
			return in[:0]
		}
		in = in[skip:]
	}
	if limit > 0 && len(in) > limit {
		in = in[:limit]
	}
	return in
}
