package content

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/infra/cms"
	"portfolio-content/internal/observability/usage"
)

// ArticleQuery filters article listings.
type ArticleQuery struct {
	Category     string
	Tag          string
	FeaturedOnly bool
	Limit        int
	Skip         int
}

// GalleryQuery filters gallery listings.
type GalleryQuery struct {
	Category     string
	FeaturedOnly bool
	Limit        int
}

func featuredFilter(only bool) *bool {
	if !only {
		return nil
	}
	t := true
	return &t
}

// Articles returns blog posts, newest first.
func (g *Gateway) Articles(ctx context.Context, q ArticleQuery) Result[[]entity.Article] {
	limit := q.Limit
	if limit <= 0 {
		limit = g.cfg.ArticleLimit
	}
	query := cms.Query{
		ContentType: g.cfg.typeID(entity.ContentArticle),
		Category:    q.Category,
		Featured:    featuredFilter(q.FeaturedOnly),
		Limit:       limit,
		Skip:        q.Skip,
		Order:       "-fields.publishedDate",
	}
	if q.Tag != "" {
		query.Tags = []string{q.Tag}
	}
	return fetch(ctx, g, request[[]entity.Article]{
		contentType: entity.ContentArticle,
		query:       query,
		transform: func(ctx context.Context, col *cms.Collection) ([]entity.Article, error) {
			out := make([]entity.Article, 0, len(col.Items))
			for _, item := range col.Items {
				g.validator.Validate(ctx, entity.ContentArticle, item.Sys.ID, item.Fields)
				out = append(out, toArticle(item))
			}
			return out, nil
		},
		static: func() []entity.Article {
			return filterArticles(g.fallback.Articles(), q)
		},
	})
}

// ArticleBySlug returns one blog post. Data is nil when neither the service
// nor the static dataset knows the slug.
func (g *Gateway) ArticleBySlug(ctx context.Context, slug string) Result[*entity.Article] {
	return fetch(ctx, g, request[*entity.Article]{
		contentType: entity.ContentArticle,
		query: cms.Query{
			ContentType: g.cfg.typeID(entity.ContentArticle),
			Limit:       1,
			Fields:      map[string]string{"slug": slug},
		},
		transform: func(ctx context.Context, col *cms.Collection) (*entity.Article, error) {
			item := col.Items[0]
			g.validator.Validate(ctx, entity.ContentArticle, item.Sys.ID, item.Fields)
			a := toArticle(item)
			return &a, nil
		},
		static: func() *entity.Article {
			a, ok := g.fallback.ArticleBySlug(slug)
			if !ok {
				return nil
			}
			return &a
		},
	})
}

// GalleryItems returns portfolio gallery items ordered by display order.
func (g *Gateway) GalleryItems(ctx context.Context, q GalleryQuery) Result[[]entity.GalleryItem] {
	return fetch(ctx, g, request[[]entity.GalleryItem]{
		contentType: entity.ContentGallery,
		query: cms.Query{
			ContentType: g.cfg.typeID(entity.ContentGallery),
			Category:    q.Category,
			Featured:    featuredFilter(q.FeaturedOnly),
			Limit:       q.Limit,
			Order:       "fields.displayOrder",
		},
		transform: func(ctx context.Context, col *cms.Collection) ([]entity.GalleryItem, error) {
			out := make([]entity.GalleryItem, 0, len(col.Items))
			for _, item := range col.Items {
				g.validator.Validate(ctx, entity.ContentGallery, item.Sys.ID, item.Fields)
				out = append(out, toGalleryItem(item))
			}
			return out, nil
		},
		static: func() []entity.GalleryItem {
			return filterGallery(g.fallback.GalleryItems(), q)
		},
	})
}

// PageSections returns the copy blocks of one page ordered by their order field.
func (g *Gateway) PageSections(ctx context.Context, page string) Result[[]entity.PageSection] {
	return fetch(ctx, g, request[[]entity.PageSection]{
		contentType: entity.ContentPageSection,
		query: cms.Query{
			ContentType: g.cfg.typeID(entity.ContentPageSection),
			Order:       "fields.order",
			Fields:      map[string]string{"page": page},
		},
		transform: func(ctx context.Context, col *cms.Collection) ([]entity.PageSection, error) {
			out := make([]entity.PageSection, 0, len(col.Items))
			for _, item := range col.Items {
				g.validator.Validate(ctx, entity.ContentPageSection, item.Sys.ID, item.Fields)
				out = append(out, toPageSection(item))
			}
			slices.SortStableFunc(out, func(a, b entity.PageSection) int { return a.Order - b.Order })
			return out, nil
		},
		static: func() []entity.PageSection {
			return g.fallback.PageSections(page)
		},
	})
}

// Landing returns the home page content.
func (g *Gateway) Landing(ctx context.Context) Result[entity.LandingContent] {
	return fetch(ctx, g, request[entity.LandingContent]{
		contentType: entity.ContentLanding,
		query: cms.Query{
			ContentType: g.cfg.typeID(entity.ContentLanding),
			Limit:       1,
		},
		transform: func(ctx context.Context, col *cms.Collection) (entity.LandingContent, error) {
			item := col.Items[0]
			g.validator.Validate(ctx, entity.ContentLanding, item.Sys.ID, item.Fields)
			return toLanding(item), nil
		},
		static: func() entity.LandingContent {
			return g.fallback.Landing()
		},
	})
}

// WarmReport lists the source that served each warmed request.
type WarmReport struct {
	Sources  map[string]usage.Source `json:"sources"`
	Duration time.Duration           `json:"-"`
}

// Fallbacks returns how many warmed requests were served from static data.
func (r WarmReport) Fallbacks() int {
	n := 0
	for _, s := range r.Sources {
		if s == usage.SourceStatic {
			n++
		}
	}
	return n
}

// Warm fetches every shape concurrently, bypassing cache reads so fresh
// results replace cached ones.
func (g *Gateway) Warm(ctx context.Context) WarmReport {
	start := time.Now()
	ctx = withoutCacheRead(ctx)

	type outcome struct {
		name   string
		source usage.Source
	}
	jobs := []func(context.Context) outcome{
		func(ctx context.Context) outcome {
			return outcome{"articles", g.Articles(ctx, ArticleQuery{}).Source}
		},
		func(ctx context.Context) outcome {
			return outcome{"gallery", g.GalleryItems(ctx, GalleryQuery{}).Source}
		},
		func(ctx context.Context) outcome {
			return outcome{"landing", g.Landing(ctx).Source}
		},
	}
	for _, page := range g.cfg.WarmPages {
		jobs = append(jobs, func(ctx context.Context) outcome {
			return outcome{"sections:" + page, g.PageSections(ctx, page).Source}
		})
	}

	results := make([]outcome, len(jobs))
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(4)
	for i, job := range jobs {
		eg.Go(func() error {
			results[i] = job(egCtx)
			return nil
		})
	}
	_ = eg.Wait()

	report := WarmReport{Sources: make(map[string]usage.Source, len(results)), Duration: time.Since(start)}
	for _, r := range results {
		report.Sources[r.name] = r.source
	}
	return report
}
