// Package content serves the content gateway over HTTP.
//
// Every response is wrapped in respond.Envelope and carries the data source in
// the X-Content-Source header, so a client can tell live data from the
// static fallback without inspecting the body.
package content

import (
	"context"
	"errors"
	"net/http"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/handler/http/query"
	"portfolio-content/internal/handler/http/respond"
	contentUC "portfolio-content/internal/usecase/content"
)

// Service is the subset of the content gateway used by the handlers.
type Service interface {
	Articles(ctx context.Context, q contentUC.ArticleQuery) contentUC.Result[[]entity.Article]
	ArticleBySlug(ctx context.Context, slug string) contentUC.Result[*entity.Article]
	GalleryItems(ctx context.Context, q contentUC.GalleryQuery) contentUC.Result[[]entity.GalleryItem]
	PageSections(ctx context.Context, page string) contentUC.Result[[]entity.PageSection]
	Landing(ctx context.Context) contentUC.Result[entity.LandingContent]
}

const maxFilterLen = 64

var errArticleNotFound = errors.New("article not found")

// ArticlesHandler lists articles.
//
// Query: category, tag, featured, limit, skip.
type ArticlesHandler struct{ Svc Service }

// ServeHTTP lists articles
// @Summary      List articles
// @Description  Returns published articles, newest first. Falls back to bundled articles when the content service is unavailable.
// @Tags         content
// @Produce      json
// @Param        category  query  string  false  "Category filter"
// @Param        tag       query  string  false  "Tag filter"
// @Param        featured  query  bool    false  "Only featured articles"
// @Param        limit     query  int     false  "Page size" minimum(1) maximum(100)
// @Param        skip      query  int     false  "Offset" minimum(0)
// @Success      200 {object} respond.Envelope "Articles with their data source"
// @Header       200 {string} X-Content-Source "live, static, cache or preview"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      429 {string} string "Too many requests"
// @Router       /api/content/articles [get]
func (h ArticlesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q, err := articleQuery(r)
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	res := h.Svc.Articles(r.Context(), q)
	respond.Content(w, string(res.Source), res.Data)
}

func articleQuery(r *http.Request) (contentUC.ArticleQuery, error) {
	v := r.URL.Query()
	var (
		q   contentUC.ArticleQuery
		err error
	)
	if q.Category, err = query.Text(v, "category", maxFilterLen); err != nil {
		return q, err
	}
	if q.Tag, err = query.Text(v, "tag", maxFilterLen); err != nil {
		return q, err
	}
	if q.FeaturedOnly, err = query.Bool(v, "featured"); err != nil {
		return q, err
	}
	if q.Limit, err = query.Limit(v, "limit"); err != nil {
		return q, err
	}
	if q.Skip, err = query.Offset(v, "skip"); err != nil {
		return q, err
	}
	return q, nil
}

// ArticleHandler returns one article by slug, or 404.
type ArticleHandler struct{ Svc Service }

// ServeHTTP returns one article
// @Summary      Get article by slug
// @Tags         content
// @Produce      json
// @Param        slug  path  string  true  "Article slug"
// @Success      200 {object} respond.Envelope "Article"
// @Failure      400 {string} string "Invalid slug"
// @Failure      404 {string} string "Article not found"
// @Router       /api/content/articles/{slug} [get]
func (h ArticleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if !query.Slug(slug) {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid slug"))
		return
	}
	res := h.Svc.ArticleBySlug(r.Context(), slug)
	if res.Data == nil {
		w.Header().Set(respond.SourceHeader, string(res.Source))
		respond.SafeError(w, http.StatusNotFound, errArticleNotFound)
		return
	}
	respond.Content(w, string(res.Source), res.Data)
}

// GalleryHandler lists gallery items.
//
// Query: category, featured, limit.
type GalleryHandler struct{ Svc Service }

// ServeHTTP lists gallery items
// @Summary      List gallery items
// @Tags         content
// @Produce      json
// @Param        category  query  string  false  "Category filter"
// @Param        featured  query  bool    false  "Only featured items"
// @Param        limit     query  int     false  "Page size" minimum(1) maximum(100)
// @Success      200 {object} respond.Envelope "Gallery items ordered by display order"
// @Failure      400 {string} string "Invalid query parameters"
// @Router       /api/content/gallery [get]
func (h GalleryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	var (
		q   contentUC.GalleryQuery
		err error
	)
	if q.Category, err = query.Text(v, "category", maxFilterLen); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if q.FeaturedOnly, err = query.Bool(v, "featured"); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if q.Limit, err = query.Limit(v, "limit"); err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	res := h.Svc.GalleryItems(r.Context(), q)
	respond.Content(w, string(res.Source), res.Data)
}

// SectionsHandler returns the copy blocks of one page.
type SectionsHandler struct{ Svc Service }

// ServeHTTP lists page sections
// @Summary      List page sections
// @Tags         content
// @Produce      json
// @Param        page  path  string  true  "Page name, e.g. home"
// @Success      200 {object} respond.Envelope "Sections ordered by display order"
// @Failure      400 {string} string "Invalid page"
// @Router       /api/content/sections/{page} [get]
func (h SectionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	page := r.PathValue("page")
	if !query.Slug(page) {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid page"))
		return
	}
	res := h.Svc.PageSections(r.Context(), page)
	respond.Content(w, string(res.Source), res.Data)
}

// LandingHandler returns the landing page bundle.
type LandingHandler struct{ Svc Service }

// ServeHTTP returns the landing page
// @Summary      Get landing page content
// @Tags         content
// @Produce      json
// @Success      200 {object} respond.Envelope "Landing page content"
// @Router       /api/content/landing [get]
func (h LandingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res := h.Svc.Landing(r.Context())
	respond.Content(w, string(res.Source), res.Data)
}
