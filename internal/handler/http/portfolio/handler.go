// Package portfolio serves the validated portfolio catalogue over HTTP.
package portfolio

import (
	"errors"
	"net/http"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/handler/http/query"
	"portfolio-content/internal/handler/http/respond"
	portfolioUC "portfolio-content/internal/usecase/portfolio"
)

// Source exposes the current catalogue. It returns nil until the first build finishes.
type Source interface {
	Catalogue() *portfolioUC.Catalogue
}

// catalogueSource is reported in the envelope; entries are already merged
// from live and static records, so the header carries the catalogue itself.
const catalogueSource = "catalogue"

const defaultFeaturedLimit = 6

var (
	errNotReady        = errors.New("portfolio catalogue is not ready")
	errEntryNotFound   = errors.New("portfolio entry not found")
	errUnknownCategory = errors.New("unknown category")
)

func catalogue(w http.ResponseWriter, src Source) *portfolioUC.Catalogue {
	c := src.Catalogue()
	if c == nil {
		w.Header().Set("Retry-After", "5")
		respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"error": errNotReady.Error()})
	}
	return c
}

// ParseCategory maps a query value to a category. Empty and "all" select every category.
func ParseCategory(raw string) (entity.Category, error) {
	if raw == "" || raw == string(entity.CategoryAll) {
		return entity.CategoryAll, nil
	}
	c := entity.Category(raw)
	if !c.Valid() {
		return "", errUnknownCategory
	}
	return c, nil
}

// ListHandler lists catalogue entries.
//
// Query: category (label or "all"), featured, limit.
type ListHandler struct{ Src Source }

// ServeHTTP lists portfolio entries
// @Summary      List portfolio entries
// @Tags         portfolio
// @Produce      json
// @Param        category  query  string  false  "Category label or all"
// @Param        featured  query  bool    false  "Only featured entries"
// @Param        limit     query  int     false  "Maximum entries" minimum(1) maximum(100)
// @Success      200 {object} respond.Envelope "Entries ordered by display order"
// @Failure      400 {string} string "Invalid query parameters"
// @Failure      503 {string} string "Catalogue not built yet"
// @Router       /api/portfolio [get]
func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	category, err := ParseCategory(v.Get("category"))
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	featured, err := query.Bool(v, "featured")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	limit, err := query.Limit(v, "limit")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	c := catalogue(w, h.Src)
	if c == nil {
		return
	}
	respond.Content(w, catalogueSource, c.ByCategory(category, featured, limit))
}

// FeaturedHandler lists featured entries of every category (default 6).
type FeaturedHandler struct{ Src Source }

// ServeHTTP lists featured entries
// @Summary      List featured portfolio entries
// @Tags         portfolio
// @Produce      json
// @Param        limit  query  int  false  "Maximum entries" default(6) minimum(1) maximum(100)
// @Success      200 {object} respond.Envelope "Featured entries"
// @Failure      503 {string} string "Catalogue not built yet"
// @Router       /api/portfolio/featured [get]
func (h FeaturedHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit, err := query.Limit(r.URL.Query(), "limit")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}
	if limit == 0 {
		limit = defaultFeaturedLimit
	}
	c := catalogue(w, h.Src)
	if c == nil {
		return
	}
	respond.Content(w, catalogueSource, c.Featured(limit))
}

// CategoriesHandler lists categories with their entry counts.
type CategoriesHandler struct{ Src Source }

// ServeHTTP lists categories
// @Summary      List portfolio categories
// @Tags         portfolio
// @Produce      json
// @Success      200 {object} respond.Envelope "Categories with entry counts"
// @Failure      503 {string} string "Catalogue not built yet"
// @Router       /api/portfolio/categories [get]
func (h CategoriesHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	c := catalogue(w, h.Src)
	if c == nil {
		return
	}
	respond.Content(w, catalogueSource, c.Categories())
}

// StatsHandler returns catalogue statistics.
type StatsHandler struct{ Src Source }

// ServeHTTP returns catalogue statistics
// @Summary      Portfolio catalogue statistics
// @Tags         portfolio
// @Produce      json
// @Success      200 {object} respond.Envelope "Catalogue statistics"
// @Failure      503 {string} string "Catalogue not built yet"
// @Router       /api/portfolio/stats [get]
func (h StatsHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	c := catalogue(w, h.Src)
	if c == nil {
		return
	}
	respond.Content(w, catalogueSource, c.Stats())
}

// GetHandler returns one entry by id.
type GetHandler struct{ Src Source }

// ServeHTTP returns one entry
// @Summary      Get portfolio entry
// @Tags         portfolio
// @Produce      json
// @Param        id  path  string  true  "Entry id"
// @Success      200 {object} respond.Envelope "Portfolio entry"
// @Failure      400 {string} string "Invalid id"
// @Failure      404 {string} string "Entry not found"
// @Router       /api/portfolio/{id} [get]
func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" || len(id) > 128 {
		respond.SafeError(w, http.StatusBadRequest, errors.New("invalid id"))
		return
	}
	c := catalogue(w, h.Src)
	if c == nil {
		return
	}
	entry, ok := c.ByID(id)
	if !ok {
		respond.SafeError(w, http.StatusNotFound, errEntryNotFound)
		return
	}
	respond.Content(w, catalogueSource, entry)
}
