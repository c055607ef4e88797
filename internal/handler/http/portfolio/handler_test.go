package portfolio_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/handler/http/portfolio"
	portfolioUC "portfolio-content/internal/usecase/portfolio"
)

type stubSource struct{ c *portfolioUC.Catalogue }

func (s stubSource) Catalogue() *portfolioUC.Catalogue { return s.c }

func order(n int) *int { return &n }

func testCatalogue() *portfolioUC.Catalogue {
	img := []entity.PortfolioImage{{URL: "/images/a.jpg", Alt: "look"}}
	return portfolioUC.Freeze([]entity.PortfolioEntry{
		{ID: "bridal-1", Title: "Classic bride", Category: entity.CategoryBridal, Featured: true, DisplayOrder: order(2), Images: img, Source: "bridal"},
		{ID: "bridal-2", Title: "Boho bride", Category: entity.CategoryBridal, DisplayOrder: order(1), Images: img, Source: "bridal"},
		{ID: "fest-1", Title: "Glitter", Category: entity.CategoryFestival, Featured: true, DisplayOrder: order(1), Images: img, Source: "festival"},
	}, portfolioUC.Report{Loaded: 3})
}

func newServer(c *portfolioUC.Catalogue) *http.ServeMux {
	mux := http.NewServeMux()
	portfolio.Register(mux, stubSource{c})
	return mux
}

func get(t *testing.T, mux http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func ids(t *testing.T, rec *httptest.ResponseRecorder) []string {
	t.Helper()
	var body struct {
		Data   []entity.PortfolioEntry `json:"data"`
		Source string                  `json:"source"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "catalogue", body.Source)
	out := make([]string, 0, len(body.Data))
	for _, e := range body.Data {
		out = append(out, e.ID)
	}
	return out
}

func TestListHandler(t *testing.T) {
	mux := newServer(testCatalogue())

	tests := []struct {
		name   string
		target string
		want   []string
	}{
		{"all sorted by display order", "/api/portfolio", []string{"bridal-2", "fest-1", "bridal-1"}},
		{"explicit all", "/api/portfolio?category=all", []string{"bridal-2", "fest-1", "bridal-1"}},
		{"one category", "/api/portfolio?category=Bridal%20Makeup", []string{"bridal-2", "bridal-1"}},
		{"featured only", "/api/portfolio?featured=true", []string{"fest-1", "bridal-1"}},
		{"limit", "/api/portfolio?limit=1", []string{"bridal-2"}},
		{"empty category", "/api/portfolio?category=Photoshoot", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, mux, tt.target)
			require.Equal(t, http.StatusOK, rec.Code)
			if diff := cmp.Diff(tt.want, ids(t, rec)); diff != "" {
				t.Errorf("ids mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestListHandler_BadRequest(t *testing.T) {
	mux := newServer(testCatalogue())
	for _, target := range []string{
		"/api/portfolio?category=Nails",
		"/api/portfolio?featured=sometimes",
		"/api/portfolio?limit=abc",
	} {
		rec := get(t, mux, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestFeaturedHandler(t *testing.T) {
	rec := get(t, newServer(testCatalogue()), "/api/portfolio/featured")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"fest-1", "bridal-1"}, ids(t, rec))
}

func TestCategoriesHandler(t *testing.T) {
	rec := get(t, newServer(testCatalogue()), "/api/portfolio/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data []portfolioUC.CategoryInfo `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Data, len(entity.Categories())+1)
	assert.Equal(t, entity.CategoryAll, body.Data[0].ID)
	assert.Equal(t, 3, body.Data[0].Count)
	assert.Equal(t, 2, body.Data[1].Count)
}

func TestStatsHandler(t *testing.T) {
	rec := get(t, newServer(testCatalogue()), "/api/portfolio/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data portfolioUC.Stats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 3, body.Data.Total)
	assert.Equal(t, 2, body.Data.Featured)
	assert.Equal(t, 2, body.Data.ByCategory[string(entity.CategoryBridal)])
}

func TestGetHandler(t *testing.T) {
	mux := newServer(testCatalogue())

	rec := get(t, mux, "/api/portfolio/fest-1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"title":"Glitter"`)

	rec = get(t, mux, "/api/portfolio/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"portfolio entry not found"}`, rec.Body.String())
}

func TestHandlers_NotReady(t *testing.T) {
	mux := newServer(nil)
	for _, target := range []string{
		"/api/portfolio",
		"/api/portfolio/featured",
		"/api/portfolio/categories",
		"/api/portfolio/stats",
		"/api/portfolio/fest-1",
	} {
		rec := get(t, mux, target)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, target)
		assert.Equal(t, "5", rec.Header().Get("Retry-After"), target)
	}
}

func TestParseCategory(t *testing.T) {
	c, err := portfolio.ParseCategory("")
	require.NoError(t, err)
	assert.Equal(t, entity.CategoryAll, c)

	c, err = portfolio.ParseCategory("Special Effects")
	require.NoError(t, err)
	assert.Equal(t, entity.CategorySpecialEffects, c)

	_, err = portfolio.ParseCategory("bridal")
	assert.EqualError(t, err, "unknown category")
}
