package content_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-content/internal/domain/entity"
	hhttp "portfolio-content/internal/handler/http"
	"portfolio-content/internal/handler/http/content"
	"portfolio-content/internal/infra/cms"
	"portfolio-content/internal/infra/staticdata"
	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/resilience/circuitbreaker"
	"portfolio-content/internal/resilience/retry"
	contentUC "portfolio-content/internal/usecase/content"
)

type stubService struct {
	source       usage.Source
	articles     []entity.Article
	lastArticleQ contentUC.ArticleQuery
	lastGalleryQ contentUC.GalleryQuery
	lastPage     string
}

func (s *stubService) Articles(_ context.Context, q contentUC.ArticleQuery) contentUC.Result[[]entity.Article] {
	s.lastArticleQ = q
	return contentUC.Result[[]entity.Article]{Data: s.articles, Source: s.source}
}

func (s *stubService) ArticleBySlug(_ context.Context, slug string) contentUC.Result[*entity.Article] {
	for i := range s.articles {
		if s.articles[i].Slug == slug {
			a := s.articles[i]
			return contentUC.Result[*entity.Article]{Data: &a, Source: s.source}
		}
	}
	return contentUC.Result[*entity.Article]{Source: s.source}
}

func (s *stubService) GalleryItems(_ context.Context, q contentUC.GalleryQuery) contentUC.Result[[]entity.GalleryItem] {
	s.lastGalleryQ = q
	return contentUC.Result[[]entity.GalleryItem]{
		Data:   []entity.GalleryItem{{ID: "g-1", Title: "Soft glam"}},
		Source: s.source,
	}
}

func (s *stubService) PageSections(_ context.Context, page string) contentUC.Result[[]entity.PageSection] {
	s.lastPage = page
	return contentUC.Result[[]entity.PageSection]{
		Data:   []entity.PageSection{{ID: "s-1", Page: page, Key: "hero"}},
		Source: s.source,
	}
}

func (s *stubService) Landing(_ context.Context) contentUC.Result[entity.LandingContent] {
	return contentUC.Result[entity.LandingContent]{
		Data:   entity.LandingContent{ID: "landing", Headline: "Makeup for every story"},
		Source: s.source,
	}
}

func newServer(svc content.Service) *http.ServeMux {
	mux := http.NewServeMux()
	content.Register(mux, svc)
	return mux
}

func serve(t *testing.T, mux http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var body map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestArticlesHandler_ParsesQuery(t *testing.T) {
	svc := &stubService{
		source:   usage.SourceLive,
		articles: []entity.Article{{ID: "1", Slug: "bridal-prep", Title: "Bridal prep"}},
	}
	rec := serve(t, newServer(svc), "/api/content/articles?category=Bridal&tag=skin&featured=true&limit=5&skip=2")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "live", rec.Header().Get("X-Content-Source"))
	assert.Equal(t, "public, max-age=60", rec.Header().Get("Cache-Control"))
	assert.Equal(t, contentUC.ArticleQuery{
		Category: "Bridal", Tag: "skin", FeaturedOnly: true, Limit: 5, Skip: 2,
	}, svc.lastArticleQ)

	body := decode(t, rec)
	assert.JSONEq(t, `"live"`, string(body["source"]))
	var articles []entity.Article
	require.NoError(t, json.Unmarshal(body["data"], &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "bridal-prep", articles[0].Slug)
}

func TestArticlesHandler_InvalidQuery(t *testing.T) {
	tests := map[string]string{
		"bad limit":    "/api/content/articles?limit=0",
		"huge limit":   "/api/content/articles?limit=1000",
		"bad skip":     "/api/content/articles?skip=-1",
		"bad featured": "/api/content/articles?featured=maybe",
	}
	for name, target := range tests {
		t.Run(name, func(t *testing.T) {
			rec := serve(t, newServer(&stubService{source: usage.SourceLive}), target)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "must be")
		})
	}
}

func TestArticleHandler(t *testing.T) {
	svc := &stubService{
		source:   usage.SourceStatic,
		articles: []entity.Article{{ID: "1", Slug: "bridal-prep", Title: "Bridal prep"}},
	}
	mux := newServer(svc)

	t.Run("found", func(t *testing.T) {
		rec := serve(t, mux, "/api/content/articles/bridal-prep")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "static", rec.Header().Get("X-Content-Source"))
		assert.Contains(t, rec.Body.String(), `"title":"Bridal prep"`)
	})

	t.Run("not found keeps source header", func(t *testing.T) {
		rec := serve(t, mux, "/api/content/articles/missing")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "static", rec.Header().Get("X-Content-Source"))
		assert.JSONEq(t, `{"error":"article not found"}`, rec.Body.String())
	})

	t.Run("invalid slug", func(t *testing.T) {
		rec := serve(t, mux, "/api/content/articles/Not_A_Slug")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGalleryHandler(t *testing.T) {
	svc := &stubService{source: usage.SourceCache}
	rec := serve(t, newServer(svc), "/api/content/gallery?category=Bridal%20Makeup&limit=3")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cache", rec.Header().Get("X-Content-Source"))
	assert.Equal(t, contentUC.GalleryQuery{Category: "Bridal Makeup", Limit: 3}, svc.lastGalleryQ)
	assert.Contains(t, rec.Body.String(), `"id":"g-1"`)
}

func TestSectionsHandler(t *testing.T) {
	svc := &stubService{source: usage.SourcePreview}
	rec := serve(t, newServer(svc), "/api/content/sections/about")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "about", svc.lastPage)
	assert.Equal(t, "preview", rec.Header().Get("X-Content-Source"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestLandingHandler(t *testing.T) {
	rec := serve(t, newServer(&stubService{source: usage.SourceLive}), "/api/content/landing")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"headline":"Makeup for every story"`)
}

func TestRegister_RejectsOtherMethods(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(&stubService{}).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/content/landing", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

type hangingFetcher struct{}

func (hangingFetcher) Entries(ctx context.Context, _ cms.Query) (*cms.Collection, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (hangingFetcher) Preview() bool { return false }

func TestLandingHandler_FallbackBeatsRequestTimeout(t *testing.T) {
	const limit = 2500 * time.Millisecond
	cfg := contentUC.DefaultConfig()
	cfg.Timeout = 100 * time.Millisecond
	cfg.MaxRetries = 1
	require.NoError(t, cfg.CheckBudget(limit))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	gw := contentUC.NewGateway(hangingFetcher{}, staticdata.MustDefault(), retry.NewGovernor(),
		usage.NewTracker(usage.Config{}, logger),
		contentUC.WithConfig(cfg),
		contentUC.WithLogger(logger),
		contentUC.WithBreaker(circuitbreaker.New(circuitbreaker.Config{Name: t.Name(), FailureThreshold: 100, RecoveryTimeout: time.Minute})),
	)

	rec := serve(t, hhttp.Timeout(limit)(newServer(gw)), "/api/content/landing")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "static", rec.Header().Get("X-Content-Source"))
}
