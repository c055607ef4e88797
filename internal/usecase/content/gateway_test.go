package content

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/infra/cache"
	"portfolio-content/internal/infra/cms"
	"portfolio-content/internal/infra/staticdata"
	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/resilience/circuitbreaker"
	"portfolio-content/internal/resilience/retry"
)

type fakeFetcher struct {
	calls   atomic.Int32
	preview bool
	fn      func(ctx context.Context, q cms.Query) (*cms.Collection, error)
}

func (f *fakeFetcher) Entries(ctx context.Context, q cms.Query) (*cms.Collection, error) {
	f.calls.Add(1)
	return f.fn(ctx, q)
}

func (f *fakeFetcher) Preview() bool { return f.preview }

func failingFetcher() *fakeFetcher {
	return &fakeFetcher{fn: func(context.Context, cms.Query) (*cms.Collection, error) {
		return nil, &cms.APIError{StatusCode: 503, Message: "Service Unavailable"}
	}}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Timeout = 200 * time.Millisecond
	cfg.MaxRetries = 0
	return cfg
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestGateway(t *testing.T, f Fetcher, opts ...Option) (*Gateway, *usage.Tracker) {
	t.Helper()
	tracker := usage.NewTracker(usage.Config{}, quietLogger())
	base := []Option{
		WithConfig(testConfig()),
		WithLogger(quietLogger()),
		WithBreaker(circuitbreaker.New(circuitbreaker.Config{Name: t.Name(), FailureThreshold: 100, RecoveryTimeout: time.Minute})),
	}
	g := NewGateway(f, staticdata.MustDefault(), retry.NewGovernor(), tracker, append(base, opts...)...)
	return g, tracker
}

func articleCollection() *cms.Collection {
	return &cms.Collection{
		Total: 1,
		Items: []cms.Entry{{
			Sys: cms.Sys{ID: "post-1", Type: "Entry", CreatedAt: "2024-01-01T00:00:00Z"},
			Fields: map[string]any{
				"title": "Winter Skin Care",
				"slug":  "winter-skin-care",
				"body": map[string]any{
					"nodeType": "document",
					"content": []any{
						map[string]any{"nodeType": "paragraph", "content": []any{
							map[string]any{"nodeType": "text", "value": "Keep skin hydrated through the cold months.", "marks": []any{}},
						}},
					},
				},
				"category":      "Skincare",
				"tags":          []any{"skincare", "winter"},
				"publishedDate": "2024-12-01T10:00:00Z",
				"featuredImage": map[string]any{
					"sys": map[string]any{"id": "asset-1", "type": "Asset"},
					"fields": map[string]any{
						"title":       "Winter",
						"description": "Model with glowing winter skin",
						"file": map[string]any{
							"url":         "//images.example.com/winter.jpg",
							"contentType": "image/jpeg",
							"details":     map[string]any{"size": 200000.0, "image": map[string]any{"width": 1600.0, "height": 1067.0}},
						},
					},
				},
				"author": map[string]any{"sys": map[string]any{"id": "a1", "type": "Entry"}, "fields": map[string]any{"name": "Jo"}},
			},
		}},
	}
}

func TestGateway_NotConfiguredServesStatic(t *testing.T) {
	g, tracker := newTestGateway(t, nil)

	res := g.GalleryItems(context.Background(), GalleryQuery{})
	assert.Equal(t, usage.SourceStatic, res.Source)
	assert.ErrorIs(t, res.Cause, cms.ErrNotConfigured)
	assert.False(t, res.Fallback())
	assert.NotEmpty(t, res.Data)

	events := tracker.Events()
	require.Len(t, events, 1)
	assert.True(t, events[0].Success)
	assert.Equal(t, "not configured", events[0].Metadata["reason"])
	assert.False(t, g.Status().Configured)
}

func TestGateway_PermanentFailureEqualsStaticDataset(t *testing.T) {
	bundle := staticdata.MustDefault()
	f := failingFetcher()
	g, tracker := newTestGateway(t, f)
	ctx := context.Background()

	articles := g.Articles(ctx, ArticleQuery{})
	assert.Equal(t, usage.SourceStatic, articles.Source)
	assert.True(t, articles.Fallback())
	if diff := cmp.Diff(filterArticles(bundle.Articles(), ArticleQuery{}), articles.Data); diff != "" {
		t.Errorf("articles mismatch (-want +got):\n%s", diff)
	}

	gallery := g.GalleryItems(ctx, GalleryQuery{})
	if diff := cmp.Diff(filterGallery(bundle.GalleryItems(), GalleryQuery{}), gallery.Data); diff != "" {
		t.Errorf("gallery mismatch (-want +got):\n%s", diff)
	}

	sections := g.PageSections(ctx, "about")
	if diff := cmp.Diff(bundle.PageSections("about"), sections.Data); diff != "" {
		t.Errorf("sections mismatch (-want +got):\n%s", diff)
	}

	landing := g.Landing(ctx)
	if diff := cmp.Diff(bundle.Landing(), landing.Data); diff != "" {
		t.Errorf("landing mismatch (-want +got):\n%s", diff)
	}

	post := g.ArticleBySlug(ctx, "bridal-makeup-timeline")
	require.NotNil(t, post.Data)
	assert.Equal(t, "static-article-bridal-timeline", post.Data.ID)

	m := tracker.Metrics()
	assert.Equal(t, 5, m.TotalRequests)
	assert.Equal(t, 100.0, m.StaticFallbackRate)
	assert.Equal(t, 5, m.FailedRequests)
}

func TestGateway_LiveTransform(t *testing.T) {
	f := &fakeFetcher{fn: func(_ context.Context, q cms.Query) (*cms.Collection, error) {
		assert.Equal(t, "blogPost", q.ContentType)
		assert.Equal(t, "-fields.publishedDate", q.Order)
		return articleCollection(), nil
	}}
	g, tracker := newTestGateway(t, f)

	res := g.Articles(context.Background(), ArticleQuery{})
	require.NoError(t, res.Cause)
	assert.Equal(t, usage.SourceLive, res.Source)
	require.Len(t, res.Data, 1)

	a := res.Data[0]
	assert.Equal(t, "post-1", a.ID)
	assert.Equal(t, "<p>Keep skin hydrated through the cold months.</p>", a.Body)
	assert.Equal(t, "Keep skin hydrated through the cold months.", a.Excerpt)
	assert.Equal(t, 1, a.ReadingTime)
	assert.Equal(t, "Jo", a.Author)
	assert.Equal(t, []string{"skincare", "winter"}, a.Tags)
	assert.Equal(t, time.Date(2024, 12, 1, 10, 0, 0, 0, time.UTC), a.PublishedAt)
	require.NotNil(t, a.FeaturedImage)
	assert.Equal(t, "https://images.example.com/winter.jpg", a.FeaturedImage.URL)
	assert.Equal(t, 1600, a.FeaturedImage.Width)
	assert.Equal(t, "Winter Skin Care", a.SEO.Title)

	events := tracker.Events()
	require.Len(t, events, 1)
	assert.Equal(t, usage.SourceLive, events[0].Source)
	assert.True(t, events[0].Success)
}

func TestGateway_PreviewSource(t *testing.T) {
	f := &fakeFetcher{preview: true, fn: func(context.Context, cms.Query) (*cms.Collection, error) {
		return articleCollection(), nil
	}}
	g, _ := newTestGateway(t, f, WithCache(cache.NewMemory()))

	assert.Equal(t, usage.SourcePreview, g.Articles(context.Background(), ArticleQuery{}).Source)
	assert.Equal(t, usage.SourcePreview, g.Articles(context.Background(), ArticleQuery{}).Source, "preview content is never cached")
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestGateway_EmptyResultFallsBack(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, cms.Query) (*cms.Collection, error) {
		return &cms.Collection{}, nil
	}}
	g, _ := newTestGateway(t, f)

	res := g.Landing(context.Background())
	assert.Equal(t, usage.SourceStatic, res.Source)
	assert.ErrorIs(t, res.Cause, ErrEmptyResult)
	assert.Equal(t, "static-landing", res.Data.ID)
}

func TestGateway_UnknownSlug(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, cms.Query) (*cms.Collection, error) {
		return &cms.Collection{}, nil
	}}
	g, _ := newTestGateway(t, f)

	res := g.ArticleBySlug(context.Background(), "does-not-exist")
	assert.Nil(t, res.Data)
	assert.Equal(t, usage.SourceStatic, res.Source)
}

func TestGateway_OpenCircuitSkipsUpstream(t *testing.T) {
	f := failingFetcher()
	breaker := circuitbreaker.New(circuitbreaker.Config{Name: "content-test", FailureThreshold: 2, RecoveryTimeout: time.Minute})
	g, _ := newTestGateway(t, f, WithBreaker(breaker))
	ctx := context.Background()

	g.GalleryItems(ctx, GalleryQuery{})
	g.GalleryItems(ctx, GalleryQuery{})
	require.Equal(t, circuitbreaker.StateOpen, breaker.State())
	require.Equal(t, int32(2), f.calls.Load())

	res := g.GalleryItems(ctx, GalleryQuery{})
	assert.Equal(t, int32(2), f.calls.Load(), "open circuit must not call the service")
	assert.Equal(t, usage.SourceStatic, res.Source)
	assert.ErrorIs(t, res.Cause, circuitbreaker.ErrCircuitOpen)
	assert.NotEmpty(t, res.Data)
	assert.Equal(t, circuitbreaker.StateOpen, g.Status().BreakerState)
}

func TestGateway_TimeoutFallsBack(t *testing.T) {
	f := &fakeFetcher{fn: func(ctx context.Context, _ cms.Query) (*cms.Collection, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	cfg := testConfig()
	cfg.Timeout = 30 * time.Millisecond
	g, _ := newTestGateway(t, f, WithConfig(cfg))

	start := time.Now()
	res := g.PageSections(context.Background(), "services")
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, usage.SourceStatic, res.Source)
	assert.ErrorIs(t, res.Cause, retry.ErrTimeout)
	assert.Len(t, res.Data, 2)
}

func TestGateway_RetriesBeforeFallingBack(t *testing.T) {
	var n atomic.Int32
	f := &fakeFetcher{fn: func(context.Context, cms.Query) (*cms.Collection, error) {
		if n.Add(1) == 1 {
			return nil, errors.New("connection reset")
		}
		return articleCollection(), nil
	}}
	cfg := testConfig()
	cfg.MaxRetries = 1
	g, _ := newTestGateway(t, f, WithConfig(cfg))

	res := g.Articles(context.Background(), ArticleQuery{})
	assert.Equal(t, usage.SourceLive, res.Source)
	assert.Equal(t, int32(2), f.calls.Load())
}

type panickingCache struct{}

func (panickingCache) Get(context.Context, string) ([]byte, bool, error) { panic("corrupt cache") }
func (panickingCache) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}
func (panickingCache) Name() string { return "panicking" }

func TestGateway_PanicBecomesFallback(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, cms.Query) (*cms.Collection, error) {
		return articleCollection(), nil
	}}
	g, _ := newTestGateway(t, f, WithCache(panickingCache{}))

	var res Result[[]entity.Article]
	assert.NotPanics(t, func() { res = g.Articles(context.Background(), ArticleQuery{}) })
	assert.Equal(t, usage.SourceStatic, res.Source)
	assert.ErrorIs(t, res.Cause, ErrPanic)
	assert.Len(t, res.Data, 3)
}

func TestGateway_CacheHit(t *testing.T) {
	f := &fakeFetcher{fn: func(context.Context, cms.Query) (*cms.Collection, error) {
		return articleCollection(), nil
	}}
	g, tracker := newTestGateway(t, f, WithCache(cache.NewMemory()))
	ctx := context.Background()

	first := g.Articles(ctx, ArticleQuery{})
	second := g.Articles(ctx, ArticleQuery{})
	assert.Equal(t, usage.SourceLive, first.Source)
	assert.Equal(t, usage.SourceCache, second.Source)
	assert.Equal(t, int32(1), f.calls.Load())
	if diff := cmp.Diff(first.Data, second.Data); diff != "" {
		t.Errorf("cached data differs (-live +cache):\n%s", diff)
	}

	other := g.Articles(ctx, ArticleQuery{Category: "Skincare"})
	assert.Equal(t, usage.SourceLive, other.Source, "different queries use different keys")
	assert.Equal(t, 33.33, tracker.Metrics().CacheHitRate)
}

func TestGateway_Idempotent(t *testing.T) {
	for name, f := range map[string]Fetcher{
		"static": failingFetcher(),
		"live": &fakeFetcher{fn: func(context.Context, cms.Query) (*cms.Collection, error) {
			return articleCollection(), nil
		}},
	} {
		t.Run(name, func(t *testing.T) {
			g, tracker := newTestGateway(t, f)
			ctx := context.Background()

			first := g.Articles(ctx, ArticleQuery{})
			first.Data[0].Title = "mutated by caller"
			first = g.Articles(ctx, ArticleQuery{})
			second := g.Articles(ctx, ArticleQuery{})

			if diff := cmp.Diff(first.Data, second.Data); diff != "" {
				t.Errorf("repeated calls differ (-first +second):\n%s", diff)
			}
			assert.Equal(t, 3, tracker.Len())
		})
	}
}

func TestGateway_StaticFilters(t *testing.T) {
	g, _ := newTestGateway(t, nil)
	ctx := context.Background()

	festival := g.Articles(ctx, ArticleQuery{Category: "Festival"})
	require.Len(t, festival.Data, 1)
	assert.Equal(t, "festival-glitter-that-lasts", festival.Data[0].Slug)

	skincare := g.Articles(ctx, ArticleQuery{Tag: "skincare"})
	assert.Len(t, skincare.Data, 2)
	assert.True(t, skincare.Data[0].PublishedAt.After(skincare.Data[1].PublishedAt))

	featured := g.GalleryItems(ctx, GalleryQuery{FeaturedOnly: true, Limit: 1})
	require.Len(t, featured.Data, 1)
	assert.Equal(t, "static-gallery-classic-bride", featured.Data[0].ID)

	paged := g.Articles(ctx, ArticleQuery{Skip: 10})
	assert.Empty(t, paged.Data)
}

func TestGateway_CategoryMatchesLiveQuery(t *testing.T) {
	var got cms.Query
	live := &fakeFetcher{fn: func(_ context.Context, q cms.Query) (*cms.Collection, error) {
		got = q
		return articleCollection(), nil
	}}
	g, _ := newTestGateway(t, live)
	res := g.Articles(context.Background(), ArticleQuery{Category: "skincare"})
	require.Equal(t, usage.SourceLive, res.Source)
	assert.Equal(t, "skincare", got.Category, "category is sent verbatim")

	static, _ := newTestGateway(t, failingFetcher())
	for _, tc := range []struct {
		category string
		want     int
	}{
		{"Festival", 1},
		{"festival", 0},
		{"FESTIVAL", 0},
		{"Festival ", 0},
	} {
		res := static.Articles(context.Background(), ArticleQuery{Category: tc.category})
		assert.True(t, res.Fallback())
		assert.Len(t, res.Data, tc.want, "category %q", tc.category)
	}
}

func TestGateway_Warm(t *testing.T) {
	var mu sync.Mutex
	seen := map[string]int{}
	f := &fakeFetcher{fn: func(_ context.Context, q cms.Query) (*cms.Collection, error) {
		mu.Lock()
		seen[q.ContentType]++
		mu.Unlock()
		if q.ContentType == "landingPage" {
			return nil, errors.New("boom")
		}
		return &cms.Collection{Items: []cms.Entry{{Sys: cms.Sys{ID: "x"}, Fields: map[string]any{"title": "t"}}}}, nil
	}}
	g, _ := newTestGateway(t, f, WithCache(cache.NewMemory()))

	report := g.Warm(context.Background())
	assert.Len(t, report.Sources, 6)
	assert.Equal(t, usage.SourceStatic, report.Sources["landing"])
	assert.Equal(t, usage.SourceLive, report.Sources["sections:about"])
	assert.Equal(t, 1, report.Fallbacks())

	g.Warm(context.Background())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, seen["blogPost"], "warm-up bypasses cache reads")
	assert.Equal(t, 6, seen["pageSection"])
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	bad := DefaultConfig()
	bad.MaxRetries = 9
	assert.Error(t, bad.Validate())

	bad = DefaultConfig()
	bad.Timeout = time.Millisecond
	assert.Error(t, bad.Validate())
}

func TestConfig_WorstCase(t *testing.T) {
	tests := []struct {
		name string
		cfg  func(*Config)
		want time.Duration
	}{
		{"defaults", func(*Config) {}, 11 * time.Second},
		{"no retries", func(c *Config) { c.MaxRetries = 0 }, 5 * time.Second},
		{"two retries", func(c *Config) { c.MaxRetries = 2 }, 18 * time.Second},
		{"backoff capped", func(c *Config) {
			c.Timeout = time.Second
			c.MaxRetries = 4
			c.BackoffMultiplier = 10
		}, 5*time.Second + time.Second + 5*time.Second*3},
		{"short attempts", func(c *Config) {
			c.Timeout = 500 * time.Millisecond
			c.MaxRetries = 2
		}, 1500*time.Millisecond + 3*time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.cfg(&cfg)
			assert.Equal(t, tt.want, cfg.WorstCase())
		})
	}
}

func TestConfig_CheckBudget(t *testing.T) {
	assert.NoError(t, DefaultConfig().CheckBudget(15*time.Second))
	assert.NoError(t, DefaultConfig().CheckBudget(0), "no limit")

	slow := DefaultConfig()
	slow.MaxRetries = 2
	err := slow.CheckBudget(15 * time.Second)
	require.ErrorIs(t, err, ErrFetchBudget)
	assert.ErrorContains(t, err, "18s")

	short := DefaultConfig()
	short.Timeout = 500 * time.Millisecond
	short.MaxRetries = 2
	assert.ErrorIs(t, short.CheckBudget(2*time.Second), ErrFetchBudget)

	exact := DefaultConfig()
	assert.NoError(t, exact.CheckBudget(exact.WorstCase()+FallbackHeadroom))
	assert.ErrorIs(t, exact.CheckBudget(exact.WorstCase()), ErrFetchBudget, "no room left for the fallback")
}
