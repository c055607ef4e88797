// Package content serves the site's content shapes from the headless content
// service, falling back to the bundled static datasets whenever the service
// is not configured, unavailable, slow or returns nothing usable.
//
// Gateway methods never return an error. Each returns a Result carrying
// usable data and the source that served it; the absorbed failure, if any,
// is kept in Result.Cause for logging.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/domain/validation"
	"portfolio-content/internal/infra/cache"
	"portfolio-content/internal/infra/cms"
	"portfolio-content/internal/infra/staticdata"
	"portfolio-content/internal/observability/metrics"
	"portfolio-content/internal/observability/tracing"
	"portfolio-content/internal/observability/usage"
	"portfolio-content/internal/resilience/circuitbreaker"
	"portfolio-content/internal/resilience/retry"
)

var (
	// ErrEmptyResult indicates the service answered with no usable entries.
	ErrEmptyResult = errors.New("content service returned no entries")

	// ErrPanic indicates a panic was recovered at the gateway boundary.
	ErrPanic = errors.New("content gateway panicked")
)

// Fetcher reads raw entries from the content service.
type Fetcher interface {
	Entries(ctx context.Context, q cms.Query) (*cms.Collection, error)
	Preview() bool
}

// Fallback provides the bundled static datasets. Implementations must
// return fresh copies on every call.
type Fallback interface {
	Articles() []entity.Article
	ArticleBySlug(slug string) (entity.Article, bool)
	GalleryItems() []entity.GalleryItem
	PageSections(page string) []entity.PageSection
	Landing() entity.LandingContent
}

// Result is the outcome of one gateway call. Data is always usable.
type Result[T any] struct {
	Data     T             `json:"data"`
	Source   usage.Source  `json:"source"`
	Cause    error         `json:"-"`
	Duration time.Duration `json:"-"`
}

// Fallback reports whether the data came from the static datasets because of a failure.
func (r Result[T]) Fallback() bool {
	return r.Source == usage.SourceStatic && r.Cause != nil && !errors.Is(r.Cause, cms.ErrNotConfigured)
}

// Gateway fetches content shapes through the resilience stack.
type Gateway struct {
	client    Fetcher
	fallback  Fallback
	breaker   *circuitbreaker.CircuitBreaker
	governor  *retry.Governor
	validator *validation.Validator
	tracker   *usage.Tracker
	cache     cache.Cache
	cfg       Config
	logger    *slog.Logger
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithCache puts a response cache in front of the content service.
func WithCache(c cache.Cache) Option {
	return func(g *Gateway) { g.cache = c }
}

// WithBreaker replaces the default content-service circuit breaker.
func WithBreaker(cb *circuitbreaker.CircuitBreaker) Option {
	return func(g *Gateway) { g.breaker = cb }
}

// WithValidator replaces the default validator.
func WithValidator(v *validation.Validator) Option {
	return func(g *Gateway) { g.validator = v }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithConfig sets the fetch policy.
func WithConfig(cfg Config) Option {
	return func(g *Gateway) { g.cfg = cfg }
}

// NewGateway creates a Gateway. A nil client means the content service is
// not configured and every call is served from fallback. A nil fallback uses
// the bundled static datasets.
func NewGateway(client Fetcher, fallback Fallback, governor *retry.Governor, tracker *usage.Tracker, opts ...Option) *Gateway {
	g := &Gateway{
		client:   client,
		fallback: fallback,
		governor: governor,
		tracker:  tracker,
		cfg:      DefaultConfig(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.breaker == nil {
		g.breaker = circuitbreaker.New(circuitbreaker.ContentServiceConfig())
	}
	if g.validator == nil {
		g.validator = validation.NewValidator(validation.DefaultOptions(), g.logger, false)
	}
	if g.fallback == nil {
		g.fallback = staticdata.MustDefault()
	}
	if g.governor == nil {
		g.governor = retry.NewGovernor()
	}
	if g.tracker == nil {
		g.tracker = usage.NewTracker(usage.Config{}, g.logger)
	}
	return g
}

// Status describes the gateway for health reporting.
type Status struct {
	Configured   bool   `json:"configured"`
	Preview      bool   `json:"preview"`
	BreakerState string `json:"breaker_state"`
	Cache        string `json:"cache"`
}

// Status returns the current gateway status.
func (g *Gateway) Status() Status {
	s := Status{
		Configured:   g.client != nil,
		BreakerState: g.breaker.State(),
		Cache:        string(cache.ModeNone),
	}
	if g.client != nil {
		s.Preview = g.client.Preview()
	}
	if g.cache != nil {
		s.Cache = g.cache.Name()
	}
	return s
}

// Breaker returns the content-service circuit breaker.
func (g *Gateway) Breaker() *circuitbreaker.CircuitBreaker {
	return g.breaker
}

// Tracker returns the usage tracker the gateway records to.
func (g *Gateway) Tracker() *usage.Tracker {
	return g.tracker
}

// request describes one shape fetch.
type request[T any] struct {
	contentType entity.ContentType
	query       cms.Query

	// transform turns a non-empty collection into the public shape.
	transform func(context.Context, *cms.Collection) (T, error)

	// static returns the fallback data.
	static func() T
}

type bypassCacheKey struct{}

// withoutCacheRead makes fetches skip the cache lookup but still write
// fresh results to the cache.
func withoutCacheRead(ctx context.Context) context.Context {
	return context.WithValue(ctx, bypassCacheKey{}, true)
}

func cacheReadAllowed(ctx context.Context) bool {
	bypass, _ := ctx.Value(bypassCacheKey{}).(bool)
	return !bypass
}

// fetch runs the gateway algorithm for one shape. It has no failing exit:
// every error and panic ends in the static fallback.
func fetch[T any](ctx context.Context, g *Gateway, req request[T]) (res Result[T]) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, "content."+string(req.contentType),
		attribute.String("content.type", string(req.contentType)))
	defer func() {
		if p := recover(); p != nil {
			res = staticResult(ctx, g, req, fmt.Errorf("%w: %v", ErrPanic, p), start)
		}
		span.SetAttributes(attribute.String("content.source", string(res.Source)))
		if res.Fallback() {
			span.SetAttributes(attribute.String("content.fallback_cause", res.Cause.Error()))
		}
		tracing.EndSpan(span, nil)
	}()

	if g.client == nil {
		return staticResult(ctx, g, req, cms.ErrNotConfigured, start)
	}

	key := string(req.contentType) + ":" + req.query.CacheKey()
	cacheable := g.cache != nil && !g.client.Preview()
	if cacheable && cacheReadAllowed(ctx) {
		if data, ok := readCache[T](ctx, g, key); ok {
			return record(g, req.contentType, Result[T]{Data: data, Source: usage.SourceCache, Duration: time.Since(start)}, nil)
		}
	}

	data, err := fetchLive(ctx, g, req)
	if err != nil {
		return staticResult(ctx, g, req, err, start)
	}

	if cacheable {
		writeCache(ctx, g, key, data)
	}
	source := usage.SourceLive
	if g.client.Preview() {
		source = usage.SourcePreview
	}
	return record(g, req.contentType, Result[T]{Data: data, Source: source, Duration: time.Since(start)}, nil)
}

// fetchLive calls the service through the breaker and the governor, then
// transforms the collection.
func fetchLive[T any](ctx context.Context, g *Gateway, req request[T]) (T, error) {
	var zero T
	policy := g.cfg.RetryPolicy()
	policy.ErrorMessage = fmt.Sprintf("%s request timed out", req.contentType)

	v, err := g.breaker.Execute(func() (any, error) {
		return g.governor.Execute(ctx, policy, func(ctx context.Context) (any, error) {
			return g.client.Entries(ctx, req.query)
		})
	}, func(error) (any, error) {
		return (*cms.Collection)(nil), nil
	})
	if err != nil {
		return zero, err
	}

	col, _ := v.(*cms.Collection)
	if col == nil {
		return zero, circuitbreaker.ErrCircuitOpen
	}
	if len(col.Items) == 0 {
		return zero, ErrEmptyResult
	}
	return req.transform(ctx, col)
}

func staticResult[T any](ctx context.Context, g *Gateway, req request[T], cause error, start time.Time) Result[T] {
	res := Result[T]{Source: usage.SourceStatic, Cause: cause}
	func() {
		defer func() {
			if p := recover(); p != nil {
				g.logger.Error("static content unavailable",
					slog.String("content_type", string(req.contentType)),
					slog.Any("panic", p))
			}
		}()
		res.Data = req.static()
	}()
	res.Duration = time.Since(start)

	if errors.Is(cause, cms.ErrNotConfigured) {
		g.logger.DebugContext(ctx, "content service not configured, serving static content",
			slog.String("content_type", string(req.contentType)))
	} else {
		g.logger.WarnContext(ctx, "serving static content",
			slog.String("content_type", string(req.contentType)),
			slog.Any("error", cause))
	}
	return record(g, req.contentType, res, cause)
}

func record[T any](g *Gateway, ct entity.ContentType, res Result[T], cause error) Result[T] {
	metrics.RecordGatewayFetch(string(ct), string(res.Source), res.Duration)

	ev := usage.Event{
		ContentType:  ct,
		Source:       res.Source,
		Success:      cause == nil,
		ResponseTime: res.Duration,
	}
	switch {
	case errors.Is(cause, cms.ErrNotConfigured):
		ev.Success = true
		ev.Metadata = map[string]string{"reason": "not configured"}
	case cause != nil:
		ev.Error = cause.Error()
	}
	g.tracker.Track(ev)
	return res
}

func readCache[T any](ctx context.Context, g *Gateway, key string) (T, bool) {
	var zero T
	raw, ok, err := g.cache.Get(ctx, key)
	if err != nil {
		g.logger.WarnContext(ctx, "content cache read failed", slog.String("key", key), slog.Any("error", err))
		return zero, false
	}
	if !ok {
		return zero, false
	}
	var data T
	if err := json.Unmarshal(raw, &data); err != nil {
		g.logger.WarnContext(ctx, "content cache entry unreadable", slog.String("key", key), slog.Any("error", err))
		return zero, false
	}
	return data, true
}

func writeCache[T any](ctx context.Context, g *Gateway, key string, data T) {
	raw, err := json.Marshal(data)
	if err != nil {
		g.logger.WarnContext(ctx, "content cache encode failed", slog.String("key", key), slog.Any("error", err))
		return
	}
	if err := g.cache.Set(ctx, key, raw, g.cfg.CacheTTL); err != nil {
		g.logger.WarnContext(ctx, "content cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
