package content

import (
	"errors"
	"fmt"
	"time"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/resilience/retry"
	pkgconfig "portfolio-content/pkg/config"
)

// FallbackHeadroom is the time kept free after the last attempt for the
// static fallback and the response write.
const FallbackHeadroom = time.Second

// ErrFetchBudget reports a fetch policy that cannot finish inside the
// request deadline.
var ErrFetchBudget = errors.New("content fetch budget exceeds request timeout")

// Config holds the fetch policy of the gateway.
type Config struct {
	// Timeout is the deadline of one upstream attempt.
	// Default: 5s
	Timeout time.Duration

	// MaxRetries is the number of retries after the first attempt.
	// Default: 1
	MaxRetries int

	// BackoffMultiplier is the exponential base between retries.
	// Default: 2
	BackoffMultiplier float64

	// CacheTTL is how long live results stay in the response cache.
	// Default: 5m
	CacheTTL time.Duration

	// ArticleLimit is the page size of article listings when the caller sets none.
	// Default: 100
	ArticleLimit int

	// WarmPages lists the pages whose sections Warm fetches.
	WarmPages []string

	// ContentTypeIDs maps each shape to its upstream content type id.
	ContentTypeIDs map[entity.ContentType]string
}

// DefaultConfig returns the default gateway policy.
func DefaultConfig() Config {
	return Config{
		Timeout:           5 * time.Second,
		MaxRetries:        1,
		BackoffMultiplier: 2,
		CacheTTL:          5 * time.Minute,
		ArticleLimit:      100,
		WarmPages:         []string{"home", "about", "services"},
		ContentTypeIDs: map[entity.ContentType]string{
			entity.ContentArticle:     "blogPost",
			entity.ContentGallery:     "galleryItem",
			entity.ContentPageSection: "pageSection",
			entity.ContentLanding:     "landingPage",
		},
	}
}

// LoadConfigFromEnv reads CONTENT_FETCH_* and CONTENT_CACHE_TTL.
func LoadConfigFromEnv() Config {
	d := DefaultConfig()
	d.Timeout = pkgconfig.GetEnvDuration("CONTENT_FETCH_TIMEOUT", d.Timeout)
	d.MaxRetries = pkgconfig.GetEnvInt("CONTENT_FETCH_MAX_RETRIES", d.MaxRetries)
	d.BackoffMultiplier = pkgconfig.GetEnvFloat("CONTENT_FETCH_BACKOFF_MULTIPLIER", d.BackoffMultiplier)
	d.CacheTTL = pkgconfig.GetEnvDuration("CONTENT_CACHE_TTL", d.CacheTTL)
	d.WarmPages = pkgconfig.GetEnvStringList("CONTENT_WARM_PAGES", d.WarmPages)
	return d
}

// Validate checks the policy.
func (c Config) Validate() error {
	if err := pkgconfig.ValidateDurationRange(c.Timeout, 100*time.Millisecond, time.Minute); err != nil {
		return fmt.Errorf("invalid CONTENT_FETCH_TIMEOUT: %w", err)
	}
	if err := pkgconfig.ValidateIntRange(c.MaxRetries, 0, 5); err != nil {
		return fmt.Errorf("invalid CONTENT_FETCH_MAX_RETRIES: %w", err)
	}
	if err := pkgconfig.ValidateFloatRange(c.BackoffMultiplier, 1, 10); err != nil {
		return fmt.Errorf("invalid CONTENT_FETCH_BACKOFF_MULTIPLIER: %w", err)
	}
	if err := pkgconfig.ValidatePositiveDuration(c.CacheTTL); err != nil {
		return fmt.Errorf("invalid CONTENT_CACHE_TTL: %w", err)
	}
	return nil
}

// RetryPolicy returns the governor policy for one upstream call.
func (c Config) RetryPolicy() retry.Config {
	p := retry.DefaultConfig()
	p.Timeout = c.Timeout
	p.MaxRetries = c.MaxRetries
	p.BackoffMultiplier = c.BackoffMultiplier
	return p
}

// WorstCase is the longest a governed call can run: every attempt times
// out and every backoff is slept in full.
func (c Config) WorstCase() time.Duration {
	p := c.RetryPolicy()
	total := time.Duration(c.MaxRetries+1) * c.Timeout
	for r := 1; r <= c.MaxRetries; r++ {
		total += p.Backoff(r)
	}
	return total
}

// CheckBudget fails when WorstCase plus FallbackHeadroom does not fit in
// limit. A non-positive limit disables the check.
func (c Config) CheckBudget(limit time.Duration) error {
	if limit <= 0 {
		return nil
	}
	if need := c.WorstCase() + FallbackHeadroom; need > limit {
		return fmt.Errorf("%w: worst case %s plus %s headroom, limit %s (lower CONTENT_FETCH_TIMEOUT or CONTENT_FETCH_MAX_RETRIES, or raise SERVER_REQUEST_TIMEOUT)",
			ErrFetchBudget, c.WorstCase(), FallbackHeadroom, limit)
	}
	return nil
}

func (c Config) typeID(ct entity.ContentType) string {
	if id, ok := c.ContentTypeIDs[ct]; ok {
		return id
	}
	return DefaultConfig().ContentTypeIDs[ct]
}
