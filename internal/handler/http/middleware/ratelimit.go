package middleware

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"portfolio-content/internal/handler/http/respond"
	"portfolio-content/internal/observability/metrics"
	pkgconfig "portfolio-content/pkg/config"
)

// RateLimitConfig configures per-IP rate limiting.
type RateLimitConfig struct {
	Enabled bool

	// RPS is the sustained request rate per client IP.
	// Default: 10
	RPS float64

	// Burst is the bucket size per client IP.
	// Default: 30
	Burst int

	// IdleTTL evicts limiters of clients that have been quiet this long.
	// Default: 10m
	IdleTTL time.Duration
}

// LoadRateLimitConfig reads RATE_LIMIT_ENABLED, RATE_LIMIT_RPS,
// RATE_LIMIT_BURST and RATE_LIMIT_IDLE_TTL.
func LoadRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Enabled: pkgconfig.GetEnvBool("RATE_LIMIT_ENABLED", true),
		RPS:     pkgconfig.GetEnvFloat("RATE_LIMIT_RPS", 10),
		Burst:   pkgconfig.GetEnvInt("RATE_LIMIT_BURST", 30),
		IdleTTL: pkgconfig.GetEnvDuration("RATE_LIMIT_IDLE_TTL", 10*time.Minute),
	}
}

var errRateLimited = errors.New("rate limit exceeded")

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter applies a token bucket per client IP.
type RateLimiter struct {
	cfg       RateLimitConfig
	extractor IPExtractor

	mu       sync.Mutex
	visitors map[string]*visitor
	now      func() time.Time
}

// NewRateLimiter creates a RateLimiter. A nil extractor uses RemoteAddr.
func NewRateLimiter(cfg RateLimitConfig, extractor IPExtractor) *RateLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(math.Ceil(cfg.RPS))
	}
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = 10 * time.Minute
	}
	if extractor == nil {
		extractor = RemoteAddrExtractor{}
	}
	return &RateLimiter{
		cfg:       cfg,
		extractor: extractor,
		visitors:  make(map[string]*visitor),
		now:       time.Now,
	}
}

func (rl *RateLimiter) limiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RPS), rl.cfg.Burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = rl.now()
	return v.limiter
}

// Middleware rejects requests over the limit with 429 and a Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if !rl.cfg.Enabled {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := rl.extractor.ExtractIP(r)
		if err != nil {
			ip = r.RemoteAddr
		}
		lim := rl.limiter(ip)
		if !lim.AllowN(rl.now(), 1) {
			retry := time.Duration(float64(time.Second) / rl.cfg.RPS)
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			metrics.RecordRateLimited(r.Method)
			slog.Warn("rate limit exceeded",
				slog.String("ip", ip),
				slog.String("path", r.URL.Path))
			respond.Error(w, http.StatusTooManyRequests, errRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Len returns the number of tracked clients.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.visitors)
}

// Sweep evicts idle clients and returns how many were removed.
func (rl *RateLimiter) Sweep() int {
	cutoff := rl.now().Add(-rl.cfg.IdleTTL)
	rl.mu.Lock()
	defer rl.mu.Unlock()
	removed := 0
	for ip, v := range rl.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(rl.visitors, ip)
			removed++
		}
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (rl *RateLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Sweep(); n > 0 {
				slog.Debug("rate limiter: evicted idle clients",
					slog.Int("removed", n),
					slog.Int("active", rl.Len()))
			}
		}
	}
}
