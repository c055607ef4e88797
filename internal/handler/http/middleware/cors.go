// Package middleware provides the cross-cutting HTTP middleware of the
// content API: CORS for the browser front end, client IP extraction and
// per-IP rate limiting.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	pkgconfig "portfolio-content/pkg/config"
)

// CORSConfig holds the configuration for the CORS middleware.
type CORSConfig struct {
	// AllowedOrigins lists permitted origins. An entry may use a single
	// leading wildcard label, e.g. "https://*.vercel.app".
	AllowedOrigins []string

	// AllowedMethods lists methods accepted in preflight requests.
	// Default: ["GET", "HEAD", "OPTIONS"]
	AllowedMethods []string

	// AllowedHeaders lists request headers accepted in preflight requests.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string

	// ExposedHeaders lists response headers readable by the browser.
	// Default: ["X-Content-Source", "X-Request-ID", "X-Trace-Id"]
	ExposedHeaders []string

	// MaxAge is how long preflight results can be cached, in seconds.
	// Default: 86400
	MaxAge int

	// Logger receives policy violations. Nil disables logging.
	Logger *slog.Logger
}

// DefaultCORSConfig returns a configuration that allows no origins.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Content-Source", "X-Request-ID", "X-Trace-Id"},
		MaxAge:         86400,
	}
}

// LoadCORSConfig reads the CORS policy from the environment.
//
// Environment Variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origins (empty disables CORS headers)
//   - CORS_ALLOWED_METHODS, CORS_ALLOWED_HEADERS, CORS_EXPOSED_HEADERS: comma-separated lists
//   - CORS_MAX_AGE: preflight cache duration in seconds
func LoadCORSConfig() (CORSConfig, error) {
	d := DefaultCORSConfig()
	cfg := CORSConfig{
		AllowedOrigins: pkgconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", nil),
		AllowedMethods: pkgconfig.GetEnvStringList("CORS_ALLOWED_METHODS", d.AllowedMethods),
		AllowedHeaders: pkgconfig.GetEnvStringList("CORS_ALLOWED_HEADERS", d.AllowedHeaders),
		ExposedHeaders: pkgconfig.GetEnvStringList("CORS_EXPOSED_HEADERS", d.ExposedHeaders),
		MaxAge:         pkgconfig.GetEnvInt("CORS_MAX_AGE", d.MaxAge),
	}
	if err := cfg.Validate(); err != nil {
		return CORSConfig{}, err
	}
	return cfg, nil
}

// Validate checks origin syntax and the preflight cache duration.
func (c CORSConfig) Validate() error {
	for _, origin := range c.AllowedOrigins {
		if err := validateOrigin(origin); err != nil {
			return err
		}
	}
	if c.MaxAge < 0 || c.MaxAge > 86400 {
		return fmt.Errorf("CORS max age must be between 0 and 86400 seconds, got %d", c.MaxAge)
	}
	return nil
}

func validateOrigin(origin string) error {
	u, err := url.Parse(strings.Replace(origin, "*.", "wildcard.", 1))
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid origin %q: scheme must be http or https", origin)
	}
	if u.Host == "" || (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		return fmt.Errorf("invalid origin %q: must be scheme://host[:port]", origin)
	}
	if strings.HasSuffix(origin, "/") {
		return fmt.Errorf("invalid origin %q: trailing slash", origin)
	}
	return nil
}

// originAllowed reports whether origin matches an allowed entry.
func (c CORSConfig) originAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if allowed == origin {
			return true
		}
		scheme, host, ok := strings.Cut(allowed, "://*.")
		if !ok {
			continue
		}
		prefix := scheme + "://"
		if !strings.HasPrefix(origin, prefix) {
			continue
		}
		sub, found := strings.CutSuffix(strings.TrimPrefix(origin, prefix), "."+host)
		if found && sub != "" && !strings.Contains(sub, ".") {
			return true
		}
	}
	return false
}

// CORS returns middleware applying cfg.
//
// Requests without an Origin header and requests from disallowed origins pass
// through without CORS headers. Preflight requests from allowed origins are
// answered with 204 and never reach next.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Add("Vary", "Origin")

			if !cfg.originAllowed(origin) {
				if cfg.Logger != nil {
					cfg.Logger.Warn("CORS: origin not allowed",
						slog.String("origin", origin),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method))
				}
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			if exposed != "" {
				w.Header().Set("Access-Control-Expose-Headers", exposed)
			}

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
