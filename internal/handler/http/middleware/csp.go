package middleware

import (
	"net/http"
	"strings"

	pkgconfig "portfolio-content/pkg/config"
	"portfolio-content/pkg/security/csp"
)

// CSPMiddlewareConfig selects the Content-Security-Policy per path.
type CSPMiddlewareConfig struct {
	// Enabled turns the header on. When false the middleware is a no-op.
	Enabled bool

	// DefaultPolicy applies to paths without a more specific entry.
	DefaultPolicy *csp.CSPBuilder

	// PathPolicies maps path prefixes to policies. The longest matching
	// prefix wins.
	PathPolicies map[string]*csp.CSPBuilder

	// ReportOnly sends Content-Security-Policy-Report-Only instead of
	// enforcing the policy.
	ReportOnly bool
}

// LoadCSPConfig reads the CSP switches from the environment.
//
// Environment Variables:
//   - CSP_ENABLED: send the header (default: true)
//   - CSP_REPORT_ONLY: report violations without enforcing (default: false)
//
// Policies are code, not configuration; callers fill DefaultPolicy and
// PathPolicies.
func LoadCSPConfig() CSPMiddlewareConfig {
	return CSPMiddlewareConfig{
		Enabled:    pkgconfig.GetEnvBool("CSP_ENABLED", true),
		ReportOnly: pkgconfig.GetEnvBool("CSP_REPORT_ONLY", false),
	}
}

// CSPMiddleware sets the Content-Security-Policy header on every response.
type CSPMiddleware struct {
	enabled  bool
	fallback *csp.CSPBuilder
	prefixes map[string]*csp.CSPBuilder
}

// NewCSPMiddleware prepares the policies once so requests only pick one.
// A nil DefaultPolicy falls back to csp.StrictPolicy.
func NewCSPMiddleware(cfg CSPMiddlewareConfig) *CSPMiddleware {
	fallback := cfg.DefaultPolicy
	if fallback == nil {
		fallback = csp.StrictPolicy()
	}
	m := &CSPMiddleware{
		enabled:  cfg.Enabled,
		fallback: fallback.ReportOnly(cfg.ReportOnly),
		prefixes: make(map[string]*csp.CSPBuilder, len(cfg.PathPolicies)),
	}
	for prefix, policy := range cfg.PathPolicies {
		if policy != nil {
			m.prefixes[prefix] = policy.ReportOnly(cfg.ReportOnly)
		}
	}
	return m
}

// Middleware returns the http middleware.
func (m *CSPMiddleware) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !m.enabled {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			policy := m.selectPolicy(r.URL.Path)
			if value := policy.Build(); value != "" {
				w.Header().Set(policy.HeaderName(), value)
			}
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	}
}

func (m *CSPMiddleware) selectPolicy(path string) *csp.CSPBuilder {
	var (
		best    *csp.CSPBuilder
		bestLen = -1
	)
	for prefix, policy := range m.prefixes {
		if strings.HasPrefix(path, prefix) && len(prefix) > bestLen {
			best, bestLen = policy, len(prefix)
		}
	}
	if best == nil {
		return m.fallback
	}
	return best
}
