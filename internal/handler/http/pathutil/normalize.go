// Package pathutil maps request paths to route templates for metric labels.
package pathutil

import (
	"regexp"
	"strings"
)

// PathPattern represents a regex pattern and its corresponding normalized template.
type PathPattern struct {
	Pattern  *regexp.Regexp
	Template string
}

// pathPatterns lists the dynamic routes, most specific first.
var pathPatterns = []*PathPattern{
	{Pattern: regexp.MustCompile(`^/api/content/articles/[^/]+$`), Template: "/api/content/articles/:slug"},
	{Pattern: regexp.MustCompile(`^/api/content/sections/[^/]+$`), Template: "/api/content/sections/:page"},
	{Pattern: regexp.MustCompile(`^/api/portfolio/(featured|categories|stats)$`), Template: ""},
	{Pattern: regexp.MustCompile(`^/api/portfolio/[^/]+$`), Template: "/api/portfolio/:id"},
	{Pattern: regexp.MustCompile(`^/swagger/.+$`), Template: "/swagger/*"},
}

// knownStatic lists the fixed routes. Anything else is reported as "other"
// so that scanners cannot inflate label cardinality.
var knownStatic = map[string]bool{
	"/":                        true,
	"/health":                  true,
	"/ready":                   true,
	"/live":                    true,
	"/metrics":                 true,
	"/api/content/articles":    true,
	"/api/content/gallery":     true,
	"/api/content/landing":     true,
	"/api/portfolio":           true,
	"/api/telemetry/dashboard": true,
	"/api/telemetry/export":    true,
	"/api/telemetry/attempts":  true,
}

// NormalizePath converts a request path into its route template.
//
// Examples:
//
//	NormalizePath("/api/content/articles/bridal-makeup-timeline") // "/api/content/articles/:slug"
//	NormalizePath("/api/portfolio/festival-neon")                 // "/api/portfolio/:id"
//	NormalizePath("/api/portfolio/featured")                      // "/api/portfolio/featured"
//	NormalizePath("/health?verbose=1")                            // "/health"
//	NormalizePath("/wp-login.php")                                // "other"
func NormalizePath(path string) string {
	if idx := strings.IndexByte(path, '?'); idx != -1 {
		path = path[:idx]
	}
	if len(path) > 1 && path[len(path)-1] == '/' {
		path = path[:len(path)-1]
	}
	if knownStatic[path] {
		return path
	}
	for _, p := range pathPatterns {
		if p.Pattern.MatchString(path) {
			if p.Template == "" {
				return path
			}
			return p.Template
		}
	}
	return "other"
}

// ExpectedCardinality returns the number of distinct labels NormalizePath can produce.
func ExpectedCardinality() int {
	// the fixed portfolio sub-routes, the templates and "other"
	return len(knownStatic) + 3 + (len(pathPatterns) - 1) + 1
}
