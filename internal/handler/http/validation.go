package http

import (
	"net/http"

	"portfolio-content/internal/handler/http/respond"
)

const (
	maxPathLength  = 2048
	maxQueryLength = 4096
)

// ReadOnly returns middleware for the public API: only GET, HEAD and OPTIONS
// are accepted, and overlong paths or query strings are rejected before
// routing.
func ReadOnly() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
			default:
				w.Header().Set("Allow", "GET, HEAD, OPTIONS")
				respond.JSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
				return
			}
			if len(r.URL.Path) > maxPathLength {
				respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "URI too long"})
				return
			}
			if len(r.URL.RawQuery) > maxQueryLength {
				respond.JSON(w, http.StatusRequestURITooLong, map[string]string{"error": "query string too long"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
