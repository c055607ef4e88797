// Package query parses and validates URL query parameters of the content API.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// MaxLimit caps every list endpoint.
const MaxLimit = 100

// Limit reads a positive page size from key. Missing means 0 (no limit).
func Limit(v url.Values, key string) (int, error) {
	return bounded(v, key, 1, MaxLimit)
}

// Offset reads a non-negative offset from key.
func Offset(v url.Values, key string) (int, error) {
	return bounded(v, key, 0, 10_000)
}

func bounded(v url.Values, key string, lo, hi int) (int, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, lo, hi)
	}
	return n, nil
}

// Bool reads "true"/"false"/"1"/"0" from key. Missing means false.
func Bool(v url.Values, key string) (bool, error) {
	raw := strings.TrimSpace(v.Get(key))
	if raw == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("%s must be true or false", key)
	}
	return b, nil
}

// Text reads a trimmed string of at most maxLen runes.
func Text(v url.Values, key string, maxLen int) (string, error) {
	s := strings.TrimSpace(v.Get(key))
	if len([]rune(s)) > maxLen {
		return "", fmt.Errorf("%s is too long (max %d characters)", key, maxLen)
	}
	return s, nil
}

// Slug reports whether s is a lowercase URL slug (letters, digits, dashes).
func Slug(s string) bool {
	if s == "" || len(s) > 200 || strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		return false
	}
	for _, r := range s {
		if r != '-' && (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}
