package cms

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Query describes one entries request.
type Query struct {
	// ContentType is the content type id (e.g. "blogPost").
	ContentType string

	// Category filters on fields.category.
	Category string

	// Tags filters on fields.tags[in].
	Tags []string

	// Featured filters on fields.featured when non-nil.
	Featured *bool

	// Limit is the page size; zero leaves the service default.
	Limit int

	// Skip is the page offset.
	Skip int

	// Order is the sort field, e.g. "-fields.publishedDate".
	Order string

	// Include is the link resolution depth; zero means the maximum of 3.
	Include int

	// Fields holds additional equality filters keyed by field name
	// (e.g. "slug": "my-post" becomes fields.slug=my-post).
	Fields map[string]string
}

// Values encodes the query as URL parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	if q.ContentType != "" {
		v.Set("content_type", q.ContentType)
	}
	if q.Category != "" {
		v.Set("fields.category", q.Category)
	}
	if len(q.Tags) > 0 {
		v.Set("fields.tags[in]", strings.Join(q.Tags, ","))
	}
	if q.Featured != nil {
		v.Set("fields.featured", strconv.FormatBool(*q.Featured))
	}
	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Skip > 0 {
		v.Set("skip", strconv.Itoa(q.Skip))
	}
	if q.Order != "" {
		v.Set("order", q.Order)
	}
	include := q.Include
	if include <= 0 || include > MaxIncludeDepth {
		include = MaxIncludeDepth
	}
	v.Set("include", strconv.Itoa(include))

	keys := make([]string, 0, len(q.Fields))
	for k := range q.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set("fields."+k, q.Fields[k])
	}
	return v
}

// CacheKey returns a stable key for the query, used by response caches.
func (q Query) CacheKey() string {
	return q.Values().Encode()
}
