package validation

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Semantic bands.
const (
	MaxTags         = 10
	MaxTagLength    = 50
	MaxSEOTitle     = 60
	MinSEODesc      = 120
	MaxSEODesc      = 160
	MaxDisplayOrder = 9999
)

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05.000Z07:00", "2006-01-02T15:04", "2006-01-02"}

// ParseDate parses the date formats the content service and static datasets use.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// category checks membership in the declared set. Unknown categories are
// warnings so new taxonomy entries never block content.
func (c *checker) category(f Fields, name string, known []string, required bool) string {
	var v string
	if required {
		v = c.requiredString(f, name)
	} else {
		v = c.optionalString(f, name, "")
	}
	if v != "" && len(known) > 0 && !slices.Contains(known, v) {
		c.warnf("%s %q is not a known category", name, v)
	}
	return v
}

// tags checks tag count and length. Only string tags are kept.
func (c *checker) tags(f Fields, name string) []string {
	list := c.optionalArray(f, name)
	out := make([]string, 0, len(list))
	for i, raw := range list {
		s, ok := raw.(string)
		if !ok {
			c.warnf("%s[%d] must be a string, got %T; ignoring", name, i, raw)
			continue
		}
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len([]rune(s)) > MaxTagLength {
			c.warnf("%s[%d] is longer than %d characters", name, i, MaxTagLength)
		}
		out = append(out, s)
	}
	switch {
	case len(out) == 0:
		c.warnf("%s is empty; tagged content is easier to find", name)
	case len(out) > MaxTags:
		c.warnf("%s has %d entries; more than %d dilutes them", name, len(out), MaxTags)
	}
	c.data[name] = out
	return out
}

// date checks that a date parses and is plausible.
func (c *checker) date(f Fields, name string, required bool, opts Options) (time.Time, bool) {
	var s string
	if required {
		s = c.requiredString(f, name)
		if s == "" {
			return time.Time{}, false
		}
	} else {
		s = c.optionalString(f, name, "")
		if s == "" {
			return time.Time{}, false
		}
	}

	t, ok := ParseDate(s)
	if !ok {
		c.report(required, "%s %q is not a valid date", name, s)
		return time.Time{}, false
	}
	now := opts.now()
	if t.Year() < opts.MinYear {
		c.warnf("%s %s is before %d", name, t.Format("2006-01-02"), opts.MinYear)
	}
	if t.After(now.Add(opts.MaxFuture)) {
		c.warnf("%s %s is too far in the future", name, t.Format("2006-01-02"))
	}
	c.data[name] = t
	return t, true
}

// seo checks metadata length bands. Both fields are optional.
func (c *checker) seo(f Fields, titleField, descField string) (string, string) {
	title := c.optionalString(f, titleField, "")
	desc := c.optionalString(f, descField, "")
	if n := len([]rune(title)); n > MaxSEOTitle {
		c.warnf("%s is %d characters; search engines truncate after %d", titleField, n, MaxSEOTitle)
	}
	if desc != "" {
		if n := len([]rune(desc)); n < MinSEODesc || n > MaxSEODesc {
			c.warnf("%s is %d characters; aim for %d-%d", descField, n, MinSEODesc, MaxSEODesc)
		}
	}
	return title, desc
}

// order checks an ordering field for sane integer values.
func (c *checker) order(f Fields, name string) (int, bool) {
	n, ok := c.optionalNumber(f, name, 0)
	if !ok {
		return 0, false
	}
	if n != float64(int(n)) {
		c.warnf("%s %v is not a whole number", name, n)
	}
	if n < 0 || n > MaxDisplayOrder {
		c.warnf("%s %v is outside 0-%d", name, n, MaxDisplayOrder)
	}
	c.data[name] = int(n)
	return int(n), true
}

// link checks that a call-to-action carries both label and URL.
func (c *checker) link(f Fields, labelField, urlField string) (string, string) {
	label := c.optionalString(f, labelField, "")
	url := c.optionalString(f, urlField, "")
	if (label == "") != (url == "") {
		c.warnf("%s and %s should be set together", labelField, urlField)
	}
	if url != "" && !strings.HasPrefix(url, "/") && !strings.HasPrefix(url, "http://") &&
		!strings.HasPrefix(url, "https://") && !strings.HasPrefix(url, "mailto:") && !strings.HasPrefix(url, "#") {
		c.warnf("%s %q is not an absolute or site-relative link", urlField, url)
	}
	return label, url
}

func describe(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
