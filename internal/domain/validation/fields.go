package validation

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

// Fields is the decoded field map of one content record.
type Fields map[string]any

// checker accumulates findings for one record. Field validators never panic
// or return errors; they append to errors or warnings and write the
// normalized value into data.
type checker struct {
	errors   []string
	warnings []string
	data     Fields
}

func newChecker() *checker {
	return &checker{data: Fields{}}
}

func (c *checker) errorf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

func (c *checker) warnf(format string, args ...any) {
	c.warnings = append(c.warnings, fmt.Sprintf(format, args...))
}

// result closes the checker. Data is only attached to valid results.
func (c *checker) result() Result {
	r := Result{
		IsValid:  len(c.errors) == 0,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
	if r.IsValid {
		r.Data = c.data
	}
	return r
}

// requiredString reads a mandatory string. Absence or a non-string value is
// an error; a present but blank string is only a warning.
func (c *checker) requiredString(f Fields, name string) string {
	raw, ok := f[name]
	if !ok || raw == nil {
		c.errorf("%s is required", name)
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		c.errorf("%s must be a string, got %T", name, raw)
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		c.warnf("%s is empty", name)
	}
	c.data[name] = s
	return s
}

// optionalString reads a string, falling back to def when absent or mistyped.
func (c *checker) optionalString(f Fields, name, def string) string {
	raw, ok := f[name]
	if !ok || raw == nil {
		c.data[name] = def
		return def
	}
	s, ok := raw.(string)
	if !ok {
		c.warnf("%s must be a string, got %T; using default", name, raw)
		c.data[name] = def
		return def
	}
	s = strings.TrimSpace(s)
	c.data[name] = s
	return s
}

// requiredArray reads a mandatory list.
func (c *checker) requiredArray(f Fields, name string) []any {
	raw, ok := f[name]
	if !ok || raw == nil {
		c.errorf("%s is required", name)
		return nil
	}
	list, ok := asList(raw)
	if !ok {
		c.errorf("%s must be an array, got %T", name, raw)
		return nil
	}
	c.data[name] = list
	return list
}

// optionalArray reads a list, defaulting to an empty one.
func (c *checker) optionalArray(f Fields, name string) []any {
	raw, ok := f[name]
	if !ok || raw == nil {
		c.data[name] = []any{}
		return nil
	}
	list, ok := asList(raw)
	if !ok {
		c.warnf("%s must be an array, got %T; ignoring", name, raw)
		c.data[name] = []any{}
		return nil
	}
	c.data[name] = list
	return list
}

// optionalBoolean reads a boolean, falling back to def.
func (c *checker) optionalBoolean(f Fields, name string, def bool) bool {
	raw, ok := f[name]
	if !ok || raw == nil {
		c.data[name] = def
		return def
	}
	b, ok := raw.(bool)
	if !ok {
		c.warnf("%s must be a boolean, got %T; using default", name, raw)
		c.data[name] = def
		return def
	}
	c.data[name] = b
	return b
}

// optionalNumber reads a number, falling back to def. The second result
// reports whether the record actually carried a usable value.
func (c *checker) optionalNumber(f Fields, name string, def float64) (float64, bool) {
	raw, ok := f[name]
	if !ok || raw == nil {
		c.data[name] = def
		return def, false
	}
	n, ok := asNumber(raw)
	if !ok {
		c.warnf("%s must be a number, got %T; using default", name, raw)
		c.data[name] = def
		return def, false
	}
	c.data[name] = n
	return n, true
}

// richTextBlock accepts an HTML/markdown string or a structured rich-text
// document ({"nodeType": "document", "content": [...]}).
func (c *checker) richTextBlock(f Fields, name string, required bool) any {
	raw, ok := f[name]
	if !ok || raw == nil {
		if required {
			c.errorf("%s is required", name)
		}
		return nil
	}

	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			c.warnf("%s is empty", name)
		}
		c.data[name] = v
		return v
	case map[string]any:
		if nodeType, _ := v["nodeType"].(string); nodeType != "document" {
			c.report(required, "%s must be a rich text document", name)
			return nil
		}
		content, _ := asList(v["content"])
		if len(content) == 0 {
			c.warnf("%s is empty", name)
		}
		c.data[name] = v
		return v
	default:
		c.report(required, "%s must be rich text, got %T", name, raw)
		return nil
	}
}

// report records a type problem as an error for required fields and a
// warning for optional ones.
func (c *checker) report(required bool, format string, args ...any) {
	if required {
		c.errorf(format, args...)
		return
	}
	c.warnf(format, args...)
}

func asList(raw any) ([]any, bool) {
	switch v := raw.(type) {
	case []any:
		return v, true
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, m := range v {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

func asNumber(raw any) (float64, bool) {
	var n float64
	switch v := raw.(type) {
	case float64:
		n = v
	case float32:
		n = float64(v)
	case int:
		n = float64(v)
	case int64:
		n = float64(v)
	case int32:
		n = float64(v)
	case uint64:
		n = float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func asMap(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, true
	case Fields:
		return v, true
	default:
		return nil, false
	}
}
