// Package csp builds Content-Security-Policy header values.
package csp

import (
	"maps"
	"slices"
	"strings"
)

// directiveOrder keeps the rendered header stable.
var directiveOrder = []string{
	"default-src",
	"script-src",
	"style-src",
	"img-src",
	"font-src",
	"connect-src",
	"frame-ancestors",
	"form-action",
	"base-uri",
	"object-src",
	"report-uri",
}

// CSPBuilder assembles a policy with a fluent interface.
//
//	policy := NewCSPBuilder().
//	    DefaultSrc("'self'").
//	    ImgSrc("'self'", "https://images.example.com").
//	    Build()
//	// "default-src 'self'; img-src 'self' https://images.example.com"
//
// A builder is not safe for concurrent mutation; Build and HeaderName may be
// called concurrently once configuration is done.
type CSPBuilder struct {
	directives map[string][]string
	reportOnly bool
}

// NewCSPBuilder creates an empty policy.
func NewCSPBuilder() *CSPBuilder {
	return &CSPBuilder{directives: make(map[string][]string)}
}

func (b *CSPBuilder) set(directive string, sources []string) *CSPBuilder {
	b.directives[directive] = sources
	return b
}

// DefaultSrc sets default-src, the fallback for every fetch directive.
func (b *CSPBuilder) DefaultSrc(sources ...string) *CSPBuilder {
	return b.set("default-src", sources)
}

// ScriptSrc sets script-src.
func (b *CSPBuilder) ScriptSrc(sources ...string) *CSPBuilder {
	return b.set("script-src", sources)
}

// StyleSrc sets style-src.
func (b *CSPBuilder) StyleSrc(sources ...string) *CSPBuilder {
	return b.set("style-src", sources)
}

// ImgSrc sets img-src.
func (b *CSPBuilder) ImgSrc(sources ...string) *CSPBuilder {
	return b.set("img-src", sources)
}

// FontSrc sets font-src.
func (b *CSPBuilder) FontSrc(sources ...string) *CSPBuilder {
	return b.set("font-src", sources)
}

// ConnectSrc sets connect-src.
func (b *CSPBuilder) ConnectSrc(sources ...string) *CSPBuilder {
	return b.set("connect-src", sources)
}

// FrameAncestors sets frame-ancestors; "'none'" blocks framing entirely.
func (b *CSPBuilder) FrameAncestors(sources ...string) *CSPBuilder {
	return b.set("frame-ancestors", sources)
}

// FormAction sets form-action.
func (b *CSPBuilder) FormAction(sources ...string) *CSPBuilder {
	return b.set("form-action", sources)
}

// BaseURI sets base-uri.
func (b *CSPBuilder) BaseURI(sources ...string) *CSPBuilder {
	return b.set("base-uri", sources)
}

// ObjectSrc sets object-src.
func (b *CSPBuilder) ObjectSrc(sources ...string) *CSPBuilder {
	return b.set("object-src", sources)
}

// ReportURI sets report-uri.
func (b *CSPBuilder) ReportURI(uri string) *CSPBuilder {
	return b.set("report-uri", []string{uri})
}

// ReportOnly returns a copy of the policy in report-only mode.
// The receiver is not modified, so shared policies stay enforcing.
func (b *CSPBuilder) ReportOnly(enabled bool) *CSPBuilder {
	c := &CSPBuilder{directives: maps.Clone(b.directives), reportOnly: enabled}
	for k, v := range c.directives {
		c.directives[k] = slices.Clone(v)
	}
	return c
}

// Build renders the header value. An empty policy renders "".
func (b *CSPBuilder) Build() string {
	var parts []string
	for _, directive := range directiveOrder {
		if sources := b.directives[directive]; len(sources) > 0 {
			parts = append(parts, directive+" "+strings.Join(sources, " "))
		}
	}
	return strings.Join(parts, "; ")
}

// HeaderName returns the enforcing or report-only header name.
func (b *CSPBuilder) HeaderName() string {
	if b.reportOnly {
		return "Content-Security-Policy-Report-Only"
	}
	return "Content-Security-Policy"
}

// StrictPolicy is the policy of the JSON API: nothing may be loaded or framed.
func StrictPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'none'").
		FrameAncestors("'none'").
		BaseURI("'none'").
		FormAction("'none'")
}

// SwaggerUIPolicy allows what the bundled Swagger UI needs: same-origin
// scripts with inline bootstrap code, inline styles and data: images.
func SwaggerUIPolicy() *CSPBuilder {
	return NewCSPBuilder().
		DefaultSrc("'self'").
		ScriptSrc("'self'", "'unsafe-inline'").
		StyleSrc("'self'", "'unsafe-inline'").
		ImgSrc("'self'", "data:").
		ConnectSrc("'self'").
		FrameAncestors("'none'").
		BaseURI("'self'").
		FormAction("'self'").
		ObjectSrc("'none'")
}
