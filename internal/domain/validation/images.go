package validation

import (
	"fmt"
	"strings"

	"portfolio-content/internal/domain/entity"
)

// Image quality bands.
const (
	MinImageWidth  = 800
	MinImageHeight = 600
	MaxImageSide   = 4000
	MaxImageBytes  = 5 * 1024 * 1024
	MaxAspectRatio = 3.0
	MaxImages      = 20
)

// NormalizeURL turns protocol-relative asset URLs ("//host/path") into https URLs.
func NormalizeURL(u string) string {
	u = strings.TrimSpace(u)
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// DecodeAsset converts an asset reference into an entity.Asset.
//
// Accepted forms are a bare URL string, a flat map ({url, title, description,
// alt, width, height, size, content_type}) and a delivery-API asset record
// ({sys, fields: {title, description, file: {url, contentType, details}}}).
// The second result is false for unresolved links and unknown forms.
func DecodeAsset(raw any) (entity.Asset, bool) {
	if s, ok := raw.(string); ok {
		return entity.Asset{URL: NormalizeURL(s)}, s != ""
	}
	m, ok := asMap(raw)
	if !ok {
		return entity.Asset{}, false
	}

	var a entity.Asset
	if sys, ok := asMap(m["sys"]); ok {
		a.ID, _ = sys["id"].(string)
		if t, _ := sys["type"].(string); t == "Link" {
			return a, false
		}
	}

	if fields, ok := asMap(m["fields"]); ok {
		a.Title, _ = fields["title"].(string)
		a.Description, _ = fields["description"].(string)
		file, _ := asMap(fields["file"])
		url, _ := file["url"].(string)
		a.URL = NormalizeURL(url)
		a.ContentType, _ = file["contentType"].(string)
		a.FileName, _ = file["fileName"].(string)
		if details, ok := asMap(file["details"]); ok {
			if size, ok := asNumber(details["size"]); ok {
				a.Size = int64(size)
			}
			if img, ok := asMap(details["image"]); ok {
				a.Width = intField(img, "width")
				a.Height = intField(img, "height")
			}
		}
		return a, a.URL != ""
	}

	url, _ := m["url"].(string)
	a.URL = NormalizeURL(url)
	a.Title, _ = m["title"].(string)
	a.Description, _ = m["description"].(string)
	if alt, _ := m["alt"].(string); alt != "" && a.Description == "" {
		a.Description = alt
	}
	a.ContentType = firstString(m, "content_type", "contentType")
	a.FileName = firstString(m, "file_name", "fileName")
	if id, _ := m["id"].(string); id != "" && a.ID == "" {
		a.ID = id
	}
	if size, ok := asNumber(m["size"]); ok {
		a.Size = int64(size)
	}
	a.Width = intField(m, "width")
	a.Height = intField(m, "height")
	return a, a.URL != ""
}

// CheckImage returns the quality findings for one image. Every finding is a
// warning; image quality never makes content unusable.
func CheckImage(label string, a entity.Asset) []string {
	var out []string
	if a.Width > 0 && a.Height > 0 {
		if a.Width < MinImageWidth || a.Height < MinImageHeight {
			out = append(out, fmt.Sprintf("%s resolution %dx%d is below the recommended %dx%d",
				label, a.Width, a.Height, MinImageWidth, MinImageHeight))
		}
		if a.Width > MaxImageSide || a.Height > MaxImageSide {
			out = append(out, fmt.Sprintf("%s resolution %dx%d exceeds %dx%d and will load slowly",
				label, a.Width, a.Height, MaxImageSide, MaxImageSide))
		}
		long, short := float64(a.Width), float64(a.Height)
		if short > long {
			long, short = short, long
		}
		if long/short > MaxAspectRatio {
			out = append(out, fmt.Sprintf("%s has an extreme aspect ratio (%.1f:1)", label, long/short))
		}
	}
	if a.Size > MaxImageBytes {
		out = append(out, fmt.Sprintf("%s file size %.1fMB exceeds 5MB", label, float64(a.Size)/(1024*1024)))
	}
	if a.ContentType != "" && !strings.HasPrefix(a.ContentType, "image/") {
		out = append(out, fmt.Sprintf("%s is not an image (%s)", label, a.ContentType))
	}
	if strings.TrimSpace(a.Alt()) == "" {
		out = append(out, fmt.Sprintf("%s is missing alt text (accessibility)", label))
	}
	return out
}

// assetReference validates a single asset field.
func (c *checker) assetReference(f Fields, name string, required bool) (entity.Asset, bool) {
	raw, ok := f[name]
	if !ok || raw == nil {
		if required {
			c.errorf("%s is required", name)
		}
		return entity.Asset{}, false
	}
	a, usable := c.asset(raw, name, required)
	if usable {
		c.data[name] = a
	}
	return a, usable
}

func (c *checker) asset(raw any, label string, required bool) (entity.Asset, bool) {
	a, usable := DecodeAsset(raw)
	if !usable {
		switch {
		case isUnresolvedLink(raw):
			c.warnf("%s references an unresolved asset link", label)
		case isAssetShape(raw):
			c.report(required, "%s has no url", label)
		default:
			c.report(required, "%s must be an asset reference, got %T", label, raw)
		}
		return a, false
	}
	for _, w := range CheckImage(label, a) {
		c.warnf("%s", w)
	}
	return a, true
}

// images validates an image list and returns the usable images.
func (c *checker) images(f Fields, name string, required bool) []entity.Asset {
	var list []any
	if required {
		list = c.requiredArray(f, name)
	} else {
		list = c.optionalArray(f, name)
	}

	usable := make([]entity.Asset, 0, len(list))
	for i, raw := range list {
		if a, ok := c.asset(raw, fmt.Sprintf("%s[%d]", name, i), false); ok {
			usable = append(usable, a)
		}
	}
	if _, present := f[name]; present {
		switch n := len(list); {
		case n == 0:
			c.warnf("%s is empty; this will significantly affect display", name)
		case n > MaxImages:
			c.warnf("%s has %d images; more than %d will affect page performance", name, n, MaxImages)
		}
	}
	c.data[name] = usable
	return usable
}

func isUnresolvedLink(raw any) bool {
	m, ok := asMap(raw)
	if !ok {
		return false
	}
	sys, ok := asMap(m["sys"])
	if !ok {
		return false
	}
	t, _ := sys["type"].(string)
	return t == "Link"
}

func isAssetShape(raw any) bool {
	switch raw.(type) {
	case string:
		return true
	}
	_, ok := asMap(raw)
	return ok
}

func intField(m map[string]any, key string) int {
	n, ok := asNumber(m[key])
	if !ok {
		return 0
	}
	return int(n)
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, _ := m[k].(string); s != "" {
			return s
		}
	}
	return ""
}
