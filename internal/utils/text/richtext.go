package text

import (
	"fmt"
	"html"
	"strings"
)

// PlainText returns the text of a rich-text value: an HTML string or a
// structured document ({"nodeType": "document", "content": [...]}).
func PlainText(v any) string {
	switch t := v.(type) {
	case string:
		return StripHTML(t)
	case map[string]any:
		var b strings.Builder
		writePlain(&b, t)
		return strings.Join(strings.Fields(b.String()), " ")
	default:
		return ""
	}
}

func writePlain(b *strings.Builder, node map[string]any) {
	if node["nodeType"] == "text" {
		s, _ := node["value"].(string)
		b.WriteString(s)
		return
	}
	for _, child := range children(node) {
		writePlain(b, child)
	}
	b.WriteByte(' ')
}

// ToHTML renders a rich-text value as HTML. Strings are assumed to be HTML
// already and are returned unchanged.
func ToHTML(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]any:
		var b strings.Builder
		for _, child := range children(t) {
			writeHTML(&b, child)
		}
		return b.String()
	default:
		return ""
	}
}

var blockTags = map[string]string{
	"paragraph":      "p",
	"heading-1":      "h1",
	"heading-2":      "h2",
	"heading-3":      "h3",
	"heading-4":      "h4",
	"heading-5":      "h5",
	"heading-6":      "h6",
	"unordered-list": "ul",
	"ordered-list":   "ol",
	"list-item":      "li",
	"blockquote":     "blockquote",
	"table":          "table",
	"table-row":      "tr",
	"table-cell":     "td",
}

var markTags = map[string]string{
	"bold":      "strong",
	"italic":    "em",
	"underline": "u",
	"code":      "code",
}

func writeHTML(b *strings.Builder, node map[string]any) {
	nodeType, _ := node["nodeType"].(string)
	switch nodeType {
	case "text":
		value, _ := node["value"].(string)
		out := html.EscapeString(value)
		marks, _ := node["marks"].([]any)
		for _, m := range marks {
			mm, _ := m.(map[string]any)
			if tag, ok := markTags[fmt.Sprint(mm["type"])]; ok {
				out = "<" + tag + ">" + out + "</" + tag + ">"
			}
		}
		b.WriteString(out)
	case "hr":
		b.WriteString("<hr/>")
	case "hyperlink":
		uri, _ := data(node)["uri"].(string)
		fmt.Fprintf(b, `<a href="%s">`, html.EscapeString(uri))
		for _, child := range children(node) {
			writeHTML(b, child)
		}
		b.WriteString("</a>")
	case "embedded-asset-block":
		target, _ := data(node)["target"].(map[string]any)
		fields, _ := target["fields"].(map[string]any)
		file, _ := fields["file"].(map[string]any)
		url, _ := file["url"].(string)
		if url == "" {
			return
		}
		if strings.HasPrefix(url, "//") {
			url = "https:" + url
		}
		alt, _ := fields["description"].(string)
		if alt == "" {
			alt, _ = fields["title"].(string)
		}
		fmt.Fprintf(b, `<img src="%s" alt="%s"/>`, html.EscapeString(url), html.EscapeString(alt))
	default:
		tag, ok := blockTags[nodeType]
		if ok {
			b.WriteString("<" + tag + ">")
		}
		for _, child := range children(node) {
			writeHTML(b, child)
		}
		if ok {
			b.WriteString("</" + tag + ">")
		}
	}
}

func children(node map[string]any) []map[string]any {
	raw, _ := node["content"].([]any)
	out := make([]map[string]any, 0, len(raw))
	for _, c := range raw {
		if m, ok := c.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func data(node map[string]any) map[string]any {
	d, _ := node["data"].(map[string]any)
	return d
}
