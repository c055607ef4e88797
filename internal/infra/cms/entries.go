package cms

// MaxIncludeDepth is the deepest link resolution the service supports.
const MaxIncludeDepth = 3

// Sys is the system metadata of a record or link.
type Sys struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	LinkType    string `json:"linkType,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
	ContentType *struct {
		Sys Sys `json:"sys"`
	} `json:"contentType,omitempty"`
}

// Entry is a raw record: system metadata plus a field map.
type Entry struct {
	Sys    Sys            `json:"sys"`
	Fields map[string]any `json:"fields"`
}

// ContentTypeID returns the content type id of the entry, or "" for assets.
func (e Entry) ContentTypeID() string {
	if e.Sys.ContentType == nil {
		return ""
	}
	return e.Sys.ContentType.Sys.ID
}

// Includes holds linked records returned alongside the items.
type Includes struct {
	Entry []Entry `json:"Entry,omitempty"`
	Asset []Entry `json:"Asset,omitempty"`
}

// Collection is one page of entries.
type Collection struct {
	Total    int      `json:"total"`
	Skip     int      `json:"skip"`
	Limit    int      `json:"limit"`
	Items    []Entry  `json:"items"`
	Includes Includes `json:"includes"`
}

// ResolveLinks replaces link objects in every item's fields with the linked
// record ({"sys": ..., "fields": ...}) from Includes, following links up to
// MaxIncludeDepth levels. Links without an included target are left in place
// so validators can report them.
func (c *Collection) ResolveLinks() {
	index := make(map[string]Entry, len(c.Includes.Entry)+len(c.Includes.Asset))
	for _, e := range c.Includes.Entry {
		index["Entry:"+e.Sys.ID] = e
	}
	for _, a := range c.Includes.Asset {
		index["Asset:"+a.Sys.ID] = a
	}
	for i := range c.Items {
		c.Items[i].Fields = resolveMap(c.Items[i].Fields, index, 0)
	}
}

func resolveMap(m map[string]any, index map[string]Entry, depth int) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = resolveValue(v, index, depth)
	}
	return out
}

func resolveValue(v any, index map[string]Entry, depth int) any {
	switch t := v.(type) {
	case map[string]any:
		if linkType, id, ok := asLink(t); ok {
			if depth >= MaxIncludeDepth {
				return t
			}
			target, found := index[linkType+":"+id]
			if !found {
				return t
			}
			return map[string]any{
				"sys":    sysMap(target.Sys),
				"fields": resolveMap(target.Fields, index, depth+1),
			}
		}
		return resolveMap(t, index, depth)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = resolveValue(item, index, depth)
		}
		return out
	default:
		return v
	}
}

func asLink(m map[string]any) (linkType, id string, ok bool) {
	sys, isMap := m["sys"].(map[string]any)
	if !isMap {
		return "", "", false
	}
	if t, _ := sys["type"].(string); t != "Link" {
		return "", "", false
	}
	linkType, _ = sys["linkType"].(string)
	id, _ = sys["id"].(string)
	return linkType, id, id != ""
}

func sysMap(s Sys) map[string]any {
	m := map[string]any{"id": s.ID, "type": s.Type}
	if s.UpdatedAt != "" {
		m["updatedAt"] = s.UpdatedAt
	}
	return m
}
