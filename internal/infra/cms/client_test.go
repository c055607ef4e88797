package cms

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const collectionJSON = `{
  "total": 1, "skip": 0, "limit": 100,
  "items": [{
    "sys": {"id": "post-1", "type": "Entry", "contentType": {"sys": {"id": "blogPost", "type": "Link", "linkType": "ContentType"}}},
    "fields": {
      "title": "Glow",
      "featuredImage": {"sys": {"type": "Link", "linkType": "Asset", "id": "img-1"}},
      "author": {"sys": {"type": "Link", "linkType": "Entry", "id": "author-1"}},
      "gallery": [
        {"sys": {"type": "Link", "linkType": "Asset", "id": "img-1"}},
        {"sys": {"type": "Link", "linkType": "Asset", "id": "missing"}}
      ]
    }
  }],
  "includes": {
    "Entry": [{"sys": {"id": "author-1", "type": "Entry"}, "fields": {"name": "Maya", "avatar": {"sys": {"type": "Link", "linkType": "Asset", "id": "img-1"}}}}],
    "Asset": [{"sys": {"id": "img-1", "type": "Asset"}, "fields": {"title": "Glow", "file": {"url": "//images.example.com/glow.jpg"}}}]
  }
}`

func testConfig(host string) Config {
	cfg := DefaultConfig()
	cfg.SpaceID = "space1"
	cfg.AccessToken = "delivery-token"
	cfg.PreviewToken = "preview-token"
	cfg.Host = host
	cfg.PreviewHost = host
	cfg.RateLimitRPS = 1000
	cfg.RateLimitBurst = 1000
	return cfg
}

func TestNewClient_NotConfigured(t *testing.T) {
	_, err := NewClient(DefaultConfig(), nil)
	assert.ErrorIs(t, err, ErrNotConfigured)

	cfg := DefaultConfig()
	cfg.SpaceID = "space1"
	cfg.AccessToken = "token"
	cfg.Preview = true // preview without preview token
	_, err = NewClient(cfg, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNewClient_InvalidConfig(t *testing.T) {
	cfg := testConfig("https://cdn.example.com")
	cfg.RateLimitRPS = 0
	_, err := NewClient(cfg, nil)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClient_Entries(t *testing.T) {
	var gotPath, gotAuth string
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(collectionJSON))
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), srv.Client())
	require.NoError(t, err)

	featured := true
	col, err := client.Entries(context.Background(), Query{
		ContentType: "blogPost",
		Category:    "Bridal",
		Tags:        []string{"glow", "bridal"},
		Featured:    &featured,
		Limit:       10,
		Order:       "-fields.publishedDate",
		Fields:      map[string]string{"slug": "glow"},
	})
	require.NoError(t, err)

	assert.Equal(t, "/spaces/space1/environments/master/entries", gotPath)
	assert.Equal(t, "Bearer delivery-token", gotAuth)
	assert.Equal(t, "blogPost", gotQuery["content_type"][0])
	assert.Equal(t, "Bridal", gotQuery["fields.category"][0])
	assert.Equal(t, "glow,bridal", gotQuery["fields.tags[in]"][0])
	assert.Equal(t, "true", gotQuery["fields.featured"][0])
	assert.Equal(t, "10", gotQuery["limit"][0])
	assert.Equal(t, "3", gotQuery["include"][0])
	assert.Equal(t, "glow", gotQuery["fields.slug"][0])

	require.Len(t, col.Items, 1)
	item := col.Items[0]
	assert.Equal(t, "blogPost", item.ContentTypeID())

	img := item.Fields["featuredImage"].(map[string]any)
	file := img["fields"].(map[string]any)["file"].(map[string]any)
	assert.Equal(t, "//images.example.com/glow.jpg", file["url"])

	author := item.Fields["author"].(map[string]any)["fields"].(map[string]any)
	assert.Equal(t, "Maya", author["name"])
	avatar := author["avatar"].(map[string]any)
	assert.Contains(t, avatar, "fields", "nested links resolve within the include depth")

	gallery := item.Fields["gallery"].([]any)
	assert.Contains(t, gallery[0].(map[string]any), "fields")
	missing := gallery[1].(map[string]any)["sys"].(map[string]any)
	assert.Equal(t, "Link", missing["type"], "unresolvable links stay in place")
}

func TestClient_PreviewUsesPreviewToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"items": []}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Preview = true
	client, err := NewClient(cfg, srv.Client())
	require.NoError(t, err)

	_, err = client.Entries(context.Background(), Query{ContentType: "blogPost"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer preview-token", gotAuth)
	assert.True(t, client.Preview())
}

func TestClient_Entries_APIError(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantMsg   string
		temporary bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message": "The access token you sent could not be found", "requestId": "abc"}`, "could not be found", false},
		{"rate limited", http.StatusTooManyRequests, `{"message": "Rate limit exceeded"}`, "Rate limit", true},
		{"server error without body", http.StatusBadGateway, ``, "Bad Gateway", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := NewClient(testConfig(srv.URL), srv.Client())
			require.NoError(t, err)

			_, err = client.Entries(context.Background(), Query{ContentType: "blogPost"})
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Contains(t, apiErr.Error(), tt.wantMsg)
			assert.Equal(t, tt.temporary, apiErr.Temporary())
		})
	}
}

func TestClient_Entries_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [` + strings.Repeat(" ", 2048) + `]}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxBodySize = 1024
	client, err := NewClient(cfg, srv.Client())
	require.NoError(t, err)

	_, err = client.Entries(context.Background(), Query{})
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestClient_Entries_ContextCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, err := NewClient(testConfig(srv.URL), srv.Client())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Entries(ctx, Query{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("CONTENT_SPACE_ID", "space9")
	t.Setenv("CONTENT_ACCESS_TOKEN", "tok")
	t.Setenv("CONTENT_PREVIEW", "true")
	t.Setenv("CONTENT_RATE_LIMIT_RPS", "3.5")

	cfg := LoadConfigFromEnv()

	assert.Equal(t, "space9", cfg.SpaceID)
	assert.True(t, cfg.Preview)
	assert.Equal(t, 3.5, cfg.RateLimitRPS)
	assert.Equal(t, "master", cfg.Environment)
	assert.False(t, cfg.Configured(), "preview mode needs a preview token")
}

func TestQuery_CacheKeyIsStable(t *testing.T) {
	a := Query{ContentType: "page", Fields: map[string]string{"page": "about", "sectionKey": "story"}}
	b := Query{ContentType: "page", Fields: map[string]string{"sectionKey": "story", "page": "about"}}
	assert.Equal(t, a.CacheKey(), b.CacheKey())
}
