package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestReadDoc(t *testing.T) {
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc struct {
		Swagger string                     `json:"swagger"`
		Info    map[string]any             `json:"info"`
		Paths   map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Portfolio Content API", doc.Info["title"])
	for _, path := range []string{
		"/api/content/articles",
		"/api/content/articles/{slug}",
		"/api/portfolio",
		"/api/portfolio/{id}",
		"/api/telemetry/dashboard",
	} {
		assert.Contains(t, doc.Paths, path)
	}
}
