package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-content/internal/domain/entity"
	"portfolio-content/internal/domain/validation"
)

func unconfigured(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONTENT_SPACE_ID", "CONTENT_ACCESS_TOKEN", "CONTENT_PREVIEW",
		"CONTENT_CACHE", "DATABASE_URL", "TELEMETRY_EXPORT_URL", "REDIS_URL",
	} {
		t.Setenv(key, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestValidate_StaticJSON(t *testing.T) {
	unconfigured(t)

	out, err := execute(t, "validate", "--output", "json")
	require.NoError(t, err)

	var report validateReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, sourceStatic, report.Source)
	assert.Positive(t, report.Total)
	assert.Equal(t, report.Total, report.Valid+report.Invalid)
	assert.Len(t, report.Findings, report.Total)
	for _, f := range report.Findings {
		assert.Equal(t, entity.ContentPortfolio, f.ContentType)
		assert.NotEmpty(t, f.Origin)
	}
}

func TestValidate_LiveRequiresConfiguration(t *testing.T) {
	unconfigured(t)

	_, err := execute(t, "validate", "--source", "live")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestValidate_UnknownSource(t *testing.T) {
	unconfigured(t)

	_, err := execute(t, "validate", "--source", "somewhere")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown source")
}

func TestUnknownOutputFormat(t *testing.T) {
	unconfigured(t)

	_, err := execute(t, "catalogue", "--output", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")
}

func TestCatalogue_CategoryFilter(t *testing.T) {
	unconfigured(t)

	out, err := execute(t, "catalogue", "--category", string(entity.CategoryBridal), "-o", "json")
	require.NoError(t, err)

	var got catalogueOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, entity.CategoryBridal, got.Category)
	require.NotEmpty(t, got.Entries)
	for _, e := range got.Entries {
		assert.Equal(t, entity.CategoryBridal, e.Category)
	}
	assert.Positive(t, got.Report.Kept)
}

func TestCatalogue_Text(t *testing.T) {
	unconfigured(t)

	out, err := execute(t, "catalogue", "--limit", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "2 shown")
}

func TestCatalogue_UnknownCategory(t *testing.T) {
	unconfigured(t)

	_, err := execute(t, "catalogue", "--category", "Tattoos")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestDashboard_JSON(t *testing.T) {
	unconfigured(t)

	out, err := execute(t, "dashboard", "-o", "json")
	require.NoError(t, err)

	var got struct {
		Health  string `json:"health"`
		Metrics struct {
			TotalRequests      int     `json:"total_requests"`
			StaticFallbackRate float64 `json:"static_fallback_rate"`
		} `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Positive(t, got.Metrics.TotalRequests)
	// Without a content service every warmed shape is served statically.
	assert.InDelta(t, 100, got.Metrics.StaticFallbackRate, 0.001)
	assert.NotEmpty(t, got.Health)
}

func TestToken(t *testing.T) {
	t.Setenv("TELEMETRY_JWT_SECRET", strings.Repeat("s", 32))
	t.Setenv("TELEMETRY_JWT_TTL", "")

	out, err := execute(t, "token", "--subject", "ops@example.com", "-o", "json")
	require.NoError(t, err)

	var got struct {
		Token   string `json:"token"`
		Subject string `json:"subject"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ops@example.com", got.Subject)
	assert.Len(t, strings.Split(got.Token, "."), 3)
}

func TestToken_RequiresSecret(t *testing.T) {
	t.Setenv("TELEMETRY_JWT_SECRET", "")

	_, err := execute(t, "token", "--subject", "ops")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestValidateRecords(t *testing.T) {
	records := []record{
		{ContentType: entity.ContentPortfolio, ID: "missing-title", Fields: validation.Fields{
			"id":       "missing-title",
			"category": string(entity.CategoryBridal),
			"images":   []any{map[string]any{"url": "/a.jpg", "alt": "a"}},
		}},
		{ContentType: entity.ContentType("poster"), ID: "odd", Fields: validation.Fields{}},
	}

	report := validateRecords(records, validation.DefaultOptions())

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.Invalid)
	assert.False(t, report.Findings[0].Valid)
	assert.Condition(t, func() bool {
		for _, e := range report.Findings[0].Errors {
			if bytes.Contains([]byte(e), []byte("title")) {
				return true
			}
		}
		return false
	}, "error should name the missing field")
	assert.Contains(t, report.Findings[1].Errors[0], "unknown content type")
}

func TestAssetsOf(t *testing.T) {
	single := entity.Asset{URL: "https://img.example.com/a.jpg"}
	data := validation.Fields{
		"hero":   single,
		"images": []entity.Asset{{URL: "https://img.example.com/b.jpg"}, {URL: "https://img.example.com/c.jpg"}},
		"title":  "not an asset",
	}

	got := assetsOf(data)
	assert.Len(t, got, 3)
	assert.Contains(t, got, single)
}
