package respond

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]int{"n": 1})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"n":1}`, rec.Body.String())
}

func TestJSON_NilBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusNoContent, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestContent(t *testing.T) {
	tests := []struct {
		source    string
		wantCache string
	}{
		{"live", "public, max-age=60"},
		{"static", "public, max-age=60"},
		{"preview", "no-store"},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Content(rec, tt.source, []string{"a"})

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.source, rec.Header().Get(SourceHeader))
			assert.Equal(t, tt.wantCache, rec.Header().Get("Cache-Control"))

			var body struct {
				Data   []string `json:"data"`
				Source string   `json:"source"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, []string{"a"}, body.Data)
			assert.Equal(t, tt.source, body.Source)
		})
	}
}

func TestSafeError(t *testing.T) {
	tests := []struct {
		name    string
		code    int
		err     error
		wantMsg string
	}{
		{"validation message passes", http.StatusBadRequest, errors.New("limit must be a positive integer"), "limit must be a positive integer"},
		{"not found passes", http.StatusNotFound, errors.New("article not found"), "article not found"},
		{"unknown client error is generic", http.StatusBadRequest, errors.New("pq: syntax error"), "bad request"},
		{"server error hidden", http.StatusInternalServerError, errors.New("invalid password for postgres://u:p@db"), "internal server error"},
		{"bad gateway hidden", http.StatusBadGateway, errors.New("not found upstream"), "internal server error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			SafeError(rec, tt.code, tt.err)
			assert.Equal(t, tt.code, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMsg, body["error"])
		})
	}
}

func TestSafeError_NilError(t *testing.T) {
	rec := httptest.NewRecorder()
	SafeError(rec, http.StatusBadRequest, nil)
	assert.Empty(t, rec.Body.String())
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"bearer", errors.New("request with Authorization: Bearer abc.DEF-123 failed"), "request with Authorization: Bearer **** failed"},
		{"query token", errors.New(`GET https://cdn.example.com/entries?access_token=secret&limit=5`), "GET https://cdn.example.com/entries?access_token=****&limit=5"},
		{"dsn", errors.New("dial postgres://app:hunter2@db:5432/content"), "dial postgres://app:****@db:5432/content"},
		{"redis", errors.New("redis://:s3cret@cache:6379 refused"), "redis://:****@cache:6379 refused"},
		{"plain", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeError(tt.err))
		})
	}
}
