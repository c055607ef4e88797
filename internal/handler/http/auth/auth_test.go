package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte(strings.Repeat("k", MinSecretLength))

func testConfig() Config {
	return Config{Secret: testSecret, TTL: time.Hour}
}

func guarded(cfg Config) http.Handler {
	return Guard(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(SubjectFromContext(r.Context())))
	}))
}

func call(h http.Handler, authz string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/telemetry/dashboard", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestGuard_ValidOperatorToken(t *testing.T) {
	token, err := IssueToken(testConfig(), "ops@example.com", time.Now())
	require.NoError(t, err)

	before := testutil.ToFloat64(authChecksTotal.WithLabelValues("success"))
	rec := call(guarded(testConfig()), "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ops@example.com", rec.Body.String())
	assert.Equal(t, before+1, testutil.ToFloat64(authChecksTotal.WithLabelValues("success")))
}

func TestGuard_Rejections(t *testing.T) {
	expired, err := IssueToken(testConfig(), "ops", time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	otherKey := testConfig()
	otherKey.Secret = []byte(strings.Repeat("x", MinSecretLength))
	forged, err := IssueToken(otherKey, "ops", time.Now())
	require.NoError(t, err)

	viewer, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "viewer", "role": "viewer", "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "ops", "role": RoleOperator,
	}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		authz string
		want  int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"wrong key", "Bearer " + forged, http.StatusUnauthorized},
		{"no expiry", "Bearer " + noExp, http.StatusUnauthorized},
		{"wrong role", "Bearer " + viewer, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, call(guarded(testConfig()), tt.authz).Code)
		})
	}
}

func TestGuard_RejectsOtherAlgorithms(t *testing.T) {
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub": "ops", "role": RoleOperator, "exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(testSecret)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, call(guarded(testConfig()), "Bearer "+tok).Code)
}

func TestGuard_DisabledWithoutSecret(t *testing.T) {
	rec := call(guarded(Config{TTL: time.Hour}), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIssueToken_Errors(t *testing.T) {
	_, err := IssueToken(Config{TTL: time.Hour}, "ops", time.Now())
	assert.Error(t, err)

	_, err = IssueToken(Config{Secret: []byte("short"), TTL: time.Hour}, "ops", time.Now())
	assert.ErrorIs(t, err, ErrWeakSecret)

	_, err = IssueToken(testConfig(), "", time.Now())
	assert.Error(t, err)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("TELEMETRY_JWT_SECRET", "")
	t.Setenv("TELEMETRY_JWT_TTL", "")
	cfg := LoadConfigFromEnv()
	assert.False(t, cfg.Enabled())
	assert.Equal(t, 12*time.Hour, cfg.TTL)
	assert.NoError(t, cfg.Validate())

	t.Setenv("TELEMETRY_JWT_SECRET", "too-short")
	t.Setenv("TELEMETRY_JWT_TTL", "30m")
	cfg = LoadConfigFromEnv()
	assert.Equal(t, 30*time.Minute, cfg.TTL)
	assert.ErrorIs(t, cfg.Validate(), ErrWeakSecret)
}
