package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"portfolio-content/internal/handler/http/respond"
)

type ctxKey string

const ctxSubject ctxKey = "subject"

var (
	errMissingToken = errors.New("missing bearer token")
	errInvalidToken = errors.New("invalid token")
)

// SubjectFromContext returns the operator authenticated by Guard.
func SubjectFromContext(ctx context.Context) string {
	s, _ := ctx.Value(ctxSubject).(string)
	return s
}

// Guard requires a valid operator token on every request. With no secret
// configured it passes requests through unchanged.
func Guard(cfg Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !cfg.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sub, role, err := validateJWT(r.Header.Get("Authorization"), cfg.Secret, time.Now())
			recordCheckDuration(time.Since(start))
			if err != nil {
				recordAuthResult("unauthorized")
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}
			if role != RoleOperator {
				recordAuthResult("forbidden")
				respond.SafeError(w, http.StatusForbidden, errors.New("forbidden"))
				return
			}
			recordAuthResult("success")
			ctx := context.WithValue(r.Context(), ctxSubject, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateJWT(authz string, secret []byte, now time.Time) (string, string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", "", errMissingToken
	}
	tok, err := jwt.Parse(strings.TrimPrefix(authz, prefix), func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return now }), jwt.WithExpirationRequired())
	if err != nil || !tok.Valid {
		return "", "", errInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", errInvalidToken
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", "", errors.New("invalid sub claim")
	}
	role, ok := claims["role"].(string)
	if !ok {
		return "", "", errors.New("invalid role claim")
	}
	return sub, role, nil
}
