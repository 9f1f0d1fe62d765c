package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pliu/aichat/internal/auth"
	"github.com/rs/zerolog"
)

type contextKey string

const claimsKey contextKey = "claims"

// Auth requires a bearer token. A missing or malformed header is 401, a token
// that fails verification is 403.
func Auth(issuer *auth.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				deny(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}

			claims, err := issuer.Parse(strings.TrimSpace(token))
			if err != nil {
				msg := "Invalid token."
				if errors.Is(err, auth.ErrTokenExpired) {
					msg = "Token expired."
				}
				zerolog.Ctx(r.Context()).Debug().Err(err).Msg("rejected bearer token")
				deny(w, http.StatusForbidden, msg)
				return
			}

			ctx := WithClaims(r.Context(), claims)
			l := zerolog.Ctx(ctx).With().Str("user_id", claims.UserID).Logger()
			next.ServeHTTP(w, r.WithContext(l.WithContext(ctx)))
		})
	}
}

// WithClaims attaches claims to ctx.
func WithClaims(ctx context.Context, c *auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// UserID returns the authenticated user's id, or "" outside Auth.
func UserID(ctx context.Context) string {
	if c, ok := ClaimsFrom(ctx); ok {
		return c.UserID
	}
	return ""
}

func deny(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
