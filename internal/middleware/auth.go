package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"

	domainerrors "moodjournal/internal/errors"
	"moodjournal/internal/models"
)

type scopeKey struct{}

type AuthMiddleware struct {
	jwtSecret []byte
}

func NewAuthMiddleware(secret []byte) *AuthMiddleware {
	return &AuthMiddleware{jwtSecret: secret}
}

// Identify resolves the caller's scope. Requests without a bearer token use
// the anonymous scope; a token that is present but invalid is rejected.
func (m *AuthMiddleware) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" {
			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), models.Anonymous)))
			return
		}
		if !strings.HasPrefix(authz, "Bearer ") {
			unauthorized(w, "invalid authorization header")
			return
		}
		tokenStr := strings.TrimPrefix(authz, "Bearer ")
		token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			unauthorized(w, "invalid token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			unauthorized(w, "invalid claims")
			return
		}
		userID, ok := subject(claims)
		if !ok {
			unauthorized(w, "invalid subject")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), models.UserScope(userID))))
	})
}

// subject accepts both string subjects and the numeric ids older tokens carry.
func subject(claims jwt.MapClaims) (string, bool) {
	switch sub := claims["sub"].(type) {
	case string:
		return sub, sub != ""
	case float64:
		if sub != float64(int64(sub)) {
			return "", false
		}
		return strconv.FormatInt(int64(sub), 10), true
	}
	return "", false
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(domainerrors.Unauthorized(msg))
}

func WithScope(ctx context.Context, scope models.Scope) context.Context {
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFrom returns the scope stored by Identify, or the anonymous scope.
func ScopeFrom(ctx context.Context) models.Scope {
	if s, ok := ctx.Value(scopeKey{}).(models.Scope); ok {
		return s
	}
	return models.Anonymous
}
