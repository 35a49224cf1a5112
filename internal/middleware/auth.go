package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/roarinpenguin/jarvis-coding-sub000/pkg/tokens"
)

const SubjectKey = contextKey("subject")

// AuthMiddleware validates control-API bearer tokens. A nil generator
// disables auth entirely (local testing).
type AuthMiddleware struct {
	generator *tokens.TokenGenerator
}

func NewAuthMiddleware(generator *tokens.TokenGenerator) *AuthMiddleware {
	return &AuthMiddleware{generator: generator}
}

func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.generator == nil {
			next.ServeHTTP(w, r)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			http.Error(w, "Invalid authorization header", http.StatusUnauthorized)
			return
		}

		claims, err := m.generator.Validate(parts[1])
		if err != nil {
			http.Error(w, "Invalid or expired token", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), SubjectKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// GetSubject extracts the authenticated subject from the context.
func GetSubject(ctx context.Context) string {
	if sub, ok := ctx.Value(SubjectKey).(string); ok {
		return sub
	}
	return ""
}
