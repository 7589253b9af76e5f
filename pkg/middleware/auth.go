package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/vfg2006/token-sale-api/internal/usecases/authenticating"
)

type contextKey string

const (
	ContextKeyUser contextKey = "user"
)

// isPublicRoute determina as rotas acessíveis sem token. Compras e
// consultas de venda são abertas a qualquer comprador; a administração
// do registro exige o JWT do administrador.
func isPublicRoute(r *http.Request) bool {
	path := r.URL.Path

	if path == "/v1/login" || path == "/healthcheck" {
		return true
	}

	// POST /v1/sales/:id/buy/{stable,native}
	if strings.HasSuffix(path, "/buy/stable") || strings.HasSuffix(path, "/buy/native") {
		return true
	}

	// GET /v1/sales e GET /v1/sales/:id
	if r.Method == http.MethodGet && strings.HasPrefix(path, "/v1/sales") {
		return true
	}

	return false
}

func AuthMiddleware(authService authenticating.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isPublicRoute(r) {
				next.ServeHTTP(w, r)
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Authorization header is required", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				http.Error(w, "Bearer token is required", http.StatusUnauthorized)
				return
			}

			claims, err := authService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Invalid token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeyUser, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
