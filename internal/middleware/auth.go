package middleware

import (
	"context"
	"net/http"
	"strings"

	"SafeShare/internal/auth"
)

type contextKey string

const claimsContextKey contextKey = "claims"

// WithAuth разбирает заголовок Authorization: Bearer и кладёт claims в
// контекст запроса. Отсутствующий или невалидный токен оставляет запрос
// анонимным — требование аутентификации проверяет хендлер.
func WithAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
				if claims, err := auth.ParseToken(secret, token); err == nil {
					ctx := context.WithValue(r.Context(), claimsContextKey, claims)
					r = r.WithContext(ctx)
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaimsFromContext возвращает claims аутентифицированного субъекта.
func GetClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*auth.Claims)
	return claims, ok
}
