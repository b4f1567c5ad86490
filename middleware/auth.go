package middleware

import (
	"context"
	"log"
	"net/http"
	"sportsmeet-backend/auth"
	"strings"
)

type AuthMiddleware struct {
	jwtService *auth.JWTService
}

func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Публичные маршруты, не требующие токена
var publicRoutes = []string{
	"/",
	"/health",
	"/api/auth/login",
	"/api/auth/register",
}

// IsPublicRoute проверяет, является ли маршрут публичным
func IsPublicRoute(path string) bool {
	for _, route := range publicRoutes {
		if path == route {
			return true
		}
	}
	return strings.HasPrefix(path, "/api/auth/") && path != "/api/auth/me"
}

// AuthMiddleware проверяет JWT токен
func (am *AuthMiddleware) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsPublicRoute(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		// Извлекаем токен из заголовка
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			log.Printf("❌ No authorization header for %s %s", r.Method, r.URL.Path)
			http.Error(w, `{"error": "Authorization header required"}`, http.StatusUnauthorized)
			return
		}

		// Проверяем формат заголовка
		bearerToken := strings.Split(authHeader, " ")
		if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
			log.Printf("❌ Invalid authorization format for %s %s", r.Method, r.URL.Path)
			http.Error(w, `{"error": "Invalid authorization format"}`, http.StatusUnauthorized)
			return
		}

		token := bearerToken[1]

		// Валидируем токен
		claims, err := am.jwtService.ValidateToken(token)
		if err != nil {
			log.Printf("❌ Invalid token for %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, `{"error": "Invalid or expired token"}`, http.StatusUnauthorized)
			return
		}

		// Добавляем claims в контекст запроса
		ctx := r.Context()
		ctx = SetUserClaims(ctx, claims)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

// Вспомогательные функции для работы с контекстом
type contextKey string

const (
	userClaimsKey contextKey = "userClaims"
)

// SetUserClaims добавляет claims пользователя в контекст
func SetUserClaims(ctx context.Context, claims *auth.JWTClaims) context.Context {
	return context.WithValue(ctx, userClaimsKey, claims)
}

// GetUserClaims извлекает claims пользователя из контекста
func GetUserClaims(ctx context.Context) *auth.JWTClaims {
	if claims, ok := ctx.Value(userClaimsKey).(*auth.JWTClaims); ok {
		return claims
	}
	return nil
}
