package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/auth"
	"sportsmeet-backend/middleware"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("❌ Error encoding response: %v", err)
	}
}

// decodeJSON читает тело запроса, разбирает JSON и прогоняет validator-теги
func decodeJSON(r *http.Request, dst interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return apperrors.Validation("cannot read request body")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apperrors.Validation("invalid JSON: %v", err)
	}
	if err := validate.Struct(dst); err != nil {
		return apperrors.Validation("validation failed: %v", err)
	}
	return nil
}

// requireClaims достаёт claims из контекста; без них запрос анонимный
func requireClaims(w http.ResponseWriter, r *http.Request) *auth.JWTClaims {
	claims := middleware.GetUserClaims(r.Context())
	if claims == nil {
		http.Error(w, `{"error": "Not authenticated"}`, http.StatusUnauthorized)
		return nil
	}
	return claims
}

// guard проверяет политику доступа и сам пишет 403 при отказе
func guard(w http.ResponseWriter, claims *auth.JWTClaims, resource, action string) bool {
	if err := rbac.Can(claims.Role, resource, action); err != nil {
		log.Printf("❌ User %s (role: %s) denied: %s %s", claims.Email, claims.Role, action, resource)
		apperrors.Write(w, err)
		return false
	}
	return true
}

func parseUintVar(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return uint(id), nil
}

// Параметры пагинации в стиле ?page=&limit=
func parsePagination(r *http.Request) (page, limit, offset int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	offset = (page - 1) * limit
	return page, limit, offset
}

func buildMeta(totalItems int64, page, limit int) models.Meta {
	totalPages := (int(totalItems) + limit - 1) / limit
	remainingCount := int(totalItems) - (page * limit)
	if remainingCount < 0 {
		remainingCount = 0
	}
	return models.Meta{
		TotalItems:     int(totalItems),
		TotalPages:     totalPages,
		CurrentPage:    page,
		PerPage:        limit,
		RemainingCount: remainingCount,
	}
}
