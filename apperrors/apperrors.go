package apperrors

import (
	"errors"
	"fmt"
	"log"
	"net/http"
)

// Классификация ошибок приложения.
// ValidationError — нарушенное бизнес-правило, возвращается пользователю.
// AuthorizationError — запрет по роли или факультету.
// NotFoundError — обращение к несуществующей сущности.

type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string {
	return e.Msg
}

type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func Forbidden(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

func NotFound(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsForbidden(err error) bool {
	var ae *AuthorizationError
	return errors.As(err, &ae)
}

func IsNotFound(err error) bool {
	var ne *NotFoundError
	return errors.As(err, &ne)
}

// Write переводит ошибку в HTTP-ответ. Ошибки валидации и доступа —
// ожидаемый исход, сервер из-за них не падает и не отдаёт 500.
func Write(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")

	var ve *ValidationError
	var ae *AuthorizationError
	var ne *NotFoundError

	switch {
	case errors.As(err, &ve):
		http.Error(w, fmt.Sprintf(`{"error": %q}`, ve.Msg), http.StatusUnprocessableEntity)
	case errors.As(err, &ae):
		http.Error(w, fmt.Sprintf(`{"error": %q}`, ae.Msg), http.StatusForbidden)
	case errors.As(err, &ne):
		http.Error(w, fmt.Sprintf(`{"error": %q}`, ne.Msg), http.StatusNotFound)
	default:
		log.Printf("❌ Internal error: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
	}
}
