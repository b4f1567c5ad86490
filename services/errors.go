package services

import (
	"errors"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockForUpdate блокирует выбираемые строки до конца транзакции.
// SQLite не знает FOR UPDATE, но и так сериализует писателей,
// поэтому блокировку просим только у Postgres.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// isUniqueViolation распознаёт нарушение уникального индекса.
// Postgres отдаёт код 23505, sqlite в тестах — текст "UNIQUE constraint failed".
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
