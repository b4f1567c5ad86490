package database

import (
	"fmt"
	"log"
	"sportsmeet-backend/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // драйвер PostgreSQL для sqlx-пути
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB открывает соединение через GORM. Внешние ключи создаём сами
// в миграции: между users и departments циклическая ссылка.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting SQL DB: %w", err)
	}

	// Проверяем подключение
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	log.Println("✅ Successfully connected to PostgreSQL!")
	return db, nil
}

// WrapSQLX оборачивает соединение GORM в sqlx для отчётных запросов
// с сырым SQL (объединение регистраций и командных участий).
func WrapSQLX(db *gorm.DB, driverName string) (*sqlx.DB, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error getting SQL DB: %w", err)
	}
	return sqlx.NewDb(sqlDB, driverName), nil
}
