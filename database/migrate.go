package database

import (
	"fmt"
	"log"
	"sportsmeet-backend/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	log.Println("🔄 Starting database migration...")

	// Создаем таблицы с использованием GORM AutoMigrate
	// В правильном порядке: сначала независимые таблицы, потом зависимые
	for _, table := range models.All() {
		if err := db.AutoMigrate(table); err != nil {
			log.Printf("❌ Error migrating table %T: %v", table, err)
			return err
		}
		log.Printf("✅ Created/Updated table for: %T", table)
	}

	// Создаем индексы вручную (если нужно)
	createIndexes(db)

	// Заполняем начальными данными
	if err := seedInitialData(db); err != nil {
		log.Printf("⚠️ Error seeding initial data: %v", err)
	}

	log.Println("✅ Database migration completed successfully!")
	return nil
}

func createIndexes(db *gorm.DB) {
	log.Println("📊 Creating indexes...")

	// Индексы для таблицы users
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_role ON users(role)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_department_id ON users(department_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_users_full_name ON users(full_name)")

	// Индексы для выборок по соревнованию
	db.Exec("CREATE INDEX IF NOT EXISTS idx_meet_events_meet_id ON meet_events(meet_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_registrations_participant_id ON registrations(participant_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_team_members_user_id ON team_members(user_id)")
	db.Exec("CREATE INDEX IF NOT EXISTS idx_teams_meet_event_id ON teams(meet_event_id)")

	log.Println("✅ Indexes created successfully!")
}

func seedInitialData(db *gorm.DB) error {
	log.Println("🌱 Seeding initial data...")

	// Проверяем, есть ли уже данные
	var userCount int64
	db.Model(&models.User{}).Count(&userCount)

	if userCount > 0 {
		log.Println("✅ Database already has data, skipping seed")
		return nil
	}

	// Хешируем пароль для админа
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	// Создаем администратора
	admin := models.User{
		Email:    "admin@example.com",
		Password: string(hashedPassword),
		FullName: "Administrator",
		Role:     models.RoleAdmin,
		IsActive: true,
	}

	if err := db.Create(&admin).Error; err != nil {
		log.Printf("❌ Error creating admin user: %v", err)
		return err
	}

	log.Printf("✅ Created admin user: %s (password: admin123)", admin.Email)
	return nil
}
