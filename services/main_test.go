package services

import (
	"fmt"
	"sportsmeet-backend/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB — отдельная in-memory база на каждый тест
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// SQLite не умеет FOR UPDATE; один коннект в пуле сериализует
	// конкурентные транзакции так же, как это делает блокировка строки
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

func intPtr(v int) *int {
	return &v
}

func strPtr(v string) *string {
	return &v
}

func seedMeet(t *testing.T, db *gorm.DB, name, status string) models.Meet {
	t.Helper()
	meet := models.Meet{Name: name, Status: status}
	require.NoError(t, db.Create(&meet).Error)
	return meet
}

func seedEvent(t *testing.T, db *gorm.DB, name, eventType, status string) models.Event {
	t.Helper()
	event := models.Event{
		Name:      name,
		Category:  models.EventCategoryTrack,
		EventType: eventType,
		Status:    status,
	}
	require.NoError(t, db.Create(&event).Error)
	return event
}

func seedMeetEvent(t *testing.T, db *gorm.DB, meet models.Meet, event models.Event, boys, girls bool) models.MeetEvent {
	t.Helper()
	me := models.MeetEvent{
		MeetID:      meet.ID,
		EventID:     event.ID,
		IsActive:    true,
		GenderBoys:  boys,
		GenderGirls: girls,
	}
	require.NoError(t, db.Create(&me).Error)
	return me
}

func seedStudent(t *testing.T, db *gorm.DB, email string, gender *string) models.User {
	t.Helper()
	user := models.User{
		Email:    email,
		FullName: email,
		Role:     models.RoleStudent,
		Gender:   gender,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedStaff(t *testing.T, db *gorm.DB, email, role string) models.User {
	t.Helper()
	user := models.User{
		Email:    email,
		FullName: email,
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}
