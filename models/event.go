package models

import (
	"time"

	"gorm.io/gorm"
)

// Категории событий
const (
	EventCategoryTrack = "TRACK"
	EventCategoryField = "FIELD"
	EventCategoryOther = "OTHER"
)

// Типы событий
const (
	EventTypeIndividual = "INDIVIDUAL"
	EventTypeTeam       = "TEAM"
)

// Статусы событий
const (
	EventStatusActive   = "ACTIVE"
	EventStatusInactive = "INACTIVE"
)

// Event — глобальное определение дисциплины. Параметры участия
// (пол, размеры команд) задаются на уровне MeetEvent для каждого соревнования.
type Event struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string         `json:"name" gorm:"not null;size:255"`
	Category  string         `json:"category" gorm:"not null;size:16;default:OTHER"`
	EventType string         `json:"event_type" gorm:"not null;size:16;default:INDIVIDUAL"`
	Status    string         `json:"status" gorm:"not null;size:16;default:ACTIVE"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Event) TableName() string {
	return "events"
}

func IsValidEventCategory(s string) bool {
	return s == EventCategoryTrack || s == EventCategoryField || s == EventCategoryOther
}

func IsValidEventType(s string) bool {
	return s == EventTypeIndividual || s == EventTypeTeam
}
