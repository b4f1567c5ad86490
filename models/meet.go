package models

import (
	"time"

	"gorm.io/gorm"
)

// Статусы соревнования
const (
	MeetStatusDraft     = "DRAFT"
	MeetStatusActive    = "ACTIVE"
	MeetStatusCompleted = "COMPLETED"
)

// Meet — спортивное соревнование. Регистрации принимаются только в статусе ACTIVE.
type Meet struct {
	ID        uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name      string         `json:"name" gorm:"not null;size:255"`
	StartDate time.Time      `json:"start_date" gorm:"type:date;not null"`
	EndDate   time.Time      `json:"end_date" gorm:"type:date;not null"`
	Status    string         `json:"status" gorm:"not null;size:16;default:DRAFT"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Meet) TableName() string {
	return "meets"
}

func IsValidMeetStatus(s string) bool {
	return s == MeetStatusDraft || s == MeetStatusActive || s == MeetStatusCompleted
}
