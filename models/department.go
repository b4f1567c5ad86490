package models

import (
	"time"

	"gorm.io/gorm"
)

type Department struct {
	ID                   uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Name                 string         `json:"name" gorm:"unique;not null;size:255"`
	FacultyCoordinatorID *uint          `json:"faculty_coordinator_id,omitempty" gorm:"unique"`
	StudentCoordinatorID *uint          `json:"student_coordinator_id,omitempty" gorm:"unique"`
	FacultyCoordinator   *User          `json:"faculty_coordinator,omitempty" gorm:"foreignKey:FacultyCoordinatorID"`
	StudentCoordinator   *User          `json:"student_coordinator,omitempty" gorm:"foreignKey:StudentCoordinatorID"`
	CreatedAt            time.Time      `json:"created_at"`
	UpdatedAt            time.Time      `json:"updated_at"`
	DeletedAt            gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Department) TableName() string {
	return "departments"
}
