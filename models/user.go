package models

import (
	"time"

	"gorm.io/gorm"
)

// Роли пользователей
const (
	RoleAdmin              = "ADMIN"
	RoleFacultyCoordinator = "FACULTY_COORDINATOR"
	RoleStudentCoordinator = "STUDENT_COORDINATOR"
	RoleFaculty            = "FACULTY"
	RoleStudent            = "STUDENT"
)

// Пол участника
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

type User struct {
	ID             uint           `json:"id" gorm:"primaryKey;autoIncrement"`
	Email          string         `json:"email" gorm:"unique;not null;size:255"`
	Password       string         `json:"-" gorm:"size:255"`
	FullName       string         `json:"full_name" gorm:"size:255"`
	RegisterNumber *string        `json:"register_number,omitempty" gorm:"unique;size:50"`
	Gender         *string        `json:"gender,omitempty" gorm:"size:10"`
	Role           string         `json:"role" gorm:"not null;size:32;default:STUDENT"`
	DepartmentID   *uint          `json:"department_id,omitempty"`
	Department     *Department    `json:"department,omitempty" gorm:"foreignKey:DepartmentID"`
	Semester       *int           `json:"semester,omitempty"`
	// Без default-тега: GORM не включает нулевое значение в INSERT,
	// и false молча превращался бы в true. Выставляется явно при создании.
	IsActive       bool           `json:"is_active"`
	IsStaff        bool           `json:"is_staff"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

// BeforeSave поддерживает инвариант: is_staff = true для всех ролей, кроме студента
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.IsStaff = u.Role != RoleStudent
	return nil
}

// IsCoordinator — координатор (факультетский или студенческий)
func (u *User) IsCoordinator() bool {
	return u.Role == RoleFacultyCoordinator || u.Role == RoleStudentCoordinator
}

// Запросы для аутентификации
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type RegisterRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	Password       string  `json:"password" validate:"required,min=6"`
	FullName       string  `json:"full_name" validate:"required"`
	RegisterNumber *string `json:"register_number,omitempty"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	DepartmentID   *uint   `json:"department_id,omitempty"`
	Semester       *int    `json:"semester,omitempty"`
}
