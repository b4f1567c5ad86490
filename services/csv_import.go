package services

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log"
	"sportsmeet-backend/models"
	"strings"

	"gorm.io/gorm"
)

type ImportService struct {
	db *gorm.DB
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db}
}

// RowError — отказ по одной строке файла
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// ImportReport — итог массовой загрузки
type ImportReport struct {
	Created int        `json:"created"`
	Updated int        `json:"updated"`
	Errors  []RowError `json:"errors,omitempty"`
}

// Роли, которые можно назначать через загрузку. Всё остальное — STUDENT.
var importableRoles = map[string]bool{
	models.RoleStudent:            true,
	models.RoleStudentCoordinator: true,
	models.RoleFacultyCoordinator: true,
	models.RoleFaculty:            true,
}

// ImportStudents загружает студентов из CSV с колонками
// register_number, full_name, email, department, gender, role.
// Ошибка в строке не прерывает обработку остальных.
func (s *ImportService) ImportStudents(r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"register_number", "full_name", "email", "department"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	report := &ImportReport{}
	line := 1

	for {
		line++
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Errors = append(report.Errors, RowError{Line: line, Reason: err.Error()})
			continue
		}

		if err := s.importRow(row, cols, report); err != nil {
			log.Printf("⚠️ CSV import: line %d skipped: %v", line, err)
			report.Errors = append(report.Errors, RowError{Line: line, Reason: err.Error()})
		}
	}

	log.Printf("✅ CSV import finished: %d created, %d updated, %d errors",
		report.Created, report.Updated, len(report.Errors))
	return report, nil
}

func (s *ImportService) importRow(row []string, cols map[string]int, report *ImportReport) error {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	registerNumber := get("register_number")
	if registerNumber == "" {
		return fmt.Errorf("register_number is empty")
	}
	fullName := get("full_name")
	email := get("email")
	if email == "" {
		return fmt.Errorf("email is empty")
	}

	// Факультет создаётся при первом упоминании
	var department models.Department
	if err := s.db.Where("name = ?", get("department")).
		FirstOrCreate(&department, models.Department{Name: get("department")}).Error; err != nil {
		return fmt.Errorf("failed to resolve department: %w", err)
	}

	// Пол: всё, кроме MALE/FEMALE, считается неуказанным
	var gender *string
	if g := strings.ToUpper(get("gender")); g == models.GenderMale || g == models.GenderFemale {
		gender = &g
	}

	// Роль: по умолчанию STUDENT, админа через CSV не назначить
	role := strings.ToUpper(get("role"))
	if !importableRoles[role] {
		role = models.RoleStudent
	}

	var user models.User
	err := s.db.Where("register_number = ?", registerNumber).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		user = models.User{
			Email:          email,
			FullName:       fullName,
			RegisterNumber: &registerNumber,
			DepartmentID:   &department.ID,
			Role:           role,
			Gender:         gender,
			IsActive:       true,
		}
		if cerr := s.db.Create(&user).Error; cerr != nil {
			return fmt.Errorf("failed to create user: %w", cerr)
		}
		report.Created++
		return nil
	}
	if err != nil {
		return err
	}

	// Существующему пользователю дозаполняем пол, если он не был указан
	if user.Gender == nil && gender != nil {
		if uerr := s.db.Model(&user).Update("gender", gender).Error; uerr != nil {
			return fmt.Errorf("failed to update gender: %w", uerr)
		}
		report.Updated++
	}
	return nil
}
