package services

import (
	"sportsmeet-backend/models"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportStudents(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	input := strings.Join([]string{
		"register_number,full_name,email,department,gender,role",
		"R001,Ivan Petrov,ivan@example.com,CS,MALE,STUDENT",
		"R002,Anna Sidorova,anna@example.com,CS,FEMALE,",
		"R003,Pavel Orlov,pavel@example.com,Math,unknown,ADMIN",
	}, "\n")

	report, err := svc.ImportStudents(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 3, report.Created)
	assert.Equal(t, 0, report.Updated)
	assert.Empty(t, report.Errors)

	// Факультеты созданы при первом упоминании
	var deptCount int64
	db.Model(&models.Department{}).Count(&deptCount)
	assert.EqualValues(t, 2, deptCount)

	// Неизвестный пол отброшен, роль ADMIN понижена до STUDENT
	var pavel models.User
	require.NoError(t, db.Where("register_number = ?", "R003").First(&pavel).Error)
	assert.Nil(t, pavel.Gender)
	assert.Equal(t, models.RoleStudent, pavel.Role)

	var anna models.User
	require.NoError(t, db.Where("register_number = ?", "R002").First(&anna).Error)
	require.NotNil(t, anna.Gender)
	assert.Equal(t, models.GenderFemale, *anna.Gender)
	assert.Equal(t, models.RoleStudent, anna.Role)
}

func TestImportStudentsMissingColumn(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	_, err := svc.ImportStudents(strings.NewReader("register_number,full_name,email\nR001,Ivan,i@example.com"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "department")
}

// Ошибка в строке не прерывает обработку остальных
func TestImportStudentsBestEffort(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	input := strings.Join([]string{
		"register_number,full_name,email,department",
		",No Number,x@example.com,CS",
		"R002,No Email,,CS",
		"R003,Valid Student,valid@example.com,CS",
	}, "\n")

	report, err := svc.ImportStudents(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Created)
	require.Len(t, report.Errors, 2)
	assert.Equal(t, 2, report.Errors[0].Line)
	assert.Equal(t, 3, report.Errors[1].Line)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

// Повторная загрузка дозаполняет пол существующим пользователям
func TestImportStudentsGenderBackfill(t *testing.T) {
	db := newTestDB(t)
	svc := NewImportService(db)

	header := "register_number,full_name,email,department,gender\n"
	_, err := svc.ImportStudents(strings.NewReader(header + "R001,Ivan Petrov,ivan@example.com,CS,"))
	require.NoError(t, err)

	report, err := svc.ImportStudents(strings.NewReader(header + "R001,Ivan Petrov,ivan@example.com,CS,MALE"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Created)
	assert.Equal(t, 1, report.Updated)

	var user models.User
	require.NoError(t, db.Where("register_number = ?", "R001").First(&user).Error)
	require.NotNil(t, user.Gender)
	assert.Equal(t, models.GenderMale, *user.Gender)

	// Уже указанный пол повторно не трогается
	report, err = svc.ImportStudents(strings.NewReader(header + "R001,Ivan Petrov,ivan@example.com,CS,FEMALE"))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Updated)
	require.NoError(t, db.Where("register_number = ?", "R001").First(&user).Error)
	assert.Equal(t, models.GenderMale, *user.Gender)
}
