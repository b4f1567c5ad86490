package services

import (
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSuccess(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	meet := seedMeet(t, db, "Annual2024", models.MeetStatusActive)
	event := seedEvent(t, db, "100m", models.EventTypeIndividual, models.EventStatusActive)
	me := seedMeetEvent(t, db, meet, event, true, false)
	student := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))

	reg, err := svc.Register(me.ID, student.ID, RegisterOptions{})
	require.NoError(t, err)
	require.NotNil(t, reg)
	assert.Equal(t, me.ID, reg.MeetEventID)
	assert.Equal(t, student.ID, reg.ParticipantID)

	var count int64
	db.Model(&models.Registration{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRegisterPreconditions(t *testing.T) {
	tests := []struct {
		name      string
		meetSt    string
		eventType string
		eventSt   string
		meActive  bool
		boys      bool
		girls     bool
		gender    *string
		wantErr   string
	}{
		{
			name:   "team event rejected",
			meetSt: models.MeetStatusActive, eventType: models.EventTypeTeam,
			eventSt: models.EventStatusActive, meActive: true,
			boys: true, girls: true, gender: strPtr(models.GenderMale),
			wantErr: "through teams",
		},
		{
			name:   "draft meet rejected",
			meetSt: models.MeetStatusDraft, eventType: models.EventTypeIndividual,
			eventSt: models.EventStatusActive, meActive: true,
			boys: true, girls: true, gender: strPtr(models.GenderMale),
			wantErr: "is not active",
		},
		{
			name:   "completed meet rejected",
			meetSt: models.MeetStatusCompleted, eventType: models.EventTypeIndividual,
			eventSt: models.EventStatusActive, meActive: true,
			boys: true, girls: true, gender: strPtr(models.GenderMale),
			wantErr: "is not active",
		},
		{
			name:   "inactive event rejected",
			meetSt: models.MeetStatusActive, eventType: models.EventTypeIndividual,
			eventSt: models.EventStatusInactive, meActive: true,
			boys: true, girls: true, gender: strPtr(models.GenderMale),
			wantErr: "is not active",
		},
		{
			name:   "deactivated meet event rejected",
			meetSt: models.MeetStatusActive, eventType: models.EventTypeIndividual,
			eventSt: models.EventStatusActive, meActive: false,
			boys: true, girls: true, gender: strPtr(models.GenderMale),
			wantErr: "is not active",
		},
		{
			name:   "gender mismatch rejected",
			meetSt: models.MeetStatusActive, eventType: models.EventTypeIndividual,
			eventSt: models.EventStatusActive, meActive: true,
			boys: true, girls: false, gender: strPtr(models.GenderFemale),
			wantErr: "not open for this gender",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			svc := NewRegistrationService(db)

			meet := seedMeet(t, db, "Meet", tt.meetSt)
			event := seedEvent(t, db, "Event", tt.eventType, tt.eventSt)
			me := seedMeetEvent(t, db, meet, event, tt.boys, tt.girls)
			if !tt.meActive {
				require.NoError(t, db.Model(&me).Update("is_active", false).Error)
			}
			student := seedStudent(t, db, "s@example.com", tt.gender)

			_, err := svc.Register(me.ID, student.ID, RegisterOptions{})
			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)

			var count int64
			db.Model(&models.Registration{}).Count(&count)
			assert.EqualValues(t, 0, count)
		})
	}
}

// Повторная самостоятельная запись не создаёт второй строки
func TestRegisterIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	meet := seedMeet(t, db, "Meet", models.MeetStatusActive)
	event := seedEvent(t, db, "100m", models.EventTypeIndividual, models.EventStatusActive)
	me := seedMeetEvent(t, db, meet, event, true, true)
	student := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))

	first, err := svc.Register(me.ID, student.ID, RegisterOptions{})
	require.NoError(t, err)

	second, err := svc.Register(me.ID, student.ID, RegisterOptions{})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Registration{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

// В строгом режиме (запись персоналом) дубликат — ошибка
func TestRegisterStrictDuplicate(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	meet := seedMeet(t, db, "Meet", models.MeetStatusActive)
	event := seedEvent(t, db, "100m", models.EventTypeIndividual, models.EventStatusActive)
	me := seedMeetEvent(t, db, meet, event, true, true)
	student := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)

	_, err := svc.Register(me.ID, student.ID, RegisterOptions{Strict: true, RegisteredBy: &staff.ID})
	require.NoError(t, err)

	_, err = svc.Register(me.ID, student.ID, RegisterOptions{Strict: true, RegisteredBy: &staff.ID})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegisterNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	_, err := svc.Register(999, 999, RegisterOptions{})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

// Сценарий: юноша проходит, девушка отклоняется, после завершения
// соревнования не проходит никто
func TestRegisterScenarioAnnual2024(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	meet := seedMeet(t, db, "Annual2024", models.MeetStatusActive)
	sprint := seedEvent(t, db, "100m", models.EventTypeIndividual, models.EventStatusActive)
	longJump := seedEvent(t, db, "Long Jump", models.EventTypeIndividual, models.EventStatusActive)
	meSprint := seedMeetEvent(t, db, meet, sprint, true, false)
	meJump := seedMeetEvent(t, db, meet, longJump, true, false)

	s1 := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))
	s2 := seedStudent(t, db, "s2@example.com", strPtr(models.GenderFemale))

	_, err := svc.Register(meSprint.ID, s1.ID, RegisterOptions{})
	require.NoError(t, err)

	_, err = svc.Register(meSprint.ID, s2.ID, RegisterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not open for this gender")

	require.NoError(t, db.Model(&models.Meet{}).Where("id = ?", meet.ID).
		Update("status", models.MeetStatusCompleted).Error)

	_, err = svc.Register(meJump.ID, s1.ID, RegisterOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not active")
}

func TestUnregisterNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	err := svc.Unregister(1, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

// Повторная подача меняет только активное соревнование,
// история других соревнований не трогается
func TestReregisterPreservesOtherMeets(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	active := seedMeet(t, db, "Annual2025", models.MeetStatusActive)
	historical := seedMeet(t, db, "Annual2024", models.MeetStatusCompleted)

	sprint := seedEvent(t, db, "100m", models.EventTypeIndividual, models.EventStatusActive)
	jump := seedEvent(t, db, "Long Jump", models.EventTypeIndividual, models.EventStatusActive)
	relay := seedEvent(t, db, "Relay", models.EventTypeTeam, models.EventStatusActive)

	meSprint := seedMeetEvent(t, db, active, sprint, true, true)
	meJump := seedMeetEvent(t, db, active, jump, true, true)
	meOld := seedMeetEvent(t, db, historical, sprint, true, true)

	meRelay := seedMeetEvent(t, db, active, relay, true, true)
	require.NoError(t, db.Model(&models.MeetEvent{}).Where("id = ?", meRelay.ID).
		Updates(map[string]interface{}{"min_team_size": 2, "max_team_size": 4}).Error)

	student := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))

	// Исходное состояние: запись на спринт в активном соревновании,
	// историческая запись и членство в команде активного соревнования
	require.NoError(t, db.Create(&models.Registration{
		MeetEventID: meSprint.ID, ParticipantID: student.ID,
	}).Error)
	require.NoError(t, db.Create(&models.Registration{
		MeetEventID: meOld.ID, ParticipantID: student.ID, Position: intPtr(2),
	}).Error)

	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)
	team := models.Team{MeetEventID: meRelay.ID, Name: "Alpha", CreatedByID: staff.ID}
	require.NoError(t, db.Create(&team).Error)
	require.NoError(t, db.Create(&models.TeamMember{TeamID: team.ID, UserID: student.ID}).Error)

	newDept := models.Department{Name: "Physics"}
	require.NoError(t, db.Create(&newDept).Error)

	result, err := svc.Reregister(active.ID, student.ID, []uint{meJump.ID}, &ProfileUpdate{
		DepartmentID: &newDept.ID,
		Semester:     intPtr(4),
	})
	require.NoError(t, err)
	assert.Equal(t, []uint{meJump.ID}, result.Applied)
	assert.Empty(t, result.Failed)

	// Старый выбор активного соревнования удалён, новый применён
	var activeRegs []models.Registration
	db.Where("meet_event_id IN ?", []uint{meSprint.ID, meJump.ID}).Find(&activeRegs)
	require.Len(t, activeRegs, 1)
	assert.Equal(t, meJump.ID, activeRegs[0].MeetEventID)

	// Историческая запись не тронута
	var oldReg models.Registration
	require.NoError(t, db.Where("meet_event_id = ?", meOld.ID).First(&oldReg).Error)
	require.NotNil(t, oldReg.Position)
	assert.Equal(t, 2, *oldReg.Position)

	// Командное участие активного соревнования снято
	var memberCount int64
	db.Model(&models.TeamMember{}).Where("user_id = ?", student.ID).Count(&memberCount)
	assert.EqualValues(t, 0, memberCount)

	// Анкета обновлена в той же транзакции
	var updated models.User
	require.NoError(t, db.First(&updated, student.ID).Error)
	require.NotNil(t, updated.DepartmentID)
	assert.Equal(t, newDept.ID, *updated.DepartmentID)
	require.NotNil(t, updated.Semester)
	assert.Equal(t, 4, *updated.Semester)
}

// Отказ по одному событию не отменяет успешные из того же пакета
func TestReregisterBestEffort(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	active := seedMeet(t, db, "Annual2025", models.MeetStatusActive)
	other := seedMeet(t, db, "Other", models.MeetStatusActive)

	sprint := seedEvent(t, db, "100m", models.EventTypeIndividual, models.EventStatusActive)
	girlsOnly := seedEvent(t, db, "400m", models.EventTypeIndividual, models.EventStatusActive)

	meSprint := seedMeetEvent(t, db, active, sprint, true, true)
	meGirls := seedMeetEvent(t, db, active, girlsOnly, false, true)
	meOther := seedMeetEvent(t, db, other, sprint, true, true)

	student := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))

	result, err := svc.Reregister(active.ID, student.ID,
		[]uint{meSprint.ID, meGirls.ID, meOther.ID, 999}, nil)
	require.NoError(t, err)

	assert.Equal(t, []uint{meSprint.ID}, result.Applied)
	assert.Contains(t, result.Failed[meGirls.ID], "not open for this gender")
	assert.Contains(t, result.Failed[meOther.ID], "another meet")
	assert.Contains(t, result.Failed[999], "not found")

	var count int64
	db.Model(&models.Registration{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReregisterInactiveMeet(t *testing.T) {
	db := newTestDB(t)
	svc := NewRegistrationService(db)

	meet := seedMeet(t, db, "Draft", models.MeetStatusDraft)
	student := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))

	_, err := svc.Reregister(meet.ID, student.ID, nil, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
