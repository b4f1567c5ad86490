package services

import (
	"fmt"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedTeamMeetEvent(t *testing.T, db *gorm.DB, min, max int, boys, girls bool) models.MeetEvent {
	t.Helper()
	meet := seedMeet(t, db, "Meet", models.MeetStatusActive)
	event := seedEvent(t, db, "Relay", models.EventTypeTeam, models.EventStatusActive)
	me := seedMeetEvent(t, db, meet, event, boys, girls)
	require.NoError(t, db.Model(&models.MeetEvent{}).Where("id = ?", me.ID).
		Updates(map[string]interface{}{"min_team_size": min, "max_team_size": max}).Error)
	me.MinTeamSize = intPtr(min)
	me.MaxTeamSize = intPtr(max)
	return me
}

func TestCreateTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 2, 4, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)

	team, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", team.Name)
	assert.Equal(t, me.ID, team.MeetEventID)
}

func TestCreateTeamValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 2, 4, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)

	_, err := svc.CreateTeam(me.ID, "", staff.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name required")

	// Дубликат имени в рамках одного события
	_, err = svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)
	_, err = svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "already exists")
}

func TestCreateTeamIndividualEvent(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	meet := seedMeet(t, db, "Meet", models.MeetStatusActive)
	event := seedEvent(t, db, "100m", models.EventTypeIndividual, models.EventStatusActive)
	me := seedMeetEvent(t, db, meet, event, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)

	_, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "only for team events")
}

func TestAddMemberCapacity(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 1, 2, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)
	team, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)

	s1 := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))
	s2 := seedStudent(t, db, "s2@example.com", strPtr(models.GenderMale))
	s3 := seedStudent(t, db, "s3@example.com", strPtr(models.GenderMale))

	_, err = svc.AddMember(team.ID, s1.ID)
	require.NoError(t, err)
	_, err = svc.AddMember(team.ID, s2.ID)
	require.NoError(t, err)

	// При count == max добавление отклоняется
	_, err = svc.AddMember(team.ID, s3.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "is full")

	// После освобождения места тот же студент проходит
	require.NoError(t, svc.RemoveMember(team.ID, s2.ID))
	_, err = svc.AddMember(team.ID, s3.ID)
	require.NoError(t, err)
}

// Два одновременных претендента на последнее место: проходит ровно один
func TestAddMemberConcurrentLastSlot(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 1, 1, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)
	team, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)

	s1 := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))
	s2 := seedStudent(t, db, "s2@example.com", strPtr(models.GenderMale))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, userID := range []uint{s1.ID, s2.ID} {
		wg.Add(1)
		go func(i int, userID uint) {
			defer wg.Done()
			_, errs[i] = svc.AddMember(team.ID, userID)
		}(i, userID)
	}
	wg.Wait()

	var count int64
	db.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperrors.IsValidation(err))
		assert.Contains(t, err.Error(), "is full")
	}
	assert.Equal(t, 1, succeeded)
}

func TestAddMemberIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 1, 2, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)
	team, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)

	s1 := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))

	first, err := svc.AddMember(team.ID, s1.ID)
	require.NoError(t, err)
	second, err := svc.AddMember(team.ID, s1.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.TeamMember{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAddMemberChecks(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 1, 4, true, false)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)
	team, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)

	// Персонал не может быть участником команды
	_, err = svc.AddMember(team.ID, staff.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "only students")

	// Девушка в событие только для юношей
	girl := seedStudent(t, db, "g@example.com", strPtr(models.GenderFemale))
	_, err = svc.AddMember(team.ID, girl.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not open for this gender")

	_, err = svc.AddMember(999, girl.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRemoveMemberNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	err := svc.RemoveMember(1, 1)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

// У команды всегда не больше одного капитана: назначение нового
// снимает флаг с прежнего в той же транзакции
func TestSetCaptain(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 1, 4, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)
	team, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)

	s1 := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))
	s2 := seedStudent(t, db, "s2@example.com", strPtr(models.GenderMale))
	m1, err := svc.AddMember(team.ID, s1.ID)
	require.NoError(t, err)
	m2, err := svc.AddMember(team.ID, s2.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SetCaptain(team.ID, m1.ID))
	require.NoError(t, svc.SetCaptain(team.ID, m2.ID))

	var captains []models.TeamMember
	db.Where("team_id = ? AND is_captain = ?", team.ID, true).Find(&captains)
	require.Len(t, captains, 1)
	assert.Equal(t, m2.ID, captains[0].ID)
}

func TestSetCaptainForeignMember(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 1, 4, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)
	alpha, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)
	beta, err := svc.CreateTeam(me.ID, "Beta", staff.ID)
	require.NoError(t, err)

	s1 := seedStudent(t, db, "s1@example.com", strPtr(models.GenderMale))
	m1, err := svc.AddMember(alpha.ID, s1.ID)
	require.NoError(t, err)

	// Член чужой команды не назначается капитаном
	err = svc.SetCaptain(beta.ID, m1.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestValidateTeam(t *testing.T) {
	db := newTestDB(t)
	svc := NewTeamService(db)

	me := seedTeamMeetEvent(t, db, 2, 4, true, true)
	staff := seedStaff(t, db, "coord@example.com", models.RoleFacultyCoordinator)
	team, err := svc.CreateTeam(me.ID, "Alpha", staff.ID)
	require.NoError(t, err)

	err = svc.ValidateTeam(team.ID)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.Contains(t, err.Error(), "minimum is 2")

	for i := 0; i < 2; i++ {
		s := seedStudent(t, db, fmt.Sprintf("s%d@example.com", i), strPtr(models.GenderMale))
		_, err = svc.AddMember(team.ID, s.ID)
		require.NoError(t, err)
	}

	assert.NoError(t, svc.ValidateTeam(team.ID))
}
