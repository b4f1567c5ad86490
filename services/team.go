package services

import (
	"errors"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"

	"gorm.io/gorm"
)

type TeamService struct {
	db *gorm.DB
}

func NewTeamService(db *gorm.DB) *TeamService {
	return &TeamService{db: db}
}

// CreateTeam создаёт команду для командного события. Имя уникально
// в рамках события.
func (s *TeamService) CreateTeam(meetEventID uint, name string, createdBy uint) (*models.Team, error) {
	if name == "" {
		return nil, apperrors.Validation("team name required")
	}

	var me models.MeetEvent
	if err := s.db.Preload("Meet").Preload("Event").First(&me, meetEventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("meet event %d not found", meetEventID)
		}
		return nil, err
	}

	if me.Event.EventType != models.EventTypeTeam {
		return nil, apperrors.Validation("teams can be created only for team events")
	}
	if !me.IsActive || me.Event.Status != models.EventStatusActive {
		return nil, apperrors.Validation("event %q is not active", me.Event.Name)
	}

	var existing models.Team
	err := s.db.Where("meet_event_id = ? AND name = ?", meetEventID, name).First(&existing).Error
	if err == nil {
		return nil, apperrors.Validation("team %q already exists for this event", name)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	team := models.Team{
		MeetEventID: meetEventID,
		Name:        name,
		CreatedByID: createdBy,
	}
	if err := s.db.Create(&team).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Validation("team %q already exists for this event", name)
		}
		return nil, err
	}

	return &team, nil
}

// AddMember добавляет студента в команду. Проверка вместимости идёт под
// блокировкой строки команды: два параллельных запроса не должны оба
// увидеть свободное место.
func (s *TeamService) AddMember(teamID, userID uint) (*models.TeamMember, error) {
	var member *models.TeamMember

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := lockForUpdate(tx).First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("team %d not found", teamID)
			}
			return err
		}

		var me models.MeetEvent
		if err := tx.Preload("Event").First(&me, team.MeetEventID).Error; err != nil {
			return err
		}

		var student models.User
		if err := tx.First(&student, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("student %d not found", userID)
			}
			return err
		}
		if student.Role != models.RoleStudent {
			return apperrors.Validation("only students can be team members")
		}

		if !me.AllowsGender(student.Gender) {
			return apperrors.Validation("event %q is not open for this gender", me.Event.Name)
		}

		// Уже в команде — возвращаем существующее членство
		var existing models.TeamMember
		err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&existing).Error
		if err == nil {
			member = &existing
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		// Строгая проверка вместимости: при count == max добавление отклоняется
		if me.MaxTeamSize != nil {
			var count int64
			if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", teamID).
				Count(&count).Error; err != nil {
				return err
			}
			if count >= int64(*me.MaxTeamSize) {
				return apperrors.Validation("team %q is full (max %d members)", team.Name, *me.MaxTeamSize)
			}
		}

		tm := models.TeamMember{TeamID: teamID, UserID: userID}
		if err := tx.Create(&tm).Error; err != nil {
			if isUniqueViolation(err) {
				return apperrors.Validation("student is already in this team")
			}
			return err
		}
		member = &tm
		return nil
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

// RemoveMember убирает студента из команды
func (s *TeamService) RemoveMember(teamID, userID uint) error {
	result := s.db.Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("team member not found")
	}
	return nil
}

// SetCaptain назначает капитана. Старый флаг снимается и новый ставится
// в одной транзакции, чтобы снаружи не было видно двух капитанов.
func (s *TeamService) SetCaptain(teamID, memberID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var team models.Team
		if err := lockForUpdate(tx).First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("team %d not found", teamID)
			}
			return err
		}

		var member models.TeamMember
		if err := tx.Where("id = ? AND team_id = ?", memberID, teamID).
			First(&member).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("team member %d not found in team %d", memberID, teamID)
			}
			return err
		}

		if err := tx.Model(&models.TeamMember{}).
			Where("team_id = ? AND is_captain = ?", teamID, true).
			Update("is_captain", false).Error; err != nil {
			return err
		}

		return tx.Model(&models.TeamMember{}).Where("id = ?", memberID).
			Update("is_captain", true).Error
	})
}

// ValidateTeam — проверка при финализации состава: минимальный размер
// достижим только когда команда собрана, поэтому при добавлении по одному
// участнику её не применяем.
func (s *TeamService) ValidateTeam(teamID uint) error {
	var team models.Team
	if err := s.db.First(&team, teamID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("team %d not found", teamID)
		}
		return err
	}

	var me models.MeetEvent
	if err := s.db.First(&me, team.MeetEventID).Error; err != nil {
		return err
	}

	if me.MinTeamSize == nil {
		return nil
	}

	var count int64
	if err := s.db.Model(&models.TeamMember{}).Where("team_id = ?", teamID).
		Count(&count).Error; err != nil {
		return err
	}
	if count < int64(*me.MinTeamSize) {
		return apperrors.Validation("team %q has %d members, minimum is %d", team.Name, count, *me.MinTeamSize)
	}
	return nil
}
