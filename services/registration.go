package services

import (
	"errors"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"

	"gorm.io/gorm"
)

type RegistrationService struct {
	db *gorm.DB
}

func NewRegistrationService(db *gorm.DB) *RegistrationService {
	return &RegistrationService{db: db}
}

type RegisterOptions struct {
	// Strict: дубликат — ошибка. Иначе повторная запись идемпотентна
	// (самостоятельная регистрация студента).
	Strict bool
	// Кто оформил запись, если регистрировал не сам участник
	RegisteredBy *uint
}

// Register записывает участника на индивидуальное событие.
// Проверки идут в фиксированном порядке, останавливаемся на первой нарушенной:
// тип события → статус соревнования → активность события → пол → дубликат.
func (s *RegistrationService) Register(meetEventID, participantID uint, opts RegisterOptions) (*models.Registration, error) {
	return s.register(s.db, meetEventID, participantID, opts)
}

func (s *RegistrationService) register(db *gorm.DB, meetEventID, participantID uint, opts RegisterOptions) (*models.Registration, error) {
	var me models.MeetEvent
	if err := db.Preload("Meet").Preload("Event").First(&me, meetEventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("meet event %d not found", meetEventID)
		}
		return nil, err
	}

	var participant models.User
	if err := db.First(&participant, participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("participant %d not found", participantID)
		}
		return nil, err
	}

	if me.Event.EventType != models.EventTypeIndividual {
		return nil, apperrors.Validation("team events accept participants only through teams")
	}

	if me.Meet.Status != models.MeetStatusActive {
		return nil, apperrors.Validation("meet %q is not active", me.Meet.Name)
	}

	if me.Event.Status != models.EventStatusActive || !me.IsActive {
		return nil, apperrors.Validation("event %q is not active", me.Event.Name)
	}

	if !me.AllowsGender(participant.Gender) {
		return nil, apperrors.Validation("event %q is not open for this gender", me.Event.Name)
	}

	var existing models.Registration
	err := db.Where("meet_event_id = ? AND participant_id = ?", meetEventID, participantID).
		First(&existing).Error
	if err == nil {
		if opts.Strict {
			return nil, apperrors.Validation("participant is already registered for this event")
		}
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	reg := models.Registration{
		MeetEventID:    meetEventID,
		ParticipantID:  participantID,
		RegisteredByID: opts.RegisteredBy,
	}

	if err := db.Create(&reg).Error; err != nil {
		// Гонка двух параллельных запросов упирается в уникальный индекс
		if isUniqueViolation(err) {
			if opts.Strict {
				return nil, apperrors.Validation("participant is already registered for this event")
			}
			if ferr := db.Where("meet_event_id = ? AND participant_id = ?", meetEventID, participantID).
				First(&existing).Error; ferr == nil {
				return &existing, nil
			}
		}
		return nil, err
	}

	return &reg, nil
}

// Unregister снимает участника с события
func (s *RegistrationService) Unregister(meetEventID, participantID uint) error {
	result := s.db.Where("meet_event_id = ? AND participant_id = ?", meetEventID, participantID).
		Delete(&models.Registration{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("registration not found")
	}
	return nil
}

// ProfileUpdate — поля анкеты, которые студент может поменять при
// повторной подаче
type ProfileUpdate struct {
	DepartmentID *uint `json:"department_id,omitempty"`
	Semester     *int  `json:"semester,omitempty"`
}

// ReregistrationResult — итог повторной регистрации: что применилось,
// что отклонено и почему
type ReregistrationResult struct {
	Applied []uint          `json:"applied"`
	Failed  map[uint]string `json:"failed,omitempty"`
}

// Reregister заменяет выбор участника в рамках одного соревнования.
// Старые регистрации и командные участия этого соревнования удаляются,
// новые создаются в той же транзакции. Регистрации других (исторических)
// соревнований не трогаем. Отказ по отдельному событию не откатывает
// уже применённые: участник видит список отклонённых причин.
func (s *RegistrationService) Reregister(meetID, participantID uint, meetEventIDs []uint, profile *ProfileUpdate) (*ReregistrationResult, error) {
	var meet models.Meet
	if err := s.db.First(&meet, meetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("meet %d not found", meetID)
		}
		return nil, err
	}
	if meet.Status != models.MeetStatusActive {
		return nil, apperrors.Validation("meet %q is not active", meet.Name)
	}

	res := &ReregistrationResult{Failed: map[uint]string{}}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if profile != nil {
			updates := map[string]interface{}{}
			if profile.DepartmentID != nil {
				updates["department_id"] = *profile.DepartmentID
			}
			if profile.Semester != nil {
				updates["semester"] = *profile.Semester
			}
			if len(updates) > 0 {
				if err := tx.Model(&models.User{}).Where("id = ?", participantID).
					Updates(updates).Error; err != nil {
					return err
				}
			}
		}

		meSub := tx.Model(&models.MeetEvent{}).Select("id").Where("meet_id = ?", meetID)

		// Чистим только текущее соревнование
		if err := tx.Where("participant_id = ? AND meet_event_id IN (?)", participantID, meSub).
			Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		teamSub := tx.Model(&models.Team{}).Select("id").Where("meet_event_id IN (?)",
			tx.Model(&models.MeetEvent{}).Select("id").Where("meet_id = ?", meetID))
		if err := tx.Where("user_id = ? AND team_id IN (?)", participantID, teamSub).
			Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		// Применяем новый выбор. Отказ по событию фиксируем и идём дальше.
		for _, meID := range meetEventIDs {
			var me models.MeetEvent
			if err := tx.First(&me, meID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					res.Failed[meID] = "meet event not found"
					continue
				}
				return err
			}
			if me.MeetID != meetID {
				res.Failed[meID] = "meet event belongs to another meet"
				continue
			}

			if _, err := s.register(tx, meID, participantID, RegisterOptions{}); err != nil {
				if apperrors.IsValidation(err) || apperrors.IsNotFound(err) {
					res.Failed[meID] = err.Error()
					continue
				}
				return err
			}
			res.Applied = append(res.Applied, meID)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}
