package services

import (
	"errors"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"

	"gorm.io/gorm"
)

type ResultsService struct {
	db *gorm.DB
}

func NewResultsService(db *gorm.DB) *ResultsService {
	return &ResultsService{db: db}
}

// SetPosition фиксирует место участника в индивидуальном событии.
// Отрицательное значение очищает результат — так персонал убирает
// ошибочно проставленное место. Повторный вызов перезаписывает.
// Уникальность мест не требуется: разделённые места допустимы.
func (s *ResultsService) SetPosition(meetEventID, participantID uint, position int) (*models.Registration, error) {
	var me models.MeetEvent
	if err := s.db.Preload("Event").First(&me, meetEventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("meet event %d not found", meetEventID)
		}
		return nil, err
	}

	if me.Event.EventType != models.EventTypeIndividual {
		return nil, apperrors.Validation("positions are recorded only for individual events")
	}

	var participant models.User
	if err := s.db.First(&participant, participantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("participant %d not found", participantID)
		}
		return nil, err
	}

	var reg models.Registration
	err := s.db.Transaction(func(tx *gorm.DB) error {
		// Регистрация создаётся на лету: персонал может внести результат
		// участника, которого не успели записать заранее
		ferr := tx.Where("meet_event_id = ? AND participant_id = ?", meetEventID, participantID).
			First(&reg).Error
		if errors.Is(ferr, gorm.ErrRecordNotFound) {
			reg = models.Registration{
				MeetEventID:   meetEventID,
				ParticipantID: participantID,
			}
			if cerr := tx.Create(&reg).Error; cerr != nil {
				return cerr
			}
		} else if ferr != nil {
			return ferr
		}

		if position < 0 {
			reg.Position = nil
			return tx.Model(&models.Registration{}).Where("id = ?", reg.ID).
				Update("position", nil).Error
		}

		reg.Position = &position
		return tx.Model(&models.Registration{}).Where("id = ?", reg.ID).
			Update("position", position).Error
	})
	if err != nil {
		return nil, err
	}

	return &reg, nil
}
