package models

import "time"

// Registration — запись участника на индивидуальное событие соревнования.
// Пара (meet_event, participant) уникальна. Position заполняется при подведении
// итогов; NULL — результат не зафиксирован.
type Registration struct {
	ID             uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetEventID    uint      `json:"meet_event_id" gorm:"not null;uniqueIndex:idx_registration"`
	ParticipantID  uint      `json:"participant_id" gorm:"not null;uniqueIndex:idx_registration"`
	MeetEvent      MeetEvent `json:"meet_event,omitempty" gorm:"foreignKey:MeetEventID"`
	Participant    *User     `json:"participant,omitempty" gorm:"foreignKey:ParticipantID"`
	Position       *int      `json:"position,omitempty"`
	RegisteredByID *uint     `json:"registered_by_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Registration) TableName() string {
	return "registrations"
}
