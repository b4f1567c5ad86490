package models

import "time"

// MeetEvent — активация события в рамках конкретного соревнования.
// Несёт свои параметры допуска (пол, размеры команд), чтобы одно событие
// могло переиспользоваться в разных соревнованиях с разными правилами.
// Жёстко не удаляется: вместо удаления снимается флаг is_active.
type MeetEvent struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetID      uint      `json:"meet_id" gorm:"not null;uniqueIndex:idx_meet_event"`
	EventID     uint      `json:"event_id" gorm:"not null;uniqueIndex:idx_meet_event"`
	Meet        Meet      `json:"meet,omitempty" gorm:"foreignKey:MeetID"`
	Event       Event     `json:"event,omitempty" gorm:"foreignKey:EventID"`
	// Выставляется явно при создании, см. User.IsActive
	IsActive    bool      `json:"is_active"`
	GenderBoys  bool      `json:"gender_boys"`
	GenderGirls bool      `json:"gender_girls"`
	MinTeamSize *int      `json:"min_team_size,omitempty"`
	MaxTeamSize *int      `json:"max_team_size,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (MeetEvent) TableName() string {
	return "meet_events"
}

// AllowsGender — открыт ли допуск для указанного пола.
// Пустой пол не блокируем: проверка применима только к известному значению.
func (me *MeetEvent) AllowsGender(gender *string) bool {
	if gender == nil {
		return true
	}
	switch *gender {
	case GenderMale:
		return me.GenderBoys
	case GenderFemale:
		return me.GenderGirls
	}
	return true
}
