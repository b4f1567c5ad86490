package models

import "time"

// Team — команда в рамках одного MeetEvent. Имя уникально внутри события.
type Team struct {
	ID          uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	MeetEventID uint      `json:"meet_event_id" gorm:"not null;uniqueIndex:idx_team_name"`
	Name        string    `json:"name" gorm:"not null;size:255;uniqueIndex:idx_team_name"`
	MeetEvent   MeetEvent `json:"meet_event,omitempty" gorm:"foreignKey:MeetEventID"`
	CreatedByID uint      `json:"created_by_id"`
	CreatedBy   *User     `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "teams"
}

// TeamMember — членство студента в команде. Пара (team, user) уникальна,
// капитан в команде не более одного.
type TeamMember struct {
	ID        uint      `json:"id" gorm:"primaryKey;autoIncrement"`
	TeamID    uint      `json:"team_id" gorm:"not null;uniqueIndex:idx_team_member"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_team_member"`
	Team      Team      `json:"team,omitempty" gorm:"foreignKey:TeamID"`
	User      *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	IsCaptain bool      `json:"is_captain"`
	CreatedAt time.Time `json:"created_at"`
}

func (TeamMember) TableName() string {
	return "team_members"
}
