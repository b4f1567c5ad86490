package reports

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Reporter строит отчётные выборки сырым SQL поверх sqlx: объединение
// индивидуальных регистраций и командных участий в табличные списки дешевле
// и нагляднее, чем сборка через ORM.
type Reporter struct {
	db *sqlx.DB
}

func NewReporter(db *sqlx.DB) *Reporter {
	return &Reporter{db: db}
}

// Participant — строка отчёта по событию
type Participant struct {
	UserID         uint    `db:"user_id" json:"user_id"`
	FullName       string  `db:"full_name" json:"full_name"`
	RegisterNumber *string `db:"register_number" json:"register_number,omitempty"`
	Department     *string `db:"department" json:"department,omitempty"`
	Gender         *string `db:"gender" json:"gender,omitempty"`
	Position       *int    `db:"position" json:"position,omitempty"`
	Source         string  `db:"source" json:"source"`
	TeamName       *string `db:"team_name" json:"team_name,omitempty"`
}

// EffectiveParticipants объединяет оба пути участия в событии:
// индивидуальные регистрации и членство в командах. Отчёты и проверки
// "участвует ли" смотрят на эту выборку, а не на одну из таблиц.
func (r *Reporter) EffectiveParticipants(meetEventID uint, genderFilter string) ([]Participant, error) {
	base := `
	SELECT u.id AS user_id, u.full_name, u.register_number, d.name AS department,
	       u.gender, reg.position, 'registration' AS source, NULL AS team_name
	FROM registrations reg
	JOIN users u ON u.id = reg.participant_id AND u.deleted_at IS NULL
	LEFT JOIN departments d ON d.id = u.department_id AND d.deleted_at IS NULL
	WHERE reg.meet_event_id = ?
	UNION ALL
	SELECT u.id AS user_id, u.full_name, u.register_number, d.name AS department,
	       u.gender, NULL AS position, 'team' AS source, t.name AS team_name
	FROM team_members tm
	JOIN teams t ON t.id = tm.team_id
	JOIN users u ON u.id = tm.user_id AND u.deleted_at IS NULL
	LEFT JOIN departments d ON d.id = u.department_id AND d.deleted_at IS NULL
	WHERE t.meet_event_id = ?`

	query := base + `
	ORDER BY full_name`
	args := []interface{}{meetEventID, meetEventID}

	if genderFilter != "" {
		query = `SELECT * FROM (` + base + `
	) p WHERE p.gender = ? ORDER BY p.full_name`
		args = append(args, genderFilter)
	}

	var rows []Participant
	if err := r.db.Select(&rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to query participants: %w", err)
	}
	return rows, nil
}

// Results — участники события с зафиксированными местами, по возрастанию места
func (r *Reporter) Results(meetEventID uint) ([]Participant, error) {
	query := `
	SELECT u.id AS user_id, u.full_name, u.register_number, d.name AS department,
	       u.gender, reg.position, 'registration' AS source, NULL AS team_name
	FROM registrations reg
	JOIN users u ON u.id = reg.participant_id AND u.deleted_at IS NULL
	LEFT JOIN departments d ON d.id = u.department_id AND d.deleted_at IS NULL
	WHERE reg.meet_event_id = ? AND reg.position IS NOT NULL
	ORDER BY reg.position ASC, u.full_name ASC`

	var rows []Participant
	if err := r.db.Select(&rows, r.db.Rebind(query), meetEventID); err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	return rows, nil
}
