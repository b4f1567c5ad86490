package models

type PaginatedResponse struct {
	Meta  Meta        `json:"meta"`
	Items interface{} `json:"items"`
}

type Meta struct {
	TotalItems     int `json:"total_items"`
	TotalPages     int `json:"total_pages"`
	CurrentPage    int `json:"current_page"`
	PerPage        int `json:"per_page"`
	RemainingCount int `json:"remaining_count"`
}

// All возвращает модели в порядке миграции: сначала независимые таблицы
func All() []interface{} {
	return []interface{}{
		&Department{},
		&User{},
		&Meet{},
		&Event{},
		&MeetEvent{},
		&Team{},
		&TeamMember{},
		&Registration{},
	}
}
