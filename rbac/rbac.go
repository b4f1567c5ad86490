package rbac

import (
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
)

// Ресурсы
const (
	ResourceStudent      = "student"
	ResourceDepartment   = "department"
	ResourceMeet         = "meet"
	ResourceEvent        = "event"
	ResourceMeetEvent    = "meet_event"
	ResourceRegistration = "registration"
	ResourceTeam         = "team"
	ResourceResult       = "result"
	ResourceReport       = "report"
)

// Действия
const (
	ActionRead   = "read"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

type rule struct {
	role     string
	resource string
	action   string
}

// Явная таблица политик (роль, ресурс, действие) вместо цепочек
// сравнений роли в каждом обработчике. Администратор не перечисляется:
// ему разрешено всё.
var policy = map[rule]bool{
	// Факультетский координатор: студенты, регистрации, команды,
	// результаты и отчёты своего факультета + назначение событий соревнованию
	{models.RoleFacultyCoordinator, ResourceStudent, ActionRead}:        true,
	{models.RoleFacultyCoordinator, ResourceStudent, ActionCreate}:      true,
	{models.RoleFacultyCoordinator, ResourceStudent, ActionUpdate}:      true,
	{models.RoleFacultyCoordinator, ResourceMeet, ActionRead}:           true,
	{models.RoleFacultyCoordinator, ResourceEvent, ActionRead}:          true,
	{models.RoleFacultyCoordinator, ResourceMeetEvent, ActionRead}:      true,
	{models.RoleFacultyCoordinator, ResourceMeetEvent, ActionCreate}:    true,
	{models.RoleFacultyCoordinator, ResourceMeetEvent, ActionUpdate}:    true,
	{models.RoleFacultyCoordinator, ResourceRegistration, ActionRead}:   true,
	{models.RoleFacultyCoordinator, ResourceRegistration, ActionCreate}: true,
	{models.RoleFacultyCoordinator, ResourceRegistration, ActionDelete}: true,
	{models.RoleFacultyCoordinator, ResourceTeam, ActionRead}:           true,
	{models.RoleFacultyCoordinator, ResourceTeam, ActionCreate}:         true,
	{models.RoleFacultyCoordinator, ResourceTeam, ActionUpdate}:         true,
	{models.RoleFacultyCoordinator, ResourceTeam, ActionDelete}:         true,
	{models.RoleFacultyCoordinator, ResourceResult, ActionRead}:         true,
	{models.RoleFacultyCoordinator, ResourceResult, ActionUpdate}:       true,
	{models.RoleFacultyCoordinator, ResourceReport, ActionRead}:         true,

	// Студенческий координатор: как факультетский, но без управления
	// командами и назначения событий
	{models.RoleStudentCoordinator, ResourceStudent, ActionRead}:        true,
	{models.RoleStudentCoordinator, ResourceStudent, ActionCreate}:      true,
	{models.RoleStudentCoordinator, ResourceStudent, ActionUpdate}:      true,
	{models.RoleStudentCoordinator, ResourceMeet, ActionRead}:           true,
	{models.RoleStudentCoordinator, ResourceEvent, ActionRead}:          true,
	{models.RoleStudentCoordinator, ResourceMeetEvent, ActionRead}:      true,
	{models.RoleStudentCoordinator, ResourceRegistration, ActionRead}:   true,
	{models.RoleStudentCoordinator, ResourceRegistration, ActionCreate}: true,
	{models.RoleStudentCoordinator, ResourceRegistration, ActionDelete}: true,
	{models.RoleStudentCoordinator, ResourceTeam, ActionRead}:           true,
	{models.RoleStudentCoordinator, ResourceResult, ActionRead}:         true,
	{models.RoleStudentCoordinator, ResourceResult, ActionUpdate}:       true,
	{models.RoleStudentCoordinator, ResourceReport, ActionRead}:         true,

	// Преподаватель: только чтение, без привязки к факультету
	{models.RoleFaculty, ResourceStudent, ActionRead}:      true,
	{models.RoleFaculty, ResourceMeet, ActionRead}:         true,
	{models.RoleFaculty, ResourceEvent, ActionRead}:        true,
	{models.RoleFaculty, ResourceMeetEvent, ActionRead}:    true,
	{models.RoleFaculty, ResourceRegistration, ActionRead}: true,
	{models.RoleFaculty, ResourceTeam, ActionRead}:         true,
	{models.RoleFaculty, ResourceResult, ActionRead}:       true,
	{models.RoleFaculty, ResourceReport, ActionRead}:       true,

	// Студент: самостоятельная запись на события и просмотр каталога.
	// Ограничение "только от своего имени" проверяется в обработчиках.
	{models.RoleStudent, ResourceMeet, ActionRead}:           true,
	{models.RoleStudent, ResourceEvent, ActionRead}:          true,
	{models.RoleStudent, ResourceMeetEvent, ActionRead}:      true,
	{models.RoleStudent, ResourceRegistration, ActionRead}:   true,
	{models.RoleStudent, ResourceRegistration, ActionCreate}: true,
	{models.RoleStudent, ResourceRegistration, ActionDelete}: true,
	{models.RoleStudent, ResourceTeam, ActionRead}:           true,
}

// Can проверяет, разрешено ли роли действие над ресурсом.
// Запрет возвращается как AuthorizationError, а не как пустая выборка.
func Can(role, resource, action string) error {
	if role == models.RoleAdmin {
		return nil
	}
	if policy[rule{role, resource, action}] {
		return nil
	}
	return apperrors.Forbidden("role %s is not allowed to %s %s", role, action, resource)
}

// DepartmentScope — факультет, которым ограничен координатор.
// nil означает отсутствие ограничения (админ, преподаватель).
func DepartmentScope(role string, departmentID *uint) *uint {
	if role == models.RoleFacultyCoordinator || role == models.RoleStudentCoordinator {
		return departmentID
	}
	return nil
}
