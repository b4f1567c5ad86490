package handlers

import (
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"
	"sportsmeet-backend/reports"
	"sportsmeet-backend/services"

	"gorm.io/gorm"
)

type RegistrationHandler struct {
	db       *gorm.DB
	svc      *services.RegistrationService
	reporter *reports.Reporter
}

func NewRegistrationHandler(db *gorm.DB, reporter *reports.Reporter) *RegistrationHandler {
	return &RegistrationHandler{
		db:       db,
		svc:      services.NewRegistrationService(db),
		reporter: reporter,
	}
}

// SelfRegister — студент записывает сам себя. Повторная запись идемпотентна.
func (h *RegistrationHandler) SelfRegister(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if claims.Role != models.RoleStudent {
		apperrors.Write(w, apperrors.Forbidden("only students can self-register"))
		return
	}

	meetEventID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	reg, rerr := h.svc.Register(meetEventID, claims.UserID, services.RegisterOptions{})
	if rerr != nil {
		apperrors.Write(w, rerr)
		return
	}

	log.Printf("✅ Student %s registered for meet event %d", claims.Email, meetEventID)
	writeJSON(w, http.StatusCreated, reg)
}

type staffRegisterRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

// StaffRegister — персонал записывает студента. Дубликат здесь — ошибка,
// координатор ограничен студентами своего факультета.
func (h *RegistrationHandler) StaffRegister(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceRegistration, rbac.ActionCreate) {
		return
	}
	if claims.Role == models.RoleStudent {
		apperrors.Write(w, apperrors.Forbidden("students register through the self-service endpoint"))
		return
	}

	meetEventID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var req staffRegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	if err := h.checkDepartmentScope(claims.Role, claims.DepartmentID, req.StudentID); err != nil {
		apperrors.Write(w, err)
		return
	}

	registeredBy := claims.UserID
	reg, rerr := h.svc.Register(meetEventID, req.StudentID, services.RegisterOptions{
		Strict:       true,
		RegisteredBy: &registeredBy,
	})
	if rerr != nil {
		apperrors.Write(w, rerr)
		return
	}

	log.Printf("✅ Student %d registered for meet event %d by %s", req.StudentID, meetEventID, claims.Email)
	writeJSON(w, http.StatusCreated, reg)
}

// Unregister снимает участника с события. Студент может снять только себя.
func (h *RegistrationHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceRegistration, rbac.ActionDelete) {
		return
	}

	meetEventID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}
	studentID, err := parseUintVar(r, "userID")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	if claims.Role == models.RoleStudent && studentID != claims.UserID {
		apperrors.Write(w, apperrors.Forbidden("students can only unregister themselves"))
		return
	}
	if err := h.checkDepartmentScope(claims.Role, claims.DepartmentID, studentID); err != nil {
		apperrors.Write(w, err)
		return
	}

	if err := h.svc.Unregister(meetEventID, studentID); err != nil {
		apperrors.Write(w, err)
		return
	}

	log.Printf("✅ Registration removed: meet event %d, student %d (by %s)", meetEventID, studentID, claims.Email)
	w.WriteHeader(http.StatusNoContent)
}

// GetRegistrations — список участников события: индивидуальные регистрации
// вместе с командными участиями
func (h *RegistrationHandler) GetRegistrations(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceRegistration, rbac.ActionRead) {
		return
	}

	meetEventID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	participants, err := h.reporter.EffectiveParticipants(meetEventID, r.URL.Query().Get("gender"))
	if err != nil {
		log.Printf("❌ Error fetching participants: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, participants)
}

type reregisterRequest struct {
	MeetEventIDs []uint                  `json:"meet_event_ids"`
	Profile      *services.ProfileUpdate `json:"profile,omitempty"`
}

// Reregister — студент пересобирает свой выбор в рамках соревнования.
// Старые записи этого соревнования заменяются новыми атомарно,
// история других соревнований не трогается.
func (h *RegistrationHandler) Reregister(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if claims.Role != models.RoleStudent {
		apperrors.Write(w, apperrors.Forbidden("only students can resubmit their selections"))
		return
	}

	meetID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var req reregisterRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	result, rerr := h.svc.Reregister(meetID, claims.UserID, req.MeetEventIDs, req.Profile)
	if rerr != nil {
		apperrors.Write(w, rerr)
		return
	}

	log.Printf("✅ Student %s re-registered for meet %d: %d applied, %d failed",
		claims.Email, meetID, len(result.Applied), len(result.Failed))
	writeJSON(w, http.StatusOK, result)
}

// checkDepartmentScope: координатор действует только в своём факультете
func (h *RegistrationHandler) checkDepartmentScope(role string, claimsDept *uint, studentID uint) error {
	dept := rbac.DepartmentScope(role, claimsDept)
	if dept == nil {
		return nil
	}

	var student models.User
	if err := h.db.First(&student, studentID).Error; err != nil {
		return apperrors.NotFound("student %d not found", studentID)
	}
	if student.DepartmentID == nil || *student.DepartmentID != *dept {
		return apperrors.Forbidden("student belongs to another department")
	}
	return nil
}
