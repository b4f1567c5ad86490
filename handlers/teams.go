package handlers

import (
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"
	"sportsmeet-backend/services"

	"gorm.io/gorm"
)

type TeamHandler struct {
	db  *gorm.DB
	svc *services.TeamService
}

func NewTeamHandler(db *gorm.DB) *TeamHandler {
	return &TeamHandler{
		db:  db,
		svc: services.NewTeamService(db),
	}
}

type createTeamRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *TeamHandler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceTeam, rbac.ActionCreate) {
		return
	}

	meetEventID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var req createTeamRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	team, terr := h.svc.CreateTeam(meetEventID, req.Name, claims.UserID)
	if terr != nil {
		apperrors.Write(w, terr)
		return
	}

	log.Printf("✅ Team %q created for meet event %d by %s", team.Name, meetEventID, claims.Email)
	writeJSON(w, http.StatusCreated, team)
}

func (h *TeamHandler) GetTeams(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceTeam, rbac.ActionRead) {
		return
	}

	meetEventID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var teams []models.Team
	if err := h.db.Where("meet_event_id = ?", meetEventID).Order("name ASC").
		Find(&teams).Error; err != nil {
		log.Printf("❌ Error fetching teams: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, teams)
}

// GetTeamMembers — состав команды
func (h *TeamHandler) GetTeamMembers(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceTeam, rbac.ActionRead) {
		return
	}

	teamID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var members []models.TeamMember
	if err := h.db.Preload("User").Where("team_id = ?", teamID).
		Order("id ASC").Find(&members).Error; err != nil {
		log.Printf("❌ Error fetching team members: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, members)
}

type addMemberRequest struct {
	StudentID uint `json:"student_id" validate:"required"`
}

func (h *TeamHandler) AddMember(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceTeam, rbac.ActionUpdate) {
		return
	}

	teamID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var req addMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	member, merr := h.svc.AddMember(teamID, req.StudentID)
	if merr != nil {
		apperrors.Write(w, merr)
		return
	}

	log.Printf("✅ Student %d added to team %d by %s", req.StudentID, teamID, claims.Email)
	writeJSON(w, http.StatusCreated, member)
}

func (h *TeamHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceTeam, rbac.ActionUpdate) {
		return
	}

	teamID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}
	userID, err := parseUintVar(r, "userID")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	if err := h.svc.RemoveMember(teamID, userID); err != nil {
		apperrors.Write(w, err)
		return
	}

	log.Printf("✅ Student %d removed from team %d by %s", userID, teamID, claims.Email)
	w.WriteHeader(http.StatusNoContent)
}

type setCaptainRequest struct {
	MemberID uint `json:"member_id" validate:"required"`
}

func (h *TeamHandler) SetCaptain(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceTeam, rbac.ActionUpdate) {
		return
	}

	teamID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var req setCaptainRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	if err := h.svc.SetCaptain(teamID, req.MemberID); err != nil {
		apperrors.Write(w, err)
		return
	}

	log.Printf("✅ Captain of team %d set to member %d by %s", teamID, req.MemberID, claims.Email)
	w.WriteHeader(http.StatusNoContent)
}

// ValidateTeam — проверка минимального состава перед финализацией
func (h *TeamHandler) ValidateTeam(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceTeam, rbac.ActionRead) {
		return
	}

	teamID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	if err := h.svc.ValidateTeam(teamID); err != nil {
		apperrors.Write(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"valid": true})
}
