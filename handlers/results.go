package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"
	"sportsmeet-backend/reports"
	"sportsmeet-backend/services"

	"gorm.io/gorm"
)

type ResultsHandler struct {
	db       *gorm.DB
	svc      *services.ResultsService
	reporter *reports.Reporter
}

func NewResultsHandler(db *gorm.DB, reporter *reports.Reporter) *ResultsHandler {
	return &ResultsHandler{
		db:       db,
		svc:      services.NewResultsService(db),
		reporter: reporter,
	}
}

type setPositionRequest struct {
	// Отрицательное значение очищает результат
	Position int `json:"position"`
}

func (h *ResultsHandler) SetPosition(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceResult, rbac.ActionUpdate) {
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

	var req setPositionRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	reg, serr := h.svc.SetPosition(meetEventID, studentID, req.Position)
	if serr != nil {
		apperrors.Write(w, serr)
		return
	}

	log.Printf("✅ Position for student %d in meet event %d set to %d by %s",
		studentID, meetEventID, req.Position, claims.Email)
	writeJSON(w, http.StatusOK, reg)
}

func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceResult, rbac.ActionRead) {
		return
	}

	meetEventID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	results, rerr := h.reporter.Results(meetEventID)
	if rerr != nil {
		log.Printf("❌ Error fetching results: %v", rerr)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, results)
}

// ExportResultsPDF отдаёт итоговую таблицу события PDF-файлом
func (h *ResultsHandler) ExportResultsPDF(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceReport, rbac.ActionRead) {
		return
	}

	meetEventID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var me models.MeetEvent
	if err := h.db.Preload("Meet").Preload("Event").First(&me, meetEventID).Error; err != nil {
		apperrors.Write(w, apperrors.NotFound("meet event %d not found", meetEventID))
		return
	}

	results, rerr := h.reporter.Results(meetEventID)
	if rerr != nil {
		log.Printf("❌ Error fetching results: %v", rerr)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	title := fmt.Sprintf("%s - %s: Results", me.Meet.Name, me.Event.Name)
	pdfBytes, perr := reports.ResultsPDF(title, results)
	if perr != nil {
		log.Printf("❌ Error rendering PDF: %v", perr)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="results_%d.pdf"`, meetEventID))
	w.Write(pdfBytes)
}
