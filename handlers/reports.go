package handlers

import (
	"fmt"
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"
	"sportsmeet-backend/reports"

	"gorm.io/gorm"
)

type ReportHandler struct {
	db       *gorm.DB
	reporter *reports.Reporter
}

func NewReportHandler(db *gorm.DB, reporter *reports.Reporter) *ReportHandler {
	return &ReportHandler{db: db, reporter: reporter}
}

// ExportRegistrationsPDF отдаёт список участников события PDF-файлом.
// Параметр gender=boys|girls ограничивает список одним полом.
func (h *ReportHandler) ExportRegistrationsPDF(w http.ResponseWriter, r *http.Request) {
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

	genderFilter := ""
	suffix := ""
	switch r.URL.Query().Get("gender") {
	case "boys":
		genderFilter = models.GenderMale
		suffix = " (Boys)"
	case "girls":
		genderFilter = models.GenderFemale
		suffix = " (Girls)"
	}

	participants, perr := h.reporter.EffectiveParticipants(meetEventID, genderFilter)
	if perr != nil {
		log.Printf("❌ Error fetching participants: %v", perr)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	title := fmt.Sprintf("%s - %s: Registered Students%s", me.Meet.Name, me.Event.Name, suffix)
	pdfBytes, perr := reports.RegistrationsPDF(title, participants)
	if perr != nil {
		log.Printf("❌ Error rendering PDF: %v", perr)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="registrations_%d.pdf"`, meetEventID))
	w.Write(pdfBytes)
}
