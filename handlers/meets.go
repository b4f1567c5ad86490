package handlers

import (
	"errors"
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"
	"time"

	"gorm.io/gorm"
)

type MeetHandler struct {
	db *gorm.DB
}

func NewMeetHandler(db *gorm.DB) *MeetHandler {
	return &MeetHandler{db: db}
}

func (h *MeetHandler) GetMeets(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceMeet, rbac.ActionRead) {
		return
	}

	query := h.db.Model(&models.Meet{})
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var meets []models.Meet
	if err := query.Order("id DESC").Find(&meets).Error; err != nil {
		log.Printf("❌ Error fetching meets: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, meets)
}

type meetRequest struct {
	Name      string `json:"name" validate:"required"`
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Status    string `json:"status" validate:"omitempty,oneof=DRAFT ACTIVE COMPLETED"`
}

func (h *MeetHandler) CreateMeet(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceMeet, rbac.ActionCreate) {
		return
	}

	var req meetRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	if endDate.Before(startDate) {
		apperrors.Write(w, apperrors.Validation("end_date is before start_date"))
		return
	}

	meet := models.Meet{
		Name:      req.Name,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    req.Status,
	}
	if meet.Status == "" {
		meet.Status = models.MeetStatusDraft
	}

	if err := h.db.Create(&meet).Error; err != nil {
		log.Printf("❌ Error creating meet: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Meet %q created by %s (status: %s)", meet.Name, claims.Email, meet.Status)
	writeJSON(w, http.StatusCreated, meet)
}

func (h *MeetHandler) UpdateMeet(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceMeet, rbac.ActionUpdate) {
		return
	}

	id, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var meet models.Meet
	if err := h.db.First(&meet, id).Error; err != nil {
		apperrors.Write(w, apperrors.NotFound("meet %d not found", id))
		return
	}

	var req meetRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	startDate, _ := time.Parse("2006-01-02", req.StartDate)
	endDate, _ := time.Parse("2006-01-02", req.EndDate)
	if endDate.Before(startDate) {
		apperrors.Write(w, apperrors.Validation("end_date is before start_date"))
		return
	}

	meet.Name = req.Name
	meet.StartDate = startDate
	meet.EndDate = endDate
	if req.Status != "" {
		meet.Status = req.Status
	}

	if err := h.db.Save(&meet).Error; err != nil {
		log.Printf("❌ Error updating meet: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Meet %q updated by %s (status: %s)", meet.Name, claims.Email, meet.Status)
	writeJSON(w, http.StatusOK, meet)
}

type assignEventRequest struct {
	EventID     uint `json:"event_id" validate:"required"`
	GenderBoys  bool `json:"gender_boys"`
	GenderGirls bool `json:"gender_girls"`
	MinTeamSize *int `json:"min_team_size,omitempty"`
	MaxTeamSize *int `json:"max_team_size,omitempty"`
}

type assignEventsRequest struct {
	// Пустой список допустим: он деактивирует все события соревнования
	Events []assignEventRequest `json:"events" validate:"dive"`
}

// AssignEvents активирует набор событий для соревнования с параметрами
// допуска. События соревнования, не вошедшие в список, деактивируются,
// но не удаляются: их регистрации остаются в истории.
func (h *MeetHandler) AssignEvents(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceMeetEvent, rbac.ActionUpdate) {
		return
	}

	meetID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var meet models.Meet
	if err := h.db.First(&meet, meetID).Error; err != nil {
		apperrors.Write(w, apperrors.NotFound("meet %d not found", meetID))
		return
	}

	var req assignEventsRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		selected := make([]uint, 0, len(req.Events))

		for _, item := range req.Events {
			var event models.Event
			if err := tx.First(&event, item.EventID).Error; err != nil {
				return apperrors.NotFound("event %d not found", item.EventID)
			}
			if event.Status != models.EventStatusActive {
				return apperrors.Validation("event %q is not active", event.Name)
			}
			if !item.GenderBoys && !item.GenderGirls {
				return apperrors.Validation("select at least one gender for %q", event.Name)
			}

			minSize, maxSize := item.MinTeamSize, item.MaxTeamSize
			if event.EventType == models.EventTypeTeam {
				if minSize == nil || maxSize == nil {
					return apperrors.Validation("set team strength for %q", event.Name)
				}
				if *minSize < 1 || *minSize > *maxSize {
					return apperrors.Validation("invalid team size bounds for %q", event.Name)
				}
			} else {
				// Для индивидуальных событий размеры команды не имеют смысла
				minSize, maxSize = nil, nil
			}

			var me models.MeetEvent
			ferr := tx.Where("meet_id = ? AND event_id = ?", meetID, item.EventID).First(&me).Error
			if ferr != nil {
				if !errors.Is(ferr, gorm.ErrRecordNotFound) {
					return ferr
				}
				me = models.MeetEvent{MeetID: meetID, EventID: item.EventID}
			}

			me.GenderBoys = item.GenderBoys
			me.GenderGirls = item.GenderGirls
			me.MinTeamSize = minSize
			me.MaxTeamSize = maxSize
			me.IsActive = true

			if err := tx.Save(&me).Error; err != nil {
				return err
			}
			selected = append(selected, item.EventID)
		}

		// Деактивируем невыбранные события соревнования
		deactivate := tx.Model(&models.MeetEvent{}).Where("meet_id = ?", meetID)
		if len(selected) > 0 {
			deactivate = deactivate.Where("event_id NOT IN ?", selected)
		}
		return deactivate.Update("is_active", false).Error
	})
	if err != nil {
		apperrors.Write(w, err)
		return
	}

	log.Printf("✅ Meet %d events assigned by %s (%d selected)", meetID, claims.Email, len(req.Events))
	h.listMeetEvents(w, meetID)
}

// GetMeetEvents — события соревнования с их параметрами допуска
func (h *MeetHandler) GetMeetEvents(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceMeetEvent, rbac.ActionRead) {
		return
	}

	meetID, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	h.listMeetEvents(w, meetID)
}

func (h *MeetHandler) listMeetEvents(w http.ResponseWriter, meetID uint) {
	var meetEvents []models.MeetEvent
	if err := h.db.Preload("Event").Where("meet_id = ?", meetID).
		Order("id ASC").Find(&meetEvents).Error; err != nil {
		log.Printf("❌ Error fetching meet events: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, meetEvents)
}
