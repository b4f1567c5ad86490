package handlers

import (
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"

	"gorm.io/gorm"
)

type EventHandler struct {
	db *gorm.DB
}

func NewEventHandler(db *gorm.DB) *EventHandler {
	return &EventHandler{db: db}
}

func (h *EventHandler) GetEvents(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceEvent, rbac.ActionRead) {
		return
	}

	query := h.db.Model(&models.Event{})
	if status := r.URL.Query().Get("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if eventType := r.URL.Query().Get("event_type"); eventType != "" {
		query = query.Where("event_type = ?", eventType)
	}

	var events []models.Event
	if err := query.Order("name ASC").Find(&events).Error; err != nil {
		log.Printf("❌ Error fetching events: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

type eventRequest struct {
	Name      string `json:"name" validate:"required"`
	Category  string `json:"category" validate:"required,oneof=TRACK FIELD OTHER"`
	EventType string `json:"event_type" validate:"required,oneof=INDIVIDUAL TEAM"`
	Status    string `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
}

// CreateEvent — глобальное определение дисциплины (только администратор)
func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceEvent, rbac.ActionCreate) {
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	event := models.Event{
		Name:      req.Name,
		Category:  req.Category,
		EventType: req.EventType,
		Status:    req.Status,
	}
	if event.Status == "" {
		event.Status = models.EventStatusActive
	}

	if err := h.db.Create(&event).Error; err != nil {
		log.Printf("❌ Error creating event: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ Event %q (%s/%s) created by %s", event.Name, event.Category, event.EventType, claims.Email)
	writeJSON(w, http.StatusCreated, event)
}

func (h *EventHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceEvent, rbac.ActionUpdate) {
		return
	}

	id, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var event models.Event
	if err := h.db.First(&event, id).Error; err != nil {
		apperrors.Write(w, apperrors.NotFound("event %d not found", id))
		return
	}

	var req eventRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	event.Name = req.Name
	event.Category = req.Category
	event.EventType = req.EventType
	if req.Status != "" {
		event.Status = req.Status
	}

	if err := h.db.Save(&event).Error; err != nil {
		log.Printf("❌ Error updating event: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, event)
}
