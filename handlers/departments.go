package handlers

import (
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"

	"gorm.io/gorm"
)

type DepartmentHandler struct {
	db *gorm.DB
}

func NewDepartmentHandler(db *gorm.DB) *DepartmentHandler {
	return &DepartmentHandler{db: db}
}

func (h *DepartmentHandler) GetDepartments(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}

	var departments []models.Department
	if err := h.db.Preload("FacultyCoordinator").Preload("StudentCoordinator").
		Order("name ASC").Find(&departments).Error; err != nil {
		log.Printf("❌ Error fetching departments: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, departments)
}

type departmentRequest struct {
	Name                 string `json:"name" validate:"required"`
	FacultyCoordinatorID *uint  `json:"faculty_coordinator_id,omitempty"`
	StudentCoordinatorID *uint  `json:"student_coordinator_id,omitempty"`
}

// CreateDepartment — только администратор
func (h *DepartmentHandler) CreateDepartment(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceDepartment, rbac.ActionCreate) {
		return
	}

	var req departmentRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	department := models.Department{
		Name:                 req.Name,
		FacultyCoordinatorID: req.FacultyCoordinatorID,
		StudentCoordinatorID: req.StudentCoordinatorID,
	}

	if err := h.db.Create(&department).Error; err != nil {
		log.Printf("❌ Error creating department: %v", err)
		http.Error(w, `{"error": "Department already exists"}`, http.StatusConflict)
		return
	}

	log.Printf("✅ Department %q created by %s", department.Name, claims.Email)
	writeJSON(w, http.StatusCreated, department)
}

// UpdateDepartment переименовывает факультет и назначает координаторов.
// Координатор может быть привязан только к одному факультету.
func (h *DepartmentHandler) UpdateDepartment(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceDepartment, rbac.ActionUpdate) {
		return
	}

	id, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var department models.Department
	if err := h.db.First(&department, id).Error; err != nil {
		apperrors.Write(w, apperrors.NotFound("department %d not found", id))
		return
	}

	var req departmentRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	department.Name = req.Name
	department.FacultyCoordinatorID = req.FacultyCoordinatorID
	department.StudentCoordinatorID = req.StudentCoordinatorID

	if err := h.db.Save(&department).Error; err != nil {
		log.Printf("❌ Error updating department: %v", err)
		http.Error(w, `{"error": "Department name or coordinator already in use"}`, http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, department)
}
