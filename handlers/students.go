package handlers

import (
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/models"
	"sportsmeet-backend/rbac"
	"sportsmeet-backend/services"
	"strings"

	"gorm.io/gorm"
)

type StudentHandler struct {
	db        *gorm.DB
	importSvc *services.ImportService
}

func NewStudentHandler(db *gorm.DB) *StudentHandler {
	return &StudentHandler{
		db:        db,
		importSvc: services.NewImportService(db),
	}
}

// GetStudents — список студентов с пагинацией и фильтрами.
// Координатор видит только свой факультет.
func (h *StudentHandler) GetStudents(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceStudent, rbac.ActionRead) {
		return
	}

	page, limit, offset := parsePagination(r)

	query := h.db.Model(&models.User{}).Where("role = ?", models.RoleStudent)

	// Область видимости координатора — его факультет
	if dept := rbac.DepartmentScope(claims.Role, claims.DepartmentID); dept != nil {
		query = query.Where("department_id = ?", *dept)
	}

	// Фильтры по имени / номеру / email
	if name := strings.Trim(r.URL.Query().Get("name"), "*"); name != "" {
		query = query.Where("full_name ILIKE ?", "%"+name+"%")
	}
	if regNo := strings.Trim(r.URL.Query().Get("register_number"), "*"); regNo != "" {
		query = query.Where("register_number ILIKE ?", "%"+regNo+"%")
	}
	if email := strings.Trim(r.URL.Query().Get("email"), "*"); email != "" {
		query = query.Where("email ILIKE ?", "%"+email+"%")
	}

	var totalItems int64
	if err := query.Count(&totalItems).Error; err != nil {
		log.Printf("❌ Error counting students: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	var students []models.User
	if err := query.Preload("Department").Order("id ASC").
		Offset(offset).Limit(limit).Find(&students).Error; err != nil {
		log.Printf("❌ Error fetching students: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, models.PaginatedResponse{
		Meta:  buildMeta(totalItems, page, limit),
		Items: students,
	})
}

// GetStudent — карточка одного студента
func (h *StudentHandler) GetStudent(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceStudent, rbac.ActionRead) {
		return
	}

	id, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var student models.User
	if err := h.db.Preload("Department").
		Where("id = ? AND role = ?", id, models.RoleStudent).First(&student).Error; err != nil {
		apperrors.Write(w, apperrors.NotFound("student %d not found", id))
		return
	}

	if dept := rbac.DepartmentScope(claims.Role, claims.DepartmentID); dept != nil {
		if student.DepartmentID == nil || *student.DepartmentID != *dept {
			apperrors.Write(w, apperrors.Forbidden("student belongs to another department"))
			return
		}
	}

	writeJSON(w, http.StatusOK, student)
}

type studentRequest struct {
	Email          string  `json:"email" validate:"required,email"`
	FullName       string  `json:"full_name" validate:"required"`
	RegisterNumber *string `json:"register_number,omitempty"`
	Gender         *string `json:"gender,omitempty" validate:"omitempty,oneof=MALE FEMALE"`
	DepartmentID   *uint   `json:"department_id,omitempty"`
	Semester       *int    `json:"semester,omitempty"`
}

// CreateStudent — ручное добавление студента персоналом.
// Координатору студент всегда записывается в его собственный факультет.
func (h *StudentHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceStudent, rbac.ActionCreate) {
		return
	}

	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	departmentID := req.DepartmentID
	if dept := rbac.DepartmentScope(claims.Role, claims.DepartmentID); dept != nil {
		departmentID = dept
	}

	student := models.User{
		Email:          req.Email,
		FullName:       req.FullName,
		RegisterNumber: req.RegisterNumber,
		Gender:         req.Gender,
		DepartmentID:   departmentID,
		Semester:       req.Semester,
		Role:           models.RoleStudent,
		IsActive:       true,
	}

	if err := h.db.Create(&student).Error; err != nil {
		log.Printf("❌ Error creating student: %v", err)
		http.Error(w, `{"error": "Email or register number already in use"}`, http.StatusConflict)
		return
	}

	log.Printf("✅ Student %s created by %s", student.Email, claims.Email)
	writeJSON(w, http.StatusCreated, student)
}

// UpdateStudent обновляет анкету. Координатор не может трогать чужой факультет.
func (h *StudentHandler) UpdateStudent(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceStudent, rbac.ActionUpdate) {
		return
	}

	id, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	var student models.User
	if err := h.db.Where("id = ? AND role = ?", id, models.RoleStudent).First(&student).Error; err != nil {
		apperrors.Write(w, apperrors.NotFound("student %d not found", id))
		return
	}

	if dept := rbac.DepartmentScope(claims.Role, claims.DepartmentID); dept != nil {
		if student.DepartmentID == nil || *student.DepartmentID != *dept {
			apperrors.Write(w, apperrors.Forbidden("student belongs to another department"))
			return
		}
	}

	var req studentRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	student.Email = req.Email
	student.FullName = req.FullName
	student.RegisterNumber = req.RegisterNumber
	student.Gender = req.Gender
	student.Semester = req.Semester
	if rbac.DepartmentScope(claims.Role, claims.DepartmentID) == nil {
		student.DepartmentID = req.DepartmentID
	}

	if err := h.db.Save(&student).Error; err != nil {
		log.Printf("❌ Error updating student: %v", err)
		http.Error(w, `{"error": "Email or register number already in use"}`, http.StatusConflict)
		return
	}

	writeJSON(w, http.StatusOK, student)
}

// DeleteStudent — только администратор
func (h *StudentHandler) DeleteStudent(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceStudent, rbac.ActionDelete) {
		return
	}

	id, err := parseUintVar(r, "id")
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	result := h.db.Where("id = ? AND role = ?", id, models.RoleStudent).Delete(&models.User{})
	if result.Error != nil {
		log.Printf("❌ Error deleting student: %v", result.Error)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}
	if result.RowsAffected == 0 {
		apperrors.Write(w, apperrors.NotFound("student %d not found", id))
		return
	}

	log.Printf("✅ Student %d deleted by %s", id, claims.Email)
	w.WriteHeader(http.StatusNoContent)
}

// ImportCSV — массовая загрузка студентов. Ошибки по строкам не прерывают
// импорт, отчёт возвращается целиком.
func (h *StudentHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}
	if !guard(w, claims, rbac.ResourceStudent, rbac.ActionCreate) {
		return
	}

	body := r.Body
	// Файл может прийти и как multipart-форма, и сырым телом
	if file, _, err := r.FormFile("csv_file"); err == nil {
		defer file.Close()
		body = file
	}

	report, err := h.importSvc.ImportStudents(body)
	if err != nil {
		apperrors.Write(w, apperrors.Validation("%v", err))
		return
	}

	log.Printf("📥 CSV import by %s: %d created, %d updated, %d errors",
		claims.Email, report.Created, report.Updated, len(report.Errors))
	writeJSON(w, http.StatusOK, report)
}
