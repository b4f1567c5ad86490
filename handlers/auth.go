package handlers

import (
	"errors"
	"log"
	"net/http"
	"sportsmeet-backend/apperrors"
	"sportsmeet-backend/auth"
	"sportsmeet-backend/models"

	"gorm.io/gorm"
)

type AuthHandler struct {
	db         *gorm.DB
	jwtService *auth.JWTService
}

func NewAuthHandler(db *gorm.DB, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{db: db, jwtService: jwtService}
}

// Login выдаёт JWT по email и паролю.
// Студентам из массовой загрузки пароль не задаётся: при первом входе
// паролем считается регистрационный номер.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	var user models.User
	if err := h.db.Preload("Department").Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, `{"error": "Invalid email or password"}`, http.StatusUnauthorized)
			return
		}
		log.Printf("❌ Error fetching user: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	if !user.IsActive {
		http.Error(w, `{"error": "Account is disabled"}`, http.StatusUnauthorized)
		return
	}

	// Первый вход загруженного студента: пароль = регистрационный номер
	if user.Role == models.RoleStudent && user.Password == "" && user.RegisterNumber != nil {
		hashed, err := auth.HashPassword(*user.RegisterNumber)
		if err != nil {
			log.Printf("❌ Error hashing initial password: %v", err)
			http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
			return
		}
		if err := h.db.Model(&user).Update("password", hashed).Error; err != nil {
			log.Printf("❌ Error setting initial password: %v", err)
			http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
			return
		}
		user.Password = hashed
	}

	if !auth.CheckPassword(req.Password, user.Password) {
		log.Printf("❌ Failed login attempt for %s", req.Email)
		http.Error(w, `{"error": "Invalid email or password"}`, http.StatusUnauthorized)
		return
	}

	token, err := h.jwtService.GenerateToken(&user)
	if err != nil {
		http.Error(w, `{"error": "Failed to generate token"}`, http.StatusInternalServerError)
		return
	}

	log.Printf("✅ User %s logged in (role: %s)", user.Email, user.Role)
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token, User: user})
}

// Register — самостоятельная регистрация аккаунта. Роль всегда STUDENT:
// персонал заводится администратором или загрузкой CSV.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		apperrors.Write(w, err)
		return
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("❌ Error hashing password: %v", err)
		http.Error(w, `{"error": "Internal server error"}`, http.StatusInternalServerError)
		return
	}

	user := models.User{
		Email:          req.Email,
		Password:       hashed,
		FullName:       req.FullName,
		RegisterNumber: req.RegisterNumber,
		Gender:         req.Gender,
		DepartmentID:   req.DepartmentID,
		Semester:       req.Semester,
		Role:           models.RoleStudent,
		IsActive:       true,
	}

	if err := h.db.Create(&user).Error; err != nil {
		log.Printf("❌ Error creating user: %v", err)
		http.Error(w, `{"error": "Email or register number already in use"}`, http.StatusConflict)
		return
	}

	log.Printf("✅ Registered new student account: %s", user.Email)
	writeJSON(w, http.StatusCreated, user)
}

// GetCurrentUser возвращает профиль владельца токена
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	claims := requireClaims(w, r)
	if claims == nil {
		return
	}

	var user models.User
	if err := h.db.Preload("Department").First(&user, claims.UserID).Error; err != nil {
		apperrors.Write(w, apperrors.NotFound("user not found"))
		return
	}

	writeJSON(w, http.StatusOK, user)
}
