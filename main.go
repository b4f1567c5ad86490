package main

import (
	"encoding/json"
	"log"
	"net/http"
	"sportsmeet-backend/auth"
	"sportsmeet-backend/config"
	"sportsmeet-backend/database"
	"sportsmeet-backend/handlers"
	"sportsmeet-backend/middleware"
	"sportsmeet-backend/reports"
	"time"

	"github.com/gorilla/mux"
)

func main() {
	log.Println("🚀 Starting Sports Meet Backend Server...")

	// Загрузка конфигурации
	cfg := config.Load()
	log.Printf("📋 Configuration loaded: Server Port %s", cfg.ServerPort)

	// Инициализация подключения к базе данных
	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatal("❌ Error initializing database:", err)
	}

	// Получаем низкоуровневое соединение для закрытия
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("❌ Error getting SQL DB:", err)
	}
	defer sqlDB.Close()

	// Миграция схемы и начальные данные
	if err := database.Migrate(db); err != nil {
		log.Fatal("❌ Error migrating database:", err)
	}

	// Отчётные запросы идут через sqlx поверх того же пула
	sqlxDB, err := database.WrapSQLX(db, "postgres")
	if err != nil {
		log.Fatal("❌ Error wrapping sqlx:", err)
	}
	reporter := reports.NewReporter(sqlxDB)

	// Инициализация JWT сервиса
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)

	// Инициализация middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	// Инициализация обработчиков
	authHandler := handlers.NewAuthHandler(db, jwtService)
	studentHandler := handlers.NewStudentHandler(db)
	departmentHandler := handlers.NewDepartmentHandler(db)
	meetHandler := handlers.NewMeetHandler(db)
	eventHandler := handlers.NewEventHandler(db)
	registrationHandler := handlers.NewRegistrationHandler(db, reporter)
	teamHandler := handlers.NewTeamHandler(db)
	resultsHandler := handlers.NewResultsHandler(db, reporter)
	reportHandler := handlers.NewReportHandler(db, reporter)

	// Создание роутера
	r := mux.NewRouter()

	// Общие middleware для всех маршрутов
	r.Use(middleware.CORS)
	r.Use(middleware.RequestID)
	r.Use(loggingMiddleware)

	// Маршруты
	setupRoutes(r, authHandler, studentHandler, departmentHandler, meetHandler,
		eventHandler, registrationHandler, teamHandler, resultsHandler,
		reportHandler, authMiddleware)

	serverAddr := ":" + cfg.ServerPort
	log.Printf("✅ Server successfully started on %s", serverAddr)
	log.Printf("🔐 JWT Expiry: %d hours", cfg.JWTExpiry)

	log.Fatal(http.ListenAndServe(serverAddr, r))
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Создаем обертку для response writer для захвата статуса
		rw := &responseWriter{w, http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Printf("📨 [%s] %s %s - %d (%v)",
			middleware.GetRequestID(r.Context()), r.Method, r.URL.Path, rw.statusCode, duration)
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func setupRoutes(r *mux.Router,
	authHandler *handlers.AuthHandler,
	studentHandler *handlers.StudentHandler,
	departmentHandler *handlers.DepartmentHandler,
	meetHandler *handlers.MeetHandler,
	eventHandler *handlers.EventHandler,
	registrationHandler *handlers.RegistrationHandler,
	teamHandler *handlers.TeamHandler,
	resultsHandler *handlers.ResultsHandler,
	reportHandler *handlers.ReportHandler,
	authMiddleware *middleware.AuthMiddleware) {

	// Публичные маршруты API (без аутентификации)
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")

	// Защищенные маршруты API
	protectedAPI := r.PathPrefix("/api").Subrouter()
	protectedAPI.Use(authMiddleware.AuthMiddleware)

	// Аутентификация
	protectedAPI.HandleFunc("/auth/me", authHandler.GetCurrentUser).Methods("GET")

	// Студенты
	protectedAPI.HandleFunc("/students", studentHandler.GetStudents).Methods("GET")
	protectedAPI.HandleFunc("/students", studentHandler.CreateStudent).Methods("POST")
	protectedAPI.HandleFunc("/students/upload", studentHandler.ImportCSV).Methods("POST")
	protectedAPI.HandleFunc("/students/{id}", studentHandler.GetStudent).Methods("GET")
	protectedAPI.HandleFunc("/students/{id}", studentHandler.UpdateStudent).Methods("PUT", "PATCH")
	protectedAPI.HandleFunc("/students/{id}", studentHandler.DeleteStudent).Methods("DELETE")

	// Факультеты
	protectedAPI.HandleFunc("/departments", departmentHandler.GetDepartments).Methods("GET")
	protectedAPI.HandleFunc("/departments", departmentHandler.CreateDepartment).Methods("POST")
	protectedAPI.HandleFunc("/departments/{id}", departmentHandler.UpdateDepartment).Methods("PUT", "PATCH")

	// Соревнования и события
	protectedAPI.HandleFunc("/meets", meetHandler.GetMeets).Methods("GET")
	protectedAPI.HandleFunc("/meets", meetHandler.CreateMeet).Methods("POST")
	protectedAPI.HandleFunc("/meets/{id}", meetHandler.UpdateMeet).Methods("PUT", "PATCH")
	protectedAPI.HandleFunc("/meets/{id}/events", meetHandler.GetMeetEvents).Methods("GET")
	protectedAPI.HandleFunc("/meets/{id}/events", meetHandler.AssignEvents).Methods("POST")
	protectedAPI.HandleFunc("/events", eventHandler.GetEvents).Methods("GET")
	protectedAPI.HandleFunc("/events", eventHandler.CreateEvent).Methods("POST")
	protectedAPI.HandleFunc("/events/{id}", eventHandler.UpdateEvent).Methods("PUT", "PATCH")

	// Регистрации
	protectedAPI.HandleFunc("/meet-events/{id}/register", registrationHandler.SelfRegister).Methods("POST")
	protectedAPI.HandleFunc("/meet-events/{id}/registrations", registrationHandler.GetRegistrations).Methods("GET")
	protectedAPI.HandleFunc("/meet-events/{id}/registrations", registrationHandler.StaffRegister).Methods("POST")
	protectedAPI.HandleFunc("/meet-events/{id}/registrations/{userID}", registrationHandler.Unregister).Methods("DELETE")
	protectedAPI.HandleFunc("/meets/{id}/reregister", registrationHandler.Reregister).Methods("POST")

	// Команды
	protectedAPI.HandleFunc("/meet-events/{id}/teams", teamHandler.GetTeams).Methods("GET")
	protectedAPI.HandleFunc("/meet-events/{id}/teams", teamHandler.CreateTeam).Methods("POST")
	protectedAPI.HandleFunc("/teams/{id}/members", teamHandler.GetTeamMembers).Methods("GET")
	protectedAPI.HandleFunc("/teams/{id}/members", teamHandler.AddMember).Methods("POST")
	protectedAPI.HandleFunc("/teams/{id}/members/{userID}", teamHandler.RemoveMember).Methods("DELETE")
	protectedAPI.HandleFunc("/teams/{id}/captain", teamHandler.SetCaptain).Methods("POST")
	protectedAPI.HandleFunc("/teams/{id}/validate", teamHandler.ValidateTeam).Methods("GET")

	// Результаты и отчёты
	protectedAPI.HandleFunc("/meet-events/{id}/results", resultsHandler.GetResults).Methods("GET")
	protectedAPI.HandleFunc("/meet-events/{id}/results/pdf", resultsHandler.ExportResultsPDF).Methods("GET")
	protectedAPI.HandleFunc("/meet-events/{id}/results/{userID}", resultsHandler.SetPosition).Methods("PUT")
	protectedAPI.HandleFunc("/meet-events/{id}/report/pdf", reportHandler.ExportRegistrationsPDF).Methods("GET")

	// Публичные маршруты (без API префикса)
	r.HandleFunc("/", rootHandler).Methods("GET")
	r.HandleFunc("/health", healthHandler).Methods("GET")

	// OPTIONS handlers для всех маршрутов
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With, Accept, Origin")
		w.WriteHeader(http.StatusOK)
	})
}

func rootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `
<!DOCTYPE html>
<html>
<head>
    <title>Sports Meet API</title>
    <style>
        body { font-family: Arial, sans-serif; background: #f1f3f4; }
        .container { background: white; padding: 2rem; border-radius: 10px; max-width: 700px; margin: 3rem auto; }
        .status { background: #4CAF50; color: white; padding: 0.5rem 1rem; border-radius: 25px; display: inline-block; }
        ul { text-align: left; }
    </style>
</head>
<body>
    <div class="container">
        <h1>🏅 Sports Meet Backend API</h1>
        <div class="status">✅ Сервер работает корректно</div>
        <p><strong>ORM:</strong> GORM | <strong>Database:</strong> PostgreSQL | <strong>Auth:</strong> JWT</p>
        <p><strong>Roles:</strong> Admin, Faculty Coordinator, Student Coordinator, Faculty, Student</p>
        <ul>
            <li><code>POST /api/auth/login</code> - Login</li>
            <li><code>GET /api/meets</code> - Meets</li>
            <li><code>GET /api/events</code> - Events</li>
            <li><code>POST /api/meet-events/{id}/register</code> - Self-registration</li>
            <li><code>POST /api/meet-events/{id}/teams</code> - Teams</li>
            <li><code>GET /api/meet-events/{id}/report/pdf</code> - PDF report</li>
        </ul>
        <p>Default admin: <code>admin@example.com</code> / <code>admin123</code></p>
    </div>
</body>
</html>`
	w.Write([]byte(html))
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	response := map[string]interface{}{
		"status":    "ok",
		"service":   "sportsmeet-backend",
		"orm":       "GORM",
		"auth":      "JWT",
		"timestamp": time.Now().Format(time.RFC3339),
	}

	json.NewEncoder(w).Encode(response)
}
