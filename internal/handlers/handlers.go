package handlers

import (
	"SafeShare/internal/config"
	"SafeShare/internal/ledger"
	"SafeShare/internal/middleware"
	"SafeShare/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	fileService *service.FileService,
	statsService *service.StatsService,
	auditLedger *ledger.Ledger,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, auditLedger, logger)
	fileHandler := NewFileHandler(fileService, logger, config)
	auditHandler := NewAuditHandler(statsService, auditLedger, logger)

	r.Get("/api/health", Health)

	// Auth routes
	r.Post("/api/auth/register", userHandler.Register)
	r.Post("/api/auth/login", userHandler.Login)
	r.Get("/api/auth/me", userHandler.Me)

	// File routes
	r.Post("/api/files/upload", fileHandler.Upload)
	r.Get("/api/files", fileHandler.List)
	r.Get("/api/files/{id}/download", fileHandler.Download)
	r.Delete("/api/files/{id}", fileHandler.Delete)

	// User management (admin-gated; list also for manager)
	r.Get("/api/users", userHandler.ListUsers)
	r.Post("/api/users", userHandler.CreateUser)
	r.Put("/api/users/{id}", userHandler.UpdateUser)
	r.Delete("/api/users/{id}", userHandler.DeleteUser)

	// Audit / dashboard
	r.Get("/api/audit-logs", auditHandler.AuditLogs)
	r.Get("/api/security-alerts", auditHandler.SecurityAlerts)
	r.Get("/api/dashboard/stats", auditHandler.DashboardStats)

	return &Handler{Router: r}
}
