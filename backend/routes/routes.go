package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/MohammadSabeti/K2/backend/config"
	"github.com/MohammadSabeti/K2/backend/controllers"
	"github.com/MohammadSabeti/K2/backend/middleware"
	"github.com/MohammadSabeti/K2/backend/services"
	"github.com/MohammadSabeti/K2/backend/storage"
)

func SetupRoutes(app *fiber.App, store storage.Store, cfg *config.Config) {
	sessions := services.NewSessionManager()
	authService := services.NewAuthService(store, cfg.AdminUsername, cfg.AdminPassword)
	reportService := services.NewReportService(store, sessions)

	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(cfg, store)

	loginLimiter := middleware.NewRateLimiter(cfg.LoginRateLimit)
	go loginLimiter.CleanupVisitors()

	// Auth routes
	authController := controllers.NewAuthController(authService, sessions, cfg)
	app.Post("/api/auth/login", loginLimiter.Handler(), authController.Login)
	app.Post("/api/auth/password", authMiddleware, authController.ChangePassword)
	app.Post("/api/auth/logout", authMiddleware, authController.Logout)

	// Week draft routes
	weekController := controllers.NewWeekController(reportService, cfg)
	weeks := app.Group("/api/weeks", authMiddleware)
	weeks.Post("/", weekController.StartWeek)
	weeks.Get("/:draftId", weekController.GetDraft)
	weeks.Post("/:draftId/activities", weekController.AddActivity)
	weeks.Post("/:draftId/submit", weekController.SubmitWeek)

	// History routes
	historyController := controllers.NewHistoryController(reportService, cfg)
	app.Get("/api/history", authMiddleware, historyController.GetHistory)
	app.Get("/api/admin/history", authMiddleware, adminMiddleware, historyController.GetAllHistory)

	// Prometheus scrape endpoint
	app.Get("/metrics", middleware.MetricsHandler())
}
