package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/MohammadSabeti/K2/backend/config"
	"github.com/MohammadSabeti/K2/backend/middleware"
	"github.com/MohammadSabeti/K2/backend/routes"
	"github.com/MohammadSabeti/K2/backend/storage"
	"github.com/MohammadSabeti/K2/backend/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	store := storage.NewGormStore(db)
	if err := store.AutoMigrate(); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	// Initialize logger and metrics
	logger := utils.InitLogger()
	middleware.InitPrometheus()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))
	app.Use(middleware.MonitorMiddleware())

	// Setup routes
	routes.SetupRoutes(app, store, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}
