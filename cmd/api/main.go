package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/crypto/bcrypt"

	"github.com/Omwansam/Infora-wifi-billing/internal/config"
	"github.com/Omwansam/Infora-wifi-billing/internal/database"
	"github.com/Omwansam/Infora-wifi-billing/internal/handlers"
	"github.com/Omwansam/Infora-wifi-billing/internal/middleware"
	"github.com/Omwansam/Infora-wifi-billing/internal/models"
	"github.com/Omwansam/Infora-wifi-billing/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	if err := database.Connect(cfg); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := models.AutoMigrate(database.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed admin user if not exists
	seedAdminUser()

	// Core services
	authenticator := services.NewAuthenticator(database.DB, database.Redis)
	accounting := services.NewAccountingTracker(database.DB)
	provisioner := services.NewProvisioner(database.DB)

	// Start stale session sweeper (closes sessions whose accounting
	// updates stopped arriving)
	cleanupService := services.NewStaleSessionCleanupService(database.DB, cfg.SessionStaleMinutes)
	cleanupService.Start()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Infora Billing API v1.0",
		ServerHeader: "Infora",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"success": false,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(compress.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "infora-billing-api",
		})
	})

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(cfg)
	radiusHandler := handlers.NewRadiusHandler(database.DB, authenticator, accounting)
	provisioningHandler := handlers.NewProvisioningHandler(database.DB, provisioner)

	// API routes
	api := app.Group("/api")
	api.Use(middleware.RateLimiter(100, 1*time.Minute))

	// Public routes
	api.Post("/auth/login", authHandler.Login)

	// NAS-facing RADIUS routes
	api.Post("/radius/auth", radiusHandler.Authenticate)
	api.Post("/radius/accounting", radiusHandler.Accounting)

	// Protected routes
	protected := api.Group("", middleware.AuthRequired(cfg))
	protected.Post("/auth/logout", authHandler.Logout)
	protected.Get("/auth/me", authHandler.Me)

	protected.Get("/radius/sessions", radiusHandler.ListSessions)
	protected.Get("/radius/sessions/active", radiusHandler.ListActiveSessions)
	protected.Get("/radius/sessions/:id", radiusHandler.GetSession)
	protected.Post("/radius/sessions/:id/terminate", middleware.AdminOnly(), radiusHandler.TerminateSession)

	billing := protected.Group("/billing")
	billing.Post("/customers/:id/assign-plan", provisioningHandler.AssignPlan)
	billing.Post("/customers/:id/suspend", provisioningHandler.Suspend)
	billing.Post("/customers/:id/reactivate", provisioningHandler.Reactivate)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")
		cleanupService.Stop()
		app.Shutdown()
	}()

	// Start server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	log.Printf("Starting Infora Billing API server on %s", addr)
	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func seedAdminUser() {
	var count int64
	database.DB.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&count)

	if count == 0 {
		log.Println("Creating default admin user...")

		hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)

		admin := models.User{
			Email:        "admin@infora.local",
			PasswordHash: string(hashedPassword),
			FullName:     "System Administrator",
			Role:         models.UserRoleAdmin,
			IsActive:     true,
		}

		if err := database.DB.Create(&admin).Error; err != nil {
			log.Printf("Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created successfully (email: admin@infora.local, password: admin123)")
		}
	}
}
