package main

import (
	"fmt"
	"net/http"
	"os"

	"lifelink/internal/config"
	"lifelink/internal/database"
	"lifelink/internal/handlers"
	"lifelink/internal/logger"
	"lifelink/internal/middleware"
	"lifelink/internal/models"
	"lifelink/internal/services"
	"lifelink/internal/validator"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "lifelink/internal/docs" // Import swagger docs
)

// @title           Life Link API
// @version         1.0
// @description     Life Link is a blood bank coordination platform connecting donors, hospitals, and blood bank staff.
// @termsOfService  http://swagger.io/terms/

// @host      localhost:3000
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger (use ENV var if available, default to development)
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Register custom binding validators
	validator.Register()

	// Initialize database configuration
	dbConfig, err := database.NewConfig()
	if err != nil {
		return fmt.Errorf("failed to load database configuration: %w", err)
	}

	// Create database manager
	dbManager, err := database.NewManager(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to create database manager: %w", err)
	}

	// Run migrations
	if err := dbManager.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run database migrations: %w", err)
	}

	// Initialize services
	db := dbManager.DB()
	auditService := services.NewAuditService(db)
	donorService := services.NewDonorService(db)
	hospitalService := services.NewHospitalService(db)
	staffService := services.NewStaffService(db)
	inventoryService := services.NewInventoryService(db)
	requestService := services.NewRequestService(db)
	donationService := services.NewDonationService(db)
	eventService := services.NewEventService(db)
	reportService := services.NewReportService(db)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(donorService, hospitalService, staffService, auditService)
	directoryHandler := handlers.NewDirectoryHandler(donorService, hospitalService, staffService)
	donorHandler := handlers.NewDonorHandler(donorService, donationService, eventService, auditService)
	hospitalHandler := handlers.NewHospitalHandler(hospitalService, requestService, donorService, auditService)
	staffHandler := handlers.NewStaffHandler(staffService, donorService, auditService)
	inventoryHandler := handlers.NewInventoryHandler(inventoryService, auditService)
	requestHandler := handlers.NewRequestHandler(requestService, auditService)
	donationHandler := handlers.NewDonationHandler(donationService, auditService)
	eventHandler := handlers.NewEventHandler(eventService, staffService, auditService)
	reportHandler := handlers.NewReportHandler(reportService, auditService)

	// Initialize Gin router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// Health check endpoint
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes
	api.POST("/register/donor", authHandler.RegisterDonor)
	api.POST("/register/hospital", authHandler.RegisterHospital)
	api.POST("/register/staff", authHandler.RegisterStaff)
	api.POST("/login/donor", authHandler.LoginDonor)
	api.POST("/login/hospital", authHandler.LoginHospital)
	api.POST("/login/staff", authHandler.LoginStaff)

	// Public directories
	api.GET("/donors", directoryHandler.ListDonors)
	api.GET("/donors/blood-type/:type", directoryHandler.SearchDonorsByBloodType)
	api.GET("/hospitals", directoryHandler.ListHospitals)
	api.GET("/staff", directoryHandler.ListStaff)

	// Donor self-service routes
	donors := api.Group("/donors", middleware.AuthMiddleware(), middleware.RequireRole(models.UserTypeDonor))
	donors.GET("/:id", donorHandler.GetProfile)
	donors.PUT("/:id", donorHandler.UpdateProfile)
	donors.GET("/:id/eligibility", donorHandler.GetEligibility)
	donors.GET("/:id/donations", donorHandler.ListDonations)
	donors.GET("/:id/appointments", donorHandler.ListAppointments)
	donors.GET("/:id/rewards", donorHandler.GetRewards)
	donors.GET("/:id/notifications", donorHandler.ListNotifications)

	// Hospital routes
	hospitals := api.Group("/hospitals", middleware.AuthMiddleware(), middleware.RequireRole(models.UserTypeHospital))
	hospitals.GET("/:id", hospitalHandler.GetProfile)
	hospitals.PUT("/:id", hospitalHandler.UpdateProfile)
	hospitals.POST("/requests", hospitalHandler.CreateRequest)
	hospitals.GET("/requests", hospitalHandler.ListRequests)
	hospitals.PUT("/requests/:id/cancel", hospitalHandler.CancelRequest)
	hospitals.GET("/donors/blood-type/:type", hospitalHandler.ListAvailableDonors)

	// Event routes; staff manage events, donors join and leave them
	events := api.Group("/events", middleware.AuthMiddleware())
	events.GET("", eventHandler.ListUpcoming)
	events.GET("/all", middleware.RequireRole(models.UserTypeStaff), eventHandler.ListAll)
	events.GET("/:id", eventHandler.Get)
	events.POST("", middleware.RequireRole(models.UserTypeStaff), eventHandler.Create)
	events.PUT("/:id", middleware.RequireRole(models.UserTypeStaff), eventHandler.Update)
	events.PUT("/:id/complete", middleware.RequireRole(models.UserTypeStaff), eventHandler.Complete)
	events.DELETE("/:id", middleware.RequireRole(models.UserTypeStaff), eventHandler.Delete)
	events.POST("/:id/join", middleware.RequireRole(models.UserTypeDonor), eventHandler.Join)
	events.DELETE("/:id/leave", middleware.RequireRole(models.UserTypeDonor), eventHandler.Leave)

	// Staff routes
	staff := api.Group("/staff", middleware.AuthMiddleware(), middleware.RequireRole(models.UserTypeStaff))
	staff.GET("/:id", staffHandler.GetProfile)
	staff.PUT("/:id", staffHandler.UpdateProfile)
	staff.PUT("/:id/password", staffHandler.ChangePassword)
	staff.GET("/:id/stats", staffHandler.GetStats)
	staff.POST("/donors", staffHandler.AddDonor)
	staff.PUT("/donors/:id", staffHandler.UpdateDonor)
	staff.DELETE("/donors/:id", staffHandler.DeactivateDonor)
	staff.GET("/inventory", inventoryHandler.List)
	staff.POST("/inventory", inventoryHandler.AddUnit)
	staff.GET("/inventory/available", inventoryHandler.ListAvailable)
	staff.PUT("/inventory/:id/status", inventoryHandler.SetStatus)
	staff.POST("/donations", donationHandler.Record)
	staff.GET("/donations", donationHandler.List)
	staff.GET("/requests", requestHandler.List)
	staff.GET("/requests/:id", requestHandler.Get)
	staff.PUT("/requests/:id/fulfill", requestHandler.Fulfill)
	staff.PUT("/requests/:id/reject", requestHandler.Reject)
	staff.GET("/reports", reportHandler.Reports)
	staff.GET("/audit-logs", reportHandler.AuditLogs)

	// Shared authenticated routes
	api.GET("/inventory", middleware.AuthMiddleware(),
		middleware.RequireRole(models.UserTypeStaff, models.UserTypeHospital), inventoryHandler.Summary)
	api.POST("/inventory", middleware.AuthMiddleware(),
		middleware.RequireRole(models.UserTypeStaff, models.UserTypeHospital), inventoryHandler.AddUnit)
	api.GET("/dashboard/stats/:userType/:userId", middleware.AuthMiddleware(), reportHandler.DashboardStats)

	log.Infof("Starting Life Link backend server on port %s", appConfig.Port)
	log.Infof("Swagger documentation available at http://localhost:%s/swagger/index.html", appConfig.Port)
	return router.Run(":" + appConfig.Port)
}
