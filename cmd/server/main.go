package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"spp-be-svc/docs"
	"spp-be-svc/internal/cache"
	"spp-be-svc/internal/config"
	"spp-be-svc/internal/database"
	"spp-be-svc/internal/handler"
	"spp-be-svc/internal/middleware"
	"spp-be-svc/internal/repository"
	"spp-be-svc/internal/scheduler"
	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
)

// @title SPP Backend Service API
// @version 1.0
// @description RESTful API for school tuition billing and payment reconciliation
// @termsOfService http://swagger.io/terms/

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize Swagger documentation
	docs.SwaggerInfo.Title = "SPP Backend Service API"
	docs.SwaggerInfo.Description = "RESTful API for school tuition billing and payment reconciliation"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%s", cfg.Server.Port)
	docs.SwaggerInfo.BasePath = ""
	docs.SwaggerInfo.Schemes = []string{"http"}

	// Initialize logger
	appLogger := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	appLogger.Info("Starting SPP Backend Service...")

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	// Initialize database
	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to database")
	}
	appLogger.Info("Database connected successfully")

	// Run auto migration
	if err := db.AutoMigrate(); err != nil {
		appLogger.WithError(err).Fatal("Failed to run database migrations")
	}
	appLogger.Info("Database migrations completed successfully")

	// Initialize report cache; disabled when no Redis address is configured
	reportCache := cache.NewReportCache(&cfg.Redis, appLogger)

	// Initialize repositories
	invoiceRepo := repository.NewInvoiceRepository(db.DB)
	paymentRepo := repository.NewPaymentRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)
	directoryRepo := repository.NewDirectoryRepository(db.DB)
	billingTypeRepo := repository.NewBillingTypeRepository(db.DB)
	academicYearRepo := repository.NewAcademicYearRepository(db.DB)
	userRepo := repository.NewUserRepository(db.DB)
	notificationRepo := repository.NewNotificationRepository(db.DB)
	schedulerLogRepo := repository.NewSchedulerLogRepository(db.DB)

	// Initialize services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, appLogger)
	invoiceService := service.NewInvoiceService(invoiceRepo, billingTypeRepo, academicYearRepo, directoryRepo, notificationService, reportCache, appLogger)
	paymentService := service.NewPaymentService(paymentRepo, invoiceRepo, directoryRepo, notificationService, reportCache, appLogger)
	reportService := service.NewReportService(reportRepo, reportCache, appLogger)
	billingTypeService := service.NewBillingTypeService(billingTypeRepo, appLogger)
	academicYearService := service.NewAcademicYearService(academicYearRepo, appLogger)

	// Initialize Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(middleware.LoggerMiddleware(appLogger))
	router.Use(middleware.ErrorHandler())
	router.NoRoute(middleware.NoRouteHandler())
	router.NoMethod(middleware.NoMethodHandler())

	// Setup routes
	handler.SetupRoutes(router, cfg.JWT.Secret, invoiceService, paymentService, reportService, billingTypeService, academicYearService, notificationService, appLogger)

	// Start the monthly invoice scheduler
	invoiceScheduler := scheduler.NewInvoiceScheduler(invoiceService, schedulerLogRepo, appLogger, cfg.Scheduler.InvoiceCronExpression, cfg.Scheduler.DueDay)
	if err := invoiceScheduler.Start(); err != nil {
		appLogger.WithError(err).Fatal("Failed to start invoice scheduler")
	}

	// Create HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		appLogger.WithField("port", cfg.Server.Port).Info("Server starting...")
		appLogger.WithField("swagger", fmt.Sprintf("http://localhost:%s/swagger/index.html", cfg.Server.Port)).Info("Swagger documentation available")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.WithError(err).Fatal("Failed to start server")
		}
	}()

	appLogger.WithField("port", cfg.Server.Port).Info("Server started successfully")

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := server.Shutdown(ctx); err != nil {
		appLogger.WithError(err).Fatal("Server forced to shutdown")
	}

	// Stop scheduler, waiting for running jobs
	invoiceScheduler.Stop()

	// Close report cache connection
	if err := reportCache.Close(); err != nil {
		appLogger.WithError(err).Error("Failed to close report cache connection")
	}

	// Close database connection
	if err := db.Close(); err != nil {
		appLogger.WithError(err).Error("Failed to close database connection")
	}

	appLogger.Info("Server exited successfully")
}
