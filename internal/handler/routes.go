package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"spp-be-svc/internal/middleware"
	"spp-be-svc/internal/models"
	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
)

// SetupRoutes sets up all API routes
func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	invoiceService service.InvoiceService,
	paymentService service.PaymentService,
	reportService service.ReportService,
	billingTypeService service.BillingTypeService,
	academicYearService service.AcademicYearService,
	notificationService service.NotificationService,
	logger *logger.Logger,
) {
	// Initialize handlers
	invoiceHandler := NewInvoiceHandler(invoiceService, logger)
	paymentHandler := NewPaymentHandler(paymentService, logger)
	reportHandler := NewReportHandler(reportService, logger)
	billingTypeHandler := NewBillingTypeHandler(billingTypeService, logger)
	academicYearHandler := NewAcademicYearHandler(academicYearService, logger)
	notificationHandler := NewNotificationHandler(notificationService, logger)

	auth := middleware.AuthMiddleware(jwtSecret)
	adminOnly := middleware.RequireRole(models.RoleAdmin)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", HealthCheck)

		// Invoice routes
		invoices := v1.Group("/invoices", auth)
		{
			invoices.POST("", adminOnly, invoiceHandler.CreateInvoice)
			invoices.POST("/bulk", adminOnly, invoiceHandler.CreateBulkInvoices)
			invoices.GET("", adminOnly, invoiceHandler.GetInvoiceRegister)
			invoices.GET("/export", adminOnly, invoiceHandler.ExportInvoices)
		}

		// Student-facing invoice reads
		students := v1.Group("/students", auth)
		{
			students.GET("/:id/invoices", invoiceHandler.GetStudentInvoices)
		}

		// Payment claim routes
		payments := v1.Group("/payments", auth)
		{
			payments.POST("/claims", paymentHandler.SubmitPayment)
			payments.GET("/claims", adminOnly, paymentHandler.ListClaims)
			payments.PUT("/claims/:id/approve", adminOnly, paymentHandler.ApprovePayment)
			payments.PUT("/claims/:id/reject", adminOnly, paymentHandler.RejectPayment)
		}

		// Reconciliation report routes
		reports := v1.Group("/reports", auth, adminOnly)
		{
			reports.GET("/totals", reportHandler.GetTotals)
			reports.GET("/monthly", reportHandler.GetMonthlyBreakdown)
			reports.GET("/billing-types", reportHandler.GetBillingTypeBreakdown)
			reports.GET("/classes", reportHandler.GetClassBreakdown)
			reports.GET("/overdue", reportHandler.GetTopOverdue)
			reports.GET("/recent-payments", reportHandler.GetRecentPayments)
			reports.GET("/snapshot", reportHandler.GetSnapshot)
		}

		// Billing type catalog routes
		billingTypes := v1.Group("/billing-types", auth)
		{
			billingTypes.GET("", billingTypeHandler.GetAllBillingTypes)
			billingTypes.GET("/:id", billingTypeHandler.GetBillingType)
			billingTypes.POST("", adminOnly, billingTypeHandler.CreateBillingType)
			billingTypes.PUT("/:id", adminOnly, billingTypeHandler.UpdateBillingType)
			billingTypes.DELETE("/:id", adminOnly, billingTypeHandler.DeleteBillingType)
		}

		// Academic year routes
		academicYears := v1.Group("/academic-years", auth)
		{
			academicYears.GET("", academicYearHandler.GetAllAcademicYears)
			academicYears.GET("/active", academicYearHandler.GetActiveAcademicYear)
			academicYears.GET("/:id", academicYearHandler.GetAcademicYear)
			academicYears.POST("", adminOnly, academicYearHandler.CreateAcademicYear)
			academicYears.PUT("/:id/activate", adminOnly, academicYearHandler.ActivateAcademicYear)
		}

		// Notification routes
		notifications := v1.Group("/notifications", auth)
		{
			notifications.GET("", notificationHandler.GetNotifications)
			notifications.PUT("/:id/read", notificationHandler.MarkNotificationRead)
		}
	}
}

func HealthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "ok",
		"message": "Server is running",
		"service": "SPP Backend Service",
	})
}
