package handler

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"spp-be-svc/internal/middleware"
	"spp-be-svc/internal/models"
	"spp-be-svc/internal/repository"
	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
	"spp-be-svc/pkg/utils"
)

// CreateInvoiceRequest represents the request for a single invoice creation
type CreateInvoiceRequest struct {
	StudentID      uint   `json:"student_id" binding:"required"`
	BillingTypeID  uint   `json:"billing_type_id" binding:"required"`
	AcademicYearID uint   `json:"academic_year_id" binding:"required"`
	Amount         int64  `json:"amount" binding:"required,min=0"`
	DueDate        string `json:"due_date" binding:"required"` // YYYY-MM-DD
	Description    string `json:"description,omitempty"`
}

// BulkInvoiceRequest represents the request for per-class bulk invoice creation
type BulkInvoiceRequest struct {
	ClassID        uint   `json:"class_id" binding:"required"`
	BillingTypeID  uint   `json:"billing_type_id" binding:"required"`
	AcademicYearID uint   `json:"academic_year_id" binding:"required"`
	Amount         int64  `json:"amount" binding:"required,min=0"`
	DueDate        string `json:"due_date" binding:"required"` // YYYY-MM-DD
	Description    string `json:"description,omitempty"`
}

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	invoiceService service.InvoiceService
	logger         *logger.Logger
}

// NewInvoiceHandler creates a new InvoiceHandler instance
func NewInvoiceHandler(invoiceService service.InvoiceService, logger *logger.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		logger:         logger,
	}
}

// CreateInvoice creates a single invoice for one student
// @Summary Create an invoice
// @Description Create a pending invoice for one student. Fails with 409 if the student already has a pending invoice for the same billing type.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body CreateInvoiceRequest true "Invoice to create"
// @Success 201 {object} utils.APIResponse{data=models.Invoice} "Invoice created"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Referenced entity not found"
// @Failure 409 {object} utils.APIResponse "Duplicate pending invoice"
// @Router /api/v1/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		utils.BadRequestResponse(c, "due_date must be in YYYY-MM-DD format", err)
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(service.CreateInvoiceParams{
		StudentID:      req.StudentID,
		BillingTypeID:  req.BillingTypeID,
		AcademicYearID: req.AcademicYearID,
		Amount:         req.Amount,
		DueDate:        dueDate,
		Description:    req.Description,
	})
	if err != nil {
		h.logger.WithError(err).WithField("student_id", req.StudentID).Warn("Invoice creation failed")
		respondServiceError(c, "Failed to create invoice", err)
		return
	}

	utils.CreatedResponse(c, "Invoice created successfully", invoice)
}

// CreateBulkInvoices creates invoices for every active student of a class
// @Summary Create invoices for a class
// @Description Create one invoice per active student of a class in a single batch. Students with a pending invoice for the billing type are skipped and listed in the response.
// @Tags invoices
// @Accept json
// @Produce json
// @Param request body BulkInvoiceRequest true "Bulk invoice request"
// @Success 200 {object} utils.APIResponse{data=response.BulkInvoiceResponse} "Bulk creation result"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Referenced entity not found"
// @Router /api/v1/invoices/bulk [post]
func (h *InvoiceHandler) CreateBulkInvoices(c *gin.Context) {
	var req BulkInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	dueDate, err := time.Parse("2006-01-02", req.DueDate)
	if err != nil {
		utils.BadRequestResponse(c, "due_date must be in YYYY-MM-DD format", err)
		return
	}

	result, err := h.invoiceService.CreateInvoicesForClass(service.BulkInvoiceParams{
		ClassID:        req.ClassID,
		BillingTypeID:  req.BillingTypeID,
		AcademicYearID: req.AcademicYearID,
		Amount:         req.Amount,
		DueDate:        dueDate,
		Description:    req.Description,
	})
	if err != nil {
		h.logger.WithError(err).WithField("class_id", req.ClassID).Error("Bulk invoice creation failed")
		respondServiceError(c, "Failed to create invoices", err)
		return
	}

	h.logger.WithFields(map[string]interface{}{
		"class_id": req.ClassID,
		"created":  result.Created,
		"skipped":  len(result.Skipped),
	}).Info("Bulk invoices created")

	utils.SuccessResponse(c, "Bulk invoices created successfully", result)
}

// GetInvoiceRegister retrieves the invoice register with filters
// @Summary Get the invoice register
// @Description Get invoices joined with student, class and billing type. Supports filtering by academic year, class, billing type, student and status, plus search by student name or NIS.
// @Tags invoices
// @Accept json
// @Produce json
// @Param academic_year_id query int false "Filter by academic year"
// @Param class_id query int false "Filter by class"
// @Param billing_type_id query int false "Filter by billing type"
// @Param student_id query int false "Filter by student"
// @Param status query string false "Filter by status (pending, paid, overdue)"
// @Param search query string false "Search by student name or NIS"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} utils.PaginatedResponse{data=[]response.InvoiceListItem} "Invoices retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/invoices [get]
func (h *InvoiceHandler) GetInvoiceRegister(c *gin.Context) {
	filter := h.buildFilter(c)

	items, total, err := h.invoiceService.GetInvoiceRegister(filter, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve invoice register")
		utils.InternalServerErrorResponse(c, "Failed to retrieve invoices", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Invoices retrieved successfully", items, filter.Page, filter.Limit, total)
}

// GetStudentInvoices retrieves invoices for one student
// @Summary Get a student's invoices
// @Description Get all invoices of one student with the overdue-aware status resolved. Students may only read their own invoices.
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param academic_year_id query int false "Filter by academic year"
// @Success 200 {object} utils.APIResponse{data=[]models.Invoice} "Invoices retrieved"
// @Failure 403 {object} utils.APIResponse "Not the invoice owner"
// @Failure 404 {object} utils.APIResponse "Student not found"
// @Router /api/v1/students/{id}/invoices [get]
func (h *InvoiceHandler) GetStudentInvoices(c *gin.Context) {
	studentID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if c.GetString(middleware.ContextRoleKey) == models.RoleStudent {
		ownID, _ := middleware.GetStudentID(c)
		if ownID != studentID {
			utils.ForbiddenResponse(c, "Students may only access their own invoices", nil)
			return
		}
	}

	invoices, err := h.invoiceService.GetStudentInvoices(studentID, parseOptionalUintQuery(c, "academic_year_id"), time.Now())
	if err != nil {
		respondServiceError(c, "Failed to retrieve student invoices", err)
		return
	}

	utils.SuccessResponse(c, "Invoices retrieved successfully", invoices)
}

// ExportInvoices exports the filtered invoice register as an Excel file
// @Summary Export invoices to Excel
// @Description Export the invoice register to an xlsx file. Accepts the same filters as the register endpoint.
// @Tags invoices
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param academic_year_id query int false "Filter by academic year"
// @Param class_id query int false "Filter by class"
// @Param billing_type_id query int false "Filter by billing type"
// @Param status query string false "Filter by status (pending, paid, overdue)"
// @Success 200 {file} binary "Excel file"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/invoices/export [get]
func (h *InvoiceHandler) ExportInvoices(c *gin.Context) {
	filter := h.buildFilter(c)

	data, filename, err := h.invoiceService.ExportInvoicesToExcel(filter, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to export invoices")
		utils.InternalServerErrorResponse(c, "Failed to export invoices", err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

func (h *InvoiceHandler) buildFilter(c *gin.Context) repository.InvoiceFilter {
	page, limit := utils.GetPaginationParams(c)

	filter := repository.InvoiceFilter{
		AcademicYearID: parseOptionalUintQuery(c, "academic_year_id"),
		ClassID:        parseOptionalUintQuery(c, "class_id"),
		BillingTypeID:  parseOptionalUintQuery(c, "billing_type_id"),
		StudentID:      parseOptionalUintQuery(c, "student_id"),
		Search:         c.Query("search"),
		Page:           page,
		Limit:          limit,
	}

	if raw := c.Query("status"); raw != "" {
		status := models.InvoiceStatus(raw)
		filter.Status = &status
	}

	return filter
}
