package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"spp-be-svc/internal/models"
	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
	"spp-be-svc/pkg/utils"
)

// CreateAcademicYearRequest represents the request for academic year creation
type CreateAcademicYearRequest struct {
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate   string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

// AcademicYearHandler handles academic year HTTP requests
type AcademicYearHandler struct {
	academicYearService service.AcademicYearService
	logger              *logger.Logger
}

// NewAcademicYearHandler creates a new AcademicYearHandler instance
func NewAcademicYearHandler(academicYearService service.AcademicYearService, logger *logger.Logger) *AcademicYearHandler {
	return &AcademicYearHandler{
		academicYearService: academicYearService,
		logger:              logger,
	}
}

// CreateAcademicYear creates a new academic year
// @Summary Create an academic year
// @Tags academic-years
// @Accept json
// @Produce json
// @Param request body CreateAcademicYearRequest true "Academic year to create"
// @Success 201 {object} utils.APIResponse{data=models.AcademicYear} "Academic year created"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /api/v1/academic-years [post]
func (h *AcademicYearHandler) CreateAcademicYear(c *gin.Context) {
	var req CreateAcademicYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	year := &models.AcademicYear{Name: req.Name}

	if req.StartDate != "" {
		parsed, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			utils.BadRequestResponse(c, "start_date must be in YYYY-MM-DD format", err)
			return
		}
		year.StartDate = parsed
	}
	if req.EndDate != "" {
		parsed, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			utils.BadRequestResponse(c, "end_date must be in YYYY-MM-DD format", err)
			return
		}
		year.EndDate = parsed
	}

	if err := h.academicYearService.Create(year); err != nil {
		respondServiceError(c, "Failed to create academic year", err)
		return
	}

	utils.CreatedResponse(c, "Academic year created successfully", year)
}

// GetAllAcademicYears retrieves all academic years
// @Summary List academic years
// @Tags academic-years
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]models.AcademicYear} "Academic years retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/academic-years [get]
func (h *AcademicYearHandler) GetAllAcademicYears(c *gin.Context) {
	years, err := h.academicYearService.GetAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve academic years")
		utils.InternalServerErrorResponse(c, "Failed to retrieve academic years", err)
		return
	}

	utils.SuccessResponse(c, "Academic years retrieved successfully", years)
}

// GetActiveAcademicYear retrieves the active academic year
// @Summary Get the active academic year
// @Tags academic-years
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=models.AcademicYear} "Active academic year retrieved"
// @Failure 404 {object} utils.APIResponse "No active academic year"
// @Router /api/v1/academic-years/active [get]
func (h *AcademicYearHandler) GetActiveAcademicYear(c *gin.Context) {
	year, err := h.academicYearService.GetActive()
	if err != nil {
		respondServiceError(c, "Failed to retrieve active academic year", err)
		return
	}

	utils.SuccessResponse(c, "Active academic year retrieved successfully", year)
}

// GetAcademicYear retrieves one academic year
// @Summary Get an academic year
// @Tags academic-years
// @Accept json
// @Produce json
// @Param id path int true "Academic year ID"
// @Success 200 {object} utils.APIResponse{data=models.AcademicYear} "Academic year retrieved"
// @Failure 404 {object} utils.APIResponse "Academic year not found"
// @Router /api/v1/academic-years/{id} [get]
func (h *AcademicYearHandler) GetAcademicYear(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	year, err := h.academicYearService.GetByID(id)
	if err != nil {
		respondServiceError(c, "Failed to retrieve academic year", err)
		return
	}

	utils.SuccessResponse(c, "Academic year retrieved successfully", year)
}

// ActivateAcademicYear marks one academic year as active
// @Summary Activate an academic year
// @Description Mark one academic year active and deactivate all others in a single transaction.
// @Tags academic-years
// @Accept json
// @Produce json
// @Param id path int true "Academic year ID"
// @Success 200 {object} utils.APIResponse "Academic year activated"
// @Failure 404 {object} utils.APIResponse "Academic year not found"
// @Router /api/v1/academic-years/{id}/activate [put]
func (h *AcademicYearHandler) ActivateAcademicYear(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.academicYearService.SetActive(id); err != nil {
		respondServiceError(c, "Failed to activate academic year", err)
		return
	}

	utils.SuccessResponse(c, "Academic year activated successfully", nil)
}
