package handler

import (
	"github.com/gin-gonic/gin"

	"spp-be-svc/internal/models"
	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
	"spp-be-svc/pkg/utils"
)

// CreateBillingTypeRequest represents the request for billing type creation
type CreateBillingTypeRequest struct {
	Name          string `json:"name" binding:"required"`
	DefaultAmount int64  `json:"default_amount" binding:"required,min=0"`
	Description   string `json:"description,omitempty"`
	Recurrence    string `json:"recurrence,omitempty" binding:"omitempty,oneof=monthly one_time"`
}

// UpdateBillingTypeRequest represents the request for billing type update
type UpdateBillingTypeRequest struct {
	Name          string `json:"name,omitempty"`
	DefaultAmount int64  `json:"default_amount,omitempty"`
	Description   string `json:"description,omitempty"`
	Recurrence    string `json:"recurrence,omitempty" binding:"omitempty,oneof=monthly one_time"`
	IsActive      *bool  `json:"is_active,omitempty"`
}

// BillingTypeHandler handles billing type catalog HTTP requests
type BillingTypeHandler struct {
	billingTypeService service.BillingTypeService
	logger             *logger.Logger
}

// NewBillingTypeHandler creates a new BillingTypeHandler instance
func NewBillingTypeHandler(billingTypeService service.BillingTypeService, logger *logger.Logger) *BillingTypeHandler {
	return &BillingTypeHandler{
		billingTypeService: billingTypeService,
		logger:             logger,
	}
}

// CreateBillingType creates a new billing type
// @Summary Create a billing type
// @Tags billing-types
// @Accept json
// @Produce json
// @Param request body CreateBillingTypeRequest true "Billing type to create"
// @Success 201 {object} utils.APIResponse{data=models.BillingType} "Billing type created"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Router /api/v1/billing-types [post]
func (h *BillingTypeHandler) CreateBillingType(c *gin.Context) {
	var req CreateBillingTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	billingType := &models.BillingType{
		Name:          req.Name,
		DefaultAmount: req.DefaultAmount,
		Description:   req.Description,
		Recurrence:    req.Recurrence,
	}

	if err := h.billingTypeService.Create(billingType); err != nil {
		respondServiceError(c, "Failed to create billing type", err)
		return
	}

	utils.CreatedResponse(c, "Billing type created successfully", billingType)
}

// GetAllBillingTypes retrieves all billing types
// @Summary List billing types
// @Tags billing-types
// @Accept json
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]models.BillingType} "Billing types retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/billing-types [get]
func (h *BillingTypeHandler) GetAllBillingTypes(c *gin.Context) {
	billingTypes, err := h.billingTypeService.GetAll()
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve billing types")
		utils.InternalServerErrorResponse(c, "Failed to retrieve billing types", err)
		return
	}

	utils.SuccessResponse(c, "Billing types retrieved successfully", billingTypes)
}

// GetBillingType retrieves one billing type
// @Summary Get a billing type
// @Tags billing-types
// @Accept json
// @Produce json
// @Param id path int true "Billing type ID"
// @Success 200 {object} utils.APIResponse{data=models.BillingType} "Billing type retrieved"
// @Failure 404 {object} utils.APIResponse "Billing type not found"
// @Router /api/v1/billing-types/{id} [get]
func (h *BillingTypeHandler) GetBillingType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	billingType, err := h.billingTypeService.GetByID(id)
	if err != nil {
		respondServiceError(c, "Failed to retrieve billing type", err)
		return
	}

	utils.SuccessResponse(c, "Billing type retrieved successfully", billingType)
}

// UpdateBillingType updates a billing type
// @Summary Update a billing type
// @Description Update a billing type. Existing invoices are untouched: the amount was copied onto each invoice at creation time.
// @Tags billing-types
// @Accept json
// @Produce json
// @Param id path int true "Billing type ID"
// @Param request body UpdateBillingTypeRequest true "Fields to update"
// @Success 200 {object} utils.APIResponse{data=models.BillingType} "Billing type updated"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 404 {object} utils.APIResponse "Billing type not found"
// @Router /api/v1/billing-types/{id} [put]
func (h *BillingTypeHandler) UpdateBillingType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateBillingTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	billingType, err := h.billingTypeService.Update(id, req.Name, req.Description, req.Recurrence, req.DefaultAmount, req.IsActive)
	if err != nil {
		respondServiceError(c, "Failed to update billing type", err)
		return
	}

	utils.SuccessResponse(c, "Billing type updated successfully", billingType)
}

// DeleteBillingType deletes a billing type
// @Summary Delete a billing type
// @Description Delete a billing type. Fails with 409 while invoices reference it.
// @Tags billing-types
// @Accept json
// @Produce json
// @Param id path int true "Billing type ID"
// @Success 200 {object} utils.APIResponse "Billing type deleted"
// @Failure 404 {object} utils.APIResponse "Billing type not found"
// @Failure 409 {object} utils.APIResponse "Billing type is referenced by invoices"
// @Router /api/v1/billing-types/{id} [delete]
func (h *BillingTypeHandler) DeleteBillingType(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.billingTypeService.Delete(id); err != nil {
		h.logger.WithError(err).WithField("billing_type_id", id).Warn("Billing type deletion refused")
		respondServiceError(c, "Failed to delete billing type", err)
		return
	}

	utils.SuccessResponse(c, "Billing type deleted successfully", nil)
}
