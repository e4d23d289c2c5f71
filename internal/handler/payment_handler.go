package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"spp-be-svc/internal/middleware"
	"spp-be-svc/internal/models"
	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
	"spp-be-svc/pkg/utils"
)

// SubmitPaymentRequest represents the request for a payment claim submission
type SubmitPaymentRequest struct {
	InvoiceID     uint   `json:"invoice_id" binding:"required"`
	Amount        int64  `json:"amount" binding:"required,min=1"`
	PaymentDate   string `json:"payment_date,omitempty"` // YYYY-MM-DD, defaults to today
	PaymentMethod string `json:"payment_method,omitempty"`
	Note          string `json:"note,omitempty"`
}

// RejectPaymentRequest represents the request for a payment claim rejection
type RejectPaymentRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// PaymentHandler handles payment claim HTTP requests
type PaymentHandler struct {
	paymentService service.PaymentService
	logger         *logger.Logger
}

// NewPaymentHandler creates a new PaymentHandler instance
func NewPaymentHandler(paymentService service.PaymentService, logger *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		logger:         logger,
	}
}

// SubmitPayment submits a payment claim for an invoice
// @Summary Submit a payment claim
// @Description Submit a payment claim for one of the caller's invoices. At most one open claim may exist per invoice; a second submission fails with 409.
// @Tags payments
// @Accept json
// @Produce json
// @Param request body SubmitPaymentRequest true "Payment claim"
// @Success 201 {object} utils.APIResponse{data=models.PaymentClaim} "Claim submitted"
// @Failure 400 {object} utils.APIResponse "Invalid request or amount below invoice amount"
// @Failure 403 {object} utils.APIResponse "Not the invoice owner"
// @Failure 404 {object} utils.APIResponse "Invoice not found"
// @Failure 409 {object} utils.APIResponse "Open claim already exists or invoice already paid"
// @Router /api/v1/payments/claims [post]
func (h *PaymentHandler) SubmitPayment(c *gin.Context) {
	var req SubmitPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Request body must be valid JSON", err)
		return
	}

	studentID, ok := middleware.GetStudentID(c)
	if !ok {
		utils.ForbiddenResponse(c, "Caller is not linked to a student", nil)
		return
	}

	var paymentDate time.Time
	if req.PaymentDate != "" {
		parsed, err := time.Parse("2006-01-02", req.PaymentDate)
		if err != nil {
			utils.BadRequestResponse(c, "payment_date must be in YYYY-MM-DD format", err)
			return
		}
		paymentDate = parsed
	}

	claim, err := h.paymentService.SubmitPayment(service.SubmitPaymentParams{
		InvoiceID:     req.InvoiceID,
		StudentID:     studentID,
		Amount:        req.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
	})
	if err != nil {
		respondServiceError(c, "Failed to submit payment claim", err)
		return
	}

	utils.CreatedResponse(c, "Payment claim submitted successfully", claim)
}

// ApprovePayment approves a pending payment claim
// @Summary Approve a payment claim
// @Description Approve a pending claim and mark its invoice paid in the same transaction. Only one of two concurrent approvals succeeds; the loser receives 409.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path int true "Claim ID"
// @Success 200 {object} utils.APIResponse{data=models.PaymentClaim} "Claim approved"
// @Failure 404 {object} utils.APIResponse "Claim not found"
// @Failure 409 {object} utils.APIResponse "Claim is not pending"
// @Router /api/v1/payments/claims/{id}/approve [put]
func (h *PaymentHandler) ApprovePayment(c *gin.Context) {
	claimID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	claim, err := h.paymentService.ApprovePayment(claimID)
	if err != nil {
		h.logger.WithError(err).WithField("claim_id", claimID).Warn("Payment approval failed")
		respondServiceError(c, "Failed to approve payment claim", err)
		return
	}

	utils.SuccessResponse(c, "Payment claim approved successfully", claim)
}

// RejectPayment rejects a pending payment claim
// @Summary Reject a payment claim
// @Description Reject a pending claim with a mandatory reason. The invoice stays payable and the student may submit a new claim.
// @Tags payments
// @Accept json
// @Produce json
// @Param id path int true "Claim ID"
// @Param request body RejectPaymentRequest true "Rejection reason"
// @Success 200 {object} utils.APIResponse{data=models.PaymentClaim} "Claim rejected"
// @Failure 400 {object} utils.APIResponse "Missing reason"
// @Failure 404 {object} utils.APIResponse "Claim not found"
// @Failure 409 {object} utils.APIResponse "Claim is not pending"
// @Router /api/v1/payments/claims/{id}/reject [put]
func (h *PaymentHandler) RejectPayment(c *gin.Context) {
	claimID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RejectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Rejection reason is required", err)
		return
	}

	claim, err := h.paymentService.RejectPayment(claimID, req.Reason)
	if err != nil {
		h.logger.WithError(err).WithField("claim_id", claimID).Warn("Payment rejection failed")
		respondServiceError(c, "Failed to reject payment claim", err)
		return
	}

	utils.SuccessResponse(c, "Payment claim rejected successfully", claim)
}

// ListClaims retrieves payment claims with an optional status filter
// @Summary List payment claims
// @Description Get payment claims joined with student and invoice data, optionally filtered by status.
// @Tags payments
// @Accept json
// @Produce json
// @Param status query string false "Filter by status (pending, approved, rejected)"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} utils.PaginatedResponse{data=[]repository.ClaimRow} "Claims retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/payments/claims [get]
func (h *PaymentHandler) ListClaims(c *gin.Context) {
	page, limit := utils.GetPaginationParams(c)

	var status *models.ClaimStatus
	if raw := c.Query("status"); raw != "" {
		s := models.ClaimStatus(raw)
		status = &s
	}

	claims, total, err := h.paymentService.ListClaims(status, page, limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve payment claims")
		utils.InternalServerErrorResponse(c, "Failed to retrieve payment claims", err)
		return
	}

	utils.PaginatedSuccessResponse(c, "Payment claims retrieved successfully", claims, page, limit, total)
}
