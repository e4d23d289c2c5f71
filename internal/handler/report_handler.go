package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
	"spp-be-svc/pkg/utils"
)

// ReportHandler handles reconciliation report HTTP requests
type ReportHandler struct {
	reportService service.ReportService
	logger        *logger.Logger
}

// NewReportHandler creates a new ReportHandler instance
func NewReportHandler(reportService service.ReportService, logger *logger.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// GetTotals retrieves the reconciliation totals
// @Summary Get reconciliation totals
// @Description Get invoiced, realized, pending and overdue sums, optionally scoped to one academic year.
// @Tags reports
// @Accept json
// @Produce json
// @Param academic_year_id query int false "Filter by academic year"
// @Success 200 {object} utils.APIResponse{data=response.TotalsResponse} "Totals retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/reports/totals [get]
func (h *ReportHandler) GetTotals(c *gin.Context) {
	totals, err := h.reportService.Totals(parseOptionalUintQuery(c, "academic_year_id"), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute report totals")
		utils.InternalServerErrorResponse(c, "Failed to compute totals", err)
		return
	}

	utils.SuccessResponse(c, "Totals retrieved successfully", totals)
}

// GetMonthlyBreakdown retrieves the per-month target vs realization series
// @Summary Get monthly breakdown
// @Description Get target vs realized amounts for all twelve months. Target is bucketed by invoice creation month, realized by payment month.
// @Tags reports
// @Accept json
// @Produce json
// @Param academic_year_id query int false "Filter by academic year"
// @Success 200 {object} utils.APIResponse{data=[]response.MonthlyBreakdownItem} "Breakdown retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/reports/monthly [get]
func (h *ReportHandler) GetMonthlyBreakdown(c *gin.Context) {
	items, err := h.reportService.BreakdownByMonth(parseOptionalUintQuery(c, "academic_year_id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute monthly breakdown")
		utils.InternalServerErrorResponse(c, "Failed to compute monthly breakdown", err)
		return
	}

	utils.SuccessResponse(c, "Monthly breakdown retrieved successfully", items)
}

// GetBillingTypeBreakdown retrieves target vs realization per billing type
// @Summary Get billing type breakdown
// @Description Get target, realized and realization percentage per billing type.
// @Tags reports
// @Accept json
// @Produce json
// @Param academic_year_id query int false "Filter by academic year"
// @Success 200 {object} utils.APIResponse{data=[]response.GroupBreakdownItem} "Breakdown retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/reports/billing-types [get]
func (h *ReportHandler) GetBillingTypeBreakdown(c *gin.Context) {
	items, err := h.reportService.BreakdownByBillingType(parseOptionalUintQuery(c, "academic_year_id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute billing type breakdown")
		utils.InternalServerErrorResponse(c, "Failed to compute billing type breakdown", err)
		return
	}

	utils.SuccessResponse(c, "Billing type breakdown retrieved successfully", items)
}

// GetClassBreakdown retrieves target vs realization per class
// @Summary Get class breakdown
// @Description Get target, realized and realization percentage per class.
// @Tags reports
// @Accept json
// @Produce json
// @Param academic_year_id query int false "Filter by academic year"
// @Success 200 {object} utils.APIResponse{data=[]response.GroupBreakdownItem} "Breakdown retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/reports/classes [get]
func (h *ReportHandler) GetClassBreakdown(c *gin.Context) {
	items, err := h.reportService.BreakdownByClass(parseOptionalUintQuery(c, "academic_year_id"))
	if err != nil {
		h.logger.WithError(err).Error("Failed to compute class breakdown")
		utils.InternalServerErrorResponse(c, "Failed to compute class breakdown", err)
		return
	}

	utils.SuccessResponse(c, "Class breakdown retrieved successfully", items)
}

// GetTopOverdue retrieves the most overdue invoices
// @Summary Get top overdue invoices
// @Description Get overdue invoices ordered soonest due date first, limited by the limit parameter.
// @Tags reports
// @Accept json
// @Produce json
// @Param academic_year_id query int false "Filter by academic year"
// @Param limit query int false "Maximum rows" default(10)
// @Success 200 {object} utils.APIResponse{data=[]response.OverdueInvoiceItem} "Overdue invoices retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/reports/overdue [get]
func (h *ReportHandler) GetTopOverdue(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	items, err := h.reportService.TopOverdue(parseOptionalUintQuery(c, "academic_year_id"), limit, time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve overdue invoices")
		utils.InternalServerErrorResponse(c, "Failed to retrieve overdue invoices", err)
		return
	}

	utils.SuccessResponse(c, "Overdue invoices retrieved successfully", items)
}

// GetRecentPayments retrieves recently approved payments
// @Summary Get recent approved payments
// @Description Get approved payment claims ordered by payment date, most recent first.
// @Tags reports
// @Accept json
// @Produce json
// @Param limit query int false "Maximum rows" default(10)
// @Success 200 {object} utils.APIResponse{data=[]response.RecentPaymentItem} "Recent payments retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/reports/recent-payments [get]
func (h *ReportHandler) GetRecentPayments(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 100 {
			limit = v
		}
	}

	items, err := h.reportService.RecentApprovedPayments(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve recent payments")
		utils.InternalServerErrorResponse(c, "Failed to retrieve recent payments", err)
		return
	}

	utils.SuccessResponse(c, "Recent payments retrieved successfully", items)
}

// GetSnapshot retrieves the bundled reconciliation snapshot
// @Summary Get reconciliation snapshot
// @Description Get totals plus the monthly, billing type and class breakdowns in one response. Served from cache when available.
// @Tags reports
// @Accept json
// @Produce json
// @Param academic_year_id query int false "Filter by academic year"
// @Success 200 {object} utils.APIResponse{data=response.ReconciliationSnapshot} "Snapshot retrieved"
// @Failure 500 {object} utils.APIResponse "Internal server error"
// @Router /api/v1/reports/snapshot [get]
func (h *ReportHandler) GetSnapshot(c *gin.Context) {
	snapshot, err := h.reportService.Snapshot(c.Request.Context(), parseOptionalUintQuery(c, "academic_year_id"), time.Now())
	if err != nil {
		h.logger.WithError(err).Error("Failed to build reconciliation snapshot")
		utils.InternalServerErrorResponse(c, "Failed to build snapshot", err)
		return
	}

	utils.SuccessResponse(c, "Snapshot retrieved successfully", snapshot)
}
