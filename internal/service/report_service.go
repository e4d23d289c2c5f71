package service

import (
	"context"
	"math"
	"time"

	"spp-be-svc/internal/cache"
	"spp-be-svc/internal/models"
	"spp-be-svc/internal/models/response"
	"spp-be-svc/internal/repository"
	"spp-be-svc/pkg/logger"
)

// ReportService is the reconciliation reporting engine: a pure read side over
// the invoice and payment stores. Sums run in SQL; the percentage formula,
// the twelve-month bucketing and the overdue rule are applied here so the
// semantics stay in one place regardless of storage.
type ReportService interface {
	Totals(academicYearID *uint, asOf time.Time) (*response.TotalsResponse, error)
	BreakdownByMonth(academicYearID *uint) ([]response.MonthlyBreakdownItem, error)
	BreakdownByBillingType(academicYearID *uint) ([]response.GroupBreakdownItem, error)
	BreakdownByClass(academicYearID *uint) ([]response.GroupBreakdownItem, error)
	TopOverdue(academicYearID *uint, limit int, asOf time.Time) ([]response.OverdueInvoiceItem, error)
	RecentApprovedPayments(limit int) ([]response.RecentPaymentItem, error)
	Snapshot(ctx context.Context, academicYearID *uint, asOf time.Time) (*response.ReconciliationSnapshot, error)
}

// reportService implements ReportService
type reportService struct {
	reportRepo  repository.ReportRepository
	reportCache *cache.ReportCache
	logger      *logger.Logger
}

// NewReportService creates a new instance of ReportService
func NewReportService(reportRepo repository.ReportRepository, reportCache *cache.ReportCache, logger *logger.Logger) ReportService {
	return &reportService{
		reportRepo:  reportRepo,
		reportCache: reportCache,
		logger:      logger,
	}
}

// Totals computes the invoiced/realized/pending/overdue sums. All aggregates
// default to zero on empty data.
func (s *reportService) Totals(academicYearID *uint, asOf time.Time) (*response.TotalsResponse, error) {
	row, err := s.reportRepo.Totals(academicYearID, asOf)
	if err != nil {
		return nil, err
	}

	return &response.TotalsResponse{
		Invoiced: row.Invoiced,
		Realized: row.Realized,
		Pending:  row.Pending,
		Overdue:  row.Overdue,
	}, nil
}

// BreakdownByMonth returns all twelve calendar months. Target is keyed by
// invoice creation month and realized by payment month; an invoice created in
// month M may be paid in month M+k, so the two series do not reconcile
// bucket-for-bucket and are not meant to.
func (s *reportService) BreakdownByMonth(academicYearID *uint) ([]response.MonthlyBreakdownItem, error) {
	targets, err := s.reportRepo.MonthlyTargets(academicYearID)
	if err != nil {
		return nil, err
	}

	realized, err := s.reportRepo.MonthlyRealized(academicYearID)
	if err != nil {
		return nil, err
	}

	items := make([]response.MonthlyBreakdownItem, 12)
	for i := range items {
		items[i].Month = i + 1
	}
	for _, row := range targets {
		if row.Month >= 1 && row.Month <= 12 {
			items[row.Month-1].Target = row.Amount
		}
	}
	for _, row := range realized {
		if row.Month >= 1 && row.Month <= 12 {
			items[row.Month-1].Realized = row.Amount
		}
	}

	return items, nil
}

// BreakdownByBillingType returns target vs realization per billing type
func (s *reportService) BreakdownByBillingType(academicYearID *uint) ([]response.GroupBreakdownItem, error) {
	rows, err := s.reportRepo.GroupByBillingType(academicYearID)
	if err != nil {
		return nil, err
	}

	return groupRowsToItems(rows), nil
}

// BreakdownByClass returns target vs realization per class
func (s *reportService) BreakdownByClass(academicYearID *uint) ([]response.GroupBreakdownItem, error) {
	rows, err := s.reportRepo.GroupByClass(academicYearID)
	if err != nil {
		return nil, err
	}

	return groupRowsToItems(rows), nil
}

// TopOverdue lists overdue invoices, soonest due first, truncated to limit.
// Rows are re-checked through the canonical overdue rule before inclusion.
func (s *reportService) TopOverdue(academicYearID *uint, limit int, asOf time.Time) ([]response.OverdueInvoiceItem, error) {
	rows, err := s.reportRepo.OverdueInvoices(academicYearID, asOf, limit)
	if err != nil {
		return nil, err
	}

	items := make([]response.OverdueInvoiceItem, 0, len(rows))
	for _, row := range rows {
		invoice := &models.Invoice{Status: row.Status, DueDate: row.DueDate}
		if models.ComputeEffectiveStatus(invoice, asOf) != models.InvoiceStatusOverdue {
			continue
		}
		items = append(items, response.OverdueInvoiceItem{
			InvoiceID:       row.InvoiceID,
			StudentID:       row.StudentID,
			StudentName:     row.StudentName,
			ClassName:       row.ClassName,
			BillingTypeName: row.BillingTypeName,
			Amount:          row.Amount,
			DueDate:         row.DueDate.Format("2006-01-02"),
		})
	}

	return items, nil
}

// RecentApprovedPayments lists approved claims, most recent payment first
func (s *reportService) RecentApprovedPayments(limit int) ([]response.RecentPaymentItem, error) {
	rows, err := s.reportRepo.RecentApprovedClaims(limit)
	if err != nil {
		return nil, err
	}

	items := make([]response.RecentPaymentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, response.RecentPaymentItem{
			ClaimID:         row.ClaimID,
			InvoiceID:       row.InvoiceID,
			StudentName:     row.StudentName,
			BillingTypeName: row.BillingTypeName,
			Amount:          row.Amount,
			PaymentDate:     row.PaymentDate.Format("2006-01-02"),
			PaymentMethod:   row.PaymentMethod,
		})
	}

	return items, nil
}

// Snapshot bundles totals and the three breakdowns for one filter, served
// from the cache when a fresh copy exists. The cache is invalidated by the
// invoice and payment workflows on every mutation.
func (s *reportService) Snapshot(ctx context.Context, academicYearID *uint, asOf time.Time) (*response.ReconciliationSnapshot, error) {
	if cached, ok := s.reportCache.GetSnapshot(ctx, academicYearID); ok {
		return cached, nil
	}

	totals, err := s.Totals(academicYearID, asOf)
	if err != nil {
		return nil, err
	}

	byMonth, err := s.BreakdownByMonth(academicYearID)
	if err != nil {
		return nil, err
	}

	byBillingType, err := s.BreakdownByBillingType(academicYearID)
	if err != nil {
		return nil, err
	}

	byClass, err := s.BreakdownByClass(academicYearID)
	if err != nil {
		return nil, err
	}

	snapshot := &response.ReconciliationSnapshot{
		Totals:        *totals,
		ByMonth:       byMonth,
		ByBillingType: byBillingType,
		ByClass:       byClass,
	}

	s.reportCache.SetSnapshot(ctx, academicYearID, snapshot)

	return snapshot, nil
}

// realizationPercentage computes realized/target*100 rounded to two decimals,
// defined as 0 when target is 0
func realizationPercentage(realized, target int64) float64 {
	if target == 0 {
		return 0
	}
	return math.Round(float64(realized)/float64(target)*10000) / 100
}

func groupRowsToItems(rows []*repository.GroupRow) []response.GroupBreakdownItem {
	items := make([]response.GroupBreakdownItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, response.GroupBreakdownItem{
			ID:         row.ID,
			Name:       row.Name,
			Target:     row.Target,
			Realized:   row.Realized,
			Percentage: realizationPercentage(row.Realized, row.Target),
		})
	}
	return items
}
