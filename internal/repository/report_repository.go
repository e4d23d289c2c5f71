package repository

import (
	"time"

	"gorm.io/gorm"

	"spp-be-svc/internal/models"
)

// TotalsRow holds the aggregate sums of the reconciliation totals
type TotalsRow struct {
	Invoiced int64 `gorm:"column:invoiced"`
	Realized int64 `gorm:"column:realized"`
	Pending  int64 `gorm:"column:pending"`
	Overdue  int64 `gorm:"column:overdue"`
}

// MonthAmountRow is one month bucket of a monthly series
type MonthAmountRow struct {
	Month  int   `gorm:"column:month"`
	Amount int64 `gorm:"column:amount"`
}

// GroupRow is one target/realized pair for a billing type or class
type GroupRow struct {
	ID       uint   `gorm:"column:id"`
	Name     string `gorm:"column:name"`
	Target   int64  `gorm:"column:target"`
	Realized int64  `gorm:"column:realized"`
}

// OverdueRow is one overdue candidate: a pending invoice with a passed due date
type OverdueRow struct {
	InvoiceID       uint                 `gorm:"column:invoice_id"`
	StudentID       uint                 `gorm:"column:student_id"`
	StudentName     string               `gorm:"column:student_name"`
	ClassName       string               `gorm:"column:class_name"`
	BillingTypeName string               `gorm:"column:billing_type_name"`
	Amount          int64                `gorm:"column:amount"`
	DueDate         time.Time            `gorm:"column:due_date"`
	Status          models.InvoiceStatus `gorm:"column:status"`
}

// RecentClaimRow is one approved claim for the recent payments listing
type RecentClaimRow struct {
	ClaimID         uint      `gorm:"column:claim_id"`
	InvoiceID       uint      `gorm:"column:invoice_id"`
	StudentName     string    `gorm:"column:student_name"`
	BillingTypeName string    `gorm:"column:billing_type_name"`
	Amount          int64     `gorm:"column:amount"`
	PaymentDate     time.Time `gorm:"column:payment_date"`
	PaymentMethod   string    `gorm:"column:payment_method"`
}

// ReportRepository defines the read-side aggregation over the invoice and
// payment stores. Grouping and summing run in SQL; the grouping keys, the
// dual time axes and the percentage semantics live in the report service.
type ReportRepository interface {
	Totals(academicYearID *uint, asOf time.Time) (*TotalsRow, error)
	MonthlyTargets(academicYearID *uint) ([]*MonthAmountRow, error)
	MonthlyRealized(academicYearID *uint) ([]*MonthAmountRow, error)
	GroupByBillingType(academicYearID *uint) ([]*GroupRow, error)
	GroupByClass(academicYearID *uint) ([]*GroupRow, error)
	OverdueInvoices(academicYearID *uint, asOf time.Time, limit int) ([]*OverdueRow, error)
	RecentApprovedClaims(limit int) ([]*RecentClaimRow, error)
}

// reportRepository implements ReportRepository
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new instance of ReportRepository
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{
		db: db,
	}
}

// Totals computes the invoiced/realized/pending/overdue sums in one pass per
// store. The overdue predicate (status pending AND due_date strictly before
// asOf) mirrors models.ComputeEffectiveStatus.
func (r *reportRepository) Totals(academicYearID *uint, asOf time.Time) (*TotalsRow, error) {
	var result TotalsRow

	invoiceQuery := `
		SELECT
			COALESCE(SUM(i.amount), 0) AS invoiced,
			COALESCE(SUM(i.amount) FILTER (WHERE i.status = 'pending'), 0) AS pending,
			COALESCE(SUM(i.amount) FILTER (WHERE i.status = 'pending' AND i.due_date < ?), 0) AS overdue
		FROM invoices i
	`
	args := []interface{}{asOf}
	if academicYearID != nil {
		invoiceQuery += " WHERE i.academic_year_id = ?"
		args = append(args, *academicYearID)
	}

	if err := r.db.Raw(invoiceQuery, args...).Scan(&result).Error; err != nil {
		return nil, err
	}

	realizedQuery := `
		SELECT COALESCE(SUM(pc.amount), 0) AS realized
		FROM payment_claims pc
		JOIN invoices i ON i.id = pc.invoice_id
		WHERE pc.status = 'approved'
	`
	var realizedArgs []interface{}
	if academicYearID != nil {
		realizedQuery += " AND i.academic_year_id = ?"
		realizedArgs = append(realizedArgs, *academicYearID)
	}

	var realized struct {
		Realized int64 `gorm:"column:realized"`
	}
	if err := r.db.Raw(realizedQuery, realizedArgs...).Scan(&realized).Error; err != nil {
		return nil, err
	}
	result.Realized = realized.Realized

	return &result, nil
}

// MonthlyTargets sums invoice amounts grouped by invoice creation month
func (r *reportRepository) MonthlyTargets(academicYearID *uint) ([]*MonthAmountRow, error) {
	query := `
		SELECT
			EXTRACT(MONTH FROM i.created_at)::int AS month,
			COALESCE(SUM(i.amount), 0) AS amount
		FROM invoices i
	`
	var args []interface{}
	if academicYearID != nil {
		query += " WHERE i.academic_year_id = ?"
		args = append(args, *academicYearID)
	}
	query += " GROUP BY 1 ORDER BY 1"

	var rows []*MonthAmountRow
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// MonthlyRealized sums approved claim amounts grouped by payment month.
// This is deliberately a different time axis than MonthlyTargets: an invoice
// created in month M may be paid in month M+k.
func (r *reportRepository) MonthlyRealized(academicYearID *uint) ([]*MonthAmountRow, error) {
	query := `
		SELECT
			EXTRACT(MONTH FROM pc.payment_date)::int AS month,
			COALESCE(SUM(pc.amount), 0) AS amount
		FROM payment_claims pc
		JOIN invoices i ON i.id = pc.invoice_id
		WHERE pc.status = 'approved'
	`
	var args []interface{}
	if academicYearID != nil {
		query += " AND i.academic_year_id = ?"
		args = append(args, *academicYearID)
	}
	query += " GROUP BY 1 ORDER BY 1"

	var rows []*MonthAmountRow
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// GroupByBillingType sums invoice targets and approved-claim realizations per
// billing type. At most one approved claim exists per invoice, so the claim
// join cannot fan out invoice rows.
func (r *reportRepository) GroupByBillingType(academicYearID *uint) ([]*GroupRow, error) {
	query := `
		SELECT
			bt.id,
			bt.name,
			COALESCE(SUM(i.amount), 0) AS target,
			COALESCE(SUM(pc.amount), 0) AS realized
		FROM billing_types bt
		LEFT JOIN invoices i ON i.billing_type_id = bt.id
	`
	var args []interface{}
	if academicYearID != nil {
		query += " AND i.academic_year_id = ?"
		args = append(args, *academicYearID)
	}
	query += `
		LEFT JOIN payment_claims pc ON pc.invoice_id = i.id AND pc.status = 'approved'
		GROUP BY bt.id, bt.name
		ORDER BY bt.name
	`

	var rows []*GroupRow
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// GroupByClass sums invoice targets and approved-claim realizations per class,
// resolving the class through the student owning each invoice
func (r *reportRepository) GroupByClass(academicYearID *uint) ([]*GroupRow, error) {
	query := `
		SELECT
			c.id,
			c.name,
			COALESCE(SUM(i.amount), 0) AS target,
			COALESCE(SUM(pc.amount), 0) AS realized
		FROM classes c
		LEFT JOIN students s ON s.class_id = c.id
		LEFT JOIN invoices i ON i.student_id = s.id
	`
	var args []interface{}
	if academicYearID != nil {
		query += " AND i.academic_year_id = ?"
		args = append(args, *academicYearID)
	}
	query += `
		LEFT JOIN payment_claims pc ON pc.invoice_id = i.id AND pc.status = 'approved'
		GROUP BY c.id, c.name
		ORDER BY c.name
	`

	var rows []*GroupRow
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// OverdueInvoices retrieves pending invoices whose due date passed before
// asOf, soonest due first. The predicate mirrors models.ComputeEffectiveStatus
// and the service re-applies that rule over the returned rows.
func (r *reportRepository) OverdueInvoices(academicYearID *uint, asOf time.Time, limit int) ([]*OverdueRow, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			i.id AS invoice_id,
			i.student_id,
			s.name AS student_name,
			COALESCE(c.name, '') AS class_name,
			bt.name AS billing_type_name,
			i.amount,
			i.due_date,
			i.status
		FROM invoices i
		JOIN students s ON s.id = i.student_id
		LEFT JOIN classes c ON c.id = s.class_id
		JOIN billing_types bt ON bt.id = i.billing_type_id
		WHERE i.status = 'pending' AND i.due_date < ?
	`
	args := []interface{}{asOf}
	if academicYearID != nil {
		query += " AND i.academic_year_id = ?"
		args = append(args, *academicYearID)
	}
	query += " ORDER BY i.due_date ASC LIMIT ?"
	args = append(args, limit)

	var rows []*OverdueRow
	if err := r.db.Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}

// RecentApprovedClaims retrieves approved claims, most recent payment first
func (r *reportRepository) RecentApprovedClaims(limit int) ([]*RecentClaimRow, error) {
	if limit <= 0 {
		limit = 10
	}

	query := `
		SELECT
			pc.id AS claim_id,
			pc.invoice_id,
			s.name AS student_name,
			bt.name AS billing_type_name,
			pc.amount,
			pc.payment_date,
			COALESCE(pc.payment_method, '') AS payment_method
		FROM payment_claims pc
		JOIN students s ON s.id = pc.student_id
		JOIN invoices i ON i.id = pc.invoice_id
		JOIN billing_types bt ON bt.id = i.billing_type_id
		WHERE pc.status = 'approved'
		ORDER BY pc.payment_date DESC, pc.id DESC
		LIMIT ?
	`

	var rows []*RecentClaimRow
	if err := r.db.Raw(query, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
