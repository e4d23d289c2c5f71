package repository

import (
	"time"

	"gorm.io/gorm"

	"spp-be-svc/internal/models"
)

// InvoiceFilter holds the optional filters of the invoice register. AsOf is
// the reference instant for the derived overdue status; the status filter is
// rewritten against it since overdue is never stored.
type InvoiceFilter struct {
	AcademicYearID *uint
	ClassID        *uint
	BillingTypeID  *uint
	StudentID      *uint
	Status         *models.InvoiceStatus
	Search         string
	AsOf           time.Time
	Page           int
	Limit          int
}

// InvoiceRegisterRow is one invoice joined with student, class and billing
// type names. Status is the stored status; the effective (overdue) status is
// derived by the service from DueDate.
type InvoiceRegisterRow struct {
	ID              uint          `gorm:"column:id"`
	StudentID       uint          `gorm:"column:student_id"`
	StudentName     string        `gorm:"column:student_name"`
	NIS             string        `gorm:"column:nis"`
	ClassName       string        `gorm:"column:class_name"`
	BillingTypeName string        `gorm:"column:billing_type_name"`
	Amount          int64         `gorm:"column:amount"`
	DueDate         time.Time     `gorm:"column:due_date"`
	Status          models.InvoiceStatus `gorm:"column:status"`
	Description     string        `gorm:"column:description"`
}

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(invoice *models.Invoice) error
	CreateBatch(invoices []*models.Invoice) error
	GetByID(id uint) (*models.Invoice, error)
	HasPendingInvoice(studentID, billingTypeID uint) (bool, error)
	PendingStudentIDs(studentIDs []uint, billingTypeID uint) (map[uint]bool, error)
	ListByStudent(studentID uint, academicYearID *uint) ([]*models.Invoice, error)
	ListRegister(filter InvoiceFilter) ([]*InvoiceRegisterRow, int64, error)
	ListForExport(filter InvoiceFilter) ([]*InvoiceRegisterRow, error)
}

// invoiceRepository implements InvoiceRepository
type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new instance of InvoiceRepository
func NewInvoiceRepository(db *gorm.DB) InvoiceRepository {
	return &invoiceRepository{
		db: db,
	}
}

// Create inserts a single invoice. The partial unique index on
// (student_id, billing_type_id) WHERE status = 'pending' surfaces concurrent
// duplicates as gorm.ErrDuplicatedKey.
func (r *invoiceRepository) Create(invoice *models.Invoice) error {
	return r.db.Create(invoice).Error
}

// CreateBatch inserts invoices as one atomic batch
func (r *invoiceRepository) CreateBatch(invoices []*models.Invoice) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(invoices, 100).Error
	})
}

// GetByID retrieves an invoice record by ID
func (r *invoiceRepository) GetByID(id uint) (*models.Invoice, error) {
	var invoice models.Invoice

	err := r.db.Where("id = ?", id).First(&invoice).Error
	if err != nil {
		return nil, err
	}

	return &invoice, nil
}

// HasPendingInvoice reports whether a pending invoice exists for the given
// student and billing type
func (r *invoiceRepository) HasPendingInvoice(studentID, billingTypeID uint) (bool, error) {
	var count int64

	err := r.db.Model(&models.Invoice{}).
		Where("student_id = ? AND billing_type_id = ? AND status = ?", studentID, billingTypeID, models.InvoiceStatusPending).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// PendingStudentIDs returns, out of the given student IDs, the set that
// already has a pending invoice for the billing type. Used by the bulk
// validation pass before any commit.
func (r *invoiceRepository) PendingStudentIDs(studentIDs []uint, billingTypeID uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	if len(studentIDs) == 0 {
		return result, nil
	}

	var ids []uint
	err := r.db.Model(&models.Invoice{}).
		Where("student_id IN ? AND billing_type_id = ? AND status = ?", studentIDs, billingTypeID, models.InvoiceStatusPending).
		Pluck("student_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		result[id] = true
	}

	return result, nil
}

// ListByStudent retrieves all invoices of one student, newest first
func (r *invoiceRepository) ListByStudent(studentID uint, academicYearID *uint) ([]*models.Invoice, error) {
	var invoices []*models.Invoice

	query := r.db.Where("student_id = ?", studentID)
	if academicYearID != nil {
		query = query.Where("academic_year_id = ?", *academicYearID)
	}

	err := query.Order("due_date DESC").Find(&invoices).Error
	if err != nil {
		return nil, err
	}

	return invoices, nil
}

const invoiceRegisterBaseQuery = `
	SELECT
		i.id,
		i.student_id,
		s.name AS student_name,
		COALESCE(s.nis, '') AS nis,
		COALESCE(c.name, '') AS class_name,
		bt.name AS billing_type_name,
		i.amount,
		i.due_date,
		i.status,
		COALESCE(i.description, '') AS description
	FROM invoices i
	JOIN students s ON s.id = i.student_id
	LEFT JOIN classes c ON c.id = s.class_id
	JOIN billing_types bt ON bt.id = i.billing_type_id
	WHERE 1 = 1
`

func appendInvoiceFilters(query string, args []interface{}, filter InvoiceFilter) (string, []interface{}) {
	if filter.AcademicYearID != nil {
		query += " AND i.academic_year_id = ?"
		args = append(args, *filter.AcademicYearID)
	}
	if filter.ClassID != nil {
		query += " AND s.class_id = ?"
		args = append(args, *filter.ClassID)
	}
	if filter.BillingTypeID != nil {
		query += " AND i.billing_type_id = ?"
		args = append(args, *filter.BillingTypeID)
	}
	if filter.StudentID != nil {
		query += " AND i.student_id = ?"
		args = append(args, *filter.StudentID)
	}
	if filter.Status != nil {
		asOf := filter.AsOf
		if asOf.IsZero() {
			asOf = time.Now()
		}
		// Mirrors models.ComputeEffectiveStatus: overdue is pending with a
		// passed due date, so the pending filter must exclude those rows.
		switch *filter.Status {
		case models.InvoiceStatusOverdue:
			query += " AND i.status = ? AND i.due_date < ?"
			args = append(args, models.InvoiceStatusPending, asOf)
		case models.InvoiceStatusPending:
			query += " AND i.status = ? AND i.due_date >= ?"
			args = append(args, models.InvoiceStatusPending, asOf)
		default:
			query += " AND i.status = ?"
			args = append(args, *filter.Status)
		}
	}
	if filter.Search != "" {
		query += " AND (s.name ILIKE ? OR s.nis ILIKE ?)"
		args = append(args, "%"+filter.Search+"%", "%"+filter.Search+"%")
	}
	return query, args
}

// ListRegister retrieves the invoice register with filters and pagination
func (r *invoiceRepository) ListRegister(filter InvoiceFilter) ([]*InvoiceRegisterRow, int64, error) {
	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	countQuery := `
		SELECT COUNT(*)
		FROM invoices i
		JOIN students s ON s.id = i.student_id
		LEFT JOIN classes c ON c.id = s.class_id
		JOIN billing_types bt ON bt.id = i.billing_type_id
		WHERE 1 = 1
	`
	countQuery, countArgs := appendInvoiceFilters(countQuery, nil, filter)

	var total int64
	if err := r.db.Raw(countQuery, countArgs...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dataQuery, dataArgs := appendInvoiceFilters(invoiceRegisterBaseQuery, nil, filter)
	dataQuery += " ORDER BY i.due_date DESC, i.id DESC LIMIT ? OFFSET ?"
	dataArgs = append(dataArgs, limit, offset)

	var rows []*InvoiceRegisterRow
	if err := r.db.Raw(dataQuery, dataArgs...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ListForExport retrieves the full invoice register without pagination
func (r *invoiceRepository) ListForExport(filter InvoiceFilter) ([]*InvoiceRegisterRow, error) {
	dataQuery, dataArgs := appendInvoiceFilters(invoiceRegisterBaseQuery, nil, filter)
	dataQuery += " ORDER BY c.name, s.name, i.due_date"

	var rows []*InvoiceRegisterRow
	if err := r.db.Raw(dataQuery, dataArgs...).Scan(&rows).Error; err != nil {
		return nil, err
	}

	return rows, nil
}
