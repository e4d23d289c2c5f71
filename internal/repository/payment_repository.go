package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"spp-be-svc/internal/apperrors"
	"spp-be-svc/internal/models"
)

// ClaimRow is one payment claim joined with student and billing type names
type ClaimRow struct {
	ID              uint               `json:"id" gorm:"column:id"`
	InvoiceID       uint               `json:"invoice_id" gorm:"column:invoice_id"`
	StudentID       uint               `json:"student_id" gorm:"column:student_id"`
	StudentName     string             `json:"student_name" gorm:"column:student_name"`
	BillingTypeName string             `json:"billing_type_name" gorm:"column:billing_type_name"`
	Amount          int64              `json:"amount" gorm:"column:amount"`
	PaymentDate     time.Time          `json:"payment_date" gorm:"column:payment_date"`
	PaymentMethod   string             `json:"payment_method" gorm:"column:payment_method"`
	Note            string             `json:"note" gorm:"column:note"`
	Status          models.ClaimStatus `json:"status" gorm:"column:status"`
	RejectReason    string             `json:"reject_reason,omitempty" gorm:"column:reject_reason"`
}

// PaymentRepository defines the interface for payment claim data operations.
//
// SubmitClaim, ApproveClaim and RejectClaim each run as one transaction so a
// reader never observes claim and invoice status disagreeing; the zero-row
// conditional update and the partial unique index are where the state-machine
// invariants are actually enforced.
type PaymentRepository interface {
	SubmitClaim(claim *models.PaymentClaim) error
	GetClaimByID(id uint) (*models.PaymentClaim, error)
	HasOpenClaim(invoiceID uint) (bool, error)
	ApproveClaim(claimID uint) (*models.PaymentClaim, error)
	RejectClaim(claimID uint, reason string) (*models.PaymentClaim, error)
	ListClaims(status *models.ClaimStatus, page, limit int) ([]*ClaimRow, int64, error)
}

// paymentRepository implements PaymentRepository
type paymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

// SubmitClaim inserts a pending claim after re-validating the invoice state
// under a row lock. The pre-checks done by the service are repeated here
// inside the transaction because they do not hold under concurrency on their
// own; the partial unique index on open claims is the final arbiter and a
// duplicated-key error from it is mapped to ErrDuplicateClaim.
func (r *paymentRepository) SubmitClaim(claim *models.PaymentClaim) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var invoice models.Invoice
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", claim.InvoiceID).
			First(&invoice).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if invoice.Status == models.InvoiceStatusPaid {
			return apperrors.ErrAlreadyPaid
		}

		var open int64
		err = tx.Model(&models.PaymentClaim{}).
			Where("invoice_id = ? AND status IN ?", claim.InvoiceID,
				[]models.ClaimStatus{models.ClaimStatusPending, models.ClaimStatusApproved}).
			Count(&open).Error
		if err != nil {
			return err
		}
		if open > 0 {
			return apperrors.ErrDuplicateClaim
		}

		if err := tx.Create(claim).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.ErrDuplicateClaim
			}
			return err
		}

		return nil
	})
}

// GetClaimByID retrieves a payment claim by ID
func (r *paymentRepository) GetClaimByID(id uint) (*models.PaymentClaim, error) {
	var claim models.PaymentClaim

	err := r.db.Where("id = ?", id).First(&claim).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return &claim, nil
}

// HasOpenClaim reports whether a pending or approved claim exists for the invoice
func (r *paymentRepository) HasOpenClaim(invoiceID uint) (bool, error) {
	var count int64

	err := r.db.Model(&models.PaymentClaim{}).
		Where("invoice_id = ? AND status IN ?", invoiceID,
			[]models.ClaimStatus{models.ClaimStatusPending, models.ClaimStatusApproved}).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// ApproveClaim transitions a pending claim to approved and the linked invoice
// to paid in one transaction. The conditional update serializes concurrent
// approvals: exactly one caller sees a row affected, the rest get
// ErrInvalidState.
func (r *paymentRepository) ApproveClaim(claimID uint) (*models.PaymentClaim, error) {
	var claim models.PaymentClaim

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PaymentClaim{}).
			Where("id = ? AND status = ?", claimID, models.ClaimStatusPending).
			Update("status", models.ClaimStatusApproved)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.classifyMissedUpdate(tx, claimID)
		}

		if err := tx.Where("id = ?", claimID).First(&claim).Error; err != nil {
			return err
		}

		return tx.Model(&models.Invoice{}).
			Where("id = ?", claim.InvoiceID).
			Update("status", models.InvoiceStatusPaid).Error
	})
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

// RejectClaim transitions a pending claim to rejected and records the reason.
// The invoice is left untouched so the student may submit a new claim.
func (r *paymentRepository) RejectClaim(claimID uint, reason string) (*models.PaymentClaim, error) {
	var claim models.PaymentClaim

	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.PaymentClaim{}).
			Where("id = ? AND status = ?", claimID, models.ClaimStatusPending).
			Updates(map[string]interface{}{
				"status":        models.ClaimStatusRejected,
				"reject_reason": reason,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return r.classifyMissedUpdate(tx, claimID)
		}

		return tx.Where("id = ?", claimID).First(&claim).Error
	})
	if err != nil {
		return nil, err
	}

	return &claim, nil
}

// classifyMissedUpdate distinguishes a missing claim from one that is no
// longer pending after a conditional update touched zero rows
func (r *paymentRepository) classifyMissedUpdate(tx *gorm.DB, claimID uint) error {
	var count int64
	if err := tx.Model(&models.PaymentClaim{}).Where("id = ?", claimID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrInvalidState
}

// ListClaims retrieves payment claims with an optional status filter and pagination
func (r *paymentRepository) ListClaims(status *models.ClaimStatus, page, limit int) ([]*ClaimRow, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 20
	}
	offset := (page - 1) * limit

	countQuery := "SELECT COUNT(*) FROM payment_claims pc WHERE 1 = 1"
	dataQuery := `
		SELECT
			pc.id,
			pc.invoice_id,
			pc.student_id,
			s.name AS student_name,
			bt.name AS billing_type_name,
			pc.amount,
			pc.payment_date,
			COALESCE(pc.payment_method, '') AS payment_method,
			COALESCE(pc.note, '') AS note,
			pc.status,
			COALESCE(pc.reject_reason, '') AS reject_reason
		FROM payment_claims pc
		JOIN students s ON s.id = pc.student_id
		JOIN invoices i ON i.id = pc.invoice_id
		JOIN billing_types bt ON bt.id = i.billing_type_id
		WHERE 1 = 1
	`

	var args []interface{}
	if status != nil {
		countQuery += " AND pc.status = ?"
		dataQuery += " AND pc.status = ?"
		args = append(args, *status)
	}

	var total int64
	if err := r.db.Raw(countQuery, args...).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	dataQuery += " ORDER BY pc.created_at DESC LIMIT ? OFFSET ?"
	dataArgs := append(append([]interface{}{}, args...), limit, offset)

	var rows []*ClaimRow
	if err := r.db.Raw(dataQuery, dataArgs...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}
