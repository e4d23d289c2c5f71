package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"spp-be-svc/internal/apperrors"
	"spp-be-svc/internal/cache"
	"spp-be-svc/internal/models"
	"spp-be-svc/internal/repository"
	"spp-be-svc/pkg/logger"
)

// SubmitPaymentParams holds the input of a payment claim submission
type SubmitPaymentParams struct {
	InvoiceID     uint
	StudentID     uint
	Amount        int64
	PaymentDate   time.Time
	PaymentMethod string
	Note          string
}

// PaymentService defines the payment claim workflow:
//
//	(none) --submit--> pending --approve--> approved
//	                      |
//	                      +----reject-----> rejected
//
// Approved and rejected are terminal. Approval also marks the linked invoice
// paid inside the same transaction, so claim and invoice status never disagree.
type PaymentService interface {
	SubmitPayment(params SubmitPaymentParams) (*models.PaymentClaim, error)
	ApprovePayment(claimID uint) (*models.PaymentClaim, error)
	RejectPayment(claimID uint, reason string) (*models.PaymentClaim, error)
	ListClaims(status *models.ClaimStatus, page, limit int) ([]*repository.ClaimRow, int64, error)
}

// paymentService implements PaymentService
type paymentService struct {
	paymentRepo   repository.PaymentRepository
	invoiceRepo   repository.InvoiceRepository
	directoryRepo repository.DirectoryRepository
	notifications NotificationService
	reportCache   *cache.ReportCache
	logger        *logger.Logger
}

// NewPaymentService creates a new instance of PaymentService
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	invoiceRepo repository.InvoiceRepository,
	directoryRepo repository.DirectoryRepository,
	notifications NotificationService,
	reportCache *cache.ReportCache,
	logger *logger.Logger,
) PaymentService {
	return &paymentService{
		paymentRepo:   paymentRepo,
		invoiceRepo:   invoiceRepo,
		directoryRepo: directoryRepo,
		notifications: notifications,
		reportCache:   reportCache,
		logger:        logger,
	}
}

// SubmitPayment validates and creates a pending claim for an invoice. The
// checks here run outside the insert transaction and are advisory; the
// repository repeats the state checks under a row lock and the partial unique
// index delivers the final verdict on duplicates.
func (s *paymentService) SubmitPayment(params SubmitPaymentParams) (*models.PaymentClaim, error) {
	invoice, err := s.invoiceRepo.GetByID(params.InvoiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: invoice", apperrors.ErrNotFound)
		}
		return nil, err
	}

	if invoice.StudentID != params.StudentID {
		return nil, apperrors.ErrForbidden
	}

	if invoice.Status == models.InvoiceStatusPaid {
		return nil, apperrors.ErrAlreadyPaid
	}

	if params.Amount < invoice.Amount {
		return nil, apperrors.ErrAmountTooLow
	}

	hasOpen, err := s.paymentRepo.HasOpenClaim(params.InvoiceID)
	if err != nil {
		return nil, err
	}
	if hasOpen {
		return nil, apperrors.ErrDuplicateClaim
	}

	paymentDate := params.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}

	claim := &models.PaymentClaim{
		DocumentID:    uuid.New().String(),
		InvoiceID:     params.InvoiceID,
		StudentID:     params.StudentID,
		Amount:        params.Amount,
		PaymentDate:   paymentDate,
		PaymentMethod: params.PaymentMethod,
		Note:          params.Note,
		Status:        models.ClaimStatusPending,
	}

	if err := s.paymentRepo.SubmitClaim(claim); err != nil {
		s.logger.WithError(err).WithField("invoice_id", params.InvoiceID).Warn("Payment claim submission refused")
		return nil, err
	}

	student, dirErr := s.directoryRepo.GetStudentByID(params.StudentID)
	studentName := fmt.Sprintf("Student #%d", params.StudentID)
	if dirErr == nil {
		studentName = student.Name
		s.notifications.NotifyUser(student.UserID,
			"Payment claim received",
			fmt.Sprintf("Your payment of %d for invoice #%d is awaiting review", claim.Amount, claim.InvoiceID),
			models.NotificationKindClaimReceived,
		)
	}
	s.notifications.PublishPaymentAwaitingReview(claim, studentName)

	s.logger.WithFields(map[string]interface{}{
		"claim_id":   claim.ID,
		"invoice_id": claim.InvoiceID,
		"student_id": claim.StudentID,
		"amount":     claim.Amount,
	}).Info("Payment claim submitted")

	return claim, nil
}

// ApprovePayment transitions a pending claim to approved and the invoice to
// paid. Concurrent approvals of the same claim are serialized by the
// repository's conditional update; the losers receive ErrInvalidState.
func (s *paymentService) ApprovePayment(claimID uint) (*models.PaymentClaim, error) {
	claim, err := s.paymentRepo.ApproveClaim(claimID)
	if err != nil {
		return nil, err
	}

	s.reportCache.Invalidate(context.Background())

	if student, dirErr := s.directoryRepo.GetStudentByID(claim.StudentID); dirErr == nil {
		s.notifications.NotifyUser(student.UserID,
			"Payment approved",
			fmt.Sprintf("Your payment of %d for invoice #%d has been approved", claim.Amount, claim.InvoiceID),
			models.NotificationKindClaimApproved,
		)
	}

	s.logger.WithFields(map[string]interface{}{
		"claim_id":   claim.ID,
		"invoice_id": claim.InvoiceID,
	}).Info("Payment claim approved")

	return claim, nil
}

// RejectPayment transitions a pending claim to rejected, keeping the invoice
// payable so the student may submit a new claim
func (s *paymentService) RejectPayment(claimID uint, reason string) (*models.PaymentClaim, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, apperrors.ErrMissingReason
	}

	claim, err := s.paymentRepo.RejectClaim(claimID, reason)
	if err != nil {
		return nil, err
	}

	if student, dirErr := s.directoryRepo.GetStudentByID(claim.StudentID); dirErr == nil {
		s.notifications.NotifyUser(student.UserID,
			"Payment rejected",
			fmt.Sprintf("Your payment for invoice #%d was rejected: %s", claim.InvoiceID, reason),
			models.NotificationKindClaimRejected,
		)
	}

	s.logger.WithFields(map[string]interface{}{
		"claim_id":   claim.ID,
		"invoice_id": claim.InvoiceID,
		"reason":     reason,
	}).Info("Payment claim rejected")

	return claim, nil
}

// ListClaims retrieves payment claims with an optional status filter
func (s *paymentService) ListClaims(status *models.ClaimStatus, page, limit int) ([]*repository.ClaimRow, int64, error) {
	return s.paymentRepo.ListClaims(status, page, limit)
}
