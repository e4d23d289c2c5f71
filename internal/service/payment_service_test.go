package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spp-be-svc/internal/apperrors"
	"spp-be-svc/internal/models"
)

func newPaymentServiceForTest() (PaymentService, *fakePaymentRepo, *fakeInvoiceRepo, *fakeDirectoryRepo, *fakeNotifier) {
	paymentRepo := newFakePaymentRepo()
	invoiceRepo := newFakeInvoiceRepo()
	directoryRepo := newFakeDirectoryRepo()
	notifier := &fakeNotifier{}

	svc := NewPaymentService(paymentRepo, invoiceRepo, directoryRepo, notifier, disabledCache(), testLogger())
	return svc, paymentRepo, invoiceRepo, directoryRepo, notifier
}

func seedInvoice(invoiceRepo *fakeInvoiceRepo, studentID uint, amount int64, status models.InvoiceStatus) *models.Invoice {
	invoice := &models.Invoice{
		ID:        uint(len(invoiceRepo.invoices) + 1),
		StudentID: studentID,
		Amount:    amount,
		DueDate:   time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		Status:    status,
	}
	invoiceRepo.invoices[invoice.ID] = invoice
	return invoice
}

func TestSubmitPayment(t *testing.T) {
	t.Run("creates a pending claim and notifies both sides", func(t *testing.T) {
		svc, paymentRepo, invoiceRepo, directoryRepo, notifier := newPaymentServiceForTest()
		invoice := seedInvoice(invoiceRepo, 7, 500000, models.InvoiceStatusPending)
		directoryRepo.students[7] = &models.Student{ID: 7, Name: "Aisyah", UserID: 70}

		claim, err := svc.SubmitPayment(SubmitPaymentParams{
			InvoiceID:     invoice.ID,
			StudentID:     7,
			Amount:        500000,
			PaymentMethod: "transfer",
		})

		require.NoError(t, err)
		assert.Equal(t, models.ClaimStatusPending, claim.Status)
		assert.False(t, claim.PaymentDate.IsZero(), "payment date defaults to submission time")
		assert.Len(t, paymentRepo.submitted, 1)
		assert.Equal(t, []uint{70}, notifier.userNotices)
		assert.Equal(t, 1, notifier.adminNotices)
	})

	t.Run("rejects a claim from a non-owner", func(t *testing.T) {
		svc, _, invoiceRepo, _, _ := newPaymentServiceForTest()
		invoice := seedInvoice(invoiceRepo, 7, 500000, models.InvoiceStatusPending)

		_, err := svc.SubmitPayment(SubmitPaymentParams{
			InvoiceID: invoice.ID,
			StudentID: 8,
			Amount:    500000,
		})
		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})

	t.Run("rejects a claim on an unknown invoice", func(t *testing.T) {
		svc, _, _, _, _ := newPaymentServiceForTest()

		_, err := svc.SubmitPayment(SubmitPaymentParams{
			InvoiceID: 404,
			StudentID: 7,
			Amount:    500000,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("rejects a claim on a paid invoice", func(t *testing.T) {
		svc, _, invoiceRepo, _, _ := newPaymentServiceForTest()
		invoice := seedInvoice(invoiceRepo, 7, 500000, models.InvoiceStatusPaid)

		_, err := svc.SubmitPayment(SubmitPaymentParams{
			InvoiceID: invoice.ID,
			StudentID: 7,
			Amount:    500000,
		})
		assert.ErrorIs(t, err, apperrors.ErrAlreadyPaid)
	})

	t.Run("rejects an amount below the invoice amount", func(t *testing.T) {
		svc, _, invoiceRepo, _, _ := newPaymentServiceForTest()
		invoice := seedInvoice(invoiceRepo, 7, 500000, models.InvoiceStatusPending)

		_, err := svc.SubmitPayment(SubmitPaymentParams{
			InvoiceID: invoice.ID,
			StudentID: 7,
			Amount:    499999,
		})
		assert.ErrorIs(t, err, apperrors.ErrAmountTooLow)
	})

	t.Run("rejects a second claim while one is open", func(t *testing.T) {
		svc, paymentRepo, invoiceRepo, directoryRepo, _ := newPaymentServiceForTest()
		invoice := seedInvoice(invoiceRepo, 7, 500000, models.InvoiceStatusPending)
		directoryRepo.students[7] = &models.Student{ID: 7, UserID: 70}
		paymentRepo.openClaims[invoice.ID] = true

		_, err := svc.SubmitPayment(SubmitPaymentParams{
			InvoiceID: invoice.ID,
			StudentID: 7,
			Amount:    500000,
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateClaim)
	})

	t.Run("surfaces the storage verdict when the insert loses a race", func(t *testing.T) {
		svc, paymentRepo, invoiceRepo, directoryRepo, _ := newPaymentServiceForTest()
		invoice := seedInvoice(invoiceRepo, 7, 500000, models.InvoiceStatusPending)
		directoryRepo.students[7] = &models.Student{ID: 7, UserID: 70}
		paymentRepo.submitErr = apperrors.ErrDuplicateClaim

		_, err := svc.SubmitPayment(SubmitPaymentParams{
			InvoiceID: invoice.ID,
			StudentID: 7,
			Amount:    500000,
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateClaim)
	})
}

func TestApprovePayment(t *testing.T) {
	t.Run("approves a pending claim and notifies the student", func(t *testing.T) {
		svc, paymentRepo, _, directoryRepo, notifier := newPaymentServiceForTest()
		directoryRepo.students[7] = &models.Student{ID: 7, UserID: 70}
		paymentRepo.approveFn = func(claimID uint) (*models.PaymentClaim, error) {
			return &models.PaymentClaim{ID: claimID, InvoiceID: 1, StudentID: 7, Amount: 500000, Status: models.ClaimStatusApproved}, nil
		}

		claim, err := svc.ApprovePayment(5)

		require.NoError(t, err)
		assert.Equal(t, models.ClaimStatusApproved, claim.Status)
		assert.Equal(t, []uint{70}, notifier.userNotices)
	})

	t.Run("passes through the conflict when the claim is not pending", func(t *testing.T) {
		svc, paymentRepo, _, _, _ := newPaymentServiceForTest()
		paymentRepo.approveFn = func(claimID uint) (*models.PaymentClaim, error) {
			return nil, apperrors.ErrInvalidState
		}

		_, err := svc.ApprovePayment(5)
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})

	t.Run("passes through not-found for an unknown claim", func(t *testing.T) {
		svc, paymentRepo, _, _, _ := newPaymentServiceForTest()
		paymentRepo.approveFn = func(claimID uint) (*models.PaymentClaim, error) {
			return nil, apperrors.ErrNotFound
		}

		_, err := svc.ApprovePayment(404)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRejectPayment(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		svc, _, _, _, _ := newPaymentServiceForTest()

		_, err := svc.RejectPayment(5, "   ")
		assert.ErrorIs(t, err, apperrors.ErrMissingReason)
	})

	t.Run("rejects a pending claim with the reason recorded", func(t *testing.T) {
		svc, paymentRepo, _, directoryRepo, notifier := newPaymentServiceForTest()
		directoryRepo.students[7] = &models.Student{ID: 7, UserID: 70}

		var gotReason string
		paymentRepo.rejectFn = func(claimID uint, reason string) (*models.PaymentClaim, error) {
			gotReason = reason
			return &models.PaymentClaim{ID: claimID, InvoiceID: 1, StudentID: 7, Status: models.ClaimStatusRejected, RejectReason: reason}, nil
		}

		claim, err := svc.RejectPayment(5, "wrong transfer slip")

		require.NoError(t, err)
		assert.Equal(t, models.ClaimStatusRejected, claim.Status)
		assert.Equal(t, "wrong transfer slip", gotReason)
		assert.Equal(t, []uint{70}, notifier.userNotices)
	})

	t.Run("passes through the conflict when the claim is terminal", func(t *testing.T) {
		svc, paymentRepo, _, _, _ := newPaymentServiceForTest()
		paymentRepo.rejectFn = func(claimID uint, reason string) (*models.PaymentClaim, error) {
			return nil, apperrors.ErrInvalidState
		}

		_, err := svc.RejectPayment(5, "already settled")
		assert.ErrorIs(t, err, apperrors.ErrInvalidState)
	})
}
