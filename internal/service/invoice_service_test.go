package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spp-be-svc/internal/apperrors"
	"spp-be-svc/internal/models"
)

func newInvoiceServiceForTest() (InvoiceService, *fakeInvoiceRepo, *fakeBillingTypeRepo, *fakeAcademicYearRepo, *fakeDirectoryRepo, *fakeNotifier) {
	invoiceRepo := newFakeInvoiceRepo()
	billingTypeRepo := newFakeBillingTypeRepo()
	academicYearRepo := newFakeAcademicYearRepo()
	directoryRepo := newFakeDirectoryRepo()
	notifier := &fakeNotifier{}

	svc := NewInvoiceService(invoiceRepo, billingTypeRepo, academicYearRepo, directoryRepo, notifier, disabledCache(), testLogger())
	return svc, invoiceRepo, billingTypeRepo, academicYearRepo, directoryRepo, notifier
}

func seedCatalog(billingTypeRepo *fakeBillingTypeRepo, academicYearRepo *fakeAcademicYearRepo) (*models.BillingType, *models.AcademicYear) {
	billingType := &models.BillingType{Name: "SPP", DefaultAmount: 500000, Recurrence: models.RecurrenceMonthly, IsActive: boolPtr(true)}
	_ = billingTypeRepo.Create(billingType)

	year := &models.AcademicYear{Name: "2026/2027", IsActive: boolPtr(true)}
	_ = academicYearRepo.Create(year)
	academicYearRepo.active = year

	return billingType, year
}

func TestCreateInvoice(t *testing.T) {
	dueDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	t.Run("creates a pending invoice and notifies the student", func(t *testing.T) {
		svc, invoiceRepo, billingTypeRepo, academicYearRepo, directoryRepo, notifier := newInvoiceServiceForTest()
		billingType, year := seedCatalog(billingTypeRepo, academicYearRepo)
		directoryRepo.students[7] = &models.Student{ID: 7, Name: "Aisyah", UserID: 70, ClassID: 1}

		invoice, err := svc.CreateInvoice(CreateInvoiceParams{
			StudentID:      7,
			BillingTypeID:  billingType.ID,
			AcademicYearID: year.ID,
			Amount:         500000,
			DueDate:        dueDate,
		})

		require.NoError(t, err)
		assert.Equal(t, models.InvoiceStatusPending, invoice.Status)
		assert.NotEmpty(t, invoice.DocumentID)
		assert.Len(t, invoiceRepo.created, 1)
		assert.Equal(t, []uint{70}, notifier.userNotices)
	})

	t.Run("rejects a duplicate pending invoice", func(t *testing.T) {
		svc, invoiceRepo, billingTypeRepo, academicYearRepo, directoryRepo, _ := newInvoiceServiceForTest()
		billingType, year := seedCatalog(billingTypeRepo, academicYearRepo)
		directoryRepo.students[7] = &models.Student{ID: 7, UserID: 70}

		params := CreateInvoiceParams{
			StudentID:      7,
			BillingTypeID:  billingType.ID,
			AcademicYearID: year.ID,
			Amount:         500000,
			DueDate:        dueDate,
		}

		_, err := svc.CreateInvoice(params)
		require.NoError(t, err)

		// The pending invoice is now visible to the existence check.
		invoiceRepo.pendingPairs[[2]uint{7, billingType.ID}] = true

		_, err = svc.CreateInvoice(params)
		assert.ErrorIs(t, err, apperrors.ErrDuplicatePending)
	})

	t.Run("rejects an unknown student", func(t *testing.T) {
		svc, _, billingTypeRepo, academicYearRepo, _, _ := newInvoiceServiceForTest()
		billingType, year := seedCatalog(billingTypeRepo, academicYearRepo)

		_, err := svc.CreateInvoice(CreateInvoiceParams{
			StudentID:      99,
			BillingTypeID:  billingType.ID,
			AcademicYearID: year.ID,
			Amount:         500000,
			DueDate:        dueDate,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("rejects a negative amount", func(t *testing.T) {
		svc, _, _, _, _, _ := newInvoiceServiceForTest()

		_, err := svc.CreateInvoice(CreateInvoiceParams{
			StudentID:     7,
			BillingTypeID: 1,
			Amount:        -1,
			DueDate:       dueDate,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestCreateInvoicesForClass(t *testing.T) {
	dueDate := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	t.Run("skips students with a pending invoice and creates the rest", func(t *testing.T) {
		svc, invoiceRepo, billingTypeRepo, academicYearRepo, directoryRepo, notifier := newInvoiceServiceForTest()
		billingType, year := seedCatalog(billingTypeRepo, academicYearRepo)

		directoryRepo.classes[3] = &models.Class{ID: 3, Name: "VII-A"}
		directoryRepo.students[1] = &models.Student{ID: 1, Name: "Andi", UserID: 10, ClassID: 3, IsActive: boolPtr(true)}
		directoryRepo.students[2] = &models.Student{ID: 2, Name: "Budi", UserID: 20, ClassID: 3, IsActive: boolPtr(true)}
		directoryRepo.students[3] = &models.Student{ID: 3, Name: "Citra", UserID: 30, ClassID: 3, IsActive: boolPtr(true)}
		invoiceRepo.pendingPairs[[2]uint{2, billingType.ID}] = true

		result, err := svc.CreateInvoicesForClass(BulkInvoiceParams{
			ClassID:        3,
			BillingTypeID:  billingType.ID,
			AcademicYearID: year.ID,
			Amount:         500000,
			DueDate:        dueDate,
		})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		require.Len(t, result.Skipped, 1)
		assert.Equal(t, uint(2), result.Skipped[0].StudentID)
		assert.Equal(t, "duplicate pending invoice", result.Skipped[0].Reason)
		assert.Len(t, invoiceRepo.batchCreated, 1, "surviving invoices must be committed as one batch")
		assert.Len(t, notifier.userNotices, 2)
	})

	t.Run("fails when the class does not exist", func(t *testing.T) {
		svc, _, billingTypeRepo, academicYearRepo, _, _ := newInvoiceServiceForTest()
		billingType, year := seedCatalog(billingTypeRepo, academicYearRepo)

		_, err := svc.CreateInvoicesForClass(BulkInvoiceParams{
			ClassID:        42,
			BillingTypeID:  billingType.ID,
			AcademicYearID: year.ID,
			Amount:         500000,
			DueDate:        dueDate,
		})
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("returns an empty result for a class with no active students", func(t *testing.T) {
		svc, _, billingTypeRepo, academicYearRepo, directoryRepo, _ := newInvoiceServiceForTest()
		billingType, year := seedCatalog(billingTypeRepo, academicYearRepo)
		directoryRepo.classes[3] = &models.Class{ID: 3, Name: "VII-A"}

		result, err := svc.CreateInvoicesForClass(BulkInvoiceParams{
			ClassID:        3,
			BillingTypeID:  billingType.ID,
			AcademicYearID: year.ID,
			Amount:         500000,
			DueDate:        dueDate,
		})

		require.NoError(t, err)
		assert.Equal(t, 0, result.Created)
		assert.Empty(t, result.Skipped)
	})
}

func TestCreateMonthlyInvoices(t *testing.T) {
	t.Run("creates invoices for all active students with the default amount", func(t *testing.T) {
		svc, invoiceRepo, billingTypeRepo, academicYearRepo, directoryRepo, _ := newInvoiceServiceForTest()
		billingType, _ := seedCatalog(billingTypeRepo, academicYearRepo)
		directoryRepo.students[1] = &models.Student{ID: 1, UserID: 10, IsActive: boolPtr(true)}
		directoryRepo.students[2] = &models.Student{ID: 2, UserID: 20, IsActive: boolPtr(true)}

		result, err := svc.CreateMonthlyInvoices(9, 2026, 10)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Created)
		for _, invoice := range invoiceRepo.created {
			assert.Equal(t, billingType.DefaultAmount, invoice.Amount)
			assert.Equal(t, 10, invoice.DueDate.Day())
			assert.Equal(t, time.September, invoice.DueDate.Month())
		}
	})

	t.Run("clamps an out-of-range due day", func(t *testing.T) {
		svc, invoiceRepo, billingTypeRepo, academicYearRepo, directoryRepo, _ := newInvoiceServiceForTest()
		seedCatalog(billingTypeRepo, academicYearRepo)
		directoryRepo.students[1] = &models.Student{ID: 1, UserID: 10, IsActive: boolPtr(true)}

		_, err := svc.CreateMonthlyInvoices(2, 2026, 31)

		require.NoError(t, err)
		require.Len(t, invoiceRepo.created, 1)
		assert.Equal(t, 10, invoiceRepo.created[0].DueDate.Day())
	})

	t.Run("fails without an active academic year", func(t *testing.T) {
		svc, _, billingTypeRepo, _, _, _ := newInvoiceServiceForTest()
		_ = billingTypeRepo.Create(&models.BillingType{Name: "SPP", Recurrence: models.RecurrenceMonthly, IsActive: boolPtr(true)})

		_, err := svc.CreateMonthlyInvoices(9, 2026, 10)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestClassifyBulkCandidates(t *testing.T) {
	students := []*models.Student{{ID: 1}, {ID: 2}, {ID: 3}}
	pending := map[uint]bool{2: true}

	verdicts := classifyBulkCandidates(students, pending)

	require.Len(t, verdicts, 3)
	assert.Empty(t, verdicts[0].reason)
	assert.Equal(t, "duplicate pending invoice", verdicts[1].reason)
	assert.Empty(t, verdicts[2].reason)
}
