package service

import (
	"gorm.io/gorm"

	"spp-be-svc/internal/cache"
	"spp-be-svc/internal/config"
	"spp-be-svc/internal/models"
	"spp-be-svc/internal/repository"
	"spp-be-svc/pkg/logger"
)

// In-memory repository fakes. Each fake records the calls the workflow makes
// and returns canned data, so service behavior is tested without a database.

func testLogger() *logger.Logger {
	return logger.NewLogger("error", "text")
}

func disabledCache() *cache.ReportCache {
	return cache.NewReportCache(&config.RedisConfig{}, testLogger())
}

func boolPtr(b bool) *bool { return &b }

type fakeInvoiceRepo struct {
	invoices      map[uint]*models.Invoice
	pendingPairs  map[[2]uint]bool // (studentID, billingTypeID) with a pending invoice
	created       []*models.Invoice
	createErr     error
	batchCreated  [][]*models.Invoice
}

func newFakeInvoiceRepo() *fakeInvoiceRepo {
	return &fakeInvoiceRepo{
		invoices:     make(map[uint]*models.Invoice),
		pendingPairs: make(map[[2]uint]bool),
	}
}

func (f *fakeInvoiceRepo) Create(invoice *models.Invoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	invoice.ID = uint(len(f.created) + 1)
	f.created = append(f.created, invoice)
	f.invoices[invoice.ID] = invoice
	return nil
}

func (f *fakeInvoiceRepo) CreateBatch(invoices []*models.Invoice) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.batchCreated = append(f.batchCreated, invoices)
	for _, invoice := range invoices {
		invoice.ID = uint(len(f.created) + 1)
		f.created = append(f.created, invoice)
		f.invoices[invoice.ID] = invoice
	}
	return nil
}

func (f *fakeInvoiceRepo) GetByID(id uint) (*models.Invoice, error) {
	invoice, ok := f.invoices[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return invoice, nil
}

func (f *fakeInvoiceRepo) HasPendingInvoice(studentID, billingTypeID uint) (bool, error) {
	return f.pendingPairs[[2]uint{studentID, billingTypeID}], nil
}

func (f *fakeInvoiceRepo) PendingStudentIDs(studentIDs []uint, billingTypeID uint) (map[uint]bool, error) {
	result := make(map[uint]bool)
	for _, id := range studentIDs {
		if f.pendingPairs[[2]uint{id, billingTypeID}] {
			result[id] = true
		}
	}
	return result, nil
}

func (f *fakeInvoiceRepo) ListByStudent(studentID uint, academicYearID *uint) ([]*models.Invoice, error) {
	var result []*models.Invoice
	for _, invoice := range f.invoices {
		if invoice.StudentID == studentID {
			result = append(result, invoice)
		}
	}
	return result, nil
}

func (f *fakeInvoiceRepo) ListRegister(filter repository.InvoiceFilter) ([]*repository.InvoiceRegisterRow, int64, error) {
	return nil, 0, nil
}

func (f *fakeInvoiceRepo) ListForExport(filter repository.InvoiceFilter) ([]*repository.InvoiceRegisterRow, error) {
	return nil, nil
}

type fakePaymentRepo struct {
	submitErr   error
	submitted   []*models.PaymentClaim
	openClaims  map[uint]bool
	approveFn   func(claimID uint) (*models.PaymentClaim, error)
	rejectFn    func(claimID uint, reason string) (*models.PaymentClaim, error)
}

func newFakePaymentRepo() *fakePaymentRepo {
	return &fakePaymentRepo{openClaims: make(map[uint]bool)}
}

func (f *fakePaymentRepo) SubmitClaim(claim *models.PaymentClaim) error {
	if f.submitErr != nil {
		return f.submitErr
	}
	claim.ID = uint(len(f.submitted) + 1)
	f.submitted = append(f.submitted, claim)
	return nil
}

func (f *fakePaymentRepo) GetClaimByID(id uint) (*models.PaymentClaim, error) {
	for _, claim := range f.submitted {
		if claim.ID == id {
			return claim, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) HasOpenClaim(invoiceID uint) (bool, error) {
	return f.openClaims[invoiceID], nil
}

func (f *fakePaymentRepo) ApproveClaim(claimID uint) (*models.PaymentClaim, error) {
	return f.approveFn(claimID)
}

func (f *fakePaymentRepo) RejectClaim(claimID uint, reason string) (*models.PaymentClaim, error) {
	return f.rejectFn(claimID, reason)
}

func (f *fakePaymentRepo) ListClaims(status *models.ClaimStatus, page, limit int) ([]*repository.ClaimRow, int64, error) {
	return nil, 0, nil
}

type fakeDirectoryRepo struct {
	students map[uint]*models.Student
	classes  map[uint]*models.Class
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{
		students: make(map[uint]*models.Student),
		classes:  make(map[uint]*models.Class),
	}
}

func (f *fakeDirectoryRepo) GetStudentByID(id uint) (*models.Student, error) {
	student, ok := f.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return student, nil
}

func (f *fakeDirectoryRepo) GetClassByID(id uint) (*models.Class, error) {
	class, ok := f.classes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return class, nil
}

func (f *fakeDirectoryRepo) GetActiveStudentsByClass(classID uint) ([]*models.Student, error) {
	var result []*models.Student
	for _, student := range f.students {
		if student.ClassID == classID && (student.IsActive == nil || *student.IsActive) {
			result = append(result, student)
		}
	}
	return result, nil
}

func (f *fakeDirectoryRepo) GetAllActiveStudents() ([]*models.Student, error) {
	var result []*models.Student
	for _, student := range f.students {
		if student.IsActive == nil || *student.IsActive {
			result = append(result, student)
		}
	}
	return result, nil
}

type fakeBillingTypeRepo struct {
	billingTypes map[uint]*models.BillingType
	invoiceCount map[uint]int64
}

func newFakeBillingTypeRepo() *fakeBillingTypeRepo {
	return &fakeBillingTypeRepo{
		billingTypes: make(map[uint]*models.BillingType),
		invoiceCount: make(map[uint]int64),
	}
}

func (f *fakeBillingTypeRepo) Create(billingType *models.BillingType) error {
	billingType.ID = uint(len(f.billingTypes) + 1)
	f.billingTypes[billingType.ID] = billingType
	return nil
}

func (f *fakeBillingTypeRepo) GetByID(id uint) (*models.BillingType, error) {
	billingType, ok := f.billingTypes[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return billingType, nil
}

func (f *fakeBillingTypeRepo) GetAll() ([]*models.BillingType, error) {
	var result []*models.BillingType
	for _, billingType := range f.billingTypes {
		result = append(result, billingType)
	}
	return result, nil
}

func (f *fakeBillingTypeRepo) GetActiveMonthly() ([]*models.BillingType, error) {
	var result []*models.BillingType
	for _, billingType := range f.billingTypes {
		if billingType.Recurrence == models.RecurrenceMonthly && (billingType.IsActive == nil || *billingType.IsActive) {
			result = append(result, billingType)
		}
	}
	return result, nil
}

func (f *fakeBillingTypeRepo) Update(billingType *models.BillingType) error {
	f.billingTypes[billingType.ID] = billingType
	return nil
}

func (f *fakeBillingTypeRepo) Delete(id uint) error {
	delete(f.billingTypes, id)
	return nil
}

func (f *fakeBillingTypeRepo) CountInvoices(billingTypeID uint) (int64, error) {
	return f.invoiceCount[billingTypeID], nil
}

type fakeAcademicYearRepo struct {
	years  map[uint]*models.AcademicYear
	active *models.AcademicYear
}

func newFakeAcademicYearRepo() *fakeAcademicYearRepo {
	return &fakeAcademicYearRepo{years: make(map[uint]*models.AcademicYear)}
}

func (f *fakeAcademicYearRepo) Create(year *models.AcademicYear) error {
	year.ID = uint(len(f.years) + 1)
	f.years[year.ID] = year
	return nil
}

func (f *fakeAcademicYearRepo) GetByID(id uint) (*models.AcademicYear, error) {
	year, ok := f.years[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return year, nil
}

func (f *fakeAcademicYearRepo) GetAll() ([]*models.AcademicYear, error) {
	var result []*models.AcademicYear
	for _, year := range f.years {
		result = append(result, year)
	}
	return result, nil
}

func (f *fakeAcademicYearRepo) GetActive() (*models.AcademicYear, error) {
	if f.active == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return f.active, nil
}

func (f *fakeAcademicYearRepo) Update(year *models.AcademicYear) error {
	f.years[year.ID] = year
	return nil
}

func (f *fakeAcademicYearRepo) SetActive(id uint) error {
	year, ok := f.years[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	f.active = year
	return nil
}

// fakeNotifier records notifications instead of persisting them
type fakeNotifier struct {
	userNotices  []uint
	adminNotices int
}

func (f *fakeNotifier) NotifyUser(userID uint, title, message, kind string) {
	f.userNotices = append(f.userNotices, userID)
}

func (f *fakeNotifier) PublishPaymentAwaitingReview(claim *models.PaymentClaim, studentName string) {
	f.adminNotices++
}

func (f *fakeNotifier) ListByUser(userID uint, page, limit int) ([]*models.Notification, int64, error) {
	return nil, 0, nil
}

func (f *fakeNotifier) MarkRead(id, userID uint) error {
	return nil
}
