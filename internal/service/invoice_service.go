package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"spp-be-svc/internal/apperrors"
	"spp-be-svc/internal/cache"
	"spp-be-svc/internal/models"
	"spp-be-svc/internal/models/response"
	"spp-be-svc/internal/repository"
	"spp-be-svc/pkg/logger"
)

// CreateInvoiceParams holds the input of a single invoice creation
type CreateInvoiceParams struct {
	StudentID      uint
	BillingTypeID  uint
	AcademicYearID uint
	Amount         int64
	DueDate        time.Time
	Description    string
}

// BulkInvoiceParams holds the input of a per-class bulk invoice creation
type BulkInvoiceParams struct {
	ClassID        uint
	BillingTypeID  uint
	AcademicYearID uint
	Amount         int64
	DueDate        time.Time
	Description    string
}

// InvoiceService defines the interface for invoice lifecycle operations
type InvoiceService interface {
	CreateInvoice(params CreateInvoiceParams) (*models.Invoice, error)
	CreateInvoicesForClass(params BulkInvoiceParams) (*response.BulkInvoiceResponse, error)
	CreateMonthlyInvoices(month, year int, dueDay int) (*response.BulkInvoiceResponse, error)
	GetInvoiceRegister(filter repository.InvoiceFilter, asOf time.Time) ([]*response.InvoiceListItem, int64, error)
	GetStudentInvoices(studentID uint, academicYearID *uint, asOf time.Time) ([]*models.Invoice, error)
	ExportInvoicesToExcel(filter repository.InvoiceFilter, asOf time.Time) ([]byte, string, error)
}

// invoiceService implements InvoiceService
type invoiceService struct {
	invoiceRepo      repository.InvoiceRepository
	billingTypeRepo  repository.BillingTypeRepository
	academicYearRepo repository.AcademicYearRepository
	directoryRepo    repository.DirectoryRepository
	notifications    NotificationService
	reportCache      *cache.ReportCache
	logger           *logger.Logger
}

// NewInvoiceService creates a new instance of InvoiceService
func NewInvoiceService(
	invoiceRepo repository.InvoiceRepository,
	billingTypeRepo repository.BillingTypeRepository,
	academicYearRepo repository.AcademicYearRepository,
	directoryRepo repository.DirectoryRepository,
	notifications NotificationService,
	reportCache *cache.ReportCache,
	logger *logger.Logger,
) InvoiceService {
	return &invoiceService{
		invoiceRepo:      invoiceRepo,
		billingTypeRepo:  billingTypeRepo,
		academicYearRepo: academicYearRepo,
		directoryRepo:    directoryRepo,
		notifications:    notifications,
		reportCache:      reportCache,
		logger:           logger,
	}
}

// CreateInvoice creates one pending invoice for one student
func (s *invoiceService) CreateInvoice(params CreateInvoiceParams) (*models.Invoice, error) {
	if params.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	if params.DueDate.IsZero() {
		return nil, fmt.Errorf("%w: due date is required", apperrors.ErrValidation)
	}

	student, err := s.directoryRepo.GetStudentByID(params.StudentID)
	if err != nil {
		return nil, translateLookupErr(err, "student")
	}

	billingType, err := s.billingTypeRepo.GetByID(params.BillingTypeID)
	if err != nil {
		return nil, translateLookupErr(err, "billing type")
	}

	if _, err := s.academicYearRepo.GetByID(params.AcademicYearID); err != nil {
		return nil, translateLookupErr(err, "academic year")
	}

	// Optimization only; the partial unique index catches the race.
	hasPending, err := s.invoiceRepo.HasPendingInvoice(params.StudentID, params.BillingTypeID)
	if err != nil {
		return nil, err
	}
	if hasPending {
		return nil, apperrors.ErrDuplicatePending
	}

	invoice := &models.Invoice{
		DocumentID:     uuid.New().String(),
		StudentID:      params.StudentID,
		BillingTypeID:  params.BillingTypeID,
		AcademicYearID: params.AcademicYearID,
		Amount:         params.Amount,
		DueDate:        params.DueDate,
		Status:         models.InvoiceStatusPending,
		Description:    params.Description,
	}

	if err := s.invoiceRepo.Create(invoice); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrDuplicatePending
		}
		s.logger.WithError(err).WithField("student_id", params.StudentID).Error("Failed to create invoice")
		return nil, err
	}

	s.reportCache.Invalidate(context.Background())

	s.notifications.NotifyUser(student.UserID,
		"New invoice",
		fmt.Sprintf("%s: %d due %s", billingType.Name, invoice.Amount, invoice.DueDate.Format("2006-01-02")),
		models.NotificationKindNewInvoice,
	)

	s.logger.WithFields(map[string]interface{}{
		"invoice_id":      invoice.ID,
		"student_id":      invoice.StudentID,
		"billing_type_id": invoice.BillingTypeID,
		"amount":          invoice.Amount,
	}).Info("Invoice created")

	return invoice, nil
}

// bulkVerdict is the outcome of the bulk validation pass for one student
type bulkVerdict struct {
	student *models.Student
	reason  string
}

// classifyBulkCandidates is the pure validation pass of bulk creation: it
// produces a verdict per student with no side effects, so preview and commit
// stay logically separate.
func classifyBulkCandidates(students []*models.Student, pendingSet map[uint]bool) []bulkVerdict {
	verdicts := make([]bulkVerdict, 0, len(students))
	for _, student := range students {
		v := bulkVerdict{student: student}
		if pendingSet[student.ID] {
			v.reason = "duplicate pending invoice"
		}
		verdicts = append(verdicts, v)
	}
	return verdicts
}

// CreateInvoicesForClass creates one invoice per active student of a class as
// a single atomic batch. Students that already carry a pending invoice for
// the billing type are skipped and reported, not aborted on.
func (s *invoiceService) CreateInvoicesForClass(params BulkInvoiceParams) (*response.BulkInvoiceResponse, error) {
	if params.Amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	if _, err := s.directoryRepo.GetClassByID(params.ClassID); err != nil {
		return nil, translateLookupErr(err, "class")
	}

	billingType, err := s.billingTypeRepo.GetByID(params.BillingTypeID)
	if err != nil {
		return nil, translateLookupErr(err, "billing type")
	}

	if _, err := s.academicYearRepo.GetByID(params.AcademicYearID); err != nil {
		return nil, translateLookupErr(err, "academic year")
	}

	students, err := s.directoryRepo.GetActiveStudentsByClass(params.ClassID)
	if err != nil {
		return nil, err
	}

	return s.createForStudents(students, billingType, params.AcademicYearID, params.Amount, params.DueDate, params.Description)
}

// CreateMonthlyInvoices bulk-creates invoices for every active monthly
// billing type across all active students, scoped to the active academic
// year. Used by the scheduler.
func (s *invoiceService) CreateMonthlyInvoices(month, year int, dueDay int) (*response.BulkInvoiceResponse, error) {
	activeYear, err := s.academicYearRepo.GetActive()
	if err != nil {
		return nil, translateLookupErr(err, "active academic year")
	}

	billingTypes, err := s.billingTypeRepo.GetActiveMonthly()
	if err != nil {
		return nil, err
	}
	if len(billingTypes) == 0 {
		return &response.BulkInvoiceResponse{Skipped: []response.SkippedStudent{}}, nil
	}

	students, err := s.directoryRepo.GetAllActiveStudents()
	if err != nil {
		return nil, err
	}

	if dueDay < 1 || dueDay > 28 {
		dueDay = 10
	}
	dueDate := time.Date(year, time.Month(month), dueDay, 0, 0, 0, 0, time.Local)
	description := fmt.Sprintf("SPP %s %d", indonesianMonths[month], year)

	total := &response.BulkInvoiceResponse{Skipped: []response.SkippedStudent{}}
	for _, billingType := range billingTypes {
		result, err := s.createForStudents(students, billingType, activeYear.ID, billingType.DefaultAmount, dueDate, description)
		if err != nil {
			return nil, err
		}
		total.Created += result.Created
		total.Skipped = append(total.Skipped, result.Skipped...)
	}

	return total, nil
}

// createForStudents runs the validation pass and then commits the surviving
// invoices as one batch
func (s *invoiceService) createForStudents(
	students []*models.Student,
	billingType *models.BillingType,
	academicYearID uint,
	amount int64,
	dueDate time.Time,
	description string,
) (*response.BulkInvoiceResponse, error) {
	result := &response.BulkInvoiceResponse{Skipped: []response.SkippedStudent{}}
	if len(students) == 0 {
		return result, nil
	}

	studentIDs := make([]uint, 0, len(students))
	for _, student := range students {
		studentIDs = append(studentIDs, student.ID)
	}

	pendingSet, err := s.invoiceRepo.PendingStudentIDs(studentIDs, billingType.ID)
	if err != nil {
		return nil, err
	}

	verdicts := classifyBulkCandidates(students, pendingSet)

	var invoices []*models.Invoice
	var notifyStudents []*models.Student
	for _, v := range verdicts {
		if v.reason != "" {
			result.Skipped = append(result.Skipped, response.SkippedStudent{
				StudentID: v.student.ID,
				Reason:    v.reason,
			})
			continue
		}

		invoices = append(invoices, &models.Invoice{
			DocumentID:     uuid.New().String(),
			StudentID:      v.student.ID,
			BillingTypeID:  billingType.ID,
			AcademicYearID: academicYearID,
			Amount:         amount,
			DueDate:        dueDate,
			Status:         models.InvoiceStatusPending,
			Description:    description,
		})
		notifyStudents = append(notifyStudents, v.student)
	}

	if len(invoices) > 0 {
		if err := s.invoiceRepo.CreateBatch(invoices); err != nil {
			s.logger.WithError(err).WithField("billing_type_id", billingType.ID).Error("Failed to create invoice batch")
			return nil, err
		}

		s.reportCache.Invalidate(context.Background())

		for _, student := range notifyStudents {
			s.notifications.NotifyUser(student.UserID,
				"New invoice",
				fmt.Sprintf("%s: %d due %s", billingType.Name, amount, dueDate.Format("2006-01-02")),
				models.NotificationKindNewInvoice,
			)
		}
	}

	result.Created = len(invoices)

	s.logger.WithFields(map[string]interface{}{
		"billing_type_id": billingType.ID,
		"created":         result.Created,
		"skipped":         len(result.Skipped),
	}).Info("Bulk invoice creation completed")

	return result, nil
}

// GetInvoiceRegister retrieves the invoice register with the effective
// (overdue-aware) status resolved per row
func (s *invoiceService) GetInvoiceRegister(filter repository.InvoiceFilter, asOf time.Time) ([]*response.InvoiceListItem, int64, error) {
	filter.AsOf = asOf
	rows, total, err := s.invoiceRepo.ListRegister(filter)
	if err != nil {
		return nil, 0, err
	}

	items := make([]*response.InvoiceListItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, registerRowToItem(row, asOf))
	}

	return items, total, nil
}

// GetStudentInvoices retrieves one student's invoices with effective status applied
func (s *invoiceService) GetStudentInvoices(studentID uint, academicYearID *uint, asOf time.Time) ([]*models.Invoice, error) {
	if _, err := s.directoryRepo.GetStudentByID(studentID); err != nil {
		return nil, translateLookupErr(err, "student")
	}

	invoices, err := s.invoiceRepo.ListByStudent(studentID, academicYearID)
	if err != nil {
		return nil, err
	}

	for _, invoice := range invoices {
		invoice.Status = models.ComputeEffectiveStatus(invoice, asOf)
	}

	return invoices, nil
}

var indonesianMonths = map[int]string{
	1: "Januari", 2: "Februari", 3: "Maret", 4: "April",
	5: "Mei", 6: "Juni", 7: "Juli", 8: "Agustus",
	9: "September", 10: "Oktober", 11: "November", 12: "Desember",
}

// ExportInvoicesToExcel exports the filtered invoice register to an xlsx file
func (s *invoiceService) ExportInvoicesToExcel(filter repository.InvoiceFilter, asOf time.Time) ([]byte, string, error) {
	filter.AsOf = asOf
	rows, err := s.invoiceRepo.ListForExport(filter)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get invoice data: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			s.logger.WithError(err).Error("Failed to close Excel file")
		}
	}()

	sheetName := "Tagihan"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"No", "NIS", "Nama Siswa", "Kelas", "Jenis Tagihan", "Nominal", "Jatuh Tempo", "Status", "Keterangan"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold: true,
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D3D3D3"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err == nil {
		f.SetCellStyle(sheetName, "A1", "I1", headerStyle)
	}

	statusLabels := map[models.InvoiceStatus]string{
		models.InvoiceStatusPending: "Belum Dibayar",
		models.InvoiceStatusPaid:    "Lunas",
		models.InvoiceStatusOverdue: "Menunggak",
	}

	for i, row := range rows {
		excelRow := i + 2
		effective := models.ComputeEffectiveStatus(&models.Invoice{Status: row.Status, DueDate: row.DueDate}, asOf)

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", excelRow), i+1)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", excelRow), row.NIS)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", excelRow), row.StudentName)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", excelRow), row.ClassName)
		f.SetCellValue(sheetName, fmt.Sprintf("E%d", excelRow), row.BillingTypeName)
		f.SetCellValue(sheetName, fmt.Sprintf("F%d", excelRow), row.Amount)
		f.SetCellValue(sheetName, fmt.Sprintf("G%d", excelRow), row.DueDate.Format("2006-01-02"))
		f.SetCellValue(sheetName, fmt.Sprintf("H%d", excelRow), statusLabels[effective])
		f.SetCellValue(sheetName, fmt.Sprintf("I%d", excelRow), row.Description)
	}

	for i := 1; i <= len(headers); i++ {
		col, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(sheetName, col, col, 16)
	}

	if f.GetSheetName(0) == "Sheet1" && sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("tagihan_export_%s.xlsx", timestamp)

	buffer, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buffer.Bytes(), filename, nil
}

// registerRowToItem maps a register row to its API shape with the effective
// status resolved through the canonical overdue rule
func registerRowToItem(row *repository.InvoiceRegisterRow, asOf time.Time) *response.InvoiceListItem {
	effective := models.ComputeEffectiveStatus(&models.Invoice{Status: row.Status, DueDate: row.DueDate}, asOf)

	return &response.InvoiceListItem{
		ID:              row.ID,
		StudentID:       row.StudentID,
		StudentName:     row.StudentName,
		NIS:             row.NIS,
		ClassName:       row.ClassName,
		BillingTypeName: row.BillingTypeName,
		Amount:          row.Amount,
		DueDate:         row.DueDate.Format("2006-01-02"),
		Status:          string(row.Status),
		EffectiveStatus: string(effective),
		Description:     row.Description,
	}
}

// translateLookupErr maps a record-not-found from the storage layer to the
// typed NotFound error, annotated with the entity that was missing
func translateLookupErr(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, entity)
	}
	return err
}
