package scheduler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"spp-be-svc/internal/models"
	"spp-be-svc/internal/repository"
	"spp-be-svc/internal/service"
	"spp-be-svc/pkg/logger"
)

const monthlyInvoiceJobCode = "MONTHLY_INVOICE_CREATION"

// InvoiceScheduler runs the monthly invoice generation job
type InvoiceScheduler struct {
	invoiceService   service.InvoiceService
	schedulerLogRepo repository.SchedulerLogRepository
	logger           *logger.Logger
	cron             *cron.Cron
	cronExpression   string
	dueDay           int
}

// NewInvoiceScheduler creates a new invoice scheduler
func NewInvoiceScheduler(
	invoiceService service.InvoiceService,
	schedulerLogRepo repository.SchedulerLogRepository,
	logger *logger.Logger,
	cronExpression string,
	dueDay int,
) *InvoiceScheduler {
	// Cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &InvoiceScheduler{
		invoiceService:   invoiceService,
		schedulerLogRepo: schedulerLogRepo,
		logger:           logger,
		cron:             c,
		cronExpression:   cronExpression,
		dueDay:           dueDay,
	}
}

// Start schedules and starts the monthly invoice job
func (s *InvoiceScheduler) Start() error {
	s.logger.WithField("cron_expression", s.cronExpression).Info("Scheduling monthly invoice job")

	// Cron format: "seconds minutes hours day-of-month month day-of-week"
	_, err := s.cron.AddFunc(s.cronExpression, s.createMonthlyInvoices)
	if err != nil {
		return fmt.Errorf("failed to schedule monthly invoice job: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Invoice scheduler started successfully")

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job to finish
func (s *InvoiceScheduler) Stop() {
	s.logger.Info("Stopping invoice scheduler...")
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Invoice scheduler stopped successfully")
}

// createMonthlyInvoices is the scheduled job that generates invoices for every
// active monthly billing type across all active students
func (s *InvoiceScheduler) createMonthlyInvoices() {
	runID := uuid.New().String()
	now := time.Now()
	month := int(now.Month())
	year := now.Year()

	s.logRun(runID, "START", "Starting scheduled monthly invoice creation")

	s.logger.WithFields(map[string]interface{}{
		"run_id": runID,
		"month":  month,
		"year":   year,
	}).Info("Creating monthly invoices")

	s.logRun(runID, "RUNNING", fmt.Sprintf("Creating monthly invoices for month %d year %d", month, year))

	result, err := s.invoiceService.CreateMonthlyInvoices(month, year, s.dueDay)
	if err != nil {
		s.logRun(runID, "FAILED", fmt.Sprintf("Failed to create monthly invoices: %v", err))
		s.logger.WithError(err).WithField("run_id", runID).Error("Failed to create monthly invoices")
		return
	}

	resultJSON, _ := json.Marshal(result)
	s.logRun(runID, "SUCCESS", fmt.Sprintf("Monthly invoices created: %s", string(resultJSON)))

	s.logger.WithFields(map[string]interface{}{
		"run_id":  runID,
		"created": result.Created,
		"skipped": len(result.Skipped),
	}).Info("Scheduled monthly invoice creation completed")
}

// logRun persists one scheduler log entry for the run
func (s *InvoiceScheduler) logRun(runID, status, message string) {
	entry := &models.SchedulerLog{
		RunID:   runID,
		JobCode: monthlyInvoiceJobCode,
		Message: message,
		Status:  status,
	}

	if err := s.schedulerLogRepo.Create(entry); err != nil {
		s.logger.WithError(err).WithField("status", status).Error("Failed to create scheduler log entry")
	}
}
