package database

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"spp-be-svc/internal/config"
	"spp-be-svc/internal/models"
)

// Database wraps the gorm connection
type Database struct {
	DB *gorm.DB
}

// NewDatabase creates a new database connection.
// TranslateError is required: the workflow layer relies on
// gorm.ErrDuplicatedKey to detect unique-constraint violations.
func NewDatabase(cfg *config.DatabaseConfig) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &Database{DB: db}, nil
}

// AutoMigrate runs schema migration for all models and creates the partial
// unique indexes that back the billing invariants:
//   - at most one pending/approved payment claim per invoice
//   - at most one pending invoice per (student, billing type)
//
// The indexes are the authoritative guard; in-process checks before insert
// are only an optimization and do not hold under concurrency.
func (d *Database) AutoMigrate() error {
	err := d.DB.AutoMigrate(
		&models.AcademicYear{},
		&models.Class{},
		&models.Student{},
		&models.User{},
		&models.BillingType{},
		&models.Invoice{},
		&models.PaymentClaim{},
		&models.Notification{},
		&models.SchedulerLog{},
	)
	if err != nil {
		return fmt.Errorf("failed to run auto migration: %w", err)
	}

	indexes := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_open_claim_per_invoice
			ON payment_claims (invoice_id)
			WHERE status IN ('pending', 'approved')`,
		`CREATE UNIQUE INDEX IF NOT EXISTS uniq_pending_invoice_per_student_type
			ON invoices (student_id, billing_type_id)
			WHERE status = 'pending'`,
	}

	for _, stmt := range indexes {
		if err := d.DB.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to create partial unique index: %w", err)
		}
	}

	return nil
}

// Close closes the underlying database connection
func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
