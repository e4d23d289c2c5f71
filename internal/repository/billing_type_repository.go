package repository

import (
	"gorm.io/gorm"

	"spp-be-svc/internal/models"
)

// BillingTypeRepository defines the interface for billing type catalog operations
type BillingTypeRepository interface {
	Create(billingType *models.BillingType) error
	GetByID(id uint) (*models.BillingType, error)
	GetAll() ([]*models.BillingType, error)
	GetActiveMonthly() ([]*models.BillingType, error)
	Update(billingType *models.BillingType) error
	Delete(id uint) error
	CountInvoices(billingTypeID uint) (int64, error)
}

// billingTypeRepository implements BillingTypeRepository
type billingTypeRepository struct {
	db *gorm.DB
}

// NewBillingTypeRepository creates a new instance of BillingTypeRepository
func NewBillingTypeRepository(db *gorm.DB) BillingTypeRepository {
	return &billingTypeRepository{
		db: db,
	}
}

// Create creates a new billing type record
func (r *billingTypeRepository) Create(billingType *models.BillingType) error {
	return r.db.Create(billingType).Error
}

// GetByID retrieves a billing type record by ID
func (r *billingTypeRepository) GetByID(id uint) (*models.BillingType, error) {
	var billingType models.BillingType

	err := r.db.Where("id = ?", id).First(&billingType).Error
	if err != nil {
		return nil, err
	}

	return &billingType, nil
}

// GetAll retrieves all billing type records
func (r *billingTypeRepository) GetAll() ([]*models.BillingType, error) {
	var billingTypes []*models.BillingType

	err := r.db.Order("name").Find(&billingTypes).Error
	if err != nil {
		return nil, err
	}

	return billingTypes, nil
}

// GetActiveMonthly retrieves all active monthly billing types, consumed by
// the invoice scheduler
func (r *billingTypeRepository) GetActiveMonthly() ([]*models.BillingType, error) {
	var billingTypes []*models.BillingType

	err := r.db.Where("recurrence = ? AND is_active = ?", models.RecurrenceMonthly, true).
		Find(&billingTypes).Error
	if err != nil {
		return nil, err
	}

	return billingTypes, nil
}

// Update updates a billing type record
func (r *billingTypeRepository) Update(billingType *models.BillingType) error {
	return r.db.Save(billingType).Error
}

// Delete deletes a billing type record by ID
func (r *billingTypeRepository) Delete(id uint) error {
	return r.db.Delete(&models.BillingType{}, id).Error
}

// CountInvoices counts invoices referencing a billing type; deletion is
// blocked while the count is non-zero
func (r *billingTypeRepository) CountInvoices(billingTypeID uint) (int64, error) {
	var count int64

	err := r.db.Model(&models.Invoice{}).
		Where("billing_type_id = ?", billingTypeID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}
