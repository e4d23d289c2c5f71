package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"spp-be-svc/internal/apperrors"
	"spp-be-svc/internal/models"
	"spp-be-svc/internal/repository"
	"spp-be-svc/pkg/logger"
)

// BillingTypeService defines the interface for billing type catalog operations
type BillingTypeService interface {
	Create(billingType *models.BillingType) error
	GetByID(id uint) (*models.BillingType, error)
	GetAll() ([]*models.BillingType, error)
	Update(id uint, name, description, recurrence string, defaultAmount int64, isActive *bool) (*models.BillingType, error)
	Delete(id uint) error
}

// billingTypeService implements BillingTypeService
type billingTypeService struct {
	billingTypeRepo repository.BillingTypeRepository
	logger          *logger.Logger
}

// NewBillingTypeService creates a new instance of BillingTypeService
func NewBillingTypeService(billingTypeRepo repository.BillingTypeRepository, logger *logger.Logger) BillingTypeService {
	return &billingTypeService{
		billingTypeRepo: billingTypeRepo,
		logger:          logger,
	}
}

// Create creates a new billing type
func (s *billingTypeService) Create(billingType *models.BillingType) error {
	if billingType.Name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if billingType.DefaultAmount < 0 {
		return fmt.Errorf("%w: default amount must not be negative", apperrors.ErrValidation)
	}
	if billingType.Recurrence == "" {
		billingType.Recurrence = models.RecurrenceOneTime
	}

	return s.billingTypeRepo.Create(billingType)
}

// GetByID retrieves a billing type by ID
func (s *billingTypeService) GetByID(id uint) (*models.BillingType, error) {
	billingType, err := s.billingTypeRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return billingType, nil
}

// GetAll retrieves all billing types
func (s *billingTypeService) GetAll() ([]*models.BillingType, error) {
	return s.billingTypeRepo.GetAll()
}

// Update applies administrative edits to a billing type. Edits do not touch
// existing invoices: the amount was copied onto each invoice at creation time.
func (s *billingTypeService) Update(id uint, name, description, recurrence string, defaultAmount int64, isActive *bool) (*models.BillingType, error) {
	billingType, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if name != "" {
		billingType.Name = name
	}
	if description != "" {
		billingType.Description = description
	}
	if recurrence != "" {
		billingType.Recurrence = recurrence
	}
	if defaultAmount >= 0 {
		billingType.DefaultAmount = defaultAmount
	}
	if isActive != nil {
		billingType.IsActive = isActive
	}

	if err := s.billingTypeRepo.Update(billingType); err != nil {
		return nil, err
	}

	return billingType, nil
}

// Delete removes a billing type. Deletion is blocked while invoices reference
// the type so historical reports stay resolvable.
func (s *billingTypeService) Delete(id uint) error {
	if _, err := s.GetByID(id); err != nil {
		return err
	}

	count, err := s.billingTypeRepo.CountInvoices(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("%w: billing type is referenced by %d invoices", apperrors.ErrInvalidState, count)
	}

	return s.billingTypeRepo.Delete(id)
}
