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

// AcademicYearService defines the interface for academic year operations
type AcademicYearService interface {
	Create(year *models.AcademicYear) error
	GetByID(id uint) (*models.AcademicYear, error)
	GetAll() ([]*models.AcademicYear, error)
	GetActive() (*models.AcademicYear, error)
	SetActive(id uint) error
}

// academicYearService implements AcademicYearService
type academicYearService struct {
	academicYearRepo repository.AcademicYearRepository
	logger           *logger.Logger
}

// NewAcademicYearService creates a new instance of AcademicYearService
func NewAcademicYearService(academicYearRepo repository.AcademicYearRepository, logger *logger.Logger) AcademicYearService {
	return &academicYearService{
		academicYearRepo: academicYearRepo,
		logger:           logger,
	}
}

// Create creates a new academic year
func (s *academicYearService) Create(year *models.AcademicYear) error {
	if year.Name == "" {
		return fmt.Errorf("%w: name is required", apperrors.ErrValidation)
	}
	if !year.EndDate.IsZero() && year.EndDate.Before(year.StartDate) {
		return fmt.Errorf("%w: end date before start date", apperrors.ErrValidation)
	}

	return s.academicYearRepo.Create(year)
}

// GetByID retrieves an academic year by ID
func (s *academicYearService) GetByID(id uint) (*models.AcademicYear, error) {
	year, err := s.academicYearRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return year, nil
}

// GetAll retrieves all academic years
func (s *academicYearService) GetAll() ([]*models.AcademicYear, error) {
	return s.academicYearRepo.GetAll()
}

// GetActive retrieves the active academic year
func (s *academicYearService) GetActive() (*models.AcademicYear, error) {
	year, err := s.academicYearRepo.GetActive()
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return year, nil
}

// SetActive marks one academic year active, deactivating the others
func (s *academicYearService) SetActive(id uint) error {
	err := s.academicYearRepo.SetActive(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return err
	}

	s.logger.WithField("academic_year_id", id).Info("Active academic year changed")
	return nil
}
