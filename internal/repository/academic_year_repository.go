package repository

import (
	"gorm.io/gorm"

	"spp-be-svc/internal/models"
)

// AcademicYearRepository defines the interface for academic year operations
type AcademicYearRepository interface {
	Create(year *models.AcademicYear) error
	GetByID(id uint) (*models.AcademicYear, error)
	GetAll() ([]*models.AcademicYear, error)
	GetActive() (*models.AcademicYear, error)
	Update(year *models.AcademicYear) error
	SetActive(id uint) error
}

// academicYearRepository implements AcademicYearRepository
type academicYearRepository struct {
	db *gorm.DB
}

// NewAcademicYearRepository creates a new instance of AcademicYearRepository
func NewAcademicYearRepository(db *gorm.DB) AcademicYearRepository {
	return &academicYearRepository{
		db: db,
	}
}

// Create creates a new academic year record
func (r *academicYearRepository) Create(year *models.AcademicYear) error {
	return r.db.Create(year).Error
}

// GetByID retrieves an academic year record by ID
func (r *academicYearRepository) GetByID(id uint) (*models.AcademicYear, error) {
	var year models.AcademicYear

	err := r.db.Where("id = ?", id).First(&year).Error
	if err != nil {
		return nil, err
	}

	return &year, nil
}

// GetAll retrieves all academic year records, newest first
func (r *academicYearRepository) GetAll() ([]*models.AcademicYear, error) {
	var years []*models.AcademicYear

	err := r.db.Order("start_date DESC").Find(&years).Error
	if err != nil {
		return nil, err
	}

	return years, nil
}

// GetActive retrieves the currently active academic year
func (r *academicYearRepository) GetActive() (*models.AcademicYear, error) {
	var year models.AcademicYear

	err := r.db.Where("is_active = ?", true).First(&year).Error
	if err != nil {
		return nil, err
	}

	return &year, nil
}

// Update updates an academic year record
func (r *academicYearRepository) Update(year *models.AcademicYear) error {
	return r.db.Save(year).Error
}

// SetActive marks one academic year active and deactivates the rest in a
// single transaction
func (r *academicYearRepository) SetActive(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.AcademicYear{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		result := tx.Model(&models.AcademicYear{}).
			Where("id = ?", id).
			Update("is_active", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return nil
	})
}
