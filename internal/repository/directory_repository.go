package repository

import (
	"gorm.io/gorm"

	"spp-be-svc/internal/models"
)

// DirectoryRepository resolves students and classes. The directory data is
// owned by the school administration system; the billing engine only reads it.
type DirectoryRepository interface {
	GetStudentByID(id uint) (*models.Student, error)
	GetClassByID(id uint) (*models.Class, error)
	GetActiveStudentsByClass(classID uint) ([]*models.Student, error)
	GetAllActiveStudents() ([]*models.Student, error)
}

// directoryRepository implements DirectoryRepository
type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository creates a new instance of DirectoryRepository
func NewDirectoryRepository(db *gorm.DB) DirectoryRepository {
	return &directoryRepository{
		db: db,
	}
}

// GetStudentByID retrieves a student record by ID
func (r *directoryRepository) GetStudentByID(id uint) (*models.Student, error) {
	var student models.Student

	err := r.db.Where("id = ?", id).First(&student).Error
	if err != nil {
		return nil, err
	}

	return &student, nil
}

// GetClassByID retrieves a class record by ID
func (r *directoryRepository) GetClassByID(id uint) (*models.Class, error) {
	var class models.Class

	err := r.db.Where("id = ?", id).First(&class).Error
	if err != nil {
		return nil, err
	}

	return &class, nil
}

// GetActiveStudentsByClass retrieves all active students currently in a class
func (r *directoryRepository) GetActiveStudentsByClass(classID uint) ([]*models.Student, error) {
	var students []*models.Student

	err := r.db.Where("class_id = ? AND is_active = ?", classID, true).
		Order("name").
		Find(&students).Error
	if err != nil {
		return nil, err
	}

	return students, nil
}

// GetAllActiveStudents retrieves all active students across classes
func (r *directoryRepository) GetAllActiveStudents() ([]*models.Student, error) {
	var students []*models.Student

	err := r.db.Where("is_active = ?", true).Order("class_id, name").Find(&students).Error
	if err != nil {
		return nil, err
	}

	return students, nil
}
