package models

import (
	"time"
)

// AcademicYear represents the academic_years table, e.g. "2025/2026".
// Invoices and classes are partitioned by it; at most one year is active.
type AcademicYear struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	StartDate time.Time `json:"start_date" gorm:"column:start_date"`
	EndDate   time.Time `json:"end_date" gorm:"column:end_date"`
	IsActive  *bool     `json:"is_active" gorm:"column:is_active;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the insert table name for AcademicYear
func (AcademicYear) TableName() string {
	return "academic_years"
}
