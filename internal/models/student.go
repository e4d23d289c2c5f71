package models

import (
	"time"
)

// Student represents the students table. Student records are owned by the
// school directory; the billing engine only reads them and references them by id.
type Student struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"column:name;not null"`
	NIS       string    `json:"nis" gorm:"column:nis"`
	ClassID   uint      `json:"class_id" gorm:"column:class_id;index"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;index"`
	IsActive  *bool     `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the insert table name for Student
func (Student) TableName() string {
	return "students"
}

// Class represents the classes table
type Class struct {
	ID             uint      `json:"id" gorm:"primarykey"`
	Name           string    `json:"name" gorm:"column:name;not null"`
	AcademicYearID uint      `json:"academic_year_id" gorm:"column:academic_year_id;index"`
	HomeroomName   string    `json:"homeroom_name" gorm:"column:homeroom_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName sets the insert table name for Class
func (Class) TableName() string {
	return "classes"
}
