package models

import (
	"time"
)

// Billing type recurrence kinds. Monthly types are picked up by the invoice
// scheduler; one-off types are billed manually.
const (
	RecurrenceMonthly = "monthly"
	RecurrenceOneTime = "one_time"
)

// BillingType represents the billing_types table: a catalog entry defining a
// charge category (e.g. "Iuran Bulanan") and its default amount.
type BillingType struct {
	ID            uint      `json:"id" gorm:"primarykey"`
	DocumentID    string    `json:"document_id" gorm:"column:document_id"`
	Name          string    `json:"name" gorm:"column:name;not null"`
	DefaultAmount int64     `json:"default_amount" gorm:"column:default_amount;not null"`
	Description   string    `json:"description" gorm:"column:description"`
	Recurrence    string    `json:"recurrence" gorm:"column:recurrence;type:varchar(16);default:'one_time'"`
	IsActive      *bool     `json:"is_active" gorm:"column:is_active;default:true"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName sets the insert table name for BillingType
func (BillingType) TableName() string {
	return "billing_types"
}
