package models

import (
	"time"
)

// InvoiceStatus represents the lifecycle of an invoice.
type InvoiceStatus string

// Invoice statuses. StatusOverdue is never persisted: stored status only ever
// moves pending -> paid, and overdue is derived at read time from the due date.
const (
	InvoiceStatusPending InvoiceStatus = "pending"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
)

// Invoice represents the invoices table: one amount owed by one student for
// one billing type within an academic year.
type Invoice struct {
	ID             uint          `json:"id" gorm:"primarykey"`
	DocumentID     string        `json:"document_id" gorm:"column:document_id"`
	StudentID      uint          `json:"student_id" gorm:"column:student_id;index;not null"`
	BillingTypeID  uint          `json:"billing_type_id" gorm:"column:billing_type_id;index;not null"`
	AcademicYearID uint          `json:"academic_year_id" gorm:"column:academic_year_id;index;not null"`
	Amount         int64         `json:"amount" gorm:"column:amount;not null"`
	DueDate        time.Time     `json:"due_date" gorm:"column:due_date;not null"`
	Status         InvoiceStatus `json:"status" gorm:"column:status;type:varchar(16);default:'pending';index"`
	Description    string        `json:"description" gorm:"column:description"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
}

// TableName sets the insert table name for Invoice
func (Invoice) TableName() string {
	return "invoices"
}

// ComputeEffectiveStatus returns the status an invoice should be presented
// with as of the given time. A pending invoice whose due date has strictly
// passed is overdue; an invoice due exactly at asOf is not. This is the single
// canonical overdue rule, shared by live queries, reporting and export.
func ComputeEffectiveStatus(invoice *Invoice, asOf time.Time) InvoiceStatus {
	if invoice.Status == InvoiceStatusPending && invoice.DueDate.Before(asOf) {
		return InvoiceStatusOverdue
	}
	return invoice.Status
}
