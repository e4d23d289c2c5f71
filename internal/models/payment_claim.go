package models

import (
	"time"
)

// ClaimStatus represents the lifecycle of a payment claim.
type ClaimStatus string

// Payment claim statuses. Approved and rejected are terminal; a resubmission
// after rejection creates a new claim row and the rejected one is kept as history.
const (
	ClaimStatusPending  ClaimStatus = "pending"
	ClaimStatusApproved ClaimStatus = "approved"
	ClaimStatusRejected ClaimStatus = "rejected"
)

// PaymentClaim represents the payment_claims table: a student's assertion of
// having paid one invoice, subject to admin approval.
//
// Invariant: at most one claim per invoice may be pending or approved at a
// time. The authoritative guard is a partial unique index on (invoice_id)
// scoped to those statuses, created at migration time; the service-level
// existence check is only an optimization.
type PaymentClaim struct {
	ID            uint        `json:"id" gorm:"primarykey"`
	DocumentID    string      `json:"document_id" gorm:"column:document_id"`
	InvoiceID     uint        `json:"invoice_id" gorm:"column:invoice_id;index;not null"`
	StudentID     uint        `json:"student_id" gorm:"column:student_id;index;not null"`
	Amount        int64       `json:"amount" gorm:"column:amount;not null"`
	PaymentDate   time.Time   `json:"payment_date" gorm:"column:payment_date;not null"`
	PaymentMethod string      `json:"payment_method" gorm:"column:payment_method"`
	Note          string      `json:"note" gorm:"column:note"`
	Status        ClaimStatus `json:"status" gorm:"column:status;type:varchar(16);default:'pending';index"`
	RejectReason  string      `json:"reject_reason,omitempty" gorm:"column:reject_reason"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// TableName sets the insert table name for PaymentClaim
func (PaymentClaim) TableName() string {
	return "payment_claims"
}
