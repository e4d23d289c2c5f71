package models

import (
	"time"
)

// Notification kinds emitted by the billing workflows.
const (
	NotificationKindNewInvoice      = "new_invoice"
	NotificationKindClaimReceived   = "claim_received"
	NotificationKindAwaitingReview  = "payment_awaiting_review"
	NotificationKindClaimApproved   = "claim_approved"
	NotificationKindClaimRejected   = "claim_rejected"
)

// Notification represents the notifications table. Delivery transport
// (push/email) is out of scope; rows are the durable record the apps poll.
type Notification struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"column:user_id;index;not null"`
	Title     string    `json:"title" gorm:"column:title"`
	Message   string    `json:"message" gorm:"column:message"`
	Kind      string    `json:"kind" gorm:"column:kind;type:varchar(32)"`
	IsRead    *bool     `json:"is_read" gorm:"column:is_read;default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName sets the insert table name for Notification
func (Notification) TableName() string {
	return "notifications"
}
