package models

import (
	"time"
)

// User roles recognized by the billing engine. Authentication and token
// issuing live in the identity service; this table only carries what the
// engine needs for authorization and notification fan-out.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// User represents the users table
type User struct {
	ID              uint      `json:"id" gorm:"primarykey"`
	Username        string    `json:"username" gorm:"column:username"`
	Email           string    `json:"email" gorm:"column:email"`
	Role            string    `json:"role" gorm:"column:role;type:varchar(16);index"`
	AppNotification *bool     `json:"app_notification" gorm:"column:app_notification;default:true"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName sets the insert table name for User
func (User) TableName() string {
	return "users"
}
