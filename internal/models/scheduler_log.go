package models

import (
	"time"
)

// SchedulerLog represents the scheduler_logs table
type SchedulerLog struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	RunID       string    `json:"run_id" gorm:"column:run_id"`
	JobCode     string    `json:"job_code" gorm:"column:job_code"`
	Message     string    `json:"message" gorm:"column:message"`
	Status      string    `json:"status" gorm:"column:status;type:varchar(16)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName sets the insert table name for SchedulerLog
func (SchedulerLog) TableName() string {
	return "scheduler_logs"
}
