package models

import (
	"time"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskAssigned  TaskStatus = "ASSIGNED"
	TaskRunning   TaskStatus = "RUNNING"
	TaskPaused    TaskStatus = "PAUSED"
	TaskOnHold    TaskStatus = "ON_HOLD"
	TaskCompleted TaskStatus = "COMPLETED"
	TaskCancelled TaskStatus = "CANCELLED"
)

// Task adalah leaf hierarki; progress-nya input langsung dari operator,
// semua level di atasnya murni turunan.
type Task struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	TaskNumber      string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"task_number"`
	JobsheetID      uint       `gorm:"not null;index" json:"jobsheet_id"`
	Jobsheet        Jobsheet   `gorm:"foreignKey:JobsheetID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Name            string     `gorm:"type:varchar(255)" json:"name"`
	Status          TaskStatus `gorm:"type:varchar(20);not null;default:'PENDING'" json:"status"`
	ProgressPercent int        `gorm:"not null;default:0" json:"progress_percent"`
	PlannedHours    *float64   `json:"planned_hours,omitempty"`
	ActualHours     float64    `gorm:"not null;default:0" json:"actual_hours"`
	MachineID       *uint      `gorm:"index" json:"machine_id,omitempty"`
	AssignedTo      *uint      `gorm:"index" json:"assigned_to,omitempty"`
	HasBreakdown    bool       `gorm:"not null;default:false" json:"has_breakdown"`
	ClockedInAt     *time.Time `json:"clocked_in_at,omitempty"`
	ClockedOutAt    *time.Time `json:"clocked_out_at,omitempty"`
	LastResumedAt   *time.Time `json:"-"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CreatedAt       time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updated_at"`
}
