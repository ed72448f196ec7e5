package models

import (
	"time"
)

type JobsheetStatus string

const (
	JobsheetPreparing  JobsheetStatus = "PREPARING"
	JobsheetInProgress JobsheetStatus = "IN_PROGRESS"
	JobsheetCompleted  JobsheetStatus = "COMPLETED"
	JobsheetCancelled  JobsheetStatus = "CANCELLED"
)

type Jobsheet struct {
	ID                   uint               `gorm:"primaryKey" json:"id"`
	JobsheetNumber       string             `gorm:"type:varchar(30);uniqueIndex;not null" json:"jobsheet_number"`
	ManufacturingOrderID uint               `gorm:"not null;index" json:"manufacturing_order_id"`
	ManufacturingOrder   ManufacturingOrder `gorm:"foreignKey:ManufacturingOrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProcessName          string             `gorm:"type:varchar(255)" json:"process_name"`
	Status               JobsheetStatus     `gorm:"type:varchar(20);not null;default:'PREPARING'" json:"status"`
	ProgressPercent      int                `gorm:"not null;default:0" json:"progress_percent"`
	PlannedStartDate     *time.Time         `json:"planned_start_date,omitempty"`
	PlannedEndDate       *time.Time         `json:"planned_end_date,omitempty"`
	ActualStartDate      *time.Time         `json:"actual_start_date,omitempty"`
	ActualEndDate        *time.Time         `json:"actual_end_date,omitempty"`
	CreatedAt            time.Time          `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time          `gorm:"not null" json:"updated_at"`

	Tasks []Task `gorm:"foreignKey:JobsheetID" json:"tasks"`
}
