package models

import (
	"time"
)

type MOStatus string

const (
	MODraft     MOStatus = "DRAFT"
	MOPlanned   MOStatus = "PLANNED"
	MOMaterial  MOStatus = "MATERIAL_PREPARATION"
	MOInProd    MOStatus = "IN_PRODUCTION"
	MOQC        MOStatus = "QC"
	MOCompleted MOStatus = "COMPLETED"
	MOCancelled MOStatus = "CANCELLED"
)

type ManufacturingOrder struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	MONumber         string     `gorm:"type:varchar(30);uniqueIndex;not null" json:"mo_number"`
	OrderID          uint       `gorm:"not null;index" json:"order_id"`
	Order            Order      `gorm:"foreignKey:OrderID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	ProductName      string     `gorm:"type:varchar(255)" json:"product_name"`
	Quantity         int        `gorm:"not null;default:1" json:"quantity"`
	Status           MOStatus   `gorm:"type:varchar(25);not null;default:'DRAFT'" json:"status"`
	ProgressPercent  int        `gorm:"not null;default:0" json:"progress_percent"`
	PlannedStartDate *time.Time `json:"planned_start_date,omitempty"`
	PlannedEndDate   *time.Time `json:"planned_end_date,omitempty"`
	ActualStartDate  *time.Time `json:"actual_start_date,omitempty"`
	ActualEndDate    *time.Time `json:"actual_end_date,omitempty"`
	CreatedAt        time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"not null" json:"updated_at"`

	Jobsheets []Jobsheet `gorm:"foreignKey:ManufacturingOrderID" json:"jobsheets"`
}
