package models

import (
	"time"
)

// OrderStatus adalah enum tertutup untuk status order.
// Perbandingan status selalu lewat konstanta ini, bukan string literal.
type OrderStatus string

const (
	OrderDraft     OrderStatus = "DRAFT"
	OrderPlanning  OrderStatus = "PLANNING"
	OrderMaterial  OrderStatus = "MATERIAL_PREPARATION"
	OrderInProd    OrderStatus = "IN_PRODUCTION"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type Order struct {
	ID               uint        `gorm:"primaryKey" json:"id"`
	OrderNumber      string      `gorm:"type:varchar(30);uniqueIndex;not null" json:"order_number"`
	CustomerName     string      `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerContact  string      `gorm:"type:varchar(255)" json:"customer_contact"`
	Status           OrderStatus `gorm:"type:varchar(25);not null;default:'DRAFT'" json:"status"`
	ProgressPercent  int         `gorm:"not null;default:0" json:"progress_percent"`
	Notes            string      `gorm:"type:text" json:"notes"`
	PlannedStartDate *time.Time  `json:"planned_start_date,omitempty"`
	PlannedEndDate   *time.Time  `json:"planned_end_date,omitempty"`
	ActualStartDate  *time.Time  `json:"actual_start_date,omitempty"`
	ActualEndDate    *time.Time  `json:"actual_end_date,omitempty"`
	CreatedAt        time.Time   `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time   `gorm:"not null" json:"updated_at"`

	ManufacturingOrders []ManufacturingOrder `gorm:"foreignKey:OrderID" json:"manufacturing_orders"`
}
