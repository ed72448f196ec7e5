package models

import "time"

// BreakdownLog adalah catatan kerusakan independen per task.
// Cascade tidak pernah membaca tabel ini; task hanya membawa
// marker HasBreakdown untuk kebutuhan tampilan.
type BreakdownLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	TaskID      uint       `gorm:"not null;index" json:"task_id"`
	Task        Task       `gorm:"foreignKey:TaskID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	MachineID   *uint      `gorm:"index" json:"machine_id,omitempty"`
	Description string     `gorm:"type:text;not null" json:"description"`
	ReportedBy  uint       `gorm:"not null" json:"reported_by"`
	ReportedAt  time.Time  `gorm:"not null" json:"reported_at"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updated_at"`
}
