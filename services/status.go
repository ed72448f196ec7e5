package services

import (
	"github.com/yeremiapane/manufacturing-app/models"
)

// Status deriver: memetakan progress hasil agregasi ke status diskrit.
// Hanya pernah memindahkan entity di antara tiga bucket (initial,
// in-progress, completed). Status eksplisit seperti CANCELLED, QC,
// MATERIAL_PREPARATION, dan DELIVERED tidak pernah di-assign maupun
// ditimpa dari sini; itu diset oleh aksi user/workflow.

// DeriveJobsheetStatus menurunkan status jobsheet dari progress.
func DeriveJobsheetStatus(current models.JobsheetStatus, progress int) models.JobsheetStatus {
	if current == models.JobsheetCancelled {
		return current
	}
	switch {
	case progress == 100:
		return models.JobsheetCompleted
	case progress > 0:
		return models.JobsheetInProgress
	default:
		return models.JobsheetPreparing
	}
}

// DeriveMOStatus menurunkan status MO dari progress.
// QC dan MATERIAL_PREPARATION diset manual sehingga dipertahankan
// selama progress belum menyentuh batas bucket berikutnya.
func DeriveMOStatus(current models.MOStatus, progress int) models.MOStatus {
	if current == models.MOCancelled {
		return current
	}
	switch {
	case progress == 100:
		return models.MOCompleted
	case progress > 0:
		if current == models.MOQC || current == models.MOMaterial {
			return current
		}
		return models.MOInProd
	default:
		if current == models.MOQC || current == models.MOMaterial {
			return current
		}
		return models.MOPlanned
	}
}

// DeriveOrderStatus menurunkan status order dari progress.
// Status approval-workflow (PLANNING, MATERIAL_PREPARATION) dan
// DELIVERED bukan wewenang deriver, jadi dipertahankan.
func DeriveOrderStatus(current models.OrderStatus, progress int) models.OrderStatus {
	if current == models.OrderCancelled || current == models.OrderDelivered {
		return current
	}
	switch {
	case progress == 100:
		return models.OrderCompleted
	case progress > 0:
		if current == models.OrderPlanning || current == models.OrderMaterial {
			return current
		}
		return models.OrderInProd
	default:
		if current == models.OrderPlanning || current == models.OrderMaterial || current == models.OrderInProd {
			return current
		}
		return models.OrderDraft
	}
}
