package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/manufacturing-app/models"
)

func TestDeriveJobsheetStatusBuckets(t *testing.T) {
	assert.Equal(t, models.JobsheetPreparing, DeriveJobsheetStatus(models.JobsheetPreparing, 0))
	assert.Equal(t, models.JobsheetInProgress, DeriveJobsheetStatus(models.JobsheetPreparing, 1))
	assert.Equal(t, models.JobsheetInProgress, DeriveJobsheetStatus(models.JobsheetInProgress, 99))
	assert.Equal(t, models.JobsheetCompleted, DeriveJobsheetStatus(models.JobsheetInProgress, 100))
	// Reopen: turun dari 100 kembali ke bucket progress
	assert.Equal(t, models.JobsheetInProgress, DeriveJobsheetStatus(models.JobsheetCompleted, 60))
	assert.Equal(t, models.JobsheetPreparing, DeriveJobsheetStatus(models.JobsheetCompleted, 0))
}

func TestDeriveJobsheetStatusCancelledIsTerminal(t *testing.T) {
	assert.Equal(t, models.JobsheetCancelled, DeriveJobsheetStatus(models.JobsheetCancelled, 0))
	assert.Equal(t, models.JobsheetCancelled, DeriveJobsheetStatus(models.JobsheetCancelled, 50))
	assert.Equal(t, models.JobsheetCancelled, DeriveJobsheetStatus(models.JobsheetCancelled, 100))
}

func TestDeriveMOStatusBuckets(t *testing.T) {
	assert.Equal(t, models.MOPlanned, DeriveMOStatus(models.MOPlanned, 0))
	assert.Equal(t, models.MOInProd, DeriveMOStatus(models.MOPlanned, 10))
	assert.Equal(t, models.MOCompleted, DeriveMOStatus(models.MOInProd, 100))
	assert.Equal(t, models.MOInProd, DeriveMOStatus(models.MOCompleted, 80))
}

func TestDeriveMOStatusPreservesExplicitStates(t *testing.T) {
	// QC dan MATERIAL_PREPARATION diset manual, deriver tidak menimpa
	assert.Equal(t, models.MOQC, DeriveMOStatus(models.MOQC, 50))
	assert.Equal(t, models.MOQC, DeriveMOStatus(models.MOQC, 0))
	assert.Equal(t, models.MOMaterial, DeriveMOStatus(models.MOMaterial, 25))
	// kecuali saat selesai total
	assert.Equal(t, models.MOCompleted, DeriveMOStatus(models.MOQC, 100))
	assert.Equal(t, models.MOCancelled, DeriveMOStatus(models.MOCancelled, 100))
}

func TestDeriveOrderStatusBuckets(t *testing.T) {
	assert.Equal(t, models.OrderDraft, DeriveOrderStatus(models.OrderDraft, 0))
	assert.Equal(t, models.OrderInProd, DeriveOrderStatus(models.OrderDraft, 5))
	assert.Equal(t, models.OrderCompleted, DeriveOrderStatus(models.OrderInProd, 100))
	assert.Equal(t, models.OrderInProd, DeriveOrderStatus(models.OrderCompleted, 90))
}

func TestDeriveOrderStatusPreservesWorkflowStates(t *testing.T) {
	// Status approval workflow bukan wewenang deriver
	assert.Equal(t, models.OrderPlanning, DeriveOrderStatus(models.OrderPlanning, 0))
	assert.Equal(t, models.OrderMaterial, DeriveOrderStatus(models.OrderMaterial, 0))
	assert.Equal(t, models.OrderMaterial, DeriveOrderStatus(models.OrderMaterial, 30))
	assert.Equal(t, models.OrderInProd, DeriveOrderStatus(models.OrderInProd, 0))
	assert.Equal(t, models.OrderDelivered, DeriveOrderStatus(models.OrderDelivered, 100))
	assert.Equal(t, models.OrderCancelled, DeriveOrderStatus(models.OrderCancelled, 40))
}
