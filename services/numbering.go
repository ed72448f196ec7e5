package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/models"
)

// NumberGenerator membuat nomor dokumen human-readable
// (ORD-20250114-0001, MO-..., JS-..., TSK-...). Di-inject ke
// controller/service supaya bisa diganti saat test; uniqueness
// dijamin count per-hari di dalam transaksi pembuatan entity
// plus unique index di kolom nomor.
type NumberGenerator struct {
	Now func() time.Time
}

func NewNumberGenerator() *NumberGenerator {
	return &NumberGenerator{Now: time.Now}
}

func (g *NumberGenerator) format(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, g.Now().Format("20060102"), seq+1)
}

func (g *NumberGenerator) todayRange() (time.Time, time.Time) {
	now := g.Now()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.Add(24 * time.Hour)
}

func (g *NumberGenerator) NextOrderNumber(tx *gorm.DB) (string, error) {
	start, end := g.todayRange()
	var count int64
	if err := tx.Model(&models.Order{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return "", err
	}
	return g.format("ORD", count), nil
}

func (g *NumberGenerator) NextMONumber(tx *gorm.DB) (string, error) {
	start, end := g.todayRange()
	var count int64
	if err := tx.Model(&models.ManufacturingOrder{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return "", err
	}
	return g.format("MO", count), nil
}

func (g *NumberGenerator) NextJobsheetNumber(tx *gorm.DB) (string, error) {
	start, end := g.todayRange()
	var count int64
	if err := tx.Model(&models.Jobsheet{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return "", err
	}
	return g.format("JS", count), nil
}

func (g *NumberGenerator) NextTaskNumber(tx *gorm.DB) (string, error) {
	start, end := g.todayRange()
	var count int64
	if err := tx.Model(&models.Task{}).
		Where("created_at >= ? AND created_at < ?", start, end).
		Count(&count).Error; err != nil {
		return "", err
	}
	return g.format("TSK", count), nil
}
