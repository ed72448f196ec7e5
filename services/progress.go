package services

import (
	"math"

	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/models"
)

// Progress aggregator: query + hitung murni, tanpa side effect.
// Penulisan hasil ke parent dilakukan oleh cascade orchestrator
// supaya fungsi-fungsi ini bisa dites sendiri.

// RecomputeJobsheetProgress menghitung progress jobsheet dari task-nya.
// Rata-rata berbobot planned_hours; kalau total bobot 0 (semua task
// tanpa planned hours) jatuh ke rata-rata biasa. Tanpa task => 0.
func RecomputeJobsheetProgress(tx *gorm.DB, jobsheetID uint) (int, error) {
	var tasks []models.Task
	if err := tx.Select("progress_percent", "planned_hours").
		Where("jobsheet_id = ?", jobsheetID).
		Find(&tasks).Error; err != nil {
		return 0, err
	}
	if len(tasks) == 0 {
		return 0, nil
	}

	var weightSum, weighted float64
	for _, t := range tasks {
		if t.PlannedHours != nil && *t.PlannedHours > 0 {
			weightSum += *t.PlannedHours
			weighted += float64(t.ProgressPercent) * *t.PlannedHours
		}
	}
	if weightSum > 0 {
		return roundHalfUp(weighted / weightSum), nil
	}

	var sum float64
	for _, t := range tasks {
		sum += float64(t.ProgressPercent)
	}
	return roundHalfUp(sum / float64(len(tasks))), nil
}

// RecomputeMOProgress menghitung progress MO sebagai rata-rata
// progress jobsheet-nya.
func RecomputeMOProgress(tx *gorm.DB, moID uint) (int, error) {
	var progresses []int
	if err := tx.Model(&models.Jobsheet{}).
		Where("manufacturing_order_id = ?", moID).
		Pluck("progress_percent", &progresses).Error; err != nil {
		return 0, err
	}
	return meanProgress(progresses), nil
}

// RecomputeOrderProgress menghitung progress order sebagai rata-rata
// progress MO-nya.
func RecomputeOrderProgress(tx *gorm.DB, orderID uint) (int, error) {
	var progresses []int
	if err := tx.Model(&models.ManufacturingOrder{}).
		Where("order_id = ?", orderID).
		Pluck("progress_percent", &progresses).Error; err != nil {
		return 0, err
	}
	return meanProgress(progresses), nil
}

func meanProgress(progresses []int) int {
	if len(progresses) == 0 {
		return 0
	}
	var sum float64
	for _, p := range progresses {
		sum += float64(p)
	}
	return roundHalfUp(sum / float64(len(progresses)))
}

// roundHalfUp membulatkan ke integer terdekat, .5 ke atas.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// checkProgressBounds menolak hasil komputasi di luar [0,100]
// sebelum dipersist.
func checkProgressBounds(progress int) error {
	if progress < 0 || progress > 100 {
		return &InvariantError{Message: "computed progress out of range [0,100]"}
	}
	return nil
}
