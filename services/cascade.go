package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yeremiapane/manufacturing-app/models"
	"github.com/yeremiapane/manufacturing-app/utils"
)

// maxCascadeRetries membatasi retry transparan saat transaksi cascade
// konflik dengan cascade lain di chain yang sama.
const maxCascadeRetries = 3

// AncestorChain adalah hasil resolve task -> jobsheet -> MO -> order
// dalam satu fetch. Kedalaman tetap; ini sekaligus batas atomicity
// cascade (row lock hanya di chain ini, subtree lain tidak terblokir).
type AncestorChain struct {
	Task     models.Task
	Jobsheet models.Jobsheet
	MO       models.ManufacturingOrder
	Order    models.Order
}

// CascadeResult dikembalikan ke presentation layer: task yang berubah
// plus snapshot ancestor setelah rollup.
type CascadeResult struct {
	Task     models.Task               `json:"task"`
	Jobsheet models.Jobsheet           `json:"jobsheet"`
	MO       models.ManufacturingOrder `json:"manufacturing_order"`
	Order    models.Order              `json:"order"`
}

// CascadeOrchestrator adalah satu-satunya pintu mutasi status/progress
// hierarki. Setiap perubahan task menjalankan rollup jobsheet -> MO ->
// order secara berurutan dalam satu transaksi.
type CascadeOrchestrator struct {
	DB *gorm.DB
}

func NewCascadeOrchestrator(db *gorm.DB) *CascadeOrchestrator {
	return &CascadeOrchestrator{DB: db}
}

// withUpdateLock menambahkan SELECT ... FOR UPDATE pada dialek yang
// mendukungnya. SQLite (dipakai di test) mengunci di level database,
// jadi clause tidak diperlukan dan memang tidak valid di sana.
func withUpdateLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// resolveChain mengunci dan memuat task beserta seluruh ancestornya.
// Lock diambil top-down (order dulu) supaya dua cascade di chain yang
// sama selalu antri di row order dan tidak saling deadlock.
func resolveChain(tx *gorm.DB, taskID uint) (*AncestorChain, error) {
	chain := &AncestorChain{}

	if err := tx.First(&chain.Task, taskID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := tx.First(&chain.Jobsheet, chain.Task.JobsheetID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := tx.First(&chain.MO, chain.Jobsheet.ManufacturingOrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Re-read dengan lock, urut dari root ke leaf.
	if err := withUpdateLock(tx).
		First(&chain.Order, chain.MO.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := withUpdateLock(tx).
		First(&chain.MO, chain.MO.ID).Error; err != nil {
		return nil, err
	}
	if err := withUpdateLock(tx).
		First(&chain.Jobsheet, chain.Jobsheet.ID).Error; err != nil {
		return nil, err
	}
	if err := withUpdateLock(tx).
		First(&chain.Task, taskID).Error; err != nil {
		return nil, err
	}
	return chain, nil
}

// OnTaskChanged mengubah status sebuah task lalu menjalankan rollup
// progress + status ke jobsheet, MO, dan order miliknya. Seluruh urutan
// berjalan sebagai satu transaksi; konflik serialisasi di-retry sampai
// maxCascadeRetries sebelum dilaporkan sebagai ErrConcurrencyConflict.
func (co *CascadeOrchestrator) OnTaskChanged(taskID uint, newStatus models.TaskStatus, progress *int) (*CascadeResult, error) {
	var result *CascadeResult
	var err error
	for attempt := 0; attempt < maxCascadeRetries; attempt++ {
		result, err = co.runCascade(taskID, newStatus, progress)
		if err == nil || !isSerializationConflict(err) {
			return result, err
		}
		utils.InfoLogger.Printf("Cascade for task %d hit a lock conflict, retrying (%d/%d)",
			taskID, attempt+1, maxCascadeRetries)
	}
	return nil, ErrConcurrencyConflict
}

func (co *CascadeOrchestrator) runCascade(taskID uint, newStatus models.TaskStatus, progress *int) (*CascadeResult, error) {
	result := &CascadeResult{}

	err := co.DB.Transaction(func(tx *gorm.DB) error {
		chain, err := resolveChain(tx, taskID)
		if err != nil {
			return err
		}

		if err := applyTaskChange(&chain.Task, newStatus, progress, time.Now()); err != nil {
			return err
		}
		if err := tx.Save(&chain.Task).Error; err != nil {
			return err
		}

		// Rollup jobsheet dari task-tasknya.
		jsProgress, err := RecomputeJobsheetProgress(tx, chain.Jobsheet.ID)
		if err != nil {
			return err
		}
		if err := checkProgressBounds(jsProgress); err != nil {
			return err
		}
		chain.Jobsheet.ProgressPercent = jsProgress
		chain.Jobsheet.Status = DeriveJobsheetStatus(chain.Jobsheet.Status, jsProgress)
		setActualDates(&chain.Jobsheet.ActualStartDate, &chain.Jobsheet.ActualEndDate, jsProgress)
		chain.Jobsheet.UpdatedAt = time.Now()
		if err := tx.Save(&chain.Jobsheet).Error; err != nil {
			return err
		}

		// Rollup MO dari jobsheet-jobsheetnya.
		moProgress, err := RecomputeMOProgress(tx, chain.MO.ID)
		if err != nil {
			return err
		}
		if err := checkProgressBounds(moProgress); err != nil {
			return err
		}
		chain.MO.ProgressPercent = moProgress
		chain.MO.Status = DeriveMOStatus(chain.MO.Status, moProgress)
		setActualDates(&chain.MO.ActualStartDate, &chain.MO.ActualEndDate, moProgress)
		chain.MO.UpdatedAt = time.Now()
		if err := tx.Save(&chain.MO).Error; err != nil {
			return err
		}

		// Rollup order dari MO-MOnya.
		orderProgress, err := RecomputeOrderProgress(tx, chain.Order.ID)
		if err != nil {
			return err
		}
		if err := checkProgressBounds(orderProgress); err != nil {
			return err
		}
		chain.Order.ProgressPercent = orderProgress
		chain.Order.Status = DeriveOrderStatus(chain.Order.Status, orderProgress)
		setActualDates(&chain.Order.ActualStartDate, &chain.Order.ActualEndDate, orderProgress)
		chain.Order.UpdatedAt = time.Now()
		if err := tx.Save(&chain.Order).Error; err != nil {
			return err
		}

		result.Task = chain.Task
		result.Jobsheet = chain.Jobsheet
		result.MO = chain.MO
		result.Order = chain.Order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyTaskChange menerapkan aturan transisi leaf:
// COMPLETED memaksa progress 100 + timestamp resolusi, CANCELLED
// memaksa 0. Masuk RUNNING pertama kali mencatat clock-in; keluar
// RUNNING mencatat clock-out dan mengakumulasi actual hours.
// ActualHours dihitung per segmen RUNNING dari LastResumedAt supaya
// waktu pause tidak ikut terhitung.
func applyTaskChange(task *models.Task, newStatus models.TaskStatus, progress *int, now time.Time) error {
	wasRunning := task.Status == models.TaskRunning

	if progress != nil {
		if *progress < 0 || *progress > 100 {
			return &InvariantError{Message: "task progress out of range [0,100]"}
		}
		task.ProgressPercent = *progress
	}

	switch newStatus {
	case models.TaskCompleted:
		task.ProgressPercent = 100
		if task.CompletedAt == nil {
			task.CompletedAt = &now
		}
	case models.TaskCancelled:
		task.ProgressPercent = 0
	}

	if newStatus == models.TaskRunning && !wasRunning {
		if task.ClockedInAt == nil {
			task.ClockedInAt = &now
		} else {
			// Resume setelah pause: clock-out lama tidak berlaku lagi.
			task.ClockedOutAt = nil
		}
		task.LastResumedAt = &now
	}
	if wasRunning && newStatus != models.TaskRunning {
		task.ClockedOutAt = &now
		base := task.ClockedInAt
		if task.LastResumedAt != nil {
			base = task.LastResumedAt
		}
		if base != nil {
			task.ActualHours += now.Sub(*base).Hours()
		}
		task.LastResumedAt = nil
	}
	if newStatus != models.TaskCompleted && task.ProgressPercent < 100 {
		task.CompletedAt = nil
	}

	task.Status = newStatus
	task.UpdatedAt = now
	return nil
}

// setActualDates menjaga pasangan actual start/end terhadap progress:
// end hanya terisi saat progress 100 dan dikosongkan kalau turun lagi
// (task dibuka ulang); start terisi saat progress pertama kali bergerak.
func setActualDates(start, end **time.Time, progress int) {
	now := time.Now()
	if progress > 0 && *start == nil {
		*start = &now
	}
	if progress == 100 {
		if *end == nil {
			*end = &now
		}
	} else {
		*end = nil
	}
	if progress == 0 {
		*start = nil
	}
}

// isSerializationConflict mengenali error lock/deadlock dari MySQL
// (1213 deadlock, 1205 lock wait timeout) maupun SQLite saat test.
func isSerializationConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Deadlock") ||
		strings.Contains(msg, "Lock wait timeout") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}

// CanEditMO adalah guard read-only untuk UI: MO hanya boleh diedit /
// dihapus struktural selama masih di status awal dan belum jalan.
func CanEditMO(mo *models.ManufacturingOrder) bool {
	if mo.Status == models.MODraft {
		return true
	}
	return mo.Status == models.MOPlanned && mo.ProgressPercent == 0
}

// CanEditJobsheet: jobsheet hanya boleh diedit/dihapus selama belum
// ada task yang pernah clock-in.
func CanEditJobsheet(tx *gorm.DB, jobsheetID uint) (bool, error) {
	var count int64
	if err := tx.Model(&models.Task{}).
		Where("jobsheet_id = ? AND clocked_in_at IS NOT NULL", jobsheetID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}
