package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/models"
	"github.com/yeremiapane/manufacturing-app/monitor"
	"github.com/yeremiapane/manufacturing-app/utils"
)

type BreakdownController struct {
	DB *gorm.DB
}

func NewBreakdownController(db *gorm.DB) *BreakdownController {
	return &BreakdownController{DB: db}
}

// GetAllBreakdowns -> list catatan kerusakan, opsional filter task / open
func (bc *BreakdownController) GetAllBreakdowns(c *gin.Context) {
	var logs []models.BreakdownLog
	query := bc.DB
	if taskID := c.Query("task_id"); taskID != "" {
		query = query.Where("task_id = ?", taskID)
	}
	if c.Query("open") == "true" {
		query = query.Where("resolved_at IS NULL")
	}
	if err := query.Order("reported_at DESC").Find(&logs).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of breakdown logs", logs)
}

// ReportBreakdown -> operator melaporkan kerusakan pada task.
// Marker HasBreakdown di task hanya denormalisasi untuk tampilan;
// cascade tidak membacanya.
func (bc *BreakdownController) ReportBreakdown(c *gin.Context) {
	var req struct {
		TaskID      uint   `json:"task_id" binding:"required"`
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}
	userID, _ := userIDInterface.(uint)

	var log models.BreakdownLog
	err := bc.DB.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, req.TaskID).Error; err != nil {
			return err
		}

		log = models.BreakdownLog{
			TaskID:      task.ID,
			MachineID:   task.MachineID,
			Description: req.Description,
			ReportedBy:  userID,
			ReportedAt:  time.Now(),
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
		if err := tx.Create(&log).Error; err != nil {
			return err
		}

		task.HasBreakdown = true
		task.UpdatedAt = time.Now()
		return tx.Save(&task).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	monitor.BroadcastBreakdownAlert(log)
	monitor.BroadcastFloorNotification(fmt.Sprintf("Breakdown dilaporkan pada task %d", log.TaskID))

	utils.RespondJSON(c, http.StatusCreated, "Breakdown reported", log)
}

// ResolveBreakdown -> menandai kerusakan selesai; marker task
// dibersihkan kalau tidak ada breakdown lain yang masih open
func (bc *BreakdownController) ResolveBreakdown(c *gin.Context) {
	idStr := c.Param("breakdown_id")
	id, _ := strconv.Atoi(idStr)

	var log models.BreakdownLog
	err := bc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&log, id).Error; err != nil {
			return err
		}
		if log.ResolvedAt != nil {
			return fmt.Errorf("breakdown %d sudah di-resolve", log.ID)
		}

		now := time.Now()
		log.ResolvedAt = &now
		log.UpdatedAt = now
		if err := tx.Save(&log).Error; err != nil {
			return err
		}

		var openCount int64
		if err := tx.Model(&models.BreakdownLog{}).
			Where("task_id = ? AND resolved_at IS NULL", log.TaskID).
			Count(&openCount).Error; err != nil {
			return err
		}
		if openCount == 0 {
			return tx.Model(&models.Task{}).
				Where("id = ?", log.TaskID).
				Updates(map[string]interface{}{"has_breakdown": false, "updated_at": now}).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(c, http.StatusNotFound, err)
			return
		}
		utils.RespondError(c, http.StatusConflict, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Breakdown resolved", log)
}
