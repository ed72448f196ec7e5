package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/models"
	"github.com/yeremiapane/manufacturing-app/monitor"
	"github.com/yeremiapane/manufacturing-app/services"
	"github.com/yeremiapane/manufacturing-app/utils"
)

type TaskController struct {
	DB      *gorm.DB
	Cascade *services.CascadeOrchestrator
	Numbers *services.NumberGenerator
}

func NewTaskController(db *gorm.DB) *TaskController {
	return &TaskController{
		DB:      db,
		Cascade: services.NewCascadeOrchestrator(db),
		Numbers: services.NewNumberGenerator(),
	}
}

// GetTasksByJobsheet -> list task milik satu jobsheet
func (tc *TaskController) GetTasksByJobsheet(c *gin.Context) {
	jobsheetID := c.Param("jobsheet_id")

	var tasks []models.Task
	if err := tc.DB.Where("jobsheet_id = ?", jobsheetID).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of tasks", tasks)
}

// CreateTask -> buat machining task di bawah jobsheet
func (tc *TaskController) CreateTask(c *gin.Context) {
	jobsheetIDStr := c.Param("jobsheet_id")
	jobsheetID, _ := strconv.Atoi(jobsheetIDStr)

	var jobsheet models.Jobsheet
	if err := tc.DB.First(&jobsheet, jobsheetID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type ReqBody struct {
		Name         string   `json:"name" binding:"required"`
		PlannedHours *float64 `json:"planned_hours"`
		MachineID    *uint    `json:"machine_id"`
		AssignedTo   *uint    `json:"assigned_to"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.PlannedHours != nil && *body.PlannedHours < 0 {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("planned_hours tidak boleh negatif"))
		return
	}

	status := models.TaskPending
	if body.AssignedTo != nil {
		status = models.TaskAssigned
	}

	var task models.Task
	err := tc.DB.Transaction(func(tx *gorm.DB) error {
		number, err := tc.Numbers.NextTaskNumber(tx)
		if err != nil {
			return err
		}
		task = models.Task{
			TaskNumber:      number,
			JobsheetID:      jobsheet.ID,
			Name:            body.Name,
			Status:          status,
			ProgressPercent: 0,
			PlannedHours:    body.PlannedHours,
			MachineID:       body.MachineID,
			AssignedTo:      body.AssignedTo,
			CreatedAt:       time.Now(),
			UpdatedAt:       time.Now(),
		}
		return tx.Create(&task).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	monitor.BroadcastTaskUpdate(task)
	utils.RespondJSON(c, http.StatusCreated, "Task created", task)
}

// GetTaskByID -> detail 1 task
func (tc *TaskController) GetTaskByID(c *gin.Context) {
	idStr := c.Param("task_id")
	id, _ := strconv.Atoi(idStr)

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task detail", task)
}

// UpdateTaskStatus -> satu-satunya pintu perubahan status/progress task.
// Menjalankan cascade jobsheet -> MO -> order dan mengembalikan task
// beserta snapshot ancestor-nya.
func (tc *TaskController) UpdateTaskStatus(c *gin.Context) {
	idStr := c.Param("task_id")
	id, _ := strconv.Atoi(idStr)

	var req struct {
		Status   string `json:"status" binding:"required"`
		Progress *int   `json:"progress_percent"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	newStatus := models.TaskStatus(req.Status)
	switch newStatus {
	case models.TaskPending, models.TaskAssigned, models.TaskRunning,
		models.TaskPaused, models.TaskOnHold, models.TaskCompleted, models.TaskCancelled:
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("status task tidak dikenal: %s", req.Status))
		return
	}

	result, err := tc.Cascade.OnTaskChanged(uint(id), newStatus, req.Progress)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	monitor.BroadcastCascadeUpdate(result)
	utils.RespondJSON(c, http.StatusOK, "Task updated", result)
}

// UpdateTask -> edit field deskriptif (nama, planned hours, mesin, operator)
func (tc *TaskController) UpdateTask(c *gin.Context) {
	idStr := c.Param("task_id")
	id, _ := strconv.Atoi(idStr)

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type UpdateReq struct {
		Name         *string  `json:"name"`
		PlannedHours *float64 `json:"planned_hours"`
		MachineID    *uint    `json:"machine_id"`
		AssignedTo   *uint    `json:"assigned_to"`
	}
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.Name != nil {
		task.Name = *req.Name
	}
	if req.PlannedHours != nil {
		if *req.PlannedHours < 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("planned_hours tidak boleh negatif"))
			return
		}
		task.PlannedHours = req.PlannedHours
	}
	if req.MachineID != nil {
		task.MachineID = req.MachineID
	}
	if req.AssignedTo != nil {
		task.AssignedTo = req.AssignedTo
		if task.Status == models.TaskPending {
			task.Status = models.TaskAssigned
		}
	}
	task.UpdatedAt = time.Now()

	if err := tc.DB.Save(&task).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	monitor.BroadcastTaskUpdate(task)
	utils.RespondJSON(c, http.StatusOK, "Task updated", task)
}

// DeleteTask -> hanya selama task belum pernah dikerjakan
func (tc *TaskController) DeleteTask(c *gin.Context) {
	idStr := c.Param("task_id")
	id, _ := strconv.Atoi(idStr)

	var task models.Task
	if err := tc.DB.First(&task, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if task.ClockedInAt != nil || task.ProgressPercent > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("task %s sudah pernah dikerjakan dan tidak bisa dihapus", task.TaskNumber))
		return
	}

	if err := tc.DB.Delete(&task).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Task deleted", gin.H{"task_id": id})
}

// GetMyTasks -> daftar task yang di-assign ke operator login
func (tc *TaskController) GetMyTasks(c *gin.Context) {
	userIDInterface, exists := c.Get("user_id")
	if !exists {
		utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("user id not found in context"))
		return
	}

	var tasks []models.Task
	if err := tc.DB.Where("assigned_to = ? AND status NOT IN ?",
		userIDInterface, []models.TaskStatus{models.TaskCompleted, models.TaskCancelled}).
		Order("created_at ASC").
		Find(&tasks).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "My tasks", tasks)
}
