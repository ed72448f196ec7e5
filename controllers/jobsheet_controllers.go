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

type JobsheetController struct {
	DB      *gorm.DB
	Numbers *services.NumberGenerator
}

func NewJobsheetController(db *gorm.DB) *JobsheetController {
	return &JobsheetController{DB: db, Numbers: services.NewNumberGenerator()}
}

// GetJobsheetsByMO -> list jobsheet milik satu MO
func (jc *JobsheetController) GetJobsheetsByMO(c *gin.Context) {
	moID := c.Param("mo_id")

	var jobsheets []models.Jobsheet
	if err := jc.DB.Preload("Tasks").
		Where("manufacturing_order_id = ?", moID).
		Order("created_at ASC").
		Find(&jobsheets).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of jobsheets", jobsheets)
}

// CreateJobsheet -> buat jobsheet di bawah MO
func (jc *JobsheetController) CreateJobsheet(c *gin.Context) {
	moIDStr := c.Param("mo_id")
	moID, _ := strconv.Atoi(moIDStr)

	var mo models.ManufacturingOrder
	if err := jc.DB.First(&mo, moID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type ReqBody struct {
		ProcessName      string     `json:"process_name" binding:"required"`
		PlannedStartDate *time.Time `json:"planned_start_date"`
		PlannedEndDate   *time.Time `json:"planned_end_date"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var jobsheet models.Jobsheet
	err := jc.DB.Transaction(func(tx *gorm.DB) error {
		number, err := jc.Numbers.NextJobsheetNumber(tx)
		if err != nil {
			return err
		}
		jobsheet = models.Jobsheet{
			JobsheetNumber:       number,
			ManufacturingOrderID: mo.ID,
			ProcessName:          body.ProcessName,
			Status:               models.JobsheetPreparing,
			ProgressPercent:      0,
			PlannedStartDate:     body.PlannedStartDate,
			PlannedEndDate:       body.PlannedEndDate,
			CreatedAt:            time.Now(),
			UpdatedAt:            time.Now(),
		}
		return tx.Create(&jobsheet).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	monitor.BroadcastJobsheetUpdate(jobsheet)
	utils.RespondJSON(c, http.StatusCreated, "Jobsheet created", jobsheet)
}

// GetJobsheetByID -> detail 1 jobsheet dengan task-nya
func (jc *JobsheetController) GetJobsheetByID(c *gin.Context) {
	idStr := c.Param("jobsheet_id")
	id, _ := strconv.Atoi(idStr)

	var jobsheet models.Jobsheet
	if err := jc.DB.Preload("Tasks").First(&jobsheet, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Jobsheet detail", jobsheet)
}

// UpdateJobsheet -> edit struktural; ditolak kalau sudah ada task
// yang pernah clock-in
func (jc *JobsheetController) UpdateJobsheet(c *gin.Context) {
	idStr := c.Param("jobsheet_id")
	id, _ := strconv.Atoi(idStr)

	var jobsheet models.Jobsheet
	if err := jc.DB.First(&jobsheet, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	ok, err := services.CanEditJobsheet(jc.DB, jobsheet.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("jobsheet %s sudah pernah dikerjakan dan tidak bisa diedit", jobsheet.JobsheetNumber))
		return
	}

	type UpdateReq struct {
		ProcessName      *string    `json:"process_name"`
		PlannedStartDate *time.Time `json:"planned_start_date"`
		PlannedEndDate   *time.Time `json:"planned_end_date"`
	}
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.ProcessName != nil {
		jobsheet.ProcessName = *req.ProcessName
	}
	if req.PlannedStartDate != nil {
		jobsheet.PlannedStartDate = req.PlannedStartDate
	}
	if req.PlannedEndDate != nil {
		jobsheet.PlannedEndDate = req.PlannedEndDate
	}
	jobsheet.UpdatedAt = time.Now()

	if err := jc.DB.Save(&jobsheet).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	monitor.BroadcastJobsheetUpdate(jobsheet)
	utils.RespondJSON(c, http.StatusOK, "Jobsheet updated", jobsheet)
}

// DeleteJobsheet -> hanya selama belum ada task yang pernah clock-in
func (jc *JobsheetController) DeleteJobsheet(c *gin.Context) {
	idStr := c.Param("jobsheet_id")
	id, _ := strconv.Atoi(idStr)

	var jobsheet models.Jobsheet
	if err := jc.DB.First(&jobsheet, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	ok, err := services.CanEditJobsheet(jc.DB, jobsheet.ID)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if !ok {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("jobsheet %s sudah pernah dikerjakan dan tidak bisa dihapus", jobsheet.JobsheetNumber))
		return
	}

	if err := jc.DB.Select("Tasks").Delete(&jobsheet).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Jobsheet deleted", gin.H{"jobsheet_id": id})
}
