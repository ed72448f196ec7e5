package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/models"
	"github.com/yeremiapane/manufacturing-app/utils"
)

type MachineController struct {
	DB *gorm.DB
}

func NewMachineController(db *gorm.DB) *MachineController {
	return &MachineController{DB: db}
}

// GetAllMachines -> list semua mesin
func (mc *MachineController) GetAllMachines(c *gin.Context) {
	var machines []models.Machine
	query := mc.DB
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("code ASC").Find(&machines).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of machines", machines)
}

// CreateMachine -> daftarkan mesin baru
func (mc *MachineController) CreateMachine(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
		Name string `json:"name" binding:"required"`
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	machine := models.Machine{
		Code:      req.Code,
		Name:      req.Name,
		Type:      req.Type,
		Status:    "available",
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := mc.DB.Create(&machine).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Machine created", machine)
}

// UpdateMachineStatus -> available / running / maintenance
func (mc *MachineController) UpdateMachineStatus(c *gin.Context) {
	idStr := c.Param("machine_id")
	id, _ := strconv.Atoi(idStr)

	var machine models.Machine
	if err := mc.DB.First(&machine, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	machine.Status = req.Status
	machine.UpdatedAt = time.Now()
	if err := mc.DB.Save(&machine).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Machine updated", machine)
}

// DeleteMachine -> hapus mesin yang tidak dipakai task manapun
func (mc *MachineController) DeleteMachine(c *gin.Context) {
	idStr := c.Param("machine_id")
	id, _ := strconv.Atoi(idStr)

	var count int64
	if err := mc.DB.Model(&models.Task{}).Where("machine_id = ?", id).Count(&count).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if count > 0 {
		utils.RespondError(c, http.StatusConflict, fmt.Errorf("mesin masih dipakai %d task", count))
		return
	}

	if err := mc.DB.Delete(&models.Machine{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Machine deleted", gin.H{"machine_id": id})
}
