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

type MOController struct {
	DB      *gorm.DB
	Numbers *services.NumberGenerator
}

func NewMOController(db *gorm.DB) *MOController {
	return &MOController{DB: db, Numbers: services.NewNumberGenerator()}
}

// GetMOsByOrder -> list MO milik satu order
func (mc *MOController) GetMOsByOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	var mos []models.ManufacturingOrder
	if err := mc.DB.Preload("Jobsheets").
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&mos).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of manufacturing orders", mos)
}

// CreateMO -> buat MO manual di bawah order.
// Order juga mendapat MO pertama otomatis dari approve_client.
func (mc *MOController) CreateMO(c *gin.Context) {
	orderIDStr := c.Param("order_id")
	orderID, _ := strconv.Atoi(orderIDStr)

	var order models.Order
	if err := mc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type ReqBody struct {
		ProductName      string     `json:"product_name" binding:"required"`
		Quantity         int        `json:"quantity"`
		PlannedStartDate *time.Time `json:"planned_start_date"`
		PlannedEndDate   *time.Time `json:"planned_end_date"`
	}
	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if body.Quantity <= 0 {
		body.Quantity = 1
	}

	var mo models.ManufacturingOrder
	err := mc.DB.Transaction(func(tx *gorm.DB) error {
		number, err := mc.Numbers.NextMONumber(tx)
		if err != nil {
			return err
		}
		mo = models.ManufacturingOrder{
			MONumber:         number,
			OrderID:          order.ID,
			ProductName:      body.ProductName,
			Quantity:         body.Quantity,
			Status:           models.MODraft,
			ProgressPercent:  0,
			PlannedStartDate: body.PlannedStartDate,
			PlannedEndDate:   body.PlannedEndDate,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		return tx.Create(&mo).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	monitor.BroadcastMOUpdate(mo)
	utils.RespondJSON(c, http.StatusCreated, "Manufacturing order created", mo)
}

// GetMOByID -> detail 1 MO dengan jobsheet + task
func (mc *MOController) GetMOByID(c *gin.Context) {
	idStr := c.Param("mo_id")
	id, _ := strconv.Atoi(idStr)

	var mo models.ManufacturingOrder
	if err := mc.DB.Preload("Jobsheets").
		Preload("Jobsheets.Tasks").
		First(&mo, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Manufacturing order detail", mo)
}

// UpdateMO -> edit struktural; hanya boleh selama MO belum jalan
func (mc *MOController) UpdateMO(c *gin.Context) {
	idStr := c.Param("mo_id")
	id, _ := strconv.Atoi(idStr)

	var mo models.ManufacturingOrder
	if err := mc.DB.First(&mo, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !services.CanEditMO(&mo) {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("MO %s sudah berjalan dan tidak bisa diedit", mo.MONumber))
		return
	}

	type UpdateReq struct {
		ProductName      *string    `json:"product_name"`
		Quantity         *int       `json:"quantity"`
		PlannedStartDate *time.Time `json:"planned_start_date"`
		PlannedEndDate   *time.Time `json:"planned_end_date"`
	}
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.ProductName != nil {
		mo.ProductName = *req.ProductName
	}
	if req.Quantity != nil && *req.Quantity > 0 {
		mo.Quantity = *req.Quantity
	}
	if req.PlannedStartDate != nil {
		mo.PlannedStartDate = req.PlannedStartDate
	}
	if req.PlannedEndDate != nil {
		mo.PlannedEndDate = req.PlannedEndDate
	}
	mo.UpdatedAt = time.Now()

	if err := mc.DB.Save(&mo).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	monitor.BroadcastMOUpdate(mo)
	utils.RespondJSON(c, http.StatusOK, "Manufacturing order updated", mo)
}

// DeleteMO -> hanya selama MO dan turunannya belum mulai
func (mc *MOController) DeleteMO(c *gin.Context) {
	idStr := c.Param("mo_id")
	id, _ := strconv.Atoi(idStr)

	var mo models.ManufacturingOrder
	if err := mc.DB.Preload("Jobsheets").First(&mo, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if !services.CanEditMO(&mo) {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("MO %s sudah berjalan dan tidak bisa dihapus", mo.MONumber))
		return
	}
	for _, js := range mo.Jobsheets {
		ok, err := services.CanEditJobsheet(mc.DB, js.ID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
		if !ok {
			utils.RespondError(c, http.StatusConflict,
				fmt.Errorf("jobsheet %s sudah pernah dikerjakan", js.JobsheetNumber))
			return
		}
	}

	if err := mc.DB.Select("Jobsheets").Delete(&mo).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Manufacturing order deleted", gin.H{"mo_id": id})
}
