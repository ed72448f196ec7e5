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
	"github.com/yeremiapane/manufacturing-app/services"
	"github.com/yeremiapane/manufacturing-app/utils"
)

type OrderController struct {
	DB       *gorm.DB
	Approval *services.ApprovalWorkflow
	Numbers  *services.NumberGenerator
}

func NewOrderController(db *gorm.DB) *OrderController {
	return &OrderController{
		DB:       db,
		Approval: services.NewApprovalWorkflow(db),
		Numbers:  services.NewNumberGenerator(),
	}
}

// GetAllOrders -> list orders beserta MO-nya
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	query := oc.DB.Preload("ManufacturingOrders")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrder -> buat order baru (status=DRAFT)
func (oc *OrderController) CreateOrder(c *gin.Context) {
	type ReqBody struct {
		CustomerName     string     `json:"customer_name" binding:"required"`
		CustomerContact  string     `json:"customer_contact"`
		Notes            string     `json:"notes"`
		PlannedStartDate *time.Time `json:"planned_start_date"`
		PlannedEndDate   *time.Time `json:"planned_end_date"`
	}

	var body ReqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var order models.Order
	err := oc.DB.Transaction(func(tx *gorm.DB) error {
		number, err := oc.Numbers.NextOrderNumber(tx)
		if err != nil {
			return err
		}
		order = models.Order{
			OrderNumber:      number,
			CustomerName:     body.CustomerName,
			CustomerContact:  body.CustomerContact,
			Status:           models.OrderDraft,
			ProgressPercent:  0,
			Notes:            body.Notes,
			PlannedStartDate: body.PlannedStartDate,
			PlannedEndDate:   body.PlannedEndDate,
			CreatedAt:        time.Now(),
			UpdatedAt:        time.Now(),
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// GetOrderByID -> detail 1 order dengan seluruh subtree
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var order models.Order
	if err := oc.DB.Preload("ManufacturingOrders").
		Preload("ManufacturingOrders.Jobsheets").
		Preload("ManufacturingOrders.Jobsheets.Tasks").
		First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrder -> edit field deskriptif order (bukan status/progress;
// itu wewenang cascade dan approval workflow)
func (oc *OrderController) UpdateOrder(c *gin.Context) {
	orderID := c.Param("order_id")

	var order models.Order
	if err := oc.DB.First(&order, orderID).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	type UpdateReq struct {
		CustomerName     *string    `json:"customer_name"`
		CustomerContact  *string    `json:"customer_contact"`
		Notes            *string    `json:"notes"`
		PlannedStartDate *time.Time `json:"planned_start_date"`
		PlannedEndDate   *time.Time `json:"planned_end_date"`
	}

	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	if req.CustomerName != nil {
		order.CustomerName = *req.CustomerName
	}
	if req.CustomerContact != nil {
		order.CustomerContact = *req.CustomerContact
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.PlannedStartDate != nil {
		order.PlannedStartDate = req.PlannedStartDate
	}
	if req.PlannedEndDate != nil {
		order.PlannedEndDate = req.PlannedEndDate
	}
	order.UpdatedAt = time.Now()

	if err := oc.DB.Save(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	monitor.BroadcastOrderUpdate(order)
	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

// DeleteOrder -> hanya boleh selama order & seluruh turunannya belum mulai
func (oc *OrderController) DeleteOrder(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var order models.Order
	if err := oc.DB.Preload("ManufacturingOrders").First(&order, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, err)
		return
	}

	if order.Status != models.OrderDraft || order.ProgressPercent > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("order %s sudah berjalan dan tidak bisa dihapus", order.OrderNumber))
		return
	}
	for _, mo := range order.ManufacturingOrders {
		if !services.CanEditMO(&mo) {
			utils.RespondError(c, http.StatusConflict,
				fmt.Errorf("MO %s sudah berjalan dan tidak bisa dihapus", mo.MONumber))
			return
		}
	}

	// Cek seluruh subtree: task yang pernah clock-in atau sudah berprogress
	// berarti order sudah mulai walau progress di atas masih 0.
	var started int64
	if err := oc.DB.Model(&models.Task{}).
		Joins("JOIN jobsheets ON jobsheets.id = tasks.jobsheet_id").
		Joins("JOIN manufacturing_orders ON manufacturing_orders.id = jobsheets.manufacturing_order_id").
		Where("manufacturing_orders.order_id = ? AND (tasks.clocked_in_at IS NOT NULL OR tasks.progress_percent > 0)", order.ID).
		Count(&started).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	if started > 0 {
		utils.RespondError(c, http.StatusConflict,
			fmt.Errorf("order %s punya task yang sudah dikerjakan dan tidak bisa dihapus", order.OrderNumber))
		return
	}

	if err := oc.DB.Select("ManufacturingOrders").Delete(&order).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order deleted", gin.H{"order_id": id})
}

/*
========================================
 APPROVAL WORKFLOW
========================================
*/

// ApplyApprovalAction -> tombol workflow dari UI (submit_for_review,
// approve_engineering, send_to_client, approve_client, reject)
func (oc *OrderController) ApplyApprovalAction(c *gin.Context) {
	idStr := c.Param("order_id")
	id, _ := strconv.Atoi(idStr)

	var req struct {
		Action string `json:"action" binding:"required"`
		Note   string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	actor := "system"
	if userID, exists := c.Get("user_id"); exists {
		actor = fmt.Sprintf("user-%v", userID)
	}

	result, err := oc.Approval.ApplyApprovalAction(uint(id), services.ApprovalAction(req.Action), req.Note, actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	monitor.BroadcastApprovalUpdate(result)
	if result.Notified {
		monitor.BroadcastFloorNotification(
			fmt.Sprintf("Order %s dikirim ke client untuk approval", result.Order.OrderNumber))
	}

	utils.RespondJSON(c, http.StatusOK, "Approval action applied", result)
}

// respondServiceError menerjemahkan taxonomy error service ke kode HTTP.
func respondServiceError(c *gin.Context, err error) {
	var invalid *services.InvalidTransitionError
	var invariant *services.InvariantError
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.As(err, &invalid):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrConcurrencyConflict):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.As(err, &invariant):
		utils.RespondError(c, http.StatusUnprocessableEntity, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}
