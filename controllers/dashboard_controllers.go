package controllers

import (
	"database/sql"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/models"
	"github.com/yeremiapane/manufacturing-app/monitor"
	"github.com/yeremiapane/manufacturing-app/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// GetDashboardStats mengambil statistik lantai produksi untuk dashboard
func (dc *DashboardController) GetDashboardStats(c *gin.Context) {
	var stats struct {
		TotalOrders int64 `json:"total_orders"`
		OrderStats  struct {
			Draft     int64 `json:"draft"`
			Planning  int64 `json:"planning"`
			Material  int64 `json:"material_preparation"`
			InProd    int64 `json:"in_production"`
			Completed int64 `json:"completed"`
			Delivered int64 `json:"delivered"`
			Cancelled int64 `json:"cancelled"`
		} `json:"order_stats"`
		TaskStats struct {
			Pending   int64 `json:"pending"`
			Running   int64 `json:"running"`
			Paused    int64 `json:"paused"`
			Completed int64 `json:"completed"`
			Breakdown int64 `json:"breakdown"`
		} `json:"task_stats"`
		MachineStats struct {
			Available   int64 `json:"available"`
			Running     int64 `json:"running"`
			Maintenance int64 `json:"maintenance"`
		} `json:"machine_stats"`
		AvgTaskHours    float64 `json:"avg_task_hours"`
		AvgOrderPercent float64 `json:"avg_order_percent"`
	}

	dc.DB.Model(&models.Order{}).Count(&stats.TotalOrders)
	dc.DB.Model(&models.Order{}).Where("status = ?", models.OrderDraft).Count(&stats.OrderStats.Draft)
	dc.DB.Model(&models.Order{}).Where("status = ?", models.OrderPlanning).Count(&stats.OrderStats.Planning)
	dc.DB.Model(&models.Order{}).Where("status = ?", models.OrderMaterial).Count(&stats.OrderStats.Material)
	dc.DB.Model(&models.Order{}).Where("status = ?", models.OrderInProd).Count(&stats.OrderStats.InProd)
	dc.DB.Model(&models.Order{}).Where("status = ?", models.OrderCompleted).Count(&stats.OrderStats.Completed)
	dc.DB.Model(&models.Order{}).Where("status = ?", models.OrderDelivered).Count(&stats.OrderStats.Delivered)
	dc.DB.Model(&models.Order{}).Where("status = ?", models.OrderCancelled).Count(&stats.OrderStats.Cancelled)

	dc.DB.Model(&models.Task{}).Where("status = ?", models.TaskPending).Count(&stats.TaskStats.Pending)
	dc.DB.Model(&models.Task{}).Where("status = ?", models.TaskRunning).Count(&stats.TaskStats.Running)
	dc.DB.Model(&models.Task{}).Where("status = ?", models.TaskPaused).Count(&stats.TaskStats.Paused)
	dc.DB.Model(&models.Task{}).Where("status = ?", models.TaskCompleted).Count(&stats.TaskStats.Completed)
	dc.DB.Model(&models.Task{}).Where("has_breakdown = ?", true).Count(&stats.TaskStats.Breakdown)

	dc.DB.Model(&models.Machine{}).Where("status = ?", "available").Count(&stats.MachineStats.Available)
	dc.DB.Model(&models.Machine{}).Where("status = ?", "running").Count(&stats.MachineStats.Running)
	dc.DB.Model(&models.Machine{}).Where("status = ?", "maintenance").Count(&stats.MachineStats.Maintenance)

	var avgHours sql.NullFloat64
	dc.DB.Model(&models.Task{}).
		Where("status = ? AND actual_hours > 0", models.TaskCompleted).
		Select("AVG(actual_hours)").
		Row().Scan(&avgHours)
	if avgHours.Valid {
		stats.AvgTaskHours = avgHours.Float64
	}

	var avgProgress sql.NullFloat64
	dc.DB.Model(&models.Order{}).
		Where("status NOT IN ?", []models.OrderStatus{models.OrderCancelled}).
		Select("AVG(progress_percent)").
		Row().Scan(&avgProgress)
	if avgProgress.Valid {
		stats.AvgOrderPercent = avgProgress.Float64
	}

	// Broadcast stats update
	monitor.BroadcastMessage(monitor.Message{
		Event: monitor.EventDashboardUpdate,
		Data:  stats,
	})

	utils.RespondJSON(c, http.StatusOK, "Dashboard stats retrieved successfully", gin.H{
		"data": stats,
	})
}

// GetProductionFlow memantau order aktif beserta subtree-nya
func (dc *DashboardController) GetProductionFlow(c *gin.Context) {
	var flow struct {
		PendingApproval []models.Order `json:"pending_approval"`
		ActiveOrders    []models.Order `json:"active_orders"`
	}

	dc.DB.Preload("ManufacturingOrders").
		Where("status IN ?", []models.OrderStatus{models.OrderPlanning, models.OrderMaterial}).
		Find(&flow.PendingApproval)

	dc.DB.Preload("ManufacturingOrders").
		Preload("ManufacturingOrders.Jobsheets").
		Preload("ManufacturingOrders.Jobsheets.Tasks").
		Where("status = ?", models.OrderInProd).
		Find(&flow.ActiveOrders)

	utils.RespondJSON(c, http.StatusOK, "Production flow status", gin.H{
		"data": gin.H{
			"production_flow": flow,
		},
	})
}

// GetProgressReport -> snapshot progress/status per order untuk export;
// read-only (reporting tidak pernah menulis ke hierarki)
func (dc *DashboardController) GetProgressReport(c *gin.Context) {
	var rows []struct {
		OrderID         uint    `json:"order_id"`
		OrderNumber     string  `json:"order_number"`
		CustomerName    string  `json:"customer_name"`
		Status          string  `json:"status"`
		ProgressPercent int     `json:"progress_percent"`
		MOCount         int64   `json:"mo_count"`
		TaskCount       int64   `json:"task_count"`
		TotalHours      float64 `json:"total_hours"`
		TotalHoursFmt   string  `gorm:"-" json:"total_hours_fmt"`
	}

	if err := dc.DB.Raw(`
		SELECT o.id as order_id, o.order_number, o.customer_name, o.status, o.progress_percent,
		COUNT(DISTINCT mo.id) as mo_count,
		COUNT(DISTINCT t.id) as task_count,
		COALESCE(SUM(t.actual_hours), 0) as total_hours
		FROM orders o
		LEFT JOIN manufacturing_orders mo ON mo.order_id = o.id
		LEFT JOIN jobsheets js ON js.manufacturing_order_id = mo.id
		LEFT JOIN tasks t ON t.jobsheet_id = js.id
		GROUP BY o.id, o.order_number, o.customer_name, o.status, o.progress_percent
		ORDER BY o.created_at DESC
	`).Scan(&rows).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	for i := range rows {
		rows[i].TotalHoursFmt = utils.FormatHours(rows[i].TotalHours)
	}

	utils.RespondJSON(c, http.StatusOK, "Progress report", gin.H{
		"data": gin.H{
			"orders": rows,
		},
	})
}
