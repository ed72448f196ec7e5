package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/controllers"
	"github.com/yeremiapane/manufacturing-app/models"
)

func setupBreakdownRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	// Inject user_id seperti yang dilakukan auth middleware
	router.Use(func(c *gin.Context) {
		c.Set("user_id", uint(7))
		c.Next()
	})
	breakdownCtrl := controllers.NewBreakdownController(db)
	router.POST("/breakdowns", breakdownCtrl.ReportBreakdown)
	router.POST("/breakdowns/:breakdown_id/resolve", breakdownCtrl.ResolveBreakdown)
	router.GET("/breakdowns", breakdownCtrl.GetAllBreakdowns)
	return router
}

func TestReportAndResolveBreakdown(t *testing.T) {
	db := setupTestDB()
	router := setupBreakdownRouter(db)
	_, _, jobsheet := seedHierarchy(t, db)

	task := models.Task{
		TaskNumber: "TSK-20250103-0001",
		JobsheetID: jobsheet.ID,
		Name:       "Drilling",
		Status:     models.TaskRunning,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
	}
	assert.NoError(t, db.Create(&task).Error)

	// Report -> marker task terpasang
	body, _ := json.Marshal(map[string]interface{}{
		"task_id":     task.ID,
		"description": "spindle overheat",
	})
	req, _ := http.NewRequest("POST", "/breakdowns", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	logData := resp["data"].(map[string]interface{})
	logID := int(logData["id"].(float64))

	var storedTask models.Task
	assert.NoError(t, db.First(&storedTask, task.ID).Error)
	assert.True(t, storedTask.HasBreakdown)

	// Resolve -> marker dibersihkan karena tidak ada breakdown open lain
	req, _ = http.NewRequest("POST", "/breakdowns/"+strconv.Itoa(logID)+"/resolve", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	assert.NoError(t, db.First(&storedTask, task.ID).Error)
	assert.False(t, storedTask.HasBreakdown)

	var storedLog models.BreakdownLog
	assert.NoError(t, db.First(&storedLog, logID).Error)
	assert.NotNil(t, storedLog.ResolvedAt)
}

func TestReportBreakdownUnknownTask(t *testing.T) {
	db := setupTestDB()
	router := setupBreakdownRouter(db)

	body, _ := json.Marshal(map[string]interface{}{
		"task_id":     9999,
		"description": "ghost",
	})
	req, _ := http.NewRequest("POST", "/breakdowns", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
