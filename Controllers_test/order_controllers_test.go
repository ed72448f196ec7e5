package Controllers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/controllers"
	"github.com/yeremiapane/manufacturing-app/models"
	"github.com/yeremiapane/manufacturing-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	os.Exit(m.Run())
}

func setupTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.Machine{},
		&models.Order{},
		&models.ManufacturingOrder{},
		&models.Jobsheet{},
		&models.Task{},
		&models.BreakdownLog{},
	)
	if err != nil {
		panic(err)
	}
	return db
}

func setupOrderRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.Default()
	orderCtrl := controllers.NewOrderController(db)
	router.POST("/orders", orderCtrl.CreateOrder)
	router.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	router.POST("/orders/:order_id/approval", orderCtrl.ApplyApprovalAction)
	router.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)
	return router
}

func TestCreateAndGetOrder(t *testing.T) {
	db := setupTestDB()
	router := setupOrderRouter(db)

	payload := map[string]interface{}{
		"customer_name":    "PT Karya Logam",
		"customer_contact": "0812000111",
		"notes":            "urgent",
	}
	payloadBytes, err := json.Marshal(payload)
	assert.NoError(t, err)

	req, err := http.NewRequest("POST", "/orders", bytes.NewBuffer(payloadBytes))
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var createResp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &createResp)
	assert.NoError(t, err)
	assert.Equal(t, "Order created", createResp["message"])
	data := createResp["data"].(map[string]interface{})
	assert.Equal(t, "DRAFT", data["status"])
	assert.Equal(t, float64(0), data["progress_percent"])
	orderNumber := data["order_number"].(string)
	assert.Contains(t, orderNumber, "ORD-")
	orderID := int(data["id"].(float64))

	// Uji GET order by ID
	url := "/orders/" + strconv.Itoa(orderID)
	req, err = http.NewRequest("GET", url, nil)
	assert.NoError(t, err)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	var getResp map[string]interface{}
	err = json.Unmarshal(w.Body.Bytes(), &getResp)
	assert.NoError(t, err)
	assert.Equal(t, "Order detail", getResp["message"])
	getData := getResp["data"].(map[string]interface{})
	assert.Equal(t, float64(orderID), getData["id"].(float64))
}

func TestApprovalEndpointFullFlow(t *testing.T) {
	db := setupTestDB()
	router := setupOrderRouter(db)

	order := models.Order{
		OrderNumber:  "ORD-20250101-0001",
		CustomerName: "PT Flow",
		Status:       models.OrderDraft,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	assert.NoError(t, db.Create(&order).Error)

	apply := func(action string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]string{"action": action, "note": "ok"})
		req, _ := http.NewRequest("POST", "/orders/"+strconv.Itoa(int(order.ID))+"/approval", bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, apply("submit_for_review").Code)
	assert.Equal(t, http.StatusOK, apply("approve_engineering").Code)
	assert.Equal(t, http.StatusOK, apply("send_to_client").Code)

	w := apply("approve_client")
	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data := resp["data"].(map[string]interface{})
	orderData := data["order"].(map[string]interface{})
	assert.Equal(t, "IN_PRODUCTION", orderData["status"])
	assert.NotNil(t, data["created_mo"])

	var count int64
	db.Model(&models.ManufacturingOrder{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestApprovalEndpointRejectsInvalidTransition(t *testing.T) {
	db := setupTestDB()
	router := setupOrderRouter(db)

	order := models.Order{
		OrderNumber:  "ORD-20250101-0002",
		CustomerName: "PT Invalid",
		Status:       models.OrderDraft,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	assert.NoError(t, db.Create(&order).Error)

	body, _ := json.Marshal(map[string]string{"action": "approve_client"})
	req, _ := http.NewRequest("POST", "/orders/"+strconv.Itoa(int(order.ID))+"/approval", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var stored models.Order
	assert.NoError(t, db.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderDraft, stored.Status)
}

func TestDeleteOrderBlockedOnceStarted(t *testing.T) {
	db := setupTestDB()
	router := setupOrderRouter(db)

	order := models.Order{
		OrderNumber:     "ORD-20250101-0003",
		CustomerName:    "PT Jalan",
		Status:          models.OrderInProd,
		ProgressPercent: 20,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	assert.NoError(t, db.Create(&order).Error)

	req, _ := http.NewRequest("DELETE", "/orders/"+strconv.Itoa(int(order.ID)), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var count int64
	db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestDeleteOrderBlockedByClockedInDescendant(t *testing.T) {
	db := setupTestDB()
	router := setupOrderRouter(db)

	// Order masih DRAFT dengan progress 0, tapi satu task di subtree
	// sudah clock-in dan RUNNING
	order := models.Order{
		OrderNumber:  "ORD-20250101-0004",
		CustomerName: "PT Diam Diam Jalan",
		Status:       models.OrderDraft,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	assert.NoError(t, db.Create(&order).Error)
	mo := models.ManufacturingOrder{
		MONumber:    "MO-20250101-0004",
		OrderID:     order.ID,
		ProductName: "Bracket",
		Quantity:    1,
		Status:      models.MODraft,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	assert.NoError(t, db.Create(&mo).Error)
	jobsheet := models.Jobsheet{
		JobsheetNumber:       "JS-20250101-0004",
		ManufacturingOrderID: mo.ID,
		ProcessName:          "Milling",
		Status:               models.JobsheetPreparing,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	assert.NoError(t, db.Create(&jobsheet).Error)
	clockedIn := time.Now()
	task := models.Task{
		TaskNumber:  "TSK-20250101-0004",
		JobsheetID:  jobsheet.ID,
		Name:        "rough milling",
		Status:      models.TaskRunning,
		ClockedInAt: &clockedIn,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	assert.NoError(t, db.Create(&task).Error)

	req, _ := http.NewRequest("DELETE", "/orders/"+strconv.Itoa(int(order.ID)), nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var count int64
	db.Model(&models.Order{}).Where("id = ?", order.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}
