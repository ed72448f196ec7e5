package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yeremiapane/manufacturing-app/models"
)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(&models.Order{}, &models.ManufacturingOrder{}, &models.Jobsheet{}, &models.Task{})
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// seedChain membuat satu chain order -> MO -> jobsheet untuk test.
func seedChain(t *testing.T, db *gorm.DB) (models.Order, models.ManufacturingOrder, models.Jobsheet) {
	order := models.Order{
		OrderNumber:  "ORD-20250101-0001",
		CustomerName: "PT Maju Jaya",
		Status:       models.OrderInProd,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatal(err)
	}
	mo := models.ManufacturingOrder{
		MONumber:    "MO-20250101-0001",
		OrderID:     order.ID,
		ProductName: "Bracket",
		Quantity:    10,
		Status:      models.MOInProd,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	if err := db.Create(&mo).Error; err != nil {
		t.Fatal(err)
	}
	jobsheet := models.Jobsheet{
		JobsheetNumber:       "JS-20250101-0001",
		ManufacturingOrderID: mo.ID,
		ProcessName:          "Milling",
		Status:               models.JobsheetInProgress,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	if err := db.Create(&jobsheet).Error; err != nil {
		t.Fatal(err)
	}
	return order, mo, jobsheet
}

func addTask(t *testing.T, db *gorm.DB, jobsheetID uint, number string, progress int, plannedHours *float64) models.Task {
	task := models.Task{
		TaskNumber:      number,
		JobsheetID:      jobsheetID,
		Name:            "task " + number,
		Status:          models.TaskPending,
		ProgressPercent: progress,
		PlannedHours:    plannedHours,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	if err := db.Create(&task).Error; err != nil {
		t.Fatal(err)
	}
	return task
}

func hoursPtr(v float64) *float64 { return &v }

func TestJobsheetProgressWeightedByPlannedHours(t *testing.T) {
	db := setupServiceTestDB(t)
	_, _, jobsheet := seedChain(t, db)

	// plannedHours [4,6], progress [50,100] => round((50*4+100*6)/10) = 80
	addTask(t, db, jobsheet.ID, "TSK-1", 50, hoursPtr(4))
	addTask(t, db, jobsheet.ID, "TSK-2", 100, hoursPtr(6))

	progress, err := RecomputeJobsheetProgress(db, jobsheet.ID)
	assert.NoError(t, err)
	assert.Equal(t, 80, progress)
}

func TestJobsheetProgressFallsBackToMeanWithoutWeights(t *testing.T) {
	db := setupServiceTestDB(t)
	_, _, jobsheet := seedChain(t, db)

	// plannedHours [0,0], progress [20,80] => mean 50
	addTask(t, db, jobsheet.ID, "TSK-1", 20, hoursPtr(0))
	addTask(t, db, jobsheet.ID, "TSK-2", 80, hoursPtr(0))

	progress, err := RecomputeJobsheetProgress(db, jobsheet.ID)
	assert.NoError(t, err)
	assert.Equal(t, 50, progress)
}

func TestJobsheetProgressNilPlannedHoursFallsBackToMean(t *testing.T) {
	db := setupServiceTestDB(t)
	_, _, jobsheet := seedChain(t, db)

	addTask(t, db, jobsheet.ID, "TSK-1", 30, nil)
	addTask(t, db, jobsheet.ID, "TSK-2", 40, nil)

	progress, err := RecomputeJobsheetProgress(db, jobsheet.ID)
	assert.NoError(t, err)
	assert.Equal(t, 35, progress)
}

func TestJobsheetProgressZeroTasksIsZero(t *testing.T) {
	db := setupServiceTestDB(t)
	_, _, jobsheet := seedChain(t, db)

	progress, err := RecomputeJobsheetProgress(db, jobsheet.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, progress)
}

func TestJobsheetProgressRoundsHalfUp(t *testing.T) {
	db := setupServiceTestDB(t)
	_, _, jobsheet := seedChain(t, db)

	// mean(25, 50) = 37.5 => 38
	addTask(t, db, jobsheet.ID, "TSK-1", 25, nil)
	addTask(t, db, jobsheet.ID, "TSK-2", 50, nil)

	progress, err := RecomputeJobsheetProgress(db, jobsheet.ID)
	assert.NoError(t, err)
	assert.Equal(t, 38, progress)
}

func TestMOProgressIsMeanOfJobsheets(t *testing.T) {
	db := setupServiceTestDB(t)
	_, mo, jobsheet := seedChain(t, db)

	db.Model(&models.Jobsheet{}).Where("id = ?", jobsheet.ID).Update("progress_percent", 40)
	second := models.Jobsheet{
		JobsheetNumber:       "JS-20250101-0002",
		ManufacturingOrderID: mo.ID,
		ProcessName:          "Turning",
		Status:               models.JobsheetInProgress,
		ProgressPercent:      100,
		CreatedAt:            time.Now(),
		UpdatedAt:            time.Now(),
	}
	assert.NoError(t, db.Create(&second).Error)

	progress, err := RecomputeMOProgress(db, mo.ID)
	assert.NoError(t, err)
	assert.Equal(t, 70, progress)
}

func TestOrderProgressIsMeanOfMOs(t *testing.T) {
	db := setupServiceTestDB(t)
	order, mo, _ := seedChain(t, db)

	db.Model(&models.ManufacturingOrder{}).Where("id = ?", mo.ID).Update("progress_percent", 33)
	second := models.ManufacturingOrder{
		MONumber:        "MO-20250101-0002",
		OrderID:         order.ID,
		ProductName:     "Shaft",
		Quantity:        5,
		Status:          models.MOInProd,
		ProgressPercent: 100,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
	}
	assert.NoError(t, db.Create(&second).Error)

	// mean(33,100) = 66.5 => 67
	progress, err := RecomputeOrderProgress(db, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 67, progress)
}

func TestOrderProgressWithoutMOsIsZero(t *testing.T) {
	db := setupServiceTestDB(t)

	order := models.Order{
		OrderNumber:  "ORD-20250101-0009",
		CustomerName: "PT Sendiri",
		Status:       models.OrderDraft,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	assert.NoError(t, db.Create(&order).Error)

	progress, err := RecomputeOrderProgress(db, order.ID)
	assert.NoError(t, err)
	assert.Equal(t, 0, progress)
}
