package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/yeremiapane/manufacturing-app/models"
)

func TestNumberGeneratorFormat(t *testing.T) {
	db := setupServiceTestDB(t)

	gen := &NumberGenerator{Now: func() time.Time {
		return time.Date(2025, 1, 14, 10, 0, 0, 0, time.Local)
	}}

	number, err := gen.NextOrderNumber(db)
	assert.NoError(t, err)
	assert.Equal(t, "ORD-20250114-0001", number)

	number, err = gen.NextMONumber(db)
	assert.NoError(t, err)
	assert.Equal(t, "MO-20250114-0001", number)

	number, err = gen.NextJobsheetNumber(db)
	assert.NoError(t, err)
	assert.Equal(t, "JS-20250114-0001", number)

	number, err = gen.NextTaskNumber(db)
	assert.NoError(t, err)
	assert.Equal(t, "TSK-20250114-0001", number)
}

func TestNumberGeneratorIncrementsPerDay(t *testing.T) {
	db := setupServiceTestDB(t)

	now := time.Now()
	gen := NewNumberGenerator()

	first, err := gen.NextOrderNumber(db)
	assert.NoError(t, err)
	assert.NoError(t, db.Create(&models.Order{
		OrderNumber:  first,
		CustomerName: "A",
		Status:       models.OrderDraft,
		CreatedAt:    now,
		UpdatedAt:    now,
	}).Error)

	second, err := gen.NextOrderNumber(db)
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)

	expected := "ORD-" + now.Format("20060102") + "-0002"
	assert.Equal(t, expected, second)
}
