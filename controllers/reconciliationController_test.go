package controllers

import (
	"testing"

	"carniceria-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func sampleItems() []models.OrderItem {
	return []models.OrderItem{
		{Product_id: sptr("p1"), Name: sptr("Costillas de Cerdo"), Quantity: fptr(3), Unit: sptr("kg"), Unit_price: fptr(6298)},
		{Product_id: sptr("p2"), Name: sptr("Longaniza"), Quantity: fptr(1), Unit: sptr("kg"), Unit_price: fptr(4990)},
	}
}

func TestApplyReconciliationByWeight(t *testing.T) {
	items, total, err := applyReconciliation(sampleItems(), []ItemEdit{
		{Index: 0, Mode: EditModeWeight, Value: 2.85},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.85, *items[0].Quantity)
	assert.Equal(t, 3.0, *items[0].Original_quantity)
	assert.Nil(t, items[1].Original_quantity)
	assert.InDelta(t, 22939.3, total, 0.01)
}

func TestApplyReconciliationByPrice(t *testing.T) {
	// The operator keys in the label price; the weight is derived from it.
	items, total, err := applyReconciliation(sampleItems(), []ItemEdit{
		{Index: 0, Mode: EditModePrice, Value: 17949.3},
	})
	require.NoError(t, err)

	assert.InDelta(t, 2.85, *items[0].Quantity, 0.001)
	assert.Equal(t, 3.0, *items[0].Original_quantity)
	assert.InDelta(t, 17949.3+4990, total, 0.01)
}

func TestApplyReconciliationMultipleEdits(t *testing.T) {
	items, total, err := applyReconciliation(sampleItems(), []ItemEdit{
		{Index: 0, Mode: EditModeWeight, Value: 2.85},
		{Index: 1, Mode: EditModeWeight, Value: 1.2},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.85, *items[0].Quantity)
	assert.Equal(t, 1.2, *items[1].Quantity)
	assert.Equal(t, 1.0, *items[1].Original_quantity)
	assert.InDelta(t, 17949.3+5988, total, 0.01)
}

func TestApplyReconciliationKeepsFirstOriginalQuantity(t *testing.T) {
	// Re-weighing the same item must not clobber what the customer ordered.
	items, _, err := applyReconciliation(sampleItems(), []ItemEdit{
		{Index: 0, Mode: EditModeWeight, Value: 2.9},
		{Index: 0, Mode: EditModeWeight, Value: 2.85},
	})
	require.NoError(t, err)

	assert.Equal(t, 2.85, *items[0].Quantity)
	assert.Equal(t, 3.0, *items[0].Original_quantity)
}

func TestApplyReconciliationRejectsBadInput(t *testing.T) {
	_, _, err := applyReconciliation(sampleItems(), nil)
	assert.Error(t, err)

	_, _, err = applyReconciliation(sampleItems(), []ItemEdit{{Index: 5, Mode: EditModeWeight, Value: 1}})
	assert.Error(t, err)

	_, _, err = applyReconciliation(sampleItems(), []ItemEdit{{Index: -1, Mode: EditModeWeight, Value: 1}})
	assert.Error(t, err)

	_, _, err = applyReconciliation(sampleItems(), []ItemEdit{{Index: 0, Mode: EditModeWeight, Value: 0}})
	assert.Error(t, err)

	_, _, err = applyReconciliation(sampleItems(), []ItemEdit{{Index: 0, Mode: "volume", Value: 1}})
	assert.Error(t, err)
}

func TestApplyReconciliationRejectsIncompleteItem(t *testing.T) {
	items := []models.OrderItem{{Product_id: sptr("p1"), Quantity: fptr(1)}}
	_, _, err := applyReconciliation(items, []ItemEdit{{Index: 0, Mode: EditModeWeight, Value: 1}})
	assert.Error(t, err)
}
