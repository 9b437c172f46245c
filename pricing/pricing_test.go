package pricing

import (
	"testing"

	"carniceria-backend/models"

	"github.com/stretchr/testify/assert"
)

func fptr(v float64) *float64 { return &v }
func sptr(s string) *string   { return &s }

func TestLineTotal(t *testing.T) {
	assert.Equal(t, 18894.0, LineTotal(6298, 3))
	assert.Equal(t, 0.0, LineTotal(6298, 0))
	assert.Equal(t, 3149.0, LineTotal(6298, 0.5))
}

func TestOrderTotalSumsItems(t *testing.T) {
	items := []models.OrderItem{
		{Product_id: sptr("a"), Name: sptr("Costillas de Cerdo"), Quantity: fptr(3), Unit: sptr("kg"), Unit_price: fptr(6298)},
		{Product_id: sptr("b"), Name: sptr("Longaniza"), Quantity: fptr(1.5), Unit: sptr("kg"), Unit_price: fptr(4990)},
	}
	assert.Equal(t, 18894.0+7485.0, OrderTotal(items))
}

func TestOrderTotalSkipsIncompleteItems(t *testing.T) {
	items := []models.OrderItem{
		{Quantity: fptr(2), Unit_price: nil},
		{Quantity: nil, Unit_price: fptr(1000)},
		{Quantity: fptr(2), Unit_price: fptr(1000)},
	}
	assert.Equal(t, 2000.0, OrderTotal(items))
}

func TestOrderTotalRoundsPerLine(t *testing.T) {
	// Each line is 2.01 × 0.5 = 1.005, shown to the customer as 1.01; the
	// total is the sum of the displayed lines, not a single rounding of the
	// raw sum (which would give 2.01).
	items := []models.OrderItem{
		{Product_id: sptr("a"), Quantity: fptr(0.5), Unit_price: fptr(2.01)},
		{Product_id: sptr("b"), Quantity: fptr(0.5), Unit_price: fptr(2.01)},
	}
	assert.Equal(t, 2.02, OrderTotal(items))
}

func TestReconciliationWorkedExample(t *testing.T) {
	// 3 kg of Costillas de Cerdo at 6298/kg, reconciled to 2.85 kg.
	assert.Equal(t, 17949.3, PriceFromWeight(2.85, 6298))
	assert.Equal(t, 2.85, WeightFromPrice(17949.3, 6298))
}

func TestWeightPriceRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		weight    float64
		unitPrice float64
	}{
		{2.85, 6298},
		{0.5, 4990},
		{1, 12500},
		{0.125, 8000},
	} {
		price := PriceFromWeight(tc.weight, tc.unitPrice)
		assert.InDelta(t, tc.weight, WeightFromPrice(price, tc.unitPrice), 0.001,
			"weight %v at %v", tc.weight, tc.unitPrice)
	}
}

func TestWeightFromZeroUnitPrice(t *testing.T) {
	assert.Equal(t, 0.0, WeightFromPrice(5000, 0))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 17949.3, Round2(17949.3000001))
	assert.Equal(t, 10.57, Round2(10.565))
}
