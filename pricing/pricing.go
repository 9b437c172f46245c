// Package pricing holds the money and weight arithmetic for orders: line
// totals at checkout and the weight/price reconciliation the butcher applies
// after physically weighing a cut. All intermediate arithmetic runs on
// decimals; floats appear only at the JSON/BSON boundary.
package pricing

import (
	"github.com/shopspring/decimal"

	"carniceria-backend/models"
)

// Display rounding: CLP amounts to 2 decimals, weights to 3 (grams).
const (
	amountPlaces = 2
	weightPlaces = 3
)

// Round2 rounds a currency amount per display policy.
func Round2(amount float64) float64 {
	v, _ := decimal.NewFromFloat(amount).Round(amountPlaces).Float64()
	return v
}

// LineTotal returns unitPrice × quantity rounded per display policy.
func LineTotal(unitPrice, quantity float64) float64 {
	v, _ := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromFloat(quantity)).
		Round(amountPlaces).
		Float64()
	return v
}

// OrderTotal sums the rounded line totals over all items, so the total is
// always the exact sum of the per-line amounts the customer sees. Items with
// nil price or quantity contribute nothing.
func OrderTotal(items []models.OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		if item.Unit_price == nil || item.Quantity == nil {
			continue
		}
		total = total.Add(
			decimal.NewFromFloat(*item.Unit_price).
				Mul(decimal.NewFromFloat(*item.Quantity)).
				Round(amountPlaces),
		)
	}
	v, _ := total.Float64()
	return v
}

// PriceFromWeight resolves the line price for an operator-entered exact
// weight: price = weight × unitPrice.
func PriceFromWeight(weight, unitPrice float64) float64 {
	return LineTotal(unitPrice, weight)
}

// WeightFromPrice resolves the weight for an operator-entered exact price:
// weight = price ÷ unitPrice, 0 when the unit price is 0.
func WeightFromPrice(price, unitPrice float64) float64 {
	if unitPrice == 0 {
		return 0
	}
	v, _ := decimal.NewFromFloat(price).
		Div(decimal.NewFromFloat(unitPrice)).
		Round(weightPlaces).
		Float64()
	return v
}
