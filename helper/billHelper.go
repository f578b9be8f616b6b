package helper

import (
	"math"

	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
)

// GSTRate is the fixed tax rate applied to every bill.
const GSTRate = 0.18

// Bill is the result of a bill computation. Values are unrounded; round at
// presentation time with RoundMoney to avoid compounding error across
// recomputation.
type Bill struct {
	Subtotal float64 `json:"subtotal"`
	Gst      float64 `json:"gst"`
	Total    float64 `json:"total"`
}

// CalculateBill derives subtotal, GST and total from an item list. Empty list
// yields exact zeros. Negative prices or quantities are the caller's problem to
// reject before calling.
func CalculateBill(items []models.OrderItem) Bill {
	var subtotal float64
	for _, item := range items {
		subtotal += item.Price * float64(item.Quantity)
	}
	gst := subtotal * GSTRate
	return Bill{
		Subtotal: subtotal,
		Gst:      gst,
		Total:    subtotal + gst,
	}
}

// LineSubtotal is the amount for a single order line.
func LineSubtotal(price float64, quantity int) float64 {
	return price * float64(quantity)
}

// RoundMoney rounds to the smallest currency unit, for display only.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
