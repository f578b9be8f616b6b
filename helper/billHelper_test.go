package helper

import (
	"testing"

	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateBillEmpty(t *testing.T) {
	bill := CalculateBill(nil)
	assert.Zero(t, bill.Subtotal)
	assert.Zero(t, bill.Gst)
	assert.Zero(t, bill.Total)

	bill = CalculateBill([]models.OrderItem{})
	assert.Zero(t, bill.Subtotal)
	assert.Zero(t, bill.Gst)
	assert.Zero(t, bill.Total)
}

func TestCalculateBillWorkedExample(t *testing.T) {
	items := []models.OrderItem{
		{Product: "p1", Price: 149, Quantity: 1},
		{Product: "p2", Price: 299, Quantity: 2},
	}

	bill := CalculateBill(items)

	assert.Equal(t, 747.00, RoundMoney(bill.Subtotal))
	assert.Equal(t, 134.46, RoundMoney(bill.Gst))
	assert.Equal(t, 881.46, RoundMoney(bill.Total))
}

func TestCalculateBillInvariants(t *testing.T) {
	cases := [][]models.OrderItem{
		{{Price: 99, Quantity: 3}},
		{{Price: 49.5, Quantity: 2}, {Price: 109, Quantity: 1}},
		{{Price: 0, Quantity: 5}},
		{{Price: 129, Quantity: 1}, {Price: 129, Quantity: 4}, {Price: 69, Quantity: 2}},
	}

	for _, items := range cases {
		bill := CalculateBill(items)

		var expected float64
		for _, item := range items {
			expected += item.Price * float64(item.Quantity)
		}

		require.InDelta(t, expected, bill.Subtotal, 1e-9)
		require.InDelta(t, bill.Subtotal*GSTRate, bill.Gst, 1e-9)
		require.InDelta(t, bill.Subtotal+bill.Gst, bill.Total, 1e-9)
	}
}

func TestCalculateBillDoesNotMutateItems(t *testing.T) {
	items := []models.OrderItem{{Product: "p1", Price: 149, Quantity: 2}}
	CalculateBill(items)

	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 149.0, items[0].Price)
}

func TestLineSubtotal(t *testing.T) {
	assert.Equal(t, 298.0, LineSubtotal(149, 2))
	assert.Equal(t, 0.0, LineSubtotal(149, 0))
}

func TestRoundMoney(t *testing.T) {
	assert.Equal(t, 134.46, RoundMoney(134.46000000000001))
	assert.Equal(t, 0.1, RoundMoney(0.10499))
	assert.Equal(t, 0.0, RoundMoney(0))
}
