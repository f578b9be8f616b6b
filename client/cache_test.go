package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/02priyeshraj/Restaurant_POS_Backend/helper"
	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTestCache(t *testing.T) *TableCache {
	t.Helper()
	return NewTableCache(filepath.Join(t.TempDir(), "tableState.json"))
}

func serverOrder(tableNumber int, items ...models.OrderItem) *models.Order {
	n := tableNumber
	order := &models.Order{
		ID:            primitive.NewObjectID(),
		TableNumber:   &n,
		Items:         items,
		Status:        models.OrderActive,
		PaymentStatus: models.PaymentPending,
	}
	bill := helper.CalculateBill(items)
	order.Subtotal = bill.Subtotal
	order.Gst = bill.Gst
	order.Total = bill.Total
	return order
}

func TestHydrateMissingFile(t *testing.T) {
	cache := newTestCache(t)
	require.NoError(t, cache.Hydrate())
	assert.Empty(t, cache.Tables())
}

func TestHydrateRunsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tableState.json")

	first := NewTableCache(path)
	require.NoError(t, first.Hydrate())
	first.AddItem(1, "p1", "Burger", 149)
	first.SetActiveTable(1)

	second := NewTableCache(path)
	require.NoError(t, second.Hydrate())
	require.NoError(t, second.Hydrate())

	assert.Equal(t, 1, second.ActiveTable())
	entry := second.Entry(1)
	require.NotNil(t, entry)
	require.NotNil(t, entry.Order)
	require.Len(t, entry.Order.Items, 1)
	assert.Equal(t, "p1", entry.Order.Items[0].Product)

	// Mutations after hydration must not be clobbered by a second Hydrate
	second.AddItem(2, "p2", "Pizza", 299)
	require.NoError(t, second.Hydrate())
	assert.NotNil(t, second.Entry(2))
}

func TestAddItemMergesDuplicateLines(t *testing.T) {
	cache := newTestCache(t)

	cache.AddItem(1, "p1", "Burger", 149)
	order := cache.AddItem(1, "p1", "Burger", 149)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 298.0, order.Items[0].Subtotal)

	order = cache.AddItem(1, "p2", "Pizza", 299)
	require.Len(t, order.Items, 2)
	assert.Equal(t, 1, order.Items[1].Quantity)

	assert.Equal(t, 597.0, helper.RoundMoney(order.Subtotal))
	assert.Equal(t, helper.RoundMoney(order.Subtotal*0.18), helper.RoundMoney(order.Gst))
	assert.Equal(t, helper.RoundMoney(order.Subtotal+order.Gst), helper.RoundMoney(order.Total))
}

func TestUpdateQuantityToZeroRemovesLine(t *testing.T) {
	cache := newTestCache(t)

	cache.AddItem(1, "p1", "Burger", 149)
	cache.AddItem(1, "p2", "Pizza", 299)

	order := cache.UpdateQuantity(1, "p1", 0)
	require.NotNil(t, order)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "p2", order.Items[0].Product)
	assert.Equal(t, 299.0, helper.RoundMoney(order.Subtotal))
}

func TestUpdateQuantitySetsLine(t *testing.T) {
	cache := newTestCache(t)

	cache.AddItem(1, "p1", "Burger", 149)
	order := cache.UpdateQuantity(1, "p1", 4)

	require.Len(t, order.Items, 1)
	assert.Equal(t, 4, order.Items[0].Quantity)
	assert.Equal(t, 596.0, order.Items[0].Subtotal)
	assert.Equal(t, 596.0, helper.RoundMoney(order.Subtotal))
}

func TestActiveTableRoundTripPreservesCart(t *testing.T) {
	cache := newTestCache(t)

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)
	cache.AddItem(1, "p2", "Pizza", 299)
	before := cache.Entry(1)

	cache.SetActiveTable(2)
	cache.SetActiveTable(1)

	after := cache.Entry(1)
	require.NotNil(t, after.Order)
	assert.Equal(t, before.Order.Items, after.Order.Items)
	assert.Equal(t, before.Order.Total, after.Order.Total)
}

func TestSetActiveTableResolvesPendingOrderFromSnapshot(t *testing.T) {
	cache := newTestCache(t)
	now := time.Now()
	cache.now = func() time.Time { return now }

	order := serverOrder(3, models.OrderItem{Product: "p1", Name: "Burger", Quantity: 2, Price: 149, Subtotal: 298})
	cache.AttachOrder(3, order)

	// Switching away parks the order in the snapshot cache
	cache.SetActiveTable(3)
	cache.SetActiveTable(1)

	// Drop the resolved object so the refresh below only carries the bare id
	cache.mu.Lock()
	cache.tables[3].Order = nil
	cache.mu.Unlock()

	one, three := 1, 3
	capacity := 4
	orderId := order.ID.Hex()
	cache.ApplyTables([]models.Table{
		{TableNumber: &one, Capacity: &capacity, Status: models.TableAvailable},
		{TableNumber: &three, Capacity: &capacity, Status: models.TableEngaged, CurrentOrder: &orderId},
	})

	resolved := cache.SetActiveTable(3)
	require.NotNil(t, resolved.Order)
	require.Len(t, resolved.Order.Items, 1)
	assert.Equal(t, "p1", resolved.Order.Items[0].Product)
	assert.Equal(t, order.ID, resolved.Order.ID)
}

func TestSetActiveTableExpiredSnapshotYieldsEmptyOrder(t *testing.T) {
	cache := newTestCache(t)
	now := time.Now()
	cache.now = func() time.Time { return now }

	order := serverOrder(3, models.OrderItem{Product: "p1", Quantity: 1, Price: 149, Subtotal: 149})
	cache.SetActiveTable(3)
	cache.AttachOrder(3, order)
	cache.SetActiveTable(1)

	// Force the bare-id path, then let the snapshot expire
	cache.mu.Lock()
	entry := cache.tables[3]
	entry.Order = nil
	entry.PendingOrderID = order.ID.Hex()
	cache.mu.Unlock()

	now = now.Add(snapshotTTL + time.Second)

	resolved := cache.SetActiveTable(3)
	require.NotNil(t, resolved.Order)
	assert.True(t, resolved.Order.ID.IsZero())
	assert.Empty(t, resolved.Order.Items)
	assert.Equal(t, models.OrderActive, resolved.Order.Status)
}

func TestRefreshThrottle(t *testing.T) {
	cache := newTestCache(t)
	now := time.Now()
	cache.now = func() time.Time { return now }

	assert.True(t, cache.ShouldRefresh())

	cache.MarkFetched()
	assert.False(t, cache.ShouldRefresh())

	now = now.Add(refreshWindow - time.Second)
	assert.False(t, cache.ShouldRefresh())

	now = now.Add(2 * time.Second)
	assert.True(t, cache.ShouldRefresh())
}

func TestApplyTablesReconciliation(t *testing.T) {
	cache := newTestCache(t)

	// Local draft the server does not know about yet
	cache.AddItem(1, "p1", "Burger", 149)
	// Entry for a table the server no longer lists
	cache.AddItem(9, "p2", "Pizza", 299)

	one, two := 1, 2
	capFour := 4
	cache.ApplyTables([]models.Table{
		{TableNumber: &one, Capacity: &capFour, Status: models.TableAvailable},
		{TableNumber: &two, Capacity: &capFour, Status: models.TableAvailable},
	})

	entry := cache.Entry(1)
	require.NotNil(t, entry)
	assert.Equal(t, 4, entry.Capacity)
	require.NotNil(t, entry.Order, "local draft must survive reconciliation")
	assert.Len(t, entry.Order.Items, 1)

	assert.NotNil(t, cache.Entry(2))
	assert.Nil(t, cache.Entry(9), "soft-deleted tables drop out of the cache")
}

func TestStillCurrentAfterTableSwitch(t *testing.T) {
	cache := newTestCache(t)

	cache.SetActiveTable(1)
	tag := cache.CurrentTag()
	assert.True(t, cache.StillCurrent(tag))

	cache.SetActiveTable(2)
	assert.False(t, cache.StillCurrent(tag), "a tag issued before a table switch is stale")
}

func TestActiveOrderIsCanonical(t *testing.T) {
	cache := newTestCache(t)

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)

	active := cache.ActiveOrder()
	require.NotNil(t, active)

	cache.AddItem(1, "p1", "Burger", 149)
	assert.Equal(t, 2, active.Items[0].Quantity, "the active order and the map entry are the same object")
}
