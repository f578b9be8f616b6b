package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/02priyeshraj/Restaurant_POS_Backend/helper"
	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// stubServer fakes the order/table endpoints the sync layer talks to.
type stubServer struct {
	mux          *http.ServeMux
	listCalls    int
	createCalls  int
	updateCalls  int
	failCreate   int // status code to fail order creation with, 0 = succeed
	failUpdate   int
	tables       []models.Table
	beforeCreate func() // hook run before the create response is built
}

func newStubServer() *stubServer {
	s := &stubServer{mux: http.NewServeMux()}

	s.mux.HandleFunc("/tables", func(w http.ResponseWriter, r *http.Request) {
		s.listCalls++
		json.NewEncoder(w).Encode(map[string]interface{}{"tables": s.tables})
	})

	s.mux.HandleFunc("/orders", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			s.createCalls++
			if s.beforeCreate != nil {
				s.beforeCreate()
			}
			if s.failCreate != 0 {
				w.WriteHeader(s.failCreate)
				json.NewEncoder(w).Encode(map[string]string{"error": "rejected"})
				return
			}
			var req OrderRequest
			json.NewDecoder(r.Body).Decode(&req)
			order := buildOrder(req.TableNumber, req.Items)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]interface{}{"order": order})
		case http.MethodPut:
			s.updateCalls++
			if s.failUpdate != 0 {
				w.WriteHeader(s.failUpdate)
				json.NewEncoder(w).Encode(map[string]string{"error": "rejected"})
				return
			}
			var update OrderUpdate
			json.NewDecoder(r.Body).Decode(&update)
			order := buildOrder(0, update.Items)
			id, _ := primitive.ObjectIDFromHex(update.OrderId)
			order.ID = id
			order.Status = update.Status
			order.PaymentStatus = update.PaymentStatus
			order.PaymentMethod = update.PaymentMethod
			json.NewEncoder(w).Encode(map[string]interface{}{"order": order})
		}
	})

	return s
}

func buildOrder(tableNumber int, items []models.OrderItem) *models.Order {
	order := &models.Order{
		ID:            primitive.NewObjectID(),
		TableNumber:   &tableNumber,
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

func newTestSyncer(t *testing.T) (*Syncer, *TableCache, *stubServer) {
	t.Helper()

	stub := newStubServer()
	server := httptest.NewServer(stub.mux)
	t.Cleanup(server.Close)

	cache := NewTableCache(filepath.Join(t.TempDir(), "tableState.json"))
	api := NewAPIClient(server.URL)
	return NewSyncer(api, cache), cache, stub
}

func TestPlaceOrderEngagesTable(t *testing.T) {
	syncer, cache, _ := newTestSyncer(t)

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)
	cache.AddItem(1, "p2", "Pizza", 299)

	order, err := syncer.PlaceOrder(context.Background(), 1, "Staff")
	require.NoError(t, err)
	require.NotNil(t, order)
	assert.False(t, order.ID.IsZero())

	entry := cache.Entry(1)
	assert.Equal(t, models.TableEngaged, entry.Status)
	require.NotNil(t, entry.Order)
	assert.Equal(t, order.ID, entry.Order.ID)
	assert.Len(t, entry.Order.Items, 2)
}

func TestPlaceOrderEmptyCartRejected(t *testing.T) {
	syncer, cache, stub := newTestSyncer(t)

	cache.SetActiveTable(1)
	_, err := syncer.PlaceOrder(context.Background(), 1, "Staff")

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, stub.createCalls, "no network call for an empty cart")
}

func TestPlaceOrderFailureRollsBack(t *testing.T) {
	syncer, cache, stub := newTestSyncer(t)
	stub.failCreate = http.StatusBadRequest

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)

	_, err := syncer.PlaceOrder(context.Background(), 1, "Staff")
	require.ErrorIs(t, err, ErrInvalidInput)

	// The drafted cart survives the failed call untouched
	entry := cache.Entry(1)
	require.NotNil(t, entry.Order)
	require.Len(t, entry.Order.Items, 1)
	assert.True(t, entry.Order.ID.IsZero())
	assert.NotEqual(t, models.TableEngaged, entry.Status)
}

func TestSettleBillReleasesTable(t *testing.T) {
	syncer, cache, _ := newTestSyncer(t)

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)

	placed, err := syncer.PlaceOrder(context.Background(), 1, "Staff")
	require.NoError(t, err)

	settled, err := syncer.SettleBill(context.Background(), 1, "card")
	require.NoError(t, err)
	assert.Equal(t, placed.ID, settled.ID)
	assert.Equal(t, models.OrderCompleted, settled.Status)
	assert.Equal(t, models.PaymentCompleted, settled.PaymentStatus)
	assert.Equal(t, "card", settled.PaymentMethod)

	entry := cache.Entry(1)
	assert.Equal(t, models.TableAvailable, entry.Status)
	assert.Nil(t, entry.Order)
}

func TestSettleBillPlacesDraftedOrderFirst(t *testing.T) {
	syncer, cache, stub := newTestSyncer(t)

	cache.SetActiveTable(2)
	cache.AddItem(2, "p1", "Burger", 149)

	_, err := syncer.SettleBill(context.Background(), 2, "cash")
	require.NoError(t, err)

	assert.Equal(t, 1, stub.createCalls)
	assert.Equal(t, 1, stub.updateCalls)
	assert.Equal(t, models.TableAvailable, cache.Entry(2).Status)
}

func TestSettleBillFailureRollsBack(t *testing.T) {
	syncer, cache, stub := newTestSyncer(t)
	stub.failUpdate = http.StatusInternalServerError

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)
	_, err := syncer.PlaceOrder(context.Background(), 1, "Staff")
	require.NoError(t, err)

	_, err = syncer.SettleBill(context.Background(), 1, "cash")
	require.ErrorIs(t, err, ErrPersistence)

	// Failed settlement leaves the engaged order in place
	entry := cache.Entry(1)
	assert.Equal(t, models.TableEngaged, entry.Status)
	require.NotNil(t, entry.Order)
	assert.False(t, entry.Order.ID.IsZero())
}

func TestClearTableWithoutOrderIsNoOp(t *testing.T) {
	syncer, _, stub := newTestSyncer(t)

	require.NoError(t, syncer.ClearTable(context.Background(), 5))
	assert.Zero(t, stub.createCalls)
	assert.Zero(t, stub.updateCalls)
}

func TestClearTableLocalDraftSkipsServer(t *testing.T) {
	syncer, cache, stub := newTestSyncer(t)

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)

	require.NoError(t, syncer.ClearTable(context.Background(), 1))
	assert.Zero(t, stub.updateCalls)

	entry := cache.Entry(1)
	assert.Nil(t, entry.Order)
	assert.Equal(t, models.TableAvailable, entry.Status)
}

func TestClearTableCompletesOpenOrder(t *testing.T) {
	syncer, cache, stub := newTestSyncer(t)

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)
	_, err := syncer.PlaceOrder(context.Background(), 1, "Staff")
	require.NoError(t, err)

	require.NoError(t, syncer.ClearTable(context.Background(), 1))
	assert.Equal(t, 1, stub.updateCalls)
	assert.Equal(t, models.TableAvailable, cache.Entry(1).Status)
}

func TestRefreshTablesThrottled(t *testing.T) {
	syncer, _, stub := newTestSyncer(t)

	one := 1
	capacity := 4
	stub.tables = []models.Table{{TableNumber: &one, Capacity: &capacity, Status: models.TableAvailable, IsActive: true}}

	_, err := syncer.RefreshTables(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.listCalls)

	// Within the window the cached list is served without a network call
	entries, err := syncer.RefreshTables(context.Background(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stub.listCalls)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].TableNumber)

	// Explicit actions bypass the throttle
	_, err = syncer.RefreshTables(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, stub.listCalls)
}

func TestStaleResponseNotApplied(t *testing.T) {
	syncer, cache, stub := newTestSyncer(t)

	cache.SetActiveTable(1)
	cache.AddItem(1, "p1", "Burger", 149)

	// The user switches tables while the create request is in flight
	stub.beforeCreate = func() { cache.SetActiveTable(2) }

	order, err := syncer.PlaceOrder(context.Background(), 1, "Staff")
	require.NoError(t, err)
	require.NotNil(t, order, "the server-side result is still returned")

	// The stale response must not have been applied to the cache
	entry := cache.Entry(1)
	require.NotNil(t, entry)
	if entry.Order != nil {
		assert.True(t, entry.Order.ID.IsZero())
	}
	assert.NotEqual(t, models.TableEngaged, entry.Status)
}
