package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	database "github.com/02priyeshraj/Restaurant_POS_Backend/config"
	"github.com/02priyeshraj/Restaurant_POS_Backend/helper"
	"github.com/02priyeshraj/Restaurant_POS_Backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var orderCollection *mongo.Collection = database.OpenCollection(database.Client, "order")

// GetOrders returns orders filtered by date range, status and table number,
// newest first.
func GetOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	query := r.URL.Query()

	startDate := time.Unix(0, 0)
	if s := query.Get("startDate"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, `{"error": "Invalid startDate"}`, http.StatusBadRequest)
			return
		}
		startDate = parsed
	}

	endDate := time.Now()
	if s := query.Get("endDate"); s != "" {
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			http.Error(w, `{"error": "Invalid endDate"}`, http.StatusBadRequest)
			return
		}
		endDate = parsed
	}

	filter := bson.M{
		"orderDate": bson.M{"$gte": startDate, "$lte": endDate},
	}
	if status := query.Get("status"); status != "" {
		filter["status"] = status
	}
	if tableNumberParam := query.Get("tableNumber"); tableNumberParam != "" {
		tableNumber, err := strconv.Atoi(tableNumberParam)
		if err != nil {
			http.Error(w, `{"error": "Invalid tableNumber"}`, http.StatusBadRequest)
			return
		}
		filter["tableNumber"] = tableNumber
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "orderDate", Value: -1}})
	cursor, err := orderCollection.Find(ctx, filter, findOptions)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch orders"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		http.Error(w, `{"error": "Error decoding orders"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"orders": orders,
	})
}

// CreateOrder opens an order against a table. Totals are computed server-side
// from the supplied items; a client-sent total is never trusted. The table is
// marked engaged with currentOrder set in a single update.
func CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var order models.Order
	if err := json.NewDecoder(r.Body).Decode(&order); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if order.TableNumber == nil || len(order.Items) == 0 {
		http.Error(w, `{"error": "Table number and items are required"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.StructPartial(order, "TableNumber", "Items"); validationErr != nil {
		http.Error(w, `{"error": "Invalid order payload"}`, http.StatusBadRequest)
		return
	}

	var table models.Table
	err := tableCollection.FindOne(ctx, bson.M{"tableNumber": order.TableNumber, "isActive": true}).Decode(&table)
	if err != nil {
		http.Error(w, `{"error": "Table not found"}`, http.StatusNotFound)
		return
	}

	// A table holds at most one open order
	if table.CurrentOrder != nil {
		http.Error(w, `{"error": "Table already has an open order"}`, http.StatusBadRequest)
		return
	}

	for i := range order.Items {
		order.Items[i].Subtotal = helper.LineSubtotal(order.Items[i].Price, order.Items[i].Quantity)
	}
	bill := helper.CalculateBill(order.Items)
	order.Subtotal = bill.Subtotal
	order.Gst = bill.Gst
	order.Total = bill.Total

	order.ID = primitive.NewObjectID()
	order.Status = models.OrderActive
	order.PaymentStatus = models.PaymentPending
	if order.PaymentMethod == "" {
		order.PaymentMethod = "cash"
	}
	if order.ServedBy == "" {
		order.ServedBy = "Staff"
	}
	order.OrderDate = time.Now()
	order.CompletedAt = nil
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()

	if _, err := orderCollection.InsertOne(ctx, order); err != nil {
		http.Error(w, `{"error": "Order creation failed"}`, http.StatusInternalServerError)
		return
	}

	// Engage the table and attach the order in one $set so status and
	// currentOrder never transition apart
	orderId := order.ID.Hex()
	tableUpdate := bson.M{"$set": bson.M{
		"status":       models.TableEngaged,
		"currentOrder": orderId,
		"updatedAt":    time.Now(),
	}}
	if _, err := tableCollection.UpdateOne(ctx, bson.M{"tableNumber": order.TableNumber}, tableUpdate); err != nil {
		http.Error(w, `{"error": "Failed to update table status"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Order created successfully",
		"order":   order,
	})
}

// UpdateOrder replaces an order's items and/or completes it. Completing sets
// status and paymentStatus, stamps completedAt and releases the owning table
// back to available with currentOrder cleared in a single update.
func UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var payload struct {
		OrderId       string             `json:"orderId"`
		Items         []models.OrderItem `json:"items"`
		PaymentMethod string             `json:"paymentMethod"`
		Status        string             `json:"status"`
		PaymentStatus string             `json:"paymentStatus"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if payload.OrderId == "" {
		http.Error(w, `{"error": "Order ID is required"}`, http.StatusBadRequest)
		return
	}

	objectId, err := primitive.ObjectIDFromHex(payload.OrderId)
	if err != nil {
		http.Error(w, `{"error": "Invalid order ID"}`, http.StatusBadRequest)
		return
	}

	var order models.Order
	err = orderCollection.FindOne(ctx, bson.M{"_id": objectId}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		http.Error(w, `{"error": "Order not found"}`, http.StatusNotFound)
		return
	} else if err != nil {
		http.Error(w, `{"error": "Error retrieving order"}`, http.StatusInternalServerError)
		return
	}

	updateObj := bson.D{}

	// Replace the item list and recompute totals (bill persisted before printing)
	if payload.Items != nil {
		if len(payload.Items) == 0 {
			http.Error(w, `{"error": "Items cannot be empty"}`, http.StatusBadRequest)
			return
		}
		for i := range payload.Items {
			if payload.Items[i].Quantity < 1 || payload.Items[i].Price < 0 {
				http.Error(w, `{"error": "Invalid item quantity or price"}`, http.StatusBadRequest)
				return
			}
			payload.Items[i].Subtotal = helper.LineSubtotal(payload.Items[i].Price, payload.Items[i].Quantity)
		}
		bill := helper.CalculateBill(payload.Items)
		updateObj = append(updateObj,
			bson.E{Key: "items", Value: payload.Items},
			bson.E{Key: "subtotal", Value: bill.Subtotal},
			bson.E{Key: "gst", Value: bill.Gst},
			bson.E{Key: "total", Value: bill.Total},
		)
	}

	if payload.PaymentMethod != "" {
		updateObj = append(updateObj, bson.E{Key: "paymentMethod", Value: payload.PaymentMethod})
	}

	completing := payload.Status == models.OrderCompleted
	if completing {
		if order.Status == models.OrderCompleted {
			http.Error(w, `{"error": "Order is already completed"}`, http.StatusBadRequest)
			return
		}
		now := time.Now()
		updateObj = append(updateObj,
			bson.E{Key: "status", Value: models.OrderCompleted},
			bson.E{Key: "paymentStatus", Value: models.PaymentCompleted},
			bson.E{Key: "completedAt", Value: now},
		)
	} else if payload.Status != "" || payload.PaymentStatus != "" {
		if payload.Status != "" && payload.Status != models.OrderActive && payload.Status != models.OrderCancelled {
			http.Error(w, `{"error": "Invalid order status"}`, http.StatusBadRequest)
			return
		}
		if payload.Status != "" {
			updateObj = append(updateObj, bson.E{Key: "status", Value: payload.Status})
		}
		if payload.PaymentStatus != "" {
			updateObj = append(updateObj, bson.E{Key: "paymentStatus", Value: payload.PaymentStatus})
		}
	}

	updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now()})

	if _, err := orderCollection.UpdateOne(ctx, bson.M{"_id": objectId}, bson.D{{Key: "$set", Value: updateObj}}); err != nil {
		http.Error(w, `{"error": "Order update failed"}`, http.StatusInternalServerError)
		return
	}

	// Release the owning table
	if completing || payload.Status == models.OrderCancelled {
		tableUpdate := bson.M{"$set": bson.M{
			"status":       models.TableAvailable,
			"currentOrder": nil,
			"updatedAt":    time.Now(),
		}}
		if _, err := tableCollection.UpdateOne(ctx, bson.M{"tableNumber": order.TableNumber}, tableUpdate); err != nil {
			http.Error(w, `{"error": "Failed to release table"}`, http.StatusInternalServerError)
			return
		}
	}

	var updatedOrder models.Order
	if err := orderCollection.FindOne(ctx, bson.M{"_id": objectId}).Decode(&updatedOrder); err != nil {
		http.Error(w, `{"error": "Error retrieving updated order"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Order updated successfully",
		"order":   updatedOrder,
	})
}

// GetOrderStats aggregates revenue over a convenience period. Only orders that
// are both completed and paid count toward revenue.
func GetOrderStats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	period := r.URL.Query().Get("period")
	if period == "" {
		period = "today"
	}
	startDate, endDate := helper.PeriodRange(period, time.Now())

	matchStage := bson.D{{Key: "$match", Value: bson.D{
		{Key: "status", Value: models.OrderCompleted},
		{Key: "paymentStatus", Value: models.PaymentCompleted},
		{Key: "orderDate", Value: bson.D{{Key: "$gte", Value: startDate}, {Key: "$lte", Value: endDate}}},
	}}}

	groupStage := bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: nil},
		{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$total"}}},
		{Key: "totalOrders", Value: bson.D{{Key: "$sum", Value: 1}}},
	}}}

	cursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, groupStage})
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch revenue stats"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var results []bson.M
	if err := cursor.All(ctx, &results); err != nil {
		http.Error(w, `{"error": "Error decoding revenue stats"}`, http.StatusInternalServerError)
		return
	}

	var totalRevenue float64
	var totalOrders int64
	if len(results) > 0 {
		if v, ok := results[0]["totalRevenue"].(float64); ok {
			totalRevenue = v
		}
		switch v := results[0]["totalOrders"].(type) {
		case int32:
			totalOrders = int64(v)
		case int64:
			totalOrders = v
		}
	}

	averageOrderValue := 0.0
	if totalOrders > 0 {
		averageOrderValue = totalRevenue / float64(totalOrders)
	}

	// Top 5 products by quantity sold
	unwindStage := bson.D{{Key: "$unwind", Value: "$items"}}
	topGroupStage := bson.D{{Key: "$group", Value: bson.D{
		{Key: "_id", Value: "$items.product"},
		{Key: "name", Value: bson.D{{Key: "$first", Value: "$items.name"}}},
		{Key: "totalQuantity", Value: bson.D{{Key: "$sum", Value: "$items.quantity"}}},
		{Key: "totalRevenue", Value: bson.D{{Key: "$sum", Value: "$items.subtotal"}}},
	}}}
	sortStage := bson.D{{Key: "$sort", Value: bson.D{{Key: "totalQuantity", Value: -1}}}}
	limitStage := bson.D{{Key: "$limit", Value: 5}}

	topCursor, err := orderCollection.Aggregate(ctx, mongo.Pipeline{matchStage, unwindStage, topGroupStage, sortStage, limitStage})
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch top items"}`, http.StatusInternalServerError)
		return
	}
	defer topCursor.Close(ctx)

	topItems := []bson.M{}
	if err := topCursor.All(ctx, &topItems); err != nil {
		http.Error(w, `{"error": "Error decoding top items"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"totalRevenue":      totalRevenue,
		"totalOrders":       totalOrders,
		"averageOrderValue": averageOrderValue,
		"topItems":          topItems,
		"period":            period,
	})
}
