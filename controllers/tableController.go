package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	database "github.com/02priyeshraj/Restaurant_POS_Backend/config"
	"github.com/02priyeshraj/Restaurant_POS_Backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var tableCollection *mongo.Collection = database.OpenCollection(database.Client, "table")

// GetTables lists active tables sorted by table number ascending.
func GetTables(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	findOptions := options.Find().SetSort(bson.D{{Key: "tableNumber", Value: 1}})
	cursor, err := tableCollection.Find(ctx, bson.M{"isActive": true}, findOptions)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch tables"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	tables := []models.Table{}
	if err = cursor.All(ctx, &tables); err != nil {
		http.Error(w, `{"error": "Error decoding tables"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"tables": tables,
	})
}

// CreateTable registers a new table. Table numbers are unique; duplicates are
// rejected with 409.
func CreateTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var table models.Table
	if err := json.NewDecoder(r.Body).Decode(&table); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if table.TableNumber == nil || table.Capacity == nil {
		http.Error(w, `{"error": "Table number and capacity are required"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.StructPartial(table, "TableNumber", "Capacity"); validationErr != nil {
		http.Error(w, `{"error": "Table number and capacity must be positive"}`, http.StatusBadRequest)
		return
	}

	// Check if the table number already exists
	count, err := tableCollection.CountDocuments(ctx, bson.M{"tableNumber": table.TableNumber})
	if err != nil {
		http.Error(w, `{"error": "Error checking table number"}`, http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, `{"error": "Table number already exists"}`, http.StatusConflict)
		return
	}

	table.ID = primitive.NewObjectID()
	table.Status = models.TableAvailable
	table.CurrentOrder = nil
	table.IsActive = true
	table.CreatedAt = time.Now()
	table.UpdatedAt = time.Now()

	if _, err := tableCollection.InsertOne(ctx, table); err != nil {
		http.Error(w, `{"error": "Table was not created"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Table created successfully",
		"table":   table,
	})
}

// UpdateTable applies a partial update addressed by table number. Flipping the
// status to available clears currentOrder in the same $set so no reader sees an
// available table still holding an order.
func UpdateTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var payload struct {
		TableNumber  *int    `json:"tableNumber"`
		Capacity     *int    `json:"capacity"`
		Status       *string `json:"status"`
		CurrentOrder *string `json:"currentOrder"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if payload.TableNumber == nil {
		http.Error(w, `{"error": "Table number is required"}`, http.StatusBadRequest)
		return
	}

	var existingTable models.Table
	err := tableCollection.FindOne(ctx, bson.M{"tableNumber": payload.TableNumber}).Decode(&existingTable)
	if err != nil {
		http.Error(w, `{"error": "Table not found"}`, http.StatusNotFound)
		return
	}

	updateObj := bson.D{}
	if payload.Capacity != nil {
		if *payload.Capacity < 1 {
			http.Error(w, `{"error": "Capacity must be positive"}`, http.StatusBadRequest)
			return
		}
		updateObj = append(updateObj, bson.E{Key: "capacity", Value: payload.Capacity})
	}
	if payload.Status != nil {
		switch *payload.Status {
		case models.TableAvailable:
			updateObj = append(updateObj, bson.E{Key: "status", Value: models.TableAvailable})
			updateObj = append(updateObj, bson.E{Key: "currentOrder", Value: nil})
		case models.TableEngaged, models.TableReserved:
			updateObj = append(updateObj, bson.E{Key: "status", Value: payload.Status})
		default:
			http.Error(w, `{"error": "Invalid table status"}`, http.StatusBadRequest)
			return
		}
	}
	if payload.CurrentOrder != nil && (payload.Status == nil || *payload.Status != models.TableAvailable) {
		updateObj = append(updateObj, bson.E{Key: "currentOrder", Value: payload.CurrentOrder})
	}
	updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now()})

	filter := bson.M{"tableNumber": payload.TableNumber}
	if _, err := tableCollection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: updateObj}}); err != nil {
		http.Error(w, `{"error": "Failed to update table"}`, http.StatusInternalServerError)
		return
	}

	var updatedTable models.Table
	if err := tableCollection.FindOne(ctx, filter).Decode(&updatedTable); err != nil {
		http.Error(w, `{"error": "Error fetching updated table"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Table updated successfully",
		"table":   updatedTable,
	})
}

// DeleteTable soft-deletes a table. The document stays queryable by id but drops
// out of active listings.
func DeleteTable(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	tableNumberParam := r.URL.Query().Get("tableNumber")
	if tableNumberParam == "" {
		http.Error(w, `{"error": "Table number is required"}`, http.StatusBadRequest)
		return
	}

	tableNumber, err := strconv.Atoi(tableNumberParam)
	if err != nil {
		http.Error(w, `{"error": "Invalid table number"}`, http.StatusBadRequest)
		return
	}

	filter := bson.M{"tableNumber": tableNumber}

	var existingTable models.Table
	if err := tableCollection.FindOne(ctx, filter).Decode(&existingTable); err != nil {
		http.Error(w, `{"error": "Table not found"}`, http.StatusNotFound)
		return
	}

	update := bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}}
	if _, err := tableCollection.UpdateOne(ctx, filter, update); err != nil {
		http.Error(w, `{"error": "Table deletion failed"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":     "Table deleted successfully",
		"tableNumber": tableNumber,
	})
}
