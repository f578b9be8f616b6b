package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	database "github.com/02priyeshraj/Restaurant_POS_Backend/config"
	"github.com/02priyeshraj/Restaurant_POS_Backend/models"
	"github.com/go-playground/validator"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var productCollection *mongo.Collection = database.OpenCollection(database.Client, "product")
var validate = validator.New()

// GetProducts lists the catalog, optionally filtered by category.
func GetProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	filter := bson.M{}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cursor, err := productCollection.Find(ctx, filter, findOptions)
	if err != nil {
		http.Error(w, `{"error": "Failed to fetch products"}`, http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		http.Error(w, `{"error": "Error decoding products"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"products": products,
	})
}

func GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	productId := mux.Vars(r)["product_id"]
	objectId, err := primitive.ObjectIDFromHex(productId)
	if err != nil {
		http.Error(w, `{"error": "Invalid product ID"}`, http.StatusBadRequest)
		return
	}

	var product models.Product
	if err := productCollection.FindOne(ctx, bson.M{"_id": objectId}).Decode(&product); err != nil {
		http.Error(w, `{"error": "Product not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"product": product,
	})
}

func CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	if validationErr := validate.Struct(product); validationErr != nil {
		http.Error(w, `{"error": "Invalid product payload"}`, http.StatusBadRequest)
		return
	}

	product.ID = primitive.NewObjectID()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if _, err := productCollection.InsertOne(ctx, product); err != nil {
		http.Error(w, `{"error": "Product was not created"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Product created successfully",
		"product": product,
	})
}

func UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	productId := mux.Vars(r)["product_id"]
	objectId, err := primitive.ObjectIDFromHex(productId)
	if err != nil {
		http.Error(w, `{"error": "Invalid product ID"}`, http.StatusBadRequest)
		return
	}

	var product models.Product
	if err := json.NewDecoder(r.Body).Decode(&product); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}

	updateObj := bson.D{}
	if product.Name != nil {
		updateObj = append(updateObj, bson.E{Key: "name", Value: product.Name})
	}
	if product.Description != nil {
		updateObj = append(updateObj, bson.E{Key: "description", Value: product.Description})
	}
	if product.Price != nil {
		if *product.Price < 0 {
			http.Error(w, `{"error": "Price cannot be negative"}`, http.StatusBadRequest)
			return
		}
		updateObj = append(updateObj, bson.E{Key: "price", Value: product.Price})
	}
	if product.Category != nil {
		valid := false
		for _, c := range models.ProductCategories {
			if *product.Category == c {
				valid = true
				break
			}
		}
		if !valid {
			http.Error(w, `{"error": "Invalid product category"}`, http.StatusBadRequest)
			return
		}
		updateObj = append(updateObj, bson.E{Key: "category", Value: product.Category})
	}
	if product.Image != nil {
		updateObj = append(updateObj, bson.E{Key: "image", Value: product.Image})
	}
	updateObj = append(updateObj, bson.E{Key: "updatedAt", Value: time.Now()})

	result, err := productCollection.UpdateOne(ctx, bson.M{"_id": objectId}, bson.D{{Key: "$set", Value: updateObj}})
	if err != nil {
		http.Error(w, `{"error": "Product update failed"}`, http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, `{"error": "Product not found"}`, http.StatusNotFound)
		return
	}

	var updatedProduct models.Product
	if err := productCollection.FindOne(ctx, bson.M{"_id": objectId}).Decode(&updatedProduct); err != nil {
		http.Error(w, `{"error": "Error fetching updated product"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Product updated successfully",
		"product": updatedProduct,
	})
}

func DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Second)
	defer cancel()

	productId := mux.Vars(r)["product_id"]
	objectId, err := primitive.ObjectIDFromHex(productId)
	if err != nil {
		http.Error(w, `{"error": "Invalid product ID"}`, http.StatusBadRequest)
		return
	}

	result, err := productCollection.DeleteOne(ctx, bson.M{"_id": objectId})
	if err != nil {
		http.Error(w, `{"error": "Product deletion failed"}`, http.StatusInternalServerError)
		return
	}
	if result.DeletedCount == 0 {
		http.Error(w, `{"error": "Product not found"}`, http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Product deleted successfully",
	})
}
