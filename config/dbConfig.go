package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// LoadEnv loads environment variables from the .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

func DBinstance() *mongo.Client {
	// Load environment variables
	LoadEnv()

	MongoDb := os.Getenv("DB")
	if MongoDb == "" {
		MongoDb = "mongodb://localhost:27017"
		log.Println("DB is not set, defaulting to", MongoDb)
	}

	fmt.Println("Connecting to MongoDB...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(MongoDb))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Connected to MongoDB")
	return client
}

var Client *mongo.Client = DBinstance()

func OpenCollection(client *mongo.Client, collectionName string) *mongo.Collection {
	return client.Database("RestaurantPOS").Collection(collectionName)
}

// EnsureIndexes creates the indexes the table registry and reporting queries rely on.
// tableNumber is unique; order queries filter on orderDate, status and paymentStatus.
func EnsureIndexes(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	tableIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "tableNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	if _, err := OpenCollection(client, "table").Indexes().CreateMany(ctx, tableIndexes); err != nil {
		log.Printf("Error creating table indexes: %v", err)
	}

	orderIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "orderDate", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "paymentStatus", Value: 1}}},
		{Keys: bson.D{{Key: "tableNumber", Value: 1}}},
	}
	if _, err := OpenCollection(client, "order").Indexes().CreateMany(ctx, orderIndexes); err != nil {
		log.Printf("Error creating order indexes: %v", err)
	}

	productIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}}},
	}
	if _, err := OpenCollection(client, "product").Indexes().CreateMany(ctx, productIndexes); err != nil {
		log.Printf("Error creating product indexes: %v", err)
	}
}
