package main

import (
	"log"
	"net/http"
	"os"

	database "github.com/02priyeshraj/Restaurant_POS_Backend/config"
	middleware "github.com/02priyeshraj/Restaurant_POS_Backend/middlewares"
	routes "github.com/02priyeshraj/Restaurant_POS_Backend/routes"
	"github.com/joho/godotenv"

	"github.com/gorilla/mux"
)

// LoadEnv loads environment variables from the .env file
func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables")
	}
}

func main() {
	// Load environment variables
	LoadEnv()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	// Indexes back the tableNumber uniqueness guarantee and the reporting queries
	database.EnsureIndexes(database.Client)

	router := mux.NewRouter()

	// Public Routes (No Authentication)
	routes.PublicRoutes(router)

	// Apply Authentication Middleware to Protected Routes
	securedRoutes := router.PathPrefix("/").Subrouter()
	securedRoutes.Use(middleware.Authentication)
	routes.ProtectedRoutes(securedRoutes)
	routes.TableProtectedRoutes(securedRoutes)
	routes.OrderProtectedRoutes(securedRoutes)
	routes.ProductProtectedRoutes(securedRoutes)

	log.Printf("Server starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
