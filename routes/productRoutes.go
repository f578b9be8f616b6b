package routes

import (
	"net/http"

	controllers "github.com/02priyeshraj/Restaurant_POS_Backend/controllers"
	"github.com/gorilla/mux"
)

func ProductProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/products", controllers.GetProducts).Methods(http.MethodGet)
	router.HandleFunc("/products/{product_id}", controllers.GetProduct).Methods(http.MethodGet)
	router.HandleFunc("/products", controllers.CreateProduct).Methods(http.MethodPost)
	router.HandleFunc("/products/{product_id}", controllers.UpdateProduct).Methods(http.MethodPatch)
	router.HandleFunc("/products/{product_id}", controllers.DeleteProduct).Methods(http.MethodDelete)
}
