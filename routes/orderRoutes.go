package routes

import (
	"net/http"

	controller "github.com/02priyeshraj/Restaurant_POS_Backend/controllers"
	"github.com/gorilla/mux"
)

func OrderProtectedRoutes(router *mux.Router) {

	router.HandleFunc("/orders/stats", controller.GetOrderStats).Methods(http.MethodGet)

	router.HandleFunc("/orders", controller.GetOrders).Methods(http.MethodGet)
	router.HandleFunc("/orders", controller.CreateOrder).Methods(http.MethodPost)
	router.HandleFunc("/orders", controller.UpdateOrder).Methods(http.MethodPut)
}
