package routes

import (
	"net/http"

	controller "github.com/02priyeshraj/Restaurant_POS_Backend/controllers"
	"github.com/gorilla/mux"
)

func TableProtectedRoutes(router *mux.Router) {

	router.HandleFunc("/tables", controller.GetTables).Methods(http.MethodGet)
	router.HandleFunc("/tables", controller.CreateTable).Methods(http.MethodPost)
	router.HandleFunc("/tables", controller.UpdateTable).Methods(http.MethodPut)
	router.HandleFunc("/tables", controller.DeleteTable).Methods(http.MethodDelete)
}
