package routes

import (
	controller "github.com/02priyeshraj/Restaurant_POS_Backend/controllers"

	"github.com/gorilla/mux"
)

func PublicRoutes(router *mux.Router) {
	router.HandleFunc("/users/signup", controller.SignUp).Methods("POST")
	router.HandleFunc("/users/login", controller.Login).Methods("POST")
	router.HandleFunc("/users/refresh", controller.RefreshToken).Methods("POST")
}

func ProtectedRoutes(router *mux.Router) {
	router.HandleFunc("/users/logout", controller.Logout).Methods("POST")
}
