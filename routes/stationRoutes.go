package routes

import (
	"github.com/gorilla/mux"

	"github.com/hkfrei/wiski-html/controllers"
	"github.com/hkfrei/wiski-html/handlers"
)

// SetupStationRoutes defines the routes for station related operations.
func SetupStationRoutes(router *mux.Router, stations *controllers.StationController, pages *handlers.PageHandler) {
	router.HandleFunc("/station/{station_id}", stations.GetStationInfo).Methods("GET")
	router.HandleFunc("/", pages.StationPage).Methods("GET")
}
