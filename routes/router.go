package routes

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/hkfrei/wiski-html/controllers"
	"github.com/hkfrei/wiski-html/handlers"
	"github.com/hkfrei/wiski-html/utils"
)

// SetupRouter defines all API and page routes.
func SetupRouter(
	stations *controllers.StationController,
	charts *controllers.ChartController,
	downloads *controllers.DownloadController,
	pages *handlers.PageHandler,
) *mux.Router {
	router := mux.NewRouter()
	router.Use(utils.RequestLogger)

	SetupStationRoutes(router, stations, pages)
	SetupChartRoutes(router, charts, downloads, pages)

	// Health check (GET only)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	}).Methods("GET")

	return router
}
