package routes

import (
	"github.com/gorilla/mux"

	"github.com/hkfrei/wiski-html/controllers"
	"github.com/hkfrei/wiski-html/handlers"
)

// SetupChartRoutes defines the routes for chart data, previews and
// spreadsheet downloads.
func SetupChartRoutes(router *mux.Router, charts *controllers.ChartController, downloads *controllers.DownloadController, pages *handlers.PageHandler) {
	router.HandleFunc("/graph-data", charts.GetGraphData).Methods("GET")
	router.HandleFunc("/download", downloads.DownloadTimeSeries).Methods("GET")
	router.HandleFunc("/preview", pages.ChartPreview).Methods("GET")
}
