package main

import (
	"net/http"

	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/hkfrei/wiski-html/config"
	"github.com/hkfrei/wiski-html/controllers"
	"github.com/hkfrei/wiski-html/dao"
	"github.com/hkfrei/wiski-html/graph"
	"github.com/hkfrei/wiski-html/handlers"
	"github.com/hkfrei/wiski-html/routes"
	"github.com/hkfrei/wiski-html/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Upstream clients
	kiwis := dao.NewKiwisClient(cfg)
	documents := dao.NewDocumentsClient(cfg)

	// Services
	stationService := services.NewStationService(kiwis, documents)
	chartService := services.NewChartService(kiwis, graph.NewCache(graph.DefaultSessionTTL))
	downloadService := services.NewDownloadService(kiwis)

	// Controllers and page handlers
	stationController := controllers.NewStationController(stationService)
	chartController := controllers.NewChartController(chartService)
	downloadController := controllers.NewDownloadController(downloadService)
	pageHandler := handlers.NewPageHandler(stationService, chartService)

	// Set up routes
	router := routes.SetupRouter(stationController, chartController, downloadController, pageHandler)

	// CORS setup, the pages are embedded as iframes on other sites
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Content-Type"},
	})
	handler := c.Handler(router)

	// Start the HTTP server
	log.Infof("Server is running on port %s...", cfg.Port)
	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		log.Fatal("Error starting server:", err)
	}
}
