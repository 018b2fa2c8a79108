package controllers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/hkfrei/wiski-html/models"
	"github.com/hkfrei/wiski-html/services"
	"github.com/hkfrei/wiski-html/utils"
)

// StationController serves the aggregated station responses.
type StationController struct {
	stations *services.StationService
}

// NewStationController creates a StationController.
func NewStationController(stations *services.StationService) *StationController {
	return &StationController{stations: stations}
}

// GetStationInfo handles GET requests for one station's aggregated data.
func (c *StationController) GetStationInfo(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	stationID := vars["station_id"]
	if stationID == "" {
		utils.RespondWithError(w, models.NewAPIError(
			models.ErrorCodeMissingParameter, "station_id is required", nil, http.StatusBadRequest))
		return
	}

	response, err := c.stations.Aggregate(r.Context(), stationID)
	if err != nil {
		respondWithAggregationError(w, stationID, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, response)
}

// respondWithAggregationError maps the aggregation error taxonomy to HTTP
// status codes.
func respondWithAggregationError(w http.ResponseWriter, stationID string, err error) {
	switch {
	case errors.Is(err, models.ErrNoStationFound):
		utils.RespondWithError(w, models.NewAPIError(
			models.ErrorCodeStationNotFound, "no station found for id "+stationID, nil, http.StatusNotFound))
	case errors.Is(err, models.ErrUpstreamUnavailable):
		log.WithFields(log.Fields{"station_id": stationID, "error": err}).Error("aggregation failed")
		utils.RespondWithError(w, models.NewAPIError(
			models.ErrorCodeUpstreamUnavailable, "measurement service could not be reached", nil, http.StatusBadGateway))
	default:
		log.WithFields(log.Fields{"station_id": stationID, "error": err}).Error("aggregation failed")
		utils.RespondWithError(w, models.NewAPIError(
			models.ErrorCodeInternalServerError, "could not load station data", nil, http.StatusInternalServerError))
	}
}
