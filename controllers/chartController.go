package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	log "github.com/sirupsen/logrus"

	"github.com/hkfrei/wiski-html/models"
	"github.com/hkfrei/wiski-html/services"
	"github.com/hkfrei/wiski-html/utils"
)

// ChartController serves prepared chart data per series and period.
type ChartController struct {
	charts *services.ChartService
}

// NewChartController creates a ChartController.
func NewChartController(charts *services.ChartService) *ChartController {
	return &ChartController{charts: charts}
}

// GetGraphData handles GET requests for the chart data of one series and
// period. An optional statistics query parameter (JSON object of short
// name to value, as embedded in the station page) feeds the reference
// line overlay. A period without data is a regular response carrying the
// labeled empty state.
func (c *ChartController) GetGraphData(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tsID := query.Get("ts_id")
	if tsID == "" {
		utils.RespondWithError(w, models.NewAPIError(
			models.ErrorCodeMissingParameter, "ts_id is required", nil, http.StatusBadRequest))
		return
	}
	period := query.Get("period")
	if period == "" {
		period = "pt24h"
	}

	threshold := 0
	if raw := query.Get("threshold"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondWithError(w, models.NewAPIError(
				models.ErrorCodeInvalidFormat, "threshold must be an integer", nil, http.StatusBadRequest))
			return
		}
		threshold = parsed
	}

	var statistics map[string]float64
	if raw := query.Get("statistics"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &statistics); err != nil {
			utils.RespondWithError(w, models.NewAPIError(
				models.ErrorCodeInvalidFormat, "statistics must be a JSON object", nil, http.StatusBadRequest))
			return
		}
	}

	data, err := c.charts.GraphData(r.Context(), tsID, period, threshold, statistics)
	if err != nil {
		if errors.Is(err, models.ErrUpstreamUnavailable) {
			log.WithFields(log.Fields{"ts_id": tsID, "period": period, "error": err}).Error("chart data failed")
			utils.RespondWithError(w, models.NewAPIError(
				models.ErrorCodeUpstreamUnavailable, "measurement service could not be reached", nil, http.StatusBadGateway))
			return
		}
		utils.RespondWithError(w, models.NewAPIError(
			models.ErrorCodeBadRequest, err.Error(), nil, http.StatusBadRequest))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, data)
}
