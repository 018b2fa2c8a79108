package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/hkfrei/wiski-html/models"
	"github.com/hkfrei/wiski-html/services"
	"github.com/hkfrei/wiski-html/utils"
)

// DownloadController streams spreadsheet exports of raw time series data.
type DownloadController struct {
	downloads *services.DownloadService
}

// NewDownloadController creates a DownloadController.
func NewDownloadController(downloads *services.DownloadService) *DownloadController {
	return &DownloadController{downloads: downloads}
}

// DownloadTimeSeries handles GET requests for a spreadsheet export of one
// series and period, streamed as an attachment.
func (c *DownloadController) DownloadTimeSeries(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	tsID := query.Get("ts_id")
	period := query.Get("period")
	if tsID == "" || period == "" {
		utils.RespondWithError(w, models.NewAPIError(
			models.ErrorCodeMissingParameter, "ts_id and period are required", nil, http.StatusBadRequest))
		return
	}

	export, err := c.downloads.Export(r.Context(), tsID, period)
	if err != nil {
		if errors.Is(err, models.ErrUpstreamUnavailable) {
			log.WithFields(log.Fields{"ts_id": tsID, "period": period, "error": err}).Error("export failed")
			utils.RespondWithError(w, models.NewAPIError(
				models.ErrorCodeUpstreamUnavailable, "measurement service could not be reached", nil, http.StatusBadGateway))
			return
		}
		utils.RespondWithError(w, models.NewAPIError(
			models.ErrorCodeBadRequest, err.Error(), nil, http.StatusBadRequest))
		return
	}
	defer export.Body.Close()

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.Filename))
	if _, err := io.Copy(w, export.Body); err != nil {
		// headers are out, all we can do is log
		log.WithFields(log.Fields{"ts_id": tsID, "period": period, "error": err}).Error("export stream aborted")
	}
}
