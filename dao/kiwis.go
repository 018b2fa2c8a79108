package dao

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"

	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"

	"github.com/hkfrei/wiski-html/config"
	"github.com/hkfrei/wiski-html/models"
)

// Kiwis is the access interface for the upstream measurement service.
// Services depend on this interface so tests can swap in a fake.
type Kiwis interface {
	GetStationList(ctx context.Context, stationID string) ([]models.Station, error)
	GetTimeSeriesList(ctx context.Context, stationID string, groupID int) ([]models.TimeSeries, error)
	GetTimeSeriesValues(ctx context.Context, tsID, period string) (*models.TimeSeries, error)
	GetLatestMeasurement(ctx context.Context, tsID, period string) (*models.LatestMeasurement, error)
	StreamDataExport(ctx context.Context, tsID, period string) (io.ReadCloser, string, error)
}

// KiwisClient talks to a KiWIS instance over HTTP.
type KiwisClient struct {
	client *resty.Client
}

// NewKiwisClient creates a KiWIS client for the configured host. Every call
// honours the configured upstream timeout; a timed out or failed call is
// reported as ErrUpstreamUnavailable.
func NewKiwisClient(cfg config.Config) *KiwisClient {
	client := resty.New()
	client.SetBaseURL(cfg.KiwisHost)
	client.SetHeaders(map[string]string{
		"Accept":     "application/json",
		"User-Agent": "wiski-html",
	})
	client.SetTimeout(cfg.UpstreamTimeout)
	client.SetDisableWarn(true)
	return &KiwisClient{client: client}
}

// get performs a request against a prebuilt KiWIS query and decodes the
// JSON body into out.
func (k *KiwisClient) get(ctx context.Context, query string, out any) error {
	resp, err := k.client.R().SetContext(ctx).Get(query)
	if err != nil {
		log.WithFields(log.Fields{"query": query, "error": err}).Error("KiWIS request failed")
		return fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	if resp.IsError() {
		log.WithFields(log.Fields{"query": query, "status": resp.StatusCode()}).Error("KiWIS request rejected")
		return fmt.Errorf("%w: status %d", models.ErrUpstreamUnavailable, resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		log.WithFields(log.Fields{"query": query, "error": err}).Error("KiWIS response not decodable")
		return fmt.Errorf("%w: malformed response: %v", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// GetStationList fetches the station list for a station id, including the
// threshold attributes.
func (k *KiwisClient) GetStationList(ctx context.Context, stationID string) ([]models.Station, error) {
	query := fmt.Sprintf("%s&station_id=%s", config.QueryStationInfo, url.QueryEscape(stationID))
	var stations []models.Station
	if err := k.get(ctx, query, &stations); err != nil {
		return nil, err
	}
	return stations, nil
}

// GetTimeSeriesList fetches all time series of a station within a
// timeseries group.
func (k *KiwisClient) GetTimeSeriesList(ctx context.Context, stationID string, groupID int) ([]models.TimeSeries, error) {
	query := fmt.Sprintf("%s&station_id=%s&timeseriesgroup_id=%d",
		config.QueryTimeSeriesList, url.QueryEscape(stationID), groupID)
	var series []models.TimeSeries
	if err := k.get(ctx, query, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetTimeSeriesValues fetches the data of one time series for a period.
// KiWIS answers with an array carrying a single entry for the series.
func (k *KiwisClient) GetTimeSeriesValues(ctx context.Context, tsID, period string) (*models.TimeSeries, error) {
	query := fmt.Sprintf("%s&ts_id=%s&period=%s",
		config.QueryTimeSeriesValues, url.QueryEscape(tsID), url.QueryEscape(period))
	var series []models.TimeSeries
	if err := k.get(ctx, query, &series); err != nil {
		return nil, err
	}
	if len(series) == 0 {
		return nil, nil
	}
	return &series[0], nil
}

// GetLatestMeasurement fetches the most recent values of one time series.
// An empty period requests the upstream default window; the back-filling
// in the aggregation passes a longer window instead.
func (k *KiwisClient) GetLatestMeasurement(ctx context.Context, tsID, period string) (*models.LatestMeasurement, error) {
	query := fmt.Sprintf("%s&ts_id=%s", config.QueryLatestMeasurement, url.QueryEscape(tsID))
	if period != "" {
		query = fmt.Sprintf("%s&period=%s", query, url.QueryEscape(period))
	}
	var measurements []models.LatestMeasurement
	if err := k.get(ctx, query, &measurements); err != nil {
		return nil, err
	}
	if len(measurements) == 0 {
		return nil, nil
	}
	return &measurements[0], nil
}

// StreamDataExport starts a spreadsheet export of one time series and
// returns the raw body stream plus its content type. The caller must close
// the stream.
func (k *KiwisClient) StreamDataExport(ctx context.Context, tsID, period string) (io.ReadCloser, string, error) {
	query := fmt.Sprintf("%s&ts_id=%s&period=%s",
		config.QueryDataExport, url.QueryEscape(tsID), url.QueryEscape(period))
	resp, err := k.client.R().SetContext(ctx).SetDoNotParseResponse(true).Get(query)
	if err != nil {
		log.WithFields(log.Fields{"query": query, "error": err}).Error("KiWIS export request failed")
		return nil, "", fmt.Errorf("%w: %v", models.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode() >= 400 {
		resp.RawBody().Close()
		return nil, "", fmt.Errorf("%w: status %d", models.ErrUpstreamUnavailable, resp.StatusCode())
	}
	return resp.RawBody(), resp.Header().Get("Content-Type"), nil
}
