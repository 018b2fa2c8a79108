package services

import (
	"context"
	"fmt"

	"github.com/hkfrei/wiski-html/config"
	"github.com/hkfrei/wiski-html/dao"
	"github.com/hkfrei/wiski-html/graph"
	"github.com/hkfrei/wiski-html/models"
)

// DefaultThreshold is the point budget per chart when the caller does not
// request one.
const DefaultThreshold = 500

// yearPeriod is the period whose data spans enough of the series to
// compute a normalization range from.
const yearPeriod = "p1y"

// ChartService prepares downsampled, annotated chart data for one series
// and period. Downloaded series go through an injected session cache so a
// period the user switches back to is served without another upstream
// round trip.
type ChartService struct {
	kiwis dao.Kiwis
	cache *graph.Cache
}

// NewChartService creates a ChartService.
func NewChartService(kiwis dao.Kiwis, cache *graph.Cache) *ChartService {
	return &ChartService{
		kiwis: kiwis,
		cache: cache,
	}
}

// GraphData fetches the series data for a period and turns it into
// chart-ready points with range and annotation overlays. The statistics
// map may be nil; when set (from an aggregated station response) it is
// used for the reference lines and the axis range.
func (s *ChartService) GraphData(ctx context.Context, tsID, period string, threshold int, statistics map[string]float64) (*models.ChartData, error) {
	if tsID == "" {
		return nil, fmt.Errorf("ts_id cannot be empty")
	}
	if !config.ValidPeriod(period) {
		return nil, fmt.Errorf("invalid period '%s'", period)
	}
	if threshold <= 0 {
		threshold = DefaultThreshold
	}

	series, err := s.fetchSeries(ctx, tsID, period)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch series data: %w", err)
	}
	if series == nil {
		return &models.ChartData{
			TimeSeriesID: tsID,
			Period:       period,
			NoData:       true,
			Message:      graph.NoDataMessage(period),
		}, nil
	}

	prepared := *series
	prepared.Statistics = statistics
	data := graph.Prepare(prepared, period, threshold)
	if data.NoData {
		return &data, nil
	}

	// the yearly data is the only period wide enough to normalize the
	// axis from; statistics win over the computed range either way
	if period == yearPeriod || len(statistics) > 0 {
		data.Range = graph.RangeFor(prepared)
	}

	xRange := graph.XRange{
		Min: data.Points[0].X,
		Max: data.Points[len(data.Points)-1].X,
	}
	data.Annotations = models.Annotations{
		Bands: graph.Bands(prepared.ParameterTypeName, xRange),
		Lines: graph.Lines(statistics),
	}
	return &data, nil
}

// fetchSeries returns the series with data for a period, from the session
// cache when possible.
func (s *ChartService) fetchSeries(ctx context.Context, tsID, period string) (*models.TimeSeries, error) {
	if cached, ok := s.cache.Get(tsID, period); ok {
		return cached, nil
	}
	series, err := s.kiwis.GetTimeSeriesValues(ctx, tsID, period)
	if err != nil {
		return nil, err
	}
	if series != nil {
		s.cache.Put(tsID, period, series)
	}
	return series, nil
}
