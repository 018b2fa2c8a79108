package graph

import (
	"fmt"

	"github.com/hkfrei/wiski-html/config"
	"github.com/hkfrei/wiski-html/models"
)

// Prepare converts a raw KiWIS time series into chart-ready points for one
// period. Samples without a valid selected value are dropped (the absolute
// value is preferred over the raw one, zero is a valid reading), the
// remaining points keep their chronological order and are downsampled to
// threshold. A series without any valid point for the period yields the
// labeled "no data" state, not an error.
func Prepare(series models.TimeSeries, period string, threshold int) models.ChartData {
	result := models.ChartData{
		TimeSeriesID: series.ID,
		Period:       period,
	}
	points := make([]models.ChartPoint, 0, len(series.Data))
	for _, sample := range series.Data {
		value := sample.Selected()
		if value == nil {
			continue
		}
		points = append(points, models.ChartPoint{X: sample.Timestamp, Y: *value})
	}
	if len(points) == 0 {
		result.NoData = true
		result.Message = NoDataMessage(period)
		return result
	}
	result.Points = Downsample(points, threshold)
	return result
}

// NoDataMessage composes the German empty state message for a period.
func NoDataMessage(period string) string {
	label, ok := config.MeasurePeriods[period]
	if !ok {
		label = period
	}
	return fmt.Sprintf("Keine Daten für den Zeitraum %s vorhanden.", label)
}
