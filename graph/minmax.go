package graph

import (
	"sort"
	"strings"

	"github.com/hkfrei/wiski-html/models"
)

// precipitationType marks series that keep their native auto-range.
const precipitationType = "Niederschlag"

// YearlyRange scans a full-year series and returns its y-axis range. Empty
// and zero placeholder samples are skipped so they cannot seed an
// artificially wide "0 to max" range; the first valid value seeds both min
// and max. The second return value is false when the series has no valid
// value at all.
func YearlyRange(series models.TimeSeries) (models.Range, bool) {
	var result models.Range
	seeded := false
	for _, sample := range series.Data {
		value := sample.Selected()
		if value == nil || *value == 0 {
			continue
		}
		if !seeded {
			result.Min = *value
			result.Max = *value
			seeded = true
			continue
		}
		if *value < result.Min {
			result.Min = *value
		}
		if *value > result.Max {
			result.Max = *value
		}
	}
	return result, seeded
}

// RangeFor returns the y-axis range to normalize a chart with, or nil when
// the chart should keep its native auto-range. Statistics attached to the
// series win over the range computed from its data; precipitation series
// are exempt from normalization entirely.
func RangeFor(series models.TimeSeries) *models.Range {
	if series.ParameterTypeName == precipitationType {
		return nil
	}
	computed, ok := YearlyRange(series)
	min, hasMin := statisticValue(series.Statistics, "min")
	max, hasMax := statisticValue(series.Statistics, "max")
	if hasMin {
		computed.Min = min
		ok = true
	}
	if hasMax {
		computed.Max = max
		ok = true
	}
	if !ok {
		return nil
	}
	return &computed
}

// statisticValue finds the first statistic whose key contains marker,
// case-insensitive. Keys are visited in sorted order so the result is
// stable when a series carries more than one matching statistic.
func statisticValue(statistics map[string]float64, marker string) (float64, bool) {
	keys := make([]string, 0, len(statistics))
	for key := range statistics {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(strings.ToLower(key), marker) {
			return statistics[key], true
		}
	}
	return 0, false
}
