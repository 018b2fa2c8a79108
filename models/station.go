package models

import "time"

// Station is one entry of the KiWIS station list. The ca_sta attributes
// (flood thresholds, long term extrema, gauge datum, ...) arrive as a
// loosely typed object and are passed through untouched.
type Station struct {
	ID                   string            `json:"station_id"`
	Number               string            `json:"station_no"`
	Name                 string            `json:"station_name"`
	ObjectType           string            `json:"object_type"`
	SiteName             string            `json:"site_name,omitempty"`
	ParameterTypeName    string            `json:"parametertype_name,omitempty"`
	StationParameterName string            `json:"stationparameter_name,omitempty"`
	LocalX               string            `json:"station_local_x,omitempty"`
	LocalY               string            `json:"station_local_y,omitempty"`
	Attributes           map[string]string `json:"ca_sta,omitempty"`
}

// LatestMeasurement is the most recent reading of one time series, including
// the series metadata KiWIS returns alongside it. Value and AbsoluteValue
// stay nil when no valid reading exists, even after back-filling.
type LatestMeasurement struct {
	TimeSeriesID         string     `json:"ts_id"`
	StationID            string     `json:"station_id"`
	StationNumber        string     `json:"station_no"`
	StationName          string     `json:"station_name"`
	StationParameterName string     `json:"stationparameter_name"`
	ParameterTypeName    string     `json:"parametertype_name"`
	UnitSymbol           string     `json:"ts_unitsymbol"`
	Name                 string     `json:"ts_name,omitempty"`
	ShortName            string     `json:"ts_shortname,omitempty"`
	Data                 []RawPoint `json:"data,omitempty"`

	Timestamp          *time.Time `json:"timestamp,omitempty"`
	Value              *float64   `json:"rawValue,omitempty"`
	AbsoluteValue      *float64   `json:"rawAbsoluteValue,omitempty"`
	ValueLabel         string     `json:"value,omitempty"`
	AbsoluteValueLabel string     `json:"absoluteValue,omitempty"`
	// Backfilled marks a latest value that was recovered from a longer
	// look-back window because the most recent sample was empty.
	Backfilled bool `json:"backfilled,omitempty"`
}

// Document is one auxiliary document linked to a station number.
type Document struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Type string `json:"type,omitempty"`
}

// DocumentsResult is the outcome of the best-effort documents fetch. Either
// Available is true and Documents is set, or Available is false and Reason
// explains why. A failed documents fetch never fails the aggregation.
type DocumentsResult struct {
	Available bool       `json:"available"`
	Documents []Document `json:"documents,omitempty"`
	Reason    string     `json:"reason,omitempty"`
}

// StationInfo is the canonical station enriched with everything the page
// needs: the stripped station number, the latest measurement per series and
// the auxiliary documents.
type StationInfo struct {
	Station
	// StationNumber is the numeric part of the station number. Only set
	// for stations whose number carries the "ch" country marker.
	StationNumber string `json:"stationNumber"`
	// GroupFallback is true when the station's object type had no
	// timeseries group entry and the default group was used.
	GroupFallback      bool                 `json:"groupFallback,omitempty"`
	LatestMeasurements []*LatestMeasurement `json:"latest_measurements"`
	Documents          DocumentsResult      `json:"documents"`
}

// AggregatedStationResponse is the complete answer for one station: the
// enriched station info, the reordered observational time series with their
// attached statistics, and the static lookup tables the page embeds.
type AggregatedStationResponse struct {
	Info           StationInfo       `json:"info"`
	TimeSeries     []*TimeSeries     `json:"time_series"`
	MeasureParams  []string          `json:"measure_params"`
	UnitNames      map[string]string `json:"unit_names"`
	MeasurePeriods map[string]string `json:"measure_periods"`
}
