package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// RawPoint is one sample of a KiWIS time series. KiWIS delivers samples as
// positional tuples ["2023-04-01T12:00:00+02:00", 1.23, 402.5] where the
// value and the optional absolute (compensated) value may be null.
type RawPoint struct {
	Timestamp     time.Time
	Value         *float64
	AbsoluteValue *float64
}

// UnmarshalJSON decodes the positional tuple format.
func (p *RawPoint) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return fmt.Errorf("raw point is not a tuple: %w", err)
	}
	if len(tuple) < 2 {
		return fmt.Errorf("raw point tuple has %d elements, want at least 2", len(tuple))
	}
	var timestamp string
	if err := json.Unmarshal(tuple[0], &timestamp); err != nil {
		return fmt.Errorf("raw point timestamp: %w", err)
	}
	parsed, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return fmt.Errorf("raw point timestamp '%s': %w", timestamp, err)
	}
	p.Timestamp = parsed
	if err := json.Unmarshal(tuple[1], &p.Value); err != nil {
		return fmt.Errorf("raw point value: %w", err)
	}
	if len(tuple) > 2 {
		if err := json.Unmarshal(tuple[2], &p.AbsoluteValue); err != nil {
			return fmt.Errorf("raw point absolute value: %w", err)
		}
	}
	return nil
}

// MarshalJSON encodes the point back into the tuple format.
func (p RawPoint) MarshalJSON() ([]byte, error) {
	tuple := []interface{}{p.Timestamp.Format(time.RFC3339), p.Value}
	if p.AbsoluteValue != nil {
		tuple = append(tuple, p.AbsoluteValue)
	}
	return json.Marshal(tuple)
}

// Selected returns the value to display for this point: the absolute value
// when present, otherwise the raw value. Zero is a valid reading, only nil
// means "no reading".
func (p RawPoint) Selected() *float64 {
	if p.AbsoluteValue != nil {
		return p.AbsoluteValue
	}
	return p.Value
}

// TimeSeries is one named, chronologically ascending series of measurements
// for a station parameter, as returned by the KiWIS timeseries list and
// timeseries values requests.
type TimeSeries struct {
	ID                   string     `json:"ts_id"`
	StationID            string     `json:"station_id"`
	StationName          string     `json:"station_name,omitempty"`
	Name                 string     `json:"ts_name,omitempty"`
	ShortName            string     `json:"ts_shortname,omitempty"`
	TypeName             string     `json:"ts_type_name,omitempty"`
	ParameterTypeName    string     `json:"parametertype_name"`
	StationParameterName string     `json:"stationparameter_name"`
	Coverage             string     `json:"coverage,omitempty"`
	UnitName             string     `json:"ts_unitname,omitempty"`
	UnitSymbol           string     `json:"ts_unitsymbol,omitempty"`
	UnitNameAbs          string     `json:"ts_unitname_abs,omitempty"`
	UnitSymbolAbs        string     `json:"ts_unitsymbol_abs,omitempty"`
	Rows                 string     `json:"rows,omitempty"`
	Columns              string     `json:"columns,omitempty"`
	Data                 []RawPoint `json:"data,omitempty"`

	// Statistics carries the latest value of every statistic series that
	// belongs to this observational series, keyed by the statistic's
	// short name (e.g. "Abfluss_Min"). Filled by the aggregation.
	Statistics map[string]float64 `json:"statistics,omitempty"`
}

// StatisticValue is one named extremum (min, max or mean) for a parameter.
// It carries no timestamp, the value is a long-term scalar.
type StatisticValue struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}
