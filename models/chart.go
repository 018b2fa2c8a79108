package models

import (
	"encoding/json"
	"time"
)

// ChartPoint is one plottable point. Only samples with a valid selected
// value become chart points; the sequence keeps the chronological order of
// its source samples.
type ChartPoint struct {
	X time.Time
	Y float64
}

type chartPointJSON struct {
	X string  `json:"x"`
	Y float64 `json:"y"`
}

// MarshalJSON encodes the point as the {x,y} object the charting layer
// consumes.
func (p ChartPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(chartPointJSON{X: p.X.Format(time.RFC3339), Y: p.Y})
}

// UnmarshalJSON decodes the {x,y} object form.
func (p *ChartPoint) UnmarshalJSON(data []byte) error {
	var obj chartPointJSON
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	x, err := time.Parse(time.RFC3339, obj.X)
	if err != nil {
		return err
	}
	p.X = x
	p.Y = obj.Y
	return nil
}

// Range is a y-axis range for a chart.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Band is a horizontal threshold band spanning the visible x-range, e.g.
// a soil moisture class.
type Band struct {
	Label string    `json:"label"`
	Color string    `json:"color"`
	YMin  float64   `json:"yMin"`
	YMax  float64   `json:"yMax"`
	XMin  time.Time `json:"xMin"`
	XMax  time.Time `json:"xMax"`
}

// Line is a horizontal reference line for one statistic.
type Line struct {
	Label string  `json:"label"`
	Color string  `json:"color"`
	Y     float64 `json:"y"`
}

// Annotations are the overlays drawn on top of a chart, independent of the
// plotted series data.
type Annotations struct {
	Bands []Band `json:"bands,omitempty"`
	Lines []Line `json:"lines,omitempty"`
}

// ChartData is the prepared, downsampled payload for one chart. NoData with
// a Message is the labeled empty state for a period without valid readings;
// it is not an error.
type ChartData struct {
	TimeSeriesID string       `json:"ts_id"`
	Period       string       `json:"period"`
	Points       []ChartPoint `json:"points"`
	Range        *Range       `json:"range,omitempty"`
	Annotations  Annotations  `json:"annotations"`
	NoData       bool         `json:"noData,omitempty"`
	Message      string       `json:"message,omitempty"`
}
