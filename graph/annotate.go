package graph

import (
	"sort"
	"strings"
	"time"

	"github.com/hkfrei/wiski-html/models"
)

// suctionType is the parameter type carrying the soil moisture bands.
const suctionType = "Bodensaugspannung"

// XRange is the visible x-range of a chart. Bands must be rebuilt with the
// new range whenever the visible period changes.
type XRange struct {
	Min time.Time
	Max time.Time
}

// Bands returns the soil moisture threshold bands for a parameter type,
// stretched across the given x-range. Parameter types other than soil
// suction have no bands.
func Bands(parameterType string, xRange XRange) []models.Band {
	if parameterType != suctionType {
		return nil
	}
	bands := []models.Band{
		{Label: "nass", Color: "red", YMin: 0, YMax: 6},
		{Label: "sehr feucht", Color: "orange", YMin: 6, YMax: 10},
		{Label: "feucht", Color: "yellow", YMin: 10, YMax: 20},
		{Label: "trocken", Color: "green", YMin: 20, YMax: 100},
	}
	for i := range bands {
		bands[i].XMin = xRange.Min
		bands[i].XMax = xRange.Max
	}
	return bands
}

// Lines returns one horizontal reference line per statistic, labeled with
// the statistic key. The color is keyed on the name: minima are green,
// maxima red, everything else blue. Lines are ordered by key so the
// overlay is stable.
func Lines(statistics map[string]float64) []models.Line {
	if len(statistics) == 0 {
		return nil
	}
	keys := make([]string, 0, len(statistics))
	for key := range statistics {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]models.Line, 0, len(keys))
	for _, key := range keys {
		color := "blue"
		lowered := strings.ToLower(key)
		switch {
		case strings.Contains(lowered, "min"):
			color = "green"
		case strings.Contains(lowered, "max"):
			color = "red"
		}
		lines = append(lines, models.Line{Label: key, Color: color, Y: statistics[key]})
	}
	return lines
}
