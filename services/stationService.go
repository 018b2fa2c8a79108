package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/hkfrei/wiski-html/config"
	"github.com/hkfrei/wiski-html/dao"
	"github.com/hkfrei/wiski-html/models"
)

// genericObjectType marks station list entries that carry no measurements
// of their own and are filtered out.
const genericObjectType = "Allgemein"

// groundwaterLevelType gets the special "Abstich" value label.
const groundwaterLevelType = "Grundwasserspiegel"

// parameterPriority is the display order for flowing water and groundwater
// stations: discharge, gauge level, water temperature, pH, conductivity.
// Series with other parameters keep their relative order after these.
var parameterPriority = []string{"Abfluss", "Pegel", "Wassertemperatur", "pH-Wert", "Leitfähigkeit"}

// prioritizedObjectTypes are the station types the parameterPriority order
// applies to.
var prioritizedObjectTypes = map[string]bool{
	"Fliessgewässer - Hydrometrie": true,
	"Grundwasser - Hydrometrie":    true,
	"See - Hydrometrie":            true,
	"Bohrung":                      true,
}

// soilSlot is the fixed display slot of a series on a soil station.
type soilSlot int

const (
	slotSuction20 soilSlot = iota
	slotSuction35
	slotSuction60
	slotPrecipitation
	slotTemperature20
	slotTemperature35
	slotTemperature60
	slotOther
)

// StationService aggregates everything a station page needs into one
// response.
type StationService struct {
	kiwis     dao.Kiwis
	documents dao.Documents
}

// NewStationService creates a StationService.
func NewStationService(kiwis dao.Kiwis, documents dao.Documents) *StationService {
	return &StationService{
		kiwis:     kiwis,
		documents: documents,
	}
}

// Aggregate fetches the station metadata, its time series and their latest
// measurements, merges the statistic series onto the observational ones,
// applies the domain ordering and assembles the complete station response.
// It fails with models.ErrNoStationFound when the station list is empty
// after filtering and with models.ErrUpstreamUnavailable when any required
// upstream call errors. The auxiliary documents fetch is best-effort and
// never fails the aggregation.
func (s *StationService) Aggregate(ctx context.Context, stationID string) (*models.AggregatedStationResponse, error) {
	if stationID == "" {
		return nil, fmt.Errorf("station id cannot be empty")
	}

	stations, err := s.kiwis.GetStationList(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch station list: %w", err)
	}
	// entries of the generic type carry no measurements
	filtered := lo.Filter(stations, func(station models.Station, _ int) bool {
		return station.ObjectType != genericObjectType
	})
	if len(filtered) == 0 {
		return nil, fmt.Errorf("station '%s': %w", stationID, models.ErrNoStationFound)
	}
	station := filtered[0]

	groupID, knownGroup := config.TimeSeriesGroups[station.ObjectType]
	if !knownGroup {
		// the default group is not guaranteed to match the station's
		// domain, so flag the response instead of failing
		groupID = config.DefaultTimeSeriesGroup
		log.WithFields(log.Fields{
			"station_id":  stationID,
			"object_type": station.ObjectType,
			"group_id":    groupID,
		}).Warn("unknown object type, falling back to default timeseries group")
	}

	seriesList, err := s.kiwis.GetTimeSeriesList(ctx, stationID, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch time series list: %w", err)
	}
	ordered := reorderSeries(station.ObjectType, seriesList)

	latest, err := s.fetchLatestMeasurements(ctx, ordered)
	if err != nil {
		return nil, err
	}

	timeSeries, measurements := mergeStatistics(ordered, latest)

	info := models.StationInfo{
		Station:            station,
		StationNumber:      displayStationNumber(station.Number),
		GroupFallback:      !knownGroup,
		LatestMeasurements: measurements,
		Documents:          s.fetchDocuments(ctx, station.Number),
	}

	return &models.AggregatedStationResponse{
		Info:       info,
		TimeSeries: timeSeries,
		MeasureParams: lo.Map(timeSeries, func(series *models.TimeSeries, _ int) string {
			return series.StationParameterName
		}),
		UnitNames:      config.UnitNames,
		MeasurePeriods: config.MeasurePeriods,
	}, nil
}

// displayStationNumber strips everything but digits from the raw station
// number, but only for numbers carrying the "ch" country marker. Other
// stations have no website link and get an empty display number.
func displayStationNumber(raw string) string {
	if !strings.Contains(strings.ToLower(raw), "ch") {
		return ""
	}
	var digits strings.Builder
	for _, r := range raw {
		if unicode.IsDigit(r) {
			digits.WriteRune(r)
		}
	}
	return digits.String()
}

// reorderSeries applies the domain display order for the station type and
// returns the series as mutable pointers.
func reorderSeries(objectType string, seriesList []models.TimeSeries) []*models.TimeSeries {
	series := lo.Map(seriesList, func(s models.TimeSeries, _ int) *models.TimeSeries {
		copied := s
		return &copied
	})
	switch {
	case objectType == "Boden":
		return orderBySoilSlots(series)
	case prioritizedObjectTypes[objectType]:
		return orderByParameterPriority(series)
	default:
		return series
	}
}

// orderByParameterPriority moves series matching the fixed parameter
// priority list to the front, in priority order. Unmatched series keep
// their relative order after them.
func orderByParameterPriority(series []*models.TimeSeries) []*models.TimeSeries {
	result := make([]*models.TimeSeries, 0, len(series))
	matched := make(map[int]bool, len(series))
	for _, parameter := range parameterPriority {
		for i, s := range series {
			if !matched[i] && s.StationParameterName == parameter {
				result = append(result, s)
				matched[i] = true
			}
		}
	}
	for i, s := range series {
		if !matched[i] {
			result = append(result, s)
		}
	}
	return result
}

// soilSlotFor classifies a soil station series by its parameter type and
// the depth marker in its parameter name.
func soilSlotFor(series *models.TimeSeries) soilSlot {
	depth := func(base soilSlot) soilSlot {
		name := series.StationParameterName
		switch {
		case strings.Contains(name, "20"):
			return base
		case strings.Contains(name, "35"):
			return base + 1
		case strings.Contains(name, "60"):
			return base + 2
		}
		return slotOther
	}
	switch series.ParameterTypeName {
	case "Bodensaugspannung":
		return depth(slotSuction20)
	case "Niederschlag":
		return slotPrecipitation
	case "Bodentemperatur":
		return depth(slotTemperature20)
	}
	return slotOther
}

// orderBySoilSlots places soil station series into their fixed slots:
// suction at 20/35/60 cm, precipitation, temperature at 20/35/60 cm, then
// everything else in its original relative order. Empty slots simply do
// not appear.
func orderBySoilSlots(series []*models.TimeSeries) []*models.TimeSeries {
	type slotted struct {
		slot  soilSlot
		index int
		s     *models.TimeSeries
	}
	entries := lo.Map(series, func(s *models.TimeSeries, i int) slotted {
		return slotted{slot: soilSlotFor(s), index: i, s: s}
	})
	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].slot != entries[b].slot {
			return entries[a].slot < entries[b].slot
		}
		return entries[a].index < entries[b].index
	})
	return lo.Map(entries, func(e slotted, _ int) *models.TimeSeries { return e.s })
}

// fetchLatestMeasurements loads the latest measurement for every series.
// The per-series fetches are independent, so they run concurrently; the
// result keeps the series order regardless of completion order.
func (s *StationService) fetchLatestMeasurements(ctx context.Context, series []*models.TimeSeries) ([]*models.LatestMeasurement, error) {
	latest := make([]*models.LatestMeasurement, len(series))
	group, groupCtx := errgroup.WithContext(ctx)
	for i, serie := range series {
		i, serie := i, serie
		group.Go(func() error {
			measurement, err := s.latestMeasurement(groupCtx, serie)
			if err != nil {
				return err
			}
			latest[i] = measurement
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to fetch latest measurements: %w", err)
	}
	return latest, nil
}

// latestMeasurement fetches the most recent reading of one series. When the
// newest sample carries no value, a longer look-back window is fetched and
// scanned backwards for the most recent valid reading. Statistic series use
// the multi-year statistics window, observational series the 24 hour one.
func (s *StationService) latestMeasurement(ctx context.Context, series *models.TimeSeries) (*models.LatestMeasurement, error) {
	measurement, err := s.kiwis.GetLatestMeasurement(ctx, series.ID, "")
	if err != nil {
		return nil, err
	}
	if measurement == nil {
		return nil, nil
	}
	if len(measurement.Data) > 0 {
		newest := measurement.Data[len(measurement.Data)-1]
		timestamp := newest.Timestamp
		measurement.Timestamp = &timestamp
		measurement.Value = newest.Value
		measurement.AbsoluteValue = newest.AbsoluteValue
	}

	if measurement.Value == nil {
		window := config.LatestMeasurementPeriod
		if isStatisticSeries(series.ShortName) {
			window = config.StatisticsPeriod
		}
		backfill, err := s.kiwis.GetLatestMeasurement(ctx, series.ID, window)
		if err != nil {
			return nil, err
		}
		if backfill != nil {
			for i := len(backfill.Data) - 1; i >= 0; i-- {
				sample := backfill.Data[i]
				if sample.Value == nil {
					continue
				}
				timestamp := sample.Timestamp
				measurement.Timestamp = &timestamp
				measurement.Value = sample.Value
				measurement.AbsoluteValue = sample.AbsoluteValue
				measurement.Backfilled = true
				break
			}
		}
	}

	labelLatestMeasurement(measurement)
	return measurement, nil
}

// labelLatestMeasurement composes the human readable value strings using
// the unit name table. Groundwater levels are depth-to-water readings and
// get the "Abstich" label with the plain unit symbol.
func labelLatestMeasurement(measurement *models.LatestMeasurement) {
	if measurement == nil || measurement.Value == nil {
		return
	}
	unitName, ok := config.UnitNames[measurement.UnitSymbol]
	if !ok {
		unitName = measurement.UnitSymbol
	}
	value := strconv.FormatFloat(*measurement.Value, 'f', -1, 64)
	if measurement.ParameterTypeName == groundwaterLevelType {
		measurement.ValueLabel = fmt.Sprintf("Abstich: %s %s", value, measurement.UnitSymbol)
	} else {
		measurement.ValueLabel = fmt.Sprintf("%s %s", value, unitName)
	}
	if measurement.AbsoluteValue != nil {
		absolute := strconv.FormatFloat(*measurement.AbsoluteValue, 'f', -1, 64)
		measurement.AbsoluteValueLabel = fmt.Sprintf("%s %s", absolute, unitName)
	}
}

// isStatisticSeries reports whether a series short name marks a historical
// min/mean/max series rather than live observations.
func isStatisticSeries(shortName string) bool {
	lowered := strings.ToLower(shortName)
	return strings.Contains(lowered, "min") ||
		strings.Contains(lowered, "max") ||
		strings.Contains(lowered, "mean")
}

// mergeStatistics folds the statistic series into the observational ones.
// Every observational series gets a statistics map keyed by the statistic's
// short name, matched by parameter name (case-insensitive). The statistic
// series themselves are removed from both the series list and the latest
// measurement list.
func mergeStatistics(series []*models.TimeSeries, latest []*models.LatestMeasurement) ([]*models.TimeSeries, []*models.LatestMeasurement) {
	observational := make([]*models.TimeSeries, 0, len(series))
	measurements := make([]*models.LatestMeasurement, 0, len(latest))
	var statistics []*models.LatestMeasurement

	for i, serie := range series {
		if isStatisticSeries(serie.ShortName) {
			if latest[i] != nil {
				statistics = append(statistics, latest[i])
			}
			continue
		}
		observational = append(observational, serie)
		measurements = append(measurements, latest[i])
	}

	for _, serie := range observational {
		for _, statistic := range statistics {
			if statistic.Value == nil {
				continue
			}
			if !strings.EqualFold(statistic.StationParameterName, serie.StationParameterName) {
				continue
			}
			if serie.Statistics == nil {
				serie.Statistics = make(map[string]float64)
			}
			serie.Statistics[statistic.ShortName] = *statistic.Value
		}
	}
	return observational, measurements
}

// fetchDocuments loads the auxiliary documents for a station number. This
// never fails the aggregation: on error the result is marked absent with
// the reason.
func (s *StationService) fetchDocuments(ctx context.Context, stationNumber string) models.DocumentsResult {
	documents, err := s.documents.GetDocuments(ctx, stationNumber)
	if err != nil {
		log.WithFields(log.Fields{"station_no": stationNumber, "error": err}).Warn("documents not available")
		return models.DocumentsResult{Available: false, Reason: err.Error()}
	}
	return models.DocumentsResult{Available: true, Documents: documents}
}
