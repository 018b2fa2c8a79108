package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hkfrei/wiski-html/models"
)

func fptr(v float64) *float64 {
	return &v
}

// fakeKiwis is an in-memory stand-in for the KiWIS upstream.
type fakeKiwis struct {
	mu sync.Mutex

	stations    []models.Station
	stationsErr error

	seriesList     []models.TimeSeries
	seriesListErr  error
	requestedGroup int

	// latest measurements keyed by ts_id, backfill windows by ts_id:period
	latest  map[string]*models.LatestMeasurement
	windows map[string]*models.LatestMeasurement

	// series values keyed by ts_id:period
	values      map[string]*models.TimeSeries
	valuesCalls int
	valuesErr   error
}

func (f *fakeKiwis) GetStationList(_ context.Context, stationID string) ([]models.Station, error) {
	if f.stationsErr != nil {
		return nil, f.stationsErr
	}
	return f.stations, nil
}

func (f *fakeKiwis) GetTimeSeriesList(_ context.Context, stationID string, groupID int) ([]models.TimeSeries, error) {
	f.mu.Lock()
	f.requestedGroup = groupID
	f.mu.Unlock()
	if f.seriesListErr != nil {
		return nil, f.seriesListErr
	}
	return f.seriesList, nil
}

func (f *fakeKiwis) GetTimeSeriesValues(_ context.Context, tsID, period string) (*models.TimeSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.valuesCalls++
	if f.valuesErr != nil {
		return nil, f.valuesErr
	}
	return f.values[tsID+":"+period], nil
}

func (f *fakeKiwis) GetLatestMeasurement(_ context.Context, tsID, period string) (*models.LatestMeasurement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if period == "" {
		m, ok := f.latest[tsID]
		if !ok {
			return nil, nil
		}
		copied := *m
		return &copied, nil
	}
	m, ok := f.windows[tsID+":"+period]
	if !ok {
		return nil, nil
	}
	copied := *m
	return &copied, nil
}

func (f *fakeKiwis) StreamDataExport(_ context.Context, tsID, period string) (io.ReadCloser, string, error) {
	return io.NopCloser(strings.NewReader("export")), "application/vnd.ms-excel", nil
}

type fakeDocuments struct {
	documents []models.Document
	err       error
	requested string
}

func (f *fakeDocuments) GetDocuments(_ context.Context, stationNumber string) ([]models.Document, error) {
	f.requested = stationNumber
	if f.err != nil {
		return nil, f.err
	}
	return f.documents, nil
}

func measurementFor(series models.TimeSeries, at time.Time, value, absolute *float64) *models.LatestMeasurement {
	return &models.LatestMeasurement{
		TimeSeriesID:         series.ID,
		StationParameterName: series.StationParameterName,
		ParameterTypeName:    series.ParameterTypeName,
		UnitSymbol:           series.UnitSymbol,
		ShortName:            series.ShortName,
		Data:                 []models.RawPoint{{Timestamp: at, Value: value, AbsoluteValue: absolute}},
	}
}

func TestAggregateNoStationFound(t *testing.T) {
	kiwis := &fakeKiwis{stations: []models.Station{
		{ID: "55", ObjectType: "Allgemein"},
		{ID: "55", ObjectType: "Allgemein"},
	}}
	service := NewStationService(kiwis, &fakeDocuments{})

	_, err := service.Aggregate(context.Background(), "55")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrNoStationFound)
}

func TestAggregateUpstreamUnavailable(t *testing.T) {
	kiwis := &fakeKiwis{stationsErr: fmt.Errorf("boom: %w", models.ErrUpstreamUnavailable)}
	service := NewStationService(kiwis, &fakeDocuments{})

	_, err := service.Aggregate(context.Background(), "55")
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUpstreamUnavailable)
}

func TestAggregateEmptyStationID(t *testing.T) {
	service := NewStationService(&fakeKiwis{}, &fakeDocuments{})
	_, err := service.Aggregate(context.Background(), "")
	require.Error(t, err)
}

func TestDisplayStationNumber(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"ch station", "CH-2099", "2099"},
		{"lowercase marker", "ch2099ab3", "20993"},
		{"no country marker", "A-1234", ""},
		{"marker without digits", "CH-x", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, displayStationNumber(tt.raw))
		})
	}
}

func TestAggregateGroupResolution(t *testing.T) {
	tests := []struct {
		name         string
		objectType   string
		wantGroup    int
		wantFallback bool
	}{
		{"soil station", "Boden", 1009050, false},
		{"river station", "Fliessgewässer - Hydrometrie", 41608, false},
		{"unknown type falls back", "Gletscher", 41608, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kiwis := &fakeKiwis{
				stations: []models.Station{{ID: "55", Number: "CH-1", ObjectType: tt.objectType}},
			}
			service := NewStationService(kiwis, &fakeDocuments{})

			response, err := service.Aggregate(context.Background(), "55")
			require.NoError(t, err)
			assert.Equal(t, tt.wantGroup, kiwis.requestedGroup)
			assert.Equal(t, tt.wantFallback, response.Info.GroupFallback)
		})
	}
}

func TestAggregateSoilSlotOrder(t *testing.T) {
	seriesList := []models.TimeSeries{
		{ID: "1", ParameterTypeName: "Niederschlag", StationParameterName: "Niederschlag"},
		{ID: "2", ParameterTypeName: "Bodensaugspannung", StationParameterName: "Bodensaugspannung 20 cm"},
		{ID: "3", ParameterTypeName: "Bodentemperatur", StationParameterName: "Bodentemperatur 60 cm"},
		{ID: "4", ParameterTypeName: "Bodensaugspannung", StationParameterName: "Bodensaugspannung 35 cm"},
	}
	kiwis := &fakeKiwis{
		stations:   []models.Station{{ID: "55", ObjectType: "Boden"}},
		seriesList: seriesList,
	}
	service := NewStationService(kiwis, &fakeDocuments{})

	response, err := service.Aggregate(context.Background(), "55")
	require.NoError(t, err)

	want := []string{
		"Bodensaugspannung 20 cm",
		"Bodensaugspannung 35 cm",
		"Niederschlag",
		"Bodentemperatur 60 cm",
	}
	assert.Equal(t, want, response.MeasureParams)
}

func TestAggregateParameterPriorityOrder(t *testing.T) {
	seriesList := []models.TimeSeries{
		{ID: "1", StationParameterName: "Trübung"},
		{ID: "2", StationParameterName: "Wassertemperatur"},
		{ID: "3", StationParameterName: "Abfluss"},
		{ID: "4", StationParameterName: "Sauerstoffgehalt"},
		{ID: "5", StationParameterName: "Pegel"},
	}
	kiwis := &fakeKiwis{
		stations:   []models.Station{{ID: "55", ObjectType: "Fliessgewässer - Hydrometrie"}},
		seriesList: seriesList,
	}
	service := NewStationService(kiwis, &fakeDocuments{})

	response, err := service.Aggregate(context.Background(), "55")
	require.NoError(t, err)

	want := []string{"Abfluss", "Pegel", "Wassertemperatur", "Trübung", "Sauerstoffgehalt"}
	assert.Equal(t, want, response.MeasureParams)
}

func TestAggregateLatestMeasurementBackfill(t *testing.T) {
	series := models.TimeSeries{
		ID:                   "7",
		StationParameterName: "Abfluss",
		ParameterTypeName:    "Abfluss",
		UnitSymbol:           "cumec",
		ShortName:            "Abfluss.live",
	}
	newest := time.Date(2023, 4, 2, 12, 0, 0, 0, time.UTC)
	earlier := time.Date(2023, 4, 2, 3, 0, 0, 0, time.UTC)
	evenEarlier := time.Date(2023, 4, 1, 22, 0, 0, 0, time.UTC)

	kiwis := &fakeKiwis{
		stations:   []models.Station{{ID: "55", ObjectType: "Fliessgewässer - Hydrometrie"}},
		seriesList: []models.TimeSeries{series},
		latest: map[string]*models.LatestMeasurement{
			"7": measurementFor(series, newest, nil, nil),
		},
		windows: map[string]*models.LatestMeasurement{
			"7:pt24h": {
				TimeSeriesID:         "7",
				StationParameterName: "Abfluss",
				ParameterTypeName:    "Abfluss",
				UnitSymbol:           "cumec",
				ShortName:            "Abfluss.live",
				Data: []models.RawPoint{
					{Timestamp: evenEarlier, Value: fptr(6.1)},
					{Timestamp: earlier, Value: fptr(7.3)},
					{Timestamp: newest, Value: nil},
				},
			},
		},
	}
	service := NewStationService(kiwis, &fakeDocuments{})

	response, err := service.Aggregate(context.Background(), "55")
	require.NoError(t, err)
	require.Len(t, response.Info.LatestMeasurements, 1)

	measurement := response.Info.LatestMeasurements[0]
	require.NotNil(t, measurement)
	require.NotNil(t, measurement.Value)
	assert.Equal(t, 7.3, *measurement.Value)
	assert.True(t, measurement.Backfilled)
	require.NotNil(t, measurement.Timestamp)
	assert.True(t, measurement.Timestamp.Equal(earlier))
	assert.Equal(t, "7.3 m3/s", measurement.ValueLabel)
}

func TestAggregateStatisticBackfillUsesStatisticsWindow(t *testing.T) {
	observational := models.TimeSeries{
		ID: "10", StationParameterName: "Abfluss",
		ParameterTypeName: "Abfluss", UnitSymbol: "cumec", ShortName: "Abfluss.live",
	}
	statistic := models.TimeSeries{
		ID: "11", StationParameterName: "Abfluss",
		ParameterTypeName: "Abfluss", UnitSymbol: "cumec", ShortName: "Abfluss_Min",
	}
	newest := time.Date(2023, 4, 2, 12, 0, 0, 0, time.UTC)
	yearAgo := time.Date(2022, 7, 15, 0, 0, 0, 0, time.UTC)

	kiwis := &fakeKiwis{
		stations:   []models.Station{{ID: "55", ObjectType: "Fliessgewässer - Hydrometrie"}},
		seriesList: []models.TimeSeries{observational, statistic},
		latest: map[string]*models.LatestMeasurement{
			"10": measurementFor(observational, newest, fptr(3.4), nil),
			"11": measurementFor(statistic, newest, nil, nil),
		},
		// only the multi-year window carries a value, so a lookup through
		// the short live window would come back empty
		windows: map[string]*models.LatestMeasurement{
			"11:p3y": {
				TimeSeriesID:         "11",
				StationParameterName: "Abfluss",
				ParameterTypeName:    "Abfluss",
				UnitSymbol:           "cumec",
				ShortName:            "Abfluss_Min",
				Data: []models.RawPoint{
					{Timestamp: yearAgo, Value: fptr(0.9)},
					{Timestamp: newest, Value: nil},
				},
			},
		},
	}
	service := NewStationService(kiwis, &fakeDocuments{})

	response, err := service.Aggregate(context.Background(), "55")
	require.NoError(t, err)

	require.Len(t, response.TimeSeries, 1)
	assert.Equal(t, map[string]float64{"Abfluss_Min": 0.9}, response.TimeSeries[0].Statistics)
}

func TestAggregateLatestMeasurementLabels(t *testing.T) {
	at := time.Date(2023, 4, 2, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name         string
		series       models.TimeSeries
		value        *float64
		absolute     *float64
		wantValue    string
		wantAbsolute string
	}{
		{
			name: "known unit symbol",
			series: models.TimeSeries{
				ID: "1", StationParameterName: "Abfluss",
				ParameterTypeName: "Abfluss", UnitSymbol: "cumec",
			},
			value:     fptr(12.4),
			wantValue: "12.4 m3/s",
		},
		{
			name: "unknown unit symbol falls back",
			series: models.TimeSeries{
				ID: "2", StationParameterName: "Strahlung",
				ParameterTypeName: "Strahlung", UnitSymbol: "W/m2",
			},
			value:     fptr(880),
			wantValue: "880 W/m2",
		},
		{
			name: "groundwater level",
			series: models.TimeSeries{
				ID: "3", StationParameterName: "Grundwasserspiegel",
				ParameterTypeName: "Grundwasserspiegel", UnitSymbol: "m",
			},
			value:        fptr(4.2),
			absolute:     fptr(412.5),
			wantValue:    "Abstich: 4.2 m",
			wantAbsolute: "412.5 m.ü.Meer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kiwis := &fakeKiwis{
				stations:   []models.Station{{ID: "55", ObjectType: "Grundwasser - Hydrometrie"}},
				seriesList: []models.TimeSeries{tt.series},
				latest: map[string]*models.LatestMeasurement{
					tt.series.ID: measurementFor(tt.series, at, tt.value, tt.absolute),
				},
			}
			service := NewStationService(kiwis, &fakeDocuments{})

			response, err := service.Aggregate(context.Background(), "55")
			require.NoError(t, err)
			require.Len(t, response.Info.LatestMeasurements, 1)
			measurement := response.Info.LatestMeasurements[0]
			require.NotNil(t, measurement)
			assert.Equal(t, tt.wantValue, measurement.ValueLabel)
			assert.Equal(t, tt.wantAbsolute, measurement.AbsoluteValueLabel)
		})
	}
}

func TestAggregateStatisticsMerge(t *testing.T) {
	at := time.Date(2023, 4, 2, 12, 0, 0, 0, time.UTC)
	observational := models.TimeSeries{
		ID: "10", StationParameterName: "Abfluss",
		ParameterTypeName: "Abfluss", UnitSymbol: "cumec", ShortName: "Abfluss.live",
	}
	statistic := models.TimeSeries{
		ID: "11", StationParameterName: "Abfluss",
		ParameterTypeName: "Abfluss", UnitSymbol: "cumec", ShortName: "Abfluss_Min",
	}
	kiwis := &fakeKiwis{
		stations:   []models.Station{{ID: "55", ObjectType: "Fliessgewässer - Hydrometrie"}},
		seriesList: []models.TimeSeries{observational, statistic},
		latest: map[string]*models.LatestMeasurement{
			"10": measurementFor(observational, at, fptr(3.4), nil),
			"11": measurementFor(statistic, at, fptr(1.2), nil),
		},
	}
	service := NewStationService(kiwis, &fakeDocuments{})

	response, err := service.Aggregate(context.Background(), "55")
	require.NoError(t, err)

	// the statistic series is folded into the observational one
	require.Len(t, response.TimeSeries, 1)
	assert.Equal(t, "10", response.TimeSeries[0].ID)
	assert.Equal(t, map[string]float64{"Abfluss_Min": 1.2}, response.TimeSeries[0].Statistics)

	require.Len(t, response.Info.LatestMeasurements, 1)
	assert.Equal(t, "10", response.Info.LatestMeasurements[0].TimeSeriesID)
	assert.Equal(t, []string{"Abfluss"}, response.MeasureParams)
}

func TestAggregateDocumentsBestEffort(t *testing.T) {
	kiwis := &fakeKiwis{
		stations: []models.Station{{ID: "55", Number: "CH-2099", ObjectType: "Boden"}},
	}

	t.Run("failure is absorbed", func(t *testing.T) {
		documents := &fakeDocuments{err: errors.New("documents host unreachable")}
		service := NewStationService(kiwis, documents)

		response, err := service.Aggregate(context.Background(), "55")
		require.NoError(t, err)
		assert.False(t, response.Info.Documents.Available)
		assert.Contains(t, response.Info.Documents.Reason, "unreachable")
	})

	t.Run("success is attached", func(t *testing.T) {
		documents := &fakeDocuments{documents: []models.Document{{Name: "Jahresbericht", URL: "https://example.ch/doc.pdf"}}}
		service := NewStationService(kiwis, documents)

		response, err := service.Aggregate(context.Background(), "55")
		require.NoError(t, err)
		assert.True(t, response.Info.Documents.Available)
		require.Len(t, response.Info.Documents.Documents, 1)
		assert.Equal(t, "CH-2099", documents.requested)
	})
}

func TestAggregateResponseTables(t *testing.T) {
	kiwis := &fakeKiwis{
		stations: []models.Station{{ID: "55", Number: "CH-2099", Name: "Testbach", ObjectType: "Boden"}},
	}
	service := NewStationService(kiwis, &fakeDocuments{})

	response, err := service.Aggregate(context.Background(), "55")
	require.NoError(t, err)
	assert.Equal(t, "2099", response.Info.StationNumber)
	assert.Equal(t, "m3/s", response.UnitNames["cumec"])
	assert.Equal(t, "24 Std.", response.MeasurePeriods["pt24h"])
}
