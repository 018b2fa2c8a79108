package config

// Static KiWIS query templates and lookup tables. The templates carry every
// query parameter except the ones that vary per request (station_id, ts_id,
// period), which the dao appends.

const (
	// QueryStationInfo returns the station list including the ca_sta
	// threshold attributes for a station id.
	QueryStationInfo = "/KiWIS/KiWIS?datasource=1&service=kisters&type=queryServices&request=getStationList&format=objson&returnfields=station_id,station_no,station_name,object_type,parametertype_name,stationparameter_name,site_name,station_local_x,station_local_y,ca_sta&ca_sta_returnfields=OBJECT_DESCRIPTION,STA_LOCATION_TYPE,SPECIALISM,station_status,DATAOWNER,station_elevation,station_gauge_datum,catchment_size,SOIL_TYPE,GW_AREA,WTO_OBJECT,HQ2,HQ5,HQ10,HQ20,HQ30,HQ50,HQ100,HQ300,Q347,Q182,LONG_TERM_VAL_MIN,LONG_TERM_VAL_MEAN,LONG_TERM_VAL_MAX"

	// QueryTimeSeriesList returns all time series of a timeseries group
	// for a station.
	QueryTimeSeriesList = "/KiWIS/KiWIS?returnfields=station_id%2Cts_id%2Cts_name%2Cts_shortname%2Cts_type_name%2Cparametertype_name%2Cstationparameter_name%2Ccoverage%2Cts_unitname%2Cts_unitsymbol%2Cts_unitname_abs%2Cts_unitsymbol_abs&id=timeSeriesList&datasource=1&service=kisters&type=queryServices&request=getTimeseriesList&format=objson"

	// QueryLatestMeasurement returns the most recent values of a single
	// time series as dajson (metadata plus data tuples).
	QueryLatestMeasurement = "/KiWIS/KiWIS?datasource=1&service=kisters&type=queryServices&request=getTimeseriesValues&metadata=true&md_returnfields=ts_id,station_name,stationparameter_name,station_no,station_id,ts_unitsymbol,parametertype_name,ts_name,ts_shortname&format=dajson&returnfields=Timestamp,Value,Absolute%20Value"

	// QueryTimeSeriesValues returns the data of a time series for a
	// period, used to feed the diagrams.
	QueryTimeSeriesValues = "/KiWIS/KiWIS?dateformat=yyyy-MM-dd%27T%27HH%3Amm%3AssXXX&metadata=true&timezone=CET&md_returnfields=station_id%2Cts_id%2Cstation_name%2Cparametertype_name%2Cstationparameter_name%2Cts_unitsymbol%2Cts_shortname&returnfields=Timestamp%2CValue%2CAbsolute%20Value&id=timeSeriesValues&datasource=1&service=kisters&type=queryServices&request=getTimeseriesValues&format=dajson"

	// QueryDataExport streams the values of a time series as a
	// spreadsheet file.
	QueryDataExport = "/KiWIS/KiWIS?datasource=1&service=kisters&type=queryServices&request=getTimeseriesValues&format=xlsx&returnfields=Timestamp%2CValue%2CAbsolute%20Value"
)

// LatestMeasurementPeriod is the default look-back window for latest
// measurements. StatisticsPeriod is the multi-year window used for
// statistic series and for back-filling their latest value.
const (
	LatestMeasurementPeriod = "pt24h"
	StatisticsPeriod        = "p3y"
)

// DefaultTimeSeriesGroup is used when a station's object type has no entry
// in TimeSeriesGroups. The aggregation flags this case because the default
// group is not guaranteed to match the station's domain.
const DefaultTimeSeriesGroup = 41608

// TimeSeriesGroups maps a station object type to its timeseries group id.
var TimeSeriesGroups = map[string]int{
	"Boden":                        1009050,
	"Niederschlag - Hydrometrie":   41608,
	"Fliessgewässer - Hydrometrie": 41608,
	"Grundwasser - Hydrometrie":    41608,
	"See - Hydrometrie":            41608,
	"Bohrung":                      41608,
}

// UnitNames maps a KiWIS unit symbol to its display name.
var UnitNames = map[string]string{
	"m":     "m.ü.Meer",
	"cumec": "m3/s",
	"cbar":  "Centibar",
	"mm":    "Millimeter",
	"°C":    "Grad Celsius",
	"%":     "Anteil in %",
	"NTU":   "Nephelometrischer Trübungswert (NTU)",
	"l/min": "Liter pro Minute",
	"µS/cm": "Microsiemens pro Zentimeter",
}

// MeasurePeriods maps the selectable diagram periods to display labels.
var MeasurePeriods = map[string]string{
	"pt24h": "24 Std.",
	"pt48h": "48 Std.",
	"p7d":   "1 Woche",
	"p1m":   "1 Monat",
	"p1y":   "1 Jahr",
}

// ValidPeriod reports whether period is one of the selectable diagram
// periods or the statistics period.
func ValidPeriod(period string) bool {
	if period == StatisticsPeriod {
		return true
	}
	_, ok := MeasurePeriods[period]
	return ok
}
