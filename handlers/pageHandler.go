package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	log "github.com/sirupsen/logrus"

	"github.com/hkfrei/wiski-html/models"
	"github.com/hkfrei/wiski-html/services"
)

// PageHandler renders the embeddable station pages and the server side
// chart previews. The station page carries one container per series with
// the attributes (series id, data url, unit name table, statistics) the
// browser side charting reads.
type PageHandler struct {
	stations *services.StationService
	charts   *services.ChartService
	page     *template.Template
}

// NewPageHandler creates a PageHandler.
func NewPageHandler(stations *services.StationService, charts *services.ChartService) *PageHandler {
	return &PageHandler{
		stations: stations,
		charts:   charts,
		page:     template.Must(template.New("station").Parse(stationPageTemplate)),
	}
}

// pageChart is one chart container on the station page.
type pageChart struct {
	TsID           string
	Title          string
	UnitSymbol     string
	DiagramDataURL string
	UnitNamesJSON  string
	StatisticsJSON string
}

// pageData is everything the station page template needs.
type pageData struct {
	Info           models.StationInfo
	Charts         []pageChart
	MeasurePeriods map[string]string
}

// StationPage handles GET requests for the station page identified by the
// station_id query parameter.
func (h *PageHandler) StationPage(w http.ResponseWriter, r *http.Request) {
	stationID := r.URL.Query().Get("station_id")
	if stationID == "" {
		http.Error(w, "station_id is required", http.StatusBadRequest)
		return
	}

	response, err := h.stations.Aggregate(r.Context(), stationID)
	if err != nil {
		renderPageError(w, stationID, err)
		return
	}

	unitNames, err := json.Marshal(response.UnitNames)
	if err != nil {
		http.Error(w, "could not render station page", http.StatusInternalServerError)
		return
	}
	data := pageData{
		Info:           response.Info,
		MeasurePeriods: response.MeasurePeriods,
	}
	for _, series := range response.TimeSeries {
		statistics, err := json.Marshal(series.Statistics)
		if err != nil {
			http.Error(w, "could not render station page", http.StatusInternalServerError)
			return
		}
		data.Charts = append(data.Charts, pageChart{
			TsID:           series.ID,
			Title:          series.StationParameterName,
			UnitSymbol:     series.UnitSymbol,
			DiagramDataURL: "/graph-data",
			UnitNamesJSON:  string(unitNames),
			StatisticsJSON: string(statistics),
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, data); err != nil {
		log.WithFields(log.Fields{"station_id": stationID, "error": err}).Error("station page render failed")
	}
}

// renderPageError shows the user facing error state in place of the page.
func renderPageError(w http.ResponseWriter, stationID string, err error) {
	switch {
	case errors.Is(err, models.ErrNoStationFound):
		http.Error(w, fmt.Sprintf("Keine Station mit der ID %s gefunden.", stationID), http.StatusNotFound)
	case errors.Is(err, models.ErrUpstreamUnavailable):
		log.WithFields(log.Fields{"station_id": stationID, "error": err}).Error("station page failed")
		http.Error(w, "Die Messdaten konnten nicht geladen werden.", http.StatusBadGateway)
	default:
		log.WithFields(log.Fields{"station_id": stationID, "error": err}).Error("station page failed")
		http.Error(w, "Die Seite konnte nicht geladen werden.", http.StatusInternalServerError)
	}
}

// ChartPreview handles GET requests for a server rendered chart of one
// series of a station. It resolves the series through the aggregation so
// the preview carries the same statistics overlays the embedded page gets.
func (h *PageHandler) ChartPreview(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	stationID := query.Get("station_id")
	tsID := query.Get("ts_id")
	if stationID == "" || tsID == "" {
		http.Error(w, "station_id and ts_id are required", http.StatusBadRequest)
		return
	}
	period := query.Get("period")
	if period == "" {
		period = "pt24h"
	}

	response, err := h.stations.Aggregate(r.Context(), stationID)
	if err != nil {
		renderPageError(w, stationID, err)
		return
	}
	var series *models.TimeSeries
	for _, candidate := range response.TimeSeries {
		if candidate.ID == tsID {
			series = candidate
			break
		}
	}
	if series == nil {
		http.Error(w, fmt.Sprintf("Keine Zeitreihe %s an dieser Station.", tsID), http.StatusNotFound)
		return
	}

	data, err := h.charts.GraphData(r.Context(), tsID, period, 0, series.Statistics)
	if err != nil {
		renderPageError(w, stationID, err)
		return
	}
	if data.NoData {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<p>%s</p>", template.HTMLEscapeString(data.Message))
		return
	}

	line := buildPreviewChart(series, data)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := line.Render(w); err != nil {
		log.WithFields(log.Fields{"ts_id": tsID, "error": err}).Error("chart preview render failed")
	}
}

// buildPreviewChart turns prepared chart data into a go-echarts line chart
// with the annotation overlays as mark lines and mark areas.
func buildPreviewChart(series *models.TimeSeries, data *models.ChartData) *charts.Line {
	line := charts.NewLine()

	globalOpts := []charts.GlobalOpts{
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: series.StationParameterName,
			Width:     "900px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    series.StationParameterName,
			Subtitle: fmt.Sprintf("%s (%s)", series.StationName, data.Period),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	}
	if data.Range != nil {
		globalOpts = append(globalOpts, charts.WithYAxisOpts(opts.YAxis{
			Min: data.Range.Min,
			Max: data.Range.Max,
		}))
	}
	line.SetGlobalOptions(globalOpts...)

	labels := make([]string, len(data.Points))
	values := make([]opts.LineData, len(data.Points))
	for i, point := range data.Points {
		labels[i] = point.X.Format("02.01. 15:04")
		values[i] = opts.LineData{Value: point.Y}
	}

	seriesOpts := []charts.SeriesOpts{
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	}
	for _, annotation := range data.Annotations.Lines {
		seriesOpts = append(seriesOpts, withStatisticLine(annotation))
	}
	for _, band := range data.Annotations.Bands {
		// the coord pair carries both bounds and the band color
		seriesOpts = append(seriesOpts, charts.WithMarkAreaNameCoordItemOpts(
			opts.MarkAreaNameCoordItem{
				Name:        band.Label,
				ItemStyle:   &opts.ItemStyle{Color: band.Color, Opacity: opts.Float(0.25)},
				Coordinate0: []interface{}{labels[0], band.YMin},
				Coordinate1: []interface{}{labels[len(labels)-1], band.YMax},
			}))
	}

	line.SetXAxis(labels).AddSeries(series.StationParameterName, values, seriesOpts...)
	return line
}

// withStatisticLine appends one horizontal mark line with its own color.
// The typed mark line items carry no per-item style, so the data item is
// built directly.
func withStatisticLine(annotation models.Line) charts.SeriesOpts {
	return func(s *charts.SingleSeries) {
		if s.MarkLines == nil {
			s.MarkLines = &opts.MarkLines{}
		}
		s.MarkLines.Data = append(s.MarkLines.Data, map[string]interface{}{
			"name":      annotation.Label,
			"yAxis":     annotation.Y,
			"lineStyle": map[string]string{"color": annotation.Color},
		})
	}
}

const stationPageTemplate = `<!DOCTYPE html>
<html lang="de">
<head>
<meta charset="utf-8">
<title>{{.Info.Name}}</title>
</head>
<body>
<div class="info-container">
  <h1>{{.Info.Name}}</h1>
  {{if .Info.StationNumber}}<p class="station-number">Stationsnummer: {{.Info.StationNumber}}</p>{{end}}
  <table class="latest-measurements">
    {{range .Info.LatestMeasurements}}{{if .}}
    <tr>
      <td>{{.StationParameterName}}</td>
      <td>{{.ValueLabel}}</td>
      {{if .AbsoluteValueLabel}}<td>{{.AbsoluteValueLabel}}</td>{{end}}
    </tr>
    {{end}}{{end}}
  </table>
  {{if .Info.Documents.Available}}
  <ul class="documents">
    {{range .Info.Documents.Documents}}<li><a href="{{.URL}}">{{.Name}}</a></li>{{end}}
  </ul>
  {{else}}
  <p class="documents">Keine Dokumente vorhanden.</p>
  {{end}}
  {{range .Charts}}
  <div class="graph-wrapper">
    <h2>{{.Title}} {{if .UnitSymbol}}({{.UnitSymbol}}){{end}}</h2>
    <canvas class="graph-container"
      data-tsid="{{.TsID}}"
      data-diagramdataurl="{{.DiagramDataURL}}"
      data-unitnames="{{.UnitNamesJSON}}"
      data-statistics="{{.StatisticsJSON}}"></canvas>
    {{$tsid := .TsID}}
    {{range $code, $label := $.MeasurePeriods}}
    <label><input type="radio" class="graph-time-radio" name="period-{{$tsid}}" id="period-{{$code}}-{{$tsid}}" value="{{$code}}"> {{$label}}</label>
    {{end}}
  </div>
  {{end}}
</div>
</body>
</html>
`
