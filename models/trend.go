package models

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/mmdatafocus/maintenance_backend/utils"
	"github.com/wcharczuk/go-chart/v2"
)

var ErrColumnNotFound = errors.New("column not found")

// TimestampSpec says how a row's timestamp is built: the named columns joined by a space,
// parsed with Layout.
type TimestampSpec struct {
	Columns []string
	Layout  string
}

var trendSpecs = map[string]TimestampSpec{
	DomainLTPanel:    {Columns: []string{"Date", "Time"}, Layout: "2006-01-02 15:04"},
	DomainCompressor: {Columns: []string{"Date"}, Layout: "2006-01-02"},
	DomainChiller:    {Columns: []string{"TIME"}, Layout: ChillerTimeLayout},
}

func TrendSpecFor(domain string) (TimestampSpec, bool) {
	spec, ok := trendSpecs[domain]
	return spec, ok
}

type TrendPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

type TrendSeries struct {
	Section string       `json:"section"`
	Points  []TrendPoint `json:"points"`
}

// Trend is a chart-ready view of one parameter across sections.
type Trend struct {
	Parameter string        `json:"parameter"`
	Series    []TrendSeries `json:"series"`
	// Dropped counts rows excluded for a non-numeric value or an unparseable timestamp.
	Dropped int `json:"dropped"`
}

func (t *Trend) Empty() bool {
	for _, s := range t.Series {
		if len(s.Points) > 0 {
			return false
		}
	}
	return true
}

// BuildTrend loads every requested section of the store at path and keeps the rows whose
// parameter is numeric and whose timestamp parses. Finding nothing is not an error; check
// Empty.
func BuildTrend(path string, sections []string, parameter string, spec TimestampSpec) (*Trend, error) {
	wb, err := openExisting(path)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	trend := &Trend{Parameter: parameter, Series: []TrendSeries{}}
	seen := map[string]bool{}
	for _, section := range sections {
		if seen[section] {
			continue
		}
		seen[section] = true

		table, err := wb.Table(section)
		if err != nil {
			return nil, err
		}
		series, dropped, err := trendSeries(section, table, parameter, spec)
		if err != nil {
			return nil, err
		}
		trend.Dropped += dropped
		if len(series.Points) > 0 {
			trend.Series = append(trend.Series, series)
		}
	}
	return trend, nil
}

func trendSeries(section string, table *Table, parameter string, spec TimestampSpec) (TrendSeries, int, error) {
	series := TrendSeries{Section: section, Points: []TrendPoint{}}

	valueCol := table.ColumnIndex(parameter)
	if valueCol < 0 {
		return series, 0, fmt.Errorf("%s/%s: %w", section, parameter, ErrColumnNotFound)
	}
	timeCols := make([]int, len(spec.Columns))
	for i, name := range spec.Columns {
		timeCols[i] = table.ColumnIndex(name)
		if timeCols[i] < 0 {
			return series, 0, fmt.Errorf("%s/%s: %w", section, name, ErrColumnNotFound)
		}
	}

	dropped := 0
	for _, row := range table.Rows {
		value, ok := utils.CoerceNumeric(row[valueCol])
		if !ok {
			dropped++
			continue
		}
		parts := make([]string, len(timeCols))
		for i, c := range timeCols {
			parts[i] = strings.TrimSpace(row[c])
		}
		ts, err := time.Parse(spec.Layout, strings.Join(parts, " "))
		if err != nil {
			dropped++
			continue
		}
		if ts.Year() == 0 {
			// time-of-day only; anchor on 1900-01-01 so the value stays chartable
			ts = ts.AddDate(1900, 0, 0)
		}
		series.Points = append(series.Points, TrendPoint{Time: ts, Value: value})
	}
	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Time.Before(series.Points[j].Time)
	})
	return series, dropped, nil
}

// RenderTrendPNG draws one line per section with point markers.
func RenderTrendPNG(t *Trend, w io.Writer) error {
	if t.Empty() {
		return errors.New("no valid data to plot")
	}

	var (
		series     []chart.Series
		minT, maxT time.Time
		minV, maxV float64
		first      = true
	)
	for i, s := range t.Series {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]time.Time, len(s.Points))
		ys := make([]float64, len(s.Points))
		for j, p := range s.Points {
			xs[j], ys[j] = p.Time, p.Value
			if first || p.Time.Before(minT) {
				minT = p.Time
			}
			if first || p.Time.After(maxT) {
				maxT = p.Time
			}
			if first || p.Value < minV {
				minV = p.Value
			}
			if first || p.Value > maxV {
				maxV = p.Value
			}
			first = false
		}
		col := chart.GetDefaultColor(i)
		series = append(series, chart.TimeSeries{
			Name:    s.Section,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    4,
			},
		})
	}

	xAxis := chart.XAxis{
		Name:           "Timestamp",
		ValueFormatter: chart.TimeValueFormatterWithFormat("01-02 15:04"),
	}
	// go-chart rejects zero-width ranges; pad a lone timestamp or a flat line
	if !minT.Before(maxT) {
		xAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(minT.Add(-time.Hour)),
			Max: chart.TimeToFloat64(maxT.Add(time.Hour)),
		}
	}
	yAxis := chart.YAxis{Name: t.Parameter}
	if minV == maxV {
		yAxis.Range = &chart.ContinuousRange{Min: minV - 1, Max: maxV + 1}
	}

	ch := chart.Chart{
		Title:      fmt.Sprintf("%s Trend", t.Parameter),
		Width:      1024,
		Height:     480,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}
	return ch.Render(chart.PNG, w)
}
