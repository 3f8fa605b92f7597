package models

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeSection(t *testing.T, path, section string, header []string, rows ...[]interface{}) {
	t.Helper()
	wb, err := OpenOrCreateWorkbook(path)
	require.NoError(t, err)
	defer wb.Close()
	for _, r := range rows {
		require.NoError(t, wb.AppendRow(section, header, r))
	}
	require.NoError(t, wb.Persist(path))
}

func TestBuildTrend_DropsBadRowsAndSorts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressor_log.xlsx")
	header := CompressorSchema.Header
	writeSection(t, path, "Unit1", header,
		[]interface{}{"2024-05-03", "A", 60.0, 80.0, 7.0},
		[]interface{}{"2024-05-01", "A", 58.0, 79.0, 7.1},
		[]interface{}{"2024-05-02", "A", "n/a", 79.5, 7.2},
		[]interface{}{"05/04/2024", "A", 61.0, 81.0, 7.3},
	)
	writeSection(t, path, "Unit2", header,
		[]interface{}{"2024-05-01", "B", 40.0, 70.0, 6.8},
	)

	spec, ok := TrendSpecFor(DomainCompressor)
	require.True(t, ok)
	trend, err := BuildTrend(path, []string{"Unit1", "Unit2", "Unit1"}, "Amps", spec)
	require.NoError(t, err)
	require.False(t, trend.Empty())
	require.Equal(t, 2, trend.Dropped)
	require.Len(t, trend.Series, 2)

	unit1 := trend.Series[0]
	require.Equal(t, "Unit1", unit1.Section)
	require.Equal(t, []TrendPoint{
		{Time: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), Value: 58},
		{Time: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC), Value: 60},
	}, unit1.Points)
	require.Equal(t, "Unit2", trend.Series[1].Section)
}

func TestBuildTrend_AllRowsInvalidIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "compressor_log.xlsx")
	writeSection(t, path, "Unit1", CompressorSchema.Header,
		[]interface{}{"2024-05-01", "A", "", 80.0, 7.0},
		[]interface{}{"2024-05-02", "A", "broken", 80.0, 7.0},
	)

	trend, err := BuildTrend(path, []string{"Unit1"}, "Amps", trendSpecs[DomainCompressor])
	require.NoError(t, err)
	require.True(t, trend.Empty())
	require.Empty(t, trend.Series)

	var buf bytes.Buffer
	require.Error(t, RenderTrendPNG(trend, &buf))
}

func TestBuildTrend_Errors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lt_panel_log.xlsx")
	writeSection(t, path, "Tapline", LTPanelSchema.Header,
		[]interface{}{"2024-05-01", "A", "08:30", "Ravi", 415.0, 100.0, 0.9, 40.0},
	)
	spec := trendSpecs[DomainLTPanel]

	_, err := BuildTrend(path, []string{"Tapline"}, "Frequency", spec)
	require.True(t, errors.Is(err, ErrColumnNotFound))

	_, err = BuildTrend(path, []string{"LT Panel 7"}, "Volt", spec)
	require.True(t, errors.Is(err, ErrSectionNotFound))

	_, err = BuildTrend(filepath.Join(dir, "missing.xlsx"), []string{"Tapline"}, "Volt", spec)
	require.True(t, errors.Is(err, ErrStoreNotFound))
}

func TestBuildTrend_LTPanelJoinsDateAndTime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lt_panel_log.xlsx")
	writeSection(t, path, "Tapline", LTPanelSchema.Header,
		[]interface{}{"2024-05-01", "B", "16:30", "Ravi", 410.0, 100.0, 0.9, 40.0},
		[]interface{}{"2024-05-01", "A", "08:30", "Ravi", 415.0, 100.0, 0.9, 40.0},
	)

	trend, err := BuildTrend(path, []string{"Tapline"}, "Volt", trendSpecs[DomainLTPanel])
	require.NoError(t, err)
	require.Len(t, trend.Series, 1)
	points := trend.Series[0].Points
	require.Len(t, points, 2)
	require.Equal(t, time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), points[0].Time)
	require.Equal(t, 415.0, points[0].Value)
	require.Equal(t, time.Date(2024, 5, 1, 16, 30, 0, 0, time.UTC), points[1].Time)
}

func TestBuildTrend_ChillerTimeAnchoredTo1900(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chiller_readings.xlsx")
	writeSection(t, path, "Chiller3", ChillerSchema.Header,
		[]interface{}{"A", "08:00 AM", "31", "7", "4", "OK"},
		[]interface{}{"B", "02:30 PM", "33", "7.5", "4", "OK"},
		[]interface{}{"C", "02:30 PM", "", "7.5", "4", "OK"},
	)

	trend, err := BuildTrend(path, []string{"Chiller3"}, "AMP", trendSpecs[DomainChiller])
	require.NoError(t, err)
	require.Equal(t, 1, trend.Dropped)
	points := trend.Series[0].Points
	require.Len(t, points, 2)
	require.Equal(t, 1900, points[0].Time.Year())
	require.Equal(t, 14, points[1].Time.Hour())

	var buf bytes.Buffer
	require.NoError(t, RenderTrendPNG(trend, &buf))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
}

func TestRenderTrendPNG(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		name  string
		trend *Trend
	}{
		{"single point", &Trend{Parameter: "Amps", Series: []TrendSeries{
			{Section: "Unit1", Points: []TrendPoint{{Time: day, Value: 60}}},
		}}},
		{"two sections", &Trend{Parameter: "Amps", Series: []TrendSeries{
			{Section: "Unit1", Points: []TrendPoint{{Time: day, Value: 60}, {Time: day.AddDate(0, 0, 1), Value: 62}}},
			{Section: "Unit2", Points: []TrendPoint{{Time: day, Value: 40}, {Time: day.AddDate(0, 0, 2), Value: 41}}},
		}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderTrendPNG(tc.trend, &buf))
			require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG\r\n\x1a\n")))
		})
	}
}
