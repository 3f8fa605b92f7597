package workflow

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mmdatafocus/maintenance_backend/config"
	"github.com/mmdatafocus/maintenance_backend/models"
	"github.com/mmdatafocus/maintenance_backend/utils"
	"github.com/stretchr/testify/require"
)

func testGenerator(url string, timeout time.Duration) *ReportGenerator {
	return NewReportGenerator(config.Settings{
		TextGenURL:          url,
		TextGenAPIKey:       "test-key",
		TextGenTimeout:      timeout,
		TextGenMaxNewTokens: 100,
		TextGenTemperature:  0.7,
	})
}

var sampleInput = ReportInput{Unit: "Unit 3", Machine: "Compressor 2", Technician: "Ravi", Issue: "oil leak at the gasket"}

func TestGenerate_Success(t *testing.T) {
	var got textGenRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected Authorization header %q", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("unexpected Content-Type %q", r.Header.Get("Content-Type"))
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"generated_text":"  Replaced the gasket and stopped the oil leak.  "}]`))
	}))
	defer srv.Close()

	text, generated := testGenerator(srv.URL, 5*time.Second).Generate(context.Background(), sampleInput)
	require.True(t, generated)
	require.Equal(t, "Replaced the gasket and stopped the oil leak.", text)

	require.Equal(t, 100, got.Parameters.MaxNewTokens)
	require.Equal(t, 0.7, got.Parameters.Temperature)
	require.False(t, got.Parameters.ReturnFullText)
	require.Contains(t, got.Inputs, "Machine: Compressor 2")
	require.Contains(t, got.Inputs, "Issue Reported: oil leak at the gasket")
}

func TestGenerate_FallbackOnFailure(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model loading", http.StatusServiceUnavailable)
		}},
		{"invalid json", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"error":`))
		}},
		{"no candidates", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		}},
		{"timeout", func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
			_, _ = w.Write([]byte(`[{"generated_text":"late"}]`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			text, generated := testGenerator(srv.URL, 100*time.Millisecond).Generate(context.Background(), sampleInput)
			require.False(t, generated)
			require.Equal(t, "Resolved by Ravi: oil leak at the gasket", text)
		})
	}
}

func TestGenerate_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	text, generated := testGenerator(url, time.Second).Generate(context.Background(), sampleInput)
	require.False(t, generated)
	require.Equal(t, FallbackReport("Ravi", "oil leak at the gasket"), text)
}

func TestSubmitReport_SavesGeneratedText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"generated_text":"Gasket replaced."}]`))
	}))
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "generated_reports.xlsx")

	in := sampleInput
	in.Unit = "  Unit 3  "
	res, err := SubmitReport(context.Background(), testGenerator(srv.URL, time.Second), path, in)
	require.NoError(t, err)
	require.True(t, res.Generated)
	require.Equal(t, "Unit 3", res.Report.Unit)
	require.Equal(t, "Gasket replaced.", res.Report.Report)

	table, err := models.LoadReports(path)
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	require.Equal(t, "Gasket replaced.", table.Rows[0][5])
	require.Equal(t, "Unit 3", table.Rows[0][1])
}

func TestSubmitReport_ValidationWritesNothing(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()
	path := filepath.Join(t.TempDir(), "generated_reports.xlsx")

	in := sampleInput
	in.Technician = "   "
	in.Issue = ""
	_, err := SubmitReport(context.Background(), testGenerator(srv.URL, time.Second), path, in)

	var ve *models.ValidationError
	require.True(t, errors.As(err, &ve))
	require.True(t, errors.Is(err, utils.ErrorValidation))
	require.Equal(t, "required", ve.Fields["technician"])
	require.Equal(t, "required", ve.Fields["issue"])
	require.Zero(t, calls)

	_, statErr := os.Stat(path)
	require.True(t, os.IsNotExist(statErr))
}

func TestBuildReportPrompt(t *testing.T) {
	prompt := BuildReportPrompt(sampleInput)
	for _, want := range []string{"Unit: Unit 3", "Technician Name: Ravi", "exactly one sentence"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
