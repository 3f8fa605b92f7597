package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mmdatafocus/maintenance_backend/config"
	"github.com/mmdatafocus/maintenance_backend/models"
	"github.com/mmdatafocus/maintenance_backend/utils"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("maintenance-dashboard")

// ReportInput is the report form. All four fields are required.
type ReportInput struct {
	Unit       string `json:"unit" form:"unit" validate:"required"`
	Machine    string `json:"machine" form:"machine" validate:"required"`
	Technician string `json:"technician" form:"technician" validate:"required"`
	Issue      string `json:"issue" form:"issue" validate:"required"`
}

func (in ReportInput) normalized() ReportInput {
	return ReportInput{
		Unit:       strings.TrimSpace(in.Unit),
		Machine:    strings.TrimSpace(in.Machine),
		Technician: strings.TrimSpace(in.Technician),
		Issue:      strings.TrimSpace(in.Issue),
	}
}

// ReportGenerator turns a report form into one sentence through a hosted text-generation
// endpoint. It makes a single attempt per call and never returns an error: any failure
// yields FallbackReport.
type ReportGenerator struct {
	endpoint     string
	apiKey       string
	maxNewTokens int
	temperature  float64
	http         *http.Client
	logger       *logrus.Logger
}

func NewReportGenerator(s config.Settings) *ReportGenerator {
	return &ReportGenerator{
		endpoint:     s.TextGenURL,
		apiKey:       s.TextGenAPIKey,
		maxNewTokens: s.TextGenMaxNewTokens,
		temperature:  s.TextGenTemperature,
		http:         &http.Client{Timeout: s.TextGenTimeout},
		logger:       config.GetLogger(),
	}
}

type textGenParameters struct {
	MaxNewTokens   int     `json:"max_new_tokens"`
	Temperature    float64 `json:"temperature"`
	ReturnFullText bool    `json:"return_full_text"`
}

type textGenRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters textGenParameters `json:"parameters"`
}

type textGenResponse []struct {
	GeneratedText string `json:"generated_text"`
}

func BuildReportPrompt(in ReportInput) string {
	return fmt.Sprintf(`
You are an expert electrical maintenance engineer. Write a concise and professional maintenance report based on the following details:
Unit: %s
Machine: %s
Technician Name: %s
Issue Reported: %s
- Write exactly one sentence describing the problem and the solution.
`, in.Unit, in.Machine, in.Technician, in.Issue)
}

func FallbackReport(technician, issue string) string {
	return fmt.Sprintf("Resolved by %s: %s", technician, issue)
}

// Generate returns the generated sentence and true, or the fallback text and false.
func (g *ReportGenerator) Generate(ctx context.Context, in ReportInput) (string, bool) {
	ctx, span := tracer.Start(ctx, "ReportGenerator.Generate")
	defer span.End()

	text, err := g.request(ctx, BuildReportPrompt(in))
	if err != nil {
		cid, _ := utils.GetCorrelationIdFromContext(ctx)
		g.logger.WithFields(logrus.Fields{
			"field":          "ReportGenerator.Generate",
			"unit":           in.Unit,
			"machine":        in.Machine,
			"correlation_id": cid,
		}).Warn("text generation failed; using fallback report: " + err.Error())
		span.SetAttributes(attribute.Bool("report.generated", false))
		return FallbackReport(in.Technician, in.Issue), false
	}
	span.SetAttributes(attribute.Bool("report.generated", true))
	return text, true
}

func (g *ReportGenerator) request(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(textGenRequest{
		Inputs: prompt,
		Parameters: textGenParameters{
			MaxNewTokens:   g.maxNewTokens,
			Temperature:    g.temperature,
			ReturnFullText: false,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("text generation error %d: %s", resp.StatusCode, utils.Truncate(strings.TrimSpace(string(body)), 200))
	}

	var parsed textGenResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", err
	}
	if len(parsed) == 0 {
		return "", fmt.Errorf("text generation returned no candidates")
	}
	return strings.TrimSpace(parsed[0].GeneratedText), nil
}

// ReportResult is what a report submission returns to the caller.
type ReportResult struct {
	Report    models.MaintenanceReport `json:"report"`
	Generated bool                     `json:"generated"`
	Save      *models.SaveResult       `json:"save"`
}

// SubmitReport validates the form, generates the note and appends it to the report store.
// Nothing is written when validation fails.
func SubmitReport(ctx context.Context, g *ReportGenerator, path string, in ReportInput) (*ReportResult, error) {
	in = in.normalized()
	if err := utils.GetValidator().Struct(in); err != nil {
		return nil, &models.ValidationError{Fields: utils.ProcessValidationErrors(err)}
	}

	text, generated := g.Generate(ctx, in)
	report := models.MaintenanceReport{
		Date:       time.Now(),
		Unit:       in.Unit,
		Machine:    in.Machine,
		Technician: in.Technician,
		Issue:      in.Issue,
		Report:     text,
	}
	save, err := models.SaveReport(path, report)
	if err != nil {
		config.LogError(g.logger, "reportWorkflow.go", "SubmitReport", "models.SaveReport", path, err)
		return nil, err
	}
	return &ReportResult{Report: report, Generated: generated, Save: save}, nil
}
