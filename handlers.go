package main

import (
	"bytes"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mmdatafocus/maintenance_backend/config"
	"github.com/mmdatafocus/maintenance_backend/models"
	"github.com/mmdatafocus/maintenance_backend/utils"
	"github.com/mmdatafocus/maintenance_backend/workflow"
	"github.com/sirupsen/logrus"
)

const (
	slugReports    = "reports"
	slugLTPanel    = "lt-panel"
	slugCompressor = "compressor"
	slugChiller    = "chiller"
)

type handlers struct {
	settings  config.Settings
	generator *workflow.ReportGenerator
	logger    *logrus.Logger
}

// storePath maps a URL slug to its store file and logging domain.
func (h *handlers) storePath(slug string) (path string, domain string, ok bool) {
	switch slug {
	case slugReports:
		return h.settings.ReportsPath(), models.DomainReports, true
	case slugLTPanel:
		return h.settings.LTPanelPath(), models.DomainLTPanel, true
	case slugCompressor:
		return h.settings.CompressorPath(), models.DomainCompressor, true
	case slugChiller:
		return h.settings.ChillerPath(), models.DomainChiller, true
	}
	return "", "", false
}

func schemaFor(domain string) (models.ReadingSchema, bool) {
	switch domain {
	case models.DomainLTPanel:
		return models.LTPanelSchema, true
	case models.DomainCompressor:
		return models.CompressorSchema, true
	case models.DomainChiller:
		return models.ChillerSchema, true
	}
	return models.ReadingSchema{}, false
}

func respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": "please complete every field of the form", "fields": ve.Fields})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrColumnNotFound),
		errors.Is(err, models.ErrUnknownUnit),
		errors.Is(err, models.ErrUnknownChiller):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func saveResponse(result *models.SaveResult) gin.H {
	body := gin.H{"saved": result}
	if result.StyleWarning != "" {
		body["warning"] = "data saved, but formatting the spreadsheet failed"
	}
	return body
}

func (h *handlers) createReport(c *gin.Context) {
	var in workflow.ReportInput
	if err := c.ShouldBind(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	result, err := workflow.SubmitReport(c.Request.Context(), h.generator, h.settings.ReportsPath(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	body := saveResponse(result.Save)
	body["report"] = result.Report
	body["generated"] = result.Generated
	if !result.Generated {
		body["notice"] = "report generator unavailable; a standard note was saved instead"
	}
	c.JSON(http.StatusCreated, body)
}

func (h *handlers) listReports(c *gin.Context) {
	table, err := models.LoadReports(h.settings.ReportsPath())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"header": table.Header, "rows": table.Rows})
}

func (h *handlers) logLTPanel(c *gin.Context) {
	var sub models.LTPanelSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respondSaved(c, models.DomainLTPanel, func() (*models.SaveResult, error) {
		return models.LogLTPanel(h.settings.LTPanelPath(), sub)
	})
}

func (h *handlers) logCompressor(c *gin.Context) {
	var sub models.CompressorSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respondSaved(c, models.DomainCompressor, func() (*models.SaveResult, error) {
		return models.LogCompressor(h.settings.CompressorPath(), sub)
	})
}

func (h *handlers) logChiller(c *gin.Context) {
	var sub models.ChillerSubmission
	if err := c.ShouldBindJSON(&sub); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	h.respondSaved(c, models.DomainChiller, func() (*models.SaveResult, error) {
		return models.LogChiller(h.settings.ChillerPath(), sub)
	})
}

func (h *handlers) respondSaved(c *gin.Context, domain string, save func() (*models.SaveResult, error)) {
	ctx := utils.SetDomainInContext(c.Request.Context(), domain)
	c.Request = c.Request.WithContext(ctx)

	result, err := save()
	if err != nil {
		respondError(c, err)
		return
	}
	cid, _ := utils.GetCorrelationIdFromContext(ctx)
	h.logger.WithFields(logrus.Fields{
		"domain":         domain,
		"rows":           result.RowsWritten,
		"correlation_id": cid,
	}).Info("readings saved")
	c.JSON(http.StatusCreated, saveResponse(result))
}

func (h *handlers) roster(c *gin.Context) {
	_, domain, ok := h.storePath(c.Param("domain"))
	schema, hasSchema := schemaFor(domain)
	if !ok || !hasSchema {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown domain"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": schema.Roster, "header": schema.Header})
}

func (h *handlers) trendSections(c *gin.Context) {
	path, domain, ok := h.storePath(c.Param("domain"))
	if _, hasSpec := models.TrendSpecFor(domain); !ok || !hasSpec {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown domain"})
		return
	}
	sections, err := models.ListSections(path)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": sections})
}

// buildTrend reads ?sections=a,b&parameter=X for the domain in the path.
func (h *handlers) buildTrend(c *gin.Context) (*models.Trend, bool) {
	path, domain, ok := h.storePath(c.Param("domain"))
	spec, hasSpec := models.TrendSpecFor(domain)
	if !ok || !hasSpec {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown domain"})
		return nil, false
	}
	sections := config.SplitAndTrim(c.Query("sections"))
	parameter := strings.TrimSpace(c.Query("parameter"))
	if len(sections) == 0 || parameter == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sections and parameter are required"})
		return nil, false
	}
	trend, err := models.BuildTrend(path, sections, parameter, spec)
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return trend, true
}

func (h *handlers) trend(c *gin.Context) {
	trend, ok := h.buildTrend(c)
	if !ok {
		return
	}
	body := gin.H{"trend": trend, "empty": trend.Empty()}
	if trend.Empty() {
		body["message"] = "no valid data"
	}
	c.JSON(http.StatusOK, body)
}

func (h *handlers) trendChart(c *gin.Context) {
	trend, ok := h.buildTrend(c)
	if !ok {
		return
	}
	if trend.Empty() {
		c.JSON(http.StatusNotFound, gin.H{"error": "no valid data"})
		return
	}
	var buf bytes.Buffer
	if err := models.RenderTrendPNG(trend, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func (h *handlers) download(c *gin.Context) {
	path, _, ok := h.storePath(c.Param("domain"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown domain"})
		return
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "nothing has been saved yet"})
		return
	}
	c.FileAttachment(path, filepath.Base(path))
}
