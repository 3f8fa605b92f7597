package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort             = "8080"
	defaultTextGenURL       = "https://api-inference.huggingface.co/models/mistralai/Mistral-7B-Instruct-v0.1"
	defaultTextGenTimeout   = 30 * time.Second
	defaultTextGenMaxTokens = 100
	defaultTextGenTemp      = 0.7
)

// Settings is the process configuration, read from the environment (and .env when present).
type Settings struct {
	Port string

	DataDir        string
	ReportsFile    string
	LTPanelFile    string
	CompressorFile string
	ChillerFile    string

	TextGenURL          string
	TextGenAPIKey       string
	TextGenTimeout      time.Duration
	TextGenMaxNewTokens int
	TextGenTemperature  float64

	CORSAllowedOrigins []string

	GCSBucket    string
	BackupPrefix string
}

func init() {
	// Load env from .env
	godotenv.Load()
}

func LoadSettings() Settings {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = defaultPort
	}

	return Settings{
		Port:                port,
		DataDir:             envOr("DATA_DIR", "."),
		ReportsFile:         envOr("REPORTS_FILE", "generated_reports.xlsx"),
		LTPanelFile:         envOr("LT_PANEL_FILE", "lt_panel_log.xlsx"),
		CompressorFile:      envOr("COMPRESSOR_FILE", "compressor_log.xlsx"),
		ChillerFile:         envOr("CHILLER_FILE", "chiller_readings.xlsx"),
		TextGenURL:          envOr("HF_API_URL", defaultTextGenURL),
		TextGenAPIKey:       strings.TrimSpace(os.Getenv("HF_API_KEY")),
		TextGenTimeout:      time.Duration(envInt("TEXTGEN_TIMEOUT_SECONDS", int(defaultTextGenTimeout/time.Second))) * time.Second,
		TextGenMaxNewTokens: envInt("TEXTGEN_MAX_NEW_TOKENS", defaultTextGenMaxTokens),
		TextGenTemperature:  envFloat("TEXTGEN_TEMPERATURE", defaultTextGenTemp),
		CORSAllowedOrigins:  SplitAndTrim(os.Getenv("CORS_ALLOWED_ORIGINS")),
		GCSBucket:           strings.TrimSpace(os.Getenv("GCS_BUCKET")),
		BackupPrefix:        envOr("BACKUP_PREFIX", "maintenance-logs"),
	}
}

func (s Settings) ReportsPath() string    { return filepath.Join(s.DataDir, s.ReportsFile) }
func (s Settings) LTPanelPath() string    { return filepath.Join(s.DataDir, s.LTPanelFile) }
func (s Settings) CompressorPath() string { return filepath.Join(s.DataDir, s.CompressorFile) }
func (s Settings) ChillerPath() string    { return filepath.Join(s.DataDir, s.ChillerFile) }

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// envInt ignores unparsable and non-positive values.
func envInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			return f
		}
	}
	return fallback
}

func SplitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
