package utils

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewUploader_Local(t *testing.T) {
	dir := t.TempDir()
	up, err := NewUploader(StorageProviderLocal, dir)
	require.NoError(t, err)

	payload := []byte("PK\x03\x04 workbook bytes")
	require.NoError(t, up.Upload(context.Background(), "maintenance-logs/2024-05-01/chiller_readings.xlsx", bytes.NewReader(payload)))

	got, err := os.ReadFile(filepath.Join(dir, "maintenance-logs", "2024-05-01", "chiller_readings.xlsx"))
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestNewUploader_Errors(t *testing.T) {
	_, err := NewUploader(StorageProviderLocal, " ")
	require.Error(t, err)

	_, err = NewUploader("ftp", "x")
	require.Error(t, err)

	up, err := NewUploader(StorageProviderGCS, "")
	require.NoError(t, err)
	require.Error(t, up.Upload(context.Background(), "a.xlsx", bytes.NewReader(nil)))
}

func TestDetectUploadContentType(t *testing.T) {
	zipHeader := []byte("PK\x03\x04\x14\x00\x06\x00")
	require.Equal(t, xlsxContentType, DetectUploadContentType("logs/LT_PANEL.XLSX", zipHeader))
	require.Equal(t, "application/zip", DetectUploadContentType("logs/archive.zip", zipHeader))
	require.Equal(t, "text/plain; charset=utf-8", DetectUploadContentType("notes.txt", []byte("hello")))
}
