// backup-logs copies the maintenance spreadsheets to off-site storage.
//
// Usage (from backend directory):
//   GCS_BUCKET=... go run ./cmd/backup-logs
//   STORAGE_PROVIDER=local go run ./cmd/backup-logs -dest /mnt/backup
//
// Objects are written as <BACKUP_PREFIX>/<YYYY-MM-DD>/<file name>. Files that were never
// created are skipped.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/mmdatafocus/maintenance_backend/config"
	"github.com/mmdatafocus/maintenance_backend/utils"
	"github.com/sirupsen/logrus"
)

func main() {
	dest := flag.String("dest", "", "destination directory (STORAGE_PROVIDER=local)")
	flag.Parse()

	settings := config.LoadSettings()
	logger := config.GetLogger()

	provider := utils.GetStorageProvider()
	target := settings.GCSBucket
	if provider == utils.StorageProviderLocal {
		target = *dest
	}
	uploader, err := utils.NewUploader(provider, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "backup-logs: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	day := time.Now().Format("2006-01-02")
	files := []string{settings.ReportsPath(), settings.LTPanelPath(), settings.CompressorPath(), settings.ChillerPath()}

	failed := 0
	for _, p := range files {
		object := path.Join(settings.BackupPrefix, day, filepath.Base(p))
		if err := backupFile(ctx, uploader, p, object); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				logger.WithFields(logrus.Fields{"file": p}).Info("skipping backup; file not created yet")
				continue
			}
			config.LogError(logger, "backup-logs", "main", "backupFile", p, err)
			failed++
			continue
		}
		logger.WithFields(logrus.Fields{"file": p, "object": object, "provider": provider}).Info("backed up")
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func backupFile(ctx context.Context, uploader utils.Uploader, file, object string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	return uploader.Upload(ctx, object, f)
}
