package utils

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	StorageProviderGCS   = "gcs"
	StorageProviderLocal = "local"
)

// Uploader copies one file to off-site (or off-disk) storage.
type Uploader interface {
	Upload(ctx context.Context, objectName string, r io.Reader) error
}

func GetStorageProvider() string {
	provider := strings.TrimSpace(strings.ToLower(os.Getenv("STORAGE_PROVIDER")))
	if provider == "" {
		return StorageProviderGCS
	}
	return provider
}

// NewUploader returns the uploader for provider. target is the bucket for gcs and the
// destination directory for local.
func NewUploader(provider, target string) (Uploader, error) {
	switch provider {
	case StorageProviderGCS:
		return gcsUploader{bucket: target}, nil
	case StorageProviderLocal:
		if strings.TrimSpace(target) == "" {
			return nil, fmt.Errorf("local backup directory is required")
		}
		return localUploader{dir: target}, nil
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", provider)
	}
}

type localUploader struct {
	dir string
}

func (u localUploader) Upload(_ context.Context, objectName string, r io.Reader) error {
	dest := filepath.Join(u.dir, filepath.FromSlash(objectName))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
