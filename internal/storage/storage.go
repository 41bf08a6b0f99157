package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"

	cfg "github.com/onyxhabits/onyx/internal/config"
)

var ErrStorageDisabled = errors.New("file storage is not configured")

// Storage defines the interface for file storage operations
type Storage interface {
	// Save stores a file at the given path
	Save(ctx context.Context, path string, file io.Reader, contentType string) error

	// Delete removes a file at the given path
	Delete(ctx context.Context, path string) error

	// URL returns a URL the browser can load the file from
	URL(ctx context.Context, path string) string

	// Enabled reports whether uploads are accepted
	Enabled() bool
}

// New picks S3 storage when a bucket is configured and a disabled store otherwise.
func New(c *cfg.Config) (Storage, error) {
	if !c.StorageEnabled() {
		slog.Info("file storage disabled, avatar uploads unavailable", "hint", "set S3_BUCKET to enable")
		return Disabled{}, nil
	}

	slog.Info("initializing S3 storage",
		"bucket", c.S3Bucket,
		"region", c.S3Region,
		"endpoint", c.S3Endpoint,
	)
	return NewS3Storage(S3Config{
		Region:              c.S3Region,
		Bucket:              c.S3Bucket,
		AccessKey:           c.S3AccessKey,
		SecretKey:           c.S3SecretKey,
		Endpoint:            c.S3Endpoint,
		PresignExpiryPublic: c.S3PresignExpiryPublic,
	})
}

// Disabled rejects every write and resolves no URLs.
type Disabled struct{}

func (Disabled) Save(context.Context, string, io.Reader, string) error {
	return ErrStorageDisabled
}

func (Disabled) Delete(context.Context, string) error {
	return ErrStorageDisabled
}

func (Disabled) URL(context.Context, string) string {
	return ""
}

func (Disabled) Enabled() bool {
	return false
}
