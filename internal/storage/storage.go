// Package storage holds uploaded file content. Blobs are addressed by random
// keys that never contain the client-supplied file name.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	cfg "github.com/templui/tagbox/internal/config"
)

var (
	ErrBlobNotFound = errors.New("blob not found")
	ErrInvalidKey   = errors.New("invalid blob key")
)

// Storage defines the interface for blob storage operations
type Storage interface {
	// Save stores the content of r under key
	Save(ctx context.Context, key string, r io.Reader) error

	// Open returns the content stored under key. The caller closes it.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

// New creates the storage backend selected by STORAGE_DRIVER
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case cfg.StorageDriverLocal:
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir)
	case cfg.StorageDriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}

// NewKey returns a fresh random key that keeps the lowercased extension of filename
func NewKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !validExt(ext) {
		ext = ""
	}
	return uuid.New().String() + ext
}

// validExt accepts short alphanumeric extensions only
func validExt(ext string) bool {
	if len(ext) < 2 || len(ext) > 16 || ext[0] != '.' {
		return false
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// validKey rejects keys that could escape the storage root
func validKey(key string) bool {
	return key != "" && key != "." && key != ".." &&
		!strings.ContainsAny(key, `/\`) && !strings.Contains(key, "..")
}
