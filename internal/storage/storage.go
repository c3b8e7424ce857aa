// Package storage puts and removes publicly readable objects on one of
// several object-store backends.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/taskpulse/apiserver/config"
)

// ObjectStorage defines common object operations across backends.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns the public address of key. URL("") is the common prefix
	// of every object URL the backend hands out.
	URL(key string) string
	Bucket() string
}

// New selects and constructs the configured backend.
func New(ctx context.Context, cfg config.StorageConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", config.StorageBackendMinio:
		return NewMinioClient(cfg.Minio)
	case config.StorageBackendGCS:
		return NewGCSClient(ctx, cfg.GCS)
	case config.StorageBackendS3:
		return NewS3Client(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// KeyFromURL recovers the object key from a URL produced by s.URL.
func KeyFromURL(s ObjectStorage, objectURL string) (string, error) {
	prefix := s.URL("")
	if !strings.HasPrefix(objectURL, prefix) {
		return "", errors.New("url does not belong to this bucket")
	}
	key := strings.TrimPrefix(objectURL, prefix)
	if key == "" {
		return "", errors.New("url has no object key")
	}
	return key, nil
}

func joinURL(base string, parts ...string) string {
	out := strings.TrimRight(base, "/")
	for _, p := range parts {
		out += "/" + strings.Trim(p, "/")
	}
	return out
}
