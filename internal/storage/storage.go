// Package storage contains object storage abstractions for S3-compatible backends.
// Implementations avoid local disk and rely on streaming I/O only.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"cmsapi/internal/config"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
	// PublicRead grants anonymous read access to the stored object.
	PublicRead bool
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
}

// Storage is a reusable, S3-compatible object storage client interface.
// Implementations are safe for concurrent use.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
}

// New builds the Storage selected by cfg.Driver.
func New(cfg config.StorageConfig) (Storage, error) {
	switch cfg.Driver {
	case "", "minio":
		return NewMinIO(cfg)
	case "s3":
		return NewS3(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

// PublicBaseURL returns the prefix that, joined with an object key, yields the object's public URL.
// An explicit cfg.PublicBaseURL (typically a CDN) wins; otherwise it is derived from the endpoint.
func PublicBaseURL(cfg config.StorageConfig) string {
	if cfg.PublicBaseURL != "" {
		return strings.TrimRight(cfg.PublicBaseURL, "/")
	}
	if cfg.Driver == "s3" && cfg.Endpoint == "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
	return strings.TrimRight(endpointURL(cfg), "/") + "/" + cfg.Bucket
}

// endpointURL returns the endpoint with a scheme, honoring UseSSL when none is given.
func endpointURL(cfg config.StorageConfig) string {
	if strings.HasPrefix(cfg.Endpoint, "http://") || strings.HasPrefix(cfg.Endpoint, "https://") {
		return cfg.Endpoint
	}
	if cfg.UseSSL {
		return "https://" + cfg.Endpoint
	}
	return "http://" + cfg.Endpoint
}

func validate(cfg config.StorageConfig) error {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return fmt.Errorf("storage credentials are required")
	}
	if cfg.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	return nil
}
